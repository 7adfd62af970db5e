package config

import "github.com/dpark/district-planner/internal/dataset"

// TariffTable converts the config's override fields into a
// dataset.TariffTable, falling back to spec defaults for any zero field.
func (c Config) TariffTable() dataset.TariffTable {
	d := dataset.DefaultTariffTable()
	t := c.Tariffs
	if t.BikeUnlock != 0 {
		d.Bike.UnlockFee = t.BikeUnlock
	}
	if t.KickboardUnlock != 0 {
		d.Kickboard.UnlockFee = t.KickboardUnlock
	}
	if t.KickboardPerMinute != 0 {
		d.Kickboard.PerMinute = t.KickboardPerMinute
	}
	if t.EBikeUnlock != 0 {
		d.EBike.UnlockFee = t.EBikeUnlock
	}
	if t.EBikePerMinute != 0 {
		d.EBike.PerMinute = t.EBikePerMinute
	}
	if t.TransitFlat != 0 {
		d.TransitFlat = t.TransitFlat
	}
	if t.HybridSurchargePerKm != 0 {
		d.HybridSurchargePerKm = t.HybridSurchargePerKm
	}
	return d
}
