// Package dataset models the immutable routing dataset the planning core
// consumes (spec §3/§6): stops, routes, trips, timetables, transfers and
// mobility vehicles. Nothing in this package mutates after Build returns —
// the same structure is shared, read-only, across every concurrent query,
// mirroring the teacher's Transit/GraphBase component split in comps/.
package dataset

import (
	"fmt"

	"github.com/dpark/district-planner/geo"
)

// StopKind tags what an addressable point in the network actually is.
type StopKind byte

const (
	StopBus StopKind = iota
	StopMetro
	StopBikeDock
	StopMobilityCell
)

func (k StopKind) String() string {
	switch k {
	case StopBus:
		return "bus"
	case StopMetro:
		return "metro"
	case StopBikeDock:
		return "bike-dock"
	case StopMobilityCell:
		return "mobility-cell"
	default:
		return "unknown"
	}
}

// StopID is an interned string id; kept as a string rather than an integer
// index so dataset loaders can hand through whatever ids the upstream GTFS
// feed and virtual-station generator already assigned.
type StopID string

// RouteID identifies a Route — a stop sequence shared by a family of trips,
// not a single journey's path through the network.
type RouteID string

// Stop is an addressable point in the network: a bus/metro stop, a docked
// bike station, or a virtual mobility cell (§3).
type Stop struct {
	ID   StopID
	Name string
	Loc  geo.Coord
	Kind StopKind
}

// RouteMode is the family of trips a Route represents.
type RouteMode byte

const (
	ModeBus RouteMode = iota
	ModeMetro
	ModeVirtualMobility
)

// Route is an ordered sequence of stops served by a family of Trips. Circular
// metro lines must already be split into two directed variants (inner/outer)
// by the loader — this package only enforces that each Route's stop sequence
// is internally consistent, not that it is acyclic in the network sense.
type Route struct {
	ID       RouteID
	Mode     RouteMode
	Label    string
	StopIDs  []StopID
	Directed bool
}

// Trip is one concrete scheduled pass along a Route: arrival/departure
// seconds-of-day per stop position, same length as Route.StopIDs. Seconds
// may exceed 86400 for trips that cross midnight (spec §4.4 edge cases);
// comparisons remain well-defined since they're plain integers.
type Trip struct {
	ID        string
	RouteID   RouteID
	Arrival   []int32
	Departure []int32
}

// Timetable is the 2D schedule for one route: Trips[tripIndex] gives the
// per-stop-position (arrival, departure) pair. Trips are stored in
// non-decreasing departure order at every stop position so RAPTOR's route
// scan can binary-search for the earliest boardable trip.
type Timetable struct {
	RouteID RouteID
	Trips   []Trip
}

// EarliestTripFrom returns the index of the earliest trip whose departure at
// stopPos is >= earliestDeparture, or -1 if none qualifies. Binary search
// relies on the per-position monotone-departure invariant.
func (tt *Timetable) EarliestTripFrom(stopPos int, earliestDeparture int32) int {
	lo, hi := 0, len(tt.Trips)
	for lo < hi {
		mid := (lo + hi) / 2
		if tt.Trips[mid].Departure[stopPos] < earliestDeparture {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo == len(tt.Trips) {
		return -1
	}
	return lo
}

// Transfer is a precomputed undirected walking connection between two stops.
type Transfer struct {
	To          StopID
	WalkSeconds int32
}

// MobilityMode is the kind of shared micro-mobility vehicle.
type MobilityMode byte

const (
	MobilityBike MobilityMode = iota
	MobilityKickboard
	MobilityEBike
)

func (m MobilityMode) String() string {
	switch m {
	case MobilityBike:
		return "bike"
	case MobilityKickboard:
		return "kickboard"
	case MobilityEBike:
		return "ebike"
	default:
		return "unknown"
	}
}

// MetersPerSecond returns the travel rate the core uses for this mode (§4.2):
// walking is handled separately since it isn't a MobilityMode.
func (m MobilityMode) MetersPerSecond() float64 {
	switch m {
	case MobilityBike:
		return 4.17
	case MobilityKickboard, MobilityEBike:
		return 5.56
	default:
		return 1.2
	}
}

// WalkMetersPerSecond is the constant walking rate of the core (§4.2).
const WalkMetersPerSecond = 1.2

// MobilityVehicle is a docked bike station or a virtual station aggregating
// free-floating scooters/e-bikes (§3). Availability is static/nominal for
// this spec — no real-time occupancy model.
type MobilityVehicle struct {
	ID   string
	Loc  geo.Coord
	Mode MobilityMode
}

// Tariff is a flat-unlock-plus-per-minute fare, the only pricing shape this
// spec supports (§6: "fare-accurate pricing beyond simple flat/linear
// tariffs" is explicitly out of scope).
type Tariff struct {
	UnlockFee int64
	PerMinute int64
}

// Cost bills a ride, rounding ride time up to the next whole minute before
// applying PerMinute — recovered from original_source/PART2_HYBRID.py, which
// bills a 90 second kickboard ride as 2 minutes rather than 1.5.
func (t Tariff) Cost(rideSeconds float64) int64 {
	minutes := int64(rideSeconds / 60)
	if rideSeconds-float64(minutes*60) > 0 {
		minutes++
	}
	return t.UnlockFee + t.PerMinute*minutes
}

// TariffTable holds every fare constant the core needs, data-driven per
// dataset rather than hardcoded (spec §9 Open Questions: "the tariff
// constants above are examples; keep them data-driven").
type TariffTable struct {
	Bike                 Tariff
	Kickboard            Tariff
	EBike                Tariff
	TransitFlat          int64
	HybridSurchargePerKm int64
}

// DefaultTariffTable returns the constants enumerated in spec §6.
func DefaultTariffTable() TariffTable {
	return TariffTable{
		Bike:                 Tariff{UnlockFee: 1000, PerMinute: 0},
		Kickboard:            Tariff{UnlockFee: 1200, PerMinute: 150},
		EBike:                Tariff{UnlockFee: 1500, PerMinute: 180},
		TransitFlat:          1370,
		HybridSurchargePerKm: 100,
	}
}

// ForMode returns the fare for a mobility mode.
func (tt TariffTable) ForMode(mode MobilityMode) Tariff {
	switch mode {
	case MobilityBike:
		return tt.Bike
	case MobilityKickboard:
		return tt.Kickboard
	case MobilityEBike:
		return tt.EBike
	default:
		panic(fmt.Sprintf("dataset: unknown mobility mode %v", mode))
	}
}

// RoutingDataset is the immutable, shared-across-queries structure the
// planner is built over (spec §6 "Dataset loader (consumed)").
type RoutingDataset struct {
	Stops       map[StopID]*Stop
	Routes      map[RouteID]*Route
	Timetables  map[RouteID]*Timetable
	Transfers   map[StopID][]Transfer
	Vehicles    []MobilityVehicle
	Bounds      geo.Bounds
	GridSize    int
	Tariffs     TariffTable
	// ServingRoutes maps a stop to every route that serves it — built at
	// load time so RAPTOR's route scan doesn't have to search every route.
	ServingRoutes map[StopID][]RouteID
}
