package zone

import (
	"testing"

	"github.com/dpark/district-planner/geo"
)

func testBounds() geo.Bounds {
	return geo.Bounds{MinLat: 37.40, MaxLat: 37.60, MinLon: 126.90, MaxLon: 127.20}
}

func TestZoneOfRoundTripsCellCenters(t *testing.T) {
	g := New(testBounds(), 30)
	dLat := (37.60 - 37.40) / 30
	dLon := (127.20 - 126.90) / 30

	for i := 0; i < 30; i++ {
		for j := 0; j < 30; j++ {
			lat := 37.40 + (float64(i)+0.5)*dLat
			lon := 126.90 + (float64(j)+0.5)*dLon
			got := g.ZoneOf(geo.Coord{Lat: lat, Lon: lon})
			if got.I != i || got.J != j {
				t.Fatalf("ZoneOf(center of %d,%d) = %v, want (%d,%d)", i, j, got, i, j)
			}
		}
	}
}

func TestZoneOfClampsOutOfBounds(t *testing.T) {
	g := New(testBounds(), 30)
	got := g.ZoneOf(geo.Coord{Lat: 100, Lon: 200})
	if got.I != 29 || got.J != 29 {
		t.Fatalf("ZoneOf(out of bounds) = %v, want (29,29) clamped", got)
	}
	got = g.ZoneOf(geo.Coord{Lat: -100, Lon: -200})
	if got.I != 0 || got.J != 0 {
		t.Fatalf("ZoneOf(out of bounds negative) = %v, want (0,0) clamped", got)
	}
}

func TestZoneDistanceChebyshev(t *testing.T) {
	d := ZoneDistance(Cell{I: 2, J: 5}, Cell{I: 5, J: 6})
	if d != 3 {
		t.Fatalf("ZoneDistance = %d, want 3 (Chebyshev)", d)
	}
}

func TestStrategyForTable(t *testing.T) {
	cases := []struct {
		d    int
		name string
	}{
		{0, "mobility_only"},
		{1, "mobility_first"},
		{2, "mobility_preferred"},
		{3, "balanced"},
		{4, "transit_preferred"},
		{5, "transit_first"},
		{6, "transit_only"},
		{100, "transit_only"},
	}
	for _, c := range cases {
		s := StrategyFor(c.d)
		if s.Name != c.name {
			t.Errorf("StrategyFor(%d).Name = %q, want %q", c.d, s.Name, c.name)
		}
		if fw := s.WMob + s.WTr; fw < 0.99 || fw > 1.01 {
			t.Errorf("StrategyFor(%d) weights sum to %v, want ~1.0", c.d, fw)
		}
	}
}

func TestNeighborsBounded(t *testing.T) {
	g := New(testBounds(), 30)
	n := g.Neighbors(Cell{I: 0, J: 0}, 1)
	if len(n) != 4 {
		t.Fatalf("len(Neighbors corner, r=1) = %d, want 4 (clamped out of bounds)", len(n))
	}
	n = g.Neighbors(Cell{I: 15, J: 15}, 1)
	if len(n) != 9 {
		t.Fatalf("len(Neighbors interior, r=1) = %d, want 9", len(n))
	}
}
