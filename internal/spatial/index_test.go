package spatial

import (
	"testing"

	"github.com/dpark/district-planner/geo"
)

func TestWithinRadiusSortedAscendingAndFiltered(t *testing.T) {
	idx := Build([]Item{
		{ID: "near", Loc: geo.Coord{Lat: 37.5000, Lon: 127.0000}, Kind: KindMobilityBike},
		{ID: "far", Loc: geo.Coord{Lat: 37.5050, Lon: 127.0050}, Kind: KindMobilityBike},
		{ID: "wrong-kind", Loc: geo.Coord{Lat: 37.5001, Lon: 127.0001}, Kind: KindMobilityKickboard},
	})

	results := idx.WithinRadius(geo.Coord{Lat: 37.5000, Lon: 127.0000}, 2000, KindMobilityBike)
	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2 (kind filter should drop kickboard)", len(results))
	}
	if results[0].ID != "near" || results[1].ID != "far" {
		t.Fatalf("results = %+v, want near before far (ascending distance)", results)
	}
	for i := 1; i < len(results); i++ {
		if results[i].Meters < results[i-1].Meters {
			t.Fatalf("results not sorted ascending: %+v", results)
		}
	}
}

func TestWithinRadiusExcludesOutOfRange(t *testing.T) {
	idx := Build([]Item{
		{ID: "s1", Loc: geo.Coord{Lat: 37.5000, Lon: 127.0000}, Kind: KindStopBus},
		{ID: "s2", Loc: geo.Coord{Lat: 37.6000, Lon: 127.2000}, Kind: KindStopBus},
	})
	results := idx.WithinRadius(geo.Coord{Lat: 37.5000, Lon: 127.0000}, 500)
	if len(results) != 1 || results[0].ID != "s1" {
		t.Fatalf("results = %+v, want only s1 within 500m", results)
	}
}

func TestNeighborsIgnoresRadiusCutoff(t *testing.T) {
	idx := Build([]Item{
		{ID: "s1", Loc: geo.Coord{Lat: 37.5000, Lon: 127.0000}, Kind: KindStopBus},
	})
	results := idx.Neighbors(geo.Coord{Lat: 37.5000, Lon: 127.0000}, 1)
	if len(results) != 1 {
		t.Fatalf("len(results) = %d, want 1", len(results))
	}
}
