package geo

import (
	"math"
	"testing"
)

func TestHaversineMetersZeroForIdenticalPoints(t *testing.T) {
	c := Coord{Lat: 37.4979, Lon: 127.0276}
	if d := HaversineMeters(c, c); d != 0 {
		t.Fatalf("HaversineMeters(c, c) = %v, want 0", d)
	}
}

func TestHaversineMetersKnownShortHop(t *testing.T) {
	a := Coord{Lat: 37.4979, Lon: 127.0276}
	b := Coord{Lat: 37.5007, Lon: 127.0363}
	d := HaversineMeters(a, b)
	// roughly 830m apart; assert within a generous band to avoid coupling
	// the test to the exact approximation constants.
	if d < 500 || d > 1500 {
		t.Fatalf("HaversineMeters = %v, want in [500, 1500]", d)
	}
}

func TestBoundsContains(t *testing.T) {
	b := Bounds{MinLat: 37.4, MaxLat: 37.6, MinLon: 126.9, MaxLon: 127.2}
	inside := Coord{Lat: 37.5, Lon: 127.0}
	outside := Coord{Lat: 38.0, Lon: 127.0}
	if !b.Contains(inside) {
		t.Fatalf("Contains(inside) = false, want true")
	}
	if b.Contains(outside) {
		t.Fatalf("Contains(outside) = true, want false")
	}
}

func TestQuantizeMetersStable(t *testing.T) {
	c := Coord{Lat: 37.49791234, Lon: 127.02761234}
	q1 := QuantizeMeters(c, 5)
	q2 := QuantizeMeters(Coord{Lat: 37.49791999, Lon: 127.02761999}, 5)
	if math.Abs(q1.Lat-q2.Lat) > 1e-9 || math.Abs(q1.Lon-q2.Lon) > 1e-9 {
		t.Fatalf("QuantizeMeters not stable across nearby points: %v vs %v", q1, q2)
	}
}
