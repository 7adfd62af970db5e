// Package zone implements C3: the pure, stateless zone grid that maps
// lat/lon to an integer cell and derives the routing strategy from
// Chebyshev zone distance (spec §3/§4.3).
package zone

import (
	"math"

	"github.com/dpark/district-planner/geo"
)

// Cell is an (i, j) grid cell, 0 <= i,j < G.
type Cell struct {
	I, J int
}

// Grid tiles a bounding box into a GxG grid of zones. It holds no state
// beyond its own parameters and is safe for unsynchronized concurrent use,
// matching the "Pure, stateless" requirement in spec §4.3.
type Grid struct {
	bounds geo.Bounds
	size   int
}

func New(bounds geo.Bounds, size int) *Grid {
	if size <= 0 {
		size = 30
	}
	return &Grid{bounds: bounds, size: size}
}

// ZoneOf maps a coordinate to its zone cell, clamped to [0, G).
func (g *Grid) ZoneOf(c geo.Coord) Cell {
	dLat := g.bounds.MaxLat - g.bounds.MinLat
	dLon := g.bounds.MaxLon - g.bounds.MinLon
	if dLat <= 0 {
		dLat = 1
	}
	if dLon <= 0 {
		dLon = 1
	}
	i := int(math.Floor((c.Lat - g.bounds.MinLat) / (dLat / float64(g.size))))
	j := int(math.Floor((c.Lon - g.bounds.MinLon) / (dLon / float64(g.size))))
	return Cell{I: clamp(i, g.size), J: clamp(j, g.size)}
}

func clamp(v, size int) int {
	if v < 0 {
		return 0
	}
	if v >= size {
		return size - 1
	}
	return v
}

// ZoneDistance is the Chebyshev distance between two zones.
func ZoneDistance(a, b Cell) int {
	di := a.I - b.I
	if di < 0 {
		di = -di
	}
	dj := a.J - b.J
	if dj < 0 {
		dj = -dj
	}
	if di > dj {
		return di
	}
	return dj
}

// Neighbors returns every zone within Chebyshev radius r of c, clamped to
// the grid's bounds. Up to (2r+1)^2 cells.
func (g *Grid) Neighbors(c Cell, radius int) []Cell {
	var out []Cell
	for di := -radius; di <= radius; di++ {
		for dj := -radius; dj <= radius; dj++ {
			i, j := c.I+di, c.J+dj
			if i < 0 || i >= g.size || j < 0 || j >= g.size {
				continue
			}
			out = append(out, Cell{I: i, J: j})
		}
	}
	return out
}

// Strategy is the (weights, name) tuple derived from zone distance (spec §3
// table).
type Strategy struct {
	Name string
	WMob float64
	WTr  float64
}

// StrategyFor looks up the routing strategy for a given zone distance.
func StrategyFor(d int) Strategy {
	switch {
	case d == 0:
		return Strategy{Name: "mobility_only", WMob: 1.0, WTr: 0.0}
	case d == 1:
		return Strategy{Name: "mobility_first", WMob: 0.8, WTr: 0.2}
	case d == 2:
		return Strategy{Name: "mobility_preferred", WMob: 0.7, WTr: 0.3}
	case d == 3:
		return Strategy{Name: "balanced", WMob: 0.5, WTr: 0.5}
	case d == 4:
		return Strategy{Name: "transit_preferred", WMob: 0.3, WTr: 0.7}
	case d == 5:
		return Strategy{Name: "transit_first", WMob: 0.2, WTr: 0.8}
	default:
		return Strategy{Name: "transit_only", WMob: 0.1, WTr: 0.9}
	}
}
