// Package spatial implements C1: a static nearest-neighbor structure over
// stops and mobility vehicles. The teacher's graph.IGraphIndex exposes a
// single GetClosestNode(point) — this spec needs radius queries with a kind
// filter instead, so the interface is generalized but the "static index
// built once over an immutable point set" shape is kept.
package spatial

import (
	"math"
	"sort"

	"github.com/dpark/district-planner/geo"
)

// Kind tags what an indexed point represents, so WithinRadius can filter
// without the caller re-deriving it from the id.
type Kind string

const (
	KindStopBus           Kind = "stop:bus"
	KindStopMetro         Kind = "stop:metro"
	KindStopBikeDock      Kind = "stop:bike-dock"
	KindStopMobilityCell  Kind = "stop:mobility-cell"
	KindMobilityBike      Kind = "mobility:bike"
	KindMobilityKickboard Kind = "mobility:kickboard"
	KindMobilityEBike     Kind = "mobility:ebike"
)

// Item is one indexed point: a stop or a mobility vehicle.
type Item struct {
	ID   string
	Loc  geo.Coord
	Kind Kind
}

// Result is one hit from WithinRadius, sorted ascending by Meters.
type Result struct {
	ID     string
	Kind   Kind
	Meters float64
}

// cellSizeMeters matches spec §4.1's "a uniform 100m grid suffices at
// district scale".
const cellSizeMeters = 100.0

type cellKey struct{ i, j int }

// Index is a uniform-grid spatial index (one of the three acceptable shapes
// in spec §4.1 — grid-bucket, k-d tree, ball tree). Built once over an
// immutable point set; read-only thereafter, so concurrent queries share it
// without synchronization (spec §5).
type Index struct {
	cells       map[cellKey][]Item
	cellSizeLat float64
	cellSizeLon float64
	originLat   float64
}

// Build constructs a spatial index over the given items. Typically called
// once at dataset load time with all stops, and again with all mobility
// vehicles (or as a single combined index — WithinRadius's kind filter makes
// either organization work).
func Build(items []Item) *Index {
	idx := &Index{
		cells:       make(map[cellKey][]Item),
		cellSizeLat: cellSizeMeters / 111320.0,
	}
	if len(items) == 0 {
		idx.cellSizeLon = idx.cellSizeLat
		return idx
	}
	idx.originLat = items[0].Loc.Lat
	metersPerDegreeLon := 111320.0 * math.Cos(idx.originLat*math.Pi/180)
	if metersPerDegreeLon < 1 {
		metersPerDegreeLon = 1
	}
	idx.cellSizeLon = cellSizeMeters / metersPerDegreeLon

	for _, it := range items {
		key := idx.cellOf(it.Loc)
		idx.cells[key] = append(idx.cells[key], it)
	}
	return idx
}

func (idx *Index) cellOf(c geo.Coord) cellKey {
	return cellKey{
		i: int(math.Floor(c.Lat / idx.cellSizeLat)),
		j: int(math.Floor(c.Lon / idx.cellSizeLon)),
	}
}

// WithinRadius returns every indexed item within radiusMeters of p, sorted
// ascending by distance. kindFilter, if non-empty, restricts results to
// those kinds.
func (idx *Index) WithinRadius(p geo.Coord, radiusMeters float64, kindFilter ...Kind) []Result {
	allow := make(map[Kind]bool, len(kindFilter))
	for _, k := range kindFilter {
		allow[k] = true
	}

	center := idx.cellOf(p)
	cellRadiusLat := int(math.Ceil(radiusMeters/111320.0/idx.cellSizeLat)) + 1
	metersPerDegreeLon := 111320.0 * math.Cos(p.Lat*math.Pi/180)
	if metersPerDegreeLon < 1 {
		metersPerDegreeLon = 1
	}
	cellRadiusLon := int(math.Ceil(radiusMeters/metersPerDegreeLon/idx.cellSizeLon)) + 1
	cellRadius := cellRadiusLat
	if cellRadiusLon > cellRadius {
		cellRadius = cellRadiusLon
	}

	var out []Result
	for di := -cellRadius; di <= cellRadius; di++ {
		for dj := -cellRadius; dj <= cellRadius; dj++ {
			key := cellKey{i: center.i + di, j: center.j + dj}
			for _, it := range idx.cells[key] {
				if len(allow) > 0 && !allow[it.Kind] {
					continue
				}
				d := geo.HaversineMeters(p, it.Loc)
				if d <= radiusMeters {
					out = append(out, Result{ID: it.ID, Kind: it.Kind, Meters: d})
				}
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Meters < out[j].Meters })
	return out
}

// Neighbors returns every item within the (2r+1)x(2r+1) block of grid cells
// around p's cell, without a distance cutoff — used by the zone-based
// mobility expansion in C5, which prunes by zone rather than by radius.
func (idx *Index) Neighbors(p geo.Coord, cellRadius int, kindFilter ...Kind) []Result {
	allow := make(map[Kind]bool, len(kindFilter))
	for _, k := range kindFilter {
		allow[k] = true
	}
	center := idx.cellOf(p)
	var out []Result
	for di := -cellRadius; di <= cellRadius; di++ {
		for dj := -cellRadius; dj <= cellRadius; dj++ {
			key := cellKey{i: center.i + di, j: center.j + dj}
			for _, it := range idx.cells[key] {
				if len(allow) > 0 && !allow[it.Kind] {
					continue
				}
				out = append(out, Result{ID: it.ID, Kind: it.Kind, Meters: geo.HaversineMeters(p, it.Loc)})
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Meters < out[j].Meters })
	return out
}
