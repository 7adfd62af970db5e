package planner

import (
	"fmt"
	"sort"

	"github.com/dpark/district-planner/geo"
	"github.com/dpark/district-planner/internal/dataset"
	"github.com/dpark/district-planner/internal/oracle"
	"github.com/dpark/district-planner/internal/raptor"
	"github.com/dpark/district-planner/internal/spatial"
	"github.com/dpark/district-planner/internal/zone"
)

// ErrOutOfBounds is returned when origin or destination lies outside the
// district bounding box (spec §6/§7).
type ErrOutOfBounds struct {
	Lat, Lon float64
}

func (e *ErrOutOfBounds) Error() string {
	return fmt.Sprintf("planner: point (%v,%v) lies outside district bounds", e.Lat, e.Lon)
}

// Logger is the minimal logging surface the planner needs.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Info(string, ...any) {}
func (noopLogger) Warn(string, ...any) {}

// Planner is the process-wide C5 handle: one immutable dataset plus the
// process-wide C1/C2 structures it was built over. Plan owns every
// per-query structure it allocates and releases it at return (spec §5).
type Planner struct {
	ds     *dataset.RoutingDataset
	stops  *spatial.Index // all stops, kind = stop:*
	veh    *spatial.Index // all mobility vehicles, kind = mobility:*
	oracle *oracle.Oracle
	grid   *zone.Grid
	raptor *raptor.Engine
	log    Logger
}

// New builds a Planner over an immutable dataset, constructing the spatial
// indexes, zone grid and RAPTOR engine once (spec §5: "process-wide
// read-only shared state initialized once").
func New(ds *dataset.RoutingDataset, oc *oracle.Oracle, log Logger) *Planner {
	if log == nil {
		log = noopLogger{}
	}
	stopItems := make([]spatial.Item, 0, len(ds.Stops))
	for id, s := range ds.Stops {
		stopItems = append(stopItems, spatial.Item{ID: string(id), Loc: s.Loc, Kind: stopKindToSpatial(s.Kind)})
	}
	vehItems := make([]spatial.Item, 0, len(ds.Vehicles))
	for _, v := range ds.Vehicles {
		vehItems = append(vehItems, spatial.Item{ID: v.ID, Loc: v.Loc, Kind: mobilityModeToSpatial(v.Mode)})
	}
	return &Planner{
		ds:     ds,
		stops:  spatial.Build(stopItems),
		veh:    spatial.Build(vehItems),
		oracle: oc,
		grid:   zone.New(ds.Bounds, ds.GridSize),
		raptor: raptor.NewEngine(ds),
		log:    log,
	}
}

// Metrics is the combined oracle/RAPTOR metrics surface a Planner can
// report through; internal/metrics.Metrics satisfies it.
type Metrics interface {
	oracle.Counters
	raptor.RoundsCounter
}

// SetMetrics wires m into both the road distance oracle and the RAPTOR
// engine. Safe to skip — both report to no-op sinks by default.
func (p *Planner) SetMetrics(m Metrics) {
	p.oracle.SetCounters(m)
	p.raptor.SetRoundsCounter(m)
}

func stopKindToSpatial(k dataset.StopKind) spatial.Kind {
	switch k {
	case dataset.StopBus:
		return spatial.KindStopBus
	case dataset.StopMetro:
		return spatial.KindStopMetro
	case dataset.StopBikeDock:
		return spatial.KindStopBikeDock
	default:
		return spatial.KindStopMobilityCell
	}
}

func mobilityModeToSpatial(m dataset.MobilityMode) spatial.Kind {
	switch m {
	case dataset.MobilityBike:
		return spatial.KindMobilityBike
	case dataset.MobilityKickboard:
		return spatial.KindMobilityKickboard
	default:
		return spatial.KindMobilityEBike
	}
}

// Query bundles one plan() invocation's input (spec §6 "Planner API").
type Query struct {
	Origin         geo.Coord
	Destination    geo.Coord
	DepartureSec   int32
	Preference     RoutePreference
	DeadlineUnixNs int64 // 0 means no deadline; see toDeadline in deadline.go
}

const kMaxDefault = 4

// vehicleByID looks up a dataset.MobilityVehicle by id; used after a
// spatial.Result hit to recover its mode/location.
func (p *Planner) vehicleByID(id string) (dataset.MobilityVehicle, bool) {
	for _, v := range p.ds.Vehicles {
		if v.ID == id {
			return v, true
		}
	}
	return dataset.MobilityVehicle{}, false
}

// stopByID looks up a dataset.Stop by id.
func (p *Planner) stopByID(id string) (*dataset.Stop, bool) {
	s, ok := p.ds.Stops[dataset.StopID(id)]
	return s, ok
}

// Plan executes spec §4.5's Steps 1-6 and returns the ranked, deduplicated,
// dominance-filtered set of at most 5 journeys.
func (p *Planner) Plan(q Query) (PlanResult, error) {
	if !p.ds.Bounds.Contains(q.Origin) {
		return PlanResult{}, &ErrOutOfBounds{Lat: q.Origin.Lat, Lon: q.Origin.Lon}
	}
	if !p.ds.Bounds.Contains(q.Destination) {
		return PlanResult{}, &ErrOutOfBounds{Lat: q.Destination.Lat, Lon: q.Destination.Lon}
	}

	pref := q.Preference.normalized()
	if pref.MaxWalkDistance <= 0 {
		pref.MaxWalkDistance = DefaultPreference().MaxWalkDistance
	}
	if pref.MaxWalkToStop <= 0 {
		pref.MaxWalkToStop = DefaultPreference().MaxWalkToStop
	}

	qo := p.oracle.Query()
	deadline := toDeadline(q.DeadlineUnixNs)

	// Step 1: strategy selection.
	originZone := p.grid.ZoneOf(q.Origin)
	destZone := p.grid.ZoneOf(q.Destination)
	d := zone.ZoneDistance(originZone, destZone)
	strategy := zone.StrategyFor(d)

	var candidates []Journey

	// Step 2: direct mobility candidates, always considered.
	candidates = append(candidates, p.directMobilityCandidates(qo, q, pref, strategy)...)
	if walkOnly, ok := p.walkOnlyCandidate(qo, q, pref, strategy, true); ok {
		candidates = append(candidates, walkOnly)
	}

	timedOut := false

	// Step 3: transit candidates (skipped for mobility_only).
	if strategy.Name != "mobility_only" {
		transitJourneys, transitTimedOut := p.transitCandidates(qo, q, pref, strategy, d, deadline)
		candidates = append(candidates, transitJourneys...)
		timedOut = timedOut || transitTimedOut
	}

	if timedOut {
		p.log.Warn("plan: RAPTOR deadline exceeded, returning best-so-far journeys", "strategy", strategy.Name)
	}

	if len(candidates) == 0 {
		p.log.Info("plan completed", "strategy", strategy.Name, "journeys", 0)
		return PlanResult{Strategy: strategy.Name, Reason: "no candidate journey survives scoring", TimedOut: timedOut}, nil
	}

	// Step 5: scoring.
	scoreCandidates(candidates, pref, strategy)

	// Dominance filter (spec §4.4's definition applied to journeys per §8
	// invariant 5), then dedup, then sort, then cap at 5.
	candidates = filterDominatedJourneys(candidates)
	candidates = deduplicateJourneys(candidates)
	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].Score < candidates[j].Score })
	if len(candidates) > 5 {
		candidates = candidates[:5]
	}

	p.log.Info("plan completed", "strategy", strategy.Name, "journeys", len(candidates))
	return PlanResult{Strategy: strategy.Name, Journeys: candidates, TimedOut: timedOut}, nil
}

// filterDominatedJourneys keeps only journeys not dominated by another
// candidate (spec §4.4 definition, §8 invariant 5), always preserving
// Informational fallback journeys since they are a safety net, not a
// ranked contender (SPEC_FULL §4.4).
func filterDominatedJourneys(journeys []Journey) []Journey {
	var out []Journey
	for i, a := range journeys {
		if a.Informational {
			out = append(out, a)
			continue
		}
		dominated := false
		for j, b := range journeys {
			if i == j || b.Informational {
				continue
			}
			if b.Dominates(a) {
				dominated = true
				break
			}
		}
		if !dominated {
			out = append(out, a)
		}
	}
	return out
}

// deduplicateJourneys drops journeys sharing the same ordered sequence of
// transit route labels when total times differ by <= 30 seconds, keeping
// the lower-scored one (spec §4.5 Step 6).
func deduplicateJourneys(journeys []Journey) []Journey {
	type bucket struct {
		key   string
		best  Journey
		found bool
	}
	var buckets []bucket
	for _, j := range journeys {
		key := routeLabelKey(j.Segments)
		placed := false
		for bi := range buckets {
			if buckets[bi].key != key {
				continue
			}
			dt := j.TravelSeconds - buckets[bi].best.TravelSeconds
			if dt < 0 {
				dt = -dt
			}
			if dt <= 30 {
				if j.Score < buckets[bi].best.Score {
					buckets[bi].best = j
				}
				placed = true
				break
			}
		}
		if !placed {
			buckets = append(buckets, bucket{key: key, best: j, found: true})
		}
	}
	out := make([]Journey, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, b.best)
	}
	return out
}

func routeLabelKey(segs []Segment) string {
	key := ""
	for _, s := range segs {
		if s.Kind == SegTransit {
			key += "|" + s.RouteLabel
		}
	}
	return key
}
