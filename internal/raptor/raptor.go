// Package raptor implements C4: the round-based earliest-arrival transit
// search (spec §4.4). It operates over a precomputed stop/route/timetable
// model the way the teacher's TransitGraph/TransitWeighting pair does
// (graph/transit_graph.go, comps/weighting.go), but replaces their
// Dijkstra-over-a-materialized-transit-graph approach with the classic
// round-based RAPTOR scan this spec calls for, since the spec's zone-based
// mobility coupling (§4.5) needs multiple augmented-source invocations per
// query rather than one fixed graph traversal.
//
// Labels are stored in a flat arena with integer back-pointers (spec §9
// "Cycles and back-pointers": "use an arena ... rather than heap-allocated
// nodes"), following the teacher's EdgeRef-as-index convention in
// graph/structs.go.
package raptor

import (
	"sort"
	"time"

	"github.com/dpark/district-planner/internal/dataset"
)

// SegmentKind tags one reconstructed journey leg.
type SegmentKind int

const (
	SegSource SegmentKind = iota
	SegTransit
	SegWalk
)

// Segment is one leg of a reconstructed path through the transit network.
type Segment struct {
	Kind        SegmentKind
	FromStop    dataset.StopID
	ToStop      dataset.StopID
	RouteID     dataset.RouteID
	RouteLabel  string
	TripID      string
	WalkSeconds int32
}

// Label is the exported, reconstructed form of an arena node: a tentative
// best path to a stop, with every ranking axis from spec §4.4's label
// fields plus the ordered Segments that produced it.
type Label struct {
	Stop       dataset.StopID
	ArrivalSec int32
	Transfers  int
	WalkMeters float64
	Cost       int64
	Round      int
	Segments   []Segment
}

// Dominates reports whether l dominates other: <= on every axis and <
// strictly on at least one (spec §4.4/§8 invariant 5).
func (l Label) Dominates(other Label) bool {
	leqAll := l.ArrivalSec <= other.ArrivalSec &&
		l.Transfers <= other.Transfers &&
		l.WalkMeters <= other.WalkMeters &&
		l.Cost <= other.Cost
	if !leqAll {
		return false
	}
	return l.ArrivalSec < other.ArrivalSec ||
		l.Transfers < other.Transfers ||
		l.WalkMeters < other.WalkMeters ||
		l.Cost < other.Cost
}

// Filter removes dominated labels, returning the non-dominated subset —
// spec §4.4's "Output" contract and §8 invariant 5.
func Filter(labels []Label) []Label {
	var out []Label
	for i, a := range labels {
		dominated := false
		for j, b := range labels {
			if i == j {
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

// Source is a labeled entry point into the transit graph (spec §4.4): the
// result of an access walk, or of an access mobility leg in the hybrid
// case. RAPTOR treats it as a pre-existing round-0 label.
type Source struct {
	Stop       dataset.StopID
	Arrival    int32
	WalkMeters float64
	Transfers  int
	Cost       int64
}

// Request bundles one RAPTOR invocation's parameters (spec §4.4 contract).
type Request struct {
	Sources      []Source
	TargetStops  []dataset.StopID
	DepartureSec int32
	KMax         int
	Deadline     time.Time // zero value means no deadline
}

// Result is what Run returns: the dominance-filtered label set per target
// stop, across all rounds, plus whether the deadline preempted the search.
type Result struct {
	LabelsByTarget map[dataset.StopID][]Label
	TimedOut       bool
}

const infinity = int32(1 << 30)

// arenaNode is the internal, index-linked representation of one label.
type arenaNode struct {
	kind       SegmentKind
	stop       dataset.StopID
	routeID    dataset.RouteID
	routeLabel string
	tripID     string
	boardStop  dataset.StopID
	walkSec    int32
	prev       int32 // -1 for a root (Source) node
	arrival    int32
	transfers  int
	walkMeters float64
	cost       int64
	round      int
}

// RoundsCounter is the metrics surface the engine reports round counts
// through; internal/metrics.Metrics satisfies it.
type RoundsCounter interface {
	IncRounds(n int)
}

type noopRoundsCounter struct{}

func (noopRoundsCounter) IncRounds(int) {}

// Engine runs RAPTOR queries against one immutable RoutingDataset. It
// precomputes the route/stop-position index once so every query's route
// scan can look up "does route r serve stop s, and at what position"
// without rescanning route definitions.
type Engine struct {
	ds           *dataset.RoutingDataset
	routeStopPos map[dataset.RouteID]map[dataset.StopID]int
	rounds       RoundsCounter
}

// NewEngine builds the precomputed route/stop index over ds.
func NewEngine(ds *dataset.RoutingDataset) *Engine {
	e := &Engine{
		ds:           ds,
		routeStopPos: make(map[dataset.RouteID]map[dataset.StopID]int, len(ds.Routes)),
		rounds:       noopRoundsCounter{},
	}
	for rid, route := range ds.Routes {
		pos := make(map[dataset.StopID]int, len(route.StopIDs))
		for p, sid := range route.StopIDs {
			pos[sid] = p
		}
		e.routeStopPos[rid] = pos
	}
	return e
}

// SetRoundsCounter wires a metrics sink for executed round counts. Safe to
// leave unset — the engine reports to a no-op sink by default.
func (e *Engine) SetRoundsCounter(c RoundsCounter) {
	if c == nil {
		c = noopRoundsCounter{}
	}
	e.rounds = c
}

// Run executes the round-based search described in spec §4.4.
func (e *Engine) Run(req Request) Result {
	kMax := req.KMax
	if kMax <= 0 {
		kMax = 4
	}

	tau := make([]map[dataset.StopID]int32, kMax+1)
	tau[0] = make(map[dataset.StopID]int32)
	var arena []arenaNode
	bestArenaIdx := make(map[int]map[dataset.StopID]int32) // round -> stop -> arena index of the best label
	bestArenaIdx[0] = make(map[dataset.StopID]int32)

	isTarget := make(map[dataset.StopID]bool, len(req.TargetStops))
	for _, t := range req.TargetStops {
		isTarget[t] = true
	}

	marked := make(map[dataset.StopID]bool)
	for _, src := range req.Sources {
		node := arenaNode{
			kind: SegSource, stop: src.Stop, prev: -1,
			arrival: src.Arrival, transfers: src.Transfers,
			walkMeters: src.WalkMeters, cost: src.Cost, round: 0,
		}
		idx := int32(len(arena))
		arena = append(arena, node)
		if existing, ok := tau[0][src.Stop]; !ok || src.Arrival < existing {
			tau[0][src.Stop] = src.Arrival
			bestArenaIdx[0][src.Stop] = idx
		}
		marked[src.Stop] = true
	}

	targetBound := func() int32 {
		bound := infinity
		for _, t := range req.TargetStops {
			for k := 0; k <= kMax; k++ {
				if tau[k] == nil {
					continue
				}
				if v, ok := tau[k][t]; ok && v < bound {
					bound = v
				}
			}
		}
		return bound
	}

	deadlineExceeded := func() bool {
		return !req.Deadline.IsZero() && time.Now().After(req.Deadline)
	}

	timedOut := false

	for k := 1; k <= kMax; k++ {
		if deadlineExceeded() {
			timedOut = true
			break
		}
		if len(marked) == 0 {
			break
		}
		e.rounds.IncRounds(1)

		// carry forward: a label reachable in k-1 rounds remains reachable
		// in k rounds (spec §8 invariant 4: tau[k][s] non-increasing).
		tau[k] = make(map[dataset.StopID]int32, len(tau[k-1]))
		bestArenaIdx[k] = make(map[dataset.StopID]int32, len(bestArenaIdx[k-1]))
		for s, v := range tau[k-1] {
			tau[k][s] = v
			bestArenaIdx[k][s] = bestArenaIdx[k-1][s]
		}

		roundMarked := make(map[dataset.StopID]bool)

		// --- phase 1: route scan ---
		routes := e.routesServingAny(marked)
		for _, rid := range routes {
			if deadlineExceeded() {
				timedOut = true
				break
			}
			route := e.ds.Routes[rid]
			positions := e.routeStopPos[rid]
			table := e.ds.Timetables[rid]
			if table == nil || len(table.Trips) == 0 {
				continue // missing timetable row: treat as an empty route (spec §7)
			}

			p0 := -1
			for _, sid := range route.StopIDs {
				if !marked[sid] {
					continue
				}
				p := positions[sid]
				if p0 == -1 || p < p0 {
					p0 = p
				}
			}
			if p0 == -1 {
				continue
			}

			boardedTrip := -1
			boardPos := p0
			bound := targetBound()

			for p := p0; p < len(route.StopIDs); p++ {
				stop := route.StopIDs[p]

				if boardedTrip != -1 {
					trip := table.Trips[boardedTrip]
					arrival := trip.Arrival[p]
					if arrival < boundOrTau(tau[k], stop) && arrival < bound {
						boardLabelIdx := bestArenaIdx[k-1][route.StopIDs[boardPos]]
						node := arenaNode{
							kind: SegTransit, stop: stop,
							routeID: rid, routeLabel: route.Label, tripID: trip.ID,
							boardStop: route.StopIDs[boardPos],
							prev:      boardLabelIdx,
							arrival:   arrival,
							transfers: k,
							round:     k,
						}
						node.walkMeters = arenaWalkMeters(arena, boardLabelIdx)
						node.cost = arenaCost(arena, boardLabelIdx)
						idx := int32(len(arena))
						arena = append(arena, node)
						tau[k][stop] = arrival
						bestArenaIdx[k][stop] = idx
						roundMarked[stop] = true
						if isTarget[stop] && arrival < bound {
							bound = arrival
						}
					}
				}

				// boarding / re-seek: can the traveler reach `stop` via the
				// (k-1)-round frontier in time to catch an earlier trip?
				arrivalSoFar, haveArrival := tau[k-1][stop]
				if haveArrival {
					canReseek := boardedTrip == -1
					if boardedTrip != -1 && arrivalSoFar <= table.Trips[boardedTrip].Departure[p] {
						canReseek = true
					}
					if canReseek {
						tripIdx := table.EarliestTripFrom(p, arrivalSoFar)
						if tripIdx != -1 {
							better := boardedTrip == -1 || table.Trips[tripIdx].Departure[p] < table.Trips[boardedTrip].Departure[p]
							if better {
								boardedTrip = tripIdx
								boardPos = p
							}
						}
					}
				}
			}
		}

		// --- phase 2: transfer relaxation ---
		for stop := range roundMarked {
			arrival := tau[k][stop]
			fromIdx := bestArenaIdx[k][stop]
			for _, tr := range e.ds.Transfers[stop] {
				cand := arrival + tr.WalkSeconds
				if cur, ok := tau[k][tr.To]; !ok || cand < cur {
					node := arenaNode{
						kind: SegWalk, stop: tr.To, boardStop: stop,
						walkSec: tr.WalkSeconds, prev: fromIdx,
						arrival:    cand,
						transfers:  arena[fromIdx].transfers,
						walkMeters: arenaWalkMeters(arena, fromIdx) + float64(tr.WalkSeconds)*dataset.WalkMetersPerSecond,
						cost:       arenaCost(arena, fromIdx),
						round:      k,
					}
					idx := int32(len(arena))
					arena = append(arena, node)
					tau[k][tr.To] = cand
					bestArenaIdx[k][tr.To] = idx
					// transfers do not chain within the same round (spec
					// §4.4): tr.To is only eligible for NEXT round's scan.
				}
			}
		}

		nextMarked := make(map[dataset.StopID]bool, len(roundMarked))
		for s := range roundMarked {
			nextMarked[s] = true
		}
		for stop := range roundMarked {
			for _, tr := range e.ds.Transfers[stop] {
				nextMarked[tr.To] = true
			}
		}
		marked = nextMarked
	}

	result := Result{LabelsByTarget: make(map[dataset.StopID][]Label), TimedOut: timedOut}
	for _, t := range req.TargetStops {
		var labels []Label
		for k := 0; k <= kMax; k++ {
			idx, ok := bestArenaIdx[k][t]
			if !ok {
				continue
			}
			labels = append(labels, reconstruct(arena, idx))
		}
		result.LabelsByTarget[t] = Filter(labels)
	}
	return result
}

func boundOrTau(tauRound map[dataset.StopID]int32, stop dataset.StopID) int32 {
	if v, ok := tauRound[stop]; ok {
		return v
	}
	return infinity
}

func arenaWalkMeters(arena []arenaNode, idx int32) float64 {
	if idx < 0 {
		return 0
	}
	return arena[idx].walkMeters
}

func arenaCost(arena []arenaNode, idx int32) int64 {
	if idx < 0 {
		return 0
	}
	return arena[idx].cost
}

// routesServingAny returns, in a stable order, every route id that serves
// at least one marked stop.
func (e *Engine) routesServingAny(marked map[dataset.StopID]bool) []dataset.RouteID {
	seen := make(map[dataset.RouteID]bool)
	var out []dataset.RouteID
	for stop := range marked {
		for _, rid := range e.ds.ServingRoutes[stop] {
			if !seen[rid] {
				seen[rid] = true
				out = append(out, rid)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// reconstruct walks an arena node's back-pointer chain from leaf to root,
// returning the ordered list of segments (root-to-leaf) that produced it.
func reconstruct(arena []arenaNode, idx int32) Label {
	node := arena[idx]
	label := Label{
		Stop:       node.stop,
		ArrivalSec: node.arrival,
		Transfers:  node.transfers,
		WalkMeters: node.walkMeters,
		Cost:       node.cost,
		Round:      node.round,
	}

	var rev []Segment
	for i := idx; i != -1; i = arena[i].prev {
		n := arena[i]
		if n.kind == SegSource {
			break
		}
		seg := Segment{Kind: n.kind, ToStop: n.stop}
		if n.prev != -1 {
			seg.FromStop = arena[n.prev].stop
		}
		switch n.kind {
		case SegTransit:
			seg.RouteID = n.routeID
			seg.RouteLabel = n.routeLabel
			seg.TripID = n.tripID
			seg.FromStop = n.boardStop
		case SegWalk:
			seg.WalkSeconds = n.walkSec
			seg.FromStop = n.boardStop
		}
		rev = append(rev, seg)
	}
	for i := len(rev) - 1; i >= 0; i-- {
		label.Segments = append(label.Segments, rev[i])
	}
	return label
}
