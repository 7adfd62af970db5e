// Package planner implements C5: the multimodal orchestrator that turns a
// raw origin/destination/departure query into a ranked set of Journeys by
// combining C1 (spatial index), C2 (road distance oracle), C3 (zone grid)
// and C4 (RAPTOR) under a zone-derived routing strategy (spec §4.5).
package planner

import (
	"github.com/dpark/district-planner/internal/dataset"
	"github.com/dpark/district-planner/internal/raptor"
)

// SegmentKind tags one leg of a reconstructed Journey.
type SegmentKind int

const (
	SegWalk SegmentKind = iota
	SegBike
	SegKickboard
	SegEBike
	SegTransit
)

func (k SegmentKind) String() string {
	switch k {
	case SegWalk:
		return "walk"
	case SegBike:
		return "bike"
	case SegKickboard:
		return "kickboard"
	case SegEBike:
		return "ebike"
	case SegTransit:
		return "transit"
	default:
		return "unknown"
	}
}

// Segment is one leg of a ranked Journey.
type Segment struct {
	Kind         SegmentKind
	From, To     dataset.StopID // empty when the endpoint is a raw coordinate, not a stop
	Seconds      float64
	Meters       float64
	RouteID      dataset.RouteID
	RouteLabel   string
	MobilityMode dataset.MobilityMode
}

// RoutePreference is the query-time weighting and walking-distance input
// (spec §3 "RoutePreference").
type RoutePreference struct {
	TimeWeight         float64
	TransferWeight     float64
	WalkWeight         float64
	CostWeight         float64
	MobilityPreference map[dataset.MobilityMode]float64
	MaxWalkDistance    float64 // meters, default 800
	MaxWalkToStop      float64 // meters, default 500
}

// DefaultPreference returns the spec's default weighting and walk caps.
func DefaultPreference() RoutePreference {
	return RoutePreference{
		TimeWeight:      0.4,
		TransferWeight:  0.2,
		WalkWeight:      0.2,
		CostWeight:      0.2,
		MaxWalkDistance: 800,
		MaxWalkToStop:   500,
	}
}

// normalized returns a copy with the four weights scaled to sum to 1, per
// spec §3 ("sum normalized"). A zero-sum input falls back to the default
// weighting rather than dividing by zero.
func (p RoutePreference) normalized() RoutePreference {
	sum := p.TimeWeight + p.TransferWeight + p.WalkWeight + p.CostWeight
	if sum <= 0 {
		d := DefaultPreference()
		p.TimeWeight, p.TransferWeight, p.WalkWeight, p.CostWeight =
			d.TimeWeight, d.TransferWeight, d.WalkWeight, d.CostWeight
		return p
	}
	p.TimeWeight /= sum
	p.TransferWeight /= sum
	p.WalkWeight /= sum
	p.CostWeight /= sum
	return p
}

// Journey is one ranked candidate result (spec §3 "Journey").
type Journey struct {
	Segments      []Segment
	TravelSeconds float64
	WalkMeters    float64
	TransferCount int
	Cost          int64
	Strategy      string
	Informational bool // true for the always-emitted walk-only fallback (SPEC_FULL §4.4)
	Score         float64
}

// Dominates reports whether j dominates other on (time, transfers, walk,
// cost): <= on every axis, < on at least one (spec §4.4/§8 invariant 5).
func (j Journey) Dominates(other Journey) bool {
	leqAll := j.TravelSeconds <= other.TravelSeconds &&
		j.TransferCount <= other.TransferCount &&
		j.WalkMeters <= other.WalkMeters &&
		j.Cost <= other.Cost
	if !leqAll {
		return false
	}
	return j.TravelSeconds < other.TravelSeconds ||
		j.TransferCount < other.TransferCount ||
		j.WalkMeters < other.WalkMeters ||
		j.Cost < other.Cost
}

// PlanResult is what Plan returns (spec §6 "Planner API").
type PlanResult struct {
	Strategy string
	Journeys []Journey
	TimedOut bool
	Reason   string // set when Journeys is empty (spec §7 NoPathFound)
}

// segmentsFromRaptor converts a reconstructed RAPTOR label's segments into
// planner Segments, looking up route labels the core already carries on the
// label itself so no dataset lookups are needed here.
func segmentsFromRaptor(segs []raptor.Segment) []Segment {
	out := make([]Segment, 0, len(segs))
	for _, s := range segs {
		switch s.Kind {
		case raptor.SegTransit:
			out = append(out, Segment{
				Kind: SegTransit, From: s.FromStop, To: s.ToStop,
				RouteID: s.RouteID, RouteLabel: s.RouteLabel,
			})
		case raptor.SegWalk:
			out = append(out, Segment{
				Kind: SegWalk, From: s.FromStop, To: s.ToStop,
				Seconds: float64(s.WalkSeconds), Meters: float64(s.WalkSeconds) * dataset.WalkMetersPerSecond,
			})
		}
	}
	return out
}

// transferCount is (# distinct transit route ids) - 1, or 0 if none (spec
// §3 Journey invariant).
func transferCount(segs []Segment) int {
	seen := make(map[dataset.RouteID]bool)
	for _, s := range segs {
		if s.Kind == SegTransit {
			seen[s.RouteID] = true
		}
	}
	if len(seen) == 0 {
		return 0
	}
	return len(seen) - 1
}
