package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dpark/district-planner/geo"
	"github.com/dpark/district-planner/internal/dataset"
	"github.com/dpark/district-planner/internal/oracle"
	"github.com/dpark/district-planner/internal/zone"
)

func smallDataset(t *testing.T) *dataset.RoutingDataset {
	t.Helper()
	raw := dataset.Raw{
		Stops: []dataset.Stop{
			{ID: "S1", Name: "Origin Stop", Loc: geo.Coord{Lat: 37.4985, Lon: 127.0280}, Kind: dataset.StopBus},
			{ID: "S2", Name: "Dest Stop", Loc: geo.Coord{Lat: 37.5000, Lon: 127.0350}, Kind: dataset.StopBus},
		},
		Routes: []dataset.Route{
			{ID: "R1", Mode: dataset.ModeBus, Label: "Bus 1", StopIDs: []dataset.StopID{"S1", "S2"}},
		},
		Timetables: []dataset.Timetable{
			{RouteID: "R1", Trips: []dataset.Trip{
				{ID: "R1-t1", RouteID: "R1", Arrival: []int32{30600, 30900}, Departure: []int32{30600, 30900}},
			}},
		},
		Vehicles: []dataset.MobilityVehicle{
			{ID: "V1", Loc: geo.Coord{Lat: 37.4981, Lon: 127.0278}, Mode: dataset.MobilityKickboard},
			{ID: "V2", Loc: geo.Coord{Lat: 37.5005, Lon: 127.0355}, Mode: dataset.MobilityKickboard},
		},
		Bounds:   dataset.BoundsInput{LatMin: 37.40, LatMax: 37.60, LonMin: 126.90, LonMax: 127.20},
		GridSize: 30,
	}
	ds, err := dataset.Build(raw)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return ds
}

func newTestPlanner(t *testing.T) *Planner {
	t.Helper()
	ds := smallDataset(t)
	oc := oracle.New(nil, 1000, nil)
	return New(ds, oc, nil)
}

func TestPlanRejectsOutOfBoundsOrigin(t *testing.T) {
	p := newTestPlanner(t)
	_, err := p.Plan(Query{
		Origin:       geo.Coord{Lat: 10, Lon: 10},
		Destination:  geo.Coord{Lat: 37.50, Lon: 127.03},
		DepartureSec: 30000,
		Preference:   DefaultPreference(),
	})
	if err == nil {
		t.Fatalf("expected ErrOutOfBounds, got nil")
	}
	if _, ok := err.(*ErrOutOfBounds); !ok {
		t.Fatalf("expected *ErrOutOfBounds, got %T", err)
	}
}

func TestPlanSameOriginDestinationReturnsZeroJourney(t *testing.T) {
	p := newTestPlanner(t)
	pt := geo.Coord{Lat: 37.4985, Lon: 127.0280}
	res, err := p.Plan(Query{
		Origin:       pt,
		Destination:  pt,
		DepartureSec: 30000,
		Preference:   DefaultPreference(),
	})
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	found := false
	for _, j := range res.Journeys {
		if j.TravelSeconds == 0 && j.WalkMeters == 0 && j.Cost == 0 {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a zero-length journey among %+v", res.Journeys)
	}
}

func TestPlanShortHopYieldsDirectMobilityOrWalk(t *testing.T) {
	p := newTestPlanner(t)
	res, err := p.Plan(Query{
		Origin:       geo.Coord{Lat: 37.4979, Lon: 127.0276},
		Destination:  geo.Coord{Lat: 37.5007, Lon: 127.0363},
		DepartureSec: 30600,
		Preference:   DefaultPreference(),
	})
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	if len(res.Journeys) == 0 {
		t.Fatalf("expected at least one journey, reason = %q", res.Reason)
	}
	if len(res.Journeys) > 5 {
		t.Fatalf("len(Journeys) = %d, want <= 5", len(res.Journeys))
	}
}

func TestScoreCandidatesLowerScoreRanksFirst(t *testing.T) {
	journeys := []Journey{
		{TravelSeconds: 100, WalkMeters: 50, Cost: 1000},
		{TravelSeconds: 900, WalkMeters: 800, Cost: 5000, TransferCount: 2},
	}
	pref := DefaultPreference()
	strategy := zone.Strategy{Name: "balanced", WMob: 0.5, WTr: 0.5}
	scoreCandidates(journeys, pref, strategy)

	assert.Less(t, journeys[0].Score, journeys[1].Score, "cheaper/faster journey should score lower")
}

func TestDeduplicateJourneysKeepsLowerScoreWithinTimeTolerance(t *testing.T) {
	segs := []Segment{{Kind: SegTransit, RouteLabel: "Bus 1"}}
	journeys := []Journey{
		{Segments: segs, TravelSeconds: 500, Score: 0.8},
		{Segments: segs, TravelSeconds: 515, Score: 0.3}, // within 30s, lower score
		{Segments: segs, TravelSeconds: 600, Score: 0.1}, // beyond 30s tolerance of first bucket
	}
	out := deduplicateJourneys(journeys)

	assert.Len(t, out, 2)
	var kept bool
	for _, j := range out {
		if j.Score == 0.3 {
			kept = true
		}
		assert.NotEqual(t, 0.8, j.Score, "higher-score duplicate should have been dropped")
	}
	assert.True(t, kept, "lower-score journey within tolerance should survive")
}

func TestFilterDominatedJourneysAlwaysKeepsInformational(t *testing.T) {
	journeys := []Journey{
		{TravelSeconds: 100, WalkMeters: 10, Cost: 100},
		{TravelSeconds: 1000, WalkMeters: 900, Cost: 900, Informational: true},
	}
	out := filterDominatedJourneys(journeys)
	assert.Len(t, out, 2)
}
