package raptor

import (
	"testing"
	"time"

	"github.com/dpark/district-planner/geo"
	"github.com/dpark/district-planner/internal/dataset"
)

// buildSimpleDataset wires a single two-stop bus route with two trips, plus
// a second route continuing from the first's last stop, so tests can
// exercise both direct boarding and a one-transfer itinerary.
func buildSimpleDataset(t *testing.T) *dataset.RoutingDataset {
	t.Helper()
	raw := dataset.Raw{
		Stops: []dataset.Stop{
			{ID: "A", Name: "A", Loc: geo.Coord{Lat: 37.50, Lon: 127.00}, Kind: dataset.StopBus},
			{ID: "B", Name: "B", Loc: geo.Coord{Lat: 37.51, Lon: 127.01}, Kind: dataset.StopBus},
			{ID: "C", Name: "C", Loc: geo.Coord{Lat: 37.52, Lon: 127.02}, Kind: dataset.StopBus},
		},
		Routes: []dataset.Route{
			{ID: "R1", Mode: dataset.ModeBus, Label: "Bus 1", StopIDs: []dataset.StopID{"A", "B"}},
			{ID: "R2", Mode: dataset.ModeBus, Label: "Bus 2", StopIDs: []dataset.StopID{"B", "C"}},
		},
		Timetables: []dataset.Timetable{
			{RouteID: "R1", Trips: []dataset.Trip{
				{ID: "R1-t1", RouteID: "R1", Arrival: []int32{0, 300}, Departure: []int32{0, 300}},
				{ID: "R1-t2", RouteID: "R1", Arrival: []int32{600, 900}, Departure: []int32{600, 900}},
			}},
			{RouteID: "R2", Trips: []dataset.Trip{
				{ID: "R2-t1", RouteID: "R2", Arrival: []int32{400, 700}, Departure: []int32{400, 700}},
				{ID: "R2-t2", RouteID: "R2", Arrival: []int32{1000, 1300}, Departure: []int32{1000, 1300}},
			}},
		},
		Bounds:   dataset.BoundsInput{LatMin: 37.4, LatMax: 37.6, LonMin: 126.9, LonMax: 127.2},
		GridSize: 30,
	}
	ds, err := dataset.Build(raw)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return ds
}

func TestRunDirectBoarding(t *testing.T) {
	ds := buildSimpleDataset(t)
	e := NewEngine(ds)

	res := e.Run(Request{
		Sources:      []Source{{Stop: "A", Arrival: 0}},
		TargetStops:  []dataset.StopID{"B"},
		DepartureSec: 0,
		KMax:         4,
	})

	labels := res.LabelsByTarget["B"]
	if len(labels) == 0 {
		t.Fatalf("expected at least one label at B")
	}
	best := labels[0]
	for _, l := range labels {
		if l.ArrivalSec < best.ArrivalSec {
			best = l
		}
	}
	if best.ArrivalSec != 300 {
		t.Fatalf("best arrival at B = %d, want 300 (first trip)", best.ArrivalSec)
	}
	if len(best.Segments) != 1 || best.Segments[0].Kind != SegTransit {
		t.Fatalf("expected single transit segment, got %+v", best.Segments)
	}
}

func TestRunOneTransfer(t *testing.T) {
	ds := buildSimpleDataset(t)
	e := NewEngine(ds)

	res := e.Run(Request{
		Sources:      []Source{{Stop: "A", Arrival: 0}},
		TargetStops:  []dataset.StopID{"C"},
		DepartureSec: 0,
		KMax:         4,
	})

	labels := res.LabelsByTarget["C"]
	if len(labels) == 0 {
		t.Fatalf("expected at least one label at C")
	}
	best := labels[0]
	for _, l := range labels {
		if l.ArrivalSec < best.ArrivalSec {
			best = l
		}
	}
	// board R1-t1 (arrives B at 300), then R2-t1 departs B at 400, arrives C at 700.
	if best.ArrivalSec != 700 {
		t.Fatalf("best arrival at C = %d, want 700", best.ArrivalSec)
	}
	if len(best.Segments) != 2 {
		t.Fatalf("expected two transit segments (one transfer), got %+v", best.Segments)
	}
}

// buildMultiStopDataset wires a single three-stop route so tests can
// exercise propagation past the first intermediate stop of a route scan.
func buildMultiStopDataset(t *testing.T) *dataset.RoutingDataset {
	t.Helper()
	raw := dataset.Raw{
		Stops: []dataset.Stop{
			{ID: "A", Name: "A", Loc: geo.Coord{Lat: 37.50, Lon: 127.00}, Kind: dataset.StopBus},
			{ID: "B", Name: "B", Loc: geo.Coord{Lat: 37.51, Lon: 127.01}, Kind: dataset.StopBus},
			{ID: "C", Name: "C", Loc: geo.Coord{Lat: 37.52, Lon: 127.02}, Kind: dataset.StopBus},
		},
		Routes: []dataset.Route{
			{ID: "R1", Mode: dataset.ModeBus, Label: "Bus 1", StopIDs: []dataset.StopID{"A", "B", "C"}},
		},
		Timetables: []dataset.Timetable{
			{RouteID: "R1", Trips: []dataset.Trip{
				{ID: "R1-t1", RouteID: "R1", Arrival: []int32{0, 300, 600}, Departure: []int32{0, 300, 600}},
			}},
		},
		Bounds:   dataset.BoundsInput{LatMin: 37.4, LatMax: 37.6, LonMin: 126.9, LonMax: 127.2},
		GridSize: 30,
	}
	ds, err := dataset.Build(raw)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return ds
}

func TestRunMultiStopRoutePropagatesPastFirstIntermediateStop(t *testing.T) {
	ds := buildMultiStopDataset(t)
	e := NewEngine(ds)

	res := e.Run(Request{
		Sources:      []Source{{Stop: "A", Arrival: 0}},
		TargetStops:  []dataset.StopID{"C"},
		DepartureSec: 0,
		KMax:         4,
	})

	labels := res.LabelsByTarget["C"]
	if len(labels) == 0 {
		t.Fatalf("expected at least one label at C, got none (bound pruning likely stopped at B)")
	}
	best := labels[0]
	for _, l := range labels {
		if l.ArrivalSec < best.ArrivalSec {
			best = l
		}
	}
	if best.ArrivalSec != 600 {
		t.Fatalf("best arrival at C = %d, want 600 (single trip riding A->B->C)", best.ArrivalSec)
	}
}

func TestRunMissingTimetableTreatedAsEmptyRoute(t *testing.T) {
	ds := buildSimpleDataset(t)
	delete(ds.Timetables, "R2")
	e := NewEngine(ds)

	res := e.Run(Request{
		Sources:      []Source{{Stop: "A", Arrival: 0}},
		TargetStops:  []dataset.StopID{"C"},
		DepartureSec: 0,
		KMax:         4,
	})
	if len(res.LabelsByTarget["C"]) != 0 {
		t.Fatalf("expected no labels at C once R2's timetable is missing, got %+v", res.LabelsByTarget["C"])
	}
}

func TestRunDepartureAfterLastTripYieldsNoLabels(t *testing.T) {
	ds := buildSimpleDataset(t)
	e := NewEngine(ds)

	res := e.Run(Request{
		Sources:      []Source{{Stop: "A", Arrival: 100000}},
		TargetStops:  []dataset.StopID{"B"},
		DepartureSec: 100000,
		KMax:         4,
	})
	if len(res.LabelsByTarget["B"]) != 0 {
		t.Fatalf("expected no labels when departing after the last trip, got %+v", res.LabelsByTarget["B"])
	}
}

func TestRunDeadlineExceededReturnsTimedOut(t *testing.T) {
	ds := buildSimpleDataset(t)
	e := NewEngine(ds)

	res := e.Run(Request{
		Sources:      []Source{{Stop: "A", Arrival: 0}},
		TargetStops:  []dataset.StopID{"C"},
		DepartureSec: 0,
		KMax:         4,
		Deadline:     time.Now().Add(-time.Second), // already expired
	})
	if !res.TimedOut {
		t.Fatalf("TimedOut = false, want true for an already-expired deadline")
	}
}

func TestLabelDominatesAndFilter(t *testing.T) {
	fast := Label{ArrivalSec: 100, Transfers: 1, WalkMeters: 50, Cost: 1000}
	slowAndMore := Label{ArrivalSec: 200, Transfers: 2, WalkMeters: 100, Cost: 2000}
	incomparable := Label{ArrivalSec: 90, Transfers: 3, WalkMeters: 10, Cost: 500}

	if !fast.Dominates(slowAndMore) {
		t.Fatalf("fast should dominate slowAndMore")
	}
	if fast.Dominates(incomparable) {
		t.Fatalf("fast should not dominate incomparable (incomparable arrives earlier, walks less and costs less)")
	}

	filtered := Filter([]Label{fast, slowAndMore, incomparable})
	if len(filtered) != 2 {
		t.Fatalf("len(filtered) = %d, want 2 (slowAndMore dominated by fast)", len(filtered))
	}
}
