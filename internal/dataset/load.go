package dataset

import (
	"fmt"
)

// ErrDatasetInvariant is returned by Build/LoadFile when a loaded dataset
// violates one of the invariants in spec §3 (dangling stop ref, non-monotone
// timetable, coordinates outside the bounding box, ...). It is fatal at
// startup only — the core never raises it mid-query (spec §7).
type ErrDatasetInvariant struct {
	Reason string
}

func (e *ErrDatasetInvariant) Error() string {
	return fmt.Sprintf("dataset: invariant violated: %s", e.Reason)
}

// Raw is the plain, loader-facing shape of a routing dataset — what an
// external GTFS-ingestion/virtual-station-generation pipeline (spec §6,
// explicitly out of scope for this core) would hand in. Build validates it
// and derives the indexes (ServingRoutes, per-route Timetable lookups) the
// planner and RAPTOR core rely on.
type Raw struct {
	Stops      []Stop
	Routes     []Route
	Timetables []Timetable
	Transfers  map[StopID][]Transfer
	Vehicles   []MobilityVehicle
	Bounds     BoundsInput
	GridSize   int
	Tariffs    *TariffTable
}

// BoundsInput mirrors geo.Bounds with field names matching the on-disk
// dataset format described in spec §6.
type BoundsInput struct {
	LatMin, LatMax float64
	LonMin, LonMax float64
}

// Build validates a raw dataset and returns the immutable, query-ready
// RoutingDataset, or an *ErrDatasetInvariant describing the first violation
// found. All other dataset invariants not checked here are trusted
// thereafter (spec §7).
func Build(raw Raw) (*RoutingDataset, error) {
	ds := &RoutingDataset{
		Stops:         make(map[StopID]*Stop, len(raw.Stops)),
		Routes:        make(map[RouteID]*Route, len(raw.Routes)),
		Timetables:    make(map[RouteID]*Timetable, len(raw.Timetables)),
		Transfers:     raw.Transfers,
		Vehicles:      raw.Vehicles,
		GridSize:      raw.GridSize,
		ServingRoutes: make(map[StopID][]RouteID, len(raw.Stops)),
	}
	ds.Bounds.MinLat, ds.Bounds.MaxLat = raw.Bounds.LatMin, raw.Bounds.LatMax
	ds.Bounds.MinLon, ds.Bounds.MaxLon = raw.Bounds.LonMin, raw.Bounds.LonMax
	if raw.Tariffs != nil {
		ds.Tariffs = *raw.Tariffs
	} else {
		ds.Tariffs = DefaultTariffTable()
	}
	if ds.GridSize <= 0 {
		ds.GridSize = 30
	}
	if ds.Transfers == nil {
		ds.Transfers = make(map[StopID][]Transfer)
	}

	for i := range raw.Stops {
		s := raw.Stops[i]
		if !ds.Bounds.Contains(s.Loc) {
			return nil, &ErrDatasetInvariant{Reason: fmt.Sprintf("stop %q at (%v,%v) lies outside district bounds", s.ID, s.Loc.Lat, s.Loc.Lon)}
		}
		if _, dup := ds.Stops[s.ID]; dup {
			return nil, &ErrDatasetInvariant{Reason: fmt.Sprintf("duplicate stop id %q", s.ID)}
		}
		stop := s
		ds.Stops[s.ID] = &stop
	}

	for i := range raw.Routes {
		r := raw.Routes[i]
		if len(r.StopIDs) == 0 {
			return nil, &ErrDatasetInvariant{Reason: fmt.Sprintf("route %q has an empty stop sequence", r.ID)}
		}
		for _, sid := range r.StopIDs {
			if _, ok := ds.Stops[sid]; !ok {
				return nil, &ErrDatasetInvariant{Reason: fmt.Sprintf("route %q references unknown stop %q", r.ID, sid)}
			}
		}
		route := r
		ds.Routes[r.ID] = &route
		for _, sid := range r.StopIDs {
			ds.ServingRoutes[sid] = appendUnique(ds.ServingRoutes[sid], r.ID)
		}
	}

	for i := range raw.Timetables {
		tt := raw.Timetables[i]
		route, ok := ds.Routes[tt.RouteID]
		if !ok {
			return nil, &ErrDatasetInvariant{Reason: fmt.Sprintf("timetable references unknown route %q", tt.RouteID)}
		}
		stopCount := len(route.StopIDs)
		for ti := range tt.Trips {
			trip := tt.Trips[ti]
			if len(trip.Arrival) != stopCount || len(trip.Departure) != stopCount {
				return nil, &ErrDatasetInvariant{Reason: fmt.Sprintf("trip %q on route %q has %d/%d arrival/departure entries, want %d", trip.ID, tt.RouteID, len(trip.Arrival), len(trip.Departure), stopCount)}
			}
			for p := 0; p < stopCount; p++ {
				if trip.Arrival[p] > trip.Departure[p] {
					return nil, &ErrDatasetInvariant{Reason: fmt.Sprintf("trip %q on route %q: arrival > departure at stop position %d", trip.ID, tt.RouteID, p)}
				}
				if p > 0 && trip.Departure[p-1] > trip.Arrival[p] {
					return nil, &ErrDatasetInvariant{Reason: fmt.Sprintf("trip %q on route %q: times decrease along stop sequence at position %d", trip.ID, tt.RouteID, p)}
				}
			}
			if ti > 0 {
				prev := tt.Trips[ti-1]
				for p := 0; p < stopCount; p++ {
					if trip.Departure[p] < prev.Departure[p] {
						return nil, &ErrDatasetInvariant{Reason: fmt.Sprintf("route %q: trip %q overtakes trip %q at stop position %d", tt.RouteID, trip.ID, prev.ID, p)}
					}
				}
			}
		}
		table := tt
		ds.Timetables[tt.RouteID] = &table
	}

	for from, transfers := range ds.Transfers {
		if _, ok := ds.Stops[from]; !ok {
			return nil, &ErrDatasetInvariant{Reason: fmt.Sprintf("transfer list references unknown stop %q", from)}
		}
		for _, tr := range transfers {
			if tr.WalkSeconds < 0 {
				return nil, &ErrDatasetInvariant{Reason: fmt.Sprintf("transfer %q->%q has negative walk time", from, tr.To)}
			}
			if _, ok := ds.Stops[tr.To]; !ok {
				return nil, &ErrDatasetInvariant{Reason: fmt.Sprintf("transfer references unknown stop %q", tr.To)}
			}
		}
	}

	for i := range ds.Vehicles {
		if !ds.Bounds.Contains(ds.Vehicles[i].Loc) {
			return nil, &ErrDatasetInvariant{Reason: fmt.Sprintf("mobility vehicle %q lies outside district bounds", ds.Vehicles[i].ID)}
		}
	}

	return ds, nil
}

func appendUnique(routes []RouteID, id RouteID) []RouteID {
	for _, r := range routes {
		if r == id {
			return routes
		}
	}
	return append(routes, id)
}
