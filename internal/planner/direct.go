package planner

import (
	"github.com/dpark/district-planner/geo"
	"github.com/dpark/district-planner/internal/dataset"
	"github.com/dpark/district-planner/internal/oracle"
	"github.com/dpark/district-planner/internal/spatial"
	"github.com/dpark/district-planner/internal/zone"
)

var allMobilityModes = []dataset.MobilityMode{dataset.MobilityBike, dataset.MobilityKickboard, dataset.MobilityEBike}

func mobilityKind(m dataset.MobilityMode) spatial.Kind {
	switch m {
	case dataset.MobilityBike:
		return spatial.KindMobilityBike
	case dataset.MobilityKickboard:
		return spatial.KindMobilityKickboard
	default:
		return spatial.KindMobilityEBike
	}
}

func segmentKindForMode(m dataset.MobilityMode) SegmentKind {
	switch m {
	case dataset.MobilityBike:
		return SegBike
	case dataset.MobilityKickboard:
		return SegKickboard
	default:
		return SegEBike
	}
}

// directMobilityCandidates implements spec §4.5 Step 2: for each mobility
// mode, find the nearest vehicle to origin and to destination within
// max_walk_to_stop; if both exist, form a three-leg journey.
func (p *Planner) directMobilityCandidates(qo *oracle.QueryOracle, q Query, pref RoutePreference, strategy zone.Strategy) []Journey {
	var out []Journey
	for _, mode := range allMobilityModes {
		kind := mobilityKind(mode)
		pickups := p.veh.WithinRadius(q.Origin, pref.MaxWalkToStop, kind)
		dropoffs := p.veh.WithinRadius(q.Destination, pref.MaxWalkToStop, kind)
		if len(pickups) == 0 || len(dropoffs) == 0 {
			continue
		}
		pickup, ok := p.vehicleByID(pickups[0].ID)
		if !ok {
			continue
		}
		dropoff, ok := p.vehicleByID(dropoffs[0].ID)
		if !ok {
			continue
		}

		accessMeters := qo.RoadDistanceMeters(q.Origin, pickup.Loc)
		rideMeters := qo.RoadDistanceMeters(pickup.Loc, dropoff.Loc)
		egressMeters := qo.RoadDistanceMeters(dropoff.Loc, q.Destination)

		accessSec := accessMeters / dataset.WalkMetersPerSecond
		rideSec := rideMeters / mode.MetersPerSecond()
		egressSec := egressMeters / dataset.WalkMetersPerSecond

		tariff := p.ds.Tariffs.ForMode(mode)
		cost := tariff.Cost(rideSec)

		segs := []Segment{
			{Kind: SegWalk, Seconds: accessSec, Meters: accessMeters},
			{Kind: segmentKindForMode(mode), Seconds: rideSec, Meters: rideMeters, MobilityMode: mode},
			{Kind: SegWalk, Seconds: egressSec, Meters: egressMeters},
		}
		out = append(out, Journey{
			Segments:      segs,
			TravelSeconds: accessSec + rideSec + egressSec,
			WalkMeters:    accessMeters + egressMeters,
			TransferCount: 0,
			Cost:          cost,
			Strategy:      strategy.Name,
		})
	}
	return out
}

// walkOnlyCandidate implements the pure-walk journey from spec §4.5 Step 2,
// and — per SPEC_FULL §4.4's supplemented "walk-only fallback" feature —
// always emits it (tagged Informational) even when max_walk_distance is
// exceeded, so there is always at least one candidate journey.
func (p *Planner) walkOnlyCandidate(qo *oracle.QueryOracle, q Query, pref RoutePreference, strategy zone.Strategy, alwaysEmit bool) (Journey, bool) {
	meters := qo.RoadDistanceMeters(q.Origin, q.Destination)
	if meters == 0 {
		return Journey{
			Segments:      nil,
			TravelSeconds: 0,
			WalkMeters:    0,
			TransferCount: 0,
			Cost:          0,
			Strategy:      strategy.Name,
		}, true
	}
	withinBudget := meters <= pref.MaxWalkDistance
	if !withinBudget && !alwaysEmit {
		return Journey{}, false
	}
	seconds := meters / dataset.WalkMetersPerSecond
	return Journey{
		Segments:      []Segment{{Kind: SegWalk, Seconds: seconds, Meters: meters}},
		TravelSeconds: seconds,
		WalkMeters:    meters,
		TransferCount: 0,
		Cost:          0,
		Strategy:      strategy.Name,
		Informational: !withinBudget,
	}, true
}

// anchorsWithinWalk finds every stop within radiusMeters of p, returning
// dataset stop ids alongside the walk meters to reach them.
func (p *Planner) anchorsWithinWalk(p0 geo.Coord, radiusMeters float64) map[dataset.StopID]float64 {
	hits := p.stops.WithinRadius(p0, radiusMeters, spatial.KindStopBus, spatial.KindStopMetro, spatial.KindStopBikeDock, spatial.KindStopMobilityCell)
	out := make(map[dataset.StopID]float64, len(hits))
	for _, h := range hits {
		out[dataset.StopID(h.ID)] = h.Meters
	}
	return out
}
