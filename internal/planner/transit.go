package planner

import (
	"sort"
	"time"

	"github.com/dpark/district-planner/geo"
	"github.com/dpark/district-planner/internal/dataset"
	"github.com/dpark/district-planner/internal/oracle"
	"github.com/dpark/district-planner/internal/raptor"
	"github.com/dpark/district-planner/internal/spatial"
	"github.com/dpark/district-planner/internal/zone"
)

// transitCandidates implements spec §4.5 Step 3 (pure transit) and, when
// the strategy warrants it, Step 4 (hybrid mobility+transit). Both share one
// RAPTOR invocation per spec §4.5 Step 4's closing sentence ("invoke C4 once
// more with (A ∪ A′, E ∪ E′)") — the pure-transit access/egress sets are
// always a subset of the hybrid ones, so a single call covers both steps.
func (p *Planner) transitCandidates(qo *oracle.QueryOracle, q Query, pref RoutePreference, strategy zone.Strategy, zoneDist int, deadline time.Time) ([]Journey, bool) {
	accessWalk := p.anchorsWithinWalk(q.Origin, pref.MaxWalkToStop)
	egressWalk := p.anchorsWithinWalk(q.Destination, pref.MaxWalkToStop)

	sources := make([]raptor.Source, 0, len(accessWalk))
	for stop, meters := range accessWalk {
		sources = append(sources, raptor.Source{
			Stop:       stop,
			Arrival:    q.DepartureSec + int32(meters/dataset.WalkMetersPerSecond),
			WalkMeters: meters,
		})
	}
	targets := make([]dataset.StopID, 0, len(egressWalk))
	for stop := range egressWalk {
		targets = append(targets, stop)
	}

	hybrid := strategy.WMob > 0.2 && zoneDist >= 1
	var accessMobility, egressMobility map[dataset.StopID]mobilityAnchor
	if hybrid {
		accessMobility = p.hybridAccessAnchors(qo, q.Origin, pref)
		egressMobility = p.hybridEgressAnchors(qo, q.Destination, pref)
		for stop, a := range accessMobility {
			if _, already := accessWalk[stop]; already {
				continue
			}
			sources = append(sources, raptor.Source{
				Stop:       stop,
				Arrival:    q.DepartureSec + int32(a.seconds),
				WalkMeters: a.walkMeters,
				Cost:       a.cost,
			})
		}
		for stop := range egressMobility {
			if _, already := egressWalk[stop]; already {
				continue
			}
			targets = append(targets, stop)
		}
	}

	if len(sources) == 0 || len(targets) == 0 {
		return nil, false
	}

	res := p.raptor.Run(raptor.Request{
		Sources:      sources,
		TargetStops:  targets,
		DepartureSec: q.DepartureSec,
		KMax:         kMaxDefault,
		Deadline:     deadline,
	})

	var out []Journey
	for _, e := range targets {
		for _, label := range res.LabelsByTarget[e] {
			j, ok := p.journeyFromLabel(qo, q, pref, strategy, label, e, egressWalk, egressMobility)
			if ok {
				out = append(out, j)
			}
		}
	}
	return out, res.TimedOut
}

// journeyFromLabel reconstructs one full Journey from a RAPTOR label
// arriving at egress stop e, appending the egress walk or egress mobility
// leg and the final walk to the destination.
func (p *Planner) journeyFromLabel(qo *oracle.QueryOracle, q Query, pref RoutePreference, strategy zone.Strategy, label raptor.Label, e dataset.StopID, egressWalk map[dataset.StopID]float64, egressMobility map[dataset.StopID]mobilityAnchor) (Journey, bool) {
	segs := segmentsFromRaptor(label.Segments)
	if len(segs) == 0 {
		return Journey{}, false
	}

	totalSeconds := float64(label.ArrivalSec - q.DepartureSec)
	walkMeters := label.WalkMeters
	cost := label.Cost

	if meters, ok := egressWalk[e]; ok {
		seconds := meters / dataset.WalkMetersPerSecond
		segs = append(segs, Segment{Kind: SegWalk, From: e, Seconds: seconds, Meters: meters})
		totalSeconds += seconds
		walkMeters += meters
	} else if anchor, ok := egressMobility[e]; ok {
		segs = append(segs, Segment{
			Kind: segmentKindForMode(anchor.mode), From: e,
			Seconds: anchor.seconds, Meters: anchor.rideMeters, MobilityMode: anchor.mode,
		})
		finalWalkMeters := qo.RoadDistanceMeters(anchor.dropoff, q.Destination)
		finalWalkSec := finalWalkMeters / dataset.WalkMetersPerSecond
		segs = append(segs, Segment{Kind: SegWalk, Seconds: finalWalkSec, Meters: finalWalkMeters})
		totalSeconds += anchor.seconds + finalWalkSec
		walkMeters += finalWalkMeters
		cost += p.ds.Tariffs.ForMode(anchor.mode).Cost(anchor.seconds)
		if totalSeconds > 0 {
			cost += int64(walkMeters/1000) * p.ds.Tariffs.HybridSurchargePerKm
		}
	} else {
		return Journey{}, false
	}

	if cost == 0 {
		cost = p.ds.Tariffs.TransitFlat
	}

	return Journey{
		Segments:      segs,
		TravelSeconds: totalSeconds,
		WalkMeters:    walkMeters,
		TransferCount: transferCount(segs),
		Cost:          cost,
		Strategy:      strategy.Name,
	}, true
}

// mobilityAnchor is one augmented RAPTOR source/target produced by the
// zone-based hybrid expansion (spec §4.5 Step 4). For an access anchor,
// `seconds`/`walkMeters`/`rideMeters` cover the leg from the query origin up
// to the transit stop it feeds; for an egress anchor they cover the leg
// from the transit stop down to `dropoff`, with the final walk from
// `dropoff` to the destination computed separately in journeyFromLabel.
type mobilityAnchor struct {
	mode       dataset.MobilityMode
	seconds    float64
	walkMeters float64
	rideMeters float64
	cost       int64
	dropoff    geo.Coord
}

// hybridAccessAnchors enumerates access mobility vehicles near the origin's
// zone; each is walked to, ridden to a nearby transit stop (the ride's
// destination IS the stop — this core has no separate dropoff-point model
// for free-floating vehicles, spec §4.5 Step 4), and the best (lowest-time)
// anchor per stop across all candidate vehicles is kept.
func (p *Planner) hybridAccessAnchors(qo *oracle.QueryOracle, origin geo.Coord, pref RoutePreference) map[dataset.StopID]mobilityAnchor {
	out := make(map[dataset.StopID]mobilityAnchor)
	originZone := p.grid.ZoneOf(origin)
	for _, mode := range allMobilityModes {
		kind := mobilityKind(mode)
		candidates := p.veh.Neighbors(origin, 1, kind)
		candidates = rankAndCapByRoadDistance(qo, origin, candidates, p.vehicleLocator(), 5)
		for _, c := range candidates {
			veh, ok := p.vehicleByID(c.ID)
			if !ok || zone.ZoneDistance(p.grid.ZoneOf(veh.Loc), originZone) > 1 {
				continue
			}
			accessMeters := qo.RoadDistanceMeters(origin, veh.Loc)
			accessSec := accessMeters / dataset.WalkMetersPerSecond

			transferStops := p.stops.WithinRadius(veh.Loc, pref.MaxWalkToStop, spatial.KindStopBus, spatial.KindStopMetro)
			if len(transferStops) > 5 {
				transferStops = transferStops[:5] // WithinRadius already returns ascending-distance order
			}
			for _, ts := range transferStops {
				stop, ok := p.stopByID(ts.ID)
				if !ok {
					continue
				}
				rideMeters := qo.RoadDistanceMeters(veh.Loc, stop.Loc)
				rideSec := rideMeters / mode.MetersPerSecond()
				cand := mobilityAnchor{
					mode:       mode,
					seconds:    accessSec + rideSec,
					walkMeters: accessMeters,
					rideMeters: rideMeters,
					cost:       p.ds.Tariffs.ForMode(mode).Cost(rideSec),
				}
				stopID := dataset.StopID(ts.ID)
				if existing, already := out[stopID]; !already || cand.seconds < existing.seconds {
					out[stopID] = cand
				}
			}
		}
	}
	return out
}

// hybridEgressAnchors is the symmetric egress-side counterpart: a transit
// stop is ridden away from toward a mobility vehicle near the destination's
// zone, then walked from that vehicle's location to the destination.
func (p *Planner) hybridEgressAnchors(qo *oracle.QueryOracle, destination geo.Coord, pref RoutePreference) map[dataset.StopID]mobilityAnchor {
	out := make(map[dataset.StopID]mobilityAnchor)
	destZone := p.grid.ZoneOf(destination)
	for _, mode := range allMobilityModes {
		kind := mobilityKind(mode)
		candidates := p.veh.Neighbors(destination, 1, kind)
		candidates = rankAndCapByRoadDistance(qo, destination, candidates, p.vehicleLocator(), 5)
		for _, c := range candidates {
			veh, ok := p.vehicleByID(c.ID)
			if !ok || zone.ZoneDistance(p.grid.ZoneOf(veh.Loc), destZone) > 1 {
				continue
			}
			transferStops := p.stops.WithinRadius(veh.Loc, pref.MaxWalkToStop, spatial.KindStopBus, spatial.KindStopMetro)
			if len(transferStops) > 5 {
				transferStops = transferStops[:5]
			}
			for _, ts := range transferStops {
				stop, ok := p.stopByID(ts.ID)
				if !ok {
					continue
				}
				rideMeters := qo.RoadDistanceMeters(stop.Loc, veh.Loc)
				rideSec := rideMeters / mode.MetersPerSecond()
				cand := mobilityAnchor{
					mode:       mode,
					seconds:    rideSec,
					rideMeters: rideMeters,
					cost:       p.ds.Tariffs.ForMode(mode).Cost(rideSec),
					dropoff:    veh.Loc,
				}
				stopID := dataset.StopID(ts.ID)
				if existing, already := out[stopID]; !already || cand.seconds < existing.seconds {
					out[stopID] = cand
				}
			}
		}
	}
	return out
}

// vehicleLocator returns a lookup function from a spatial.Result's opaque id
// to the vehicle's coordinate, used to rank candidates by true road
// distance rather than the index's haversine ordering (spec §9 Open
// Questions: "ascending road distance from the access/egress endpoint").
func (p *Planner) vehicleLocator() func(id string) (geo.Coord, bool) {
	return func(id string) (geo.Coord, bool) {
		v, ok := p.vehicleByID(id)
		return v.Loc, ok
	}
}

// rankAndCapByRoadDistance re-sorts spatial candidates by true road distance
// from the origin point and caps the result at n, breaking exact ties by
// vehicle id for deterministic output (SPEC_FULL §4 supplemented feature 3).
func rankAndCapByRoadDistance(qo *oracle.QueryOracle, from geo.Coord, candidates []spatial.Result, locate func(string) (geo.Coord, bool), n int) []spatial.Result {
	type ranked struct {
		r spatial.Result
		d float64
	}
	rs := make([]ranked, 0, len(candidates))
	for _, c := range candidates {
		loc, ok := locate(c.ID)
		if !ok {
			continue
		}
		rs = append(rs, ranked{r: c, d: qo.RoadDistanceMeters(from, loc)})
	}
	sort.Slice(rs, func(i, j int) bool {
		if rs[i].d != rs[j].d {
			return rs[i].d < rs[j].d
		}
		return rs[i].r.ID < rs[j].r.ID
	})
	if len(rs) > n {
		rs = rs[:n]
	}
	out := make([]spatial.Result, len(rs))
	for i, r := range rs {
		out[i] = r.r
	}
	return out
}
