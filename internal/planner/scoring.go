package planner

import "github.com/dpark/district-planner/internal/zone"

const (
	alpha = 1.0
	beta  = 0.2
	gamma = 0.3
)

// scoreCandidates assigns Score to every journey per spec §4.5 Step 5.
// Lower is better. Mutates the slice in place.
func scoreCandidates(journeys []Journey, pref RoutePreference, strategy zone.Strategy) {
	maxTime, maxTransfers, maxWalk, maxCost := 0.0, 0.0, 0.0, 0.0
	for _, j := range journeys {
		maxTime = maxFloat(maxTime, j.TravelSeconds)
		maxTransfers = maxFloat(maxTransfers, float64(j.TransferCount))
		maxWalk = maxFloat(maxWalk, j.WalkMeters)
		maxCost = maxFloat(maxCost, float64(j.Cost))
	}

	for i := range journeys {
		j := &journeys[i]
		base := alpha*pref.TimeWeight*normalize(j.TravelSeconds, maxTime) +
			alpha*pref.TransferWeight*normalize(float64(j.TransferCount), maxTransfers) +
			alpha*pref.WalkWeight*normalize(j.WalkMeters, maxWalk) +
			alpha*pref.CostWeight*normalize(float64(j.Cost), maxCost)

		j.Score = base - beta*mobilityBonus(*j, pref) - gamma*strategyBonus(*j, strategy)
	}
}

func normalize(x, max float64) float64 {
	if max <= 0 {
		return 0
	}
	v := x / max
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func maxFloat(a, b float64) float64 {
	if b > a {
		return b
	}
	return a
}

// mobilityBonus sums the preference's per-mode weight over every mobility
// segment, divided by the journey's total segment count (spec §4.5 Step 5).
func mobilityBonus(j Journey, pref RoutePreference) float64 {
	if len(j.Segments) == 0 || pref.MobilityPreference == nil {
		return 0
	}
	sum := 0.0
	for _, s := range j.Segments {
		switch s.Kind {
		case SegBike, SegKickboard, SegEBike:
			sum += pref.MobilityPreference[s.MobilityMode]
		}
	}
	return sum / float64(len(j.Segments))
}

// strategyBonus rewards a journey whose mobility/transit time split matches
// the zone-derived strategy's weights (spec §4.5 Step 5). Transit segments
// reconstructed from RAPTOR labels carry no per-segment duration (the core
// tracks cumulative arrival time, not a per-leg split), so transit_time is
// taken as the residual after walk and mobility time are subtracted from
// the journey total.
func strategyBonus(j Journey, strategy zone.Strategy) float64 {
	if j.TravelSeconds <= 0 {
		return 0
	}
	mobilitySec, walkSec, hasTransit := 0.0, 0.0, false
	for _, s := range j.Segments {
		switch s.Kind {
		case SegBike, SegKickboard, SegEBike:
			mobilitySec += s.Seconds
		case SegWalk:
			walkSec += s.Seconds
		case SegTransit:
			hasTransit = true
		}
	}
	transitSec := 0.0
	if hasTransit {
		transitSec = j.TravelSeconds - mobilitySec - walkSec
		if transitSec < 0 {
			transitSec = 0
		}
	}
	return strategy.WMob*(mobilitySec/j.TravelSeconds) + strategy.WTr*(transitSec/j.TravelSeconds)
}
