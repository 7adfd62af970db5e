package main

import (
	"github.com/dpark/district-planner/internal/dataset"
	"github.com/dpark/district-planner/internal/planner"
)

// planRequest is the wire shape of a POST /v1/plan body.
type planRequest struct {
	Origin       position        `json:"origin"`
	Destination  position        `json:"destination"`
	DepartureSec int32           `json:"departure_sec"`
	Preference   *preferenceBody `json:"preference,omitempty"`
}

type position struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type preferenceBody struct {
	TimeWeight      float64            `json:"time_weight"`
	TransferWeight  float64            `json:"transfer_weight"`
	WalkWeight      float64            `json:"walk_weight"`
	CostWeight      float64            `json:"cost_weight"`
	MobilityBonus   map[string]float64 `json:"mobility_bonus"`
	MaxWalkDistance float64            `json:"max_walk_distance"`
	MaxWalkToStop   float64            `json:"max_walk_to_stop"`
}

func (b *preferenceBody) toPreference() planner.RoutePreference {
	if b == nil {
		return planner.DefaultPreference()
	}
	pref := planner.RoutePreference{
		TimeWeight:      b.TimeWeight,
		TransferWeight:  b.TransferWeight,
		WalkWeight:      b.WalkWeight,
		CostWeight:      b.CostWeight,
		MaxWalkDistance: b.MaxWalkDistance,
		MaxWalkToStop:   b.MaxWalkToStop,
	}
	if len(b.MobilityBonus) > 0 {
		pref.MobilityPreference = make(map[dataset.MobilityMode]float64, len(b.MobilityBonus))
		for k, v := range b.MobilityBonus {
			pref.MobilityPreference[parseMobilityModeName(k)] = v
		}
	}
	return pref
}

func parseMobilityModeName(s string) dataset.MobilityMode {
	switch s {
	case "kickboard":
		return dataset.MobilityKickboard
	case "ebike":
		return dataset.MobilityEBike
	default:
		return dataset.MobilityBike
	}
}

// planResponse is the wire shape of a plan() result.
type planResponse struct {
	Strategy string        `json:"strategy"`
	TimedOut bool          `json:"timed_out"`
	Reason   string        `json:"reason,omitempty"`
	Journeys []journeyBody `json:"journeys"`
}

type journeyBody struct {
	Segments      []segmentBody `json:"segments"`
	TravelSeconds float64       `json:"travel_seconds"`
	WalkMeters    float64       `json:"walk_meters"`
	TransferCount int           `json:"transfer_count"`
	Cost          int64         `json:"cost"`
	Strategy      string        `json:"strategy"`
	Informational bool          `json:"informational"`
	Score         float64       `json:"score"`
}

type segmentBody struct {
	Kind       string  `json:"kind"`
	From       string  `json:"from,omitempty"`
	To         string  `json:"to,omitempty"`
	Seconds    float64 `json:"seconds"`
	Meters     float64 `json:"meters"`
	RouteLabel string  `json:"route_label,omitempty"`
}

func toPlanResponse(r planner.PlanResult) planResponse {
	out := planResponse{Strategy: r.Strategy, TimedOut: r.TimedOut, Reason: r.Reason}
	out.Journeys = make([]journeyBody, len(r.Journeys))
	for i, j := range r.Journeys {
		jb := journeyBody{
			TravelSeconds: j.TravelSeconds,
			WalkMeters:    j.WalkMeters,
			TransferCount: j.TransferCount,
			Cost:          j.Cost,
			Strategy:      j.Strategy,
			Informational: j.Informational,
			Score:         j.Score,
		}
		jb.Segments = make([]segmentBody, len(j.Segments))
		for si, s := range j.Segments {
			jb.Segments[si] = segmentBody{
				Kind:       s.Kind.String(),
				From:       string(s.From),
				To:         string(s.To),
				Seconds:    s.Seconds,
				Meters:     s.Meters,
				RouteLabel: s.RouteLabel,
			}
		}
		out.Journeys[i] = jb
	}
	return out
}
