package dataset

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dpark/district-planner/geo"
)

// yamlDataset is the on-disk shape of a prebuilt routing dataset (spec §6:
// the demo binary only loads an already-built file — ingestion itself is an
// external collaborator out of scope for this core).
type yamlDataset struct {
	Bounds    BoundsInput     `yaml:"bounds"`
	GridSize  int             `yaml:"grid-size"`
	Stops     []yamlStop      `yaml:"stops"`
	Routes    []yamlRoute     `yaml:"routes"`
	Trips     []yamlTimetable `yaml:"timetables"`
	Transfers []yamlTransfer  `yaml:"transfers"`
	Vehicles  []yamlVehicle   `yaml:"vehicles"`
}

type yamlStop struct {
	ID   string  `yaml:"id"`
	Name string  `yaml:"name"`
	Lat  float64 `yaml:"lat"`
	Lon  float64 `yaml:"lon"`
	Kind string  `yaml:"kind"`
}

type yamlRoute struct {
	ID      string   `yaml:"id"`
	Mode    string   `yaml:"mode"`
	Label   string   `yaml:"label"`
	StopIDs []string `yaml:"stops"`
}

type yamlTrip struct {
	ID        string  `yaml:"id"`
	Arrival   []int32 `yaml:"arrival"`
	Departure []int32 `yaml:"departure"`
}

type yamlTimetable struct {
	RouteID string     `yaml:"route"`
	Trips   []yamlTrip `yaml:"trips"`
}

type yamlTransfer struct {
	From        string `yaml:"from"`
	To          string `yaml:"to"`
	WalkSeconds int32  `yaml:"walk-seconds"`
}

type yamlVehicle struct {
	ID   string  `yaml:"id"`
	Lat  float64 `yaml:"lat"`
	Lon  float64 `yaml:"lon"`
	Mode string  `yaml:"mode"`
}

func parseStopKind(s string) StopKind {
	switch s {
	case "metro":
		return StopMetro
	case "bike-dock":
		return StopBikeDock
	case "mobility-cell":
		return StopMobilityCell
	default:
		return StopBus
	}
}

func parseRouteMode(s string) RouteMode {
	switch s {
	case "metro":
		return ModeMetro
	case "virtual-mobility":
		return ModeVirtualMobility
	default:
		return ModeBus
	}
}

func parseMobilityMode(s string) MobilityMode {
	switch s {
	case "kickboard":
		return MobilityKickboard
	case "ebike":
		return MobilityEBike
	default:
		return MobilityBike
	}
}

// LoadFile reads a YAML-encoded dataset from disk and validates it into a
// query-ready RoutingDataset via Build.
func LoadFile(path string) (*RoutingDataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: read %s: %w", path, err)
	}
	var y yamlDataset
	if err := yaml.Unmarshal(data, &y); err != nil {
		return nil, fmt.Errorf("dataset: parse %s: %w", path, err)
	}

	raw := Raw{
		Bounds:    y.Bounds,
		GridSize:  y.GridSize,
		Transfers: make(map[StopID][]Transfer, len(y.Transfers)),
	}
	for _, s := range y.Stops {
		raw.Stops = append(raw.Stops, Stop{
			ID:   StopID(s.ID),
			Name: s.Name,
			Loc:  geo.Coord{Lat: s.Lat, Lon: s.Lon},
			Kind: parseStopKind(s.Kind),
		})
	}
	for _, r := range y.Routes {
		stopIDs := make([]StopID, len(r.StopIDs))
		for i, id := range r.StopIDs {
			stopIDs[i] = StopID(id)
		}
		raw.Routes = append(raw.Routes, Route{
			ID:      RouteID(r.ID),
			Mode:    parseRouteMode(r.Mode),
			Label:   r.Label,
			StopIDs: stopIDs,
		})
	}
	for _, tt := range y.Trips {
		trips := make([]Trip, len(tt.Trips))
		for i, trip := range tt.Trips {
			trips[i] = Trip{ID: trip.ID, RouteID: RouteID(tt.RouteID), Arrival: trip.Arrival, Departure: trip.Departure}
		}
		raw.Timetables = append(raw.Timetables, Timetable{RouteID: RouteID(tt.RouteID), Trips: trips})
	}
	for _, tr := range y.Transfers {
		from := StopID(tr.From)
		raw.Transfers[from] = append(raw.Transfers[from], Transfer{To: StopID(tr.To), WalkSeconds: tr.WalkSeconds})
	}
	for _, v := range y.Vehicles {
		raw.Vehicles = append(raw.Vehicles, MobilityVehicle{
			ID:   v.ID,
			Loc:  geo.Coord{Lat: v.Lat, Lon: v.Lon},
			Mode: parseMobilityMode(v.Mode),
		})
	}

	return Build(raw)
}
