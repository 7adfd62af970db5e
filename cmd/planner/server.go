package main

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dpark/district-planner/geo"
	"github.com/dpark/district-planner/internal/logging"
	"github.com/dpark/district-planner/internal/metrics"
	"github.com/dpark/district-planner/internal/planner"
)

// Server is the thin HTTP layer exposing the C5 planner as /v1/plan,
// mirroring the teacher's raw net/http main.go but routed with gorilla/mux
// the way the intermodal project's routing_handler.go routes its own
// /api/routes endpoint.
type Server struct {
	core *planner.Planner
	m    *metrics.Metrics
	log  *logging.Logger
}

// NewServer wires a Planner and a Metrics instance into an HTTP handler.
func NewServer(core *planner.Planner, m *metrics.Metrics, log *logging.Logger) *Server {
	return &Server{core: core, m: m, log: log}
}

// Router builds the mux.Router this server answers on.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/v1/plan", s.handlePlan).Methods(http.MethodPost)
	r.HandleFunc("/v1/health", s.handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(s.m.Registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	var req planRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	q := planner.Query{
		Origin:       geo.Coord{Lat: req.Origin.Lat, Lon: req.Origin.Lon},
		Destination:  geo.Coord{Lat: req.Destination.Lat, Lon: req.Destination.Lon},
		DepartureSec: req.DepartureSec,
		Preference:   req.Preference.toPreference(),
	}

	start := time.Now()
	result, err := s.core.Plan(q)
	elapsed := time.Since(start)
	s.m.PlanLatencySeconds.Observe(elapsed.Seconds())

	if err != nil {
		if oob, ok := err.(*planner.ErrOutOfBounds); ok {
			http.Error(w, oob.Error(), http.StatusUnprocessableEntity)
			return
		}
		s.log.Warn("plan() failed", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	s.m.PlanRequestsTotal.WithLabelValues(result.Strategy).Inc()
	if result.TimedOut {
		s.m.PlanTimedOutTotal.Inc()
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toPlanResponse(result))
}
