// Package metrics provides Prometheus metrics for the planner core,
// grounded on maglev's internal/metrics package: a custom registry holding
// named counters/histograms, constructed once and passed around rather than
// relying on the default global registry.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds every Prometheus collector the planner core touches.
type Metrics struct {
	Registry *prometheus.Registry

	PlanRequestsTotal   *prometheus.CounterVec
	PlanLatencySeconds  prometheus.Histogram
	PlanTimedOutTotal   prometheus.Counter
	RaptorRoundsTotal   prometheus.Counter
	OracleCacheHits     prometheus.Counter
	OracleCacheMisses   prometheus.Counter
	OracleFallbackTotal prometheus.Counter
}

// New creates and registers every planner metric with a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	planRequestsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "planner_plan_requests_total",
			Help: "Total number of plan() invocations, labeled by strategy",
		},
		[]string{"strategy"},
	)

	planLatencySeconds := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "planner_plan_latency_seconds",
		Help:    "plan() wall-clock latency distribution",
		Buckets: prometheus.DefBuckets,
	})

	planTimedOutTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "planner_plan_timed_out_total",
		Help: "Total number of plan() calls that hit their deadline before completing",
	})

	raptorRoundsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "planner_raptor_rounds_total",
		Help: "Total number of RAPTOR rounds executed across all queries",
	})

	oracleCacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "planner_oracle_cache_hits_total",
		Help: "Total road-distance oracle lookups served from the per-query or L2 cache",
	})

	oracleCacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "planner_oracle_cache_misses_total",
		Help: "Total road-distance oracle lookups that required a graph call or haversine fallback",
	})

	oracleFallbackTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "planner_oracle_fallback_total",
		Help: "Total road-distance lookups that fell back to haversine*1.3",
	})

	registry.MustRegister(
		planRequestsTotal,
		planLatencySeconds,
		planTimedOutTotal,
		raptorRoundsTotal,
		oracleCacheHits,
		oracleCacheMisses,
		oracleFallbackTotal,
	)

	return &Metrics{
		Registry:            registry,
		PlanRequestsTotal:   planRequestsTotal,
		PlanLatencySeconds:  planLatencySeconds,
		PlanTimedOutTotal:   planTimedOutTotal,
		RaptorRoundsTotal:   raptorRoundsTotal,
		OracleCacheHits:     oracleCacheHits,
		OracleCacheMisses:   oracleCacheMisses,
		OracleFallbackTotal: oracleFallbackTotal,
	}
}

// CacheHit records a road-distance lookup served from the per-query or L2
// cache. Satisfies oracle.Counters.
func (m *Metrics) CacheHit() { m.OracleCacheHits.Inc() }

// CacheMiss records a road-distance lookup that required a graph call or
// haversine fallback. Satisfies oracle.Counters.
func (m *Metrics) CacheMiss() { m.OracleCacheMisses.Inc() }

// Fallback records a road-distance lookup that fell back to haversine*1.3.
// Satisfies oracle.Counters.
func (m *Metrics) Fallback() { m.OracleFallbackTotal.Inc() }

// IncRounds adds n executed RAPTOR rounds to the running total. Satisfies
// raptor.RoundsCounter.
func (m *Metrics) IncRounds(n int) { m.RaptorRoundsTotal.Add(float64(n)) }
