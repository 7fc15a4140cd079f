package colony

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	shardQueriesTotal  *prometheus.CounterVec
	shardQueryLatency  *prometheus.HistogramVec
	shardQueryFailures *prometheus.CounterVec
	pheromoneUpdates   *prometheus.CounterVec
	queriesHandled     prometheus.Counter
	storeFailOpen      prometheus.Gauge
)

// newCollectors creates new metric collectors.
func newCollectors() (*prometheus.CounterVec, *prometheus.HistogramVec, *prometheus.CounterVec, *prometheus.CounterVec, prometheus.Counter, prometheus.Gauge) {
	queries := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "colony_shard_queries_total",
			Help: "Number of shard queries issued per colony type",
		},
		[]string{"colony"},
	)
	latency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "colony_shard_query_latency_seconds",
			Help:    "Latency of individual shard queries",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"colony"},
	)
	failures := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "colony_shard_query_failures_total",
			Help: "Number of shard queries that errored or timed out",
		},
		[]string{"colony"},
	)
	updates := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "colony_pheromone_updates_total",
			Help: "Number of pheromone reinforcements applied",
		},
		[]string{"colony"},
	)
	handled := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "colony_queries_handled_total",
			Help: "Number of queries routed",
		},
	)
	failOpen := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "colony_store_fail_open",
			Help: "Set to 1 once the pheromone store became unreachable",
		},
	)
	return queries, latency, failures, updates, handled, failOpen
}

func init() {
	shardQueriesTotal, shardQueryLatency, shardQueryFailures, pheromoneUpdates, queriesHandled, storeFailOpen = newCollectors()
	MustRegisterMetrics(nil)
}

// MustRegisterMetrics registers routing metrics on the provided registry.
// If reg is nil, prometheus.DefaultRegisterer is used.
func MustRegisterMetrics(reg prometheus.Registerer) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(shardQueriesTotal, shardQueryLatency, shardQueryFailures, pheromoneUpdates, queriesHandled, storeFailOpen)
}

// ResetMetrics reinitializes metrics collectors for testing purposes and
// registers them on the provided registry if not nil.
func ResetMetrics(reg prometheus.Registerer) {
	shardQueriesTotal, shardQueryLatency, shardQueryFailures, pheromoneUpdates, queriesHandled, storeFailOpen = newCollectors()
	if reg != nil {
		MustRegisterMetrics(reg)
	}
}
