package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kerebel/colony/core/metrics"
	"github.com/kerebel/colony/core/model"
)

// PromSink records routing events in Prometheus metrics.
type PromSink struct {
	results   *prometheus.CounterVec
	distance  *prometheus.HistogramVec
	latency   *prometheus.HistogramVec
	pheromone *prometheus.GaugeVec
}

// NewPromSink registers routing metrics on the default Prometheus
// registerer. The Prometheus server should be started separately using
// cfg.PrometheusPort.
func NewPromSink(cfg coremetrics.Config) (coremetrics.RoutingSink, error) {
	return NewPromSinkWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(_ coremetrics.Config, reg prometheus.Registerer) (coremetrics.RoutingSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	results := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "colony_routing_results_total",
		Help: "Total number of routed results",
	}, []string{"colony", "shard"})
	distance := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "colony_result_distance",
		Help:    "Distance distribution of routed results",
		Buckets: prometheus.LinearBuckets(0, 0.1, 10),
	}, []string{"colony"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "colony_sink_shard_latency_seconds",
		Help:    "Per-shard query latency as reported to the sink",
		Buckets: prometheus.DefBuckets,
	}, []string{"colony"})
	pheromone := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "colony_pheromone_total",
		Help: "Aggregate pheromone level per colony type",
	}, []string{"colony"})

	if err := reg.Register(results); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			results = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(distance); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			distance = are.ExistingCollector.(*prometheus.HistogramVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(latency); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			latency = are.ExistingCollector.(*prometheus.HistogramVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(pheromone); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			pheromone = are.ExistingCollector.(*prometheus.GaugeVec)
		} else {
			return nil, err
		}
	}

	return &PromSink{results: results, distance: distance, latency: latency, pheromone: pheromone}, nil
}

// RecordRouting increments the result counter and observes distances.
func (s *PromSink) RecordRouting(recs []coremetrics.RoutingRecord) error {
	for _, r := range recs {
		s.results.WithLabelValues(r.Colony.String(), strconv.Itoa(int(r.Shard))).Inc()
		s.distance.WithLabelValues(r.Colony.String()).Observe(r.Distance)
	}
	return nil
}

// RecordShardLatency observes per-shard query latencies.
func (s *PromSink) RecordShardLatency(lats []coremetrics.ShardLatency) error {
	for _, l := range lats {
		s.latency.WithLabelValues(l.Colony.String()).Observe(l.Latency.Seconds())
	}
	return nil
}

// RecordPheromoneTotal sets the aggregate level gauge for a colony type.
func (s *PromSink) RecordPheromoneTotal(colony model.ColonyType, total float64) error {
	s.pheromone.WithLabelValues(colony.String()).Set(total)
	return nil
}
