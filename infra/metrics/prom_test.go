package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	coremetrics "github.com/kerebel/colony/core/metrics"
	"github.com/kerebel/colony/core/model"
)

func TestPromSinkRecordRouting(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	require.NoError(t, err)

	recs := []coremetrics.RoutingRecord{
		{QueryID: "q1", Colony: model.ColonyStar, Shard: 2, Distance: 0.4, Reward: 1 / 1.4, Time: time.Now()},
		{QueryID: "q1", Colony: model.ColonyStar, Shard: 2, Distance: 0.1, Reward: 1 / 1.1, Time: time.Now()},
		{QueryID: "q1", Colony: model.ColonyExplorer, Shard: 5, Distance: 0.9, Reward: 1 / 1.9, Time: time.Now()},
	}
	require.NoError(t, sink.RecordRouting(recs))

	ps := sink.(*PromSink)
	require.Equal(t, 2.0, testutil.ToFloat64(ps.results.WithLabelValues("star", "2")))
	require.Equal(t, 1.0, testutil.ToFloat64(ps.results.WithLabelValues("explorer", "5")))
}

func TestPromSinkIdempotentRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	require.NoError(t, err)
	_, err = NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	require.NoError(t, err)
}

func TestPromSinkPheromoneGauge(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	require.NoError(t, err)
	ps := sink.(*PromSink)
	require.NoError(t, ps.RecordPheromoneTotal(model.ColonyRing, 12.5))
	require.Equal(t, 12.5, testutil.ToFloat64(ps.pheromone.WithLabelValues("ring")))
}
