package metrics

import (
	"time"

	"github.com/kerebel/colony/core/model"
)

// RoutingRecord represents a per-result routing event to be recorded.
type RoutingRecord struct {
	QueryID  string
	Colony   model.ColonyType
	Shard    model.ShardID
	Distance float64
	Reward   float64
	Time     time.Time
}

// RoutingSink records routing results for observability purposes.
type RoutingSink interface {
	RecordRouting(records []RoutingRecord) error
}

// ShardLatency represents the time one shard query took within a dispatch.
type ShardLatency struct {
	Colony   model.ColonyType
	Shard    model.ShardID
	Results  int
	Latency  time.Duration
	TimedOut bool
}

// LatencyRecorder is implemented by sinks able to record shard query latency.
type LatencyRecorder interface {
	RecordShardLatency(latencies []ShardLatency) error
}

// PheromoneSnapshotRecorder records aggregate pheromone levels, typically
// once per dispatch round.
type PheromoneSnapshotRecorder interface {
	RecordPheromoneTotal(colony model.ColonyType, total float64) error
}

// NopSink implements RoutingSink and the optional recorders with no-ops.
type NopSink struct{}

func (NopSink) RecordRouting([]RoutingRecord) error { return nil }

func (NopSink) RecordShardLatency([]ShardLatency) error { return nil }

func (NopSink) RecordPheromoneTotal(model.ColonyType, float64) error { return nil }
