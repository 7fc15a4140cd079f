package metrics

import (
	coremetrics "github.com/kerebel/colony/core/metrics"
	"github.com/kerebel/colony/core/model"
)

// MultiSink fans routing records out to multiple sinks.
type MultiSink struct {
	Sinks []coremetrics.RoutingSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...coremetrics.RoutingSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordRouting forwards the records to all sinks, returning the first
// error encountered.
func (m *MultiSink) RecordRouting(recs []coremetrics.RoutingRecord) error {
	for _, s := range m.Sinks {
		if err := s.RecordRouting(recs); err != nil {
			return err
		}
	}
	return nil
}

// RecordShardLatency forwards latency records to sinks that support them.
func (m *MultiSink) RecordShardLatency(lats []coremetrics.ShardLatency) error {
	for _, s := range m.Sinks {
		if lr, ok := s.(coremetrics.LatencyRecorder); ok {
			if err := lr.RecordShardLatency(lats); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordPheromoneTotal forwards aggregate levels to sinks that support them.
func (m *MultiSink) RecordPheromoneTotal(colony model.ColonyType, total float64) error {
	for _, s := range m.Sinks {
		if pr, ok := s.(coremetrics.PheromoneSnapshotRecorder); ok {
			if err := pr.RecordPheromoneTotal(colony, total); err != nil {
				return err
			}
		}
	}
	return nil
}
