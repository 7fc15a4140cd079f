package colony

import (
	"context"
	"time"

	"github.com/kerebel/colony/core/logger"
	coremetrics "github.com/kerebel/colony/core/metrics"
	"github.com/kerebel/colony/core/model"
)

// RingStrategy rotates a pointer over the partition set, advancing by the
// ant budget on every call. Selection ignores pheromone entirely, which
// guarantees uniform long-run shard coverage, but results still reinforce
// the ring namespace.
type RingStrategy struct {
	store   PheromoneStore
	exec    ShardQueryExecutor
	state   *routerState
	log     logger.Logger
	timeout time.Duration
}

// NewRingStrategy wires a Ring dispatcher over the shared router state.
func NewRingStrategy(store PheromoneStore, exec ShardQueryExecutor, state *routerState, log logger.Logger, timeout time.Duration) *RingStrategy {
	return &RingStrategy{store: store, exec: exec, state: state, log: log, timeout: timeout}
}

// Colony implements DispatchStrategy.
func (s *RingStrategy) Colony() model.ColonyType { return model.ColonyRing }

// Dispatch queries the next numAnts shards in rotation order.
func (s *RingStrategy) Dispatch(ctx context.Context, vec model.Vector, numAnts, k int) ([]model.SearchResult, []coremetrics.ShardLatency) {
	shards := s.state.ringAdvance(numAnts)
	s.state.touch(shards...)
	results, lats := queryShards(ctx, s.exec, vec, shards, k, s.timeout, model.ColonyRing, s.log)
	reinforce(ctx, s.store, model.ColonyRing, results, unitBonus, s.log)
	return results, lats
}
