package colony

import (
	"context"
	"time"

	"github.com/kerebel/colony/core/logger"
	coremetrics "github.com/kerebel/colony/core/metrics"
	"github.com/kerebel/colony/core/model"
)

// StarStrategy is pure exploitation: ants go to the shards carrying the
// highest star pheromone. Given an identical pheromone snapshot two calls
// select the identical ordered shard subset.
type StarStrategy struct {
	store   PheromoneStore
	exec    ShardQueryExecutor
	state   *routerState
	log     logger.Logger
	timeout time.Duration
}

// NewStarStrategy wires a Star dispatcher over the shared router state.
func NewStarStrategy(store PheromoneStore, exec ShardQueryExecutor, state *routerState, log logger.Logger, timeout time.Duration) *StarStrategy {
	return &StarStrategy{store: store, exec: exec, state: state, log: log, timeout: timeout}
}

// Colony implements DispatchStrategy.
func (s *StarStrategy) Colony() model.ColonyType { return model.ColonyStar }

// Dispatch queries the numAnts most reinforced shards and feeds
// 1/(1+distance) back per result.
func (s *StarStrategy) Dispatch(ctx context.Context, vec model.Vector, numAnts, k int) ([]model.SearchResult, []coremetrics.ShardLatency) {
	levels, err := s.store.Fetch(ctx, model.ColonyStar)
	if err != nil {
		s.log.Warnf("star: pheromone fetch failed, treating shards as unexplored: %v", err)
		levels = nil
	}
	order := rankShards(levels, s.state.partitions, true)
	if numAnts > len(order) {
		numAnts = len(order)
	}
	shards := order[:numAnts]
	s.state.touch(shards...)
	results, lats := queryShards(ctx, s.exec, vec, shards, k, s.timeout, model.ColonyStar, s.log)
	reinforce(ctx, s.store, model.ColonyStar, results, unitBonus, s.log)
	return results, lats
}
