package colony

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/kerebel/colony/core/logger"
	coremetrics "github.com/kerebel/colony/core/metrics"
	"github.com/kerebel/colony/core/model"
)

// NoveltyRange bounds the random bonus Explorer applies to its rewards.
// The injected noise keeps Explorer from collapsing into greedy behavior.
type NoveltyRange struct {
	Min float64
	Max float64
}

// DefaultNoveltyRange draws bonuses from [0.5, 1.5).
var DefaultNoveltyRange = NoveltyRange{Min: 0.5, Max: 1.5}

// ExplorerStrategy is coverage-first exploration: ants go to the least
// reinforced shards among those not yet visited in the current sweep, so
// every shard is reached before any is revisited even when the pheromone
// store is unavailable.
type ExplorerStrategy struct {
	store   PheromoneStore
	exec    ShardQueryExecutor
	state   *routerState
	log     logger.Logger
	timeout time.Duration
	novelty NoveltyRange

	mu  sync.Mutex
	rng *rand.Rand
}

// NewExplorerStrategy wires an Explorer dispatcher over the shared router
// state. The seed controls the novelty bonus draws.
func NewExplorerStrategy(store PheromoneStore, exec ShardQueryExecutor, state *routerState, log logger.Logger, timeout time.Duration, novelty NoveltyRange, seed int64) *ExplorerStrategy {
	if novelty.Max <= novelty.Min {
		novelty = DefaultNoveltyRange
	}
	return &ExplorerStrategy{
		store:   store,
		exec:    exec,
		state:   state,
		log:     log,
		timeout: timeout,
		novelty: novelty,
		rng:     rand.New(rand.NewSource(seed)),
	}
}

// Colony implements DispatchStrategy.
func (s *ExplorerStrategy) Colony() model.ColonyType { return model.ColonyExplorer }

// Dispatch queries the numAnts least reinforced unvisited shards and feeds
// noveltyBonus/(1+distance) back per result.
func (s *ExplorerStrategy) Dispatch(ctx context.Context, vec model.Vector, numAnts, k int) ([]model.SearchResult, []coremetrics.ShardLatency) {
	levels, err := s.store.Fetch(ctx, model.ColonyExplorer)
	if err != nil {
		s.log.Warnf("explorer: pheromone fetch failed, treating shards as unexplored: %v", err)
		levels = nil
	}
	shards := s.state.takeSweep(numAnts, levels)
	s.state.touch(shards...)
	results, lats := queryShards(ctx, s.exec, vec, shards, k, s.timeout, model.ColonyExplorer, s.log)
	reinforce(ctx, s.store, model.ColonyExplorer, results, s.bonus, s.log)
	return results, lats
}

// bonus draws a novelty multiplier from the configured range.
func (s *ExplorerStrategy) bonus() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.novelty.Min + s.rng.Float64()*(s.novelty.Max-s.novelty.Min)
}
