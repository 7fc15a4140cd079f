package colony

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kerebel/colony/core/events"
	"github.com/kerebel/colony/core/logger"
	coremetrics "github.com/kerebel/colony/core/metrics"
	"github.com/kerebel/colony/core/model"
	"github.com/kerebel/colony/internal/eventbus"
)

// ColonyRouter orchestrates the Star, Ring and Explorer strategies for each
// incoming query, merges their candidate lists and returns the global top K
// by distance. The contract is best-effort: shard failures and store
// outages shrink the result set but never surface as errors.
type ColonyRouter struct {
	policy   AllocationPolicy
	store    PheromoneStore
	state    *routerState
	star     DispatchStrategy
	ring     DispatchStrategy
	explorer DispatchStrategy
	log      logger.Logger
	sink     coremetrics.RoutingSink
	bus      eventbus.EventBus
}

// NewColonyRouter creates a router for the given policy. The store is
// wrapped fail-open so routing keeps functioning when persistence is
// unreachable; sink and bus may be nil. shardTimeout bounds each individual
// shard query, defaulting to DefaultShardTimeout when non-positive. The
// seed drives the Explorer novelty draws.
func NewColonyRouter(policy AllocationPolicy, store PheromoneStore, exec ShardQueryExecutor, sink coremetrics.RoutingSink, bus eventbus.EventBus, log logger.Logger, shardTimeout time.Duration, novelty NoveltyRange, seed int64) (*ColonyRouter, error) {
	if store == nil || exec == nil || log == nil {
		return nil, fmt.Errorf("colony: nil parameter provided to NewColonyRouter")
	}
	if err := policy.Validate(); err != nil {
		return nil, fmt.Errorf("colony: %w", err)
	}
	if sink == nil {
		sink = coremetrics.NopSink{}
	}
	if shardTimeout <= 0 {
		shardTimeout = DefaultShardTimeout
	}

	failOpen := NewFailOpenStore(store, log, bus)
	state := newRouterState(policy.PartitionCount)
	return &ColonyRouter{
		policy:   policy,
		store:    failOpen,
		state:    state,
		star:     NewStarStrategy(failOpen, exec, state, log, shardTimeout),
		ring:     NewRingStrategy(failOpen, exec, state, log, shardTimeout),
		explorer: NewExplorerStrategy(failOpen, exec, state, log, shardTimeout, novelty, seed),
		log:      log,
		sink:     sink,
		bus:      bus,
	}, nil
}

// Policy returns the allocation policy the router was built with.
func (r *ColonyRouter) Policy() AllocationPolicy { return r.policy }

// HandleQuery routes one query vector: the three strategies dispatch their
// ant budgets concurrently, every result reinforces its strategy's
// pheromone namespace, and the merged candidates are ranked by ascending
// distance and truncated to k. On context cancellation whatever partial
// results completed are returned.
//
// Star and Ring each run with the full exploitation budget rather than
// splitting it, so the total ants issued per round may exceed the partition
// count. The oversampling biases merged results toward exploitation.
func (r *ColonyRouter) HandleQuery(ctx context.Context, vec model.Vector, k int) []model.SearchResult {
	queryID := uuid.NewString()
	queriesHandled.Inc()
	if r.bus != nil {
		r.bus.Publish(events.QueryEvent{QueryID: queryID, K: k})
	}

	exploitAnts := r.policy.StarRingAnts()
	exploreAnts := r.policy.ExplorerAnts()
	r.log.Debugw("routing query", map[string]any{
		"query_id":      queryID,
		"k":             k,
		"star_ants":     exploitAnts,
		"ring_ants":     exploitAnts,
		"explorer_ants": exploreAnts,
	})

	calls := []struct {
		strat DispatchStrategy
		ants  int
	}{
		{r.star, exploitAnts},
		{r.ring, exploitAnts},
		{r.explorer, exploreAnts},
	}

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		merged []model.SearchResult
	)
	now := time.Now()
	for _, c := range calls {
		wg.Add(1)
		go func(strat DispatchStrategy, ants int) {
			defer wg.Done()
			res, lats := strat.Dispatch(ctx, vec, ants, k)
			if r.bus != nil {
				r.bus.Publish(events.StrategyEvent{QueryID: queryID, Colony: strat.Colony(), Ants: ants, Results: len(res)})
			}
			r.recordRouting(queryID, strat.Colony(), res, now)
			r.recordShardLatency(lats)
			r.recordPheromoneTotal(ctx, strat.Colony())
			mu.Lock()
			merged = append(merged, res...)
			mu.Unlock()
		}(c.strat, c.ants)
	}
	wg.Wait()

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Distance < merged[j].Distance
	})
	if len(merged) > k {
		merged = merged[:k]
	}
	return merged
}

// Reset clears the router-local routing state: ring pointer, explorer
// sweep, logical clock. Pheromone levels are untouched; clearing those is a
// store-side maintenance operation.
func (r *ColonyRouter) Reset() {
	r.state.reset()
}

// Close releases the pheromone store and the event bus.
func (r *ColonyRouter) Close() error {
	if r.bus != nil {
		r.bus.Close()
	}
	return r.store.Close()
}

// recordRouting forwards per-result records to the configured sink. Reward
// is the base reinforcement 1/(1+distance); Explorer's novelty multiplier
// is not reproduced here.
func (r *ColonyRouter) recordRouting(queryID string, colony model.ColonyType, results []model.SearchResult, now time.Time) {
	if len(results) == 0 {
		return
	}
	recs := make([]coremetrics.RoutingRecord, 0, len(results))
	for _, res := range results {
		recs = append(recs, coremetrics.RoutingRecord{
			QueryID:  queryID,
			Colony:   colony,
			Shard:    res.Shard,
			Distance: res.Distance,
			Reward:   1 / (1 + res.Distance),
			Time:     now,
		})
	}
	if err := r.sink.RecordRouting(recs); err != nil {
		r.log.Errorf("routing sink error: %v", err)
	}
}

// recordShardLatency forwards per-shard timings to sinks that record them.
func (r *ColonyRouter) recordShardLatency(lats []coremetrics.ShardLatency) {
	if len(lats) == 0 {
		return
	}
	rec, ok := r.sink.(coremetrics.LatencyRecorder)
	if !ok {
		return
	}
	if err := rec.RecordShardLatency(lats); err != nil {
		r.log.Errorf("latency sink error: %v", err)
	}
}

// recordPheromoneTotal snapshots the colony's aggregate pheromone level
// after reinforcement for sinks that track it.
func (r *ColonyRouter) recordPheromoneTotal(ctx context.Context, colony model.ColonyType) {
	rec, ok := r.sink.(coremetrics.PheromoneSnapshotRecorder)
	if !ok {
		return
	}
	levels, err := r.store.Fetch(ctx, colony)
	if err != nil {
		return
	}
	var total float64
	for _, lvl := range levels {
		total += lvl
	}
	if err := rec.RecordPheromoneTotal(colony, total); err != nil {
		r.log.Errorf("pheromone sink error: %v", err)
	}
}
