package colony

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/kerebel/colony/core/logger"
	coremetrics "github.com/kerebel/colony/core/metrics"
	"github.com/kerebel/colony/core/model"
)

// DefaultShardTimeout bounds a single shard query so one unresponsive
// shard cannot stall a whole dispatch round.
const DefaultShardTimeout = 3 * time.Second

// DispatchStrategy selects a subset of shards for one routing round,
// queries them, and reinforces its pheromone namespace from the results.
// Implementations never fail hard: shard errors are captured and the
// partial result set is returned, alongside per-shard latency measurements
// for sinks that record them.
type DispatchStrategy interface {
	Colony() model.ColonyType
	Dispatch(ctx context.Context, vec model.Vector, numAnts, k int) ([]model.SearchResult, []coremetrics.ShardLatency)
}

// rankShards orders the full shard set by pheromone level, ties broken by
// ascending shard id. Star ranks descending, Explorer ascending; the shared
// tie-break keeps both orderings reproducible under a frozen snapshot.
func rankShards(levels map[model.ShardID]float64, partitions int, descending bool) []model.ShardID {
	ids := make([]model.ShardID, partitions)
	for i := range ids {
		ids[i] = model.ShardID(i)
	}
	sort.SliceStable(ids, func(i, j int) bool {
		li, lj := levels[ids[i]], levels[ids[j]]
		if li == lj {
			return ids[i] < ids[j]
		}
		if descending {
			return li > lj
		}
		return li < lj
	})
	return ids
}

// queryShards fans out one k-NN query per shard, each bounded by its own
// timeout. A shard that errors or times out contributes nothing this round;
// the remaining queries are unaffected.
func queryShards(ctx context.Context, exec ShardQueryExecutor, vec model.Vector, shards []model.ShardID, k int, timeout time.Duration, colony model.ColonyType, log logger.Logger) ([]model.SearchResult, []coremetrics.ShardLatency) {
	if timeout <= 0 {
		timeout = DefaultShardTimeout
	}
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		out  []model.SearchResult
		lats []coremetrics.ShardLatency
	)
	for _, sh := range shards {
		wg.Add(1)
		go func(sh model.ShardID) {
			defer wg.Done()
			qctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()
			start := time.Now()
			res, err := exec.RunQuery(qctx, vec, sh, k)
			elapsed := time.Since(start)
			shardQueriesTotal.WithLabelValues(colony.String()).Inc()
			shardQueryLatency.WithLabelValues(colony.String()).Observe(elapsed.Seconds())
			lat := coremetrics.ShardLatency{
				Colony:   colony,
				Shard:    sh,
				Results:  len(res),
				Latency:  elapsed,
				TimedOut: errors.Is(err, context.DeadlineExceeded),
			}
			if err != nil {
				shardQueryFailures.WithLabelValues(colony.String()).Inc()
				log.Warnf("%s: shard %d query failed: %v", colony, sh, err)
				mu.Lock()
				lats = append(lats, lat)
				mu.Unlock()
				return
			}
			mu.Lock()
			out = append(out, res...)
			lats = append(lats, lat)
			mu.Unlock()
		}(sh)
	}
	wg.Wait()
	return out, lats
}

// reinforce applies bonus()/(1+distance) to the strategy's namespace for
// every result. Deltas are always non-negative because distances are
// non-negative and bonuses are positive.
func reinforce(ctx context.Context, store PheromoneStore, colony model.ColonyType, results []model.SearchResult, bonus func() float64, log logger.Logger) {
	for _, r := range results {
		delta := bonus() / (1 + r.Distance)
		if err := store.Update(ctx, colony, r.Shard, delta); err != nil {
			log.Errorf("%s: reinforcing shard %d: %v", colony, r.Shard, err)
			continue
		}
		pheromoneUpdates.WithLabelValues(colony.String()).Inc()
	}
}

func unitBonus() float64 { return 1 }
