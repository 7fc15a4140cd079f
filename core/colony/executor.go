package colony

import (
	"context"
	"math/rand"
	"sync"

	"github.com/kerebel/colony/core/model"
)

// ShardQueryExecutor performs a k-NN lookup scoped to a single shard.
// Implementations must honor the context deadline and must return an empty
// slice, not an error, when a shard holds no candidates.
type ShardQueryExecutor interface {
	RunQuery(ctx context.Context, vec model.Vector, shard model.ShardID, k int) ([]model.SearchResult, error)
}

// SyntheticExecutor fabricates k results per query with uniformly random
// distances in [0,1) and pseudo-random ids. It backs dry-run mode so the
// dispatch and allocation logic can be exercised without a vector index.
// The generator is seedable for reproducible tests.
type SyntheticExecutor struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSyntheticExecutor creates an executor seeded with the given value.
func NewSyntheticExecutor(seed int64) *SyntheticExecutor {
	return &SyntheticExecutor{rng: rand.New(rand.NewSource(seed))}
}

// RunQuery implements ShardQueryExecutor.
func (e *SyntheticExecutor) RunQuery(ctx context.Context, _ model.Vector, shard model.ShardID, k int) ([]model.SearchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	results := make([]model.SearchResult, 0, k)
	for i := 0; i < k; i++ {
		results = append(results, model.SearchResult{
			ID:       e.rng.Int63(),
			Shard:    shard,
			Distance: e.rng.Float64(),
		})
	}
	return results, nil
}
