package colony

import (
	"context"
	"sync"

	"github.com/kerebel/colony/core/events"
	"github.com/kerebel/colony/core/logger"
	"github.com/kerebel/colony/core/model"
	"github.com/kerebel/colony/internal/eventbus"
)

// PheromoneStore persists reinforcement levels keyed by (colony type,
// shard). Implementations must be safe for concurrent use and must make
// Update an atomic increment so concurrent strategies cannot lose writes.
type PheromoneStore interface {
	// Fetch returns all known levels for a colony type. Shards without an
	// entry implicitly have level zero.
	Fetch(ctx context.Context, colony model.ColonyType) (map[model.ShardID]float64, error)
	// Update atomically adds delta to the level for (colony, shard),
	// creating the entry if absent.
	Update(ctx context.Context, colony model.ColonyType, shard model.ShardID, delta float64) error
	// Close releases underlying connection resources.
	Close() error
}

// MemoryStore is a mutex-guarded in-memory PheromoneStore. It backs dry-run
// mode and tests, and serves as the fallback when the relational store is
// unreachable.
type MemoryStore struct {
	mu     sync.Mutex
	levels map[model.ColonyType]map[model.ShardID]float64
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{levels: make(map[model.ColonyType]map[model.ShardID]float64)}
}

// Fetch returns a copy of the levels for the colony type.
func (s *MemoryStore) Fetch(_ context.Context, colony model.ColonyType) (map[model.ShardID]float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[model.ShardID]float64, len(s.levels[colony]))
	for sh, lvl := range s.levels[colony] {
		out[sh] = lvl
	}
	return out, nil
}

// Update adds delta to the stored level.
func (s *MemoryStore) Update(_ context.Context, colony model.ColonyType, shard model.ShardID, delta float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := s.levels[colony]
	if m == nil {
		m = make(map[model.ShardID]float64)
		s.levels[colony] = m
	}
	m[shard] += delta
	return nil
}

// Close implements PheromoneStore.
func (s *MemoryStore) Close() error { return nil }

// FailOpenStore wraps a PheromoneStore so that routing keeps functioning
// when persistence is unreachable: Fetch degrades to an empty map (all
// shards equally unexplored) and Update becomes a silent no-op. Each
// failure class is logged once to avoid log storms; availability changes
// are published on the bus when one is configured.
type FailOpenStore struct {
	inner      PheromoneStore
	log        logger.Logger
	bus        eventbus.EventBus
	fetchOnce  sync.Once
	updateOnce sync.Once
}

// NewFailOpenStore wraps inner. The bus may be nil.
func NewFailOpenStore(inner PheromoneStore, log logger.Logger, bus eventbus.EventBus) *FailOpenStore {
	return &FailOpenStore{inner: inner, log: log, bus: bus}
}

// Fetch never returns an error; failures yield an empty level map.
func (s *FailOpenStore) Fetch(ctx context.Context, colony model.ColonyType) (map[model.ShardID]float64, error) {
	levels, err := s.inner.Fetch(ctx, colony)
	if err != nil {
		s.fetchOnce.Do(func() {
			s.log.Warnf("pheromone fetch unavailable, routing fail-open: %v", err)
			storeFailOpen.Set(1)
			if s.bus != nil {
				s.bus.Publish(events.StoreEvent{Down: true, Err: err})
			}
		})
		return map[model.ShardID]float64{}, nil
	}
	return levels, nil
}

// Update never returns an error; failed reinforcement is dropped.
func (s *FailOpenStore) Update(ctx context.Context, colony model.ColonyType, shard model.ShardID, delta float64) error {
	if err := s.inner.Update(ctx, colony, shard, delta); err != nil {
		s.updateOnce.Do(func() {
			s.log.Warnf("pheromone update unavailable, reinforcement dropped: %v", err)
			storeFailOpen.Set(1)
			if s.bus != nil {
				s.bus.Publish(events.StoreEvent{Down: true, Err: err})
			}
		})
	}
	return nil
}

// Close closes the wrapped store.
func (s *FailOpenStore) Close() error { return s.inner.Close() }
