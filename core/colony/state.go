package colony

import (
	"sort"
	"sync"

	"github.com/kerebel/colony/core/model"
)

// routerState holds the mutable routing cursors owned by one router
// instance: the Ring rotation pointer, the Explorer sweep queue, and the
// recency bookkeeping (logical clock plus last-used map). Concurrent
// HandleQuery calls on the same router serialize on the embedded mutex
// even though strategy execution within one call fans out.
type routerState struct {
	mu         sync.Mutex
	partitions int
	ringPos    int
	sweep      []model.ShardID
	lastUsed   map[model.ShardID]int64
	clock      int64
}

func newRouterState(partitions int) *routerState {
	s := &routerState{
		partitions: partitions,
		lastUsed:   make(map[model.ShardID]int64, partitions),
	}
	s.refillSweepLocked()
	return s
}

// ringAdvance returns the next n shard positions, wrapping around the
// partition set, and moves the pointer past them.
func (s *routerState) ringAdvance(n int) []model.ShardID {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.ShardID, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, model.ShardID(s.ringPos))
		s.ringPos = (s.ringPos + 1) % s.partitions
	}
	return out
}

// takeSweep removes and returns up to n shards from the current explorer
// sweep, least reinforced first (ties by ascending shard id). The sweep
// refills with the full partition set once exhausted, guaranteeing every
// shard is visited before any is revisited.
func (s *routerState) takeSweep(n int, levels map[model.ShardID]float64) []model.ShardID {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n > s.partitions {
		n = s.partitions
	}
	out := make([]model.ShardID, 0, n)
	taken := make(map[model.ShardID]bool, n)
	for len(out) < n {
		if len(s.sweep) == 0 {
			s.refillSweepLocked()
		}
		sort.SliceStable(s.sweep, func(i, j int) bool {
			li, lj := levels[s.sweep[i]], levels[s.sweep[j]]
			if li == lj {
				return s.sweep[i] < s.sweep[j]
			}
			return li < lj
		})
		idx := -1
		for i, sh := range s.sweep {
			if !taken[sh] {
				idx = i
				break
			}
		}
		if idx == -1 {
			// Every remaining shard was already chosen this call.
			break
		}
		sh := s.sweep[idx]
		s.sweep = append(s.sweep[:idx], s.sweep[idx+1:]...)
		out = append(out, sh)
		taken[sh] = true
	}
	return out
}

// touch advances the logical clock and records the visit time for each
// shard, preserving lastUsed[shard] <= clock.
func (s *routerState) touch(shards ...model.ShardID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sh := range shards {
		s.clock++
		s.lastUsed[sh] = s.clock
	}
}

// reset restores the state a fresh router starts with.
func (s *routerState) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ringPos = 0
	s.clock = 0
	s.lastUsed = make(map[model.ShardID]int64, s.partitions)
	s.refillSweepLocked()
}

func (s *routerState) refillSweepLocked() {
	s.sweep = make([]model.ShardID, s.partitions)
	for i := range s.sweep {
		s.sweep[i] = model.ShardID(i)
	}
}
