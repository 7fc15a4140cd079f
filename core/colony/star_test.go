package colony

import (
	"context"
	"sort"
	"testing"

	"github.com/kerebel/colony/core/model"
)

func TestRankShardsOrdering(t *testing.T) {
	levels := map[model.ShardID]float64{0: 0.2, 1: 0.9, 2: 0.2, 3: 0.5}

	desc := rankShards(levels, 5, true)
	wantDesc := []model.ShardID{1, 3, 0, 2, 4}
	for i := range wantDesc {
		if desc[i] != wantDesc[i] {
			t.Fatalf("descending order: got %v want %v", desc, wantDesc)
		}
	}

	asc := rankShards(levels, 5, false)
	wantAsc := []model.ShardID{4, 0, 2, 1, 3}
	for i := range wantAsc {
		if asc[i] != wantAsc[i] {
			t.Fatalf("ascending order: got %v want %v", asc, wantAsc)
		}
	}
}

func seededStore(t *testing.T, colony model.ColonyType, levels map[model.ShardID]float64) PheromoneStore {
	t.Helper()
	s := NewMemoryStore()
	for sh, lvl := range levels {
		if err := s.Update(context.Background(), colony, sh, lvl); err != nil {
			t.Fatalf("seed store: %v", err)
		}
	}
	return s
}

func TestStarDispatchDeterministicSelection(t *testing.T) {
	levels := map[model.ShardID]float64{2: 3, 5: 2, 7: 1}
	var selections [][]model.ShardID
	for i := 0; i < 2; i++ {
		store := seededStore(t, model.ColonyStar, levels)
		exec := &recordingExecutor{}
		star := NewStarStrategy(store, exec, newRouterState(10), nopLogger{}, 0)
		star.Dispatch(context.Background(), nil, 3, 4)
		got := exec.queried()
		sort.Slice(got, func(a, b int) bool { return got[a] < got[b] })
		selections = append(selections, got)
	}
	want := []model.ShardID{2, 5, 7}
	for _, sel := range selections {
		if len(sel) != len(want) {
			t.Fatalf("expected %v got %v", want, sel)
		}
		for i := range want {
			if sel[i] != want[i] {
				t.Fatalf("expected %v got %v", want, sel)
			}
		}
	}
}

func TestStarDispatchReinforces(t *testing.T) {
	store := NewMemoryStore()
	exec := &recordingExecutor{perShard: func(shard model.ShardID, k int) []model.SearchResult {
		return []model.SearchResult{{ID: 1, Shard: shard, Distance: 0.5}}
	}}
	star := NewStarStrategy(store, exec, newRouterState(4), nopLogger{}, 0)
	results, _ := star.Dispatch(context.Background(), nil, 2, 1)
	if len(results) != 2 {
		t.Fatalf("expected 2 results got %d", len(results))
	}
	levels, _ := store.Fetch(context.Background(), model.ColonyStar)
	for sh, lvl := range levels {
		// 1/(1+0.5)
		if lvl < 0.6666 || lvl > 0.6667 {
			t.Fatalf("shard %d level %g, want 1/1.5", sh, lvl)
		}
	}
	if len(levels) != 2 {
		t.Fatalf("expected 2 reinforced shards got %d", len(levels))
	}
}

func TestStarDispatchClampsBudget(t *testing.T) {
	store := NewMemoryStore()
	exec := &recordingExecutor{}
	star := NewStarStrategy(store, exec, newRouterState(3), nopLogger{}, 0)
	star.Dispatch(context.Background(), nil, 10, 1)
	if got := len(exec.queried()); got != 3 {
		t.Fatalf("budget should clamp to partition count, queried %d shards", got)
	}
}
