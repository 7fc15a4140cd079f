package colony

import (
	"context"
	"testing"

	"github.com/kerebel/colony/core/model"
)

func TestExplorerFullSweepBeforeRevisit(t *testing.T) {
	// Fail-open store: every fetch sees an empty map, so coverage must come
	// from the sweep queue alone.
	store := NewFailOpenStore(brokenStore{}, &countingLogger{}, nil)
	exec := &recordingExecutor{}
	exp := NewExplorerStrategy(store, exec, newRouterState(10), nopLogger{}, 0, DefaultNoveltyRange, 1)

	for i := 0; i < 10; i++ {
		exp.Dispatch(context.Background(), nil, 1, 1)
	}
	got := exec.queried()
	seen := make(map[model.ShardID]bool, 10)
	for _, sh := range got {
		if seen[sh] {
			t.Fatalf("shard %d revisited before full sweep: %v", sh, got)
		}
		seen[sh] = true
	}
	if len(seen) != 10 {
		t.Fatalf("expected 10 distinct shards, got %d", len(seen))
	}

	// The eleventh dispatch starts a fresh sweep.
	exp.Dispatch(context.Background(), nil, 1, 1)
	if got := exec.queried(); len(got) != 11 {
		t.Fatalf("expected 11 queries got %d", len(got))
	}
}

func TestExplorerPrefersLeastReinforced(t *testing.T) {
	store := seededStore(t, model.ColonyExplorer, map[model.ShardID]float64{0: 5, 1: 1, 2: 3})
	exec := &recordingExecutor{}
	exp := NewExplorerStrategy(store, exec, newRouterState(3), nopLogger{}, 0, DefaultNoveltyRange, 1)
	exp.Dispatch(context.Background(), nil, 1, 1)
	got := exec.queried()
	if len(got) != 1 || got[0] != 1 {
		t.Fatalf("expected least reinforced shard 1, got %v", got)
	}
}

func TestExplorerRewardStaysNonNegative(t *testing.T) {
	store := NewMemoryStore()
	exec := &recordingExecutor{perShard: func(shard model.ShardID, k int) []model.SearchResult {
		return []model.SearchResult{{Shard: shard, Distance: 0.1}}
	}}
	exp := NewExplorerStrategy(store, exec, newRouterState(5), nopLogger{}, 0, DefaultNoveltyRange, 7)
	for i := 0; i < 20; i++ {
		exp.Dispatch(context.Background(), nil, 2, 1)
	}
	levels, _ := store.Fetch(context.Background(), model.ColonyExplorer)
	if len(levels) == 0 {
		t.Fatal("expected reinforcement to be recorded")
	}
	for sh, lvl := range levels {
		if lvl < 0 {
			t.Fatalf("shard %d has negative level %g", sh, lvl)
		}
	}
}

func TestExplorerNoveltyBonusRange(t *testing.T) {
	exp := NewExplorerStrategy(NewMemoryStore(), &recordingExecutor{}, newRouterState(2), nopLogger{}, 0, NoveltyRange{Min: 0.5, Max: 1.5}, 3)
	for i := 0; i < 1000; i++ {
		b := exp.bonus()
		if b < 0.5 || b >= 1.5 {
			t.Fatalf("novelty bonus %g outside [0.5,1.5)", b)
		}
	}
}
