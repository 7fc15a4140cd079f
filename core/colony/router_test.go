package colony

import (
	"context"
	"sync"
	"testing"

	coremetrics "github.com/kerebel/colony/core/metrics"
	"github.com/kerebel/colony/core/model"
	"github.com/kerebel/colony/internal/eventbus"
)

// recordingSink captures everything the router reports, including the
// optional latency and pheromone recorders.
type recordingSink struct {
	mu      sync.Mutex
	routing []coremetrics.RoutingRecord
	lats    []coremetrics.ShardLatency
	totals  map[model.ColonyType]float64
}

func newRecordingSink() *recordingSink {
	return &recordingSink{totals: make(map[model.ColonyType]float64)}
}

func (s *recordingSink) RecordRouting(recs []coremetrics.RoutingRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routing = append(s.routing, recs...)
	return nil
}

func (s *recordingSink) RecordShardLatency(lats []coremetrics.ShardLatency) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lats = append(s.lats, lats...)
	return nil
}

func (s *recordingSink) RecordPheromoneTotal(colony model.ColonyType, total float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.totals[colony] = total
	return nil
}

func newTestRouter(t *testing.T, store PheromoneStore, exec ShardQueryExecutor, starRing float64, partitions int) *ColonyRouter {
	t.Helper()
	policy, err := NewAllocationPolicy(starRing, 1-starRing, partitions)
	if err != nil {
		t.Fatalf("policy: %v", err)
	}
	r, err := NewColonyRouter(policy, store, exec, nil, nil, nopLogger{}, 0, DefaultNoveltyRange, 1)
	if err != nil {
		t.Fatalf("router: %v", err)
	}
	return r
}

func TestHandleQueryFailOpenReturnsK(t *testing.T) {
	// Unreachable store plus synthetic executor is full dry-run mode; the
	// router must still deliver exactly k ranked results.
	r := newTestRouter(t, brokenStore{}, NewSyntheticExecutor(1), 0.8, 8)
	res := r.HandleQuery(context.Background(), nil, 5)
	if len(res) != 5 {
		t.Fatalf("expected 5 results got %d", len(res))
	}
	for i := 1; i < len(res); i++ {
		if res[i].Distance < res[i-1].Distance {
			t.Fatalf("results not sorted ascending: %v", res)
		}
	}
}

func TestHandleQueryOrderingAndTruncation(t *testing.T) {
	r := newTestRouter(t, NewMemoryStore(), NewSyntheticExecutor(2), 0.5, 4)
	for _, k := range []int{1, 3, 10} {
		res := r.HandleQuery(context.Background(), nil, k)
		if len(res) > k {
			t.Fatalf("k=%d returned %d results", k, len(res))
		}
		for i := 1; i < len(res); i++ {
			if res[i].Distance < res[i-1].Distance {
				t.Fatalf("k=%d results not sorted: %v", k, res)
			}
		}
	}
}

func TestHandleQueryLevelsStayNonNegative(t *testing.T) {
	store := NewMemoryStore()
	r := newTestRouter(t, store, NewSyntheticExecutor(3), 0.8, 6)
	for i := 0; i < 25; i++ {
		r.HandleQuery(context.Background(), nil, 4)
	}
	for _, ct := range []model.ColonyType{model.ColonyStar, model.ColonyRing, model.ColonyExplorer} {
		levels, err := store.Fetch(context.Background(), ct)
		if err != nil {
			t.Fatalf("fetch %s: %v", ct, err)
		}
		if len(levels) == 0 {
			t.Fatalf("%s namespace never reinforced", ct)
		}
		for sh, lvl := range levels {
			if lvl < 0 {
				t.Fatalf("%s shard %d negative level %g", ct, sh, lvl)
			}
		}
	}
}

func TestHandleQueryCancellationReturnsPartial(t *testing.T) {
	r := newTestRouter(t, NewMemoryStore(), NewSyntheticExecutor(4), 0.8, 8)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res := r.HandleQuery(ctx, nil, 5)
	if len(res) > 5 {
		t.Fatalf("cancellation must not grow the result set, got %d", len(res))
	}
}

func TestHandleQueryPublishesEvents(t *testing.T) {
	policy, _ := NewAllocationPolicy(0.8, 0.2, 4)
	bus := eventbus.New()
	ch := bus.Subscribe()
	r, err := NewColonyRouter(policy, NewMemoryStore(), NewSyntheticExecutor(5), nil, bus, nopLogger{}, 0, DefaultNoveltyRange, 1)
	if err != nil {
		t.Fatalf("router: %v", err)
	}
	r.HandleQuery(context.Background(), nil, 2)
	// One QueryEvent plus three StrategyEvents.
	for i := 0; i < 4; i++ {
		select {
		case <-ch:
		default:
			t.Fatalf("expected 4 events, got %d", i)
		}
	}
}

func TestHandleQueryFeedsOptionalRecorders(t *testing.T) {
	sink := newRecordingSink()
	policy, _ := NewAllocationPolicy(0.8, 0.2, 6)
	r, err := NewColonyRouter(policy, NewMemoryStore(), NewSyntheticExecutor(7), sink, nil, nopLogger{}, 0, DefaultNoveltyRange, 1)
	if err != nil {
		t.Fatalf("router: %v", err)
	}
	r.HandleQuery(context.Background(), nil, 3)

	sink.mu.Lock()
	defer sink.mu.Unlock()
	if len(sink.routing) == 0 {
		t.Fatal("no routing records recorded")
	}
	// One latency entry per ant: star and ring each issue the full
	// exploitation budget, explorer its own.
	wantLats := 2*policy.StarRingAnts() + policy.ExplorerAnts()
	if len(sink.lats) != wantLats {
		t.Fatalf("expected %d latency records got %d", wantLats, len(sink.lats))
	}
	seen := map[model.ColonyType]bool{}
	for _, l := range sink.lats {
		if l.Latency < 0 {
			t.Fatalf("negative latency for shard %d", l.Shard)
		}
		seen[l.Colony] = true
	}
	for _, ct := range []model.ColonyType{model.ColonyStar, model.ColonyRing, model.ColonyExplorer} {
		if !seen[ct] {
			t.Fatalf("no latency records for %s", ct)
		}
		total, ok := sink.totals[ct]
		if !ok {
			t.Fatalf("no pheromone total recorded for %s", ct)
		}
		if total < 0 {
			t.Fatalf("%s pheromone total %g is negative", ct, total)
		}
	}
}

func TestRouterResetRestartsCursors(t *testing.T) {
	store := NewMemoryStore()
	exec := &recordingExecutor{}
	policy, _ := NewAllocationPolicy(1.0, 0.0, 5)
	r, err := NewColonyRouter(policy, store, exec, nil, nil, nopLogger{}, 0, DefaultNoveltyRange, 1)
	if err != nil {
		t.Fatalf("router: %v", err)
	}
	ring := r.ring.(*RingStrategy)
	ring.Dispatch(context.Background(), nil, 2, 1)
	r.Reset()
	exec.mu.Lock()
	exec.shards = nil
	exec.mu.Unlock()
	ring.Dispatch(context.Background(), nil, 1, 1)
	got := exec.queried()
	if len(got) != 1 || got[0] != 0 {
		t.Fatalf("after reset ring should restart at shard 0, got %v", got)
	}
}

func TestNewColonyRouterValidation(t *testing.T) {
	policy, _ := NewAllocationPolicy(0.8, 0.2, 4)
	if _, err := NewColonyRouter(policy, nil, NewSyntheticExecutor(1), nil, nil, nopLogger{}, 0, DefaultNoveltyRange, 1); err == nil {
		t.Fatal("expected error for nil store")
	}
	bad := AllocationPolicy{StarRingFraction: 0.8, PartitionCount: 0}
	if _, err := NewColonyRouter(bad, NewMemoryStore(), NewSyntheticExecutor(1), nil, nil, nopLogger{}, 0, DefaultNoveltyRange, 1); err == nil {
		t.Fatal("expected error for invalid policy")
	}
}
