package colony

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/kerebel/colony/core/logger"
	"github.com/kerebel/colony/core/model"
)

func sortShards(shards []model.ShardID) {
	sort.Slice(shards, func(i, j int) bool { return shards[i] < shards[j] })
}

// recordingExecutor captures every shard it is asked to query.
type recordingExecutor struct {
	mu       sync.Mutex
	shards   []model.ShardID
	perShard func(shard model.ShardID, k int) []model.SearchResult
}

func (e *recordingExecutor) RunQuery(_ context.Context, _ model.Vector, shard model.ShardID, k int) ([]model.SearchResult, error) {
	e.mu.Lock()
	e.shards = append(e.shards, shard)
	e.mu.Unlock()
	if e.perShard != nil {
		return e.perShard(shard, k), nil
	}
	return nil, nil
}

func (e *recordingExecutor) queried() []model.ShardID {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]model.ShardID, len(e.shards))
	copy(out, e.shards)
	return out
}

// brokenStore fails every call, exercising fail-open behavior.
type brokenStore struct{}

func (brokenStore) Fetch(context.Context, model.ColonyType) (map[model.ShardID]float64, error) {
	return nil, errors.New("store unreachable")
}

func (brokenStore) Update(context.Context, model.ColonyType, model.ShardID, float64) error {
	return errors.New("store unreachable")
}

func (brokenStore) Close() error { return nil }

// countingLogger counts warning lines to verify once-per-class logging.
type countingLogger struct {
	mu    sync.Mutex
	warns int
}

func (l *countingLogger) Debugf(string, ...any)         {}
func (l *countingLogger) Debugw(string, map[string]any) {}
func (l *countingLogger) Infof(string, ...any)          {}
func (l *countingLogger) Errorf(string, ...any)         {}

func (l *countingLogger) Warnf(string, ...any) {
	l.mu.Lock()
	l.warns++
	l.mu.Unlock()
}

func (l *countingLogger) warnCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.warns
}

var _ logger.Logger = (*countingLogger)(nil)

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any)         {}
func (nopLogger) Debugw(string, map[string]any) {}
func (nopLogger) Infof(string, ...any)          {}
func (nopLogger) Warnf(string, ...any)          {}
func (nopLogger) Errorf(string, ...any)         {}
