//go:build !sqlite_vec || !cgo

package index

import (
	"context"

	"github.com/kerebel/colony/core/model"
)

// VecExecutor is unavailable without the sqlite_vec build tag.
type VecExecutor struct{}

// NewVecExecutor always fails in this build configuration.
func NewVecExecutor(string, int) (*VecExecutor, error) {
	return nil, ErrNotBuilt
}

// Add implements the ingestion API shape; unreachable in this build.
func (e *VecExecutor) Add(context.Context, int64, model.ShardID, model.Vector) error {
	return ErrNotBuilt
}

// RunQuery implements colony.ShardQueryExecutor; unreachable in this build.
func (e *VecExecutor) RunQuery(context.Context, model.Vector, model.ShardID, int) ([]model.SearchResult, error) {
	return nil, ErrNotBuilt
}

// Close implements io.Closer.
func (e *VecExecutor) Close() error { return nil }
