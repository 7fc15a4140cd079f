//go:build sqlite_vec && cgo

package index

import (
	"context"
	"database/sql"
	"fmt"

	vec "github.com/asg017/sqlite-vec-go-bindings/cgo"

	"github.com/kerebel/colony/core/model"
)

func init() {
	// Register the sqlite-vec extension with the mattn/go-sqlite3 driver.
	// vec.Auto() registers it as an auto-loadable extension.
	vec.Auto()
}

// VecExecutor answers shard-scoped k-NN queries against a vec0 virtual
// table. The shard id is a vec0 partition key, so a scoped query only
// scans chunks belonging to that shard.
type VecExecutor struct {
	db  *sql.DB
	dim int
}

// NewVecExecutor opens the index at path and ensures the vectors table
// exists with the given embedding dimension.
func NewVecExecutor(path string, dim int) (*VecExecutor, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("index: embedding dimension must be positive, got %d", dim)
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open vector index: %w", err)
	}
	ddl := fmt.Sprintf(`CREATE VIRTUAL TABLE IF NOT EXISTS vectors USING vec0(
		id INTEGER PRIMARY KEY,
		shard_id INTEGER PARTITION KEY,
		embedding FLOAT[%d]
	)`, dim)
	if _, err := db.Exec(ddl); err != nil {
		db.Close()
		return nil, fmt.Errorf("create vectors table: %w", err)
	}
	return &VecExecutor{db: db, dim: dim}, nil
}

// Add inserts or replaces one embedding under the given shard.
func (e *VecExecutor) Add(ctx context.Context, id int64, shard model.ShardID, embedding model.Vector) error {
	if len(embedding) != e.dim {
		return fmt.Errorf("index: embedding has dimension %d, want %d", len(embedding), e.dim)
	}
	blob, err := vec.SerializeFloat32(embedding)
	if err != nil {
		return fmt.Errorf("serialize embedding: %w", err)
	}
	_, err = e.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO vectors (id, shard_id, embedding) VALUES (?, ?, ?)`,
		id, int(shard), blob)
	if err != nil {
		return fmt.Errorf("insert embedding %d: %w", id, err)
	}
	return nil
}

// RunQuery implements colony.ShardQueryExecutor. A shard holding fewer than
// k vectors yields a shorter list; a shard holding none yields an empty one.
func (e *VecExecutor) RunQuery(ctx context.Context, query model.Vector, shard model.ShardID, k int) ([]model.SearchResult, error) {
	blob, err := vec.SerializeFloat32(query)
	if err != nil {
		return nil, fmt.Errorf("serialize query vector: %w", err)
	}
	rows, err := e.db.QueryContext(ctx,
		`SELECT id, distance FROM vectors
		 WHERE embedding MATCH ? AND k = ? AND shard_id = ?
		 ORDER BY distance`,
		blob, k, int(shard))
	if err != nil {
		return nil, fmt.Errorf("knn query on shard %d: %w", shard, err)
	}
	defer rows.Close()

	results := make([]model.SearchResult, 0, k)
	for rows.Next() {
		var r model.SearchResult
		if err := rows.Scan(&r.ID, &r.Distance); err != nil {
			return nil, fmt.Errorf("scan knn row: %w", err)
		}
		r.Shard = shard
		results = append(results, r)
	}
	return results, rows.Err()
}

// Close releases the database handle.
func (e *VecExecutor) Close() error { return e.db.Close() }
