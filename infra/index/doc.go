// Package index provides the shard-scoped k-NN executor backed by
// sqlite-vec. The extension requires cgo; builds without the sqlite_vec
// tag fall back to a constructor error so callers can degrade to the
// synthetic executor.
package index

import "errors"

// ErrNotBuilt is returned by NewVecExecutor when the binary was compiled
// without the sqlite_vec build tag.
var ErrNotBuilt = errors.New("index: built without sqlite_vec support")
