package model

// Vector is a query embedding. The router never normalizes or otherwise
// transforms it; callers are responsible for a consistent scale.
type Vector []float32

// SearchResult is one ranked candidate returned by a shard query.
// Distance is whatever metric the shard executor defines, lower is closer;
// the router only ever sorts on it.
type SearchResult struct {
	ID       int64
	Shard    ShardID
	Distance float64
}
