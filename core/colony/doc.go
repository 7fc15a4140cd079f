// Package colony implements the pheromone-weighted shard router for
// distributed approximate-nearest-neighbor search.
//
// Incoming query vectors are dispatched to a subset of index shards by
// three strategies: Star exploits the shards with the highest pheromone
// levels, Ring rotates over all shards for uniform coverage, and Explorer
// prioritizes the least reinforced shards. Every returned result feeds a
// reward back into the pheromone store, biasing future routing toward
// productive shards. The router merges all strategy results and returns
// the top K by distance.
package colony
