// Package infra contains technical adapters such as the SQLite pheromone
// store, the sqlite-vec index executor and metrics exporters. These
// packages should depend only on the interfaces defined in the core
// packages.
package infra
