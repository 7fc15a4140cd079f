package config

import "fmt"

// StoreConfig selects the pheromone persistence backend.
type StoreConfig struct {
	// Backend is "sqlite" or "memory".
	Backend string `json:"backend"`
	// Path is the SQLite database file.
	Path string `json:"path"`
}

// SetDefaults applies sane defaults.
func (c *StoreConfig) SetDefaults() {
	if c.Backend == "" {
		c.Backend = "sqlite"
	}
	if c.Path == "" {
		c.Path = "pheromones.db"
	}
}

// Validate checks mandatory fields.
func (c StoreConfig) Validate() error {
	if c.Backend != "sqlite" && c.Backend != "memory" {
		return fmt.Errorf("unknown store backend %s", c.Backend)
	}
	if c.Backend == "sqlite" && c.Path == "" {
		return fmt.Errorf("store.path is required for the sqlite backend")
	}
	return nil
}

// IndexConfig selects the shard query backend.
type IndexConfig struct {
	// Backend is "sqlite-vec" or "synthetic".
	Backend string `json:"backend"`
	// Path is the vector index database file.
	Path string `json:"path"`
	// Dimension is the embedding width every query vector must have.
	Dimension int `json:"dimension"`
	// Seed drives the synthetic executor.
	Seed int64 `json:"seed"`
}

// SetDefaults applies sane defaults.
func (c *IndexConfig) SetDefaults() {
	if c.Backend == "" {
		c.Backend = "synthetic"
	}
	if c.Path == "" {
		c.Path = "index.db"
	}
	if c.Dimension == 0 {
		c.Dimension = 768
	}
}

// Validate checks mandatory fields.
func (c IndexConfig) Validate() error {
	if c.Backend != "sqlite-vec" && c.Backend != "synthetic" {
		return fmt.Errorf("unknown index backend %s", c.Backend)
	}
	if c.Dimension <= 0 {
		return fmt.Errorf("index.dimension must be positive, got %d", c.Dimension)
	}
	return nil
}
