package config

import (
	"fmt"
	"math"

	"github.com/kerebel/colony/core/colony"
)

// AllocationConfig mirrors the routing.allocation section of the policy
// document. mesh_explorer is informational: it must equal 1 - star_ring and
// only star_ring is carried into the runtime policy.
type AllocationConfig struct {
	StarRing     float64 `json:"star_ring"`
	MeshExplorer float64 `json:"mesh_explorer"`
}

// RoutingConfig defines router behavior.
type RoutingConfig struct {
	Allocation          AllocationConfig `json:"allocation"`
	ShardTimeoutSeconds int              `json:"shard_timeout_seconds"`
	NoveltyMin          float64          `json:"novelty_min"`
	NoveltyMax          float64          `json:"novelty_max"`
	Seed                int64            `json:"seed"`
}

// SetDefaults applies sane defaults.
func (c *RoutingConfig) SetDefaults() {
	if c.Allocation.StarRing == 0 && c.Allocation.MeshExplorer == 0 {
		c.Allocation.StarRing = 0.8
		c.Allocation.MeshExplorer = 0.2
	}
	if c.ShardTimeoutSeconds == 0 {
		c.ShardTimeoutSeconds = 3
	}
	if c.NoveltyMin == 0 && c.NoveltyMax == 0 {
		c.NoveltyMin = colony.DefaultNoveltyRange.Min
		c.NoveltyMax = colony.DefaultNoveltyRange.Max
	}
}

// Validate checks the allocation fractions and bounds.
func (c RoutingConfig) Validate() error {
	sum := c.Allocation.StarRing + c.Allocation.MeshExplorer
	if math.Abs(sum-1) > colony.FractionTolerance {
		return fmt.Errorf("routing.allocation fractions sum to %g, want 1.0", sum)
	}
	if c.Allocation.StarRing < 0 || c.Allocation.StarRing > 1 {
		return fmt.Errorf("routing.allocation.star_ring %g outside [0,1]", c.Allocation.StarRing)
	}
	if c.ShardTimeoutSeconds < 0 {
		return fmt.Errorf("routing.shard_timeout_seconds must not be negative")
	}
	if c.NoveltyMax <= c.NoveltyMin {
		return fmt.Errorf("routing novelty range [%g,%g) is empty", c.NoveltyMin, c.NoveltyMax)
	}
	return nil
}

// PartitionsConfig fixes the shard count for the router's lifetime.
type PartitionsConfig struct {
	Count int `json:"count"`
}

// SetDefaults applies sane defaults.
func (c *PartitionsConfig) SetDefaults() {
	if c.Count == 0 {
		c.Count = 32
	}
}

// Validate checks the partition count.
func (c PartitionsConfig) Validate() error {
	if c.Count <= 0 {
		return fmt.Errorf("partitions.count must be positive, got %d", c.Count)
	}
	return nil
}

// Policy builds the runtime allocation policy from the document values.
func (c *Config) Policy() (colony.AllocationPolicy, error) {
	return colony.NewAllocationPolicy(c.Routing.Allocation.StarRing, c.Routing.Allocation.MeshExplorer, c.Partitions.Count)
}
