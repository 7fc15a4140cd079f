package colony

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/stat"

	"github.com/kerebel/colony/core/logger"
	"github.com/kerebel/colony/core/model"
)

// SimulationResult reports the empirical allocation split and per-shard hit
// distribution observed over one simulation run.
type SimulationResult struct {
	Steps         int
	StarRingSteps int
	ExplorerSteps int
	ShardHits     map[model.ShardID]int
}

// StarRingFraction returns the observed exploitation fraction.
func (r SimulationResult) StarRingFraction() float64 {
	if r.Steps == 0 {
		return 0
	}
	return float64(r.StarRingSteps) / float64(r.Steps)
}

// ExplorerFraction returns the observed exploration fraction.
func (r SimulationResult) ExplorerFraction() float64 {
	if r.Steps == 0 {
		return 0
	}
	return float64(r.ExplorerSteps) / float64(r.Steps)
}

// HitStats summarizes the per-shard hit histogram.
func (r SimulationResult) HitStats() (mean, stddev float64) {
	hits := make([]float64, 0, len(r.ShardHits))
	for _, n := range r.ShardHits {
		hits = append(hits, float64(n))
	}
	if len(hits) == 0 {
		return 0, 0
	}
	return stat.Mean(hits, nil), stat.StdDev(hits, nil)
}

// SimulationHarness drives routing decisions offline, without shard queries
// or pheromone persistence, to validate that a policy's allocation split is
// honored statistically. One decision is O(partitions), so a run is
// O(steps * partitions).
type SimulationHarness struct {
	policy AllocationPolicy
	rng    *rand.Rand
	log    logger.Logger
}

// NewSimulationHarness validates the policy and seeds the decision RNG.
func NewSimulationHarness(policy AllocationPolicy, log logger.Logger, seed int64) (*SimulationHarness, error) {
	if err := policy.Validate(); err != nil {
		return nil, fmt.Errorf("colony: %w", err)
	}
	if log == nil {
		return nil, fmt.Errorf("colony: nil logger provided to NewSimulationHarness")
	}
	return &SimulationHarness{policy: policy, rng: rand.New(rand.NewSource(seed)), log: log}, nil
}

// Simulate runs the routing decision for the given number of logical steps.
// Each step draws r ~ Uniform(0,1) and classifies the step as explorer when
// r >= starRingFraction. Explorer steps pick the next shard of an LRU-first
// sweep; star/ring steps draw a shard with probability proportional to its
// age (logical time since last use, minimum weight 1).
func (h *SimulationHarness) Simulate(steps int) SimulationResult {
	p := h.policy.PartitionCount
	lastUsed := make([]int, p)
	weights := make([]float64, p)
	var sweep []model.ShardID

	res := SimulationResult{
		Steps:     steps,
		ShardHits: make(map[model.ShardID]int, p),
	}
	for t := 1; t <= steps; t++ {
		var shard model.ShardID
		if h.rng.Float64() >= h.policy.StarRingFraction {
			if len(sweep) == 0 {
				sweep = make([]model.ShardID, p)
				for i := range sweep {
					sweep[i] = model.ShardID(i)
				}
			}
			shard = sweep[0]
			sweep = sweep[1:]
			res.ExplorerSteps++
		} else {
			var total float64
			for i := range weights {
				age := float64(t - lastUsed[i])
				if age < 1 {
					age = 1
				}
				weights[i] = age
				total += age
			}
			x := h.rng.Float64() * total
			for i, w := range weights {
				x -= w
				if x < 0 {
					shard = model.ShardID(i)
					break
				}
			}
			res.StarRingSteps++
		}
		lastUsed[shard] = t
		res.ShardHits[shard]++
	}

	mean, stddev := res.HitStats()
	h.log.Debugw("simulation finished", map[string]any{
		"steps":     steps,
		"star_ring": res.StarRingFraction(),
		"explorer":  res.ExplorerFraction(),
		"hits_mean": mean,
		"hits_std":  stddev,
	})
	return res
}
