package colony

import (
	"fmt"
	"math"
)

// FractionTolerance is the floating-point slack allowed when checking that
// allocation fractions sum to one.
const FractionTolerance = 1e-6

// AllocationPolicy declares the target split of dispatch ants between
// exploitation (star+ring) and exploration (explorer), plus the fixed
// partition count. The explorer fraction is always derived from the
// star/ring fraction so the two cannot drift apart.
type AllocationPolicy struct {
	StarRingFraction float64
	PartitionCount   int
}

// NewAllocationPolicy builds a policy from both declared fractions,
// rejecting documents whose fractions do not sum to one.
func NewAllocationPolicy(starRing, meshExplorer float64, partitions int) (AllocationPolicy, error) {
	if math.Abs(starRing+meshExplorer-1) > FractionTolerance {
		return AllocationPolicy{}, fmt.Errorf("allocation fractions sum to %g, want 1.0", starRing+meshExplorer)
	}
	p := AllocationPolicy{StarRingFraction: starRing, PartitionCount: partitions}
	if err := p.Validate(); err != nil {
		return AllocationPolicy{}, err
	}
	return p, nil
}

// MeshExplorerFraction returns the derived exploration fraction.
func (p AllocationPolicy) MeshExplorerFraction() float64 {
	return 1 - p.StarRingFraction
}

// Validate checks the policy invariants.
func (p AllocationPolicy) Validate() error {
	if p.PartitionCount <= 0 {
		return fmt.Errorf("partition count must be positive, got %d", p.PartitionCount)
	}
	if p.StarRingFraction < 0 || p.StarRingFraction > 1 {
		return fmt.Errorf("star_ring fraction %g outside [0,1]", p.StarRingFraction)
	}
	return nil
}

// StarRingAnts returns the exploitation ant budget for one dispatch round.
// At least one ant is always issued so a heavily exploration-biased policy
// still exercises the exploitation path.
func (p AllocationPolicy) StarRingAnts() int {
	return antBudget(p.PartitionCount, p.StarRingFraction)
}

// ExplorerAnts returns the exploration ant budget for one dispatch round.
func (p AllocationPolicy) ExplorerAnts() int {
	return antBudget(p.PartitionCount, p.MeshExplorerFraction())
}

func antBudget(partitions int, fraction float64) int {
	n := int(math.Round(float64(partitions) * fraction))
	if n < 1 {
		return 1
	}
	return n
}
