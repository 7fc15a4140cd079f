package model

import "fmt"

// ShardID identifies one partition of the distributed vector index.
// Valid identifiers lie in [0, partition count) for the policy that
// created the router.
type ShardID int

// ColonyType selects the pheromone namespace a dispatch strategy reads
// and reinforces. Each strategy owns exactly one namespace.
type ColonyType int

const (
	ColonyStar ColonyType = iota
	ColonyRing
	ColonyExplorer
)

// String returns the namespace label used in persistence and metrics.
func (t ColonyType) String() string {
	switch t {
	case ColonyStar:
		return "star"
	case ColonyRing:
		return "ring"
	case ColonyExplorer:
		return "explorer"
	default:
		return "unknown"
	}
}

// ParseColonyType converts a persisted namespace label back to its type.
func ParseColonyType(s string) (ColonyType, error) {
	switch s {
	case "star":
		return ColonyStar, nil
	case "ring":
		return ColonyRing, nil
	case "explorer":
		return ColonyExplorer, nil
	}
	return 0, fmt.Errorf("unknown colony type %q", s)
}
