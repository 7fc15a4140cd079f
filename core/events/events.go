package events

import "github.com/kerebel/colony/core/model"

// QueryEvent is published when the router starts handling a query.
type QueryEvent struct {
	QueryID string
	K       int
}

// StrategyEvent is emitted after a strategy finished its dispatch call.
type StrategyEvent struct {
	QueryID string
	Colony  model.ColonyType
	Ants    int
	Results int
}

// StoreEvent signals a change in pheromone store availability. Down is true
// when the store became unreachable and the router entered fail-open mode.
type StoreEvent struct {
	Down bool
	Err  error
}
