// Package events defines the routing related events emitted on the event bus.
//
// Available event types:
//   - QueryEvent: a query entered the router
//   - StrategyEvent: a strategy dispatched its ant budget
//   - StoreEvent: the pheromone store changed availability
package events
