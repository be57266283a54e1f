package domain

// Event type constants used across the application for event bus subscriptions
// and metrics tracking.
//
// Event types follow the pattern: <entity>.<action> (e.g., "box.opened")
const (
	// EventTypeBoxOpened is published after a paid opening is persisted
	EventTypeBoxOpened = "box.opened"

	// EventTypeOpeningSettled is published when an opening is kept or sold back
	EventTypeOpeningSettled = "opening.settled"

	// EventTypeBattleCreated is published when a battle enters WAITING
	EventTypeBattleCreated = "battle.created"

	// EventTypeBattleActivated is published when the last slot fills
	EventTypeBattleActivated = "battle.activated"

	// EventTypeBattleFinished is published when a winner is computed
	EventTypeBattleFinished = "battle.finished"

	// EventTypeBattleClaimed is published when the prize pool is paid out
	EventTypeBattleClaimed = "battle.claimed"

	// EventTypeSeedRotated is published when the active server seed is retired
	EventTypeSeedRotated = "seed.rotated"
)
