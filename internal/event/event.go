package event

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/osse101/CaseBattle_Go/internal/domain"
)

// Type represents the type of an event
type Type string

// Event represents a generic event in the system
type Event struct {
	Version string      `json:"version"` // Event schema version (e.g., "1.0")
	Type    Type        `json:"type"`
	Payload interface{} `json:"payload"`
}

// Event types published by the services
const (
	BoxOpened       Type = domain.EventTypeBoxOpened
	OpeningSettled  Type = domain.EventTypeOpeningSettled
	BattleCreated   Type = domain.EventTypeBattleCreated
	BattleActivated Type = domain.EventTypeBattleActivated
	BattleFinished  Type = domain.EventTypeBattleFinished
	BattleClaimed   Type = domain.EventTypeBattleClaimed
	SeedRotated     Type = domain.EventTypeSeedRotated
)

// NewBoxOpenedEvent creates a box.opened event for a persisted opening
func NewBoxOpenedEvent(o *domain.Opening) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    BoxOpened,
		Payload: domain.BoxOpenedPayload{
			OpeningID:    o.ID.String(),
			UserID:       o.UserID,
			BoxID:        o.BoxID,
			Price:        o.Price,
			WonItemID:    o.Result.WonItemID,
			DisplayValue: o.Result.DisplayValue,
			Rarity:       o.Result.Rarity.String(),
			Nonce:        o.Result.Nonce,
			Timestamp:    o.CreatedAt.Unix(),
		},
	}
}

// NewOpeningSettledEvent creates an opening.settled event
func NewOpeningSettledEvent(o *domain.Opening, amount int64, automatic bool) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    OpeningSettled,
		Payload: domain.OpeningSettledPayload{
			OpeningID:  o.ID.String(),
			UserID:     o.UserID,
			Settlement: string(o.Settlement),
			Amount:     amount,
			Automatic:  automatic,
			Timestamp:  time.Now().Unix(),
		},
	}
}

// NewBattleCreatedEvent creates a battle.created event
func NewBattleCreatedEvent(b *domain.Battle, creatorID string) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    BattleCreated,
		Payload: domain.BattleCreatedPayload{
			BattleID:   b.ID.String(),
			CreatorID:  creatorID,
			BoxID:      b.BoxID,
			SlotCount:  b.SlotCount,
			RoundCount: b.RoundCount,
			EntryPrice: b.EntryPrice,
			Timestamp:  b.CreatedAt.Unix(),
		},
	}
}

// NewBattleActivatedEvent creates a battle.activated event
func NewBattleActivatedEvent(b *domain.Battle) Event {
	bots := 0
	for _, s := range b.Slots {
		if s.Kind == domain.SlotBot {
			bots++
		}
	}
	return Event{
		Version: EventSchemaVersion,
		Type:    BattleActivated,
		Payload: domain.BattleActivatedPayload{
			BattleID:  b.ID.String(),
			Reason:    string(b.ActivatedBy),
			BotCount:  bots,
			Timestamp: time.Now().Unix(),
		},
	}
}

// NewBattleFinishedEvent creates a battle.finished event
func NewBattleFinishedEvent(b *domain.Battle) Event {
	payload := domain.BattleFinishedPayload{
		BattleID:   b.ID.String(),
		WinnerSlot: -1,
		Totals:     append([]int64(nil), b.Totals...),
		PrizePool:  b.PrizePool(),
		Timestamp:  time.Now().Unix(),
	}
	if b.WinnerSlot != nil {
		payload.WinnerSlot = *b.WinnerSlot
		slot := b.Slots[*b.WinnerSlot]
		if slot.Kind == domain.SlotBot && slot.Bot != nil {
			payload.WinnerID = slot.Bot.ID
			payload.WinnerBot = true
		} else {
			payload.WinnerID = slot.UserID
		}
	}
	return Event{
		Version: EventSchemaVersion,
		Type:    BattleFinished,
		Payload: payload,
	}
}

// NewBattleClaimedEvent creates a battle.claimed event
func NewBattleClaimedEvent(b *domain.Battle, userID string, amount int64) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    BattleClaimed,
		Payload: domain.BattleClaimedPayload{
			BattleID:  b.ID.String(),
			UserID:    userID,
			Choice:    string(b.ClaimChoice),
			Amount:    amount,
			Timestamp: time.Now().Unix(),
		},
	}
}

// NewSeedRotatedEvent creates a seed.rotated event
func NewSeedRotatedEvent(retiredHash, activeHash string) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    SeedRotated,
		Payload: domain.SeedRotatedPayload{
			RetiredHash: retiredHash,
			ActiveHash:  activeHash,
			Timestamp:   time.Now().Unix(),
		},
	}
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// MemoryBus is an in-memory implementation of the Event Bus
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish publishes an event to all subscribers
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.handlers[event.Type]...)
	b.mu.RUnlock()

	if len(handlers) == 0 {
		return nil
	}

	// Handlers run synchronously in subscription order.
	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf(LogMsgHandlerErrorFormat, len(errs), event.Type, errs)
	}

	return nil
}

// Subscribe subscribes a handler to an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}
