package metrics

import (
	"context"

	"github.com/osse101/CaseBattle_Go/internal/domain"
	"github.com/osse101/CaseBattle_Go/internal/event"
	"github.com/osse101/CaseBattle_Go/internal/logger"
)

// EventMetricsCollector subscribes to events and records metrics
type EventMetricsCollector struct{}

// NewEventMetricsCollector creates a new event metrics collector
func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{}
}

// Register subscribes to all events
func (e *EventMetricsCollector) Register(bus event.Bus) error {
	eventTypes := []event.Type{
		event.BoxOpened,
		event.OpeningSettled,
		event.BattleCreated,
		event.BattleActivated,
		event.BattleFinished,
		event.BattleClaimed,
		event.SeedRotated,
	}

	for _, eventType := range eventTypes {
		bus.Subscribe(eventType, e.HandleEvent)
	}

	return nil
}

// HandleEvent processes events and updates metrics
func (e *EventMetricsCollector) HandleEvent(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)

	EventsPublished.WithLabelValues(string(evt.Type)).Inc()

	var err error
	switch evt.Type {
	case event.BoxOpened:
		var p domain.BoxOpenedPayload
		if p, err = event.DecodePayload[domain.BoxOpenedPayload](evt.Payload); err == nil {
			BoxesOpened.WithLabelValues(p.BoxID, p.Rarity).Inc()
			MoneySpent.Add(float64(p.Price))
		}

	case event.OpeningSettled:
		var p domain.OpeningSettledPayload
		if p, err = event.DecodePayload[domain.OpeningSettledPayload](evt.Payload); err == nil {
			OpeningsSettled.WithLabelValues(p.Settlement).Inc()
			if p.Settlement == string(domain.SettlementSoldBack) {
				MoneyPaidOut.Add(float64(p.Amount))
			}
		}

	case event.BattleCreated:
		var p domain.BattleCreatedPayload
		if p, err = event.DecodePayload[domain.BattleCreatedPayload](evt.Payload); err == nil {
			BattlesCreated.Inc()
			MoneySpent.Add(float64(p.EntryPrice))
		}

	case event.BattleActivated:
		var p domain.BattleActivatedPayload
		if p, err = event.DecodePayload[domain.BattleActivatedPayload](evt.Payload); err == nil {
			BattlesActivated.WithLabelValues(p.Reason).Inc()
		}

	case event.BattleFinished:
		var p domain.BattleFinishedPayload
		if p, err = event.DecodePayload[domain.BattleFinishedPayload](evt.Payload); err == nil {
			winner := WinnerHuman
			if p.WinnerBot {
				winner = WinnerBot
			}
			BattlesFinished.WithLabelValues(winner).Inc()
		}

	case event.BattleClaimed:
		var p domain.BattleClaimedPayload
		if p, err = event.DecodePayload[domain.BattleClaimedPayload](evt.Payload); err == nil {
			BattleClaims.WithLabelValues(p.Choice).Inc()
			if p.Choice == string(domain.ClaimCash) {
				MoneyPaidOut.Add(float64(p.Amount))
			}
		}

	case event.SeedRotated:
		SeedRotations.Inc()
	}

	if err != nil {
		EventHandlerErrors.WithLabelValues(string(evt.Type)).Inc()
		log.Debug(LogMsgEventPayloadDecodeFailed, "type", evt.Type, "error", err)
		return nil
	}

	log.Debug(LogMsgMetricsRecorded, "type", evt.Type)
	return nil
}
