package event

import (
	"context"
	"sync"
	"time"

	"github.com/osse101/CaseBattle_Go/internal/logger"
)

// ResilientPublisher wraps an event Bus so that a failed publish never blocks
// or fails the money-moving operation that emitted it. Failed events are
// retried in the background with exponential backoff and dead-lettered when
// retries run out.
type ResilientPublisher struct {
	inner      Bus
	maxRetries int
	baseDelay  time.Duration
	deadLetter *DeadLetterWriter

	wg       sync.WaitGroup
	shutdown chan struct{}
	once     sync.Once
}

// NewResilientPublisher creates a publisher writing exhausted events to deadLetterPath
func NewResilientPublisher(inner Bus, maxRetries int, baseDelay time.Duration, deadLetterPath string) (*ResilientPublisher, error) {
	dlw, err := NewDeadLetterWriter(deadLetterPath)
	if err != nil {
		return nil, err
	}
	if maxRetries <= 0 {
		maxRetries = RetryMaxAttempts
	}
	if baseDelay <= 0 {
		baseDelay = RetryInitialDelay
	}
	return &ResilientPublisher{
		inner:      inner,
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
		deadLetter: dlw,
		shutdown:   make(chan struct{}),
	}, nil
}

// Publish delivers the event to the inner bus. A failed first attempt is
// handed to a background retry loop and nil is returned to the caller.
func (p *ResilientPublisher) Publish(ctx context.Context, evt Event) error {
	err := p.inner.Publish(ctx, evt)
	if err == nil {
		return nil
	}

	logger.FromContext(ctx).Warn(LogMsgEventPublishFailed,
		"event_type", evt.Type,
		"error", err,
		"retries", p.maxRetries)

	select {
	case <-p.shutdown:
		p.writeDeadLetter(evt, 1, err)
		return nil
	default:
	}

	p.wg.Add(1)
	go p.retryLoop(evt, err)
	return nil
}

// Subscribe delegates to the inner bus
func (p *ResilientPublisher) Subscribe(eventType Type, handler Handler) {
	p.inner.Subscribe(eventType, handler)
}

func (p *ResilientPublisher) retryLoop(evt Event, lastErr error) {
	defer p.wg.Done()
	ctx := context.Background()
	log := logger.FromContext(ctx)

	for attempt := 1; attempt <= p.maxRetries; attempt++ {
		timer := time.NewTimer(CalculateRetryDelay(p.baseDelay, attempt))
		select {
		case <-p.shutdown:
			timer.Stop()
			log.Warn(LogMsgEventDroppedShutdown, "event_type", evt.Type)
			p.writeDeadLetter(evt, attempt, lastErr)
			return
		case <-timer.C:
		}

		lastErr = p.inner.Publish(ctx, evt)
		if lastErr == nil {
			log.Info(LogMsgEventRetrySucceeded, "event_type", evt.Type, "attempt", attempt)
			return
		}
		log.Warn(LogMsgEventRetryFailed, "event_type", evt.Type, "attempt", attempt, "error", lastErr)
	}

	log.Error(LogMsgEventRetryExhausted, "event_type", evt.Type)
	p.writeDeadLetter(evt, p.maxRetries+1, lastErr)
}

func (p *ResilientPublisher) writeDeadLetter(evt Event, attempts int, err error) {
	if werr := p.deadLetter.Write(evt, attempts, err); werr != nil {
		logger.Error(LogMsgDeadLetterFailed, "event_type", evt.Type, "error", werr)
	}
}

// Shutdown stops pending retries, dead-letters them and closes the file
func (p *ResilientPublisher) Shutdown(ctx context.Context) error {
	p.once.Do(func() { close(p.shutdown) })

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return p.deadLetter.Close()
	case <-ctx.Done():
		return ctx.Err()
	}
}
