package events

import (
	"context"
	"sync"

	"partnertrack/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeCommissionSettled       EventType = "commission_settled"
	EventTypeWithdrawalStatusChanged EventType = "withdrawal_status_changed"
	EventTypeTrackingEventRecorded   EventType = "tracking_event_recorded"
	EventTypePlayerRegistered        EventType = "player_registered"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// CommissionSettledEvent is emitted after a ledger settlement commits
type CommissionSettledEvent struct {
	OwnerType  models.OwnerType
	OwnerID    uuid.UUID
	Period     models.Period
	PeriodKey  string
	Commission decimal.Decimal // incremental amount credited to both balances
	Gross      decimal.Decimal // cumulative gross on the ledger row
}

func (e CommissionSettledEvent) Type() EventType {
	return EventTypeCommissionSettled
}

// WithdrawalStatusChangedEvent is emitted after a withdrawal transition commits
type WithdrawalStatusChangedEvent struct {
	WithdrawalID uuid.UUID
	OwnerType    models.OwnerType
	OwnerID      uuid.UUID
	OldStatus    models.WithdrawalStatus
	NewStatus    models.WithdrawalStatus
	Amount       decimal.Decimal
}

func (e WithdrawalStatusChangedEvent) Type() EventType {
	return EventTypeWithdrawalStatusChanged
}

// TrackingEventRecordedEvent is emitted after an attribution event is stored
type TrackingEventRecordedEvent struct {
	EventID   uuid.UUID
	EventType models.EventType
	OwnerType models.OwnerType
	OwnerID   uuid.UUID
	PlayerID  *uuid.UUID
}

func (e TrackingEventRecordedEvent) Type() EventType {
	return EventTypeTrackingEventRecorded
}

// PlayerRegisteredEvent is emitted when a player registers through a campaign
type PlayerRegisteredEvent struct {
	PlayerID   uuid.UUID
	Username   string
	CampaignID uuid.UUID
	OwnerType  models.OwnerType
	OwnerID    uuid.UUID
}

func (e PlayerRegisteredEvent) Type() EventType {
	return EventTypePlayerRegistered
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.handlers[eventType] == nil {
		b.handlers[eventType] = make([]Handler, 0)
	}
	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type")
}

// Emit publishes an event to all registered handlers
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	// Call handlers asynchronously to avoid blocking
	for i, handler := range handlers {
		go func(h Handler, handlerIndex int) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType":    event.Type(),
						"handlerIndex": handlerIndex,
						"panic":        r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler, i)
	}
}

// A transactional event bus for holding pending events coupled to the Unit of Work.
// Flushes to the underlying event bus.
type TransactionalBus struct {
	real    *Bus
	pending []Event // stashed until Flush
}

func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

func (b *TransactionalBus) Publish(e Event) {
	b.pending = append(b.pending, e)
}

// called after successful DB commit
func (b *TransactionalBus) Flush(ctx context.Context) error {
	// Use background context for event emission to avoid issues with transaction context expiration
	// Events should be processed independently of the transaction lifecycle
	eventCtx := context.Background()

	for _, ev := range b.pending {
		log.WithFields(log.Fields{
			"eventType": ev.Type(),
		}).Debug("Emitting event to main event bus")
		b.real.Emit(eventCtx, ev)
	}
	b.pending = nil
	return nil
}

// called after db rollback or to clear state.
func (b *TransactionalBus) Discard() {
	b.pending = nil
}
