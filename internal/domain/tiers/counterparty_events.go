package tiers

import (
	"github.com/google/uuid"
	"github.com/normx-ai/backend/internal/domain/shared"
)

// Aggregate type constant for Counterparty
const AggregateTypeCounterparty = "Counterparty"

// Event type constants for Counterparty
const (
	EventTypeCounterpartyCreated   = "CounterpartyCreated"
	EventTypeCounterpartyUpdated   = "CounterpartyUpdated"
	EventTypeCounterpartyBlocked   = "CounterpartyBlocked"
	EventTypeCounterpartyUnblocked = "CounterpartyUnblocked"
)

// CounterpartyCreatedEvent is published when a new counterparty is created
type CounterpartyCreatedEvent struct {
	shared.BaseDomainEvent
	CounterpartyID    uuid.UUID `json:"counterparty_id"`
	Code              string    `json:"code"`
	Kind              Kind      `json:"kind"`
	Name              string    `json:"name"`
	CollectiveAccount string    `json:"collective_account"`
}

// NewCounterpartyCreatedEvent creates a new CounterpartyCreatedEvent
func NewCounterpartyCreatedEvent(c *Counterparty) *CounterpartyCreatedEvent {
	return &CounterpartyCreatedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypeCounterpartyCreated, AggregateTypeCounterparty, c.ID, c.TenantID),
		CounterpartyID:    c.ID,
		Code:              c.Code,
		Kind:              c.Kind,
		Name:              c.Name,
		CollectiveAccount: c.CollectiveAccount,
	}
}

// CounterpartyUpdatedEvent is published when counterparty details change
type CounterpartyUpdatedEvent struct {
	shared.BaseDomainEvent
	CounterpartyID uuid.UUID `json:"counterparty_id"`
	Code           string    `json:"code"`
	Name           string    `json:"name"`
}

// NewCounterpartyUpdatedEvent creates a new CounterpartyUpdatedEvent
func NewCounterpartyUpdatedEvent(c *Counterparty) *CounterpartyUpdatedEvent {
	return &CounterpartyUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCounterpartyUpdated, AggregateTypeCounterparty, c.ID, c.TenantID),
		CounterpartyID:  c.ID,
		Code:            c.Code,
		Name:            c.Name,
	}
}

// CounterpartyBlockedEvent is published when a counterparty is blocked
type CounterpartyBlockedEvent struct {
	shared.BaseDomainEvent
	CounterpartyID uuid.UUID `json:"counterparty_id"`
	Code           string    `json:"code"`
	Reason         string    `json:"reason"`
}

// NewCounterpartyBlockedEvent creates a new CounterpartyBlockedEvent
func NewCounterpartyBlockedEvent(c *Counterparty) *CounterpartyBlockedEvent {
	return &CounterpartyBlockedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCounterpartyBlocked, AggregateTypeCounterparty, c.ID, c.TenantID),
		CounterpartyID:  c.ID,
		Code:            c.Code,
		Reason:          c.BlockReason,
	}
}

// CounterpartyUnblockedEvent is published when a counterparty is unblocked
type CounterpartyUnblockedEvent struct {
	shared.BaseDomainEvent
	CounterpartyID uuid.UUID `json:"counterparty_id"`
	Code           string    `json:"code"`
}

// NewCounterpartyUnblockedEvent creates a new CounterpartyUnblockedEvent
func NewCounterpartyUnblockedEvent(c *Counterparty) *CounterpartyUnblockedEvent {
	return &CounterpartyUnblockedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCounterpartyUnblocked, AggregateTypeCounterparty, c.ID, c.TenantID),
		CounterpartyID:  c.ID,
		Code:            c.Code,
	}
}
