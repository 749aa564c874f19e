package account

import (
	"github.com/google/uuid"
	"github.com/normx-ai/backend/internal/domain/shared"
)

// Aggregate type constant for Account
const AggregateTypeAccount = "Account"

// Event type constants for Account
const (
	EventTypeAccountCreated     = "AccountCreated"
	EventTypeAccountDeactivated = "AccountDeactivated"
)

// AccountCreatedEvent is published when a new account is created
type AccountCreatedEvent struct {
	shared.BaseDomainEvent
	AccountID uuid.UUID  `json:"account_id"`
	Code      string     `json:"code"`
	Label     string     `json:"label"`
	Class     string     `json:"class"`
	Nature    NatureType `json:"nature"`
}

// NewAccountCreatedEvent creates a new AccountCreatedEvent
func NewAccountCreatedEvent(a *Account) *AccountCreatedEvent {
	return &AccountCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAccountCreated, AggregateTypeAccount, a.ID, a.TenantID),
		AccountID:       a.ID,
		Code:            a.Code,
		Label:           a.Label,
		Class:           a.Class,
		Nature:          a.Nature,
	}
}

// AccountDeactivatedEvent is published when an account is deactivated
type AccountDeactivatedEvent struct {
	shared.BaseDomainEvent
	AccountID uuid.UUID `json:"account_id"`
	Code      string    `json:"code"`
}

// NewAccountDeactivatedEvent creates a new AccountDeactivatedEvent
func NewAccountDeactivatedEvent(a *Account) *AccountDeactivatedEvent {
	return &AccountDeactivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAccountDeactivated, AggregateTypeAccount, a.ID, a.TenantID),
		AccountID:       a.ID,
		Code:            a.Code,
	}
}
