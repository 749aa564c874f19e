package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/normx-ai/backend/internal/domain/shared"
)

// Aggregate type constant for Entry
const AggregateTypeEntry = "Entry"

// Event type constants for Entry
const (
	EventTypeEntryCreated    = "EntryCreated"
	EventTypeEntryValidated  = "EntryValidated"
	EventTypeEntryDuplicated = "EntryDuplicated"
)

// EntryCreatedEvent is published when a new entry is created
type EntryCreatedEvent struct {
	shared.BaseDomainEvent
	EntryID     uuid.UUID `json:"entry_id"`
	Number      string    `json:"number"`
	JournalCode string    `json:"journal_code"`
	Date        time.Time `json:"date"`
}

// NewEntryCreatedEvent creates a new EntryCreatedEvent
func NewEntryCreatedEvent(e *Entry) *EntryCreatedEvent {
	return &EntryCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeEntryCreated, AggregateTypeEntry, e.ID, e.TenantID),
		EntryID:         e.ID,
		Number:          e.Number,
		JournalCode:     e.JournalCode,
		Date:            e.Date,
	}
}

// EntryValidatedEvent is published when an entry is validated
type EntryValidatedEvent struct {
	shared.BaseDomainEvent
	EntryID     uuid.UUID  `json:"entry_id"`
	Number      string     `json:"number"`
	ValidatedBy *uuid.UUID `json:"validated_by"`
}

// NewEntryValidatedEvent creates a new EntryValidatedEvent
func NewEntryValidatedEvent(e *Entry) *EntryValidatedEvent {
	return &EntryValidatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeEntryValidated, AggregateTypeEntry, e.ID, e.TenantID),
		EntryID:         e.ID,
		Number:          e.Number,
		ValidatedBy:     e.ValidatedBy,
	}
}

// EntryDuplicatedEvent is published on the clone when an entry is duplicated
type EntryDuplicatedEvent struct {
	shared.BaseDomainEvent
	EntryID        uuid.UUID `json:"entry_id"`
	Number         string    `json:"number"`
	OriginalNumber string    `json:"original_number"`
}

// NewEntryDuplicatedEvent creates a new EntryDuplicatedEvent
func NewEntryDuplicatedEvent(clone *Entry, originalNumber string) *EntryDuplicatedEvent {
	return &EntryDuplicatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeEntryDuplicated, AggregateTypeEntry, clone.ID, clone.TenantID),
		EntryID:         clone.ID,
		Number:          clone.Number,
		OriginalNumber:  originalNumber,
	}
}
