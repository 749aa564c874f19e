package journal

import (
	"github.com/google/uuid"
	"github.com/normx-ai/backend/internal/domain/shared"
)

// Aggregate type constant for Journal
const AggregateTypeJournal = "Journal"

// Event type constants for Journal
const (
	EventTypeJournalCreated = "JournalCreated"
)

// JournalCreatedEvent is published when a new journal is created
type JournalCreatedEvent struct {
	shared.BaseDomainEvent
	JournalID uuid.UUID `json:"journal_id"`
	Code      string    `json:"code"`
	Label     string    `json:"label"`
	Type      Type      `json:"journal_type"`
}

// NewJournalCreatedEvent creates a new JournalCreatedEvent
func NewJournalCreatedEvent(j *Journal) *JournalCreatedEvent {
	return &JournalCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeJournalCreated, AggregateTypeJournal, j.ID, j.TenantID),
		JournalID:       j.ID,
		Code:            j.Code,
		Label:           j.Label,
		Type:            j.Type,
	}
}
