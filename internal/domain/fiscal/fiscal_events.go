package fiscal

import (
	"time"

	"github.com/google/uuid"
	"github.com/normx-ai/backend/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypeExercise = "Exercise"
	AggregateTypePeriod   = "Period"
)

// Event type constants
const (
	EventTypeExerciseCreated             = "ExerciseCreated"
	EventTypeExerciseOpened              = "ExerciseOpened"
	EventTypeExerciseProvisionallyClosed = "ExerciseProvisionallyClosed"
	EventTypeExerciseClosed              = "ExerciseClosed"
	EventTypeCarryForwardGenerated       = "CarryForwardGenerated"
	EventTypePeriodClosed                = "PeriodClosed"
	EventTypePeriodLocked                = "PeriodLocked"
)

// ExerciseCreatedEvent is published when a new exercise is created
type ExerciseCreatedEvent struct {
	shared.BaseDomainEvent
	ExerciseID uuid.UUID `json:"exercise_id"`
	Code       string    `json:"code"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
}

// NewExerciseCreatedEvent creates a new ExerciseCreatedEvent
func NewExerciseCreatedEvent(e *Exercise) *ExerciseCreatedEvent {
	return &ExerciseCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeExerciseCreated, AggregateTypeExercise, e.ID, e.TenantID),
		ExerciseID:      e.ID,
		Code:            e.Code,
		StartDate:       e.StartDate,
		EndDate:         e.EndDate,
	}
}

// ExerciseOpenedEvent is published when an exercise is opened
type ExerciseOpenedEvent struct {
	shared.BaseDomainEvent
	ExerciseID uuid.UUID `json:"exercise_id"`
	Code       string    `json:"code"`
}

// NewExerciseOpenedEvent creates a new ExerciseOpenedEvent
func NewExerciseOpenedEvent(e *Exercise) *ExerciseOpenedEvent {
	return &ExerciseOpenedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeExerciseOpened, AggregateTypeExercise, e.ID, e.TenantID),
		ExerciseID:      e.ID,
		Code:            e.Code,
	}
}

// ExerciseProvisionallyClosedEvent is published on provisional close
type ExerciseProvisionallyClosedEvent struct {
	shared.BaseDomainEvent
	ExerciseID uuid.UUID `json:"exercise_id"`
	Code       string    `json:"code"`
}

// NewExerciseProvisionallyClosedEvent creates a new ExerciseProvisionallyClosedEvent
func NewExerciseProvisionallyClosedEvent(e *Exercise) *ExerciseProvisionallyClosedEvent {
	return &ExerciseProvisionallyClosedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeExerciseProvisionallyClosed, AggregateTypeExercise, e.ID, e.TenantID),
		ExerciseID:      e.ID,
		Code:            e.Code,
	}
}

// ExerciseClosedEvent is published on definitive close
type ExerciseClosedEvent struct {
	shared.BaseDomainEvent
	ExerciseID uuid.UUID  `json:"exercise_id"`
	Code       string     `json:"code"`
	ClosedAt   *time.Time `json:"closed_at"`
}

// NewExerciseClosedEvent creates a new ExerciseClosedEvent
func NewExerciseClosedEvent(e *Exercise) *ExerciseClosedEvent {
	return &ExerciseClosedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeExerciseClosed, AggregateTypeExercise, e.ID, e.TenantID),
		ExerciseID:      e.ID,
		Code:            e.Code,
		ClosedAt:        e.DefinitiveCloseDate,
	}
}

// CarryForwardGeneratedEvent is published when carry-forward entries are generated
type CarryForwardGeneratedEvent struct {
	shared.BaseDomainEvent
	ExerciseID uuid.UUID `json:"exercise_id"`
	Code       string    `json:"code"`
}

// NewCarryForwardGeneratedEvent creates a new CarryForwardGeneratedEvent
func NewCarryForwardGeneratedEvent(e *Exercise) *CarryForwardGeneratedEvent {
	return &CarryForwardGeneratedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCarryForwardGenerated, AggregateTypeExercise, e.ID, e.TenantID),
		ExerciseID:      e.ID,
		Code:            e.Code,
	}
}

// PeriodClosedEvent is published when a period is closed
type PeriodClosedEvent struct {
	shared.BaseDomainEvent
	PeriodID   uuid.UUID `json:"period_id"`
	ExerciseID uuid.UUID `json:"exercise_id"`
	Number     int       `json:"number"`
}

// NewPeriodClosedEvent creates a new PeriodClosedEvent
func NewPeriodClosedEvent(p *Period) *PeriodClosedEvent {
	return &PeriodClosedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePeriodClosed, AggregateTypePeriod, p.ID, p.TenantID),
		PeriodID:        p.ID,
		ExerciseID:      p.ExerciseID,
		Number:          p.Number,
	}
}

// PeriodLockedEvent is published when a period is locked
type PeriodLockedEvent struct {
	shared.BaseDomainEvent
	PeriodID   uuid.UUID `json:"period_id"`
	ExerciseID uuid.UUID `json:"exercise_id"`
	Number     int       `json:"number"`
}

// NewPeriodLockedEvent creates a new PeriodLockedEvent
func NewPeriodLockedEvent(p *Period) *PeriodLockedEvent {
	return &PeriodLockedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePeriodLocked, AggregateTypePeriod, p.ID, p.TenantID),
		PeriodID:        p.ID,
		ExerciseID:      p.ExerciseID,
		Number:          p.Number,
	}
}
