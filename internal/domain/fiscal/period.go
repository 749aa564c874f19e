package fiscal

import (
	"time"

	"github.com/google/uuid"
	"github.com/normx-ai/backend/internal/domain/shared"
)

// PeriodStatus represents the lifecycle state of a monthly period
type PeriodStatus string

const (
	PeriodStatusOpen   PeriodStatus = "OPEN"
	PeriodStatusClosed PeriodStatus = "CLOSED"
	PeriodStatusLocked PeriodStatus = "LOCKED"
)

// IsValid checks if the status is a valid PeriodStatus
func (s PeriodStatus) IsValid() bool {
	switch s {
	case PeriodStatusOpen, PeriodStatusClosed, PeriodStatusLocked:
		return true
	}
	return false
}

// String returns the string representation of PeriodStatus
func (s PeriodStatus) String() string {
	return string(s)
}

// Period is a monthly subdivision of an exercise. Periods close strictly in
// ascending number order; a locked period never reopens.
type Period struct {
	shared.TenantAggregateRoot
	ExerciseID uuid.UUID    `json:"exercise_id"`
	Number     int          `json:"number"`
	StartDate  time.Time    `json:"start_date"`
	EndDate    time.Time    `json:"end_date"`
	Status     PeriodStatus `json:"status"`
	ClosedAt   *time.Time   `json:"closed_at,omitempty"`
	ClosedBy   *uuid.UUID   `json:"closed_by,omitempty"`
}

func newPeriod(e *Exercise, number int, start, end time.Time) *Period {
	return &Period{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(e.TenantID),
		ExerciseID:          e.ID,
		Number:              number,
		StartDate:           start,
		EndDate:             end,
		Status:              PeriodStatusOpen,
	}
}

// Close closes the period. siblings is the full set of periods belonging to
// the same exercise; every period with a smaller number must already be
// closed or locked.
func (p *Period) Close(closedBy *uuid.UUID, siblings []Period) error {
	if p.Status != PeriodStatusOpen {
		return shared.NewStateError("INVALID_STATE", "Only an open period can be closed")
	}
	for _, s := range siblings {
		if s.ExerciseID == p.ExerciseID && s.Number < p.Number && s.Status == PeriodStatusOpen {
			return shared.NewStateError("PRIOR_PERIODS_OPEN", "Earlier periods must be closed first")
		}
	}

	now := time.Now()
	p.Status = PeriodStatusClosed
	p.ClosedAt = &now
	p.ClosedBy = closedBy
	p.UpdatedAt = now
	p.IncrementVersion()

	p.AddDomainEvent(NewPeriodClosedEvent(p))

	return nil
}

// Lock locks a closed period for good. There is no transition out of the
// locked state.
func (p *Period) Lock() error {
	if p.Status != PeriodStatusClosed {
		return shared.NewStateError("INVALID_STATE", "Only a closed period can be locked")
	}

	p.Status = PeriodStatusLocked
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewPeriodLockedEvent(p))

	return nil
}

// PostingAllowed reports whether entries may be recorded on this period,
// given the state of the owning exercise
func (p *Period) PostingAllowed(exerciseStatus ExerciseStatus) bool {
	return p.Status == PeriodStatusOpen && exerciseStatus.AllowsPosting()
}

// ContainsDate reports whether the date falls inside the period range
func (p *Period) ContainsDate(d time.Time) bool {
	return !d.Before(p.StartDate) && !d.After(p.EndDate)
}
