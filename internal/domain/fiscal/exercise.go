package fiscal

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/normx-ai/backend/internal/domain/shared"
)

// ExerciseStatus represents the lifecycle state of a fiscal year
type ExerciseStatus string

const (
	ExerciseStatusPreparation      ExerciseStatus = "PREPARATION"
	ExerciseStatusOpen             ExerciseStatus = "OPEN"
	ExerciseStatusProvisionalClose ExerciseStatus = "PROVISIONAL_CLOSE"
	ExerciseStatusClosed           ExerciseStatus = "CLOSED"
	ExerciseStatusArchived         ExerciseStatus = "ARCHIVED"
)

// IsValid checks if the status is a valid ExerciseStatus
func (s ExerciseStatus) IsValid() bool {
	switch s {
	case ExerciseStatusPreparation, ExerciseStatusOpen, ExerciseStatusProvisionalClose,
		ExerciseStatusClosed, ExerciseStatusArchived:
		return true
	}
	return false
}

// String returns the string representation of ExerciseStatus
func (s ExerciseStatus) String() string {
	return string(s)
}

// AllowsPosting reports whether entries may be posted while the exercise is
// in this state. Provisional close still admits inventory entries.
func (s ExerciseStatus) AllowsPosting() bool {
	return s == ExerciseStatusOpen || s == ExerciseStatusProvisionalClose
}

const (
	// MaxDurationDays caps an exceptional exercise at 18 months.
	MaxDurationDays = 548

	// MaxOpenExercises is the number of exercises that may be open at once.
	MaxOpenExercises = 2

	// closingDeadlineMonths is how long after the end date a definitive
	// close remains possible.
	closingDeadlineMonths = 6
)

// Exercise is a fiscal year. It owns its monthly periods and gates every
// posting through its lifecycle state.
type Exercise struct {
	shared.TenantAggregateRoot
	Code                  string         `json:"code"`
	Label                 string         `json:"label"`
	StartDate             time.Time      `json:"start_date"`
	EndDate               time.Time      `json:"end_date"`
	Status                ExerciseStatus `json:"status"`
	FirstExercise         bool           `json:"first_exercise"`
	ProvisionalCloseDate  *time.Time     `json:"provisional_close_date,omitempty"`
	DefinitiveCloseDate   *time.Time     `json:"definitive_close_date,omitempty"`
	CarryForwardGenerated bool           `json:"carry_forward_generated"`
	CarryForwardAt        *time.Time     `json:"carry_forward_at,omitempty"`
}

// NewExercise creates an exercise in Preparation status
func NewExercise(tenantID uuid.UUID, code, label string, start, end time.Time) (*Exercise, error) {
	if code == "" {
		return nil, shared.NewValidationError("INVALID_EXERCISE_CODE", "Exercise code cannot be empty")
	}
	if len(code) > 10 {
		return nil, shared.NewValidationError("INVALID_EXERCISE_CODE", "Exercise code cannot exceed 10 characters")
	}
	if label == "" {
		label = fmt.Sprintf("Exercice %s", code)
	}
	if !end.After(start) {
		return nil, shared.NewValidationError("INVALID_DATE_RANGE", "Exercise end date must be after start date")
	}
	if int(end.Sub(start).Hours()/24) > MaxDurationDays {
		return nil, shared.NewValidationError("DURATION_EXCEEDED", "An exercise cannot last more than 18 months")
	}

	e := &Exercise{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                code,
		Label:               label,
		StartDate:           start,
		EndDate:             end,
		Status:              ExerciseStatusPreparation,
	}

	e.AddDomainEvent(NewExerciseCreatedEvent(e))

	return e, nil
}

// Open transitions the exercise from Preparation to Open. openExercises is
// the set of exercises currently open for the same tenant; at most two may
// be open at once and a second one must start strictly after the first.
// Period creation is the caller's job, via GeneratePeriods.
func (e *Exercise) Open(openExercises []Exercise) error {
	if e.Status != ExerciseStatusPreparation {
		return shared.NewStateError("INVALID_STATE", "Only an exercise in preparation can be opened")
	}
	if len(openExercises) >= MaxOpenExercises {
		return shared.NewStateError("TOO_MANY_OPEN",
			"Maximum 2 exercises can be open simultaneously; close one before opening a new one")
	}
	if len(openExercises) == 1 {
		other := openExercises[0]
		if !e.StartDate.After(other.StartDate) {
			return shared.NewStateError("NOT_CONSECUTIVE",
				fmt.Sprintf("The new exercise must start after exercise %s", other.Code))
		}
	}

	e.Status = ExerciseStatusOpen
	e.UpdatedAt = time.Now()
	e.IncrementVersion()

	e.AddDomainEvent(NewExerciseOpenedEvent(e))

	return nil
}

// GeneratePeriods builds the monthly periods covering the exercise range,
// numbered from 1, each clipped to the exercise end date. At most 12
// periods are produced.
func (e *Exercise) GeneratePeriods() []*Period {
	periods := make([]*Period, 0, 12)

	cursor := time.Date(e.StartDate.Year(), e.StartDate.Month(), 1, 0, 0, 0, 0, e.StartDate.Location())
	number := 1

	for number <= 12 {
		monthStart := cursor
		monthEnd := cursor.AddDate(0, 1, -1)

		start := monthStart
		if start.Before(e.StartDate) {
			start = e.StartDate
		}
		if start.After(e.EndDate) {
			break
		}
		end := monthEnd
		if end.After(e.EndDate) {
			end = e.EndDate
		}

		periods = append(periods, newPeriod(e, number, start, end))

		if !end.Before(e.EndDate) {
			break
		}
		cursor = cursor.AddDate(0, 1, 0)
		number++
	}

	return periods
}

// CloseProvisional puts the exercise in provisional close, the state used
// while inventory entries are recorded
func (e *Exercise) CloseProvisional() error {
	if e.Status != ExerciseStatusOpen {
		return shared.NewStateError("INVALID_STATE", "Only an open exercise can be provisionally closed")
	}

	now := time.Now()
	e.Status = ExerciseStatusProvisionalClose
	e.ProvisionalCloseDate = &now
	e.UpdatedAt = now
	e.IncrementVersion()

	e.AddDomainEvent(NewExerciseProvisionallyClosedEvent(e))

	return nil
}

// CloseDefinitive closes the exercise for good. It must happen within six
// months after the end date; past that limit the failure is final.
func (e *Exercise) CloseDefinitive(today time.Time) error {
	if e.Status != ExerciseStatusOpen && e.Status != ExerciseStatusProvisionalClose {
		return shared.NewStateError("INVALID_STATE", "The exercise must be open or provisionally closed")
	}
	deadline := e.ClosingDeadline()
	if today.After(deadline) {
		return shared.NewStateError("DEADLINE_EXCEEDED",
			fmt.Sprintf("The closing deadline (%s) has passed", deadline.Format("02/01/2006")))
	}

	e.Status = ExerciseStatusClosed
	e.DefinitiveCloseDate = &today
	e.UpdatedAt = time.Now()
	e.IncrementVersion()

	e.AddDomainEvent(NewExerciseClosedEvent(e))

	return nil
}

// GenerateCarryForward marks the carry-forward (a nouveaux) entries as
// generated. It runs at most once per exercise.
func (e *Exercise) GenerateCarryForward() error {
	if e.Status != ExerciseStatusClosed {
		return shared.NewStateError("INVALID_STATE", "The exercise must be closed to generate carry-forward entries")
	}
	if e.CarryForwardGenerated {
		return shared.NewStateError("ALREADY_GENERATED", "Carry-forward entries have already been generated")
	}

	now := time.Now()
	e.CarryForwardGenerated = true
	e.CarryForwardAt = &now
	e.UpdatedAt = now
	e.IncrementVersion()

	e.AddDomainEvent(NewCarryForwardGeneratedEvent(e))

	return nil
}

// Archive moves a closed exercise to the archive
func (e *Exercise) Archive() error {
	if e.Status != ExerciseStatusClosed {
		return shared.NewStateError("INVALID_STATE", "Only a closed exercise can be archived")
	}

	e.Status = ExerciseStatusArchived
	e.UpdatedAt = time.Now()
	e.IncrementVersion()

	return nil
}

// ClosingDeadline returns the last day a definitive close is allowed.
// Month addition clamps to the end of a shorter month, so a December 31
// year end gets a June 30 deadline rather than July 1.
func (e *Exercise) ClosingDeadline() time.Time {
	year, month, day := e.EndDate.Date()
	month += closingDeadlineMonths
	if last := time.Date(year, month+1, 0, 0, 0, 0, 0, e.EndDate.Location()).Day(); day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, e.EndDate.Location())
}

// DaysUntilDeadline returns the days left to close, 0 once closed or past
func (e *Exercise) DaysUntilDeadline(today time.Time) int {
	if e.Status == ExerciseStatusClosed || e.Status == ExerciseStatusArchived {
		return 0
	}
	days := int(e.ClosingDeadline().Sub(today).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// ContainsDate reports whether the date falls inside the exercise range
func (e *Exercise) ContainsDate(d time.Time) bool {
	return !d.Before(e.StartDate) && !d.After(e.EndDate)
}
