package fiscal

import (
	"time"

	"github.com/google/uuid"
	"github.com/normx-ai/backend/internal/domain/fiscal"
)

// CreateExerciseRequest describes a new fiscal exercise
type CreateExerciseRequest struct {
	Code          string    `json:"code"`
	Label         string    `json:"label,omitempty"`
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
	FirstExercise bool      `json:"first_exercise"`
}

// ExerciseResponse represents an exercise in API responses
type ExerciseResponse struct {
	ID                    uuid.UUID  `json:"id"`
	TenantID              uuid.UUID  `json:"tenant_id"`
	Code                  string     `json:"code"`
	Label                 string     `json:"label"`
	StartDate             time.Time  `json:"start_date"`
	EndDate               time.Time  `json:"end_date"`
	Status                string     `json:"status"`
	FirstExercise         bool       `json:"first_exercise"`
	ClosingDeadline       time.Time  `json:"closing_deadline"`
	DaysUntilDeadline     int        `json:"days_until_deadline"`
	ProvisionalCloseDate  *time.Time `json:"provisional_close_date,omitempty"`
	DefinitiveCloseDate   *time.Time `json:"definitive_close_date,omitempty"`
	CarryForwardGenerated bool       `json:"carry_forward_generated"`
	CarryForwardAt        *time.Time `json:"carry_forward_at,omitempty"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
	Version               int        `json:"version"`
}

// PeriodResponse represents a period in API responses
type PeriodResponse struct {
	ID         uuid.UUID  `json:"id"`
	ExerciseID uuid.UUID  `json:"exercise_id"`
	Number     int        `json:"number"`
	StartDate  time.Time  `json:"start_date"`
	EndDate    time.Time  `json:"end_date"`
	Status     string     `json:"status"`
	ClosedAt   *time.Time `json:"closed_at,omitempty"`
	ClosedBy   *uuid.UUID `json:"closed_by,omitempty"`
}

// ResolvedPeriodResponse names the exercise and period covering a date
type ResolvedPeriodResponse struct {
	Exercise ExerciseResponse `json:"exercise"`
	Period   PeriodResponse   `json:"period"`
	Postable bool             `json:"postable"`
}

// ClosePeriodResult reports what a period close did
type ClosePeriodResult struct {
	Period          PeriodResponse `json:"period"`
	EntriesClosed   int64          `json:"entries_closed"`
	DraftsRemaining int64          `json:"drafts_remaining"`
}

func toExerciseResponse(e *fiscal.Exercise) *ExerciseResponse {
	return &ExerciseResponse{
		ID:                    e.ID,
		TenantID:              e.TenantID,
		Code:                  e.Code,
		Label:                 e.Label,
		StartDate:             e.StartDate,
		EndDate:               e.EndDate,
		Status:                e.Status.String(),
		FirstExercise:         e.FirstExercise,
		ClosingDeadline:       e.ClosingDeadline(),
		DaysUntilDeadline:     e.DaysUntilDeadline(time.Now()),
		ProvisionalCloseDate:  e.ProvisionalCloseDate,
		DefinitiveCloseDate:   e.DefinitiveCloseDate,
		CarryForwardGenerated: e.CarryForwardGenerated,
		CarryForwardAt:        e.CarryForwardAt,
		CreatedAt:             e.CreatedAt,
		UpdatedAt:             e.UpdatedAt,
		Version:               e.Version,
	}
}

func toPeriodResponse(p *fiscal.Period) PeriodResponse {
	return PeriodResponse{
		ID:         p.ID,
		ExerciseID: p.ExerciseID,
		Number:     p.Number,
		StartDate:  p.StartDate,
		EndDate:    p.EndDate,
		Status:     p.Status.String(),
		ClosedAt:   p.ClosedAt,
		ClosedBy:   p.ClosedBy,
	}
}
