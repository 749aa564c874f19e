package fiscal

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/normx-ai/backend/internal/domain/shared"
)

// ExerciseRepository defines the interface for exercise persistence
type ExerciseRepository interface {
	// FindByIDForTenant finds an exercise by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Exercise, error)

	// FindByCode finds an exercise by code within a tenant
	FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*Exercise, error)

	// FindByStatus finds exercises in the given status for a tenant
	FindByStatus(ctx context.Context, tenantID uuid.UUID, status ExerciseStatus) ([]Exercise, error)

	// FindContainingDate finds the exercise whose range covers the date,
	// restricted to postable statuses when postableOnly is set
	FindContainingDate(ctx context.Context, tenantID uuid.UUID, date time.Time, postableOnly bool) (*Exercise, error)

	// FindAllForTenant finds all exercises for a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Exercise, error)

	// Save persists an exercise (insert or update)
	Save(ctx context.Context, e *Exercise) error
}

// PeriodRepository defines the interface for period persistence
type PeriodRepository interface {
	// FindByIDForTenant finds a period by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Period, error)

	// FindByExercise finds all periods of an exercise ordered by number
	FindByExercise(ctx context.Context, tenantID, exerciseID uuid.UUID) ([]Period, error)

	// FindByExerciseAndDate finds the period of an exercise covering the date
	FindByExerciseAndDate(ctx context.Context, tenantID, exerciseID uuid.UUID, date time.Time) (*Period, error)

	// Save persists a period (insert or update)
	Save(ctx context.Context, p *Period) error

	// SaveAll persists a batch of periods
	SaveAll(ctx context.Context, periods []*Period) error
}
