package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/normx-ai/backend/internal/domain/fiscal"
	"github.com/normx-ai/backend/internal/domain/shared"
	"github.com/normx-ai/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormExerciseRepository implements ExerciseRepository using GORM
type GormExerciseRepository struct {
	db *gorm.DB
}

// NewGormExerciseRepository creates a new GormExerciseRepository
func NewGormExerciseRepository(db *gorm.DB) *GormExerciseRepository {
	return &GormExerciseRepository{db: db}
}

// FindByIDForTenant finds an exercise by ID within a tenant
func (r *GormExerciseRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*fiscal.Exercise, error) {
	var model models.ExerciseModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCode finds an exercise by code within a tenant
func (r *GormExerciseRepository) FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*fiscal.Exercise, error) {
	var model models.ExerciseModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND code = ?", tenantID, strings.ToUpper(code)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByStatus finds exercises in the given status for a tenant
func (r *GormExerciseRepository) FindByStatus(ctx context.Context, tenantID uuid.UUID, status fiscal.ExerciseStatus) ([]fiscal.Exercise, error) {
	var exerciseModels []models.ExerciseModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND status = ?", tenantID, status).
		Order("start_date ASC").
		Find(&exerciseModels).Error; err != nil {
		return nil, err
	}

	exercises := make([]fiscal.Exercise, len(exerciseModels))
	for i, model := range exerciseModels {
		exercises[i] = *model.ToDomain()
	}
	return exercises, nil
}

// FindContainingDate finds the exercise whose range covers the date.
// With postableOnly the search is restricted to statuses that still
// accept entries.
func (r *GormExerciseRepository) FindContainingDate(ctx context.Context, tenantID uuid.UUID, date time.Time, postableOnly bool) (*fiscal.Exercise, error) {
	query := r.db.WithContext(ctx).
		Where("tenant_id = ? AND start_date <= ? AND end_date >= ?", tenantID, date, date)
	if postableOnly {
		query = query.Where("status IN ?", []fiscal.ExerciseStatus{
			fiscal.ExerciseStatusOpen,
			fiscal.ExerciseStatusProvisionalClose,
		})
	}

	var model models.ExerciseModel
	if err := query.Order("start_date ASC").First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForTenant finds all exercises for a tenant
func (r *GormExerciseRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]fiscal.Exercise, error) {
	var exerciseModels []models.ExerciseModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.ExerciseModel{}).Where("tenant_id = ?", tenantID), filter)

	if err := query.Find(&exerciseModels).Error; err != nil {
		return nil, err
	}

	exercises := make([]fiscal.Exercise, len(exerciseModels))
	for i, model := range exerciseModels {
		exercises[i] = *model.ToDomain()
	}
	return exercises, nil
}

// Save creates or updates an exercise
func (r *GormExerciseRepository) Save(ctx context.Context, e *fiscal.Exercise) error {
	model := models.ExerciseModelFromDomain(e)
	return r.db.WithContext(ctx).Save(model).Error
}

// applyFilter applies filter options to the query
func (r *GormExerciseRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	// Apply search
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("code ILIKE ? OR label ILIKE ?", searchPattern, searchPattern)
	}

	// Apply additional filters
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		}
	}

	// Apply pagination
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	// Apply ordering
	if filter.OrderBy != "" {
		field := ValidateSortField(filter.OrderBy, ExerciseSortFields, "start_date")
		query = query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("start_date DESC")
	}

	return query
}

var _ fiscal.ExerciseRepository = (*GormExerciseRepository)(nil)

// GormPeriodRepository implements PeriodRepository using GORM
type GormPeriodRepository struct {
	db *gorm.DB
}

// NewGormPeriodRepository creates a new GormPeriodRepository
func NewGormPeriodRepository(db *gorm.DB) *GormPeriodRepository {
	return &GormPeriodRepository{db: db}
}

// FindByIDForTenant finds a period by ID within a tenant
func (r *GormPeriodRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*fiscal.Period, error) {
	var model models.PeriodModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByExercise finds all periods of an exercise ordered by number
func (r *GormPeriodRepository) FindByExercise(ctx context.Context, tenantID, exerciseID uuid.UUID) ([]fiscal.Period, error) {
	var periodModels []models.PeriodModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND exercise_id = ?", tenantID, exerciseID).
		Order("number ASC").
		Find(&periodModels).Error; err != nil {
		return nil, err
	}

	periods := make([]fiscal.Period, len(periodModels))
	for i, model := range periodModels {
		periods[i] = *model.ToDomain()
	}
	return periods, nil
}

// FindByExerciseAndDate finds the period of an exercise covering the date
func (r *GormPeriodRepository) FindByExerciseAndDate(ctx context.Context, tenantID, exerciseID uuid.UUID, date time.Time) (*fiscal.Period, error) {
	var model models.PeriodModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND exercise_id = ? AND start_date <= ? AND end_date >= ?",
			tenantID, exerciseID, date, date).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates a period
func (r *GormPeriodRepository) Save(ctx context.Context, p *fiscal.Period) error {
	model := models.PeriodModelFromDomain(p)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveAll persists a batch of periods
func (r *GormPeriodRepository) SaveAll(ctx context.Context, periods []*fiscal.Period) error {
	if len(periods) == 0 {
		return nil
	}
	periodModels := make([]*models.PeriodModel, len(periods))
	for i, p := range periods {
		periodModels[i] = models.PeriodModelFromDomain(p)
	}
	return r.db.WithContext(ctx).Save(periodModels).Error
}

var _ fiscal.PeriodRepository = (*GormPeriodRepository)(nil)
