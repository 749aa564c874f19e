package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/normx-ai/backend/internal/domain/journal"
	"github.com/normx-ai/backend/internal/domain/shared"
	"github.com/normx-ai/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormJournalRepository implements JournalRepository using GORM
type GormJournalRepository struct {
	db *gorm.DB
}

// NewGormJournalRepository creates a new GormJournalRepository
func NewGormJournalRepository(db *gorm.DB) *GormJournalRepository {
	return &GormJournalRepository{db: db}
}

// FindByIDForTenant finds a journal by ID within a tenant
func (r *GormJournalRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*journal.Journal, error) {
	var model models.JournalModel
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

// FindByCode finds a journal by its code within a tenant
func (r *GormJournalRepository) FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*journal.Journal, error) {
	var model models.JournalModel
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

// FindAllForTenant finds all journals for a tenant
func (r *GormJournalRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]journal.Journal, error) {
	var journalModels []models.JournalModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.JournalModel{}).Where("tenant_id = ?", tenantID), filter)

	if err := query.Find(&journalModels).Error; err != nil {
		return nil, err
	}

	journals := make([]journal.Journal, len(journalModels))
	for i, model := range journalModels {
		journals[i] = *model.ToDomain()
	}
	return journals, nil
}

// FindActive finds all active journals for a tenant
func (r *GormJournalRepository) FindActive(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]journal.Journal, error) {
	var journalModels []models.JournalModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.JournalModel{}).
			Where("tenant_id = ? AND active = ?", tenantID, true),
		filter,
	)

	if err := query.Find(&journalModels).Error; err != nil {
		return nil, err
	}

	journals := make([]journal.Journal, len(journalModels))
	for i, model := range journalModels {
		journals[i] = *model.ToDomain()
	}
	return journals, nil
}

// Save creates or updates a journal
func (r *GormJournalRepository) Save(ctx context.Context, j *journal.Journal) error {
	model := models.JournalModelFromDomain(j)
	return r.db.WithContext(ctx).Save(model).Error
}

// applyFilter applies filter options to the query
func (r *GormJournalRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	// Apply search
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("code ILIKE ? OR label ILIKE ?", searchPattern, searchPattern)
	}

	// Apply pagination
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	// Apply ordering
	if filter.OrderBy != "" {
		field := ValidateSortField(filter.OrderBy, JournalSortFields, "code")
		query = query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("code ASC")
	}

	return query
}

var _ journal.JournalRepository = (*GormJournalRepository)(nil)
