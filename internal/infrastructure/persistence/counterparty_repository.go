package persistence

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/normx-ai/backend/internal/domain/shared"
	"github.com/normx-ai/backend/internal/domain/tiers"
	"github.com/normx-ai/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormCounterpartyRepository implements CounterpartyRepository using GORM
type GormCounterpartyRepository struct {
	db *gorm.DB
}

// NewGormCounterpartyRepository creates a new GormCounterpartyRepository
func NewGormCounterpartyRepository(db *gorm.DB) *GormCounterpartyRepository {
	return &GormCounterpartyRepository{db: db}
}

// FindByIDForTenant finds a counterparty by ID within a tenant
func (r *GormCounterpartyRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*tiers.Counterparty, error) {
	var model models.CounterpartyModel
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

// FindByCode finds a counterparty by its code within a tenant
func (r *GormCounterpartyRepository) FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*tiers.Counterparty, error) {
	var model models.CounterpartyModel
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

// FindByMatricule finds an employee counterparty by matricule within a tenant
func (r *GormCounterpartyRepository) FindByMatricule(ctx context.Context, tenantID uuid.UUID, matricule string) (*tiers.Counterparty, error) {
	var model models.CounterpartyModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND matricule = ?", tenantID, matricule).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForTenant finds all counterparties for a tenant
func (r *GormCounterpartyRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]tiers.Counterparty, error) {
	var counterpartyModels []models.CounterpartyModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.CounterpartyModel{}).Where("tenant_id = ?", tenantID), filter)

	if err := query.Find(&counterpartyModels).Error; err != nil {
		return nil, err
	}

	counterparties := make([]tiers.Counterparty, len(counterpartyModels))
	for i, model := range counterpartyModels {
		counterparties[i] = *model.ToDomain()
	}
	return counterparties, nil
}

// FindByKind finds counterparties of one kind for a tenant
func (r *GormCounterpartyRepository) FindByKind(ctx context.Context, tenantID uuid.UUID, kind tiers.Kind, filter shared.Filter) ([]tiers.Counterparty, error) {
	var counterpartyModels []models.CounterpartyModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.CounterpartyModel{}).
			Where("tenant_id = ? AND kind = ?", tenantID, kind),
		filter,
	)

	if err := query.Find(&counterpartyModels).Error; err != nil {
		return nil, err
	}

	counterparties := make([]tiers.Counterparty, len(counterpartyModels))
	for i, model := range counterpartyModels {
		counterparties[i] = *model.ToDomain()
	}
	return counterparties, nil
}

// MaxSequenceForKind returns the highest code suffix assigned for the kind.
// Codes are fixed width (kind prefix plus a zero-padded 5-digit suffix), so
// the lexicographic maximum carries the numeric maximum.
func (r *GormCounterpartyRepository) MaxSequenceForKind(ctx context.Context, tenantID uuid.UUID, kind tiers.Kind) (int, error) {
	var maxCode sql.NullString
	if err := r.db.WithContext(ctx).
		Model(&models.CounterpartyModel{}).
		Where("tenant_id = ? AND kind = ?", tenantID, kind).
		Select("MAX(code)").
		Scan(&maxCode).Error; err != nil {
		return 0, err
	}
	if !maxCode.Valid {
		return 0, nil
	}
	return tiers.SequenceFromCode(maxCode.String), nil
}

// Save creates or updates a counterparty
func (r *GormCounterpartyRepository) Save(ctx context.Context, c *tiers.Counterparty) error {
	model := models.CounterpartyModelFromDomain(c)
	return r.db.WithContext(ctx).Save(model).Error
}

// Count counts counterparties for a tenant
func (r *GormCounterpartyRepository) Count(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.CounterpartyModel{}).Where("tenant_id = ?", tenantID)
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormCounterpartyRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	// Apply pagination
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	// Apply ordering
	if filter.OrderBy != "" {
		field := ValidateSortField(filter.OrderBy, CounterpartySortFields, "code")
		query = query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("code ASC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormCounterpartyRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	// Apply search
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR code ILIKE ? OR short_name ILIKE ? OR matricule ILIKE ?",
			searchPattern, searchPattern, searchPattern, searchPattern)
	}

	// Apply additional filters
	for key, value := range filter.Filters {
		switch key {
		case "kind":
			query = query.Where("kind = ?", value)
		case "active":
			query = query.Where("active = ?", value)
		case "blocked":
			query = query.Where("blocked = ?", value)
		case "city":
			query = query.Where("city = ?", value)
		}
	}

	return query
}

var _ tiers.CounterpartyRepository = (*GormCounterpartyRepository)(nil)
