package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/normx-ai/backend/internal/domain/account"
	"github.com/normx-ai/backend/internal/domain/shared"
	"github.com/normx-ai/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormAccountRepository implements AccountRepository using GORM
type GormAccountRepository struct {
	db *gorm.DB
}

// NewGormAccountRepository creates a new GormAccountRepository
func NewGormAccountRepository(db *gorm.DB) *GormAccountRepository {
	return &GormAccountRepository{db: db}
}

// FindByIDForTenant finds an account by ID within a tenant
func (r *GormAccountRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*account.Account, error) {
	var model models.AccountModel
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

// FindByCode finds an account by its 8-digit code within a tenant
func (r *GormAccountRepository) FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*account.Account, error) {
	var model models.AccountModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND code = ?", tenantID, code).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForTenant finds all accounts for a tenant
func (r *GormAccountRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]account.Account, error) {
	var accountModels []models.AccountModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.AccountModel{}).Where("tenant_id = ?", tenantID), filter)

	if err := query.Find(&accountModels).Error; err != nil {
		return nil, err
	}

	accounts := make([]account.Account, len(accountModels))
	for i, model := range accountModels {
		accounts[i] = *model.ToDomain()
	}
	return accounts, nil
}

// FindByClass finds accounts of one OHADA class for a tenant
func (r *GormAccountRepository) FindByClass(ctx context.Context, tenantID uuid.UUID, class string, filter shared.Filter) ([]account.Account, error) {
	var accountModels []models.AccountModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.AccountModel{}).
			Where("tenant_id = ? AND class = ?", tenantID, class),
		filter,
	)

	if err := query.Find(&accountModels).Error; err != nil {
		return nil, err
	}

	accounts := make([]account.Account, len(accountModels))
	for i, model := range accountModels {
		accounts[i] = *model.ToDomain()
	}
	return accounts, nil
}

// FindActive finds all active accounts for a tenant
func (r *GormAccountRepository) FindActive(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]account.Account, error) {
	var accountModels []models.AccountModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.AccountModel{}).
			Where("tenant_id = ? AND active = ?", tenantID, true),
		filter,
	)

	if err := query.Find(&accountModels).Error; err != nil {
		return nil, err
	}

	accounts := make([]account.Account, len(accountModels))
	for i, model := range accountModels {
		accounts[i] = *model.ToDomain()
	}
	return accounts, nil
}

// Save creates or updates an account
func (r *GormAccountRepository) Save(ctx context.Context, a *account.Account) error {
	model := models.AccountModelFromDomain(a)
	return r.db.WithContext(ctx).Save(model).Error
}

// Count counts accounts for a tenant
func (r *GormAccountRepository) Count(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.AccountModel{}).Where("tenant_id = ?", tenantID)
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormAccountRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	// Apply pagination
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	// Apply ordering
	if filter.OrderBy != "" {
		field := ValidateSortField(filter.OrderBy, AccountSortFields, "code")
		query = query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		// Chart-of-accounts order
		query = query.Order("code ASC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormAccountRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	// Apply search
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("code ILIKE ? OR label ILIKE ?", searchPattern, searchPattern)
	}

	// Apply additional filters
	for key, value := range filter.Filters {
		switch key {
		case "class":
			query = query.Where("class = ?", value)
		case "nature":
			query = query.Where("nature = ?", value)
		case "active":
			query = query.Where("active = ?", value)
		}
	}

	return query
}

var _ account.AccountRepository = (*GormAccountRepository)(nil)
