package persistence

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/normx-ai/backend/internal/domain/ledger"
	"github.com/normx-ai/backend/internal/domain/shared"
	"github.com/normx-ai/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormEntryRepository implements EntryRepository using GORM. Save persists
// the whole aggregate: the header row and the line rows are written in one
// transaction, replacing the stored lines with the aggregate's current set.
type GormEntryRepository struct {
	db *gorm.DB
}

// NewGormEntryRepository creates a new GormEntryRepository
func NewGormEntryRepository(db *gorm.DB) *GormEntryRepository {
	return &GormEntryRepository{db: db}
}

// FindByIDForTenant finds an entry with its lines by ID within a tenant
func (r *GormEntryRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ledger.Entry, error) {
	var model models.EntryModel
	if err := r.db.WithContext(ctx).
		Preload("Lines", lineOrder).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByNumber finds an entry with its lines by number within a tenant
func (r *GormEntryRepository) FindByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*ledger.Entry, error) {
	var model models.EntryModel
	if err := r.db.WithContext(ctx).
		Preload("Lines", lineOrder).
		Where("tenant_id = ? AND number = ?", tenantID, strings.ToUpper(number)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForTenant finds entries matching the filter, newest first, with
// the total count for pagination
func (r *GormEntryRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter ledger.EntryFilter) ([]ledger.Entry, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.EntryModel{}).Where("tenant_id = ?", tenantID)
	base = r.applyEntryFilter(base, filter)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := base.Preload("Lines", lineOrder).Order("date DESC, number DESC")
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	var entryModels []models.EntryModel
	if err := query.Find(&entryModels).Error; err != nil {
		return nil, 0, err
	}

	entries := make([]ledger.Entry, len(entryModels))
	for i, model := range entryModels {
		entries[i] = *model.ToDomain()
	}
	return entries, total, nil
}

// MaxSequenceForPrefix returns the highest sequence already allocated for
// a journal+year number prefix. Numbers are fixed width with a zero-padded
// suffix, so the lexicographic maximum carries the numeric maximum.
func (r *GormEntryRepository) MaxSequenceForPrefix(ctx context.Context, tenantID uuid.UUID, prefix string) (int, error) {
	var maxNumber sql.NullString
	if err := r.db.WithContext(ctx).
		Model(&models.EntryModel{}).
		Where("tenant_id = ? AND number LIKE ?", tenantID, prefix+"%").
		Select("MAX(number)").
		Scan(&maxNumber).Error; err != nil {
		return 0, err
	}
	if !maxNumber.Valid {
		return 0, nil
	}
	return ledger.SequenceFromNumber(maxNumber.String, prefix), nil
}

// Save persists the entry and its lines atomically. Stored lines that are
// no longer part of the aggregate are removed. A unique violation on the
// entry number surfaces as ErrDuplicateEntryNumber so the caller can
// re-allocate and retry.
func (r *GormEntryRepository) Save(ctx context.Context, e *ledger.Entry) error {
	model := models.EntryModelFromDomain(e)
	lines := model.Lines
	model.Lines = nil

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(model).Error; err != nil {
			return err
		}
		if err := tx.Where("entry_id = ?", model.ID).Delete(&models.LineModel{}).Error; err != nil {
			return err
		}
		if len(lines) > 0 {
			if err := tx.Create(&lines).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if isUniqueViolation(err) {
			return ledger.ErrDuplicateEntryNumber
		}
		return err
	}
	return nil
}

// Delete removes a draft entry and its lines. Sequences are never reused.
func (r *GormEntryRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tenant_id = ? AND entry_id = ?", tenantID, id).Delete(&models.LineModel{}).Error; err != nil {
			return err
		}
		result := tx.Where("tenant_id = ? AND id = ?", tenantID, id).Delete(&models.EntryModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// CloseAllInPeriod moves every validated entry of a period to Closed
func (r *GormEntryRepository) CloseAllInPeriod(ctx context.Context, tenantID, periodID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.EntryModel{}).
		Where("tenant_id = ? AND period_id = ? AND status = ?", tenantID, periodID, ledger.EntryStatusValidated).
		Updates(map[string]interface{}{
			"status":     ledger.EntryStatusClosed,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// CountDraftsInPeriod counts draft entries left in a period
func (r *GormEntryRepository) CountDraftsInPeriod(ctx context.Context, tenantID, periodID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.EntryModel{}).
		Where("tenant_id = ? AND period_id = ? AND status = ?", tenantID, periodID, ledger.EntryStatusDraft).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountLinesForAccount counts lines referencing an account
func (r *GormEntryRepository) CountLinesForAccount(ctx context.Context, tenantID, accountID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.LineModel{}).
		Where("tenant_id = ? AND account_id = ?", tenantID, accountID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountLinesForCounterparty counts lines referencing a counterparty
func (r *GormEntryRepository) CountLinesForCounterparty(ctx context.Context, tenantID, counterpartyID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.LineModel{}).
		Where("tenant_id = ? AND counterparty_id = ?", tenantID, counterpartyID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindLinesByIDs loads lines by ID within a tenant
func (r *GormEntryRepository) FindLinesByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]ledger.Line, error) {
	if len(ids) == 0 {
		return []ledger.Line{}, nil
	}

	var lineModels []models.LineModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id IN ?", tenantID, ids).
		Find(&lineModels).Error; err != nil {
		return nil, err
	}

	lines := make([]ledger.Line, len(lineModels))
	for i, model := range lineModels {
		lines[i] = *model.ToDomain()
	}
	return lines, nil
}

// FindLinesByReconciliationCode loads the lines sharing a code
func (r *GormEntryRepository) FindLinesByReconciliationCode(ctx context.Context, tenantID uuid.UUID, code string) ([]ledger.Line, error) {
	var lineModels []models.LineModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND reconciliation_code = ?", tenantID, strings.ToUpper(code)).
		Order("created_at ASC").
		Find(&lineModels).Error; err != nil {
		return nil, err
	}

	lines := make([]ledger.Line, len(lineModels))
	for i, model := range lineModels {
		lines[i] = *model.ToDomain()
	}
	return lines, nil
}

// FindEntriesByIDs loads entry headers (without lines) by ID
func (r *GormEntryRepository) FindEntriesByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]ledger.Entry, error) {
	if len(ids) == 0 {
		return []ledger.Entry{}, nil
	}

	var entryModels []models.EntryModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id IN ?", tenantID, ids).
		Find(&entryModels).Error; err != nil {
		return nil, err
	}

	entries := make([]ledger.Entry, len(entryModels))
	for i, model := range entryModels {
		entries[i] = *model.ToDomain()
	}
	return entries, nil
}

// SaveLines persists reconciliation changes on the given lines without
// touching their entries
func (r *GormEntryRepository) SaveLines(ctx context.Context, lines []*ledger.Line) error {
	if len(lines) == 0 {
		return nil
	}
	lineModels := make([]*models.LineModel, len(lines))
	for i, l := range lines {
		lineModels[i] = models.LineModelFromDomain(l)
	}
	return r.db.WithContext(ctx).Save(lineModels).Error
}

// ReconciliationCodeInUse reports whether any line of the tenant already
// carries the code
func (r *GormEntryRepository) ReconciliationCodeInUse(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.LineModel{}).
		Where("tenant_id = ? AND reconciliation_code = ?", tenantID, strings.ToUpper(code)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyEntryFilter applies entry-specific filter options, without
// pagination so the same query can serve the count
func (r *GormEntryRepository) applyEntryFilter(query *gorm.DB, filter ledger.EntryFilter) *gorm.DB {
	if filter.JournalID != nil {
		query = query.Where("journal_id = ?", *filter.JournalID)
	}
	if filter.ExerciseID != nil {
		query = query.Where("exercise_id = ?", *filter.ExerciseID)
	}
	if filter.PeriodID != nil {
		query = query.Where("period_id = ?", *filter.PeriodID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.FromDate != nil {
		query = query.Where("date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("date <= ?", *filter.ToDate)
	}
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("number ILIKE ? OR label ILIKE ? OR reference ILIKE ?",
			searchPattern, searchPattern, searchPattern)
	}
	return query
}

// lineOrder keeps preloaded lines in insertion order
func lineOrder(db *gorm.DB) *gorm.DB {
	return db.Order("number ASC")
}

// isUniqueViolation reports whether the error is a unique index violation,
// covering the Postgres driver and the translated GORM error
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

var _ ledger.EntryRepository = (*GormEntryRepository)(nil)
