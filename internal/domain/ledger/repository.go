package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EntryFilter defines filtering options for entry list queries
type EntryFilter struct {
	JournalID  *uuid.UUID
	ExerciseID *uuid.UUID
	PeriodID   *uuid.UUID
	Status     EntryStatus
	FromDate   *time.Time
	ToDate     *time.Time
	Search     string
	Page       int
	PageSize   int
}

// EntryRepository defines the interface for entry persistence. Save always
// persists the whole aggregate: header totals and lines go to the store in
// the same transaction, so no reader ever observes a stored equilibrium
// that disagrees with the committed lines.
type EntryRepository interface {
	// FindByIDForTenant finds an entry with its lines by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Entry, error)

	// FindByNumber finds an entry with its lines by number within a tenant
	FindByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*Entry, error)

	// FindAllForTenant finds entries matching the filter, newest first,
	// with the total count for pagination
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter EntryFilter) ([]Entry, int64, error)

	// MaxSequenceForPrefix returns the highest sequence already allocated
	// for a journal+year number prefix, 0 when none exist. Must run inside
	// the same transaction as the Save that uses the allocated number.
	MaxSequenceForPrefix(ctx context.Context, tenantID uuid.UUID, prefix string) (int, error)

	// Save persists the entry and its lines atomically, removing lines
	// that were deleted from the aggregate
	Save(ctx context.Context, e *Entry) error

	// Delete removes a draft entry and its lines. The entry number is not
	// freed; sequences are never reused.
	Delete(ctx context.Context, tenantID, id uuid.UUID) error

	// CloseAllInPeriod moves every validated entry of a period to Closed
	// and returns how many were affected
	CloseAllInPeriod(ctx context.Context, tenantID, periodID uuid.UUID) (int64, error)

	// CountDraftsInPeriod counts draft entries left in a period
	CountDraftsInPeriod(ctx context.Context, tenantID, periodID uuid.UUID) (int64, error)

	// CountLinesForAccount counts lines referencing an account, across all
	// entries of the tenant
	CountLinesForAccount(ctx context.Context, tenantID, accountID uuid.UUID) (int64, error)

	// CountLinesForCounterparty counts lines referencing a counterparty
	CountLinesForCounterparty(ctx context.Context, tenantID, counterpartyID uuid.UUID) (int64, error)

	// FindLinesByIDs loads lines by ID within a tenant
	FindLinesByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]Line, error)

	// FindLinesByReconciliationCode loads the lines sharing a code
	FindLinesByReconciliationCode(ctx context.Context, tenantID uuid.UUID, code string) ([]Line, error)

	// FindEntriesByIDs loads entry headers (without lines) by ID
	FindEntriesByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]Entry, error)

	// SaveLines persists reconciliation changes on the given lines without
	// touching their entries
	SaveLines(ctx context.Context, lines []*Line) error

	// ReconciliationCodeInUse reports whether any line of the tenant
	// already carries the code
	ReconciliationCodeInUse(ctx context.Context, tenantID uuid.UUID, code string) (bool, error)
}
