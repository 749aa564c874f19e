package persistence

import (
	"context"

	appledger "github.com/normx-ai/backend/internal/application/ledger"
	"github.com/normx-ai/backend/internal/domain/account"
	"github.com/normx-ai/backend/internal/domain/fiscal"
	"github.com/normx-ai/backend/internal/domain/journal"
	"github.com/normx-ai/backend/internal/domain/ledger"
	"github.com/normx-ai/backend/internal/domain/tiers"
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope using GORM transactions
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction. All
// repositories handed to fn share the transaction, so a failing step rolls
// back every write of the operation.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appledger.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormTransactionalRepositories{tx: tx}
		return fn(repos)
	})
}

// gormTransactionalRepositories provides repositories bound to a transaction
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// Entries returns the entry repository scoped to the transaction
func (r *gormTransactionalRepositories) Entries() ledger.EntryRepository {
	return NewGormEntryRepository(r.tx)
}

// Journals returns the journal repository scoped to the transaction
func (r *gormTransactionalRepositories) Journals() journal.JournalRepository {
	return NewGormJournalRepository(r.tx)
}

// Exercises returns the exercise repository scoped to the transaction
func (r *gormTransactionalRepositories) Exercises() fiscal.ExerciseRepository {
	return NewGormExerciseRepository(r.tx)
}

// Periods returns the period repository scoped to the transaction
func (r *gormTransactionalRepositories) Periods() fiscal.PeriodRepository {
	return NewGormPeriodRepository(r.tx)
}

// Accounts returns the account repository scoped to the transaction
func (r *gormTransactionalRepositories) Accounts() account.AccountRepository {
	return NewGormAccountRepository(r.tx)
}

// Counterparties returns the counterparty repository scoped to the transaction
func (r *gormTransactionalRepositories) Counterparties() tiers.CounterpartyRepository {
	return NewGormCounterpartyRepository(r.tx)
}

var _ appledger.TransactionScope = (*GormTransactionScope)(nil)
var _ appledger.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
