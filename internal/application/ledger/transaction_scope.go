package ledger

import (
	"context"

	"github.com/normx-ai/backend/internal/domain/account"
	"github.com/normx-ai/backend/internal/domain/fiscal"
	"github.com/normx-ai/backend/internal/domain/journal"
	"github.com/normx-ai/backend/internal/domain/ledger"
	"github.com/normx-ai/backend/internal/domain/tiers"
)

// TransactionScope provides transactional access to the ledger's
// repositories. Every write operation of the engine (numbering, equilibrium
// recompute, validation, reconciliation, period transitions) runs inside
// Execute so the read-allocate-write sequence is atomic; a failing step
// rolls the whole mutation back.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to all repositories within a
// transaction. All repositories returned share the same underlying
// database transaction.
type TransactionalRepositories interface {
	// Entries returns the entry repository scoped to the transaction
	Entries() ledger.EntryRepository
	// Journals returns the journal repository scoped to the transaction
	Journals() journal.JournalRepository
	// Exercises returns the exercise repository scoped to the transaction
	Exercises() fiscal.ExerciseRepository
	// Periods returns the period repository scoped to the transaction
	Periods() fiscal.PeriodRepository
	// Accounts returns the account repository scoped to the transaction
	Accounts() account.AccountRepository
	// Counterparties returns the counterparty repository scoped to the transaction
	Counterparties() tiers.CounterpartyRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. Useful for tests running against repositories that are
// transactional on their own.
type NoOpTransactionScope struct {
	entryRepo        ledger.EntryRepository
	journalRepo      journal.JournalRepository
	exerciseRepo     fiscal.ExerciseRepository
	periodRepo       fiscal.PeriodRepository
	accountRepo      account.AccountRepository
	counterpartyRepo tiers.CounterpartyRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope over the given repositories
func NewNoOpTransactionScope(
	entryRepo ledger.EntryRepository,
	journalRepo journal.JournalRepository,
	exerciseRepo fiscal.ExerciseRepository,
	periodRepo fiscal.PeriodRepository,
	accountRepo account.AccountRepository,
	counterpartyRepo tiers.CounterpartyRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		entryRepo:        entryRepo,
		journalRepo:      journalRepo,
		exerciseRepo:     exerciseRepo,
		periodRepo:       periodRepo,
		accountRepo:      accountRepo,
		counterpartyRepo: counterpartyRepo,
	}
}

// Execute runs the function without transactional guarantees
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// Entries returns the entry repository
func (s *NoOpTransactionScope) Entries() ledger.EntryRepository { return s.entryRepo }

// Journals returns the journal repository
func (s *NoOpTransactionScope) Journals() journal.JournalRepository { return s.journalRepo }

// Exercises returns the exercise repository
func (s *NoOpTransactionScope) Exercises() fiscal.ExerciseRepository { return s.exerciseRepo }

// Periods returns the period repository
func (s *NoOpTransactionScope) Periods() fiscal.PeriodRepository { return s.periodRepo }

// Accounts returns the account repository
func (s *NoOpTransactionScope) Accounts() account.AccountRepository { return s.accountRepo }

// Counterparties returns the counterparty repository
func (s *NoOpTransactionScope) Counterparties() tiers.CounterpartyRepository { return s.counterpartyRepo }

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
