package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/normx-ai/backend/internal/domain/fiscal"
	"github.com/normx-ai/backend/internal/domain/ledger"
	"github.com/normx-ai/backend/internal/domain/shared"
	"github.com/normx-ai/backend/internal/domain/tiers"
)

// maxNumberAttempts bounds how often an entry-number allocation is retried
// after a concurrent posting took the same number. One automatic retry,
// then the conflict is surfaced.
const maxNumberAttempts = 2

// LedgerService provides the posting, validation, duplication and
// reconciliation operations of the ledger engine. Every write runs inside
// the transaction scope so numbering and equilibrium stay consistent under
// concurrent posting.
type LedgerService struct {
	scope             TransactionScope
	reconciliationSvc *ledger.ReconciliationService
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(scope TransactionScope) *LedgerService {
	return &LedgerService{
		scope:             scope,
		reconciliationSvc: ledger.NewReconciliationService(),
	}
}

// PostEntry creates a draft entry with its lines. The period and exercise
// are resolved from the date; the entry number is allocated from the
// journal+year sequence inside the same transaction that saves the entry.
func (s *LedgerService) PostEntry(ctx context.Context, tenantID uuid.UUID, req PostEntryRequest) (*EntryResponse, error) {
	var resp *EntryResponse

	err := s.withNumberRetry(ctx, func() error {
		return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
			jnl, err := repos.Journals().FindByIDForTenant(ctx, tenantID, req.JournalID)
			if err != nil {
				return err
			}
			if !jnl.Active {
				return shared.NewStateError("JOURNAL_INACTIVE", fmt.Sprintf("Journal %s is inactive", jnl.Code))
			}

			exercise, period, err := s.resolvePosting(ctx, repos, tenantID, req)
			if err != nil {
				return err
			}
			if !period.PostingAllowed(exercise.Status) {
				return ledger.ErrPostingNotAllowed
			}

			number, err := s.allocateNumber(ctx, repos, tenantID, jnl.Code, req)
			if err != nil {
				return err
			}

			entry, err := ledger.NewEntry(tenantID, number, jnl.ID, jnl.Code, exercise.ID, period.ID, req.Date, req.Label)
			if err != nil {
				return err
			}
			entry.PieceDate = req.PieceDate
			entry.Reference = req.Reference

			for _, lr := range req.Lines {
				input, err := s.buildLineInput(ctx, repos, tenantID, entry, lr)
				if err != nil {
					return err
				}
				if _, err := entry.AddLine(input); err != nil {
					return err
				}
			}

			if err := repos.Entries().Save(ctx, entry); err != nil {
				return err
			}
			resp = toEntryResponse(entry)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// AddLine appends a line to a draft entry and persists the recomputed
// equilibrium atomically with it
func (s *LedgerService) AddLine(ctx context.Context, tenantID, entryID uuid.UUID, req LineRequest) (*EntryResponse, error) {
	var resp *EntryResponse

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		entry, err := repos.Entries().FindByIDForTenant(ctx, tenantID, entryID)
		if err != nil {
			return err
		}
		if err := s.checkPostingAllowed(ctx, repos, entry); err != nil {
			return err
		}

		input, err := s.buildLineInput(ctx, repos, tenantID, entry, req)
		if err != nil {
			return err
		}
		if _, err := entry.AddLine(input); err != nil {
			return err
		}

		if err := repos.Entries().Save(ctx, entry); err != nil {
			return err
		}
		resp = toEntryResponse(entry)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// RemoveLine deletes a line from a draft entry and persists the recomputed
// equilibrium atomically with it
func (s *LedgerService) RemoveLine(ctx context.Context, tenantID, entryID, lineID uuid.UUID) (*EntryResponse, error) {
	var resp *EntryResponse

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		entry, err := repos.Entries().FindByIDForTenant(ctx, tenantID, entryID)
		if err != nil {
			return err
		}
		if err := s.checkPostingAllowed(ctx, repos, entry); err != nil {
			return err
		}
		if err := entry.RemoveLine(lineID); err != nil {
			return err
		}

		if err := repos.Entries().Save(ctx, entry); err != nil {
			return err
		}
		resp = toEntryResponse(entry)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// UpdateEntry changes the header of a draft entry, re-resolving the period
// and exercise when the date moved
func (s *LedgerService) UpdateEntry(ctx context.Context, tenantID, entryID uuid.UUID, req UpdateEntryRequest) (*EntryResponse, error) {
	var resp *EntryResponse

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		entry, err := repos.Entries().FindByIDForTenant(ctx, tenantID, entryID)
		if err != nil {
			return err
		}

		exercise, period, err := s.resolvePosting(ctx, repos, tenantID, PostEntryRequest{Date: req.Date})
		if err != nil {
			return err
		}
		if !period.PostingAllowed(exercise.Status) {
			return ledger.ErrPostingNotAllowed
		}

		if err := entry.UpdateHeader(req.Date, req.PieceDate, exercise.ID, period.ID, req.Label, req.Reference); err != nil {
			return err
		}

		if err := repos.Entries().Save(ctx, entry); err != nil {
			return err
		}
		resp = toEntryResponse(entry)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// AmendEntryMetadata changes label and reference of a validated entry.
// This is the privileged path; financial fields stay frozen.
func (s *LedgerService) AmendEntryMetadata(ctx context.Context, tenantID, entryID uuid.UUID, label, reference string) (*EntryResponse, error) {
	var resp *EntryResponse

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		entry, err := repos.Entries().FindByIDForTenant(ctx, tenantID, entryID)
		if err != nil {
			return err
		}
		if err := entry.AmendMetadata(label, reference); err != nil {
			return err
		}

		if err := repos.Entries().Save(ctx, entry); err != nil {
			return err
		}
		resp = toEntryResponse(entry)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// ValidateEntry performs the one-way draft-to-validated transition
func (s *LedgerService) ValidateEntry(ctx context.Context, tenantID, entryID, actor uuid.UUID) (*EntryResponse, error) {
	var resp *EntryResponse

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		entry, err := repos.Entries().FindByIDForTenant(ctx, tenantID, entryID)
		if err != nil {
			return err
		}
		if err := entry.Validate(actor); err != nil {
			return err
		}

		if err := repos.Entries().Save(ctx, entry); err != nil {
			return err
		}
		resp = toEntryResponse(entry)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// DuplicateEntry clones an entry into a fresh draft with a newly allocated
// number. The original is untouched.
func (s *LedgerService) DuplicateEntry(ctx context.Context, tenantID, entryID uuid.UUID) (*EntryResponse, error) {
	var resp *EntryResponse

	err := s.withNumberRetry(ctx, func() error {
		return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
			original, err := repos.Entries().FindByIDForTenant(ctx, tenantID, entryID)
			if err != nil {
				return err
			}

			prefix := ledger.NumberPrefix(original.JournalCode, original.Date)
			maxSeq, err := repos.Entries().MaxSequenceForPrefix(ctx, tenantID, prefix)
			if err != nil {
				return err
			}
			clone, err := original.Duplicate(ledger.FormatNumber(prefix, maxSeq+1))
			if err != nil {
				return err
			}

			if err := repos.Entries().Save(ctx, clone); err != nil {
				return err
			}
			resp = toEntryResponse(clone)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// DeleteEntry removes a draft entry. Its number is never reallocated.
func (s *LedgerService) DeleteEntry(ctx context.Context, tenantID, entryID uuid.UUID) error {
	return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		entry, err := repos.Entries().FindByIDForTenant(ctx, tenantID, entryID)
		if err != nil {
			return err
		}
		if entry.Status != ledger.EntryStatusDraft {
			return shared.NewStateError("ENTRY_NOT_DRAFT", "Only a draft entry can be deleted")
		}
		return repos.Entries().Delete(ctx, tenantID, entryID)
	})
}

// Reconcile tags a set of lines with one shared reconciliation code and
// returns it. An empty code asks for a generated one.
func (s *LedgerService) Reconcile(ctx context.Context, tenantID uuid.UUID, lineIDs []uuid.UUID, code string) (string, error) {
	var applied string

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		lines, err := repos.Entries().FindLinesByIDs(ctx, tenantID, lineIDs)
		if err != nil {
			return err
		}
		if len(lines) != len(lineIDs) {
			return shared.NewReferenceError("LINE_NOT_FOUND", "One or more lines were not found")
		}

		entryIDs := make([]uuid.UUID, 0, len(lines))
		seen := make(map[uuid.UUID]bool)
		for _, l := range lines {
			if !seen[l.EntryID] {
				seen[l.EntryID] = true
				entryIDs = append(entryIDs, l.EntryID)
			}
		}
		entries, err := repos.Entries().FindEntriesByIDs(ctx, tenantID, entryIDs)
		if err != nil {
			return err
		}
		statuses := make(map[uuid.UUID]ledger.EntryStatus, len(entries))
		for _, e := range entries {
			statuses[e.ID] = e.Status
		}

		if code != "" {
			inUse, err := repos.Entries().ReconciliationCodeInUse(ctx, tenantID, code)
			if err != nil {
				return err
			}
			if inUse {
				return shared.NewValidationError("RECONCILIATION_CODE_IN_USE",
					fmt.Sprintf("Reconciliation code %s is already assigned", code))
			}
		}

		ptrs := make([]*ledger.Line, len(lines))
		for i := range lines {
			ptrs[i] = &lines[i]
		}
		applied, err = s.reconciliationSvc.Reconcile(ptrs, statuses, code)
		if err != nil {
			return err
		}

		return repos.Entries().SaveLines(ctx, ptrs)
	})
	if err != nil {
		return "", err
	}
	return applied, nil
}

// Unreconcile clears the given code on every line carrying it and returns
// how many lines were cleared
func (s *LedgerService) Unreconcile(ctx context.Context, tenantID uuid.UUID, code string) (int, error) {
	var count int

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		lines, err := repos.Entries().FindLinesByReconciliationCode(ctx, tenantID, code)
		if err != nil {
			return err
		}

		ptrs := make([]*ledger.Line, len(lines))
		for i := range lines {
			ptrs[i] = &lines[i]
		}
		count, err = s.reconciliationSvc.Unreconcile(ptrs)
		if err != nil {
			return err
		}

		return repos.Entries().SaveLines(ctx, ptrs)
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// GetEntry loads an entry with its lines
func (s *LedgerService) GetEntry(ctx context.Context, tenantID, entryID uuid.UUID) (*EntryResponse, error) {
	var resp *EntryResponse

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		entry, err := repos.Entries().FindByIDForTenant(ctx, tenantID, entryID)
		if err != nil {
			return err
		}
		resp = toEntryResponse(entry)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// ListEntries returns entries matching the filter, newest first, paginated
func (s *LedgerService) ListEntries(ctx context.Context, tenantID uuid.UUID, filter ListEntriesFilter) (*shared.Paginated[EntryResponse], error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 100 {
		filter.PageSize = 20
	}

	var result *shared.Paginated[EntryResponse]

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		entries, total, err := repos.Entries().FindAllForTenant(ctx, tenantID, ledger.EntryFilter{
			JournalID:  filter.JournalID,
			ExerciseID: filter.ExerciseID,
			PeriodID:   filter.PeriodID,
			Status:     filter.Status,
			FromDate:   filter.FromDate,
			ToDate:     filter.ToDate,
			Search:     filter.Search,
			Page:       filter.Page,
			PageSize:   filter.PageSize,
		})
		if err != nil {
			return err
		}

		items := make([]EntryResponse, len(entries))
		for i := range entries {
			items[i] = *toEntryResponse(&entries[i])
		}
		paginated := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
		result = &paginated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// resolvePosting finds the open exercise and period covering the date
func (s *LedgerService) resolvePosting(ctx context.Context, repos TransactionalRepositories, tenantID uuid.UUID, req PostEntryRequest) (*fiscal.Exercise, *fiscal.Period, error) {
	exercise, err := repos.Exercises().FindContainingDate(ctx, tenantID, req.Date, true)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil, shared.NewConsistencyError("NO_OPEN_EXERCISE",
				fmt.Sprintf("No open exercise covers the date %s", req.Date.Format("2006-01-02")))
		}
		return nil, nil, err
	}

	period, err := repos.Periods().FindByExerciseAndDate(ctx, tenantID, exercise.ID, req.Date)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil, shared.NewReferenceError("NO_PERIOD_FOR_DATE",
				fmt.Sprintf("No period of exercise %s covers the date %s", exercise.Code, req.Date.Format("2006-01-02")))
		}
		return nil, nil, err
	}

	return exercise, period, nil
}

// checkPostingAllowed re-checks the posting gate for an existing entry
// before any line mutation
func (s *LedgerService) checkPostingAllowed(ctx context.Context, repos TransactionalRepositories, entry *ledger.Entry) error {
	exercise, err := repos.Exercises().FindByIDForTenant(ctx, entry.TenantID, entry.ExerciseID)
	if err != nil {
		return err
	}
	period, err := repos.Periods().FindByIDForTenant(ctx, entry.TenantID, entry.PeriodID)
	if err != nil {
		return err
	}
	if !period.PostingAllowed(exercise.Status) {
		return ledger.ErrPostingNotAllowed
	}
	return nil
}

// allocateNumber computes the next entry number for the journal+year of
// the posting. It must run inside the transaction that saves the entry.
func (s *LedgerService) allocateNumber(ctx context.Context, repos TransactionalRepositories, tenantID uuid.UUID, journalCode string, req PostEntryRequest) (string, error) {
	prefix := ledger.NumberPrefix(journalCode, req.Date)
	maxSeq, err := repos.Entries().MaxSequenceForPrefix(ctx, tenantID, prefix)
	if err != nil {
		return "", err
	}
	if maxSeq >= ledger.MaxSequence {
		return "", ledger.ErrSequenceExhausted
	}
	return ledger.FormatNumber(prefix, maxSeq+1), nil
}

// buildLineInput resolves the referential data of a proposed line
func (s *LedgerService) buildLineInput(ctx context.Context, repos TransactionalRepositories, tenantID uuid.UUID, entry *ledger.Entry, req LineRequest) (ledger.LineInput, error) {
	acc, err := repos.Accounts().FindByIDForTenant(ctx, tenantID, req.AccountID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return ledger.LineInput{}, shared.NewReferenceError("ACCOUNT_NOT_FOUND", "Line account was not found")
		}
		return ledger.LineInput{}, err
	}
	if !acc.Active {
		return ledger.LineInput{}, shared.NewStateError("ACCOUNT_INACTIVE", fmt.Sprintf("Account %s is inactive", acc.Code))
	}

	input := ledger.LineInput{
		LineDate:     req.LineDate,
		AccountID:    acc.ID,
		AccountCode:  acc.Code,
		AccountClass: acc.Class,
		Piece:        req.Piece,
		Label:        req.Label,
		Debit:        req.Debit,
		Credit:       req.Credit,
		DueDate:      req.DueDate,
	}

	if req.CounterpartyID != nil {
		cp, err := repos.Counterparties().FindByIDForTenant(ctx, tenantID, *req.CounterpartyID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return ledger.LineInput{}, shared.NewReferenceError("COUNTERPARTY_NOT_FOUND", "Line counterparty was not found")
			}
			return ledger.LineInput{}, err
		}
		if err := checkCounterpartyUsable(cp); err != nil {
			return ledger.LineInput{}, err
		}

		input.CounterpartyID = &cp.ID
		input.CounterpartyCode = cp.Code
		input.CollectiveAccountCode = cp.CollectiveAccount
		if input.DueDate == nil {
			due := cp.DueDateFrom(entry.Date)
			input.DueDate = &due
		}
	}

	return input, nil
}

func checkCounterpartyUsable(cp *tiers.Counterparty) error {
	if cp.Blocked {
		return shared.NewStateError("COUNTERPARTY_BLOCKED",
			fmt.Sprintf("Counterparty %s is blocked: %s", cp.Code, cp.BlockReason))
	}
	if !cp.Active {
		return shared.NewStateError("COUNTERPARTY_INACTIVE", fmt.Sprintf("Counterparty %s is inactive", cp.Code))
	}
	return nil
}

// withNumberRetry reruns fn once when it failed on a duplicate entry
// number taken by a concurrent posting
func (s *LedgerService) withNumberRetry(_ context.Context, fn func() error) error {
	var err error
	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		err = fn()
		if err == nil || !errors.Is(err, ledger.ErrDuplicateEntryNumber) {
			return err
		}
	}
	return err
}
