package ledger

import (
	"fmt"
	"regexp"

	"github.com/google/uuid"
	"github.com/normx-ai/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

var reconciliationCodePattern = regexp.MustCompile(`^[A-Z0-9]{1,10}$`)

// ReconciliationService matches (lettrage) sets of same-account lines that
// net to zero. Reconciliation is a bookkeeping annotation only; it never
// touches amounts or the equilibrium of the owning entries.
type ReconciliationService struct{}

// NewReconciliationService creates a new ReconciliationService
func NewReconciliationService() *ReconciliationService {
	return &ReconciliationService{}
}

// Reconcile tags every line of the set with one shared code. statuses maps
// each owning entry to its lifecycle state; only validated or closed
// entries take part. An empty code asks for a generated one. Returns the
// code applied to the set.
func (s *ReconciliationService) Reconcile(lines []*Line, statuses map[uuid.UUID]EntryStatus, code string) (string, error) {
	if len(lines) < 2 {
		return "", shared.NewValidationError("RECONCILIATION_SET_TOO_SMALL", "Reconciliation needs at least two lines")
	}

	accountID := lines[0].AccountID
	totalDebit := decimal.Zero
	totalCredit := decimal.Zero

	for _, l := range lines {
		if l.AccountID != accountID {
			return "", shared.NewConsistencyError("MIXED_ACCOUNTS", "All reconciled lines must share the same account")
		}
		if l.Reconciled {
			return "", shared.NewStateError("ALREADY_RECONCILED",
				fmt.Sprintf("Line %d of entry %s is already reconciled", l.Number, l.EntryID))
		}
		status, ok := statuses[l.EntryID]
		if !ok {
			return "", shared.NewReferenceError("ENTRY_NOT_FOUND", "Owning entry of a reconciled line was not found")
		}
		if status == EntryStatusDraft {
			return "", shared.NewStateError("ENTRY_NOT_VALIDATED", "Only lines of validated or closed entries can be reconciled")
		}
		totalDebit = totalDebit.Add(l.Debit)
		totalCredit = totalCredit.Add(l.Credit)
	}

	if !totalDebit.Equal(totalCredit) {
		return "", shared.NewConsistencyError("UNBALANCED_RECONCILIATION",
			fmt.Sprintf("Reconciliation set does not net to zero (debit %s, credit %s)", totalDebit, totalCredit))
	}

	if code == "" {
		code = NewReconciliationCode()
	} else if !reconciliationCodePattern.MatchString(code) {
		return "", shared.NewValidationError("INVALID_RECONCILIATION_CODE", "Reconciliation code must be 1-10 uppercase letters or digits")
	}

	for _, l := range lines {
		l.ApplyReconciliation(code)
	}

	return code, nil
}

// Unreconcile clears the code and flag on every line of the set. The caller
// looks the lines up by code; an empty set means the code is unknown.
func (s *ReconciliationService) Unreconcile(lines []*Line) (int, error) {
	if len(lines) == 0 {
		return 0, ErrNothingToUnreconcile
	}

	for _, l := range lines {
		l.ClearReconciliation()
	}

	return len(lines), nil
}
