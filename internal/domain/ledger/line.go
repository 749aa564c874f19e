package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/normx-ai/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is the bookkeeping currency. Conversion is out of scope;
// the field exists so historical rows stay self-describing.
const DefaultCurrency = "XAF"

// Side indicates whether a line carries its amount on the debit or credit side
type Side string

const (
	SideDebit  Side = "D"
	SideCredit Side = "C"
)

// LineInput carries the caller-supplied attributes of a new line. Account
// and counterparty are referential data resolved by the application layer;
// the collective account code travels along for the class-4 coherence check.
type LineInput struct {
	LineDate              *time.Time
	AccountID             uuid.UUID
	AccountCode           string
	AccountClass          string
	CounterpartyID        *uuid.UUID
	CounterpartyCode      string
	CollectiveAccountCode string
	Piece                 string
	Label                 string
	Debit                 decimal.Decimal
	Credit                decimal.Decimal
	DueDate               *time.Time
}

// Line is one debit-or-credit row of an entry. Lines only exist inside
// their entry; every mutation goes through the Entry aggregate so the
// equilibrium is recomputed in the same step.
type Line struct {
	shared.BaseEntity
	EntryID            uuid.UUID       `json:"entry_id"`
	TenantID           uuid.UUID       `json:"tenant_id"`
	Number             int             `json:"number"`
	LineDate           *time.Time      `json:"line_date,omitempty"`
	AccountID          uuid.UUID       `json:"account_id"`
	AccountCode        string          `json:"account_code"`
	CounterpartyID     *uuid.UUID      `json:"counterparty_id,omitempty"`
	CounterpartyCode   string          `json:"counterparty_code,omitempty"`
	Piece              string          `json:"piece,omitempty"`
	Label              string          `json:"label"`
	Debit              decimal.Decimal `json:"debit"`
	Credit             decimal.Decimal `json:"credit"`
	Currency           string          `json:"currency"`
	DueDate            *time.Time      `json:"due_date,omitempty"`
	ReconciliationCode string          `json:"reconciliation_code,omitempty"`
	Reconciled         bool            `json:"reconciled"`
}

func newLine(entry *Entry, number int, in LineInput) (*Line, error) {
	if in.AccountID == uuid.Nil {
		return nil, shared.NewReferenceError("INVALID_ACCOUNT", "Line account cannot be empty")
	}
	if err := validateAmounts(in.Debit, in.Credit); err != nil {
		return nil, err
	}
	if err := validateAuxiliaryCoherence(in); err != nil {
		return nil, err
	}

	label := in.Label
	if label == "" {
		label = entry.Label
	}
	if len(label) > 200 {
		return nil, shared.NewValidationError("INVALID_LABEL", "Line label cannot exceed 200 characters")
	}

	return &Line{
		BaseEntity:       shared.NewBaseEntity(),
		EntryID:          entry.ID,
		TenantID:         entry.TenantID,
		Number:           number,
		LineDate:         in.LineDate,
		AccountID:        in.AccountID,
		AccountCode:      in.AccountCode,
		CounterpartyID:   in.CounterpartyID,
		CounterpartyCode: in.CounterpartyCode,
		Piece:            in.Piece,
		Label:            label,
		Debit:            in.Debit,
		Credit:           in.Credit,
		Currency:         DefaultCurrency,
		DueDate:          in.DueDate,
	}, nil
}

// validateAmounts enforces exactly one strictly positive side.
func validateAmounts(debit, credit decimal.Decimal) error {
	if debit.IsNegative() || credit.IsNegative() {
		return shared.NewValidationError("NEGATIVE_AMOUNT", "Line amounts cannot be negative")
	}
	if debit.IsPositive() && credit.IsPositive() {
		return shared.NewValidationError("BOTH_SIDES_SET", "A line cannot carry both a debit and a credit")
	}
	if debit.IsZero() && credit.IsZero() {
		return shared.NewValidationError("NO_AMOUNT", "A line must carry either a debit or a credit")
	}
	return nil
}

// validateAuxiliaryCoherence checks that a class-4 account matches the
// counterparty's collective account family (first four digits).
func validateAuxiliaryCoherence(in LineInput) error {
	if in.CounterpartyID == nil || in.AccountClass != "4" {
		return nil
	}
	if in.CollectiveAccountCode == "" {
		return shared.NewReferenceError("MISSING_COLLECTIVE_ACCOUNT", "Counterparty has no collective account")
	}
	prefix := in.CollectiveAccountCode
	if len(prefix) > 4 {
		prefix = prefix[:4]
	}
	if !strings.HasPrefix(in.AccountCode, prefix) {
		return shared.NewConsistencyError("ACCOUNT_COUNTERPARTY_MISMATCH",
			fmt.Sprintf("Account %s does not match counterparty %s", in.AccountCode, in.CounterpartyCode))
	}
	return nil
}

// Side returns D when the line carries a debit, C otherwise
func (l *Line) Side() Side {
	if l.Debit.IsPositive() {
		return SideDebit
	}
	return SideCredit
}

// Amount returns the non-zero amount of the line
func (l *Line) Amount() decimal.Decimal {
	if l.Debit.IsPositive() {
		return l.Debit
	}
	return l.Credit
}

// ApplyReconciliation tags the line with a reconciliation code
func (l *Line) ApplyReconciliation(code string) {
	l.ReconciliationCode = code
	l.Reconciled = true
	l.UpdatedAt = time.Now()
}

// ClearReconciliation removes the reconciliation tag
func (l *Line) ClearReconciliation() {
	l.ReconciliationCode = ""
	l.Reconciled = false
	l.UpdatedAt = time.Now()
}

// clone returns a copy of the line with fresh identity, attached to the
// given entry, with reconciliation state reset
func (l *Line) clone(entry *Entry) *Line {
	c := *l
	c.BaseEntity = shared.NewBaseEntity()
	c.EntryID = entry.ID
	c.TenantID = entry.TenantID
	c.ReconciliationCode = ""
	c.Reconciled = false
	return &c
}
