package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/normx-ai/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// EntryStatus represents the lifecycle state of an entry
type EntryStatus string

const (
	EntryStatusDraft     EntryStatus = "DRAFT"
	EntryStatusValidated EntryStatus = "VALIDATED"
	EntryStatusClosed    EntryStatus = "CLOSED"
)

// IsValid checks if the status is a valid EntryStatus
func (s EntryStatus) IsValid() bool {
	switch s {
	case EntryStatusDraft, EntryStatusValidated, EntryStatusClosed:
		return true
	}
	return false
}

// String returns the string representation of EntryStatus
func (s EntryStatus) String() string {
	return string(s)
}

// IsMutable reports whether lines and financial header fields may change
func (s EntryStatus) IsMutable() bool {
	return s == EntryStatusDraft
}

// MinLinesToValidate is the smallest line count an entry needs before it
// can be validated.
const MinLinesToValidate = 2

// Common ledger errors
var (
	ErrUnbalancedEntry       = shared.NewConsistencyError("UNBALANCED_ENTRY", "Entry debits and credits are not equal")
	ErrEmptyEntry            = shared.NewConsistencyError("EMPTY_ENTRY", "Entry needs at least two lines to be validated")
	ErrNothingToUnreconcile  = shared.NewReferenceError("NOTHING_TO_UNRECONCILE", "No line carries this reconciliation code")
	ErrPostingNotAllowed     = shared.NewStateError("POSTING_NOT_ALLOWED", "The period or exercise does not accept postings")
	ErrDuplicateEntryNumber  = shared.NewDomainError(shared.KindConcurrency, "DUPLICATE_ENTRY_NUMBER", "Entry number was already taken by a concurrent posting")
)

// Entry is a journal-entry header owning its debit/credit lines. The number
// is assigned at creation and permanent; equilibrium totals are derived and
// recomputed on every line mutation, atomically with it.
type Entry struct {
	shared.TenantAggregateRoot
	Number      string          `json:"number"`
	JournalID   uuid.UUID       `json:"journal_id"`
	JournalCode string          `json:"journal_code"`
	ExerciseID  uuid.UUID       `json:"exercise_id"`
	PeriodID    uuid.UUID       `json:"period_id"`
	Date        time.Time       `json:"date"`
	PieceDate   *time.Time      `json:"piece_date,omitempty"`
	Label       string          `json:"label"`
	Reference   string          `json:"reference,omitempty"`
	Status      EntryStatus     `json:"status"`
	Balanced    bool            `json:"balanced"`
	TotalDebit  decimal.Decimal `json:"total_debit"`
	TotalCredit decimal.Decimal `json:"total_credit"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	ValidatedAt *time.Time      `json:"validated_at,omitempty"`
	ValidatedBy *uuid.UUID      `json:"validated_by,omitempty"`
	Lines       []Line          `json:"lines"`
}

// NewEntry creates a draft entry. The number must already be allocated for
// the journal+year prefix; period and exercise must have been resolved from
// the date by the caller.
func NewEntry(
	tenantID uuid.UUID,
	number string,
	journalID uuid.UUID,
	journalCode string,
	exerciseID, periodID uuid.UUID,
	date time.Time,
	label string,
) (*Entry, error) {
	if number == "" {
		return nil, shared.NewValidationError("INVALID_NUMBER", "Entry number cannot be empty")
	}
	if journalID == uuid.Nil {
		return nil, shared.NewReferenceError("INVALID_JOURNAL", "Entry journal cannot be empty")
	}
	if exerciseID == uuid.Nil {
		return nil, shared.NewReferenceError("INVALID_EXERCISE", "Entry exercise cannot be empty")
	}
	if periodID == uuid.Nil {
		return nil, shared.NewReferenceError("INVALID_PERIOD", "Entry period cannot be empty")
	}
	if date.IsZero() {
		return nil, shared.NewValidationError("INVALID_DATE", "Entry date cannot be empty")
	}
	if label == "" {
		return nil, shared.NewValidationError("INVALID_LABEL", "Entry label cannot be empty")
	}
	if len(label) > 200 {
		return nil, shared.NewValidationError("INVALID_LABEL", "Entry label cannot exceed 200 characters")
	}

	e := &Entry{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Number:              number,
		JournalID:           journalID,
		JournalCode:         journalCode,
		ExerciseID:          exerciseID,
		PeriodID:            periodID,
		Date:                date,
		Label:               label,
		Status:              EntryStatusDraft,
		TotalDebit:          decimal.Zero,
		TotalCredit:         decimal.Zero,
		TotalAmount:         decimal.Zero,
		Lines:               make([]Line, 0),
	}

	e.AddDomainEvent(NewEntryCreatedEvent(e))

	return e, nil
}

// AddLine appends a line and recomputes the equilibrium in the same step.
// Line numbers grow strictly by insertion order and are never reassigned.
func (e *Entry) AddLine(in LineInput) (*Line, error) {
	if !e.Status.IsMutable() {
		return nil, shared.NewStateError("ENTRY_NOT_DRAFT", "Lines can only be added while the entry is a draft")
	}

	number := 0
	for _, l := range e.Lines {
		if l.Number > number {
			number = l.Number
		}
	}

	line, err := newLine(e, number+1, in)
	if err != nil {
		return nil, err
	}

	e.Lines = append(e.Lines, *line)
	e.RecomputeEquilibrium()
	e.UpdatedAt = time.Now()
	e.IncrementVersion()

	return line, nil
}

// RemoveLine deletes a line and recomputes the equilibrium in the same step
func (e *Entry) RemoveLine(lineID uuid.UUID) error {
	if !e.Status.IsMutable() {
		return shared.NewStateError("ENTRY_NOT_DRAFT", "Lines can only be removed while the entry is a draft")
	}

	for i, l := range e.Lines {
		if l.ID == lineID {
			e.Lines = append(e.Lines[:i], e.Lines[i+1:]...)
			e.RecomputeEquilibrium()
			e.UpdatedAt = time.Now()
			e.IncrementVersion()
			return nil
		}
	}

	return shared.NewReferenceError("LINE_NOT_FOUND", "Line does not belong to this entry")
}

// RecomputeEquilibrium refreshes the derived totals from the current lines.
// Equality is exact decimal comparison; there is no tolerance.
func (e *Entry) RecomputeEquilibrium() {
	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	for _, l := range e.Lines {
		totalDebit = totalDebit.Add(l.Debit)
		totalCredit = totalCredit.Add(l.Credit)
	}

	e.TotalDebit = totalDebit
	e.TotalCredit = totalCredit
	e.TotalAmount = totalDebit
	e.Balanced = totalDebit.Equal(totalCredit) && totalDebit.IsPositive()
}

// Difference returns total debit minus total credit
func (e *Entry) Difference() decimal.Decimal {
	return e.TotalDebit.Sub(e.TotalCredit)
}

// UpdateHeader changes the draft header fields. Date changes must be
// re-resolved against the fiscal calendar by the caller, which passes the
// matching exercise and period.
func (e *Entry) UpdateHeader(date time.Time, pieceDate *time.Time, exerciseID, periodID uuid.UUID, label, reference string) error {
	if !e.Status.IsMutable() {
		return shared.NewStateError("ENTRY_NOT_DRAFT", "Header fields can only change while the entry is a draft")
	}
	if label == "" {
		return shared.NewValidationError("INVALID_LABEL", "Entry label cannot be empty")
	}
	if exerciseID == uuid.Nil || periodID == uuid.Nil {
		return shared.NewReferenceError("INVALID_PERIOD", "Exercise and period cannot be empty")
	}

	e.Date = date
	e.PieceDate = pieceDate
	e.ExerciseID = exerciseID
	e.PeriodID = periodID
	e.Label = label
	e.Reference = reference
	e.UpdatedAt = time.Now()
	e.IncrementVersion()

	return nil
}

// AmendMetadata changes the non-financial header fields of a validated
// entry. This is the privileged path; amounts, dates, journal and period
// stay frozen.
func (e *Entry) AmendMetadata(label, reference string) error {
	if e.Status == EntryStatusDraft {
		return shared.NewStateError("ENTRY_IS_DRAFT", "Use the standard update path for draft entries")
	}
	if e.Status == EntryStatusClosed {
		return shared.NewStateError("ENTRY_CLOSED", "A closed entry cannot be amended")
	}
	if label == "" {
		return shared.NewValidationError("INVALID_LABEL", "Entry label cannot be empty")
	}

	e.Label = label
	e.Reference = reference
	e.UpdatedAt = time.Now()
	e.IncrementVersion()

	return nil
}

// Validate performs the one-way draft-to-validated transition. The entry
// must be balanced and carry at least two lines.
func (e *Entry) Validate(actor uuid.UUID) error {
	if e.Status != EntryStatusDraft {
		return shared.NewStateError("INVALID_STATE", "Only a draft entry can be validated")
	}
	if len(e.Lines) < MinLinesToValidate {
		return ErrEmptyEntry
	}
	if !e.Balanced {
		return ErrUnbalancedEntry
	}

	now := time.Now()
	e.Status = EntryStatusValidated
	e.ValidatedAt = &now
	e.ValidatedBy = &actor
	e.UpdatedAt = now
	e.IncrementVersion()

	e.AddDomainEvent(NewEntryValidatedEvent(e))

	return nil
}

// Close moves a validated entry to its terminal state. Closing happens per
// period, never entry by entry through the public API.
func (e *Entry) Close() error {
	if e.Status != EntryStatusValidated {
		return shared.NewStateError("INVALID_STATE", "Only a validated entry can be closed")
	}

	e.Status = EntryStatusClosed
	e.UpdatedAt = time.Now()
	e.IncrementVersion()

	return nil
}

// Duplicate clones the entry into a fresh draft carrying the given number.
// Lines keep account, counterparty, amounts and label but get new identity;
// validation and reconciliation state is reset. The original is untouched.
func (e *Entry) Duplicate(newNumber string) (*Entry, error) {
	if newNumber == "" || newNumber == e.Number {
		return nil, shared.NewValidationError("INVALID_NUMBER", "Duplicate needs a freshly generated number")
	}

	clone := &Entry{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(e.TenantID),
		Number:              newNumber,
		JournalID:           e.JournalID,
		JournalCode:         e.JournalCode,
		ExerciseID:          e.ExerciseID,
		PeriodID:            e.PeriodID,
		Date:                e.Date,
		PieceDate:           e.PieceDate,
		Label:               e.Label,
		Reference:           e.Reference,
		Status:              EntryStatusDraft,
		Lines:               make([]Line, 0, len(e.Lines)),
	}

	for i := range e.Lines {
		clone.Lines = append(clone.Lines, *e.Lines[i].clone(clone))
	}
	clone.RecomputeEquilibrium()

	clone.AddDomainEvent(NewEntryDuplicatedEvent(clone, e.Number))

	return clone, nil
}

// FindLine returns the line with the given ID, nil when absent
func (e *Entry) FindLine(lineID uuid.UUID) *Line {
	for i := range e.Lines {
		if e.Lines[i].ID == lineID {
			return &e.Lines[i]
		}
	}
	return nil
}
