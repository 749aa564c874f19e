package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/normx-ai/backend/internal/domain/ledger"
	"github.com/shopspring/decimal"
)

// LineRequest describes one proposed line of a posting
type LineRequest struct {
	AccountID      uuid.UUID       `json:"account_id"`
	CounterpartyID *uuid.UUID      `json:"counterparty_id,omitempty"`
	LineDate       *time.Time      `json:"line_date,omitempty"`
	Piece          string          `json:"piece,omitempty"`
	Label          string          `json:"label,omitempty"`
	Debit          decimal.Decimal `json:"debit"`
	Credit         decimal.Decimal `json:"credit"`
	DueDate        *time.Time      `json:"due_date,omitempty"`
}

// PostEntryRequest describes a posting: a journal, a date and the proposed
// lines. Period and exercise are resolved from the date, never supplied.
type PostEntryRequest struct {
	JournalID uuid.UUID     `json:"journal_id"`
	Date      time.Time     `json:"date"`
	PieceDate *time.Time    `json:"piece_date,omitempty"`
	Label     string        `json:"label"`
	Reference string        `json:"reference,omitempty"`
	Lines     []LineRequest `json:"lines"`
}

// UpdateEntryRequest describes a draft header update
type UpdateEntryRequest struct {
	Date      time.Time  `json:"date"`
	PieceDate *time.Time `json:"piece_date,omitempty"`
	Label     string     `json:"label"`
	Reference string     `json:"reference,omitempty"`
}

// ListEntriesFilter defines filtering options for entry list queries
type ListEntriesFilter struct {
	JournalID  *uuid.UUID         `form:"journal_id"`
	ExerciseID *uuid.UUID         `form:"exercise_id"`
	PeriodID   *uuid.UUID         `form:"period_id"`
	Status     ledger.EntryStatus `form:"status"`
	FromDate   *time.Time         `form:"from_date"`
	ToDate     *time.Time         `form:"to_date"`
	Search     string             `form:"search"`
	Page       int                `form:"page"`
	PageSize   int                `form:"page_size"`
}

// LineResponse represents a line in API responses
type LineResponse struct {
	ID                 uuid.UUID       `json:"id"`
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

// EntryResponse represents an entry in API responses
type EntryResponse struct {
	ID          uuid.UUID       `json:"id"`
	TenantID    uuid.UUID       `json:"tenant_id"`
	Number      string          `json:"number"`
	JournalID   uuid.UUID       `json:"journal_id"`
	JournalCode string          `json:"journal_code"`
	ExerciseID  uuid.UUID       `json:"exercise_id"`
	PeriodID    uuid.UUID       `json:"period_id"`
	Date        time.Time       `json:"date"`
	PieceDate   *time.Time      `json:"piece_date,omitempty"`
	Label       string          `json:"label"`
	Reference   string          `json:"reference,omitempty"`
	Status      string          `json:"status"`
	Balanced    bool            `json:"balanced"`
	TotalDebit  decimal.Decimal `json:"total_debit"`
	TotalCredit decimal.Decimal `json:"total_credit"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	ValidatedAt *time.Time      `json:"validated_at,omitempty"`
	ValidatedBy *uuid.UUID      `json:"validated_by,omitempty"`
	Lines       []LineResponse  `json:"lines"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Version     int             `json:"version"`
}

func toLineResponse(l *ledger.Line) LineResponse {
	return LineResponse{
		ID:                 l.ID,
		Number:             l.Number,
		LineDate:           l.LineDate,
		AccountID:          l.AccountID,
		AccountCode:        l.AccountCode,
		CounterpartyID:     l.CounterpartyID,
		CounterpartyCode:   l.CounterpartyCode,
		Piece:              l.Piece,
		Label:              l.Label,
		Debit:              l.Debit,
		Credit:             l.Credit,
		Currency:           l.Currency,
		DueDate:            l.DueDate,
		ReconciliationCode: l.ReconciliationCode,
		Reconciled:         l.Reconciled,
	}
}

func toEntryResponse(e *ledger.Entry) *EntryResponse {
	lines := make([]LineResponse, len(e.Lines))
	for i := range e.Lines {
		lines[i] = toLineResponse(&e.Lines[i])
	}
	return &EntryResponse{
		ID:          e.ID,
		TenantID:    e.TenantID,
		Number:      e.Number,
		JournalID:   e.JournalID,
		JournalCode: e.JournalCode,
		ExerciseID:  e.ExerciseID,
		PeriodID:    e.PeriodID,
		Date:        e.Date,
		PieceDate:   e.PieceDate,
		Label:       e.Label,
		Reference:   e.Reference,
		Status:      e.Status.String(),
		Balanced:    e.Balanced,
		TotalDebit:  e.TotalDebit,
		TotalCredit: e.TotalCredit,
		TotalAmount: e.TotalAmount,
		ValidatedAt: e.ValidatedAt,
		ValidatedBy: e.ValidatedBy,
		Lines:       lines,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
		Version:     e.Version,
	}
}
