package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/normx-ai/backend/internal/domain/ledger"
	"github.com/normx-ai/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// EntryModel is the persistence model for the Entry aggregate header.
// The unique index on (tenant_id, number) is the last line of defense of
// the numbering scheme: a concurrent allocation of the same number fails
// here and is retried by the application layer.
type EntryModel struct {
	TenantAggregateModel
	Number      string             `gorm:"type:varchar(16);not null;uniqueIndex:idx_entry_tenant_number,priority:2"`
	JournalID   uuid.UUID          `gorm:"type:uuid;not null;index"`
	JournalCode string             `gorm:"type:varchar(10);not null"`
	ExerciseID  uuid.UUID          `gorm:"type:uuid;not null;index"`
	PeriodID    uuid.UUID          `gorm:"type:uuid;not null;index"`
	Date        time.Time          `gorm:"type:date;not null;index"`
	PieceDate   *time.Time         `gorm:"type:date"`
	Label       string             `gorm:"type:varchar(200);not null"`
	Reference   string             `gorm:"type:varchar(100)"`
	Status      ledger.EntryStatus `gorm:"type:varchar(10);not null;default:'DRAFT';index"`
	Balanced    bool               `gorm:"not null;default:false"`
	TotalDebit  decimal.Decimal    `gorm:"type:decimal(18,2);not null;default:0"`
	TotalCredit decimal.Decimal    `gorm:"type:decimal(18,2);not null;default:0"`
	TotalAmount decimal.Decimal    `gorm:"type:decimal(18,2);not null;default:0"`
	ValidatedAt *time.Time
	ValidatedBy *uuid.UUID         `gorm:"type:uuid"`
	Lines       []LineModel        `gorm:"foreignKey:EntryID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (EntryModel) TableName() string {
	return "entries"
}

// ToDomain converts the persistence model to a domain Entry aggregate.
func (m *EntryModel) ToDomain() *ledger.Entry {
	e := &ledger.Entry{
		Number:      m.Number,
		JournalID:   m.JournalID,
		JournalCode: m.JournalCode,
		ExerciseID:  m.ExerciseID,
		PeriodID:    m.PeriodID,
		Date:        m.Date,
		PieceDate:   m.PieceDate,
		Label:       m.Label,
		Reference:   m.Reference,
		Status:      m.Status,
		Balanced:    m.Balanced,
		TotalDebit:  m.TotalDebit,
		TotalCredit: m.TotalCredit,
		TotalAmount: m.TotalAmount,
		ValidatedAt: m.ValidatedAt,
		ValidatedBy: m.ValidatedBy,
	}
	m.PopulateTenantAggregateRoot(&e.TenantAggregateRoot)

	e.Lines = make([]ledger.Line, len(m.Lines))
	for i := range m.Lines {
		e.Lines[i] = *m.Lines[i].ToDomain()
	}
	return e
}

// FromDomain populates the persistence model from a domain Entry aggregate.
func (m *EntryModel) FromDomain(e *ledger.Entry) {
	m.FromDomainTenantAggregateRoot(e.TenantAggregateRoot)
	m.Number = e.Number
	m.JournalID = e.JournalID
	m.JournalCode = e.JournalCode
	m.ExerciseID = e.ExerciseID
	m.PeriodID = e.PeriodID
	m.Date = e.Date
	m.PieceDate = e.PieceDate
	m.Label = e.Label
	m.Reference = e.Reference
	m.Status = e.Status
	m.Balanced = e.Balanced
	m.TotalDebit = e.TotalDebit
	m.TotalCredit = e.TotalCredit
	m.TotalAmount = e.TotalAmount
	m.ValidatedAt = e.ValidatedAt
	m.ValidatedBy = e.ValidatedBy

	m.Lines = make([]LineModel, len(e.Lines))
	for i := range e.Lines {
		m.Lines[i].FromDomain(&e.Lines[i])
	}
}

// EntryModelFromDomain creates a new persistence model from a domain Entry aggregate.
func EntryModelFromDomain(e *ledger.Entry) *EntryModel {
	m := &EntryModel{}
	m.FromDomain(e)
	return m
}

// LineModel is the persistence model for the Line entity.
type LineModel struct {
	BaseModel
	EntryID            uuid.UUID       `gorm:"type:uuid;not null;index"`
	TenantID           uuid.UUID       `gorm:"type:uuid;not null;index"`
	Number             int             `gorm:"not null"`
	LineDate           *time.Time      `gorm:"type:date"`
	AccountID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	AccountCode        string          `gorm:"type:varchar(8);not null;index"`
	CounterpartyID     *uuid.UUID      `gorm:"type:uuid;index"`
	CounterpartyCode   string          `gorm:"type:varchar(9)"`
	Piece              string          `gorm:"type:varchar(50)"`
	Label              string          `gorm:"type:varchar(200);not null"`
	Debit              decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Credit             decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Currency           string          `gorm:"type:varchar(3);not null;default:'XAF'"`
	DueDate            *time.Time      `gorm:"type:date"`
	ReconciliationCode string          `gorm:"type:varchar(10);index"`
	Reconciled         bool            `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (LineModel) TableName() string {
	return "entry_lines"
}

// ToDomain converts the persistence model to a domain Line entity.
func (m *LineModel) ToDomain() *ledger.Line {
	return &ledger.Line{
		BaseEntity: shared.BaseEntity{
			ID:        m.ID,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		EntryID:            m.EntryID,
		TenantID:           m.TenantID,
		Number:             m.Number,
		LineDate:           m.LineDate,
		AccountID:          m.AccountID,
		AccountCode:        m.AccountCode,
		CounterpartyID:     m.CounterpartyID,
		CounterpartyCode:   m.CounterpartyCode,
		Piece:              m.Piece,
		Label:              m.Label,
		Debit:              m.Debit,
		Credit:             m.Credit,
		Currency:           m.Currency,
		DueDate:            m.DueDate,
		ReconciliationCode: m.ReconciliationCode,
		Reconciled:         m.Reconciled,
	}
}

// FromDomain populates the persistence model from a domain Line entity.
func (m *LineModel) FromDomain(l *ledger.Line) {
	m.FromDomainBaseEntity(l.BaseEntity)
	m.EntryID = l.EntryID
	m.TenantID = l.TenantID
	m.Number = l.Number
	m.LineDate = l.LineDate
	m.AccountID = l.AccountID
	m.AccountCode = l.AccountCode
	m.CounterpartyID = l.CounterpartyID
	m.CounterpartyCode = l.CounterpartyCode
	m.Piece = l.Piece
	m.Label = l.Label
	m.Debit = l.Debit
	m.Credit = l.Credit
	m.Currency = l.Currency
	m.DueDate = l.DueDate
	m.ReconciliationCode = l.ReconciliationCode
	m.Reconciled = l.Reconciled
}

// LineModelFromDomain creates a new persistence model from a domain Line entity.
func LineModelFromDomain(l *ledger.Line) *LineModel {
	m := &LineModel{}
	m.FromDomain(l)
	return m
}
