package models

import (
	"github.com/google/uuid"
	"github.com/normx-ai/backend/internal/domain/journal"
)

// JournalModel is the persistence model for the Journal domain entity.
type JournalModel struct {
	TenantAggregateModel
	Code             string       `gorm:"type:varchar(10);not null;uniqueIndex:idx_journal_tenant_code,priority:2"`
	Label            string       `gorm:"type:varchar(100);not null"`
	Type             journal.Type `gorm:"type:varchar(2);not null"`
	CounterAccountID *uuid.UUID   `gorm:"type:uuid"`
	Active           bool         `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (JournalModel) TableName() string {
	return "journals"
}

// ToDomain converts the persistence model to a domain Journal entity.
func (m *JournalModel) ToDomain() *journal.Journal {
	j := &journal.Journal{
		Code:             m.Code,
		Label:            m.Label,
		Type:             m.Type,
		CounterAccountID: m.CounterAccountID,
		Active:           m.Active,
	}
	m.PopulateTenantAggregateRoot(&j.TenantAggregateRoot)
	return j
}

// FromDomain populates the persistence model from a domain Journal entity.
func (m *JournalModel) FromDomain(j *journal.Journal) {
	m.FromDomainTenantAggregateRoot(j.TenantAggregateRoot)
	m.Code = j.Code
	m.Label = j.Label
	m.Type = j.Type
	m.CounterAccountID = j.CounterAccountID
	m.Active = j.Active
}

// JournalModelFromDomain creates a new persistence model from a domain Journal entity.
func JournalModelFromDomain(j *journal.Journal) *JournalModel {
	m := &JournalModel{}
	m.FromDomain(j)
	return m
}
