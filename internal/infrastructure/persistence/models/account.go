package models

import (
	"github.com/normx-ai/backend/internal/domain/account"
)

// AccountModel is the persistence model for the Account domain entity.
type AccountModel struct {
	TenantAggregateModel
	Code          string              `gorm:"type:varchar(8);not null;uniqueIndex:idx_account_tenant_code,priority:2"`
	Label         string              `gorm:"type:varchar(200);not null"`
	Class         string              `gorm:"type:varchar(1);not null;index"`
	Nature        account.NatureType  `gorm:"type:varchar(20);not null"`
	NormalBalance account.BalanceSide `gorm:"type:varchar(1);not null"`
	Ref           string              `gorm:"type:varchar(50)"`
	Note          string              `gorm:"type:text"`
	Active        bool                `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (AccountModel) TableName() string {
	return "accounts"
}

// ToDomain converts the persistence model to a domain Account entity.
func (m *AccountModel) ToDomain() *account.Account {
	a := &account.Account{
		Code:          m.Code,
		Label:         m.Label,
		Class:         m.Class,
		Nature:        m.Nature,
		NormalBalance: m.NormalBalance,
		Ref:           m.Ref,
		Note:          m.Note,
		Active:        m.Active,
	}
	m.PopulateTenantAggregateRoot(&a.TenantAggregateRoot)
	return a
}

// FromDomain populates the persistence model from a domain Account entity.
func (m *AccountModel) FromDomain(a *account.Account) {
	m.FromDomainTenantAggregateRoot(a.TenantAggregateRoot)
	m.Code = a.Code
	m.Label = a.Label
	m.Class = a.Class
	m.Nature = a.Nature
	m.NormalBalance = a.NormalBalance
	m.Ref = a.Ref
	m.Note = a.Note
	m.Active = a.Active
}

// AccountModelFromDomain creates a new persistence model from a domain Account entity.
func AccountModelFromDomain(a *account.Account) *AccountModel {
	m := &AccountModel{}
	m.FromDomain(a)
	return m
}
