package models

import (
	"github.com/google/uuid"
	"github.com/normx-ai/backend/internal/domain/tiers"
	"github.com/shopspring/decimal"
)

// CounterpartyModel is the persistence model for the Counterparty domain entity.
type CounterpartyModel struct {
	TenantAggregateModel
	Code                string           `gorm:"type:varchar(9);not null;uniqueIndex:idx_counterparty_tenant_code,priority:2"`
	Kind                tiers.Kind       `gorm:"type:varchar(4);not null;index"`
	CollectiveAccountID uuid.UUID        `gorm:"type:uuid;not null"`
	CollectiveAccount   string           `gorm:"type:varchar(8);not null"`
	Name                string           `gorm:"type:varchar(200);not null"`
	ShortName           string           `gorm:"type:varchar(100)"`
	Matricule           string           `gorm:"type:varchar(20);index"`
	TaxpayerNumber      string           `gorm:"type:varchar(50)"`
	TradeRegisterNumber string           `gorm:"type:varchar(50)"`
	Address             string           `gorm:"type:text"`
	City                string           `gorm:"type:varchar(100)"`
	Country             string           `gorm:"type:varchar(100);default:'Cameroun'"`
	Phone               string           `gorm:"type:varchar(50)"`
	Email               string           `gorm:"type:varchar(200)"`
	ContactName         string           `gorm:"type:varchar(100)"`
	ContactRole         string           `gorm:"type:varchar(100)"`
	Bank                string           `gorm:"type:varchar(100)"`
	BankAccountNo       string           `gorm:"type:varchar(50)"`
	PaymentDelayDays    int              `gorm:"not null;default:30"`
	CreditCeiling       *decimal.Decimal `gorm:"type:decimal(18,2)"`
	VATExempt           bool             `gorm:"not null;default:false"`
	Notes               string           `gorm:"type:text"`
	Active              bool             `gorm:"not null;index"`
	Blocked             bool             `gorm:"not null;default:false"`
	BlockReason         string           `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (CounterpartyModel) TableName() string {
	return "counterparties"
}

// ToDomain converts the persistence model to a domain Counterparty entity.
func (m *CounterpartyModel) ToDomain() *tiers.Counterparty {
	c := &tiers.Counterparty{
		Code:                m.Code,
		Kind:                m.Kind,
		CollectiveAccountID: m.CollectiveAccountID,
		CollectiveAccount:   m.CollectiveAccount,
		Name:                m.Name,
		ShortName:           m.ShortName,
		Matricule:           m.Matricule,
		TaxpayerNumber:      m.TaxpayerNumber,
		TradeRegisterNumber: m.TradeRegisterNumber,
		Contact: tiers.Contact{
			Address:       m.Address,
			City:          m.City,
			Country:       m.Country,
			Phone:         m.Phone,
			Email:         m.Email,
			ContactName:   m.ContactName,
			ContactRole:   m.ContactRole,
			Bank:          m.Bank,
			BankAccountNo: m.BankAccountNo,
		},
		PaymentDelayDays: m.PaymentDelayDays,
		CreditCeiling:    m.CreditCeiling,
		VATExempt:        m.VATExempt,
		Notes:            m.Notes,
		Active:           m.Active,
		Blocked:          m.Blocked,
		BlockReason:      m.BlockReason,
	}
	m.PopulateTenantAggregateRoot(&c.TenantAggregateRoot)
	return c
}

// FromDomain populates the persistence model from a domain Counterparty entity.
func (m *CounterpartyModel) FromDomain(c *tiers.Counterparty) {
	m.FromDomainTenantAggregateRoot(c.TenantAggregateRoot)
	m.Code = c.Code
	m.Kind = c.Kind
	m.CollectiveAccountID = c.CollectiveAccountID
	m.CollectiveAccount = c.CollectiveAccount
	m.Name = c.Name
	m.ShortName = c.ShortName
	m.Matricule = c.Matricule
	m.TaxpayerNumber = c.TaxpayerNumber
	m.TradeRegisterNumber = c.TradeRegisterNumber
	m.Address = c.Contact.Address
	m.City = c.Contact.City
	m.Country = c.Contact.Country
	m.Phone = c.Contact.Phone
	m.Email = c.Contact.Email
	m.ContactName = c.Contact.ContactName
	m.ContactRole = c.Contact.ContactRole
	m.Bank = c.Contact.Bank
	m.BankAccountNo = c.Contact.BankAccountNo
	m.PaymentDelayDays = c.PaymentDelayDays
	m.CreditCeiling = c.CreditCeiling
	m.VATExempt = c.VATExempt
	m.Notes = c.Notes
	m.Active = c.Active
	m.Blocked = c.Blocked
	m.BlockReason = c.BlockReason
}

// CounterpartyModelFromDomain creates a new persistence model from a domain Counterparty entity.
func CounterpartyModelFromDomain(c *tiers.Counterparty) *CounterpartyModel {
	m := &CounterpartyModel{}
	m.FromDomain(c)
	return m
}
