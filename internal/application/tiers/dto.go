package tiers

import (
	"time"

	"github.com/google/uuid"
	"github.com/normx-ai/backend/internal/domain/tiers"
	"github.com/shopspring/decimal"
)

// CreateCounterpartyRequest describes a new counterparty. The code and the
// collective account are never part of the request; both derive from the
// kind.
type CreateCounterpartyRequest struct {
	Kind                tiers.Kind       `json:"kind"`
	Name                string           `json:"name"`
	ShortName           string           `json:"short_name,omitempty"`
	Matricule           string           `json:"matricule,omitempty"`
	TaxpayerNumber      string           `json:"taxpayer_number,omitempty"`
	TradeRegisterNumber string           `json:"trade_register_number,omitempty"`
	Contact             tiers.Contact    `json:"contact"`
	PaymentDelayDays    *int             `json:"payment_delay_days,omitempty"`
	CreditCeiling       *decimal.Decimal `json:"credit_ceiling,omitempty"`
	VATExempt           bool             `json:"vat_exempt"`
	Notes               string           `json:"notes,omitempty"`
}

// UpdateCounterpartyRequest describes a counterparty update. Kind and code
// are immutable.
type UpdateCounterpartyRequest struct {
	Name                string           `json:"name"`
	ShortName           string           `json:"short_name,omitempty"`
	TaxpayerNumber      string           `json:"taxpayer_number,omitempty"`
	TradeRegisterNumber string           `json:"trade_register_number,omitempty"`
	Contact             tiers.Contact    `json:"contact"`
	PaymentDelayDays    *int             `json:"payment_delay_days,omitempty"`
	CreditCeiling       *decimal.Decimal `json:"credit_ceiling,omitempty"`
	VATExempt           bool             `json:"vat_exempt"`
	Notes               string           `json:"notes,omitempty"`
}

// ListCounterpartiesFilter defines filtering options for counterparty list
// queries
type ListCounterpartiesFilter struct {
	Kind     *tiers.Kind `form:"kind"`
	Search   string      `form:"search"`
	Page     int         `form:"page"`
	PageSize int         `form:"page_size"`
}

// CounterpartyResponse represents a counterparty in API responses
type CounterpartyResponse struct {
	ID                  uuid.UUID        `json:"id"`
	TenantID            uuid.UUID        `json:"tenant_id"`
	Code                string           `json:"code"`
	Kind                string           `json:"kind"`
	CollectiveAccountID uuid.UUID        `json:"collective_account_id"`
	CollectiveAccount   string           `json:"collective_account"`
	Name                string           `json:"name"`
	ShortName           string           `json:"short_name,omitempty"`
	Matricule           string           `json:"matricule,omitempty"`
	TaxpayerNumber      string           `json:"taxpayer_number,omitempty"`
	TradeRegisterNumber string           `json:"trade_register_number,omitempty"`
	Contact             tiers.Contact    `json:"contact"`
	PaymentDelayDays    int              `json:"payment_delay_days"`
	CreditCeiling       *decimal.Decimal `json:"credit_ceiling,omitempty"`
	VATExempt           bool             `json:"vat_exempt"`
	Notes               string           `json:"notes,omitempty"`
	Active              bool             `json:"active"`
	Blocked             bool             `json:"blocked"`
	BlockReason         string           `json:"block_reason,omitempty"`
	LineCount           int64            `json:"line_count"`
	CreatedAt           time.Time        `json:"created_at"`
	UpdatedAt           time.Time        `json:"updated_at"`
	Version             int              `json:"version"`
}

func toCounterpartyResponse(c *tiers.Counterparty, lineCount int64) *CounterpartyResponse {
	return &CounterpartyResponse{
		ID:                  c.ID,
		TenantID:            c.TenantID,
		Code:                c.Code,
		Kind:                c.Kind.String(),
		CollectiveAccountID: c.CollectiveAccountID,
		CollectiveAccount:   c.CollectiveAccount,
		Name:                c.Name,
		ShortName:           c.ShortName,
		Matricule:           c.Matricule,
		TaxpayerNumber:      c.TaxpayerNumber,
		TradeRegisterNumber: c.TradeRegisterNumber,
		Contact:             c.Contact,
		PaymentDelayDays:    c.PaymentDelayDays,
		CreditCeiling:       c.CreditCeiling,
		VATExempt:           c.VATExempt,
		Notes:               c.Notes,
		Active:              c.Active,
		Blocked:             c.Blocked,
		BlockReason:         c.BlockReason,
		LineCount:           lineCount,
		CreatedAt:           c.CreatedAt,
		UpdatedAt:           c.UpdatedAt,
		Version:             c.Version,
	}
}
