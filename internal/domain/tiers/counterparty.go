package tiers

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/normx-ai/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Kind identifies the category of a counterparty. The kind fixes both the
// code prefix and the collective account the counterparty posts through.
type Kind string

const (
	KindSupplierLocal Kind = "FLOC" // local supplier
	KindSupplierGroup Kind = "FGRP" // intra-group supplier
	KindCustomerLocal Kind = "CLOC" // local customer
	KindCustomerGroup Kind = "CGRP" // intra-group customer
	KindEmployee      Kind = "EMPL" // employee
)

// IsValid checks if the kind is valid
func (k Kind) IsValid() bool {
	switch k {
	case KindSupplierLocal, KindSupplierGroup, KindCustomerLocal, KindCustomerGroup, KindEmployee:
		return true
	}
	return false
}

// String returns the string representation of Kind
func (k Kind) String() string {
	return string(k)
}

// IsSupplier reports whether the kind is a supplier kind
func (k Kind) IsSupplier() bool {
	return k == KindSupplierLocal || k == KindSupplierGroup
}

// IsCustomer reports whether the kind is a customer kind
func (k Kind) IsCustomer() bool {
	return k == KindCustomerLocal || k == KindCustomerGroup
}

// IsEmployee reports whether the kind is the employee kind
func (k Kind) IsEmployee() bool {
	return k == KindEmployee
}

// collectiveAccounts maps each kind to its OHADA collective account code.
// The chart of accounts must be seeded with these before any counterparty
// can be created.
var collectiveAccounts = map[Kind]string{
	KindSupplierLocal: "40110000",
	KindSupplierGroup: "40120000",
	KindCustomerLocal: "41110000",
	KindCustomerGroup: "41120000",
	KindEmployee:      "42100000",
}

// CollectiveAccountCode returns the collective account code for a kind
func (k Kind) CollectiveAccountCode() string {
	return collectiveAccounts[k]
}

// DefaultPaymentDelayDays is the payment delay applied when none is given.
const DefaultPaymentDelayDays = 30

// ErrMissingCollectiveAccount signals that the chart of accounts does not
// carry the collective account a counterparty kind requires. This is a
// setup fault, not a user error.
var ErrMissingCollectiveAccount = shared.NewDomainError(shared.KindConfiguration,
	"MISSING_COLLECTIVE_ACCOUNT", "The collective account for this kind is missing from the chart of accounts")

var codePattern = regexp.MustCompile(`^(FLOC|FGRP|CLOC|CGRP|EMPL)\d{5}$`)

// FormatCode builds a counterparty code from a kind and a sequence number.
// The format <KIND><seq5> is a caller-visible contract; exports and
// historical data depend on it bit-exactly.
func FormatCode(kind Kind, seq int) string {
	return fmt.Sprintf("%s%05d", kind, seq)
}

// SequenceFromCode extracts the numeric suffix of a counterparty code.
// Returns 0 if the code does not carry a 5-digit suffix.
func SequenceFromCode(code string) int {
	if len(code) < 5 {
		return 0
	}
	n, err := strconv.Atoi(code[len(code)-5:])
	if err != nil {
		return 0
	}
	return n
}

// Contact holds the contact block of a counterparty
type Contact struct {
	Address       string `json:"address,omitempty"`
	City          string `json:"city,omitempty"`
	Country       string `json:"country,omitempty"`
	Phone         string `json:"phone,omitempty"`
	Email         string `json:"email,omitempty"`
	ContactName   string `json:"contact_name,omitempty"`
	ContactRole   string `json:"contact_role,omitempty"`
	Bank          string `json:"bank,omitempty"`
	BankAccountNo string `json:"bank_account_no,omitempty"`
}

// Counterparty is an auxiliary-ledger party (tiers) bound to a collective
// account by its kind. The code is generated at creation and never changes.
type Counterparty struct {
	shared.TenantAggregateRoot
	Code                 string           `json:"code"`
	Kind                 Kind             `json:"kind"`
	CollectiveAccountID  uuid.UUID        `json:"collective_account_id"`
	CollectiveAccount    string           `json:"collective_account"`
	Name                 string           `json:"name"`
	ShortName            string           `json:"short_name,omitempty"`
	Matricule            string           `json:"matricule,omitempty"`
	TaxpayerNumber       string           `json:"taxpayer_number,omitempty"`
	TradeRegisterNumber  string           `json:"trade_register_number,omitempty"`
	Contact              Contact          `json:"contact"`
	PaymentDelayDays     int              `json:"payment_delay_days"`
	CreditCeiling        *decimal.Decimal `json:"credit_ceiling,omitempty"`
	VATExempt            bool             `json:"vat_exempt"`
	Notes                string           `json:"notes,omitempty"`
	Active               bool             `json:"active"`
	Blocked              bool             `json:"blocked"`
	BlockReason          string           `json:"block_reason,omitempty"`
}

// NewCounterparty creates a counterparty. The code and the collective
// account are assigned by the engine, never chosen by the caller: code is
// FormatCode(kind, seq) where seq comes from the registry, and
// collectiveAccountID must identify the account whose code is
// kind.CollectiveAccountCode().
func NewCounterparty(
	tenantID uuid.UUID,
	kind Kind,
	code string,
	name string,
	collectiveAccountID uuid.UUID,
) (*Counterparty, error) {
	if !kind.IsValid() {
		return nil, shared.NewValidationError("INVALID_KIND", "Counterparty kind is not valid")
	}
	if !codePattern.MatchString(code) {
		return nil, shared.NewValidationError("INVALID_CODE", "Counterparty code must match <KIND><5 digits>")
	}
	if Kind(code[:4]) != kind {
		return nil, shared.NewValidationError("CODE_KIND_MISMATCH",
			fmt.Sprintf("Counterparty code must start with %s for this kind", kind))
	}
	if name == "" {
		return nil, shared.NewValidationError("INVALID_NAME", "Counterparty name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewValidationError("INVALID_NAME", "Counterparty name cannot exceed 200 characters")
	}
	if collectiveAccountID == uuid.Nil {
		return nil, shared.NewReferenceError("INVALID_COLLECTIVE_ACCOUNT", "Collective account ID cannot be empty")
	}

	c := &Counterparty{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                code,
		Kind:                kind,
		CollectiveAccountID: collectiveAccountID,
		CollectiveAccount:   kind.CollectiveAccountCode(),
		Name:                name,
		Contact:             Contact{Country: "Cameroun"},
		PaymentDelayDays:    DefaultPaymentDelayDays,
		Active:              true,
	}

	c.AddDomainEvent(NewCounterpartyCreatedEvent(c))

	return c, nil
}

// SetMatricule sets the employee matricule. Mandatory for employees,
// rejected for every other kind.
func (c *Counterparty) SetMatricule(matricule string) error {
	if !c.Kind.IsEmployee() {
		return shared.NewValidationError("MATRICULE_NOT_ALLOWED", "Matricule is only valid for employees")
	}
	if matricule == "" {
		return shared.NewValidationError("INVALID_MATRICULE", "Employee matricule cannot be empty")
	}
	if len(matricule) > 20 {
		return shared.NewValidationError("INVALID_MATRICULE", "Matricule cannot exceed 20 characters")
	}

	c.Matricule = matricule
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// SetCreditCeiling sets the authorized credit ceiling. Only customer kinds
// carry a ceiling.
func (c *Counterparty) SetCreditCeiling(ceiling decimal.Decimal) error {
	if !c.Kind.IsCustomer() {
		return shared.NewValidationError("CEILING_NOT_ALLOWED", "Credit ceiling is only valid for customers")
	}
	if ceiling.IsNegative() {
		return shared.NewValidationError("INVALID_CEILING", "Credit ceiling cannot be negative")
	}

	c.CreditCeiling = &ceiling
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// SetPaymentDelay sets the payment delay in days
func (c *Counterparty) SetPaymentDelay(days int) error {
	if days < 0 {
		return shared.NewValidationError("INVALID_PAYMENT_DELAY", "Payment delay cannot be negative")
	}

	c.PaymentDelayDays = days
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// UpdateDetails changes the descriptive fields of the counterparty
func (c *Counterparty) UpdateDetails(name, shortName string, contact Contact, taxpayerNumber, tradeRegisterNumber, notes string) error {
	if name == "" {
		return shared.NewValidationError("INVALID_NAME", "Counterparty name cannot be empty")
	}

	c.Name = name
	c.ShortName = shortName
	c.Contact = contact
	c.TaxpayerNumber = taxpayerNumber
	c.TradeRegisterNumber = tradeRegisterNumber
	c.Notes = notes
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	c.AddDomainEvent(NewCounterpartyUpdatedEvent(c))

	return nil
}

// Block suspends all transactions with the counterparty. Blocking does not
// delete anything; unblocking restores the previous state.
func (c *Counterparty) Block(reason string) error {
	if c.Blocked {
		return shared.NewStateError("ALREADY_BLOCKED", "Counterparty is already blocked")
	}
	if reason == "" {
		return shared.NewValidationError("INVALID_REASON", "Block reason is required")
	}

	c.Blocked = true
	c.BlockReason = reason
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	c.AddDomainEvent(NewCounterpartyBlockedEvent(c))

	return nil
}

// Unblock lifts the transaction block
func (c *Counterparty) Unblock() error {
	if !c.Blocked {
		return shared.NewStateError("NOT_BLOCKED", "Counterparty is not blocked")
	}

	c.Blocked = false
	c.BlockReason = ""
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	c.AddDomainEvent(NewCounterpartyUnblockedEvent(c))

	return nil
}

// Deactivate marks the counterparty as inactive without deleting it
func (c *Counterparty) Deactivate() error {
	if !c.Active {
		return shared.NewStateError("ALREADY_INACTIVE", "Counterparty is already inactive")
	}

	c.Active = false
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// DueDateFrom computes the due date for a posting dated at the given day
func (c *Counterparty) DueDateFrom(entryDate time.Time) time.Time {
	return entryDate.AddDate(0, 0, c.PaymentDelayDays)
}
