package journal

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/normx-ai/backend/internal/domain/shared"
)

// Type identifies one of the 14 OHADA journal kinds
type Type string

const (
	TypePurchases    Type = "AC" // achats
	TypeSales        Type = "VT" // ventes
	TypeBank         Type = "BQ" // banque
	TypeCash         Type = "CA" // caisse
	TypePayroll      Type = "PA" // paie et salaires
	TypeTax          Type = "FI" // fiscal (TVA, IS, IRPP)
	TypeSocial       Type = "SO" // social (CNPS, cotisations)
	TypeInventory    Type = "ST" // stocks et inventaires
	TypeFixedAssets  Type = "IM" // immobilisations
	TypeProvisions   Type = "PR" // provisions
	TypeCarryForward Type = "AN" // a nouveaux
	TypeClosing      Type = "CL" // cloture
	TypeMisc         Type = "OD" // operations diverses
	TypeOffBooks     Type = "EX" // extra-comptable
)

// IsValid checks if the journal type is valid
func (t Type) IsValid() bool {
	switch t {
	case TypePurchases, TypeSales, TypeBank, TypeCash, TypePayroll, TypeTax,
		TypeSocial, TypeInventory, TypeFixedAssets, TypeProvisions,
		TypeCarryForward, TypeClosing, TypeMisc, TypeOffBooks:
		return true
	}
	return false
}

// String returns the string representation of Type
func (t Type) String() string {
	return string(t)
}

var codePattern = regexp.MustCompile(`^[A-Z0-9]+$`)

// Journal is a named transaction channel of the ledger. Entry numbers embed
// the journal code, so the code never changes once entries exist.
type Journal struct {
	shared.TenantAggregateRoot
	Code             string     `json:"code"`
	Label            string     `json:"label"`
	Type             Type       `json:"type"`
	CounterAccountID *uuid.UUID `json:"counter_account_id,omitempty"`
	Active           bool       `json:"active"`
}

// NewJournal creates a journal. The code is upper-cased and must be
// alphanumeric, at most 10 characters.
func NewJournal(tenantID uuid.UUID, code, label string, journalType Type) (*Journal, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, shared.NewValidationError("INVALID_JOURNAL_CODE", "Journal code cannot be empty")
	}
	if len(code) > 10 {
		return nil, shared.NewValidationError("INVALID_JOURNAL_CODE", "Journal code cannot exceed 10 characters")
	}
	if !codePattern.MatchString(code) {
		return nil, shared.NewValidationError("INVALID_JOURNAL_CODE", "Journal code must contain only uppercase letters and digits")
	}
	if label == "" {
		return nil, shared.NewValidationError("INVALID_LABEL", "Journal label cannot be empty")
	}
	if len(label) > 100 {
		return nil, shared.NewValidationError("INVALID_LABEL", "Journal label cannot exceed 100 characters")
	}
	if !journalType.IsValid() {
		return nil, shared.NewValidationError("INVALID_JOURNAL_TYPE", "Journal type is not valid")
	}

	j := &Journal{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                code,
		Label:               label,
		Type:                journalType,
		Active:              true,
	}

	j.AddDomainEvent(NewJournalCreatedEvent(j))

	return j, nil
}

// SetCounterAccount sets the default counter-account used when balancing
// single-sided postings entered through this journal
func (j *Journal) SetCounterAccount(accountID uuid.UUID) error {
	if accountID == uuid.Nil {
		return shared.NewReferenceError("INVALID_ACCOUNT", "Counter-account ID cannot be empty")
	}

	j.CounterAccountID = &accountID
	j.UpdatedAt = time.Now()
	j.IncrementVersion()

	return nil
}

// ClearCounterAccount removes the default counter-account
func (j *Journal) ClearCounterAccount() {
	j.CounterAccountID = nil
	j.UpdatedAt = time.Now()
	j.IncrementVersion()
}

// UpdateLabel changes the journal label
func (j *Journal) UpdateLabel(label string) error {
	if label == "" {
		return shared.NewValidationError("INVALID_LABEL", "Journal label cannot be empty")
	}

	j.Label = label
	j.UpdatedAt = time.Now()
	j.IncrementVersion()

	return nil
}

// Deactivate marks the journal as inactive. Existing entries keep their
// numbers; no new entries may be posted through an inactive journal.
func (j *Journal) Deactivate() error {
	if !j.Active {
		return shared.NewStateError("ALREADY_INACTIVE", "Journal is already inactive")
	}

	j.Active = false
	j.UpdatedAt = time.Now()
	j.IncrementVersion()

	return nil
}

// Activate re-enables a deactivated journal
func (j *Journal) Activate() error {
	if j.Active {
		return shared.NewStateError("ALREADY_ACTIVE", "Journal is already active")
	}

	j.Active = true
	j.UpdatedAt = time.Now()
	j.IncrementVersion()

	return nil
}
