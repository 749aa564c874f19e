package account

import (
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/normx-ai/backend/internal/domain/shared"
)

// NatureType classifies an account by its economic nature
type NatureType string

const (
	NatureAsset     NatureType = "ASSET"
	NatureLiability NatureType = "LIABILITY"
	NatureExpense   NatureType = "EXPENSE"
	NatureIncome    NatureType = "INCOME"
)

// IsValid checks if the nature type is valid
func (n NatureType) IsValid() bool {
	switch n {
	case NatureAsset, NatureLiability, NatureExpense, NatureIncome:
		return true
	}
	return false
}

// String returns the string representation of NatureType
func (n NatureType) String() string {
	return string(n)
}

// BalanceSide indicates on which side an account normally carries its balance
type BalanceSide string

const (
	BalanceDebit    BalanceSide = "DEBIT"
	BalanceCredit   BalanceSide = "CREDIT"
	BalanceVariable BalanceSide = "VARIABLE"
)

// IsValid checks if the balance side is valid
func (b BalanceSide) IsValid() bool {
	switch b {
	case BalanceDebit, BalanceCredit, BalanceVariable:
		return true
	}
	return false
}

var codePattern = regexp.MustCompile(`^\d{8}$`)

// naturesByClass maps each OHADA class digit to the nature types it admits.
var naturesByClass = map[byte][]NatureType{
	'1': {NatureLiability},
	'2': {NatureAsset},
	'3': {NatureAsset},
	'4': {NatureAsset, NatureLiability},
	'5': {NatureAsset},
	'6': {NatureExpense},
	'7': {NatureIncome},
	'8': {NatureExpense, NatureIncome},
	'9': {NatureAsset, NatureLiability},
}

// AllowedNatures returns the nature types admitted by an OHADA class digit.
func AllowedNatures(class string) []NatureType {
	if len(class) != 1 {
		return nil
	}
	return naturesByClass[class[0]]
}

// Account is an entry of the OHADA chart of accounts.
// The code is the caller-visible identifier; it is immutable once the
// account is referenced by a ledger line.
type Account struct {
	shared.TenantAggregateRoot
	Code          string      `json:"code"`
	Label         string      `json:"label"`
	Class         string      `json:"class"`
	Nature        NatureType  `json:"nature"`
	NormalBalance BalanceSide `json:"normal_balance"`
	Ref           string      `json:"ref,omitempty"`
	Note          string      `json:"note,omitempty"`
	Active        bool        `json:"active"`
}

// NewAccount creates an account and checks code/class/nature coherence.
func NewAccount(tenantID uuid.UUID, code, label string, nature NatureType, normalBalance BalanceSide) (*Account, error) {
	if !codePattern.MatchString(code) {
		return nil, shared.NewValidationError("INVALID_ACCOUNT_CODE", "Account code must be exactly 8 digits")
	}
	if label == "" {
		return nil, shared.NewValidationError("INVALID_LABEL", "Account label cannot be empty")
	}
	if len(label) > 255 {
		return nil, shared.NewValidationError("INVALID_LABEL", "Account label cannot exceed 255 characters")
	}
	if !nature.IsValid() {
		return nil, shared.NewValidationError("INVALID_NATURE", "Account nature type is not valid")
	}
	if normalBalance == "" {
		normalBalance = BalanceDebit
	}
	if !normalBalance.IsValid() {
		return nil, shared.NewValidationError("INVALID_BALANCE_SIDE", "Normal balance side is not valid")
	}

	class := code[:1]
	if !natureAllowedForClass(class, nature) {
		return nil, shared.NewValidationError("NATURE_CLASS_MISMATCH",
			fmt.Sprintf("Nature %s is not allowed for class %s accounts", nature, class))
	}

	a := &Account{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                code,
		Label:               label,
		Class:               class,
		Nature:              nature,
		NormalBalance:       normalBalance,
		Active:              true,
	}

	a.AddDomainEvent(NewAccountCreatedEvent(a))

	return a, nil
}

func natureAllowedForClass(class string, nature NatureType) bool {
	for _, n := range AllowedNatures(class) {
		if n == nature {
			return true
		}
	}
	return false
}

// UpdateDetails changes the descriptive fields. The code and class are
// permanent; amounts already posted against the account depend on them.
func (a *Account) UpdateDetails(label, ref, note string) error {
	if label == "" {
		return shared.NewValidationError("INVALID_LABEL", "Account label cannot be empty")
	}
	if len(ref) > 5 {
		return shared.NewValidationError("INVALID_REF", "Account ref cannot exceed 5 characters")
	}

	a.Label = label
	a.Ref = ref
	a.Note = note
	a.UpdatedAt = time.Now()
	a.IncrementVersion()

	return nil
}

// Deactivate marks the account as inactive. Accounts are never hard-deleted
// once referenced; the caller checks usage before invoking this.
func (a *Account) Deactivate() error {
	if !a.Active {
		return shared.NewStateError("ALREADY_INACTIVE", "Account is already inactive")
	}

	a.Active = false
	a.UpdatedAt = time.Now()
	a.IncrementVersion()

	a.AddDomainEvent(NewAccountDeactivatedEvent(a))

	return nil
}

// Activate re-enables a deactivated account
func (a *Account) Activate() error {
	if a.Active {
		return shared.NewStateError("ALREADY_ACTIVE", "Account is already active")
	}

	a.Active = true
	a.UpdatedAt = time.Now()
	a.IncrementVersion()

	return nil
}

// IsAuxiliary reports whether the account belongs to class 4, the class
// carrying counterparty sub-ledgers.
func (a *Account) IsAuxiliary() bool {
	return a.Class == "4"
}
