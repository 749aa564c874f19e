package account

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/normx-ai/backend/internal/domain/account"
	"github.com/normx-ai/backend/internal/domain/ledger"
	"github.com/normx-ai/backend/internal/domain/shared"
)

// CreateAccountRequest describes a new chart-of-accounts entry
type CreateAccountRequest struct {
	Code          string              `json:"code"`
	Label         string              `json:"label"`
	Nature        account.NatureType  `json:"nature"`
	NormalBalance account.BalanceSide `json:"normal_balance"`
	Ref           string              `json:"ref,omitempty"`
	Note          string              `json:"note,omitempty"`
}

// UpdateAccountRequest describes an account update. Code, class and nature
// are immutable once the account exists.
type UpdateAccountRequest struct {
	Label string `json:"label"`
	Ref   string `json:"ref,omitempty"`
	Note  string `json:"note,omitempty"`
}

// ListAccountsFilter defines filtering options for account list queries
type ListAccountsFilter struct {
	Class      string `form:"class"`
	ActiveOnly bool   `form:"active_only"`
	Search     string `form:"search"`
	Page       int    `form:"page"`
	PageSize   int    `form:"page_size"`
}

// AccountResponse represents an account in API responses
type AccountResponse struct {
	ID            uuid.UUID `json:"id"`
	TenantID      uuid.UUID `json:"tenant_id"`
	Code          string    `json:"code"`
	Label         string    `json:"label"`
	Class         string    `json:"class"`
	Nature        string    `json:"nature"`
	NormalBalance string    `json:"normal_balance"`
	Ref           string    `json:"ref,omitempty"`
	Note          string    `json:"note,omitempty"`
	Active        bool      `json:"active"`
	Auxiliary     bool      `json:"auxiliary"`
	LineCount     int64     `json:"line_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	Version       int       `json:"version"`
}

func toAccountResponse(a *account.Account, lineCount int64) *AccountResponse {
	return &AccountResponse{
		ID:            a.ID,
		TenantID:      a.TenantID,
		Code:          a.Code,
		Label:         a.Label,
		Class:         a.Class,
		Nature:        a.Nature.String(),
		NormalBalance: string(a.NormalBalance),
		Ref:           a.Ref,
		Note:          a.Note,
		Active:        a.Active,
		Auxiliary:     a.IsAuxiliary(),
		LineCount:     lineCount,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
		Version:       a.Version,
	}
}

// AccountService manages the OHADA chart of accounts
type AccountService struct {
	accounts account.AccountRepository
	entries  ledger.EntryRepository
}

// NewAccountService creates a new AccountService
func NewAccountService(accounts account.AccountRepository, entries ledger.EntryRepository) *AccountService {
	return &AccountService{accounts: accounts, entries: entries}
}

// CreateAccount adds an account to the chart. The class is derived from the
// first digit of the code and the nature must be coherent with it.
func (s *AccountService) CreateAccount(ctx context.Context, tenantID uuid.UUID, req CreateAccountRequest) (*AccountResponse, error) {
	existing, err := s.accounts.FindByCode(ctx, tenantID, req.Code)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewValidationError("ACCOUNT_CODE_TAKEN",
			fmt.Sprintf("An account with code %s already exists", req.Code))
	}

	acc, err := account.NewAccount(tenantID, req.Code, req.Label, req.Nature, req.NormalBalance)
	if err != nil {
		return nil, err
	}
	acc.Ref = req.Ref
	acc.Note = req.Note

	if err := s.accounts.Save(ctx, acc); err != nil {
		return nil, err
	}
	return toAccountResponse(acc, 0), nil
}

// UpdateAccount changes the descriptive fields of an account
func (s *AccountService) UpdateAccount(ctx context.Context, tenantID, accountID uuid.UUID, req UpdateAccountRequest) (*AccountResponse, error) {
	acc, err := s.accounts.FindByIDForTenant(ctx, tenantID, accountID)
	if err != nil {
		return nil, err
	}
	if err := acc.UpdateDetails(req.Label, req.Ref, req.Note); err != nil {
		return nil, err
	}
	if err := s.accounts.Save(ctx, acc); err != nil {
		return nil, err
	}
	return toAccountResponse(acc, 0), nil
}

// DeactivateAccount stops new postings on the account. Historical lines
// keep pointing at it; nothing is deleted.
func (s *AccountService) DeactivateAccount(ctx context.Context, tenantID, accountID uuid.UUID) (*AccountResponse, error) {
	acc, err := s.accounts.FindByIDForTenant(ctx, tenantID, accountID)
	if err != nil {
		return nil, err
	}
	if err := acc.Deactivate(); err != nil {
		return nil, err
	}
	if err := s.accounts.Save(ctx, acc); err != nil {
		return nil, err
	}
	return toAccountResponse(acc, 0), nil
}

// ActivateAccount re-enables postings on a deactivated account
func (s *AccountService) ActivateAccount(ctx context.Context, tenantID, accountID uuid.UUID) (*AccountResponse, error) {
	acc, err := s.accounts.FindByIDForTenant(ctx, tenantID, accountID)
	if err != nil {
		return nil, err
	}
	if err := acc.Activate(); err != nil {
		return nil, err
	}
	if err := s.accounts.Save(ctx, acc); err != nil {
		return nil, err
	}
	return toAccountResponse(acc, 0), nil
}

// GetAccount loads one account with its posting usage
func (s *AccountService) GetAccount(ctx context.Context, tenantID, accountID uuid.UUID) (*AccountResponse, error) {
	acc, err := s.accounts.FindByIDForTenant(ctx, tenantID, accountID)
	if err != nil {
		return nil, err
	}
	lineCount, err := s.entries.CountLinesForAccount(ctx, tenantID, acc.ID)
	if err != nil {
		return nil, err
	}
	return toAccountResponse(acc, lineCount), nil
}

// GetAccountByCode loads one account by its 8-digit code
func (s *AccountService) GetAccountByCode(ctx context.Context, tenantID uuid.UUID, code string) (*AccountResponse, error) {
	acc, err := s.accounts.FindByCode(ctx, tenantID, code)
	if err != nil {
		return nil, err
	}
	return toAccountResponse(acc, 0), nil
}

// ListAccounts returns accounts matching the filter in code order
func (s *AccountService) ListAccounts(ctx context.Context, tenantID uuid.UUID, filter ListAccountsFilter) ([]AccountResponse, error) {
	f := shared.DefaultFilter()
	if filter.Page > 0 {
		f.Page = filter.Page
	}
	if filter.PageSize > 0 {
		f.PageSize = filter.PageSize
	}
	f.Search = filter.Search

	var (
		list []account.Account
		err  error
	)
	switch {
	case filter.Class != "":
		list, err = s.accounts.FindByClass(ctx, tenantID, filter.Class, f)
	case filter.ActiveOnly:
		list, err = s.accounts.FindActive(ctx, tenantID, f)
	default:
		list, err = s.accounts.FindAllForTenant(ctx, tenantID, f)
	}
	if err != nil {
		return nil, err
	}

	items := make([]AccountResponse, len(list))
	for i := range list {
		items[i] = *toAccountResponse(&list[i], 0)
	}
	return items, nil
}
