package journal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/normx-ai/backend/internal/domain/account"
	"github.com/normx-ai/backend/internal/domain/journal"
	"github.com/normx-ai/backend/internal/domain/shared"
)

// CreateJournalRequest describes a new journal
type CreateJournalRequest struct {
	Code               string       `json:"code"`
	Label              string       `json:"label"`
	Type               journal.Type `json:"type"`
	CounterAccountCode string       `json:"counter_account_code,omitempty"`
}

// UpdateJournalRequest describes a journal update. The code is frozen once
// the journal exists because entry numbers embed it.
type UpdateJournalRequest struct {
	Label              string  `json:"label"`
	CounterAccountCode *string `json:"counter_account_code,omitempty"`
}

// JournalResponse represents a journal in API responses
type JournalResponse struct {
	ID               uuid.UUID  `json:"id"`
	TenantID         uuid.UUID  `json:"tenant_id"`
	Code             string     `json:"code"`
	Label            string     `json:"label"`
	Type             string     `json:"type"`
	CounterAccountID *uuid.UUID `json:"counter_account_id,omitempty"`
	Active           bool       `json:"active"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	Version          int        `json:"version"`
}

func toJournalResponse(j *journal.Journal) *JournalResponse {
	return &JournalResponse{
		ID:               j.ID,
		TenantID:         j.TenantID,
		Code:             j.Code,
		Label:            j.Label,
		Type:             j.Type.String(),
		CounterAccountID: j.CounterAccountID,
		Active:           j.Active,
		CreatedAt:        j.CreatedAt,
		UpdatedAt:        j.UpdatedAt,
		Version:          j.Version,
	}
}

// JournalService manages the journals entries are posted through
type JournalService struct {
	journals journal.JournalRepository
	accounts account.AccountRepository
}

// NewJournalService creates a new JournalService
func NewJournalService(journals journal.JournalRepository, accounts account.AccountRepository) *JournalService {
	return &JournalService{journals: journals, accounts: accounts}
}

// CreateJournal adds a journal. The code must be unique per tenant; it
// becomes part of every entry number posted through the journal.
func (s *JournalService) CreateJournal(ctx context.Context, tenantID uuid.UUID, req CreateJournalRequest) (*JournalResponse, error) {
	code := strings.ToUpper(strings.TrimSpace(req.Code))

	existing, err := s.journals.FindByCode(ctx, tenantID, code)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewValidationError("JOURNAL_CODE_TAKEN",
			fmt.Sprintf("A journal with code %s already exists", code))
	}

	jnl, err := journal.NewJournal(tenantID, code, req.Label, req.Type)
	if err != nil {
		return nil, err
	}

	if req.CounterAccountCode != "" {
		acc, err := s.resolveCounterAccount(ctx, tenantID, req.CounterAccountCode)
		if err != nil {
			return nil, err
		}
		if err := jnl.SetCounterAccount(acc.ID); err != nil {
			return nil, err
		}
	}

	if err := s.journals.Save(ctx, jnl); err != nil {
		return nil, err
	}
	return toJournalResponse(jnl), nil
}

// UpdateJournal changes the label and the default counter-account. Passing
// an empty counter-account code clears it; nil leaves it alone.
func (s *JournalService) UpdateJournal(ctx context.Context, tenantID, journalID uuid.UUID, req UpdateJournalRequest) (*JournalResponse, error) {
	jnl, err := s.journals.FindByIDForTenant(ctx, tenantID, journalID)
	if err != nil {
		return nil, err
	}
	if err := jnl.UpdateLabel(req.Label); err != nil {
		return nil, err
	}

	if req.CounterAccountCode != nil {
		if *req.CounterAccountCode == "" {
			jnl.ClearCounterAccount()
		} else {
			acc, err := s.resolveCounterAccount(ctx, tenantID, *req.CounterAccountCode)
			if err != nil {
				return nil, err
			}
			if err := jnl.SetCounterAccount(acc.ID); err != nil {
				return nil, err
			}
		}
	}

	if err := s.journals.Save(ctx, jnl); err != nil {
		return nil, err
	}
	return toJournalResponse(jnl), nil
}

// DeactivateJournal stops new postings through the journal
func (s *JournalService) DeactivateJournal(ctx context.Context, tenantID, journalID uuid.UUID) (*JournalResponse, error) {
	jnl, err := s.journals.FindByIDForTenant(ctx, tenantID, journalID)
	if err != nil {
		return nil, err
	}
	if err := jnl.Deactivate(); err != nil {
		return nil, err
	}
	if err := s.journals.Save(ctx, jnl); err != nil {
		return nil, err
	}
	return toJournalResponse(jnl), nil
}

// ActivateJournal re-enables postings through the journal
func (s *JournalService) ActivateJournal(ctx context.Context, tenantID, journalID uuid.UUID) (*JournalResponse, error) {
	jnl, err := s.journals.FindByIDForTenant(ctx, tenantID, journalID)
	if err != nil {
		return nil, err
	}
	if err := jnl.Activate(); err != nil {
		return nil, err
	}
	if err := s.journals.Save(ctx, jnl); err != nil {
		return nil, err
	}
	return toJournalResponse(jnl), nil
}

// GetJournal loads one journal
func (s *JournalService) GetJournal(ctx context.Context, tenantID, journalID uuid.UUID) (*JournalResponse, error) {
	jnl, err := s.journals.FindByIDForTenant(ctx, tenantID, journalID)
	if err != nil {
		return nil, err
	}
	return toJournalResponse(jnl), nil
}

// ListJournals returns the journals of the tenant, active ones only when
// asked
func (s *JournalService) ListJournals(ctx context.Context, tenantID uuid.UUID, activeOnly bool, filter shared.Filter) ([]JournalResponse, error) {
	var (
		list []journal.Journal
		err  error
	)
	if activeOnly {
		list, err = s.journals.FindActive(ctx, tenantID, filter)
	} else {
		list, err = s.journals.FindAllForTenant(ctx, tenantID, filter)
	}
	if err != nil {
		return nil, err
	}

	items := make([]JournalResponse, len(list))
	for i := range list {
		items[i] = *toJournalResponse(&list[i])
	}
	return items, nil
}

func (s *JournalService) resolveCounterAccount(ctx context.Context, tenantID uuid.UUID, code string) (*account.Account, error) {
	acc, err := s.accounts.FindByCode(ctx, tenantID, code)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewReferenceError("COUNTER_ACCOUNT_NOT_FOUND",
				fmt.Sprintf("Counter-account %s was not found in the chart of accounts", code))
		}
		return nil, err
	}
	if !acc.Active {
		return nil, shared.NewStateError("COUNTER_ACCOUNT_INACTIVE",
			fmt.Sprintf("Counter-account %s is inactive", code))
	}
	return acc, nil
}
