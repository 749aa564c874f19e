package tiers

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	appledger "github.com/normx-ai/backend/internal/application/ledger"
	"github.com/normx-ai/backend/internal/domain/shared"
	"github.com/normx-ai/backend/internal/domain/tiers"
)

// TiersService manages the auxiliary-ledger registry: suppliers, customers
// and employees, each bound to its collective account. Code generation runs
// inside the transaction scope so two concurrent creations of the same kind
// never share a sequence number.
type TiersService struct {
	scope appledger.TransactionScope
}

// NewTiersService creates a new TiersService
func NewTiersService(scope appledger.TransactionScope) *TiersService {
	return &TiersService{scope: scope}
}

// CreateCounterparty registers a counterparty. The code is generated as the
// next sequence of the kind; the collective account is resolved from the
// chart of accounts and must exist there.
func (s *TiersService) CreateCounterparty(ctx context.Context, tenantID uuid.UUID, req CreateCounterpartyRequest) (*CounterpartyResponse, error) {
	var resp *CounterpartyResponse

	err := s.scope.Execute(ctx, func(repos appledger.TransactionalRepositories) error {
		if !req.Kind.IsValid() {
			return shared.NewValidationError("INVALID_KIND", "Counterparty kind is not valid")
		}

		collective, err := repos.Accounts().FindByCode(ctx, tenantID, req.Kind.CollectiveAccountCode())
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return tiers.ErrMissingCollectiveAccount
			}
			return err
		}

		if req.Kind.IsEmployee() {
			if req.Matricule == "" {
				return shared.NewValidationError("INVALID_MATRICULE", "Employee matricule is required")
			}
			existing, err := repos.Counterparties().FindByMatricule(ctx, tenantID, req.Matricule)
			if err != nil && !errors.Is(err, shared.ErrNotFound) {
				return err
			}
			if existing != nil {
				return shared.NewValidationError("MATRICULE_TAKEN",
					fmt.Sprintf("Matricule %s is already assigned to %s", req.Matricule, existing.Code))
			}
		}

		maxSeq, err := repos.Counterparties().MaxSequenceForKind(ctx, tenantID, req.Kind)
		if err != nil {
			return err
		}
		code := tiers.FormatCode(req.Kind, maxSeq+1)

		cp, err := tiers.NewCounterparty(tenantID, req.Kind, code, req.Name, collective.ID)
		if err != nil {
			return err
		}

		if req.Kind.IsEmployee() {
			if err := cp.SetMatricule(req.Matricule); err != nil {
				return err
			}
		}
		if req.CreditCeiling != nil {
			if err := cp.SetCreditCeiling(*req.CreditCeiling); err != nil {
				return err
			}
		}
		if req.PaymentDelayDays != nil {
			if err := cp.SetPaymentDelay(*req.PaymentDelayDays); err != nil {
				return err
			}
		}
		cp.ShortName = req.ShortName
		cp.TaxpayerNumber = req.TaxpayerNumber
		cp.TradeRegisterNumber = req.TradeRegisterNumber
		cp.VATExempt = req.VATExempt
		cp.Notes = req.Notes
		if req.Contact != (tiers.Contact{}) {
			cp.Contact = req.Contact
		}

		if err := repos.Counterparties().Save(ctx, cp); err != nil {
			return err
		}
		resp = toCounterpartyResponse(cp, 0)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// UpdateCounterparty changes the descriptive fields of a counterparty.
// Kind, code and collective account never change.
func (s *TiersService) UpdateCounterparty(ctx context.Context, tenantID, counterpartyID uuid.UUID, req UpdateCounterpartyRequest) (*CounterpartyResponse, error) {
	var resp *CounterpartyResponse

	err := s.scope.Execute(ctx, func(repos appledger.TransactionalRepositories) error {
		cp, err := repos.Counterparties().FindByIDForTenant(ctx, tenantID, counterpartyID)
		if err != nil {
			return err
		}

		if err := cp.UpdateDetails(req.Name, req.ShortName, req.Contact, req.TaxpayerNumber, req.TradeRegisterNumber, req.Notes); err != nil {
			return err
		}
		if req.PaymentDelayDays != nil {
			if err := cp.SetPaymentDelay(*req.PaymentDelayDays); err != nil {
				return err
			}
		}
		if req.CreditCeiling != nil {
			if err := cp.SetCreditCeiling(*req.CreditCeiling); err != nil {
				return err
			}
		}
		cp.VATExempt = req.VATExempt

		if err := repos.Counterparties().Save(ctx, cp); err != nil {
			return err
		}
		resp = toCounterpartyResponse(cp, 0)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// BlockCounterparty suspends all transactions with a counterparty
func (s *TiersService) BlockCounterparty(ctx context.Context, tenantID, counterpartyID uuid.UUID, reason string) (*CounterpartyResponse, error) {
	return s.mutate(ctx, tenantID, counterpartyID, func(cp *tiers.Counterparty) error {
		return cp.Block(reason)
	})
}

// UnblockCounterparty lifts a transaction block
func (s *TiersService) UnblockCounterparty(ctx context.Context, tenantID, counterpartyID uuid.UUID) (*CounterpartyResponse, error) {
	return s.mutate(ctx, tenantID, counterpartyID, func(cp *tiers.Counterparty) error {
		return cp.Unblock()
	})
}

// DeactivateCounterparty marks a counterparty as inactive. Its code and its
// history remain.
func (s *TiersService) DeactivateCounterparty(ctx context.Context, tenantID, counterpartyID uuid.UUID) (*CounterpartyResponse, error) {
	return s.mutate(ctx, tenantID, counterpartyID, func(cp *tiers.Counterparty) error {
		return cp.Deactivate()
	})
}

// GetCounterparty loads one counterparty with its posting usage
func (s *TiersService) GetCounterparty(ctx context.Context, tenantID, counterpartyID uuid.UUID) (*CounterpartyResponse, error) {
	var resp *CounterpartyResponse

	err := s.scope.Execute(ctx, func(repos appledger.TransactionalRepositories) error {
		cp, err := repos.Counterparties().FindByIDForTenant(ctx, tenantID, counterpartyID)
		if err != nil {
			return err
		}
		lineCount, err := repos.Entries().CountLinesForCounterparty(ctx, tenantID, cp.ID)
		if err != nil {
			return err
		}
		resp = toCounterpartyResponse(cp, lineCount)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// ListCounterparties returns counterparties, optionally restricted to one
// kind
func (s *TiersService) ListCounterparties(ctx context.Context, tenantID uuid.UUID, filter ListCounterpartiesFilter) ([]CounterpartyResponse, error) {
	var items []CounterpartyResponse

	err := s.scope.Execute(ctx, func(repos appledger.TransactionalRepositories) error {
		f := shared.DefaultFilter()
		if filter.Page > 0 {
			f.Page = filter.Page
		}
		if filter.PageSize > 0 {
			f.PageSize = filter.PageSize
		}
		f.Search = filter.Search

		var (
			list []tiers.Counterparty
			err  error
		)
		if filter.Kind != nil {
			list, err = repos.Counterparties().FindByKind(ctx, tenantID, *filter.Kind, f)
		} else {
			list, err = repos.Counterparties().FindAllForTenant(ctx, tenantID, f)
		}
		if err != nil {
			return err
		}

		items = make([]CounterpartyResponse, len(list))
		for i := range list {
			items[i] = *toCounterpartyResponse(&list[i], 0)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (s *TiersService) mutate(ctx context.Context, tenantID, counterpartyID uuid.UUID, fn func(*tiers.Counterparty) error) (*CounterpartyResponse, error) {
	var resp *CounterpartyResponse

	err := s.scope.Execute(ctx, func(repos appledger.TransactionalRepositories) error {
		cp, err := repos.Counterparties().FindByIDForTenant(ctx, tenantID, counterpartyID)
		if err != nil {
			return err
		}
		if err := fn(cp); err != nil {
			return err
		}
		if err := repos.Counterparties().Save(ctx, cp); err != nil {
			return err
		}
		resp = toCounterpartyResponse(cp, 0)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}
