package tiers

import (
	"context"

	"github.com/google/uuid"
	"github.com/normx-ai/backend/internal/domain/shared"
)

// CounterpartyRepository defines the interface for counterparty persistence
type CounterpartyRepository interface {
	// FindByIDForTenant finds a counterparty by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Counterparty, error)

	// FindByCode finds a counterparty by its code within a tenant
	FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*Counterparty, error)

	// FindByMatricule finds an employee counterparty by matricule within a tenant
	FindByMatricule(ctx context.Context, tenantID uuid.UUID, matricule string) (*Counterparty, error)

	// FindAllForTenant finds all counterparties for a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Counterparty, error)

	// FindByKind finds counterparties of one kind for a tenant
	FindByKind(ctx context.Context, tenantID uuid.UUID, kind Kind, filter shared.Filter) ([]Counterparty, error)

	// MaxSequenceForKind returns the highest 5-digit code suffix already
	// assigned for the kind, 0 when none exist. Callers allocate the next
	// code as MaxSequenceForKind+1 inside the same transaction that saves
	// the counterparty.
	MaxSequenceForKind(ctx context.Context, tenantID uuid.UUID, kind Kind) (int, error)

	// Save persists a counterparty (insert or update)
	Save(ctx context.Context, c *Counterparty) error

	// Count counts counterparties for a tenant
	Count(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
}
