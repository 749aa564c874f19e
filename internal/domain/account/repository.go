package account

import (
	"context"

	"github.com/google/uuid"
	"github.com/normx-ai/backend/internal/domain/shared"
)

// AccountRepository defines the interface for chart-of-accounts persistence
type AccountRepository interface {
	// FindByIDForTenant finds an account by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Account, error)

	// FindByCode finds an account by its 8-digit code within a tenant
	FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*Account, error)

	// FindAllForTenant finds all accounts for a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Account, error)

	// FindByClass finds accounts of one OHADA class for a tenant
	FindByClass(ctx context.Context, tenantID uuid.UUID, class string, filter shared.Filter) ([]Account, error)

	// FindActive finds all active accounts for a tenant
	FindActive(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Account, error)

	// Save persists an account (insert or update)
	Save(ctx context.Context, a *Account) error

	// Count counts accounts for a tenant
	Count(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
}
