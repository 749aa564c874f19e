package journal

import (
	"context"

	"github.com/google/uuid"
	"github.com/normx-ai/backend/internal/domain/shared"
)

// JournalRepository defines the interface for journal persistence
type JournalRepository interface {
	// FindByIDForTenant finds a journal by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Journal, error)

	// FindByCode finds a journal by its code within a tenant
	FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*Journal, error)

	// FindAllForTenant finds all journals for a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Journal, error)

	// FindActive finds all active journals for a tenant
	FindActive(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Journal, error)

	// Save persists a journal (insert or update)
	Save(ctx context.Context, j *Journal) error
}
