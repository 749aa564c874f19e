package seed_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/normx-ai/backend/tests/testutil"

	"github.com/normx-ai/backend/internal/domain/shared"
	"github.com/normx-ai/backend/internal/domain/tiers"
	"github.com/normx-ai/backend/internal/infrastructure/persistence"
	"github.com/normx-ai/backend/internal/infrastructure/persistence/models"
	"github.com/normx-ai/backend/internal/infrastructure/seed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSeeder(t *testing.T) (*seed.Seeder, *persistence.GormAccountRepository, *persistence.GormJournalRepository) {
	t.Helper()

	db := testutil.OpenSQLite(t, &models.AccountModel{}, &models.JournalModel{})

	accountRepo := persistence.NewGormAccountRepository(db)
	journalRepo := persistence.NewGormJournalRepository(db)
	return seed.NewSeeder(accountRepo, journalRepo, nil), accountRepo, journalRepo
}

func TestSeeder_SeedTenant(t *testing.T) {
	seeder, accountRepo, journalRepo := setupSeeder(t)
	ctx := context.Background()
	tenantID := uuid.New()

	require.NoError(t, seeder.SeedTenant(ctx, tenantID))

	t.Run("seeds every collective account", func(t *testing.T) {
		for _, kind := range []tiers.Kind{
			tiers.KindSupplierLocal,
			tiers.KindSupplierGroup,
			tiers.KindCustomerLocal,
			tiers.KindCustomerGroup,
			tiers.KindEmployee,
		} {
			acc, err := accountRepo.FindByCode(ctx, tenantID, kind.CollectiveAccountCode())
			require.NoError(t, err, "collective account for %s", kind)
			assert.True(t, acc.Active)
		}
	})

	t.Run("seeds one journal per OHADA type", func(t *testing.T) {
		journals, err := journalRepo.FindAllForTenant(ctx, tenantID, shared.Filter{})
		require.NoError(t, err)
		assert.Len(t, journals, 14)

		vt, err := journalRepo.FindByCode(ctx, tenantID, "VT")
		require.NoError(t, err)
		assert.Equal(t, "Journal des ventes", vt.Label)
	})

	t.Run("is idempotent", func(t *testing.T) {
		before, err := accountRepo.Count(ctx, tenantID, shared.Filter{})
		require.NoError(t, err)

		require.NoError(t, seeder.SeedTenant(ctx, tenantID))

		after, err := accountRepo.Count(ctx, tenantID, shared.Filter{})
		require.NoError(t, err)
		assert.Equal(t, before, after)

		journals, err := journalRepo.FindAllForTenant(ctx, tenantID, shared.Filter{})
		require.NoError(t, err)
		assert.Len(t, journals, 14)
	})

	t.Run("does not leak into other tenants", func(t *testing.T) {
		count, err := accountRepo.Count(ctx, uuid.New(), shared.Filter{})
		require.NoError(t, err)
		assert.Equal(t, int64(0), count)
	})
}
