package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/normx-ai/backend/tests/testutil"

	"github.com/normx-ai/backend/internal/domain/journal"
	"github.com/normx-ai/backend/internal/domain/shared"
	"github.com/normx-ai/backend/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupJournalTestDB(t *testing.T) *gorm.DB {
	return testutil.OpenSQLite(t, &models.JournalModel{})
}

func newTestJournal(t *testing.T, tenantID uuid.UUID, code, label string, jt journal.Type) *journal.Journal {
	t.Helper()
	j, err := journal.NewJournal(tenantID, code, label, jt)
	require.NoError(t, err)
	return j
}

func TestJournalRepository_SaveAndFind(t *testing.T) {
	db := setupJournalTestDB(t)
	repo := NewGormJournalRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("saves and finds by ID", func(t *testing.T) {
		j := newTestJournal(t, tenantID, "VT", "Journal des ventes", journal.TypeSales)

		require.NoError(t, repo.Save(ctx, j))

		found, err := repo.FindByIDForTenant(ctx, tenantID, j.ID)
		require.NoError(t, err)
		assert.Equal(t, "VT", found.Code)
		assert.Equal(t, journal.TypeSales, found.Type)
		assert.True(t, found.Active)
	})

	t.Run("finds by code case-insensitively", func(t *testing.T) {
		j := newTestJournal(t, tenantID, "BQ1", "Banque SGC", journal.TypeBank)
		require.NoError(t, repo.Save(ctx, j))

		found, err := repo.FindByCode(ctx, tenantID, "bq1")
		require.NoError(t, err)
		assert.Equal(t, j.ID, found.ID)
	})

	t.Run("returns ErrNotFound for missing journal", func(t *testing.T) {
		_, err := repo.FindByIDForTenant(ctx, tenantID, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)

		_, err = repo.FindByCode(ctx, tenantID, "ZZ")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("save persists counter account", func(t *testing.T) {
		j := newTestJournal(t, tenantID, "CA", "Caisse", journal.TypeCash)
		require.NoError(t, repo.Save(ctx, j))

		counterAccountID := uuid.New()
		require.NoError(t, j.SetCounterAccount(counterAccountID))
		require.NoError(t, repo.Save(ctx, j))

		found, err := repo.FindByCode(ctx, tenantID, "CA")
		require.NoError(t, err)
		require.NotNil(t, found.CounterAccountID)
		assert.Equal(t, counterAccountID, *found.CounterAccountID)
	})
}

func TestJournalRepository_Queries(t *testing.T) {
	db := setupJournalTestDB(t)
	repo := NewGormJournalRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	require.NoError(t, repo.Save(ctx, newTestJournal(t, tenantID, "AC", "Achats", journal.TypePurchases)))
	require.NoError(t, repo.Save(ctx, newTestJournal(t, tenantID, "VT", "Ventes", journal.TypeSales)))
	inactive := newTestJournal(t, tenantID, "OD", "Opérations diverses", journal.TypeMisc)
	require.NoError(t, inactive.Deactivate())
	require.NoError(t, repo.Save(ctx, inactive))
	require.NoError(t, repo.Save(ctx, newTestJournal(t, uuid.New(), "BQ2", "Autre tenant", journal.TypeBank)))

	t.Run("finds all for tenant ordered by code", func(t *testing.T) {
		journals, err := repo.FindAllForTenant(ctx, tenantID, shared.Filter{})
		require.NoError(t, err)
		require.Len(t, journals, 3)
		assert.Equal(t, "AC", journals[0].Code)
		assert.Equal(t, "VT", journals[2].Code)
	})

	t.Run("finds active only", func(t *testing.T) {
		journals, err := repo.FindActive(ctx, tenantID, shared.Filter{})
		require.NoError(t, err)
		require.Len(t, journals, 2)
		for _, j := range journals {
			assert.True(t, j.Active)
		}
	})
}
