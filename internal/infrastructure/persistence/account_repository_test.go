package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/normx-ai/backend/tests/testutil"

	"github.com/normx-ai/backend/internal/domain/account"
	"github.com/normx-ai/backend/internal/domain/shared"
	"github.com/normx-ai/backend/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupAccountTestDB(t *testing.T) *gorm.DB {
	return testutil.OpenSQLite(t, &models.AccountModel{})
}

func newTestAccount(t *testing.T, tenantID uuid.UUID, code, label string, nature account.NatureType, balance account.BalanceSide) *account.Account {
	t.Helper()
	a, err := account.NewAccount(tenantID, code, label, nature, balance)
	require.NoError(t, err)
	return a
}

func TestAccountRepository_SaveAndFind(t *testing.T) {
	db := setupAccountTestDB(t)
	repo := NewGormAccountRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("saves and finds by ID", func(t *testing.T) {
		a := newTestAccount(t, tenantID, "41110000", "Clients locaux", account.NatureAsset, account.BalanceDebit)

		require.NoError(t, repo.Save(ctx, a))

		found, err := repo.FindByIDForTenant(ctx, tenantID, a.ID)
		require.NoError(t, err)
		assert.Equal(t, a.ID, found.ID)
		assert.Equal(t, "41110000", found.Code)
		assert.Equal(t, "4", found.Class)
		assert.Equal(t, account.NatureAsset, found.Nature)
		assert.True(t, found.Active)
	})

	t.Run("finds by code", func(t *testing.T) {
		a := newTestAccount(t, tenantID, "52100000", "Banques locales", account.NatureAsset, account.BalanceVariable)
		require.NoError(t, repo.Save(ctx, a))

		found, err := repo.FindByCode(ctx, tenantID, "52100000")
		require.NoError(t, err)
		assert.Equal(t, a.ID, found.ID)
	})

	t.Run("returns ErrNotFound for missing account", func(t *testing.T) {
		_, err := repo.FindByIDForTenant(ctx, tenantID, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)

		_, err = repo.FindByCode(ctx, tenantID, "99999999")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("does not cross tenants", func(t *testing.T) {
		a := newTestAccount(t, tenantID, "57100000", "Caisse", account.NatureAsset, account.BalanceDebit)
		require.NoError(t, repo.Save(ctx, a))

		_, err := repo.FindByIDForTenant(ctx, uuid.New(), a.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("save persists updates", func(t *testing.T) {
		a := newTestAccount(t, tenantID, "60100000", "Achats de marchandises", account.NatureExpense, account.BalanceDebit)
		require.NoError(t, repo.Save(ctx, a))

		require.NoError(t, a.UpdateDetails("Achats de marchandises A", "ACH", ""))
		require.NoError(t, repo.Save(ctx, a))

		found, err := repo.FindByCode(ctx, tenantID, "60100000")
		require.NoError(t, err)
		assert.Equal(t, "Achats de marchandises A", found.Label)
		assert.Equal(t, "ACH", found.Ref)
		assert.Equal(t, a.Version, found.Version)
	})
}

func TestAccountRepository_Queries(t *testing.T) {
	db := setupAccountTestDB(t)
	repo := NewGormAccountRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	seed := []struct {
		code    string
		label   string
		nature  account.NatureType
		balance account.BalanceSide
	}{
		{"40110000", "Fournisseurs locaux", account.NatureLiability, account.BalanceCredit},
		{"41110000", "Clients locaux", account.NatureAsset, account.BalanceDebit},
		{"60100000", "Achats de marchandises", account.NatureExpense, account.BalanceDebit},
		{"70100000", "Ventes de marchandises", account.NatureIncome, account.BalanceCredit},
	}
	for _, s := range seed {
		a := newTestAccount(t, tenantID, s.code, s.label, s.nature, s.balance)
		require.NoError(t, repo.Save(ctx, a))
	}
	inactive := newTestAccount(t, tenantID, "70600000", "Services vendus", account.NatureIncome, account.BalanceCredit)
	require.NoError(t, inactive.Deactivate())
	require.NoError(t, repo.Save(ctx, inactive))

	t.Run("finds all for tenant ordered by code", func(t *testing.T) {
		accounts, err := repo.FindAllForTenant(ctx, tenantID, shared.Filter{})
		require.NoError(t, err)
		require.Len(t, accounts, 5)
		assert.Equal(t, "40110000", accounts[0].Code)
		assert.Equal(t, "70600000", accounts[4].Code)
	})

	t.Run("finds by class", func(t *testing.T) {
		accounts, err := repo.FindByClass(ctx, tenantID, "4", shared.Filter{})
		require.NoError(t, err)
		require.Len(t, accounts, 2)
	})

	t.Run("finds active only", func(t *testing.T) {
		accounts, err := repo.FindActive(ctx, tenantID, shared.Filter{})
		require.NoError(t, err)
		require.Len(t, accounts, 4)
		for _, a := range accounts {
			assert.True(t, a.Active)
		}
	})

	t.Run("save keeps a deactivated account inactive", func(t *testing.T) {
		reloaded, err := repo.FindByCode(ctx, tenantID, "70600000")
		require.NoError(t, err)
		assert.False(t, reloaded.Active)

		require.NoError(t, repo.Save(ctx, reloaded))

		again, err := repo.FindByCode(ctx, tenantID, "70600000")
		require.NoError(t, err)
		assert.False(t, again.Active)
	})

	t.Run("paginates", func(t *testing.T) {
		accounts, err := repo.FindAllForTenant(ctx, tenantID, shared.Filter{Page: 2, PageSize: 2})
		require.NoError(t, err)
		require.Len(t, accounts, 2)
		assert.Equal(t, "60100000", accounts[0].Code)
	})

	t.Run("counts", func(t *testing.T) {
		count, err := repo.Count(ctx, tenantID, shared.Filter{})
		require.NoError(t, err)
		assert.Equal(t, int64(5), count)
	})

	t.Run("empty for another tenant", func(t *testing.T) {
		accounts, err := repo.FindAllForTenant(ctx, uuid.New(), shared.Filter{})
		require.NoError(t, err)
		assert.Empty(t, accounts)
	})
}
