package tiers_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	appledger "github.com/normx-ai/backend/internal/application/ledger"
	apptiers "github.com/normx-ai/backend/internal/application/tiers"
	"github.com/normx-ai/backend/tests/testutil"

	"github.com/normx-ai/backend/internal/domain/account"
	"github.com/normx-ai/backend/internal/domain/tiers"
	"github.com/normx-ai/backend/internal/infrastructure/persistence"
	"github.com/normx-ai/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tiersFixture struct {
	svc      *apptiers.TiersService
	ctx      context.Context
	tenantID uuid.UUID

	accountRepo account.AccountRepository
}

// newTiersFixture seeds the five collective accounts the counterparty
// kinds resolve against
func newTiersFixture(t *testing.T) *tiersFixture {
	t.Helper()

	db := testutil.OpenSQLite(t,
		&models.AccountModel{},
		&models.JournalModel{},
		&models.CounterpartyModel{},
		&models.ExerciseModel{},
		&models.PeriodModel{},
		&models.EntryModel{},
		&models.LineModel{},
	)

	entryRepo := persistence.NewGormEntryRepository(db)
	journalRepo := persistence.NewGormJournalRepository(db)
	exerciseRepo := persistence.NewGormExerciseRepository(db)
	periodRepo := persistence.NewGormPeriodRepository(db)
	accountRepo := persistence.NewGormAccountRepository(db)
	counterpartyRepo := persistence.NewGormCounterpartyRepository(db)

	scope := appledger.NewNoOpTransactionScope(entryRepo, journalRepo, exerciseRepo, periodRepo, accountRepo, counterpartyRepo)

	f := &tiersFixture{
		svc:         apptiers.NewTiersService(scope),
		ctx:         context.Background(),
		tenantID:    uuid.New(),
		accountRepo: accountRepo,
	}

	collectives := []struct {
		code   string
		label  string
		nature account.NatureType
		side   account.BalanceSide
	}{
		{"40110000", "Fournisseurs locaux", account.NatureLiability, account.BalanceCredit},
		{"40120000", "Fournisseurs groupe", account.NatureLiability, account.BalanceCredit},
		{"41110000", "Clients locaux", account.NatureAsset, account.BalanceDebit},
		{"41120000", "Clients groupe", account.NatureAsset, account.BalanceDebit},
		{"42100000", "Personnel, rémunérations dues", account.NatureLiability, account.BalanceCredit},
	}
	for _, c := range collectives {
		a, err := account.NewAccount(f.tenantID, c.code, c.label, c.nature, c.side)
		require.NoError(t, err)
		require.NoError(t, accountRepo.Save(f.ctx, a))
	}

	return f
}

func TestTiersService_CreateCounterparty(t *testing.T) {
	f := newTiersFixture(t)

	t.Run("generates the code and resolves the collective account", func(t *testing.T) {
		resp, err := f.svc.CreateCounterparty(f.ctx, f.tenantID, apptiers.CreateCounterpartyRequest{
			Kind: tiers.KindCustomerLocal,
			Name: "SARL Mballa et Fils",
		})
		require.NoError(t, err)

		assert.Equal(t, "CLOC00001", resp.Code)
		assert.Equal(t, "41110000", resp.CollectiveAccount)
		assert.Equal(t, 30, resp.PaymentDelayDays)
		assert.Equal(t, "Cameroun", resp.Contact.Country)
		assert.True(t, resp.Active)
	})

	t.Run("sequences per kind independently", func(t *testing.T) {
		second, err := f.svc.CreateCounterparty(f.ctx, f.tenantID, apptiers.CreateCounterpartyRequest{
			Kind: tiers.KindCustomerLocal,
			Name: "Boulangerie du Centre",
		})
		require.NoError(t, err)
		assert.Equal(t, "CLOC00002", second.Code)

		supplier, err := f.svc.CreateCounterparty(f.ctx, f.tenantID, apptiers.CreateCounterpartyRequest{
			Kind: tiers.KindSupplierLocal,
			Name: "ENEO Cameroun",
		})
		require.NoError(t, err)
		assert.Equal(t, "FLOC00001", supplier.Code)
		assert.Equal(t, "40110000", supplier.CollectiveAccount)
	})

	t.Run("applies optional settings", func(t *testing.T) {
		ceiling := decimal.NewFromInt(5000000)
		delay := 60
		resp, err := f.svc.CreateCounterparty(f.ctx, f.tenantID, apptiers.CreateCounterpartyRequest{
			Kind:             tiers.KindCustomerGroup,
			Name:             "Filiale Douala",
			ShortName:        "FD",
			CreditCeiling:    &ceiling,
			PaymentDelayDays: &delay,
			Contact:          tiers.Contact{City: "Douala", Country: "Cameroun"},
		})
		require.NoError(t, err)

		assert.Equal(t, "CGRP00001", resp.Code)
		require.NotNil(t, resp.CreditCeiling)
		assert.True(t, resp.CreditCeiling.Equal(ceiling))
		assert.Equal(t, 60, resp.PaymentDelayDays)
		assert.Equal(t, "Douala", resp.Contact.City)
	})

	t.Run("rejects an invalid kind", func(t *testing.T) {
		_, err := f.svc.CreateCounterparty(f.ctx, f.tenantID, apptiers.CreateCounterpartyRequest{
			Kind: tiers.Kind("XXXX"),
			Name: "Inconnu",
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "kind is not valid")
	})

	t.Run("fails when the collective account is missing", func(t *testing.T) {
		_, err := f.svc.CreateCounterparty(f.ctx, uuid.New(), apptiers.CreateCounterpartyRequest{
			Kind: tiers.KindCustomerLocal,
			Name: "Tenant sans plan comptable",
		})
		assert.ErrorIs(t, err, tiers.ErrMissingCollectiveAccount)
	})
}

func TestTiersService_Employees(t *testing.T) {
	f := newTiersFixture(t)

	t.Run("requires a matricule", func(t *testing.T) {
		_, err := f.svc.CreateCounterparty(f.ctx, f.tenantID, apptiers.CreateCounterpartyRequest{
			Kind: tiers.KindEmployee,
			Name: "Essomba Jean",
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "matricule is required")
	})

	t.Run("creates an employee with matricule", func(t *testing.T) {
		resp, err := f.svc.CreateCounterparty(f.ctx, f.tenantID, apptiers.CreateCounterpartyRequest{
			Kind:      tiers.KindEmployee,
			Name:      "Essomba Jean",
			Matricule: "MAT-0042",
		})
		require.NoError(t, err)

		assert.Equal(t, "EMPL00001", resp.Code)
		assert.Equal(t, "42100000", resp.CollectiveAccount)
		assert.Equal(t, "MAT-0042", resp.Matricule)
	})

	t.Run("rejects a taken matricule", func(t *testing.T) {
		_, err := f.svc.CreateCounterparty(f.ctx, f.tenantID, apptiers.CreateCounterpartyRequest{
			Kind:      tiers.KindEmployee,
			Name:      "Ngo Bilong Marie",
			Matricule: "MAT-0042",
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already assigned")
	})
}

func TestTiersService_Lifecycle(t *testing.T) {
	f := newTiersFixture(t)

	created, err := f.svc.CreateCounterparty(f.ctx, f.tenantID, apptiers.CreateCounterpartyRequest{
		Kind: tiers.KindCustomerLocal,
		Name: "SARL Mballa et Fils",
	})
	require.NoError(t, err)

	t.Run("updates descriptive fields", func(t *testing.T) {
		resp, err := f.svc.UpdateCounterparty(f.ctx, f.tenantID, created.ID, apptiers.UpdateCounterpartyRequest{
			Name:           "SARL Mballa et Fils SA",
			TaxpayerNumber: "M012345678901X",
			Contact:        tiers.Contact{City: "Yaoundé", Country: "Cameroun"},
		})
		require.NoError(t, err)
		assert.Equal(t, "SARL Mballa et Fils SA", resp.Name)
		assert.Equal(t, "M012345678901X", resp.TaxpayerNumber)
		assert.Equal(t, "CLOC00001", resp.Code)
	})

	t.Run("blocks and unblocks", func(t *testing.T) {
		resp, err := f.svc.BlockCounterparty(f.ctx, f.tenantID, created.ID, "Factures impayées")
		require.NoError(t, err)
		assert.True(t, resp.Blocked)
		assert.Equal(t, "Factures impayées", resp.BlockReason)

		resp, err = f.svc.UnblockCounterparty(f.ctx, f.tenantID, created.ID)
		require.NoError(t, err)
		assert.False(t, resp.Blocked)
	})

	t.Run("deactivates", func(t *testing.T) {
		resp, err := f.svc.DeactivateCounterparty(f.ctx, f.tenantID, created.ID)
		require.NoError(t, err)
		assert.False(t, resp.Active)
	})

	t.Run("lists by kind", func(t *testing.T) {
		_, err := f.svc.CreateCounterparty(f.ctx, f.tenantID, apptiers.CreateCounterpartyRequest{
			Kind: tiers.KindSupplierLocal,
			Name: "ENEO Cameroun",
		})
		require.NoError(t, err)

		kind := tiers.KindSupplierLocal
		list, err := f.svc.ListCounterparties(f.ctx, f.tenantID, apptiers.ListCounterpartiesFilter{Kind: &kind})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "FLOC00001", list[0].Code)
	})
}
