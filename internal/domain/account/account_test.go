package account

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAccount(t *testing.T) {
	tenantID := uuid.New()

	t.Run("creates account successfully", func(t *testing.T) {
		a, err := NewAccount(tenantID, "41110000", "Clients locaux", NatureAsset, BalanceDebit)

		require.NoError(t, err)
		assert.NotNil(t, a)
		assert.Equal(t, "41110000", a.Code)
		assert.Equal(t, "Clients locaux", a.Label)
		assert.Equal(t, "4", a.Class)
		assert.Equal(t, NatureAsset, a.Nature)
		assert.Equal(t, BalanceDebit, a.NormalBalance)
		assert.Equal(t, tenantID, a.TenantID)
		assert.True(t, a.Active)
		assert.Len(t, a.GetDomainEvents(), 1)
	})

	t.Run("defaults normal balance to debit", func(t *testing.T) {
		a, err := NewAccount(tenantID, "60100000", "Achats de marchandises", NatureExpense, "")

		require.NoError(t, err)
		assert.Equal(t, BalanceDebit, a.NormalBalance)
	})

	t.Run("fails with short code", func(t *testing.T) {
		a, err := NewAccount(tenantID, "411", "Clients", NatureAsset, BalanceDebit)

		assert.Error(t, err)
		assert.Nil(t, a)
		assert.Contains(t, err.Error(), "8 digits")
	})

	t.Run("fails with non-numeric code", func(t *testing.T) {
		a, err := NewAccount(tenantID, "4111000A", "Clients", NatureAsset, BalanceDebit)

		assert.Error(t, err)
		assert.Nil(t, a)
	})

	t.Run("fails with empty label", func(t *testing.T) {
		a, err := NewAccount(tenantID, "41110000", "", NatureAsset, BalanceDebit)

		assert.Error(t, err)
		assert.Nil(t, a)
	})

	t.Run("fails when nature does not fit the class", func(t *testing.T) {
		a, err := NewAccount(tenantID, "60100000", "Achats", NatureAsset, BalanceDebit)

		assert.Error(t, err)
		assert.Nil(t, a)
		assert.Contains(t, err.Error(), "not allowed for class")
	})

	t.Run("class 4 admits both asset and liability", func(t *testing.T) {
		_, err := NewAccount(tenantID, "41110000", "Clients", NatureAsset, BalanceDebit)
		require.NoError(t, err)

		_, err = NewAccount(tenantID, "40110000", "Fournisseurs", NatureLiability, BalanceCredit)
		require.NoError(t, err)
	})

	t.Run("fails with invalid nature", func(t *testing.T) {
		a, err := NewAccount(tenantID, "41110000", "Clients", NatureType("OTHER"), BalanceDebit)

		assert.Error(t, err)
		assert.Nil(t, a)
	})
}

func TestAccount_UpdateDetails(t *testing.T) {
	tenantID := uuid.New()

	t.Run("updates label, ref and note", func(t *testing.T) {
		a, err := NewAccount(tenantID, "41110000", "Clients locaux", NatureAsset, BalanceDebit)
		require.NoError(t, err)
		initialVersion := a.Version

		err = a.UpdateDetails("Clients nationaux", "CLT", "Comptes clients du territoire")

		require.NoError(t, err)
		assert.Equal(t, "Clients nationaux", a.Label)
		assert.Equal(t, "CLT", a.Ref)
		assert.Equal(t, "Comptes clients du territoire", a.Note)
		assert.Equal(t, initialVersion+1, a.Version)
	})

	t.Run("code and class are untouched", func(t *testing.T) {
		a, err := NewAccount(tenantID, "41110000", "Clients locaux", NatureAsset, BalanceDebit)
		require.NoError(t, err)

		err = a.UpdateDetails("Autre libellé", "", "")

		require.NoError(t, err)
		assert.Equal(t, "41110000", a.Code)
		assert.Equal(t, "4", a.Class)
	})

	t.Run("fails with empty label", func(t *testing.T) {
		a, err := NewAccount(tenantID, "41110000", "Clients locaux", NatureAsset, BalanceDebit)
		require.NoError(t, err)

		err = a.UpdateDetails("", "", "")

		assert.Error(t, err)
	})

	t.Run("fails with too long ref", func(t *testing.T) {
		a, err := NewAccount(tenantID, "41110000", "Clients locaux", NatureAsset, BalanceDebit)
		require.NoError(t, err)

		err = a.UpdateDetails("Clients", "TOOLONG", "")

		assert.Error(t, err)
	})
}

func TestAccount_ActivateDeactivate(t *testing.T) {
	tenantID := uuid.New()

	t.Run("deactivates then reactivates", func(t *testing.T) {
		a, err := NewAccount(tenantID, "41110000", "Clients locaux", NatureAsset, BalanceDebit)
		require.NoError(t, err)

		require.NoError(t, a.Deactivate())
		assert.False(t, a.Active)

		require.NoError(t, a.Activate())
		assert.True(t, a.Active)
	})

	t.Run("fails to deactivate twice", func(t *testing.T) {
		a, err := NewAccount(tenantID, "41110000", "Clients locaux", NatureAsset, BalanceDebit)
		require.NoError(t, err)

		require.NoError(t, a.Deactivate())
		err = a.Deactivate()

		assert.Error(t, err)
	})

	t.Run("fails to activate an active account", func(t *testing.T) {
		a, err := NewAccount(tenantID, "41110000", "Clients locaux", NatureAsset, BalanceDebit)
		require.NoError(t, err)

		err = a.Activate()

		assert.Error(t, err)
	})
}

func TestAccount_IsAuxiliary(t *testing.T) {
	tenantID := uuid.New()

	auxiliary, err := NewAccount(tenantID, "40110000", "Fournisseurs locaux", NatureLiability, BalanceCredit)
	require.NoError(t, err)
	assert.True(t, auxiliary.IsAuxiliary())

	general, err := NewAccount(tenantID, "52100000", "Banques locales", NatureAsset, BalanceVariable)
	require.NoError(t, err)
	assert.False(t, general.IsAuxiliary())
}

func TestAllowedNatures(t *testing.T) {
	assert.ElementsMatch(t, []NatureType{NatureLiability}, AllowedNatures("1"))
	assert.ElementsMatch(t, []NatureType{NatureAsset, NatureLiability}, AllowedNatures("4"))
	assert.ElementsMatch(t, []NatureType{NatureExpense}, AllowedNatures("6"))
	assert.ElementsMatch(t, []NatureType{NatureIncome}, AllowedNatures("7"))
	assert.Nil(t, AllowedNatures("x "))
}
