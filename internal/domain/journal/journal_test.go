package journal

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJournalType_IsValid(t *testing.T) {
	valid := []Type{
		TypePurchases, TypeSales, TypeBank, TypeCash, TypePayroll, TypeTax,
		TypeSocial, TypeInventory, TypeFixedAssets, TypeProvisions,
		TypeCarryForward, TypeClosing, TypeMisc, TypeOffBooks,
	}
	for _, typ := range valid {
		assert.True(t, typ.IsValid(), "type %s should be valid", typ)
	}

	assert.False(t, Type("ZZ").IsValid())
	assert.False(t, Type("").IsValid())
}

func TestNewJournal(t *testing.T) {
	tenantID := uuid.New()

	t.Run("creates journal successfully", func(t *testing.T) {
		j, err := NewJournal(tenantID, "VT", "Journal des ventes", TypeSales)

		require.NoError(t, err)
		assert.NotNil(t, j)
		assert.Equal(t, "VT", j.Code)
		assert.Equal(t, "Journal des ventes", j.Label)
		assert.Equal(t, TypeSales, j.Type)
		assert.Equal(t, tenantID, j.TenantID)
		assert.True(t, j.Active)
		assert.Nil(t, j.CounterAccountID)
		assert.Len(t, j.GetDomainEvents(), 1)
	})

	t.Run("upper-cases and trims the code", func(t *testing.T) {
		j, err := NewJournal(tenantID, " bq1 ", "Banque BICEC", TypeBank)

		require.NoError(t, err)
		assert.Equal(t, "BQ1", j.Code)
	})

	t.Run("fails with empty code", func(t *testing.T) {
		j, err := NewJournal(tenantID, "", "Ventes", TypeSales)

		assert.Error(t, err)
		assert.Nil(t, j)
	})

	t.Run("fails with code over 10 characters", func(t *testing.T) {
		j, err := NewJournal(tenantID, "ABCDEFGHIJK", "Ventes", TypeSales)

		assert.Error(t, err)
		assert.Nil(t, j)
	})

	t.Run("fails with non alphanumeric code", func(t *testing.T) {
		j, err := NewJournal(tenantID, "VT-1", "Ventes", TypeSales)

		assert.Error(t, err)
		assert.Nil(t, j)
	})

	t.Run("fails with empty label", func(t *testing.T) {
		j, err := NewJournal(tenantID, "VT", "", TypeSales)

		assert.Error(t, err)
		assert.Nil(t, j)
	})

	t.Run("fails with invalid type", func(t *testing.T) {
		j, err := NewJournal(tenantID, "VT", "Ventes", Type("ZZ"))

		assert.Error(t, err)
		assert.Nil(t, j)
	})
}

func TestJournal_CounterAccount(t *testing.T) {
	tenantID := uuid.New()

	t.Run("sets and clears the counter-account", func(t *testing.T) {
		j, err := NewJournal(tenantID, "CA", "Caisse", TypeCash)
		require.NoError(t, err)

		accountID := uuid.New()
		require.NoError(t, j.SetCounterAccount(accountID))
		require.NotNil(t, j.CounterAccountID)
		assert.Equal(t, accountID, *j.CounterAccountID)

		j.ClearCounterAccount()
		assert.Nil(t, j.CounterAccountID)
	})

	t.Run("rejects nil account ID", func(t *testing.T) {
		j, err := NewJournal(tenantID, "CA", "Caisse", TypeCash)
		require.NoError(t, err)

		err = j.SetCounterAccount(uuid.Nil)

		assert.Error(t, err)
		assert.Nil(t, j.CounterAccountID)
	})
}

func TestJournal_UpdateLabel(t *testing.T) {
	tenantID := uuid.New()

	j, err := NewJournal(tenantID, "OD", "Opérations diverses", TypeMisc)
	require.NoError(t, err)

	require.NoError(t, j.UpdateLabel("OD générales"))
	assert.Equal(t, "OD générales", j.Label)

	assert.Error(t, j.UpdateLabel(""))
}

func TestJournal_ActivateDeactivate(t *testing.T) {
	tenantID := uuid.New()

	t.Run("deactivates then reactivates", func(t *testing.T) {
		j, err := NewJournal(tenantID, "AC", "Achats", TypePurchases)
		require.NoError(t, err)

		require.NoError(t, j.Deactivate())
		assert.False(t, j.Active)

		require.NoError(t, j.Activate())
		assert.True(t, j.Active)
	})

	t.Run("fails on double transitions", func(t *testing.T) {
		j, err := NewJournal(tenantID, "AC", "Achats", TypePurchases)
		require.NoError(t, err)

		assert.Error(t, j.Activate())
		require.NoError(t, j.Deactivate())
		assert.Error(t, j.Deactivate())
	})
}
