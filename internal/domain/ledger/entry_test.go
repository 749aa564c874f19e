package ledger

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDate(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newTestEntry(t *testing.T) *Entry {
	t.Helper()
	e, err := NewEntry(uuid.New(), "VT240001", uuid.New(), "VT",
		uuid.New(), uuid.New(), testDate(2024, 3, 15), "Facture FA-2024-101")
	require.NoError(t, err)
	return e
}

func debitInput(amount int64) LineInput {
	return LineInput{
		AccountID:   uuid.New(),
		AccountCode: "41110001",
		Debit:       decimal.NewFromInt(amount),
	}
}

func creditInput(amount int64) LineInput {
	return LineInput{
		AccountID:   uuid.New(),
		AccountCode: "70100000",
		Credit:      decimal.NewFromInt(amount),
	}
}

func TestNewEntry(t *testing.T) {
	tenantID := uuid.New()

	t.Run("creates a draft entry", func(t *testing.T) {
		e, err := NewEntry(tenantID, "VT240001", uuid.New(), "VT",
			uuid.New(), uuid.New(), testDate(2024, 3, 15), "Facture")

		require.NoError(t, err)
		assert.Equal(t, "VT240001", e.Number)
		assert.Equal(t, EntryStatusDraft, e.Status)
		assert.False(t, e.Balanced)
		assert.True(t, e.TotalDebit.IsZero())
		assert.True(t, e.TotalCredit.IsZero())
		assert.Empty(t, e.Lines)
		assert.Len(t, e.GetDomainEvents(), 1)
	})

	t.Run("fails without number", func(t *testing.T) {
		_, err := NewEntry(tenantID, "", uuid.New(), "VT",
			uuid.New(), uuid.New(), testDate(2024, 3, 15), "Facture")
		assert.Error(t, err)
	})

	t.Run("fails without journal", func(t *testing.T) {
		_, err := NewEntry(tenantID, "VT240001", uuid.Nil, "VT",
			uuid.New(), uuid.New(), testDate(2024, 3, 15), "Facture")
		assert.Error(t, err)
	})

	t.Run("fails without period", func(t *testing.T) {
		_, err := NewEntry(tenantID, "VT240001", uuid.New(), "VT",
			uuid.New(), uuid.Nil, testDate(2024, 3, 15), "Facture")
		assert.Error(t, err)
	})

	t.Run("fails without label", func(t *testing.T) {
		_, err := NewEntry(tenantID, "VT240001", uuid.New(), "VT",
			uuid.New(), uuid.New(), testDate(2024, 3, 15), "")
		assert.Error(t, err)
	})
}

func TestEntry_AddLine(t *testing.T) {
	t.Run("adds lines and recomputes totals", func(t *testing.T) {
		e := newTestEntry(t)

		_, err := e.AddLine(debitInput(119250))
		require.NoError(t, err)
		assert.False(t, e.Balanced)

		_, err = e.AddLine(creditInput(100000))
		require.NoError(t, err)
		_, err = e.AddLine(LineInput{
			AccountID:   uuid.New(),
			AccountCode: "44310000",
			Credit:      decimal.NewFromInt(19250),
		})
		require.NoError(t, err)

		assert.True(t, e.Balanced)
		assert.True(t, e.TotalDebit.Equal(decimal.NewFromInt(119250)))
		assert.True(t, e.TotalCredit.Equal(decimal.NewFromInt(119250)))
		assert.True(t, e.TotalAmount.Equal(decimal.NewFromInt(119250)))
		assert.True(t, e.Difference().IsZero())
	})

	t.Run("numbers lines by insertion order", func(t *testing.T) {
		e := newTestEntry(t)

		l1, err := e.AddLine(debitInput(100))
		require.NoError(t, err)
		l2, err := e.AddLine(creditInput(100))
		require.NoError(t, err)

		assert.Equal(t, 1, l1.Number)
		assert.Equal(t, 2, l2.Number)
	})

	t.Run("line numbers are never reassigned after removal", func(t *testing.T) {
		e := newTestEntry(t)

		_, err := e.AddLine(debitInput(100))
		require.NoError(t, err)
		l2, err := e.AddLine(creditInput(100))
		require.NoError(t, err)

		require.NoError(t, e.RemoveLine(l2.ID))
		l3, err := e.AddLine(creditInput(100))
		require.NoError(t, err)

		assert.Equal(t, 2, l3.Number)
	})

	t.Run("line label falls back to the entry label", func(t *testing.T) {
		e := newTestEntry(t)

		l, err := e.AddLine(debitInput(100))
		require.NoError(t, err)
		assert.Equal(t, e.Label, l.Label)
	})

	t.Run("rejects a line with both sides set", func(t *testing.T) {
		e := newTestEntry(t)

		_, err := e.AddLine(LineInput{
			AccountID: uuid.New(),
			Debit:     decimal.NewFromInt(100),
			Credit:    decimal.NewFromInt(100),
		})
		assert.Error(t, err)
	})

	t.Run("rejects a line with no amount", func(t *testing.T) {
		e := newTestEntry(t)

		_, err := e.AddLine(LineInput{AccountID: uuid.New()})
		assert.Error(t, err)
	})

	t.Run("rejects negative amounts", func(t *testing.T) {
		e := newTestEntry(t)

		_, err := e.AddLine(LineInput{
			AccountID: uuid.New(),
			Debit:     decimal.NewFromInt(-100),
		})
		assert.Error(t, err)
	})

	t.Run("rejects class-4 line whose account does not match the collective", func(t *testing.T) {
		e := newTestEntry(t)
		counterpartyID := uuid.New()

		_, err := e.AddLine(LineInput{
			AccountID:             uuid.New(),
			AccountCode:           "40110000",
			AccountClass:          "4",
			CounterpartyID:        &counterpartyID,
			CounterpartyCode:      "CLOC00001",
			CollectiveAccountCode: "41110000",
			Debit:                 decimal.NewFromInt(100),
		})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "does not match")
	})

	t.Run("accepts class-4 line in the collective family", func(t *testing.T) {
		e := newTestEntry(t)
		counterpartyID := uuid.New()

		_, err := e.AddLine(LineInput{
			AccountID:             uuid.New(),
			AccountCode:           "41110000",
			AccountClass:          "4",
			CounterpartyID:        &counterpartyID,
			CounterpartyCode:      "CLOC00001",
			CollectiveAccountCode: "41110000",
			Debit:                 decimal.NewFromInt(100),
		})

		require.NoError(t, err)
	})

	t.Run("rejects lines on a validated entry", func(t *testing.T) {
		e := newTestEntry(t)
		_, err := e.AddLine(debitInput(100))
		require.NoError(t, err)
		_, err = e.AddLine(creditInput(100))
		require.NoError(t, err)
		require.NoError(t, e.Validate(uuid.New()))

		_, err = e.AddLine(debitInput(50))
		assert.Error(t, err)
	})
}

func TestEntry_RemoveLine(t *testing.T) {
	t.Run("removes a line and recomputes totals", func(t *testing.T) {
		e := newTestEntry(t)
		l1, err := e.AddLine(debitInput(100))
		require.NoError(t, err)
		_, err = e.AddLine(creditInput(100))
		require.NoError(t, err)
		require.True(t, e.Balanced)

		require.NoError(t, e.RemoveLine(l1.ID))

		assert.Len(t, e.Lines, 1)
		assert.False(t, e.Balanced)
		assert.True(t, e.TotalDebit.IsZero())
	})

	t.Run("fails for an unknown line", func(t *testing.T) {
		e := newTestEntry(t)

		err := e.RemoveLine(uuid.New())
		assert.Error(t, err)
	})
}

func TestEntry_Validate(t *testing.T) {
	t.Run("validates a balanced entry", func(t *testing.T) {
		e := newTestEntry(t)
		_, err := e.AddLine(debitInput(100))
		require.NoError(t, err)
		_, err = e.AddLine(creditInput(100))
		require.NoError(t, err)

		actor := uuid.New()
		require.NoError(t, e.Validate(actor))

		assert.Equal(t, EntryStatusValidated, e.Status)
		require.NotNil(t, e.ValidatedAt)
		require.NotNil(t, e.ValidatedBy)
		assert.Equal(t, actor, *e.ValidatedBy)
	})

	t.Run("rejects an unbalanced entry", func(t *testing.T) {
		e := newTestEntry(t)
		_, err := e.AddLine(debitInput(100))
		require.NoError(t, err)
		_, err = e.AddLine(creditInput(90))
		require.NoError(t, err)

		err = e.Validate(uuid.New())
		assert.ErrorIs(t, err, ErrUnbalancedEntry)
	})

	t.Run("rejects an entry with fewer than two lines", func(t *testing.T) {
		e := newTestEntry(t)
		_, err := e.AddLine(debitInput(100))
		require.NoError(t, err)

		err = e.Validate(uuid.New())
		assert.ErrorIs(t, err, ErrEmptyEntry)
	})

	t.Run("validation is one-way", func(t *testing.T) {
		e := newTestEntry(t)
		_, err := e.AddLine(debitInput(100))
		require.NoError(t, err)
		_, err = e.AddLine(creditInput(100))
		require.NoError(t, err)
		require.NoError(t, e.Validate(uuid.New()))

		assert.Error(t, e.Validate(uuid.New()))
	})
}

func TestEntry_UpdateHeader(t *testing.T) {
	t.Run("updates draft header fields", func(t *testing.T) {
		e := newTestEntry(t)
		newExercise := uuid.New()
		newPeriod := uuid.New()
		pieceDate := testDate(2024, 3, 10)

		err := e.UpdateHeader(testDate(2024, 4, 2), &pieceDate, newExercise, newPeriod, "Facture corrigée", "FA-2024-101bis")

		require.NoError(t, err)
		assert.Equal(t, testDate(2024, 4, 2), e.Date)
		assert.Equal(t, newExercise, e.ExerciseID)
		assert.Equal(t, newPeriod, e.PeriodID)
		assert.Equal(t, "Facture corrigée", e.Label)
		assert.Equal(t, "FA-2024-101bis", e.Reference)
	})

	t.Run("rejects header changes on a validated entry", func(t *testing.T) {
		e := newTestEntry(t)
		_, err := e.AddLine(debitInput(100))
		require.NoError(t, err)
		_, err = e.AddLine(creditInput(100))
		require.NoError(t, err)
		require.NoError(t, e.Validate(uuid.New()))

		err = e.UpdateHeader(testDate(2024, 4, 2), nil, uuid.New(), uuid.New(), "Autre", "")
		assert.Error(t, err)
	})
}

func TestEntry_AmendMetadata(t *testing.T) {
	validated := func(t *testing.T) *Entry {
		e := newTestEntry(t)
		_, err := e.AddLine(debitInput(100))
		require.NoError(t, err)
		_, err = e.AddLine(creditInput(100))
		require.NoError(t, err)
		require.NoError(t, e.Validate(uuid.New()))
		return e
	}

	t.Run("amends label and reference on a validated entry", func(t *testing.T) {
		e := validated(t)

		require.NoError(t, e.AmendMetadata("Libellé corrigé", "REF-2"))
		assert.Equal(t, "Libellé corrigé", e.Label)
		assert.Equal(t, "REF-2", e.Reference)
		assert.Equal(t, EntryStatusValidated, e.Status)
	})

	t.Run("refuses drafts", func(t *testing.T) {
		e := newTestEntry(t)

		assert.Error(t, e.AmendMetadata("Libellé", ""))
	})

	t.Run("refuses closed entries", func(t *testing.T) {
		e := validated(t)
		require.NoError(t, e.Close())

		assert.Error(t, e.AmendMetadata("Libellé", ""))
	})
}

func TestEntry_Close(t *testing.T) {
	e := newTestEntry(t)
	_, err := e.AddLine(debitInput(100))
	require.NoError(t, err)
	_, err = e.AddLine(creditInput(100))
	require.NoError(t, err)

	// drafts cannot close
	assert.Error(t, e.Close())

	require.NoError(t, e.Validate(uuid.New()))
	require.NoError(t, e.Close())
	assert.Equal(t, EntryStatusClosed, e.Status)

	assert.Error(t, e.Close())
}

func TestEntry_Duplicate(t *testing.T) {
	t.Run("clones into a fresh draft", func(t *testing.T) {
		e := newTestEntry(t)
		_, err := e.AddLine(debitInput(100))
		require.NoError(t, err)
		l, err := e.AddLine(creditInput(100))
		require.NoError(t, err)
		l.ApplyReconciliation("AB12")
		require.NoError(t, e.Validate(uuid.New()))

		clone, err := e.Duplicate("VT240002")

		require.NoError(t, err)
		assert.Equal(t, "VT240002", clone.Number)
		assert.Equal(t, EntryStatusDraft, clone.Status)
		assert.Nil(t, clone.ValidatedAt)
		assert.Len(t, clone.Lines, 2)
		assert.True(t, clone.Balanced)
		for _, cl := range clone.Lines {
			assert.NotEqual(t, e.ID, cl.EntryID)
			assert.False(t, cl.Reconciled)
			assert.Empty(t, cl.ReconciliationCode)
		}

		// original untouched
		assert.Equal(t, EntryStatusValidated, e.Status)
		assert.Equal(t, "VT240001", e.Number)
	})

	t.Run("rejects reusing the original number", func(t *testing.T) {
		e := newTestEntry(t)

		_, err := e.Duplicate("VT240001")
		assert.Error(t, err)
	})
}

func TestLine_SideAndAmount(t *testing.T) {
	e := newTestEntry(t)

	debit, err := e.AddLine(debitInput(250))
	require.NoError(t, err)
	credit, err := e.AddLine(creditInput(250))
	require.NoError(t, err)

	assert.Equal(t, SideDebit, debit.Side())
	assert.True(t, debit.Amount().Equal(decimal.NewFromInt(250)))
	assert.Equal(t, SideCredit, credit.Side())
	assert.True(t, credit.Amount().Equal(decimal.NewFromInt(250)))
	assert.Equal(t, DefaultCurrency, debit.Currency)
}
