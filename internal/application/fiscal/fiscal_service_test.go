package fiscal_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	appfiscal "github.com/normx-ai/backend/internal/application/fiscal"
	appledger "github.com/normx-ai/backend/internal/application/ledger"
	"github.com/normx-ai/backend/tests/testutil"

	"github.com/normx-ai/backend/internal/domain/fiscal"
	"github.com/normx-ai/backend/internal/domain/ledger"
	"github.com/normx-ai/backend/internal/infrastructure/persistence"
	"github.com/normx-ai/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fiscalFixture struct {
	svc      *appfiscal.FiscalService
	ctx      context.Context
	tenantID uuid.UUID

	entryRepo    ledger.EntryRepository
	exerciseRepo fiscal.ExerciseRepository
	periodRepo   fiscal.PeriodRepository
}

func newFiscalFixture(t *testing.T) *fiscalFixture {
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

	return &fiscalFixture{
		svc:          appfiscal.NewFiscalService(scope),
		ctx:          context.Background(),
		tenantID:     uuid.New(),
		entryRepo:    entryRepo,
		exerciseRepo: exerciseRepo,
		periodRepo:   periodRepo,
	}
}

// calendarYearRequest builds a January-to-December exercise for the year
func calendarYearRequest(year int) appfiscal.CreateExerciseRequest {
	return appfiscal.CreateExerciseRequest{
		Code:      "EX" + time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC).Format("2006"),
		StartDate: time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(year, 12, 31, 0, 0, 0, 0, time.UTC),
	}
}

// openCalendarYear creates and opens an exercise, returning it with its periods
func (f *fiscalFixture) openCalendarYear(t *testing.T, year int) (*appfiscal.ExerciseResponse, []appfiscal.PeriodResponse) {
	t.Helper()
	created, err := f.svc.CreateExercise(f.ctx, f.tenantID, calendarYearRequest(year))
	require.NoError(t, err)
	opened, err := f.svc.OpenExercise(f.ctx, f.tenantID, created.ID)
	require.NoError(t, err)
	periods, err := f.svc.ListPeriods(f.ctx, f.tenantID, created.ID)
	require.NoError(t, err)
	return opened, periods
}

// seedEntry stores an entry directly in the given period
func (f *fiscalFixture) seedEntry(t *testing.T, number string, exerciseID, periodID uuid.UUID, date time.Time, validated bool) {
	t.Helper()
	e, err := ledger.NewEntry(f.tenantID, number, uuid.New(), "VT", exerciseID, periodID, date, "Ecriture de test")
	require.NoError(t, err)
	_, err = e.AddLine(ledger.LineInput{AccountID: uuid.New(), AccountCode: "41110000", Debit: decimal.NewFromInt(1000)})
	require.NoError(t, err)
	_, err = e.AddLine(ledger.LineInput{AccountID: uuid.New(), AccountCode: "70100000", Credit: decimal.NewFromInt(1000)})
	require.NoError(t, err)
	if validated {
		require.NoError(t, e.Validate(uuid.New()))
	}
	require.NoError(t, f.entryRepo.Save(f.ctx, e))
}

func TestFiscalService_CreateExercise(t *testing.T) {
	f := newFiscalFixture(t)

	t.Run("creates an exercise in preparation", func(t *testing.T) {
		resp, err := f.svc.CreateExercise(f.ctx, f.tenantID, calendarYearRequest(2024))
		require.NoError(t, err)

		assert.Equal(t, "EX2024", resp.Code)
		assert.Equal(t, "Exercice EX2024", resp.Label)
		assert.Equal(t, "PREPARATION", resp.Status)
		assert.True(t, resp.ClosingDeadline.Equal(time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)))
	})

	t.Run("rejects a taken code", func(t *testing.T) {
		_, err := f.svc.CreateExercise(f.ctx, f.tenantID, calendarYearRequest(2024))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already exists")
	})

	t.Run("rejects a duration over eighteen months", func(t *testing.T) {
		req := appfiscal.CreateExerciseRequest{
			Code:      "EXLONG",
			StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
		}
		_, err := f.svc.CreateExercise(f.ctx, f.tenantID, req)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "18 months")
	})
}

func TestFiscalService_OpenExercise(t *testing.T) {
	f := newFiscalFixture(t)

	t.Run("opens and generates monthly periods", func(t *testing.T) {
		opened, periods := f.openCalendarYear(t, 2024)

		assert.Equal(t, "OPEN", opened.Status)
		require.Len(t, periods, 12)
		assert.Equal(t, 1, periods[0].Number)
		assert.Equal(t, "OPEN", periods[0].Status)
		assert.True(t, periods[11].EndDate.Equal(time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)))
	})

	t.Run("allows a second open exercise starting after the first", func(t *testing.T) {
		opened, _ := f.openCalendarYear(t, 2025)
		assert.Equal(t, "OPEN", opened.Status)
	})

	t.Run("rejects a third open exercise", func(t *testing.T) {
		created, err := f.svc.CreateExercise(f.ctx, f.tenantID, calendarYearRequest(2026))
		require.NoError(t, err)

		_, err = f.svc.OpenExercise(f.ctx, f.tenantID, created.ID)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Maximum 2")
	})
}

func TestFiscalService_ResolvePeriod(t *testing.T) {
	f := newFiscalFixture(t)
	opened, periods := f.openCalendarYear(t, 2024)

	t.Run("resolves a date to its exercise and period", func(t *testing.T) {
		resolved, err := f.svc.ResolvePeriod(f.ctx, f.tenantID, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)

		assert.Equal(t, opened.ID, resolved.Exercise.ID)
		assert.Equal(t, "EX2024", resolved.Exercise.Code)
		assert.Equal(t, 3, resolved.Period.Number)
		assert.True(t, resolved.Postable)
	})

	t.Run("reports a closed period as not postable", func(t *testing.T) {
		_, err := f.svc.ClosePeriod(f.ctx, f.tenantID, periods[0].ID, nil)
		require.NoError(t, err)

		resolved, err := f.svc.ResolvePeriod(f.ctx, f.tenantID, time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.Equal(t, 1, resolved.Period.Number)
		assert.False(t, resolved.Postable)
	})

	t.Run("rejects a date outside every exercise", func(t *testing.T) {
		_, err := f.svc.ResolvePeriod(f.ctx, f.tenantID, time.Date(2030, 6, 1, 0, 0, 0, 0, time.UTC))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "No exercise covers")
	})
}

func TestFiscalService_ClosePeriod(t *testing.T) {
	f := newFiscalFixture(t)
	opened, periods := f.openCalendarYear(t, 2024)

	january := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	f.seedEntry(t, "VT240001", opened.ID, periods[0].ID, january, true)
	f.seedEntry(t, "VT240002", opened.ID, periods[0].ID, january, true)
	f.seedEntry(t, "VT240003", opened.ID, periods[0].ID, january, false)

	t.Run("rejects closing out of order", func(t *testing.T) {
		_, err := f.svc.ClosePeriod(f.ctx, f.tenantID, periods[2].ID, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Earlier periods")
	})

	t.Run("closes the period and its validated entries", func(t *testing.T) {
		closedBy := uuid.New()
		result, err := f.svc.ClosePeriod(f.ctx, f.tenantID, periods[0].ID, &closedBy)
		require.NoError(t, err)

		assert.Equal(t, "CLOSED", result.Period.Status)
		assert.Equal(t, int64(2), result.EntriesClosed)
		assert.Equal(t, int64(1), result.DraftsRemaining)
		require.NotNil(t, result.Period.ClosedBy)
		assert.Equal(t, closedBy, *result.Period.ClosedBy)

		entry, err := f.entryRepo.FindByNumber(f.ctx, f.tenantID, "VT240001")
		require.NoError(t, err)
		assert.Equal(t, ledger.EntryStatusClosed, entry.Status)

		draft, err := f.entryRepo.FindByNumber(f.ctx, f.tenantID, "VT240003")
		require.NoError(t, err)
		assert.Equal(t, ledger.EntryStatusDraft, draft.Status)
	})

	t.Run("rejects closing twice", func(t *testing.T) {
		_, err := f.svc.ClosePeriod(f.ctx, f.tenantID, periods[0].ID, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Only an open period")
	})

	t.Run("locks a closed period", func(t *testing.T) {
		resp, err := f.svc.LockPeriod(f.ctx, f.tenantID, periods[0].ID)
		require.NoError(t, err)
		assert.Equal(t, "LOCKED", resp.Status)

		_, err = f.svc.LockPeriod(f.ctx, f.tenantID, periods[1].ID)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Only a closed period")
	})
}

func TestFiscalService_CloseExerciseDefinitive(t *testing.T) {
	f := newFiscalFixture(t)
	year := time.Now().Year()
	opened, periods := f.openCalendarYear(t, year)

	t.Run("rejects while periods are open", func(t *testing.T) {
		_, err := f.svc.CloseExerciseDefinitive(f.ctx, f.tenantID, opened.ID)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "still open")
	})

	t.Run("closes once every period is closed", func(t *testing.T) {
		for _, p := range periods {
			_, err := f.svc.ClosePeriod(f.ctx, f.tenantID, p.ID, nil)
			require.NoError(t, err)
		}

		provisional, err := f.svc.CloseExerciseProvisional(f.ctx, f.tenantID, opened.ID)
		require.NoError(t, err)
		assert.Equal(t, "PROVISIONAL_CLOSE", provisional.Status)

		closed, err := f.svc.CloseExerciseDefinitive(f.ctx, f.tenantID, opened.ID)
		require.NoError(t, err)
		assert.Equal(t, "CLOSED", closed.Status)
		assert.NotNil(t, closed.DefinitiveCloseDate)
	})

	t.Run("generates carry-forward once", func(t *testing.T) {
		resp, err := f.svc.GenerateCarryForward(f.ctx, f.tenantID, opened.ID)
		require.NoError(t, err)
		assert.True(t, resp.CarryForwardGenerated)

		_, err = f.svc.GenerateCarryForward(f.ctx, f.tenantID, opened.ID)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already been generated")
	})

	t.Run("archives the closed exercise", func(t *testing.T) {
		resp, err := f.svc.ArchiveExercise(f.ctx, f.tenantID, opened.ID)
		require.NoError(t, err)
		assert.Equal(t, "ARCHIVED", resp.Status)
	})
}

func TestFiscalService_DeadlineExceeded(t *testing.T) {
	f := newFiscalFixture(t)
	opened, periods := f.openCalendarYear(t, 2020)

	for _, p := range periods {
		_, err := f.svc.ClosePeriod(f.ctx, f.tenantID, p.ID, nil)
		require.NoError(t, err)
	}

	_, err := f.svc.CloseExerciseDefinitive(f.ctx, f.tenantID, opened.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "deadline")

	reloaded, err := f.svc.GetExercise(f.ctx, f.tenantID, opened.ID)
	require.NoError(t, err)
	assert.Equal(t, "OPEN", reloaded.Status)
}
