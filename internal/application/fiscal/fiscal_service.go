package fiscal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	appledger "github.com/normx-ai/backend/internal/application/ledger"
	"github.com/normx-ai/backend/internal/domain/fiscal"
	"github.com/normx-ai/backend/internal/domain/shared"
)

// FiscalService manages the lifecycle of exercises and their periods.
// Lifecycle transitions and period closes run inside the transaction scope
// so the posting gate and the entry store never disagree.
type FiscalService struct {
	scope appledger.TransactionScope
}

// NewFiscalService creates a new FiscalService
func NewFiscalService(scope appledger.TransactionScope) *FiscalService {
	return &FiscalService{scope: scope}
}

// CreateExercise creates an exercise in Preparation status
func (s *FiscalService) CreateExercise(ctx context.Context, tenantID uuid.UUID, req CreateExerciseRequest) (*ExerciseResponse, error) {
	var resp *ExerciseResponse

	err := s.scope.Execute(ctx, func(repos appledger.TransactionalRepositories) error {
		existing, err := repos.Exercises().FindByCode(ctx, tenantID, req.Code)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return err
		}
		if existing != nil {
			return shared.NewValidationError("EXERCISE_CODE_TAKEN",
				fmt.Sprintf("An exercise with code %s already exists", req.Code))
		}

		exercise, err := fiscal.NewExercise(tenantID, req.Code, req.Label, req.StartDate, req.EndDate)
		if err != nil {
			return err
		}
		exercise.FirstExercise = req.FirstExercise

		if err := repos.Exercises().Save(ctx, exercise); err != nil {
			return err
		}
		resp = toExerciseResponse(exercise)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// OpenExercise opens an exercise and generates its monthly periods. At most
// two exercises may be open at once and the second must start after the
// first.
func (s *FiscalService) OpenExercise(ctx context.Context, tenantID, exerciseID uuid.UUID) (*ExerciseResponse, error) {
	var resp *ExerciseResponse

	err := s.scope.Execute(ctx, func(repos appledger.TransactionalRepositories) error {
		exercise, err := repos.Exercises().FindByIDForTenant(ctx, tenantID, exerciseID)
		if err != nil {
			return err
		}
		open, err := repos.Exercises().FindByStatus(ctx, tenantID, fiscal.ExerciseStatusOpen)
		if err != nil {
			return err
		}

		if err := exercise.Open(open); err != nil {
			return err
		}
		periods := exercise.GeneratePeriods()

		if err := repos.Exercises().Save(ctx, exercise); err != nil {
			return err
		}
		if err := repos.Periods().SaveAll(ctx, periods); err != nil {
			return err
		}
		resp = toExerciseResponse(exercise)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// CloseExerciseProvisional moves an open exercise to provisional close
func (s *FiscalService) CloseExerciseProvisional(ctx context.Context, tenantID, exerciseID uuid.UUID) (*ExerciseResponse, error) {
	var resp *ExerciseResponse

	err := s.scope.Execute(ctx, func(repos appledger.TransactionalRepositories) error {
		exercise, err := repos.Exercises().FindByIDForTenant(ctx, tenantID, exerciseID)
		if err != nil {
			return err
		}
		if err := exercise.CloseProvisional(); err != nil {
			return err
		}
		if err := repos.Exercises().Save(ctx, exercise); err != nil {
			return err
		}
		resp = toExerciseResponse(exercise)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// CloseExerciseDefinitive closes an exercise for good. Every period must
// already be closed and the six-month deadline after the end date must not
// have passed.
func (s *FiscalService) CloseExerciseDefinitive(ctx context.Context, tenantID, exerciseID uuid.UUID) (*ExerciseResponse, error) {
	var resp *ExerciseResponse

	err := s.scope.Execute(ctx, func(repos appledger.TransactionalRepositories) error {
		exercise, err := repos.Exercises().FindByIDForTenant(ctx, tenantID, exerciseID)
		if err != nil {
			return err
		}

		periods, err := repos.Periods().FindByExercise(ctx, tenantID, exerciseID)
		if err != nil {
			return err
		}
		for _, p := range periods {
			if p.Status == fiscal.PeriodStatusOpen {
				return shared.NewStateError("PERIODS_STILL_OPEN",
					fmt.Sprintf("Period %d is still open; close all periods before the definitive close", p.Number))
			}
		}

		if err := exercise.CloseDefinitive(time.Now()); err != nil {
			return err
		}
		if err := repos.Exercises().Save(ctx, exercise); err != nil {
			return err
		}
		resp = toExerciseResponse(exercise)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// GenerateCarryForward marks the carry-forward entries of a closed exercise
// as generated. It succeeds at most once per exercise.
func (s *FiscalService) GenerateCarryForward(ctx context.Context, tenantID, exerciseID uuid.UUID) (*ExerciseResponse, error) {
	var resp *ExerciseResponse

	err := s.scope.Execute(ctx, func(repos appledger.TransactionalRepositories) error {
		exercise, err := repos.Exercises().FindByIDForTenant(ctx, tenantID, exerciseID)
		if err != nil {
			return err
		}
		if err := exercise.GenerateCarryForward(); err != nil {
			return err
		}
		if err := repos.Exercises().Save(ctx, exercise); err != nil {
			return err
		}
		resp = toExerciseResponse(exercise)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// ArchiveExercise moves a closed exercise to the archive
func (s *FiscalService) ArchiveExercise(ctx context.Context, tenantID, exerciseID uuid.UUID) (*ExerciseResponse, error) {
	var resp *ExerciseResponse

	err := s.scope.Execute(ctx, func(repos appledger.TransactionalRepositories) error {
		exercise, err := repos.Exercises().FindByIDForTenant(ctx, tenantID, exerciseID)
		if err != nil {
			return err
		}
		if err := exercise.Archive(); err != nil {
			return err
		}
		if err := repos.Exercises().Save(ctx, exercise); err != nil {
			return err
		}
		resp = toExerciseResponse(exercise)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// ClosePeriod closes a period and batch-closes the validated entries it
// contains. Draft entries are left untouched; they must be validated or
// deleted through the ledger. Earlier periods of the same exercise must be
// closed first.
func (s *FiscalService) ClosePeriod(ctx context.Context, tenantID, periodID uuid.UUID, closedBy *uuid.UUID) (*ClosePeriodResult, error) {
	var result *ClosePeriodResult

	err := s.scope.Execute(ctx, func(repos appledger.TransactionalRepositories) error {
		period, err := repos.Periods().FindByIDForTenant(ctx, tenantID, periodID)
		if err != nil {
			return err
		}
		siblings, err := repos.Periods().FindByExercise(ctx, tenantID, period.ExerciseID)
		if err != nil {
			return err
		}

		if err := period.Close(closedBy, siblings); err != nil {
			return err
		}

		closed, err := repos.Entries().CloseAllInPeriod(ctx, tenantID, periodID)
		if err != nil {
			return err
		}
		drafts, err := repos.Entries().CountDraftsInPeriod(ctx, tenantID, periodID)
		if err != nil {
			return err
		}

		if err := repos.Periods().Save(ctx, period); err != nil {
			return err
		}
		result = &ClosePeriodResult{
			Period:          toPeriodResponse(period),
			EntriesClosed:   closed,
			DraftsRemaining: drafts,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// LockPeriod locks a closed period for good
func (s *FiscalService) LockPeriod(ctx context.Context, tenantID, periodID uuid.UUID) (*PeriodResponse, error) {
	var resp *PeriodResponse

	err := s.scope.Execute(ctx, func(repos appledger.TransactionalRepositories) error {
		period, err := repos.Periods().FindByIDForTenant(ctx, tenantID, periodID)
		if err != nil {
			return err
		}
		if err := period.Lock(); err != nil {
			return err
		}
		if err := repos.Periods().Save(ctx, period); err != nil {
			return err
		}
		r := toPeriodResponse(period)
		resp = &r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// GetExercise loads one exercise
func (s *FiscalService) GetExercise(ctx context.Context, tenantID, exerciseID uuid.UUID) (*ExerciseResponse, error) {
	var resp *ExerciseResponse

	err := s.scope.Execute(ctx, func(repos appledger.TransactionalRepositories) error {
		exercise, err := repos.Exercises().FindByIDForTenant(ctx, tenantID, exerciseID)
		if err != nil {
			return err
		}
		resp = toExerciseResponse(exercise)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// ListExercises returns the exercises of the tenant
func (s *FiscalService) ListExercises(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]ExerciseResponse, error) {
	var items []ExerciseResponse

	err := s.scope.Execute(ctx, func(repos appledger.TransactionalRepositories) error {
		exercises, err := repos.Exercises().FindAllForTenant(ctx, tenantID, filter)
		if err != nil {
			return err
		}
		items = make([]ExerciseResponse, len(exercises))
		for i := range exercises {
			items[i] = *toExerciseResponse(&exercises[i])
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// ResolvePeriod finds the exercise and period whose ranges cover the date,
// regardless of whether they still accept postings
func (s *FiscalService) ResolvePeriod(ctx context.Context, tenantID uuid.UUID, date time.Time) (*ResolvedPeriodResponse, error) {
	var resp *ResolvedPeriodResponse

	err := s.scope.Execute(ctx, func(repos appledger.TransactionalRepositories) error {
		exercise, err := repos.Exercises().FindContainingDate(ctx, tenantID, date, false)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewReferenceError("NO_EXERCISE_FOR_DATE",
					fmt.Sprintf("No exercise covers the date %s", date.Format("2006-01-02")))
			}
			return err
		}

		period, err := repos.Periods().FindByExerciseAndDate(ctx, tenantID, exercise.ID, date)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewReferenceError("NO_PERIOD_FOR_DATE",
					fmt.Sprintf("No period of exercise %s covers the date %s", exercise.Code, date.Format("2006-01-02")))
			}
			return err
		}

		resp = &ResolvedPeriodResponse{
			Exercise: *toExerciseResponse(exercise),
			Period:   toPeriodResponse(period),
			Postable: period.PostingAllowed(exercise.Status),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// ListPeriods returns the periods of an exercise in number order
func (s *FiscalService) ListPeriods(ctx context.Context, tenantID, exerciseID uuid.UUID) ([]PeriodResponse, error) {
	var items []PeriodResponse

	err := s.scope.Execute(ctx, func(repos appledger.TransactionalRepositories) error {
		periods, err := repos.Periods().FindByExercise(ctx, tenantID, exerciseID)
		if err != nil {
			return err
		}
		items = make([]PeriodResponse, len(periods))
		for i := range periods {
			items[i] = toPeriodResponse(&periods[i])
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}
