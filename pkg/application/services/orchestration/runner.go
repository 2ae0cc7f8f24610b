package orchestration

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/vsinha/mrpcore/pkg/application/dto"
	"github.com/vsinha/mrpcore/pkg/domain/entities"
)

// RunGuard admits at most one active run per facility. Acquire returns
// *entities.RunInProgressError when the facility is busy.
type RunGuard interface {
	Acquire(ctx context.Context, facilityID string) (release func(), err error)
}

// Runner is the command surface over the orchestrator: it parses the request,
// holds the facility's run guard and maps outcomes to result codes
type Runner struct {
	orchestrator *Orchestrator
	guard        RunGuard
	logger       *zap.Logger
}

// NewRunner creates a runner
func NewRunner(orchestrator *Orchestrator, guard RunGuard, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{orchestrator: orchestrator, guard: guard, logger: logger}
}

// RunPlan runs one plan for the facility and reports its outcome
func (r *Runner) RunPlan(ctx context.Context, facilityID string, horizonDays int, mode string) dto.RunResult {
	runMode, err := entities.ParseRunMode(mode)
	if err != nil {
		return rejected(dto.CodeInvalidInput, err)
	}
	if facilityID == "" {
		return rejected(dto.CodeInvalidInput, fmt.Errorf("%w: facility id cannot be empty", entities.ErrInvalidInput))
	}
	if horizonDays <= 0 {
		return rejected(dto.CodeInvalidInput, fmt.Errorf("%w: horizon must be positive, got %d days", entities.ErrInvalidInput, horizonDays))
	}

	release, err := r.guard.Acquire(ctx, facilityID)
	if err != nil {
		var inProgress *entities.RunInProgressError
		if errors.As(err, &inProgress) {
			r.logger.Warn("mrp run rejected", zap.String("facility_id", facilityID), zap.Error(err))
			return rejected(dto.CodeRunInProgress, err)
		}
		return failed(err)
	}
	defer release()

	plan, err := r.orchestrator.Run(ctx, Request{
		FacilityID:  facilityID,
		HorizonDays: horizonDays,
		Mode:        runMode,
	})
	if err != nil {
		if errors.Is(err, entities.ErrInvalidInput) || errors.Is(err, entities.ErrUnknownFacility) {
			return rejected(dto.CodeInvalidInput, err)
		}
		return failed(err)
	}

	code := dto.CodeSuccess
	if len(plan.Exceptions) > 0 {
		code = dto.CodeSuccessWithExceptions
	}
	return dto.RunResult{Code: code, Plan: plan, Exceptions: plan.Exceptions}
}

func rejected(code dto.ResultCode, err error) dto.RunResult {
	return dto.RunResult{Code: code, Exceptions: []entities.PlanException{}, Message: err.Error()}
}

func failed(err error) dto.RunResult {
	return dto.RunResult{
		Code:       dto.CodeFatal,
		Exceptions: []entities.PlanException{entities.ExceptionFromError(err)},
		Message:    err.Error(),
	}
}
