package dto

import (
	"github.com/vsinha/mrpcore/pkg/domain/entities"
)

// ResultCode is the outcome of a runPlan request
type ResultCode int

const (
	// CodeSuccess means the plan finalized without exceptions
	CodeSuccess ResultCode = 0
	// CodeSuccessWithExceptions means the plan finalized with non-fatal exceptions
	CodeSuccessWithExceptions ResultCode = 1
	// CodeInvalidInput covers unknown facilities, bad horizons and unknown modes
	CodeInvalidInput ResultCode = 2
	// CodeFatal covers collection failures, cyclic structures and cancellation
	CodeFatal ResultCode = 3
	// CodeRunInProgress rejects a second concurrent run for a facility
	CodeRunInProgress ResultCode = 4
)

// String method for ResultCode enum
func (c ResultCode) String() string {
	switch c {
	case CodeSuccess:
		return "success"
	case CodeSuccessWithExceptions:
		return "success_with_exceptions"
	case CodeInvalidInput:
		return "invalid_input"
	case CodeFatal:
		return "fatal"
	case CodeRunInProgress:
		return "run_in_progress"
	default:
		return "unknown"
	}
}

// Succeeded reports whether a plan was produced
func (c ResultCode) Succeeded() bool {
	return c == CodeSuccess || c == CodeSuccessWithExceptions
}

// RunResult is the answer to a runPlan request. Plan is nil unless the run
// succeeded; Exceptions always holds the exception report.
type RunResult struct {
	Code       ResultCode               `json:"code"`
	Plan       *entities.MrpPlan        `json:"plan,omitempty"`
	Exceptions []entities.PlanException `json:"exceptions"`
	Message    string                   `json:"message,omitempty"`
}
