package entities

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrInvalidInput marks requests rejected before any work starts
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnknownFacility is returned by catalog sources for facilities they do not know
	ErrUnknownFacility = errors.New("unknown facility")
)

// CollectionError means an input source could not be read. Fatal for the run.
type CollectionError struct {
	Source string
	Err    error
}

func (e *CollectionError) Error() string {
	return fmt.Sprintf("collecting %s: %v", e.Source, e.Err)
}

func (e *CollectionError) Unwrap() error {
	return e.Err
}

// CyclicStructureError reports one cycle in the component graph. Fatal for the run.
// Path starts and ends with ProductID.
type CyclicStructureError struct {
	ProductID string
	Path      []string
}

func (e *CyclicStructureError) Error() string {
	return fmt.Sprintf("cyclic product structure at %s: %s", e.ProductID, strings.Join(e.Path, " -> "))
}

// MissingPolicyError means a product lacks the data needed to net it.
// Only that product (and what is reached solely through it) is skipped.
type MissingPolicyError struct {
	ProductID string
	Missing   []string
}

func (e *MissingPolicyError) Error() string {
	return fmt.Sprintf("product %s is missing %s", e.ProductID, strings.Join(e.Missing, " and "))
}

// LeadTimeViolation means an order's start date fell before the run's now and was clamped
type LeadTimeViolation struct {
	ProductID     string
	DueDate       time.Time
	ComputedStart time.Time
	ClampedStart  time.Time
}

func (e *LeadTimeViolation) Error() string {
	return fmt.Sprintf("product %s due %s: start %s precedes now, clamped to %s",
		e.ProductID,
		e.DueDate.Format(DateLayout),
		e.ComputedStart.Format(DateLayout),
		e.ClampedStart.Format(DateLayout))
}

// RunInProgressError rejects a run request for a facility that is already planning
type RunInProgressError struct {
	FacilityID string
}

func (e *RunInProgressError) Error() string {
	return fmt.Sprintf("mrp run already in progress for facility %s", e.FacilityID)
}

// IsFatal reports whether err aborts a whole run
func IsFatal(err error) bool {
	var collection *CollectionError
	var cyclic *CyclicStructureError
	return errors.As(err, &collection) ||
		errors.As(err, &cyclic) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}
