package entities

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// RunMode selects how a plan relates to the facility's previous plan
type RunMode int

const (
	Regenerate RunMode = iota
	NetChange
)

// String method for RunMode enum
func (m RunMode) String() string {
	switch m {
	case Regenerate:
		return "regenerate"
	case NetChange:
		return "net-change"
	default:
		return "unknown"
	}
}

// ParseRunMode parses the external spelling of a run mode
func ParseRunMode(s string) (RunMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "regenerate":
		return Regenerate, nil
	case "net-change", "netchange", "net_change":
		return NetChange, nil
	default:
		return Regenerate, fmt.Errorf("%w: unknown run mode %q", ErrInvalidInput, s)
	}
}

// RunState is a step of the planning state machine
type RunState int

const (
	Collecting RunState = iota
	LevelAssigned
	Netting
	Finalized
	Aborted
)

// String method for RunState enum
func (s RunState) String() string {
	switch s {
	case Collecting:
		return "Collecting"
	case LevelAssigned:
		return "LevelAssigned"
	case Netting:
		return "Netting"
	case Finalized:
		return "Finalized"
	case Aborted:
		return "Aborted"
	default:
		return "Unknown"
	}
}

// Terminal reports whether no further transition is possible
func (s RunState) Terminal() bool {
	return s == Finalized || s == Aborted
}

// ExceptionKind classifies entries of a plan's exception log
type ExceptionKind string

const (
	ExceptionCollection      ExceptionKind = "CollectionError"
	ExceptionCyclicStructure ExceptionKind = "CyclicStructureError"
	ExceptionMissingPolicy   ExceptionKind = "MissingPolicyError"
	ExceptionLeadTime        ExceptionKind = "LeadTimeViolation"
	ExceptionCancelled       ExceptionKind = "Cancelled"
	ExceptionFatal           ExceptionKind = "FatalError"
)

// PlanException is one entry of the exception report
type PlanException struct {
	Kind      ExceptionKind `json:"kind"`
	ProductID string        `json:"product_id,omitempty"`
	Message   string        `json:"message"`
	Path      []string      `json:"path,omitempty"`
}

// ExceptionFromError converts a typed planning error into an exception log entry
func ExceptionFromError(err error) PlanException {
	var (
		collection *CollectionError
		cyclic     *CyclicStructureError
		missing    *MissingPolicyError
		leadTime   *LeadTimeViolation
	)
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return PlanException{Kind: ExceptionCancelled, Message: err.Error()}
	case errors.As(err, &cyclic):
		return PlanException{Kind: ExceptionCyclicStructure, ProductID: cyclic.ProductID, Message: err.Error(), Path: cyclic.Path}
	case errors.As(err, &missing):
		return PlanException{Kind: ExceptionMissingPolicy, ProductID: missing.ProductID, Message: err.Error()}
	case errors.As(err, &leadTime):
		return PlanException{Kind: ExceptionLeadTime, ProductID: leadTime.ProductID, Message: err.Error()}
	case errors.As(err, &collection):
		return PlanException{Kind: ExceptionCollection, Message: err.Error()}
	default:
		return PlanException{Kind: ExceptionFatal, Message: err.Error()}
	}
}

// ChangeKind classifies a net-change difference
type ChangeKind string

const (
	ChangeAdded   ChangeKind = "added"
	ChangeRemoved ChangeKind = "removed"
	ChangeUpdated ChangeKind = "changed"
)

// PlanChange is one difference between a plan and the facility's previous plan
type PlanChange struct {
	Kind        ChangeKind      `json:"kind"`
	ProductID   string          `json:"product_id"`
	DueDate     time.Time       `json:"due_date"`
	OldQuantity decimal.Decimal `json:"old_quantity"`
	NewQuantity decimal.Decimal `json:"new_quantity"`
}

// MrpPlan is the finalized output of one run. Superseded by later runs, never updated in place.
type MrpPlan struct {
	PlanID         string          `json:"plan_id"`
	FacilityID     string          `json:"facility_id"`
	Mode           RunMode         `json:"mode"`
	Horizon        Horizon         `json:"horizon"`
	BucketDays     int             `json:"bucket_days"`
	GeneratedAt    time.Time       `json:"generated_at"`
	PlannedOrders  []PlannedOrder  `json:"planned_orders"`
	Exceptions     []PlanException `json:"exceptions"`
	PreviousPlanID string          `json:"previous_plan_id,omitempty"`
	Changes        []PlanChange    `json:"changes,omitempty"`
}

// ExceptionCount returns the number of exceptions of the given kind
func (p *MrpPlan) ExceptionCount(kind ExceptionKind) int {
	n := 0
	for _, exc := range p.Exceptions {
		if exc.Kind == kind {
			n++
		}
	}
	return n
}

// OrdersFor returns the planned orders of one product in plan order
func (p *MrpPlan) OrdersFor(productID string) []PlannedOrder {
	var orders []PlannedOrder
	for _, order := range p.PlannedOrders {
		if order.ProductID == productID {
			orders = append(orders, order)
		}
	}
	return orders
}
