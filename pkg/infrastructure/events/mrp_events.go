package events

import (
	"github.com/vsinha/mrpcore/pkg/domain/entities"
)

const (
	PlanStartedEvent   = "plan.started"
	PlanCompletedEvent = "plan.completed"
	PlanAbortedEvent   = "plan.aborted"
)

type PlanStarted struct {
	FacilityID string           `json:"facility_id"`
	Mode       string           `json:"mode"`
	Horizon    entities.Horizon `json:"horizon"`
}

type PlanCompleted struct {
	PlanID         string `json:"plan_id"`
	FacilityID     string `json:"facility_id"`
	Mode           string `json:"mode"`
	OrderCount     int    `json:"order_count"`
	ExceptionCount int    `json:"exception_count"`
	ChangeCount    int    `json:"change_count"`
}

type PlanAborted struct {
	FacilityID string                   `json:"facility_id"`
	State      string                   `json:"state"`
	Reason     string                   `json:"reason"`
	Exceptions []entities.PlanException `json:"exceptions,omitempty"`
}

// NewPlanCompleted summarizes a finalized plan
func NewPlanCompleted(plan *entities.MrpPlan) PlanCompleted {
	return PlanCompleted{
		PlanID:         plan.PlanID,
		FacilityID:     plan.FacilityID,
		Mode:           plan.Mode.String(),
		OrderCount:     len(plan.PlannedOrders),
		ExceptionCount: len(plan.Exceptions),
		ChangeCount:    len(plan.Changes),
	}
}
