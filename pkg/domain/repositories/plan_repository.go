package repositories

import (
	"context"
	"errors"

	"github.com/vsinha/mrpcore/pkg/domain/entities"
)

// ErrPlanNotFound is returned when a plan id or facility has no stored plan
var ErrPlanNotFound = errors.New("plan not found")

// PlanRepository stores finalized plans. Plans are appended, never updated,
// so a facility's history stays available for net-change comparison.
type PlanRepository interface {
	// Save persists the plan and all of its orders and exceptions atomically
	Save(ctx context.Context, plan *entities.MrpPlan) error
	Get(ctx context.Context, planID string) (*entities.MrpPlan, error)
	// Latest returns the most recently generated plan for the facility
	Latest(ctx context.Context, facilityID string) (*entities.MrpPlan, error)
	List(ctx context.Context, facilityID string) ([]*entities.MrpPlan, error)
}
