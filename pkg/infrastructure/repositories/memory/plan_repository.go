package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/vsinha/mrpcore/pkg/domain/entities"
	"github.com/vsinha/mrpcore/pkg/domain/repositories"
)

// PlanRepository keeps finalized plans in memory, in the order they were saved
type PlanRepository struct {
	mu    sync.RWMutex
	plans []*entities.MrpPlan
	byID  map[string]int
}

// NewPlanRepository creates a new in-memory plan repository
func NewPlanRepository() *PlanRepository {
	return &PlanRepository{
		plans: make([]*entities.MrpPlan, 0),
		byID:  make(map[string]int),
	}
}

// Verify interface compliance
var _ repositories.PlanRepository = (*PlanRepository)(nil)

// Save appends a copy of the plan
func (r *PlanRepository) Save(ctx context.Context, plan *entities.MrpPlan) error {
	if plan.PlanID == "" {
		return fmt.Errorf("plan id cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[plan.PlanID]; exists {
		return fmt.Errorf("plan %s already stored", plan.PlanID)
	}
	r.byID[plan.PlanID] = len(r.plans)
	r.plans = append(r.plans, clonePlan(plan))
	return nil
}

// Get returns a stored plan by id
func (r *PlanRepository) Get(ctx context.Context, planID string) (*entities.MrpPlan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	index, exists := r.byID[planID]
	if !exists {
		return nil, fmt.Errorf("%w: %s", repositories.ErrPlanNotFound, planID)
	}
	return clonePlan(r.plans[index]), nil
}

// Latest returns the last plan saved for the facility
func (r *PlanRepository) Latest(ctx context.Context, facilityID string) (*entities.MrpPlan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := len(r.plans) - 1; i >= 0; i-- {
		if r.plans[i].FacilityID == facilityID {
			return clonePlan(r.plans[i]), nil
		}
	}
	return nil, fmt.Errorf("%w: no plan for facility %s", repositories.ErrPlanNotFound, facilityID)
}

// List returns the facility's plans, oldest first
func (r *PlanRepository) List(ctx context.Context, facilityID string) ([]*entities.MrpPlan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var plans []*entities.MrpPlan
	for _, plan := range r.plans {
		if plan.FacilityID == facilityID {
			plans = append(plans, clonePlan(plan))
		}
	}
	return plans, nil
}

func clonePlan(plan *entities.MrpPlan) *entities.MrpPlan {
	copied := *plan
	copied.PlannedOrders = append([]entities.PlannedOrder(nil), plan.PlannedOrders...)
	copied.Exceptions = append([]entities.PlanException(nil), plan.Exceptions...)
	copied.Changes = append([]entities.PlanChange(nil), plan.Changes...)
	return &copied
}
