package gormstore

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/vsinha/mrpcore/pkg/domain/entities"
	"github.com/vsinha/mrpcore/pkg/domain/repositories"
)

const insertBatchSize = 500

// PlanRepository stores finalized plans in a SQL database through gorm
type PlanRepository struct {
	db *gorm.DB
}

// NewPlanRepository creates a plan repository over a migrated database
func NewPlanRepository(db *gorm.DB) *PlanRepository {
	return &PlanRepository{db: db}
}

// Verify interface compliance
var _ repositories.PlanRepository = (*PlanRepository)(nil)

// Save writes the plan with its orders, exceptions and changes in one transaction
func (r *PlanRepository) Save(ctx context.Context, plan *entities.MrpPlan) error {
	if plan.PlanID == "" {
		return fmt.Errorf("plan id cannot be empty")
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&planRow{}).Where("plan_id = ?", plan.PlanID).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return fmt.Errorf("plan %s already stored", plan.PlanID)
		}

		row := toPlanRow(plan)
		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("inserting plan %s: %w", plan.PlanID, err)
		}
		if orders := toOrderRows(plan); len(orders) > 0 {
			if err := tx.CreateInBatches(orders, insertBatchSize).Error; err != nil {
				return fmt.Errorf("inserting orders of plan %s: %w", plan.PlanID, err)
			}
		}
		if exceptions := toExceptionRows(plan); len(exceptions) > 0 {
			if err := tx.CreateInBatches(exceptions, insertBatchSize).Error; err != nil {
				return fmt.Errorf("inserting exceptions of plan %s: %w", plan.PlanID, err)
			}
		}
		if changes := toChangeRows(plan); len(changes) > 0 {
			if err := tx.CreateInBatches(changes, insertBatchSize).Error; err != nil {
				return fmt.Errorf("inserting changes of plan %s: %w", plan.PlanID, err)
			}
		}
		return nil
	})
}

// Get returns a stored plan by id
func (r *PlanRepository) Get(ctx context.Context, planID string) (*entities.MrpPlan, error) {
	db := r.db.WithContext(ctx)

	var row planRow
	if err := db.Where("plan_id = ?", planID).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", repositories.ErrPlanNotFound, planID)
		}
		return nil, err
	}
	return r.load(db, row)
}

// Latest returns the last plan saved for the facility
func (r *PlanRepository) Latest(ctx context.Context, facilityID string) (*entities.MrpPlan, error) {
	db := r.db.WithContext(ctx)

	var row planRow
	if err := db.Where("facility_id = ?", facilityID).Order("id desc").First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: no plan for facility %s", repositories.ErrPlanNotFound, facilityID)
		}
		return nil, err
	}
	return r.load(db, row)
}

// List returns the facility's plans, oldest first
func (r *PlanRepository) List(ctx context.Context, facilityID string) ([]*entities.MrpPlan, error) {
	db := r.db.WithContext(ctx)

	var rows []planRow
	if err := db.Where("facility_id = ?", facilityID).Order("id asc").Find(&rows).Error; err != nil {
		return nil, err
	}

	plans := make([]*entities.MrpPlan, 0, len(rows))
	for _, row := range rows {
		plan, err := r.load(db, row)
		if err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}
	return plans, nil
}

func (r *PlanRepository) load(db *gorm.DB, row planRow) (*entities.MrpPlan, error) {
	plan := row.toEntity()

	var orders []orderRow
	if err := db.Where("plan_id = ?", row.PlanID).Order("line asc").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("loading orders of plan %s: %w", row.PlanID, err)
	}
	for _, order := range orders {
		plan.PlannedOrders = append(plan.PlannedOrders, order.toEntity())
	}

	var exceptions []exceptionRow
	if err := db.Where("plan_id = ?", row.PlanID).Order("seq asc").Find(&exceptions).Error; err != nil {
		return nil, fmt.Errorf("loading exceptions of plan %s: %w", row.PlanID, err)
	}
	for _, exc := range exceptions {
		plan.Exceptions = append(plan.Exceptions, exc.toEntity())
	}

	var changes []changeRow
	if err := db.Where("plan_id = ?", row.PlanID).Order("seq asc").Find(&changes).Error; err != nil {
		return nil, fmt.Errorf("loading changes of plan %s: %w", row.PlanID, err)
	}
	for _, change := range changes {
		plan.Changes = append(plan.Changes, change.toEntity())
	}

	return plan, nil
}
