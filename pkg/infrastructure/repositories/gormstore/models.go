package gormstore

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/mrpcore/pkg/domain/entities"
)

// planRow is one finalized plan. ID orders a facility's history.
type planRow struct {
	ID             uint      `gorm:"primaryKey"`
	PlanID         string    `gorm:"size:64;uniqueIndex;not null"`
	FacilityID     string    `gorm:"size:64;index;not null"`
	Mode           int       `gorm:"not null"`
	HorizonStart   time.Time `gorm:"not null"`
	HorizonEnd     time.Time `gorm:"not null"`
	BucketDays     int       `gorm:"not null"`
	GeneratedAt    time.Time `gorm:"not null"`
	PreviousPlanID string    `gorm:"size:64"`
	CreatedAt      time.Time
}

func (planRow) TableName() string { return "mrp_plans" }

type orderRow struct {
	ID                 uint            `gorm:"primaryKey"`
	PlanID             string          `gorm:"size:64;index;not null"`
	Line               int             `gorm:"not null"`
	ProductID          string          `gorm:"size:64;not null"`
	FacilityID         string          `gorm:"size:64;not null"`
	Quantity           decimal.Decimal `gorm:"type:text;not null"`
	SuggestedStartDate time.Time       `gorm:"not null"`
	SuggestedDueDate   time.Time       `gorm:"not null"`
	OrderType          int             `gorm:"not null"`
	Status             int             `gorm:"not null"`
	Level              int             `gorm:"not null"`
	Clamped            bool
}

func (orderRow) TableName() string { return "mrp_planned_orders" }

type exceptionRow struct {
	ID        uint     `gorm:"primaryKey"`
	PlanID    string   `gorm:"size:64;index;not null"`
	Seq       int      `gorm:"not null"`
	Kind      string   `gorm:"size:32;not null"`
	ProductID string   `gorm:"size:64"`
	Message   string   `gorm:"type:text"`
	Path      []string `gorm:"serializer:json"`
}

func (exceptionRow) TableName() string { return "mrp_plan_exceptions" }

type changeRow struct {
	ID          uint            `gorm:"primaryKey"`
	PlanID      string          `gorm:"size:64;index;not null"`
	Seq         int             `gorm:"not null"`
	Kind        string          `gorm:"size:16;not null"`
	ProductID   string          `gorm:"size:64;not null"`
	DueDate     time.Time       `gorm:"not null"`
	OldQuantity decimal.Decimal `gorm:"type:text;not null"`
	NewQuantity decimal.Decimal `gorm:"type:text;not null"`
}

func (changeRow) TableName() string { return "mrp_plan_changes" }

func toPlanRow(plan *entities.MrpPlan) planRow {
	return planRow{
		PlanID:         plan.PlanID,
		FacilityID:     plan.FacilityID,
		Mode:           int(plan.Mode),
		HorizonStart:   plan.Horizon.Start,
		HorizonEnd:     plan.Horizon.End,
		BucketDays:     plan.BucketDays,
		GeneratedAt:    plan.GeneratedAt,
		PreviousPlanID: plan.PreviousPlanID,
	}
}

func toOrderRows(plan *entities.MrpPlan) []orderRow {
	rows := make([]orderRow, 0, len(plan.PlannedOrders))
	for _, order := range plan.PlannedOrders {
		rows = append(rows, orderRow{
			PlanID:             plan.PlanID,
			Line:               order.Line,
			ProductID:          order.ProductID,
			FacilityID:         order.FacilityID,
			Quantity:           order.Quantity,
			SuggestedStartDate: order.SuggestedStartDate,
			SuggestedDueDate:   order.SuggestedDueDate,
			OrderType:          int(order.OrderType),
			Status:             int(order.Status),
			Level:              order.Level,
			Clamped:            order.Clamped,
		})
	}
	return rows
}

func toExceptionRows(plan *entities.MrpPlan) []exceptionRow {
	rows := make([]exceptionRow, 0, len(plan.Exceptions))
	for i, exc := range plan.Exceptions {
		rows = append(rows, exceptionRow{
			PlanID:    plan.PlanID,
			Seq:       i,
			Kind:      string(exc.Kind),
			ProductID: exc.ProductID,
			Message:   exc.Message,
			Path:      exc.Path,
		})
	}
	return rows
}

func toChangeRows(plan *entities.MrpPlan) []changeRow {
	rows := make([]changeRow, 0, len(plan.Changes))
	for i, change := range plan.Changes {
		rows = append(rows, changeRow{
			PlanID:      plan.PlanID,
			Seq:         i,
			Kind:        string(change.Kind),
			ProductID:   change.ProductID,
			DueDate:     change.DueDate,
			OldQuantity: change.OldQuantity,
			NewQuantity: change.NewQuantity,
		})
	}
	return rows
}

func (r planRow) toEntity() *entities.MrpPlan {
	return &entities.MrpPlan{
		PlanID:     r.PlanID,
		FacilityID: r.FacilityID,
		Mode:       entities.RunMode(r.Mode),
		Horizon: entities.Horizon{
			Start: r.HorizonStart.UTC(),
			End:   r.HorizonEnd.UTC(),
		},
		BucketDays:     r.BucketDays,
		GeneratedAt:    r.GeneratedAt.UTC(),
		PreviousPlanID: r.PreviousPlanID,
		PlannedOrders:  []entities.PlannedOrder{},
		Exceptions:     []entities.PlanException{},
	}
}

func (r orderRow) toEntity() entities.PlannedOrder {
	return entities.PlannedOrder{
		Line:               r.Line,
		ProductID:          r.ProductID,
		FacilityID:         r.FacilityID,
		Quantity:           r.Quantity,
		SuggestedStartDate: r.SuggestedStartDate.UTC(),
		SuggestedDueDate:   r.SuggestedDueDate.UTC(),
		OrderType:          entities.OrderType(r.OrderType),
		Status:             entities.OrderStatus(r.Status),
		Level:              r.Level,
		Clamped:            r.Clamped,
	}
}

func (r exceptionRow) toEntity() entities.PlanException {
	return entities.PlanException{
		Kind:      entities.ExceptionKind(r.Kind),
		ProductID: r.ProductID,
		Message:   r.Message,
		Path:      r.Path,
	}
}

func (r changeRow) toEntity() entities.PlanChange {
	return entities.PlanChange{
		Kind:        entities.ChangeKind(r.Kind),
		ProductID:   r.ProductID,
		DueDate:     r.DueDate.UTC(),
		OldQuantity: r.OldQuantity,
		NewQuantity: r.NewQuantity,
	}
}
