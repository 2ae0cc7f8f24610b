package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/mrpcore/pkg/domain/entities"
	"github.com/vsinha/mrpcore/pkg/domain/repositories"
)

func TestPlanRepository_AppendOnlyHistory(t *testing.T) {
	repo := NewPlanRepository()
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	first := &entities.MrpPlan{PlanID: "plan-1", FacilityID: "F1", GeneratedAt: now}
	second := &entities.MrpPlan{
		PlanID:      "plan-2",
		FacilityID:  "F1",
		GeneratedAt: now.Add(time.Hour),
		PlannedOrders: []entities.PlannedOrder{
			{ProductID: "P", FacilityID: "F1", Quantity: decimal.NewFromInt(10)},
		},
	}
	other := &entities.MrpPlan{PlanID: "plan-3", FacilityID: "F2", GeneratedAt: now}

	for _, plan := range []*entities.MrpPlan{first, second, other} {
		if err := repo.Save(ctx, plan); err != nil {
			t.Fatalf("Failed to save %s: %v", plan.PlanID, err)
		}
	}

	latest, err := repo.Latest(ctx, "F1")
	if err != nil {
		t.Fatalf("Failed to get latest plan: %v", err)
	}
	if latest.PlanID != "plan-2" {
		t.Errorf("Expected latest plan-2, got %s", latest.PlanID)
	}

	history, err := repo.List(ctx, "F1")
	if err != nil {
		t.Fatalf("Failed to list plans: %v", err)
	}
	if len(history) != 2 || history[0].PlanID != "plan-1" {
		t.Errorf("Expected two F1 plans oldest first, got %d", len(history))
	}

	if err := repo.Save(ctx, first); err == nil {
		t.Error("Expected saving an existing plan id to fail")
	}
}

func TestPlanRepository_NotFound(t *testing.T) {
	repo := NewPlanRepository()

	_, err := repo.Latest(context.Background(), "F1")
	if !errors.Is(err, repositories.ErrPlanNotFound) {
		t.Errorf("Expected ErrPlanNotFound, got %v", err)
	}

	_, err = repo.Get(context.Background(), "missing")
	if !errors.Is(err, repositories.ErrPlanNotFound) {
		t.Errorf("Expected ErrPlanNotFound, got %v", err)
	}
}
