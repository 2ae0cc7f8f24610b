package main

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vsinha/mrpcore/pkg/application/services/collector"
	"github.com/vsinha/mrpcore/pkg/application/services/orchestration"
	"github.com/vsinha/mrpcore/pkg/domain/entities"
	"github.com/vsinha/mrpcore/pkg/infrastructure/events"
	"github.com/vsinha/mrpcore/pkg/infrastructure/lock"
	"github.com/vsinha/mrpcore/pkg/infrastructure/repositories/memory"
)

func main() {
	ctx := context.Background()
	logger := zap.NewNop()
	today := entities.Day(time.Now())

	// Create repositories
	catalog := memory.NewCatalogRepository()
	inventory := memory.NewInventoryRepository()
	demand := memory.NewDemandRepository()

	// Set up a simple rocket engine structure
	setupRocketEngine(catalog, inventory)

	demand.AddDemand(entities.DemandEvent{
		ProductID:  "ROCKET_ENGINE",
		FacilityID: "PAD_39A",
		Quantity:   decimal.NewFromInt(9), // 9 engines for first stage
		DueDate:    today.AddDate(0, 0, 60),
		Kind:       entities.SalesOrder,
		Reference:  "MISSION_MARS_001",
	})

	orchestrator := orchestration.NewOrchestrator(orchestration.Dependencies{
		Catalog:   catalog,
		Collector: collector.NewCollector(demand, inventory, collector.Config{BucketDays: 1}, logger),
		Plans:     memory.NewPlanRepository(),
		Publisher: events.NewInMemoryEventStore(logger),
		Logger:    logger,
	}, orchestration.Config{BucketDays: 1, Workers: 4})
	runner := orchestration.NewRunner(orchestrator, lock.NewMemoryGuard(), logger)

	fmt.Println("🚀 Running MRP for Mars Mission...")
	result := runner.RunPlan(ctx, "PAD_39A", 90, "regenerate")
	if !result.Code.Succeeded() {
		fmt.Printf("❌ MRP failed (%s): %s\n", result.Code, result.Message)
		return
	}

	fmt.Printf("✅ Plan %s: %d planned orders\n\n", result.Plan.PlanID, len(result.Plan.PlannedOrders))
	for _, order := range result.Plan.PlannedOrders {
		fmt.Printf("  L%d %-15s %6s  start %s  due %s  %s\n",
			order.Level,
			order.ProductID,
			order.Quantity.String(),
			order.SuggestedStartDate.Format(entities.DateLayout),
			order.SuggestedDueDate.Format(entities.DateLayout),
			order.OrderType)
	}
	for _, exc := range result.Exceptions {
		fmt.Printf("  ⚠️  %s: %s\n", exc.Kind, exc.Message)
	}
}

func setupRocketEngine(catalog *memory.CatalogRepository, inventory *memory.InventoryRepository) {
	lfl := &entities.LotSizingPolicy{Rule: entities.LotForLot}
	products := []entities.Product{
		{ID: "ROCKET_ENGINE", LeadTimeDays: entities.Days(20), LotSizing: lfl, Procurement: entities.ProcurementMake},
		{ID: "COMBUSTION_CHAMBER", LeadTimeDays: entities.Days(15), LotSizing: lfl},
		{ID: "TURBOPUMP", LeadTimeDays: entities.Days(12), LotSizing: lfl},
		{
			ID:           "INJECTOR_PLATE",
			LeadTimeDays: entities.Days(7),
			LotSizing:    &entities.LotSizingPolicy{Rule: entities.FixedQuantity, LotSize: decimal.NewFromInt(10)},
		},
		{ID: "BOLT_M12", LeadTimeDays: entities.Days(3), LotSizing: lfl, SafetyStock: decimal.NewFromInt(100)},
	}
	for _, product := range products {
		product.FacilityID = "PAD_39A"
		product.Description = product.ID
		catalog.AddProduct(product)
	}

	edges := []entities.ComponentEdge{
		{ParentID: "ROCKET_ENGINE", ChildID: "COMBUSTION_CHAMBER", QtyPer: decimal.NewFromInt(1)},
		{ParentID: "ROCKET_ENGINE", ChildID: "TURBOPUMP", QtyPer: decimal.NewFromInt(1)},
		{ParentID: "COMBUSTION_CHAMBER", ChildID: "INJECTOR_PLATE", QtyPer: decimal.NewFromInt(1)},
		{ParentID: "COMBUSTION_CHAMBER", ChildID: "BOLT_M12", QtyPer: decimal.NewFromInt(24)},
		{ParentID: "TURBOPUMP", ChildID: "BOLT_M12", QtyPer: decimal.NewFromInt(16)},
	}
	for _, edge := range edges {
		catalog.AddEdge("PAD_39A", edge)
	}

	inventory.SetOnHand("TURBOPUMP", "PAD_39A", decimal.NewFromInt(2))
	inventory.SetOnHand("BOLT_M12", "PAD_39A", decimal.NewFromInt(500))
}
