package testing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/mrpcore/pkg/domain/entities"
	"github.com/vsinha/mrpcore/pkg/infrastructure/repositories/memory"
)

// Fixture is an in-memory facility with catalog, inventory and demand sources.
// Days are counted from the fixture's now.
type Fixture struct {
	FacilityID string
	Now        time.Time
	Catalog    *memory.CatalogRepository
	Inventory  *memory.InventoryRepository
	Demand     *memory.DemandRepository
}

// NewFixture creates an empty facility
func NewFixture(facilityID string, now time.Time) *Fixture {
	f := &Fixture{
		FacilityID: facilityID,
		Now:        now.UTC(),
		Catalog:    memory.NewCatalogRepository(),
		Inventory:  memory.NewInventoryRepository(),
		Demand:     memory.NewDemandRepository(),
	}
	f.Catalog.AddFacility(facilityID)
	return f
}

// Day returns the calendar day n days after now
func (f *Fixture) Day(n int) time.Time {
	return entities.AddDays(entities.Day(f.Now), n)
}

// LotForLot is the pass-through lot sizing policy
func LotForLot() *entities.LotSizingPolicy {
	return &entities.LotSizingPolicy{Rule: entities.LotForLot}
}

// FixedLot orders in multiples of size
func FixedLot(size int64) *entities.LotSizingPolicy {
	return &entities.LotSizingPolicy{Rule: entities.FixedQuantity, LotSize: decimal.NewFromInt(size)}
}

// AddProduct adds a product with a lead time, policy and safety stock
func (f *Fixture) AddProduct(id string, leadTimeDays int, policy *entities.LotSizingPolicy, safetyStock int64) *Fixture {
	f.Catalog.AddProduct(entities.Product{
		ID:           id,
		FacilityID:   f.FacilityID,
		Description:  id,
		LeadTimeDays: entities.Days(leadTimeDays),
		LotSizing:    policy,
		SafetyStock:  decimal.NewFromInt(safetyStock),
	})
	return f
}

// AddEdge links parent to child
func (f *Fixture) AddEdge(parent, child string, qtyPer int64) *Fixture {
	f.Catalog.AddEdge(f.FacilityID, entities.ComponentEdge{
		ParentID: parent,
		ChildID:  child,
		QtyPer:   decimal.NewFromInt(qtyPer),
	})
	return f
}

// AddSale adds sales demand due on day n
func (f *Fixture) AddSale(product string, qty int64, day int) *Fixture {
	f.Demand.AddDemand(entities.DemandEvent{
		ProductID:  product,
		FacilityID: f.FacilityID,
		Quantity:   decimal.NewFromInt(qty),
		DueDate:    f.Day(day),
		Kind:       entities.SalesOrder,
	})
	return f
}

// AddForecast adds forecast demand due on day n
func (f *Fixture) AddForecast(product string, qty int64, day int) *Fixture {
	f.Demand.AddDemand(entities.DemandEvent{
		ProductID:  product,
		FacilityID: f.FacilityID,
		Quantity:   decimal.NewFromInt(qty),
		DueDate:    f.Day(day),
		Kind:       entities.Forecast,
	})
	return f
}

// SetOnHand sets a product's on-hand balance
func (f *Fixture) SetOnHand(product string, qty int64) *Fixture {
	f.Inventory.SetOnHand(product, f.FacilityID, decimal.NewFromInt(qty))
	return f
}

// AddReceipt adds a scheduled receipt arriving on day n
func (f *Fixture) AddReceipt(product string, qty int64, day int, reference string) *Fixture {
	f.Inventory.AddReceipt(entities.SupplyEvent{
		ProductID:     product,
		FacilityID:    f.FacilityID,
		Quantity:      decimal.NewFromInt(qty),
		AvailableDate: f.Day(day),
		Reference:     reference,
	})
	return f
}

// BuildTwoLevelScenario is a product P built from two of component C, both
// with a five day lead time, and 10 of P due on day 20
func BuildTwoLevelScenario(facilityID string, now time.Time) *Fixture {
	return NewFixture(facilityID, now).
		AddProduct("P", 5, LotForLot(), 0).
		AddProduct("C", 5, LotForLot(), 0).
		AddEdge("P", "C", 2).
		AddSale("P", 10, 20)
}

// BuildDemoScenario is a small launch vehicle structure with shared
// components, stock, receipts, forecasts and mixed lot sizing
func BuildDemoScenario(facilityID string, now time.Time) *Fixture {
	f := NewFixture(facilityID, now)

	f.AddProduct("LAUNCHER", 30, LotForLot(), 0).
		AddProduct("STAGE_1", 20, LotForLot(), 0).
		AddProduct("STAGE_2", 15, LotForLot(), 0).
		AddProduct("ENGINE", 25, FixedLot(5), 2).
		AddProduct("TURBOPUMP", 10, LotForLot(), 0).
		AddProduct("VALVE", 5, &entities.LotSizingPolicy{
			Rule:      entities.MinMax,
			MinQty:    decimal.NewFromInt(20),
			MaxQty:    decimal.NewFromInt(100),
			Increment: decimal.NewFromInt(10),
		}, 10)

	f.AddEdge("LAUNCHER", "STAGE_1", 1).
		AddEdge("LAUNCHER", "STAGE_2", 1).
		AddEdge("STAGE_1", "ENGINE", 5).
		AddEdge("STAGE_2", "ENGINE", 1).
		AddEdge("ENGINE", "TURBOPUMP", 1).
		AddEdge("ENGINE", "VALVE", 12)

	f.AddSale("LAUNCHER", 1, 120).
		AddSale("LAUNCHER", 1, 150).
		AddForecast("LAUNCHER", 2, 150).
		AddSale("ENGINE", 2, 60)

	f.SetOnHand("ENGINE", 3).
		SetOnHand("VALVE", 40).
		AddReceipt("TURBOPUMP", 4, 30, "PO-1001")

	return f
}
