package netting

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/mrpcore/pkg/application/snapshot"
	"github.com/vsinha/mrpcore/pkg/domain/entities"
)

// Config holds the run-wide netting parameters
type Config struct {
	Now        time.Time
	Horizon    entities.Horizon
	BucketDays int
}

// Result is the outcome of netting one product
type Result struct {
	ProductID     string
	PlannedOrders []entities.PlannedOrder
	PlannedSupply []entities.SupplyEvent
	Exceptions    []entities.PlanException
}

// Engine nets one product at a time against a catalog snapshot.
// It holds no mutable state, so one engine may serve concurrent workers.
type Engine struct {
	snap   *snapshot.Snapshot
	config Config
}

// NewEngine creates a netting engine
func NewEngine(snap *snapshot.Snapshot, config Config) *Engine {
	if config.BucketDays < 1 {
		config.BucketDays = 1
	}
	return &Engine{snap: snap, config: config}
}

// Net walks the product's buckets in date order, keeping a running projected
// balance, and plans orders wherever a bucket with gross demand would end below
// the safety stock target. Events for other products are ignored.
func (e *Engine) Net(
	productID, facilityID string,
	demand []entities.DemandEvent,
	supply []entities.SupplyEvent,
) Result {
	result := Result{ProductID: productID}

	demand = eventsFor(productID, demand)
	supply = suppliesFor(productID, supply)
	if !hasGrossDemand(demand) {
		return result
	}

	product, leadTime, policy, err := e.policyFor(productID)
	if err != nil {
		result.Exceptions = append(result.Exceptions, entities.ExceptionFromError(err))
		return result
	}

	target := safetyTarget(product, demand)
	orderType := e.snap.OrderTypeFor(productID)
	today := entities.Day(e.config.Now)

	balance := decimal.Zero
	for _, b := range bucketize(e.config.Horizon, e.config.BucketDays, demand, supply) {
		balance = balance.Add(b.supply).Sub(b.gross)
		if !b.hasDemand || !balance.LessThan(target) {
			continue
		}

		net := target.Sub(balance)
		for _, qty := range ApplyLotSizing(net, policy) {
			start := entities.AddDays(b.date, -leadTime)
			clamped := false
			if start.Before(today) {
				result.Exceptions = append(result.Exceptions, entities.ExceptionFromError(&entities.LeadTimeViolation{
					ProductID:     productID,
					DueDate:       b.date,
					ComputedStart: start,
					ClampedStart:  today,
				}))
				start = today
				clamped = true
			}

			order, err := entities.NewPlannedOrder(productID, facilityID, qty, start, b.date, orderType)
			if err != nil {
				// Only reachable with a due date before now, which bucketing rules out
				continue
			}
			order.Clamped = clamped

			result.PlannedOrders = append(result.PlannedOrders, *order)
			result.PlannedSupply = append(result.PlannedSupply, order.AsSupply())
			balance = balance.Add(qty)
		}
	}

	return result
}

// policyFor resolves the planning data netting needs, or a MissingPolicyError
func (e *Engine) policyFor(productID string) (entities.Product, int, entities.LotSizingPolicy, error) {
	product, ok := e.snap.Product(productID)
	if !ok {
		return product, 0, entities.LotSizingPolicy{}, &entities.MissingPolicyError{
			ProductID: productID,
			Missing:   []string{"catalog entry"},
		}
	}

	var missing []string
	leadTime, hasLeadTime := product.LeadTime()
	if !hasLeadTime {
		missing = append(missing, "lead time")
	}
	if product.LotSizing == nil {
		missing = append(missing, "lot sizing policy")
	}
	if len(missing) > 0 {
		return product, 0, entities.LotSizingPolicy{}, &entities.MissingPolicyError{ProductID: productID, Missing: missing}
	}

	return product, leadTime, *product.LotSizing, nil
}

func eventsFor(productID string, demand []entities.DemandEvent) []entities.DemandEvent {
	out := make([]entities.DemandEvent, 0, len(demand))
	for _, event := range demand {
		if event.ProductID == productID {
			out = append(out, event)
		}
	}
	return out
}

func suppliesFor(productID string, supply []entities.SupplyEvent) []entities.SupplyEvent {
	out := make([]entities.SupplyEvent, 0, len(supply))
	for _, event := range supply {
		if event.ProductID == productID {
			out = append(out, event)
		}
	}
	return out
}

func hasGrossDemand(demand []entities.DemandEvent) bool {
	for _, event := range demand {
		if event.IsGross() && event.Quantity.IsPositive() {
			return true
		}
	}
	return false
}
