package collector

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vsinha/mrpcore/pkg/application/snapshot"
	"github.com/vsinha/mrpcore/pkg/domain/entities"
	"github.com/vsinha/mrpcore/pkg/domain/repositories"
)

// ForecastConsumption controls how forecast and sales demand combine
type ForecastConsumption int

const (
	// ConsumeMax lets sales consume forecast in the same bucket, so gross demand is max(sales, forecast)
	ConsumeMax ForecastConsumption = iota
	// ConsumeNone nets sales and forecast as independent demand
	ConsumeNone
)

// String method for ForecastConsumption enum
func (f ForecastConsumption) String() string {
	switch f {
	case ConsumeMax:
		return "max"
	case ConsumeNone:
		return "none"
	default:
		return "unknown"
	}
}

// ParseForecastConsumption parses the configured consumption mode
func ParseForecastConsumption(s string) (ForecastConsumption, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "max":
		return ConsumeMax, nil
	case "none":
		return ConsumeNone, nil
	default:
		return ConsumeMax, fmt.Errorf("unknown forecast consumption %q", s)
	}
}

// Config holds collector settings
type Config struct {
	BucketDays          int
	ForecastConsumption ForecastConsumption
}

// Collector merges demand and supply from the configured sources into events
type Collector struct {
	demand    repositories.DemandSource
	inventory repositories.InventorySource
	config    Config
	logger    *zap.Logger
}

// NewCollector creates a collector reading from the given sources
func NewCollector(
	demand repositories.DemandSource,
	inventory repositories.InventorySource,
	config Config,
	logger *zap.Logger,
) *Collector {
	if config.BucketDays < 1 {
		config.BucketDays = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collector{
		demand:    demand,
		inventory: inventory,
		config:    config,
		logger:    logger,
	}
}

// Collect returns the facility's demand and supply events inside the horizon.
// Overdue events move to the horizon start and events past the end are dropped.
// Any source failure aborts collection with a *entities.CollectionError.
func (c *Collector) Collect(
	ctx context.Context,
	snap *snapshot.Snapshot,
	facilityID string,
	horizon entities.Horizon,
) ([]entities.DemandEvent, []entities.SupplyEvent, error) {
	demand, err := c.collectDemand(ctx, snap, facilityID, horizon)
	if err != nil {
		return nil, nil, err
	}

	supply, err := c.collectSupply(ctx, snap, facilityID, horizon)
	if err != nil {
		return nil, nil, err
	}

	c.logger.Debug("collected planning events",
		zap.String("facility_id", facilityID),
		zap.Int("demand_events", len(demand)),
		zap.Int("supply_events", len(supply)))

	return demand, supply, nil
}

func (c *Collector) collectDemand(
	ctx context.Context,
	snap *snapshot.Snapshot,
	facilityID string,
	horizon entities.Horizon,
) ([]entities.DemandEvent, error) {
	rawSales, err := c.demand.GetSalesDemand(ctx, facilityID, horizon)
	if err != nil {
		return nil, &entities.CollectionError{Source: "sales demand", Err: err}
	}
	sales, err := normalizeDemand(rawSales, entities.SalesOrder, facilityID, horizon)
	if err != nil {
		return nil, &entities.CollectionError{Source: "sales demand", Err: err}
	}

	rawForecast, err := c.demand.GetForecast(ctx, facilityID, horizon)
	if err != nil {
		return nil, &entities.CollectionError{Source: "forecast", Err: err}
	}
	forecast, err := normalizeDemand(rawForecast, entities.Forecast, facilityID, horizon)
	if err != nil {
		return nil, &entities.CollectionError{Source: "forecast", Err: err}
	}

	if c.config.ForecastConsumption == ConsumeMax {
		forecast = c.consumeForecast(sales, forecast, horizon)
	}

	demand := make([]entities.DemandEvent, 0, len(sales)+len(forecast))
	demand = append(demand, sales...)
	demand = append(demand, forecast...)

	for _, id := range snap.Products() {
		product, _ := snap.Product(id)
		if !product.SafetyStock.IsPositive() {
			continue
		}
		demand = append(demand, entities.DemandEvent{
			ProductID:  id,
			FacilityID: facilityID,
			Quantity:   product.SafetyStock,
			DueDate:    horizon.Start,
			Kind:       entities.SafetyStockTarget,
			Reference:  "safety-stock",
		})
	}

	sort.SliceStable(demand, func(i, j int) bool {
		if demand[i].ProductID != demand[j].ProductID {
			return demand[i].ProductID < demand[j].ProductID
		}
		if !demand[i].DueDate.Equal(demand[j].DueDate) {
			return demand[i].DueDate.Before(demand[j].DueDate)
		}
		return demand[i].Kind < demand[j].Kind
	})
	return demand, nil
}

// normalizeDemand keeps the facility's events, pulls overdue ones to the
// horizon start and drops those past its end
func normalizeDemand(
	raw []*entities.DemandEvent,
	kind entities.DemandKind,
	facilityID string,
	horizon entities.Horizon,
) ([]entities.DemandEvent, error) {
	events := make([]entities.DemandEvent, 0, len(raw))
	for _, event := range raw {
		if event.FacilityID != facilityID {
			continue
		}
		if event.Quantity.IsNegative() {
			return nil, fmt.Errorf("demand for %s due %s has negative quantity %s",
				event.ProductID, event.DueDate.Format(entities.DateLayout), event.Quantity)
		}
		due := entities.Day(event.DueDate)
		if !due.Before(horizon.End) {
			continue
		}
		if due.Before(horizon.Start) {
			due = horizon.Start
		}
		normalized := *event
		normalized.DueDate = due
		normalized.Kind = kind
		events = append(events, normalized)
	}
	return events, nil
}

type bucketKey struct {
	productID string
	bucket    int
}

// consumeForecast reduces forecast by the sales demand falling in the same
// product bucket, earliest forecast first
func (c *Collector) consumeForecast(
	sales, forecast []entities.DemandEvent,
	horizon entities.Horizon,
) []entities.DemandEvent {
	booked := make(map[bucketKey]decimal.Decimal)
	for _, event := range sales {
		key := bucketKey{event.ProductID, horizon.BucketIndex(event.DueDate, c.config.BucketDays)}
		booked[key] = booked[key].Add(event.Quantity)
	}

	sorted := make([]entities.DemandEvent, len(forecast))
	copy(sorted, forecast)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].DueDate.Before(sorted[j].DueDate)
	})

	remaining := make([]entities.DemandEvent, 0, len(sorted))
	for _, event := range sorted {
		key := bucketKey{event.ProductID, horizon.BucketIndex(event.DueDate, c.config.BucketDays)}
		consumed := decimal.Min(booked[key], event.Quantity)
		booked[key] = booked[key].Sub(consumed)

		left := event.Quantity.Sub(consumed)
		if !left.IsPositive() {
			continue
		}
		event.Quantity = left
		remaining = append(remaining, event)
	}
	return remaining
}

func (c *Collector) collectSupply(
	ctx context.Context,
	snap *snapshot.Snapshot,
	facilityID string,
	horizon entities.Horizon,
) ([]entities.SupplyEvent, error) {
	supply := make([]entities.SupplyEvent, 0)

	for _, id := range snap.Products() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		onHand, err := c.inventory.GetOnHand(ctx, id, facilityID)
		if err != nil {
			return nil, &entities.CollectionError{Source: "on-hand inventory", Err: err}
		}
		if onHand.IsNegative() {
			return nil, &entities.CollectionError{
				Source: "on-hand inventory",
				Err:    fmt.Errorf("product %s has negative on-hand %s", id, onHand),
			}
		}
		if onHand.IsPositive() {
			supply = append(supply, entities.SupplyEvent{
				ProductID:     id,
				FacilityID:    facilityID,
				Quantity:      onHand,
				AvailableDate: horizon.Start,
				Kind:          entities.OnHand,
				Reference:     "on-hand",
			})
		}

		receipts, err := c.inventory.GetScheduledReceipts(ctx, id, facilityID, horizon)
		if err != nil {
			return nil, &entities.CollectionError{Source: "scheduled receipts", Err: err}
		}
		for _, receipt := range receipts {
			if receipt.Quantity.IsNegative() {
				return nil, &entities.CollectionError{
					Source: "scheduled receipts",
					Err:    fmt.Errorf("receipt %q for %s has negative quantity %s", receipt.Reference, id, receipt.Quantity),
				}
			}
			available := entities.Day(receipt.AvailableDate)
			if !available.Before(horizon.End) {
				continue
			}
			if available.Before(horizon.Start) {
				available = horizon.Start
			}
			normalized := *receipt
			normalized.ProductID = id
			normalized.FacilityID = facilityID
			normalized.AvailableDate = available
			normalized.Kind = entities.ScheduledReceipt
			supply = append(supply, normalized)
		}
	}

	return supply, nil
}
