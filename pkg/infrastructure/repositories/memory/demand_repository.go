package memory

import (
	"context"
	"sync"

	"github.com/vsinha/mrpcore/pkg/domain/entities"
	"github.com/vsinha/mrpcore/pkg/domain/repositories"
)

// DemandRepository provides in-memory sales demand and forecast storage
type DemandRepository struct {
	mu       sync.RWMutex
	sales    []entities.DemandEvent
	forecast []entities.DemandEvent
	failWith error
}

// NewDemandRepository creates a new in-memory demand repository
func NewDemandRepository() *DemandRepository {
	return &DemandRepository{
		sales:    []entities.DemandEvent{},
		forecast: []entities.DemandEvent{},
	}
}

// Verify interface compliance
var _ repositories.DemandSource = (*DemandRepository)(nil)

// AddDemand stores a demand event; forecasts and sales are kept apart
func (r *DemandRepository) AddDemand(demand entities.DemandEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if demand.Kind == entities.Forecast {
		r.forecast = append(r.forecast, demand)
		return
	}
	demand.Kind = entities.SalesOrder
	r.sales = append(r.sales, demand)
}

// LoadDemands loads demands into the repository
func (r *DemandRepository) LoadDemands(demands []*entities.DemandEvent) error {
	for _, demand := range demands {
		r.AddDemand(*demand)
	}
	return nil
}

// FailWith makes every subsequent read return err; nil restores normal reads
func (r *DemandRepository) FailWith(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failWith = err
}

// GetSalesDemand returns sales demand due before the horizon end
func (r *DemandRepository) GetSalesDemand(
	ctx context.Context,
	facilityID string,
	horizon entities.Horizon,
) ([]*entities.DemandEvent, error) {
	return r.filter(r.sales, facilityID, horizon)
}

// GetForecast returns forecast demand due before the horizon end
func (r *DemandRepository) GetForecast(
	ctx context.Context,
	facilityID string,
	horizon entities.Horizon,
) ([]*entities.DemandEvent, error) {
	return r.filter(r.forecast, facilityID, horizon)
}

func (r *DemandRepository) filter(
	events []entities.DemandEvent,
	facilityID string,
	horizon entities.Horizon,
) ([]*entities.DemandEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.failWith != nil {
		return nil, r.failWith
	}

	var demands []*entities.DemandEvent
	for _, demand := range events {
		if demand.FacilityID != facilityID || !demand.DueDate.Before(horizon.End) {
			continue
		}
		copied := demand
		demands = append(demands, &copied)
	}
	return demands, nil
}
