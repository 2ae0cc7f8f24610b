package repositories

import (
	"context"

	"github.com/vsinha/mrpcore/pkg/domain/entities"
)

// DemandSource provides independent demand for a facility
type DemandSource interface {
	GetSalesDemand(ctx context.Context, facilityID string, horizon entities.Horizon) ([]*entities.DemandEvent, error)
	GetForecast(ctx context.Context, facilityID string, horizon entities.Horizon) ([]*entities.DemandEvent, error)
}
