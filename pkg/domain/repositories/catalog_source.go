package repositories

import (
	"context"

	"github.com/vsinha/mrpcore/pkg/domain/entities"
)

// CatalogSource provides read-only access to product master data and component structure.
// Implementations return entities.ErrUnknownFacility for a facility they do not know.
type CatalogSource interface {
	GetProducts(ctx context.Context, facilityID string) ([]*entities.Product, error)
	GetComponentEdges(ctx context.Context, facilityID string) ([]*entities.ComponentEdge, error)
}
