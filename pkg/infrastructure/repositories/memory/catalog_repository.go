package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/vsinha/mrpcore/pkg/domain/entities"
	"github.com/vsinha/mrpcore/pkg/domain/repositories"
)

type facilityCatalog struct {
	products []entities.Product
	edges    []entities.ComponentEdge
}

// CatalogRepository provides in-memory product and component storage keyed by facility
type CatalogRepository struct {
	mu         sync.RWMutex
	facilities map[string]*facilityCatalog
	failWith   error
}

// NewCatalogRepository creates a new in-memory catalog repository
func NewCatalogRepository() *CatalogRepository {
	return &CatalogRepository{
		facilities: make(map[string]*facilityCatalog),
	}
}

// Verify interface compliance
var _ repositories.CatalogSource = (*CatalogRepository)(nil)

// AddFacility registers a facility with an empty catalog
func (r *CatalogRepository) AddFacility(facilityID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.facility(facilityID)
}

func (r *CatalogRepository) facility(facilityID string) *facilityCatalog {
	catalog, exists := r.facilities[facilityID]
	if !exists {
		catalog = &facilityCatalog{}
		r.facilities[facilityID] = catalog
	}
	return catalog
}

// AddProduct adds a product to its facility's catalog
func (r *CatalogRepository) AddProduct(product entities.Product) {
	r.mu.Lock()
	defer r.mu.Unlock()
	catalog := r.facility(product.FacilityID)
	catalog.products = append(catalog.products, product)
}

// AddEdge adds a component edge to a facility's catalog
func (r *CatalogRepository) AddEdge(facilityID string, edge entities.ComponentEdge) {
	r.mu.Lock()
	defer r.mu.Unlock()
	catalog := r.facility(facilityID)
	catalog.edges = append(catalog.edges, edge)
}

// LoadProducts loads products into the repository
func (r *CatalogRepository) LoadProducts(products []*entities.Product) error {
	for _, product := range products {
		r.AddProduct(*product)
	}
	return nil
}

// LoadEdges loads component edges for one facility
func (r *CatalogRepository) LoadEdges(facilityID string, edges []*entities.ComponentEdge) error {
	for _, edge := range edges {
		r.AddEdge(facilityID, *edge)
	}
	return nil
}

// FailWith makes every subsequent read return err; nil restores normal reads
func (r *CatalogRepository) FailWith(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failWith = err
}

// GetProducts returns the products of a facility
func (r *CatalogRepository) GetProducts(ctx context.Context, facilityID string) ([]*entities.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.failWith != nil {
		return nil, r.failWith
	}
	catalog, exists := r.facilities[facilityID]
	if !exists {
		return nil, fmt.Errorf("%w: %s", entities.ErrUnknownFacility, facilityID)
	}

	products := make([]*entities.Product, 0, len(catalog.products))
	for i := range catalog.products {
		product := catalog.products[i]
		products = append(products, &product)
	}
	return products, nil
}

// GetComponentEdges returns the component edges of a facility
func (r *CatalogRepository) GetComponentEdges(ctx context.Context, facilityID string) ([]*entities.ComponentEdge, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.failWith != nil {
		return nil, r.failWith
	}
	catalog, exists := r.facilities[facilityID]
	if !exists {
		return nil, fmt.Errorf("%w: %s", entities.ErrUnknownFacility, facilityID)
	}

	edges := make([]*entities.ComponentEdge, 0, len(catalog.edges))
	for i := range catalog.edges {
		edge := catalog.edges[i]
		edges = append(edges, &edge)
	}
	return edges, nil
}
