package snapshot

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/vsinha/mrpcore/pkg/domain/entities"
	"github.com/vsinha/mrpcore/pkg/domain/repositories"
	"github.com/vsinha/mrpcore/pkg/domain/services"
)

// Snapshot is the catalog of one facility frozen for the duration of a run.
// It has no mutators; everything handed out is a copy or read-only by contract.
type Snapshot struct {
	facilityID string
	horizon    entities.Horizon
	products   map[string]*entities.Product
	productIDs []string
	edges      []entities.ComponentEdge
	children   map[string][]entities.ComponentEdge
}

// Build reads products and component edges once and validates them.
// Edges whose effectivity misses the horizon entirely are dropped.
func Build(
	ctx context.Context,
	source repositories.CatalogSource,
	facilityID string,
	horizon entities.Horizon,
) (*Snapshot, error) {
	products, err := source.GetProducts(ctx, facilityID)
	if err != nil {
		if errors.Is(err, entities.ErrUnknownFacility) {
			return nil, err
		}
		return nil, &entities.CollectionError{Source: "products", Err: err}
	}

	if result := services.ValidateProductUniqueness(products); !result.Valid() {
		return nil, &entities.CollectionError{Source: "products", Err: result.Err()}
	}

	rawEdges, err := source.GetComponentEdges(ctx, facilityID)
	if err != nil {
		return nil, &entities.CollectionError{Source: "component edges", Err: err}
	}

	edges := make([]entities.ComponentEdge, 0, len(rawEdges))
	for _, edge := range rawEdges {
		edges = append(edges, *edge)
	}
	if result := services.ValidateEdges(edges); !result.Valid() {
		return nil, &entities.CollectionError{Source: "component edges", Err: result.Err()}
	}

	snap := &Snapshot{
		facilityID: facilityID,
		horizon:    horizon,
		products:   make(map[string]*entities.Product, len(products)),
		productIDs: make([]string, 0, len(products)),
		edges:      make([]entities.ComponentEdge, 0, len(edges)),
		children:   make(map[string][]entities.ComponentEdge),
	}

	for _, product := range products {
		snap.products[product.ID] = cloneProduct(product)
		snap.productIDs = append(snap.productIDs, product.ID)
	}
	sort.Strings(snap.productIDs)

	for _, edge := range edges {
		if !edge.Overlaps(horizon) {
			continue
		}
		snap.edges = append(snap.edges, edge)
		snap.children[edge.ParentID] = append(snap.children[edge.ParentID], edge)
	}
	for parent := range snap.children {
		sort.SliceStable(snap.children[parent], func(i, j int) bool {
			return snap.children[parent][i].ChildID < snap.children[parent][j].ChildID
		})
	}

	return snap, nil
}

// FacilityID returns the facility the snapshot was taken for
func (s *Snapshot) FacilityID() string {
	return s.facilityID
}

// Horizon returns the horizon used to filter edges
func (s *Snapshot) Horizon() entities.Horizon {
	return s.horizon
}

// Product returns a copy of the product, or false when the catalog does not contain it
func (s *Snapshot) Product(id string) (entities.Product, bool) {
	product, ok := s.products[id]
	if !ok {
		return entities.Product{}, false
	}
	return *cloneProduct(product), true
}

// Products returns all product ids in ascending order
func (s *Snapshot) Products() []string {
	ids := make([]string, len(s.productIDs))
	copy(ids, s.productIDs)
	return ids
}

// Edges returns the component edges effective somewhere in the horizon
func (s *Snapshot) Edges() []entities.ComponentEdge {
	edges := make([]entities.ComponentEdge, len(s.edges))
	copy(edges, s.edges)
	return edges
}

// ChildrenOf returns every edge below the product regardless of date
func (s *Snapshot) ChildrenOf(id string) []entities.ComponentEdge {
	children := s.children[id]
	out := make([]entities.ComponentEdge, len(children))
	copy(out, children)
	return out
}

// EffectiveChildren returns the edges below the product that apply on the date
func (s *Snapshot) EffectiveChildren(id string, date time.Time) []entities.ComponentEdge {
	var out []entities.ComponentEdge
	for _, edge := range s.children[id] {
		if edge.EffectiveAt(date) {
			out = append(out, edge)
		}
	}
	return out
}

// HasComponents reports whether the product has any component in the horizon
func (s *Snapshot) HasComponents(id string) bool {
	return len(s.children[id]) > 0
}

// OrderTypeFor derives whether orders for the product are built or bought
func (s *Snapshot) OrderTypeFor(id string) entities.OrderType {
	if product, ok := s.products[id]; ok {
		switch product.Procurement {
		case entities.ProcurementMake:
			return entities.Production
		case entities.ProcurementBuy:
			return entities.Purchase
		}
	}
	if s.HasComponents(id) {
		return entities.Production
	}
	return entities.Purchase
}

// cloneProduct copies the product including the values behind its pointer fields
func cloneProduct(product *entities.Product) *entities.Product {
	copied := *product
	if product.LeadTimeDays != nil {
		days := *product.LeadTimeDays
		copied.LeadTimeDays = &days
	}
	if product.LotSizing != nil {
		policy := *product.LotSizing
		copied.LotSizing = &policy
	}
	return &copied
}

// String summarizes the snapshot for logs
func (s *Snapshot) String() string {
	return fmt.Sprintf("snapshot %s: %d products, %d edges, horizon %s",
		s.facilityID, len(s.productIDs), len(s.edges), s.horizon)
}
