package snapshot

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/mrpcore/pkg/domain/entities"
	"github.com/vsinha/mrpcore/pkg/infrastructure/repositories/memory"
)

var start = time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

func horizon(t *testing.T) entities.Horizon {
	h, err := entities.NewHorizon(start, 60)
	require.NoError(t, err)
	return h
}

func catalog() *memory.CatalogRepository {
	repo := memory.NewCatalogRepository()
	for _, id := range []string{"P", "C", "R", "OLD"} {
		repo.AddProduct(entities.Product{ID: id, FacilityID: "F1"})
	}
	repo.AddEdge("F1", entities.ComponentEdge{ParentID: "P", ChildID: "R", QtyPer: decimal.NewFromInt(1)})
	repo.AddEdge("F1", entities.ComponentEdge{ParentID: "P", ChildID: "C", QtyPer: decimal.NewFromInt(2)})
	// Expired before the horizon starts
	repo.AddEdge("F1", entities.ComponentEdge{
		ParentID:    "P",
		ChildID:     "OLD",
		QtyPer:      decimal.NewFromInt(1),
		EffectiveTo: start.AddDate(0, 0, -1),
	})
	// Switches in halfway through the horizon
	repo.AddEdge("F1", entities.ComponentEdge{
		ParentID:      "C",
		ChildID:       "R",
		QtyPer:        decimal.NewFromInt(3),
		EffectiveFrom: start.AddDate(0, 0, 30),
	})
	return repo
}

func TestBuild_FiltersEdgesToHorizon(t *testing.T) {
	snap, err := Build(context.Background(), catalog(), "F1", horizon(t))
	require.NoError(t, err)

	assert.Equal(t, []string{"C", "OLD", "P", "R"}, snap.Products())
	assert.Len(t, snap.Edges(), 3)

	children := snap.ChildrenOf("P")
	require.Len(t, children, 2)
	assert.Equal(t, "C", children[0].ChildID)
	assert.Equal(t, "R", children[1].ChildID)

	assert.True(t, snap.HasComponents("C"))
	assert.False(t, snap.HasComponents("R"))
}

func TestBuild_EffectiveChildrenByDate(t *testing.T) {
	snap, err := Build(context.Background(), catalog(), "F1", horizon(t))
	require.NoError(t, err)

	assert.Empty(t, snap.EffectiveChildren("C", start.AddDate(0, 0, 10)))
	assert.Len(t, snap.EffectiveChildren("C", start.AddDate(0, 0, 30)), 1)
}

func TestBuild_OrderTypeDerivation(t *testing.T) {
	repo := catalog()
	repo.AddProduct(entities.Product{ID: "BOUGHT_ASSY", FacilityID: "F1", Procurement: entities.ProcurementBuy})
	repo.AddEdge("F1", entities.ComponentEdge{ParentID: "BOUGHT_ASSY", ChildID: "R", QtyPer: decimal.NewFromInt(1)})

	snap, err := Build(context.Background(), repo, "F1", horizon(t))
	require.NoError(t, err)

	assert.Equal(t, entities.Production, snap.OrderTypeFor("P"))
	assert.Equal(t, entities.Purchase, snap.OrderTypeFor("R"))
	assert.Equal(t, entities.Purchase, snap.OrderTypeFor("BOUGHT_ASSY"))
}

func TestBuild_ProductIsACopy(t *testing.T) {
	snap, err := Build(context.Background(), catalog(), "F1", horizon(t))
	require.NoError(t, err)

	product, ok := snap.Product("P")
	require.True(t, ok)
	product.Description = "mutated"

	again, _ := snap.Product("P")
	assert.Empty(t, again.Description)

	_, ok = snap.Product("MISSING")
	assert.False(t, ok)
}

func TestBuild_ProductPointerFieldsAreCopied(t *testing.T) {
	lead := 5
	policy := &entities.LotSizingPolicy{Rule: entities.FixedQuantity, LotSize: decimal.NewFromInt(50)}
	repo := memory.NewCatalogRepository()
	repo.AddProduct(entities.Product{ID: "P", FacilityID: "F1", LeadTimeDays: &lead, LotSizing: policy})

	snap, err := Build(context.Background(), repo, "F1", horizon(t))
	require.NoError(t, err)

	// The source catalog changes after the snapshot was taken
	lead = 9
	policy.Rule = entities.LotForLot

	product, ok := snap.Product("P")
	require.True(t, ok)
	require.NotNil(t, product.LeadTimeDays)
	require.NotNil(t, product.LotSizing)
	assert.Equal(t, 5, *product.LeadTimeDays)
	assert.Equal(t, entities.FixedQuantity, product.LotSizing.Rule)

	// Callers cannot reach back into the snapshot either
	*product.LeadTimeDays = 1
	product.LotSizing.LotSize = decimal.NewFromInt(1)

	again, _ := snap.Product("P")
	assert.Equal(t, 5, *again.LeadTimeDays)
	assert.True(t, again.LotSizing.LotSize.Equal(decimal.NewFromInt(50)))
}

func TestBuild_Errors(t *testing.T) {
	t.Run("unknown facility", func(t *testing.T) {
		_, err := Build(context.Background(), catalog(), "NOWHERE", horizon(t))
		assert.ErrorIs(t, err, entities.ErrUnknownFacility)
	})

	t.Run("source failure", func(t *testing.T) {
		repo := catalog()
		repo.FailWith(errors.New("connection reset"))

		_, err := Build(context.Background(), repo, "F1", horizon(t))

		var collection *entities.CollectionError
		require.ErrorAs(t, err, &collection)
		assert.Equal(t, "products", collection.Source)
	})

	t.Run("invalid edge", func(t *testing.T) {
		repo := catalog()
		repo.AddEdge("F1", entities.ComponentEdge{ParentID: "P", ChildID: "P", QtyPer: decimal.NewFromInt(1)})

		_, err := Build(context.Background(), repo, "F1", horizon(t))

		var collection *entities.CollectionError
		require.ErrorAs(t, err, &collection)
		assert.Equal(t, "component edges", collection.Source)
	})
}
