package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/vsinha/mrpcore/pkg/domain/entities"
)

func TestCatalogRepository_ScopesByFacility(t *testing.T) {
	repo := NewCatalogRepository()
	repo.AddProduct(entities.Product{ID: "P", FacilityID: "F1"})
	repo.AddProduct(entities.Product{ID: "Q", FacilityID: "F2"})
	repo.AddEdge("F1", entities.ComponentEdge{ParentID: "P", ChildID: "C", QtyPer: decimal.NewFromInt(2)})

	products, err := repo.GetProducts(context.Background(), "F1")
	if err != nil {
		t.Fatalf("Failed to get products: %v", err)
	}
	if len(products) != 1 || products[0].ID != "P" {
		t.Errorf("Expected only product P for F1, got %v", products)
	}

	edges, err := repo.GetComponentEdges(context.Background(), "F2")
	if err != nil {
		t.Fatalf("Failed to get edges: %v", err)
	}
	if len(edges) != 0 {
		t.Errorf("Expected no edges for F2, got %d", len(edges))
	}
}

func TestCatalogRepository_UnknownFacility(t *testing.T) {
	repo := NewCatalogRepository()

	_, err := repo.GetProducts(context.Background(), "NOWHERE")
	if !errors.Is(err, entities.ErrUnknownFacility) {
		t.Errorf("Expected ErrUnknownFacility, got %v", err)
	}
}

func TestCatalogRepository_ReturnsCopies(t *testing.T) {
	repo := NewCatalogRepository()
	repo.AddProduct(entities.Product{ID: "P", FacilityID: "F1", Description: "original"})

	products, _ := repo.GetProducts(context.Background(), "F1")
	products[0].Description = "changed"

	again, _ := repo.GetProducts(context.Background(), "F1")
	if again[0].Description != "original" {
		t.Errorf("Expected stored product to be unaffected, got %q", again[0].Description)
	}
}
