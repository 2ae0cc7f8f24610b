package entities

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestProduct_Validation(t *testing.T) {
	policy := &LotSizingPolicy{Rule: LotForLot}

	validProduct, err := NewProduct("PART123", "PLANT1", "Test Part", Days(10), policy, decimal.Zero, ProcurementMake)
	if err != nil {
		t.Fatalf("Expected valid product creation to succeed: %v", err)
	}
	if lt, ok := validProduct.LeadTime(); !ok || lt != 10 {
		t.Errorf("Expected lead time 10, got %d (set=%v)", lt, ok)
	}

	testCases := []struct {
		name        string
		id          string
		facility    string
		leadTime    *int
		policy      *LotSizingPolicy
		safetyStock decimal.Decimal
		expectError string
	}{
		{"empty id", "", "PLANT1", Days(1), policy, decimal.Zero, "product id cannot be empty"},
		{"empty facility", "PART", "", Days(1), policy, decimal.Zero, "facility id cannot be empty"},
		{"negative lead time", "PART", "PLANT1", Days(-1), policy, decimal.Zero, "lead time cannot be negative, got -1"},
		{
			"negative safety stock",
			"PART",
			"PLANT1",
			Days(1),
			policy,
			decimal.NewFromInt(-1),
			"safety stock cannot be negative, got -1",
		},
		{
			"fixed lot without size",
			"PART",
			"PLANT1",
			Days(1),
			&LotSizingPolicy{Rule: FixedQuantity},
			decimal.Zero,
			"fixed quantity lot size must be positive, got 0",
		},
		{
			"max below min",
			"PART",
			"PLANT1",
			Days(1),
			&LotSizingPolicy{Rule: MinMax, MinQty: decimal.NewFromInt(10), MaxQty: decimal.NewFromInt(5)},
			decimal.Zero,
			"maximum quantity (5) cannot be less than minimum quantity (10)",
		},
		{
			"max below increment",
			"PART",
			"PLANT1",
			Days(1),
			&LotSizingPolicy{Rule: MinMax, MaxQty: decimal.NewFromInt(4), Increment: decimal.NewFromInt(5)},
			decimal.Zero,
			"maximum quantity (4) cannot be less than increment (5)",
		},
		{
			"no increment multiple between min and max",
			"PART",
			"PLANT1",
			Days(1),
			&LotSizingPolicy{Rule: MinMax, MinQty: decimal.NewFromInt(41), MaxQty: decimal.NewFromInt(42), Increment: decimal.NewFromInt(5)},
			decimal.Zero,
			"no multiple of increment 5 lies between minimum 41 and maximum 42",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewProduct(tc.id, tc.facility, "desc", tc.leadTime, tc.policy, tc.safetyStock, ProcurementUnspecified)
			if err == nil {
				t.Fatalf("Expected error for %s, but got none", tc.name)
			}
			if err.Error() != tc.expectError {
				t.Errorf("Expected error '%s', got '%s'", tc.expectError, err.Error())
			}
		})
	}
}

func TestProduct_MissingPolicyIsAllowed(t *testing.T) {
	product, err := NewProduct("PART", "PLANT1", "no policy yet", nil, nil, decimal.Zero, ProcurementUnspecified)
	if err != nil {
		t.Fatalf("Expected product without policy to be accepted: %v", err)
	}
	if _, ok := product.LeadTime(); ok {
		t.Error("Expected lead time to be unset")
	}
}

func TestComponentEdge_Validation(t *testing.T) {
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	edge, err := NewComponentEdge("PARENT", "CHILD", decimal.NewFromInt(2), from, to)
	if err != nil {
		t.Fatalf("Expected valid edge creation to succeed: %v", err)
	}
	if !edge.EffectiveAt(from) {
		t.Error("Expected edge to be effective on its first day")
	}
	if edge.EffectiveAt(to) {
		t.Error("Expected edge end date to be exclusive")
	}

	testCases := []struct {
		name        string
		parent      string
		child       string
		qtyPer      decimal.Decimal
		expectError string
	}{
		{"empty parent", "", "CHILD", decimal.NewFromInt(1), "parent product id cannot be empty"},
		{"empty child", "PARENT", "", decimal.NewFromInt(1), "child product id cannot be empty"},
		{"self edge", "SAME", "SAME", decimal.NewFromInt(1), "parent and child product ids cannot be the same: SAME"},
		{"zero quantity", "PARENT", "CHILD", decimal.Zero, "quantity per parent must be positive, got 0"},
		{"negative quantity", "PARENT", "CHILD", decimal.NewFromInt(-2), "quantity per parent must be positive, got -2"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewComponentEdge(tc.parent, tc.child, tc.qtyPer, time.Time{}, time.Time{})
			if err == nil {
				t.Fatalf("Expected error for %s, but got none", tc.name)
			}
			if err.Error() != tc.expectError {
				t.Errorf("Expected error '%s', got '%s'", tc.expectError, err.Error())
			}
		})
	}
}

func TestComponentEdge_Overlaps(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	horizon := Horizon{Start: start, End: start.AddDate(0, 0, 30)}

	open := ComponentEdge{ParentID: "A", ChildID: "B", QtyPer: decimal.NewFromInt(1)}
	if !open.Overlaps(horizon) {
		t.Error("Expected open-ended edge to overlap any horizon")
	}

	expired := ComponentEdge{ParentID: "A", ChildID: "B", QtyPer: decimal.NewFromInt(1), EffectiveTo: start}
	if expired.Overlaps(horizon) {
		t.Error("Expected edge ending at horizon start not to overlap")
	}

	future := ComponentEdge{ParentID: "A", ChildID: "B", QtyPer: decimal.NewFromInt(1), EffectiveFrom: horizon.End}
	if future.Overlaps(horizon) {
		t.Error("Expected edge starting at horizon end not to overlap")
	}
}

func TestParseRunMode(t *testing.T) {
	if mode, err := ParseRunMode("net-change"); err != nil || mode != NetChange {
		t.Errorf("Expected net-change, got %s (%v)", mode, err)
	}
	if mode, err := ParseRunMode(""); err != nil || mode != Regenerate {
		t.Errorf("Expected regenerate default, got %s (%v)", mode, err)
	}
	if _, err := ParseRunMode("weekly"); err == nil {
		t.Error("Expected error for unknown mode")
	}
}
