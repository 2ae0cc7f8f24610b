package entities

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestPlannedOrder_Validation(t *testing.T) {
	startDate := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	dueDate := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)

	validOrder, err := NewPlannedOrder("PART123", "PLANT1", decimal.NewFromInt(5), startDate, dueDate, Production)
	if err != nil {
		t.Fatalf("Expected valid order creation to succeed: %v", err)
	}
	if !validOrder.Quantity.Equal(decimal.NewFromInt(5)) {
		t.Errorf("Expected quantity 5, got %s", validOrder.Quantity)
	}
	if validOrder.Status != Draft {
		t.Errorf("Expected status Draft, got %s", validOrder.Status)
	}

	testCases := []struct {
		name        string
		productID   string
		facilityID  string
		quantity    decimal.Decimal
		startDate   time.Time
		dueDate     time.Time
		expectError string
	}{
		{"empty product id", "", "PLANT1", decimal.NewFromInt(5), startDate, dueDate, "product id cannot be empty"},
		{"empty facility", "PART", "", decimal.NewFromInt(5), startDate, dueDate, "facility id cannot be empty"},
		{"zero quantity", "PART", "PLANT1", decimal.Zero, startDate, dueDate, "quantity must be positive, got 0"},
		{"negative quantity", "PART", "PLANT1", decimal.NewFromInt(-1), startDate, dueDate, "quantity must be positive, got -1"},
		{
			"start after due",
			"PART",
			"PLANT1",
			decimal.NewFromInt(5),
			dueDate,
			startDate,
			"start date 2025-01-10 cannot be after due date 2025-01-01",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewPlannedOrder(tc.productID, tc.facilityID, tc.quantity, tc.startDate, tc.dueDate, Production)
			if err == nil {
				t.Fatalf("Expected error for %s, but got none", tc.name)
			}
			if err.Error() != tc.expectError {
				t.Errorf("Expected error '%s', got '%s'", tc.expectError, err.Error())
			}
		})
	}
}

func TestPlannedOrder_AsSupply(t *testing.T) {
	due := time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)
	order, err := NewPlannedOrder("P", "PLANT1", decimal.NewFromInt(10), due.AddDate(0, 0, -5), due, Purchase)
	if err != nil {
		t.Fatalf("NewPlannedOrder failed: %v", err)
	}

	supply := order.AsSupply()
	if supply.Kind != PlannedSupply {
		t.Errorf("Expected PlannedOrder supply kind, got %s", supply.Kind)
	}
	if !supply.AvailableDate.Equal(due) {
		t.Errorf("Expected supply on due date %s, got %s", due, supply.AvailableDate)
	}
	if supply.Reference != "P@2025-03-20" {
		t.Errorf("Expected reference P@2025-03-20, got %s", supply.Reference)
	}
}
