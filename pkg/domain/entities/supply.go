package entities

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// SupplyKind identifies where a supply event came from
type SupplyKind int

const (
	OnHand SupplyKind = iota
	ScheduledReceipt
	PlannedSupply
)

// String method for SupplyKind enum
func (k SupplyKind) String() string {
	switch k {
	case OnHand:
		return "OnHand"
	case ScheduledReceipt:
		return "ScheduledReceipt"
	case PlannedSupply:
		return "PlannedOrder"
	default:
		return "Unknown"
	}
}

// SupplyEvent represents quantity becoming available for a product at a facility.
// PlannedSupply events are the only kind created during a run.
type SupplyEvent struct {
	ProductID     string          `json:"product_id"`
	FacilityID    string          `json:"facility_id"`
	Quantity      decimal.Decimal `json:"quantity"`
	AvailableDate time.Time       `json:"available_date"`
	Kind          SupplyKind      `json:"kind"`
	Reference     string          `json:"reference,omitempty"`
}

// NewSupplyEvent creates a validated SupplyEvent
func NewSupplyEvent(productID, facilityID string, quantity decimal.Decimal, availableDate time.Time, kind SupplyKind, reference string) (*SupplyEvent, error) {
	if productID == "" {
		return nil, fmt.Errorf("product id cannot be empty")
	}
	if facilityID == "" {
		return nil, fmt.Errorf("facility id cannot be empty")
	}
	if quantity.IsNegative() {
		return nil, fmt.Errorf("quantity cannot be negative, got %s", quantity)
	}

	return &SupplyEvent{
		ProductID:     productID,
		FacilityID:    facilityID,
		Quantity:      quantity,
		AvailableDate: Day(availableDate),
		Kind:          kind,
		Reference:     reference,
	}, nil
}
