package entities

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// DemandKind identifies where a demand event came from
type DemandKind int

const (
	SalesOrder DemandKind = iota
	Forecast
	SafetyStockTarget
	Dependent
)

// String method for DemandKind enum
func (k DemandKind) String() string {
	switch k {
	case SalesOrder:
		return "SalesOrder"
	case Forecast:
		return "Forecast"
	case SafetyStockTarget:
		return "SafetyStock"
	case Dependent:
		return "Dependent"
	default:
		return "Unknown"
	}
}

// DemandEvent represents a requirement for a product at a facility.
// Dependent events are produced by the BOM cascade; Reference then names
// the parent planned order that caused them.
type DemandEvent struct {
	ProductID  string          `json:"product_id"`
	FacilityID string          `json:"facility_id"`
	Quantity   decimal.Decimal `json:"quantity"`
	DueDate    time.Time       `json:"due_date"`
	Kind       DemandKind      `json:"kind"`
	Reference  string          `json:"reference,omitempty"`
}

// NewDemandEvent creates a validated DemandEvent
func NewDemandEvent(productID, facilityID string, quantity decimal.Decimal, dueDate time.Time, kind DemandKind, reference string) (*DemandEvent, error) {
	if productID == "" {
		return nil, fmt.Errorf("product id cannot be empty")
	}
	if facilityID == "" {
		return nil, fmt.Errorf("facility id cannot be empty")
	}
	if quantity.IsNegative() {
		return nil, fmt.Errorf("quantity cannot be negative, got %s", quantity)
	}

	return &DemandEvent{
		ProductID:  productID,
		FacilityID: facilityID,
		Quantity:   quantity,
		DueDate:    Day(dueDate),
		Kind:       kind,
		Reference:  reference,
	}, nil
}

// IsGross reports whether the event contributes to gross requirements.
// Safety stock targets raise the netting threshold instead.
func (d DemandEvent) IsGross() bool {
	return d.Kind != SafetyStockTarget
}
