package entities

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// OrderType represents the type of planned order
type OrderType int

const (
	Production OrderType = iota
	Purchase
)

// String method for OrderType enum
func (o OrderType) String() string {
	switch o {
	case Production:
		return "Production"
	case Purchase:
		return "Purchase"
	default:
		return "Unknown"
	}
}

// OrderStatus is the lifecycle status of a planned order
type OrderStatus int

const (
	Draft OrderStatus = iota
)

// String method for OrderStatus enum
func (s OrderStatus) String() string {
	if s == Draft {
		return "Draft"
	}
	return "Unknown"
}

// PlannedOrder represents a recommended production or purchase order.
// It is never mutated after creation, only superseded by the next run.
type PlannedOrder struct {
	Line               int             `json:"line"`
	ProductID          string          `json:"product_id"`
	FacilityID         string          `json:"facility_id"`
	Quantity           decimal.Decimal `json:"quantity"`
	SuggestedStartDate time.Time       `json:"suggested_start_date"`
	SuggestedDueDate   time.Time       `json:"suggested_due_date"`
	OrderType          OrderType       `json:"order_type"`
	Status             OrderStatus     `json:"status"`
	Level              int             `json:"level"`
	Clamped            bool            `json:"clamped,omitempty"`
}

// NewPlannedOrder creates a validated PlannedOrder
func NewPlannedOrder(
	productID, facilityID string,
	quantity decimal.Decimal,
	startDate, dueDate time.Time,
	orderType OrderType,
) (*PlannedOrder, error) {
	if productID == "" {
		return nil, fmt.Errorf("product id cannot be empty")
	}
	if facilityID == "" {
		return nil, fmt.Errorf("facility id cannot be empty")
	}
	if !quantity.IsPositive() {
		return nil, fmt.Errorf("quantity must be positive, got %s", quantity)
	}
	if startDate.After(dueDate) {
		return nil, fmt.Errorf("start date %s cannot be after due date %s", startDate.Format(DateLayout), dueDate.Format(DateLayout))
	}

	return &PlannedOrder{
		ProductID:          productID,
		FacilityID:         facilityID,
		Quantity:           quantity,
		SuggestedStartDate: Day(startDate),
		SuggestedDueDate:   Day(dueDate),
		OrderType:          orderType,
		Status:             Draft,
	}, nil
}

// AsSupply mirrors the order as supply arriving on its due date
func (o PlannedOrder) AsSupply() SupplyEvent {
	return SupplyEvent{
		ProductID:     o.ProductID,
		FacilityID:    o.FacilityID,
		Quantity:      o.Quantity,
		AvailableDate: o.SuggestedDueDate,
		Kind:          PlannedSupply,
		Reference:     o.Key(),
	}
}

// Key identifies an order by product and due date; used for tracing and plan diffs
func (o PlannedOrder) Key() string {
	return fmt.Sprintf("%s@%s", o.ProductID, o.SuggestedDueDate.Format(DateLayout))
}
