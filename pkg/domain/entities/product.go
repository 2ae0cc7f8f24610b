package entities

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// LotSizeRule represents the lot sizing rule for a product
type LotSizeRule int

const (
	LotForLot LotSizeRule = iota
	FixedQuantity
	MinMax
)

// String method for LotSizeRule enum
func (l LotSizeRule) String() string {
	switch l {
	case LotForLot:
		return "LotForLot"
	case FixedQuantity:
		return "FixedQuantity"
	case MinMax:
		return "MinMax"
	default:
		return "Unknown"
	}
}

// ParseLotSizeRule parses the external spelling of a lot sizing rule
func ParseLotSizeRule(s string) (LotSizeRule, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "lot_for_lot", "lotforlot", "lfl":
		return LotForLot, nil
	case "fixed", "fixed_quantity", "fixedquantity", "foq":
		return FixedQuantity, nil
	case "min_max", "minmax":
		return MinMax, nil
	default:
		return LotForLot, fmt.Errorf("unknown lot size rule %q", s)
	}
}

// LotSizingPolicy converts a net requirement into an order quantity.
// LotSize is used by FixedQuantity; MinQty, MaxQty and Increment by MinMax.
// A zero MaxQty means no upper bound and a zero Increment means no rounding.
type LotSizingPolicy struct {
	Rule      LotSizeRule
	LotSize   decimal.Decimal
	MinQty    decimal.Decimal
	MaxQty    decimal.Decimal
	Increment decimal.Decimal
}

// Validate checks the policy parameters for the selected rule
func (p LotSizingPolicy) Validate() error {
	switch p.Rule {
	case LotForLot:
		return nil
	case FixedQuantity:
		if !p.LotSize.IsPositive() {
			return fmt.Errorf("fixed quantity lot size must be positive, got %s", p.LotSize)
		}
	case MinMax:
		if p.MinQty.IsNegative() {
			return fmt.Errorf("minimum quantity cannot be negative, got %s", p.MinQty)
		}
		if p.MaxQty.IsNegative() {
			return fmt.Errorf("maximum quantity cannot be negative, got %s", p.MaxQty)
		}
		if p.MaxQty.IsPositive() && p.MaxQty.LessThan(p.MinQty) {
			return fmt.Errorf("maximum quantity (%s) cannot be less than minimum quantity (%s)", p.MaxQty, p.MinQty)
		}
		if p.Increment.IsNegative() {
			return fmt.Errorf("increment cannot be negative, got %s", p.Increment)
		}
		if p.MaxQty.IsPositive() && p.Increment.IsPositive() {
			if p.MaxQty.LessThan(p.Increment) {
				return fmt.Errorf("maximum quantity (%s) cannot be less than increment (%s)", p.MaxQty, p.Increment)
			}
			if p.MinQty.Div(p.Increment).Ceil().Mul(p.Increment).GreaterThan(p.MaxQty) {
				return fmt.Errorf("no multiple of increment %s lies between minimum %s and maximum %s", p.Increment, p.MinQty, p.MaxQty)
			}
		}
	default:
		return fmt.Errorf("unknown lot size rule %d", p.Rule)
	}
	return nil
}

// Procurement says whether a product is built or bought
type Procurement int

const (
	ProcurementUnspecified Procurement = iota
	ProcurementMake
	ProcurementBuy
)

// String method for Procurement enum
func (p Procurement) String() string {
	switch p {
	case ProcurementMake:
		return "Make"
	case ProcurementBuy:
		return "Buy"
	default:
		return "Unspecified"
	}
}

// Product represents a planned item with its planning parameters. Immutable within a run.
type Product struct {
	ID           string
	FacilityID   string
	Description  string
	LeadTimeDays *int
	LotSizing    *LotSizingPolicy
	SafetyStock  decimal.Decimal
	Procurement  Procurement
}

// NewProduct creates a validated Product. leadTimeDays and lotSizing may be nil;
// a product without them is reported by netting rather than rejected here.
func NewProduct(
	id, facilityID, description string,
	leadTimeDays *int,
	lotSizing *LotSizingPolicy,
	safetyStock decimal.Decimal,
	procurement Procurement,
) (*Product, error) {
	if id == "" {
		return nil, fmt.Errorf("product id cannot be empty")
	}
	if facilityID == "" {
		return nil, fmt.Errorf("facility id cannot be empty")
	}
	if leadTimeDays != nil && *leadTimeDays < 0 {
		return nil, fmt.Errorf("lead time cannot be negative, got %d", *leadTimeDays)
	}
	if lotSizing != nil {
		if err := lotSizing.Validate(); err != nil {
			return nil, err
		}
	}
	if safetyStock.IsNegative() {
		return nil, fmt.Errorf("safety stock cannot be negative, got %s", safetyStock)
	}

	return &Product{
		ID:           id,
		FacilityID:   facilityID,
		Description:  description,
		LeadTimeDays: leadTimeDays,
		LotSizing:    lotSizing,
		SafetyStock:  safetyStock,
		Procurement:  procurement,
	}, nil
}

// LeadTime returns the lead time in days and whether one is set
func (p *Product) LeadTime() (int, bool) {
	if p.LeadTimeDays == nil {
		return 0, false
	}
	return *p.LeadTimeDays, true
}

// Days is a convenience for building optional lead times
func Days(n int) *int {
	return &n
}
