package entities

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ComponentEdge represents a single parent/child line in a Bill of Materials.
// A zero EffectiveFrom or EffectiveTo leaves that side of the range open;
// EffectiveTo is exclusive.
type ComponentEdge struct {
	ParentID      string
	ChildID       string
	QtyPer        decimal.Decimal
	EffectiveFrom time.Time
	EffectiveTo   time.Time
}

// NewComponentEdge creates a validated ComponentEdge
func NewComponentEdge(parentID, childID string, qtyPer decimal.Decimal, from, to time.Time) (*ComponentEdge, error) {
	edge := &ComponentEdge{
		ParentID:      parentID,
		ChildID:       childID,
		QtyPer:        qtyPer,
		EffectiveFrom: from,
		EffectiveTo:   to,
	}
	if err := edge.Validate(); err != nil {
		return nil, err
	}
	return edge, nil
}

// Validate checks the structural invariants of a single edge
func (e ComponentEdge) Validate() error {
	if e.ParentID == "" {
		return fmt.Errorf("parent product id cannot be empty")
	}
	if e.ChildID == "" {
		return fmt.Errorf("child product id cannot be empty")
	}
	if e.ParentID == e.ChildID {
		return fmt.Errorf("parent and child product ids cannot be the same: %s", e.ParentID)
	}
	if !e.QtyPer.IsPositive() {
		return fmt.Errorf("quantity per parent must be positive, got %s", e.QtyPer)
	}
	if !e.EffectiveFrom.IsZero() && !e.EffectiveTo.IsZero() && !e.EffectiveTo.After(e.EffectiveFrom) {
		return fmt.Errorf("effective range %s..%s is empty", e.EffectiveFrom.Format(DateLayout), e.EffectiveTo.Format(DateLayout))
	}
	return nil
}

// EffectiveAt reports whether the edge applies on the given date
func (e ComponentEdge) EffectiveAt(date time.Time) bool {
	if !e.EffectiveFrom.IsZero() && date.Before(e.EffectiveFrom) {
		return false
	}
	if !e.EffectiveTo.IsZero() && !date.Before(e.EffectiveTo) {
		return false
	}
	return true
}

// Overlaps reports whether the edge is effective at any point of the horizon
func (e ComponentEdge) Overlaps(h Horizon) bool {
	if !e.EffectiveFrom.IsZero() && !e.EffectiveFrom.Before(h.End) {
		return false
	}
	if !e.EffectiveTo.IsZero() && !e.EffectiveTo.After(h.Start) {
		return false
	}
	return true
}
