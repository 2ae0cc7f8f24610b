package netting

import (
	"github.com/shopspring/decimal"

	"github.com/vsinha/mrpcore/pkg/domain/entities"
)

// ApplyLotSizing converts a net requirement into order quantities. Most rules
// yield one order; MinMax yields several when the maximum caps the quantity.
// The quantities always sum to at least net. A non-positive net needs no order.
func ApplyLotSizing(net decimal.Decimal, policy entities.LotSizingPolicy) []decimal.Decimal {
	if !net.IsPositive() {
		return nil
	}

	switch policy.Rule {
	case entities.LotForLot:
		return []decimal.Decimal{net}
	case entities.FixedQuantity:
		return []decimal.Decimal{roundUp(net, policy.LotSize)}
	case entities.MinMax:
		qty := roundUp(decimal.Max(net, policy.MinQty), policy.Increment)
		if policy.MaxQty.IsPositive() && qty.GreaterThan(policy.MaxQty) {
			return splitByMax(qty, policy)
		}
		return []decimal.Decimal{qty}
	default:
		return []decimal.Decimal{net}
	}
}

// roundUp rounds qty up to the next multiple of step; a non-positive step leaves it alone
func roundUp(qty, step decimal.Decimal) decimal.Decimal {
	if !step.IsPositive() {
		return qty
	}
	return qty.Div(step).Ceil().Mul(step)
}

// splitByMax breaks total into orders of at most the largest increment
// multiple not above MaxQty. Every order, the remainder included, is at
// least MinQty and a multiple of Increment.
func splitByMax(total decimal.Decimal, policy entities.LotSizingPolicy) []decimal.Decimal {
	limit := roundDown(policy.MaxQty, policy.Increment)
	if !limit.IsPositive() {
		// Unvalidated policy with MaxQty below Increment
		return []decimal.Decimal{total}
	}
	var orders []decimal.Decimal
	remaining := total
	for remaining.IsPositive() {
		qty := decimal.Min(remaining, limit)
		qty = roundUp(decimal.Max(qty, policy.MinQty), policy.Increment)
		orders = append(orders, qty)
		remaining = remaining.Sub(qty)
	}
	return orders
}

// roundDown rounds qty down to a multiple of step; a non-positive step leaves it alone
func roundDown(qty, step decimal.Decimal) decimal.Decimal {
	if !step.IsPositive() {
		return qty
	}
	return qty.Div(step).Floor().Mul(step)
}
