package netting

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/vsinha/mrpcore/pkg/domain/entities"
)

func d(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func TestApplyLotSizing(t *testing.T) {
	testCases := []struct {
		name     string
		net      decimal.Decimal
		policy   entities.LotSizingPolicy
		expected []int64
	}{
		{"lot for lot", d(17), entities.LotSizingPolicy{Rule: entities.LotForLot}, []int64{17}},
		{"fixed rounds up", d(30), entities.LotSizingPolicy{Rule: entities.FixedQuantity, LotSize: d(50)}, []int64{50}},
		{"fixed multiple lots", d(120), entities.LotSizingPolicy{Rule: entities.FixedQuantity, LotSize: d(50)}, []int64{150}},
		{"fixed exact", d(100), entities.LotSizingPolicy{Rule: entities.FixedQuantity, LotSize: d(50)}, []int64{100}},
		{"min max raises to min", d(3), entities.LotSizingPolicy{Rule: entities.MinMax, MinQty: d(10), MaxQty: d(40)}, []int64{10}},
		{
			"min max rounds to increment",
			d(13),
			entities.LotSizingPolicy{Rule: entities.MinMax, MinQty: d(10), MaxQty: d(40), Increment: d(5)},
			[]int64{15},
		},
		{
			"min max splits at max",
			d(90),
			entities.LotSizingPolicy{Rule: entities.MinMax, MinQty: d(10), MaxQty: d(40)},
			[]int64{40, 40, 10},
		},
		{
			"min max split raises remainder to min",
			d(85),
			entities.LotSizingPolicy{Rule: entities.MinMax, MinQty: d(10), MaxQty: d(40)},
			[]int64{40, 40, 10},
		},
		{"min max unbounded", d(500), entities.LotSizingPolicy{Rule: entities.MinMax, MinQty: d(10)}, []int64{500}},
		{
			"min max rounds raised minimum to increment",
			d(3),
			entities.LotSizingPolicy{Rule: entities.MinMax, MinQty: d(7), MaxQty: d(40), Increment: d(5)},
			[]int64{10},
		},
		{
			"min max splits at largest increment multiple under max",
			d(100),
			entities.LotSizingPolicy{Rule: entities.MinMax, MinQty: d(5), MaxQty: d(42), Increment: d(5)},
			[]int64{40, 40, 20},
		},
		{
			"min max split remainder raised to min and increment",
			d(83),
			entities.LotSizingPolicy{Rule: entities.MinMax, MinQty: d(12), MaxQty: d(42), Increment: d(5)},
			[]int64{40, 40, 15},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := ApplyLotSizing(tc.net, tc.policy)

			quantities := make([]int64, 0, len(got))
			total := decimal.Zero
			for _, qty := range got {
				quantities = append(quantities, qty.IntPart())
				total = total.Add(qty)
			}
			assert.Equal(t, tc.expected, quantities)
			assert.True(t, total.GreaterThanOrEqual(tc.net), "orders must cover the net requirement")
			for _, qty := range got {
				if tc.policy.Increment.IsPositive() {
					assert.True(t, qty.Mod(tc.policy.Increment).IsZero(), "%s is not a multiple of %s", qty, tc.policy.Increment)
				}
				if tc.policy.Rule == entities.MinMax && tc.policy.MaxQty.IsPositive() {
					assert.True(t, qty.LessThanOrEqual(tc.policy.MaxQty), "%s exceeds max %s", qty, tc.policy.MaxQty)
				}
			}
		})
	}
}

func TestApplyLotSizing_NoRequirement(t *testing.T) {
	policy := entities.LotSizingPolicy{Rule: entities.FixedQuantity, LotSize: d(50)}

	assert.Nil(t, ApplyLotSizing(decimal.Zero, policy))
	assert.Nil(t, ApplyLotSizing(d(-5), policy))
}

func TestApplyLotSizing_FractionalQuantities(t *testing.T) {
	got := ApplyLotSizing(decimal.RequireFromString("2.25"), entities.LotSizingPolicy{Rule: entities.LotForLot})

	assert.Len(t, got, 1)
	assert.Equal(t, "2.25", got[0].String())
}

func TestApplyLotSizing_UnvalidatedMaxBelowIncrement(t *testing.T) {
	policy := entities.LotSizingPolicy{Rule: entities.MinMax, MaxQty: d(3), Increment: d(5)}

	got := ApplyLotSizing(d(12), policy)

	assert.Len(t, got, 1, "an unusable limit must not loop")
}
