package orchestration

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/mrpcore/pkg/domain/entities"
)

type orderSlot struct {
	productID string
	dueDate   time.Time
}

// DiffPlans compares two plans order by order. Orders are aggregated per
// product and due date, so a split order compares against its total. A nil
// previous plan reports every order as added.
func DiffPlans(previous, current *entities.MrpPlan) []entities.PlanChange {
	before := aggregateOrders(previous)
	after := aggregateOrders(current)

	slots := make(map[orderSlot]bool, len(before)+len(after))
	for slot := range before {
		slots[slot] = true
	}
	for slot := range after {
		slots[slot] = true
	}

	changes := make([]entities.PlanChange, 0)
	for slot := range slots {
		oldQty, hadOld := before[slot]
		newQty, hasNew := after[slot]

		change := entities.PlanChange{
			ProductID:   slot.productID,
			DueDate:     slot.dueDate,
			OldQuantity: oldQty,
			NewQuantity: newQty,
		}
		switch {
		case !hadOld:
			change.Kind = entities.ChangeAdded
			change.OldQuantity = decimal.Zero
		case !hasNew:
			change.Kind = entities.ChangeRemoved
			change.NewQuantity = decimal.Zero
		case !oldQty.Equal(newQty):
			change.Kind = entities.ChangeUpdated
		default:
			continue
		}
		changes = append(changes, change)
	}

	sort.Slice(changes, func(i, j int) bool {
		if changes[i].ProductID != changes[j].ProductID {
			return changes[i].ProductID < changes[j].ProductID
		}
		return changes[i].DueDate.Before(changes[j].DueDate)
	})
	return changes
}

func aggregateOrders(plan *entities.MrpPlan) map[orderSlot]decimal.Decimal {
	totals := make(map[orderSlot]decimal.Decimal)
	if plan == nil {
		return totals
	}
	for _, order := range plan.PlannedOrders {
		slot := orderSlot{order.ProductID, order.SuggestedDueDate.UTC()}
		totals[slot] = totals[slot].Add(order.Quantity)
	}
	return totals
}
