package cascade

import (
	"sort"

	"github.com/vsinha/mrpcore/pkg/application/snapshot"
	"github.com/vsinha/mrpcore/pkg/domain/entities"
)

// Cascade explodes a planned order one level down the product structure.
// Each child effective on the order's start date needs order quantity times
// QtyPer, due when the parent order starts.
func Cascade(order entities.PlannedOrder, snap *snapshot.Snapshot) []entities.DemandEvent {
	children := snap.EffectiveChildren(order.ProductID, order.SuggestedStartDate)
	if len(children) == 0 {
		return nil
	}

	increments := make([]entities.DemandEvent, 0, len(children))
	for _, edge := range children {
		increments = append(increments, entities.DemandEvent{
			ProductID:  edge.ChildID,
			FacilityID: order.FacilityID,
			Quantity:   order.Quantity.Mul(edge.QtyPer),
			DueDate:    order.SuggestedStartDate,
			Kind:       entities.Dependent,
			Reference:  order.Key(),
		})
	}
	return increments
}

// CascadeAll explodes every order and groups the increments by child product
func CascadeAll(orders []entities.PlannedOrder, snap *snapshot.Snapshot) map[string][]entities.DemandEvent {
	var increments []entities.DemandEvent
	for _, order := range orders {
		increments = append(increments, Cascade(order, snap)...)
	}
	return GroupByProduct(increments)
}

// GroupByProduct buckets demand increments per product, each list ordered by due date
func GroupByProduct(increments []entities.DemandEvent) map[string][]entities.DemandEvent {
	grouped := make(map[string][]entities.DemandEvent)
	for _, event := range increments {
		grouped[event.ProductID] = append(grouped[event.ProductID], event)
	}
	for productID := range grouped {
		events := grouped[productID]
		sort.SliceStable(events, func(i, j int) bool {
			return events[i].DueDate.Before(events[j].DueDate)
		})
	}
	return grouped
}
