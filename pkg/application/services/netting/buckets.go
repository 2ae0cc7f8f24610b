package netting

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/mrpcore/pkg/domain/entities"
)

// bucket aggregates one product's events over one time bucket
type bucket struct {
	date      time.Time
	gross     decimal.Decimal
	supply    decimal.Decimal
	hasDemand bool
}

// bucketize spreads demand and supply over the horizon's buckets. Safety
// stock targets are not gross requirements and are skipped here.
func bucketize(
	horizon entities.Horizon,
	bucketDays int,
	demand []entities.DemandEvent,
	supply []entities.SupplyEvent,
) []bucket {
	buckets := make([]bucket, horizon.Buckets(bucketDays))
	for k := range buckets {
		buckets[k].date = horizon.BucketStart(k, bucketDays)
	}

	for _, event := range demand {
		if !event.IsGross() {
			continue
		}
		k := horizon.BucketIndex(event.DueDate, bucketDays)
		if k < 0 {
			continue
		}
		buckets[k].gross = buckets[k].gross.Add(event.Quantity)
		buckets[k].hasDemand = true
	}

	for _, event := range supply {
		k := horizon.BucketIndex(event.AvailableDate, bucketDays)
		if k < 0 {
			continue
		}
		buckets[k].supply = buckets[k].supply.Add(event.Quantity)
	}

	return buckets
}

// safetyTarget is the largest safety stock target among the events,
// falling back to the product's own safety stock
func safetyTarget(product entities.Product, demand []entities.DemandEvent) decimal.Decimal {
	target := decimal.Zero
	found := false
	for _, event := range demand {
		if event.Kind != entities.SafetyStockTarget {
			continue
		}
		if !found || event.Quantity.GreaterThan(target) {
			target = event.Quantity
			found = true
		}
	}
	if !found {
		return product.SafetyStock
	}
	return target
}
