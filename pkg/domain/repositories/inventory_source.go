package repositories

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/vsinha/mrpcore/pkg/domain/entities"
)

// InventorySource provides on-hand balances and open receipts
type InventorySource interface {
	GetOnHand(ctx context.Context, productID, facilityID string) (decimal.Decimal, error)
	GetScheduledReceipts(
		ctx context.Context,
		productID, facilityID string,
		horizon entities.Horizon,
	) ([]*entities.SupplyEvent, error)
}
