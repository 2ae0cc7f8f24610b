package memory

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/vsinha/mrpcore/pkg/domain/entities"
	"github.com/vsinha/mrpcore/pkg/domain/repositories"
)

type stockKey struct {
	productID  string
	facilityID string
}

// InventoryRepository provides in-memory on-hand balances and scheduled receipts
type InventoryRepository struct {
	mu       sync.RWMutex
	onHand   map[stockKey]decimal.Decimal
	receipts map[stockKey][]entities.SupplyEvent
	failWith error
}

// NewInventoryRepository creates a new in-memory inventory repository
func NewInventoryRepository() *InventoryRepository {
	return &InventoryRepository{
		onHand:   make(map[stockKey]decimal.Decimal),
		receipts: make(map[stockKey][]entities.SupplyEvent),
	}
}

// Verify interface compliance
var _ repositories.InventorySource = (*InventoryRepository)(nil)

// SetOnHand replaces the on-hand balance of a product
func (r *InventoryRepository) SetOnHand(productID, facilityID string, quantity decimal.Decimal) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onHand[stockKey{productID, facilityID}] = quantity
}

// AddReceipt records an open receipt
func (r *InventoryRepository) AddReceipt(receipt entities.SupplyEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := stockKey{receipt.ProductID, receipt.FacilityID}
	receipt.Kind = entities.ScheduledReceipt
	r.receipts[key] = append(r.receipts[key], receipt)
}

// LoadReceipts loads open receipts into the repository
func (r *InventoryRepository) LoadReceipts(receipts []*entities.SupplyEvent) error {
	for _, receipt := range receipts {
		r.AddReceipt(*receipt)
	}
	return nil
}

// FailWith makes every subsequent read return err; nil restores normal reads
func (r *InventoryRepository) FailWith(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failWith = err
}

// GetOnHand returns the on-hand balance, zero when none is recorded
func (r *InventoryRepository) GetOnHand(ctx context.Context, productID, facilityID string) (decimal.Decimal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.failWith != nil {
		return decimal.Zero, r.failWith
	}
	return r.onHand[stockKey{productID, facilityID}], nil
}

// GetScheduledReceipts returns receipts arriving before the horizon end, overdue ones included
func (r *InventoryRepository) GetScheduledReceipts(
	ctx context.Context,
	productID, facilityID string,
	horizon entities.Horizon,
) ([]*entities.SupplyEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.failWith != nil {
		return nil, r.failWith
	}

	var receipts []*entities.SupplyEvent
	for _, receipt := range r.receipts[stockKey{productID, facilityID}] {
		if !receipt.AvailableDate.Before(horizon.End) {
			continue
		}
		copied := receipt
		receipts = append(receipts, &copied)
	}
	return receipts, nil
}
