package posting

import (
	"github.com/agrifield/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockBalance holds on-hand quantity and value for one (store, item) within
// a tenant. It stores accumulated quantity and value rather than a derived
// average cost, so repeated receipts accumulate without rounding drift.
type StockBalance struct {
	shared.TenantEntity
	StoreID     uuid.UUID
	ItemID      uuid.UUID
	QtyOnHand   decimal.Decimal
	ValueOnHand decimal.Decimal
}

// NewStockBalance creates an empty balance row for a (store, item)
func NewStockBalance(tenantID, storeID, itemID uuid.UUID) *StockBalance {
	return &StockBalance{
		TenantEntity: shared.NewTenantEntity(tenantID),
		StoreID:      storeID,
		ItemID:       itemID,
		QtyOnHand:    decimal.Zero,
		ValueOnHand:  decimal.Zero,
	}
}

// Receive applies a goods receipt under weighted-average costing:
// qty and value accumulate directly, never a recomputed running average.
func (b *StockBalance) Receive(qtyIn, unitCost decimal.Decimal) error {
	if qtyIn.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("VALIDATION_FAILED", "Receipt quantity must be positive")
	}
	if unitCost.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("VALIDATION_FAILED", "Receipt unit cost must be positive")
	}
	b.QtyOnHand = b.QtyOnHand.Add(qtyIn)
	b.ValueOnHand = b.ValueOnHand.Add(qtyIn.Mul(unitCost))
	b.Touch()
	return nil
}

// AverageUnitCost derives the weighted-average unit cost from the stored
// totals. Zero quantity yields zero cost.
func (b *StockBalance) AverageUnitCost() decimal.Decimal {
	if b.QtyOnHand.IsZero() {
		return decimal.Zero
	}
	return b.ValueOnHand.Div(b.QtyOnHand)
}
