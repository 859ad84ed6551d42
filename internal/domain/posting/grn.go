// Package posting owns goods-receipt documents, the posting groups that
// record their idempotent application, and the stock balances they mutate.
package posting

import (
	"time"

	"github.com/agrifield/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GRNStatus is the lifecycle status of a goods-receipt-note
type GRNStatus string

const (
	GRNStatusDraft  GRNStatus = "DRAFT"
	GRNStatusPosted GRNStatus = "POSTED"
)

// GRNLine is one received item on a goods-receipt-note
type GRNLine struct {
	shared.BaseEntity
	GRNID    uuid.UUID
	StoreID  uuid.UUID
	ItemID   uuid.UUID
	Quantity decimal.Decimal
	UnitCost decimal.Decimal
}

// LineValue returns quantity times unit cost
func (l *GRNLine) LineValue() decimal.Decimal {
	return l.Quantity.Mul(l.UnitCost)
}

// GRN is a goods-receipt-note: the source document whose posting increases
// stock. Status moves DRAFT → POSTED exactly once.
type GRN struct {
	shared.TenantEntity
	Number      string
	SupplierID  uuid.UUID
	Status      GRNStatus
	ReceiptDate time.Time
	PostedAt    *time.Time
	Lines       []GRNLine
}

// NewGRN creates a draft goods-receipt-note
func NewGRN(tenantID, supplierID uuid.UUID, number string, receiptDate time.Time) (*GRN, error) {
	if number == "" {
		return nil, shared.NewDomainError("VALIDATION_FAILED", "GRN number is required")
	}
	if supplierID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_FAILED", "Supplier is required")
	}
	return &GRN{
		TenantEntity: shared.NewTenantEntity(tenantID),
		Number:       number,
		SupplierID:   supplierID,
		Status:       GRNStatusDraft,
		ReceiptDate:  receiptDate,
		Lines:        make([]GRNLine, 0),
	}, nil
}

// AddLine appends a received line to a draft document
func (g *GRN) AddLine(storeID, itemID uuid.UUID, qty, unitCost decimal.Decimal) error {
	if g.Status != GRNStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Lines can only be added to a draft GRN")
	}
	if storeID == uuid.Nil || itemID == uuid.Nil {
		return shared.NewDomainError("VALIDATION_FAILED", "Store and item are required")
	}
	if qty.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("VALIDATION_FAILED", "Line quantity must be positive")
	}
	if unitCost.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("VALIDATION_FAILED", "Line unit cost must be positive")
	}
	g.Lines = append(g.Lines, GRNLine{
		BaseEntity: shared.NewBaseEntity(),
		GRNID:      g.ID,
		StoreID:    storeID,
		ItemID:     itemID,
		Quantity:   qty,
		UnitCost:   unitCost,
	})
	g.Touch()
	return nil
}

// ValidateForPosting checks the document is postable: draft, at least one
// line, all lines with positive quantity and cost.
func (g *GRN) ValidateForPosting() error {
	if g.Status == GRNStatusPosted {
		return shared.NewDomainError("ALREADY_POSTED", "GRN "+g.Number+" has already been posted")
	}
	if len(g.Lines) == 0 {
		return shared.NewDomainError("VALIDATION_FAILED", "GRN has no lines to post")
	}
	for _, line := range g.Lines {
		if line.Quantity.LessThanOrEqual(decimal.Zero) || line.UnitCost.LessThanOrEqual(decimal.Zero) {
			return shared.NewDomainError("VALIDATION_FAILED", "GRN lines require positive quantity and cost")
		}
	}
	return nil
}

// MarkPosted transitions DRAFT → POSTED. The transition is terminal.
func (g *GRN) MarkPosted(at time.Time) error {
	if err := g.ValidateForPosting(); err != nil {
		return err
	}
	g.Status = GRNStatusPosted
	g.PostedAt = &at
	g.Touch()
	return nil
}

// TotalQuantity sums received quantity across all lines
func (g *GRN) TotalQuantity() decimal.Decimal {
	total := decimal.Zero
	for _, line := range g.Lines {
		total = total.Add(line.Quantity)
	}
	return total
}

// TotalValue sums quantity × unit cost across all lines
func (g *GRN) TotalValue() decimal.Decimal {
	total := decimal.Zero
	for _, line := range g.Lines {
		total = total.Add(line.LineValue())
	}
	return total
}
