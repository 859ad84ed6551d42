package posting

import (
	"time"

	"github.com/agrifield/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PostingGroup is the durable record of one idempotent business-event
// application. At most one exists per (tenant, idempotency key); repeated
// submissions with the same key return the existing group without
// re-applying side effects.
type PostingGroup struct {
	shared.TenantEntity
	IdempotencyKey string
	SourceType     string
	SourceID       uuid.UUID
	PostingDate    time.Time
	TotalQuantity  decimal.Decimal
	TotalValue     decimal.Decimal
}

// SourceTypeGRN identifies goods-receipt postings
const SourceTypeGRN = "GRN"

// NewPostingGroup creates the posting record for an applied event
func NewPostingGroup(tenantID uuid.UUID, idempotencyKey, sourceType string, sourceID uuid.UUID, postingDate time.Time, totalQty, totalValue decimal.Decimal) (*PostingGroup, error) {
	if idempotencyKey == "" {
		return nil, shared.NewDomainError("VALIDATION_FAILED", "Idempotency key is required")
	}
	if sourceID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_FAILED", "Source document is required")
	}
	return &PostingGroup{
		TenantEntity:   shared.NewTenantEntity(tenantID),
		IdempotencyKey: idempotencyKey,
		SourceType:     sourceType,
		SourceID:       sourceID,
		PostingDate:    postingDate,
		TotalQuantity:  totalQty,
		TotalValue:     totalValue,
	}, nil
}
