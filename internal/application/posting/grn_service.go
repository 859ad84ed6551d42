package posting

import (
	"context"
	"time"

	domacc "github.com/agrifield/backend/internal/domain/access"
	"github.com/agrifield/backend/internal/domain/posting"
	"github.com/agrifield/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// GRNService manages goods-receipt-note drafts before they are posted
type GRNService struct {
	grns   posting.GRNRepository
	logger *zap.Logger
}

// NewGRNService creates a GRN service
func NewGRNService(grns posting.GRNRepository, logger *zap.Logger) *GRNService {
	return &GRNService{grns: grns, logger: logger}
}

// GRNLineInput is one receipt line of a draft
type GRNLineInput struct {
	StoreID  uuid.UUID       `json:"store_id" binding:"required"`
	ItemID   uuid.UUID       `json:"item_id" binding:"required"`
	Quantity decimal.Decimal `json:"quantity" binding:"required"`
	UnitCost decimal.Decimal `json:"unit_cost" binding:"required"`
}

// CreateGRNInput carries the fields for creating a draft GRN
type CreateGRNInput struct {
	Number      string         `json:"number" binding:"required"`
	SupplierID  uuid.UUID      `json:"supplier_id" binding:"required"`
	ReceiptDate time.Time      `json:"receipt_date" binding:"required"`
	Lines       []GRNLineInput `json:"lines" binding:"required"`
}

// Create stores a draft GRN with its lines
func (s *GRNService) Create(ctx context.Context, scope domacc.Scope, input CreateGRNInput) (*posting.GRN, error) {
	grn, err := posting.NewGRN(scope.TenantID, input.SupplierID, input.Number, input.ReceiptDate)
	if err != nil {
		return nil, err
	}
	for _, line := range input.Lines {
		if err := grn.AddLine(line.StoreID, line.ItemID, line.Quantity, line.UnitCost); err != nil {
			return nil, err
		}
	}
	if err := s.grns.Create(ctx, grn); err != nil {
		s.logger.Error("Failed to create GRN", zap.Error(err))
		return nil, shared.ErrInternal
	}
	return grn, nil
}

// Get returns one GRN of the caller's tenant
func (s *GRNService) Get(ctx context.Context, scope domacc.Scope, id uuid.UUID) (*posting.GRN, error) {
	return s.grns.FindByID(ctx, id)
}
