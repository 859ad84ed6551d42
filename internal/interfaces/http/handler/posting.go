package handler

import (
	"time"

	appaccess "github.com/agrifield/backend/internal/application/access"
	appposting "github.com/agrifield/backend/internal/application/posting"
	"github.com/agrifield/backend/internal/domain/identity"
	"github.com/agrifield/backend/internal/domain/licensing"
	"github.com/agrifield/backend/internal/domain/posting"
	"github.com/agrifield/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// IdempotencyKeyHeader carries the client-chosen posting idempotency key
const IdempotencyKeyHeader = "Idempotency-Key"

// PostingHandler handles goods-receipt and posting endpoints
type PostingHandler struct {
	BaseHandler
	grnService     *appposting.GRNService
	postingService *appposting.PostingService
	gate           *appaccess.Gate
}

// NewPostingHandler creates a new PostingHandler
func NewPostingHandler(grnService *appposting.GRNService, postingService *appposting.PostingService, gate *appaccess.Gate) *PostingHandler {
	return &PostingHandler{
		grnService:     grnService,
		postingService: postingService,
		gate:           gate,
	}
}

// RegisterRoutes registers posting routes behind the inventory module gate
func (h *PostingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	grns := rg.Group("/grns")
	grns.Use(middleware.RequireModule(h.gate, licensing.ModuleInventory))
	{
		grns.POST("", middleware.RequireRoles(h.gate, identity.RoleTenantAdmin, identity.RoleAccountant, identity.RoleOperator), h.Create)
		grns.GET("/:id", h.Get)
		grns.POST("/:id/post", middleware.RequireRoles(h.gate, identity.RoleTenantAdmin, identity.RoleAccountant), h.Post)
	}
}

// GRNLineResponse represents one line of a goods-receipt-note
type GRNLineResponse struct {
	ID       uuid.UUID       `json:"id"`
	StoreID  uuid.UUID       `json:"store_id"`
	ItemID   uuid.UUID       `json:"item_id"`
	Quantity decimal.Decimal `json:"quantity"`
	UnitCost decimal.Decimal `json:"unit_cost"`
}

// GRNResponse represents a goods-receipt-note in API responses
type GRNResponse struct {
	ID          uuid.UUID         `json:"id"`
	Number      string            `json:"number"`
	SupplierID  uuid.UUID         `json:"supplier_id"`
	Status      string            `json:"status"`
	ReceiptDate time.Time         `json:"receipt_date"`
	PostedAt    *time.Time        `json:"posted_at,omitempty"`
	Lines       []GRNLineResponse `json:"lines"`
}

func toGRNResponse(grn *posting.GRN) GRNResponse {
	lines := make([]GRNLineResponse, len(grn.Lines))
	for i, line := range grn.Lines {
		lines[i] = GRNLineResponse{
			ID:       line.ID,
			StoreID:  line.StoreID,
			ItemID:   line.ItemID,
			Quantity: line.Quantity,
			UnitCost: line.UnitCost,
		}
	}
	return GRNResponse{
		ID:          grn.ID,
		Number:      grn.Number,
		SupplierID:  grn.SupplierID,
		Status:      string(grn.Status),
		ReceiptDate: grn.ReceiptDate,
		PostedAt:    grn.PostedAt,
		Lines:       lines,
	}
}

// Create stores a draft goods-receipt-note
func (h *PostingHandler) Create(c *gin.Context) {
	scope, ok := h.requireScope(c)
	if !ok {
		return
	}

	var input appposting.CreateGRNInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BindError(c, err)
		return
	}

	grn, err := h.grnService.Create(c.Request.Context(), scope, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toGRNResponse(grn))
}

// Get returns a goods-receipt-note with its lines
func (h *PostingHandler) Get(c *gin.Context) {
	scope, ok := h.requireScope(c)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	grn, err := h.grnService.Get(c.Request.Context(), scope, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toGRNResponse(grn))
}

// PostGRNRequest carries the posting date for a post request. The body is
// optional; an absent or zero date posts as of now.
type PostGRNRequest struct {
	PostingDate time.Time `json:"posting_date"`
}

// Post posts a draft goods-receipt-note. The Idempotency-Key header is
// required; resubmitting with the same key returns the original result.
func (h *PostingHandler) Post(c *gin.Context) {
	scope, ok := h.requireScope(c)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	idempotencyKey := c.GetHeader(IdempotencyKeyHeader)
	if idempotencyKey == "" {
		h.BadRequest(c, "Idempotency-Key header is required")
		return
	}

	var req PostGRNRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BindError(c, err)
			return
		}
	}

	result, err := h.postingService.PostGRN(c.Request.Context(), scope, id, req.PostingDate, idempotencyKey)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if result.Replayed {
		h.Success(c, result)
		return
	}
	h.Created(c, result)
}
