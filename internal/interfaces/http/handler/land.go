package handler

import (
	appaccess "github.com/agrifield/backend/internal/application/access"
	appland "github.com/agrifield/backend/internal/application/land"
	"github.com/agrifield/backend/internal/domain/identity"
	"github.com/agrifield/backend/internal/domain/licensing"
	"github.com/agrifield/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// LandHandler handles land parcel and allocation endpoints
type LandHandler struct {
	BaseHandler
	allocationService *appland.AllocationService
	gate              *appaccess.Gate
}

// NewLandHandler creates a new LandHandler
func NewLandHandler(allocationService *appland.AllocationService, gate *appaccess.Gate) *LandHandler {
	return &LandHandler{
		allocationService: allocationService,
		gate:              gate,
	}
}

// RegisterRoutes registers land routes behind the land module gate
func (h *LandHandler) RegisterRoutes(rg *gin.RouterGroup) {
	land := rg.Group("/land")
	land.Use(middleware.RequireModule(h.gate, licensing.ModuleLand))
	{
		land.POST("/parcels", middleware.RequireRoles(h.gate, identity.RoleTenantAdmin, identity.RoleOperator), h.CreateParcel)
		land.GET("/parcels/:id", h.GetParcel)
		land.GET("/parcels/:id/allocations", h.ListAllocations)
		land.POST("/allocations", middleware.RequireRoles(h.gate, identity.RoleTenantAdmin, identity.RoleOperator), h.Allocate)
		land.PUT("/allocations/:id", middleware.RequireRoles(h.gate, identity.RoleTenantAdmin, identity.RoleOperator), h.Reallocate)
	}
}

// CreateParcel registers a new land parcel
func (h *LandHandler) CreateParcel(c *gin.Context) {
	scope, ok := h.requireScope(c)
	if !ok {
		return
	}

	var input appland.CreateParcelInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BindError(c, err)
		return
	}

	parcel, err := h.allocationService.CreateParcel(c.Request.Context(), scope, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, parcel)
}

// GetParcel returns a parcel with its allocated and remaining acreage
func (h *LandHandler) GetParcel(c *gin.Context) {
	scope, ok := h.requireScope(c)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	parcel, err := h.allocationService.GetParcel(c.Request.Context(), scope, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, parcel)
}

// ListAllocations returns a parcel's allocations
func (h *LandHandler) ListAllocations(c *gin.Context) {
	scope, ok := h.requireScope(c)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	allocations, err := h.allocationService.ListAllocations(c.Request.Context(), scope, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, allocations)
}

// Allocate assigns part of a parcel to a crop cycle and party
func (h *LandHandler) Allocate(c *gin.Context) {
	scope, ok := h.requireScope(c)
	if !ok {
		return
	}

	var input appland.AllocateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BindError(c, err)
		return
	}

	allocation, err := h.allocationService.Allocate(c.Request.Context(), scope, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, allocation)
}

// ReallocateRequest carries a new acreage for an existing allocation
type ReallocateRequest struct {
	AllocatedAcres decimal.Decimal `json:"allocated_acres" binding:"required"`
}

// Reallocate changes an existing allocation's acreage
func (h *LandHandler) Reallocate(c *gin.Context) {
	scope, ok := h.requireScope(c)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	var req ReallocateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	allocation, err := h.allocationService.Reallocate(c.Request.Context(), scope, id, req.AllocatedAcres)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, allocation)
}
