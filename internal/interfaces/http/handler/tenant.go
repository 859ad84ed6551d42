package handler

import (
	"context"

	appaccess "github.com/agrifield/backend/internal/application/access"
	appidentity "github.com/agrifield/backend/internal/application/identity"
	"github.com/agrifield/backend/internal/domain/access"
	"github.com/agrifield/backend/internal/domain/identity"
	"github.com/agrifield/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TenantHandler handles platform-level tenant administration endpoints
type TenantHandler struct {
	BaseHandler
	tenantService *appidentity.TenantService
	gate          *appaccess.Gate
}

// NewTenantHandler creates a new TenantHandler
func NewTenantHandler(tenantService *appidentity.TenantService, gate *appaccess.Gate) *TenantHandler {
	return &TenantHandler{
		tenantService: tenantService,
		gate:          gate,
	}
}

// RegisterRoutes registers tenant administration routes
func (h *TenantHandler) RegisterRoutes(rg *gin.RouterGroup) {
	tenants := rg.Group("/tenants")
	tenants.Use(middleware.RequireRoles(h.gate, identity.RolePlatformAdmin))
	{
		tenants.POST("", h.Create)
		tenants.GET("", h.List)
		tenants.GET("/:id", h.Get)
		tenants.POST("/:id/suspend", h.Suspend)
		tenants.POST("/:id/activate", h.Activate)
		tenants.POST("/:id/archive", h.Archive)
		tenants.PUT("/:id/settings", h.UpdateSettings)
	}
}

// Create provisions a new tenant with its initial admin user
func (h *TenantHandler) Create(c *gin.Context) {
	scope, ok := h.requireScope(c)
	if !ok {
		return
	}

	var input appidentity.CreateTenantInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BindError(c, err)
		return
	}

	tenant, err := h.tenantService.Create(c.Request.Context(), scope, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, tenant)
}

// List returns all tenants
func (h *TenantHandler) List(c *gin.Context) {
	scope, ok := h.requireScope(c)
	if !ok {
		return
	}

	tenants, err := h.tenantService.List(c.Request.Context(), scope)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tenants)
}

// Get returns a single tenant
func (h *TenantHandler) Get(c *gin.Context) {
	scope, ok := h.requireScope(c)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	tenant, err := h.tenantService.Get(c.Request.Context(), scope, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tenant)
}

// Suspend suspends an active tenant
func (h *TenantHandler) Suspend(c *gin.Context) {
	h.transition(c, h.tenantService.Suspend)
}

// Activate restores a suspended tenant
func (h *TenantHandler) Activate(c *gin.Context) {
	h.transition(c, h.tenantService.Activate)
}

// Archive archives a tenant permanently
func (h *TenantHandler) Archive(c *gin.Context) {
	h.transition(c, h.tenantService.Archive)
}

// UpdateSettingsRequest carries a tenant settings document
type UpdateSettingsRequest struct {
	Settings string `json:"settings" binding:"required"`
}

// UpdateSettings replaces a tenant's settings document
func (h *TenantHandler) UpdateSettings(c *gin.Context) {
	scope, ok := h.requireScope(c)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	tenant, err := h.tenantService.UpdateSettings(c.Request.Context(), scope, id, req.Settings)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tenant)
}

type tenantTransition func(ctx context.Context, scope access.Scope, id uuid.UUID) (*appidentity.TenantDTO, error)

func (h *TenantHandler) transition(c *gin.Context, fn tenantTransition) {
	scope, ok := h.requireScope(c)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	tenant, err := fn(c.Request.Context(), scope, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tenant)
}
