package handler

import (
	appaccess "github.com/agrifield/backend/internal/application/access"
	applicensing "github.com/agrifield/backend/internal/application/licensing"
	"github.com/agrifield/backend/internal/domain/identity"
	"github.com/agrifield/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// ModuleHandler handles module licensing endpoints
type ModuleHandler struct {
	BaseHandler
	moduleService *applicensing.ModuleService
	gate          *appaccess.Gate
}

// NewModuleHandler creates a new ModuleHandler
func NewModuleHandler(moduleService *applicensing.ModuleService, gate *appaccess.Gate) *ModuleHandler {
	return &ModuleHandler{
		moduleService: moduleService,
		gate:          gate,
	}
}

// RegisterRoutes registers module licensing routes
func (h *ModuleHandler) RegisterRoutes(rg *gin.RouterGroup) {
	modules := rg.Group("/modules")
	{
		modules.GET("", h.List)
		modules.PUT("", middleware.RequireRoles(h.gate, identity.RoleTenantAdmin), h.Toggle)
	}
}

// List returns the module catalog with the tenant's effective enablement
func (h *ModuleHandler) List(c *gin.Context) {
	scope, ok := h.requireScope(c)
	if !ok {
		return
	}

	modules, err := h.moduleService.List(c.Request.Context(), scope)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, modules)
}

// ToggleModulesRequest carries a batch of module enablement changes
type ToggleModulesRequest struct {
	Modules []applicensing.ModuleToggle `json:"modules" binding:"required"`
}

// Toggle applies a batch of module enablement changes atomically
func (h *ModuleHandler) Toggle(c *gin.Context) {
	scope, ok := h.requireScope(c)
	if !ok {
		return
	}

	var req ToggleModulesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	modules, err := h.moduleService.Toggle(c.Request.Context(), scope, req.Modules)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, modules)
}
