package handler

import (
	appaccess "github.com/agrifield/backend/internal/application/access"
	appidentity "github.com/agrifield/backend/internal/application/identity"
	"github.com/agrifield/backend/internal/domain/identity"
	"github.com/agrifield/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// UserHandler handles tenant user management endpoints
type UserHandler struct {
	BaseHandler
	userService *appidentity.UserService
	gate        *appaccess.Gate
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *appidentity.UserService, gate *appaccess.Gate) *UserHandler {
	return &UserHandler{
		userService: userService,
		gate:        gate,
	}
}

// RegisterRoutes registers user management routes
func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup) {
	users := rg.Group("/users")
	{
		users.GET("", h.List)
		users.GET("/:id", h.Get)

		admin := users.Group("")
		admin.Use(middleware.RequireRoles(h.gate, identity.RoleTenantAdmin))
		{
			admin.POST("", h.Create)
			admin.PUT("/:id", h.Update)
			admin.POST("/:id/enable", h.Enable)
			admin.POST("/:id/disable", h.Disable)
			admin.DELETE("/:id", h.Delete)
		}
	}
}

// Create adds a user to the caller's tenant
func (h *UserHandler) Create(c *gin.Context) {
	scope, ok := h.requireScope(c)
	if !ok {
		return
	}

	var input appidentity.CreateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BindError(c, err)
		return
	}

	user, err := h.userService.Create(c.Request.Context(), scope, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, user)
}

// List returns the caller's tenant users
func (h *UserHandler) List(c *gin.Context) {
	scope, ok := h.requireScope(c)
	if !ok {
		return
	}

	users, err := h.userService.List(c.Request.Context(), scope)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, users)
}

// Get returns a single user
func (h *UserHandler) Get(c *gin.Context) {
	scope, ok := h.requireScope(c)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	user, err := h.userService.Get(c.Request.Context(), scope, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// Update changes a user's display name or role
func (h *UserHandler) Update(c *gin.Context) {
	scope, ok := h.requireScope(c)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	var input appidentity.UpdateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BindError(c, err)
		return
	}

	user, err := h.userService.Update(c.Request.Context(), scope, id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// Enable re-enables a disabled user
func (h *UserHandler) Enable(c *gin.Context) {
	h.setEnabled(c, true)
}

// Disable disables a user
func (h *UserHandler) Disable(c *gin.Context) {
	h.setEnabled(c, false)
}

func (h *UserHandler) setEnabled(c *gin.Context, enabled bool) {
	scope, ok := h.requireScope(c)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	user, err := h.userService.SetEnabled(c.Request.Context(), scope, id, enabled)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// Delete removes a user
func (h *UserHandler) Delete(c *gin.Context) {
	scope, ok := h.requireScope(c)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	if err := h.userService.Delete(c.Request.Context(), scope, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
