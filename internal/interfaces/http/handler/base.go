package handler

import (
	"errors"
	"net/http"

	"github.com/agrifield/backend/internal/domain/access"
	"github.com/agrifield/backend/internal/domain/shared"
	"github.com/agrifield/backend/internal/interfaces/http/dto"
	"github.com/agrifield/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

func getRequestID(c *gin.Context) string {
	return c.GetString("request_id")
}

// requireScope returns the resolved scope or writes a 401 and reports false
func (h *BaseHandler) requireScope(c *gin.Context) (access.Scope, bool) {
	scope, ok := middleware.GetScope(c)
	if !ok {
		h.Error(c, http.StatusUnauthorized, "UNAUTHENTICATED", "Authentication required")
		return access.Scope{}, false
	}
	return scope, true
}

// parseIDParam parses the :id path parameter or writes a 400 and reports false
func (h *BaseHandler) parseIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, http.StatusBadRequest, "VALIDATION_FAILED", "Invalid id parameter")
		return uuid.Nil, false
	}
	return id, true
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response with the given status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, getRequestID(c)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, "VALIDATION_FAILED", message)
}

// BindError sends a 400 response for a request body that failed binding,
// with per-field details when the failure came from validation tags
func (h *BaseHandler) BindError(c *gin.Context, err error) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		middleware.HandleValidationError(c, err)
		return
	}
	h.BadRequest(c, "Invalid request body")
}

// HandleError converts domain errors to HTTP responses
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		h.Error(c, shared.HTTPStatus(domainErr), domainErr.Code, domainErr.Message)
		return
	}

	h.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred")
}
