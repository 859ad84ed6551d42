package middleware

import (
	"net/http"

	appaccess "github.com/agrifield/backend/internal/application/access"
	"github.com/agrifield/backend/internal/domain/identity"
	"github.com/agrifield/backend/internal/domain/licensing"
	"github.com/agrifield/backend/internal/domain/shared"
	"github.com/agrifield/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// RequireRoles rejects requests whose resolved scope does not hold one of
// the given roles. Runs after Authenticate.
func RequireRoles(gate *appaccess.Gate, roles ...identity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		scope, ok := GetScope(c)
		if !ok {
			abortUnauthenticated(c, "Authentication required")
			return
		}
		if decision := gate.RequireRole(scope, roles...); !decision.Allowed {
			abortDenied(c, decision.Err)
			return
		}
		c.Next()
	}
}

// RequireModule rejects requests for tenants that have not enabled the
// module the route belongs to. Role checks are never affected.
func RequireModule(gate *appaccess.Gate, key licensing.ModuleKey) gin.HandlerFunc {
	return func(c *gin.Context) {
		scope, ok := GetScope(c)
		if !ok {
			abortUnauthenticated(c, "Authentication required")
			return
		}
		if decision := gate.RequireModule(c.Request.Context(), scope, key); !decision.Allowed {
			abortDenied(c, decision.Err)
			return
		}
		c.Next()
	}
}

func abortDenied(c *gin.Context, err *shared.DomainError) {
	requestID := c.GetString("request_id")
	if err == nil {
		c.AbortWithStatusJSON(http.StatusForbidden,
			dto.NewErrorResponseWithRequestID("FORBIDDEN", "Access to this resource is forbidden", requestID))
		return
	}
	c.AbortWithStatusJSON(shared.HTTPStatus(err),
		dto.NewErrorResponseWithRequestID(err.Code, err.Message, requestID))
}
