package middleware

import (
	"errors"
	"net/http"
	"strings"

	appaccess "github.com/agrifield/backend/internal/application/access"
	"github.com/agrifield/backend/internal/domain/access"
	"github.com/agrifield/backend/internal/domain/shared"
	"github.com/agrifield/backend/internal/infrastructure/auth"
	"github.com/agrifield/backend/internal/infrastructure/logger"
	"github.com/agrifield/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// ScopeKey is the gin context key holding the resolved scope
	ScopeKey = "access_scope"

	authHeaderKey = "Authorization"
	bearerPrefix  = "Bearer "
)

// Authenticate validates the bearer token, resolves the carried identity
// into an acting scope, and attaches the scope to the request context. Every
// protected route runs behind it; failures never reach a handler.
func Authenticate(jwtService *auth.JWTService, resolver *appaccess.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(authHeaderKey)
		if authHeader == "" || !strings.HasPrefix(authHeader, bearerPrefix) {
			abortUnauthenticated(c, "Authentication required")
			return
		}

		tokenString := strings.TrimPrefix(authHeader, bearerPrefix)
		if tokenString == "" {
			abortUnauthenticated(c, "Authentication required")
			return
		}

		claims, err := jwtService.ValidateToken(tokenString)
		if err != nil {
			logger.FromContext(c.Request.Context()).Warn("Token validation failed",
				zap.Error(err), zap.String("path", c.Request.URL.Path))
			abortUnauthenticated(c, authErrorMessage(err))
			return
		}

		ident, err := claims.Identity()
		if err != nil {
			abortUnauthenticated(c, "Invalid token claims")
			return
		}

		scope, err := resolver.Resolve(c.Request.Context(), ident)
		if err != nil {
			abortWithDomainError(c, err)
			return
		}

		c.Set(ScopeKey, scope)

		ctx := access.WithScope(c.Request.Context(), scope)
		log := logger.WithScope(logger.FromContext(ctx), scope)
		ctx = logger.WithContext(ctx, log)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetScope returns the resolved scope for the current request
func GetScope(c *gin.Context) (access.Scope, bool) {
	value, exists := c.Get(ScopeKey)
	if !exists {
		return access.Scope{}, false
	}
	scope, ok := value.(access.Scope)
	return scope, ok
}

func authErrorMessage(err error) string {
	switch err {
	case auth.ErrExpiredToken:
		return "Token has expired"
	case auth.ErrTokenNotYetValid:
		return "Token is not yet valid"
	default:
		return "Invalid token"
	}
}

func abortUnauthenticated(c *gin.Context, message string) {
	requestID := c.GetString("request_id")
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.NewErrorResponseWithRequestID("UNAUTHENTICATED", message, requestID))
}

func abortWithDomainError(c *gin.Context, err error) {
	requestID := c.GetString("request_id")
	code := "INTERNAL_ERROR"
	message := "Internal error"
	var de *shared.DomainError
	if errors.As(err, &de) {
		code = de.Code
		message = de.Message
	}
	c.AbortWithStatusJSON(shared.HTTPStatus(err),
		dto.NewErrorResponseWithRequestID(code, message, requestID))
}
