// Package router assembles the HTTP route tree: unauthenticated system
// routes, then every business route behind authentication.
package router

import (
	"github.com/gin-gonic/gin"
)

// RouteRegistrar defines the interface for registering routes
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router manages HTTP route registration
type Router struct {
	engine     *gin.Engine
	apiVersion string
	public     []RouteRegistrar
	protected  []RouteRegistrar
	authChain  []gin.HandlerFunc
}

// NewRouter creates a new Router instance
func NewRouter(engine *gin.Engine) *Router {
	return &Router{
		engine:     engine,
		apiVersion: "v1",
	}
}

// RegisterPublic adds registrars that serve unauthenticated routes
func (r *Router) RegisterPublic(registrars ...RouteRegistrar) *Router {
	r.public = append(r.public, registrars...)
	return r
}

// RegisterProtected adds registrars whose routes require authentication
func (r *Router) RegisterProtected(registrars ...RouteRegistrar) *Router {
	r.protected = append(r.protected, registrars...)
	return r
}

// WithAuth sets the middleware chain applied to protected routes
func (r *Router) WithAuth(chain ...gin.HandlerFunc) *Router {
	r.authChain = chain
	return r
}

// Setup registers all routes with the engine
func (r *Router) Setup() {
	api := r.engine.Group("/api/" + r.apiVersion)

	for _, registrar := range r.public {
		registrar.RegisterRoutes(api)
	}

	authed := api.Group("")
	authed.Use(r.authChain...)
	for _, registrar := range r.protected {
		registrar.RegisterRoutes(authed)
	}
}
