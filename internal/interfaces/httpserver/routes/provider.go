package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/google/wire"
	"github.com/rs/zerolog"

	"focusframe-server/internal/interfaces/httpserver/handlers"
	v1 "focusframe-server/internal/interfaces/httpserver/routes/v1"
)

// Provider registers every API version.
type Provider struct {
	v1       *v1.Routes
	handlers *handlers.Provider
}

// NewProvider builds the route provider.
func NewProvider(handlerProvider *handlers.Provider, log zerolog.Logger) *Provider {
	return &Provider{v1: v1.NewRoutes(handlerProvider, log), handlers: handlerProvider}
}

// Register attaches all versioned routes behind the auth middleware.
func (p *Provider) Register(engine *gin.Engine, authMiddleware gin.HandlerFunc) {
	p.v1.Register(engine, authMiddleware)
}

// Shutdown runs when the HTTP server begins shutting down.
func (p *Provider) Shutdown() {
	p.handlers.Shutdown()
}

// RouteProvider is the wire set for route registration.
var RouteProvider = wire.NewSet(NewProvider)
