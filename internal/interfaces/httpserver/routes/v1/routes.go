package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"focusframe-server/internal/interfaces/httpserver/handlers"
)

// Routes encapsulates versioned route registration.
type Routes struct {
	handlers *handlers.Provider
	log      zerolog.Logger
}

// NewRoutes builds the v1 route registrar.
func NewRoutes(handlerProvider *handlers.Provider, log zerolog.Logger) *Routes {
	return &Routes{
		handlers: handlerProvider,
		log:      log.With().Str("component", "http-routes").Logger(),
	}
}

// Register attaches all v1 routes under /v1 prefix.
func (r *Routes) Register(engine *gin.Engine, authMiddleware gin.HandlerFunc) {
	group := engine.Group("/v1")
	if authMiddleware != nil {
		group.Use(authMiddleware)
	}
	registerItemRoutes(group, r.handlers.Item, r.log)
	registerStreamRoutes(group, r.handlers.Stream)
	registerVoiceRoutes(group, r.handlers.Voice, r.log)
	registerAccountRoutes(group, r.handlers.Account, r.log)
}
