package v1

import (
	"github.com/gin-gonic/gin"

	"focusframe-server/internal/interfaces/httpserver/handlers"
)

func registerStreamRoutes(router gin.IRouter, handler *handlers.StreamHandler) {
	router.GET("/items/stream", streamItems(handler))
	router.GET("/items/ws", itemSocket(handler))
}

// streamItems godoc
// @Summary      Live item snapshots (SSE)
// @Description  Pushes a snapshot event on every change and notice events for the caller. Browsers may pass the token as access_token.
// @Tags         stream
// @Security     BearerAuth
// @Produce      text/event-stream
// @Param        access_token  query  string  false  "Bearer token"
// @Success      200
// @Failure      401  {object}  responses.ErrorResponse
// @Router       /v1/items/stream [get]
func streamItems(handler *handlers.StreamHandler) gin.HandlerFunc {
	return handler.ServeSSE
}

// itemSocket godoc
// @Summary      Live item session (WebSocket)
// @Description  Client sends {"type":"identify","token":"..."} or {"type":"sign_out"}; server sends snapshot, notice and state events.
// @Tags         stream
// @Param        access_token  query  string  false  "Bearer token"
// @Success      101
// @Router       /v1/items/ws [get]
func itemSocket(handler *handlers.StreamHandler) gin.HandlerFunc {
	return handler.ServeWS
}
