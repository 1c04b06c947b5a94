package routes

import (
	"estatehub_backend/internal/handlers"
	"estatehub_backend/internal/logger"
	"estatehub_backend/ws"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the REST API under /api and the websocket at /ws.
func RegisterRoutes(
	ginRouter *gin.Engine,
	appHandlers *handlers.AppHandlers,
	wsHandler *ws.WebSocketHandler,
) {
	api := ginRouter.Group("/api")
	for _, h := range appHandlers.All() {
		h.RegisterRoutes(api)
	}

	if wsHandler != nil {
		ginRouter.GET("/ws", appHandlers.AuthHandler.Authenticated(), wsHandler.ServeWS)
		logger.Info("WebSocket route /ws registered")
	}
}
