package routes

import (
	"hiring_backend/internal/handlers"
	"hiring_backend/internal/logger"
	"hiring_backend/internal/middleware"
	"hiring_backend/ws"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes регистрирует все HTTP и WebSocket маршруты.
func RegisterRoutes(
	ginRouter *gin.Engine,
	appHandlers *handlers.AppHandlers,
	wsHandler *ws.WebSocketHandler,
	guards middleware.Guards,
) {
	api := ginRouter.Group("/api")
	{
		appHandlers.HealthHandler.RegisterRoutes(api)
		appHandlers.AuthHandler.RegisterRoutes(api, guards)
		appHandlers.CandidateHandler.RegisterRoutes(api, guards)
		appHandlers.AssignmentHandler.RegisterRoutes(api, guards)
		appHandlers.BoardHandler.RegisterRoutes(api, guards)
		appHandlers.AdminHandler.RegisterRoutes(api, guards)
	}

	appHandlers.FileHandler.RegisterRoutes(ginRouter)

	if wsHandler != nil {
		ginRouter.GET("/ws", guards.Auth, wsHandler.ServeWS)
		logger.Info("WebSocket route /ws registered")
	}
}
