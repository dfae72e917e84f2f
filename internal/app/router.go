package app

import (
	"github.com/gin-gonic/gin"

	"github.com/swipelab/swipelab-backend/internal/server"
)

func wireRouter(cfg Config, handlers Handlers, middleware Middleware) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		ServiceName:           cfg.ServiceName,
		AllowedOrigins:        cfg.AllowedOrigins,
		AuthHandler:           handlers.Auth,
		AuthMiddleware:        middleware.Auth,
		UserHandler:           handlers.User,
		ClassificationHandler: handlers.Classification,
		CatalogHandler:        handlers.Catalog,
		LeaderboardHandler:    handlers.Leaderboard,
	})
}
