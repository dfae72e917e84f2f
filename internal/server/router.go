package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/swipelab/swipelab-backend/internal/handlers"
	"github.com/swipelab/swipelab-backend/internal/middleware"
)

type RouterConfig struct {
	ServiceName           string
	AllowedOrigins        []string
	AuthHandler           *handlers.AuthHandler
	AuthMiddleware        *middleware.AuthMiddleware
	UserHandler           *handlers.UserHandler
	ClassificationHandler *handlers.ClassificationHandler
	CatalogHandler        *handlers.CatalogHandler
	LeaderboardHandler    *handlers.LeaderboardHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(otelgin.Middleware(cfg.ServiceName))

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.HealthCheck)
	api := router.Group("/api")
	{
		api.POST("/register", cfg.AuthHandler.Register)
		api.POST("/login", cfg.AuthHandler.Login)
	}

	// ===============
	// || Protected ||
	// ===============
	protected := api.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	// User
	protected.GET("/user", cfg.UserHandler.GetMe)
	protected.GET("/user/credibility", cfg.UserHandler.GetMyCredibility)
	protected.GET("/users/:id/credibility", cfg.UserHandler.GetCredibility)
	protected.GET("/experts", cfg.UserHandler.ListExperts)
	// Classifications
	protected.POST("/classifications", cfg.ClassificationHandler.Submit)
	protected.GET("/classifications", cfg.ClassificationHandler.ListMine)
	protected.GET("/images/:id/classifications", cfg.ClassificationHandler.ListForImage)
	// Catalog
	protected.POST("/tasks", cfg.CatalogHandler.CreateTask)
	protected.GET("/tasks", cfg.CatalogHandler.ListTasks)
	protected.GET("/tasks/:id/images", cfg.CatalogHandler.ListImagesForTask)
	protected.POST("/images", cfg.CatalogHandler.CreateImage)
	protected.POST("/labels", cfg.CatalogHandler.CreateLabel)
	protected.GET("/labels", cfg.CatalogHandler.ListLabels)
	// Leaderboard
	protected.GET("/leaderboard", cfg.LeaderboardHandler.Top)
	protected.GET("/leaderboard/rank", cfg.LeaderboardHandler.MyRank)

	return router
}
