package app

import (
	"github.com/swipelab/swipelab-backend/internal/handlers"
	"github.com/swipelab/swipelab-backend/internal/logger"
)

type Handlers struct {
	Auth           *handlers.AuthHandler
	User           *handlers.UserHandler
	Classification *handlers.ClassificationHandler
	Catalog        *handlers.CatalogHandler
	Leaderboard    *handlers.LeaderboardHandler
}

func wireHandlers(log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Auth:           handlers.NewAuthHandler(services.Auth),
		User:           handlers.NewUserHandler(services.User),
		Classification: handlers.NewClassificationHandler(services.Classification),
		Catalog:        handlers.NewCatalogHandler(services.Catalog),
		Leaderboard:    handlers.NewLeaderboardHandler(services.Leaderboard),
	}
}
