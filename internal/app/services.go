package app

import (
	"gorm.io/gorm"

	"github.com/swipelab/swipelab-backend/internal/jobs/recalc"
	"github.com/swipelab/swipelab-backend/internal/logger"
	"github.com/swipelab/swipelab-backend/internal/services"
)

type Services struct {
	Auth           services.AuthService
	User           services.UserService
	Catalog        services.CatalogService
	Classification services.ClassificationService
	Credibility    services.CredibilityService
	Leaderboard    services.LeaderboardService
	RecalcWorker   *recalc.Worker
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos) (Services, error) {
	log.Info("Wiring services...")

	// Leaderboard is optional; without REDIS_ADDR scores are still stored
	// in postgres, just not ranked.
	var leaderboard services.LeaderboardService
	if lb, err := services.NewLeaderboardService(log); err != nil {
		log.Warn("Leaderboard disabled", "error", err)
	} else {
		leaderboard = lb
	}

	credibility := services.NewCredibilityService(
		db, log,
		reposet.User, reposet.Classification,
		leaderboard,
		cfg.ExpertWeight, cfg.MajorityWeight,
	)

	worker := recalc.NewWorker(log, credibility, cfg.RecalcQueueSize, cfg.RecalcConcurrency)

	classification := services.NewClassificationService(
		db, log,
		reposet.User, reposet.Image, reposet.Label, reposet.Classification,
		credibility,
		worker,
	)

	auth := services.NewAuthService(db, log, reposet.User, cfg.JWTSecretKey, cfg.AccessTokenTTL)
	user := services.NewUserService(db, log, reposet.User)
	catalog := services.NewCatalogService(db, log, reposet.User, reposet.Task, reposet.Image, reposet.Label)

	return Services{
		Auth:           auth,
		User:           user,
		Catalog:        catalog,
		Classification: classification,
		Credibility:    credibility,
		Leaderboard:    leaderboard,
		RecalcWorker:   worker,
	}, nil
}
