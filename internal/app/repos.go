package app

import (
	"gorm.io/gorm"

	"github.com/swipelab/swipelab-backend/internal/logger"
	"github.com/swipelab/swipelab-backend/internal/repos"
)

type Repos struct {
	User           repos.UserRepo
	Task           repos.TaskRepo
	Image          repos.ImageRepo
	Label          repos.LabelRepo
	Classification repos.ClassificationRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:           repos.NewUserRepo(db, log),
		Task:           repos.NewTaskRepo(db, log),
		Image:          repos.NewImageRepo(db, log),
		Label:          repos.NewLabelRepo(db, log),
		Classification: repos.NewClassificationRepo(db, log),
	}
}
