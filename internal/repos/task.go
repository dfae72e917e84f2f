package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/swipelab/swipelab-backend/internal/logger"
	"github.com/swipelab/swipelab-backend/internal/types"
)

type TaskRepo interface {
	Create(ctx context.Context, tx *gorm.DB, tasks []*types.Task) ([]*types.Task, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, taskIDs []uuid.UUID) ([]*types.Task, error)
	GetActive(ctx context.Context, tx *gorm.DB) ([]*types.Task, error)
}

type taskRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTaskRepo(db *gorm.DB, baseLog *logger.Logger) TaskRepo {
	repoLog := baseLog.With("repo", "TaskRepo")
	return &taskRepo{db: db, log: repoLog}
}

func (tr *taskRepo) Create(ctx context.Context, tx *gorm.DB, tasks []*types.Task) ([]*types.Task, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	if len(tasks) == 0 {
		return []*types.Task{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (tr *taskRepo) GetByIDs(ctx context.Context, tx *gorm.DB, taskIDs []uuid.UUID) ([]*types.Task, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	var results []*types.Task
	if len(taskIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", taskIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (tr *taskRepo) GetActive(ctx context.Context, tx *gorm.DB) ([]*types.Task, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	var results []*types.Task
	if err := transaction.WithContext(ctx).
		Where("active = ?", true).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
