package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/swipelab/swipelab-backend/internal/logger"
	"github.com/swipelab/swipelab-backend/internal/types"
)

type ImageRepo interface {
	Create(ctx context.Context, tx *gorm.DB, images []*types.Image) ([]*types.Image, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, imageIDs []uuid.UUID) ([]*types.Image, error)
	GetByTaskID(ctx context.Context, tx *gorm.DB, taskID uuid.UUID) ([]*types.Image, error)
}

type imageRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewImageRepo(db *gorm.DB, baseLog *logger.Logger) ImageRepo {
	repoLog := baseLog.With("repo", "ImageRepo")
	return &imageRepo{db: db, log: repoLog}
}

func (ir *imageRepo) Create(ctx context.Context, tx *gorm.DB, images []*types.Image) ([]*types.Image, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}

	if len(images) == 0 {
		return []*types.Image{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&images).Error; err != nil {
		return nil, err
	}
	return images, nil
}

func (ir *imageRepo) GetByIDs(ctx context.Context, tx *gorm.DB, imageIDs []uuid.UUID) ([]*types.Image, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}

	var results []*types.Image
	if len(imageIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", imageIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ir *imageRepo) GetByTaskID(ctx context.Context, tx *gorm.DB, taskID uuid.UUID) ([]*types.Image, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}

	var results []*types.Image
	if taskID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("task_id = ?", taskID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
