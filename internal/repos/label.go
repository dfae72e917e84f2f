package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/swipelab/swipelab-backend/internal/logger"
	"github.com/swipelab/swipelab-backend/internal/types"
)

type LabelRepo interface {
	Create(ctx context.Context, tx *gorm.DB, labels []*types.Label) ([]*types.Label, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, labelIDs []uuid.UUID) ([]*types.Label, error)
	GetAll(ctx context.Context, tx *gorm.DB) ([]*types.Label, error)
}

type labelRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLabelRepo(db *gorm.DB, baseLog *logger.Logger) LabelRepo {
	repoLog := baseLog.With("repo", "LabelRepo")
	return &labelRepo{db: db, log: repoLog}
}

func (lr *labelRepo) Create(ctx context.Context, tx *gorm.DB, labels []*types.Label) ([]*types.Label, error) {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}

	if len(labels) == 0 {
		return []*types.Label{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&labels).Error; err != nil {
		return nil, err
	}
	return labels, nil
}

func (lr *labelRepo) GetByIDs(ctx context.Context, tx *gorm.DB, labelIDs []uuid.UUID) ([]*types.Label, error) {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}

	var results []*types.Label
	if len(labelIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", labelIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (lr *labelRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]*types.Label, error) {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}

	var results []*types.Label
	if err := transaction.WithContext(ctx).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
