package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/swipelab/swipelab-backend/internal/logger"
	"github.com/swipelab/swipelab-backend/internal/types"
)

type ClassificationRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.Classification) ([]*types.Classification, error)
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Classification, error)
	GetByImageID(ctx context.Context, tx *gorm.DB, imageID uuid.UUID) ([]*types.Classification, error)
	GetExpert(ctx context.Context, tx *gorm.DB) ([]*types.Classification, error)
	GetNonExpertByImageID(ctx context.Context, tx *gorm.DB, imageID uuid.UUID) ([]*types.Classification, error)
	ExistsByUserAndImage(ctx context.Context, tx *gorm.DB, userID, imageID uuid.UUID) (bool, error)
	CountByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error)
}

type classificationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewClassificationRepo(db *gorm.DB, baseLog *logger.Logger) ClassificationRepo {
	repoLog := baseLog.With("repo", "ClassificationRepo")
	return &classificationRepo{db: db, log: repoLog}
}

var expertRoles = []types.UserRole{types.RoleResearcher, types.RoleAdmin}

func (cr *classificationRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.Classification) ([]*types.Classification, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	if len(rows) == 0 {
		return []*types.Classification{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (cr *classificationRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Classification, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var results []*types.Classification
	if userID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (cr *classificationRepo) GetByImageID(ctx context.Context, tx *gorm.DB, imageID uuid.UUID) ([]*types.Classification, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var results []*types.Classification
	if imageID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("image_id = ?", imageID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// GetExpert returns every classification made by an expert-like rater
// (researcher or admin), system-wide.
func (cr *classificationRepo) GetExpert(ctx context.Context, tx *gorm.DB) ([]*types.Classification, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var results []*types.Classification
	if err := transaction.WithContext(ctx).
		Where("user_role IN ?", expertRoles).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (cr *classificationRepo) GetNonExpertByImageID(ctx context.Context, tx *gorm.DB, imageID uuid.UUID) ([]*types.Classification, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var results []*types.Classification
	if imageID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("image_id = ? AND user_role NOT IN ?", imageID, expertRoles).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (cr *classificationRepo) ExistsByUserAndImage(ctx context.Context, tx *gorm.DB, userID, imageID uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Classification{}).
		Where("user_id = ? AND image_id = ?", userID, imageID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (cr *classificationRepo) CountByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Classification{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
