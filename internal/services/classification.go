package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/swipelab/swipelab-backend/internal/logger"
	"github.com/swipelab/swipelab-backend/internal/repos"
	"github.com/swipelab/swipelab-backend/internal/types"
)

// ErrAlreadyClassified rejects a second classification of the same image by
// the same rater. The first submission wins.
var ErrAlreadyClassified = errors.New("image already classified by this user")

var ErrImageNotFound = errors.New("image not found")
var ErrLabelNotFound = errors.New("label not found")

// RecalcDispatcher hands a freshly stored classification to the background
// credibility recalculation worker. Enqueue must never block the submission
// path; it reports whether the trigger was accepted.
type RecalcDispatcher interface {
	Enqueue(userID, imageID uuid.UUID) bool
}

type ClassificationService interface {
	// Submit stores a new classification and triggers credibility
	// recalculation. The classification itself is the primary transaction;
	// a scoring failure is logged, never propagated.
	Submit(ctx context.Context, userID, imageID, labelID uuid.UUID) (*types.Classification, error)
	GetForImage(ctx context.Context, imageID uuid.UUID) ([]*types.Classification, error)
	GetForUser(ctx context.Context, userID uuid.UUID) ([]*types.Classification, error)
}

type classificationService struct {
	db                 *gorm.DB
	log                *logger.Logger
	userRepo           repos.UserRepo
	imageRepo          repos.ImageRepo
	labelRepo          repos.LabelRepo
	classificationRepo repos.ClassificationRepo
	credibilityService CredibilityService
	dispatcher         RecalcDispatcher
}

func NewClassificationService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	imageRepo repos.ImageRepo,
	labelRepo repos.LabelRepo,
	classificationRepo repos.ClassificationRepo,
	credibilityService CredibilityService,
	dispatcher RecalcDispatcher,
) ClassificationService {
	serviceLog := log.With("service", "ClassificationService")
	return &classificationService{
		db:                 db,
		log:                serviceLog,
		userRepo:           userRepo,
		imageRepo:          imageRepo,
		labelRepo:          labelRepo,
		classificationRepo: classificationRepo,
		credibilityService: credibilityService,
		dispatcher:         dispatcher,
	}
}

func (cls *classificationService) Submit(ctx context.Context, userID, imageID, labelID uuid.UUID) (*types.Classification, error) {
	user, err := cls.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		return nil, err
	}

	images, err := cls.imageRepo.GetByIDs(ctx, nil, []uuid.UUID{imageID})
	if err != nil {
		return nil, fmt.Errorf("fetching image: %w", err)
	}
	if len(images) == 0 {
		return nil, ErrImageNotFound
	}

	labels, err := cls.labelRepo.GetByIDs(ctx, nil, []uuid.UUID{labelID})
	if err != nil {
		return nil, fmt.Errorf("fetching label: %w", err)
	}
	if len(labels) == 0 {
		return nil, ErrLabelNotFound
	}

	row := &types.Classification{
		ID:       uuid.New(),
		UserID:   user.ID,
		ImageID:  imageID,
		LabelID:  labelID,
		UserRole: user.Role,
	}

	err = cls.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exists, err := cls.classificationRepo.ExistsByUserAndImage(ctx, tx, user.ID, imageID)
		if err != nil {
			return err
		}
		if exists {
			return ErrAlreadyClassified
		}
		_, err = cls.classificationRepo.Create(ctx, tx, []*types.Classification{row})
		return err
	})
	if err != nil {
		return nil, err
	}

	cls.triggerRecalculation(ctx, user.ID, imageID)
	return row, nil
}

func (cls *classificationService) GetForImage(ctx context.Context, imageID uuid.UUID) ([]*types.Classification, error) {
	return cls.classificationRepo.GetByImageID(ctx, nil, imageID)
}

func (cls *classificationService) GetForUser(ctx context.Context, userID uuid.UUID) ([]*types.Classification, error) {
	return cls.classificationRepo.GetByUserID(ctx, nil, userID)
}

// triggerRecalculation dispatches scoring for a stored classification.
// Prefers the background worker; falls back to a synchronous call when no
// worker is wired. Either way a scoring failure never unwinds the stored
// classification.
func (cls *classificationService) triggerRecalculation(ctx context.Context, userID, imageID uuid.UUID) {
	if cls.dispatcher != nil {
		if !cls.dispatcher.Enqueue(userID, imageID) {
			cls.log.Warn("Recalculation queue full, dropping trigger",
				"user_id", userID, "image_id", imageID)
		}
		return
	}

	if err := cls.credibilityService.OnNewClassification(ctx, userID, imageID); err != nil {
		cls.log.Error("Credibility recalculation failed",
			"user_id", userID, "image_id", imageID, "error", err)
	}
}
