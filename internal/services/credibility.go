package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/swipelab/swipelab-backend/internal/credibility"
	"github.com/swipelab/swipelab-backend/internal/logger"
	"github.com/swipelab/swipelab-backend/internal/repos"
	"github.com/swipelab/swipelab-backend/internal/types"
)

// CredibilityService recomputes each rater's derived agreement statistics
// from a fresh pass over the relevant classification sets. It is the only
// writer of the credibility fields on the user row.
type CredibilityService interface {
	// UpdateExpertAgreement refreshes the user's Cohen's Kappa against the
	// combined system-wide expert classification set. A user or expert set
	// with no classifications, or insufficient overlap, leaves the stored
	// value unchanged (silent skip, not an error).
	UpdateExpertAgreement(ctx context.Context, userID uuid.UUID) error

	// UpdateMajorityAgreement refreshes the fraction of the user's
	// classifications that agree with the full-population majority vote on
	// the same image. Images with fewer than two total classifications are
	// skipped; zero qualifying images stores an explicit 0.0.
	UpdateMajorityAgreement(ctx context.Context, userID uuid.UUID) error

	// UpdateOverallScore recomputes both agreement signals, blends them and
	// persists the user's full credibility profile in one transaction.
	UpdateOverallScore(ctx context.Context, userID uuid.UUID) error

	// RecalculateForImage refreshes the profile of every non-expert rater
	// of the image. Used when an expert's new ground truth retroactively
	// changes the comparison population.
	RecalculateForImage(ctx context.Context, imageID uuid.UUID) error

	// OnNewClassification is the trigger entry point for a freshly
	// submitted classification.
	OnNewClassification(ctx context.Context, userID, imageID uuid.UUID) error
}

type credibilityService struct {
	db                 *gorm.DB
	log                *logger.Logger
	userRepo           repos.UserRepo
	classificationRepo repos.ClassificationRepo
	leaderboard        LeaderboardService

	expertWeight   float64
	majorityWeight float64
}

func NewCredibilityService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	classificationRepo repos.ClassificationRepo,
	leaderboard LeaderboardService,
	expertWeight float64,
	majorityWeight float64,
) CredibilityService {
	serviceLog := log.With("service", "CredibilityService")
	return &credibilityService{
		db:                 db,
		log:                serviceLog,
		userRepo:           userRepo,
		classificationRepo: classificationRepo,
		leaderboard:        leaderboard,
		expertWeight:       expertWeight,
		majorityWeight:     majorityWeight,
	}
}

func (cs *credibilityService) UpdateExpertAgreement(ctx context.Context, userID uuid.UUID) error {
	return cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := cs.userRepo.GetByID(ctx, tx, userID)
		if err != nil {
			return err
		}
		if user.IsExpertLike() {
			cs.log.Debug("Skipping expert agreement for expert-like user", "user_id", userID)
			return nil
		}

		kappa, ok, err := cs.computeExpertAgreement(ctx, tx, user)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}

		user.AgreementWithExperts = kappa
		return cs.userRepo.Save(ctx, tx, user)
	})
}

func (cs *credibilityService) UpdateMajorityAgreement(ctx context.Context, userID uuid.UUID) error {
	return cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := cs.userRepo.GetByID(ctx, tx, userID)
		if err != nil {
			return err
		}
		if user.IsExpertLike() {
			cs.log.Debug("Skipping majority agreement for expert-like user", "user_id", userID)
			return nil
		}

		score, err := cs.computeMajorityAgreement(ctx, tx, user)
		if err != nil {
			return err
		}

		user.MajorityAgreementScore = score
		return cs.userRepo.Save(ctx, tx, user)
	})
}

func (cs *credibilityService) UpdateOverallScore(ctx context.Context, userID uuid.UUID) error {
	var updated *types.User

	err := cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := cs.userRepo.GetByID(ctx, tx, userID)
		if err != nil {
			return err
		}
		if user.IsExpertLike() {
			cs.log.Debug("Skipping credibility scoring for expert-like user", "user_id", userID)
			return nil
		}

		kappa, ok, err := cs.computeExpertAgreement(ctx, tx, user)
		if err != nil {
			return err
		}
		if ok {
			user.AgreementWithExperts = kappa
		}

		majority, err := cs.computeMajorityAgreement(ctx, tx, user)
		if err != nil {
			return err
		}
		user.MajorityAgreementScore = majority

		// The whole blended sum is rescaled as a -1..1 value onto 0..100.
		// The majority term already lives in 0..1, so the ceiling sits
		// slightly above 100; no extra clamp is applied.
		blended := cs.expertWeight*user.AgreementWithExperts + cs.majorityWeight*user.MajorityAgreementScore
		user.CredibilityScore = ((blended + 1) / 2) * 100

		total, err := cs.classificationRepo.CountByUserID(ctx, tx, user.ID)
		if err != nil {
			return err
		}
		user.TotalClassifications = int(total)

		now := time.Now().UTC()
		user.CredibilityLastUpdated = &now

		if err := cs.userRepo.Save(ctx, tx, user); err != nil {
			return err
		}
		updated = user
		return nil
	})
	if err != nil {
		return err
	}

	if updated != nil {
		cs.log.Info("Updated credibility profile",
			"user_id", updated.ID,
			"credibility_score", updated.CredibilityScore,
			"agreement_with_experts", updated.AgreementWithExperts,
			"majority_agreement_score", updated.MajorityAgreementScore,
		)
		cs.publishScore(ctx, updated)
	}
	return nil
}

func (cs *credibilityService) RecalculateForImage(ctx context.Context, imageID uuid.UUID) error {
	rows, err := cs.classificationRepo.GetNonExpertByImageID(ctx, nil, imageID)
	if err != nil {
		return fmt.Errorf("fetching non-expert classifications for image: %w", err)
	}
	if len(rows) == 0 {
		return nil
	}

	seen := make(map[uuid.UUID]struct{}, len(rows))
	raterIDs := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		if _, dup := seen[row.UserID]; dup {
			continue
		}
		seen[row.UserID] = struct{}{}
		raterIDs = append(raterIDs, row.UserID)
	}

	// Profiles of distinct raters are independent rows; recompute them in
	// parallel.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, raterID := range raterIDs {
		raterID := raterID
		g.Go(func() error {
			return cs.UpdateOverallScore(gctx, raterID)
		})
	}
	return g.Wait()
}

func (cs *credibilityService) OnNewClassification(ctx context.Context, userID, imageID uuid.UUID) error {
	user, err := cs.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		return err
	}

	if user.IsExpertLike() {
		// New ground truth: every ordinary rater of this image needs fresh
		// statistics. The expert's own profile is never scored.
		cs.log.Info("Expert classification, recalculating raters of image",
			"expert_id", userID, "image_id", imageID)
		return cs.RecalculateForImage(ctx, imageID)
	}

	return cs.UpdateOverallScore(ctx, userID)
}

// computeExpertAgreement returns the user's Cohen's Kappa against the
// combined expert classification set. ok is false when either set is empty or
// the commonly rated overlap is too small for the statistic to be defined.
func (cs *credibilityService) computeExpertAgreement(ctx context.Context, tx *gorm.DB, user *types.User) (float64, bool, error) {
	userRows, err := cs.classificationRepo.GetByUserID(ctx, tx, user.ID)
	if err != nil {
		return 0, false, fmt.Errorf("fetching user classifications: %w", err)
	}
	if len(userRows) == 0 {
		cs.log.Debug("User has no classifications, leaving expert agreement unchanged", "user_id", user.ID)
		return 0, false, nil
	}

	expertRows, err := cs.classificationRepo.GetExpert(ctx, tx)
	if err != nil {
		return 0, false, fmt.Errorf("fetching expert classifications: %w", err)
	}
	if len(expertRows) == 0 {
		cs.log.Warn("No expert classifications in system, leaving expert agreement unchanged")
		return 0, false, nil
	}

	kappa, ok, err := credibility.CohenKappaFromRatings(toRatings(userRows), toRatings(expertRows))
	if err != nil {
		return 0, false, err
	}
	if !ok {
		cs.log.Debug("Insufficient overlap with expert classifications", "user_id", user.ID)
		return 0, false, nil
	}
	return kappa, true, nil
}

// computeMajorityAgreement scores the user against the full-population
// majority vote on every image they classified. Always defined; zero
// qualifying images yields 0.0.
func (cs *credibilityService) computeMajorityAgreement(ctx context.Context, tx *gorm.DB, user *types.User) (float64, error) {
	userRows, err := cs.classificationRepo.GetByUserID(ctx, tx, user.ID)
	if err != nil {
		return 0, fmt.Errorf("fetching user classifications: %w", err)
	}

	agreements := 0.0
	comparisons := 0
	for _, row := range userRows {
		imageRows, err := cs.classificationRepo.GetByImageID(ctx, tx, row.ImageID)
		if err != nil {
			return 0, fmt.Errorf("fetching classifications for image: %w", err)
		}
		if len(imageRows) < 2 {
			continue
		}

		votes := make([]credibility.Vote, 0, len(imageRows))
		for _, ir := range imageRows {
			votes = append(votes, credibility.Vote{RaterID: ir.UserID, LabelID: ir.LabelID})
		}

		majority, ok := credibility.MajorityVote(votes)
		agreements += credibility.MajorityAgreement(row.LabelID, majority, ok)
		comparisons++
	}

	if comparisons == 0 {
		return 0.0, nil
	}
	return agreements / float64(comparisons), nil
}

func (cs *credibilityService) publishScore(ctx context.Context, user *types.User) {
	if cs.leaderboard == nil {
		return
	}
	if err := cs.leaderboard.RecordScore(ctx, user.ID, user.CredibilityScore); err != nil {
		// Scoring already persisted; the leaderboard is a best-effort view.
		cs.log.Warn("Failed to publish score to leaderboard", "user_id", user.ID, "error", err)
	}
}

func toRatings(rows []*types.Classification) []credibility.Rating {
	out := make([]credibility.Rating, 0, len(rows))
	for _, row := range rows {
		out = append(out, credibility.Rating{ImageID: row.ImageID, LabelID: row.LabelID})
	}
	return out
}
