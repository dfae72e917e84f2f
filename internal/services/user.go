package services

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/swipelab/swipelab-backend/internal/credibility"
	"github.com/swipelab/swipelab-backend/internal/logger"
	"github.com/swipelab/swipelab-backend/internal/repos"
	"github.com/swipelab/swipelab-backend/internal/types"
)

// CredibilityProfile is the read model for a user's derived trust state.
type CredibilityProfile struct {
	UserID                 uuid.UUID `json:"user_id"`
	Username               string    `json:"username"`
	CredibilityScore       float64   `json:"credibility_score"`
	AgreementWithExperts   float64   `json:"agreement_with_experts"`
	MajorityAgreementScore float64   `json:"majority_agreement_score"`
	TotalClassifications   int       `json:"total_classifications"`
	AgreementLevel         string    `json:"agreement_level"`
	LastUpdated            string    `json:"last_updated,omitempty"`
}

type UserService interface {
	GetByID(ctx context.Context, userID uuid.UUID) (*types.User, error)
	GetCredibilityProfile(ctx context.Context, userID uuid.UUID) (*CredibilityProfile, error)
	ListExperts(ctx context.Context) ([]*types.User, error)
}

type userService struct {
	db       *gorm.DB
	log      *logger.Logger
	userRepo repos.UserRepo
}

func NewUserService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo) UserService {
	serviceLog := log.With("service", "UserService")
	return &userService{db: db, log: serviceLog, userRepo: userRepo}
}

func (us *userService) GetByID(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	return us.userRepo.GetByID(ctx, nil, userID)
}

func (us *userService) GetCredibilityProfile(ctx context.Context, userID uuid.UUID) (*CredibilityProfile, error) {
	user, err := us.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		return nil, err
	}

	profile := &CredibilityProfile{
		UserID:                 user.ID,
		Username:               user.Username,
		CredibilityScore:       user.CredibilityScore,
		AgreementWithExperts:   user.AgreementWithExperts,
		MajorityAgreementScore: user.MajorityAgreementScore,
		TotalClassifications:   user.TotalClassifications,
		AgreementLevel:         credibility.InterpretKappa(user.AgreementWithExperts),
	}
	if user.CredibilityLastUpdated != nil {
		profile.LastUpdated = user.CredibilityLastUpdated.Format("2006-01-02T15:04:05Z07:00")
	}
	return profile, nil
}

func (us *userService) ListExperts(ctx context.Context) ([]*types.User, error) {
	return us.userRepo.GetByRoles(ctx, nil, []types.UserRole{types.RoleResearcher, types.RoleAdmin})
}
