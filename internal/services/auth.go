package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/swipelab/swipelab-backend/internal/logger"
	"github.com/swipelab/swipelab-backend/internal/repos"
	"github.com/swipelab/swipelab-backend/internal/types"
	"github.com/swipelab/swipelab-backend/internal/utils"
)

var ErrInvalidCredentials = errors.New("invalid username or password")
var ErrInvalidToken = errors.New("invalid or expired token")

type AuthService interface {
	Register(ctx context.Context, username, email, password, displayName string) (*types.User, error)
	Login(ctx context.Context, username, password string) (string, *types.User, error)
	ValidateToken(tokenString string) (uuid.UUID, error)
}

type authService struct {
	db           *gorm.DB
	log          *logger.Logger
	userRepo     repos.UserRepo
	jwtSecretKey string
	accessTTL    time.Duration
}

func NewAuthService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	jwtSecretKey string,
	accessTTL time.Duration,
) AuthService {
	serviceLog := log.With("service", "AuthService")
	return &authService{
		db:           db,
		log:          serviceLog,
		userRepo:     userRepo,
		jwtSecretKey: jwtSecretKey,
		accessTTL:    accessTTL,
	}
}

func (as *authService) Register(ctx context.Context, username, email, password, displayName string) (*types.User, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))

	if username == "" {
		return nil, fmt.Errorf("a username is required to register")
	}
	if email == "" {
		return nil, fmt.Errorf("an email is required to register")
	}

	usernameTaken, err := as.userRepo.UsernameExists(ctx, nil, username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if usernameTaken {
		return nil, fmt.Errorf("username is already in use")
	}

	emailTaken, err := as.userRepo.EmailExists(ctx, nil, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if emailTaken {
		return nil, fmt.Errorf("email is already in use")
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &types.User{
		ID:          uuid.New(),
		Username:    username,
		Email:       email,
		Password:    hashed,
		DisplayName: strings.TrimSpace(displayName),
		Role:        types.RoleUser,
	}

	if err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, err := as.userRepo.Create(ctx, tx, []*types.User{user})
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	as.log.Info("Registered user", "user_id", user.ID, "username", user.Username)
	return user, nil
}

func (as *authService) Login(ctx context.Context, username, password string) (string, *types.User, error) {
	user, err := as.userRepo.GetByUsername(ctx, nil, strings.TrimSpace(username))
	if errors.Is(err, repos.ErrUserNotFound) {
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, fmt.Errorf("failed to fetch user: %w", err)
	}

	if err := utils.CheckPassword(user.Password, password); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := as.generateAccessToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (as *authService) ValidateToken(tokenString string) (uuid.UUID, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(as.jwtSecretKey), nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, ErrInvalidToken
	}
	sub, err := claims.GetSubject()
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}
	userID, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}
	return userID, nil
}

func (as *authService) generateAccessToken(user *types.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  user.ID.String(),
		"role": string(user.Role),
		"iat":  now.Unix(),
		"exp":  now.Add(as.accessTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(as.jwtSecretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, nil
}
