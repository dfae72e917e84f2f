package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/swipelab/swipelab-backend/internal/logger"
	"github.com/swipelab/swipelab-backend/internal/repos"
)

func newAuthFixture(t *testing.T) AuthService {
	t.Helper()
	db := openTestDB(t)
	log := logger.NewNop()
	userRepo := repos.NewUserRepo(db, log)
	return NewAuthService(db, log, userRepo, "test-secret", time.Hour)
}

func TestRegisterLoginValidateRoundtrip(t *testing.T) {
	svc := newAuthFixture(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice", "alice@example.com", "s3cret-pw", "Alice")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	token, loggedIn, err := svc.Login(ctx, "alice", "s3cret-pw")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if loggedIn.ID != user.ID {
		t.Fatalf("login returned user %v, want %v", loggedIn.ID, user.ID)
	}

	userID, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if userID != user.ID {
		t.Fatalf("token subject %v, want %v", userID, user.ID)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newAuthFixture(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice", "alice@example.com", "s3cret-pw", ""); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if _, _, err := svc.Login(ctx, "alice", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", err)
	}
	if _, _, err := svc.Login(ctx, "nobody", "s3cret-pw"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	svc := newAuthFixture(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice", "alice@example.com", "s3cret-pw", ""); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := svc.Register(ctx, "alice", "other@example.com", "s3cret-pw", ""); err == nil {
		t.Fatalf("expected duplicate username to be rejected")
	}
	if _, err := svc.Register(ctx, "alice2", "alice@example.com", "s3cret-pw", ""); err == nil {
		t.Fatalf("expected duplicate email to be rejected")
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := newAuthFixture(t)
	if _, err := svc.ValidateToken("not.a.token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
