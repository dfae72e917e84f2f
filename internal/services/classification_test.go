package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/swipelab/swipelab-backend/internal/repos"
	"github.com/swipelab/swipelab-backend/internal/types"
)

func newClassificationFixture(t *testing.T) (*fixture, ClassificationService) {
	t.Helper()
	f := newFixture(t)
	log := f.credibility.(*credibilityService).log
	imageRepo := repos.NewImageRepo(f.db, log)
	labelRepo := repos.NewLabelRepo(f.db, log)
	// No dispatcher: submissions trigger recalculation synchronously.
	svc := NewClassificationService(f.db, log, f.userRepo, imageRepo, labelRepo, f.classificationRepo, f.credibility, nil)
	return f, svc
}

func TestSubmitStoresAndTriggersScoring(t *testing.T) {
	f, svc := newClassificationFixture(t)
	ctx := context.Background()

	alice := f.createUser(t, "alice", types.RoleUser)
	expert := f.createUser(t, "expert1", types.RoleResearcher)
	catA := f.createLabel(t, "cat")
	img1 := f.createImage(t)
	img2 := f.createImage(t)

	f.classify(t, expert, img1, catA)
	f.classify(t, expert, img2, catA)
	f.classify(t, alice, img2, catA)

	row, err := svc.Submit(ctx, alice.ID, img1, catA)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if row.UserRole != types.RoleUser {
		t.Fatalf("UserRole=%v, want %v", row.UserRole, types.RoleUser)
	}

	stored, err := svc.GetForUser(ctx, alice.ID)
	if err != nil {
		t.Fatalf("GetForUser: %v", err)
	}
	if len(stored) != 2 {
		t.Fatalf("stored classifications=%d, want 2", len(stored))
	}

	// The synchronous trigger must have refreshed alice's profile: perfect
	// agreement with the expert over both images.
	got := f.reload(t, alice.ID)
	if got.CredibilityLastUpdated == nil {
		t.Fatalf("submission did not trigger scoring")
	}
	if !almostEqualF(got.AgreementWithExperts, 1.0) {
		t.Fatalf("AgreementWithExperts=%v, want 1.0", got.AgreementWithExperts)
	}
}

func TestSubmitDuplicateFirstWins(t *testing.T) {
	f, svc := newClassificationFixture(t)
	ctx := context.Background()

	alice := f.createUser(t, "alice", types.RoleUser)
	catA := f.createLabel(t, "cat")
	catB := f.createLabel(t, "dog")
	img1 := f.createImage(t)

	if _, err := svc.Submit(ctx, alice.ID, img1, catA); err != nil {
		t.Fatalf("first Submit: %v", err)
	}
	if _, err := svc.Submit(ctx, alice.ID, img1, catB); !errors.Is(err, ErrAlreadyClassified) {
		t.Fatalf("expected ErrAlreadyClassified, got %v", err)
	}

	stored, err := svc.GetForImage(ctx, img1)
	if err != nil {
		t.Fatalf("GetForImage: %v", err)
	}
	if len(stored) != 1 || stored[0].LabelID != catA {
		t.Fatalf("first submission must win, got %+v", stored)
	}
}

func TestSubmitValidatesReferences(t *testing.T) {
	f, svc := newClassificationFixture(t)
	ctx := context.Background()

	alice := f.createUser(t, "alice", types.RoleUser)
	catA := f.createLabel(t, "cat")
	img1 := f.createImage(t)

	if _, err := svc.Submit(ctx, uuid.New(), img1, catA); !errors.Is(err, repos.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if _, err := svc.Submit(ctx, alice.ID, uuid.New(), catA); !errors.Is(err, ErrImageNotFound) {
		t.Fatalf("expected ErrImageNotFound, got %v", err)
	}
	if _, err := svc.Submit(ctx, alice.ID, img1, uuid.New()); !errors.Is(err, ErrLabelNotFound) {
		t.Fatalf("expected ErrLabelNotFound, got %v", err)
	}
}
