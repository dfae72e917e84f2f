package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/swipelab/swipelab-backend/internal/logger"
	"github.com/swipelab/swipelab-backend/internal/repos"
	"github.com/swipelab/swipelab-backend/internal/types"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("opening sqlite: %v", err)
	}

	// A single connection keeps the in-memory database alive and serializes
	// concurrent transactions at the pool.
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("unwrapping sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := gdb.AutoMigrate(
		&types.User{},
		&types.Task{},
		&types.Label{},
		&types.Image{},
		&types.Classification{},
	); err != nil {
		t.Fatalf("migrating test schema: %v", err)
	}
	return gdb
}

type fixture struct {
	db                 *gorm.DB
	userRepo           repos.UserRepo
	classificationRepo repos.ClassificationRepo
	credibility        CredibilityService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := openTestDB(t)
	log := logger.NewNop()
	userRepo := repos.NewUserRepo(db, log)
	classificationRepo := repos.NewClassificationRepo(db, log)
	svc := NewCredibilityService(db, log, userRepo, classificationRepo, nil, 0.6, 0.4)
	return &fixture{
		db:                 db,
		userRepo:           userRepo,
		classificationRepo: classificationRepo,
		credibility:        svc,
	}
}

func (f *fixture) createUser(t *testing.T, username string, role types.UserRole) *types.User {
	t.Helper()
	user := &types.User{
		ID:       uuid.New(),
		Username: username,
		Email:    username + "@example.com",
		Password: "not-a-real-hash",
		Role:     role,
	}
	if _, err := f.userRepo.Create(context.Background(), nil, []*types.User{user}); err != nil {
		t.Fatalf("creating user %s: %v", username, err)
	}
	return user
}

func (f *fixture) createImage(t *testing.T) uuid.UUID {
	t.Helper()
	img := &types.Image{ID: uuid.New(), URL: "https://images.example.com/" + uuid.NewString()}
	if err := f.db.Create(img).Error; err != nil {
		t.Fatalf("creating image: %v", err)
	}
	return img.ID
}

func (f *fixture) createLabel(t *testing.T, name string) uuid.UUID {
	t.Helper()
	label := &types.Label{ID: uuid.New(), Name: name}
	if err := f.db.Create(label).Error; err != nil {
		t.Fatalf("creating label: %v", err)
	}
	return label.ID
}

func (f *fixture) classify(t *testing.T, user *types.User, imageID, labelID uuid.UUID) {
	t.Helper()
	row := &types.Classification{
		ID:       uuid.New(),
		UserID:   user.ID,
		ImageID:  imageID,
		LabelID:  labelID,
		UserRole: user.Role,
	}
	if _, err := f.classificationRepo.Create(context.Background(), nil, []*types.Classification{row}); err != nil {
		t.Fatalf("creating classification: %v", err)
	}
}

func (f *fixture) reload(t *testing.T, userID uuid.UUID) *types.User {
	t.Helper()
	user, err := f.userRepo.GetByID(context.Background(), nil, userID)
	if err != nil {
		t.Fatalf("reloading user: %v", err)
	}
	return user
}

func TestOnNewClassificationOrdinaryRaterUpdatesOnlySelf(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	alice := f.createUser(t, "alice", types.RoleUser)
	carol := f.createUser(t, "carol", types.RoleUser)
	expert := f.createUser(t, "expert1", types.RoleResearcher)

	catA := f.createLabel(t, "cat")
	catB := f.createLabel(t, "dog")
	img1 := f.createImage(t)
	img2 := f.createImage(t)

	// Alice and the expert overlap on both images: agree on img1, disagree
	// on img2.
	f.classify(t, expert, img1, catA)
	f.classify(t, expert, img2, catB)
	f.classify(t, alice, img1, catA)
	f.classify(t, alice, img2, catA)

	if err := f.credibility.OnNewClassification(ctx, alice.ID, img1); err != nil {
		t.Fatalf("OnNewClassification: %v", err)
	}

	got := f.reload(t, alice.ID)
	// Cohen's Kappa over (A,A),(A,B): Po=0.5, Pe=0.5 -> 0.
	if !almostEqualF(got.AgreementWithExperts, 0.0) {
		t.Fatalf("AgreementWithExperts=%v, want 0.0", got.AgreementWithExperts)
	}
	// img1 has a 2/2 majority for catA (agree), img2 splits 1/1 (no
	// majority, counts against) -> 0.5.
	if !almostEqualF(got.MajorityAgreementScore, 0.5) {
		t.Fatalf("MajorityAgreementScore=%v, want 0.5", got.MajorityAgreementScore)
	}
	// blended = 0.6*0 + 0.4*0.5 = 0.2 -> ((0.2+1)/2)*100 = 60.
	if !almostEqualF(got.CredibilityScore, 60.0) {
		t.Fatalf("CredibilityScore=%v, want 60.0", got.CredibilityScore)
	}
	if got.CredibilityLastUpdated == nil {
		t.Fatalf("CredibilityLastUpdated not set")
	}
	if got.TotalClassifications != 2 {
		t.Fatalf("TotalClassifications=%d, want 2", got.TotalClassifications)
	}

	// Carol never classified anything and must be untouched.
	bystander := f.reload(t, carol.ID)
	if bystander.CredibilityLastUpdated != nil {
		t.Fatalf("bystander profile was touched")
	}
	if bystander.AgreementWithExperts != 0 || bystander.MajorityAgreementScore != 0 {
		t.Fatalf("bystander agreement fields changed: %+v", bystander)
	}
}

func TestOnNewClassificationExpertCascadesToRatersOfImage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	bob := f.createUser(t, "bob", types.RoleResearcher)
	carol := f.createUser(t, "carol", types.RoleUser)
	dave := f.createUser(t, "dave", types.RoleUser)

	catA := f.createLabel(t, "cat")
	catB := f.createLabel(t, "dog")
	img1 := f.createImage(t)
	img2 := f.createImage(t)

	// Carol and Dave rated both images before the expert weighed in.
	f.classify(t, carol, img1, catA)
	f.classify(t, carol, img2, catA)
	f.classify(t, dave, img1, catB)
	f.classify(t, dave, img2, catA)

	// Bob (expert) now rates both images.
	f.classify(t, bob, img1, catA)
	f.classify(t, bob, img2, catA)

	if err := f.credibility.OnNewClassification(ctx, bob.ID, img2); err != nil {
		t.Fatalf("OnNewClassification: %v", err)
	}

	carolAfter := f.reload(t, carol.ID)
	daveAfter := f.reload(t, dave.ID)
	bobAfter := f.reload(t, bob.ID)

	if carolAfter.CredibilityLastUpdated == nil {
		t.Fatalf("carol's profile was not recomputed")
	}
	if daveAfter.CredibilityLastUpdated == nil {
		t.Fatalf("dave's profile was not recomputed")
	}
	if bobAfter.CredibilityLastUpdated != nil {
		t.Fatalf("expert's own profile must not be scored")
	}

	// Carol matches the expert on both images -> kappa 1.
	if !almostEqualF(carolAfter.AgreementWithExperts, 1.0) {
		t.Fatalf("carol AgreementWithExperts=%v, want 1.0", carolAfter.AgreementWithExperts)
	}
	// Dave disagrees on img1, agrees on img2: Po=0.5; dave counts A=1,B=1,
	// expert counts A=2 -> Pe=0.5 -> kappa 0.
	if !almostEqualF(daveAfter.AgreementWithExperts, 0.0) {
		t.Fatalf("dave AgreementWithExperts=%v, want 0.0", daveAfter.AgreementWithExperts)
	}
}

func TestUpdateOverallScoreIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	alice := f.createUser(t, "alice", types.RoleUser)
	expert := f.createUser(t, "expert1", types.RoleResearcher)

	catA := f.createLabel(t, "cat")
	catB := f.createLabel(t, "dog")
	img1 := f.createImage(t)
	img2 := f.createImage(t)
	img3 := f.createImage(t)

	f.classify(t, expert, img1, catA)
	f.classify(t, expert, img2, catB)
	f.classify(t, expert, img3, catA)
	f.classify(t, alice, img1, catA)
	f.classify(t, alice, img2, catB)
	f.classify(t, alice, img3, catB)

	if err := f.credibility.UpdateOverallScore(ctx, alice.ID); err != nil {
		t.Fatalf("first UpdateOverallScore: %v", err)
	}
	first := f.reload(t, alice.ID)

	if err := f.credibility.UpdateOverallScore(ctx, alice.ID); err != nil {
		t.Fatalf("second UpdateOverallScore: %v", err)
	}
	second := f.reload(t, alice.ID)

	if first.CredibilityScore != second.CredibilityScore ||
		first.AgreementWithExperts != second.AgreementWithExperts ||
		first.MajorityAgreementScore != second.MajorityAgreementScore {
		t.Fatalf("recompute with unchanged data drifted: %+v vs %+v", first, second)
	}
}

func TestUpdateExpertAgreementSilentSkips(t *testing.T) {
	ctx := context.Background()

	t.Run("no_experts_in_system", func(t *testing.T) {
		f := newFixture(t)
		alice := f.createUser(t, "alice", types.RoleUser)
		catA := f.createLabel(t, "cat")
		img1 := f.createImage(t)
		f.classify(t, alice, img1, catA)

		// Seed a previous value to prove the skip leaves it alone.
		alice.AgreementWithExperts = 0.42
		if err := f.userRepo.Save(ctx, nil, alice); err != nil {
			t.Fatalf("seeding agreement: %v", err)
		}

		if err := f.credibility.UpdateExpertAgreement(ctx, alice.ID); err != nil {
			t.Fatalf("UpdateExpertAgreement: %v", err)
		}
		if got := f.reload(t, alice.ID); !almostEqualF(got.AgreementWithExperts, 0.42) {
			t.Fatalf("AgreementWithExperts=%v, want unchanged 0.42", got.AgreementWithExperts)
		}
	})

	t.Run("insufficient_overlap", func(t *testing.T) {
		f := newFixture(t)
		alice := f.createUser(t, "alice", types.RoleUser)
		expert := f.createUser(t, "expert1", types.RoleResearcher)
		catA := f.createLabel(t, "cat")
		img1 := f.createImage(t)
		img2 := f.createImage(t)

		// Only one commonly rated image: the statistic is undefined.
		f.classify(t, alice, img1, catA)
		f.classify(t, expert, img1, catA)
		f.classify(t, expert, img2, catA)

		alice.AgreementWithExperts = 0.42
		if err := f.userRepo.Save(ctx, nil, alice); err != nil {
			t.Fatalf("seeding agreement: %v", err)
		}

		if err := f.credibility.UpdateExpertAgreement(ctx, alice.ID); err != nil {
			t.Fatalf("UpdateExpertAgreement: %v", err)
		}
		if got := f.reload(t, alice.ID); !almostEqualF(got.AgreementWithExperts, 0.42) {
			t.Fatalf("AgreementWithExperts=%v, want unchanged 0.42", got.AgreementWithExperts)
		}
	})
}

func TestUpdateMajorityAgreementNoQualifyingImages(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	alice := f.createUser(t, "alice", types.RoleUser)
	catA := f.createLabel(t, "cat")
	img1 := f.createImage(t)

	// Alice is the only rater of img1: below the two-rating floor.
	f.classify(t, alice, img1, catA)

	alice.MajorityAgreementScore = 0.9
	if err := f.userRepo.Save(ctx, nil, alice); err != nil {
		t.Fatalf("seeding majority score: %v", err)
	}

	if err := f.credibility.UpdateMajorityAgreement(ctx, alice.ID); err != nil {
		t.Fatalf("UpdateMajorityAgreement: %v", err)
	}
	// Zero qualifying images stores an explicit 0.0, unlike the expert
	// agreement skip.
	if got := f.reload(t, alice.ID); !almostEqualF(got.MajorityAgreementScore, 0.0) {
		t.Fatalf("MajorityAgreementScore=%v, want explicit 0.0", got.MajorityAgreementScore)
	}
}

func TestZeroRatingsBoundary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	alice := f.createUser(t, "alice", types.RoleUser)

	if err := f.credibility.UpdateOverallScore(ctx, alice.ID); err != nil {
		t.Fatalf("UpdateOverallScore: %v", err)
	}
	got := f.reload(t, alice.ID)
	if got.AgreementWithExperts != 0.0 {
		t.Fatalf("AgreementWithExperts=%v, want 0.0", got.AgreementWithExperts)
	}
	if got.MajorityAgreementScore != 0.0 {
		t.Fatalf("MajorityAgreementScore=%v, want 0.0", got.MajorityAgreementScore)
	}
}

func TestExpertProfileNeverScored(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	admin := f.createUser(t, "admin", types.RoleAdmin)

	if err := f.credibility.UpdateOverallScore(ctx, admin.ID); err != nil {
		t.Fatalf("UpdateOverallScore: %v", err)
	}
	if got := f.reload(t, admin.ID); got.CredibilityLastUpdated != nil {
		t.Fatalf("admin (expert-like) profile was scored")
	}
}

func TestOnNewClassificationUnknownRater(t *testing.T) {
	f := newFixture(t)

	err := f.credibility.OnNewClassification(context.Background(), uuid.New(), uuid.New())
	if !errors.Is(err, repos.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func almostEqualF(a, b float64) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff < 1e-9
}
