package credibility

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

var (
	rater1 = uuid.MustParse("bbbbbbbb-0000-0000-0000-000000000001")
	rater2 = uuid.MustParse("bbbbbbbb-0000-0000-0000-000000000002")
	rater3 = uuid.MustParse("bbbbbbbb-0000-0000-0000-000000000003")
)

func TestFleissKappaUnanimous(t *testing.T) {
	table := map[uuid.UUID]map[uuid.UUID]uuid.UUID{
		img1: {rater1: catA, rater2: catA, rater3: catA},
		img2: {rater1: catA, rater2: catA, rater3: catA},
	}

	got, err := FleissKappa(table)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 1.0 {
		t.Fatalf("FleissKappa=%v, want 1.0 for unanimous single-category table", got)
	}
}

func TestFleissKappaKnownValue(t *testing.T) {
	// Two images, two raters: unanimous on img1, split on img2.
	// Pi(img1)=1, Pi(img2)=0, PBar=0.5; p_a=0.75, p_b=0.25, PeBar=0.625;
	// kappa = (0.5-0.625)/(1-0.625) = -1/3.
	table := map[uuid.UUID]map[uuid.UUID]uuid.UUID{
		img1: {rater1: catA, rater2: catA},
		img2: {rater1: catA, rater2: catB},
	}

	got, err := FleissKappa(table)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(got, -1.0/3.0) {
		t.Fatalf("FleissKappa=%v, want %v", got, -1.0/3.0)
	}
}

func TestFleissKappaInvalidInput(t *testing.T) {
	cases := []struct {
		name  string
		table map[uuid.UUID]map[uuid.UUID]uuid.UUID
	}{
		{name: "empty_table", table: nil},
		{
			name: "inconsistent_rater_counts",
			table: map[uuid.UUID]map[uuid.UUID]uuid.UUID{
				img1: {rater1: catA, rater2: catA, rater3: catB},
				img2: {rater1: catA, rater2: catB},
			},
		},
		{
			name: "single_rating_per_image",
			table: map[uuid.UUID]map[uuid.UUID]uuid.UUID{
				img1: {rater1: catA},
				img2: {rater1: catB},
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := FleissKappa(tc.table); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestFleissKappaForRater(t *testing.T) {
	table := map[uuid.UUID]map[uuid.UUID]uuid.UUID{
		img1: {rater1: catA, rater2: catA},
		img2: {rater1: catA, rater2: catB},
	}

	t.Run("absent_rater_defaults_to_zero", func(t *testing.T) {
		got, err := FleissKappaForRater(table, rater3)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != 0.0 {
			t.Fatalf("FleissKappaForRater=%v, want 0.0 for a rater with no qualifying images", got)
		}
	})

	t.Run("participating_rater_matches_full_table", func(t *testing.T) {
		want, err := FleissKappa(table)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got, err := FleissKappaForRater(table, rater1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !almostEqual(got, want) {
			t.Fatalf("restricted kappa=%v, want %v (rater participated everywhere)", got, want)
		}
	})

	t.Run("restricts_to_participated_images", func(t *testing.T) {
		mixed := map[uuid.UUID]map[uuid.UUID]uuid.UUID{
			img1: {rater1: catA, rater2: catA},
			img2: {rater2: catA, rater3: catB}, // rater1 absent
		}
		want, err := FleissKappa(map[uuid.UUID]map[uuid.UUID]uuid.UUID{
			img1: {rater1: catA, rater2: catA},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got, err := FleissKappaForRater(mixed, rater1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !almostEqual(got, want) {
			t.Fatalf("restricted kappa=%v, want %v", got, want)
		}
	})
}
