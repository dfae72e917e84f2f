package credibility

import (
	"errors"

	"github.com/google/uuid"
)

// ErrInvalidInput marks malformed statistical input (mismatched lengths, empty
// sets, inconsistent rater counts). It always indicates a caller bug or a data
// integrity problem, never an expected runtime condition.
var ErrInvalidInput = errors.New("credibility: invalid input")

// Rating is one (image, label) pair from a single rater. Used by the
// list-based kappa entry point, which aligns two raters' ratings by image.
type Rating struct {
	ImageID uuid.UUID
	LabelID uuid.UUID
}

// CohenKappa computes Cohen's Kappa between two raters from pre-aligned label
// sequences: index i in both slices must refer to the same image. Returns a
// value in [-1, 1]. When expected agreement is exactly 1 (both raters used a
// single shared label for everything) the statistic is defined as 1.
func CohenKappa(a, b []uuid.UUID) (float64, error) {
	if len(a) == 0 || len(a) != len(b) {
		return 0, errors.Join(ErrInvalidInput, errors.New("label sequences must be non-empty and equal in length"))
	}

	n := len(a)

	agreements := 0
	for i := 0; i < n; i++ {
		if a[i] == b[i] {
			agreements++
		}
	}
	po := float64(agreements) / float64(n)

	countsA := countLabels(a)
	countsB := countLabels(b)

	pe := 0.0
	for label, ca := range countsA {
		cb := countsB[label]
		pe += (float64(ca) / float64(n)) * (float64(cb) / float64(n))
	}

	if pe == 1.0 {
		return 1.0, nil
	}
	return (po - pe) / (1 - pe), nil
}

// CohenKappaFromRatings intersects two raters' rating lists by image, builds
// aligned label sequences over the commonly rated images and delegates to
// CohenKappa. Duplicate ratings for the same image are resolved first-wins.
// ok is false when fewer than two common images exist; the statistic is
// undefined there and callers must treat it as insufficient data, not as
// zero agreement.
func CohenKappaFromRatings(a, b []Rating) (kappa float64, ok bool, err error) {
	bByImage := make(map[uuid.UUID]uuid.UUID, len(b))
	for _, r := range b {
		if _, seen := bByImage[r.ImageID]; !seen {
			bByImage[r.ImageID] = r.LabelID
		}
	}

	var labelsA, labelsB []uuid.UUID
	seenA := make(map[uuid.UUID]struct{}, len(a))
	for _, r := range a {
		if _, dup := seenA[r.ImageID]; dup {
			continue
		}
		seenA[r.ImageID] = struct{}{}
		if other, shared := bByImage[r.ImageID]; shared {
			labelsA = append(labelsA, r.LabelID)
			labelsB = append(labelsB, other)
		}
	}

	if len(labelsA) < 2 {
		return 0, false, nil
	}

	kappa, err = CohenKappa(labelsA, labelsB)
	if err != nil {
		return 0, false, err
	}
	return kappa, true, nil
}

// InterpretKappa maps a kappa value onto the conventional Landis-Koch bands.
func InterpretKappa(kappa float64) string {
	switch {
	case kappa < 0:
		return "Poor (worse than chance)"
	case kappa < 0.20:
		return "Slight agreement"
	case kappa < 0.40:
		return "Fair agreement"
	case kappa < 0.60:
		return "Moderate agreement"
	case kappa < 0.80:
		return "Substantial agreement"
	default:
		return "Almost perfect agreement"
	}
}

func countLabels(labels []uuid.UUID) map[uuid.UUID]int {
	counts := make(map[uuid.UUID]int, len(labels))
	for _, l := range labels {
		counts[l]++
	}
	return counts
}
