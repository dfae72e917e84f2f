package credibility

import (
	"errors"

	"github.com/google/uuid"
)

// FleissKappa computes Fleiss' Kappa over a table of image -> rater -> label.
// Every image must carry the same number of ratings; an empty table or
// inconsistent rater counts fail with ErrInvalidInput.
func FleissKappa(table map[uuid.UUID]map[uuid.UUID]uuid.UUID) (float64, error) {
	if len(table) == 0 {
		return 0, errors.Join(ErrInvalidInput, errors.New("classification table cannot be empty"))
	}

	itemCount := len(table)

	ratersPerItem := -1
	for _, ratings := range table {
		if ratersPerItem == -1 {
			ratersPerItem = len(ratings)
			continue
		}
		if len(ratings) != ratersPerItem {
			return 0, errors.Join(ErrInvalidInput, errors.New("all images must have the same number of ratings"))
		}
	}
	if ratersPerItem < 2 {
		return 0, errors.Join(ErrInvalidInput, errors.New("at least two ratings per image are required"))
	}

	// n_ij per image, plus total votes per label across the table.
	perItemCounts := make([]map[uuid.UUID]int, 0, itemCount)
	labelTotals := make(map[uuid.UUID]int)
	for _, ratings := range table {
		counts := make(map[uuid.UUID]int, len(ratings))
		for _, label := range ratings {
			counts[label]++
			labelTotals[label]++
		}
		perItemCounts = append(perItemCounts, counts)
	}

	pBarSum := 0.0
	for _, counts := range perItemCounts {
		sumSquared := 0
		for _, nij := range counts {
			sumSquared += nij * nij
		}
		pBarSum += float64(sumSquared-ratersPerItem) / float64(ratersPerItem*(ratersPerItem-1))
	}
	pBar := pBarSum / float64(itemCount)

	peBar := 0.0
	totalVotes := float64(itemCount * ratersPerItem)
	for _, total := range labelTotals {
		pj := float64(total) / totalVotes
		peBar += pj * pj
	}

	if peBar == 1.0 {
		return 1.0, nil
	}
	return (pBar - peBar) / (1 - peBar), nil
}

// FleissKappaForRater computes Fleiss' Kappa restricted to the images the
// target rater participated in, approximating that rater's contribution to
// group agreement. Returns 0.0 when the rater participated in no qualifying
// images (a deliberate default, distinct from the insufficient-data sentinel
// used by CohenKappaFromRatings).
func FleissKappaForRater(table map[uuid.UUID]map[uuid.UUID]uuid.UUID, raterID uuid.UUID) (float64, error) {
	restricted := make(map[uuid.UUID]map[uuid.UUID]uuid.UUID)
	for imageID, ratings := range table {
		if _, participated := ratings[raterID]; participated {
			restricted[imageID] = ratings
		}
	}

	if len(restricted) == 0 {
		return 0.0, nil
	}
	return FleissKappa(restricted)
}
