package credibility

import (
	"github.com/google/uuid"
)

// Vote is one rater's label for a single image.
type Vote struct {
	RaterID uuid.UUID
	LabelID uuid.UUID
}

// MajorityVote returns the label holding strictly more than half of the votes
// on one image. ok is false when fewer than two votes were cast, when the top
// share is exactly half or less, or when multiple labels tie for the top
// count. A tied maximum can never exceed half the votes, so the strict
// threshold makes the winner unique whenever one exists; the result is
// independent of vote order.
func MajorityVote(votes []Vote) (uuid.UUID, bool) {
	if len(votes) < 2 {
		return uuid.Nil, false
	}

	counts := make(map[uuid.UUID]int, len(votes))
	for _, v := range votes {
		counts[v.LabelID]++
	}

	for label, count := range counts {
		if count*2 > len(votes) {
			return label, true
		}
	}
	return uuid.Nil, false
}

// MajorityAgreement scores one rater's label against the majority outcome:
// 1.0 iff a majority exists and matches the rater's label. Absence of a
// majority counts against the rater (0.0), never as missing data.
func MajorityAgreement(raterLabel uuid.UUID, majority uuid.UUID, ok bool) float64 {
	if ok && raterLabel == majority {
		return 1.0
	}
	return 0.0
}

// ConsensusStrength measures how lopsided the vote on one image is: the top
// label's share of all votes, regardless of whether it clears the majority
// threshold. Below two votes there is no consensus to measure and the
// strength is 0.
func ConsensusStrength(votes []Vote) float64 {
	if len(votes) < 2 {
		return 0.0
	}

	counts := make(map[uuid.UUID]int, len(votes))
	max := 0
	for _, v := range votes {
		counts[v.LabelID]++
		if counts[v.LabelID] > max {
			max = counts[v.LabelID]
		}
	}
	return float64(max) / float64(len(votes))
}
