package ranking

import (
	"math/rand"
	"sort"

	"aggregator-service/model"
)

// Rank orders a candidate set for the feed. Candidates below minUtility are
// dropped first. Strict mode returns the highest-utility records in stable
// descending order, truncated to limit.
//
// Serendipity mode trades strict ordering for discovery: after sorting, the
// top half keeps its rank order and the bottom half is shuffled before
// filling the remaining slots. Callers should pass up to 2x limit candidates
// so there is a bottom half worth sampling.
func Rank(candidates []model.ContentRecord, limit int, minUtility float64, serendipity bool) []model.ContentRecord {
	if limit <= 0 {
		return nil
	}

	filtered := make([]model.ContentRecord, 0, len(candidates))
	for _, c := range candidates {
		if c.CognitiveUtilityScore >= minUtility {
			filtered = append(filtered, c)
		}
	}

	// Stable keeps the original retrieval order for utility ties.
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].CognitiveUtilityScore > filtered[j].CognitiveUtilityScore
	})

	if !serendipity || len(filtered) <= limit {
		if len(filtered) > limit {
			filtered = filtered[:limit]
		}
		return filtered
	}

	mid := len(filtered) / 2
	top := filtered[:mid]
	bottom := append([]model.ContentRecord(nil), filtered[mid:]...)
	rand.Shuffle(len(bottom), func(i, j int) {
		bottom[i], bottom[j] = bottom[j], bottom[i]
	})

	remaining := limit - len(top)
	if remaining <= 0 {
		return top[:limit]
	}
	if remaining > len(bottom) {
		remaining = len(bottom)
	}

	return append(top, bottom[:remaining]...)
}
