package search

// missingScore is the score of a record a term did not match at all.
const missingScore = 1.0

// relevanceScores averages each record's score over every query term.
// A term that did not match a record contributes missingScore.
// score(r) = sum(score_t(r)) / |terms|
func relevanceScores(tm termMatches, ids []string) map[string]float64 {
	scores := make(map[string]float64, len(ids))
	if len(tm) == 0 {
		return scores
	}

	sums := make(map[string]float64, len(ids))
	for _, id := range ids {
		sums[id] = 0
	}
	for _, matches := range tm {
		seen := make(map[string]struct{}, len(matches))
		for _, m := range matches {
			if _, ok := sums[m.ID]; !ok {
				continue
			}
			sums[m.ID] += m.Score
			seen[m.ID] = struct{}{}
		}
		for id := range sums {
			if _, ok := seen[id]; !ok {
				sums[id] += missingScore
			}
		}
	}

	n := float64(len(tm))
	for id, s := range sums {
		scores[id] = s / n
	}
	return scores
}
