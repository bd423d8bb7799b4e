package query

import "unicode/utf8"

const (
	// defaultMeanScore is assumed when no filtered match carries a score.
	defaultMeanScore = 0.5
	// shortAnswerRunes is the length below which an answer is presumed
	// less substantiated.
	shortAnswerRunes   = 50
	shortAnswerPenalty = 0.8
	// multiSourceCount is the source count at which corroboration boosts trust.
	multiSourceCount = 3
	multiSourceBoost = 1.1
)

// ConfidenceFor derives a confidence value in [0, 100] from the answer text
// and the filtered matches it was grounded on.
//
// The value is a heuristic, not a calibrated probability: the mean match score
// is scaled to 0-100, short answers (< 50 characters) are penalized by 0.8,
// three or more sources boost by 1.1, and the final value is clamped. Penalty
// and boost are independent and applied in that order.
func ConfidenceFor(answer string, matches []Match) float64 {
	if len(matches) == 0 {
		return 0.0
	}

	var sum float64
	var scored int
	for _, m := range matches {
		if m.Score != nil {
			sum += *m.Score
			scored++
		}
	}

	mean := defaultMeanScore
	if scored > 0 {
		mean = sum / float64(scored)
	}

	confidence := clamp(mean*100, 0, 100)

	if utf8.RuneCountInString(answer) < shortAnswerRunes {
		confidence *= shortAnswerPenalty
	}
	if len(matches) >= multiSourceCount {
		confidence *= multiSourceBoost
	}

	return clamp(confidence, 0, 100)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
