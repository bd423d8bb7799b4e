package query

// FilterByScore keeps only matches whose score is defined and at least the
// threshold. Unscored matches are dropped since the threshold cannot be
// evaluated against an absent value. The relative order of kept matches is
// preserved, which makes the filter idempotent.
func FilterByScore(matches []Match, threshold float64) []Match {
	filtered := make([]Match, 0, len(matches))
	for _, m := range matches {
		if m.Score != nil && *m.Score >= threshold {
			filtered = append(filtered, m)
		}
	}
	return filtered
}
