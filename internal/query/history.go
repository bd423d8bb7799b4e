package query

import (
	"math"
	"sync"
)

const (
	// recentWindow is the number of most recent entries considered by the
	// RecentQueries statistic.
	recentWindow = 24
	// defaultHistoryLimit is used when Recent is called without a positive limit.
	defaultHistoryLimit = 10
)

// History is an append-only record of successfully answered queries.
// Only success results are ever appended; failures surface as errors from the
// engine and are not persisted. Guarded by a mutex since HTTP handlers may
// call into it concurrently.
type History struct {
	mu      sync.RWMutex
	entries []Result
}

// NewHistory creates an empty history.
func NewHistory() *History {
	return &History{}
}

// Append records a result. Insertion order is chronological order.
func (h *History) Append(result Result) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries, result)
}

// Recent returns the last limit entries in chronological order.
// A non-positive limit falls back to the default of 10.
func (h *History) Recent(limit int) []Result {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	start := len(h.entries) - limit
	if start < 0 {
		start = 0
	}

	recent := make([]Result, len(h.entries)-start)
	copy(recent, h.entries[start:])
	return recent
}

// Clear removes all recorded entries.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = nil
}

// Statistics derives aggregate statistics from the recorded history.
// Every recorded entry is a success, so SuccessfulQueries equals TotalQueries;
// both are reported so callers can verify the invariant.
func (h *History) Statistics() Stats {
	h.mu.RLock()
	defer h.mu.RUnlock()

	stats := Stats{
		LanguageDistribution: make(map[string]int),
	}

	if len(h.entries) == 0 {
		return stats
	}

	stats.TotalQueries = len(h.entries)
	stats.SuccessfulQueries = len(h.entries)

	var confidenceSum float64
	for _, entry := range h.entries {
		confidenceSum += entry.Confidence

		language := entry.Language
		if language == "" {
			language = "unknown"
		}
		stats.LanguageDistribution[language]++
	}
	stats.AvgConfidence = math.Round(confidenceSum/float64(len(h.entries))*100) / 100

	recentStart := len(h.entries) - recentWindow
	if recentStart < 0 {
		recentStart = 0
	}
	stats.RecentQueries = len(h.entries) - recentStart

	return stats
}
