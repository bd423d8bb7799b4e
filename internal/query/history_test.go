package query

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func historyResult(q, lang string, confidence float64) Result {
	return Result{
		Answer:     "answer to " + q,
		Confidence: confidence,
		Sources:    []SourceCitation{},
		Language:   lang,
		Query:      q,
		Timestamp:  time.Now().UTC(),
	}
}

func TestHistoryRecent(t *testing.T) {
	h := NewHistory()
	for i := 0; i < 15; i++ {
		h.Append(historyResult(fmt.Sprintf("q%d", i), "en", 80))
	}

	recent := h.Recent(5)
	if len(recent) != 5 {
		t.Fatalf("Recent(5) returned %d entries", len(recent))
	}
	if recent[0].Query != "q10" || recent[4].Query != "q14" {
		t.Errorf("expected q10..q14 in order, got %q..%q", recent[0].Query, recent[4].Query)
	}
}

func TestHistoryRecentDefaultLimit(t *testing.T) {
	h := NewHistory()
	for i := 0; i < 15; i++ {
		h.Append(historyResult(fmt.Sprintf("q%d", i), "en", 80))
	}

	if got := len(h.Recent(0)); got != 10 {
		t.Errorf("Recent(0) returned %d entries, want default 10", got)
	}
	if got := len(h.Recent(-3)); got != 10 {
		t.Errorf("Recent(-3) returned %d entries, want default 10", got)
	}
}

func TestHistoryRecentFewerThanLimit(t *testing.T) {
	h := NewHistory()
	h.Append(historyResult("only", "en", 70))

	recent := h.Recent(10)
	if len(recent) != 1 || recent[0].Query != "only" {
		t.Errorf("Recent() = %v, want the single entry", recent)
	}
}

func TestHistoryClear(t *testing.T) {
	h := NewHistory()
	h.Append(historyResult("q", "en", 80))
	h.Clear()

	if got := h.Recent(10); len(got) != 0 {
		t.Errorf("history not empty after Clear: %v", got)
	}
	stats := h.Statistics()
	if stats.TotalQueries != 0 || stats.AvgConfidence != 0 {
		t.Errorf("stats not zeroed after Clear: %+v", stats)
	}
}

func TestHistoryStatistics(t *testing.T) {
	h := NewHistory()
	h.Append(historyResult("a", "en", 90))
	h.Append(historyResult("b", "ru", 80))
	h.Append(historyResult("c", "en", 85))
	h.Append(historyResult("d", "", 70))

	stats := h.Statistics()
	if stats.TotalQueries != 4 {
		t.Errorf("TotalQueries = %d, want 4", stats.TotalQueries)
	}
	if stats.SuccessfulQueries != stats.TotalQueries {
		t.Errorf("SuccessfulQueries = %d, want %d", stats.SuccessfulQueries, stats.TotalQueries)
	}
	if stats.AvgConfidence != 81.25 {
		t.Errorf("AvgConfidence = %v, want 81.25", stats.AvgConfidence)
	}
	if stats.LanguageDistribution["en"] != 2 || stats.LanguageDistribution["ru"] != 1 {
		t.Errorf("language distribution = %v", stats.LanguageDistribution)
	}
	if stats.LanguageDistribution["unknown"] != 1 {
		t.Errorf("empty language should count as unknown: %v", stats.LanguageDistribution)
	}
	if stats.RecentQueries != 4 {
		t.Errorf("RecentQueries = %d, want 4", stats.RecentQueries)
	}
}

func TestHistoryStatisticsRounding(t *testing.T) {
	h := NewHistory()
	h.Append(historyResult("a", "en", 33.333))
	h.Append(historyResult("b", "en", 33.333))
	h.Append(historyResult("c", "en", 33.335))

	if got := h.Statistics().AvgConfidence; got != 33.33 {
		t.Errorf("AvgConfidence = %v, want 33.33", got)
	}
}

func TestHistoryStatisticsRecentWindow(t *testing.T) {
	h := NewHistory()
	for i := 0; i < 30; i++ {
		h.Append(historyResult(fmt.Sprintf("q%d", i), "en", 80))
	}

	stats := h.Statistics()
	if stats.RecentQueries != 24 {
		t.Errorf("RecentQueries = %d, want 24", stats.RecentQueries)
	}
	if stats.TotalQueries != 30 {
		t.Errorf("TotalQueries = %d, want 30", stats.TotalQueries)
	}
}

func TestHistoryStatisticsEmpty(t *testing.T) {
	stats := NewHistory().Statistics()
	if stats.TotalQueries != 0 || stats.AvgConfidence != 0 || stats.RecentQueries != 0 {
		t.Errorf("empty history stats = %+v", stats)
	}
	if stats.LanguageDistribution == nil {
		t.Error("LanguageDistribution should be an empty map, not nil")
	}
}

func TestHistoryConcurrentAccess(t *testing.T) {
	h := NewHistory()
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				h.Append(historyResult(fmt.Sprintf("g%d-q%d", n, j), "en", 80))
				h.Recent(5)
				h.Statistics()
			}
		}(i)
	}
	wg.Wait()

	if got := h.Statistics().TotalQueries; got != 200 {
		t.Errorf("TotalQueries = %d, want 200", got)
	}
}
