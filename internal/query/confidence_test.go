package query

import (
	"math"
	"strings"
	"testing"
)

func TestConfidenceFor(t *testing.T) {
	longAnswer := strings.Repeat("The refund policy allows returns within 30 days. ", 2)

	tests := []struct {
		name    string
		answer  string
		matches []Match
		want    float64
	}{
		{
			name:    "no matches",
			answer:  longAnswer,
			matches: nil,
			want:    0.0,
		},
		{
			name:   "three sources boost",
			answer: longAnswer,
			matches: []Match{
				{Score: scorePtr(0.9)},
				{Score: scorePtr(0.8)},
				{Score: scorePtr(0.95)},
			},
			// mean 0.8833 scaled to 88.33, boosted by 1.1
			want: 97.16666666666667,
		},
		{
			name:   "short answer penalty",
			answer: "Ten chars.",
			matches: []Match{
				{Score: scorePtr(0.5)},
			},
			want: 40.0,
		},
		{
			name:   "unscored matches use default mean",
			answer: longAnswer,
			matches: []Match{
				{Score: nil},
				{Score: nil},
			},
			want: 50.0,
		},
		{
			name:   "clamped to 100",
			answer: longAnswer,
			matches: []Match{
				{Score: scorePtr(1.0)},
				{Score: scorePtr(1.0)},
				{Score: scorePtr(1.0)},
			},
			want: 100.0,
		},
		{
			name:   "penalty and boost compose",
			answer: "short",
			matches: []Match{
				{Score: scorePtr(1.0)},
				{Score: scorePtr(1.0)},
				{Score: scorePtr(1.0)},
			},
			// 100 * 0.8 * 1.1
			want: 88.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ConfidenceFor(tt.answer, tt.matches)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("ConfidenceFor() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConfidenceForCountsRunes(t *testing.T) {
	// 49 cyrillic characters are more than 49 bytes but still a short answer.
	answer := strings.Repeat("д", 49)
	matches := []Match{{Score: scorePtr(1.0)}}

	got := ConfidenceFor(answer, matches)
	if got != 80.0 {
		t.Errorf("ConfidenceFor() = %v, want 80.0 for a 49-rune answer", got)
	}

	got = ConfidenceFor(strings.Repeat("д", 50), matches)
	if got != 100.0 {
		t.Errorf("ConfidenceFor() = %v, want 100.0 for a 50-rune answer", got)
	}
}

func TestConfidenceForAlwaysInRange(t *testing.T) {
	negative := []Match{{Score: scorePtr(-5.0)}}
	if got := ConfidenceFor("x", negative); got != 0.0 {
		t.Errorf("ConfidenceFor() = %v, want 0.0 for negative scores", got)
	}

	huge := []Match{{Score: scorePtr(50.0)}, {Score: scorePtr(50.0)}, {Score: scorePtr(50.0)}}
	if got := ConfidenceFor(strings.Repeat("a", 60), huge); got != 100.0 {
		t.Errorf("ConfidenceFor() = %v, want 100.0 for oversized scores", got)
	}
}
