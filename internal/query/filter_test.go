package query

import (
	"reflect"
	"testing"
)

func scorePtr(v float64) *float64 {
	return &v
}

func TestFilterByScore(t *testing.T) {
	tests := []struct {
		name      string
		matches   []Match
		threshold float64
		wantTexts []string
	}{
		{
			name: "keeps matches at or above threshold",
			matches: []Match{
				{Score: scorePtr(0.9), Text: "a"},
				{Score: scorePtr(0.7), Text: "b"},
				{Score: scorePtr(0.5), Text: "c"},
			},
			threshold: 0.7,
			wantTexts: []string{"a", "b"},
		},
		{
			name: "drops unscored matches",
			matches: []Match{
				{Score: scorePtr(0.9), Text: "a"},
				{Score: nil, Text: "b"},
				{Score: scorePtr(0.8), Text: "c"},
			},
			threshold: 0.0,
			wantTexts: []string{"a", "c"},
		},
		{
			name:      "empty input",
			matches:   nil,
			threshold: 0.7,
			wantTexts: []string{},
		},
		{
			name: "zero threshold keeps zero scores",
			matches: []Match{
				{Score: scorePtr(0.0), Text: "a"},
			},
			threshold: 0.0,
			wantTexts: []string{"a"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterByScore(tt.matches, tt.threshold)

			gotTexts := make([]string, 0, len(got))
			for _, m := range got {
				gotTexts = append(gotTexts, m.Text)
			}
			if !reflect.DeepEqual(gotTexts, tt.wantTexts) {
				t.Errorf("FilterByScore() kept %v, want %v", gotTexts, tt.wantTexts)
			}
		})
	}
}

func TestFilterByScorePreservesOrder(t *testing.T) {
	matches := []Match{
		{Score: scorePtr(0.71), Text: "first"},
		{Score: scorePtr(0.99), Text: "second"},
		{Score: scorePtr(0.85), Text: "third"},
	}

	got := FilterByScore(matches, 0.7)
	if len(got) != 3 {
		t.Fatalf("expected all 3 matches kept, got %d", len(got))
	}
	for i, want := range []string{"first", "second", "third"} {
		if got[i].Text != want {
			t.Errorf("position %d: got %q, want %q", i, got[i].Text, want)
		}
	}
}

func TestFilterByScoreIdempotent(t *testing.T) {
	matches := []Match{
		{Score: scorePtr(0.9), Text: "a"},
		{Score: nil, Text: "b"},
		{Score: scorePtr(0.6), Text: "c"},
	}

	once := FilterByScore(matches, 0.7)
	twice := FilterByScore(once, 0.7)

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("filtering twice changed the result: %v vs %v", once, twice)
	}
}
