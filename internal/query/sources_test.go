package query

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestFormatSources(t *testing.T) {
	matches := []Match{
		{
			Score: scorePtr(0.92),
			Text:  "Refunds are accepted within 30 days of purchase.",
			Metadata: map[string]string{
				"filename": "policy.md",
				"title":    "Refund Policy",
				"author":   "Finance Team",
			},
		},
		{
			Score:    nil,
			Text:     "Shipping takes 3-5 business days.",
			Metadata: nil,
		},
	}

	sources := FormatSources(matches)
	if len(sources) != 2 {
		t.Fatalf("expected 2 sources, got %d", len(sources))
	}

	first := sources[0]
	if first.Index != 1 {
		t.Errorf("first index = %d, want 1", first.Index)
	}
	if first.Score != 0.92 {
		t.Errorf("first score = %v, want 0.92", first.Score)
	}
	if first.Filename != "policy.md" || first.Title != "Refund Policy" || first.Author != "Finance Team" {
		t.Errorf("metadata not carried over: %+v", first)
	}
	if first.TextSnippet != matches[0].Text {
		t.Errorf("short text should pass through unchanged, got %q", first.TextSnippet)
	}

	second := sources[1]
	if second.Index != 2 {
		t.Errorf("second index = %d, want 2", second.Index)
	}
	if second.Score != 0.0 {
		t.Errorf("unscored match should report 0.0, got %v", second.Score)
	}
	if second.Filename != "Unknown" || second.Title != "Unknown" || second.Author != "Unknown" {
		t.Errorf("missing metadata should default to Unknown: %+v", second)
	}
}

func TestFormatSourcesTruncatesSnippet(t *testing.T) {
	matches := []Match{
		{Score: scorePtr(0.8), Text: strings.Repeat("x", 250)},
		{Score: scorePtr(0.8), Text: strings.Repeat("x", 100)},
		{Score: scorePtr(0.8), Text: strings.Repeat("x", 200)},
	}

	sources := FormatSources(matches)

	if got := sources[0].TextSnippet; got != strings.Repeat("x", 200)+"..." {
		t.Errorf("250-char text: snippet length %d, want 200 plus marker", len(got))
	}
	if got := sources[1].TextSnippet; got != strings.Repeat("x", 100) {
		t.Errorf("100-char text should be unchanged, got length %d", len(got))
	}
	if got := sources[2].TextSnippet; got != strings.Repeat("x", 200) {
		t.Errorf("exactly 200 chars should be unchanged, got %q", got)
	}
}

func TestFormatSourcesSnippetMultibyte(t *testing.T) {
	text := strings.Repeat("ё", 250)
	sources := FormatSources([]Match{{Score: scorePtr(0.8), Text: text}})

	snippet := sources[0].TextSnippet
	if !strings.HasSuffix(snippet, "...") {
		t.Fatalf("expected truncation marker, got %q", snippet[len(snippet)-10:])
	}
	if got := utf8.RuneCountInString(strings.TrimSuffix(snippet, "...")); got != 200 {
		t.Errorf("snippet rune count = %d, want 200", got)
	}
	if !utf8.ValidString(snippet) {
		t.Error("snippet is not valid UTF-8")
	}
}

func TestFormatSourcesEmptyMetadataValue(t *testing.T) {
	sources := FormatSources([]Match{{
		Score:    scorePtr(0.8),
		Text:     "text",
		Metadata: map[string]string{"filename": "", "title": "Doc"},
	}})

	if sources[0].Filename != "Unknown" {
		t.Errorf("empty metadata value should default to Unknown, got %q", sources[0].Filename)
	}
	if sources[0].Title != "Doc" {
		t.Errorf("title = %q, want Doc", sources[0].Title)
	}
}
