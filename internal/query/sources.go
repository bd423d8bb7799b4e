package query

const (
	snippetRunes     = 200
	truncationMarker = "..."
	unknownMetadata  = "Unknown"
)

// FormatSources projects matches into display-ready citations.
// Index is 1-based and follows the input order. Snippets are the first 200
// characters of the chunk text with a truncation marker when shortened.
// Missing metadata fields default to "Unknown".
func FormatSources(matches []Match) []SourceCitation {
	sources := make([]SourceCitation, 0, len(matches))
	for i, m := range matches {
		score := 0.0
		if m.Score != nil {
			score = *m.Score
		}

		sources = append(sources, SourceCitation{
			Index:       i + 1,
			Score:       score,
			Filename:    metadataOrUnknown(m.Metadata, "filename"),
			Title:       metadataOrUnknown(m.Metadata, "title"),
			Author:      metadataOrUnknown(m.Metadata, "author"),
			TextSnippet: snippet(m.Text),
		})
	}
	return sources
}

func metadataOrUnknown(meta map[string]string, key string) string {
	if value, ok := meta[key]; ok && value != "" {
		return value
	}
	return unknownMetadata
}

// snippet truncates text to snippetRunes characters.
// Rune-based so multi-byte text is never cut mid-character.
func snippet(text string) string {
	runes := []rune(text)
	if len(runes) <= snippetRunes {
		return text
	}
	return string(runes[:snippetRunes]) + truncationMarker
}
