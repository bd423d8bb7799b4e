package query

import "time"

// Match is one retrieved chunk together with its relevance score.
// Matches are produced by the retrieval collaborator and are read-only here.
type Match struct {
	// Score is the similarity score, higher is more relevant.
	// Nil when the retrieval backend returned no score for the chunk.
	Score *float64
	// Text is the chunk text.
	Text string
	// Metadata carries chunk metadata such as filename, title, and author.
	Metadata map[string]string
}

// SourceCitation is the display projection of a Match.
type SourceCitation struct {
	// Index is the 1-based position in the filtered match list.
	Index int `json:"index"`
	// Score is the similarity score, 0.0 when the match carried none.
	Score float64 `json:"score"`
	// Filename, Title, and Author default to "Unknown" when absent.
	Filename string `json:"filename"`
	Title    string `json:"title"`
	Author   string `json:"author"`
	// TextSnippet is the first 200 characters of the chunk text,
	// suffixed with "..." when truncated.
	TextSnippet string `json:"text_snippet"`
}

// Request is a single question with its retrieval parameters.
type Request struct {
	// Text is the user's question.
	Text string
	// TopK is the requested number of chunks to retrieve. Zero means default.
	TopK int
	// Threshold is the minimum similarity score for a match to be kept, in [0, 1].
	Threshold float64
	// Filters are key-equality metadata filters passed to retrieval.
	Filters map[string]string
}

// Result is a successfully answered query.
// Failures are reported as errors from Engine.Process and never stored.
type Result struct {
	Answer     string           `json:"answer"`
	Confidence float64          `json:"confidence"`
	Sources    []SourceCitation `json:"sources"`
	Language   string           `json:"language"`
	Query      string           `json:"query"`
	Timestamp  time.Time        `json:"timestamp"`
}

// Stats summarizes the recorded query history.
type Stats struct {
	TotalQueries      int `json:"total_queries"`
	SuccessfulQueries int `json:"successful_queries"`
	// AvgConfidence is the mean confidence of successful queries, rounded to 2 decimals.
	AvgConfidence        float64        `json:"avg_confidence"`
	LanguageDistribution map[string]int `json:"language_distribution"`
	// RecentQueries counts successful entries among the most recent 24.
	RecentQueries int `json:"recent_queries"`
}
