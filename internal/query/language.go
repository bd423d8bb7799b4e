package query

import (
	"strings"

	"github.com/pemistahl/lingua-go"
)

// defaultLanguage is returned whenever detection fails or is inconclusive.
const defaultLanguage = "en"

// Detector identifies the language of short text samples.
// Detection on arbitrarily short strings is unreliable by construction; any
// failure soft-fails to "en" rather than surfacing an error.
type Detector struct {
	detector lingua.LanguageDetector
}

// NewDetector creates a detector over the languages the system expects to see.
// The model is built once and is safe for concurrent use.
func NewDetector() *Detector {
	languages := []lingua.Language{
		lingua.English,
		lingua.Russian,
		lingua.German,
		lingua.French,
		lingua.Spanish,
	}
	return &Detector{
		detector: lingua.NewLanguageDetectorBuilder().
			FromLanguages(languages...).
			Build(),
	}
}

// Detect returns a lowercase ISO 639-1 code for the text, "en" on failure.
func (d *Detector) Detect(text string) string {
	if strings.TrimSpace(text) == "" {
		return defaultLanguage
	}

	lang, ok := d.detector.DetectLanguageOf(text)
	if !ok {
		return defaultLanguage
	}

	return strings.ToLower(lang.IsoCode639_1().String())
}
