package services

import (
	"strings"
	"sync"

	"github.com/pemistahl/lingua-go"
)

var (
	languageDetector     lingua.LanguageDetector
	languageDetectorOnce sync.Once
)

// DetectLanguage returns the lowercase ISO 639-1 code of text, or an empty string
// when no language is reliably detected. The detector is built on first use.
func DetectLanguage(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}

	languageDetectorOnce.Do(func() {
		languageDetector = lingua.NewLanguageDetectorBuilder().
			FromLanguages(
				lingua.English,
				lingua.Chinese,
				lingua.Japanese,
				lingua.Korean,
				lingua.French,
				lingua.German,
				lingua.Spanish,
				lingua.Russian,
			).
			WithLowAccuracyMode().
			Build()
	})

	if language, exists := languageDetector.DetectLanguageOf(text); exists {
		return strings.ToLower(language.IsoCode639_1().String())
	}
	return ""
}
