package utils

import (
	"unicode"

	"golang.org/x/sync/errgroup"

	"github.com/hoaconnect/hoa-services-app/models"
)

// TranslateText produces the counterpart-language text for a single input.
// The default mirrors the input into the target language, which is also the
// fallback behavior when an external translation backend is unreachable.
// Deployments with a translation API swap this hook at startup.
var TranslateText = func(text, from, to string) (string, error) {
	return text, nil
}

// DetectLanguage classifies input as Arabic or English by script.
func DetectLanguage(text string) string {
	for _, r := range text {
		if unicode.Is(unicode.Arabic, r) {
			return "ar"
		}
	}
	return "en"
}

// Translate converts one input string into a multi-language record.
func Translate(text string) (models.Translation, error) {
	if text == "" {
		return models.Translation{}, nil
	}

	source := DetectLanguage(text)
	if source == "ar" {
		en, err := TranslateText(text, "ar", "en")
		if err != nil {
			return models.Translation{}, err
		}
		return models.Translation{En: en, Ar: text}, nil
	}

	ar, err := TranslateText(text, "en", "ar")
	if err != nil {
		return models.Translation{}, err
	}
	return models.Translation{En: text, Ar: ar}, nil
}

// TranslateAll translates independent fields in parallel. It must complete
// before any storage write begins: a failure on any field aborts the whole
// batch so no partially translated record is ever persisted.
func TranslateAll(texts ...string) ([]models.Translation, error) {
	results := make([]models.Translation, len(texts))

	var g errgroup.Group
	for i, text := range texts {
		i, text := i, text
		g.Go(func() error {
			t, err := Translate(text)
			if err != nil {
				return err
			}
			results[i] = t
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
