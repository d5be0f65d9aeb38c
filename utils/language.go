package utils

import "strings"

// ValidateLanguage normalizes a caller-supplied lang query parameter to one
// of the supported locales, defaulting to English.
func ValidateLanguage(lang string) string {
	switch strings.ToLower(lang) {
	case "ar", "arabic":
		return "ar"
	}
	return "en"
}
