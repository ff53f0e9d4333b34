package utils

import (
	"strings"
	"unicode"
)

// CleanNameForFilename keeps letters, digits, spaces, hyphens and underscores,
// turns spaces into underscores and caps the result at maxRunes runes.
// Accented letters survive: "María González" becomes "María_González".
func CleanNameForFilename(input string, maxRunes int) string {
	clean := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			return r
		case r == ' ' || r == '-' || r == '_':
			return r
		default:
			return -1 // remove
		}
	}, input)

	clean = strings.TrimSpace(clean)
	clean = strings.ReplaceAll(clean, " ", "_")

	if maxRunes > 0 {
		if runes := []rune(clean); len(runes) > maxRunes {
			clean = string(runes[:maxRunes])
		}
	}
	return clean
}
