package utils

import (
	"strings"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/cases"
)

// NormalizeText folds s for matching: accents are transliterated to ASCII,
// case is folded and runs of whitespace collapse to one space.
// "Amélie " and "AMELIE" normalize to the same string.
func NormalizeText(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	s = unidecode.Unidecode(s)
	s = cases.Fold().String(s)
	return strings.Join(strings.Fields(s), " ")
}
