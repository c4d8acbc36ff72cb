package metadata

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	lowerCaser = cases.Lower(language.Und)
	hyphensRe  = regexp.MustCompile(`--+`)
)

// Slugify turns a recipe name into a lowercase, hyphen separated slug.
func Slugify(text string) string {
	var sb strings.Builder
	for _, r := range strings.TrimSpace(text) {
		switch {
		case unicode.IsSpace(r), r == '_':
			sb.WriteRune('-')
		case unicode.IsLetter(r), unicode.IsDigit(r), unicode.IsNumber(r), r == '-':
			sb.WriteRune(r)
		}
	}
	slug := lowerCaser.String(strings.Trim(sb.String(), "-"))
	return hyphensRe.ReplaceAllString(slug, "-")
}
