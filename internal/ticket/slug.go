package ticket

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DeriveSlug builds a filesystem- and URL-safe slug from conference acronym,
// fahrplan id, and talk title, for tickets where the tracker omits
// Fahrplan.Slug. Diacritics are folded away, anything outside [a-z0-9]
// collapses to single hyphens.
func DeriveSlug(conference, fahrplanID, title string) string {
	parts := make([]string, 0, 3)
	for _, part := range []string{conference, fahrplanID, title} {
		if slug := slugify(part); slug != "" {
			parts = append(parts, slug)
		}
	}
	return strings.Join(parts, "-")
}

var stripMarks = transform.Chain(
	norm.NFKD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

func slugify(value string) string {
	folded, _, err := transform.String(stripMarks, value)
	if err != nil {
		folded = value
	}
	folded = strings.ToLower(folded)

	var sb strings.Builder
	lastHyphen := true
	for _, r := range folded {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				sb.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.Trim(sb.String(), "-")
}
