package ticket

import (
	"strconv"
	"strings"

	"lectern/internal/language"
)

// resolveLanguages builds the index-to-language map for a ticket.
//
// Keys matching "Record.Language.<n>" define the map directly; when none
// exist a single-entry map is synthesized from the scalar language property.
// The override property, when present, replaces the whole map by splitting a
// hyphen-joined string positionally ("de-en" => {0: deu, 1: eng}). Every
// code passes through the canonicalization table and fails closed.
func (b *bag) resolveLanguages(primary string) (map[int]string, error) {
	if override := b.optional(keyLanguageOverride); override != "" {
		return b.languagesFromOverride(override)
	}

	languages := make(map[int]string)
	for _, key := range b.raw.Keys() {
		rest, ok := cutPrefixFold(key, keyLanguagePrefix)
		if !ok {
			continue
		}
		index, err := strconv.Atoi(rest)
		if err != nil || index < 0 {
			return nil, validationErrorf(b.ticketID, "malformed language key %q", key)
		}
		value, _ := b.raw.Get(key)
		canonical, err := language.Canonical(value)
		if err != nil {
			return nil, validationErrorf(b.ticketID, "language track %d: %v", index, err)
		}
		languages[index] = canonical
	}

	if len(languages) == 0 {
		canonical, err := language.Canonical(primary)
		if err != nil {
			return nil, validationErrorf(b.ticketID, "primary language: %v", err)
		}
		return map[int]string{0: canonical}, nil
	}

	if _, ok := languages[0]; !ok {
		return nil, validationErrorf(b.ticketID, "language tracks present but no track 0")
	}
	return languages, nil
}

func (b *bag) languagesFromOverride(override string) (map[int]string, error) {
	parts := strings.Split(override, "-")
	languages := make(map[int]string, len(parts))
	for index, part := range parts {
		canonical, err := language.Canonical(part)
		if err != nil {
			return nil, validationErrorf(b.ticketID, "language override position %d: %v", index, err)
		}
		languages[index] = canonical
	}
	return languages, nil
}

// cutPrefixFold is strings.CutPrefix with case-insensitive matching, for the
// tracker's case-insensitive key convention.
func cutPrefixFold(s, prefix string) (string, bool) {
	if len(s) < len(prefix) {
		return "", false
	}
	if !strings.EqualFold(s[:len(prefix)], prefix) {
		return "", false
	}
	return s[len(prefix):], true
}
