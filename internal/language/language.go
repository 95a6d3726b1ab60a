package language

import (
	"fmt"
	"strings"
)

type entry struct {
	code2   string // ISO 639-1 (2-letter)
	code3   string // ISO 639-2/T primary (3-letter)
	alt3    string // ISO 639-2/B alternate (e.g. "ger" vs "deu")
	display string // Human-readable name
}

var languages = []entry{
	{"en", "eng", "", "English"},
	{"de", "deu", "ger", "German"},
	{"es", "spa", "", "Spanish"},
	{"fr", "fra", "fre", "French"},
	{"it", "ita", "", "Italian"},
	{"pt", "por", "", "Portuguese"},
	{"nl", "nld", "dut", "Dutch"},
	{"pl", "pol", "", "Polish"},
	{"cs", "ces", "cze", "Czech"},
	{"sv", "swe", "", "Swedish"},
	{"da", "dan", "", "Danish"},
	{"no", "nor", "", "Norwegian"},
	{"fi", "fin", "", "Finnish"},
	{"hu", "hun", "", "Hungarian"},
	{"ru", "rus", "", "Russian"},
	{"uk", "ukr", "", "Ukrainian"},
	{"ja", "jpn", "", "Japanese"},
	{"ko", "kor", "", "Korean"},
	{"zh", "zho", "chi", "Chinese"},
	{"ar", "ara", "", "Arabic"},
	{"he", "heb", "", "Hebrew"},
	{"tr", "tur", "", "Turkish"},
	{"el", "ell", "gre", "Greek"},
}

// Index maps built at init time.
var (
	byCode2 map[string]*entry
	byCode3 map[string]*entry
)

func init() {
	byCode2 = make(map[string]*entry, len(languages))
	byCode3 = make(map[string]*entry, len(languages)*2)
	for i := range languages {
		e := &languages[i]
		byCode2[e.code2] = e
		byCode3[e.code3] = e
		if e.alt3 != "" {
			byCode3[e.alt3] = e
		}
	}
}

func lookup(code string) *entry {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return nil
	}
	if e, ok := byCode2[code]; ok {
		return e
	}
	if e, ok := byCode3[code]; ok {
		return e
	}
	return nil
}

// Canonical converts a tracker language code (2- or 3-letter) to the
// canonical ISO 639-2/T 3-letter form. Unknown codes are an error; the
// table fails closed so bogus ticket data never reaches a target.
func Canonical(code string) (string, error) {
	e := lookup(code)
	if e == nil {
		return "", fmt.Errorf("unknown language code %q", code)
	}
	return e.code3, nil
}

// DisplayName returns a human-readable language name for any recognized
// code. Returns the uppercased input for unrecognized codes; announcement
// text degrades, it does not fail.
func DisplayName(code string) string {
	if e := lookup(code); e != nil {
		return e.display
	}
	return strings.ToUpper(strings.TrimSpace(code))
}
