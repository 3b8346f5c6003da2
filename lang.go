package zimsearch

import "strings"

// foreignTitleMarkers are parenthesized language names that archive
// producers append to translated page titles.
var foreignTitleMarkers = []string{
	"(Español)", "(Français)", "(Deutsch)", "(Italiano)", "(Polski)",
	"(Português)", "(Русский)", "(简体中文)", "(正體中文)", "(Magyar)",
	"(العربية)", "(日本語)", "(한국어)", "(Nederlands)", "(Svenska)",
	"(Türkçe)", "(Čeština)", "(Ελληνικά)", "(Български)",
}

// foreignContentPhrases are boilerplate openings common in non-English
// articles, checked against the start of the content only.
var foreignContentPhrases = []string{
	"cet article", "cette page", "artikel", "artículo", "artigo",
	"данная статья", "本文", "이 문서", "dit artikel", "questa pagina",
}

// contentPhraseWindow is how many characters of content are inspected
// for foreign boilerplate phrases.
const contentPhraseWindow = 200

// LanguageFilter heuristically excludes non-English items from search
// results. It is a static lookup table, not a statistical language
// detector: it only rejects items carrying known foreign-language
// evidence and lets everything else through. That keeps it cheap and
// dependency-free but means untagged foreign content passes. This is a
// documented limitation of the filter, not an accident.
type LanguageFilter struct {
	markers []string
	phrases []string
}

// NewLanguageFilter creates a LanguageFilter with the default marker and
// phrase tables.
func NewLanguageFilter() *LanguageFilter {
	f := &LanguageFilter{
		markers: make([]string, len(foreignTitleMarkers)),
		phrases: make([]string, len(foreignContentPhrases)),
	}
	for i, m := range foreignTitleMarkers {
		f.markers[i] = strings.ToLower(m)
	}
	for i, p := range foreignContentPhrases {
		f.phrases[i] = strings.ToLower(p)
	}
	return f
}

// IsEnglish reports whether the item appears to be English. The title is
// rejected when it contains any known language marker; the content is
// rejected when its first 200 characters contain a known non-English
// boilerplate phrase. Absence of evidence means the item passes.
func (f *LanguageFilter) IsEnglish(title, content string) bool {
	titleLower := strings.ToLower(title)
	for _, m := range f.markers {
		if strings.Contains(titleLower, m) {
			return false
		}
	}

	window := strings.ToLower(content)
	if r := []rune(window); len(r) > contentPhraseWindow {
		window = string(r[:contentPhraseWindow])
	}
	for _, p := range f.phrases {
		if strings.Contains(window, p) {
			return false
		}
	}

	return true
}
