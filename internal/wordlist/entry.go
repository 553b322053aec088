package wordlist

// WordEntry is one english/korean vocabulary pair
type WordEntry struct {
	En string `json:"en"`
	Ko string `json:"ko"`
}

// Complete reports whether both sides are present. Only complete entries
// take part in quizzes; partial entries are still shown as flashcards.
func (e WordEntry) Complete() bool {
	return e.En != "" && e.Ko != ""
}

// empty reports whether neither side carries text
func (e WordEntry) empty() bool {
	return e.En == "" && e.Ko == ""
}

// WordList is an ordered sequence of entries in file enumeration order,
// then in-file order. Duplicates are kept.
type WordList []WordEntry

// Eligible returns the entries usable for a quiz
func (l WordList) Eligible() WordList {
	var out WordList
	for _, e := range l {
		if e.Complete() {
			out = append(out, e)
		}
	}
	return out
}

// newEntry cleans both sides of a raw pair
func newEntry(en, ko string) WordEntry {
	return WordEntry{En: Clean(en), Ko: Clean(ko)}
}

// pairs turns a flat sequence of cleaned values into entries: even
// positions are english, odd positions korean. A trailing odd value
// becomes an english-only entry.
func pairs(values []string) []WordEntry {
	var entries []WordEntry
	for i := 0; i < len(values); i += 2 {
		ko := ""
		if i+1 < len(values) {
			ko = values[i+1]
		}
		if e := (WordEntry{En: values[i], Ko: ko}); !e.empty() {
			entries = append(entries, e)
		}
	}
	return entries
}

// cleanAll applies Clean to every value
func cleanAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = Clean(v)
	}
	return out
}
