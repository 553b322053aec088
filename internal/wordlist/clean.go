package wordlist

import (
	"strings"
	"unicode/utf8"
)

// Quote characters stripped from a single side of a value
const doubleQuotes = "\"“”„"

// Quote characters stripped only when they wrap the whole value, so that
// words like 'cause or dogs’ keep their apostrophes
const singleQuotes = "'‘’"

// Clean strips one layer of surrounding quote characters and trims
// whitespace. Single quotes are only considered when no double quote was
// removed.
func Clean(s string) string {
	s = strings.TrimSpace(s)

	stripped := false
	if r, size := utf8.DecodeRuneInString(s); size > 0 && strings.ContainsRune(doubleQuotes, r) {
		s = s[size:]
		stripped = true
	}
	if r, size := utf8.DecodeLastRuneInString(s); size > 0 && strings.ContainsRune(doubleQuotes, r) {
		s = s[:len(s)-size]
		stripped = true
	}
	if stripped {
		return strings.TrimSpace(s)
	}

	first, fsize := utf8.DecodeRuneInString(s)
	last, lsize := utf8.DecodeLastRuneInString(s)
	if fsize > 0 && len(s) > fsize &&
		strings.ContainsRune(singleQuotes, first) && strings.ContainsRune(singleQuotes, last) {
		s = s[fsize : len(s)-lsize]
	}

	return strings.TrimSpace(s)
}
