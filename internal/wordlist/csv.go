package wordlist

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
)

var (
	// ErrMalformedCSV is returned by the strict parsers when the input is
	// not valid CSV
	ErrMalformedCSV = errors.New("malformed csv")

	// ErrNoEntries is returned by a parser that recovered nothing
	ErrNoEntries = errors.New("no entries recovered")
)

// Parser turns raw text into entries. A parser that cannot recover anything
// returns an error; the entries it returns alongside an error are ignored.
type Parser struct {
	Name  string
	Parse func(text string) ([]WordEntry, error)
}

// CSVParsers is the fallback order used for .csv files: strict parsing
// first, then progressively looser heuristics.
var CSVParsers = []Parser{
	{Name: "flattened-row", Parse: ParseFlattenedRow},
	{Name: "rows", Parse: ParseRows},
	{Name: "loose", Parse: ParseLoose},
	{Name: "naive", Parse: ParseNaive},
}

// Attempt records why a parser in the chain did not produce entries
type Attempt struct {
	Parser string
	Err    error
}

// RunChain tries each parser in order and returns the first non-empty
// result, plus the failures of every parser tried before it.
func RunChain(text string, parsers []Parser) ([]WordEntry, []Attempt) {
	var attempts []Attempt
	for _, p := range parsers {
		entries, err := p.Parse(text)
		if err == nil && len(entries) == 0 {
			err = ErrNoEntries
		}
		if err != nil {
			attempts = append(attempts, Attempt{Parser: p.Name, Err: err})
			continue
		}
		return entries, attempts
	}
	return nil, attempts
}

// readRecords parses text as CSV without a declared column count and
// returns cleaned values. Empty lines are skipped; quotes must be well
// formed. A quoted field has already lost its layer of double quotes to
// the CSV syntax, so it is only trimmed.
func readRecords(text string) ([][]string, error) {
	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	lines := strings.Split(text, "\n")

	var records [][]string
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedCSV, err)
		}

		for i, v := range record {
			line, col := r.FieldPos(i)
			if quotedAt(lines, line, col) {
				record[i] = strings.TrimSpace(v)
			} else {
				record[i] = Clean(v)
			}
		}
		records = append(records, record)
	}
	return records, nil
}

// quotedAt reports whether a field starting at the 1-based line and byte
// column opens with a double quote
func quotedAt(lines []string, line, col int) bool {
	if line < 1 || line > len(lines) {
		return false
	}
	l := lines[line-1]
	return col >= 1 && col <= len(l) && l[col-1] == '"'
}

// ParseFlattenedRow recovers word lists exported without newlines: a single
// record with more than two columns is read as alternating english/korean
// values.
func ParseFlattenedRow(text string) ([]WordEntry, error) {
	records, err := readRecords(text)
	if err != nil {
		return nil, err
	}
	if len(records) != 1 || len(records[0]) <= 2 {
		return nil, ErrNoEntries
	}
	return pairs(records[0]), nil
}

// ParseRows reads every record with at least two columns as one entry;
// extra columns are ignored
func ParseRows(text string) ([]WordEntry, error) {
	records, err := readRecords(text)
	if err != nil {
		return nil, err
	}

	var entries []WordEntry
	for _, record := range records {
		if len(record) < 2 {
			continue
		}
		if e := (WordEntry{En: record[0], Ko: record[1]}); !e.empty() {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

// recordStart matches a whitespace run followed by a comma-terminated token.
// The whitespace is treated as a record separator.
var recordStart = regexp.MustCompile(`\s+[^,\s]+,`)

// splitLooseRecords cuts text at every whitespace run that precedes a
// comma-terminated token
func splitLooseRecords(text string) []string {
	var segments []string
	start := 0
	for _, m := range recordStart.FindAllStringIndex(text, -1) {
		// The token stays with the segment that follows
		match := text[m[0]:m[1]]
		space := len(match) - len(strings.TrimLeft(match, " \t\r\n\f"))
		segments = append(segments, text[start:m[0]])
		start = m[0] + space
	}
	segments = append(segments, text[start:])
	return segments
}

// ParseLoose is the heuristic used when strict parsing fails. It can mis-split
// multi-word values; that boundary behavior is kept as is.
func ParseLoose(text string) ([]WordEntry, error) {
	var entries []WordEntry
	for _, segment := range splitLooseRecords(text) {
		segment = strings.TrimSpace(segment)
		en, ko, found := strings.Cut(segment, ",")
		if !found {
			continue
		}
		if e := newEntry(en, ko); !e.empty() {
			entries = append(entries, e)
		}
	}
	if len(entries) == 0 {
		return nil, ErrNoEntries
	}
	return entries, nil
}

// ParseNaive splits the whole text on every comma and pairs the values
func ParseNaive(text string) ([]WordEntry, error) {
	if !strings.Contains(text, ",") {
		return nil, ErrNoEntries
	}
	entries := pairs(cleanAll(strings.Split(text, ",")))
	if len(entries) == 0 {
		return nil, ErrNoEntries
	}
	return entries, nil
}
