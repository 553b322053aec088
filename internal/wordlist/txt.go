package wordlist

import "strings"

// ParseTXT reads one pair per line. The separator is chosen per line:
// " - " wins, then a comma, then a tab. Lines missing either side are
// dropped.
func ParseTXT(text string) []WordEntry {
	var entries []WordEntry
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var en, ko string
		switch {
		case strings.Contains(line, " - "):
			en, ko, _ = strings.Cut(line, " - ")
		case strings.Contains(line, ","):
			en, ko, _ = strings.Cut(line, ",")
		case strings.Contains(line, "\t"):
			fields := strings.Split(line, "\t")
			en = fields[0]
			ko = joinFields(fields[1:])
		default:
			continue
		}

		e := newEntry(en, ko)
		if !e.Complete() {
			continue
		}
		entries = append(entries, e)
	}
	return entries
}

// joinFields joins the non-blank fields with single spaces
func joinFields(fields []string) string {
	var parts []string
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			parts = append(parts, f)
		}
	}
	return strings.Join(parts, " ")
}
