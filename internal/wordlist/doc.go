// Package wordlist loads English–Korean vocabulary pairs from a directory of
// CSV and TXT files. Parsing is best effort: malformed CSV files are handed
// down an ordered chain of fallback parsers instead of failing the load.
package wordlist
