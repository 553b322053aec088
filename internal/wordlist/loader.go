package wordlist

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// Loader reads every recognized word file in a directory
type Loader struct {
	dir    string
	logger *log.Logger
}

// NewLoader creates a loader for dir. A nil logger uses the default logger.
func NewLoader(dir string, logger *log.Logger) *Loader {
	if logger == nil {
		logger = log.Default()
	}
	return &Loader{
		dir:    dir,
		logger: logger.WithPrefix("wordlist"),
	}
}

// Dir returns the directory the loader reads from
func (l *Loader) Dir() string {
	return l.dir
}

// Source is the list of entries read from one file
type Source struct {
	File    string // Base name of the file
	Entries []WordEntry
}

// Load builds a fresh word list from disk. A missing directory yields an
// empty list. Problems with individual files are logged and never abort
// the load.
func (l *Loader) Load(ctx context.Context) (WordList, error) {
	sources, err := l.LoadSources(ctx)
	if err != nil {
		return nil, err
	}

	words := WordList{}
	for _, src := range sources {
		words = append(words, src.Entries...)
	}

	l.logger.Debug("loaded words", "dir", l.dir, "count", len(words))
	return words, nil
}

// LoadSources is Load keeping track of which file each entry came from.
// Files are returned in directory order. Supported files without entries
// are included; other extensions are skipped.
func (l *Loader) LoadSources(ctx context.Context) ([]Source, error) {
	dirEntries, err := os.ReadDir(l.dir)
	if errors.Is(err, fs.ErrNotExist) {
		l.logger.Debug("word directory does not exist", "dir", l.dir)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read word directory: %w", err)
	}

	var sources []Source
	for _, de := range dirEntries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if de.IsDir() || !supported(de.Name()) {
			continue
		}

		entries, err := l.LoadFile(filepath.Join(l.dir, de.Name()))
		if err != nil {
			l.logger.Error("failed to read word file", "file", de.Name(), "error", err)
			continue
		}
		sources = append(sources, Source{File: de.Name(), Entries: entries})
	}

	return sources, nil
}

// LoadFile parses a single file according to its extension. Unsupported
// extensions yield no entries.
func (l *Loader) LoadFile(path string) ([]WordEntry, error) {
	if !supported(path) {
		return nil, nil
	}
	ext := strings.ToLower(filepath.Ext(path))

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	text := DecodeText(raw)

	if ext == ".txt" {
		return ParseTXT(text), nil
	}
	return l.parseCSV(filepath.Base(path), text), nil
}

// supported reports whether the file extension is a word list format
func supported(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".csv" || ext == ".txt"
}

// parseCSV runs the fallback chain and logs what had to be given up on
func (l *Loader) parseCSV(name, text string) []WordEntry {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	entries, attempts := RunChain(text, CSVParsers)
	warned := false
	for _, a := range attempts {
		if errors.Is(a.Err, ErrMalformedCSV) {
			if !warned {
				l.logger.Warn("CSV parse error, trying fallback parsers", "file", name, "error", a.Err)
				warned = true
			}
			continue
		}
		l.logger.Debug("parser recovered nothing", "file", name, "parser", a.Parser)
	}

	if len(entries) == 0 {
		l.logger.Error("no entries recovered", "file", name)
	}
	return entries
}
