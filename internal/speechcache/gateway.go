package speechcache

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"

	"codeberg.org/snonux/wordspeak/internal/audio"
)

var (
	// ErrEmptyText is returned for blank text
	ErrEmptyText = errors.New("text is empty")
	// ErrInvalidName is returned by Resolve for names outside the cache
	ErrInvalidName = errors.New("invalid audio file name")
	// ErrNotFound is returned by Resolve for names not in the cache
	ErrNotFound = errors.New("audio file not found")
	// ErrSynthesis wraps provider failures
	ErrSynthesis = errors.New("synthesis failed")
	// ErrNoAudio is returned when synthesis finished without writing audio
	ErrNoAudio = fmt.Errorf("%w: no audio produced", ErrSynthesis)
)

// Config holds gateway settings
type Config struct {
	Dir     string        // Cache directory, created on first use
	Timeout time.Duration // Per-synthesis timeout, 0 waits indefinitely
}

// Asset describes a cached audio file
type Asset struct {
	Key    string
	Name   string // File name inside the cache directory
	Path   string
	Cached bool // True when no synthesis was needed
}

// Stats summarizes the cache directory
type Stats struct {
	Files int   `json:"files"`
	Bytes int64 `json:"bytes"`
}

// Gateway serves audio for text from the cache directory, synthesizing
// missing files through a provider
type Gateway struct {
	dir      string
	timeout  time.Duration
	provider audio.Provider
	logger   *log.Logger
	group    singleflight.Group
}

// NewGateway creates a gateway. A nil logger discards log output.
func NewGateway(config *Config, provider audio.Provider, logger *log.Logger) *Gateway {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return &Gateway{
		dir:      config.Dir,
		timeout:  config.Timeout,
		provider: provider,
		logger:   logger.WithPrefix("speechcache"),
	}
}

// Dir returns the cache directory
func (g *Gateway) Dir() string {
	return g.dir
}

// Speak returns the cached audio for text, synthesizing it first when
// needed. Concurrent calls for the same text share one synthesis. A caller
// whose context ends stops waiting but does not abort the shared synthesis.
func (g *Gateway) Speak(ctx context.Context, text string) (*Asset, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}

	if err := os.MkdirAll(g.dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	key := Key(text)
	asset := &Asset{
		Key:  key,
		Name: key + Ext,
		Path: filepath.Join(g.dir, key+Ext),
	}

	if present(asset.Path) {
		g.logger.Debug("cache hit", "key", key)
		asset.Cached = true
		return asset, nil
	}

	results := g.group.DoChan(key, func() (interface{}, error) {
		return g.synthesize(context.WithoutCancel(ctx), text, asset.Path)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-results:
		if res.Err != nil {
			return nil, res.Err
		}
		asset.Cached = res.Val.(bool)
		return asset, nil
	}
}

// synthesize writes the audio for text to path. It reports true when
// another call already produced the file.
func (g *Gateway) synthesize(ctx context.Context, text, path string) (bool, error) {
	if present(path) {
		return true, nil
	}

	tmp, err := os.CreateTemp(g.dir, ".synth-*"+Ext)
	if err != nil {
		return false, fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpPath := tmp.Name()
	tmp.Close()

	published := false
	defer func() {
		if !published {
			os.Remove(tmpPath)
		}
	}()

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	start := time.Now()
	if err := g.provider.GenerateAudio(ctx, text, tmpPath); err != nil {
		g.logger.Error("synthesis failed", "provider", g.provider.Name(), "error", err)
		return false, fmt.Errorf("%w: %w", ErrSynthesis, err)
	}

	if !present(tmpPath) {
		g.logger.Error("synthesis produced no audio", "provider", g.provider.Name())
		return false, ErrNoAudio
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return false, fmt.Errorf("failed to publish audio file: %w", err)
	}
	published = true

	g.logger.Info("synthesized", "file", filepath.Base(path), "duration", time.Since(start).Round(time.Millisecond))
	return false, nil
}

// Resolve maps an audio file name to its path in the cache directory.
// Names that FileName could not have produced are rejected.
func (g *Gateway) Resolve(name string) (string, error) {
	if !validName(name) {
		return "", ErrInvalidName
	}

	path := filepath.Join(g.dir, name)
	if !present(path) {
		return "", ErrNotFound
	}

	return path, nil
}

// Stats counts the cached audio files and their total size. A missing
// cache directory is reported as empty.
func (g *Gateway) Stats() (Stats, error) {
	var stats Stats

	entries, err := os.ReadDir(g.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return stats, nil
		}
		return stats, fmt.Errorf("failed to read cache directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !validName(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		stats.Files++
		stats.Bytes += info.Size()
	}

	return stats, nil
}

// present reports whether path is a non-empty regular file
func present(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular() && info.Size() > 0
}
