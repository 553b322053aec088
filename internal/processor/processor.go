package processor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"codeberg.org/snonux/wordspeak/internal"
	"codeberg.org/snonux/wordspeak/internal/anki"
	"codeberg.org/snonux/wordspeak/internal/audio"
	"codeberg.org/snonux/wordspeak/internal/cli"
	"codeberg.org/snonux/wordspeak/internal/server"
	"codeberg.org/snonux/wordspeak/internal/speechcache"
	"codeberg.org/snonux/wordspeak/internal/wordlist"
)

// Processor handles the main application logic
type Processor struct {
	settings *cli.Settings
	logger   *log.Logger
	loader   *wordlist.Loader
	gateway  *speechcache.Gateway
	out      io.Writer
}

// NewProcessor creates a processor using the provider chain described by
// settings
func NewProcessor(settings *cli.Settings, logger *log.Logger) (*Processor, error) {
	if logger == nil {
		logger = log.Default()
	}

	provider, err := BuildProvider(settings, logger)
	if err != nil {
		return nil, err
	}

	return NewProcessorWithProvider(settings, provider, logger), nil
}

// NewProcessorWithProvider creates a processor around an existing provider
func NewProcessorWithProvider(settings *cli.Settings, provider audio.Provider, logger *log.Logger) *Processor {
	if logger == nil {
		logger = log.Default()
	}

	return &Processor{
		settings: settings,
		logger:   logger,
		loader:   wordlist.NewLoader(settings.WordsDir, logger),
		gateway: speechcache.NewGateway(&speechcache.Config{
			Dir:     settings.CacheDir,
			Timeout: settings.Audio.Timeout,
		}, provider, logger),
		out: os.Stdout,
	}
}

// BuildProvider creates the configured provider, wrapped in a circuit
// breaker and a fallback provider when those are enabled. The synthesis
// timeout is left to the gateway.
func BuildProvider(settings *cli.Settings, logger *log.Logger) (audio.Provider, error) {
	config := *settings.Audio
	config.Timeout = 0

	primary, err := audio.NewProvider(&config)
	if err != nil {
		return nil, fmt.Errorf("failed to create speech provider: %w", err)
	}
	if err := primary.IsAvailable(); err != nil {
		logger.Warn("speech provider is not available", "provider", primary.Name(), "error", err)
	}

	var provider audio.Provider = primary
	if settings.BreakerFailures > 0 {
		provider = audio.NewBreakerProvider(primary, settings.BreakerFailures, settings.BreakerCooldown)
	}

	if settings.Fallback == "" || settings.Fallback == settings.Audio.Provider {
		return provider, nil
	}

	fallbackConfig := config
	fallbackConfig.Provider = settings.Fallback
	fallback, err := audio.NewProvider(&fallbackConfig)
	if err != nil {
		logger.Warn("fallback provider disabled", "provider", settings.Fallback, "error", err)
		return provider, nil
	}

	return audio.NewProviderWithFallback(provider, fallback), nil
}

// SetOutput redirects the human readable summaries, stdout by default
func (p *Processor) SetOutput(w io.Writer) {
	p.out = w
}

// Gateway returns the speech cache
func (p *Processor) Gateway() *speechcache.Gateway {
	return p.gateway
}

// LoadWords reads the word lists from disk
func (p *Processor) LoadWords(ctx context.Context) (wordlist.WordList, error) {
	return p.loader.Load(ctx)
}

// Speak returns the cached audio for text, synthesizing it when needed
func (p *Processor) Speak(ctx context.Context, text string) (*speechcache.Asset, error) {
	return p.gateway.Speak(ctx, text)
}

// PrefetchSummary counts the outcome of a prefetch run
type PrefetchSummary struct {
	Total       int
	Synthesized int
	Cached      int
	Failed      int
}

// Prefetch warms the cache for every distinct english text in the word
// lists, running up to concurrency syntheses at once. Individual failures
// are counted, not returned.
func (p *Processor) Prefetch(ctx context.Context, concurrency int) (PrefetchSummary, error) {
	words, err := p.LoadWords(ctx)
	if err != nil {
		return PrefetchSummary{}, err
	}

	texts := distinctEnglish(words)
	summary := PrefetchSummary{Total: len(texts)}
	if concurrency < 1 {
		concurrency = 1
	}

	var synthesized, cached, failed atomic.Int64
	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for _, text := range texts {
		text := text
		g.Go(func() error {
			asset, err := p.gateway.Speak(gctx, text)
			switch {
			case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
				return err
			case err != nil:
				p.logger.Warn("prefetch failed", "text", text, "error", err)
				failed.Add(1)
			case asset.Cached:
				cached.Add(1)
			default:
				synthesized.Add(1)
			}
			return nil
		})
	}
	err = g.Wait()

	summary.Synthesized = int(synthesized.Load())
	summary.Cached = int(cached.Load())
	summary.Failed = int(failed.Load())

	fmt.Fprintf(p.out, "\n=== Prefetch Summary ===\n")
	fmt.Fprintf(p.out, "Distinct texts: %d\n", summary.Total)
	fmt.Fprintf(p.out, "Synthesized: %d\n", summary.Synthesized)
	fmt.Fprintf(p.out, "Already cached: %d\n", summary.Cached)
	if summary.Failed > 0 {
		fmt.Fprintf(p.out, "Failed: %d\n", summary.Failed)
	}
	fmt.Fprintf(p.out, "Took: %s\n", time.Since(start).Round(time.Millisecond))
	fmt.Fprintf(p.out, "========================\n")

	return summary, err
}

// distinctEnglish returns the english sides in order, without blanks and
// exact duplicates
func distinctEnglish(words wordlist.WordList) []string {
	seen := make(map[string]bool)
	var texts []string
	for _, w := range words {
		if strings.TrimSpace(w.En) == "" || seen[w.En] {
			continue
		}
		seen[w.En] = true
		texts = append(texts, w.En)
	}
	return texts
}

// CacheStats prints and returns the cache size
func (p *Processor) CacheStats() (speechcache.Stats, error) {
	stats, err := p.gateway.Stats()
	if err != nil {
		return stats, err
	}

	fmt.Fprintf(p.out, "Cache directory: %s\n", p.gateway.Dir())
	fmt.Fprintf(p.out, "Audio files: %s\n", humanize.Comma(int64(stats.Files)))
	fmt.Fprintf(p.out, "Total size: %s\n", humanize.Bytes(uint64(stats.Bytes)))
	return stats, nil
}

// AnkiOptions selects the export format and destination
type AnkiOptions struct {
	OutputDir string
	DeckName  string
	CSV       bool // Write a CSV instead of an .apkg package
	Headers   bool // Include a header row in CSV output
}

// GenerateAnkiFile exports every entry with english text, speaking each
// one through the cache first. Entries whose audio fails are exported
// without audio. It returns the path of the written file.
func (p *Processor) GenerateAnkiFile(ctx context.Context, opts AnkiOptions) (string, error) {
	sources, err := p.loader.LoadSources(ctx)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	outputPath := filepath.Join(opts.OutputDir, "anki_import.csv")
	if !opts.CSV {
		outputPath = filepath.Join(opts.OutputDir, internal.SanitizeFilename(opts.DeckName)+".apkg")
	}

	gen := anki.NewGenerator(&anki.GeneratorOptions{
		OutputPath:     outputPath,
		IncludeHeaders: opts.Headers,
	})

	failed := 0
	for _, src := range sources {
		for _, entry := range src.Entries {
			if entry.En == "" {
				continue
			}

			card := anki.Card{English: entry.En, Korean: entry.Ko, Source: src.File}
			asset, err := p.gateway.Speak(ctx, entry.En)
			if err != nil {
				if ctx.Err() != nil {
					return "", ctx.Err()
				}
				p.logger.Warn("exporting without audio", "text", entry.En, "error", err)
				failed++
			} else {
				card.AudioFile = asset.Path
			}
			gen.AddCard(card)
		}
	}

	if opts.CSV {
		if err := gen.GenerateCSV(); err != nil {
			return "", fmt.Errorf("failed to generate CSV: %w", err)
		}
	} else {
		if err := gen.GenerateAPKG(outputPath, opts.DeckName); err != nil {
			return "", fmt.Errorf("failed to generate APKG: %w", err)
		}
	}

	total, withAudio := gen.Stats()
	fmt.Fprintf(p.out, "  Generated %d cards (%d with audio)\n", total, withAudio)
	if failed > 0 {
		fmt.Fprintf(p.out, "  %d entries could not be synthesized\n", failed)
	}

	return outputPath, nil
}

// RunServer serves the study API until ctx is done
func (p *Processor) RunServer(ctx context.Context) error {
	s := server.NewServer()
	s.Addr = p.settings.Addr
	s.Logger = p.logger.WithPrefix("http")
	s.Words = p.loader
	s.Speech = p.gateway

	if err := s.Open(); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	u := s.URL()
	fmt.Fprintf(p.out, "Serving study API on %s (%d words, cache: %s)\n", u.String(), p.countWords(ctx), p.gateway.Dir())

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.Close(shutdownCtx)
}

func (p *Processor) countWords(ctx context.Context) int {
	words, err := p.LoadWords(ctx)
	if err != nil {
		return 0
	}
	return len(words)
}
