package audio

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/sony/gobreaker"
)

// ErrProviderSuspended is returned while the breaker is open
var ErrProviderSuspended = errors.New("speech provider suspended after repeated failures")

// BreakerProvider stops calling a provider that keeps failing. After
// failures consecutive errors every call fails fast until cooldown has
// passed; then a single trial call decides whether to resume. Calls are
// never retried.
type BreakerProvider struct {
	provider Provider
	cb       *gobreaker.CircuitBreaker
}

// NewBreakerProvider wraps provider in a circuit breaker
func NewBreakerProvider(provider Provider, failures uint32, cooldown time.Duration) *BreakerProvider {
	if failures == 0 {
		failures = 5
	}

	settings := gobreaker.Settings{
		Name:        provider.Name(),
		MaxRequests: 1,
		Timeout:     cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("speech provider breaker changed state", "provider", name, "from", from.String(), "to", to.String())
		},
	}

	return &BreakerProvider{
		provider: provider,
		cb:       gobreaker.NewCircuitBreaker(settings),
	}
}

// GenerateAudio forwards to the wrapped provider unless the breaker is open
func (p *BreakerProvider) GenerateAudio(ctx context.Context, text string, outputFile string) error {
	_, err := p.cb.Execute(func() (interface{}, error) {
		return nil, p.provider.GenerateAudio(ctx, text, outputFile)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %s", ErrProviderSuspended, p.provider.Name())
	}
	return err
}

// Name returns the wrapped provider name
func (p *BreakerProvider) Name() string {
	return p.provider.Name()
}

// IsAvailable reports the wrapped provider's availability, or an error
// while the breaker is open
func (p *BreakerProvider) IsAvailable() error {
	if p.cb.State() == gobreaker.StateOpen {
		return fmt.Errorf("%w: %s", ErrProviderSuspended, p.provider.Name())
	}
	return p.provider.IsAvailable()
}

// State returns the breaker state name: "closed", "half-open" or "open"
func (p *BreakerProvider) State() string {
	return p.cb.State().String()
}
