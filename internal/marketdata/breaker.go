package marketdata

import (
	"context"
	"sync"
	"time"

	"stockwatch/internal/errors"
	"stockwatch/internal/models"
)

type breakerState int

const (
	breakerClosed breakerState = iota
	breakerOpen
	breakerHalfOpen
)

// BreakerConfig controls when a quote source is suspended after repeated
// transport failures and when it is probed again.
type BreakerConfig struct {
	// FailureThreshold is the number of consecutive failures before the
	// source is suspended.
	FailureThreshold int
	// SuccessThreshold is the number of probe successes needed to restore
	// a suspended source.
	SuccessThreshold int
	// Cooldown is how long a suspended source stays suspended before a
	// probe request is let through.
	Cooldown time.Duration
}

// DefaultBreakerConfig returns the defaults used by the check command.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		FailureThreshold: 5,
		SuccessThreshold: 2,
		Cooldown:         30 * time.Second,
	}
}

// ResilientProvider wraps a Provider and suspends it after repeated
// transport failures, so a dead quote source fails a large batch fast
// instead of timing out note by note. Unresolvable symbols (nil quote,
// nil error) are not failures.
type ResilientProvider struct {
	inner Provider
	cfg   BreakerConfig

	mu          sync.Mutex
	state       breakerState
	failures    int
	successes   int
	lastFailure time.Time
}

// NewResilientProvider wraps inner with failure-based suspension.
func NewResilientProvider(inner Provider, cfg BreakerConfig) *ResilientProvider {
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = DefaultBreakerConfig().FailureThreshold
	}
	if cfg.SuccessThreshold <= 0 {
		cfg.SuccessThreshold = DefaultBreakerConfig().SuccessThreshold
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = DefaultBreakerConfig().Cooldown
	}
	return &ResilientProvider{inner: inner, cfg: cfg}
}

// Name returns the wrapped provider's name.
func (p *ResilientProvider) Name() string {
	return p.inner.Name()
}

// GetPriceInfo fetches a quote through the wrapped provider unless the
// source is currently suspended.
func (p *ResilientProvider) GetPriceInfo(ctx context.Context, symbol string) (*models.PriceInfo, error) {
	if !p.allow() {
		return nil, errors.NewQuoteError(symbol, errors.Wrap(errors.ErrQuoteUnavailable, "quote source suspended"))
	}

	info, err := p.inner.GetPriceInfo(ctx, symbol)
	if err != nil {
		p.recordFailure()
		return nil, err
	}
	p.recordSuccess()
	return info, nil
}

func (p *ResilientProvider) allow() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state == breakerOpen {
		if time.Since(p.lastFailure) < p.cfg.Cooldown {
			return false
		}
		p.state = breakerHalfOpen
		p.successes = 0
	}
	return true
}

func (p *ResilientProvider) recordSuccess() {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch p.state {
	case breakerHalfOpen:
		p.successes++
		if p.successes >= p.cfg.SuccessThreshold {
			p.state = breakerClosed
			p.failures = 0
		}
	case breakerClosed:
		p.failures = 0
	}
}

func (p *ResilientProvider) recordFailure() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.lastFailure = time.Now()
	switch p.state {
	case breakerHalfOpen:
		p.state = breakerOpen
	case breakerClosed:
		p.failures++
		if p.failures >= p.cfg.FailureThreshold {
			p.state = breakerOpen
		}
	}
}

// Suspended reports whether the source is currently rejecting requests.
func (p *ResilientProvider) Suspended() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state == breakerOpen && time.Since(p.lastFailure) < p.cfg.Cooldown
}
