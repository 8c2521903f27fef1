package resilience

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/kbukum/authclient/validation"
)

// LimiterConfig configures a token bucket rate limiter.
type LimiterConfig struct {
	// Name identifies the limiter in logs.
	Name string `yaml:"name" mapstructure:"name"`
	// Rate is the number of requests allowed per second.
	Rate float64 `yaml:"rate" mapstructure:"rate"`
	// Burst is the maximum burst size.
	Burst int `yaml:"burst" mapstructure:"burst"`
}

// ApplyDefaults fills in zero-value fields.
func (c *LimiterConfig) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "http"
	}
	if c.Rate <= 0 {
		c.Rate = 10
	}
	if c.Burst <= 0 {
		c.Burst = max(1, int(c.Rate))
	}
}

// Validate checks the configuration.
func (c *LimiterConfig) Validate() error {
	v := validation.New().Min("burst", c.Burst, 1)
	if c.Rate <= 0 {
		v.AddError("rate", "must be positive")
	}
	return v.Err()
}

// Limiter wraps golang.org/x/time/rate with the module's config shape.
type Limiter struct {
	name    string
	limiter *rate.Limiter
}

// NewLimiter creates a limiter that starts with a full bucket.
func NewLimiter(config LimiterConfig) *Limiter {
	config.ApplyDefaults()
	return &Limiter{
		name:    config.Name,
		limiter: rate.NewLimiter(rate.Limit(config.Rate), config.Burst),
	}
}

// Allow reports whether a request may proceed now, consuming a token if so.
func (l *Limiter) Allow() bool {
	return l.limiter.Allow()
}

// Wait blocks until a token is available or ctx is done.
func (l *Limiter) Wait(ctx context.Context) error {
	if err := l.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter %s: %w", l.name, err)
	}
	return nil
}

// Tokens returns the number of tokens currently available.
func (l *Limiter) Tokens() float64 {
	return l.limiter.Tokens()
}
