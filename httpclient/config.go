package httpclient

import (
	"time"

	"github.com/kbukum/authclient/resilience"
	"github.com/kbukum/authclient/validation"
)

const (
	defaultTimeout = 30 * time.Second
)

// Config configures the REST transport and request builder.
type Config struct {
	// Name identifies the transport in logs and health reports.
	Name string `yaml:"name" mapstructure:"name"`

	// BaseURL is the API root that descriptor paths are joined onto.
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`

	// Timeout is the default request timeout. Defaults to 30s.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// Headers are sent with every request unless the request sets them.
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`

	// TLS configures TLS settings for the HTTP transport.
	TLS *TLSConfig `yaml:"tls" mapstructure:"tls"`

	// HTTP2 negotiates HTTP/2 over TLS with golang.org/x/net/http2.
	HTTP2 bool `yaml:"http2" mapstructure:"http2"`

	// LogCurl logs every request as a redacted cURL command at debug level.
	LogCurl bool `yaml:"log_curl" mapstructure:"log_curl"`

	// CircuitBreaker guards sends. Nil disables it.
	CircuitBreaker *resilience.BreakerConfig `yaml:"circuit_breaker" mapstructure:"circuit_breaker"`

	// RateLimiter throttles sends. Nil disables it.
	RateLimiter *resilience.LimiterConfig `yaml:"rate_limiter" mapstructure:"rate_limiter"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "http"
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.CircuitBreaker != nil {
		c.CircuitBreaker.ApplyDefaults()
	}
	if c.RateLimiter != nil {
		c.RateLimiter.ApplyDefaults()
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	v := validation.New().
		AbsoluteURL("base_url", c.BaseURL).
		Positive("timeout", c.Timeout).
		Merge("tls", c.TLS.Validate())
	if c.CircuitBreaker != nil {
		v.Merge("circuit_breaker", c.CircuitBreaker.Validate())
	}
	if c.RateLimiter != nil {
		v.Merge("rate_limiter", c.RateLimiter.Validate())
	}
	return v.Err()
}
