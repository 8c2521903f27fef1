package session

import (
	"time"

	"github.com/kbukum/authclient/validation"
)

// Unauthorized policies select how the retry path re-adapts a request.
const (
	// PolicyRefresh forces a refresh when the stored token is the one the
	// server rejected.
	PolicyRefresh = "refresh"
	// PolicyExpiry re-adapts by expiry only, the same as the first attempt.
	PolicyExpiry = "expiry"
)

const (
	defaultCredentialID  = "tokenId"
	defaultRefreshPath   = "/auth/refresh"
	defaultExpiresInMins = 30
)

// Config configures the session handler.
type Config struct {
	// CredentialID is the store identifier of the session record.
	CredentialID string `yaml:"credential_id" mapstructure:"credential_id"`

	// RefreshPath is the refresh endpoint, relative to the API base URL.
	RefreshPath string `yaml:"refresh_path" mapstructure:"refresh_path"`

	// RefreshExpiresInMins is the lifetime requested for refreshed tokens.
	RefreshExpiresInMins int `yaml:"refresh_expires_in_mins" mapstructure:"refresh_expires_in_mins"`

	// DefaultLifetime applies when a session payload carries no expiry.
	DefaultLifetime time.Duration `yaml:"default_lifetime" mapstructure:"default_lifetime"`

	// ExpiryLeeway treats a session expiring within the leeway as expired.
	ExpiryLeeway time.Duration `yaml:"expiry_leeway" mapstructure:"expiry_leeway"`

	// UnauthorizedPolicy is PolicyRefresh (default) or PolicyExpiry.
	UnauthorizedPolicy string `yaml:"unauthorized_policy" mapstructure:"unauthorized_policy"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.CredentialID == "" {
		c.CredentialID = defaultCredentialID
	}
	if c.RefreshPath == "" {
		c.RefreshPath = defaultRefreshPath
	}
	if c.RefreshExpiresInMins <= 0 {
		c.RefreshExpiresInMins = defaultExpiresInMins
	}
	if c.DefaultLifetime <= 0 {
		c.DefaultLifetime = DefaultLifetime
	}
	if c.UnauthorizedPolicy == "" {
		c.UnauthorizedPolicy = PolicyRefresh
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	v := validation.New().
		Required("credential_id", c.CredentialID).
		Required("refresh_path", c.RefreshPath).
		Min("refresh_expires_in_mins", c.RefreshExpiresInMins, 1).
		Positive("default_lifetime", c.DefaultLifetime).
		NonNegative("expiry_leeway", c.ExpiryLeeway).
		OneOf("unauthorized_policy", c.UnauthorizedPolicy, PolicyRefresh, PolicyExpiry)
	// A leeway covering the whole lifetime would refresh on every request.
	if c.ExpiryLeeway >= c.DefaultLifetime {
		v.AddError("expiry_leeway", "must be less than default_lifetime")
	}
	return v.Err()
}
