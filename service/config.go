package service

import (
	"github.com/kbukum/authclient/validation"
)

// Config configures the API endpoints used by the service.
type Config struct {
	// LoginPath is the login endpoint. Defaults to /auth/login.
	LoginPath string `yaml:"login_path" mapstructure:"login_path"`

	// MePath is the profile endpoint. Defaults to /auth/me.
	MePath string `yaml:"me_path" mapstructure:"me_path"`

	// LoginExpiresInMins is the token lifetime requested at login.
	LoginExpiresInMins int `yaml:"login_expires_in_mins" mapstructure:"login_expires_in_mins"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.LoginPath == "" {
		c.LoginPath = "/auth/login"
	}
	if c.MePath == "" {
		c.MePath = "/auth/me"
	}
	if c.LoginExpiresInMins <= 0 {
		c.LoginExpiresInMins = 30
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	return validation.New().
		Required("login_path", c.LoginPath).
		Required("me_path", c.MePath).
		Min("login_expires_in_mins", c.LoginExpiresInMins, 1).
		Err()
}
