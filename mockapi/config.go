package mockapi

import (
	"fmt"
	"time"

	"github.com/kbukum/authclient/validation"
)

// UserConfig is an account the fake API accepts.
type UserConfig struct {
	ID        int    `yaml:"id" mapstructure:"id"`
	Username  string `yaml:"username" mapstructure:"username" validate:"required"`
	Password  string `yaml:"password" mapstructure:"password" validate:"required"`
	Email     string `yaml:"email" mapstructure:"email"`
	FirstName string `yaml:"first_name" mapstructure:"first_name"`
	LastName  string `yaml:"last_name" mapstructure:"last_name"`
	Gender    string `yaml:"gender" mapstructure:"gender"`
	Image     string `yaml:"image" mapstructure:"image"`
}

// Config holds the fake API server configuration.
type Config struct {
	Host string `yaml:"host" mapstructure:"host"`
	Port int    `yaml:"port" mapstructure:"port"`

	// Secret signs access tokens with HS256.
	Secret string `yaml:"secret" mapstructure:"secret"`

	// AccessTTL applies when a request does not ask for expiresInMins.
	AccessTTL time.Duration `yaml:"access_ttl" mapstructure:"access_ttl"`

	// RefreshTTL is the lifetime of refresh tokens.
	RefreshTTL time.Duration `yaml:"refresh_ttl" mapstructure:"refresh_ttl"`

	// BcryptCost is the cost used to hash the configured passwords.
	BcryptCost int `yaml:"bcrypt_cost" mapstructure:"bcrypt_cost"`

	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`

	Users []UserConfig `yaml:"users" mapstructure:"users" validate:"dive"`
}

// ApplyDefaults sets sensible default values for unset fields.
func (c *Config) ApplyDefaults() {
	if c.Host == "" {
		c.Host = "127.0.0.1"
	}
	if c.Port == 0 {
		c.Port = 8081
	}
	if c.Secret == "" {
		c.Secret = "mockapi-secret"
	}
	if c.AccessTTL <= 0 {
		c.AccessTTL = 30 * time.Minute
	}
	if c.RefreshTTL <= 0 {
		c.RefreshTTL = 24 * time.Hour
	}
	if c.BcryptCost == 0 {
		c.BcryptCost = 10
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = 15 * time.Second
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = 15 * time.Second
	}
	if len(c.Users) == 0 {
		c.Users = []UserConfig{{
			ID:        1,
			Username:  "emilys",
			Password:  "emilyspass",
			Email:     "emily.johnson@x.dummyjson.com",
			FirstName: "Emily",
			LastName:  "Johnson",
			Gender:    "female",
			Image:     "https://dummyjson.com/icon/emilys/128",
		}}
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	v := validation.New().Merge("users", validation.Struct(c))
	if c.Port < 0 || c.Port > 65535 {
		v.AddError("port", fmt.Sprintf("must be between 0 and 65535 (got: %d)", c.Port))
	}
	return v.
		Required("secret", c.Secret).
		Positive("access_ttl", c.AccessTTL).
		Positive("refresh_ttl", c.RefreshTTL).
		Min("bcrypt_cost", c.BcryptCost, 4).
		Err()
}

// Addr returns host:port.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
