package main

import (
	"github.com/kbukum/authclient/config"
	"github.com/kbukum/authclient/credstore"
	"github.com/kbukum/authclient/httpclient"
	"github.com/kbukum/authclient/observability"
	"github.com/kbukum/authclient/service"
	"github.com/kbukum/authclient/session"
	"github.com/kbukum/authclient/validation"
	"github.com/kbukum/authclient/version"
)

const defaultBaseURL = "https://dummyjson.com"

// AppConfig is the CLI configuration, loaded from config.yml, .env and
// AUTHCLIENT_* environment variables.
type AppConfig struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	HTTP          httpclient.Config    `yaml:"http" mapstructure:"http"`
	Session       session.Config       `yaml:"session" mapstructure:"session"`
	Credstore     credstore.Config     `yaml:"credstore" mapstructure:"credstore"`
	Service       service.Config       `yaml:"service" mapstructure:"service"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
}

// ApplyDefaults fills in every section. Sessions persist in Badger unless
// another driver is configured.
func (c *AppConfig) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "authclient"
	}
	if c.Version == "" {
		c.Version = version.Version
	}
	if !c.Debug && c.Logging.Level == "" {
		c.Logging.Level = "warn"
	}
	c.ServiceConfig.ApplyDefaults()

	if c.HTTP.BaseURL == "" {
		c.HTTP.BaseURL = defaultBaseURL
	}
	c.HTTP.ApplyDefaults()
	c.Session.ApplyDefaults()
	if c.Credstore.Driver == "" {
		c.Credstore.Driver = credstore.DriverBadger
	}
	c.Credstore.ApplyDefaults()
	c.Service.ApplyDefaults()

	if c.Observability.ServiceName == "" {
		c.Observability.ServiceName = c.Name
	}
	if c.Observability.ServiceVersion == "" {
		c.Observability.ServiceVersion = c.Version
	}
	if c.Observability.Environment == "" {
		c.Observability.Environment = c.Environment
	}
	c.Observability.ApplyDefaults()
}

// Validate checks every section.
func (c *AppConfig) Validate() error {
	return validation.New().
		Merge("", c.ServiceConfig.Validate()).
		Merge("http", c.HTTP.Validate()).
		Merge("session", c.Session.Validate()).
		Merge("credstore", c.Credstore.Validate()).
		Merge("service", c.Service.Validate()).
		Merge("observability", c.Observability.Validate()).
		Err()
}
