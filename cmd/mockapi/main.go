// Command mockapi serves a fake authentication API with the dummyjson
// /auth endpoints for local development against the authclient CLI.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/kbukum/authclient/bootstrap"
	"github.com/kbukum/authclient/config"
	"github.com/kbukum/authclient/logger"
	"github.com/kbukum/authclient/mockapi"
	"github.com/kbukum/authclient/validation"
	"github.com/kbukum/authclient/version"
)

// AppConfig is the server configuration, loaded from config.yml, .env and
// MOCKAPI_* environment variables.
type AppConfig struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Server mockapi.Config `yaml:"server" mapstructure:"server"`
}

// ApplyDefaults fills in every section.
func (c *AppConfig) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "mockapi"
	}
	if c.Version == "" {
		c.Version = version.Version
	}
	c.ServiceConfig.ApplyDefaults()
	c.Server.ApplyDefaults()
}

// Validate checks every section.
func (c *AppConfig) Validate() error {
	return validation.New().
		Merge("", c.ServiceConfig.Validate()).
		Merge("server", c.Server.Validate()).
		Err()
}

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg := &AppConfig{}
	if err := config.Load("mockapi", cfg, config.WithEnvPrefix("MOCKAPI_")); err != nil {
		return err
	}

	app, err := bootstrap.NewApp(cfg, bootstrap.WithSummary(os.Stdout))
	if err != nil {
		return err
	}
	server := mockapi.NewComponent(cfg.Server, app.Logger)
	if err := app.RegisterComponent(server); err != nil {
		return err
	}
	app.OnReady(func(context.Context) error {
		app.Logger.Info("try it", logger.Fields(
			"login", fmt.Sprintf("authclient --base-url %s login -u %s -p <password>", server.Server().URL(), cfg.Server.Users[0].Username),
		))
		return nil
	})
	return app.Run(ctx)
}
