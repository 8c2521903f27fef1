package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/kbukum/authclient/bootstrap"
	"github.com/kbukum/authclient/component"
	"github.com/kbukum/authclient/config"
	"github.com/kbukum/authclient/credstore"
	"github.com/kbukum/authclient/executor"
	"github.com/kbukum/authclient/httpclient"
	"github.com/kbukum/authclient/logger"
	"github.com/kbukum/authclient/observability"
	"github.com/kbukum/authclient/service"
	"github.com/kbukum/authclient/session"
)

// client is the wired request pipeline a command runs against.
type client struct {
	cfg      *AppConfig
	service  *service.Service
	sessions *session.Handler
}

func loadConfig(c *cli.Context) (*AppConfig, error) {
	opts := []config.LoaderOption{config.WithEnvPrefix("AUTHCLIENT_")}
	if path := c.String("config"); path != "" {
		opts = append(opts, config.WithConfigFile(path))
	}
	if path := c.String("env-file"); path != "" {
		opts = append(opts, config.WithEnvFile(path))
	}

	cfg := &AppConfig{}
	if err := config.Load("authclient", cfg, opts...); err != nil {
		return nil, err
	}
	if url := c.String("base-url"); url != "" {
		cfg.HTTP.BaseURL = url
	}
	if c.Bool("verbose") {
		cfg.Debug = true
		cfg.Logging.Level = "debug"
		cfg.HTTP.LogCurl = true
	}
	return cfg, nil
}

// withClient starts the components, wires the pipeline and runs fn.
// Everything is stopped again when fn returns.
func withClient(c *cli.Context, fn func(ctx context.Context, cl *client) error) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	var opts []bootstrap.Option
	if c.Bool("verbose") {
		opts = append(opts, bootstrap.WithSummary(os.Stderr))
	}
	app, err := bootstrap.NewApp(cfg, opts...)
	if err != nil {
		return err
	}
	log := app.Logger

	telemetry := observability.NewComponent(cfg.Observability, log)
	store := credstore.NewComponent(cfg.Credstore, log)
	transport := httpclient.NewComponent(cfg.HTTP, httpclient.WithLogger(log))
	for _, comp := range []component.Component{telemetry, store, transport} {
		if err := app.RegisterComponent(comp); err != nil {
			return err
		}
	}

	cl := &client{cfg: cfg}
	app.OnConfigure(func(_ context.Context, a *bootstrap.App[*AppConfig]) error {
		metrics := telemetry.Metrics()
		builder := transport.Builder()
		cl.sessions = session.NewHandler(a.Cfg.Session, builder, transport, store,
			session.WithLogger(log),
			session.WithMetrics(metrics),
		)
		exec := executor.New(builder, transport, cl.sessions,
			executor.WithLogger(log),
			executor.WithMetrics(metrics),
		)
		cl.service = service.New(a.Cfg.Service, exec, cl.sessions, log)
		log.Debug("client configured", logger.Fields("base_url", a.Cfg.HTTP.BaseURL))
		return nil
	})

	return app.RunTask(c.Context, func(ctx context.Context) error {
		return fn(ctx, cl)
	})
}
