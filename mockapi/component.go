package mockapi

import (
	"context"
	"fmt"

	"github.com/kbukum/authclient/component"
	"github.com/kbukum/authclient/logger"
)

// Component wraps Server for the component registry.
type Component struct {
	cfg    Config
	log    *logger.Logger
	server *Server
}

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// NewComponent creates the mock API component. The server is built in Start.
func NewComponent(cfg Config, log *logger.Logger) *Component {
	cfg.ApplyDefaults()
	return &Component{cfg: cfg, log: log}
}

// Name returns the component name.
func (c *Component) Name() string { return "mockapi" }

// Start builds and starts the server.
func (c *Component) Start(ctx context.Context) error {
	s, err := New(c.cfg, c.log)
	if err != nil {
		return err
	}
	if err := s.Start(ctx); err != nil {
		return err
	}
	c.server = s
	return nil
}

// Stop shuts the server down.
func (c *Component) Stop(ctx context.Context) error {
	if c.server == nil {
		return nil
	}
	return c.server.Stop(ctx)
}

// Health reports whether the server is running.
func (c *Component) Health(_ context.Context) component.Health {
	if c.server == nil {
		return component.Health{Name: c.Name(), Status: component.StatusUnhealthy, Message: "server not started"}
	}
	return component.Health{Name: c.Name(), Status: component.StatusHealthy}
}

// Describe returns the component summary.
func (c *Component) Describe() component.Description {
	return component.Description{
		Name:    "Mock API",
		Type:    "server",
		Details: fmt.Sprintf("%s users=%d", c.cfg.Addr(), len(c.cfg.Users)),
	}
}

// Server returns the running server, or nil before Start.
func (c *Component) Server() *Server { return c.server }
