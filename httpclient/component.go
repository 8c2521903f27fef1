package httpclient

import (
	"context"
	"errors"

	"github.com/kbukum/authclient/component"
)

// Component wraps an Adapter with lifecycle management. It is itself a
// Transport, so the executor can be wired before Start runs.
type Component struct {
	adapter *Adapter
	config  Config
	opts    []Option
}

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
	_ Transport             = (*Component)(nil)
)

var errNotStarted = errors.New("transport not started")

// NewComponent creates a transport component. The adapter is created in Start.
func NewComponent(cfg Config, opts ...Option) *Component {
	cfg.ApplyDefaults()
	return &Component{config: cfg, opts: opts}
}

// Name returns the component name.
func (c *Component) Name() string {
	return c.config.Name
}

// Start creates the adapter.
func (c *Component) Start(_ context.Context) error {
	a, err := New(c.config, c.opts...)
	if err != nil {
		return err
	}
	c.adapter = a
	return nil
}

// Stop releases idle connections.
func (c *Component) Stop(ctx context.Context) error {
	if c.adapter != nil {
		return c.adapter.Close(ctx)
	}
	return nil
}

// Health reports unhealthy before Start and while the circuit is open.
func (c *Component) Health(ctx context.Context) component.Health {
	h := component.Health{Name: c.Name(), Status: component.StatusHealthy}
	switch {
	case c.adapter == nil:
		h.Status = component.StatusUnhealthy
		h.Message = errNotStarted.Error()
	case !c.adapter.IsAvailable(ctx):
		h.Status = component.StatusUnhealthy
		h.Message = "circuit open"
	}
	return h
}

// Describe returns the component summary.
func (c *Component) Describe() component.Description {
	return component.Description{
		Name:    c.Name(),
		Type:    "transport",
		Details: c.config.BaseURL,
	}
}

// Send delegates to the adapter. Before Start it fails with KindRequestError.
func (c *Component) Send(ctx context.Context, req *Request) (*Response, error) {
	if c.adapter == nil {
		return nil, NewRequestError(errNotStarted)
	}
	return c.adapter.Send(ctx, req)
}

// Builder returns a request builder for the configured base URL.
func (c *Component) Builder() *URLBuilder {
	return NewURLBuilder(c.config.BaseURL)
}

// Adapter returns the underlying adapter. Nil before Start.
func (c *Component) Adapter() *Adapter {
	return c.adapter
}
