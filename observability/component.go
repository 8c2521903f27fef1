package observability

import (
	"context"
	"fmt"

	"github.com/kbukum/authclient/component"
	"github.com/kbukum/authclient/logger"
)

// Component runs Setup on Start and flushes the exporters on Stop.
type Component struct {
	cfg Config
	log *logger.Logger
	obs *Observability
}

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// NewComponent creates the telemetry component.
func NewComponent(cfg Config, log *logger.Logger) *Component {
	cfg.ApplyDefaults()
	return &Component{cfg: cfg, log: log}
}

// Name returns the component name.
func (c *Component) Name() string { return "observability" }

// Start initialises the providers and the client instruments.
func (c *Component) Start(ctx context.Context) error {
	obs, err := Setup(ctx, c.cfg, c.log)
	if err != nil {
		return err
	}
	c.obs = obs
	return nil
}

// Stop flushes and shuts the providers down.
func (c *Component) Stop(ctx context.Context) error {
	if c.obs == nil {
		return nil
	}
	return c.obs.Shutdown(ctx)
}

// Health is healthy once Start succeeded.
func (c *Component) Health(context.Context) component.Health {
	if c.obs == nil {
		return component.Health{Name: c.Name(), Status: component.StatusUnhealthy, Message: "not started"}
	}
	return component.Health{Name: c.Name(), Status: component.StatusHealthy}
}

// Describe returns the component summary.
func (c *Component) Describe() component.Description {
	details := "export disabled"
	if c.cfg.Enabled {
		details = fmt.Sprintf("otlp endpoint=%s sample_rate=%.2f", c.cfg.Endpoint, c.cfg.SampleRate)
	}
	return component.Description{Name: "Telemetry", Type: "observability", Details: details}
}

// Metrics returns the client instruments, or nil before Start.
func (c *Component) Metrics() *Metrics {
	if c.obs == nil {
		return nil
	}
	return c.obs.Metrics
}
