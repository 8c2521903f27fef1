package credstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/kbukum/authclient/component"
	"github.com/kbukum/authclient/logger"
	"github.com/kbukum/authclient/session"
)

var errNotStarted = errors.New("credential store not started")

// Component wraps a Store with lifecycle management. It is itself a
// CredentialStore, so the session handler can be wired before Start runs.
type Component struct {
	store Store
	cfg   Config
	log   *logger.Logger
}

var (
	_ component.Component     = (*Component)(nil)
	_ component.Describable   = (*Component)(nil)
	_ session.CredentialStore = (*Component)(nil)
)

// NewComponent creates a credential store component.
func NewComponent(cfg Config, log *logger.Logger) *Component {
	cfg.ApplyDefaults()
	return &Component{cfg: cfg, log: logger.OrNop(log)}
}

// Name returns the component name.
func (c *Component) Name() string { return "credstore" }

// Start opens the store and verifies it is reachable.
func (c *Component) Start(ctx context.Context) error {
	store, err := New(c.cfg, c.log)
	if err != nil {
		return fmt.Errorf("credstore start: %w", err)
	}
	if err := store.Ping(ctx); err != nil {
		_ = store.Close()
		return fmt.Errorf("credstore start ping: %w", err)
	}
	c.store = store
	return nil
}

// Stop closes the store.
func (c *Component) Stop(_ context.Context) error {
	if c.store == nil {
		return nil
	}
	return c.store.Close()
}

// Health pings the store.
func (c *Component) Health(ctx context.Context) component.Health {
	if c.store == nil {
		return component.Health{Name: c.Name(), Status: component.StatusUnhealthy, Message: errNotStarted.Error()}
	}
	if err := c.store.Ping(ctx); err != nil {
		return component.Health{Name: c.Name(), Status: component.StatusUnhealthy, Message: fmt.Sprintf("ping failed: %v", err)}
	}
	return component.Health{Name: c.Name(), Status: component.StatusHealthy}
}

// Describe returns the component summary.
func (c *Component) Describe() component.Description {
	details := "driver=" + c.cfg.Driver
	switch c.cfg.Driver {
	case DriverRedis:
		details += " addr=" + c.cfg.Redis.Addr
	case DriverBadger:
		details += " dir=" + c.cfg.Badger.Dir
	}
	if c.cfg.Encryption.Enabled {
		details += " encrypted=" + c.cfg.Encryption.Algorithm
	}
	return component.Description{Name: c.Name(), Type: "credential-store", Details: details}
}

// Store returns the opened store, or nil before Start.
func (c *Component) Store() Store { return c.store }

// Save delegates to the store.
func (c *Component) Save(ctx context.Context, id string, record []byte) error {
	if c.store == nil {
		return errNotStarted
	}
	return c.store.Save(ctx, id, record)
}

// Retrieve delegates to the store.
func (c *Component) Retrieve(ctx context.Context, id string) ([]byte, error) {
	if c.store == nil {
		return nil, errNotStarted
	}
	return c.store.Retrieve(ctx, id)
}

// Clear delegates to the store.
func (c *Component) Clear(ctx context.Context, id string) error {
	if c.store == nil {
		return errNotStarted
	}
	return c.store.Clear(ctx, id)
}
