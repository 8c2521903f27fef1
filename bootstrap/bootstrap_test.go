package bootstrap

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/kbukum/authclient/component"
	"github.com/kbukum/authclient/config"
	"github.com/kbukum/authclient/logger"
)

type testConfig struct {
	config.ServiceConfig
}

func (c *testConfig) ApplyDefaults() { c.ServiceConfig.ApplyDefaults() }
func (c *testConfig) Validate() error { return c.ServiceConfig.Validate() }

type mockComponent struct {
	name     string
	startErr error
	health   component.Health
	events   *[]string
}

func (m *mockComponent) Name() string { return m.name }
func (m *mockComponent) Start(context.Context) error {
	*m.events = append(*m.events, "start:"+m.name)
	return m.startErr
}
func (m *mockComponent) Stop(context.Context) error {
	*m.events = append(*m.events, "stop:"+m.name)
	return nil
}
func (m *mockComponent) Health(context.Context) component.Health { return m.health }
func (m *mockComponent) Describe() component.Description {
	return component.Description{Type: "store", Details: "memory"}
}

func newTestApp(t *testing.T, opts ...Option) *App[*testConfig] {
	t.Helper()
	cfg := &testConfig{ServiceConfig: config.ServiceConfig{Name: "authclient", Version: "1.2.3"}}
	app, err := NewApp(cfg, append([]Option{WithLogger(logger.Nop())}, opts...)...)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return app
}

func TestNewApp(t *testing.T) {
	app := newTestApp(t)
	if app.Name != "authclient" || app.Version != "1.2.3" {
		t.Errorf("unexpected identity: %s %s", app.Name, app.Version)
	}
	if app.Cfg.Environment != "development" {
		t.Errorf("defaults were not applied: %+v", app.Cfg.ServiceConfig)
	}
	if app.Components == nil || app.Logger == nil {
		t.Fatal("expected registry and logger")
	}

	if _, err := NewApp(&testConfig{}); err == nil {
		t.Fatal("expected validation error for a config without name")
	}
}

func TestRunTask_Lifecycle(t *testing.T) {
	var events []string
	var summary bytes.Buffer
	app := newTestApp(t, WithSummary(&summary))
	healthy := component.Health{Name: "store", Status: component.StatusHealthy}
	_ = app.RegisterComponent(&mockComponent{name: "store", health: healthy, events: &events})

	app.OnConfigure(func(context.Context, *App[*testConfig]) error {
		events = append(events, "configure")
		return nil
	})
	app.OnReady(func(context.Context) error {
		events = append(events, "ready")
		return nil
	})
	app.OnStop(func(context.Context) error {
		events = append(events, "on-stop")
		return nil
	})

	err := app.RunTask(context.Background(), func(context.Context) error {
		events = append(events, "task")
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "start:store,configure,ready,task,on-stop,stop:store"
	if got := strings.Join(events, ","); got != want {
		t.Errorf("events = %s, want %s", got, want)
	}
	if !strings.Contains(summary.String(), "[healthy] store (store): memory") {
		t.Errorf("unexpected summary:\n%s", summary.String())
	}
}

func TestRunTask_Errors(t *testing.T) {
	t.Run("task error is returned after shutdown", func(t *testing.T) {
		var events []string
		app := newTestApp(t)
		_ = app.RegisterComponent(&mockComponent{name: "store", events: &events})
		boom := errors.New("boom")

		err := app.RunTask(context.Background(), func(context.Context) error { return boom })
		if !errors.Is(err, boom) {
			t.Fatalf("error = %v, want %v", err, boom)
		}
		if got := strings.Join(events, ","); got != "start:store,stop:store" {
			t.Errorf("events = %s", got)
		}
	})

	t.Run("start failure skips the task", func(t *testing.T) {
		var events []string
		app := newTestApp(t)
		_ = app.RegisterComponent(&mockComponent{name: "store", events: &events, startErr: errors.New("locked")})

		ran := false
		err := app.RunTask(context.Background(), func(context.Context) error {
			ran = true
			return nil
		})
		if err == nil || !strings.Contains(err.Error(), "initialization failed") {
			t.Fatalf("expected initialization error, got %v", err)
		}
		if ran {
			t.Error("task must not run when a component fails to start")
		}
	})

	t.Run("configure failure stops components", func(t *testing.T) {
		var events []string
		app := newTestApp(t)
		_ = app.RegisterComponent(&mockComponent{name: "store", events: &events})
		app.OnConfigure(func(context.Context, *App[*testConfig]) error { return errors.New("bad wiring") })

		err := app.RunTask(context.Background(), func(context.Context) error { return nil })
		if err == nil || !strings.Contains(err.Error(), "configuration failed") {
			t.Fatalf("expected configuration error, got %v", err)
		}
		if got := strings.Join(events, ","); got != "start:store,stop:store" {
			t.Errorf("events = %s", got)
		}
	})
}

func TestRun_StopsWhenContextDone(t *testing.T) {
	var events []string
	app := newTestApp(t)
	_ = app.RegisterComponent(&mockComponent{name: "server", events: &events})

	ctx, cancel := context.WithCancel(context.Background())
	app.OnReady(func(context.Context) error {
		cancel()
		return nil
	})
	if err := app.Run(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := strings.Join(events, ","); got != "start:server,stop:server" {
		t.Errorf("events = %s", got)
	}
}

func TestReadyCheck(t *testing.T) {
	var events []string
	app := newTestApp(t)
	_ = app.RegisterComponent(&mockComponent{
		name:   "transport",
		events: &events,
		health: component.Health{Name: "transport", Status: component.StatusUnhealthy, Message: "circuit open"},
	})
	err := app.ReadyCheck(context.Background())
	if err == nil || !strings.Contains(err.Error(), "transport=unhealthy(circuit open)") {
		t.Fatalf("unexpected ready check result: %v", err)
	}
}
