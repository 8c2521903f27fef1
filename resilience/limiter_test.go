package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestLimiter_AllowsBurstThenRejects(t *testing.T) {
	l := NewLimiter(LimiterConfig{Rate: 1, Burst: 3})
	for i := 0; i < 3; i++ {
		if !l.Allow() {
			t.Fatalf("request %d should be allowed", i)
		}
	}
	if l.Allow() {
		t.Error("request beyond burst should be rejected")
	}
}

func TestLimiter_WaitRespectsContext(t *testing.T) {
	l := NewLimiter(LimiterConfig{Rate: 0.001, Burst: 1})
	if !l.Allow() {
		t.Fatal("first request should be allowed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := l.Wait(ctx)
	if err == nil {
		t.Fatal("expected wait to fail")
	}
	if errors.Is(err, context.Canceled) {
		t.Errorf("unexpected cancellation error: %v", err)
	}
}

func TestLimiter_WaitSucceeds(t *testing.T) {
	l := NewLimiter(LimiterConfig{Rate: 1000, Burst: 1})
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if err := l.Wait(ctx); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
}

func TestLimiterConfigDefaults(t *testing.T) {
	cfg := LimiterConfig{}
	cfg.ApplyDefaults()
	if cfg.Rate != 10 || cfg.Burst != 10 || cfg.Name != "http" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := (&LimiterConfig{Rate: -1, Burst: 0}).Validate(); err == nil {
		t.Fatal("expected error")
	}

	l := NewLimiter(LimiterConfig{Rate: 5, Burst: 2})
	if got := l.Tokens(); got < 1.9 || got > 2.0 {
		t.Errorf("expected a full bucket of 2 tokens, got %f", got)
	}
}
