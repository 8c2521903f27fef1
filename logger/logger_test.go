package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func newBuffered(level string) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: level, Format: FormatJSON}, "test-svc", &buf)
	return l, &buf
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	line := strings.TrimSpace(buf.String())
	if line == "" {
		t.Fatal("expected a log line, got nothing")
	}
	var m map[string]interface{}
	if err := json.Unmarshal([]byte(line), &m); err != nil {
		t.Fatalf("log line is not JSON: %v (%s)", err, line)
	}
	return m
}

func TestNewDefault(t *testing.T) {
	l := NewDefault("test-svc")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
	if l.Service() != "test-svc" {
		t.Errorf("expected service 'test-svc', got %q", l.Service())
	}
}

func TestNewInvalidLevelFallsBackToInfo(t *testing.T) {
	l, buf := newBuffered("not-a-level")
	l.Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("debug should be disabled at info level, got %s", buf.String())
	}
	l.Info("shown")
	if buf.Len() == 0 {
		t.Error("info should be written")
	}
}

func TestWithComponentAndFields(t *testing.T) {
	l, buf := newBuffered("debug")
	l.WithComponent("executor").Info("sent", Fields(FieldMethod, "GET", FieldStatus, 200))

	m := decodeLine(t, buf)
	if m[FieldComponent] != "executor" {
		t.Errorf("expected component=executor, got %v", m[FieldComponent])
	}
	if m[FieldMethod] != "GET" {
		t.Errorf("expected method=GET, got %v", m[FieldMethod])
	}
	if m[FieldStatus] != float64(200) {
		t.Errorf("expected status=200, got %v", m[FieldStatus])
	}
	if m[FieldService] != "test-svc" {
		t.Errorf("expected service=test-svc, got %v", m[FieldService])
	}
}

func TestWithError(t *testing.T) {
	l, buf := newBuffered("debug")
	l.WithError(errors.New("boom")).Error("failed")

	m := decodeLine(t, buf)
	if m["error"] != "boom" {
		t.Errorf("expected error=boom, got %v", m["error"])
	}
}

func TestNopDiscards(t *testing.T) {
	l := Nop()
	l.Error("nothing happens")
	if OrNop(nil) == nil {
		t.Fatal("OrNop(nil) must return a logger")
	}
}

func TestFields(t *testing.T) {
	m := Fields("a", 1, "b", "two", 3, "ignored", "dangling")
	if len(m) != 2 {
		t.Fatalf("expected 2 fields, got %d: %v", len(m), m)
	}
	if m["a"] != 1 || m["b"] != "two" {
		t.Errorf("unexpected fields: %v", m)
	}
}

func TestDurationAndErrorFields(t *testing.T) {
	d := DurationFields("refresh", 1500*time.Millisecond)
	if d[FieldDuration] != int64(1500) {
		t.Errorf("expected 1500ms, got %v", d[FieldDuration])
	}
	e := ErrorFields("refresh", errors.New("x"))
	if e[FieldError] != "x" || e[FieldOperation] != "refresh" {
		t.Errorf("unexpected error fields: %v", e)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"defaults", Config{}, false},
		{"bad level", Config{Level: "loud"}, true},
		{"bad format", Config{Format: "xml"}, true},
		{"bad output", Config{Output: "file"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := tc.cfg
			cfg.ApplyDefaults()
			err := cfg.Validate()
			if tc.wantErr && err == nil {
				t.Fatal("expected error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
