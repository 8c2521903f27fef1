package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/authclient/logger"
)

type testHTTP struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type testSession struct {
	CredentialID string `mapstructure:"credential_id"`
	RefreshPath  string `mapstructure:"refresh_path"`
}

type testConfig struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`
	HTTP          testHTTP    `mapstructure:"http"`
	Session       testSession `mapstructure:"session"`
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestServiceConfigApplyDefaults(t *testing.T) {
	cfg := ServiceConfig{Name: "svc", Debug: true}
	cfg.ApplyDefaults()
	if cfg.Environment != "development" {
		t.Errorf("expected 'development', got %q", cfg.Environment)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected debug logging when Debug is set, got %q", cfg.Logging.Level)
	}

	prod := ServiceConfig{Name: "svc", Environment: "production"}
	prod.ApplyDefaults()
	if prod.Logging.Level != "info" {
		t.Errorf("expected info logging, got %q", prod.Logging.Level)
	}
}

func TestServiceConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ServiceConfig
		wantErr string
	}{
		{"valid", ServiceConfig{Name: "svc", Environment: "staging"}, ""},
		{"missing name", ServiceConfig{Environment: "production"}, "name: is required"},
		{"invalid environment", ServiceConfig{Name: "svc", Environment: "qa"}, "environment: must be one of"},
		{"invalid logging", ServiceConfig{Name: "svc", Logging: logger.Config{Level: "loud"}}, "logging."},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := tc.cfg
			cfg.ApplyDefaults()
			err := cfg.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("expected error containing %q, got %q", tc.wantErr, err.Error())
			}
		})
	}
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yml", `
name: authclient
environment: staging
http:
  base_url: https://dummyjson.com
  timeout: 5s
session:
  credential_id: tokenId
`)

	var cfg testConfig
	if err := Load("authclient", &cfg, WithConfigFile(path), WithEnvPrefix("AUTHCLIENT_TEST")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Name != "authclient" || cfg.Environment != "staging" {
		t.Errorf("unexpected service config: %+v", cfg.ServiceConfig)
	}
	if cfg.HTTP.BaseURL != "https://dummyjson.com" {
		t.Errorf("expected base url, got %q", cfg.HTTP.BaseURL)
	}
	if cfg.HTTP.Timeout != 5*time.Second {
		t.Errorf("expected 5s timeout, got %v", cfg.HTTP.Timeout)
	}
	if cfg.Session.CredentialID != "tokenId" {
		t.Errorf("expected tokenId, got %q", cfg.Session.CredentialID)
	}
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "config.yml", `
http:
  base_url: https://from-file
session:
  refresh_path: /file/refresh
  credential_id: fileId
`)
	envPath := writeFile(t, dir, ".env", "AUTHCLIENT_TEST_SESSION_REFRESH_PATH=/dotenv/refresh\nAUTHCLIENT_TEST_SESSION_CREDENTIAL_ID=dotenvId\n")
	t.Setenv("AUTHCLIENT_TEST_SESSION_CREDENTIAL_ID", "envId")

	var cfg testConfig
	err := Load("authclient", &cfg,
		WithConfigFile(cfgPath),
		WithEnvFile(envPath),
		WithEnvPrefix("AUTHCLIENT_TEST_"),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTP.BaseURL != "https://from-file" {
		t.Errorf("file value lost: %q", cfg.HTTP.BaseURL)
	}
	if cfg.Session.RefreshPath != "/dotenv/refresh" {
		t.Errorf(".env should override file, got %q", cfg.Session.RefreshPath)
	}
	if cfg.Session.CredentialID != "envId" {
		t.Errorf("process env should override .env, got %q", cfg.Session.CredentialID)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	var cfg testConfig
	err := Load("authclient", &cfg, WithConfigFile("/nonexistent/path.yml"))
	if err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestLoadNothingFound(t *testing.T) {
	var cfg testConfig
	err := Load("authclient", &cfg, WithFileSystem(&mockFS{}), WithEnvPrefix("AUTHCLIENT_NOTHING"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Name != "" {
		t.Errorf("expected empty config, got %+v", cfg)
	}
}

type mockFS struct {
	files map[string]bool
}

func (m *mockFS) Exists(path string) bool                   { return m.files[path] }
func (m *mockFS) ReadEnv(string) (map[string]string, error) { return map[string]string{}, nil }
func (m *mockFS) UserConfigDir() (string, error)            { return "/home/u/.config", nil }

func TestResolveSearchOrder(t *testing.T) {
	fs := &mockFS{files: map[string]bool{
		filepath.Join("cmd", "authclient", "config.yml"):            true,
		filepath.Join("/home/u/.config", "authclient", "config.yml"): true,
		filepath.Join("/home/u/.config", "authclient", ".env"):       true,
	}}
	files := Resolve("authclient", LoaderConfig{FileSystem: fs})
	if files.ConfigFile != filepath.Join("cmd", "authclient", "config.yml") {
		t.Errorf("expected cmd config to win, got %q", files.ConfigFile)
	}
	if files.EnvFile != filepath.Join("/home/u/.config", "authclient", ".env") {
		t.Errorf("expected user config dir .env, got %q", files.EnvFile)
	}

	explicit := Resolve("authclient", LoaderConfig{FileSystem: fs, ConfigFile: "x.yml"})
	if explicit.ConfigFile != "x.yml" {
		t.Errorf("explicit path should win, got %q", explicit.ConfigFile)
	}
}

func TestEnvKeyVariants(t *testing.T) {
	got := envKeyVariants("SESSION_CREDENTIAL_ID")
	for _, want := range []string{"session_credential_id", "session.credential.id", "session.credential_id", "session_credential.id"} {
		if !slices.Contains(got, want) {
			t.Errorf("missing variant %q in %v", want, got)
		}
	}
	if single := envKeyVariants("NAME"); len(single) != 1 || single[0] != "name" {
		t.Errorf("unexpected single-part variants: %v", single)
	}
}

func TestOptions(t *testing.T) {
	var lc LoaderConfig
	WithConfigFile("/path/to/config.yml")(&lc)
	WithEnvFile("/path/to/.env")(&lc)
	WithEnvPrefix("authclient_")(&lc)
	if lc.ConfigFile != "/path/to/config.yml" || lc.EnvFile != "/path/to/.env" {
		t.Errorf("unexpected paths: %+v", lc)
	}
	if lc.EnvPrefix != "AUTHCLIENT" {
		t.Errorf("expected normalised prefix, got %q", lc.EnvPrefix)
	}
}
