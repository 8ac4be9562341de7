package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	t.Setenv("VERINEWS_API_BASE_URL", "")
	os.Unsetenv("VERINEWS_API_BASE_URL")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.API.BaseURL != "http://localhost:8000/api" {
		t.Fatalf("expected default base url, got=%s", cfg.API.BaseURL)
	}
	if cfg.Session.Driver != SessionDriverFile {
		t.Fatalf("expected file driver, got=%s", cfg.Session.Driver)
	}
	if cfg.UI.Theme != ThemeDark {
		t.Fatalf("expected dark theme, got=%s", cfg.UI.Theme)
	}
	if cfg.APITimeout() != 0 {
		t.Fatalf("expected no timeout, got=%s", cfg.APITimeout())
	}
}

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[api]
base_url = "http://news.example.com/api"
timeout_seconds = 15

[session]
driver = "redis"
profile = "work"

[ui]
theme = "light"
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("VERINEWS_SESSION_PROFILE", "ci")
	t.Setenv("VERINEWS_API_BASE_URL", "http://override.example.com/api/")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.API.BaseURL != "http://override.example.com/api" {
		t.Fatalf("expected env base url without trailing slash, got=%s", cfg.API.BaseURL)
	}
	if cfg.API.TimeoutSeconds != 15 {
		t.Fatalf("expected timeout from file, got=%d", cfg.API.TimeoutSeconds)
	}
	if cfg.Session.Driver != SessionDriverRedis {
		t.Fatalf("expected redis driver, got=%s", cfg.Session.Driver)
	}
	if cfg.Session.Profile != "ci" {
		t.Fatalf("expected env profile, got=%s", cfg.Session.Profile)
	}
	if cfg.UI.Theme != ThemeLight {
		t.Fatalf("expected light theme, got=%s", cfg.UI.Theme)
	}
}

func TestLoadRejectsBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[api\nbase_url="), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestEnvIntFallsBackOnGarbage(t *testing.T) {
	t.Setenv("VERINEWS_API_TIMEOUT_SECONDS", "soon")
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.API.TimeoutSeconds != 0 {
		t.Fatalf("expected fallback timeout, got=%d", cfg.API.TimeoutSeconds)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"empty base url", func(c *Config) { c.API.BaseURL = " " }, ErrEmptyBaseURL},
		{"negative timeout", func(c *Config) { c.API.TimeoutSeconds = -1 }, ErrNegativeTimeout},
		{"unknown driver", func(c *Config) { c.Session.Driver = "etcd" }, ErrUnknownDriver},
		{"file without path", func(c *Config) { c.Session.Path = "" }, ErrEmptySessionPath},
		{"empty profile", func(c *Config) { c.Session.Profile = "" }, ErrEmptySessionProfile},
		{"bad theme", func(c *Config) { c.UI.Theme = "sepia" }, ErrUnknownTheme},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := defaultConfig()
			tc.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got=%v", tc.want, err)
			}
		})
	}

	if err := defaultConfig().Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got=%v", err)
	}
}

func TestMySQLDSN(t *testing.T) {
	cfg := defaultConfig()
	cfg.MySQL.User = "news"
	cfg.MySQL.Password = "secret"
	got := cfg.MySQLDSN()
	want := "news:secret@tcp(127.0.0.1:3306)/verinews?parseTime=true&loc=Local&charset=utf8mb4"
	if got != want {
		t.Fatalf("expected %s, got=%s", want, got)
	}
}
