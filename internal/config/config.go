package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	SessionDriverFile   = "file"
	SessionDriverMemory = "memory"
	SessionDriverRedis  = "redis"
	SessionDriverMySQL  = "mysql"

	ThemeDark  = "dark"
	ThemeLight = "light"
)

var (
	ErrEmptyBaseURL        = errors.New("api.base_url is required")
	ErrUnknownDriver       = errors.New("session.driver is not supported")
	ErrUnknownTheme        = errors.New("ui.theme must be dark or light")
	ErrNegativeTimeout     = errors.New("api.timeout_seconds cannot be negative")
	ErrEmptySessionPath    = errors.New("session.path is required for the file driver")
	ErrEmptySessionProfile = errors.New("session.profile is required")
)

type Config struct {
	App     AppConfig     `toml:"app"`
	API     APIConfig     `toml:"api"`
	Session SessionConfig `toml:"session"`
	Redis   RedisConfig   `toml:"redis"`
	MySQL   MySQLConfig   `toml:"mysql"`
	UI      UIConfig      `toml:"ui"`
}

type AppConfig struct {
	Name    string `toml:"name"`
	Env     string `toml:"env"`
	LogFile string `toml:"log_file"`
}

type APIConfig struct {
	BaseURL string `toml:"base_url"`
	// 0 disables the client timeout; requests then only end with their context.
	TimeoutSeconds int `toml:"timeout_seconds"`
}

type SessionConfig struct {
	Driver  string `toml:"driver"`
	Path    string `toml:"path"`
	Profile string `toml:"profile"`
}

type RedisConfig struct {
	Addr      string `toml:"addr"`
	Password  string `toml:"password"`
	DB        int    `toml:"db"`
	KeyPrefix string `toml:"key_prefix"`
}

type MySQLConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	DB       string `toml:"db"`
	Params   string `toml:"params"`
}

type UIConfig struct {
	Theme string `toml:"theme"`
}

// Load builds the configuration from defaults, the TOML file at path (when it
// exists) and environment overrides. An empty path falls back to
// VERINEWS_CONFIG and then to the per-user config directory.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	if path == "" {
		path = getEnv("VERINEWS_CONFIG", DefaultPath())
	}
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, cfg); err != nil {
				return nil, fmt.Errorf("decode config file failed: %w", err)
			}
		}
	}

	overrideByEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Dir is the per-user directory holding the config file, the session file and
// the TUI log.
func Dir() string {
	base, err := os.UserConfigDir()
	if err != nil || base == "" {
		return ".verinews"
	}
	return filepath.Join(base, "verinews")
}

func DefaultPath() string {
	return filepath.Join(Dir(), "config.toml")
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.API.BaseURL) == "" {
		return ErrEmptyBaseURL
	}
	if c.API.TimeoutSeconds < 0 {
		return ErrNegativeTimeout
	}
	switch c.Session.Driver {
	case SessionDriverFile:
		if strings.TrimSpace(c.Session.Path) == "" {
			return ErrEmptySessionPath
		}
	case SessionDriverMemory, SessionDriverRedis, SessionDriverMySQL:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDriver, c.Session.Driver)
	}
	if strings.TrimSpace(c.Session.Profile) == "" {
		return ErrEmptySessionProfile
	}
	switch c.UI.Theme {
	case ThemeDark, ThemeLight:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownTheme, c.UI.Theme)
	}
	return nil
}

func (c *Config) APITimeout() time.Duration {
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}

func (c *Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
		c.MySQL.User,
		c.MySQL.Password,
		c.MySQL.Host,
		c.MySQL.Port,
		c.MySQL.DB,
		c.MySQL.Params,
	)
}

func defaultConfig() *Config {
	dir := Dir()
	return &Config{
		App: AppConfig{
			Name:    "verinews",
			Env:     "dev",
			LogFile: filepath.Join(dir, "verinews.log"),
		},
		API: APIConfig{
			BaseURL:        "http://localhost:8000/api",
			TimeoutSeconds: 0,
		},
		Session: SessionConfig{
			Driver:  SessionDriverFile,
			Path:    filepath.Join(dir, "session.json"),
			Profile: "default",
		},
		Redis: RedisConfig{
			Addr:      "127.0.0.1:6379",
			Password:  "",
			DB:        0,
			KeyPrefix: "verinews:session",
		},
		MySQL: MySQLConfig{
			Host:     "127.0.0.1",
			Port:     3306,
			User:     "root",
			Password: "",
			DB:       "verinews",
			Params:   "parseTime=true&loc=Local&charset=utf8mb4",
		},
		UI: UIConfig{
			Theme: ThemeDark,
		},
	}
}

func overrideByEnv(cfg *Config) {
	cfg.App.Name = getEnv("VERINEWS_APP_NAME", cfg.App.Name)
	cfg.App.Env = getEnv("VERINEWS_APP_ENV", cfg.App.Env)
	cfg.App.LogFile = getEnv("VERINEWS_LOG_FILE", cfg.App.LogFile)

	cfg.API.BaseURL = strings.TrimRight(getEnv("VERINEWS_API_BASE_URL", cfg.API.BaseURL), "/")
	cfg.API.TimeoutSeconds = getEnvAsInt("VERINEWS_API_TIMEOUT_SECONDS", cfg.API.TimeoutSeconds)

	cfg.Session.Driver = getEnv("VERINEWS_SESSION_DRIVER", cfg.Session.Driver)
	cfg.Session.Path = getEnv("VERINEWS_SESSION_PATH", cfg.Session.Path)
	cfg.Session.Profile = getEnv("VERINEWS_SESSION_PROFILE", cfg.Session.Profile)

	cfg.Redis.Addr = getEnv("VERINEWS_REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = getEnv("VERINEWS_REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = getEnvAsInt("VERINEWS_REDIS_DB", cfg.Redis.DB)
	cfg.Redis.KeyPrefix = getEnv("VERINEWS_REDIS_KEY_PREFIX", cfg.Redis.KeyPrefix)

	cfg.MySQL.Host = getEnv("VERINEWS_MYSQL_HOST", cfg.MySQL.Host)
	cfg.MySQL.Port = getEnvAsInt("VERINEWS_MYSQL_PORT", cfg.MySQL.Port)
	cfg.MySQL.User = getEnv("VERINEWS_MYSQL_USER", cfg.MySQL.User)
	cfg.MySQL.Password = getEnv("VERINEWS_MYSQL_PASSWORD", cfg.MySQL.Password)
	cfg.MySQL.DB = getEnv("VERINEWS_MYSQL_DB", cfg.MySQL.DB)
	cfg.MySQL.Params = getEnv("VERINEWS_MYSQL_PARAMS", cfg.MySQL.Params)

	cfg.UI.Theme = getEnv("VERINEWS_THEME", cfg.UI.Theme)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return parsed
}
