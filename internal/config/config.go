package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config defines server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	DB        DBConfig        `yaml:"db"`
	Log       LogConfig       `yaml:"log"`
	Transport TransportConfig `yaml:"transport"`
	Auth      AuthConfig      `yaml:"auth"`
	Guard     GuardConfig     `yaml:"guard"`
	Format    FormatConfig    `yaml:"format"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	Path  string `yaml:"path"`
}

// TransportConfig selects how MCP clients connect: "http" or "stdio".
type TransportConfig struct {
	Mode string `yaml:"mode"`
}

type AuthConfig struct {
	Enabled bool `yaml:"enabled"`
}

// GuardConfig bounds the duplicate-event registry.
type GuardConfig struct {
	Size int           `yaml:"size"`
	TTL  time.Duration `yaml:"ttl"`
}

// FormatConfig controls how values appear in activity descriptions.
type FormatConfig struct {
	CurrencySymbol string `yaml:"currency_symbol"`
	DateLayout     string `yaml:"date_layout"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		DB: DBConfig{
			Path: "crmtrail.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Transport: TransportConfig{
			Mode: "http",
		},
		Auth: AuthConfig{
			Enabled: true,
		},
		Guard: GuardConfig{
			Size: 10000,
			TTL:  10 * time.Minute,
		},
		Format: FormatConfig{
			CurrencySymbol: "$",
			DateLayout:     "Jan 2, 2006",
		},
	}
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("CRMTRAIL_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if host := os.Getenv("CRMTRAIL_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("CRMTRAIL_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid CRMTRAIL_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if dbPath := os.Getenv("CRMTRAIL_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if level := os.Getenv("CRMTRAIL_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if logPath := os.Getenv("CRMTRAIL_LOG_PATH"); logPath != "" {
		cfg.Log.Path = logPath
	}
	if mode := os.Getenv("CRMTRAIL_TRANSPORT_MODE"); mode != "" {
		cfg.Transport.Mode = strings.ToLower(mode)
	}
	if enabled := os.Getenv("CRMTRAIL_AUTH_ENABLED"); enabled != "" {
		v, err := strconv.ParseBool(enabled)
		if err != nil {
			return Config{}, fmt.Errorf("invalid CRMTRAIL_AUTH_ENABLED: %w", err)
		}
		cfg.Auth.Enabled = v
	}
	if sizeStr := os.Getenv("CRMTRAIL_GUARD_SIZE"); sizeStr != "" {
		size, err := strconv.Atoi(sizeStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid CRMTRAIL_GUARD_SIZE: %w", err)
		}
		cfg.Guard.Size = size
	}
	if ttlStr := os.Getenv("CRMTRAIL_GUARD_TTL"); ttlStr != "" {
		ttl, err := time.ParseDuration(ttlStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid CRMTRAIL_GUARD_TTL: %w", err)
		}
		cfg.Guard.TTL = ttl
	}
	if symbol := os.Getenv("CRMTRAIL_CURRENCY_SYMBOL"); symbol != "" {
		cfg.Format.CurrencySymbol = symbol
	}
	if layout := os.Getenv("CRMTRAIL_DATE_LAYOUT"); layout != "" {
		cfg.Format.DateLayout = layout
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Transport.Mode {
	case "http", "stdio":
	default:
		return fmt.Errorf("invalid transport mode %q", c.Transport.Mode)
	}
	if c.Guard.Size < 0 {
		return fmt.Errorf("guard size must not be negative")
	}
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
