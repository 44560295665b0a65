package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the reader and server configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Paths   PathsConfig   `yaml:"paths"`
	Reader  ReaderConfig  `yaml:"reader"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	HTTPPort       int   `yaml:"http_port"`
	CacheEntries   int   `yaml:"cache_entries"`
	MaxUploadBytes int64 `yaml:"max_upload_bytes"`
}

// PathsConfig holds filesystem paths for packets and report scripts.
type PathsConfig struct {
	Packets string `yaml:"packets"`
	Scripts string `yaml:"scripts"`
}

// ReaderConfig holds TUI defaults.
type ReaderConfig struct {
	ShowAllThreads bool `yaml:"show_all_threads"`
	StripANSI      bool `yaml:"strip_ansi"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json or console
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:       2280,
			CacheEntries:   64,
			MaxUploadBytes: 16 << 20,
		},
		Paths: PathsConfig{
			Packets: "./packets",
			Scripts: "./scripts",
		},
		Reader: ReaderConfig{
			StripANSI: true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads a YAML config file over the defaults. A missing file is not an
// error. Environment variables (optionally from a .env file) override the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	// .env is optional.
	_ = godotenv.Load()

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("QWK_HTTP_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse QWK_HTTP_PORT %q: %w", v, err)
		}
		c.Server.HTTPPort = port
	}
	if v := os.Getenv("QWK_CACHE_ENTRIES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse QWK_CACHE_ENTRIES %q: %w", v, err)
		}
		c.Server.CacheEntries = n
	}
	if v := os.Getenv("QWK_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("QWK_PACKETS"); v != "" {
		c.Paths.Packets = v
	}
	return nil
}

// HTTPAddr returns the listen address of the HTTP API.
func (c *Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.Server.HTTPPort)
}
