// Package config loads settings for the API server and the review client.
// Values come from an optional config.yaml with environment variables taking
// precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const DefaultFile = "config.yaml"

type Config struct {
	Port        string   `yaml:"port" env:"PORT" env-default:"8000"`
	Debug       bool     `yaml:"debug" env:"DEBUG" env-default:"false"`
	CORSOrigins []string `yaml:"cors_origins" env:"CORS_ORIGINS" env-separator:"," env-default:"http://localhost:3000"`

	Database DatabaseConfig `yaml:"database"`
	LLM      LLMConfig      `yaml:"llm"`
	Client   ClientConfig   `yaml:"client"`
}

type DatabaseConfig struct {
	// URL is a postgres:// URL or a sqlite file path
	URL    string `yaml:"url" env:"DB_URL" env-default:"nodebook.db"`
	Driver string `yaml:"driver" env:"DB_DRIVER" env-default:""` // postgres or sqlite, derived from URL when empty
}

type LLMConfig struct {
	APIURL  string        `yaml:"api_url" env:"LLM_API_URL" env-default:"http://localhost:1234/v1"`
	Model   string        `yaml:"model" env:"LLM_MODEL" env-default:"local-model"`
	APIKey  string        `yaml:"-" env:"LLM_API_KEY"`
	Mock    bool          `yaml:"mock" env:"USE_MOCK_LLM" env-default:"false"`
	Timeout time.Duration `yaml:"timeout" env:"LLM_REQUEST_TIMEOUT" env-default:"60s"`
}

// ClientConfig configures the local-first client of the API.
type ClientConfig struct {
	APIBaseURL string        `yaml:"api_base_url" env:"API_BASE_URL" env-default:"http://localhost:8000/api"`
	Timeout    time.Duration `yaml:"timeout" env:"API_TIMEOUT" env-default:"10s"`
	LLMTimeout time.Duration `yaml:"llm_timeout" env:"LLM_TIMEOUT" env-default:"90s"`
	MirrorPath string        `yaml:"mirror_path" env:"MIRROR_PATH" env-default:"nodebook-mirror.db"`
}

// Load reads path when it exists and the environment otherwise.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path == "" {
		path = DefaultFile
	}

	_, err := os.Stat(path)
	switch {
	case err == nil:
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	default:
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}
	switch c.Database.DriverName() {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unknown database driver %q", c.Database.Driver)
	}
	if c.Client.Timeout <= 0 || c.Client.LLMTimeout <= 0 {
		return errors.New("client timeouts must be positive")
	}
	return nil
}

// Addr is the listen address of the API server.
func (c *Config) Addr() string {
	return "0.0.0.0:" + c.Port
}
