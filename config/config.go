// Package config loads the YAML configuration shared by the command-line
// tools.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/nickyhof/ifxsql/core"
	"github.com/nickyhof/ifxsql/esql"
	"github.com/nickyhof/ifxsql/remote"
	"github.com/nickyhof/ifxsql/script"
)

// Config represents the client configuration
type Config struct {
	Server  ServerConfig     `yaml:"server"`
	Engine  EngineConfig     `yaml:"engine"`
	Metrics MetricsConfig    `yaml:"metrics"`
	Logging LoggingConfig    `yaml:"logging"`
	S3      *remote.S3Config `yaml:"s3"`
	Git     *script.GitAuth  `yaml:"git"`
}

type ServerConfig struct {
	Name     string `yaml:"name"` // INFORMIXSERVER when empty
	Database string `yaml:"database"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

type EngineConfig struct {
	DataDir       string `yaml:"data_dir"`        // in-memory databases when empty
	TextLength    int    `yaml:"text_length"`     // length text columns are described with
	MaxBufferSize int    `yaml:"max_buffer_size"` // row buffer cap in bytes, 0 for none
}

type MetricsConfig struct {
	Enabled bool          `yaml:"enabled"`
	Prefix  string        `yaml:"prefix"`
	Listen  string        `yaml:"listen"` // address serving /metrics
	Timeout time.Duration `yaml:"timeout"`
}

type LoggingConfig struct {
	Debug bool `yaml:"debug"`
}

var (
	ErrNegativeTextLength = errors.New("engine.text_length must not be negative")
	ErrNegativeBufferSize = errors.New("engine.max_buffer_size must not be negative")
)

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML configuration and fills in defaults.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (cfg *Config) applyDefaults() {
	if cfg.Server.Name == "" {
		cfg.Server.Name = os.Getenv(esql.ServerEnv)
	}
	if cfg.Engine.TextLength == 0 {
		cfg.Engine.TextLength = core.UDTStringLen
	}
	if cfg.Metrics.Prefix == "" {
		cfg.Metrics.Prefix = "ifxsql"
	}
	if cfg.Metrics.Listen == "" {
		cfg.Metrics.Listen = ":9464"
	}
	if cfg.Metrics.Timeout == 0 {
		cfg.Metrics.Timeout = 5 * time.Second
	}
}

// Validate reports settings that cannot be used.
func (cfg *Config) Validate() error {
	if cfg.Engine.TextLength < 0 {
		return ErrNegativeTextLength
	}
	if cfg.Engine.MaxBufferSize < 0 {
		return ErrNegativeBufferSize
	}
	return nil
}
