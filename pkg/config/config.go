// Package config loads and validates application configuration from YAML
// files with environment-variable overrides. It provides typed structs for
// every subsystem (Repo, Indexer, Search, Server, Logging, Metrics).
package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	Repo    RepoConfig    `yaml:"repo"`
	Indexer IndexerConfig `yaml:"indexer"`
	Search  SearchConfig  `yaml:"search"`
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// RepoConfig names the repository directory and the files kept inside it.
type RepoConfig struct {
	DirName     string `yaml:"dirName"`
	IndexFile   string `yaml:"indexFile"`
	CatalogFile string `yaml:"catalogFile"`
}

// IndexerConfig controls the build pipeline and the postings codec.
type IndexerConfig struct {
	Workers   int    `yaml:"workers"`
	QueueSize int    `yaml:"queueSize"`
	Codec     string `yaml:"codec"`
}

// SearchConfig controls query execution limits.
type SearchConfig struct {
	MaxResults int `yaml:"maxResults"`
}

// ServerConfig holds HTTP server settings for the serve command.
type ServerConfig struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"readTimeout"`
	WriteTimeout    time.Duration `yaml:"writeTimeout"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
}

// LoggingConfig controls structured logging level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig controls the Prometheus metrics endpoint.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Load reads a YAML config file (if provided) and applies environment-variable
// overrides. It returns a Config populated with sensible defaults for any
// missing values.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}
	applyEnvOverrides(cfg)
	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		Repo: RepoConfig{
			DirName:     ".searchine",
			IndexFile:   "index.srx",
			CatalogFile: "catalog.db",
		},
		Indexer: IndexerConfig{
			Workers:   runtime.NumCPU(),
			QueueSize: 64,
			Codec:     "varbyte",
		},
		Search: SearchConfig{
			MaxResults: 1000,
		},
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// applyEnvOverrides reads SEARCHINE_* environment variables and overrides the
// corresponding config fields.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SEARCHINE_REPO_DIR"); v != "" {
		cfg.Repo.DirName = v
	}
	if v := os.Getenv("SEARCHINE_INDEXER_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Indexer.Workers = n
		}
	}
	if v := os.Getenv("SEARCHINE_INDEXER_QUEUE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Indexer.QueueSize = n
		}
	}
	if v := os.Getenv("SEARCHINE_INDEXER_CODEC"); v != "" {
		cfg.Indexer.Codec = v
	}
	if v := os.Getenv("SEARCHINE_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("SEARCHINE_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("SEARCHINE_LOGGING_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
}
