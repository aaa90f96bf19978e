package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	gerrors "github.com/go-faster/errors"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const appName = "firmdesk"

// EnvFiles are loaded, when present, before the environment is read.
// Variables already set in the environment win.
var EnvFiles = []string{".env", ".env.local"}

type Config struct {
	DBPath string        `yaml:"db_path" env:"FIRMDESK_DB_PATH"`
	Log    LogOptions    `yaml:"log"`
	Import ImportOptions `yaml:"import"`
}

type LogOptions struct {
	Level  string `yaml:"level" env:"FIRMDESK_LOG_LEVEL"`
	Format string `yaml:"format" env:"FIRMDESK_LOG_FORMAT"`
}

type ImportOptions struct {
	// Concurrency caps in-flight create calls during a bulk upload. 0 is unlimited.
	Concurrency int `yaml:"concurrency" env:"FIRMDESK_IMPORT_CONCURRENCY"`
}

// Default returns the built-in configuration
func Default() (*Config, error) {
	dbPath, err := DefaultDBPath()
	if err != nil {
		return nil, err
	}
	return &Config{
		DBPath: dbPath,
		Log:    LogOptions{Level: "info", Format: "text"},
	}, nil
}

// Load builds the configuration from defaults, then the YAML file at path,
// then the env files, then the environment. An empty path means the default
// config file, which may be absent.
func Load(path string) (*Config, error) {
	cfg, err := Default()
	if err != nil {
		return nil, err
	}

	explicit := path != ""
	if !explicit {
		if path, err = DefaultConfigPath(); err != nil {
			return nil, err
		}
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, gerrors.Wrapf(err, "parse config %s", path)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return nil, gerrors.Wrapf(err, "read config %s", path)
	}

	if err := loadEnvFiles(EnvFiles); err != nil {
		return nil, gerrors.Wrap(err, "load env files")
	}
	if err := env.Parse(cfg); err != nil {
		return nil, gerrors.Wrap(err, "parse environment")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadEnvFiles(files []string) error {
	var existing []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	return godotenv.Load(existing...)
}

// Validate checks the configuration for errors
func (c *Config) Validate() error {
	if c.DBPath == "" {
		return gerrors.New("db path must not be empty")
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return gerrors.Wrap(err, "log level")
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return gerrors.Errorf("log format must be 'text' or 'json', got '%s'", c.Log.Format)
	}
	if c.Import.Concurrency < 0 {
		return gerrors.Errorf("import concurrency must be non-negative, got %d", c.Import.Concurrency)
	}
	return nil
}

// DefaultDBPath returns the database path under the XDG data directory
func DefaultDBPath() (string, error) {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, appName, appName+".db"), nil
}

// DefaultConfigPath returns the config file path under the XDG config directory
func DefaultConfigPath() (string, error) {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, appName, "config.yaml"), nil
}
