// Package config loads provider and logging settings from a YAML file, .env
// files and SPOOL_* environment variables, in that order of precedence
// (later wins).
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/danpasecinic/spool"
	"github.com/danpasecinic/spool/logging"
)

const (
	EnvDisposeImplementations = "SPOOL_DISPOSE_IMPLEMENTATIONS"
	EnvDisposablePackages     = "SPOOL_DISPOSABLE_PACKAGES"
	EnvLogLevel               = "SPOOL_LOG_LEVEL"
	EnvLogFormat              = "SPOOL_LOG_FORMAT"
)

type Config struct {
	Provider spool.ProviderOptions `yaml:"provider"`
	Logging  logging.Config        `yaml:"logging"`
}

func Default() *Config {
	return &Config{
		Provider: spool.DefaultProviderOptions(),
		Logging:  *logging.DefaultConfig(),
	}
}

// Options converts the configuration into provider options.
func (c *Config) Options() []spool.Option {
	return []spool.Option{
		spool.WithProviderOptions(c.Provider),
		spool.WithLogger(logging.New(&c.Logging)),
	}
}

func (c *Config) Validate() error {
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}
	for _, pkg := range c.Provider.DisposablePackages {
		if strings.TrimSpace(pkg) == "" {
			return fmt.Errorf("provider.disposablePackages contains an empty entry")
		}
	}
	return nil
}

type Loader struct {
	configFile string
	envFiles   []string
}

func NewLoader() *Loader {
	return &Loader{}
}

func (l *Loader) WithConfigFile(path string) *Loader {
	l.configFile = path
	return l
}

// WithEnvFiles adds .env files loaded before environment overrides apply.
// Variables already set in the process environment are not overwritten.
func (l *Loader) WithEnvFiles(files ...string) *Loader {
	l.envFiles = append(l.envFiles, files...)
	return l
}

func (l *Loader) Load() (*Config, error) {
	cfg := Default()

	if l.configFile != "" {
		data, err := os.ReadFile(l.configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", l.configFile, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", l.configFile, err)
		}
	}

	if len(l.envFiles) > 0 {
		if err := godotenv.Load(l.envFiles...); err != nil {
			return nil, fmt.Errorf("failed to load env files: %w", err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v, ok := os.LookupEnv(EnvDisposeImplementations); ok {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvDisposeImplementations, err)
		}
		cfg.Provider.DisposeImplementations = enabled
	}

	if v, ok := os.LookupEnv(EnvDisposablePackages); ok {
		cfg.Provider.DisposablePackages = splitList(v)
	}

	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		cfg.Logging.Format = v
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
