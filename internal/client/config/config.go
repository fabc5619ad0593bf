package config

import (
	"errors"
	"fmt"
	"os"
	"time"
)

// Config holds runtime settings for the terminal client.
type Config struct {
	APIBaseURL          string        `env:"API_URL"`
	RequestTimeout      time.Duration `env:"REQUEST_TIMEOUT"`
	OnlineCheckInterval time.Duration `env:"ONLINE_CHECK_INTERVAL"`
	DatabasePath        string        `env:"DB_PATH"`
	// AppearanceFile is the OS appearance file to follow; empty means
	// fixed light, full-motion defaults.
	AppearanceFile string `env:"APPEARANCE_FILE"`
	LogBackend     string `env:"LOG_BACKEND"`
	LogLevel       string `env:"LOG_LEVEL"`
}

// LoadDefaults populates c with the built-in defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:5001/api"
	c.RequestTimeout = 30 * time.Second
	c.OnlineCheckInterval = 3 * time.Second
	c.DatabasePath = "biztoolkit.db"
	c.AppearanceFile = ""
	c.LogBackend = "slog"
	c.LogLevel = "warn"
}

// Validate reports settings the client cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.APIBaseURL == "" {
		errs = append(errs, errors.New("api base url is empty"))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout))
	}
	if c.OnlineCheckInterval <= 0 {
		errs = append(errs, fmt.Errorf("online check interval must be positive, got %s", c.OnlineCheckInterval))
	}
	if c.DatabasePath == "" {
		errs = append(errs, errors.New("database path is empty"))
	}
	switch c.LogBackend {
	case "slog", "zap":
	default:
		errs = append(errs, fmt.Errorf("unknown log backend %q", c.LogBackend))
	}
	return errors.Join(errs...)
}

// Load builds a Config from defaults, then the JSON file named by -c or
// -config, then BIZTOOLKIT_* environment variables, then flags. Later
// sources win.
func Load(args []string, environ map[string]string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJSON(cfg, args); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg, environ); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadConfig is Load over the process arguments and environment.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:], nil)
}
