package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

const EnvPrefix = "BIZTOOLKIT_"

// parseEnv overlays cfg with BIZTOOLKIT_* variables. Unset variables keep
// the current value. A nil environ reads the process environment.
func parseEnv(cfg *Config, environ map[string]string) error {
	opts := env.Options{Prefix: EnvPrefix}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}
	return nil
}
