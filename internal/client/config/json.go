package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/biztoolkit/internal/flagx"
	"github.com/dmitrijs2005/biztoolkit/internal/timex"
)

// fileConfig is the JSON file layout. Absent members leave the
// corresponding setting alone.
type fileConfig struct {
	APIBaseURL          *string         `json:"api_base_url"`
	RequestTimeout      *timex.Duration `json:"request_timeout"`
	OnlineCheckInterval *timex.Duration `json:"online_check_interval"`
	DatabasePath        *string         `json:"database_path"`
	AppearanceFile      *string         `json:"appearance_file"`
	LogBackend          *string         `json:"log_backend"`
	LogLevel            *string         `json:"log_level"`
}

func parseJSON(cfg *Config, args []string) error {
	path := flagx.ConfigFile(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var fc fileConfig
	if err := json.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	setString(&cfg.APIBaseURL, fc.APIBaseURL)
	setString(&cfg.DatabasePath, fc.DatabasePath)
	setString(&cfg.AppearanceFile, fc.AppearanceFile)
	setString(&cfg.LogBackend, fc.LogBackend)
	setString(&cfg.LogLevel, fc.LogLevel)
	if fc.RequestTimeout != nil {
		cfg.RequestTimeout = fc.RequestTimeout.Duration
	}
	if fc.OnlineCheckInterval != nil {
		cfg.OnlineCheckInterval = fc.OnlineCheckInterval.Duration
	}
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
