package config

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/biztoolkit/internal/flagx"
)

var ownFlags = []string{"-a", "-i", "-t", "-d", "-appearance", "-log", "-log-level"}

// parseFlags overlays cfg with the flags it owns; other arguments are
// ignored.
//
//	-a string            backend API base URL
//	-i int               online check interval (seconds)
//	-t int               request timeout (seconds)
//	-d string            local database path
//	-appearance string   OS appearance file to follow
//	-log string          log backend (slog|zap)
//	-log-level string    log level
func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("client", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "backend API base URL")
	interval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "local database path")
	fs.StringVar(&cfg.AppearanceFile, "appearance", cfg.AppearanceFile, "OS appearance file")
	fs.StringVar(&cfg.LogBackend, "log", cfg.LogBackend, "log backend (slog|zap)")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level")

	if err := fs.Parse(flagx.FilterArgs(args, ownFlags)); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "i":
			cfg.OnlineCheckInterval = time.Duration(*interval) * time.Second
		case "t":
			cfg.RequestTimeout = time.Duration(*timeout) * time.Second
		}
	})
	return nil
}
