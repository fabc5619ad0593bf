// Package config loads runtime configuration for the terminal client.
//
// Sources, later ones winning:
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. JSON file selected with -c or -config.
//  3. Environment variables prefixed BIZTOOLKIT_.
//  4. Command-line flags.
//
// Flags
//
//	-a string            backend API base URL
//	-i int               online status check interval (seconds)
//	-t int               request timeout (seconds)
//	-d string            local database path
//	-appearance string   OS appearance file to follow
//	-log string          log backend: slog or zap
//	-log-level string    debug, info, warn or error
//
// # JSON schema
//
// Durations use timex.Duration, so they can be strings like "3s" or
// integer nanoseconds:
//
//	{
//	  "api_base_url": "http://localhost:5001/api",
//	  "request_timeout": "30s",
//	  "online_check_interval": "3s",
//	  "database_path": "biztoolkit.db",
//	  "appearance_file": "/home/me/.config/biztoolkit/appearance.yaml",
//	  "log_backend": "zap",
//	  "log_level": "info"
//	}
//
// # Environment
//
//	BIZTOOLKIT_API_URL, BIZTOOLKIT_REQUEST_TIMEOUT, BIZTOOLKIT_ONLINE_CHECK_INTERVAL,
//	BIZTOOLKIT_DB_PATH, BIZTOOLKIT_APPEARANCE_FILE, BIZTOOLKIT_LOG_BACKEND,
//	BIZTOOLKIT_LOG_LEVEL
package config
