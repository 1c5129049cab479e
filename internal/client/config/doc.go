// Package config loads runtime configuration for the CardSync CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string     base URL of the sync server's HTTP API
//	-t int        request timeout (seconds)
//	-d string     SQLite DSN of the local store
//	-pull=bool    pull automatically at login
//	-push=bool    push automatically on status change
//
// # JSON schema
//
// The JSON loader uses timex.Duration for the timeout, so values can be
// either strings like "15s" or integer nanoseconds:
//
//	{
//	  "server_endpoint_addr": "http://127.0.0.1:8080",
//	  "database_dsn": "cardsync.db",
//	  "request_timeout": "15s",
//	  "auto_pull": true,
//	  "auto_push": true
//	}
//
// Note: This package does not read environment variables directly; use the
// JSON file or flags to configure values.
package config
