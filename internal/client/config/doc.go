// Package config loads runtime configuration for the authkeeper CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the auth API
//	-t int      request timeout (seconds)
//
// # JSON schema
//
// The JSON loader uses timex.Duration, so the timeout can be a string like
// "5s" or integer nanoseconds. Keys that are absent keep their defaults:
//
//	{
//	  "server_base_url": "http://127.0.0.1:8080/api/auth",
//	  "request_timeout": "10s"
//	}
package config
