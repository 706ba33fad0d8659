// Package config loads runtime configuration for the cakeplanner CLI.
//
// # Sources and precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected with -c or -config. The format follows
//     the extension: .yaml/.yml is YAML, anything else JSON.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// # File schema
//
// Durations accept strings such as "30s" or integer nanoseconds:
//
//	server_url: https://cake.example.com
//	session_store: sqlite
//	session_dsn: /home/me/.cakeplanner/session.db
//	http_timeout: 30s
//	log_level: info
//
// The package does not read environment variables.
package config
