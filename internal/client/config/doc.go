// Package config loads runtime configuration for the venuebook CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   API base URL
//	-s string   credential store: sqlite, redis or memory
//	-d string   SQLite file of the sqlite store
//	-r string   address of the redis store
//	-t int      request timeout (seconds, 0 disables)
//	-i int      session check interval (seconds)
//	-l string   log level
//
// # JSON schema
//
// Durations are timex.Duration, so values can be either strings like "15s"
// or integer nanoseconds. Absent keys keep their defaults:
//
//	{
//	  "api_base_url": "http://127.0.0.1:8080/api/v1",
//	  "store": "redis",
//	  "redis_addr": "127.0.0.1:6379",
//	  "redis_prefix": "venuebook",
//	  "credential_ttl": "168h",
//	  "request_timeout": "15s",
//	  "session_check_interval": "3s",
//	  "log_level": "info"
//	}
package config
