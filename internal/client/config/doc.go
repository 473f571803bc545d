// Package config loads runtime configuration for the mycloud CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected via -c or -config. Files ending in
//     .yaml or .yml are read as YAML, anything else as JSON.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the storage service
//	-d string   directory of the local credential store
//	-t int      request timeout (seconds)
//	-l string   log level (debug, info, warn, error)
//
// # File schema
//
// Durations use timex.Duration, so they can be strings like "15s" or integer
// nanoseconds:
//
//	{
//	  "server_base_url": "http://127.0.0.1:8000",
//	  "data_dir": "~/.mycloud",
//	  "request_timeout": "15s",
//	  "remember_credentials": true,
//	  "log_level": "info",
//	  "log_format": "text",
//	  "download_dir": "downloads",
//	  "download_target": "s3",
//	  "s3": {"bucket": "exports", "region": "us-east-1", "endpoint": "http://127.0.0.1:9000",
//	         "access_key": "minio", "secret_key": "minio123", "prefix": "mycloud"}
//	}
//
// Note: This package does not read environment variables directly; use the
// config file or flags to configure values.
package config
