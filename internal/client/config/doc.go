// Package config loads runtime configuration for the gophblog client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   address:port of the document service
//	-d string   path to the local SQLite database
//	-t string   access token attached to feed requests
//	-w int      feed request timeout (seconds)
//
// # JSON schema
//
// Durations use timex.Duration, so values can be either strings like "10s"
// or integer nanoseconds. Keys that are absent keep their previous value:
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "database_path": "profile.db",
//	  "access_token": "",
//	  "request_timeout": "10s"
//	}
package config
