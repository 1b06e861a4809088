// Package config loads runtime configuration for the visitkeeper CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   address:port of the backend gRPC endpoint
//	-i int      online status check interval (seconds)
//	-t int      per-call timeout (seconds)
//	-f string   path of the local state file
//
// # JSON schema
//
// Durations use timex.Duration, so values can be strings like "3s" or
// integer nanoseconds:
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "online_check_interval": "3s",
//	  "call_timeout": "10s",
//	  "state_path": "/home/me/.visitkeeper/state.db"
//	}
//
// An empty StatePath means "state.db" inside ~/.visitkeeper.
package config
