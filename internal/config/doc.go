// Package config handles configuration loading for multiadmin-host.
//
// # Configuration File
//
// Default locations (in order):
//
//  1. Path from MULTIADMIN_CONFIG environment variable
//  2. $XDG_CONFIG_HOME/multiadmin/host.yaml
//  3. ~/.config/multiadmin/host.yaml
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	auth:
//	  jwt_secret: "${MULTIADMIN_JWT_SECRET}"
//
// Unset variables expand to the empty string.
//
// # Example
//
//	server:
//	  http_addr: "127.0.0.1:8080"
//	  contract: "multiadmin"
//	  shutdown_timeout: "10s"
//	database:
//	  path: "./multiadmin.db"
//	  driver: "sqlite"   # or "sqlite3" for the cgo driver
//	auth:
//	  jwt_secret: "${MULTIADMIN_JWT_SECRET}"
//	  token_ttl: "24h"
//	addresses:
//	  canonical_length: 20
//	bootstrap:
//	  admins: ["alice"]
//	logging:
//	  level: "info"
//	  format: "text"
//
// Durations use time.ParseDuration syntax. Validate reports the first
// missing or invalid field.
package config
