// Package config provides server configuration for kiwi.
//
// This package defines the server configuration structure and validation:
//
//   - spec.go: ServerConfig struct definition
//   - default.go: Default configuration values
//   - verify.go: Validation of addresses, timeouts, limits and TLS pairs
//
// Configuration is loaded via internal/infra/confloader and supports
// multiple sources: files, environment variables and built-in defaults.
package config
