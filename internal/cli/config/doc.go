// Package config loads and saves the kiwi-cli configuration file
// (~/.kiwi/cli.yaml by default). Command-line flags and KIWI_* environment
// variables take precedence over file values.
package config
