package config

import "time"

// CLIConfig is the configuration for kiwi-cli.
type CLIConfig struct {
	Server  string        `yaml:"server"`
	Output  string        `yaml:"output"` // table, json, yaml, raw
	Timeout time.Duration `yaml:"timeout"`
	TLS     bool          `yaml:"tls"`

	// CAFile is a PEM bundle used to verify the server instead of the
	// system roots.
	CAFile string `yaml:"ca_file,omitempty"`

	// Insecure skips TLS certificate verification.
	Insecure bool `yaml:"insecure,omitempty"`
}

// Default returns the default CLI configuration.
func Default() *CLIConfig {
	return &CLIConfig{
		Server:  "127.0.0.1:6379",
		Output:  "table",
		Timeout: 5 * time.Second,
	}
}
