package config

import "time"

// ServerConfig is the root configuration for kiwi-server.
type ServerConfig struct {
	Server  ServerSection  `koanf:"server"`
	Metrics MetricsSection `koanf:"metrics"`
	Log     LogSection     `koanf:"log"`
}

// ServerSection configures server endpoints.
type ServerSection struct {
	Redis RedisConfig `koanf:"redis"`
	HTTP  HTTPConfig  `koanf:"http"`
}

// RedisConfig configures the Redis protocol server.
type RedisConfig struct {
	// Addr is the plaintext listen address. Empty disables it.
	Addr string `koanf:"addr"`

	// TLSAddr is the TLS listen address. Requires TLSCertFile and TLSKeyFile.
	TLSAddr     string `koanf:"tls_addr"`
	TLSCertFile string `koanf:"tls_cert_file"`
	TLSKeyFile  string `koanf:"tls_key_file"`

	// UnixSocket is a Unix domain socket path for local clients. Empty
	// disables it.
	UnixSocket string `koanf:"unix_socket"`

	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
	IdleTimeout  time.Duration `koanf:"idle_timeout"`

	// RateLimit is commands per second per client IP. 0 disables it.
	RateLimit int `koanf:"rate_limit"`

	// MaxConnections caps open connections. 0 means unlimited.
	MaxConnections int `koanf:"max_connections"`
}

// HTTPConfig configures the HTTP/JSON facade.
type HTTPConfig struct {
	Enabled     bool   `koanf:"enabled"`
	Addr        string `koanf:"addr"`
	TLSCertFile string `koanf:"tls_cert_file"`
	TLSKeyFile  string `koanf:"tls_key_file"`

	// RateLimit is requests per second per client IP. 0 disables it.
	RateLimit int `koanf:"rate_limit"`

	// TrustProxy takes the client IP from X-Forwarded-For / X-Real-IP.
	TrustProxy bool `koanf:"trust_proxy"`
}

// MetricsSection configures the /metrics endpoint.
type MetricsSection struct {
	Enabled bool `koanf:"enabled"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}
