package config

import "time"

// Default configuration values.
const (
	DefaultRedisAddr    = "127.0.0.1:6379"
	DefaultReadTimeout  = 30 * time.Second
	DefaultWriteTimeout = 30 * time.Second
	DefaultIdleTimeout  = 5 * time.Minute

	DefaultHTTPAddr = "127.0.0.1:8080"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Default returns the default server configuration.
func Default() *ServerConfig {
	return &ServerConfig{
		Server: ServerSection{
			Redis: RedisConfig{
				Addr:         DefaultRedisAddr,
				ReadTimeout:  DefaultReadTimeout,
				WriteTimeout: DefaultWriteTimeout,
				IdleTimeout:  DefaultIdleTimeout,
			},
			HTTP: HTTPConfig{
				Enabled: true,
				Addr:    DefaultHTTPAddr,
			},
		},
		Metrics: MetricsSection{
			Enabled: true,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// ToMap flattens the defaults into koanf keys, for use as the lowest
// priority configuration source.
func (c *ServerConfig) ToMap() map[string]any {
	return map[string]any{
		"server.redis.addr":            c.Server.Redis.Addr,
		"server.redis.tls_addr":        c.Server.Redis.TLSAddr,
		"server.redis.tls_cert_file":   c.Server.Redis.TLSCertFile,
		"server.redis.tls_key_file":    c.Server.Redis.TLSKeyFile,
		"server.redis.unix_socket":     c.Server.Redis.UnixSocket,
		"server.redis.read_timeout":    c.Server.Redis.ReadTimeout.String(),
		"server.redis.write_timeout":   c.Server.Redis.WriteTimeout.String(),
		"server.redis.idle_timeout":    c.Server.Redis.IdleTimeout.String(),
		"server.redis.rate_limit":      c.Server.Redis.RateLimit,
		"server.redis.max_connections": c.Server.Redis.MaxConnections,
		"server.http.enabled":          c.Server.HTTP.Enabled,
		"server.http.addr":             c.Server.HTTP.Addr,
		"server.http.tls_cert_file":    c.Server.HTTP.TLSCertFile,
		"server.http.tls_key_file":     c.Server.HTTP.TLSKeyFile,
		"server.http.rate_limit":       c.Server.HTTP.RateLimit,
		"server.http.trust_proxy":      c.Server.HTTP.TrustProxy,
		"metrics.enabled":              c.Metrics.Enabled,
		"log.level":                    c.Log.Level,
		"log.format":                   c.Log.Format,
	}
}
