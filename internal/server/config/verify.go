package config

import (
	"errors"
	"fmt"
	"net"
	"os"

	"github.com/yndnr/kiwi/internal/telemetry/logger"
)

// Verify validates the configuration.
func Verify(cfg *ServerConfig) error {
	var errs []error

	errs = append(errs, verifyRedis(&cfg.Server.Redis)...)
	errs = append(errs, verifyHTTP(&cfg.Server.HTTP)...)
	errs = append(errs, verifyLog(&cfg.Log)...)

	if cfg.Server.Redis.Addr != "" && cfg.Server.HTTP.Enabled && cfg.Server.Redis.Addr == cfg.Server.HTTP.Addr {
		errs = append(errs, fmt.Errorf("server.redis.addr and server.http.addr must differ (%s)", cfg.Server.Redis.Addr))
	}

	return errors.Join(errs...)
}

func verifyRedis(cfg *RedisConfig) []error {
	var errs []error

	if cfg.Addr == "" && cfg.TLSAddr == "" && cfg.UnixSocket == "" {
		errs = append(errs, errors.New("server.redis: one of addr, tls_addr or unix_socket is required"))
	}
	if cfg.Addr != "" {
		errs = append(errs, verifyAddr("server.redis.addr", cfg.Addr))
	}
	if cfg.TLSAddr != "" {
		errs = append(errs, verifyAddr("server.redis.tls_addr", cfg.TLSAddr))
		if cfg.TLSCertFile == "" || cfg.TLSKeyFile == "" {
			errs = append(errs, errors.New("server.redis.tls_addr requires tls_cert_file and tls_key_file"))
		}
	}
	errs = append(errs, verifyTLSPair("server.redis", cfg.TLSCertFile, cfg.TLSKeyFile))

	if cfg.ReadTimeout < 0 {
		errs = append(errs, errors.New("server.redis.read_timeout must not be negative"))
	}
	if cfg.WriteTimeout < 0 {
		errs = append(errs, errors.New("server.redis.write_timeout must not be negative"))
	}
	if cfg.IdleTimeout < 0 {
		errs = append(errs, errors.New("server.redis.idle_timeout must not be negative"))
	}
	if cfg.RateLimit < 0 {
		errs = append(errs, errors.New("server.redis.rate_limit must not be negative"))
	}
	if cfg.MaxConnections < 0 {
		errs = append(errs, errors.New("server.redis.max_connections must not be negative"))
	}

	return errs
}

func verifyHTTP(cfg *HTTPConfig) []error {
	if !cfg.Enabled {
		return nil
	}

	errs := []error{
		verifyAddr("server.http.addr", cfg.Addr),
		verifyTLSPair("server.http", cfg.TLSCertFile, cfg.TLSKeyFile),
	}
	if cfg.RateLimit < 0 {
		errs = append(errs, errors.New("server.http.rate_limit must not be negative"))
	}
	return errs
}

func verifyLog(cfg *LogSection) []error {
	var errs []error
	if _, err := logger.ParseLevel(cfg.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if _, err := logger.ParseFormat(cfg.Format); err != nil {
		errs = append(errs, fmt.Errorf("log.format: %w", err))
	}
	return errs
}

// verifyAddr checks a host:port listen address.
func verifyAddr(field, addr string) error {
	if addr == "" {
		return fmt.Errorf("%s is required", field)
	}
	if _, _, err := net.SplitHostPort(addr); err != nil {
		return fmt.Errorf("%s %q: %w", field, addr, err)
	}
	return nil
}

// verifyTLSPair checks that cert and key are given together and readable.
func verifyTLSPair(section, certFile, keyFile string) error {
	if certFile == "" && keyFile == "" {
		return nil
	}
	if certFile == "" || keyFile == "" {
		return fmt.Errorf("%s: tls_cert_file and tls_key_file must be set together", section)
	}
	for _, f := range []string{certFile, keyFile} {
		if _, err := os.Stat(f); err != nil {
			return fmt.Errorf("%s: %w", section, err)
		}
	}
	return nil
}
