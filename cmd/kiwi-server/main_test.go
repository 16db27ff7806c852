package main

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/yndnr/kiwi/internal/core/service"
	"github.com/yndnr/kiwi/internal/infra/shutdown"
	"github.com/yndnr/kiwi/internal/storage/memory"
	"github.com/yndnr/kiwi/internal/telemetry/logger"
	"github.com/yndnr/kiwi/internal/telemetry/metric"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "kiwi.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadConfig(newLoader(""))
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Server.Redis.Addr != "127.0.0.1:6379" {
		t.Errorf("redis addr = %q", cfg.Server.Redis.Addr)
	}
	if cfg.Server.Redis.IdleTimeout != 5*time.Minute {
		t.Errorf("idle timeout = %v", cfg.Server.Redis.IdleTimeout)
	}
	if !cfg.Server.HTTP.Enabled || !cfg.Metrics.Enabled {
		t.Errorf("http/metrics should default to enabled: %+v", cfg)
	}
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	path := writeConfig(t, `
server:
  redis:
    addr: "127.0.0.1:7000"
    read_timeout: 5s
  http:
    enabled: false
log:
  level: debug
`)
	t.Setenv("KIWI_SERVER_REDIS_RATE_LIMIT", "50")

	cfg, err := loadConfig(newLoader(path))
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Server.Redis.Addr != "127.0.0.1:7000" {
		t.Errorf("redis addr = %q", cfg.Server.Redis.Addr)
	}
	if cfg.Server.Redis.ReadTimeout != 5*time.Second {
		t.Errorf("read timeout = %v", cfg.Server.Redis.ReadTimeout)
	}
	if cfg.Server.Redis.WriteTimeout != 30*time.Second {
		t.Errorf("write timeout should keep default, got %v", cfg.Server.Redis.WriteTimeout)
	}
	if cfg.Server.Redis.RateLimit != 50 {
		t.Errorf("rate limit = %d, want 50 from env", cfg.Server.Redis.RateLimit)
	}
	if cfg.Server.HTTP.Enabled {
		t.Error("http should be disabled by file")
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log level = %q", cfg.Log.Level)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	path := writeConfig(t, `
server:
  redis:
    addr: "no-port"
log:
  level: loud
`)

	_, err := loadConfig(newLoader(path))
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "invalid configuration") {
		t.Errorf("error = %v", err)
	}
}

func TestReloadConfig(t *testing.T) {
	path := writeConfig(t, "log:\n  level: info\n")
	loader := newLoader(path)
	if _, err := loadConfig(loader); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(path, []byte("log:\n  level: warn\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := reloadConfig(loader)
	if err != nil {
		t.Fatalf("reloadConfig: %v", err)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("reloaded level = %q", cfg.Log.Level)
	}

	if err := os.WriteFile(path, []byte("log:\n  level: nope\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := reloadConfig(loader); err == nil {
		t.Error("reload of invalid config should fail")
	}
}

func TestRedisConfig(t *testing.T) {
	cfg, err := loadConfig(newLoader(""))
	if err != nil {
		t.Fatal(err)
	}
	cfg.Server.Redis.MaxConnections = 10
	cfg.Server.Redis.UnixSocket = filepath.Join(t.TempDir(), "kiwi.sock")

	sh := shutdown.NewHandler(time.Second, logger.Nop())
	rc, err := redisConfig(cfg, logger.Nop(), sh)
	if err != nil {
		t.Fatalf("redisConfig: %v", err)
	}
	if rc.Addr != cfg.Server.Redis.Addr || rc.MaxConnections != 10 || rc.TLSConfig != nil || rc.UnixSocket != cfg.Server.Redis.UnixSocket {
		t.Errorf("redisConfig = %+v", rc)
	}

	cfg.Server.Redis.TLSAddr = "127.0.0.1:6380"
	cfg.Server.Redis.TLSCertFile = filepath.Join(t.TempDir(), "missing.crt")
	cfg.Server.Redis.TLSKeyFile = filepath.Join(t.TempDir(), "missing.key")
	if _, err := redisConfig(cfg, logger.Nop(), sh); err == nil {
		t.Error("expected error for missing TLS key pair")
	}
}

func TestStartServers_HTTPFailureClosesRedis(t *testing.T) {
	// Unix socket paths are length limited, so avoid the long t.TempDir.
	dir, err := os.MkdirTemp("", "kiwi")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })
	sock := filepath.Join(dir, "kiwi.sock")

	busy, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer busy.Close()

	cfg, err := loadConfig(newLoader(""))
	if err != nil {
		t.Fatal(err)
	}
	cfg.Server.Redis.Addr = ""
	cfg.Server.Redis.UnixSocket = sock
	cfg.Server.HTTP.Enabled = true
	cfg.Server.HTTP.Addr = busy.Addr().String()

	sh := shutdown.NewHandler(time.Second, logger.Nop())
	kv := service.NewKVService(memory.New())
	err = startServers(context.Background(), cfg, kv, metric.NewRegistry(), logger.Nop(), sh)
	if err == nil {
		t.Fatal("startServers should fail when the HTTP address is taken")
	}

	select {
	case <-sh.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("shutdown hooks did not run after the failed start")
	}
	if c, err := net.DialTimeout("unix", sock, time.Second); err == nil {
		c.Close()
		t.Error("redis unix listener still accepting after the failed start")
	}
}
