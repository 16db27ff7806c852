package main

import (
	"context"
	"crypto/tls"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/yndnr/kiwi/internal/core/service"
	"github.com/yndnr/kiwi/internal/infra/buildinfo"
	"github.com/yndnr/kiwi/internal/infra/confloader"
	"github.com/yndnr/kiwi/internal/infra/shutdown"
	"github.com/yndnr/kiwi/internal/infra/tlsroots"
	"github.com/yndnr/kiwi/internal/server/config"
	"github.com/yndnr/kiwi/internal/server/httpserver"
	"github.com/yndnr/kiwi/internal/server/httpserver/handler"
	"github.com/yndnr/kiwi/internal/server/redisserver"
	"github.com/yndnr/kiwi/internal/storage/memory"
	"github.com/yndnr/kiwi/internal/telemetry/logger"
	"github.com/yndnr/kiwi/internal/telemetry/metric"
)

const shutdownTimeout = 30 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configFile  = flag.String("config", "", "Path to configuration file")
		showVersion = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *showVersion {
		fmt.Println("kiwi-server " + buildinfo.String())
		return nil
	}

	loader := newLoader(*configFile)
	cfg, err := loadConfig(loader)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := initLogger(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	info := buildinfo.Get()
	log.Info("starting kiwi-server",
		"version", info.Version,
		"commit", info.Commit,
		"config", *configFile,
		"env_overrides", loader.EnvOverrides())

	metrics := metric.NewRegistry()
	store := memory.New(memory.WithExpireHook(func(string) {
		metrics.KeysExpired.Inc()
	}))
	if err := metrics.Register(metric.NewStoreCollector(store)); err != nil {
		return fmt.Errorf("register store collector: %w", err)
	}
	kv := service.NewKVService(store)

	shutdownHandler := shutdown.NewHandler(shutdownTimeout, log)
	ctx := context.Background()

	if *configFile != "" {
		if err := watchConfig(*configFile, loader, log, shutdownHandler); err != nil {
			log.Warn("config watch disabled", "error", err)
		}
	}

	if err := startServers(ctx, cfg, kv, metrics, log, shutdownHandler); err != nil {
		return err
	}

	log.Info("server started, press Ctrl+C to stop")
	if err := shutdownHandler.Wait(ctx); err != nil {
		log.Error("shutdown error", "error", err)
		return err
	}

	log.Info("server stopped gracefully")
	return nil
}

func newLoader(configFile string) *confloader.Loader {
	opts := []confloader.Option{
		confloader.WithDefaults(config.Default().ToMap()),
	}
	if configFile != "" {
		opts = append(opts, confloader.WithConfigFile(configFile))
	}
	return confloader.NewLoader(opts...)
}

// loadConfig loads defaults, the config file and the environment, then
// validates the result.
func loadConfig(loader *confloader.Loader) (*config.ServerConfig, error) {
	cfg := &config.ServerConfig{}
	if err := loader.Load(cfg); err != nil {
		return nil, err
	}

	if err := config.Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func initLogger(cfg *config.ServerConfig) (logger.Logger, error) {
	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stdout,
	})
	if err != nil {
		return nil, err
	}

	logger.SetDefault(log)
	return log, nil
}

// watchConfig reloads the config file on change and applies the settings
// that can change at runtime. Everything else needs a restart.
func watchConfig(path string, loader *confloader.Loader, log logger.Logger, sh *shutdown.Handler) error {
	w, err := confloader.NewWatcher(confloader.WithWatcherLogger(log))
	if err != nil {
		return err
	}
	if err := w.Watch(path); err != nil {
		_ = w.Stop()
		return err
	}

	w.OnChange(func(string) {
		cfg, err := reloadConfig(loader)
		if err != nil {
			log.Warn("config reload rejected", "error", err)
			return
		}
		prev := logger.GetLevel()
		if err := logger.SetLevel(cfg.Log.Level); err != nil {
			log.Warn("log level not applied", "error", err)
			return
		}
		if now := logger.GetLevel(); now != prev {
			log.Info("log level changed", "from", prev, "to", now)
		}
	})
	w.StartAsync()

	sh.OnShutdown("config-watcher", func(context.Context) error {
		return w.Stop()
	})
	return nil
}

func reloadConfig(loader *confloader.Loader) (*config.ServerConfig, error) {
	cfg := &config.ServerConfig{}
	if err := loader.Reload(cfg); err != nil {
		return nil, err
	}
	if err := config.Verify(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func redisConfig(cfg *config.ServerConfig, log logger.Logger, sh *shutdown.Handler) (*redisserver.Config, error) {
	rc := cfg.Server.Redis
	out := &redisserver.Config{
		Addr:           rc.Addr,
		TLSAddr:        rc.TLSAddr,
		UnixSocket:     rc.UnixSocket,
		ReadTimeout:    rc.ReadTimeout,
		WriteTimeout:   rc.WriteTimeout,
		IdleTimeout:    rc.IdleTimeout,
		RateLimit:      rc.RateLimit,
		MaxConnections: rc.MaxConnections,
	}
	if rc.TLSAddr != "" {
		tlsCfg, err := loadTLSConfig("redis", rc.TLSCertFile, rc.TLSKeyFile, log, sh)
		if err != nil {
			return nil, err
		}
		out.TLSConfig = tlsCfg
	}
	return out, nil
}

// startServers starts the RESP listeners and, when enabled, the HTTP
// facade. On failure the hooks registered so far run before it returns, so
// listeners and watchers that did start are closed.
func startServers(ctx context.Context, cfg *config.ServerConfig, kv *service.KVService, metrics *metric.Registry, log logger.Logger, sh *shutdown.Handler) (err error) {
	defer func() {
		if err == nil {
			return
		}
		if cerr := sh.Abort(); cerr != nil {
			log.Warn("cleanup after failed start", "error", cerr)
		}
	}()

	redisCfg, err := redisConfig(cfg, log, sh)
	if err != nil {
		return fmt.Errorf("redis server: %w", err)
	}
	redisServer := redisserver.New(redisCfg, kv,
		redisserver.WithLogger(log.With("component", "redis")),
		redisserver.WithMetrics(metrics),
	)
	if err := redisServer.Start(ctx); err != nil {
		return fmt.Errorf("start redis server: %w", err)
	}
	sh.OnShutdown("redis", redisServer.Shutdown)

	if cfg.Server.HTTP.Enabled {
		if err := startHTTP(cfg, kv, metrics, log, sh); err != nil {
			return fmt.Errorf("start http server: %w", err)
		}
	}
	return nil
}

func startHTTP(cfg *config.ServerConfig, kv *service.KVService, metrics *metric.Registry, log logger.Logger, sh *shutdown.Handler) error {
	hc := cfg.Server.HTTP

	var tlsCfg *tls.Config
	if hc.TLSCertFile != "" {
		var err error
		if tlsCfg, err = loadTLSConfig("http", hc.TLSCertFile, hc.TLSKeyFile, log, sh); err != nil {
			return err
		}
	}

	httpLog := log.With("component", "http")
	h := handler.New(kv, httpLog)
	router := httpserver.NewRouter(&httpserver.RouterConfig{
		Handler:       h,
		Logger:        httpLog,
		Metrics:       metrics,
		ExposeMetrics: cfg.Metrics.Enabled,
		RateLimit:     hc.RateLimit,
		TrustProxy:    hc.TrustProxy,
	})

	srv := httpserver.New(hc.Addr, router, tlsCfg)
	errCh := make(chan error, 1)
	if err := srv.Start(errCh); err != nil {
		return err
	}
	log.Info("http server listening", "addr", srv.Addr().String(), "tls", tlsCfg != nil)

	go func() {
		select {
		case err := <-errCh:
			log.Error("http server error", "error", err)
			sh.Trigger()
		case <-sh.Done():
		}
	}()

	sh.OnShutdown("http", func(ctx context.Context) error {
		h.SetDraining(true)
		return srv.Shutdown(ctx)
	})
	return nil
}

// loadTLSConfig serves the pair through a watcher so that rotated
// certificates are picked up without a restart.
func loadTLSConfig(name, certFile, keyFile string, log logger.Logger, sh *shutdown.Handler) (*tls.Config, error) {
	w, err := tlsroots.NewCertWatcher(certFile, keyFile,
		tlsroots.WithLogger(log.With("component", "tls", "listener", name)),
	)
	if err != nil {
		return nil, fmt.Errorf("load TLS key pair: %w", err)
	}
	w.StartAsync()
	sh.OnShutdown("tls-watcher-"+name, func(context.Context) error {
		return w.Stop()
	})
	return w.ServerConfig(), nil
}
