package redisserver

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/yndnr/kiwi/internal/core/domain"
	"github.com/yndnr/kiwi/internal/core/service"
	"github.com/yndnr/kiwi/internal/telemetry/logger"
	"github.com/yndnr/kiwi/internal/telemetry/metric"
	"github.com/yndnr/kiwi/pkg/resp"
)

// Config holds the Redis server configuration.
type Config struct {
	// Addr is the plaintext listen address. Empty disables the plain listener.
	Addr string
	// TLSAddr is the TLS listen address. Empty disables the TLS listener.
	TLSAddr string
	// TLSConfig is required when TLSAddr is set.
	TLSConfig *tls.Config
	// UnixSocket is a Unix domain socket path. Empty disables it. A stale
	// socket file left by a previous run is removed before binding.
	UnixSocket string
	// ReadTimeout bounds the time to receive one request once its first
	// byte arrived (default: 30s).
	ReadTimeout time.Duration
	// WriteTimeout bounds each reply write (default: 30s).
	WriteTimeout time.Duration
	// IdleTimeout bounds the wait for the next request (default: 5m).
	IdleTimeout time.Duration
	// RateLimit is the maximum number of commands per second per client IP.
	// Set to 0 to disable rate limiting.
	RateLimit int
	// MaxConnections caps concurrently open connections. 0 means unlimited.
	MaxConnections int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Addr:         "127.0.0.1:6379",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  5 * time.Minute,
	}
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// WithMetrics sets the metrics registry.
func WithMetrics(m *metric.Registry) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// Server represents the Redis protocol server.
type Server struct {
	cfg     *Config
	kv      *service.KVService
	logger  logger.Logger
	metrics *metric.Registry
	limiter *service.RateLimiterRegistry

	mu        sync.Mutex
	listeners []net.Listener
	conns     map[*conn]struct{}

	active  atomic.Int64
	running atomic.Bool
	wg      sync.WaitGroup
}

// New creates a new Redis protocol server.
func New(cfg *Config, kv *service.KVService, opts ...Option) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	s := &Server{
		cfg:     cfg,
		kv:      kv,
		limiter: service.NewRateLimiterRegistry(cfg.RateLimit),
		conns:   make(map[*conn]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Default()
	}
	if s.metrics == nil {
		s.metrics = metric.NewRegistry()
	}

	return s
}

// Start binds the configured listeners and serves them in the background.
func (s *Server) Start(ctx context.Context) error {
	if s.cfg.Addr == "" && s.cfg.TLSAddr == "" && s.cfg.UnixSocket == "" {
		s.logger.Info("redis server disabled (no listen address)")
		return nil
	}
	if s.cfg.TLSAddr != "" && s.cfg.TLSConfig == nil {
		return errors.New("redisserver: TLS address set without TLS config")
	}

	var lns []net.Listener
	bind := func(listen func() (net.Listener, error)) error {
		ln, err := listen()
		if err != nil {
			for _, l := range lns {
				_ = l.Close()
			}
			return err
		}
		lns = append(lns, ln)
		return nil
	}

	if s.cfg.Addr != "" {
		if err := bind(func() (net.Listener, error) { return net.Listen("tcp", s.cfg.Addr) }); err != nil {
			return err
		}
	}
	if s.cfg.TLSAddr != "" {
		if err := bind(func() (net.Listener, error) { return tls.Listen("tcp", s.cfg.TLSAddr, s.cfg.TLSConfig) }); err != nil {
			return err
		}
	}
	if s.cfg.UnixSocket != "" {
		if err := bind(func() (net.Listener, error) { return listenUnix(s.cfg.UnixSocket) }); err != nil {
			return err
		}
	}

	s.running.Store(true)
	for _, ln := range lns {
		s.Serve(ctx, ln)
	}
	return nil
}

// listenUnix binds path, replacing a stale socket file. A path held by a
// live server or by a regular file is an error.
func listenUnix(path string) (net.Listener, error) {
	if fi, err := os.Lstat(path); err == nil {
		if fi.Mode()&os.ModeSocket == 0 {
			return nil, fmt.Errorf("redisserver: %s exists and is not a socket", path)
		}
		if c, err := net.DialTimeout("unix", path, time.Second); err == nil {
			_ = c.Close()
			return nil, fmt.Errorf("redisserver: %s is in use", path)
		}
		if err := os.Remove(path); err != nil {
			return nil, err
		}
	}
	return net.Listen("unix", path)
}

// Serve accepts connections from ln in the background until Shutdown.
func (s *Server) Serve(ctx context.Context, ln net.Listener) {
	s.running.Store(true)

	s.mu.Lock()
	s.listeners = append(s.listeners, ln)
	s.mu.Unlock()

	s.logger.Info("redis server listening", "address", ln.Addr().String())

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.acceptLoop(ctx, ln); err != nil && s.running.Load() {
			s.logger.Error("redis accept loop stopped", "address", ln.Addr().String(), "error", err)
		}
	}()
}

// Addrs returns the bound listener addresses.
func (s *Server) Addrs() []net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()

	addrs := make([]net.Addr, 0, len(s.listeners))
	for _, ln := range s.listeners {
		addrs = append(addrs, ln.Addr())
	}
	return addrs
}

// ActiveConnections returns the number of open connections.
func (s *Server) ActiveConnections() int {
	return int(s.active.Load())
}

// Shutdown closes the listeners and all open connections, then waits for
// their goroutines to exit or ctx to end.
func (s *Server) Shutdown(ctx context.Context) error {
	s.running.Store(false)

	var firstErr error

	s.mu.Lock()
	for _, ln := range s.listeners {
		if err := ln.Close(); err != nil && !errors.Is(err, net.ErrClosed) && firstErr == nil {
			firstErr = err
		}
	}
	s.listeners = nil
	for c := range s.conns {
		_ = c.Close()
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	return firstErr
}

func (s *Server) acceptLoop(ctx context.Context, ln net.Listener) error {
	for {
		nc, err := ln.Accept()
		if err != nil {
			if !s.running.Load() || errors.Is(err, net.ErrClosed) {
				return nil
			}
			select {
			case <-ctx.Done():
				return nil
			default:
			}
			return err
		}

		if limit := s.cfg.MaxConnections; limit > 0 && s.active.Load() >= int64(limit) {
			s.reject(nc)
			continue
		}

		id := ulid.Make().String()
		l := s.logger.With("conn_id", id, "remote", remoteAddr(nc))
		cctx := logger.WithLogger(logger.WithConnID(ctx, id), l)
		c := newConn(cctx, id, nc)

		if !s.track(c) {
			_ = nc.Close()
			return nil
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer s.untrack(c)
			s.serveConn(c)
		}()
	}
}

// reject answers a connection over the limit with an error and closes it.
func (s *Server) reject(nc net.Conn) {
	s.logger.Warn("connection rejected", "remote", remoteAddr(nc), "reason", "max connections")
	_ = nc.SetWriteDeadline(time.Now().Add(s.writeTimeout()))
	_, _ = errorReply(domain.ErrTooManyConnections).WriteTo(nc)
	_ = nc.Close()
}

// track registers c unless the server is shutting down.
func (s *Server) track(c *conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running.Load() {
		return false
	}
	s.conns[c] = struct{}{}
	s.active.Add(1)
	s.metrics.ConnectionsActive.Inc()
	s.metrics.ConnectionsTotal.Inc()
	return true
}

func (s *Server) untrack(c *conn) {
	s.mu.Lock()
	delete(s.conns, c)
	s.mu.Unlock()

	s.active.Add(-1)
	s.metrics.ConnectionsActive.Dec()
}

func (s *Server) readTimeout() time.Duration {
	if s.cfg.ReadTimeout > 0 {
		return s.cfg.ReadTimeout
	}
	return 30 * time.Second
}

func (s *Server) writeTimeout() time.Duration {
	if s.cfg.WriteTimeout > 0 {
		return s.cfg.WriteTimeout
	}
	return 30 * time.Second
}

func (s *Server) idleTimeout() time.Duration {
	if s.cfg.IdleTimeout > 0 {
		return s.cfg.IdleTimeout
	}
	return 5 * time.Minute
}

// serveConn runs the connection loop until the peer closes, QUIT is
// processed, an I/O error occurs or a frame exceeds the protocol limits.
func (s *Server) serveConn(c *conn) {
	defer c.Close()

	l := logger.FromContext(c.ctx)
	l.Debug("connection opened")

	readTimeout, writeTimeout, idleTimeout := s.readTimeout(), s.writeTimeout(), s.idleTimeout()

	for {
		// Decode every complete frame already buffered before reading again.
		v, n, err := resp.Decode(c.pending())
		switch {
		case err == nil:
			c.consume(n)
			quit := s.dispatch(c, v, writeTimeout)
			if quit {
				_ = c.flush(writeTimeout)
				l.Debug("connection closed", "reason", "quit")
				return
			}
			continue

		case errors.Is(err, resp.ErrLimitExceeded):
			s.metrics.ProtocolErrors.WithLabelValues("limit").Inc()
			l.Warn("protocol limit exceeded", "error", err)
			_ = c.writeReply(errorReply(domain.ErrProtocol.WithDetails(err.Error())), writeTimeout)
			_ = c.flush(writeTimeout)
			return

		case resp.IsMalformed(err):
			s.metrics.ProtocolErrors.WithLabelValues("malformed").Inc()
			dropped := c.resync()
			l.Warn("malformed request", "error", err, "discarded", dropped)
			if err := c.writeReply(errorReply(domain.ErrProtocol.WithDetails(err.Error())), writeTimeout); err != nil {
				return
			}
			// Requests pipelined behind the bad frame are still answered.
			continue
		}

		// Incomplete: send what is queued, then wait for more bytes.
		if err := c.flush(writeTimeout); err != nil {
			l.Debug("write failed", "error", err)
			return
		}
		if err := c.fill(idleTimeout, readTimeout); err != nil {
			s.logReadEnd(l, c, err)
			return
		}
	}
}

// dispatch translates and executes one request and queues its reply.
// It reports whether the connection must close after the reply.
func (s *Server) dispatch(c *conn, v resp.Value, writeTimeout time.Duration) (quit bool) {
	cmd, err := ToCommand(v)
	if err != nil {
		s.metrics.CommandsTotal.WithLabelValues("invalid", metric.ResultError).Inc()
		logger.FromContext(c.ctx).Debug("invalid request", "error", err)
		return c.writeReply(errorReply(err), writeTimeout) != nil
	}

	if err := s.limiter.Allow(c.ip); err != nil {
		s.metrics.CommandsTotal.WithLabelValues(cmd.Kind.String(), metric.ResultError).Inc()
		return c.writeReply(errorReply(err), writeTimeout) != nil
	}

	start := time.Now()
	reply, err := handlers[cmd.Kind](c.ctx, s.kv, cmd.Args)
	s.metrics.CommandDuration.WithLabelValues(cmd.Kind.String()).Observe(time.Since(start).Seconds())

	result := metric.ResultOK
	if err != nil {
		result = metric.ResultError
		reply = errorReply(err)
	}
	s.metrics.CommandsTotal.WithLabelValues(cmd.Kind.String(), result).Inc()

	if err := c.writeReply(reply, writeTimeout); err != nil {
		return true
	}
	return cmd.Kind == CmdQuit
}

func (s *Server) logReadEnd(l logger.Logger, c *conn, err error) {
	var netErr net.Error
	switch {
	case errors.Is(err, io.EOF):
		if len(c.pending()) > 0 {
			l.Debug("connection closed mid-frame", "pending", len(c.pending()))
			return
		}
		l.Debug("connection closed")
	case errors.As(err, &netErr) && netErr.Timeout():
		l.Debug("connection timed out")
	case errors.Is(err, net.ErrClosed) || c.closed.Load():
		l.Debug("connection closed by server")
	default:
		l.Debug("connection read error", "error", err)
	}
}
