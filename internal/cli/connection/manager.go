package connection

import (
	"context"
	"crypto/tls"
	"net"
	"strings"
	"time"

	"github.com/yndnr/kiwi/internal/infra/tlsroots"
	"github.com/yndnr/kiwi/pkg/resp"
)

// Connection describes how to reach a kiwi server.
type Connection struct {
	Server  string
	Timeout time.Duration
	TLS     bool
	// InsecureSkipVerify disables certificate checks when TLS is set.
	InsecureSkipVerify bool
	// CAFile is a PEM bundle of trusted roots. Empty uses the system roots.
	CAFile string
}

// Manager owns the CLI's connection. It dials on first use and redials
// after a transport failure.
type Manager struct {
	conn   Connection
	client *Client
}

// NewManager creates a new connection manager for conn.
func NewManager(conn Connection) *Manager {
	return &Manager{conn: conn}
}

// Current returns the connection settings.
func (m *Manager) Current() Connection {
	return m.conn
}

// IsConnected returns true if a connection is open.
func (m *Manager) IsConnected() bool {
	return m.client != nil
}

// Do runs one command, dialing first if needed. A transport error drops the
// connection so the next call starts fresh.
func (m *Manager) Do(ctx context.Context, args ...string) (resp.Value, error) {
	if m.client == nil {
		tlsCfg, err := m.tlsConfig()
		if err != nil {
			return resp.Value{}, err
		}
		c, err := Dial(ctx, m.conn.Server, m.conn.Timeout, tlsCfg)
		if err != nil {
			return resp.Value{}, err
		}
		m.client = c
	}

	v, err := m.client.Do(ctx, args...)
	if err != nil {
		m.Disconnect()
		return resp.Value{}, err
	}
	if len(args) > 0 && strings.EqualFold(args[0], "QUIT") {
		m.Disconnect()
	}
	return v, nil
}

// Disconnect closes the current connection, if any.
func (m *Manager) Disconnect() {
	if m.client != nil {
		_ = m.client.Close()
		m.client = nil
	}
}

func (m *Manager) tlsConfig() (*tls.Config, error) {
	if !m.conn.TLS {
		return nil, nil
	}
	host, _, err := net.SplitHostPort(m.conn.Server)
	if err != nil {
		host = m.conn.Server
	}
	return tlsroots.ClientConfig(host, m.conn.CAFile, m.conn.InsecureSkipVerify)
}
