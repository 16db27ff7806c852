package connection

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/yndnr/kiwi/pkg/resp"
)

// ErrClosed is returned by Do after Close.
var ErrClosed = errors.New("connection closed")

// Client sends commands over a single connection and reads one reply per
// command. It is not safe for concurrent use.
type Client struct {
	conn    net.Conn
	reader  *resp.Reader
	timeout time.Duration
	addr    string
}

// Dial connects to addr. A nil tlsConfig dials plain TCP. timeout bounds
// the dial and every subsequent request (0 = no limit).
func Dial(ctx context.Context, addr string, timeout time.Duration, tlsConfig *tls.Config) (*Client, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	var (
		conn net.Conn
		err  error
	)
	if tlsConfig != nil {
		d := &tls.Dialer{Config: tlsConfig}
		conn, err = d.DialContext(ctx, "tcp", addr)
	} else {
		var d net.Dialer
		conn, err = d.DialContext(ctx, "tcp", addr)
	}
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}

	return &Client{
		conn:    conn,
		reader:  resp.NewReader(conn),
		timeout: timeout,
		addr:    addr,
	}, nil
}

// Addr returns the server address.
func (c *Client) Addr() string {
	return c.addr
}

// Do sends args as a RESP array of bulk strings and returns the reply.
// An error reply from the server is returned as a Value of KindError with
// a nil error; a non-nil error means the connection is unusable.
func (c *Client) Do(ctx context.Context, args ...string) (resp.Value, error) {
	if c.conn == nil {
		return resp.Value{}, ErrClosed
	}
	if len(args) == 0 {
		return resp.Value{}, errors.New("empty command")
	}

	deadline, ok := ctx.Deadline()
	if c.timeout > 0 {
		if d := time.Now().Add(c.timeout); !ok || d.Before(deadline) {
			deadline, ok = d, true
		}
	}
	if ok {
		if err := c.conn.SetDeadline(deadline); err != nil {
			return resp.Value{}, err
		}
	}

	if _, err := resp.BulkStrings(args...).WriteTo(c.conn); err != nil {
		return resp.Value{}, fmt.Errorf("send: %w", err)
	}

	v, err := c.reader.ReadValue()
	if err != nil {
		return resp.Value{}, fmt.Errorf("read reply: %w", err)
	}
	return v, nil
}

// Close closes the connection.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}
