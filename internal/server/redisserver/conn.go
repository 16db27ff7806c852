package redisserver

import (
	"bufio"
	"bytes"
	"context"
	"net"
	"sync/atomic"
	"time"

	"github.com/yndnr/kiwi/pkg/resp"
)

const (
	// minReadSize is the smallest free space offered to a socket read.
	minReadSize = 4096

	// maxIdleBufferSize bounds the buffer kept by an idle connection.
	// Larger buffers left over from big frames are released once drained.
	maxIdleBufferSize = 64 * 1024
)

// conn is the per-connection state of the loop.
type conn struct {
	id      string
	netConn net.Conn
	bw      *bufio.Writer
	ip      string
	ctx     context.Context

	// buf accumulates received bytes; the unconsumed part is buf[off:].
	buf []byte
	off int

	// frameDeadline bounds the time to receive the rest of a started frame.
	frameDeadline time.Time

	closed atomic.Bool
}

func newConn(ctx context.Context, id string, c net.Conn) *conn {
	ip := remoteAddr(c)
	if host, _, err := net.SplitHostPort(ip); err == nil {
		ip = host
	}
	return &conn{
		id:      id,
		netConn: c,
		bw:      bufio.NewWriter(c),
		ip:      ip,
		ctx:     ctx,
		buf:     make([]byte, 0, minReadSize),
	}
}

// remoteAddr returns the peer address. Unix socket peers are unnamed and
// all share the "local" rate limit bucket.
func remoteAddr(c net.Conn) string {
	if a := c.RemoteAddr(); a != nil && a.String() != "" {
		return a.String()
	}
	return "local"
}

// pending returns the received bytes not yet decoded.
func (c *conn) pending() []byte {
	return c.buf[c.off:]
}

// consume marks n pending bytes as decoded.
func (c *conn) consume(n int) {
	c.off += n
	c.frameDeadline = time.Time{}
	if c.off == len(c.buf) {
		c.discard()
	}
}

// discard drops all pending bytes.
func (c *conn) discard() {
	c.off = 0
	c.frameDeadline = time.Time{}
	if cap(c.buf) > maxIdleBufferSize {
		c.buf = make([]byte, 0, minReadSize)
		return
	}
	c.buf = c.buf[:0]
}

var arrayLineStart = []byte("\r\n*")

// resync drops a malformed frame: pending bytes up to the next line that
// opens an array, or everything when no such line is buffered. It returns
// the number of bytes dropped, which is always at least one.
func (c *conn) resync() int {
	p := c.pending()
	if i := bytes.Index(p, arrayLineStart); i >= 0 {
		c.consume(i + 2)
		return i + 2
	}
	n := len(p)
	c.discard()
	return n
}

// fill performs one read from the socket into the buffer. The deadline is
// the idle timeout when no frame has started, otherwise the frame deadline
// set when its first bytes arrived.
func (c *conn) fill(idleTimeout, readTimeout time.Duration) error {
	now := time.Now()
	deadline := now.Add(idleTimeout)
	if len(c.pending()) > 0 {
		if c.frameDeadline.IsZero() {
			c.frameDeadline = now.Add(readTimeout)
		}
		deadline = c.frameDeadline
	}
	if err := c.netConn.SetReadDeadline(deadline); err != nil {
		return err
	}

	c.reserve(minReadSize)

	n, err := c.netConn.Read(c.buf[len(c.buf):cap(c.buf)])
	c.buf = c.buf[:len(c.buf)+n]
	if n > 0 {
		return nil
	}
	return err
}

// reserve ensures at least n bytes of free capacity, compacting consumed
// bytes before growing.
func (c *conn) reserve(n int) {
	if cap(c.buf)-len(c.buf) >= n {
		return
	}
	if c.off > 0 {
		m := copy(c.buf, c.buf[c.off:])
		c.buf = c.buf[:m]
		c.off = 0
		if cap(c.buf)-len(c.buf) >= n {
			return
		}
	}
	grown := make([]byte, len(c.buf), 2*cap(c.buf)+n)
	copy(grown, c.buf)
	c.buf = grown
}

// flush writes buffered replies within the write timeout.
func (c *conn) flush(writeTimeout time.Duration) error {
	if c.bw.Buffered() == 0 {
		return nil
	}
	if err := c.netConn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	return c.bw.Flush()
}

func (c *conn) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	return c.netConn.Close()
}

// writeReply encodes v into the write buffer. The write deadline is set
// first because the buffer may spill to the socket.
func (c *conn) writeReply(v resp.Value, writeTimeout time.Duration) error {
	if err := c.netConn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	_, err := v.WriteTo(c.bw)
	return err
}
