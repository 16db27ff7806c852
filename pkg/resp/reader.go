package resp

import (
	"errors"
	"io"
)

const defaultReadSize = 4096

// Reader yields one decoded frame at a time from a byte stream.
//
// Bytes beyond the current frame stay buffered, so pipelined replies are
// returned by subsequent ReadValue calls without further reads.
type Reader struct {
	rd      io.Reader
	buf     []byte
	scratch []byte
}

// NewReader returns a Reader reading from rd.
func NewReader(rd io.Reader) *Reader {
	return &Reader{
		rd:      rd,
		scratch: make([]byte, defaultReadSize),
	}
}

// ReadValue returns the next complete frame.
//
// io.EOF is returned only when the stream ends on a frame boundary; a stream
// that ends inside a frame yields io.ErrUnexpectedEOF.
func (r *Reader) ReadValue() (Value, error) {
	for {
		if len(r.buf) > 0 {
			v, n, err := Decode(r.buf)
			if err == nil {
				r.buf = r.buf[n:]
				return v, nil
			}
			if !errors.Is(err, ErrIncomplete) {
				return Value{}, err
			}
		}

		n, err := r.rd.Read(r.scratch)
		r.buf = append(r.buf, r.scratch[:n]...)
		if n > 0 {
			continue
		}
		if err != nil {
			if errors.Is(err, io.EOF) && len(r.buf) > 0 {
				return Value{}, io.ErrUnexpectedEOF
			}
			return Value{}, err
		}
	}
}

// Buffered returns the number of bytes read but not yet decoded.
func (r *Reader) Buffered() int {
	return len(r.buf)
}

// Reset discards buffered bytes and switches to reading from rd.
func (r *Reader) Reset(rd io.Reader) {
	r.rd = rd
	r.buf = r.buf[:0]
}
