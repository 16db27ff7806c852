package resp

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
)

// Protocol limits. Inputs beyond them are rejected as malformed rather than
// buffered indefinitely.
const (
	// MaxArrayLen limits the number of elements in one array.
	MaxArrayLen = 1024 * 1024

	// MaxBulkLen limits the payload of one bulk string (512MB, same as Redis).
	MaxBulkLen = 512 * 1024 * 1024

	// MaxLineLen limits header lines, simple strings, errors and integers.
	MaxLineLen = 64 * 1024

	// MaxDepth limits array nesting.
	MaxDepth = 32
)

var (
	// ErrIncomplete means the buffer holds a valid prefix of a frame and more
	// bytes are required. Nothing was consumed.
	ErrIncomplete = errors.New("resp: incomplete frame")

	// ErrProtocol means the buffer can never become a valid frame.
	ErrProtocol = errors.New("resp: protocol error")

	// ErrLimitExceeded means a frame declares a size beyond the protocol limits.
	ErrLimitExceeded = errors.New("resp: limit exceeded")
)

// IsMalformed reports whether err is a decode failure that more bytes cannot fix.
func IsMalformed(err error) bool {
	return errors.Is(err, ErrProtocol) || errors.Is(err, ErrLimitExceeded)
}

// Decode parses the first frame in buf.
//
// On success it returns the value and the exact number of bytes the frame
// occupies. On failure it returns zero bytes consumed and an error wrapping
// ErrIncomplete, ErrProtocol or ErrLimitExceeded.
func Decode(buf []byte) (Value, int, error) {
	v, n, err := decode(buf, 0)
	if err != nil {
		return Value{}, 0, err
	}
	return v, n, nil
}

func decode(buf []byte, depth int) (Value, int, error) {
	if len(buf) == 0 {
		return Value{}, 0, ErrIncomplete
	}

	switch buf[0] {
	case '+':
		line, n, err := readLine(buf[1:])
		if err != nil {
			return Value{}, 0, err
		}
		return SimpleString(string(line)), n + 1, nil
	case '-':
		line, n, err := readLine(buf[1:])
		if err != nil {
			return Value{}, 0, err
		}
		return Error(string(line)), n + 1, nil
	case ':':
		line, n, err := readLine(buf[1:])
		if err != nil {
			return Value{}, 0, err
		}
		i, err := parseInt(line, "integer")
		if err != nil {
			return Value{}, 0, err
		}
		return Integer(i), n + 1, nil
	case '$':
		return decodeBulk(buf)
	case '*':
		return decodeArray(buf, depth)
	default:
		return Value{}, 0, fmt.Errorf("%w: unexpected type byte %q", ErrProtocol, buf[0])
	}
}

func decodeBulk(buf []byte) (Value, int, error) {
	line, hdr, err := readLine(buf[1:])
	if err != nil {
		return Value{}, 0, err
	}
	hdr++ // type byte

	size, err := parseInt(line, "bulk length")
	if err != nil {
		return Value{}, 0, err
	}
	switch {
	case size == -1:
		return NullBulkString(), hdr, nil
	case size < 0:
		return Value{}, 0, fmt.Errorf("%w: invalid bulk length %d", ErrProtocol, size)
	case size > MaxBulkLen:
		return Value{}, 0, fmt.Errorf("%w: bulk length %d exceeds limit %d", ErrLimitExceeded, size, MaxBulkLen)
	}

	end := hdr + int(size)
	if len(buf) < end+2 {
		return Value{}, 0, ErrIncomplete
	}
	if buf[end] != '\r' || buf[end+1] != '\n' {
		return Value{}, 0, fmt.Errorf("%w: invalid bulk terminator", ErrProtocol)
	}
	return BulkString(string(buf[hdr:end])), end + 2, nil
}

func decodeArray(buf []byte, depth int) (Value, int, error) {
	if depth >= MaxDepth {
		return Value{}, 0, fmt.Errorf("%w: array nesting exceeds %d", ErrLimitExceeded, MaxDepth)
	}

	line, off, err := readLine(buf[1:])
	if err != nil {
		return Value{}, 0, err
	}
	off++ // type byte

	count, err := parseInt(line, "array length")
	if err != nil {
		return Value{}, 0, err
	}
	switch {
	case count == -1:
		return NullArray(), off, nil
	case count < 0:
		return Value{}, 0, fmt.Errorf("%w: invalid array length %d", ErrProtocol, count)
	case count > MaxArrayLen:
		return Value{}, 0, fmt.Errorf("%w: array length %d exceeds limit %d", ErrLimitExceeded, count, MaxArrayLen)
	}

	// Do not trust the declared count for the allocation; elements are
	// only appended once they are actually present.
	elems := make([]Value, 0, min(int(count), 16))
	for i := int64(0); i < count; i++ {
		v, n, err := decode(buf[off:], depth+1)
		if err != nil {
			return Value{}, 0, err
		}
		elems = append(elems, v)
		off += n
	}
	return Array(elems...), off, nil
}

// readLine returns the bytes before the first CRLF and the number of bytes
// consumed including the CRLF.
func readLine(buf []byte) ([]byte, int, error) {
	i := bytes.Index(buf, []byte(crlf))
	if i < 0 {
		if len(buf) > MaxLineLen {
			return nil, 0, fmt.Errorf("%w: line length exceeds limit %d", ErrLimitExceeded, MaxLineLen)
		}
		return nil, 0, ErrIncomplete
	}
	if i > MaxLineLen {
		return nil, 0, fmt.Errorf("%w: line length exceeds limit %d", ErrLimitExceeded, MaxLineLen)
	}
	return buf[:i], i + 2, nil
}

func parseInt(b []byte, what string) (int64, error) {
	n, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid %s %q", ErrProtocol, what, b)
	}
	return n, nil
}
