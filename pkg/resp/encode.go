package resp

import (
	"io"
	"strconv"
)

const crlf = "\r\n"

// Encode returns the wire bytes of v.
func Encode(v Value) []byte {
	return v.AppendTo(make([]byte, 0, v.encodedLenHint()))
}

// AppendTo appends the wire bytes of v to dst and returns the extended slice.
func (v Value) AppendTo(dst []byte) []byte {
	switch v.Kind {
	case KindNullBulkString:
		return append(dst, "$-1\r\n"...)
	case KindNullArray:
		return append(dst, "*-1\r\n"...)
	case KindSimpleString:
		dst = append(dst, '+')
		dst = append(dst, v.Str...)
		return append(dst, crlf...)
	case KindError:
		dst = append(dst, '-')
		dst = append(dst, v.Str...)
		return append(dst, crlf...)
	case KindInteger:
		dst = append(dst, ':')
		dst = strconv.AppendInt(dst, v.Int, 10)
		return append(dst, crlf...)
	case KindBulkString:
		dst = append(dst, '$')
		dst = strconv.AppendInt(dst, int64(len(v.Str)), 10)
		dst = append(dst, crlf...)
		dst = append(dst, v.Str...)
		return append(dst, crlf...)
	case KindArray:
		dst = append(dst, '*')
		dst = strconv.AppendInt(dst, int64(len(v.Elems)), 10)
		dst = append(dst, crlf...)
		for _, e := range v.Elems {
			dst = e.AppendTo(dst)
		}
		return dst
	default:
		// The zero Value has no variant; encode it as a null bulk string
		// so that Encode stays total.
		return append(dst, "$-1\r\n"...)
	}
}

// WriteTo writes the wire bytes of v to w.
func (v Value) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(Encode(v))
	return int64(n), err
}

func (v Value) encodedLenHint() int {
	switch v.Kind {
	case KindBulkString:
		return len(v.Str) + 16
	case KindArray:
		n := 16
		for _, e := range v.Elems {
			n += e.encodedLenHint()
		}
		return n
	default:
		return len(v.Str) + 24
	}
}
