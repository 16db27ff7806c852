// Package resp implements the RESP2 wire format used by kiwi.
//
// It is split into three pieces:
//
//   - value.go: the Value tagged union (null bulk, null array, simple string,
//     bulk string, array, error, integer)
//   - encode.go: Value to bytes (total, never fails)
//   - decode.go: bytes to Value with a tri-state result
//
// Decode never performs I/O. Callers accumulate bytes themselves and call
// Decode again when it reports ErrIncomplete:
//
//	v, n, err := resp.Decode(buf)
//	switch {
//	case err == nil:
//		buf = buf[n:] // consume exactly one frame
//	case errors.Is(err, resp.ErrIncomplete):
//		// read more bytes and retry
//	default:
//		// malformed input (ErrProtocol or ErrLimitExceeded)
//	}
//
// Reader wraps that loop around an io.Reader for clients.
package resp
