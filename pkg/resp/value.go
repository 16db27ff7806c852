package resp

import (
	"strconv"
	"strings"
)

// Kind discriminates the variants of Value.
type Kind uint8

const (
	KindNullBulkString Kind = iota + 1
	KindNullArray
	KindSimpleString
	KindBulkString
	KindArray
	KindError
	KindInteger
)

var kindNames = map[Kind]string{
	KindNullBulkString: "null-bulk-string",
	KindNullArray:      "null-array",
	KindSimpleString:   "simple-string",
	KindBulkString:     "bulk-string",
	KindArray:          "array",
	KindError:          "error",
	KindInteger:        "integer",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Value is one protocol-level datum.
//
// Only the field matching Kind is meaningful: Str for simple strings, bulk
// strings and errors, Int for integers, Elems for arrays. Use the
// constructors below instead of building a Value by hand.
type Value struct {
	Kind  Kind
	Str   string
	Int   int64
	Elems []Value
}

// NullBulkString returns the "$-1" value.
func NullBulkString() Value { return Value{Kind: KindNullBulkString} }

// NullArray returns the "*-1" value.
func NullArray() Value { return Value{Kind: KindNullArray} }

// SimpleString returns a "+" value. s must not contain CR or LF.
func SimpleString(s string) Value { return Value{Kind: KindSimpleString, Str: s} }

// BulkString returns a length-prefixed "$" value. s may hold any bytes.
func BulkString(s string) Value { return Value{Kind: KindBulkString, Str: s} }

// Error returns a "-" value. s must not contain CR or LF.
func Error(s string) Value { return Value{Kind: KindError, Str: s} }

// Integer returns a ":" value.
func Integer(n int64) Value { return Value{Kind: KindInteger, Int: n} }

// Array returns a "*" value holding elems in order.
// A nil or empty elems encodes as an empty array, never as a null array.
func Array(elems ...Value) Value {
	if elems == nil {
		elems = []Value{}
	}
	return Value{Kind: KindArray, Elems: elems}
}

// BulkStrings builds an array of bulk strings, the shape of every client request.
func BulkStrings(args ...string) Value {
	elems := make([]Value, len(args))
	for i, a := range args {
		elems[i] = BulkString(a)
	}
	return Array(elems...)
}

// Text returns the payload of a string-bearing value (simple or bulk string).
func (v Value) Text() (string, bool) {
	switch v.Kind {
	case KindSimpleString, KindBulkString:
		return v.Str, true
	default:
		return "", false
	}
}

// IsNull reports whether v is a null bulk string or a null array.
func (v Value) IsNull() bool {
	return v.Kind == KindNullBulkString || v.Kind == KindNullArray
}

// Equal reports whether v and o are the same variant with the same payload.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindSimpleString, KindBulkString, KindError:
		return v.Str == o.Str
	case KindInteger:
		return v.Int == o.Int
	case KindArray:
		if len(v.Elems) != len(o.Elems) {
			return false
		}
		for i := range v.Elems {
			if !v.Elems[i].Equal(o.Elems[i]) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// String renders v for logs and test failures, not for the wire.
func (v Value) String() string {
	switch v.Kind {
	case KindNullBulkString, KindNullArray:
		return "(nil)"
	case KindSimpleString:
		return v.Str
	case KindBulkString:
		return strconv.Quote(v.Str)
	case KindError:
		return "(error) " + v.Str
	case KindInteger:
		return "(integer) " + strconv.FormatInt(v.Int, 10)
	case KindArray:
		parts := make([]string, len(v.Elems))
		for i, e := range v.Elems {
			parts[i] = e.String()
		}
		return "[" + strings.Join(parts, " ") + "]"
	default:
		return v.Kind.String()
	}
}
