package output

import "github.com/yndnr/kiwi/pkg/resp"

// Reply type names.
const (
	TypeString  = "string"
	TypeBulk    = "bulk"
	TypeNil     = "nil"
	TypeInteger = "integer"
	TypeError   = "error"
	TypeArray   = "array"
)

// Reply is a format-neutral view of a server reply.
type Reply struct {
	Type string `json:"type" yaml:"type"`
	// Value is a string, an int64, nil, or []Reply for arrays.
	Value any `json:"value" yaml:"value"`
}

// FromValue converts a decoded reply.
func FromValue(v resp.Value) Reply {
	switch v.Kind {
	case resp.KindSimpleString:
		return Reply{Type: TypeString, Value: v.Str}
	case resp.KindBulkString:
		return Reply{Type: TypeBulk, Value: v.Str}
	case resp.KindInteger:
		return Reply{Type: TypeInteger, Value: v.Int}
	case resp.KindError:
		return Reply{Type: TypeError, Value: v.Str}
	case resp.KindArray:
		elems := make([]Reply, len(v.Elems))
		for i, e := range v.Elems {
			elems[i] = FromValue(e)
		}
		return Reply{Type: TypeArray, Value: elems}
	default:
		return Reply{Type: TypeNil}
	}
}

// IsError reports whether the reply is an error reply.
func (r Reply) IsError() bool {
	return r.Type == TypeError
}
