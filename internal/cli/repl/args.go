package repl

import (
	"errors"
	"strconv"
	"strings"
)

// ErrUnbalancedQuotes is returned for a line with an unterminated quote.
var ErrUnbalancedQuotes = errors.New("unbalanced quotes")

// SplitArgs splits a line into arguments. Double quotes support the escapes
// \n \r \t \" \\ and \xHH; single quotes are literal except for \'.
// An argument may be empty when written as "" or ''.
func SplitArgs(line string) ([]string, error) {
	var (
		args    []string
		cur     strings.Builder
		inArg   bool
		quote   byte
		escaped bool
	)

	for i := 0; i < len(line); i++ {
		c := line[i]

		switch {
		case quote == '"' && escaped:
			escaped = false
			switch c {
			case 'n':
				cur.WriteByte('\n')
			case 'r':
				cur.WriteByte('\r')
			case 't':
				cur.WriteByte('\t')
			case 'x':
				if i+2 < len(line) {
					if b, err := strconv.ParseUint(line[i+1:i+3], 16, 8); err == nil {
						cur.WriteByte(byte(b))
						i += 2
						continue
					}
				}
				cur.WriteByte('x')
			default:
				cur.WriteByte(c)
			}
		case quote == '\'' && escaped:
			escaped = false
			if c != '\'' {
				cur.WriteByte('\\')
			}
			cur.WriteByte(c)
		case quote != 0 && c == '\\':
			escaped = true
		case quote != 0 && c == quote:
			quote = 0
			// A closing quote must end the argument.
			if i+1 < len(line) && !isSpace(line[i+1]) {
				return nil, ErrUnbalancedQuotes
			}
		case quote != 0:
			cur.WriteByte(c)
		case c == '"' || c == '\'':
			quote = c
			inArg = true
		case isSpace(c):
			if inArg {
				args = append(args, cur.String())
				cur.Reset()
				inArg = false
			}
		default:
			cur.WriteByte(c)
			inArg = true
		}
	}

	if quote != 0 {
		return nil, ErrUnbalancedQuotes
	}
	if inArg {
		args = append(args, cur.String())
	}
	return args, nil
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
