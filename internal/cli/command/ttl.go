package command

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

var ttlUnits = []struct {
	suffix string
	unit   time.Duration
}{
	// "ms" must be tried before "s" and "m".
	{"ms", time.Millisecond},
	{"s", time.Second},
	{"m", time.Minute},
	{"h", time.Hour},
	{"d", 24 * time.Hour},
}

// ParseTTL parses a TTL such as "90" (seconds), "1500ms", "30s", "5m", "2h"
// or "1d". The result must be positive.
func ParseTTL(s string) (time.Duration, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return 0, fmt.Errorf("empty ttl")
	}

	unit := time.Second
	num := s
	for _, u := range ttlUnits {
		if strings.HasSuffix(s, u.suffix) {
			unit = u.unit
			num = strings.TrimSuffix(s, u.suffix)
			break
		}
	}

	n, err := strconv.ParseInt(num, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid ttl %q", s)
	}
	if n <= 0 {
		return 0, fmt.Errorf("ttl must be positive, got %q", s)
	}
	if n > int64(time.Duration(1<<63-1)/unit) {
		return 0, fmt.Errorf("ttl %q is too large", s)
	}
	return time.Duration(n) * unit, nil
}

// setArgs builds the SET command. Whole-second TTLs use EX; anything with
// a sub-second part uses PX.
func setArgs(key, value string, ttl time.Duration) []string {
	args := []string{"SET", key, value}
	switch {
	case ttl <= 0:
	case ttl%time.Second == 0:
		args = append(args, "EX", strconv.FormatInt(int64(ttl/time.Second), 10))
	default:
		args = append(args, "PX", strconv.FormatInt(ttl.Milliseconds(), 10))
	}
	return args
}
