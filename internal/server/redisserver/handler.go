package redisserver

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/yndnr/kiwi/internal/core/domain"
	"github.com/yndnr/kiwi/internal/core/service"
	"github.com/yndnr/kiwi/pkg/resp"
)

// handlerFunc executes one command. A returned error becomes an Error reply.
type handlerFunc func(ctx context.Context, kv *service.KVService, args []string) (resp.Value, error)

var handlers = [numCommandKinds]handlerFunc{
	CmdGet:  handleGet,
	CmdSet:  handleSet,
	CmdDel:  handleDel,
	CmdPing: handlePing,
	CmdEcho: handleEcho,
	CmdQuit: handleQuit,
}

func handleGet(ctx context.Context, kv *service.KVService, args []string) (resp.Value, error) {
	entry, err := kv.Get(ctx, args[0])
	if err != nil {
		if errors.Is(err, domain.ErrKeyNotFound) {
			return resp.NullBulkString(), nil
		}
		return resp.Value{}, err
	}
	return resp.BulkString(entry.Value), nil
}

func handleSet(ctx context.Context, kv *service.KVService, args []string) (resp.Value, error) {
	ttl, err := parseSetOptions(args[2:])
	if err != nil {
		return resp.Value{}, err
	}
	if _, err := kv.Set(ctx, args[0], args[1], ttl); err != nil {
		return resp.Value{}, err
	}
	return resp.SimpleString("OK"), nil
}

// parseSetOptions parses the optional "EX seconds" or "PX milliseconds" pair.
func parseSetOptions(opts []string) (time.Duration, error) {
	if len(opts) == 0 {
		return 0, nil
	}
	if len(opts) != 2 {
		return 0, domain.ErrInvalidArgument.WithDetails("syntax error")
	}

	var unit time.Duration
	switch strings.ToUpper(opts[0]) {
	case "EX":
		unit = time.Second
	case "PX":
		unit = time.Millisecond
	default:
		return 0, domain.ErrInvalidArgument.WithDetails("syntax error")
	}

	n, err := strconv.ParseInt(opts[1], 10, 64)
	if err != nil || n <= 0 || n > math.MaxInt64/int64(unit) {
		return 0, domain.ErrInvalidArgument.WithDetails("invalid expire time in 'set' command")
	}
	return time.Duration(n) * unit, nil
}

func handleDel(ctx context.Context, kv *service.KVService, args []string) (resp.Value, error) {
	n, err := kv.DeleteKeys(ctx, args...)
	if err != nil {
		return resp.Value{}, err
	}
	return resp.Integer(int64(n)), nil
}

func handlePing(_ context.Context, _ *service.KVService, args []string) (resp.Value, error) {
	if len(args) == 1 {
		return resp.BulkString(args[0]), nil
	}
	return resp.SimpleString("PONG"), nil
}

func handleEcho(_ context.Context, _ *service.KVService, args []string) (resp.Value, error) {
	if len(args) == 0 {
		return resp.NullBulkString(), nil
	}
	return resp.BulkString(args[0]), nil
}

// handleQuit only acknowledges; the connection loop closes after the reply.
func handleQuit(context.Context, *service.KVService, []string) (resp.Value, error) {
	return resp.SimpleString("OK"), nil
}

// formatRedisError converts an error to a Redis error string.
// For DomainErrors, returns "ERR <code> <message>[: <details>]".
// For other errors, returns "ERR <message>".
// Line breaks are replaced so the reply stays a single line.
func formatRedisError(err error) string {
	var msg string
	if de, ok := domain.AsDomainError(err); ok {
		msg = "ERR " + de.Code + " " + de.Message
		if de.Details != "" {
			msg += ": " + de.Details
		}
	} else {
		msg = "ERR " + err.Error()
	}
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(msg)
}

// errorReply converts err into an Error value.
func errorReply(err error) resp.Value {
	return resp.Error(formatRedisError(err))
}
