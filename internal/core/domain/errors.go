// Package domain defines the core domain models for kiwi.
package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// DomainError is an error carrying a stable code of the form
// "KIWI-<AREA>-<nnnn>". The first three digits are the HTTP status the
// error maps to; the last one tells errors of the same status apart.
type DomainError struct {
	Code    string
	Message string
	Details string // request-specific context, may be empty
	Cause   error
}

func (e *DomainError) Error() string {
	if e.Details == "" {
		return "[" + e.Code + "] " + e.Message
	}
	return "[" + e.Code + "] " + e.Message + ": " + e.Details
}

func (e *DomainError) Unwrap() error { return e.Cause }

// Is matches on code, so errors.Is(err, ErrKeyNotFound) holds for any copy
// made by WithDetails or WithCause.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	return ok && t.Code == e.Code
}

// Status returns the HTTP status encoded in the code, or 500 when the code
// does not carry one.
func (e *DomainError) Status() int {
	i := strings.LastIndexByte(e.Code, '-')
	if i < 0 || len(e.Code)-i-1 != 4 {
		return 500
	}
	n, err := strconv.Atoi(e.Code[i+1 : len(e.Code)-1])
	if err != nil || n < 400 || n > 599 {
		return 500
	}
	return n
}

// NewDomainError creates a sentinel error.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

// WithDetails returns a copy with details set. The receiver is not changed.
func (e *DomainError) WithDetails(details string) *DomainError {
	c := *e
	c.Details = details
	return &c
}

func (e *DomainError) WithDetailsf(format string, args ...any) *DomainError {
	return e.WithDetails(fmt.Sprintf(format, args...))
}

// WithCause returns a copy wrapping cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	c := *e
	c.Cause = cause
	return &c
}

// AsDomainError finds the first DomainError in err's chain.
func AsDomainError(err error) (*DomainError, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// Key errors.
var (
	// ErrKeyNotFound indicates the key is absent.
	ErrKeyNotFound = NewDomainError("KIWI-KEY-4040", "key not found")

	// ErrKeyExpired indicates the key was present but past its expiry.
	// It never reaches clients; the service layer reports it as ErrKeyNotFound.
	ErrKeyExpired = NewDomainError("KIWI-KEY-4041", "key expired")
)

// Request errors.
var (
	// ErrProtocol indicates malformed wire input.
	ErrProtocol = NewDomainError("KIWI-PROTO-4000", "protocol error")

	// ErrInvalidArgument indicates a well-formed request with the wrong shape
	// or an unparseable argument.
	ErrInvalidArgument = NewDomainError("KIWI-ARG-4001", "invalid argument")

	// ErrUnknownCommand indicates a command name outside the supported set.
	ErrUnknownCommand = NewDomainError("KIWI-ARG-4002", "unknown command")

	// ErrRateLimited indicates the client exceeded its request rate.
	ErrRateLimited = NewDomainError("KIWI-RATE-4290", "rate limit exceeded")

	// ErrTooManyConnections indicates the server connection limit was reached.
	ErrTooManyConnections = NewDomainError("KIWI-CONN-5030", "max number of clients reached")
)

// System errors.
var (
	// ErrInternal indicates an I/O failure or other unexpected condition.
	ErrInternal = NewDomainError("KIWI-SYS-5000", "internal error")

	// ErrUnavailable indicates the server is draining and refuses new work.
	ErrUnavailable = NewDomainError("KIWI-SYS-5030", "service unavailable")
)
