package multiwrite

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"syscall"

	"github.com/redis/go-redis/v9"
)

// TooManyRetriesError is returned when a destination stayed unreachable past
// its retry budget. Err holds the last connectivity error observed against
// that destination.
type TooManyRetriesError struct {
	// Host is the destination's host label, for diagnostics.
	Host string
	Err  error
}

func (e *TooManyRetriesError) Error() string {
	return fmt.Sprintf("too many retries against %s: %v", e.Host, e.Err)
}

func (e *TooManyRetriesError) Unwrap() error { return e.Err }

// UnsupportedCommandError is returned when a command name is not part of the
// proxy's command table. No destination has been contacted when it is raised.
type UnsupportedCommandError struct {
	Name string
}

func (e *UnsupportedCommandError) Error() string {
	return fmt.Sprintf("unsupported command %q", e.Name)
}

// isConnectivityError reports whether the error is a transient connectivity
// failure worth retrying. Server replies (redis.Error) are never connectivity
// failures, even when they carry an error; context cancellations are
// permanent from the caller's POV.
func isConnectivityError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var redisErr redis.Error
	if errors.As(err, &redisErr) {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	switch {
	case errors.Is(err, io.EOF),
		errors.Is(err, io.ErrUnexpectedEOF),
		errors.Is(err, syscall.ECONNREFUSED),
		errors.Is(err, syscall.ECONNRESET),
		errors.Is(err, syscall.EPIPE),
		errors.Is(err, syscall.ETIMEDOUT),
		errors.Is(err, syscall.EHOSTUNREACH),
		errors.Is(err, syscall.ENETUNREACH):
		return true
	}
	return errors.Is(err, redis.ErrClosed)
}
