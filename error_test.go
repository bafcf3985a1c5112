package multiwrite

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"syscall"
	"testing"

	"github.com/redis/go-redis/v9"
)

func TestIsConnectivityError(t *testing.T) {
	dialErr := &net.OpError{Op: "dial", Net: "tcp", Err: syscall.ECONNREFUSED}
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"dial refused", dialErr, true},
		{"wrapped dial refused", fmt.Errorf("attempt failed: %w", dialErr), true},
		{"raw econnreset", syscall.ECONNRESET, true},
		{"eof", io.EOF, true},
		{"client closed", redis.ErrClosed, true},
		{"redis nil reply", redis.Nil, false},
		{"context canceled", context.Canceled, false},
		{"context deadline", context.DeadlineExceeded, false},
		{"plain error", errors.New("boom"), false},
	}
	for _, tc := range cases {
		if got := isConnectivityError(tc.err); got != tc.want {
			t.Errorf("%s: isConnectivityError = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestTooManyRetriesError(t *testing.T) {
	inner := errors.New("connection refused")
	err := &TooManyRetriesError{Host: "replica1:6379", Err: inner}
	if !errors.Is(err, inner) {
		t.Errorf("Unwrap should expose the last connectivity error")
	}
	if msg := err.Error(); msg != "too many retries against replica1:6379: connection refused" {
		t.Errorf("unexpected message: %s", msg)
	}
}

func TestUnsupportedCommandError(t *testing.T) {
	err := &UnsupportedCommandError{Name: "FROB"}
	if msg := err.Error(); msg != `unsupported command "FROB"` {
		t.Errorf("unexpected message: %s", msg)
	}
}
