package mocks

import (
	"context"
	"fmt"
	"net"
	"strings"
	"sync"
	"syscall"

	"github.com/sharedcode/multiwrite"
)

// ErrConnRefused is the connectivity error broken mock connections fail with.
var ErrConnRefused = &net.OpError{Op: "dial", Net: "tcp", Err: syscall.ECONNREFUSED}

// ServerError is a Redis server reply error: a store error, never retried.
type ServerError string

func (e ServerError) Error() string { return string(e) }

// RedisError marks the type as a server reply for go-redis error
// classification.
func (ServerError) RedisError() {}

// Conn is an in-memory stand-in for a Redis connection. It records every
// operation it sees and can be scripted to fail its first FailTimes
// executions with a connectivity error, to stay broken for good, or to reply
// with a fixed error.
type Conn struct {
	addr string

	mu    sync.Mutex
	store map[string]string

	// Calls records, in order, the operations applied: lower-cased command
	// names for single commands, with "pipeline"/"exec" markers around
	// pipelined batches. Failed executions are not recorded.
	Calls []string
	// Attempts counts executions, including failed ones.
	Attempts int
	// FailTimes makes the first n executions fail with ErrConnRefused.
	FailTimes int
	// Broken makes every execution fail with ErrConnRefused.
	Broken bool
	// Err, when set, is returned by every execution as-is.
	Err error

	failed int
}

// NewConn returns an empty mock connection reporting the given address.
func NewConn(addr string) *Conn {
	return &Conn{addr: addr, store: make(map[string]string)}
}

func (c *Conn) Addr() string { return c.addr }

// CallNames returns a copy of the recorded call log.
func (c *Conn) CallNames() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.Calls...)
}

// AttemptCount returns how many executions were made, failed ones included.
func (c *Conn) AttemptCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Attempts
}

// Seed stores the key/value pairs directly, without recording calls.
func (c *Conn) Seed(kv map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, v := range kv {
		c.store[k] = v
	}
}

// Value reads a key directly, without recording a call.
func (c *Conn) Value(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.store[key]
	return v, ok
}

// fail implements the scripted failure modes. Callers hold c.mu.
func (c *Conn) fail() error {
	if c.Broken {
		return ErrConnRefused
	}
	if c.Err != nil {
		return c.Err
	}
	if c.failed < c.FailTimes {
		c.failed++
		return ErrConnRefused
	}
	return nil
}

// Do executes one command against the in-memory store.
func (c *Conn) Do(ctx context.Context, args ...any) (any, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Attempts++
	if err := c.fail(); err != nil {
		return nil, err
	}
	return c.apply(args)
}

// Pipelined executes cmds in order, with pipeline markers around the batch.
func (c *Conn) Pipelined(ctx context.Context, cmds []multiwrite.Command) ([]any, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Attempts++
	if err := c.fail(); err != nil {
		return nil, err
	}
	c.Calls = append(c.Calls, "pipeline")
	results := make([]any, 0, len(cmds))
	for _, cmd := range cmds {
		args := make([]any, 0, len(cmd.Args)+1)
		args = append(args, cmd.Name)
		args = append(args, cmd.Args...)
		v, err := c.apply(args)
		if err != nil {
			return nil, err
		}
		results = append(results, v)
	}
	c.Calls = append(c.Calls, "exec")
	return results, nil
}

// apply interprets a small subset of the Redis command set, enough for the
// proxy's tests. Callers hold c.mu.
func (c *Conn) apply(args []any) (any, error) {
	name := strings.ToUpper(fmt.Sprint(args[0]))
	c.Calls = append(c.Calls, strings.ToLower(name))
	switch name {
	case "PING":
		return "PONG", nil
	case "GET":
		v, ok := c.store[fmt.Sprint(args[1])]
		if !ok {
			return nil, nil
		}
		return v, nil
	case "SET":
		c.store[fmt.Sprint(args[1])] = fmt.Sprint(args[2])
		return "OK", nil
	case "SETEX":
		// TTLs are not modeled; the value is stored without expiry.
		c.store[fmt.Sprint(args[1])] = fmt.Sprint(args[3])
		return "OK", nil
	case "DEL", "UNLINK":
		var n int64
		for _, k := range args[1:] {
			key := fmt.Sprint(k)
			if _, ok := c.store[key]; ok {
				delete(c.store, key)
				n++
			}
		}
		return n, nil
	case "EXISTS":
		var n int64
		for _, k := range args[1:] {
			if _, ok := c.store[fmt.Sprint(k)]; ok {
				n++
			}
		}
		return n, nil
	case "EXPIRE", "PEXPIRE", "PERSIST":
		if _, ok := c.store[fmt.Sprint(args[1])]; ok {
			return int64(1), nil
		}
		return int64(0), nil
	}
	return nil, ServerError("ERR unknown command '" + strings.ToLower(name) + "'")
}
