package multiwrite

import (
	"context"
	"sync"

	"github.com/redis/go-redis/v9"
)

// unknownHost labels a destination whose address can't be resolved.
const unknownHost = "[Unknown]"

// Conn is the surface the proxy borrows from a store connection: generic
// positional command execution, per-connection pipelining, and the address
// used for diagnostics. The proxy never opens or closes a Conn.
type Conn interface {
	// Do runs one command, name first in args, and returns its reply.
	Do(ctx context.Context, args ...any) (any, error)
	// Pipelined queues cmds in order on one pipeline, executes it atomically
	// for this connection, and returns the replies in queue order.
	Pipelined(ctx context.Context, cmds []Command) ([]any, error)
	// Addr returns the connection's host:port, or "" if unknown.
	Addr() string
}

// Destination is one replication target (the primary or a replica).
type Destination struct {
	conn Conn

	once  sync.Once
	label string
}

// NewDestination wraps a connection as a replication target.
func NewDestination(conn Conn) *Destination {
	return &Destination{conn: conn}
}

// Label returns the destination's host label for diagnostics, resolving it
// on first use.
func (d *Destination) Label() string {
	d.once.Do(func() {
		d.label = d.conn.Addr()
		if d.label == "" {
			d.label = unknownHost
		}
	})
	return d.label
}

// redisConn adapts a go-redis client to Conn.
type redisConn struct {
	client *redis.Client
}

// RedisConn wraps a go-redis client for use as a destination connection.
func RedisConn(client *redis.Client) Conn {
	return redisConn{client: client}
}

func (c redisConn) Do(ctx context.Context, args ...any) (any, error) {
	return c.client.Do(ctx, args...).Result()
}

func (c redisConn) Pipelined(ctx context.Context, cmds []Command) ([]any, error) {
	cmders, err := c.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, cmd := range cmds {
			pipe.Do(ctx, cmd.wire()...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	results := make([]any, len(cmders))
	for i, cmder := range cmders {
		results[i] = cmder.(*redis.Cmd).Val()
	}
	return results, nil
}

func (c redisConn) Addr() string {
	if opts := c.client.Options(); opts != nil {
		return opts.Addr
	}
	return ""
}
