package multiwrite

import (
	"context"
	log "log/slog"
	"time"

	"golang.org/x/sync/semaphore"
)

const (
	// DefaultRetries is the per-destination retry budget.
	DefaultRetries = 3
	// DefaultPoolSize bounds concurrent in-flight destination attempts per
	// proxy.
	DefaultPoolSize = 1000
	// DefaultRetryBackoff is the base of the Fibonacci backoff between retry
	// attempts.
	DefaultRetryBackoff = 50 * time.Millisecond
)

// Options configures a MultiWrite proxy.
type Options struct {
	// Retries is the number of times a write is attempted per destination on
	// connectivity errors before giving up with TooManyRetriesError. Each
	// destination gets its own full budget. Default: 3.
	Retries int
	// PoolSize caps concurrent destination attempts across all calls through
	// this proxy; further spawns block until a slot frees. Default: 1000.
	PoolSize int
	// RetryBackoff is the base delay of the Fibonacci backoff between retry
	// attempts. Default: 50ms.
	RetryBackoff time.Duration
	// Logger receives retry and replica-failure diagnostics.
	// Default: slog.Default().
	Logger *log.Logger
}

// MultiWrite extends a primary Redis connection with multi-master style
// write replication to a set of replica connections. See the package
// documentation for the replication semantics.
type MultiWrite struct {
	primary  *Destination
	replicas []*Destination

	retries int
	backoff time.Duration
	pool    *semaphore.Weighted
	log     *log.Logger
}

// New creates a proxy over one primary connection and zero or more replica
// connections. Connections are borrowed for the proxy's lifetime, never
// closed by it.
func New(primary Conn, replicas []Conn, opts Options) *MultiWrite {
	if opts.Retries < 1 {
		opts.Retries = DefaultRetries
	}
	if opts.PoolSize < 1 {
		opts.PoolSize = DefaultPoolSize
	}
	if opts.RetryBackoff <= 0 {
		opts.RetryBackoff = DefaultRetryBackoff
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	m := &MultiWrite{
		primary: NewDestination(primary),
		retries: opts.Retries,
		backoff: opts.RetryBackoff,
		pool:    semaphore.NewWeighted(int64(opts.PoolSize)),
		log:     opts.Logger,
	}
	for _, r := range replicas {
		m.replicas = append(m.replicas, NewDestination(r))
	}
	return m
}

// Primary returns the primary connection for direct, non-replicated use.
func (m *MultiWrite) Primary() Conn { return m.primary.conn }

// Do runs one validated command against the primary only, synchronously and
// outside the pool.
func (m *MultiWrite) Do(ctx context.Context, cmd Command) (any, error) {
	if !supported(cmd.Name) {
		return nil, &UnsupportedCommandError{Name: cmd.Name}
	}
	return m.primary.conn.Do(ctx, cmd.wire()...)
}

// RunEverywhere runs one validated command on the primary and every replica.
// The return value and error come only from the primary; the method does not
// return until all replica attempts have finished.
func (m *MultiWrite) RunEverywhere(ctx context.Context, cmd Command) (any, error) {
	if !supported(cmd.Name) {
		return nil, &UnsupportedCommandError{Name: cmd.Name}
	}
	return m.runAll(ctx, request{single: cmd})
}

// PipeEverywhere pipelines cmds in order on the primary and every replica.
// The batch is atomic per connection but not across destinations. Returns
// the primary's replies in queue order.
func (m *MultiWrite) PipeEverywhere(ctx context.Context, cmds []Command) ([]any, error) {
	for _, cmd := range cmds {
		if !supported(cmd.Name) {
			return nil, &UnsupportedCommandError{Name: cmd.Name}
		}
	}
	v, err := m.runAll(ctx, request{batch: cmds})
	if err != nil {
		return nil, err
	}
	return v.([]any), nil
}

// DeleteEverywhere deletes keys on the primary and every replica. Reports
// whether any key existed on the primary.
func (m *MultiWrite) DeleteEverywhere(ctx context.Context, keys ...string) (bool, error) {
	args := make([]any, len(keys))
	for i, k := range keys {
		args[i] = k
	}
	v, err := m.RunEverywhere(ctx, Cmd("DEL", args...))
	if err != nil {
		return false, err
	}
	return toInt(v) > 0, nil
}

// SetEverywhere sets key on the primary and every replica. Reports whether
// the primary accepted the write.
func (m *MultiWrite) SetEverywhere(ctx context.Context, key, value string) (bool, error) {
	v, err := m.RunEverywhere(ctx, Cmd("SET", key, value))
	if err != nil {
		return false, err
	}
	return toBool(v), nil
}

// SetExEverywhere sets key with an expiration on the primary and every
// replica. Expiration is rounded down to whole seconds.
func (m *MultiWrite) SetExEverywhere(ctx context.Context, key, value string, expiration time.Duration) (bool, error) {
	v, err := m.RunEverywhere(ctx, Cmd("SETEX", key, int64(expiration.Seconds()), value))
	if err != nil {
		return false, err
	}
	return toBool(v), nil
}

// ExpireEverywhere sets key's TTL on the primary and every replica. Reports
// whether the key existed on the primary.
func (m *MultiWrite) ExpireEverywhere(ctx context.Context, key string, expiration time.Duration) (bool, error) {
	v, err := m.RunEverywhere(ctx, Cmd("EXPIRE", key, int64(expiration.Seconds())))
	if err != nil {
		return false, err
	}
	return toBool(v), nil
}
