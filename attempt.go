package multiwrite

import (
	"context"
	log "log/slog"

	"github.com/sethvargo/go-retry"
)

// execute runs req once against the destination's connection.
func execute(ctx context.Context, d *Destination, req request) (any, error) {
	if req.isBatch() {
		results, err := d.conn.Pipelined(ctx, req.batch)
		if err != nil {
			return nil, err
		}
		return results, nil
	}
	return d.conn.Do(ctx, req.single.wire()...)
}

// attempt executes req against one destination, retrying connectivity
// failures with Fibonacci backoff up to the proxy's retry budget. Server-side
// store errors are never retried and propagate as-is. If the budget is
// exhausted, the attempt fails with TooManyRetriesError carrying the last
// connectivity error and the destination's label.
func (m *MultiWrite) attempt(ctx context.Context, logger *log.Logger, d *Destination, req request) (any, error) {
	var value any
	var lastConnErr error
	b := retry.NewFibonacci(m.backoff)
	err := retry.Do(ctx, retry.WithMaxRetries(uint64(m.retries-1), b), func(ctx context.Context) error {
		v, err := execute(ctx, d, req)
		if err == nil {
			value = v
			return nil
		}
		if isConnectivityError(err) {
			lastConnErr = err
			logger.Warn("Connectivity issue", "host", d.Label(), "error", err)
			return retry.RetryableError(err)
		}
		logger.Error("Store error", "host", d.Label(), "error", err)
		return err
	})
	if err != nil {
		if lastConnErr != nil && isConnectivityError(err) {
			return nil, &TooManyRetriesError{Host: d.Label(), Err: lastConnErr}
		}
		return nil, err
	}
	return value, nil
}
