package multiwrite

import (
	"context"
	"errors"
	log "log/slog"

	"github.com/google/uuid"
)

// outcome is one destination attempt's result, privately owned by its task
// until drained.
type outcome struct {
	value any
	err   error
}

// spawn schedules one attempt on the shared pool and returns the channel its
// outcome arrives on. Acquiring a pool slot blocks, which is what bounds the
// number of in-flight attempts across all calls through this proxy.
func (m *MultiWrite) spawn(ctx context.Context, logger *log.Logger, d *Destination, req request) <-chan outcome {
	ch := make(chan outcome, 1)
	if err := m.pool.Acquire(ctx, 1); err != nil {
		ch <- outcome{err: err}
		return ch
	}
	go func() {
		defer m.pool.Release(1)
		v, err := m.attempt(ctx, logger, d, req)
		ch <- outcome{value: v, err: err}
	}()
	return ch
}

// runAll performs req against the primary and mimics it on every replica.
// Only the primary's outcome is returned, but the call does not return until
// every replica attempt has finished, so no attempt outlives the call. With
// no replicas configured this is a plain synchronous primary attempt.
func (m *MultiWrite) runAll(ctx context.Context, req request) (any, error) {
	if len(m.replicas) == 0 {
		return m.attempt(ctx, m.log, m.primary, req)
	}

	logger := m.log.With("call_id", uuid.NewString())
	primaryCh := m.spawn(ctx, logger, m.primary, req)
	stragglers := make([]<-chan outcome, len(m.replicas))
	for i, d := range m.replicas {
		stragglers[i] = m.spawn(ctx, logger, d, req)
	}

	out := <-primaryCh
	m.drain(logger, stragglers)

	if out.err != nil {
		var tmr *TooManyRetriesError
		if errors.As(out.err, &tmr) {
			logger.Error(tmr.Error())
		}
		return nil, out.err
	}
	return out.value, nil
}

// drain waits for every replica attempt, logging and discarding failures.
// Replica outcomes never affect the caller.
func (m *MultiWrite) drain(logger *log.Logger, chans []<-chan outcome) {
	for _, ch := range chans {
		out := <-ch
		if out.err == nil {
			continue
		}
		var tmr *TooManyRetriesError
		if errors.As(out.err, &tmr) {
			logger.Error(tmr.Error())
			continue
		}
		logger.Error("Unhandled replica error", "error", out.err)
	}
}
