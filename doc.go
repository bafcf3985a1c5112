// Package multiwrite mimics multi-master behavior on top of the go-redis
// client: write operations issued through the proxy are performed against a
// primary Redis instance as well as a set of replica instances before the
// call returns.
//
// Only the primary's result (or error) is ever surfaced to the caller.
// Replica attempts run concurrently on a bounded pool, are retried
// independently on connectivity failures, and their outcomes are logged and
// discarded. The proxy guarantees that no replica attempt is still running
// once a call returns.
//
// There is no cross-destination atomicity: a write may succeed on the
// primary and fail on every replica, or the other way around, with no
// rollback. Replica convergence is best effort, bounded by the retry budget.
package multiwrite
