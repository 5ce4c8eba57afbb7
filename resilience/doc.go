// Package resilience provides the fault-tolerance patterns the gateway's
// downstream HTTP clients are built on.
//
// A CircuitBreaker stops issuing calls to a failing service for a cooldown
// period, Retry re-attempts transient transport failures, Timeout bounds each
// attempt, and Bulkhead caps concurrent in-flight calls. Executor composes
// them so that every retry attempt passes the breaker gate again: once the
// circuit opens mid-retry, remaining attempts fail fast without touching the
// network.
package resilience
