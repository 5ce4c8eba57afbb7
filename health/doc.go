// Package health reports on the gateway's downstream dependencies. Checkers
// cover circuit breaker state and downstream health endpoints; the Aggregator
// runs them concurrently and the HTTP handlers expose liveness, readiness,
// and detailed reports.
package health
