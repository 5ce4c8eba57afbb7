// Package client provides resilient HTTP clients for the downstream account
// and transaction services.
//
// A generic executor wraps every request with a per-client circuit breaker,
// transient-failure retry, per-attempt timeout, and a concurrency cap. HTTP
// 4xx responses are surfaced as classified faults without feeding the
// breaker; 5xx responses and transport failures count toward opening it.
// Breaker state is fully independent between client instances.
package client
