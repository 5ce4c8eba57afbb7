// Package observe provides the gateway's telemetry: structured logging,
// OpenTelemetry metrics, and tracing.
//
// It is pure instrumentation: no execution, no transport. The Observer is an
// explicitly constructed collaborator injected into the gateway and clients;
// there is no process-wide singleton.
package observe
