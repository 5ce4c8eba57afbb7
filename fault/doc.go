// Package fault defines the error taxonomy shared across the gateway.
//
// Every failure that crosses the tool boundary is classified into a stable
// error code so callers and monitors can distinguish authentication problems,
// authorization denials, bad input, downstream outages, open circuits, and
// domain rule violations. Raw errors never leave the gateway unclassified.
package fault
