// Package auth provides authentication and authorization primitives for the
// financial tool gateway.
//
// It validates and issues HMAC-signed JWTs, extracts a typed UserContext from
// token claims, and evaluates role/permission-based authorization queries
// against a frozen role table. All checks are pure functions of the caller's
// identity; the package performs no I/O.
package auth
