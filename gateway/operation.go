package gateway

import (
	"context"

	"github.com/jonwraymond/fingate/auth"
)

// TokenParam is the argument carrying the caller's bearer token.
const TokenParam = "auth_token"

// AccessKind selects which ownership check applies to an operation's
// ownership parameter.
type AccessKind int

const (
	// AccessNone declares no ownership check beyond the required permission.
	AccessNone AccessKind = iota

	// AccessAccount checks account ownership (broad-access roles or self).
	AccessAccount

	// AccessTransaction checks the transaction-creation variant.
	AccessTransaction

	// AccessAnalytics checks the analytics variant.
	AccessAnalytics
)

// Result is a handler's successful outcome.
type Result struct {
	Message string
	Data    any
}

// HandlerFunc executes an operation for an authenticated, authorized caller.
// The resolved identity is passed explicitly and is also available from ctx.
type HandlerFunc func(ctx context.Context, user auth.UserContext, args Args) (*Result, error)

// Operation describes one tool-invocation handler and its authorization
// requirements. The dispatcher evaluates the requirements before the handler
// runs.
type Operation struct {
	// Name is the tool name exposed to callers.
	Name string

	// Permission is required to invoke the operation. Empty means no
	// permission gate.
	Permission auth.Permission

	// OwnershipParam names the argument holding the target owner ID.
	// Empty means no ownership gate. An empty argument value also skips
	// the gate; handlers default such arguments to the caller.
	OwnershipParam string

	// Access selects the ownership check variant for OwnershipParam.
	Access AccessKind

	// Handler runs after all gates pass.
	Handler HandlerFunc
}
