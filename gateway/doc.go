// Package gateway dispatches tool invocations through the authorization
// pipeline and into the downstream service clients.
//
// Every invocation passes four gates in order: the bearer token must be
// present, the token must resolve to an identity, the identity must hold the
// operation's required permission, and any declared ownership parameter must
// pass the ownership check. Each gate short-circuits with a classified error;
// raw errors never cross the tool boundary.
package gateway
