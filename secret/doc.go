// Package secret resolves configuration secrets at process start.
//
// Values pass through strict environment expansion, then any "secretref:"
// references are resolved via registered providers:
//
//	secretref:env:JWT_SIGNING_SECRET
//	Bearer secretref:env:DOWNSTREAM_TOKEN
//
// The gateway's signing secret and downstream tokens come through this layer;
// they are never embedded in code or fixtures.
package secret
