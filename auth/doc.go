// Package auth provides a transport-level API-key credential check for
// tool calls, behind a common Authenticator interface, and propagates the
// resulting Identity through a request's context. It intentionally stops
// at authentication: roles, permissions, and tenant scoping are out of
// scope, left to whatever sits above the transport.
package auth
