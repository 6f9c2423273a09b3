package connmgr

import "errors"

// Sentinel errors for connection manager operations.
var (
	// ErrShutdown is returned by WaitConnected once Shutdown has been
	// called.
	ErrShutdown = errors.New("connmgr: manager is shut down")

	// ErrCircuitOpen signals that the manager's reconnect breaker is open.
	// Manager does not return it; an open breaker shows as
	// PhaseCircuitOpen.
	ErrCircuitOpen = errors.New("connmgr: reconnect circuit is open")
)
