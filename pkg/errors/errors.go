package errors

import "errors"

// Connection errors
var (
	// ErrConnClosed is returned when sending on a closed connection
	ErrConnClosed = errors.New("connection closed")

	// ErrNotConnected is returned when no connection to the controller exists
	ErrNotConnected = errors.New("not connected to controller")

	// ErrConnectFailed is returned when connection establishment fails
	ErrConnectFailed = errors.New("connection failed")
)

// Protocol errors
var (
	// ErrProtocolFault is returned when a peer receives a well-formed
	// message of a kind it must never handle
	ErrProtocolFault = errors.New("protocol fault")

	// ErrProbeTimeout is returned when a liveness probe gets no answer
	// within the bounded wait
	ErrProbeTimeout = errors.New("liveness probe timed out")
)

// Configuration errors
var (
	// ErrInvalidConfig is returned when configuration fails validation
	ErrInvalidConfig = errors.New("invalid configuration")
)
