// Package console implements the driver-station side of the RCT link:
// the local command router, the session state (LocalSystem), and the
// terminal abstraction the handlers print through.
package console
