// Package storage persists the controller's instruction log: every
// command line executed remotely and the output it produced. SQLite is
// the default backend; MySQL is available for off-robot aggregation.
// The Store interface keeps the executor independent of the backend.
package storage
