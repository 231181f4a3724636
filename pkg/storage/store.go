package storage

import "time"

// LogEntry is one executed instruction recorded on the controller.
type LogEntry struct {
	ID         int64
	Line       string
	Source     string // remote address of the console that sent it
	Output     string
	ErrorText  string
	ExecutedAt time.Time
}

// Store defines the interface for the controller's instruction log.
type Store interface {
	// Append records one executed instruction and its result.
	Append(entry *LogEntry) error

	// Recent returns up to limit entries, newest first.
	Recent(limit int) ([]*LogEntry, error)

	// Count returns the total number of recorded entries.
	Count() (int, error)

	// Close releases the underlying database handle.
	Close() error
}
