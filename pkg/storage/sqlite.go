package storage

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore implements Store using a SQLite backend, the default on
// the roboRIO where the log lives on local flash.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-backed instruction log.
func NewSQLiteStore(dbPath string) (Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	store := &SQLiteStore{db: db}
	if err := store.initDB(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) initDB() error {
	schema := `
	CREATE TABLE IF NOT EXISTS instruction_log (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		line TEXT NOT NULL,
		source TEXT,
		output TEXT,
		error_text TEXT,
		executed_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_executed_at ON instruction_log(executed_at DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) Append(entry *LogEntry) error {
	if entry.ExecutedAt.IsZero() {
		entry.ExecutedAt = time.Now()
	}
	res, err := s.db.Exec(`
		INSERT INTO instruction_log (line, source, output, error_text, executed_at)
		VALUES (?, ?, ?, ?, ?)`,
		entry.Line, entry.Source, entry.Output, entry.ErrorText, entry.ExecutedAt,
	)
	if err != nil {
		return err
	}
	entry.ID, _ = res.LastInsertId()
	return nil
}

func (s *SQLiteStore) Recent(limit int) ([]*LogEntry, error) {
	rows, err := s.db.Query(`
		SELECT id, line, source, output, error_text, executed_at
		FROM instruction_log
		ORDER BY executed_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*LogEntry
	for rows.Next() {
		var e LogEntry
		if err := rows.Scan(&e.ID, &e.Line, &e.Source, &e.Output, &e.ErrorText, &e.ExecutedAt); err != nil {
			return nil, err
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

func (s *SQLiteStore) Count() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM instruction_log`).Scan(&count)
	return count, err
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
