package storage

import (
	"database/sql"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// MySQLStore implements Store using a MySQL backend, for teams that
// aggregate instruction logs off-robot.
type MySQLStore struct {
	db *sql.DB
}

// NewMySQLStore creates a new MySQL-backed instruction log. dsn is a
// go-sql-driver DSN, e.g. "user:pass@tcp(host:3306)/rct?parseTime=true".
func NewMySQLStore(dsn string) (Store, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	store := &MySQLStore{db: db}
	if err := store.initDB(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *MySQLStore) initDB() error {
	schema := `
	CREATE TABLE IF NOT EXISTS instruction_log (
		id BIGINT PRIMARY KEY AUTO_INCREMENT,
		line TEXT NOT NULL,
		source VARCHAR(255),
		output MEDIUMTEXT,
		error_text TEXT,
		executed_at DATETIME NOT NULL,
		INDEX idx_executed_at (executed_at DESC)
	)`
	_, err := s.db.Exec(schema)
	return err
}

func (s *MySQLStore) Append(entry *LogEntry) error {
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

func (s *MySQLStore) Recent(limit int) ([]*LogEntry, error) {
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

func (s *MySQLStore) Count() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM instruction_log`).Scan(&count)
	return count, err
}

func (s *MySQLStore) Close() error {
	return s.db.Close()
}
