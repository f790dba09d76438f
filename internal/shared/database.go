package shared

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// busyTimeoutMillis bounds how long a writer waits on a lock held by another taskview process.
const busyTimeoutMillis = 5000

// NewDatabase opens the SQLite preference database at path.
//
// ":memory:" pins the pool to one connection so every query sees the same database.
// File databases run in WAL mode with a busy timeout, since the dashboard and one-shot commands share the file.
func NewDatabase(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

func dsn(path string) string {
	if path == ":memory:" || strings.Contains(path, "?") {
		return path
	}
	return fmt.Sprintf("%s?_busy_timeout=%d&_journal_mode=WAL", path, busyTimeoutMillis)
}

// ConfigureDatabase applies pool limits. Zero leaves the driver default.
func ConfigureDatabase(db *sql.DB, maxOpenConns, maxIdleConns int) {
	if maxOpenConns > 0 {
		db.SetMaxOpenConns(maxOpenConns)
	}
	if maxIdleConns > 0 {
		db.SetMaxIdleConns(maxIdleConns)
	}
}
