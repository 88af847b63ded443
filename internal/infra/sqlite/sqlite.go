package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // driver: sqlite
)

const schema = `
CREATE TABLE IF NOT EXISTS quiz_results (
	id          TEXT PRIMARY KEY,
	user_key    TEXT NOT NULL,
	category    TEXT NOT NULL,
	correct     INTEGER NOT NULL,
	attempted   INTEGER NOT NULL,
	total       INTEGER NOT NULL,
	started_at  INTEGER NOT NULL,
	finished_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS quiz_results_user_finished_idx
	ON quiz_results (user_key, finished_at DESC);
`

// Open opens the SQLite database at path and ensures the schema exists.
// An empty path opens a private in-memory database.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	dsn := "file::memory:"
	if path != "" {
		dsn = "file:" + path + "?mode=rwc&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One connection keeps an in-memory database alive and serializes writers.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return db, nil
}
