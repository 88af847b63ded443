package postgres

import (
	"context"
	"fmt"
)

const schema = `
CREATE TABLE IF NOT EXISTS quiz_results (
	id          UUID PRIMARY KEY,
	user_key    TEXT NOT NULL,
	category    TEXT NOT NULL,
	correct     INTEGER NOT NULL CHECK (correct >= 0),
	attempted   INTEGER NOT NULL CHECK (attempted >= correct),
	total       INTEGER NOT NULL,
	started_at  TIMESTAMPTZ NOT NULL,
	finished_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS quiz_results_user_finished_idx
	ON quiz_results (user_key, finished_at DESC);
`

// EnsureSchema creates the result tables if they are missing.
func EnsureSchema(ctx context.Context, db DBTX) error {
	if _, err := db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
