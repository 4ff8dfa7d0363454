package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

var submissionTablesPG = []string{
	`CREATE TABLE IF NOT EXISTS submission_attempts (
		id BIGSERIAL PRIMARY KEY,
		session_id TEXT NOT NULL,
		operator_id TEXT NOT NULL,
		attempt BIGINT NOT NULL,
		status TEXT NOT NULL,
		item_count INT NOT NULL DEFAULT 0,
		succeeded INT NOT NULL DEFAULT 0,
		failed INT NOT NULL DEFAULT 0,
		error_message TEXT,
		created_at TIMESTAMPTZ NOT NULL,
		completed_at TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS idx_submission_attempts_session ON submission_attempts (session_id, attempt)`,
	`CREATE TABLE IF NOT EXISTS submission_slot_outcomes (
		id BIGSERIAL PRIMARY KEY,
		attempt_id BIGINT NOT NULL REFERENCES submission_attempts(id),
		platform TEXT NOT NULL,
		placement_id TEXT NOT NULL,
		slot_id INT NOT NULL,
		status TEXT NOT NULL,
		ad_id TEXT,
		error_message TEXT,
		created_at TIMESTAMPTZ NOT NULL
	)`,
}

// EnsureSubmissionSchema creates the audit tables and adds columns introduced after
// the first release. Safe to call at startup.
func EnsureSubmissionSchema(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for _, ddl := range submissionTablesPG {
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("ensure submission schema: %w", err)
		}
	}

	checks := []struct {
		table  string
		column string
		ddl    string
	}{
		{"submission_slot_outcomes", "slot_index", "ALTER TABLE submission_slot_outcomes ADD COLUMN slot_index INT NOT NULL DEFAULT 0"},
	}
	for _, c := range checks {
		exists, err := columnExists(ctx, db, c.table, c.column)
		if err != nil {
			return err
		}
		if !exists {
			if _, err := db.ExecContext(ctx, c.ddl); err != nil {
				return fmt.Errorf("adding column %s.%s failed: %w", c.table, c.column, err)
			}
		}
	}
	return nil
}

func columnExists(ctx context.Context, db *sql.DB, table, column string) (bool, error) {
	row := db.QueryRowContext(ctx, `SELECT 1 FROM information_schema.columns WHERE table_name=$1 AND column_name=$2`, table, column)
	var one int
	if err := row.Scan(&one); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
