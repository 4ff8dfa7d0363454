package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// EnsureSubmissionSchemaMSSQL creates the audit tables in SQL Server when missing.
func EnsureSubmissionSchemaMSSQL(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	createIfMissing := func(table, ddl string) error {
		q := fmt.Sprintf(`IF OBJECT_ID('%s', 'U') IS NULL BEGIN %s END`, table, ddl)
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("ensure table %s: %w", table, err)
		}
		return nil
	}
	addIfMissing := func(table, column, ddl string) error {
		q := fmt.Sprintf(`IF COL_LENGTH('%s', '%s') IS NULL BEGIN %s END`, table, column, ddl)
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("ensure column %s.%s: %w", table, column, err)
		}
		return nil
	}

	if err := createIfMissing("dbo.submission_attempts", `CREATE TABLE dbo.[submission_attempts] (
  id BIGINT IDENTITY(1,1) PRIMARY KEY,
  session_id NVARCHAR(64) NOT NULL,
  operator_id NVARCHAR(255) NOT NULL,
  attempt BIGINT NOT NULL,
  status NVARCHAR(32) NOT NULL,
  item_count INT NOT NULL DEFAULT 0,
  succeeded INT NOT NULL DEFAULT 0,
  failed INT NOT NULL DEFAULT 0,
  error_message NVARCHAR(MAX) NULL,
  created_at DATETIME2 NOT NULL,
  completed_at DATETIME2 NULL
)`); err != nil {
		return err
	}
	if err := createIfMissing("dbo.submission_slot_outcomes", `CREATE TABLE dbo.[submission_slot_outcomes] (
  id BIGINT IDENTITY(1,1) PRIMARY KEY,
  attempt_id BIGINT NOT NULL REFERENCES dbo.[submission_attempts](id),
  platform NVARCHAR(32) NOT NULL,
  placement_id NVARCHAR(255) NOT NULL,
  slot_id INT NOT NULL,
  status NVARCHAR(32) NOT NULL,
  ad_id NVARCHAR(255) NULL,
  error_message NVARCHAR(MAX) NULL,
  created_at DATETIME2 NOT NULL
)`); err != nil {
		return err
	}
	return addIfMissing("dbo.submission_slot_outcomes", "slot_index", "ALTER TABLE dbo.[submission_slot_outcomes] ADD slot_index INT NOT NULL DEFAULT 0")
}
