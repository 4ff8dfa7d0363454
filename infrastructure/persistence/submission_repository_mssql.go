package persistence

import (
	"context"
	"database/sql"
	"time"

	"creative-assigner/domain/model"
	"creative-assigner/domain/repository"
)

// SubmissionRepositoryMSSQL keeps the submission audit trail in SQL Server/Azure SQL.
type SubmissionRepositoryMSSQL struct{ db *sql.DB }

func NewSubmissionRepositoryMSSQL(db *sql.DB) *SubmissionRepositoryMSSQL {
	return &SubmissionRepositoryMSSQL{db: db}
}

// DB exposes the underlying *sql.DB
func (r *SubmissionRepositoryMSSQL) DB() *sql.DB { return r.db }

func (r *SubmissionRepositoryMSSQL) RecordAttempt(ctx context.Context, rec *model.SubmissionAttemptRecord) (int64, error) {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	q := `INSERT INTO dbo.[submission_attempts] (session_id, operator_id, attempt, status, item_count, created_at)
OUTPUT INSERTED.id
VALUES (@p1, @p2, @p3, @p4, @p5, @p6)`
	if err := r.db.QueryRowContext(ctx, q, rec.SessionID, rec.OperatorID, rec.Attempt, rec.Status, rec.ItemCount, rec.CreatedAt).Scan(&rec.ID); err != nil {
		return 0, err
	}
	return rec.ID, nil
}

func (r *SubmissionRepositoryMSSQL) CompleteAttempt(ctx context.Context, id int64, status string, succeeded, failed int, errMsg *string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE dbo.[submission_attempts]
SET status=@p1, succeeded=@p2, failed=@p3, error_message=@p4, completed_at=@p5
WHERE id=@p6`, status, succeeded, failed, errMsg, time.Now().UTC(), id)
	return err
}

func (r *SubmissionRepositoryMSSQL) RecordOutcomes(ctx context.Context, id int64, outcomes []model.SlotOutcome) (err error) {
	if len(outcomes) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	q := `INSERT INTO dbo.[submission_slot_outcomes] (attempt_id, platform, placement_id, slot_id, slot_index, status, ad_id, error_message, created_at)
VALUES (@p1, @p2, @p3, @p4, @p5, @p6, @p7, @p8, @p9)`
	now := time.Now().UTC()
	for _, o := range outcomes {
		if _, err = tx.ExecContext(ctx, q, id, string(o.Item.Platform), o.Item.PlacementID, o.Item.SlotID, o.Item.SlotIndex,
			string(o.Status), nullString(o.AdID), nullString(o.Error), now); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *SubmissionRepositoryMSSQL) ListAttempts(ctx context.Context, sessionID string) ([]*model.SubmissionAttemptRecord, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, session_id, operator_id, attempt, status, item_count, succeeded, failed, error_message, created_at, completed_at
FROM dbo.[submission_attempts]
WHERE session_id=@p1
ORDER BY attempt ASC`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAttempts(rows)
}

var _ repository.ISubmissionAudit = (*SubmissionRepositoryMSSQL)(nil)
