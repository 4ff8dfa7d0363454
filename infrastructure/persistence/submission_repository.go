package persistence

import (
	"context"
	"database/sql"
	"time"

	"creative-assigner/domain/model"
	"creative-assigner/domain/repository"
)

// SubmissionRepository keeps the submission audit trail in PostgreSQL.
type SubmissionRepository struct {
	db *sql.DB
}

func NewSubmissionRepository(db *sql.DB) *SubmissionRepository { return &SubmissionRepository{db: db} }

func (r *SubmissionRepository) RecordAttempt(ctx context.Context, rec *model.SubmissionAttemptRecord) (int64, error) {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	q := `INSERT INTO submission_attempts (session_id, operator_id, attempt, status, item_count, created_at)
		  VALUES ($1,$2,$3,$4,$5,$6) RETURNING id`
	if err := r.db.QueryRowContext(ctx, q, rec.SessionID, rec.OperatorID, rec.Attempt, rec.Status, rec.ItemCount, rec.CreatedAt).Scan(&rec.ID); err != nil {
		return 0, err
	}
	return rec.ID, nil
}

func (r *SubmissionRepository) CompleteAttempt(ctx context.Context, id int64, status string, succeeded, failed int, errMsg *string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE submission_attempts SET status=$1, succeeded=$2, failed=$3, error_message=$4, completed_at=$5 WHERE id=$6`,
		status, succeeded, failed, errMsg, time.Now().UTC(), id)
	return err
}

func (r *SubmissionRepository) RecordOutcomes(ctx context.Context, id int64, outcomes []model.SlotOutcome) (err error) {
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
	q := `INSERT INTO submission_slot_outcomes (attempt_id, platform, placement_id, slot_id, slot_index, status, ad_id, error_message, created_at)
		  VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`
	now := time.Now().UTC()
	for _, o := range outcomes {
		if _, err = tx.ExecContext(ctx, q, id, string(o.Item.Platform), o.Item.PlacementID, o.Item.SlotID, o.Item.SlotIndex,
			string(o.Status), nullString(o.AdID), nullString(o.Error), now); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *SubmissionRepository) ListAttempts(ctx context.Context, sessionID string) ([]*model.SubmissionAttemptRecord, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, session_id, operator_id, attempt, status, item_count, succeeded, failed, error_message, created_at, completed_at
FROM submission_attempts WHERE session_id=$1 ORDER BY attempt ASC`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAttempts(rows)
}

func scanAttempts(rows *sql.Rows) ([]*model.SubmissionAttemptRecord, error) {
	var list []*model.SubmissionAttemptRecord
	for rows.Next() {
		rec := &model.SubmissionAttemptRecord{}
		var errMsg sql.NullString
		var completed sql.NullTime
		if err := rows.Scan(&rec.ID, &rec.SessionID, &rec.OperatorID, &rec.Attempt, &rec.Status, &rec.ItemCount,
			&rec.Succeeded, &rec.Failed, &errMsg, &rec.CreatedAt, &completed); err != nil {
			return nil, err
		}
		if errMsg.Valid {
			rec.ErrorMessage = &errMsg.String
		}
		if completed.Valid {
			rec.CompletedAt = &completed.Time
		}
		list = append(list, rec)
	}
	return list, rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

var _ repository.ISubmissionAudit = (*SubmissionRepository)(nil)
