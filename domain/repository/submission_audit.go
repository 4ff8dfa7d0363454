package repository

import (
	"context"
	"errors"

	"creative-assigner/domain/model"
)

var ErrAssetNotFound = errors.New("asset not found")

// ISubmissionAudit records submit attempts and their per-slot outcomes.
type ISubmissionAudit interface {
	// RecordAttempt inserts a pending attempt and returns its row id.
	RecordAttempt(ctx context.Context, rec *model.SubmissionAttemptRecord) (int64, error)
	// CompleteAttempt stores the final status and counters of an attempt.
	CompleteAttempt(ctx context.Context, id int64, status string, succeeded, failed int, errMsg *string) error
	// RecordOutcomes stores one row per reconciled slot.
	RecordOutcomes(ctx context.Context, id int64, outcomes []model.SlotOutcome) error
	ListAttempts(ctx context.Context, sessionID string) ([]*model.SubmissionAttemptRecord, error)
}
