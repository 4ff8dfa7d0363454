package usecase_test

import (
	"context"

	"creative-assigner/domain/model"

	"github.com/stretchr/testify/mock"
)

type MockAdPlatform struct {
	mock.Mock
	name model.Platform
}

func (m *MockAdPlatform) Platform() model.Platform { return m.name }

func (m *MockAdPlatform) ListAccounts(ctx context.Context) ([]model.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Account), args.Error(1)
}

func (m *MockAdPlatform) ListCampaigns(ctx context.Context, accountID string) ([]model.Campaign, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Campaign), args.Error(1)
}

func (m *MockAdPlatform) ListPlacements(ctx context.Context, accountID, campaignID string) ([]model.Placement, error) {
	args := m.Called(ctx, accountID, campaignID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Placement), args.Error(1)
}

func (m *MockAdPlatform) ListExistingAds(ctx context.Context, accountID, placementID string) ([]model.ExistingAd, error) {
	args := m.Called(ctx, accountID, placementID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ExistingAd), args.Error(1)
}

func (m *MockAdPlatform) Submit(ctx context.Context, attempt int64, items []model.SubmissionItem) ([]model.SubmissionResult, error) {
	args := m.Called(ctx, attempt, items)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.SubmissionResult), args.Error(1)
}

type MockAssetLibrary struct {
	mock.Mock
}

func (m *MockAssetLibrary) ListAssets(ctx context.Context, kind model.AssetKind, limit int) ([]model.Asset, error) {
	args := m.Called(ctx, kind, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Asset), args.Error(1)
}

func (m *MockAssetLibrary) GetAsset(ctx context.Context, id string) (*model.Asset, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Asset), args.Error(1)
}

type MockSubmissionAudit struct {
	mock.Mock
}

func (m *MockSubmissionAudit) RecordAttempt(ctx context.Context, rec *model.SubmissionAttemptRecord) (int64, error) {
	args := m.Called(ctx, rec)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSubmissionAudit) CompleteAttempt(ctx context.Context, id int64, status string, succeeded, failed int, errMsg *string) error {
	return m.Called(ctx, id, status, succeeded, failed, errMsg).Error(0)
}

func (m *MockSubmissionAudit) RecordOutcomes(ctx context.Context, id int64, outcomes []model.SlotOutcome) error {
	return m.Called(ctx, id, outcomes).Error(0)
}

func (m *MockSubmissionAudit) ListAttempts(ctx context.Context, sessionID string) ([]*model.SubmissionAttemptRecord, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.SubmissionAttemptRecord), args.Error(1)
}

type MockEventSink struct {
	mock.Mock
}

func (m *MockEventSink) Publish(ctx context.Context, evt model.Event) error {
	return m.Called(ctx, evt).Error(0)
}
