package repository

import (
	"context"

	"creative-assigner/domain/model"
)

// IAdPlatform is the gateway to one external ad platform.
type IAdPlatform interface {
	Platform() model.Platform

	// Directory listings used during steps 1 and 2
	ListAccounts(ctx context.Context) ([]model.Account, error)
	ListCampaigns(ctx context.Context, accountID string) ([]model.Campaign, error)
	ListPlacements(ctx context.Context, accountID, campaignID string) ([]model.Placement, error)
	ListExistingAds(ctx context.Context, accountID, placementID string) ([]model.ExistingAd, error)

	// Submit creates one ad per item. A returned error means the request itself failed;
	// per-ad failures are reported in the results.
	Submit(ctx context.Context, attempt int64, items []model.SubmissionItem) ([]model.SubmissionResult, error)
}
