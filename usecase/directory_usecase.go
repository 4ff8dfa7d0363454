package usecase

import (
	"context"
	"fmt"

	"creative-assigner/domain/assignment"
	"creative-assigner/domain/dto"
	"creative-assigner/domain/model"
	"creative-assigner/domain/repository"
	"creative-assigner/infrastructure/logger"

	"golang.org/x/sync/errgroup"
)

// IDirectoryUsecase lists accounts, campaigns, placements and live ads. A failed
// listing is reported inside its own section and never fails the call.
type IDirectoryUsecase interface {
	LoadAccounts(ctx context.Context, platforms []model.Platform) []dto.AccountSection
	LoadCampaigns(ctx context.Context, platform model.Platform, accountID string) dto.CampaignSection
	LoadPlacements(ctx context.Context, platform model.Platform, accountID, campaignID string) dto.PlacementSection
	LoadExistingAds(ctx context.Context, platform model.Platform, accountID, placementID string) dto.ExistingAdSection
}

type directoryUsecase struct {
	gateways map[model.Platform]repository.IAdPlatform
}

func NewDirectoryUsecase(gateways map[model.Platform]repository.IAdPlatform) IDirectoryUsecase {
	return &directoryUsecase{gateways: gateways}
}

func (u *directoryUsecase) gateway(p model.Platform) (repository.IAdPlatform, error) {
	gw, ok := u.gateways[p.Normalize()]
	if !ok {
		return nil, fmt.Errorf("%w: %s", assignment.ErrUnknownPlatform, p)
	}
	return gw, nil
}

// LoadAccounts queries every platform concurrently.
func (u *directoryUsecase) LoadAccounts(ctx context.Context, platforms []model.Platform) []dto.AccountSection {
	sections := make([]dto.AccountSection, len(platforms))
	g, gctx := errgroup.WithContext(ctx)
	for i, p := range platforms {
		i, p := i, p
		sections[i] = dto.AccountSection{Platform: p.Normalize(), Accounts: []model.Account{}}
		g.Go(func() error {
			gw, err := u.gateway(p)
			if err == nil {
				var accounts []model.Account
				accounts, err = gw.ListAccounts(gctx)
				if err == nil && accounts != nil {
					sections[i].Accounts = accounts
				}
			}
			if err != nil {
				sections[i].Error = sectionError("accounts", p, err)
			}
			return nil
		})
	}
	_ = g.Wait()
	return sections
}

func (u *directoryUsecase) LoadCampaigns(ctx context.Context, platform model.Platform, accountID string) dto.CampaignSection {
	section := dto.CampaignSection{Platform: platform.Normalize(), AccountID: accountID, Campaigns: []model.Campaign{}}
	gw, err := u.gateway(platform)
	if err == nil {
		var list []model.Campaign
		if list, err = gw.ListCampaigns(ctx, accountID); err == nil && list != nil {
			section.Campaigns = list
		}
	}
	if err != nil {
		section.Error = sectionError("campaigns", platform, err)
	}
	return section
}

func (u *directoryUsecase) LoadPlacements(ctx context.Context, platform model.Platform, accountID, campaignID string) dto.PlacementSection {
	section := dto.PlacementSection{
		Platform:   platform.Normalize(),
		AccountID:  accountID,
		CampaignID: campaignID,
		Placements: []model.Placement{},
	}
	gw, err := u.gateway(platform)
	if err == nil {
		var list []model.Placement
		if list, err = gw.ListPlacements(ctx, accountID, campaignID); err == nil && list != nil {
			section.Placements = list
		}
	}
	if err != nil {
		section.Error = sectionError("placements", platform, err)
	}
	return section
}

func (u *directoryUsecase) LoadExistingAds(ctx context.Context, platform model.Platform, accountID, placementID string) dto.ExistingAdSection {
	section := dto.ExistingAdSection{
		Platform:    platform.Normalize(),
		AccountID:   accountID,
		PlacementID: placementID,
		Ads:         []model.ExistingAd{},
	}
	gw, err := u.gateway(platform)
	if err == nil {
		var list []model.ExistingAd
		if list, err = gw.ListExistingAds(ctx, accountID, placementID); err == nil && list != nil {
			section.Ads = list
		}
	}
	if err != nil {
		section.Error = sectionError("existing ads", platform, err)
	}
	return section
}

func sectionError(what string, p model.Platform, err error) string {
	logger.GetLogger().WithFields(map[string]interface{}{
		"platform": p,
		"section":  what,
		"error":    err,
	}).Warn("Failed to load directory section")
	return fmt.Sprintf("failed to load %s: %v", what, err)
}
