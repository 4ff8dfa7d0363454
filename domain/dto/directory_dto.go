package dto

import "creative-assigner/domain/model"

// Directory sections never fail as a whole: a failed listing carries its error inline
// so the other sections still render.

type AccountSection struct {
	Platform model.Platform  `json:"platform"`
	Accounts []model.Account `json:"accounts"`
	Error    string          `json:"error,omitempty"`
}

type CampaignSection struct {
	Platform  model.Platform   `json:"platform"`
	AccountID string           `json:"account_id"`
	Campaigns []model.Campaign `json:"campaigns"`
	Error     string           `json:"error,omitempty"`
}

type PlacementSection struct {
	Platform   model.Platform    `json:"platform"`
	AccountID  string            `json:"account_id"`
	CampaignID string            `json:"campaign_id"`
	Placements []model.Placement `json:"placements"`
	Error      string            `json:"error,omitempty"`
}

type ExistingAdSection struct {
	Platform    model.Platform     `json:"platform"`
	AccountID   string             `json:"account_id"`
	PlacementID string             `json:"placement_id"`
	Ads         []model.ExistingAd `json:"ads"`
	Error       string             `json:"error,omitempty"`
}

// DirectoryQuery binds the query string of the directory endpoints.
type DirectoryQuery struct {
	Platforms   string `form:"platforms"`
	Platform    string `form:"platform"`
	AccountID   string `form:"accountId"`
	CampaignID  string `form:"campaignId"`
	PlacementID string `form:"placementId"`
}
