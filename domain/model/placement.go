package model

// Placement is one external ad set / ad group the operator picked during step 2.
// It is immutable for the lifetime of a session.
type Placement struct {
	ID         string   `json:"id"`
	Platform   Platform `json:"platform"`
	AccountID  string   `json:"account_id"`
	CampaignID string   `json:"campaign_id"`
	Name       string   `json:"name"`
	Status     string   `json:"status"` // free-form platform status code
}

// Account is an advertiser account on a platform.
type Account struct {
	ID       string   `json:"id"`
	Platform Platform `json:"platform"`
	Name     string   `json:"name"`
	Currency string   `json:"currency,omitempty"`
	Status   string   `json:"status,omitempty"`
}

// Campaign groups placements under an account.
type Campaign struct {
	ID        string   `json:"id"`
	Platform  Platform `json:"platform"`
	AccountID string   `json:"account_id"`
	Name      string   `json:"name"`
	Objective string   `json:"objective,omitempty"`
	Status    string   `json:"status,omitempty"`
}

// ExistingAd is an ad already live under a placement on the platform.
type ExistingAd struct {
	ID          string   `json:"id"`
	Platform    Platform `json:"platform"`
	PlacementID string   `json:"placement_id"`
	Name        string   `json:"name"`
	Status      string   `json:"status,omitempty"`
}
