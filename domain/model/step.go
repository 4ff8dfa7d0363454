package model

// Step is a stage of the four-stage creation wizard.
type Step int

const (
	StepPlatformAccount Step = iota + 1
	StepCampaignPlacement
	StepAssetAssignment
	StepReviewSubmit
)

// FirstStep and LastStep bound the wizard.
const (
	FirstStep = StepPlatformAccount
	LastStep  = StepReviewSubmit
)

func (s Step) String() string {
	switch s {
	case StepPlatformAccount:
		return "platform_account"
	case StepCampaignPlacement:
		return "campaign_placement"
	case StepAssetAssignment:
		return "asset_assignment"
	case StepReviewSubmit:
		return "review_submit"
	}
	return "unknown"
}

// Selection holds what the operator picked per platform in steps 1 and 2.
type Selection struct {
	Platforms []Platform            `json:"platforms"`
	Accounts  map[Platform]string   `json:"accounts"`
	Campaigns map[Platform][]string `json:"campaigns"`
}

// Has reports whether p was chosen.
func (s Selection) Has(p Platform) bool {
	for _, x := range s.Platforms {
		if x == p {
			return true
		}
	}
	return false
}
