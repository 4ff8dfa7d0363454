package adplatform

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"creative-assigner/domain/model"
	"creative-assigner/domain/repository"
)

// MockPlatform serves a fixed directory and accepts every ad, except ads carrying an
// asset whose id contains "reject". It stands in for platforms without a gateway URL.
type MockPlatform struct {
	desc model.PlatformDescriptor
}

func NewMockPlatform(desc model.PlatformDescriptor) *MockPlatform {
	return &MockPlatform{desc: desc}
}

func (m *MockPlatform) Platform() model.Platform { return m.desc.Name }

func (m *MockPlatform) ListAccounts(ctx context.Context) ([]model.Account, error) {
	return []model.Account{
		{ID: m.id("act", 1), Platform: m.desc.Name, Name: m.desc.DisplayName + " Sandbox", Currency: "USD", Status: "ACTIVE"},
		{ID: m.id("act", 2), Platform: m.desc.Name, Name: m.desc.DisplayName + " Agency", Currency: "EUR", Status: "ACTIVE"},
	}, nil
}

func (m *MockPlatform) ListCampaigns(ctx context.Context, accountID string) ([]model.Campaign, error) {
	out := make([]model.Campaign, 0, 2)
	for i := 1; i <= 2; i++ {
		out = append(out, model.Campaign{
			ID:        fmt.Sprintf("%s-cmp-%d", accountID, i),
			Platform:  m.desc.Name,
			AccountID: accountID,
			Name:      fmt.Sprintf("Campaign %d", i),
			Objective: "CONVERSIONS",
			Status:    "ACTIVE",
		})
	}
	return out, nil
}

func (m *MockPlatform) ListPlacements(ctx context.Context, accountID, campaignID string) ([]model.Placement, error) {
	statuses := m.statusCodes()
	out := make([]model.Placement, 0, 3)
	for i := 1; i <= 3; i++ {
		out = append(out, model.Placement{
			ID:         fmt.Sprintf("%s-pl-%d", campaignID, i),
			Platform:   m.desc.Name,
			AccountID:  accountID,
			CampaignID: campaignID,
			Name:       fmt.Sprintf("%s %d", capitalize(m.desc.PlacementNoun), i),
			Status:     statuses[(i-1)%len(statuses)],
		})
	}
	return out, nil
}

func (m *MockPlatform) ListExistingAds(ctx context.Context, accountID, placementID string) ([]model.ExistingAd, error) {
	return []model.ExistingAd{{
		ID:          placementID + "-ad-1",
		Platform:    m.desc.Name,
		PlacementID: placementID,
		Name:        "Evergreen",
		Status:      "ACTIVE",
	}}, nil
}

func (m *MockPlatform) Submit(ctx context.Context, attempt int64, items []model.SubmissionItem) ([]model.SubmissionResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]model.SubmissionResult, 0, len(items))
	for _, it := range items {
		res := model.SubmissionResult{Key: it.Key(), Success: true}
		for _, a := range it.AssetIDs {
			if strings.Contains(a, "reject") {
				res.Success = false
				res.Error = fmt.Sprintf("asset %s was rejected by %s", a, m.desc.DisplayName)
				break
			}
		}
		if res.Success {
			res.AdID = fmt.Sprintf("%s-%s-%d-%d", m.desc.Name, it.PlacementID, it.SlotIndex, attempt)
		}
		out = append(out, res)
	}
	return out, nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func (m *MockPlatform) id(kind string, n int) string {
	return fmt.Sprintf("%s-%s-%d", m.desc.Name, kind, n)
}

func (m *MockPlatform) statusCodes() []string {
	codes := make([]string, 0, len(m.desc.StatusLabels))
	for code := range m.desc.StatusLabels {
		codes = append(codes, code)
	}
	if len(codes) == 0 {
		return []string{"ACTIVE"}
	}
	sort.Strings(codes)
	return codes
}

var _ repository.IAdPlatform = (*MockPlatform)(nil)
