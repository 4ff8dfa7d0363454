package adplatform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"creative-assigner/domain/model"
	"creative-assigner/domain/repository"
	"creative-assigner/infrastructure/logger"

	"github.com/google/go-querystring/query"
	"golang.org/x/oauth2"
)

const (
	listTimeout  = 20 * time.Second
	maxErrorBody = 512
)

// Client talks to a platform's creative gateway over HTTP. Ads are posted with the
// field names of the platform descriptor.
type Client struct {
	desc    model.PlatformDescriptor
	baseURL string
	http    *http.Client
}

// NewClient authenticates with a static bearer token. An empty token sends requests
// unauthenticated.
func NewClient(ctx context.Context, desc model.PlatformDescriptor, baseURL, accessToken string) *Client {
	httpClient := &http.Client{}
	if accessToken != "" {
		httpClient = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: accessToken,
			TokenType:   "Bearer",
		}))
	}
	return &Client{
		desc:    desc,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

type listQuery struct {
	AccountID   string `url:"account_id,omitempty"`
	CampaignID  string `url:"campaign_id,omitempty"`
	PlacementID string `url:"placement_id,omitempty"`
}

type listEnvelope[T any] struct {
	Data []T `json:"data"`
}

func (c *Client) Platform() model.Platform { return c.desc.Name }

func (c *Client) ListAccounts(ctx context.Context) ([]model.Account, error) {
	items, err := list[model.Account](ctx, c, "accounts", listQuery{})
	for i := range items {
		items[i].Platform = c.desc.Name
	}
	return items, err
}

func (c *Client) ListCampaigns(ctx context.Context, accountID string) ([]model.Campaign, error) {
	items, err := list[model.Campaign](ctx, c, "campaigns", listQuery{AccountID: accountID})
	for i := range items {
		items[i].Platform = c.desc.Name
		if items[i].AccountID == "" {
			items[i].AccountID = accountID
		}
	}
	return items, err
}

func (c *Client) ListPlacements(ctx context.Context, accountID, campaignID string) ([]model.Placement, error) {
	items, err := list[model.Placement](ctx, c, "placements", listQuery{AccountID: accountID, CampaignID: campaignID})
	for i := range items {
		items[i].Platform = c.desc.Name
		if items[i].AccountID == "" {
			items[i].AccountID = accountID
		}
		if items[i].CampaignID == "" {
			items[i].CampaignID = campaignID
		}
	}
	return items, err
}

func (c *Client) ListExistingAds(ctx context.Context, accountID, placementID string) ([]model.ExistingAd, error) {
	items, err := list[model.ExistingAd](ctx, c, "ads", listQuery{AccountID: accountID, PlacementID: placementID})
	for i := range items {
		items[i].Platform = c.desc.Name
		if items[i].PlacementID == "" {
			items[i].PlacementID = placementID
		}
	}
	return items, err
}

func list[T any](ctx context.Context, c *Client, resource string, q listQuery) ([]T, error) {
	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	values, err := query.Values(q)
	if err != nil {
		return nil, err
	}
	u := fmt.Sprintf("%s/%s", c.baseURL, resource)
	if enc := values.Encode(); enc != "" {
		u += "?" + enc
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}
	var env listEnvelope[T]
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode %s: %w", resource, err)
	}
	if env.Data == nil {
		env.Data = []T{}
	}
	return env.Data, nil
}

// Submit creates one ad per item. Every ad carries its result key so the gateway can
// echo it back.
func (c *Client) Submit(ctx context.Context, attempt int64, items []model.SubmissionItem) ([]model.SubmissionResult, error) {
	ads := make([]map[string]any, 0, len(items))
	for _, it := range items {
		ad := map[string]any{
			"key":         it.Key(),
			"account_id":  it.AccountID,
			"campaign_id": it.CampaignID,
		}
		ad[c.desc.Fields.PlacementID] = it.PlacementID
		ad[c.desc.Fields.AdName] = it.AdName
		ad[c.desc.Fields.AdText] = it.AdText
		ad[c.desc.Fields.Assets] = it.AssetIDs
		ads = append(ads, ad)
	}
	payload, err := json.Marshal(map[string]any{"attempt": attempt, "ads": ads})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/ads/batch", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", fmt.Sprintf("%s-%d", c.desc.Name, attempt))

	logger.GetLogger().WithFields(map[string]interface{}{
		"platform": c.desc.Name,
		"attempt":  attempt,
		"ads":      len(items),
	}).Info("Posting ads to gateway")

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}
	return ParseResults(body)
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet := string(body)
		if len(snippet) > maxErrorBody {
			snippet = snippet[:maxErrorBody]
		}
		return nil, fmt.Errorf("%s %s: status %d: %s", req.Method, req.URL.Path, resp.StatusCode, strings.TrimSpace(snippet))
	}
	return body, nil
}

var _ repository.IAdPlatform = (*Client)(nil)
