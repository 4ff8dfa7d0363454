package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"creative-assigner/domain/model"
	"creative-assigner/domain/repository"
	"creative-assigner/infrastructure/logger"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "creative-assigner:directory"

// DirectoryCache keeps platform listings in Redis for a short TTL. Submissions are
// never cached. A Redis failure degrades to a direct call.
type DirectoryCache struct {
	next repository.IAdPlatform
	rdb  redis.Cmdable
	ttl  time.Duration
}

// NewDirectoryCache decorates next. Without a client, next is returned as is.
func NewDirectoryCache(next repository.IAdPlatform, rdb redis.Cmdable, ttl time.Duration) repository.IAdPlatform {
	if rdb == nil || ttl <= 0 {
		return next
	}
	return &DirectoryCache{next: next, rdb: rdb, ttl: ttl}
}

func (c *DirectoryCache) Platform() model.Platform { return c.next.Platform() }

func (c *DirectoryCache) ListAccounts(ctx context.Context) ([]model.Account, error) {
	return cached(ctx, c, c.key("accounts"), func() ([]model.Account, error) {
		return c.next.ListAccounts(ctx)
	})
}

func (c *DirectoryCache) ListCampaigns(ctx context.Context, accountID string) ([]model.Campaign, error) {
	return cached(ctx, c, c.key("campaigns", accountID), func() ([]model.Campaign, error) {
		return c.next.ListCampaigns(ctx, accountID)
	})
}

func (c *DirectoryCache) ListPlacements(ctx context.Context, accountID, campaignID string) ([]model.Placement, error) {
	return cached(ctx, c, c.key("placements", accountID, campaignID), func() ([]model.Placement, error) {
		return c.next.ListPlacements(ctx, accountID, campaignID)
	})
}

// ListExistingAds is cached too; the TTL bounds how stale the view may get after a submit.
func (c *DirectoryCache) ListExistingAds(ctx context.Context, accountID, placementID string) ([]model.ExistingAd, error) {
	return cached(ctx, c, c.key("ads", accountID, placementID), func() ([]model.ExistingAd, error) {
		return c.next.ListExistingAds(ctx, accountID, placementID)
	})
}

func (c *DirectoryCache) Submit(ctx context.Context, attempt int64, items []model.SubmissionItem) ([]model.SubmissionResult, error) {
	return c.next.Submit(ctx, attempt, items)
}

func (c *DirectoryCache) key(parts ...string) string {
	k := fmt.Sprintf("%s:%s", keyPrefix, c.next.Platform())
	for _, p := range parts {
		k += ":" + p
	}
	return k
}

func cached[T any](ctx context.Context, c *DirectoryCache, key string, load func() (T, error)) (T, error) {
	log := logger.GetLogger().WithField("key", key)

	raw, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var v T
		if jsonErr := json.Unmarshal(raw, &v); jsonErr == nil {
			return v, nil
		}
		log.Warn("Discarding unreadable cache entry")
	case !errors.Is(err, redis.Nil):
		log.WithField("error", err).Warn("Directory cache unavailable")
	}

	v, err := load()
	if err != nil {
		return v, err
	}
	if data, jsonErr := json.Marshal(v); jsonErr == nil {
		if setErr := c.rdb.Set(ctx, key, data, c.ttl).Err(); setErr != nil {
			log.WithField("error", setErr).Debug("Directory cache write skipped")
		}
	}
	return v, nil
}
