package model

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// SubmissionItem is one ad to create: a populated slot flattened with its placement context.
type SubmissionItem struct {
	Platform    Platform `json:"platform"`
	AccountID   string   `json:"account_id"`
	CampaignID  string   `json:"campaign_id"`
	PlacementID string   `json:"placement_id"`
	SlotIndex   int      `json:"slot_index"`
	SlotID      int      `json:"slot_id"`
	AdName      string   `json:"ad_name"`
	AdText      string   `json:"ad_text"`
	AssetIDs    []string `json:"asset_ids"`
}

// Ref returns the slot the item was built from.
func (i SubmissionItem) Ref() SlotRef {
	return SlotRef{PlacementID: i.PlacementID, SlotID: i.SlotID}
}

// Key is the fully qualified result key, platform:placementId:slotIndex.
func (i SubmissionItem) Key() string {
	return ResultKey(i.Platform, i.PlacementID, i.SlotIndex)
}

// SubmissionPayload is the normalized structure handed to the submission collaborator.
type SubmissionPayload struct {
	Attempt   int64                         `json:"attempt"`
	Platforms map[Platform][]SubmissionItem `json:"platforms"`
}

// Items flattens the payload in the order the collaborator is expected to answer
// positionally: platforms by name, then graph order within each platform.
func (p SubmissionPayload) Items() []SubmissionItem {
	names := make([]Platform, 0, len(p.Platforms))
	for name := range p.Platforms {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	var out []SubmissionItem
	for _, name := range names {
		out = append(out, p.Platforms[name]...)
	}
	return out
}

// Len is the number of items across all platforms.
func (p SubmissionPayload) Len() int {
	n := 0
	for _, items := range p.Platforms {
		n += len(items)
	}
	return n
}

// SubmissionResult is the per-ad outcome reported by the external API. Key may be
// platform:placementId:slotIndex, platform:placementId, or empty.
type SubmissionResult struct {
	Key     string `json:"key,omitempty"`
	Success bool   `json:"success"`
	AdID    string `json:"ad_id,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ResultKey builds the slot-level result key.
func ResultKey(platform Platform, placementID string, slotIndex int) string {
	return fmt.Sprintf("%s:%s:%d", platform.Normalize(), placementID, slotIndex)
}

// PlacementKey builds the placement-level result key.
func PlacementKey(platform Platform, placementID string) string {
	return fmt.Sprintf("%s:%s", platform.Normalize(), placementID)
}

// NormalizeResultKey lower-cases the platform segment so keys compare reliably.
func NormalizeResultKey(key string) string {
	key = strings.TrimSpace(key)
	idx := strings.Index(key, ":")
	if idx < 0 {
		return key
	}
	return strings.ToLower(key[:idx]) + key[idx:]
}

// SubmissionOutcome summarizes one submit attempt for the operator.
type SubmissionOutcome struct {
	Attempt    int64  `json:"attempt"`
	Submitted  int    `json:"submitted"`
	Succeeded  int    `json:"succeeded"`
	Failed     int    `json:"failed"`
	Unknown    int    `json:"unknown"`
	Unmatched  int    `json:"unmatched"`
	Retry      int    `json:"retry"`                // slots put back after a platform request failed
	Superseded int    `json:"superseded,omitempty"` // results for slots a newer attempt sent again
	Partial    bool   `json:"partial"`
	Pending    bool   `json:"pending"`
	Notice     string `json:"notice,omitempty"`
}

// SlotOutcome is the reconciled status of one submitted slot.
type SlotOutcome struct {
	Item   SubmissionItem `json:"item"`
	Status SlotStatus     `json:"status"`
	AdID   string         `json:"ad_id,omitempty"`
	Error  string         `json:"error,omitempty"`
}

// Audit statuses of a submit attempt.
const (
	AttemptStatusPending         = "pending"
	AttemptStatusCompleted       = "completed"
	AttemptStatusTransportFailed = "transport_failed"
)

// SubmissionAttemptRecord is the audit row for one submit attempt.
type SubmissionAttemptRecord struct {
	ID           int64      `json:"id"`
	SessionID    string     `json:"session_id"`
	OperatorID   string     `json:"operator_id"`
	Attempt      int64      `json:"attempt"`
	Status       string     `json:"status"`
	ItemCount    int        `json:"item_count"`
	Succeeded    int        `json:"succeeded"`
	Failed       int        `json:"failed"`
	ErrorMessage *string    `json:"error_message,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}
