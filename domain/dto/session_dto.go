package dto

import (
	"time"

	"creative-assigner/domain/model"
)

// SelectAssetRequest picks an asset from the library into the session catalog.
// When an asset library is configured only the id is needed.
type SelectAssetRequest struct {
	ID       string          `json:"id" binding:"required"`
	Kind     model.AssetKind `json:"kind"`
	URL      string          `json:"url"`
	Name     string          `json:"name"`
	Width    *int            `json:"width,omitempty"`
	Height   *int            `json:"height,omitempty"`
	Duration *float64        `json:"duration,omitempty"`
}

func (r SelectAssetRequest) Asset() model.Asset {
	return model.Asset{
		ID:       r.ID,
		Kind:     r.Kind,
		URL:      r.URL,
		Name:     r.Name,
		Width:    r.Width,
		Height:   r.Height,
		Duration: r.Duration,
	}
}

// PlatformSelectionRequest carries the step 1 choices.
type PlatformSelectionRequest struct {
	Platforms []string            `json:"platforms"`
	Accounts  map[string]string   `json:"accounts"`
	Campaigns map[string][]string `json:"campaigns"`
}

// SelectPlacementRequest adds an ad set / ad group to the session during step 2.
type SelectPlacementRequest struct {
	ID         string `json:"id" binding:"required"`
	Platform   string `json:"platform" binding:"required"`
	AccountID  string `json:"account_id"`
	CampaignID string `json:"campaign_id"`
	Name       string `json:"name"`
	Status     string `json:"status"`
}

func (r SelectPlacementRequest) Placement() model.Placement {
	return model.Placement{
		ID:         r.ID,
		Platform:   model.Platform(r.Platform),
		AccountID:  r.AccountID,
		CampaignID: r.CampaignID,
		Name:       r.Name,
		Status:     r.Status,
	}
}

// DropRequest is one drag-and-drop of an asset onto a placement or slot.
type DropRequest struct {
	AssetID     string `json:"asset_id" binding:"required"`
	PlacementID string `json:"placement_id" binding:"required"`
	SlotID      *int   `json:"slot_id,omitempty"`
}

// DropResponse reports whether the drop changed anything.
type DropResponse struct {
	Accepted bool          `json:"accepted"`
	Reason   string        `json:"reason,omitempty"`
	Slot     *model.AdSlot `json:"slot,omitempty"`
}

// SlotTextRequest updates ad copy. Omitted fields keep their value.
type SlotTextRequest struct {
	AdName *string `json:"ad_name"`
	AdText *string `json:"ad_text"`
}

// WizardResponse is returned by next/back.
type WizardResponse struct {
	Step     model.Step `json:"step"`
	StepName string     `json:"step_name"`
	Moved    bool       `json:"moved"`
	Reason   string     `json:"reason,omitempty"`
}

// AssetView is a catalog entry with its usage count.
type AssetView struct {
	model.Asset
	Usage int `json:"usage"`
}

// SlotView is a slot as rendered, with its position and display label.
type SlotView struct {
	model.AdSlot
	Index       int    `json:"index"`
	Open        bool   `json:"open"`
	StatusLabel string `json:"status_label"`
}

// PlacementView is a selected placement with its visible slots.
type PlacementView struct {
	model.Placement
	StatusLabel string     `json:"status_label"`
	Slots       []SlotView `json:"slots"`
}

// ReviewWarning flags blank ad copy on a populated slot.
type ReviewWarning struct {
	PlacementID string `json:"placement_id"`
	SlotID      int    `json:"slot_id"`
	Field       string `json:"field"`
	Message     string `json:"message"`
}

// ReviewSummary is computed when the wizard enters the review step.
type ReviewSummary struct {
	Counts   map[model.Platform]int `json:"counts"`
	Total    int                    `json:"total"`
	Warnings []ReviewWarning        `json:"warnings"`
}

// SessionSnapshot is the full projection of a session the view renders from.
type SessionSnapshot struct {
	ID            string                   `json:"id"`
	OperatorID    string                   `json:"operator_id"`
	CreatedAt     time.Time                `json:"created_at"`
	Step          model.Step               `json:"step"`
	StepName      string                   `json:"step_name"`
	CanAdvance    bool                     `json:"can_advance"`
	BlockedReason string                   `json:"blocked_reason,omitempty"`
	Selection     model.Selection          `json:"selection"`
	Assets        []AssetView              `json:"assets"`
	Placements    []PlacementView          `json:"placements"`
	FixMode       bool                     `json:"fix_mode"`
	Fixed         []model.SlotRef          `json:"fixed"`
	Submitting    bool                     `json:"submitting"`
	Attempt       int64                    `json:"attempt"`
	LastOutcome   *model.SubmissionOutcome `json:"last_outcome,omitempty"`
	Review        *ReviewSummary           `json:"review,omitempty"`
}
