package assignment

import (
	"testing"

	"creative-assigner/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func submittedFixture(t *testing.T) (*fixture, []model.SubmissionItem) {
	t.Helper()
	f := newFixture(t, nil)
	f.addAsset(t, "img-1", model.AssetKindImage)
	f.addAsset(t, "img-2", model.AssetKindImage)
	f.addPlacement(t, "p1", model.PlatformFacebook)
	f.addPlacement(t, "p2", model.PlatformTikTok)
	f.drop(t, "img-1", Target{PlacementID: "p1"})
	f.drop(t, "img-2", Target{PlacementID: "p1"})
	f.drop(t, "img-1", Target{PlacementID: "p2"})

	items := f.graph.ToSubmissionPayload(f.reconciler).Items()
	require.Len(t, items, 3)
	f.reconciler.BeginSubmission(f.graph, 1, items)
	return f, items
}

func statuses(f *fixture, placementID string) []model.SlotStatus {
	var out []model.SlotStatus
	for _, s := range f.graph.Slots(placementID) {
		out = append(out, s.Status)
	}
	return out
}

func TestGraph_PayloadExcludesOpenSlots(t *testing.T) {
	f := newFixture(t, nil)
	f.addAsset(t, "img-1", model.AssetKindImage)
	f.addPlacement(t, "p1", model.PlatformFacebook)
	f.addPlacement(t, "p2", model.PlatformTikTok)
	slot := f.drop(t, "img-1", Target{PlacementID: "p1"})
	_, err := f.slots.SetText(slot.Ref(), "Ad one", "Buy now")
	require.NoError(t, err)

	payload := f.graph.ToSubmissionPayload(nil)

	assert.Equal(t, 1, payload.Len())
	assert.Empty(t, payload.Platforms[model.PlatformTikTok])
	assert.Equal(t, model.SubmissionItem{
		Platform:    model.PlatformFacebook,
		AccountID:   "act-1",
		CampaignID:  "cmp-1",
		PlacementID: "p1",
		SlotIndex:   0,
		SlotID:      slot.ID,
		AdName:      "Ad one",
		AdText:      "Buy now",
		AssetIDs:    []string{"img-1"},
	}, payload.Platforms[model.PlatformFacebook][0])
}

func TestReconciler_ExactKeys(t *testing.T) {
	f, items := submittedFixture(t)
	assert.Equal(t, []model.SlotStatus{model.SlotStatusSubmitting, model.SlotStatusSubmitting, model.SlotStatusEmpty}, statuses(f, "p1"))

	outcome, slots := f.reconciler.Reconcile(f.graph, 1, items, []model.SubmissionResult{
		{Key: "facebook:p1:0", Success: true, AdID: "ad-1"},
		{Key: "FACEBOOK:p1:1", Success: false, Error: "policy violation"},
		{Key: "tiktok:p2:0", Success: true, AdID: "ad-3"},
	})

	assert.Equal(t, model.SubmissionOutcome{Submitted: 3, Succeeded: 2, Failed: 1, Partial: true}, outcome)
	require.Len(t, slots, 3)
	assert.Equal(t, []model.SlotStatus{model.SlotStatusSucceeded, model.SlotStatusFailed, model.SlotStatusEmpty}, statuses(f, "p1"))
	failed := f.graph.Slots("p1")[1]
	assert.Equal(t, "policy violation", failed.Error)
	assert.Equal(t, "ad-1", f.graph.Slots("p1")[0].AdID)
}

func TestReconciler_PlacementKeyAppliesToAllSlots(t *testing.T) {
	f, items := submittedFixture(t)

	outcome, _ := f.reconciler.Reconcile(f.graph, 1, items, []model.SubmissionResult{
		{Key: "facebook:p1", Success: false, Error: "ad set archived"},
		{Key: "tiktok:p2:0", Success: true},
	})

	assert.Equal(t, 2, outcome.Failed)
	assert.Equal(t, 1, outcome.Succeeded)
	for _, s := range f.graph.PopulatedSlots() {
		if s.PlacementID == "p1" {
			assert.Equal(t, "ad set archived", s.Error)
		}
	}
}

func TestReconciler_PositionalFallback(t *testing.T) {
	f, items := submittedFixture(t)

	outcome, _ := f.reconciler.Reconcile(f.graph, 1, items, []model.SubmissionResult{
		{Success: true},
		{Success: false},
		{Success: true},
	})

	assert.Equal(t, 2, outcome.Succeeded)
	assert.Equal(t, 1, outcome.Failed)
	assert.Equal(t, defaultFailureMessage, f.graph.Slots("p1")[1].Error)
}

func TestReconciler_UnmatchedBecomesUnknown(t *testing.T) {
	f, items := submittedFixture(t)

	outcome, _ := f.reconciler.Reconcile(f.graph, 1, items, []model.SubmissionResult{
		{Key: "facebook:p1:0", Success: true},
		{Key: "facebook:p9:0", Success: true},
		{Success: true}, // keyless results are ignored once any key is present
	})

	assert.Equal(t, 1, outcome.Succeeded)
	assert.Equal(t, 2, outcome.Unknown)
	assert.Equal(t, 1, outcome.Unmatched)
	assert.Equal(t, model.SlotStatusUnknown, f.graph.Slots("p1")[1].Status)
	assert.Equal(t, model.SlotStatusUnknown, f.graph.Slots("p2")[0].Status)
}

// With N submitted slots and N matching results no slot stays populated or unknown.
func TestReconciler_Completeness(t *testing.T) {
	f, items := submittedFixture(t)
	results := make([]model.SubmissionResult, 0, len(items))
	for i, it := range items {
		results = append(results, model.SubmissionResult{Key: it.Key(), Success: i%2 == 0, Error: "x"})
	}

	f.reconciler.Reconcile(f.graph, 1, items, results)

	for _, s := range f.graph.PopulatedSlots() {
		assert.Contains(t, []model.SlotStatus{model.SlotStatusSucceeded, model.SlotStatusFailed}, s.Status)
	}
}

func TestReconciler_RestoreForRetry(t *testing.T) {
	f, items := submittedFixture(t)
	prev := map[model.SlotRef]model.SlotStatus{}
	for _, it := range items {
		prev[it.Ref()] = model.SlotStatusPopulated
	}

	assert.Equal(t, 3, f.reconciler.RestoreForRetry(f.graph, 1, prev))

	for _, s := range f.graph.PopulatedSlots() {
		assert.Equal(t, model.SlotStatusPopulated, s.Status)
	}
}

func TestReconciler_NewerAttemptOwnsResentSlots(t *testing.T) {
	f, items := submittedFixture(t)
	f.reconciler.BeginSubmission(f.graph, 2, items[:1])

	outcome, slots := f.reconciler.Reconcile(f.graph, 1, items, []model.SubmissionResult{
		{Key: "facebook:p1:0", Success: true, AdID: "old"},
		{Key: "facebook:p1:1", Success: true, AdID: "ad-2"},
		{Key: "tiktok:p2:0", Success: false, Error: "rejected"},
	})

	assert.Equal(t, 1, outcome.Superseded)
	assert.Equal(t, 1, outcome.Succeeded)
	assert.Equal(t, 1, outcome.Failed)
	assert.Zero(t, outcome.Unmatched)
	assert.Len(t, slots, 2)
	first := f.graph.Slots("p1")[0]
	assert.Equal(t, model.SlotStatusSubmitting, first.Status)
	assert.Empty(t, first.AdID)
	assert.Equal(t, "ad-2", f.graph.Slots("p1")[1].AdID)

	prev := map[model.SlotRef]model.SlotStatus{first.Ref(): model.SlotStatusPopulated}
	assert.Zero(t, f.reconciler.RestoreForRetry(f.graph, 1, prev), "attempt 2 still owns the slot")

	outcome, _ = f.reconciler.Reconcile(f.graph, 2, items[:1], []model.SubmissionResult{
		{Key: "facebook:p1:0", Success: true, AdID: "new"},
	})
	assert.Equal(t, 1, outcome.Succeeded)
	assert.Equal(t, "new", f.graph.Slots("p1")[0].AdID)
}

func TestReconciler_FixModeFlow(t *testing.T) {
	f := newFixture(t, nil)
	f.addAsset(t, "img-1", model.AssetKindImage)
	f.addAsset(t, "img-2", model.AssetKindImage)
	f.addPlacement(t, "p1", model.PlatformFacebook)
	f.addPlacement(t, "p2", model.PlatformTikTok)
	f.drop(t, "img-1", Target{PlacementID: "p1"})
	f.drop(t, "img-2", Target{PlacementID: "p2"})

	payload := f.graph.ToSubmissionPayload(f.reconciler)
	items := payload.Items()
	f.reconciler.BeginSubmission(f.graph, 1, items)
	f.reconciler.Reconcile(f.graph, 1, items, []model.SubmissionResult{
		{Key: "facebook:p1:0", Success: false, Error: "bad asset"},
		{Key: "tiktok:p2:0", Success: true},
	})

	failed := f.graph.Slots("p1")[0]
	require.Equal(t, model.SlotStatusFailed, failed.Status)
	require.Equal(t, "bad asset", failed.Error)

	f.reconciler.EnterFixMode(f.graph)
	var visible []model.SlotRef
	for _, p := range f.graph.Placements() {
		for _, s := range f.graph.Slots(p.ID) {
			if f.reconciler.Visible(s) {
				visible = append(visible, s.Ref())
			}
		}
	}
	assert.Equal(t, []model.SlotRef{failed.Ref()}, visible, "other placements are hidden")
	assert.Zero(t, f.graph.ToSubmissionPayload(f.reconciler).Len(), "nothing fixed yet")

	f.drop(t, "img-2", Target{PlacementID: "p1", SlotID: slotID(failed.ID)})
	resend := f.graph.ToSubmissionPayload(f.reconciler).Items()
	require.Len(t, resend, 1)
	assert.Equal(t, failed.Ref(), resend[0].Ref())
	assert.Equal(t, []string{"img-1", "img-2"}, resend[0].AssetIDs)

	f.reconciler.ExitFixMode()
	assert.False(t, f.reconciler.InFixMode())
	assert.Empty(t, f.reconciler.Fixed())
	assert.Equal(t, 2, f.graph.ToSubmissionPayload(f.reconciler).Len())
}
