package assignment

import (
	"testing"

	"creative-assigner/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWizard_GateBlocksForward(t *testing.T) {
	w := NewWizard()
	w.SetValidator(model.StepPlatformAccount, func() Validation {
		return invalid("choose at least one platform")
	})

	for i := 0; i < 5; i++ {
		step, v := w.Next()
		assert.Equal(t, model.StepPlatformAccount, step, "retries never move forward")
		assert.False(t, v.OK)
		assert.Equal(t, "choose at least one platform", v.Reason)
	}
}

func TestWizard_NextBackAndPrepareHooks(t *testing.T) {
	w := NewWizard()
	var entered []model.Step
	for _, s := range []model.Step{model.StepPlatformAccount, model.StepCampaignPlacement, model.StepAssetAssignment, model.StepReviewSubmit} {
		w.OnEnter(s, func(step model.Step) { entered = append(entered, step) })
	}

	for i := 0; i < 3; i++ {
		_, v := w.Next()
		require.True(t, v.OK)
	}
	assert.Equal(t, model.StepReviewSubmit, w.Current())

	_, v := w.Next()
	assert.False(t, v.OK, "no step after review")

	assert.Equal(t, model.StepAssetAssignment, w.Back())
	w.Reset()
	assert.Equal(t, model.StepPlatformAccount, w.Current())
	assert.Equal(t, model.StepPlatformAccount, w.Back(), "back from the first step stays put")

	assert.Equal(t, []model.Step{
		model.StepCampaignPlacement,
		model.StepAssetAssignment,
		model.StepReviewSubmit,
		model.StepAssetAssignment,
		model.StepPlatformAccount,
	}, entered)
}

func TestWizard_EarlierGatesAreRechecked(t *testing.T) {
	w := NewWizard()
	placed := true
	w.SetValidator(model.StepCampaignPlacement, func() Validation {
		if !placed {
			return invalid("select at least one ad group for tiktok")
		}
		return valid()
	})

	_, v := w.Next()
	require.True(t, v.OK)
	_, v = w.Next()
	require.True(t, v.OK)
	require.Equal(t, model.StepAssetAssignment, w.Current())

	placed = false
	step, v := w.Next()
	assert.Equal(t, model.StepAssetAssignment, step)
	assert.False(t, v.OK)
	assert.Equal(t, "select at least one ad group for tiktok", v.Reason)
}

func TestStepValidators(t *testing.T) {
	platforms := model.DefaultPlatforms()
	g := NewGraph()
	sel := model.Selection{}

	assert.False(t, ValidatePlatformStep(sel).OK)
	sel.Platforms = []model.Platform{model.PlatformFacebook, model.PlatformTikTok}
	assert.True(t, ValidatePlatformStep(sel).OK)

	v := ValidatePlacementStep(sel, g, platforms)
	assert.False(t, v.OK)
	assert.Equal(t, "select at least one ad set for facebook", v.Reason)

	g.addPlacement(model.Placement{ID: "p1", Platform: model.PlatformFacebook})
	v = ValidatePlacementStep(sel, g, platforms)
	assert.Equal(t, "select at least one ad group for tiktok", v.Reason)

	g.addPlacement(model.Placement{ID: "p2", Platform: model.PlatformTikTok})
	assert.True(t, ValidatePlacementStep(sel, g, platforms).OK)

	assert.False(t, ValidateAssignmentStep(g).OK)
	e, _ := g.entry("p1")
	e.slots[0].Assets = append(e.slots[0].Assets, "img-1")
	assert.True(t, ValidateAssignmentStep(g).OK)
}
