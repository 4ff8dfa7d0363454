package assignment

import (
	"math/rand"
	"testing"

	"creative-assigner/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotManager_SequentialDropsGrowOpenSlot(t *testing.T) {
	f := newFixture(t, nil)
	f.addAsset(t, "img-1", model.AssetKindImage)
	f.addAsset(t, "img-2", model.AssetKindImage)
	f.addPlacement(t, "p1", model.PlatformFacebook)

	require.Equal(t, [][]string{{}}, f.assetsOf("p1"))

	f.drop(t, "img-1", Target{PlacementID: "p1"})
	assert.Equal(t, [][]string{{"img-1"}, {}}, f.assetsOf("p1"))

	open := f.graph.Slots("p1")[1]
	f.drop(t, "img-2", Target{PlacementID: "p1", SlotID: slotID(open.ID)})
	assert.Equal(t, [][]string{{"img-1"}, {"img-2"}, {}}, f.assetsOf("p1"))

	f.requireConsistent(t)
	assert.Equal(t, model.SlotStatusPopulated, f.graph.Slots("p1")[0].Status)
	assert.Equal(t, model.SlotStatusEmpty, f.graph.Slots("p1")[2].Status)
}

func TestSlotManager_DropOnPopulatedSlotAddsAsset(t *testing.T) {
	f := newFixture(t, nil)
	f.addAsset(t, "img-1", model.AssetKindImage)
	f.addAsset(t, "vid-1", model.AssetKindVideo)
	f.addPlacement(t, "p1", model.PlatformTikTok)

	first := f.drop(t, "img-1", Target{PlacementID: "p1"})
	f.drop(t, "vid-1", Target{PlacementID: "p1", SlotID: slotID(first.ID)})

	assert.Equal(t, [][]string{{"img-1", "vid-1"}, {}}, f.assetsOf("p1"))
	f.requireConsistent(t)
}

func TestSlotManager_DuplicateAssetInSlotIsNoop(t *testing.T) {
	f := newFixture(t, nil)
	f.addAsset(t, "img-1", model.AssetKindImage)
	f.addPlacement(t, "p1", model.PlatformFacebook)

	slot := f.drop(t, "img-1", Target{PlacementID: "p1"})
	_, err := f.slots.Assign(slot.Ref(), "img-1")

	assert.ErrorIs(t, err, ErrDuplicateAsset)
	assert.Equal(t, [][]string{{"img-1"}, {}}, f.assetsOf("p1"))
	assert.Equal(t, 1, f.usage.Count("img-1"))
}

func TestSlotManager_UnsupportedKindRejected(t *testing.T) {
	platforms := model.DefaultPlatforms()
	d := platforms[model.PlatformTikTok]
	d.SupportedKinds = []model.AssetKind{model.AssetKindVideo}
	platforms[model.PlatformTikTok] = d

	f := newFixture(t, platforms)
	f.addAsset(t, "img-1", model.AssetKindImage)
	f.addPlacement(t, "p1", model.PlatformTikTok)

	ref, err := f.slots.ResolveTarget(Target{PlacementID: "p1"})
	require.NoError(t, err)
	_, err = f.slots.Assign(ref, "img-1")
	assert.ErrorIs(t, err, ErrUnsupportedAssetKind)
	assert.Equal(t, [][]string{{}}, f.assetsOf("p1"))
}

func TestSlotManager_AssignUnknownAsset(t *testing.T) {
	f := newFixture(t, nil)
	f.addPlacement(t, "p1", model.PlatformFacebook)
	ref, err := f.slots.ResolveTarget(Target{PlacementID: "p1"})
	require.NoError(t, err)

	_, err = f.slots.Assign(ref, "missing")
	assert.ErrorIs(t, err, ErrAssetNotInCatalog)
}

func TestSlotManager_ResolveTarget(t *testing.T) {
	f := newFixture(t, nil)
	f.addAsset(t, "img-1", model.AssetKindImage)
	f.addPlacement(t, "p1", model.PlatformFacebook)
	populated := f.drop(t, "img-1", Target{PlacementID: "p1"})

	t.Run("exact slot", func(t *testing.T) {
		ref, err := f.slots.ResolveTarget(Target{PlacementID: "p1", SlotID: slotID(populated.ID)})
		require.NoError(t, err)
		assert.Equal(t, populated.Ref(), ref)
	})
	t.Run("unknown slot falls back to open slot", func(t *testing.T) {
		ref, err := f.slots.ResolveTarget(Target{PlacementID: "p1", SlotID: slotID(99)})
		require.NoError(t, err)
		slots := f.graph.Slots("p1")
		assert.Equal(t, slots[len(slots)-1].Ref(), ref)
	})
	t.Run("missing placement", func(t *testing.T) {
		_, err := f.slots.ResolveTarget(Target{PlacementID: "nope"})
		assert.ErrorIs(t, err, ErrPlacementNotSelected)
	})
	t.Run("no placement", func(t *testing.T) {
		_, err := f.slots.ResolveTarget(Target{})
		assert.ErrorIs(t, err, ErrInvalidTarget)
	})
}

func TestSlotManager_ResolveTargetSynthesizesOpenSlot(t *testing.T) {
	f := newFixture(t, nil)
	f.addAsset(t, "img-1", model.AssetKindImage)
	f.addPlacement(t, "p1", model.PlatformFacebook)
	f.drop(t, "img-1", Target{PlacementID: "p1"})

	// simulate an inconsistent tail: the open slot went missing
	e, _ := f.graph.entry("p1")
	e.slots = e.slots[:1]

	ref, err := f.slots.ResolveTarget(Target{PlacementID: "p1"})
	require.NoError(t, err)
	assert.Equal(t, 2, ref.SlotID, "slot ids are never reused")
	require.NoError(t, f.graph.CheckInvariants())
}

func TestSlotManager_UnassignClosesGap(t *testing.T) {
	f := newFixture(t, nil)
	f.addAsset(t, "img-1", model.AssetKindImage)
	f.addAsset(t, "img-2", model.AssetKindImage)
	f.addPlacement(t, "p1", model.PlatformFacebook)
	first := f.drop(t, "img-1", Target{PlacementID: "p1"})
	f.drop(t, "img-2", Target{PlacementID: "p1"})

	require.NoError(t, f.slots.Unassign(first.Ref(), "img-1"))

	assert.Equal(t, [][]string{{"img-2"}, {}}, f.assetsOf("p1"))
	assert.Equal(t, 0, f.usage.Count("img-1"))
	f.requireConsistent(t)

	err := f.slots.Unassign(first.Ref(), "img-1")
	assert.ErrorIs(t, err, ErrSlotNotFound)
}

func TestSlotManager_UnassignKeepsSlotWithRemainingAssets(t *testing.T) {
	f := newFixture(t, nil)
	f.addAsset(t, "img-1", model.AssetKindImage)
	f.addAsset(t, "img-2", model.AssetKindImage)
	f.addPlacement(t, "p1", model.PlatformFacebook)
	slot := f.drop(t, "img-1", Target{PlacementID: "p1"})
	f.drop(t, "img-2", Target{PlacementID: "p1", SlotID: slotID(slot.ID)})

	require.NoError(t, f.slots.Unassign(slot.Ref(), "img-1"))
	assert.Equal(t, [][]string{{"img-2"}, {}}, f.assetsOf("p1"))

	assert.ErrorIs(t, f.slots.Unassign(slot.Ref(), "img-1"), ErrAssetNotAssigned)
}

func TestSlotManager_RemovePlacementReturnsOrphans(t *testing.T) {
	f := newFixture(t, nil)
	f.addAsset(t, "img-1", model.AssetKindImage)
	f.addAsset(t, "img-2", model.AssetKindImage)
	f.addPlacement(t, "p1", model.PlatformFacebook)
	f.addPlacement(t, "p2", model.PlatformTikTok)
	f.drop(t, "img-1", Target{PlacementID: "p1"})
	f.drop(t, "img-2", Target{PlacementID: "p1"})
	f.drop(t, "img-2", Target{PlacementID: "p2"})

	orphaned, err := f.slots.RemovePlacement("p1")
	require.NoError(t, err)

	assert.Equal(t, []string{"img-1"}, orphaned)
	assert.Equal(t, 1, f.usage.Count("img-2"))
	assert.False(t, f.graph.HasPlacement("p1"))
	f.requireConsistent(t)

	_, err = f.slots.RemovePlacement("p1")
	assert.ErrorIs(t, err, ErrPlacementNotSelected)
}

func TestSlotManager_TouchingFailedSlotMarksFixed(t *testing.T) {
	f := newFixture(t, nil)
	f.addAsset(t, "img-1", model.AssetKindImage)
	f.addAsset(t, "img-2", model.AssetKindImage)
	f.addPlacement(t, "p1", model.PlatformFacebook)
	slot := f.drop(t, "img-1", Target{PlacementID: "p1"})
	f.graph.slot(slot.Ref()).Status = model.SlotStatusFailed
	f.graph.slot(slot.Ref()).Error = "bad asset"

	f.drop(t, "img-2", Target{PlacementID: "p1", SlotID: slotID(slot.ID)})

	got, _ := f.graph.Slot(slot.Ref())
	assert.Equal(t, model.SlotStatusFixed, got.Status)
	assert.Empty(t, got.Error)
	assert.Equal(t, []model.SlotRef{slot.Ref()}, f.reconciler.Fixed())
}

func TestSlotManager_SetText(t *testing.T) {
	f := newFixture(t, nil)
	f.addAsset(t, "img-1", model.AssetKindImage)
	f.addPlacement(t, "p1", model.PlatformFacebook)
	slot := f.drop(t, "img-1", Target{PlacementID: "p1"})

	got, err := f.slots.SetText(slot.Ref(), "Spring sale", "Up to 50% off")
	require.NoError(t, err)
	assert.Equal(t, "Spring sale", got.AdName)
	assert.Equal(t, "Up to 50% off", got.AdText)

	_, err = f.slots.SetText(model.SlotRef{PlacementID: "p1", SlotID: 42}, "x", "y")
	assert.ErrorIs(t, err, ErrSlotNotFound)
}

func TestSlotManager_AddPlacementIdempotentAndValidated(t *testing.T) {
	f := newFixture(t, nil)
	f.addPlacement(t, "p1", model.PlatformFacebook)
	f.addPlacement(t, "p1", model.PlatformFacebook)
	assert.Len(t, f.graph.Placements(), 1)
	assert.Len(t, f.graph.Slots("p1"), 1)

	err := f.slots.AddPlacement(model.Placement{ID: "p2", Platform: "myspace"})
	assert.ErrorIs(t, err, ErrUnknownPlatform)
}

func TestSlotManager_Events(t *testing.T) {
	f := newFixture(t, nil)
	f.addAsset(t, "img-1", model.AssetKindImage)
	f.addPlacement(t, "p1", model.PlatformFacebook)
	f.events = nil

	slot := f.drop(t, "img-1", Target{PlacementID: "p1"})
	require.NoError(t, f.slots.Unassign(slot.Ref(), "img-1"))

	var types []model.EventType
	for _, e := range f.events {
		types = append(types, e.Type)
	}
	assert.Equal(t, []model.EventType{
		model.EventAssetsChanged,
		model.EventAdSlotCreated,
		model.EventAssetsChanged,
		model.EventAdSlotRemoved,
	}, types)
}

func TestSlotManager_Repair(t *testing.T) {
	f := newFixture(t, nil)
	f.addAsset(t, "img-1", model.AssetKindImage)
	f.addPlacement(t, "p1", model.PlatformFacebook)
	f.drop(t, "img-1", Target{PlacementID: "p1"})

	e, _ := f.graph.entry("p1")
	hole := &model.AdSlot{ID: 50, PlacementID: "p1", Assets: []string{}, Status: model.SlotStatusEmpty}
	e.slots = []*model.AdSlot{hole, e.slots[0]}
	require.Error(t, f.graph.CheckInvariants())

	assert.Equal(t, 2, f.slots.Repair())
	require.NoError(t, f.graph.CheckInvariants())
	assert.Equal(t, [][]string{{"img-1"}, {}}, f.assetsOf("p1"))
}

// Random assign/unassign/remove sequences must keep the open-slot invariant and
// the usage counts exact.
func TestSlotManager_RandomSequencesKeepInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	assets := []string{"a1", "a2", "a3", "a4"}
	placements := []string{"p1", "p2", "p3"}

	for round := 0; round < 20; round++ {
		f := newFixture(t, nil)
		for _, a := range assets {
			f.addAsset(t, a, model.AssetKindImage)
		}
		for _, p := range placements {
			f.addPlacement(t, p, model.PlatformFacebook)
		}

		for step := 0; step < 200; step++ {
			p := placements[rng.Intn(len(placements))]
			if !f.graph.HasPlacement(p) {
				f.addPlacement(t, p, model.PlatformFacebook)
				continue
			}
			slots := f.graph.Slots(p)
			switch op := rng.Intn(10); {
			case op < 6:
				target := Target{PlacementID: p}
				if rng.Intn(2) == 0 {
					target.SlotID = slotID(slots[rng.Intn(len(slots))].ID)
				}
				ref, err := f.slots.ResolveTarget(target)
				require.NoError(t, err)
				_, err = f.slots.Assign(ref, assets[rng.Intn(len(assets))])
				if err != nil {
					require.ErrorIs(t, err, ErrDuplicateAsset)
				}
			case op < 9:
				s := slots[rng.Intn(len(slots))]
				if len(s.Assets) == 0 {
					continue
				}
				require.NoError(t, f.slots.Unassign(s.Ref(), s.Assets[rng.Intn(len(s.Assets))]))
			default:
				_, err := f.slots.RemovePlacement(p)
				require.NoError(t, err)
			}
			f.requireConsistent(t)
			for _, pl := range f.graph.Placements() {
				got := f.graph.Slots(pl.ID)
				require.Empty(t, got[len(got)-1].Assets)
			}
		}
	}
}
