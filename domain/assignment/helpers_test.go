package assignment

import (
	"sync"
	"testing"
	"time"

	"creative-assigner/domain/model"

	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type fixture struct {
	graph      *Graph
	usage      *UsageCounter
	catalog    *Catalog
	reconciler *Reconciler
	slots      *SlotManager
	events     []model.Event
}

func newFixture(t *testing.T, platforms model.PlatformRegistry) *fixture {
	t.Helper()
	if platforms == nil {
		platforms = model.DefaultPlatforms()
	}
	f := &fixture{
		graph:      NewGraph(),
		usage:      NewUsageCounter(),
		catalog:    NewCatalog(),
		reconciler: NewReconciler(),
	}
	f.slots = NewSlotManager(f.graph, f.usage, f.catalog, platforms, f.reconciler, func(e model.Event) {
		f.events = append(f.events, e)
	})
	return f
}

func (f *fixture) addAsset(t *testing.T, id string, kind model.AssetKind) {
	t.Helper()
	_, err := f.catalog.Add(model.Asset{ID: id, Kind: kind, URL: "https://cdn.example.com/" + id, Name: id})
	require.NoError(t, err)
}

func (f *fixture) addPlacement(t *testing.T, id string, platform model.Platform) {
	t.Helper()
	require.NoError(t, f.slots.AddPlacement(model.Placement{
		ID:         id,
		Platform:   platform,
		AccountID:  "act-1",
		CampaignID: "cmp-1",
		Name:       "Placement " + id,
	}))
}

// drop resolves the target and assigns, like a session does for an accepted drop.
func (f *fixture) drop(t *testing.T, assetID string, target Target) model.AdSlot {
	t.Helper()
	ref, err := f.slots.ResolveTarget(target)
	require.NoError(t, err)
	slot, err := f.slots.Assign(ref, assetID)
	require.NoError(t, err)
	return slot
}

func (f *fixture) assetsOf(placementID string) [][]string {
	var out [][]string
	for _, s := range f.graph.Slots(placementID) {
		out = append(out, s.Assets)
	}
	return out
}

func (f *fixture) requireConsistent(t *testing.T) {
	t.Helper()
	require.NoError(t, f.graph.CheckInvariants())
	for _, a := range f.catalog.List() {
		require.Equal(t, f.graph.UsageOf(a.ID), f.usage.Count(a.ID), "usage of %s", a.ID)
	}
}

func slotID(v int) *int { return &v }
