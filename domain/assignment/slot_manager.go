package assignment

import (
	"fmt"
	"sort"
	"strconv"

	"creative-assigner/domain/model"
)

// Target is a loosely specified drop target: a placement, optionally narrowed to a slot.
type Target struct {
	PlacementID string `json:"placement_id"`
	SlotID      *int   `json:"slot_id,omitempty"`
}

// Key identifies the raw target for drop dedup.
func (t Target) Key() string {
	if t.SlotID == nil {
		return t.PlacementID
	}
	return t.PlacementID + "#" + strconv.Itoa(*t.SlotID)
}

// SlotManager applies assignment mutations to the graph and keeps the usage counter,
// the reconciler's fixed set and the event stream in step with them.
type SlotManager struct {
	graph      *Graph
	usage      *UsageCounter
	catalog    *Catalog
	platforms  model.PlatformRegistry
	reconciler *Reconciler
	emit       func(model.Event)
}

func NewSlotManager(
	graph *Graph,
	usage *UsageCounter,
	catalog *Catalog,
	platforms model.PlatformRegistry,
	reconciler *Reconciler,
	emit func(model.Event),
) *SlotManager {
	if emit == nil {
		emit = func(model.Event) {}
	}
	return &SlotManager{
		graph:      graph,
		usage:      usage,
		catalog:    catalog,
		platforms:  platforms,
		reconciler: reconciler,
		emit:       emit,
	}
}

// AddPlacement selects a placement and gives it its open slot. Selecting it again is a no-op.
func (m *SlotManager) AddPlacement(p model.Placement) error {
	p.Platform = p.Platform.Normalize()
	if _, ok := m.platforms.Get(p.Platform); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPlatform, p.Platform)
	}
	if p.ID == "" {
		return ErrInvalidTarget
	}
	e, added := m.graph.addPlacement(p)
	if !added {
		return nil
	}
	m.emit(model.Event{Type: model.EventPlacementSelectionChanged, PlacementID: p.ID})
	m.emit(slotEvent(model.EventAdSlotCreated, e.slots[0].Ref()))
	return nil
}

// ResolveTarget maps a drop target to a concrete slot: the exact slot when it exists,
// else the placement's open slot, else a freshly appended open slot.
func (m *SlotManager) ResolveTarget(t Target) (model.SlotRef, error) {
	if t.PlacementID == "" {
		return model.SlotRef{}, ErrInvalidTarget
	}
	e, ok := m.graph.entry(t.PlacementID)
	if !ok {
		return model.SlotRef{}, fmt.Errorf("%w: %s", ErrPlacementNotSelected, t.PlacementID)
	}
	if t.SlotID != nil {
		if _, s := e.find(*t.SlotID); s != nil {
			return s.Ref(), nil
		}
	}
	if open := e.openSlot(); open != nil {
		return open.Ref(), nil
	}
	s := e.appendOpenSlot()
	m.emit(slotEvent(model.EventAdSlotCreated, s.Ref()))
	return s.Ref(), nil
}

// Assign appends assetID to the slot. Filling the open slot grows a new one behind it.
func (m *SlotManager) Assign(ref model.SlotRef, assetID string) (model.AdSlot, error) {
	e, ok := m.graph.entry(ref.PlacementID)
	if !ok {
		return model.AdSlot{}, fmt.Errorf("%w: %s", ErrPlacementNotSelected, ref.PlacementID)
	}
	_, s := e.find(ref.SlotID)
	if s == nil {
		return model.AdSlot{}, fmt.Errorf("%w: %s", ErrSlotNotFound, ref)
	}
	asset, ok := m.catalog.Get(assetID)
	if !ok {
		return model.AdSlot{}, fmt.Errorf("%w: %s", ErrAssetNotInCatalog, assetID)
	}
	desc, ok := m.platforms.Get(e.placement.Platform)
	if !ok {
		return model.AdSlot{}, fmt.Errorf("%w: %s", ErrUnknownPlatform, e.placement.Platform)
	}
	if !desc.Supports(asset.Kind) {
		return model.AdSlot{}, fmt.Errorf("%w: %s on %s", ErrUnsupportedAssetKind, asset.Kind, desc.Name)
	}
	if s.Contains(assetID) {
		return s.Clone(), fmt.Errorf("%w: %s in %s", ErrDuplicateAsset, assetID, ref)
	}

	wasOpen := e.openSlot() == s
	s.Assets = append(s.Assets, assetID)
	m.touch(s)
	m.usage.Increment(assetID)
	m.emit(model.Event{Type: model.EventAssetsChanged, PlacementID: ref.PlacementID, SlotID: intPtr(ref.SlotID), AssetID: assetID})

	if wasOpen {
		next := e.appendOpenSlot()
		m.emit(slotEvent(model.EventAdSlotCreated, next.Ref()))
	}
	return s.Clone(), nil
}

// Unassign removes assetID from the slot. A slot left empty is removed so no hole
// remains ahead of the open slot.
func (m *SlotManager) Unassign(ref model.SlotRef, assetID string) error {
	e, ok := m.graph.entry(ref.PlacementID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrPlacementNotSelected, ref.PlacementID)
	}
	idx, s := e.find(ref.SlotID)
	if s == nil {
		return fmt.Errorf("%w: %s", ErrSlotNotFound, ref)
	}
	pos := -1
	for i, a := range s.Assets {
		if a == assetID {
			pos = i
			break
		}
	}
	if pos < 0 {
		return fmt.Errorf("%w: %s in %s", ErrAssetNotAssigned, assetID, ref)
	}
	if err := m.usage.Decrement(assetID); err != nil {
		return err
	}

	s.Assets = append(s.Assets[:pos], s.Assets[pos+1:]...)
	m.emit(model.Event{Type: model.EventAssetsChanged, PlacementID: ref.PlacementID, SlotID: intPtr(ref.SlotID), AssetID: assetID})

	if len(s.Assets) > 0 {
		m.touch(s)
		return nil
	}
	e.slots = append(e.slots[:idx], e.slots[idx+1:]...)
	m.reconciler.Forget(ref)
	m.emit(slotEvent(model.EventAdSlotRemoved, ref))
	return nil
}

// SetText updates the ad copy of a populated slot.
func (m *SlotManager) SetText(ref model.SlotRef, adName, adText string) (model.AdSlot, error) {
	s := m.graph.slot(ref)
	if s == nil {
		return model.AdSlot{}, fmt.Errorf("%w: %s", ErrSlotNotFound, ref)
	}
	s.AdName = adName
	s.AdText = adText
	if !s.IsOpen() {
		m.touch(s)
	}
	return s.Clone(), nil
}

// RemovePlacement deselects a placement, dropping all of its slots. It returns the
// assets whose usage fell to zero as a result.
func (m *SlotManager) RemovePlacement(placementID string) ([]string, error) {
	e, ok := m.graph.entry(placementID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPlacementNotSelected, placementID)
	}
	released := make(map[string]int)
	for _, s := range e.slots {
		for _, a := range s.Assets {
			released[a]++
		}
	}
	for a, n := range released {
		if m.usage.Count(a) < n {
			return nil, fmt.Errorf("%w: %s", ErrUsageUnderflow, a)
		}
	}

	m.graph.removePlacement(placementID)
	var orphaned []string
	for _, s := range e.slots {
		for _, a := range s.Assets {
			_ = m.usage.Decrement(a)
		}
		m.reconciler.Forget(s.Ref())
		m.emit(slotEvent(model.EventAdSlotRemoved, s.Ref()))
	}
	for a := range released {
		if m.usage.Count(a) == 0 {
			orphaned = append(orphaned, a)
		}
	}
	sort.Strings(orphaned)

	m.emit(model.Event{Type: model.EventPlacementSelectionChanged, PlacementID: placementID})
	if len(released) > 0 {
		m.emit(model.Event{Type: model.EventAssetsChanged, PlacementID: placementID})
	}
	return orphaned, nil
}

// Repair restores the open-slot invariant after an inconsistent state: interior empty
// slots are dropped and a missing open slot is appended. It returns the number of fixes.
func (m *SlotManager) Repair() int {
	fixes := 0
	for _, id := range m.graph.order {
		e := m.graph.entries[id]
		kept := e.slots[:0]
		for i, s := range e.slots {
			if s.IsOpen() && i != len(e.slots)-1 {
				fixes++
				m.emit(slotEvent(model.EventAdSlotRemoved, s.Ref()))
				continue
			}
			kept = append(kept, s)
		}
		e.slots = kept
		if e.openSlot() == nil {
			s := e.appendOpenSlot()
			fixes++
			m.emit(slotEvent(model.EventAdSlotCreated, s.Ref()))
		}
	}
	return fixes
}

// touch updates status after a mutation of a populated slot. A failed slot becomes
// fixed and is queued for the next fix-mode payload.
func (m *SlotManager) touch(s *model.AdSlot) {
	switch s.Status {
	case model.SlotStatusFailed, model.SlotStatusFixed:
		s.Status = model.SlotStatusFixed
		s.Error = ""
		m.reconciler.MarkFixed(s.Ref())
	case model.SlotStatusSubmitting:
		// left for the in-flight result to settle
	default:
		s.Status = model.SlotStatusPopulated
	}
}

func slotEvent(t model.EventType, ref model.SlotRef) model.Event {
	return model.Event{Type: t, PlacementID: ref.PlacementID, SlotID: intPtr(ref.SlotID)}
}

func intPtr(v int) *int { return &v }
