package assignment

import (
	"fmt"
	"strings"

	"creative-assigner/domain/model"
)

// SlotFilter narrows which populated slots go into a submission payload.
type SlotFilter interface {
	IncludeInPayload(slot model.AdSlot) bool
}

// SlotWarning flags a populated slot with blank ad copy. It never blocks submission.
type SlotWarning struct {
	Ref     model.SlotRef `json:"ref"`
	Field   string        `json:"field"`
	Message string        `json:"message"`
}

type placementEntry struct {
	placement  model.Placement
	slots      []*model.AdSlot
	nextSlotID int
}

func (e *placementEntry) find(slotID int) (int, *model.AdSlot) {
	for i, s := range e.slots {
		if s.ID == slotID {
			return i, s
		}
	}
	return -1, nil
}

// openSlot returns the trailing empty slot, or nil if the tail is populated.
func (e *placementEntry) openSlot() *model.AdSlot {
	if n := len(e.slots); n > 0 && e.slots[n-1].IsOpen() {
		return e.slots[n-1]
	}
	return nil
}

func (e *placementEntry) appendOpenSlot() *model.AdSlot {
	s := &model.AdSlot{
		ID:          e.nextSlotID,
		PlacementID: e.placement.ID,
		Assets:      []string{},
		Status:      model.SlotStatusEmpty,
	}
	e.nextSlotID++
	e.slots = append(e.slots, s)
	return s
}

// Graph is the single source of truth mapping placements to their ad slots.
// Every placement always ends with exactly one open slot.
// It is not safe for concurrent use; the owning session serializes access.
type Graph struct {
	entries map[string]*placementEntry
	order   []string
}

func NewGraph() *Graph {
	return &Graph{entries: make(map[string]*placementEntry)}
}

func (g *Graph) HasPlacement(id string) bool {
	_, ok := g.entries[id]
	return ok
}

func (g *Graph) Placement(id string) (model.Placement, bool) {
	e, ok := g.entries[id]
	if !ok {
		return model.Placement{}, false
	}
	return e.placement, true
}

// Placements lists the selected placements in selection order.
func (g *Graph) Placements() []model.Placement {
	out := make([]model.Placement, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.entries[id].placement)
	}
	return out
}

// PlacementsFor lists the selected placements of one platform.
func (g *Graph) PlacementsFor(p model.Platform) []model.Placement {
	var out []model.Placement
	for _, id := range g.order {
		if pl := g.entries[id].placement; pl.Platform == p {
			out = append(out, pl)
		}
	}
	return out
}

// Slots returns copies of a placement's slots, open slot last.
func (g *Graph) Slots(placementID string) []model.AdSlot {
	e, ok := g.entries[placementID]
	if !ok {
		return nil
	}
	out := make([]model.AdSlot, 0, len(e.slots))
	for _, s := range e.slots {
		out = append(out, s.Clone())
	}
	return out
}

// Slot returns a copy of the referenced slot.
func (g *Graph) Slot(ref model.SlotRef) (model.AdSlot, bool) {
	s := g.slot(ref)
	if s == nil {
		return model.AdSlot{}, false
	}
	return s.Clone(), true
}

// SlotIndex is the current position of the slot within its placement.
func (g *Graph) SlotIndex(ref model.SlotRef) int {
	e, ok := g.entries[ref.PlacementID]
	if !ok {
		return -1
	}
	i, _ := e.find(ref.SlotID)
	return i
}

// PopulatedSlots returns every slot holding at least one asset, in graph order.
func (g *Graph) PopulatedSlots() []model.AdSlot {
	var out []model.AdSlot
	for _, id := range g.order {
		for _, s := range g.entries[id].slots {
			if !s.IsOpen() {
				out = append(out, s.Clone())
			}
		}
	}
	return out
}

// UsageOf counts the slots containing assetID by walking the graph.
func (g *Graph) UsageOf(assetID string) int {
	n := 0
	for _, e := range g.entries {
		for _, s := range e.slots {
			if s.Contains(assetID) {
				n++
			}
		}
	}
	return n
}

// ToSubmissionPayload serializes populated slots per platform, skipping open slots.
// A nil filter includes every populated slot.
func (g *Graph) ToSubmissionPayload(filter SlotFilter) model.SubmissionPayload {
	payload := model.SubmissionPayload{Platforms: make(map[model.Platform][]model.SubmissionItem)}
	for _, id := range g.order {
		e := g.entries[id]
		for idx, s := range e.slots {
			if s.IsOpen() {
				continue
			}
			if filter != nil && !filter.IncludeInPayload(*s) {
				continue
			}
			p := e.placement
			payload.Platforms[p.Platform] = append(payload.Platforms[p.Platform], model.SubmissionItem{
				Platform:    p.Platform,
				AccountID:   p.AccountID,
				CampaignID:  p.CampaignID,
				PlacementID: p.ID,
				SlotIndex:   idx,
				SlotID:      s.ID,
				AdName:      s.AdName,
				AdText:      s.AdText,
				AssetIDs:    append([]string(nil), s.Assets...),
			})
		}
	}
	return payload
}

// Warnings lists populated slots whose ad name or text is blank.
func (g *Graph) Warnings() []SlotWarning {
	var out []SlotWarning
	for _, s := range g.PopulatedSlots() {
		if strings.TrimSpace(s.AdName) == "" {
			out = append(out, SlotWarning{Ref: s.Ref(), Field: "ad_name", Message: "ad name is blank"})
		}
		if strings.TrimSpace(s.AdText) == "" {
			out = append(out, SlotWarning{Ref: s.Ref(), Field: "ad_text", Message: "ad text is blank"})
		}
	}
	return out
}

// CheckInvariants verifies the open-slot and slot-identity rules.
func (g *Graph) CheckInvariants() error {
	for _, id := range g.order {
		e := g.entries[id]
		open := 0
		seen := make(map[int]struct{}, len(e.slots))
		for i, s := range e.slots {
			if _, dup := seen[s.ID]; dup {
				return fmt.Errorf("placement %s: duplicate slot id %d", id, s.ID)
			}
			seen[s.ID] = struct{}{}
			if s.IsOpen() {
				open++
				if i != len(e.slots)-1 {
					return fmt.Errorf("placement %s: empty slot %d is not last", id, s.ID)
				}
			}
			assets := make(map[string]struct{}, len(s.Assets))
			for _, a := range s.Assets {
				if _, dup := assets[a]; dup {
					return fmt.Errorf("placement %s: slot %d holds asset %s twice", id, s.ID, a)
				}
				assets[a] = struct{}{}
			}
		}
		if open != 1 {
			return fmt.Errorf("placement %s: %d open slots, want 1", id, open)
		}
	}
	return nil
}

func (g *Graph) entry(placementID string) (*placementEntry, bool) {
	e, ok := g.entries[placementID]
	return e, ok
}

func (g *Graph) slot(ref model.SlotRef) *model.AdSlot {
	e, ok := g.entries[ref.PlacementID]
	if !ok {
		return nil
	}
	_, s := e.find(ref.SlotID)
	return s
}

func (g *Graph) addPlacement(p model.Placement) (*placementEntry, bool) {
	if e, ok := g.entries[p.ID]; ok {
		return e, false
	}
	e := &placementEntry{placement: p}
	e.appendOpenSlot()
	g.entries[p.ID] = e
	g.order = append(g.order, p.ID)
	return e, true
}

func (g *Graph) removePlacement(id string) (*placementEntry, bool) {
	e, ok := g.entries[id]
	if !ok {
		return nil, false
	}
	delete(g.entries, id)
	for i, x := range g.order {
		if x == id {
			g.order = append(g.order[:i], g.order[i+1:]...)
			break
		}
	}
	return e, true
}
