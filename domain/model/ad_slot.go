package model

import "fmt"

// SlotStatus tracks an AdSlot through assignment and submission.
type SlotStatus string

const (
	SlotStatusEmpty      SlotStatus = "empty"
	SlotStatusPopulated  SlotStatus = "populated"
	SlotStatusSubmitting SlotStatus = "submitting"
	SlotStatusSucceeded  SlotStatus = "succeeded"
	SlotStatusFailed     SlotStatus = "failed"
	SlotStatusFixed      SlotStatus = "fixed"
	// SlotStatusUnknown marks a submitted slot no result could be matched to.
	SlotStatusUnknown SlotStatus = "unknown"
)

// SlotRef addresses a slot across the whole graph.
type SlotRef struct {
	PlacementID string `json:"placement_id"`
	SlotID      int    `json:"slot_id"`
}

func (r SlotRef) String() string {
	return fmt.Sprintf("%s#%d", r.PlacementID, r.SlotID)
}

// AdSlot is one ad within a placement. ID is a placement-scoped ordinal that is never reused.
type AdSlot struct {
	ID          int        `json:"id"`
	PlacementID string     `json:"placement_id"`
	Assets      []string   `json:"assets"`
	AdName      string     `json:"ad_name"`
	AdText      string     `json:"ad_text"`
	Status      SlotStatus `json:"status"`
	Error       string     `json:"error,omitempty"`
	AdID        string     `json:"ad_id,omitempty"`
}

// Ref returns the graph-wide address of the slot.
func (s AdSlot) Ref() SlotRef {
	return SlotRef{PlacementID: s.PlacementID, SlotID: s.ID}
}

// IsOpen reports whether the slot has no assets yet.
func (s AdSlot) IsOpen() bool {
	return len(s.Assets) == 0
}

// Contains reports whether assetID is assigned to the slot.
func (s AdSlot) Contains(assetID string) bool {
	for _, a := range s.Assets {
		if a == assetID {
			return true
		}
	}
	return false
}

// Clone returns a deep copy safe to hand out of the aggregate.
func (s AdSlot) Clone() AdSlot {
	out := s
	out.Assets = make([]string, len(s.Assets))
	copy(out.Assets, s.Assets)
	return out
}
