package model

// EventType names a change notification emitted by the assignment engine.
type EventType string

const (
	EventAssetsChanged             EventType = "assets-changed"
	EventPlacementSelectionChanged EventType = "placement-selection-changed"
	EventAdSlotCreated             EventType = "ad-slot-created"
	EventAdSlotRemoved             EventType = "ad-slot-removed"
	EventSubmissionComplete        EventType = "submission-complete"
)

// Event carries identifiers only; listeners re-derive state from the graph.
type Event struct {
	Type        EventType `json:"type"`
	SessionID   string    `json:"session_id,omitempty"`
	PlacementID string    `json:"placement_id,omitempty"`
	SlotID      *int      `json:"slot_id,omitempty"`
	AssetID     string    `json:"asset_id,omitempty"`
	Attempt     int64     `json:"attempt,omitempty"`
}
