package model

// AssetKind is the media type of a creative asset.
type AssetKind string

const (
	AssetKindImage AssetKind = "image"
	AssetKindVideo AssetKind = "video"
)

// Valid reports whether k is one of the supported media kinds.
func (k AssetKind) Valid() bool {
	return k == AssetKindImage || k == AssetKindVideo
}

// Asset is an immutable creative selected from the asset library.
// Only declared metadata is consulted; the binary content is never inspected.
type Asset struct {
	ID       string    `json:"id"`
	Kind     AssetKind `json:"kind"`
	URL      string    `json:"url"`
	Name     string    `json:"name"`
	Width    *int      `json:"width,omitempty"`
	Height   *int      `json:"height,omitempty"`
	Duration *float64  `json:"duration,omitempty"` // seconds, videos only
}
