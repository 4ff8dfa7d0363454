package model

import (
	"sort"
	"strings"
)

// Platform identifies an external ad platform.
type Platform string

const (
	PlatformFacebook Platform = "facebook"
	PlatformTikTok   Platform = "tiktok"
)

// Normalize lower-cases and trims a platform name.
func (p Platform) Normalize() Platform {
	return Platform(strings.ToLower(strings.TrimSpace(string(p))))
}

// PlatformFields names the request fields a platform expects on ad creation.
type PlatformFields struct {
	PlacementID string `json:"placement_id"`
	AdName      string `json:"ad_name"`
	AdText      string `json:"ad_text"`
	Assets      string `json:"assets"`
}

// PlatformDescriptor carries everything that differs between platforms so the
// assignment code itself never branches on a platform name.
type PlatformDescriptor struct {
	Name           Platform          `json:"name"`
	DisplayName    string            `json:"display_name"`
	PlacementNoun  string            `json:"placement_noun"`
	SupportedKinds []AssetKind       `json:"supported_kinds"`
	Fields         PlatformFields    `json:"fields"`
	StatusLabels   map[string]string `json:"status_labels"`
}

// Supports reports whether assets of kind k may be placed on this platform.
func (d PlatformDescriptor) Supports(k AssetKind) bool {
	for _, s := range d.SupportedKinds {
		if s == k {
			return true
		}
	}
	return false
}

// Label maps a raw platform status code to a display label, falling back to the code.
func (d PlatformDescriptor) Label(code string) string {
	if l, ok := d.StatusLabels[strings.ToUpper(code)]; ok {
		return l
	}
	return code
}

// PlatformRegistry resolves descriptors by name.
type PlatformRegistry map[Platform]PlatformDescriptor

// Get looks up a descriptor; the name is normalized first.
func (r PlatformRegistry) Get(p Platform) (PlatformDescriptor, bool) {
	d, ok := r[p.Normalize()]
	return d, ok
}

// Names returns the registered platforms in stable order.
func (r PlatformRegistry) Names() []Platform {
	out := make([]Platform, 0, len(r))
	for p := range r {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Restrict returns a registry limited to the named platforms. Unknown names are skipped.
func (r PlatformRegistry) Restrict(names []string) PlatformRegistry {
	if len(names) == 0 {
		return r
	}
	out := make(PlatformRegistry, len(names))
	for _, n := range names {
		if d, ok := r.Get(Platform(n)); ok {
			out[d.Name] = d
		}
	}
	return out
}

// DefaultPlatforms returns the two built-in platform descriptors.
func DefaultPlatforms() PlatformRegistry {
	return PlatformRegistry{
		PlatformFacebook: {
			Name:           PlatformFacebook,
			DisplayName:    "Facebook",
			PlacementNoun:  "ad set",
			SupportedKinds: []AssetKind{AssetKindImage, AssetKindVideo},
			Fields: PlatformFields{
				PlacementID: "adset_id",
				AdName:      "name",
				AdText:      "message",
				Assets:      "creative_assets",
			},
			StatusLabels: map[string]string{
				"ACTIVE":          "Active",
				"PAUSED":          "Paused",
				"DELETED":         "Deleted",
				"ARCHIVED":        "Archived",
				"CAMPAIGN_PAUSED": "Campaign paused",
				"IN_PROCESS":      "In process",
				"WITH_ISSUES":     "With issues",
			},
		},
		PlatformTikTok: {
			Name:           PlatformTikTok,
			DisplayName:    "TikTok",
			PlacementNoun:  "ad group",
			SupportedKinds: []AssetKind{AssetKindImage, AssetKindVideo},
			Fields: PlatformFields{
				PlacementID: "adgroup_id",
				AdName:      "ad_name",
				AdText:      "ad_text",
				Assets:      "material_ids",
			},
			StatusLabels: map[string]string{
				"ADGROUP_STATUS_DELIVERY_OK":      "Delivering",
				"ADGROUP_STATUS_DISABLE":          "Disabled",
				"ADGROUP_STATUS_CAMPAIGN_DISABLE": "Campaign disabled",
				"ADGROUP_STATUS_BUDGET_EXCEED":    "Budget exceeded",
				"ADGROUP_STATUS_NOT_DELIVER":      "Not delivering",
				"ADGROUP_STATUS_DELETE":           "Deleted",
			},
		},
	}
}
