package assignment

import "errors"

var (
	ErrDropInFlight         = errors.New("another drop is being applied")
	ErrDuplicateDrop        = errors.New("same drop accepted within cooldown window")
	ErrInvalidTarget        = errors.New("drop target does not name a placement")
	ErrPlacementNotSelected = errors.New("placement is not selected")
	ErrSlotNotFound         = errors.New("ad slot not found")
	ErrAssetNotInCatalog    = errors.New("asset is not in the catalog")
	ErrDuplicateAsset       = errors.New("asset already assigned to this ad slot")
	ErrUnsupportedAssetKind = errors.New("asset kind not supported by the placement's platform")
	ErrAssetNotAssigned     = errors.New("asset is not assigned to this ad slot")
	ErrUsageUnderflow       = errors.New("usage count would drop below zero")
	ErrInvalidAsset         = errors.New("invalid asset")
	ErrAssetInUse           = errors.New("asset is still assigned to ad slots")
	ErrUnknownPlatform      = errors.New("unknown platform")
)
