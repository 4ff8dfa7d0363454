package repository

import (
	"context"

	"creative-assigner/domain/model"
)

// IAssetLibrary reads creatives the operator can pick from.
type IAssetLibrary interface {
	// ListAssets returns up to limit assets, newest first. An empty kind lists every kind.
	ListAssets(ctx context.Context, kind model.AssetKind, limit int) ([]model.Asset, error)
	// GetAsset returns ErrAssetNotFound when the id is unknown.
	GetAsset(ctx context.Context, id string) (*model.Asset, error)
}
