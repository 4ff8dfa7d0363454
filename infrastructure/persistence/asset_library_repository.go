package persistence

import (
	"context"
	"time"

	"creative-assigner/domain/model"
	"creative-assigner/domain/repository"

	"gorm.io/gorm"
)

const defaultAssetPageSize = 50

// creativeAsset is the library row. Dimensions and duration are optional metadata.
type creativeAsset struct {
	ID              string    `gorm:"column:id;primaryKey"`
	Kind            string    `gorm:"column:kind"`
	URL             string    `gorm:"column:url"`
	Name            string    `gorm:"column:name"`
	Width           *int      `gorm:"column:width"`
	Height          *int      `gorm:"column:height"`
	DurationSeconds *float64  `gorm:"column:duration_seconds"`
	CreatedAt       time.Time `gorm:"column:created_at"`
}

func (creativeAsset) TableName() string { return "creative_assets" }

func (a creativeAsset) toModel() model.Asset {
	return model.Asset{
		ID:       a.ID,
		Kind:     model.AssetKind(a.Kind),
		URL:      a.URL,
		Name:     a.Name,
		Width:    a.Width,
		Height:   a.Height,
		Duration: a.DurationSeconds,
	}
}

// AssetLibraryRepository reads the creative library from MySQL through gorm.
type AssetLibraryRepository struct {
	db *gorm.DB
}

func NewAssetLibraryRepository(db *gorm.DB) repository.IAssetLibrary {
	return &AssetLibraryRepository{db: db}
}

func (r *AssetLibraryRepository) ListAssets(ctx context.Context, kind model.AssetKind, limit int) ([]model.Asset, error) {
	if limit <= 0 {
		limit = defaultAssetPageSize
	}
	q := r.db.WithContext(ctx).Model(&creativeAsset{})
	if kind != "" {
		q = q.Where("kind = ?", string(kind))
	}
	var rows []creativeAsset
	if err := q.Order("created_at DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]model.Asset, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toModel())
	}
	return out, nil
}

func (r *AssetLibraryRepository) GetAsset(ctx context.Context, id string) (*model.Asset, error) {
	var rows []creativeAsset
	if err := r.db.WithContext(ctx).Where("id = ?", id).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, repository.ErrAssetNotFound
	}
	a := rows[0].toModel()
	return &a, nil
}
