package assignment

import (
	"fmt"
	"strings"

	"creative-assigner/domain/model"
)

// Catalog owns the canonical Asset records of a session in selection order.
type Catalog struct {
	assets map[string]model.Asset
	order  []string
}

func NewCatalog() *Catalog {
	return &Catalog{assets: make(map[string]model.Asset)}
}

// Add registers an asset. Re-adding a known id keeps the original record.
func (c *Catalog) Add(a model.Asset) (model.Asset, error) {
	if strings.TrimSpace(a.ID) == "" {
		return model.Asset{}, fmt.Errorf("%w: missing id", ErrInvalidAsset)
	}
	if !a.Kind.Valid() {
		return model.Asset{}, fmt.Errorf("%w: unsupported kind %q", ErrInvalidAsset, a.Kind)
	}
	if strings.TrimSpace(a.URL) == "" {
		return model.Asset{}, fmt.Errorf("%w: missing url", ErrInvalidAsset)
	}
	if existing, ok := c.assets[a.ID]; ok {
		return existing, nil
	}
	c.assets[a.ID] = a
	c.order = append(c.order, a.ID)
	return a, nil
}

// Get returns the asset with the given id.
func (c *Catalog) Get(id string) (model.Asset, bool) {
	a, ok := c.assets[id]
	return a, ok
}

// Remove drops an asset that is no longer used by any slot.
func (c *Catalog) Remove(id string, usage *UsageCounter) error {
	if _, ok := c.assets[id]; !ok {
		return ErrAssetNotInCatalog
	}
	if usage != nil && usage.Count(id) > 0 {
		return ErrAssetInUse
	}
	delete(c.assets, id)
	for i, x := range c.order {
		if x == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}

// List returns the assets in selection order.
func (c *Catalog) List() []model.Asset {
	out := make([]model.Asset, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.assets[id])
	}
	return out
}

func (c *Catalog) Len() int { return len(c.order) }
