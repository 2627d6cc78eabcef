package services

import (
	"fmt"
	"sync"

	"github.com/pocketbase/pocketbase/core"
)

// Service is a catalog entry: immutable reference data priced per unit.
type Service struct {
	Code      string  `json:"code"`
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	Unit      string  `json:"unit"`
	BaseRate  float64 `json:"base_rate"`
	AddonRate float64 `json:"addon_rate,omitempty"`
}

// CatalogCache loads the service catalog once and keeps it in memory for the
// session. The catalog is admin-maintained reference data, so a stale read
// costs nothing worse than a pre-update rate; Invalidate forces a reload.
type CatalogCache struct {
	mu       sync.RWMutex
	loaded   bool
	services []Service
	byCode   map[string]Service
}

// NewCatalogCache returns an empty, not-yet-loaded cache.
func NewCatalogCache() *CatalogCache {
	return &CatalogCache{}
}

// Services returns all active catalog entries, loading them on first use.
func (c *CatalogCache) Services(app core.App) ([]Service, error) {
	if err := c.ensureLoaded(app); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Service, len(c.services))
	copy(out, c.services)
	return out, nil
}

// Lookup returns the catalog entry for a service code.
func (c *CatalogCache) Lookup(app core.App, code string) (Service, bool, error) {
	if err := c.ensureLoaded(app); err != nil {
		return Service{}, false, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	svc, ok := c.byCode[code]
	return svc, ok, nil
}

// Invalidate drops the cached catalog so the next read reloads it.
func (c *CatalogCache) Invalidate() {
	c.mu.Lock()
	c.loaded = false
	c.services = nil
	c.byCode = nil
	c.mu.Unlock()
}

func (c *CatalogCache) ensureLoaded(app core.App) error {
	c.mu.RLock()
	loaded := c.loaded
	c.mu.RUnlock()
	if loaded {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loaded {
		return nil
	}

	records, err := app.FindRecordsByFilter(
		"service_catalog",
		"active = true",
		"category,name",
		0,
		0,
		nil,
	)
	if err != nil {
		return fmt.Errorf("load service catalog: %w", err)
	}

	services := make([]Service, 0, len(records))
	byCode := make(map[string]Service, len(records))
	for _, rec := range records {
		svc := Service{
			Code:      rec.GetString("code"),
			Name:      rec.GetString("name"),
			Category:  rec.GetString("category"),
			Unit:      rec.GetString("unit"),
			BaseRate:  rec.GetFloat("base_rate"),
			AddonRate: rec.GetFloat("addon_rate"),
		}
		services = append(services, svc)
		byCode[svc.Code] = svc
	}

	c.services = services
	c.byCode = byCode
	c.loaded = true
	return nil
}
