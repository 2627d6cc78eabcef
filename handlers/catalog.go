package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"roofops/services"
)

// HandleCatalogList returns the active service catalog plus the pricing
// dropdown options the quote editor needs.
func HandleCatalogList(app *pocketbase.PocketBase, cache *services.CatalogCache) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		list, err := cache.Services(app)
		if err != nil {
			log.Printf("catalog_list: %v", err)
			return jsonError(e, http.StatusInternalServerError, "failed to load service catalog")
		}

		return e.JSON(http.StatusOK, map[string]any{
			"services": list,
			"tiers":    services.TierOptions,
			"regions":  services.RegionOptions,
			"units":    services.UnitOptions,
			"defaults": services.DefaultPricing(),
		})
	}
}

// HandleCatalogRate computes the effective unit rate for a service under a
// tier and region, so the editor never reimplements the multiplier math.
func HandleCatalogRate(app *pocketbase.PocketBase, cache *services.CatalogCache) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		q := e.Request.URL.Query()
		code := q.Get("service")

		svc, ok, err := cache.Lookup(app, code)
		if err != nil {
			log.Printf("catalog_rate: %v", err)
			return jsonError(e, http.StatusInternalServerError, "failed to load service catalog")
		}
		if !ok {
			return jsonError(e, http.StatusNotFound, "unknown service code")
		}

		defaults := services.DefaultPricing()
		tier := services.Tier(q.Get("tier"))
		if q.Get("tier") == "" {
			tier = defaults.Tier
		}
		region := services.Region(q.Get("region"))
		if q.Get("region") == "" {
			region = defaults.Region
		}

		rate, err := services.EffectiveRate(svc.BaseRate, tier, region)
		if err != nil {
			return jsonError(e, http.StatusBadRequest, err.Error())
		}

		return e.JSON(http.StatusOK, map[string]any{
			"service":   svc.Code,
			"base_rate": svc.BaseRate,
			"tier":      tier,
			"region":    region,
			"unit_rate": rate,
		})
	}
}

// HandleCatalogRefresh drops the in-memory catalog cache after an admin edit.
func HandleCatalogRefresh(app *pocketbase.PocketBase, cache *services.CatalogCache) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		cache.Invalidate()
		return e.JSON(http.StatusOK, map[string]any{"refreshed": true})
	}
}
