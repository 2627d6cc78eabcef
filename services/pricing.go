// Package services provides the pricing, persistence and export logic for
// roofing quotes and leads.
package services

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Tier is a named pricing tier that scales catalog base rates.
type Tier string

// Region is a named geographic zone that scales rates for travel/logistics.
type Region string

const (
	TierRepair  Tier = "REPAIR"
	TierRestore Tier = "RESTORE"
	TierPremium Tier = "PREMIUM"

	RegionMetro   Region = "metro"
	RegionOuterSE Region = "outer_se"
	RegionRural   Region = "rural"
)

// GSTRate is the fixed Goods and Services Tax rate applied to quote subtotals.
const GSTRate = 0.10

// PricingDefaults names the fallback tier and region applied when a quote
// does not specify one. Kept in one place so the defaults are auditable.
type PricingDefaults struct {
	Tier   Tier   `json:"tier"`
	Region Region `json:"region"`
}

// DefaultPricing returns the standard defaults: RESTORE tier, metro region.
func DefaultPricing() PricingDefaults {
	return PricingDefaults{Tier: TierRestore, Region: RegionMetro}
}

var tierMultipliers = map[Tier]float64{
	TierRepair:  1.0,
	TierRestore: 1.15,
	TierPremium: 1.35,
}

var regionMultipliers = map[Region]float64{
	RegionMetro:   1.0,
	RegionOuterSE: 1.05,
	RegionRural:   1.10,
}

// InvalidConfigurationError reports an unrecognized tier or region value.
// The rate calculator fails loudly instead of silently defaulting, so a typo
// can never misprice a quote.
type InvalidConfigurationError struct {
	Field string
	Value string
}

func (e *InvalidConfigurationError) Error() string {
	return fmt.Sprintf("invalid %s value %q", e.Field, e.Value)
}

// TierMultiplier returns the markup multiplier for a tier.
func TierMultiplier(t Tier) (float64, error) {
	m, ok := tierMultipliers[t]
	if !ok {
		return 0, &InvalidConfigurationError{Field: "tier", Value: string(t)}
	}
	return m, nil
}

// RegionMultiplier returns the zone multiplier for a region.
func RegionMultiplier(r Region) (float64, error) {
	m, ok := regionMultipliers[r]
	if !ok {
		return 0, &InvalidConfigurationError{Field: "region", Value: string(r)}
	}
	return m, nil
}

// TierOptions lists the valid tier values in display order.
var TierOptions = []Tier{TierRepair, TierRestore, TierPremium}

// RegionOptions lists the valid region values in display order.
var RegionOptions = []Region{RegionMetro, RegionOuterSE, RegionRural}

// Round2 rounds a currency amount to 2 decimal places (half away from zero).
// All money math goes through decimal so sums stay exact at 2dp.
func Round2(amount float64) float64 {
	return decimal.NewFromFloat(amount).Round(2).InexactFloat64()
}

// EffectiveRate computes the unit rate for a service under a tier and region:
// round2(baseRate * tierMultiplier * regionMultiplier). The rate is rounded
// here, before any quantity multiplication, so persisted rates and totals
// reproduce exactly.
func EffectiveRate(baseRate float64, tier Tier, region Region) (float64, error) {
	tm, err := TierMultiplier(tier)
	if err != nil {
		return 0, err
	}
	rm, err := RegionMultiplier(region)
	if err != nil {
		return 0, err
	}
	rate := decimal.NewFromFloat(baseRate).
		Mul(decimal.NewFromFloat(tm)).
		Mul(decimal.NewFromFloat(rm)).
		Round(2)
	return rate.InexactFloat64(), nil
}

// LineTotal computes round2(quantity * unitRate). Quantity may be fractional
// (2.5 linear meters is a valid order line).
func LineTotal(quantity, unitRate float64) float64 {
	return decimal.NewFromFloat(quantity).
		Mul(decimal.NewFromFloat(unitRate)).
		Round(2).
		InexactFloat64()
}

// QuoteTotals holds the derived money fields of a quote.
type QuoteTotals struct {
	Subtotal float64
	GST      float64
	Total    float64
}

// CalcQuoteTotals derives subtotal, GST and grand total from line items.
// An empty list yields all zeros.
func CalcQuoteTotals(items []LineItem) QuoteTotals {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(decimal.NewFromFloat(item.LineTotal))
	}
	subtotal = subtotal.Round(2)
	gst := subtotal.Mul(decimal.NewFromFloat(GSTRate)).Round(2)
	total := subtotal.Add(gst).Round(2)
	return QuoteTotals{
		Subtotal: subtotal.InexactFloat64(),
		GST:      gst.InexactFloat64(),
		Total:    total.InexactFloat64(),
	}
}
