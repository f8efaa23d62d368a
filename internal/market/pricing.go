package market

import (
	"fmt"
	"math"
	"strings"

	"github.com/halfgrove/tradewind/internal/catalog"
	"github.com/halfgrove/tradewind/internal/world"
)

// PricingInfo is the derived price picture for one (item, venue) pair.
// Transient: recomputed on every call, never persisted.
type PricingInfo struct {
	ItemID      string `json:"item_id"`
	VenueID     string `json:"venue_id"`
	IsAvailable bool   `json:"is_available"`

	BaseBuyPrice  int `json:"base_buy_price"`
	BaseSellPrice int `json:"base_sell_price"`

	SupplyModifier   float64 `json:"supply_modifier"`
	DemandModifier   float64 `json:"demand_modifier"`
	LocationModifier float64 `json:"location_modifier"`
	FinalModifier    float64 `json:"final_modifier"`

	// Advisory per-tier coin adjustments, looked up by ordinal.
	SupplyAdjustment int `json:"supply_adjustment"`
	DemandAdjustment int `json:"demand_adjustment"`

	AdjustedBuyPrice  int `json:"adjusted_buy_price"`
	AdjustedSellPrice int `json:"adjusted_sell_price"`

	Explanation string `json:"explanation"`
}

// PriceManager derives effective prices from current tier state plus the
// fixed venue and category rules. Pure queries: no mutation anywhere.
type PriceManager struct {
	cfg     *EconomyConfig
	items   *catalog.Repository
	venues  *world.Directory
	tracker *StateTracker
}

// NewPriceManager wires a price manager over the tracker and directories.
func NewPriceManager(cfg *EconomyConfig, items *catalog.Repository, venues *world.Directory, tracker *StateTracker) *PriceManager {
	return &PriceManager{cfg: cfg, items: items, venues: venues, tracker: tracker}
}

// GetPricingInfo computes the full price picture for an item at a venue.
// Unknown items, unknown venues, and venues that do not deal in the item
// yield an unavailable result rather than an error.
func (pm *PriceManager) GetPricingInfo(itemID, venueID string) PricingInfo {
	info := PricingInfo{ItemID: itemID, VenueID: venueID}

	item, ok := pm.items.ItemByID(itemID)
	if !ok {
		return info
	}
	venue, ok := pm.venues.VenueByID(venueID)
	if !ok || !venue.Carries(itemID) {
		return info
	}

	info.IsAvailable = true
	info.BaseBuyPrice = item.BaseBuy
	info.BaseSellPrice = item.BaseSell

	supply := pm.tracker.GetSupplyTier(itemID, venueID)
	demand := pm.tracker.GetDemandTier(itemID, venueID)
	info.SupplyAdjustment = pm.cfg.SupplyAdjustment(supply)
	info.DemandAdjustment = pm.cfg.DemandAdjustment(demand)

	// Scarcity raises prices faster than glut lowers them.
	supplyLevel := supply.Level()
	if supplyLevel < 1.0 {
		info.SupplyModifier = 1.0 + (1.0-supplyLevel)*0.6
	} else {
		info.SupplyModifier = 1.0 - (supplyLevel-1.0)*0.15
	}

	demandLevel := demand.Level()
	if demandLevel < 1.0 {
		info.DemandModifier = 1.0 - (1.0-demandLevel)*0.3
	} else {
		info.DemandModifier = 1.0 + (demandLevel-1.0)*0.2
	}

	info.LocationModifier = pm.cfg.LocationModifier(venueID, item.Categories)

	final := info.SupplyModifier * info.DemandModifier * info.LocationModifier
	if final < pm.cfg.MinPriceModifier {
		final = pm.cfg.MinPriceModifier
	}
	if final > pm.cfg.MaxPriceModifier {
		final = pm.cfg.MaxPriceModifier
	}
	info.FinalModifier = final

	info.AdjustedBuyPrice = int(math.Ceil(float64(item.BaseBuy) * final))
	info.AdjustedSellPrice = int(math.Floor(float64(item.BaseSell) * final))

	// Spread floor: the venue always buys low and sells high.
	floor := int(math.Ceil(float64(info.AdjustedSellPrice) * (1.0 + pm.cfg.Spread)))
	if info.AdjustedBuyPrice < floor {
		info.AdjustedBuyPrice = floor
	}

	info.Explanation = pm.explain(info, supply, demand)
	return info
}

// explain builds the user-facing summary from whichever modifiers deviate
// from neutral by more than ten percent.
func (pm *PriceManager) explain(info PricingInfo, supply SupplyTier, demand DemandTier) string {
	var parts []string
	if info.SupplyModifier >= 1.1 {
		parts = append(parts, fmt.Sprintf("supply is tight (%s, +%d%%)",
			strings.ToLower(supply.String()), pct(info.SupplyModifier)))
	} else if info.SupplyModifier <= 0.9 {
		parts = append(parts, fmt.Sprintf("goods are plentiful (%s, %d%%)",
			strings.ToLower(supply.String()), pct(info.SupplyModifier)))
	}
	if info.DemandModifier >= 1.1 {
		parts = append(parts, fmt.Sprintf("demand is hot (%s, +%d%%)",
			strings.ToLower(demand.String()), pct(info.DemandModifier)))
	} else if info.DemandModifier <= 0.9 {
		parts = append(parts, fmt.Sprintf("few buyers (%s, %d%%)",
			strings.ToLower(demand.String()), pct(info.DemandModifier)))
	}
	if info.LocationModifier >= 1.1 {
		parts = append(parts, fmt.Sprintf("this venue charges a premium (+%d%%)",
			pct(info.LocationModifier)))
	} else if info.LocationModifier <= 0.9 {
		parts = append(parts, fmt.Sprintf("this venue discounts these goods (%d%%)",
			pct(info.LocationModifier)))
	}
	if len(parts) == 0 {
		return "Prices are near their usual levels."
	}
	return "Prices adjusted: " + strings.Join(parts, "; ") + "."
}

func pct(modifier float64) int {
	return int(math.Round((modifier - 1.0) * 100))
}

// GetBuyPrice returns the effective buy price, or -1 when unavailable.
func (pm *PriceManager) GetBuyPrice(itemID, venueID string) int {
	info := pm.GetPricingInfo(itemID, venueID)
	if !info.IsAvailable {
		return -1
	}
	return info.AdjustedBuyPrice
}

// GetSellPrice returns the effective sell price, or -1 when unavailable.
func (pm *PriceManager) GetSellPrice(itemID, venueID string) int {
	info := pm.GetPricingInfo(itemID, venueID)
	if !info.IsAvailable {
		return -1
	}
	return info.AdjustedSellPrice
}

// GetLocationPrices prices every item a venue deals in.
func (pm *PriceManager) GetLocationPrices(venueID string) []PricingInfo {
	venue, ok := pm.venues.VenueByID(venueID)
	if !ok {
		return nil
	}
	out := make([]PricingInfo, 0, len(venue.Stock))
	for _, itemID := range venue.Stock {
		out = append(out, pm.GetPricingInfo(itemID, venueID))
	}
	return out
}

// GetItemPriceComparison prices one item across every venue that deals
// in it.
func (pm *PriceManager) GetItemPriceComparison(itemID string) []PricingInfo {
	var out []PricingInfo
	for _, v := range pm.venues.AllVenues() {
		if !v.Carries(itemID) {
			continue
		}
		out = append(out, pm.GetPricingInfo(itemID, v.ID))
	}
	return out
}

// CalculateBulkPrice returns the total buy price for a quantity, with a
// volume discount: ten or more units take 10% off, five to nine take 5%.
// Returns -1 when the item is unavailable at the venue.
func (pm *PriceManager) CalculateBulkPrice(itemID, venueID string, quantity int) int {
	if quantity <= 0 {
		return -1
	}
	unit := pm.GetBuyPrice(itemID, venueID)
	if unit < 0 {
		return -1
	}
	discount := 1.0
	switch {
	case quantity >= 10:
		discount = 0.9
	case quantity >= 5:
		discount = 0.95
	}
	return int(math.Ceil(float64(unit*quantity) * discount))
}

// CalculatePriceVolatility returns the coefficient of variation of the
// adjusted buy price across all venues carrying the item, or 0 when fewer
// than two venues carry it.
func (pm *PriceManager) CalculatePriceVolatility(itemID string) float64 {
	var prices []float64
	for _, v := range pm.venues.AllVenues() {
		if !v.Carries(itemID) {
			continue
		}
		if p := pm.GetBuyPrice(itemID, v.ID); p > 0 {
			prices = append(prices, float64(p))
		}
	}
	if len(prices) < 2 {
		return 0
	}

	mean := 0.0
	for _, p := range prices {
		mean += p
	}
	mean /= float64(len(prices))
	if mean == 0 {
		return 0
	}

	variance := 0.0
	for _, p := range prices {
		variance += (p - mean) * (p - mean)
	}
	variance /= float64(len(prices))
	return math.Sqrt(variance) / mean
}
