package market

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LocationRule adjusts prices at one venue. A rule with a category applies
// only to items carrying that category tag; a rule with an empty category
// applies to everything at the venue. Category rules win over venue-wide
// rules.
type LocationRule struct {
	VenueID    string  `yaml:"venue"`
	Category   string  `yaml:"category,omitempty"`
	Multiplier float64 `yaml:"multiplier"`
}

// DistanceEntry is one edge of the symmetric venue distance table.
type DistanceEntry struct {
	From     string `yaml:"from"`
	To       string `yaml:"to"`
	Distance int    `yaml:"distance"`
}

// EconomyConfig carries every tunable economic rule. The tables are data,
// not code, so tests and mods can swap in their own worlds.
type EconomyConfig struct {
	// Spread is the minimum fractional gap between buy and sell price.
	Spread float64 `yaml:"spread"`

	// Bounds on the combined price modifier.
	MinPriceModifier float64 `yaml:"min_price_modifier"`
	MaxPriceModifier float64 `yaml:"max_price_modifier"`

	// Travel economics for arbitrage planning.
	TravelCostPerDistance int `yaml:"travel_cost_per_distance"`
	DefaultDistance       int `yaml:"default_distance"`

	// MinTradeProfit is the smallest coin profit worth recommending.
	MinTradeProfit int `yaml:"min_trade_profit"`

	// HistoryCapacity bounds the trade record FIFO.
	HistoryCapacity int `yaml:"history_capacity"`

	// Per-tier coin adjustments, indexed by tier ordinal (0..6).
	SupplyCoinAdjustments []int `yaml:"supply_coin_adjustments"`
	DemandCoinAdjustments []int `yaml:"demand_coin_adjustments"`

	LocationRules []LocationRule  `yaml:"location_rules"`
	Distances     []DistanceEntry `yaml:"distances"`
}

// DefaultEconomyConfig returns the built-in rules for the five-venue world.
func DefaultEconomyConfig() *EconomyConfig {
	return &EconomyConfig{
		Spread:                0.15,
		MinPriceModifier:      0.5,
		MaxPriceModifier:      2.5,
		TravelCostPerDistance: 2,
		DefaultDistance:       2,
		MinTradeProfit:        5,
		HistoryCapacity:       100,
		SupplyCoinAdjustments: []int{12, 9, 6, 3, 0, -3, -6},
		DemandCoinAdjustments: []int{-6, -4, -2, -1, 0, 2, 4},
		LocationRules: []LocationRule{
			{VenueID: "market_square", Multiplier: 1.10},
			{VenueID: "market_square", Category: "staple", Multiplier: 0.95},
			{VenueID: "harbor", Category: "cargo", Multiplier: 0.80},
			{VenueID: "gilded_goose", Multiplier: 1.05},
			{VenueID: "gilded_goose", Category: "provisions", Multiplier: 0.90},
			{VenueID: "apothecary", Category: "remedy", Multiplier: 0.90},
		},
		Distances: []DistanceEntry{
			{From: "market_square", To: "harbor", Distance: 2},
			{From: "market_square", To: "gilded_goose", Distance: 1},
			{From: "market_square", To: "apothecary", Distance: 1},
			{From: "market_square", To: "caravan_post", Distance: 3},
			{From: "harbor", To: "gilded_goose", Distance: 2},
			{From: "harbor", To: "apothecary", Distance: 3},
			{From: "harbor", To: "caravan_post", Distance: 4},
			{From: "gilded_goose", To: "apothecary", Distance: 1},
			{From: "gilded_goose", To: "caravan_post", Distance: 3},
			{From: "apothecary", To: "caravan_post", Distance: 2},
		},
	}
}

// LoadEconomyConfig reads an economy config from a YAML file and
// validates it.
func LoadEconomyConfig(path string) (*EconomyConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read economy config: %w", err)
	}
	var cfg EconomyConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parse economy config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("economy config: %w", err)
	}
	return &cfg, nil
}

// Validate checks the config for internal consistency.
func (c *EconomyConfig) Validate() error {
	if c.Spread < 0 {
		return fmt.Errorf("spread must be non-negative, got %v", c.Spread)
	}
	if c.MinPriceModifier <= 0 || c.MaxPriceModifier < c.MinPriceModifier {
		return fmt.Errorf("modifier bounds out of order: [%v, %v]",
			c.MinPriceModifier, c.MaxPriceModifier)
	}
	if c.HistoryCapacity <= 0 {
		return fmt.Errorf("history capacity must be positive, got %d", c.HistoryCapacity)
	}
	if len(c.SupplyCoinAdjustments) != NumTiers {
		return fmt.Errorf("supply coin adjustments: want %d entries, got %d",
			NumTiers, len(c.SupplyCoinAdjustments))
	}
	if len(c.DemandCoinAdjustments) != NumTiers {
		return fmt.Errorf("demand coin adjustments: want %d entries, got %d",
			NumTiers, len(c.DemandCoinAdjustments))
	}
	for _, r := range c.LocationRules {
		if r.VenueID == "" {
			return fmt.Errorf("location rule with empty venue")
		}
		if r.Multiplier <= 0 {
			return fmt.Errorf("location rule for %q: multiplier must be positive", r.VenueID)
		}
	}
	for _, d := range c.Distances {
		if d.Distance < 0 {
			return fmt.Errorf("distance %s-%s: must be non-negative", d.From, d.To)
		}
	}
	return nil
}

// SupplyAdjustment returns the coin adjustment for a supply tier.
func (c *EconomyConfig) SupplyAdjustment(t SupplyTier) int {
	return c.SupplyCoinAdjustments[clampTier(int(t))]
}

// DemandAdjustment returns the coin adjustment for a demand tier.
func (c *EconomyConfig) DemandAdjustment(t DemandTier) int {
	return c.DemandCoinAdjustments[clampTier(int(t))]
}

// LocationModifier returns the price multiplier for an item's categories at
// a venue. Venues absent from the rule table are neutral (1.0).
func (c *EconomyConfig) LocationModifier(venueID string, categories []string) float64 {
	venueWide := 1.0
	haveVenueWide := false
	for _, r := range c.LocationRules {
		if r.VenueID != venueID {
			continue
		}
		if r.Category == "" {
			if !haveVenueWide {
				venueWide = r.Multiplier
				haveVenueWide = true
			}
			continue
		}
		for _, cat := range categories {
			if cat == r.Category {
				return r.Multiplier
			}
		}
	}
	return venueWide
}

// Distance returns the travel distance between two venues. The table is
// symmetric; pairs not listed fall back to the default distance, and a
// venue is always at distance zero from itself.
func (c *EconomyConfig) Distance(a, b string) int {
	if a == b {
		return 0
	}
	for _, d := range c.Distances {
		if (d.From == a && d.To == b) || (d.From == b && d.To == a) {
			return d.Distance
		}
	}
	return c.DefaultDistance
}

// TravelCost returns the coin cost of moving between two venues.
func (c *EconomyConfig) TravelCost(a, b string) int {
	return c.Distance(a, b) * c.TravelCostPerDistance
}
