package market

import (
	"fmt"

	"github.com/halfgrove/tradewind/internal/catalog"
	"github.com/halfgrove/tradewind/internal/clock"
	"github.com/halfgrove/tradewind/internal/npc"
	"github.com/halfgrove/tradewind/internal/player"
	"github.com/halfgrove/tradewind/internal/world"
)

// Deps are the host-game collaborators the engine consumes.
type Deps struct {
	Items   *catalog.Repository
	Venues  *world.Directory
	Player  *player.Player
	Clock   *clock.Clock
	Traders *npc.Directory
	Msgs    Messenger // Optional; nil discards messages
}

// Engine is the single call surface the rest of the game uses. It owns the
// four market components and is constructed once per game session; there is
// no ambient global state.
type Engine struct {
	cfg *EconomyConfig

	tracker   *StateTracker
	pricing   *PriceManager
	trades    *TradeManager
	arbitrage *ArbitrageCalculator

	venues *world.Directory
	clock  *clock.Clock
}

// NewEngine builds a market engine over the host collaborators. The config
// is validated up front; a broken rule table is a construction error, not a
// gameplay condition.
func NewEngine(deps Deps, cfg *EconomyConfig) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultEconomyConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if deps.Items == nil || deps.Venues == nil || deps.Player == nil ||
		deps.Clock == nil || deps.Traders == nil {
		return nil, fmt.Errorf("market engine: missing collaborator")
	}

	tracker := NewStateTracker(cfg, deps.Clock)
	pricing := NewPriceManager(cfg, deps.Items, deps.Venues, tracker)
	trades := NewTradeManager(cfg, deps.Items, deps.Venues, pricing, tracker,
		deps.Player, deps.Clock, deps.Traders, deps.Msgs)
	arb := NewArbitrageCalculator(cfg, deps.Items, deps.Venues, pricing, deps.Player)

	return &Engine{
		cfg:       cfg,
		tracker:   tracker,
		pricing:   pricing,
		trades:    trades,
		arbitrage: arb,
		venues:    deps.Venues,
		clock:     deps.Clock,
	}, nil
}

// ── Availability ─────────────────────────────────────────────────────────

// IsMarketAvailable reports whether the venue trades at the current time.
func (e *Engine) IsMarketAvailable(venueID string) bool {
	return e.trades.IsMarketAvailable(venueID, e.clock.CurrentTimeBlock())
}

// IsMarketAvailableAt reports whether the venue trades during a block.
func (e *Engine) IsMarketAvailableAt(venueID string, block clock.TimeBlock) bool {
	return e.trades.IsMarketAvailable(venueID, block)
}

// GetMarketStatus returns a UI-ready status string for the venue.
func (e *Engine) GetMarketStatus(venueID string) string {
	if e.IsMarketAvailable(venueID) {
		return "open"
	}
	if next := e.trades.nextOpenBlock(venueID, e.clock.CurrentTimeBlock()); next != nil {
		return fmt.Sprintf("closed until %s", *next)
	}
	return "closed"
}

// GetAvailableTraders returns the names of trading NPCs now at the venue.
func (e *Engine) GetAvailableTraders(venueID string) []string {
	return e.trades.AvailableTraders(venueID, e.clock.CurrentTimeBlock())
}

// ── Pricing ──────────────────────────────────────────────────────────────

// GetBuyPrice returns the effective buy price, -1 when unavailable.
func (e *Engine) GetBuyPrice(itemID, venueID string) int {
	return e.pricing.GetBuyPrice(itemID, venueID)
}

// GetSellPrice returns the effective sell price, -1 when unavailable.
func (e *Engine) GetSellPrice(itemID, venueID string) int {
	return e.pricing.GetSellPrice(itemID, venueID)
}

// GetPricingInfo returns the full price breakdown for an item at a venue.
func (e *Engine) GetPricingInfo(itemID, venueID string) PricingInfo {
	return e.pricing.GetPricingInfo(itemID, venueID)
}

// GetAllPrices prices everything the venue deals in.
func (e *Engine) GetAllPrices(venueID string) []PricingInfo {
	return e.pricing.GetLocationPrices(venueID)
}

// GetItemPriceComparison prices one item across all venues carrying it.
func (e *Engine) GetItemPriceComparison(itemID string) []PricingInfo {
	return e.pricing.GetItemPriceComparison(itemID)
}

// CalculateBulkPrice quotes a quantity with the volume discount applied.
func (e *Engine) CalculateBulkPrice(itemID, venueID string, quantity int) int {
	return e.pricing.CalculateBulkPrice(itemID, venueID, quantity)
}

// CalculatePriceVolatility returns the item's cross-venue price variation.
func (e *Engine) CalculatePriceVolatility(itemID string) float64 {
	return e.pricing.CalculatePriceVolatility(itemID)
}

// ── Trading ──────────────────────────────────────────────────────────────

// CanBuyItem checks the buy validation chain without mutating state.
func (e *Engine) CanBuyItem(itemID, venueID string) (bool, FailureReason) {
	return e.trades.CanBuyItem(itemID, venueID)
}

// CanSellItem checks the sell validation chain without mutating state.
func (e *Engine) CanSellItem(itemID, venueID string) (bool, FailureReason) {
	return e.trades.CanSellItem(itemID, venueID)
}

// BuyItem executes a purchase at the venue.
func (e *Engine) BuyItem(itemID, venueID string) TradeResult {
	return e.trades.BuyItem(itemID, venueID)
}

// SellItem executes a sale at the venue.
func (e *Engine) SellItem(itemID, venueID string) TradeResult {
	return e.trades.SellItem(itemID, venueID)
}

// GetAvailableItems returns the item IDs a venue deals in.
func (e *Engine) GetAvailableItems(venueID string) []string {
	venue, ok := e.venues.VenueByID(venueID)
	if !ok {
		return nil
	}
	out := make([]string, len(venue.Stock))
	copy(out, venue.Stock)
	return out
}

// ── Arbitrage ────────────────────────────────────────────────────────────

// GetBestArbitrage returns the most profitable venue pair for an item, or
// nil when no pair is profitable.
func (e *Engine) GetBestArbitrage(itemID string) *ArbitrageOpportunity {
	return e.arbitrage.FindBestOpportunity(itemID)
}

// GetAllArbitrageOpportunities returns the best profitable opportunity per
// catalog item, most profitable first.
func (e *Engine) GetAllArbitrageOpportunities() []ArbitrageOpportunity {
	return e.arbitrage.FindAllOpportunities()
}

// GetLocalArbitrageOpportunities fixes the buy side to the player's
// current venue.
func (e *Engine) GetLocalArbitrageOpportunities() []ArbitrageOpportunity {
	return e.arbitrage.FindOpportunitiesFromCurrentLocation()
}

// GetInventoryArbitrageOpportunities evaluates resale of held items.
func (e *Engine) GetInventoryArbitrageOpportunities() []ArbitrageOpportunity {
	return e.arbitrage.FindOpportunitiesForInventory()
}

// CalculatePotentialProfit returns the net profit of the item's best
// opportunity, or 0 when none is profitable.
func (e *Engine) CalculatePotentialProfit(itemID string) int {
	if opp := e.arbitrage.FindBestOpportunity(itemID); opp != nil {
		return opp.NetProfit
	}
	return 0
}

// IsTradeProfitable reports whether hauling the item between the two venues
// clears travel costs.
func (e *Engine) IsTradeProfitable(itemID, buyVenueID, sellVenueID string) bool {
	buy := e.pricing.GetBuyPrice(itemID, buyVenueID)
	sell := e.pricing.GetSellPrice(itemID, sellVenueID)
	if buy <= 0 || sell <= 0 || buyVenueID == sellVenueID {
		return false
	}
	return sell-buy-e.cfg.TravelCost(buyVenueID, sellVenueID) > 0
}

// PlanOptimalRoute greedily plans a multi-stop trading run from the
// player's current venue.
func (e *Engine) PlanOptimalRoute(maxStops int) TradeRoute {
	return e.arbitrage.PlanOptimalRoute(maxStops)
}

// ── Market state ─────────────────────────────────────────────────────────

// GetSupplyLevel returns the display name of the pair's supply tier.
func (e *Engine) GetSupplyLevel(itemID, venueID string) string {
	return e.tracker.GetSupplyTier(itemID, venueID).String()
}

// GetDemandLevel returns the display name of the pair's demand tier.
func (e *Engine) GetDemandLevel(itemID, venueID string) string {
	return e.tracker.GetDemandTier(itemID, venueID).String()
}

// GetMarketConditions aggregates the tracked state of a venue.
func (e *Engine) GetMarketConditions(venueID string) MarketConditions {
	return e.tracker.GetMarketConditions(venueID)
}

// GetHighMarginItems ranks a venue's tracked items by tier margin.
func (e *Engine) GetHighMarginItems(venueID string, topN int) []MarginEntry {
	return e.tracker.GetHighMarginItems(venueID, topN)
}

// GetOversuppliedItems lists items in surplus at a venue.
func (e *Engine) GetOversuppliedItems(venueID string) []string {
	return e.tracker.GetOversuppliedItems(venueID)
}

// GetTradeHistory returns the session trade log, oldest first.
func (e *Engine) GetTradeHistory() []TradeRecord {
	return e.tracker.GetTradeHistory()
}

// SimulateMarketEvolution relaxes all tiers one step toward Normal.
// The host calls this once per simulated time advance.
func (e *Engine) SimulateMarketEvolution() {
	e.tracker.SimulateMarketEvolution()
}

// ResetMetrics clears all market state. Session boundaries only.
func (e *Engine) ResetMetrics() {
	e.tracker.ResetMetrics()
}

// ── Insights ─────────────────────────────────────────────────────────────

// GetTradeRecommendations suggests profitable actions at a venue.
func (e *Engine) GetTradeRecommendations(venueID string) []TradeRecommendation {
	return e.trades.GetTradeRecommendations(venueID)
}

// GetMarketSummary assembles a venue's at-a-glance trading state.
func (e *Engine) GetMarketSummary(venueID string) MarketSummary {
	return e.trades.GetMarketSummary(venueID)
}

// ── Persistence hooks ────────────────────────────────────────────────────

// SnapshotState exports the engine's mutable state for session saves.
func (e *Engine) SnapshotState() Snapshot {
	return e.tracker.SnapshotState()
}

// RestoreState replaces the engine's mutable state from a saved snapshot.
func (e *Engine) RestoreState(snap Snapshot) {
	e.tracker.RestoreState(snap)
}
