package market

import (
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/dustin/go-humanize"

	"github.com/halfgrove/tradewind/internal/catalog"
	"github.com/halfgrove/tradewind/internal/clock"
	"github.com/halfgrove/tradewind/internal/npc"
	"github.com/halfgrove/tradewind/internal/player"
	"github.com/halfgrove/tradewind/internal/world"
)

// FailureReason is a machine-readable explanation for a refused trade.
type FailureReason string

const (
	FailNone              FailureReason = ""
	FailMarketClosed      FailureReason = "market closed"
	FailInsufficientFunds FailureReason = "insufficient funds"
	FailNoInventorySpace  FailureReason = "no inventory space"
	FailItemNotHeld       FailureReason = "item not present"
	FailNotSoldHere       FailureReason = "not sold here"
	FailNotSellableHere   FailureReason = "not sellable here"
)

// TradeResult is the transient outcome of one buy or sell attempt.
type TradeResult struct {
	Success bool      `json:"success"`
	ItemID  string    `json:"item_id"`
	VenueID string    `json:"venue_id"`
	Type    TradeType `json:"type"`
	Price   int       `json:"price"`

	CoinsBefore   int  `json:"coins_before"`
	CoinsAfter    int  `json:"coins_after"`
	HadItemBefore bool `json:"had_item_before"`
	HasItemAfter  bool `json:"has_item_after"`

	Message string        `json:"message"`
	Reason  FailureReason `json:"reason,omitempty"`
}

// RecommendationAction says which side of a recommended trade to take.
type RecommendationAction uint8

const (
	ActionSell RecommendationAction = iota
	ActionBuy
)

func (a RecommendationAction) String() string {
	if a == ActionBuy {
		return "buy"
	}
	return "sell"
}

// TradeRecommendation suggests a profitable action at a venue.
type TradeRecommendation struct {
	ItemID         string               `json:"item_id"`
	Action         RecommendationAction `json:"action"`
	VenueID        string               `json:"venue_id"`
	TargetVenueID  string               `json:"target_venue_id,omitempty"` // Resale venue for buys
	ExpectedProfit int                  `json:"expected_profit"`
	Confidence     float64              `json:"confidence"`
	Reason         string               `json:"reason"`
}

// MarketSummary is the at-a-glance state of a venue for the UI.
type MarketSummary struct {
	VenueID          string   `json:"venue_id"`
	VenueName        string   `json:"venue_name"`
	IsOpen           bool     `json:"is_open"`
	TraderNames      []string `json:"trader_names,omitempty"`
	TotalItems       int      `json:"total_items"`
	AffordableItems  int      `json:"affordable_items"`
	ProfitableToSell int      `json:"profitable_to_sell"`
	// NextOpenBlock is set when the venue is closed and a later block has
	// at least one trader. Nil when open or never staffed.
	NextOpenBlock *clock.TimeBlock `json:"next_open_block,omitempty"`
}

// TradeManager validates and executes trades. It is the only component
// permitted to mutate player coins and inventory, and it only does so after
// every validation predicate has passed.
type TradeManager struct {
	cfg     *EconomyConfig
	items   *catalog.Repository
	venues  *world.Directory
	pricing *PriceManager
	tracker *StateTracker
	player  *player.Player
	clock   *clock.Clock
	traders *npc.Directory
	msgs    Messenger
}

// NewTradeManager wires the trade path.
func NewTradeManager(cfg *EconomyConfig, items *catalog.Repository, venues *world.Directory,
	pricing *PriceManager, tracker *StateTracker, pl *player.Player,
	clk *clock.Clock, traders *npc.Directory, msgs Messenger) *TradeManager {
	if msgs == nil {
		msgs = NopMessenger{}
	}
	return &TradeManager{
		cfg:     cfg,
		items:   items,
		venues:  venues,
		pricing: pricing,
		tracker: tracker,
		player:  pl,
		clock:   clk,
		traders: traders,
		msgs:    msgs,
	}
}

// IsMarketAvailable reports whether at least one NPC at the venue can trade
// during the given time block.
func (tm *TradeManager) IsMarketAvailable(venueID string, block clock.TimeBlock) bool {
	for _, n := range tm.traders.NPCsAt(venueID, block) {
		if n.CanProvideService(npc.ServiceTrade) {
			return true
		}
	}
	return false
}

// AvailableTraders returns the names of NPCs able to trade at the venue
// during the given block.
func (tm *TradeManager) AvailableTraders(venueID string, block clock.TimeBlock) []string {
	var names []string
	for _, n := range tm.traders.NPCsAt(venueID, block) {
		if n.CanProvideService(npc.ServiceTrade) {
			names = append(names, n.Name)
		}
	}
	return names
}

// BuyItem attempts to purchase one unit of the item at the venue. All
// validation runs before any mutation; a failed buy leaves no trace beyond
// the result.
func (tm *TradeManager) BuyItem(itemID, venueID string) TradeResult {
	res := TradeResult{
		ItemID:        itemID,
		VenueID:       venueID,
		Type:          TradePurchase,
		CoinsBefore:   tm.player.Coins(),
		CoinsAfter:    tm.player.Coins(),
		HadItemBefore: tm.player.HasItem(itemID),
		HasItemAfter:  tm.player.HasItem(itemID),
	}

	if !tm.IsMarketAvailable(venueID, tm.clock.CurrentTimeBlock()) {
		return tm.refuse(res, FailMarketClosed, "The market is closed at this hour.")
	}

	info := tm.pricing.GetPricingInfo(itemID, venueID)
	res.Price = info.AdjustedBuyPrice

	if !info.IsAvailable || info.AdjustedBuyPrice <= 0 {
		return tm.refuse(res, FailNotSoldHere, "Nobody here sells that.")
	}
	if tm.player.Coins() < info.AdjustedBuyPrice {
		return tm.refuse(res, FailInsufficientFunds,
			fmt.Sprintf("You need %s coins but carry only %s.",
				humanize.Comma(int64(info.AdjustedBuyPrice)),
				humanize.Comma(int64(tm.player.Coins()))))
	}
	if !tm.player.CanAddItem() {
		return tm.refuse(res, FailNoInventorySpace, "Your pack is full.")
	}

	// All predicates passed: mutate atomically.
	tm.player.SpendCoins(info.AdjustedBuyPrice)
	tm.player.AddItem(itemID)
	tm.tracker.RecordPurchase(itemID, venueID, info.AdjustedBuyPrice)

	item, _ := tm.items.ItemByID(itemID)
	res.Success = true
	res.CoinsAfter = tm.player.Coins()
	res.HasItemAfter = true
	res.Message = fmt.Sprintf("Bought %s for %s coins.",
		item.Name, humanize.Comma(int64(info.AdjustedBuyPrice)))
	tm.msgs.AddSystemMessage(res.Message, SeverityInfo)

	slog.Info("trade executed",
		"type", "purchase",
		"item", itemID,
		"venue", venueID,
		"price", info.AdjustedBuyPrice,
		"coins", res.CoinsAfter,
	)
	return res
}

// SellItem attempts to sell one unit of a held item at the venue.
func (tm *TradeManager) SellItem(itemID, venueID string) TradeResult {
	res := TradeResult{
		ItemID:        itemID,
		VenueID:       venueID,
		Type:          TradeSale,
		CoinsBefore:   tm.player.Coins(),
		CoinsAfter:    tm.player.Coins(),
		HadItemBefore: tm.player.HasItem(itemID),
		HasItemAfter:  tm.player.HasItem(itemID),
	}

	if !tm.IsMarketAvailable(venueID, tm.clock.CurrentTimeBlock()) {
		return tm.refuse(res, FailMarketClosed, "The market is closed at this hour.")
	}

	info := tm.pricing.GetPricingInfo(itemID, venueID)
	res.Price = info.AdjustedSellPrice

	if !info.IsAvailable || info.AdjustedSellPrice <= 0 {
		return tm.refuse(res, FailNotSellableHere, "Nobody here will buy that.")
	}
	if !tm.player.HasItem(itemID) {
		return tm.refuse(res, FailItemNotHeld, "You do not have that to sell.")
	}

	tm.player.RemoveItem(itemID)
	tm.player.EarnCoins(info.AdjustedSellPrice)
	tm.tracker.RecordSale(itemID, venueID, info.AdjustedSellPrice)

	item, _ := tm.items.ItemByID(itemID)
	res.Success = true
	res.CoinsAfter = tm.player.Coins()
	res.HasItemAfter = tm.player.HasItem(itemID)
	res.Message = fmt.Sprintf("Sold %s for %s coins.",
		item.Name, humanize.Comma(int64(info.AdjustedSellPrice)))
	tm.msgs.AddSystemMessage(res.Message, SeverityInfo)

	slog.Info("trade executed",
		"type", "sale",
		"item", itemID,
		"venue", venueID,
		"price", info.AdjustedSellPrice,
		"coins", res.CoinsAfter,
	)
	return res
}

func (tm *TradeManager) refuse(res TradeResult, reason FailureReason, msg string) TradeResult {
	res.Reason = reason
	res.Message = msg
	tm.msgs.AddSystemMessage(msg, SeverityWarning)
	return res
}

// CanBuyItem runs the full buy validation chain without mutating anything.
func (tm *TradeManager) CanBuyItem(itemID, venueID string) (bool, FailureReason) {
	if !tm.IsMarketAvailable(venueID, tm.clock.CurrentTimeBlock()) {
		return false, FailMarketClosed
	}
	info := tm.pricing.GetPricingInfo(itemID, venueID)
	if !info.IsAvailable || info.AdjustedBuyPrice <= 0 {
		return false, FailNotSoldHere
	}
	if tm.player.Coins() < info.AdjustedBuyPrice {
		return false, FailInsufficientFunds
	}
	if !tm.player.CanAddItem() {
		return false, FailNoInventorySpace
	}
	return true, FailNone
}

// CanSellItem runs the full sell validation chain without mutating anything.
func (tm *TradeManager) CanSellItem(itemID, venueID string) (bool, FailureReason) {
	if !tm.IsMarketAvailable(venueID, tm.clock.CurrentTimeBlock()) {
		return false, FailMarketClosed
	}
	info := tm.pricing.GetPricingInfo(itemID, venueID)
	if !info.IsAvailable || info.AdjustedSellPrice <= 0 {
		return false, FailNotSellableHere
	}
	if !tm.player.HasItem(itemID) {
		return false, FailItemNotHeld
	}
	return true, FailNone
}

// GetTradeRecommendations compares the venue's prices against the wider
// market and suggests sells for held items and buys for resale, sorted by
// descending expected profit.
func (tm *TradeManager) GetTradeRecommendations(venueID string) []TradeRecommendation {
	venue, ok := tm.venues.VenueByID(venueID)
	if !ok {
		return nil
	}

	var recs []TradeRecommendation

	// Sell side: held items priced above the cross-venue mean.
	seen := make(map[string]bool)
	for _, itemID := range tm.player.ItemIDs() {
		if seen[itemID] {
			continue
		}
		seen[itemID] = true

		local := tm.pricing.GetSellPrice(itemID, venueID)
		if local <= 0 {
			continue
		}
		mean := tm.meanSellPrice(itemID)
		if mean <= 0 || float64(local) <= mean*1.10 {
			continue
		}
		edge := (float64(local) - mean) / mean
		recs = append(recs, TradeRecommendation{
			ItemID:         itemID,
			Action:         ActionSell,
			VenueID:        venueID,
			ExpectedProfit: local - int(mean),
			Confidence:     math.Min(1.0, edge),
			Reason: fmt.Sprintf("sells %d%% above the going rate here",
				int(math.Round(edge*100))),
		})
	}

	// Buy side: local items worth hauling elsewhere.
	for _, itemID := range venue.Stock {
		buy := tm.pricing.GetBuyPrice(itemID, venueID)
		if buy <= 0 || tm.player.Coins() < buy || !tm.player.CanAddItem() {
			continue
		}
		bestVenue, bestSell := "", 0
		for _, other := range tm.venues.AllVenues() {
			if other.ID == venueID {
				continue
			}
			if sell := tm.pricing.GetSellPrice(itemID, other.ID); sell > bestSell {
				bestVenue, bestSell = other.ID, sell
			}
		}
		profit := bestSell - buy
		if profit <= tm.cfg.MinTradeProfit {
			continue
		}
		recs = append(recs, TradeRecommendation{
			ItemID:         itemID,
			Action:         ActionBuy,
			VenueID:        venueID,
			TargetVenueID:  bestVenue,
			ExpectedProfit: profit,
			Confidence:     math.Min(1.0, float64(profit)/float64(buy)),
			Reason:         fmt.Sprintf("resells for %d more coins elsewhere", profit),
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].ExpectedProfit > recs[j].ExpectedProfit
	})
	return recs
}

// meanSellPrice averages an item's sell price across all venues carrying it.
func (tm *TradeManager) meanSellPrice(itemID string) float64 {
	sum, n := 0, 0
	for _, v := range tm.venues.AllVenues() {
		if sell := tm.pricing.GetSellPrice(itemID, v.ID); sell > 0 {
			sum += sell
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

// GetMarketSummary assembles the venue's at-a-glance trading state.
func (tm *TradeManager) GetMarketSummary(venueID string) MarketSummary {
	summary := MarketSummary{VenueID: venueID}
	venue, ok := tm.venues.VenueByID(venueID)
	if !ok {
		return summary
	}
	summary.VenueName = venue.Name

	block := tm.clock.CurrentTimeBlock()
	summary.IsOpen = tm.IsMarketAvailable(venueID, block)
	summary.TraderNames = tm.AvailableTraders(venueID, block)
	summary.TotalItems = len(venue.Stock)

	for _, itemID := range venue.Stock {
		if buy := tm.pricing.GetBuyPrice(itemID, venueID); buy > 0 && buy <= tm.player.Coins() {
			summary.AffordableItems++
		}
	}

	seen := make(map[string]bool)
	for _, itemID := range tm.player.ItemIDs() {
		if seen[itemID] {
			continue
		}
		seen[itemID] = true
		local := tm.pricing.GetSellPrice(itemID, venueID)
		if local <= 0 {
			continue
		}
		if mean := tm.meanSellPrice(itemID); mean > 0 && float64(local) > mean*1.10 {
			summary.ProfitableToSell++
		}
	}

	if !summary.IsOpen {
		summary.NextOpenBlock = tm.nextOpenBlock(venueID, block)
	}
	return summary
}

// nextOpenBlock scans the fixed block order for the first upcoming block
// with at least one trader, wrapping past midnight. Nil if the venue is
// never staffed.
func (tm *TradeManager) nextOpenBlock(venueID string, current clock.TimeBlock) *clock.TimeBlock {
	start := 0
	for i, b := range clock.BlockOrder {
		if b == current {
			start = i
			break
		}
	}
	for off := 1; off <= len(clock.BlockOrder); off++ {
		b := clock.BlockOrder[(start+off)%len(clock.BlockOrder)]
		if tm.IsMarketAvailable(venueID, b) {
			return &b
		}
	}
	return nil
}
