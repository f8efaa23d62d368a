package market

import (
	"sort"

	"github.com/halfgrove/tradewind/internal/catalog"
	"github.com/halfgrove/tradewind/internal/player"
	"github.com/halfgrove/tradewind/internal/world"
)

// ArbitrageOpportunity is a profitable buy-here/sell-there pair for one
// item. Transient analysis output, recomputed per query.
type ArbitrageOpportunity struct {
	ItemID      string `json:"item_id"`
	BuyVenueID  string `json:"buy_venue_id"`
	SellVenueID string `json:"sell_venue_id"`

	BuyPrice   int `json:"buy_price"`
	SellPrice  int `json:"sell_price"`
	Distance   int `json:"distance"`
	TravelCost int `json:"travel_cost"`
	NetProfit  int `json:"net_profit"`

	// RequiredCapital is the coin balance needed to execute the buy leg.
	RequiredCapital int `json:"required_capital"`
}

// TradeRoute is a planned multi-stop trading run.
type TradeRoute struct {
	Stops         []string               `json:"stops"` // Venue sequence, origin first
	Trades        []ArbitrageOpportunity `json:"trades"`
	TotalProfit   int                    `json:"total_profit"`
	TotalDistance int                    `json:"total_distance"`
	AvgMargin     float64                `json:"avg_margin"` // Mean profit/cost across trades
}

// ArbitrageCalculator discovers profitable venue pairs and plans multi-stop
// routes over the price surface. Strictly read-only: it never mutates
// market or player state.
type ArbitrageCalculator struct {
	cfg     *EconomyConfig
	items   *catalog.Repository
	venues  *world.Directory
	pricing *PriceManager
	player  *player.Player
}

// NewArbitrageCalculator wires the analysis layer.
func NewArbitrageCalculator(cfg *EconomyConfig, items *catalog.Repository,
	venues *world.Directory, pricing *PriceManager, pl *player.Player) *ArbitrageCalculator {
	return &ArbitrageCalculator{cfg: cfg, items: items, venues: venues, pricing: pricing, player: pl}
}

// FindBestOpportunity exhaustively compares every ordered pair of distinct
// venues and returns the pair with the strictly highest net profit for the
// item, or nil when no pair is profitable. Ties keep the first pair found.
func (ac *ArbitrageCalculator) FindBestOpportunity(itemID string) *ArbitrageOpportunity {
	if _, ok := ac.items.ItemByID(itemID); !ok {
		return nil
	}

	var best *ArbitrageOpportunity
	venues := ac.venues.AllVenues()
	for _, buyVenue := range venues {
		buyPrice := ac.pricing.GetBuyPrice(itemID, buyVenue.ID)
		if buyPrice <= 0 {
			continue
		}
		for _, sellVenue := range venues {
			if sellVenue.ID == buyVenue.ID {
				continue
			}
			sellPrice := ac.pricing.GetSellPrice(itemID, sellVenue.ID)
			if sellPrice <= 0 {
				continue
			}
			opp := ac.buildOpportunity(itemID, buyVenue.ID, sellVenue.ID, buyPrice, sellPrice)
			if opp.NetProfit <= 0 {
				continue
			}
			if best == nil || opp.NetProfit > best.NetProfit {
				best = &opp
			}
		}
	}
	return best
}

func (ac *ArbitrageCalculator) buildOpportunity(itemID, buyVenueID, sellVenueID string, buyPrice, sellPrice int) ArbitrageOpportunity {
	dist := ac.cfg.Distance(buyVenueID, sellVenueID)
	travel := dist * ac.cfg.TravelCostPerDistance
	return ArbitrageOpportunity{
		ItemID:          itemID,
		BuyVenueID:      buyVenueID,
		SellVenueID:     sellVenueID,
		BuyPrice:        buyPrice,
		SellPrice:       sellPrice,
		Distance:        dist,
		TravelCost:      travel,
		NetProfit:       sellPrice - buyPrice - travel,
		RequiredCapital: buyPrice,
	}
}

// FindAllOpportunities returns the best currently-profitable opportunity
// per catalog item, sorted by descending net profit.
func (ac *ArbitrageCalculator) FindAllOpportunities() []ArbitrageOpportunity {
	var out []ArbitrageOpportunity
	for _, item := range ac.items.AllItems() {
		if opp := ac.FindBestOpportunity(item.ID); opp != nil {
			out = append(out, *opp)
		}
	}
	sortByProfit(out)
	return out
}

// FindOpportunitiesFromCurrentLocation fixes the buy side to the player's
// current venue and returns the best profitable resale per local item,
// sorted by descending net profit.
func (ac *ArbitrageCalculator) FindOpportunitiesFromCurrentLocation() []ArbitrageOpportunity {
	return ac.opportunitiesFrom(ac.player.CurrentVenueID(), -1)
}

// opportunitiesFrom finds the best profitable resale per item bought at the
// origin venue. A non-negative capital bound drops opportunities the player
// could not afford to open.
func (ac *ArbitrageCalculator) opportunitiesFrom(originID string, capital int) []ArbitrageOpportunity {
	origin, ok := ac.venues.VenueByID(originID)
	if !ok {
		return nil
	}

	var out []ArbitrageOpportunity
	for _, itemID := range origin.Stock {
		buyPrice := ac.pricing.GetBuyPrice(itemID, originID)
		if buyPrice <= 0 {
			continue
		}
		if capital >= 0 && buyPrice > capital {
			continue
		}
		var best *ArbitrageOpportunity
		for _, sellVenue := range ac.venues.AllVenues() {
			if sellVenue.ID == originID {
				continue
			}
			sellPrice := ac.pricing.GetSellPrice(itemID, sellVenue.ID)
			if sellPrice <= 0 {
				continue
			}
			opp := ac.buildOpportunity(itemID, originID, sellVenue.ID, buyPrice, sellPrice)
			if opp.NetProfit <= 0 {
				continue
			}
			if best == nil || opp.NetProfit > best.NetProfit {
				best = &opp
			}
		}
		if best != nil {
			out = append(out, *best)
		}
	}
	sortByProfit(out)
	return out
}

// FindOpportunitiesForInventory evaluates items the player already holds:
// the cost side is the local sell price forgone by not selling here.
func (ac *ArbitrageCalculator) FindOpportunitiesForInventory() []ArbitrageOpportunity {
	originID := ac.player.CurrentVenueID()

	var out []ArbitrageOpportunity
	seen := make(map[string]bool)
	for _, itemID := range ac.player.ItemIDs() {
		if seen[itemID] {
			continue
		}
		seen[itemID] = true

		localSell := ac.pricing.GetSellPrice(itemID, originID)
		if localSell <= 0 {
			continue
		}
		var best *ArbitrageOpportunity
		for _, sellVenue := range ac.venues.AllVenues() {
			if sellVenue.ID == originID {
				continue
			}
			sellPrice := ac.pricing.GetSellPrice(itemID, sellVenue.ID)
			if sellPrice <= 0 {
				continue
			}
			opp := ac.buildOpportunity(itemID, originID, sellVenue.ID, localSell, sellPrice)
			// Already held: no capital outlay, only forgone local value.
			opp.RequiredCapital = 0
			if opp.NetProfit <= 0 {
				continue
			}
			if best == nil || opp.NetProfit > best.NetProfit {
				best = &opp
			}
		}
		if best != nil {
			out = append(out, *best)
		}
	}
	sortByProfit(out)
	return out
}

// PlanOptimalRoute greedily plans up to maxStops trades: at each step it
// takes the single most profitable affordable opportunity from the current
// venue, notionally executes it, and moves on. Greedy, not globally optimal.
func (ac *ArbitrageCalculator) PlanOptimalRoute(maxStops int) TradeRoute {
	current := ac.player.CurrentVenueID()
	capital := ac.player.Coins()
	route := TradeRoute{Stops: []string{current}}

	marginSum := 0.0
	for len(route.Trades) < maxStops {
		opps := ac.opportunitiesFrom(current, capital)
		if len(opps) == 0 {
			break
		}
		pick := opps[0]

		capital += pick.NetProfit
		route.Trades = append(route.Trades, pick)
		route.TotalProfit += pick.NetProfit
		route.TotalDistance += pick.Distance
		route.Stops = append(route.Stops, pick.SellVenueID)
		if pick.BuyPrice > 0 {
			marginSum += float64(pick.NetProfit) / float64(pick.BuyPrice)
		}
		current = pick.SellVenueID
	}

	if len(route.Trades) > 0 {
		route.AvgMargin = marginSum / float64(len(route.Trades))
	}
	return route
}

func sortByProfit(opps []ArbitrageOpportunity) {
	sort.SliceStable(opps, func(i, j int) bool {
		return opps[i].NetProfit > opps[j].NetProfit
	})
}
