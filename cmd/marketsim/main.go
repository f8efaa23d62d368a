// Command marketsim runs a scripted trading day through the market engine:
// it builds the demo world, restores any saved session, walks the player
// through a day of buying, selling, and route planning, and saves on exit.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/halfgrove/tradewind/internal/catalog"
	"github.com/halfgrove/tradewind/internal/clock"
	"github.com/halfgrove/tradewind/internal/market"
	"github.com/halfgrove/tradewind/internal/npc"
	"github.com/halfgrove/tradewind/internal/persistence"
	"github.com/halfgrove/tradewind/internal/player"
	"github.com/halfgrove/tradewind/internal/world"
)

const (
	seed       = int64(42)
	dbPath     = "data/session.db"
	configPath = "configs/economy.yaml"
)

// slogMessenger routes engine system messages to the structured log, the
// way a real UI would route them to the message pane.
type slogMessenger struct{}

func (slogMessenger) AddSystemMessage(text string, severity market.Severity) {
	if severity == market.SeverityWarning {
		slog.Warn("system message", "text", text)
		return
	}
	slog.Info("system message", "text", text)
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	slog.Info("Tradewind market simulation session")

	// ── Config ────────────────────────────────────────────────────────
	cfg := market.DefaultEconomyConfig()
	if _, err := os.Stat(configPath); err == nil {
		loaded, err := market.LoadEconomyConfig(configPath)
		if err != nil {
			slog.Error("failed to load economy config", "path", configPath, "error", err)
			os.Exit(1)
		}
		cfg = loaded
		slog.Info("economy config loaded", "path", configPath)
	}

	// ── Database ──────────────────────────────────────────────────────
	os.MkdirAll("data", 0755)
	db, err := persistence.Open(dbPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("database opened", "path", dbPath)

	// ── World ─────────────────────────────────────────────────────────
	items := demoItems()
	venues := demoVenues()
	traders := demoTraders(venues.AllVenues(), seed)
	pl := player.New("Wren", 200, 12)
	pl.MoveTo("market_square")

	clk := &clock.Clock{}
	if tickStr, err := db.GetMeta("last_tick"); err == nil {
		if t, err := strconv.ParseUint(tickStr, 10, 64); err == nil {
			clk.Tick = t
		}
	}
	// Start the day at 08:00 so the morning market is open.
	if clk.Tick == 0 {
		clk.Tick = 8 * clock.TicksPerHour
	}

	eng, err := market.NewEngine(market.Deps{
		Items:   items,
		Venues:  venues,
		Player:  pl,
		Clock:   clk,
		Traders: traders,
		Msgs:    slogMessenger{},
	}, cfg)
	if err != nil {
		slog.Error("failed to build market engine", "error", err)
		os.Exit(1)
	}

	if db.HasMarketState() {
		snap, err := db.LoadMarketState()
		if err != nil {
			slog.Error("failed to load market state", "error", err)
			os.Exit(1)
		}
		eng.RestoreState(snap)
		slog.Info("market state restored",
			"metrics", len(snap.Metrics), "records", len(snap.History))
	}

	// ── Session loop ──────────────────────────────────────────────────
	loop := &clock.Engine{Clock: clk}
	loop.OnHour = func(tick uint64) {
		eng.SimulateMarketEvolution()
	}
	loop.OnBlockChange = func(block clock.TimeBlock) {
		slog.Info("time block", "block", block.String(), "time", clk.SimTime())
	}

	runScriptedDay(eng, pl, loop, clk)

	// ── Save ──────────────────────────────────────────────────────────
	if err := db.SaveMarketState(eng.SnapshotState()); err != nil {
		slog.Error("failed to save market state", "error", err)
		os.Exit(1)
	}
	if err := db.SaveMeta("last_tick", fmt.Sprintf("%d", clk.Tick)); err != nil {
		slog.Error("failed to save meta", "error", err)
	}

	fmt.Printf("\nSession over. %s ends the day with %d coins and %d items.\n",
		pl.Name(), pl.Coins(), len(pl.ItemIDs()))
}

// runScriptedDay walks one simulated day of trading through the facade.
func runScriptedDay(eng *market.Engine, pl *player.Player, loop *clock.Engine, clk *clock.Clock) {
	venueID := pl.CurrentVenueID()

	slog.Info("market status", "venue", venueID, "status", eng.GetMarketStatus(venueID))
	summary := eng.GetMarketSummary(venueID)
	slog.Info("market summary",
		"venue", summary.VenueName,
		"open", summary.IsOpen,
		"traders", summary.TraderNames,
		"items", summary.TotalItems,
		"affordable", summary.AffordableItems,
	)

	// Morning: stock up on staples and check the board.
	for _, itemID := range []string{"grain_sack", "salted_fish", "hemp_rope"} {
		res := eng.BuyItem(itemID, venueID)
		if !res.Success {
			slog.Warn("buy refused", "item", itemID, "reason", string(res.Reason))
		}
	}
	for _, rec := range eng.GetTradeRecommendations(venueID) {
		slog.Info("recommendation",
			"action", rec.Action.String(),
			"item", rec.ItemID,
			"profit", rec.ExpectedProfit,
			"confidence", fmt.Sprintf("%.2f", rec.Confidence),
			"reason", rec.Reason,
		)
	}

	// Midday: plan and report a trading route.
	loop.AdvanceHours(4)
	route := eng.PlanOptimalRoute(3)
	slog.Info("planned route",
		"stops", route.Stops,
		"trades", len(route.Trades),
		"profit", route.TotalProfit,
		"distance", route.TotalDistance,
		"avg_margin", fmt.Sprintf("%.2f", route.AvgMargin),
	)
	for _, opp := range eng.GetAllArbitrageOpportunities() {
		slog.Info("arbitrage",
			"item", opp.ItemID,
			"buy_at", opp.BuyVenueID,
			"sell_at", opp.SellVenueID,
			"net", opp.NetProfit,
		)
	}

	// Afternoon: haul to the harbor and sell.
	loop.AdvanceHours(4)
	pl.MoveTo("harbor")
	for _, itemID := range []string{"salted_fish", "hemp_rope"} {
		res := eng.SellItem(itemID, "harbor")
		if !res.Success {
			slog.Warn("sell refused", "item", itemID, "reason", string(res.Reason))
		}
	}

	// Evening: conditions report at the tavern.
	loop.AdvanceHours(4)
	cond := eng.GetMarketConditions("market_square")
	slog.Info("market conditions",
		"venue", cond.VenueID,
		"tracked", cond.TrackedItems,
		"scarce", cond.ScarceItems,
		"abundant", cond.AbundantItems,
		"avg_supply", cond.AverageSupply.String(),
		"avg_demand", cond.AverageDemand.String(),
		"trending", cond.TrendingItemIDs,
	)
	slog.Info("day complete", "time", clk.SimTime(), "trades_logged", len(eng.GetTradeHistory()))
}

// demoItems builds the session's item catalog.
func demoItems() *catalog.Repository {
	return catalog.NewRepository([]catalog.Item{
		{ID: "grain_sack", Name: "Sack of Grain", BaseBuy: 10, BaseSell: 6, Categories: []string{"staple"}, Weight: 3},
		{ID: "salted_fish", Name: "Salted Fish", BaseBuy: 12, BaseSell: 8, Categories: []string{"staple", "cargo"}, Weight: 2},
		{ID: "hemp_rope", Name: "Hemp Rope", BaseBuy: 18, BaseSell: 12, Categories: []string{"cargo"}, Weight: 2},
		{ID: "lantern_oil", Name: "Lantern Oil", BaseBuy: 25, BaseSell: 17, Categories: []string{"cargo"}, Weight: 1},
		{ID: "ale_cask", Name: "Cask of Ale", BaseBuy: 30, BaseSell: 20, Categories: []string{"provisions", "cargo"}, Weight: 5},
		{ID: "healing_draught", Name: "Healing Draught", BaseBuy: 45, BaseSell: 32, Categories: []string{"remedy"}, Weight: 1},
		{ID: "iron_knife", Name: "Iron Knife", BaseBuy: 40, BaseSell: 28, Categories: []string{"tool"}, Weight: 1},
		{ID: "dyed_silk", Name: "Bolt of Dyed Silk", BaseBuy: 80, BaseSell: 60, Categories: []string{"luxury", "cargo"}, Weight: 1},
		{ID: "amber_ring", Name: "Amber Ring", BaseBuy: 120, BaseSell: 90, Categories: []string{"luxury"}, Weight: 0.1},
	})
}

// demoVenues builds the five-venue world matching the default economy
// config's rule tables.
func demoVenues() *world.Directory {
	return world.NewDirectory([]*world.Venue{
		{
			ID: "market_square", Name: "Market Square", Type: world.TypeMarket,
			Stock: []string{"grain_sack", "salted_fish", "hemp_rope", "lantern_oil", "iron_knife", "dyed_silk"},
		},
		{
			ID: "harbor", Name: "Harbor Docks", Type: world.TypeHarbor,
			Stock: []string{"salted_fish", "hemp_rope", "lantern_oil", "ale_cask", "dyed_silk"},
		},
		{
			ID: "gilded_goose", Name: "The Gilded Goose", Type: world.TypeTavern,
			Stock: []string{"grain_sack", "ale_cask", "salted_fish"},
		},
		{
			ID: "apothecary", Name: "Moss & Mortar Apothecary", Type: world.TypeShop,
			Stock: []string{"healing_draught", "lantern_oil"},
		},
		{
			ID: "caravan_post", Name: "Caravan Post", Type: world.TypeMarket,
			Stock: []string{"grain_sack", "hemp_rope", "iron_knife", "dyed_silk", "amber_ring"},
		},
	})
}

// demoTraders builds the NPC roster. Presence per time block is carved from
// a noise field so schedules are uneven but deterministic from the seed;
// every trader is always at their home venue in the morning so each venue
// opens at least once a day.
func demoTraders(venues []*world.Venue, seed int64) *npc.Directory {
	names := []string{"Maud", "Kellen", "Odo", "Petra", "Sylvie", "Tam", "Bracken"}
	noise := opensimplex.NewNormalized(seed)

	var npcs []*npc.NPC
	for i, name := range names {
		home := venues[i%len(venues)]
		schedule := map[clock.TimeBlock]string{clock.BlockMorning: home.ID}
		for b, block := range clock.BlockOrder {
			if block == clock.BlockMorning {
				continue
			}
			if noise.Eval2(float64(i), float64(b)) > 0.45 {
				schedule[block] = home.ID
			}
		}
		npcs = append(npcs, &npc.NPC{
			ID:       fmt.Sprintf("npc_%d", i+1),
			Name:     name,
			Services: []string{npc.ServiceTrade, npc.ServiceGossip},
			Schedule: schedule,
		})
	}
	return npc.NewDirectory(npcs)
}
