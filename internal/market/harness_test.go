package market

import (
	"github.com/halfgrove/tradewind/internal/catalog"
	"github.com/halfgrove/tradewind/internal/clock"
	"github.com/halfgrove/tradewind/internal/npc"
	"github.com/halfgrove/tradewind/internal/player"
	"github.com/halfgrove/tradewind/internal/world"
)

// The test world has three venues and four items with hand-checked prices.
// At neutral tiers: salt buys for 12 at the docks and sells for 24 in town,
// the only profitable haul. Ore, fish, and gem never clear travel costs.
type fixture struct {
	cfg     *EconomyConfig
	items   *catalog.Repository
	venues  *world.Directory
	pl      *player.Player
	clk     *clock.Clock
	traders *npc.Directory

	tracker *StateTracker
	pricing *PriceManager
	trades  *TradeManager
	arb     *ArbitrageCalculator
}

func testConfig() *EconomyConfig {
	cfg := DefaultEconomyConfig()
	cfg.LocationRules = []LocationRule{
		{VenueID: "town", Multiplier: 1.2},
		{VenueID: "town", Category: "food", Multiplier: 0.9},
		{VenueID: "docks", Category: "mineral", Multiplier: 0.5},
	}
	cfg.Distances = []DistanceEntry{
		{From: "mine", To: "docks", Distance: 2},
		{From: "mine", To: "town", Distance: 1},
		{From: "docks", To: "town", Distance: 1},
	}
	return cfg
}

func testItems() *catalog.Repository {
	return catalog.NewRepository([]catalog.Item{
		{ID: "ore", Name: "Iron Ore", BaseBuy: 20, BaseSell: 10, Categories: []string{"metal"}, Weight: 4},
		{ID: "fish", Name: "River Fish", BaseBuy: 10, BaseSell: 8, Categories: []string{"food"}, Weight: 1},
		{ID: "salt", Name: "Rock Salt", BaseBuy: 10, BaseSell: 20, Categories: []string{"mineral"}, Weight: 2},
		{ID: "gem", Name: "Rough Gem", BaseBuy: 100, BaseSell: 80, Categories: []string{"luxury"}, Weight: 0.5},
	})
}

func testVenues() *world.Directory {
	return world.NewDirectory([]*world.Venue{
		{ID: "mine", Name: "The Mine", Type: world.TypeShop, Stock: []string{"ore", "gem"}},
		{ID: "docks", Name: "The Docks", Type: world.TypeHarbor, Stock: []string{"ore", "fish", "salt"}},
		{ID: "town", Name: "Town Market", Type: world.TypeMarket, Stock: []string{"ore", "fish", "salt"}},
	})
}

// dayShift puts an NPC at one venue for every block except night.
func dayShift(venueID string) map[clock.TimeBlock]string {
	return map[clock.TimeBlock]string{
		clock.BlockMorning:   venueID,
		clock.BlockMidday:    venueID,
		clock.BlockAfternoon: venueID,
		clock.BlockEvening:   venueID,
	}
}

func testTraders() *npc.Directory {
	return npc.NewDirectory([]*npc.NPC{
		{ID: "npc_maren", Name: "Maren", Services: []string{npc.ServiceTrade}, Schedule: dayShift("mine")},
		{ID: "npc_holt", Name: "Holt", Services: []string{npc.ServiceTrade}, Schedule: dayShift("docks")},
		{ID: "npc_ivy", Name: "Ivy", Services: []string{npc.ServiceTrade}, Schedule: dayShift("town")},
	})
}

// newFixture builds the full component stack with the clock at 08:00 so
// every venue starts open. The player begins at the docks with 200 coins.
func newFixture() *fixture {
	cfg := testConfig()
	items := testItems()
	venues := testVenues()
	traders := testTraders()

	pl := player.New("Tess", 200, 10)
	pl.MoveTo("docks")
	clk := &clock.Clock{Tick: 8 * clock.TicksPerHour}

	tracker := NewStateTracker(cfg, clk)
	pricing := NewPriceManager(cfg, items, venues, tracker)
	trades := NewTradeManager(cfg, items, venues, pricing, tracker, pl, clk, traders, nil)
	arb := NewArbitrageCalculator(cfg, items, venues, pricing, pl)

	return &fixture{
		cfg:     cfg,
		items:   items,
		venues:  venues,
		pl:      pl,
		clk:     clk,
		traders: traders,
		tracker: tracker,
		pricing: pricing,
		trades:  trades,
		arb:     arb,
	}
}

// recordingMessenger captures system messages for assertions.
type recordingMessenger struct {
	texts      []string
	severities []Severity
}

func (r *recordingMessenger) AddSystemMessage(text string, severity Severity) {
	r.texts = append(r.texts, text)
	r.severities = append(r.severities, severity)
}
