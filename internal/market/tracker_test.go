package market

import (
	"testing"

	"github.com/halfgrove/tradewind/internal/clock"
)

func newTracker(historyCapacity int) (*StateTracker, *clock.Clock) {
	cfg := DefaultEconomyConfig()
	cfg.HistoryCapacity = historyCapacity
	clk := &clock.Clock{Tick: 1000}
	return NewStateTracker(cfg, clk), clk
}

func TestTiersDefaultToNormal(t *testing.T) {
	st, _ := newTracker(100)
	if got := st.GetSupplyTier("salt", "docks"); got != SupplyNormal {
		t.Fatalf("initial supply tier = %v, want Normal", got)
	}
	if got := st.GetDemandTier("salt", "docks"); got != DemandNormal {
		t.Fatalf("initial demand tier = %v, want Normal", got)
	}
}

func TestPurchaseShiftsTiersOneStep(t *testing.T) {
	st, _ := newTracker(100)
	st.RecordPurchase("salt", "docks", 12)

	if got := st.GetSupplyTier("salt", "docks"); got != SupplySlightlyLow {
		t.Fatalf("supply after 1 purchase = %v, want Slightly Low", got)
	}
	if got := st.GetDemandTier("salt", "docks"); got != DemandHigh {
		t.Fatalf("demand after 1 purchase = %v, want High", got)
	}

	st.RecordPurchase("salt", "docks", 12)
	if got := st.GetSupplyTier("salt", "docks"); got != SupplyBelowNormal {
		t.Fatalf("supply after 2 purchases = %v, want Below Normal", got)
	}
}

func TestTiersSaturateUnderRepeatedTrades(t *testing.T) {
	st, _ := newTracker(100)
	for i := 0; i < 10; i++ {
		st.RecordPurchase("salt", "docks", 12)
	}
	if got := st.GetSupplyTier("salt", "docks"); got != SupplySevereShortage {
		t.Fatalf("supply after 10 purchases = %v, want Severe Shortage", got)
	}
	if got := st.GetDemandTier("salt", "docks"); got != DemandVeryHigh {
		t.Fatalf("demand after 10 purchases = %v, want Very High", got)
	}

	for i := 0; i < 20; i++ {
		st.RecordSale("salt", "docks", 10)
	}
	if got := st.GetSupplyTier("salt", "docks"); got != SupplyMajorSurplus {
		t.Fatalf("supply after 20 sales = %v, want Major Surplus", got)
	}
	if got := st.GetDemandTier("salt", "docks"); got != DemandNone {
		t.Fatalf("demand after 20 sales = %v, want None", got)
	}
}

func TestDemandDropsOnlyEverySecondSale(t *testing.T) {
	st, _ := newTracker(100)

	st.RecordSale("fish", "docks", 8)
	if got := st.GetDemandTier("fish", "docks"); got != DemandNormal {
		t.Fatalf("demand after 1 sale = %v, want Normal", got)
	}
	st.RecordSale("fish", "docks", 8)
	if got := st.GetDemandTier("fish", "docks"); got != DemandSlightlyLow {
		t.Fatalf("demand after 2 sales = %v, want Slightly Low", got)
	}
	st.RecordSale("fish", "docks", 8)
	if got := st.GetDemandTier("fish", "docks"); got != DemandSlightlyLow {
		t.Fatalf("demand after 3 sales = %v, want Slightly Low", got)
	}
}

func TestRollingAveragePrice(t *testing.T) {
	st, _ := newTracker(100)
	st.RecordPurchase("gem", "mine", 100)
	st.RecordPurchase("gem", "mine", 60)

	snap := st.SnapshotState()
	if len(snap.Metrics) != 1 {
		t.Fatalf("got %d metric rows, want 1", len(snap.Metrics))
	}
	m := snap.Metrics[0]
	if m.AvgTradePrice != 90 {
		t.Fatalf("rolling average = %v, want 90", m.AvgTradePrice)
	}
	if m.TradeCount != 2 || m.RecentPurchases != 2 {
		t.Fatalf("trade counters = %d/%d, want 2/2", m.TradeCount, m.RecentPurchases)
	}
}

func TestHistoryIsBoundedFIFO(t *testing.T) {
	st, _ := newTracker(5)
	items := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	for _, id := range items {
		st.RecordPurchase(id, "docks", 10)
	}

	hist := st.GetTradeHistory()
	if len(hist) != 5 {
		t.Fatalf("history length = %d, want 5", len(hist))
	}
	for i, id := range []string{"d", "e", "f", "g", "h"} {
		if hist[i].ItemID != id {
			t.Fatalf("history[%d] = %s, want %s", i, hist[i].ItemID, id)
		}
	}
}

func TestHistoryRecordsBothSides(t *testing.T) {
	st, clk := newTracker(100)
	st.RecordPurchase("salt", "docks", 12)
	clk.Tick += 30
	st.RecordSale("salt", "town", 24)

	hist := st.GetTradeHistory()
	if len(hist) != 2 {
		t.Fatalf("history length = %d, want 2", len(hist))
	}
	if hist[0].Type != TradePurchase || hist[1].Type != TradeSale {
		t.Fatalf("record types = %v/%v, want purchase/sale", hist[0].Type, hist[1].Type)
	}
	if hist[0].ID == "" || hist[0].ID == hist[1].ID {
		t.Fatalf("records need distinct non-empty IDs, got %q and %q", hist[0].ID, hist[1].ID)
	}
	if hist[1].Tick != hist[0].Tick+30 {
		t.Fatalf("sale tick = %d, want %d", hist[1].Tick, hist[0].Tick+30)
	}
}

func TestMarketEvolutionRelaxesTowardNormal(t *testing.T) {
	st, _ := newTracker(100)
	for i := 0; i < 3; i++ {
		st.RecordPurchase("salt", "docks", 12)
	}
	// Supply 1, demand 6.
	st.SimulateMarketEvolution()
	if got := st.GetSupplyTier("salt", "docks"); got != SupplyBelowNormal {
		t.Fatalf("supply after evolution = %v, want Below Normal", got)
	}
	if got := st.GetDemandTier("salt", "docks"); got != DemandHigh {
		t.Fatalf("demand after evolution = %v, want High", got)
	}

	for i := 0; i < 10; i++ {
		st.SimulateMarketEvolution()
	}
	if got := st.GetSupplyTier("salt", "docks"); got != SupplyNormal {
		t.Fatalf("supply settled at %v, want Normal", got)
	}
	if got := st.GetDemandTier("salt", "docks"); got != DemandNormal {
		t.Fatalf("demand settled at %v, want Normal", got)
	}

	// Stable at Normal.
	st.SimulateMarketEvolution()
	if got := st.GetSupplyTier("salt", "docks"); got != SupplyNormal {
		t.Fatalf("supply moved off Normal to %v", got)
	}
}

func TestMarketConditionsAggregation(t *testing.T) {
	st, clk := newTracker(100)

	// Scarce and hot: three purchases.
	for i := 0; i < 3; i++ {
		st.RecordPurchase("salt", "docks", 12)
	}
	// Abundant and cold: four sales.
	for i := 0; i < 4; i++ {
		st.RecordSale("fish", "docks", 8)
	}
	// Another venue should not leak in.
	st.RecordPurchase("gem", "mine", 100)

	cond := st.GetMarketConditions("docks")
	if cond.TrackedItems != 2 {
		t.Fatalf("tracked items = %d, want 2", cond.TrackedItems)
	}
	if cond.ScarceItems != 1 || cond.AbundantItems != 1 {
		t.Fatalf("scarce/abundant = %d/%d, want 1/1", cond.ScarceItems, cond.AbundantItems)
	}
	if cond.HighDemandItems != 1 || cond.LowDemandItems != 1 {
		t.Fatalf("high/low demand = %d/%d, want 1/1", cond.HighDemandItems, cond.LowDemandItems)
	}
	if len(cond.TrendingItemIDs) != 2 {
		t.Fatalf("trending = %v, want both docks items", cond.TrendingItemIDs)
	}

	// Trades older than an hour stop trending.
	clk.Tick += 2 * clock.TicksPerHour
	cond = st.GetMarketConditions("docks")
	if len(cond.TrendingItemIDs) != 0 {
		t.Fatalf("trending after idle hour = %v, want none", cond.TrendingItemIDs)
	}
}

func TestMarketConditionsEmptyVenue(t *testing.T) {
	st, _ := newTracker(100)
	cond := st.GetMarketConditions("nowhere")
	if cond.TrackedItems != 0 {
		t.Fatalf("tracked items = %d, want 0", cond.TrackedItems)
	}
	if cond.AverageSupply != SupplyNormal || cond.AverageDemand != DemandNormal {
		t.Fatalf("empty venue averages = %v/%v, want Normal/Normal",
			cond.AverageSupply, cond.AverageDemand)
	}
}

func TestHighMarginRanking(t *testing.T) {
	st, _ := newTracker(100)

	// salt ends scarce and hot, fish stays near Normal, ore goes glutted.
	for i := 0; i < 4; i++ {
		st.RecordPurchase("salt", "docks", 12)
	}
	st.RecordPurchase("fish", "docks", 10)
	for i := 0; i < 6; i++ {
		st.RecordSale("ore", "docks", 10)
	}

	entries := st.GetHighMarginItems("docks", 2)
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].ItemID != "salt" {
		t.Fatalf("top margin item = %s, want salt", entries[0].ItemID)
	}
	// Severe shortage (+12) with very high demand (+4).
	if entries[0].Margin != 16 {
		t.Fatalf("top margin = %d, want 16", entries[0].Margin)
	}
	if entries[1].ItemID != "fish" {
		t.Fatalf("second item = %s, want fish", entries[1].ItemID)
	}

	if got := st.GetHighMarginItems("docks", 0); got != nil {
		t.Fatalf("topN 0 should return nil, got %v", got)
	}
}

func TestOversuppliedItems(t *testing.T) {
	st, _ := newTracker(100)
	st.RecordSale("ore", "docks", 10)
	if got := st.GetOversuppliedItems("docks"); len(got) != 1 || got[0] != "ore" {
		t.Fatalf("oversupplied = %v, want [ore]", got)
	}
	if got := st.GetOversuppliedItems("town"); got != nil {
		t.Fatalf("oversupplied at untouched venue = %v, want none", got)
	}
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	st, _ := newTracker(100)
	st.RecordPurchase("salt", "docks", 12)
	st.RecordSale("ore", "town", 10)
	snap := st.SnapshotState()

	// Wreck the live state, then restore.
	st.ResetMetrics()
	if len(st.GetTradeHistory()) != 0 {
		t.Fatalf("reset left history behind")
	}
	st.RestoreState(snap)

	if got := st.GetSupplyTier("salt", "docks"); got != SupplySlightlyLow {
		t.Fatalf("restored supply = %v, want Slightly Low", got)
	}
	if got := st.GetSupplyTier("ore", "town"); got != SupplySurplus {
		t.Fatalf("restored supply = %v, want Surplus", got)
	}
	if got := len(st.GetTradeHistory()); got != 2 {
		t.Fatalf("restored history length = %d, want 2", got)
	}
}

func TestRestoreClampsAndDedupes(t *testing.T) {
	st, _ := newTracker(2)
	st.RestoreState(Snapshot{
		Metrics: []MarketMetrics{
			{VenueID: "docks", ItemID: "salt", Supply: SupplyTier(9), Demand: DemandTier(50)},
			{VenueID: "docks", ItemID: "salt", Supply: SupplyNormal, Demand: DemandNormal},
		},
		History: []TradeRecord{
			{ID: "r1", ItemID: "a"}, {ID: "r2", ItemID: "b"}, {ID: "r3", ItemID: "c"},
		},
	})

	if got := st.GetSupplyTier("salt", "docks"); got != SupplyMajorSurplus {
		t.Fatalf("clamped supply = %v, want Major Surplus", got)
	}
	if got := st.GetDemandTier("salt", "docks"); got != DemandVeryHigh {
		t.Fatalf("clamped demand = %v, want Very High", got)
	}

	hist := st.GetTradeHistory()
	if len(hist) != 2 || hist[0].ID != "r2" || hist[1].ID != "r3" {
		t.Fatalf("restored history = %v, want newest two records", hist)
	}
}
