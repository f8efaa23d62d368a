package market

import (
	"sort"

	"github.com/google/uuid"

	"github.com/halfgrove/tradewind/internal/clock"
)

// TradeType distinguishes the two sides of a trade.
type TradeType uint8

const (
	TradePurchase TradeType = iota // Player bought from the venue
	TradeSale                      // Player sold to the venue
)

func (t TradeType) String() string {
	if t == TradePurchase {
		return "purchase"
	}
	return "sale"
}

// MarketMetrics is the economic state for one (venue, item) pair. Created
// lazily on first query or trade and mutated only by the StateTracker.
type MarketMetrics struct {
	VenueID string `json:"venue_id"`
	ItemID  string `json:"item_id"`

	Supply SupplyTier `json:"supply"`
	Demand DemandTier `json:"demand"`

	RecentPurchases int     `json:"recent_purchases"`
	RecentSales     int     `json:"recent_sales"`
	LastTradeTick   uint64  `json:"last_trade_tick"`
	AvgTradePrice   float64 `json:"avg_trade_price"`
	TradeCount      int     `json:"trade_count"`
}

// TradeRecord is an immutable log entry for one successful trade.
type TradeRecord struct {
	ID       string    `json:"id"`
	Tick     uint64    `json:"tick"`
	VenueID  string    `json:"venue_id"`
	ItemID   string    `json:"item_id"`
	Type     TradeType `json:"type"`
	Price    int       `json:"price"`
	Quantity int       `json:"quantity"`
}

// MarketConditions aggregates the tracked state of one venue.
type MarketConditions struct {
	VenueID         string       `json:"venue_id"`
	TrackedItems    int          `json:"tracked_items"`
	ScarceItems     int          `json:"scarce_items"`
	AbundantItems   int          `json:"abundant_items"`
	HighDemandItems int          `json:"high_demand_items"`
	LowDemandItems  int          `json:"low_demand_items"`
	TrendingItemIDs []string     `json:"trending_item_ids"`
	AverageSupply   SupplyTier   `json:"average_supply"`
	AverageDemand   DemandTier   `json:"average_demand"`
}

// MarginEntry ranks an item by its combined tier coin adjustment.
type MarginEntry struct {
	ItemID string `json:"item_id"`
	Margin int    `json:"margin"`
}

// Snapshot is the tracker's full state, used for session save/restore.
type Snapshot struct {
	Metrics []MarketMetrics `json:"metrics"`
	History []TradeRecord   `json:"history"`
}

// StateTracker owns all time-varying economic state: supply/demand tiers
// per (venue, item) and the bounded trade history.
type StateTracker struct {
	cfg   *EconomyConfig
	clock *clock.Clock

	metrics map[string]*MarketMetrics // venueID + "/" + itemID
	order   []string                  // Key creation order for stable iteration
	history []TradeRecord
}

// NewStateTracker creates an empty tracker.
func NewStateTracker(cfg *EconomyConfig, clk *clock.Clock) *StateTracker {
	return &StateTracker{
		cfg:     cfg,
		clock:   clk,
		metrics: make(map[string]*MarketMetrics),
	}
}

func metricsKey(venueID, itemID string) string {
	return venueID + "/" + itemID
}

// metricsFor returns the record for a (venue, item) pair, creating a
// Normal-tier record on first access.
func (st *StateTracker) metricsFor(venueID, itemID string) *MarketMetrics {
	key := metricsKey(venueID, itemID)
	if m, ok := st.metrics[key]; ok {
		return m
	}
	m := &MarketMetrics{
		VenueID: venueID,
		ItemID:  itemID,
		Supply:  SupplyNormal,
		Demand:  DemandNormal,
	}
	st.metrics[key] = m
	st.order = append(st.order, key)
	return m
}

// GetSupplyTier returns the current supply tier for a (venue, item) pair.
// Always succeeds.
func (st *StateTracker) GetSupplyTier(itemID, venueID string) SupplyTier {
	return st.metricsFor(venueID, itemID).Supply
}

// GetDemandTier returns the current demand tier for a (venue, item) pair.
// Always succeeds.
func (st *StateTracker) GetDemandTier(itemID, venueID string) DemandTier {
	return st.metricsFor(venueID, itemID).Demand
}

// RecordPurchase registers a player purchase: supply shifts one step toward
// shortage, demand one step toward high demand.
func (st *StateTracker) RecordPurchase(itemID, venueID string, price int) {
	m := st.metricsFor(venueID, itemID)
	st.appendRecord(venueID, itemID, TradePurchase, price)

	m.Supply = SupplyTier(stepDown(int(m.Supply)))
	m.Demand = DemandTier(stepUp(int(m.Demand)))
	m.RecentPurchases++
	st.noteTrade(m, price)
}

// RecordSale registers a player sale: supply shifts one step toward surplus;
// demand shifts one step toward low demand only on every second sale, and
// never more than once per call.
func (st *StateTracker) RecordSale(itemID, venueID string, price int) {
	m := st.metricsFor(venueID, itemID)
	st.appendRecord(venueID, itemID, TradeSale, price)

	m.Supply = SupplyTier(stepUp(int(m.Supply)))
	m.RecentSales++
	if m.RecentSales%2 == 0 {
		m.Demand = DemandTier(stepDown(int(m.Demand)))
	}
	st.noteTrade(m, price)
}

func (st *StateTracker) noteTrade(m *MarketMetrics, price int) {
	m.LastTradeTick = st.clock.Now()
	if m.TradeCount == 0 {
		m.AvgTradePrice = float64(price)
	} else {
		m.AvgTradePrice = (m.AvgTradePrice*3 + float64(price)) / 4
	}
	m.TradeCount++
}

func (st *StateTracker) appendRecord(venueID, itemID string, tt TradeType, price int) {
	st.history = append(st.history, TradeRecord{
		ID:       uuid.NewString(),
		Tick:     st.clock.Now(),
		VenueID:  venueID,
		ItemID:   itemID,
		Type:     tt,
		Price:    price,
		Quantity: 1,
	})
	// Bounded FIFO: evict oldest first.
	if over := len(st.history) - st.cfg.HistoryCapacity; over > 0 {
		st.history = append(st.history[:0:0], st.history[over:]...)
	}
}

// GetTradeHistory returns the trade log, oldest first.
func (st *StateTracker) GetTradeHistory() []TradeRecord {
	out := make([]TradeRecord, len(st.history))
	copy(out, st.history)
	return out
}

// GetMarketConditions aggregates all tracked items at a venue.
func (st *StateTracker) GetMarketConditions(venueID string) MarketConditions {
	cond := MarketConditions{
		VenueID:       venueID,
		AverageSupply: SupplyNormal,
		AverageDemand: DemandNormal,
	}

	supplySum, demandSum := 0, 0
	cutoff := uint64(0)
	if now := st.clock.Now(); now > clock.TicksPerHour {
		cutoff = now - clock.TicksPerHour
	}

	for _, key := range st.order {
		m := st.metrics[key]
		if m.VenueID != venueID {
			continue
		}
		cond.TrackedItems++
		supplySum += int(m.Supply)
		demandSum += int(m.Demand)

		if m.Supply <= SupplyBelowNormal {
			cond.ScarceItems++
		}
		if m.Supply >= SupplySurplus {
			cond.AbundantItems++
		}
		if m.Demand >= DemandHigh {
			cond.HighDemandItems++
		}
		if m.Demand <= DemandLow {
			cond.LowDemandItems++
		}
		if m.TradeCount > 0 && m.LastTradeTick >= cutoff {
			cond.TrendingItemIDs = append(cond.TrendingItemIDs, m.ItemID)
		}
	}

	if cond.TrackedItems > 0 {
		cond.AverageSupply = SupplyTier(clampTier(supplySum / cond.TrackedItems))
		cond.AverageDemand = DemandTier(clampTier(demandSum / cond.TrackedItems))
	}
	return cond
}

// GetHighMarginItems returns the topN tracked items at a venue ranked by
// combined tier coin adjustment, best margin first. topN must be supplied
// by the caller; there is no implicit default.
func (st *StateTracker) GetHighMarginItems(venueID string, topN int) []MarginEntry {
	if topN <= 0 {
		return nil
	}
	var entries []MarginEntry
	for _, key := range st.order {
		m := st.metrics[key]
		if m.VenueID != venueID {
			continue
		}
		entries = append(entries, MarginEntry{
			ItemID: m.ItemID,
			Margin: st.cfg.SupplyAdjustment(m.Supply) + st.cfg.DemandAdjustment(m.Demand),
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Margin > entries[j].Margin
	})
	if len(entries) > topN {
		entries = entries[:topN]
	}
	return entries
}

// GetOversuppliedItems returns the IDs of items at or beyond Surplus at
// a venue.
func (st *StateTracker) GetOversuppliedItems(venueID string) []string {
	var out []string
	for _, key := range st.order {
		m := st.metrics[key]
		if m.VenueID == venueID && m.Supply >= SupplySurplus {
			out = append(out, m.ItemID)
		}
	}
	return out
}

// SimulateMarketEvolution passively relaxes every tracked tier one step
// toward Normal. Called once per simulated time advance, independent of
// trades.
func (st *StateTracker) SimulateMarketEvolution() {
	for _, m := range st.metrics {
		m.Supply = SupplyTier(stepToward(int(m.Supply), NormalTier))
		m.Demand = DemandTier(stepToward(int(m.Demand), NormalTier))
	}
}

// ResetMetrics clears all tracked state. Session boundaries only.
func (st *StateTracker) ResetMetrics() {
	st.metrics = make(map[string]*MarketMetrics)
	st.order = nil
	st.history = nil
}

// SnapshotState exports the tracker's full state for session persistence.
func (st *StateTracker) SnapshotState() Snapshot {
	snap := Snapshot{
		Metrics: make([]MarketMetrics, 0, len(st.order)),
		History: make([]TradeRecord, len(st.history)),
	}
	for _, key := range st.order {
		snap.Metrics = append(snap.Metrics, *st.metrics[key])
	}
	copy(snap.History, st.history)
	return snap
}

// RestoreState replaces the tracker's state from a saved snapshot.
func (st *StateTracker) RestoreState(snap Snapshot) {
	st.ResetMetrics()
	for i := range snap.Metrics {
		m := snap.Metrics[i]
		m.Supply = SupplyTier(clampTier(int(m.Supply)))
		m.Demand = DemandTier(clampTier(int(m.Demand)))
		key := metricsKey(m.VenueID, m.ItemID)
		if _, exists := st.metrics[key]; exists {
			continue
		}
		st.metrics[key] = &m
		st.order = append(st.order, key)
	}
	if len(snap.History) > 0 {
		start := 0
		if over := len(snap.History) - st.cfg.HistoryCapacity; over > 0 {
			start = over
		}
		st.history = append(st.history, snap.History[start:]...)
	}
}
