// Package persistence provides SQLite-backed session storage for market
// state. The engine itself is in-memory; the host game saves a snapshot at
// session boundaries and restores it on resume.
package persistence

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/halfgrove/tradewind/internal/market"
)

// DB wraps a SQLite connection for market session persistence.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS market_metrics (
		venue_id TEXT NOT NULL,
		item_id TEXT NOT NULL,
		supply INTEGER NOT NULL,
		demand INTEGER NOT NULL,
		recent_purchases INTEGER NOT NULL,
		recent_sales INTEGER NOT NULL,
		last_trade_tick INTEGER NOT NULL,
		avg_trade_price REAL NOT NULL,
		trade_count INTEGER NOT NULL,
		PRIMARY KEY (venue_id, item_id)
	);

	CREATE TABLE IF NOT EXISTS trade_records (
		id TEXT PRIMARY KEY,
		seq INTEGER NOT NULL,
		tick INTEGER NOT NULL,
		venue_id TEXT NOT NULL,
		item_id TEXT NOT NULL,
		trade_type INTEGER NOT NULL,
		price INTEGER NOT NULL,
		quantity INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS session_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_trade_records_seq ON trade_records(seq);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// HasMarketState reports whether a prior session snapshot exists.
func (db *DB) HasMarketState() bool {
	var count int
	if err := db.conn.Get(&count, "SELECT COUNT(*) FROM market_metrics"); err != nil {
		return false
	}
	if count > 0 {
		return true
	}
	if err := db.conn.Get(&count, "SELECT COUNT(*) FROM trade_records"); err != nil {
		return false
	}
	return count > 0
}

// SaveMarketState writes a full snapshot, replacing any prior one.
func (db *DB) SaveMarketState(snap market.Snapshot) error {
	slog.Info("saving market state",
		"metrics", len(snap.Metrics), "records", len(snap.History))

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM market_metrics"); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM trade_records"); err != nil {
		return err
	}

	stmt, err := tx.Preparex(`INSERT INTO market_metrics
		(venue_id, item_id, supply, demand, recent_purchases, recent_sales,
		 last_trade_tick, avg_trade_price, trade_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, m := range snap.Metrics {
		_, err := stmt.Exec(
			m.VenueID, m.ItemID, int(m.Supply), int(m.Demand),
			m.RecentPurchases, m.RecentSales,
			m.LastTradeTick, m.AvgTradePrice, m.TradeCount,
		)
		if err != nil {
			return fmt.Errorf("insert metrics %s/%s: %w", m.VenueID, m.ItemID, err)
		}
	}

	recStmt, err := tx.Preparex(`INSERT INTO trade_records
		(id, seq, tick, venue_id, item_id, trade_type, price, quantity)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer recStmt.Close()

	for i, r := range snap.History {
		_, err := recStmt.Exec(r.ID, i, r.Tick, r.VenueID, r.ItemID, int(r.Type), r.Price, r.Quantity)
		if err != nil {
			return fmt.Errorf("insert trade record %s: %w", r.ID, err)
		}
	}

	return tx.Commit()
}

// LoadMarketState reads the saved snapshot, history in original order.
func (db *DB) LoadMarketState() (market.Snapshot, error) {
	var snap market.Snapshot

	rows, err := db.conn.Queryx(`SELECT venue_id, item_id, supply, demand,
		recent_purchases, recent_sales, last_trade_tick, avg_trade_price, trade_count
		FROM market_metrics ORDER BY venue_id, item_id`)
	if err != nil {
		return snap, fmt.Errorf("load metrics: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var m market.MarketMetrics
		var supply, demand int
		if err := rows.Scan(&m.VenueID, &m.ItemID, &supply, &demand,
			&m.RecentPurchases, &m.RecentSales,
			&m.LastTradeTick, &m.AvgTradePrice, &m.TradeCount); err != nil {
			return snap, fmt.Errorf("scan metrics: %w", err)
		}
		m.Supply = market.SupplyTier(supply)
		m.Demand = market.DemandTier(demand)
		snap.Metrics = append(snap.Metrics, m)
	}
	if err := rows.Err(); err != nil {
		return snap, err
	}

	recRows, err := db.conn.Queryx(`SELECT id, tick, venue_id, item_id, trade_type, price, quantity
		FROM trade_records ORDER BY seq`)
	if err != nil {
		return snap, fmt.Errorf("load trade records: %w", err)
	}
	defer recRows.Close()

	for recRows.Next() {
		var r market.TradeRecord
		var tt int
		if err := recRows.Scan(&r.ID, &r.Tick, &r.VenueID, &r.ItemID, &tt, &r.Price, &r.Quantity); err != nil {
			return snap, fmt.Errorf("scan trade record: %w", err)
		}
		r.Type = market.TradeType(tt)
		snap.History = append(snap.History, r)
	}
	return snap, recRows.Err()
}

// SaveMeta stores a key-value pair in session metadata.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO session_meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value. Returns sql.ErrNoRows when unset.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	if err := db.conn.Get(&value, "SELECT value FROM session_meta WHERE key = ?", key); err != nil {
		if err == sql.ErrNoRows {
			return "", err
		}
		return "", fmt.Errorf("get meta %q: %w", key, err)
	}
	return value, nil
}
