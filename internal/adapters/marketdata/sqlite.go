package marketdata

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Pahinithi/stock-market-chatbot/internal/domain/entities"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStore serves the dataset from a SQLite file. The dataset is
// imported once at startup and the store is read-only afterwards, same
// contract as MemoryStore behind the same port.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database file and its schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if path == "" {
		path = "data/market.db"
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}
	return store, nil
}

// initSchema creates the necessary tables.
func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS index_info (
		symbol TEXT PRIMARY KEY COLLATE NOCASE,
		region TEXT NOT NULL,
		exchange TEXT NOT NULL,
		currency TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS price_records (
		symbol TEXT NOT NULL COLLATE NOCASE,
		date TEXT NOT NULL,
		open REAL NOT NULL,
		high REAL NOT NULL,
		low REAL NOT NULL,
		close REAL NOT NULL,
		adj_close REAL NOT NULL,
		volume INTEGER NOT NULL,
		close_usd REAL
	);
	CREATE INDEX IF NOT EXISTS idx_records_symbol_date ON price_records(symbol, date);
	CREATE TABLE IF NOT EXISTS load_meta (
		key TEXT PRIMARY KEY,
		value INTEGER NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Import replaces the stored dataset with the parsed one.
func (s *SQLiteStore) Import(ds *Dataset) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"index_info", "price_records", "load_meta"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	infoStmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO index_info (symbol, region, exchange, currency)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer infoStmt.Close()

	for _, info := range ds.Indices {
		if _, err := infoStmt.Exec(info.Symbol, info.Region, info.Exchange, info.Currency); err != nil {
			return fmt.Errorf("inserting index info: %w", err)
		}
	}

	recStmt, err := tx.Prepare(`
		INSERT INTO price_records (symbol, date, open, high, low, close, adj_close, volume, close_usd)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer recStmt.Close()

	for _, rec := range ds.Records {
		var closeUSD interface{}
		if rec.CloseUSD != nil {
			closeUSD = *rec.CloseUSD
		}
		_, err := recStmt.Exec(rec.Symbol, rec.Date.Format("2006-01-02"),
			rec.Open, rec.High, rec.Low, rec.Close, rec.AdjClose, rec.Volume, closeUSD)
		if err != nil {
			return fmt.Errorf("inserting price record: %w", err)
		}
	}

	if _, err := tx.Exec(`INSERT INTO load_meta (key, value) VALUES ('skipped_rows', ?)`, ds.Skipped); err != nil {
		return fmt.Errorf("recording skipped rows: %w", err)
	}

	return tx.Commit()
}

// IndexInfo looks up one index by symbol, case-insensitively.
func (s *SQLiteStore) IndexInfo(symbol string) (entities.IndexInfo, bool) {
	var info entities.IndexInfo
	err := s.db.QueryRow(`
		SELECT symbol, region, exchange, currency FROM index_info WHERE symbol = ?
	`, symbol).Scan(&info.Symbol, &info.Region, &info.Exchange, &info.Currency)
	if err != nil {
		return entities.IndexInfo{}, false
	}
	return info, true
}

// ListIndices returns indices whose region contains the filter.
func (s *SQLiteStore) ListIndices(region string) []entities.IndexInfo {
	rows, err := s.db.Query(`
		SELECT symbol, region, exchange, currency FROM index_info
		WHERE ? = '' OR instr(lower(region), lower(?)) > 0
		ORDER BY symbol
	`, region, region)
	if err != nil {
		return nil
	}
	defer rows.Close()

	var out []entities.IndexInfo
	for rows.Next() {
		var info entities.IndexInfo
		if err := rows.Scan(&info.Symbol, &info.Region, &info.Exchange, &info.Currency); err != nil {
			continue
		}
		out = append(out, info)
	}
	return out
}

// Records returns price history for a symbol: newest-first and capped
// when limit > 0, full ascending history otherwise.
func (s *SQLiteStore) Records(symbol string, limit int) []entities.PriceRecord {
	query := `
		SELECT symbol, date, open, high, low, close, adj_close, volume, close_usd
		FROM price_records WHERE symbol = ? ORDER BY date ASC
	`
	args := []interface{}{symbol}
	if limit > 0 {
		query = `
			SELECT symbol, date, open, high, low, close, adj_close, volume, close_usd
			FROM price_records WHERE symbol = ? ORDER BY date DESC LIMIT ?
		`
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil
	}
	defer rows.Close()

	var out []entities.PriceRecord
	for rows.Next() {
		var rec entities.PriceRecord
		var date string
		var closeUSD sql.NullFloat64
		if err := rows.Scan(&rec.Symbol, &date, &rec.Open, &rec.High, &rec.Low,
			&rec.Close, &rec.AdjClose, &rec.Volume, &closeUSD); err != nil {
			continue
		}
		rec.Date, _ = time.Parse("2006-01-02", date)
		if closeUSD.Valid {
			v := closeUSD.Float64
			rec.CloseUSD = &v
		}
		out = append(out, rec)
	}
	return out
}

// Summary describes the stored dataset.
func (s *SQLiteStore) Summary() entities.Summary {
	var sum entities.Summary

	s.db.QueryRow(`SELECT COUNT(*) FROM index_info`).Scan(&sum.TotalIndices)
	s.db.QueryRow(`SELECT COUNT(*) FROM price_records`).Scan(&sum.TotalRecords)
	s.db.QueryRow(`SELECT value FROM load_meta WHERE key = 'skipped_rows'`).Scan(&sum.SkippedRows)

	var earliest, latest sql.NullString
	s.db.QueryRow(`SELECT MIN(date), MAX(date) FROM price_records`).Scan(&earliest, &latest)
	if earliest.Valid {
		sum.EarliestDate, _ = time.Parse("2006-01-02", earliest.String)
	}
	if latest.Valid {
		sum.LatestDate, _ = time.Parse("2006-01-02", latest.String)
	}

	rows, err := s.db.Query(`SELECT symbol FROM index_info ORDER BY symbol`)
	if err != nil {
		return sum
	}
	defer rows.Close()
	for rows.Next() {
		var symbol string
		if err := rows.Scan(&symbol); err == nil {
			sum.AvailableSymbols = append(sum.AvailableSymbols, symbol)
		}
	}
	return sum
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
