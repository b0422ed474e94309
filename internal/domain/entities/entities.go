// Package entities contains core business entities.
// Pure domain objects with no knowledge of storage, HTTP, or the LLM backend.
package entities

import "time"

// IndexInfo describes one known stock-market index.
// Symbol is the unique key; uniqueness is case-insensitive.
type IndexInfo struct {
	Region   string `json:"region"`
	Exchange string `json:"exchange"`
	Symbol   string `json:"symbol"`
	Currency string `json:"currency"`
}

// PriceRecord is one daily OHLCV row for an index.
type PriceRecord struct {
	Symbol   string    `json:"symbol"`
	Date     time.Time `json:"date"`
	Open     float64   `json:"open"`
	High     float64   `json:"high"`
	Low      float64   `json:"low"`
	Close    float64   `json:"close"`
	AdjClose float64   `json:"adj_close"`
	Volume   int64     `json:"volume"`
	CloseUSD *float64  `json:"close_usd,omitempty"`
}

// MatchKind tags the outcome of entity resolution.
type MatchKind int

const (
	NoMatch MatchKind = iota
	SingleMatch
	AmbiguousMatch
)

// Match is the transient result of resolving a free-text query
// against the known symbol and region vocabulary.
// An empty Match is not an error; it means "answer without grounding data".
type Match struct {
	Symbols   []string `json:"symbols,omitempty"`
	Regions   []string `json:"regions,omitempty"`
	Ambiguous bool     `json:"ambiguous"`
}

// Kind reports the tagged resolution outcome.
func (m Match) Kind() MatchKind {
	switch {
	case len(m.Symbols) > 1:
		return AmbiguousMatch
	case len(m.Symbols) == 1 || len(m.Regions) > 0:
		return SingleMatch
	default:
		return NoMatch
	}
}

// Empty reports whether nothing was resolved.
func (m Match) Empty() bool {
	return len(m.Symbols) == 0 && len(m.Regions) == 0
}

// SymbolStats summarizes one symbol's history for grounding.
type SymbolStats struct {
	Symbol      string    `json:"symbol"`
	RecordCount int       `json:"record_count"`
	FirstDate   time.Time `json:"first_date"`
	LastDate    time.Time `json:"last_date"`
	LatestClose float64   `json:"latest_close"`
}

// QueryContext is the bounded slice of structured data grounding one query.
// Records never exceed the builder's per-symbol and total caps.
type QueryContext struct {
	Stats   []SymbolStats `json:"stats,omitempty"`
	Records []PriceRecord `json:"records,omitempty"`
	Sources []string      `json:"sources,omitempty"`
}

// Empty reports whether no grounding data is available.
func (qc QueryContext) Empty() bool {
	return len(qc.Stats) == 0 && len(qc.Records) == 0
}

// Summary describes the loaded dataset as a whole.
type Summary struct {
	TotalIndices     int       `json:"total_indices"`
	TotalRecords     int       `json:"total_records"`
	SkippedRows      int       `json:"skipped_rows"`
	EarliestDate     time.Time `json:"earliest_date"`
	LatestDate       time.Time `json:"latest_date"`
	AvailableSymbols []string  `json:"available_symbols"`
}

// ChatRequest is one incoming question, with optional caller-supplied context.
type ChatRequest struct {
	Message string `json:"message"`
	Context string `json:"context,omitempty"`
}

// ChatResult is the unified answer returned to the caller.
// Data is populated whenever grounding data was built, even if the
// language backend call failed.
type ChatResult struct {
	Response string        `json:"response"`
	Data     *QueryContext `json:"data,omitempty"`
	Success  bool          `json:"success"`
	Error    string        `json:"error,omitempty"`
}
