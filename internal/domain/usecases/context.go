package usecases

import (
	"github.com/Pahinithi/stock-market-chatbot/internal/domain/entities"
	"github.com/Pahinithi/stock-market-chatbot/internal/domain/ports"
)

// Default caps keep the downstream prompt bounded no matter how many
// symbols a query matched.
const (
	defaultRecordsPerSymbol = 10
	defaultMaxTotalRecords  = 30
)

// ContextBuilder extracts a bounded slice of structured data to ground
// the language backend.
type ContextBuilder struct {
	store            ports.MarketStore
	recordsPerSymbol int
	maxTotalRecords  int
}

// NewContextBuilder creates a ContextBuilder with injected store and caps.
func NewContextBuilder(store ports.MarketStore, recordsPerSymbol, maxTotalRecords int) *ContextBuilder {
	if recordsPerSymbol <= 0 {
		recordsPerSymbol = defaultRecordsPerSymbol
	}
	if maxTotalRecords <= 0 {
		maxTotalRecords = defaultMaxTotalRecords
	}
	return &ContextBuilder{
		store:            store,
		recordsPerSymbol: recordsPerSymbol,
		maxTotalRecords:  maxTotalRecords,
	}
}

// Build assembles a QueryContext for the resolved match. Regions are
// expanded to their member symbols only when no symbol matched directly.
// An empty match yields an empty QueryContext; callers treat that as
// "no grounding available", not as an error.
func (b *ContextBuilder) Build(m entities.Match) entities.QueryContext {
	symbols := m.Symbols
	if len(symbols) == 0 {
		symbols = b.regionSymbols(m.Regions)
	}

	var qc entities.QueryContext
	for _, symbol := range symbols {
		history := b.store.Records(symbol, 0)
		if len(history) == 0 {
			continue
		}

		latest := history[len(history)-1]
		qc.Stats = append(qc.Stats, entities.SymbolStats{
			Symbol:      latest.Symbol,
			RecordCount: len(history),
			FirstDate:   history[0].Date,
			LastDate:    latest.Date,
			LatestClose: latest.Close,
		})
		qc.Sources = append(qc.Sources, latest.Symbol)

		// Newest-first recent records, bounded per symbol and in total.
		room := b.maxTotalRecords - len(qc.Records)
		take := b.recordsPerSymbol
		if take > room {
			take = room
		}
		if take > len(history) {
			take = len(history)
		}
		for i := 0; i < take; i++ {
			qc.Records = append(qc.Records, history[len(history)-1-i])
		}
	}
	return qc
}

// regionSymbols expands regions to their member symbols, preserving
// store order and deduplicating across overlapping regions.
func (b *ContextBuilder) regionSymbols(regions []string) []string {
	var symbols []string
	seen := make(map[string]bool)
	for _, region := range regions {
		for _, info := range b.store.ListIndices(region) {
			if !seen[info.Symbol] {
				seen[info.Symbol] = true
				symbols = append(symbols, info.Symbol)
			}
		}
	}
	return symbols
}
