package marketdata

import (
	"sort"
	"strings"

	"github.com/Pahinithi/stock-market-chatbot/internal/domain/entities"
)

// MemoryStore serves the dataset from in-memory indexed structures.
// It is built once and never mutated afterwards, so reads are safe for
// concurrent use without locking.
type MemoryStore struct {
	indices map[string]entities.IndexInfo     // uppercased symbol -> info
	records map[string][]entities.PriceRecord // uppercased symbol -> ascending history
	ordered []entities.IndexInfo              // all indices, sorted by symbol
	summary entities.Summary
}

// NewMemoryStore indexes a parsed dataset. Records whose symbol has no
// IndexInfo entry stay retrievable by symbol but are not part of the
// resolution vocabulary, which is derived from ListIndices.
func NewMemoryStore(ds *Dataset) *MemoryStore {
	s := &MemoryStore{
		indices: make(map[string]entities.IndexInfo, len(ds.Indices)),
		records: make(map[string][]entities.PriceRecord),
	}

	for _, info := range ds.Indices {
		key := strings.ToUpper(info.Symbol)
		if _, dup := s.indices[key]; dup {
			continue
		}
		s.indices[key] = info
		s.ordered = append(s.ordered, info)
	}
	sort.Slice(s.ordered, func(i, j int) bool {
		return s.ordered[i].Symbol < s.ordered[j].Symbol
	})

	for _, rec := range ds.Records {
		key := strings.ToUpper(rec.Symbol)
		s.records[key] = append(s.records[key], rec)
	}
	for key := range s.records {
		recs := s.records[key]
		sort.Slice(recs, func(i, j int) bool { return recs[i].Date.Before(recs[j].Date) })
	}

	s.summary = buildSummary(ds, s.ordered)
	return s
}

// IndexInfo looks up one index by symbol, case-insensitively.
func (s *MemoryStore) IndexInfo(symbol string) (entities.IndexInfo, bool) {
	info, ok := s.indices[strings.ToUpper(symbol)]
	return info, ok
}

// ListIndices returns indices whose region contains the filter,
// case-insensitively; an empty filter returns all indices.
func (s *MemoryStore) ListIndices(region string) []entities.IndexInfo {
	if region == "" {
		out := make([]entities.IndexInfo, len(s.ordered))
		copy(out, s.ordered)
		return out
	}

	needle := strings.ToLower(region)
	var out []entities.IndexInfo
	for _, info := range s.ordered {
		if strings.Contains(strings.ToLower(info.Region), needle) {
			out = append(out, info)
		}
	}
	return out
}

// Records returns price history for a symbol: newest-first and capped
// when limit > 0, full ascending history otherwise.
func (s *MemoryStore) Records(symbol string, limit int) []entities.PriceRecord {
	recs := s.records[strings.ToUpper(symbol)]
	if limit <= 0 {
		out := make([]entities.PriceRecord, len(recs))
		copy(out, recs)
		return out
	}

	if limit > len(recs) {
		limit = len(recs)
	}
	out := make([]entities.PriceRecord, 0, limit)
	for i := 0; i < limit; i++ {
		out = append(out, recs[len(recs)-1-i])
	}
	return out
}

// Summary describes the loaded dataset.
func (s *MemoryStore) Summary() entities.Summary {
	return s.summary
}

func buildSummary(ds *Dataset, ordered []entities.IndexInfo) entities.Summary {
	sum := entities.Summary{
		TotalIndices: len(ordered),
		TotalRecords: len(ds.Records),
		SkippedRows:  ds.Skipped,
	}
	for _, info := range ordered {
		sum.AvailableSymbols = append(sum.AvailableSymbols, info.Symbol)
	}
	for _, rec := range ds.Records {
		if sum.EarliestDate.IsZero() || rec.Date.Before(sum.EarliestDate) {
			sum.EarliestDate = rec.Date
		}
		if rec.Date.After(sum.LatestDate) {
			sum.LatestDate = rec.Date
		}
	}
	return sum
}
