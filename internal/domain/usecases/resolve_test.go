package usecases

import (
	"strings"
	"testing"
	"time"

	"github.com/Pahinithi/stock-market-chatbot/internal/domain/entities"
)

// mockStore implements ports.MarketStore for testing.
type mockStore struct {
	indices []entities.IndexInfo
	records map[string][]entities.PriceRecord // uppercased symbol -> ascending
}

func (m *mockStore) IndexInfo(symbol string) (entities.IndexInfo, bool) {
	for _, info := range m.indices {
		if strings.EqualFold(info.Symbol, symbol) {
			return info, true
		}
	}
	return entities.IndexInfo{}, false
}

func (m *mockStore) ListIndices(region string) []entities.IndexInfo {
	var out []entities.IndexInfo
	for _, info := range m.indices {
		if region == "" || strings.Contains(strings.ToLower(info.Region), strings.ToLower(region)) {
			out = append(out, info)
		}
	}
	return out
}

func (m *mockStore) Records(symbol string, limit int) []entities.PriceRecord {
	recs := m.records[strings.ToUpper(symbol)]
	if limit <= 0 {
		return recs
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

func (m *mockStore) Summary() entities.Summary {
	sum := entities.Summary{TotalIndices: len(m.indices)}
	for _, info := range m.indices {
		sum.AvailableSymbols = append(sum.AvailableSymbols, info.Symbol)
	}
	for _, recs := range m.records {
		sum.TotalRecords += len(recs)
	}
	return sum
}

// makeHistory builds n ascending daily records ending at lastClose.
func makeHistory(symbol string, n int, lastClose float64) []entities.PriceRecord {
	start := time.Date(2021, 5, 1, 0, 0, 0, 0, time.UTC)
	recs := make([]entities.PriceRecord, 0, n)
	for i := 0; i < n; i++ {
		close := lastClose - float64(n-1-i)
		recs = append(recs, entities.PriceRecord{
			Symbol:   symbol,
			Date:     start.AddDate(0, 0, i),
			Open:     close - 1,
			High:     close + 1,
			Low:      close - 2,
			Close:    close,
			AdjClose: close,
			Volume:   1000,
		})
	}
	return recs
}

func newTestStore() *mockStore {
	return &mockStore{
		indices: []entities.IndexInfo{
			{Region: "United States", Exchange: "NYSE", Symbol: "NYA", Currency: "USD"},
			{Region: "United States", Exchange: "NASDAQ", Symbol: "IXIC", Currency: "USD"},
			{Region: "Japan", Exchange: "Tokyo Stock Exchange", Symbol: "N225", Currency: "JPY"},
			{Region: "Hong Kong", Exchange: "HKSE", Symbol: "HSI", Currency: "HKD"},
			{Region: "China", Exchange: "Shanghai Stock Exchange", Symbol: "000001.SS", Currency: "CNY"},
		},
		records: map[string][]entities.PriceRecord{
			"NYA":       makeHistory("NYA", 20, 16555),
			"IXIC":      makeHistory("IXIC", 20, 13748),
			"N225":      makeHistory("N225", 15, 28860),
			"HSI":       makeHistory("HSI", 15, 29468),
			"000001.SS": makeHistory("000001.SS", 5, 3600),
		},
	}
}

func TestResolver_KnownSymbols(t *testing.T) {
	store := newTestStore()
	r := NewResolver(store)

	for _, info := range store.indices {
		m := r.Resolve(info.Symbol)
		if len(m.Symbols) != 1 || m.Symbols[0] != info.Symbol {
			t.Errorf("resolve(%q): expected exactly that symbol, got %v", info.Symbol, m.Symbols)
		}
		if m.Ambiguous {
			t.Errorf("resolve(%q): should not be ambiguous", info.Symbol)
		}
	}
}

func TestResolver_CaseInsensitiveSymbol(t *testing.T) {
	r := NewResolver(newTestStore())

	m := r.Resolve("Tell me about nya index")
	if len(m.Symbols) != 1 || m.Symbols[0] != "NYA" {
		t.Errorf("expected [NYA], got %v", m.Symbols)
	}
	if m.Kind() != entities.SingleMatch {
		t.Errorf("expected SingleMatch, got %v", m.Kind())
	}
}

func TestResolver_NoMatch(t *testing.T) {
	r := NewResolver(newTestStore())

	m := r.Resolve("What about ZZZ999 made up")
	if !m.Empty() {
		t.Errorf("expected empty match, got symbols=%v regions=%v", m.Symbols, m.Regions)
	}
	if m.Ambiguous {
		t.Error("empty match should not be ambiguous")
	}
	if m.Kind() != entities.NoMatch {
		t.Errorf("expected NoMatch, got %v", m.Kind())
	}
}

func TestResolver_MultipleSymbolsAmbiguous(t *testing.T) {
	r := NewResolver(newTestStore())

	m := r.Resolve("Compare NYA and IXIC this year")
	if len(m.Symbols) != 2 {
		t.Fatalf("expected 2 symbols, got %v", m.Symbols)
	}
	if !m.Ambiguous {
		t.Error("multiple symbols should be ambiguous")
	}
	if m.Kind() != entities.AmbiguousMatch {
		t.Errorf("expected AmbiguousMatch, got %v", m.Kind())
	}
}

func TestResolver_RegionName(t *testing.T) {
	r := NewResolver(newTestStore())

	m := r.Resolve("How are markets in Japan doing?")
	if len(m.Symbols) != 0 {
		t.Errorf("expected no symbols, got %v", m.Symbols)
	}
	if len(m.Regions) != 1 || m.Regions[0] != "Japan" {
		t.Errorf("expected [Japan], got %v", m.Regions)
	}
}

func TestResolver_SymbolWinsOverRegion(t *testing.T) {
	r := NewResolver(newTestStore())

	m := r.Resolve("NYA performance in the united states")
	if len(m.Symbols) != 1 || m.Symbols[0] != "NYA" {
		t.Errorf("expected [NYA], got %v", m.Symbols)
	}
	if len(m.Regions) != 0 {
		t.Errorf("symbol match should skip the region pass, got regions %v", m.Regions)
	}
}

func TestResolver_ExchangeNameResolvesToRegion(t *testing.T) {
	r := NewResolver(newTestStore())

	m := r.Resolve("what trades on the nasdaq?")
	if len(m.Regions) != 1 || m.Regions[0] != "United States" {
		t.Errorf("expected [United States], got %v", m.Regions)
	}
}

func TestResolver_DottedSymbol(t *testing.T) {
	r := NewResolver(newTestStore())

	m := r.Resolve("latest close for 000001.SS please")
	if len(m.Symbols) != 1 || m.Symbols[0] != "000001.SS" {
		t.Errorf("expected [000001.SS], got %v", m.Symbols)
	}
}
