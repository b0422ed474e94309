// Package usecases contains application business rules.
// Usecases orchestrate entities and depend on port interfaces only.
package usecases

import (
	"sort"
	"strings"

	"github.com/Pahinithi/stock-market-chatbot/internal/domain/entities"
	"github.com/Pahinithi/stock-market-chatbot/internal/domain/ports"
)

// Resolver maps free-text queries to known index symbols and regions.
// The vocabulary is built once from the store; only symbols present in
// the index metadata take part in resolution.
type Resolver struct {
	symbols map[string]string // uppercased token -> canonical symbol
	names   []vocabName       // region and exchange names, longest first
}

// vocabName is one region or exchange name that resolves to a region.
type vocabName struct {
	lower  string // lowercased name matched against the query
	region string // canonical region it belongs to
}

// NewResolver builds a resolver over the store's known vocabulary.
func NewResolver(store ports.MarketStore) *Resolver {
	r := &Resolver{symbols: make(map[string]string)}

	seen := make(map[string]bool)
	for _, info := range store.ListIndices("") {
		r.symbols[strings.ToUpper(info.Symbol)] = info.Symbol

		// Exchange names resolve to their region, so a mention of either
		// grounds the query in that region's indices.
		for _, name := range []string{info.Region, info.Exchange} {
			key := strings.ToLower(strings.TrimSpace(name))
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			r.names = append(r.names, vocabName{lower: key, region: info.Region})
		}
	}

	// Longer names first so "New York Stock Exchange" wins over "New York".
	sort.Slice(r.names, func(i, j int) bool {
		return len(r.names[i].lower) > len(r.names[j].lower)
	})
	return r
}

// Resolve runs the two-phase match: a symbol-token pass first, then a
// region/exchange-name pass. A symbol mention anywhere in the text takes
// precedence over region names. Multiple distinct symbols mark the match
// ambiguous; all of them are returned for downstream components to handle.
// No match at all yields an empty Match, which is not an error.
func (r *Resolver) Resolve(query string) entities.Match {
	// 1. Symbol pass: whole-token, case-insensitive.
	var symbols []string
	seen := make(map[string]bool)
	for _, token := range tokenize(query) {
		if canonical, ok := r.symbols[token]; ok && !seen[canonical] {
			seen[canonical] = true
			symbols = append(symbols, canonical)
		}
	}
	if len(symbols) > 0 {
		sort.Strings(symbols)
		return entities.Match{Symbols: symbols, Ambiguous: len(symbols) > 1}
	}

	// 2. Region pass: case-insensitive substring.
	lower := strings.ToLower(query)
	var regions []string
	seenRegion := make(map[string]bool)
	for _, name := range r.names {
		if strings.Contains(lower, name.lower) && !seenRegion[name.region] {
			seenRegion[name.region] = true
			regions = append(regions, name.region)
		}
	}
	sort.Strings(regions)
	return entities.Match{Regions: regions}
}

// tokenize splits a query into uppercased tokens. Dots and carets stay
// inside tokens so symbols like 000001.SS and ^NYA survive splitting.
func tokenize(query string) []string {
	fields := strings.FieldsFunc(query, func(r rune) bool {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			return false
		case r >= '0' && r <= '9':
			return false
		case r == '.', r == '^':
			return false
		}
		return true
	})

	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, ".^")
		if f != "" {
			tokens = append(tokens, strings.ToUpper(f))
		}
	}
	return tokens
}
