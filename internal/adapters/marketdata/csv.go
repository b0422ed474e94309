// Package marketdata provides the market data store adapters.
// The dataset is parsed from CSV once at startup and served read-only
// for the lifetime of the process.
package marketdata

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Pahinithi/stock-market-chatbot/internal/domain/entities"
)

// Dataset is the parsed content of the two CSV sources.
// Skipped counts malformed rows dropped during the load; a malformed
// row is never fatal, a missing required column is.
type Dataset struct {
	Indices []entities.IndexInfo
	Records []entities.PriceRecord
	Skipped int
}

// dateLayouts are the formats accepted for the Date column.
var dateLayouts = []string{"2006-01-02", "1/2/2006", "01/02/2006"}

// LoadCSV parses the index metadata and price record sources.
// An unreadable file or a missing required column is a load error and
// fatal at startup; there is no partial service.
func LoadCSV(infoPath, dataPath string) (*Dataset, error) {
	ds := &Dataset{}

	if err := ds.loadInfo(infoPath); err != nil {
		return nil, fmt.Errorf("load index info: %w", err)
	}
	if err := ds.loadRecords(dataPath); err != nil {
		return nil, fmt.Errorf("load index data: %w", err)
	}
	return ds, nil
}

func (ds *Dataset) loadInfo(path string) error {
	rows, header, err := readCSV(path)
	if err != nil {
		return err
	}

	cols, err := columnIndex(header, "region", "exchange", "index", "currency")
	if err != nil {
		return err
	}

	for _, row := range rows {
		if len(row) <= cols.max {
			ds.Skipped++
			continue
		}
		symbol := strings.TrimSpace(row[cols.at("index")])
		if symbol == "" {
			ds.Skipped++
			continue
		}
		ds.Indices = append(ds.Indices, entities.IndexInfo{
			Region:   strings.TrimSpace(row[cols.at("region")]),
			Exchange: strings.TrimSpace(row[cols.at("exchange")]),
			Symbol:   symbol,
			Currency: strings.TrimSpace(row[cols.at("currency")]),
		})
	}
	return nil
}

func (ds *Dataset) loadRecords(path string) error {
	rows, header, err := readCSV(path)
	if err != nil {
		return err
	}

	cols, err := columnIndex(header, "index", "date", "open", "high", "low", "close", "adjclose", "volume")
	if err != nil {
		return err
	}
	closeUSD, hasCloseUSD := findColumn(header, "closeusd")

	for _, row := range rows {
		if len(row) <= cols.max {
			ds.Skipped++
			continue
		}

		rec, ok := parseRecord(row, cols)
		if !ok {
			ds.Skipped++
			continue
		}
		if hasCloseUSD && closeUSD < len(row) {
			if v, err := strconv.ParseFloat(strings.TrimSpace(row[closeUSD]), 64); err == nil {
				rec.CloseUSD = &v
			}
		}
		ds.Records = append(ds.Records, rec)
	}
	return nil
}

func parseRecord(row []string, cols columns) (entities.PriceRecord, bool) {
	var rec entities.PriceRecord

	rec.Symbol = strings.TrimSpace(row[cols.at("index")])
	if rec.Symbol == "" {
		return rec, false
	}

	date, ok := parseDate(strings.TrimSpace(row[cols.at("date")]))
	if !ok {
		return rec, false
	}
	rec.Date = date

	fields := []struct {
		name string
		dst  *float64
	}{
		{"open", &rec.Open},
		{"high", &rec.High},
		{"low", &rec.Low},
		{"close", &rec.Close},
		{"adjclose", &rec.AdjClose},
	}
	for _, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(row[cols.at(f.name)]), 64)
		if err != nil {
			return rec, false
		}
		*f.dst = v
	}

	// Volume comes as a float in the source data ("1201000.0").
	vol, err := strconv.ParseFloat(strings.TrimSpace(row[cols.at("volume")]), 64)
	if err != nil {
		return rec, false
	}
	rec.Volume = int64(vol)

	return rec, true
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// readCSV reads a whole CSV file and splits off the header row.
func readCSV(path string) (rows [][]string, header []string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // ragged rows are handled per row, not fatally

	all, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(all) == 0 {
		return nil, nil, fmt.Errorf("%s: empty file", path)
	}
	return all[1:], all[0], nil
}

// columns maps normalized column names to their positions.
type columns struct {
	idx map[string]int
	max int
}

func (c columns) at(name string) int { return c.idx[name] }

// columnIndex locates every required column, case-insensitively.
// "Index" and "Symbol" are accepted interchangeably for the symbol column,
// and spaces/underscores in headers are ignored ("Adj Close" == "adjclose").
func columnIndex(header []string, required ...string) (columns, error) {
	cols := columns{idx: make(map[string]int)}
	for _, name := range required {
		i, ok := findColumn(header, name)
		if !ok && name == "index" {
			i, ok = findColumn(header, "symbol")
		}
		if !ok {
			return cols, fmt.Errorf("missing required column %q", name)
		}
		cols.idx[name] = i
		if i > cols.max {
			cols.max = i
		}
	}
	return cols, nil
}

func findColumn(header []string, name string) (int, bool) {
	for i, h := range header {
		if normalizeHeader(h) == name {
			return i, true
		}
	}
	return 0, false
}

func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.ReplaceAll(h, " ", "")
	h = strings.ReplaceAll(h, "_", "")
	return h
}
