package model

import "time"

// DateLayout is the calendar date format used for input and export.
const DateLayout = "2006-01-02"

// Request is one user submission: symbols in display order and a date range.
type Request struct {
	Symbols []string
	Start   time.Time
	End     time.Time
}

// SymbolData pairs a fetched series with its metadata.
type SymbolData struct {
	Symbol   string
	Series   *PriceSeries
	Metadata Metadata
}

// DashboardState is the result of one request. Symbols that failed to fetch
// are absent.
type DashboardState struct {
	Request Request
	Symbols []SymbolData
}

// Lookup returns the entry for symbol.
func (d *DashboardState) Lookup(symbol string) (SymbolData, bool) {
	for _, s := range d.Symbols {
		if s.Symbol == symbol {
			return s, true
		}
	}
	return SymbolData{}, false
}

// Empty reports whether no symbol produced data.
func (d *DashboardState) Empty() bool { return len(d.Symbols) == 0 }
