package collector

import (
	"context"
	"sort"
	"time"

	"StockInsights/internal/model"
)

// Fetcher is the market-data provider boundary.
type Fetcher interface {
	// FetchHistory returns daily bars between start and end, both inclusive.
	FetchHistory(ctx context.Context, symbol string, start, end time.Time) ([]model.OHLCV, error)
	// FetchMetadata returns the provider's descriptive record for symbol.
	FetchMetadata(ctx context.Context, symbol string) (model.Metadata, error)
	Name() string
}

// TradingDate truncates t to its calendar day in loc, returned as midnight UTC.
func TradingDate(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NormalizeBars sorts bars by date, collapses duplicate dates (the later bar
// wins) and drops bars outside [start, end].
func NormalizeBars(bars []model.OHLCV, start, end time.Time) []model.OHLCV {
	from := TradingDate(start, time.UTC)
	to := TradingDate(end, time.UTC)

	sorted := make([]model.OHLCV, len(bars))
	copy(sorted, bars)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Time.Before(sorted[j].Time) })

	out := make([]model.OHLCV, 0, len(sorted))
	for _, b := range sorted {
		if b.Time.Before(from) || b.Time.After(to) {
			continue
		}
		if n := len(out); n > 0 && out[n-1].Time.Equal(b.Time) {
			out[n-1] = b
			continue
		}
		out = append(out, b)
	}
	return out
}
