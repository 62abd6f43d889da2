package collector

import (
	"context"
	"fmt"
	"math"
	"time"

	"StockInsights/internal/model"
)

// MockFetcher returns deterministic data for development and testing.
// Symbols listed in Fail return an error.
type MockFetcher struct {
	Price    float64
	Bars     map[string][]model.OHLCV
	Metadata map[string]model.Metadata
	Fail     map[string]bool
}

// NewMockFetcher creates a MockFetcher that synthesizes bars around price.
func NewMockFetcher(price float64) *MockFetcher {
	return &MockFetcher{Price: price}
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchHistory(_ context.Context, symbol string, start, end time.Time) ([]model.OHLCV, error) {
	if m.Fail[symbol] {
		return nil, fmt.Errorf("mock: unknown symbol %s", symbol)
	}
	if bars, ok := m.Bars[symbol]; ok {
		return bars, nil
	}
	return generateMockBars(m.basePrice(symbol), start, end), nil
}

func (m *MockFetcher) FetchMetadata(_ context.Context, symbol string) (model.Metadata, error) {
	if m.Fail[symbol] {
		return nil, fmt.Errorf("mock: unknown symbol %s", symbol)
	}
	if md, ok := m.Metadata[symbol]; ok {
		return md, nil
	}
	price := m.basePrice(symbol)
	return model.Metadata{
		model.KeyLongName:         symbol + " Mock Corp.",
		model.KeySector:           "Technology",
		model.KeyIndustry:         "Software",
		model.KeyCurrentPrice:     price,
		model.KeyMarketCap:        price * 1e9,
		model.KeyTrailingPE:       21.5,
		model.KeyFiftyTwoWeekHigh: price * 1.2,
		model.KeyFiftyTwoWeekLow:  price * 0.8,
		model.KeyVolume:           int64(1_250_000),
		model.KeyAverageVolume:    int64(1_100_000),
		model.KeyDividendYield:    0.0123,
	}, nil
}

// basePrice spreads symbols apart so overlaid mock lines are distinguishable.
func (m *MockFetcher) basePrice(symbol string) float64 {
	p := m.Price
	if p <= 0 {
		p = 100
	}
	var h int
	for _, r := range symbol {
		h = h*31 + int(r)
	}
	return p * (1 + float64(h%50)/100)
}

// generateMockBars emits one bar per weekday between start and end.
func generateMockBars(basePrice float64, start, end time.Time) []model.OHLCV {
	var bars []model.OHLCV
	day := TradingDate(start, time.UTC)
	last := TradingDate(end, time.UTC)
	for i := 0; !day.After(last); day = day.AddDate(0, 0, 1) {
		if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		p := basePrice * (1 + 0.05*math.Sin(float64(i)/10) + float64(i)*0.0005)
		bars = append(bars, model.OHLCV{
			Time:   day,
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		})
		i++
	}
	return bars
}
