package collector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"StockInsights/internal/model"
)

var (
	ErrEmptyHistory  = errors.New("provider returned no price rows")
	ErrEmptyMetadata = errors.New("provider returned no metadata")
)

// Collector turns provider calls into an all-or-nothing result per symbol.
type Collector struct {
	Fetcher Fetcher
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher) *Collector {
	return &Collector{Fetcher: fetcher}
}

// Fetch retrieves the price series and metadata for symbol. Any provider
// failure yields (nil, nil) and a logged diagnostic; price data without
// metadata, or the reverse, counts as a failure.
func (c *Collector) Fetch(ctx context.Context, symbol string, start, end time.Time) (*model.PriceSeries, model.Metadata) {
	series, md, err := c.fetch(ctx, symbol, start, end)
	if err != nil {
		log.Warn().
			Str("symbol", symbol).
			Str("source", c.Fetcher.Name()).
			Err(err).
			Msg("error fetching data, dropping symbol")
		return nil, nil
	}
	return series, md
}

func (c *Collector) fetch(ctx context.Context, symbol string, start, end time.Time) (*model.PriceSeries, model.Metadata, error) {
	bars, err := c.Fetcher.FetchHistory(ctx, symbol, start, end)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch history: %w", err)
	}
	bars = NormalizeBars(bars, start, end)
	if len(bars) == 0 {
		return nil, nil, ErrEmptyHistory
	}

	md, err := c.Fetcher.FetchMetadata(ctx, symbol)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch metadata: %w", err)
	}
	if len(md) == 0 {
		return nil, nil, ErrEmptyMetadata
	}

	log.Debug().Str("symbol", symbol).Int("rows", len(bars)).Msg("fetched price history")
	return &model.PriceSeries{Symbol: symbol, Bars: bars}, md, nil
}
