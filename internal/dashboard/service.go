// Package dashboard runs the fetch, indicator and aggregation pipeline for
// one request and shapes the result for display.
package dashboard

//go:generate mockgen -source=service.go -destination=mock_source_test.go -package=dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"StockInsights/internal/calculator"
	"StockInsights/internal/model"
)

var (
	ErrInvalidDateRange = errors.New("start date must be before end date")
	ErrNoData           = errors.New("unable to fetch stock data, check the stock symbols and try again")
	ErrMalformedDate    = errors.New("malformed date")
)

// Source fetches one symbol. A nil series means the symbol is unavailable.
type Source interface {
	Fetch(ctx context.Context, symbol string, start, end time.Time) (*model.PriceSeries, model.Metadata)
}

// Service builds dashboard states. It holds no per-request state and is
// safe for concurrent use.
type Service struct {
	Source    Source
	MAWindows []int
	RSIWindow int
}

// NewService creates a Service. Zero values select the default indicator windows.
func NewService(src Source, maWindows []int, rsiWindow int) *Service {
	if len(maWindows) == 0 {
		maWindows = calculator.DefaultMAWindows
	}
	if rsiWindow <= 0 {
		rsiWindow = calculator.DefaultRSIWindow
	}
	return &Service{Source: src, MAWindows: maWindows, RSIWindow: rsiWindow}
}

// Build fetches every requested symbol in order, appends the indicator
// columns and collects the survivors. A bad range fails before any fetch.
func (s *Service) Build(ctx context.Context, req model.Request) (*model.DashboardState, error) {
	if !req.Start.Before(req.End) {
		return nil, fmt.Errorf("%s to %s: %w",
			req.Start.Format(model.DateLayout), req.End.Format(model.DateLayout), ErrInvalidDateRange)
	}

	state := &model.DashboardState{Request: req}
	for _, symbol := range req.Symbols {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		series, md := s.Source.Fetch(ctx, symbol, req.Start, req.End)
		if series == nil {
			continue
		}
		series, err := s.enrich(series)
		if err != nil {
			return nil, fmt.Errorf("indicators for %s: %w", symbol, err)
		}
		state.Symbols = append(state.Symbols, model.SymbolData{
			Symbol:   symbol,
			Series:   series,
			Metadata: md,
		})
	}

	if state.Empty() {
		return nil, ErrNoData
	}
	log.Info().
		Int("requested", len(req.Symbols)).
		Int("loaded", len(state.Symbols)).
		Msg("dashboard built")
	return state, nil
}

// Series builds the indicator-enriched series for a single symbol.
func (s *Service) Series(ctx context.Context, symbol string, start, end time.Time) (*model.PriceSeries, error) {
	state, err := s.Build(ctx, model.Request{Symbols: []string{symbol}, Start: start, End: end})
	if err != nil {
		return nil, err
	}
	return state.Symbols[0].Series, nil
}

func (s *Service) enrich(series *model.PriceSeries) (*model.PriceSeries, error) {
	series, err := calculator.AddMovingAverages(series, s.MAWindows)
	if err != nil {
		return nil, err
	}
	return calculator.AddRSI(series, s.RSIWindow)
}

// ParseSymbols splits a comma-separated list. Entries are trimmed and
// upper-cased; empties and repeats are dropped, first occurrence wins.
func ParseSymbols(input string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, part := range strings.Split(input, ",") {
		sym := strings.ToUpper(strings.TrimSpace(part))
		if sym == "" || seen[sym] {
			continue
		}
		seen[sym] = true
		out = append(out, sym)
	}
	return out
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(model.DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q, expected YYYY-MM-DD", ErrMalformedDate, s)
	}
	return t, nil
}

// DefaultRange returns the trailing window of days ending on today's date.
func DefaultRange(now time.Time, days int) (start, end time.Time) {
	y, m, d := now.Date()
	end = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return end.AddDate(0, 0, -days), end
}
