package calculator

import (
	"errors"
	"math"

	"StockInsights/internal/model"
)

// CalculateRange scans the most recent lookback bars and returns the highest
// high and lowest low. A lookback of zero or less scans every bar.
func CalculateRange(bars []model.OHLCV, lookback int) (high, low float64, err error) {
	if len(bars) == 0 {
		return 0, 0, errors.New("no bars provided")
	}
	n := len(bars)
	start := 0
	if lookback > 0 && n > lookback {
		start = n - lookback
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for i := start; i < n; i++ {
		if bars[i].High > high {
			high = bars[i].High
		}
		if bars[i].Low < low {
			low = bars[i].Low
		}
	}
	return high, low, nil
}

// SeriesRange returns the price range across several series, padded by pad
// (a fraction of the span) on both sides.
func SeriesRange(series []*model.PriceSeries, pad float64) (low, high float64, err error) {
	low, high = math.Inf(1), math.Inf(-1)
	for _, s := range series {
		h, l, err := CalculateRange(s.Bars, 0)
		if err != nil {
			continue
		}
		high = math.Max(high, h)
		low = math.Min(low, l)
	}
	if math.IsInf(low, 1) {
		return 0, 0, errors.New("no bars in any series")
	}
	span := high - low
	if span == 0 {
		span = math.Abs(high)
	}
	return low - span*pad, high + span*pad, nil
}
