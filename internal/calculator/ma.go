package calculator

import (
	"errors"
	"fmt"

	"github.com/guregu/null/v6"
	"gonum.org/v1/gonum/stat"

	"StockInsights/internal/model"
)

// DefaultMAWindows are the moving-average windows used when none are configured.
var DefaultMAWindows = []int{50, 200}

// MAColumn returns the derived column name for a moving-average window.
func MAColumn(window int) string {
	return fmt.Sprintf("MA%d", window)
}

// CalculateSMA computes the simple moving average of the last period prices.
func CalculateSMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(prices) < period {
		return 0, errors.New("not enough data for SMA calculation")
	}
	return stat.Mean(prices[len(prices)-period:], nil), nil
}

// RollingMean returns the trailing mean of values over window, inclusive of
// the current element. The first window-1 entries are invalid.
func RollingMean(values []float64, window int) ([]null.Float, error) {
	if window <= 0 {
		return nil, fmt.Errorf("window %d must be positive", window)
	}
	out := make([]null.Float, len(values))
	for i := window - 1; i < len(values); i++ {
		mean, err := CalculateSMA(values[:i+1], window)
		if err != nil {
			return nil, err
		}
		out[i] = null.FloatFrom(mean)
	}
	return out, nil
}

// AddMovingAverages appends an MA{w} column of Close for every window, in
// the given order. The input series is not modified.
func AddMovingAverages(series *model.PriceSeries, windows []int) (*model.PriceSeries, error) {
	closes := series.Closes()
	out := series
	for _, w := range windows {
		ma, err := RollingMean(closes, w)
		if err != nil {
			return nil, fmt.Errorf("moving average %d: %w", w, err)
		}
		out = out.WithColumn(MAColumn(w), ma)
	}
	return out, nil
}
