package calculator

import (
	"errors"

	"github.com/guregu/null/v6"

	"StockInsights/internal/model"
)

// RSIColumn is the derived column name for the relative strength index.
const RSIColumn = "RSI"

// DefaultRSIWindow is the RSI lookback used when none is configured.
const DefaultRSIWindow = 14

// CalculateRSI returns the RSI of closes using simple trailing means of gains
// and losses (not Wilder smoothing). Row t is valid from t = period onward.
// When the average loss is zero the RSI is 100 if there was any gain and
// invalid if the price did not move at all.
func CalculateRSI(closes []float64, period int) ([]null.Float, error) {
	if period <= 0 {
		return nil, errors.New("period must be positive")
	}
	out := make([]null.Float, len(closes))
	if len(closes) < 2 {
		return out, nil
	}

	// gains[j] and losses[j] belong to row j+1; row 0 has no change.
	gains := make([]float64, len(closes)-1)
	losses := make([]float64, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			gains[i-1] = change
		} else {
			losses[i-1] = -change
		}
	}

	avgGain, err := RollingMean(gains, period)
	if err != nil {
		return nil, err
	}
	avgLoss, err := RollingMean(losses, period)
	if err != nil {
		return nil, err
	}

	for j := range gains {
		if !avgGain[j].Valid || !avgLoss[j].Valid {
			continue
		}
		g, l := avgGain[j].Float64, avgLoss[j].Float64
		switch {
		case l == 0 && g > 0:
			out[j+1] = null.FloatFrom(100)
		case l == 0:
			// flat window
		default:
			rs := g / l
			out[j+1] = null.FloatFrom(100 - 100/(1+rs))
		}
	}
	return out, nil
}

// AddRSI appends the RSI column. The input series is not modified.
func AddRSI(series *model.PriceSeries, window int) (*model.PriceSeries, error) {
	rsi, err := CalculateRSI(series.Closes(), window)
	if err != nil {
		return nil, err
	}
	return series.WithColumn(RSIColumn, rsi), nil
}
