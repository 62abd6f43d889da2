package calculator

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockInsights/internal/model"
)

func seriesFromCloses(closes ...float64) *model.PriceSeries {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]model.OHLCV, len(closes))
	for i, c := range closes {
		bars[i] = model.OHLCV{
			Time:   start.AddDate(0, 0, i),
			Open:   c - 0.5,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: 1000,
		}
	}
	return &model.PriceSeries{Symbol: "TEST", Bars: bars}
}

func TestCalculateSMA(t *testing.T) {
	got, err := CalculateSMA([]float64{1, 2, 3, 4, 5}, 3)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, got, 1e-12)

	_, err = CalculateSMA([]float64{1, 2}, 3)
	assert.Error(t, err)

	_, err = CalculateSMA([]float64{1, 2}, 0)
	assert.Error(t, err)
}

func TestAddMovingAverages_LeadingRowsInvalid(t *testing.T) {
	closes := []float64{10, 11, 12, 13, 14, 15, 16, 17, 18, 19}
	s := seriesFromCloses(closes...)

	out, err := AddMovingAverages(s, []int{3, 5})
	require.NoError(t, err)

	for _, w := range []int{3, 5} {
		col, ok := out.Column(MAColumn(w))
		require.Truef(t, ok, "missing column MA%d", w)
		require.Len(t, col, len(closes))
		for i, v := range col {
			if i < w-1 {
				assert.Falsef(t, v.Valid, "MA%d[%d] should be undefined", w, i)
				continue
			}
			sum := 0.0
			for _, c := range closes[i-w+1 : i+1] {
				sum += c
			}
			require.Truef(t, v.Valid, "MA%d[%d] should be defined", w, i)
			assert.InDeltaf(t, sum/float64(w), v.Float64, 1e-9, "MA%d[%d]", w, i)
		}
	}
}

func TestAddMovingAverages_ColumnOrderAndImmutability(t *testing.T) {
	s := seriesFromCloses(1, 2, 3, 4)
	out, err := AddMovingAverages(s, []int{2, 3})
	require.NoError(t, err)

	require.Len(t, out.Derived, 2)
	assert.Equal(t, "MA2", out.Derived[0].Name)
	assert.Equal(t, "MA3", out.Derived[1].Name)
	assert.Empty(t, s.Derived, "input series must not gain columns")
	assert.Equal(t, s.Bars, out.Bars, "OHLCV must be unchanged")
}

func TestAddMovingAverages_WindowLongerThanSeries(t *testing.T) {
	s := seriesFromCloses(1, 2, 3)
	out, err := AddMovingAverages(s, DefaultMAWindows)
	require.NoError(t, err)
	for _, w := range DefaultMAWindows {
		col, _ := out.Column(MAColumn(w))
		for _, v := range col {
			assert.False(t, v.Valid)
		}
	}
}

func TestAddMovingAverages_RejectsBadWindow(t *testing.T) {
	_, err := AddMovingAverages(seriesFromCloses(1, 2, 3), []int{0})
	assert.Error(t, err)
}

func TestCalculateRSI_KnownValues(t *testing.T) {
	// changes: +1, -1, +2, -1 ; window 2
	closes := []float64{10, 11, 10, 12, 11}
	rsi, err := CalculateRSI(closes, 2)
	require.NoError(t, err)
	require.Len(t, rsi, 5)

	assert.False(t, rsi[0].Valid)
	assert.False(t, rsi[1].Valid)

	// row 2: gains (1,0) losses (0,1) -> rs 1 -> 50
	require.True(t, rsi[2].Valid)
	assert.InDelta(t, 50.0, rsi[2].Float64, 1e-9)

	// row 3: gains (0,2) losses (1,0) -> avg 1 / 0.5 -> rs 2 -> 66.67
	require.True(t, rsi[3].Valid)
	assert.InDelta(t, 100-100/3.0, rsi[3].Float64, 1e-9)

	// row 4: gains (2,0) losses (0,1) -> avg 1 / 0.5 -> rs 2
	require.True(t, rsi[4].Valid)
	assert.InDelta(t, 100-100/3.0, rsi[4].Float64, 1e-9)
}

func TestCalculateRSI_AllGainsIs100(t *testing.T) {
	rsi, err := CalculateRSI([]float64{1, 2, 3, 4, 5, 6}, 3)
	require.NoError(t, err)
	for i, v := range rsi {
		if i < 3 {
			assert.False(t, v.Valid)
			continue
		}
		require.True(t, v.Valid)
		assert.Equal(t, 100.0, v.Float64)
	}
}

func TestCalculateRSI_FlatPriceUndefined(t *testing.T) {
	rsi, err := CalculateRSI([]float64{5, 5, 5, 5, 5}, 2)
	require.NoError(t, err)
	for _, v := range rsi {
		assert.False(t, v.Valid)
	}
}

func TestCalculateRSI_AllLossesIsZero(t *testing.T) {
	rsi, err := CalculateRSI([]float64{9, 8, 7, 6}, 2)
	require.NoError(t, err)
	require.True(t, rsi[3].Valid)
	assert.Equal(t, 0.0, rsi[3].Float64)
}

func TestAddRSI_BoundedOnNoisySeries(t *testing.T) {
	closes := make([]float64, 120)
	for i := range closes {
		closes[i] = 100 + 10*math.Sin(float64(i)/3) + float64(i%7)
	}
	out, err := AddRSI(seriesFromCloses(closes...), DefaultRSIWindow)
	require.NoError(t, err)

	rsi, ok := out.Column(RSIColumn)
	require.True(t, ok)
	for i, v := range rsi {
		if i < DefaultRSIWindow {
			assert.Falsef(t, v.Valid, "RSI[%d] should be undefined", i)
			continue
		}
		if !v.Valid {
			continue
		}
		assert.GreaterOrEqual(t, v.Float64, 0.0)
		assert.LessOrEqual(t, v.Float64, 100.0)
	}
}

func TestAddRSI_ShortSeries(t *testing.T) {
	out, err := AddRSI(seriesFromCloses(42), 14)
	require.NoError(t, err)
	rsi, _ := out.Column(RSIColumn)
	require.Len(t, rsi, 1)
	assert.False(t, rsi[0].Valid)
}

func TestCalculateRange(t *testing.T) {
	s := seriesFromCloses(10, 20, 15)
	high, low, err := CalculateRange(s.Bars, 0)
	require.NoError(t, err)
	assert.Equal(t, 21.0, high)
	assert.Equal(t, 9.0, low)

	high, low, err = CalculateRange(s.Bars, 1)
	require.NoError(t, err)
	assert.Equal(t, 16.0, high)
	assert.Equal(t, 14.0, low)

	_, _, err = CalculateRange(nil, 0)
	assert.Error(t, err)
}

func TestSeriesRange(t *testing.T) {
	a := seriesFromCloses(10, 20)
	b := seriesFromCloses(50)
	low, high, err := SeriesRange([]*model.PriceSeries{a, b}, 0.1)
	require.NoError(t, err)
	// raw range 9..51, span 42
	assert.InDelta(t, 9-4.2, low, 1e-9)
	assert.InDelta(t, 51+4.2, high, 1e-9)

	_, _, err = SeriesRange(nil, 0.1)
	assert.Error(t, err)
}
