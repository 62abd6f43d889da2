package model

import (
	"encoding/json"
	"strconv"
)

// NotAvailable is shown for any metric the provider did not supply.
const NotAvailable = "N/A"

// Metadata keys consumed by the dashboard.
const (
	KeySector           = "sector"
	KeyIndustry         = "industry"
	KeyFiftyTwoWeekHigh = "fiftyTwoWeekHigh"
	KeyFiftyTwoWeekLow  = "fiftyTwoWeekLow"
	KeyVolume           = "volume"
	KeyAverageVolume    = "averageVolume"
	KeyDividendYield    = "dividendYield"
	KeyLongName         = "longName"
	KeyCurrentPrice     = "currentPrice"
	KeyMarketCap        = "marketCap"
	KeyTrailingPE       = "trailingPE"
)

// Metadata is the provider's descriptive record for a symbol. Fields vary by
// symbol and exchange, so it is kept as an open bag and read through the
// typed lookups below.
type Metadata map[string]any

// Has reports whether key is present with a non-nil value.
func (m Metadata) Has(key string) bool {
	v, ok := m[key]
	return ok && v != nil
}

// Text returns the value for key if it is a non-empty string.
func (m Metadata) Text(key string) (string, bool) {
	s, ok := m[key].(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// Float returns the value for key as float64. Numeric strings are accepted.
func (m Metadata) Float(key string) (float64, bool) {
	switch v := m[key].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// Int returns the value for key truncated to int64.
func (m Metadata) Int(key string) (int64, bool) {
	switch v := m[key].(type) {
	case int:
		return int64(v), true
	case int64:
		return v, true
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i, true
		}
	}
	f, ok := m.Float(key)
	if !ok {
		return 0, false
	}
	return int64(f), true
}
