package model

import (
	"time"

	"github.com/guregu/null/v6"
)

// OHLCV represents a single daily bar. Time is the trading date at midnight UTC.
type OHLCV struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// DerivedColumn is an indicator column aligned to the series date index.
type DerivedColumn struct {
	Name   string
	Values []null.Float
}

// PriceSeries is a date-indexed OHLCV table with appended indicator columns.
// Bars are ascending by date with no duplicate dates.
type PriceSeries struct {
	Symbol  string
	Bars    []OHLCV
	Derived []DerivedColumn
}

// Len returns the number of rows.
func (s *PriceSeries) Len() int { return len(s.Bars) }

// Dates returns the date index.
func (s *PriceSeries) Dates() []time.Time {
	dates := make([]time.Time, len(s.Bars))
	for i, b := range s.Bars {
		dates[i] = b.Time
	}
	return dates
}

// Closes returns the Close column.
func (s *PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		closes[i] = b.Close
	}
	return closes
}

// Column looks up a derived column by name.
func (s *PriceSeries) Column(name string) ([]null.Float, bool) {
	for _, c := range s.Derived {
		if c.Name == name {
			return c.Values, true
		}
	}
	return nil, false
}

// WithColumn returns a copy of the series with the column appended, or
// replaced if a column of the same name already exists. The receiver is not modified.
func (s *PriceSeries) WithColumn(name string, values []null.Float) *PriceSeries {
	out := &PriceSeries{
		Symbol:  s.Symbol,
		Bars:    s.Bars,
		Derived: make([]DerivedColumn, 0, len(s.Derived)+1),
	}
	replaced := false
	for _, c := range s.Derived {
		if c.Name == name {
			out.Derived = append(out.Derived, DerivedColumn{Name: name, Values: values})
			replaced = true
			continue
		}
		out.Derived = append(out.Derived, c)
	}
	if !replaced {
		out.Derived = append(out.Derived, DerivedColumn{Name: name, Values: values})
	}
	return out
}

// Last returns the most recent bar.
func (s *PriceSeries) Last() (OHLCV, bool) {
	if len(s.Bars) == 0 {
		return OHLCV{}, false
	}
	return s.Bars[len(s.Bars)-1], true
}
