// Package export writes price series as CSV files.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/guregu/null/v6"

	"StockInsights/internal/model"
)

var baseHeader = []string{"Date", "Open", "High", "Low", "Close", "Volume"}

// Filename returns the download name for symbol.
func Filename(symbol string) string {
	return symbol + "_stock_data.csv"
}

// Header returns the CSV header for series: the date index, the OHLCV
// columns and the derived columns in series order.
func Header(series *model.PriceSeries) []string {
	h := append([]string(nil), baseHeader...)
	for _, c := range series.Derived {
		h = append(h, c.Name)
	}
	return h
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// WriteCSV writes series to w. Invalid derived values are empty cells.
func WriteCSV(w io.Writer, series *model.PriceSeries) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header(series)); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	record := make([]string, 0, len(baseHeader)+len(series.Derived))
	for i, b := range series.Bars {
		record = append(record[:0],
			b.Time.Format(model.DateLayout),
			formatFloat(b.Open),
			formatFloat(b.High),
			formatFloat(b.Low),
			formatFloat(b.Close),
			formatFloat(b.Volume),
		)
		for _, c := range series.Derived {
			cell := ""
			if i < len(c.Values) && c.Values[i].Valid {
				cell = formatFloat(c.Values[i].Float64)
			}
			record = append(record, cell)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ParseCSV reads a file produced by WriteCSV back into a series.
func ParseCSV(r io.Reader, symbol string) (*model.PriceSeries, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) < len(baseHeader) {
		return nil, errors.New("header is missing price columns")
	}
	for i, name := range baseHeader {
		if header[i] != name {
			return nil, fmt.Errorf("column %d: expected %q, got %q", i, name, header[i])
		}
	}

	series := &model.PriceSeries{Symbol: symbol}
	for _, name := range header[len(baseHeader):] {
		series.Derived = append(series.Derived, model.DerivedColumn{Name: name})
	}

	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		date, err := time.Parse(model.DateLayout, rec[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		var vals [5]float64
		for i := range vals {
			if vals[i], err = strconv.ParseFloat(rec[i+1], 64); err != nil {
				return nil, fmt.Errorf("line %d %s: %w", line, baseHeader[i+1], err)
			}
		}
		series.Bars = append(series.Bars, model.OHLCV{
			Time: date, Open: vals[0], High: vals[1], Low: vals[2], Close: vals[3], Volume: vals[4],
		})
		for j := range series.Derived {
			cell := rec[len(baseHeader)+j]
			if cell == "" {
				series.Derived[j].Values = append(series.Derived[j].Values, null.Float{})
				continue
			}
			f, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d %s: %w", line, series.Derived[j].Name, err)
			}
			series.Derived[j].Values = append(series.Derived[j].Values, null.FloatFrom(f))
		}
	}
	return series, nil
}
