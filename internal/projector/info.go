// Package projector turns the provider's metadata bag into display-ready
// labeled metrics.
package projector

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"

	"StockInsights/internal/model"
)

// InfoRow is one labeled metric in a symbol's info table.
type InfoRow struct {
	Metric string `json:"metric"`
	Value  string `json:"value"`
}

// Metric labels, in display order.
const (
	LabelSector        = "Sector"
	LabelIndustry      = "Industry"
	LabelHigh52        = "52 Week High"
	LabelLow52         = "52 Week Low"
	LabelVolume        = "Volume"
	LabelAvgVolume     = "Avg Volume"
	LabelDividendYield = "Dividend Yield"

	LabelCurrentPrice = "Current Price"
	LabelMarketCap    = "Market Cap"
	LabelPERatio      = "P/E Ratio"
)

// Project returns the fixed seven-row info table for md. Missing or
// unusable values render as model.NotAvailable.
func Project(md model.Metadata) []InfoRow {
	return []InfoRow{
		{LabelSector, text(md, model.KeySector)},
		{LabelIndustry, text(md, model.KeyIndustry)},
		{LabelHigh52, dollars(md, model.KeyFiftyTwoWeekHigh)},
		{LabelLow52, dollars(md, model.KeyFiftyTwoWeekLow)},
		{LabelVolume, count(md, model.KeyVolume)},
		{LabelAvgVolume, count(md, model.KeyAverageVolume)},
		{LabelDividendYield, percent(md, model.KeyDividendYield)},
	}
}

// Summary is the comparison card shown for each symbol.
type Summary struct {
	Symbol       string `json:"symbol"`
	Title        string `json:"title"`
	CurrentPrice string `json:"current_price"`
	MarketCap    string `json:"market_cap"`
	PERatio      string `json:"pe_ratio"`
}

// Summarize builds the comparison card for symbol.
func Summarize(symbol string, md model.Metadata) Summary {
	title := symbol
	if name, ok := md.Text(model.KeyLongName); ok {
		title = fmt.Sprintf("%s (%s)", name, symbol)
	}
	return Summary{
		Symbol:       symbol,
		Title:        title,
		CurrentPrice: dollars(md, model.KeyCurrentPrice),
		MarketCap:    wholeDollars(md, model.KeyMarketCap),
		PERatio:      decimal2(md, model.KeyTrailingPE),
	}
}

// Rows returns the summary's metrics as labeled rows.
func (s Summary) Rows() []InfoRow {
	return []InfoRow{
		{LabelCurrentPrice, s.CurrentPrice},
		{LabelMarketCap, s.MarketCap},
		{LabelPERatio, s.PERatio},
	}
}

func text(md model.Metadata, key string) string {
	if s, ok := md.Text(key); ok {
		return s
	}
	if md.Has(key) {
		return fmt.Sprint(md[key])
	}
	return model.NotAvailable
}

// number reads a finite numeric value. A present but unusable value is
// logged before falling back.
func number(md model.Metadata, key string) (float64, bool) {
	if !md.Has(key) {
		return 0, false
	}
	v, ok := md.Float(key)
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		log.Debug().Str("key", key).Interface("value", md[key]).Msg("metadata value is not numeric")
		return 0, false
	}
	return v, true
}

func dollars(md model.Metadata, key string) string {
	v, ok := number(md, key)
	if !ok {
		return model.NotAvailable
	}
	return fmt.Sprintf("$%.2f", v)
}

func wholeDollars(md model.Metadata, key string) string {
	v, ok := number(md, key)
	if !ok {
		return model.NotAvailable
	}
	return "$" + humanize.Comma(int64(math.Round(v)))
}

func count(md model.Metadata, key string) string {
	v, ok := number(md, key)
	if !ok {
		return model.NotAvailable
	}
	return humanize.Comma(int64(math.Round(v)))
}

func decimal2(md model.Metadata, key string) string {
	v, ok := number(md, key)
	if !ok {
		return model.NotAvailable
	}
	return fmt.Sprintf("%.2f", v)
}

// percent renders a fraction as a percentage. Zero is treated as missing,
// providers report it for non-paying stocks.
func percent(md model.Metadata, key string) string {
	v, ok := number(md, key)
	if !ok || v == 0 {
		return model.NotAvailable
	}
	return fmt.Sprintf("%.2f%%", v*100)
}
