package dashboard

import (
	"net/url"
	"strings"

	"StockInsights/internal/chart"
	"StockInsights/internal/export"
	"StockInsights/internal/model"
	"StockInsights/internal/projector"
)

const (
	AppTitle   = "Stock Data Visualization App"
	DataCredit = "Data provided by Yahoo Finance"
)

// InfoTable is the per-symbol metric table.
type InfoTable struct {
	Symbol string              `json:"symbol"`
	Rows   []projector.InfoRow `json:"rows"`
}

// Download describes one CSV export link.
type Download struct {
	Symbol   string `json:"symbol"`
	Label    string `json:"label"`
	Filename string `json:"filename"`
	URL      string `json:"url"`
}

// View is everything the page shows for one dashboard state.
type View struct {
	Title     string              `json:"title"`
	Symbols   []string            `json:"symbols"`
	Start     string              `json:"start"`
	End       string              `json:"end"`
	Cards     []projector.Summary `json:"cards"`
	Figure    *chart.Figure       `json:"figure"`
	Tables    []InfoTable         `json:"tables"`
	Downloads []Download          `json:"downloads"`
}

// Render shapes state for display: one card, info table and download per
// symbol plus the combined figure.
func (s *Service) Render(state *model.DashboardState) *View {
	v := &View{
		Title: AppTitle,
		Start: state.Request.Start.Format(model.DateLayout),
		End:   state.Request.End.Format(model.DateLayout),
	}
	series := make([]*model.PriceSeries, 0, len(state.Symbols))
	for _, sd := range state.Symbols {
		v.Symbols = append(v.Symbols, sd.Symbol)
		series = append(series, sd.Series)
		v.Cards = append(v.Cards, projector.Summarize(sd.Symbol, sd.Metadata))
		v.Tables = append(v.Tables, InfoTable{Symbol: sd.Symbol, Rows: projector.Project(sd.Metadata)})
		v.Downloads = append(v.Downloads, Download{
			Symbol:   sd.Symbol,
			Label:    "Download " + sd.Symbol + " CSV",
			Filename: export.Filename(sd.Symbol),
			URL:      ExportURL(sd.Symbol, v.Start, v.End),
		})
	}
	v.Figure = chart.Build(series, s.MAWindows)
	return v
}

// ExportURL is the CSV download path for symbol over the range.
func ExportURL(symbol, start, end string) string {
	q := url.Values{}
	q.Set("start", start)
	q.Set("end", end)
	return "/api/export/" + url.PathEscape(symbol) + "?" + q.Encode()
}

// SymbolList joins symbols for the input box.
func SymbolList(symbols []string) string {
	return strings.Join(symbols, ", ")
}
