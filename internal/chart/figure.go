// Package chart builds the two-panel comparison figure as a Plotly JSON
// document. Rendering happens in the browser.
package chart

import (
	"fmt"

	"github.com/guregu/null/v6"

	"StockInsights/internal/calculator"
	"StockInsights/internal/model"
)

const (
	Height          = 800
	VerticalSpacing = 0.1
	PriceRowHeight  = 0.7
	RSIRowHeight    = 0.3

	// rangePad widens the price axis by this fraction of the span.
	rangePad = 0.05
)

// maDashes styles successive moving averages of one symbol.
var maDashes = []string{"dash", "dot", "dashdot", "longdash"}

type Line struct {
	Dash string `json:"dash,omitempty"`
}

type Trace struct {
	Type  string       `json:"type"`
	Mode  string       `json:"mode"`
	Name  string       `json:"name"`
	X     []string     `json:"x"`
	Y     []null.Float `json:"y"`
	XAxis string       `json:"xaxis"`
	YAxis string       `json:"yaxis"`
	Line  *Line        `json:"line,omitempty"`
}

type Title struct {
	Text string `json:"text"`
}

type Axis struct {
	Title          *Title    `json:"title,omitempty"`
	Domain         []float64 `json:"domain,omitempty"`
	Range          []float64 `json:"range,omitempty"`
	Anchor         string    `json:"anchor,omitempty"`
	Matches        string    `json:"matches,omitempty"`
	ShowTickLabels *bool     `json:"showticklabels,omitempty"`
}

type Layout struct {
	Height int    `json:"height"`
	XAxis  Axis   `json:"xaxis"`
	XAxis2 Axis   `json:"xaxis2"`
	YAxis  Axis   `json:"yaxis"`
	YAxis2 Axis   `json:"yaxis2"`
	Legend Legend `json:"legend"`
}

type Legend struct {
	Orientation string `json:"orientation,omitempty"`
}

// Figure is a Plotly figure: data traces plus layout.
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

func dates(s *model.PriceSeries) []string {
	out := make([]string, s.Len())
	for i, b := range s.Bars {
		out[i] = b.Time.Format(model.DateLayout)
	}
	return out
}

func closes(s *model.PriceSeries) []null.Float {
	out := make([]null.Float, s.Len())
	for i, b := range s.Bars {
		out[i] = null.FloatFrom(b.Close)
	}
	return out
}

// MATraceName returns the legend name of a moving average trace.
func MATraceName(symbol string, window int) string {
	return fmt.Sprintf("%s %d-day MA", symbol, window)
}

// Build lays out every symbol on one figure: Close and one line per
// moving-average window on the price panel, RSI on the lower panel. Both
// panels share the date axis. Columns a series lacks are skipped.
func Build(series []*model.PriceSeries, windows []int) *Figure {
	fig := &Figure{Layout: layout()}
	for _, s := range series {
		x := dates(s)
		fig.Data = append(fig.Data, Trace{
			Type: "scatter", Mode: "lines",
			Name:  s.Symbol + " Close",
			X:     x,
			Y:     closes(s),
			XAxis: "x", YAxis: "y",
		})
		for i, w := range windows {
			ma, ok := s.Column(calculator.MAColumn(w))
			if !ok {
				continue
			}
			fig.Data = append(fig.Data, Trace{
				Type: "scatter", Mode: "lines",
				Name:  MATraceName(s.Symbol, w),
				X:     x,
				Y:     ma,
				XAxis: "x", YAxis: "y",
				Line:  &Line{Dash: maDashes[i%len(maDashes)]},
			})
		}
		if rsi, ok := s.Column(calculator.RSIColumn); ok {
			fig.Data = append(fig.Data, Trace{
				Type: "scatter", Mode: "lines",
				Name:  s.Symbol + " RSI",
				X:     x,
				Y:     rsi,
				XAxis: "x2", YAxis: "y2",
			})
		}
	}
	if low, high, err := calculator.SeriesRange(series, rangePad); err == nil {
		fig.Layout.YAxis.Range = []float64{low, high}
	}
	return fig
}

// layout reproduces a two-row subplot grid with a shared date axis.
func layout() Layout {
	usable := 1 - VerticalSpacing
	rsiTop := usable * RSIRowHeight
	hide := false
	return Layout{
		Height: Height,
		XAxis: Axis{
			Anchor:         "y",
			Domain:         []float64{0, 1},
			Matches:        "x2",
			ShowTickLabels: &hide,
		},
		XAxis2: Axis{
			Title:  &Title{Text: "Date"},
			Anchor: "y2",
			Domain: []float64{0, 1},
		},
		YAxis: Axis{
			Title:  &Title{Text: "Price (USD)"},
			Anchor: "x",
			Domain: []float64{rsiTop + VerticalSpacing, 1},
		},
		YAxis2: Axis{
			Title:  &Title{Text: "RSI"},
			Anchor: "x2",
			Domain: []float64{0, rsiTop},
			Range:  []float64{0, 100},
		},
	}
}

// TraceNames lists the legend names in figure order.
func (f *Figure) TraceNames() []string {
	names := make([]string, len(f.Data))
	for i, t := range f.Data {
		names[i] = t.Name
	}
	return names
}
