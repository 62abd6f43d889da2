package collector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"StockInsights/internal/model"
)

const (
	DefaultYahooBaseURL   = "https://query1.finance.yahoo.com"
	DefaultYahooCookieURL = "https://fc.yahoo.com"
)

// quoteSummaryModules are requested in this order; the first module that
// carries a key wins when flattening.
var quoteSummaryModules = []string{"assetProfile", "summaryDetail", "price", "financialData"}

// YahooFetcher implements Fetcher using the Yahoo Finance public API.
type YahooFetcher struct {
	Client *resty.Client
	// CookieURL is visited before the crumb request to obtain a session
	// cookie. Empty skips the step.
	CookieURL string
	SymbolMap map[string]string // maps internal symbol to Yahoo ticker
}

// NewYahooFetcher creates a new Yahoo Finance fetcher with optional proxy support.
func NewYahooFetcher(baseURL, proxyURL string, timeout time.Duration) *YahooFetcher {
	if baseURL == "" {
		baseURL = DefaultYahooBaseURL
	}
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeaders(map[string]string{
			"Accept":     "application/json",
			"User-Agent": "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		})
	if proxyURL != "" {
		client.SetProxy(proxyURL)
	}
	return &YahooFetcher{
		Client:    client,
		CookieURL: DefaultYahooCookieURL,
		SymbolMap: map[string]string{
			"SPX500": "^GSPC",
			"SPX":    "^GSPC",
			"SP500":  "^GSPC",
		},
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

func (f *YahooFetcher) yahooSymbol(symbol string) string {
	if mapped, ok := f.SymbolMap[symbol]; ok {
		return mapped
	}
	return symbol
}

type yahooError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// yahooChart is the response structure from the chart API. Null entries
// (halted days, holidays) decode as nil pointers.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol               string `json:"symbol"`
				ExchangeTimezoneName string `json:"exchangeTimezoneName"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *yahooError `json:"error"`
	} `json:"chart"`
}

type yahooQuoteSummary struct {
	QuoteSummary struct {
		Result []map[string]map[string]json.RawMessage `json:"result"`
		Error  *yahooError                             `json:"error"`
	} `json:"quoteSummary"`
}

func at(vals []*float64, i int) (float64, bool) {
	if i >= len(vals) || vals[i] == nil {
		return 0, false
	}
	return *vals[i], true
}

// FetchHistory queries the chart API for daily bars. period2 is pushed one
// day past end so the end date is included.
func (f *YahooFetcher) FetchHistory(ctx context.Context, symbol string, start, end time.Time) ([]model.OHLCV, error) {
	var chart yahooChart
	resp, err := f.Client.R().
		SetContext(ctx).
		SetPathParam("symbol", f.yahooSymbol(symbol)).
		SetQueryParams(map[string]string{
			"period1":  strconv.FormatInt(TradingDate(start, time.UTC).Unix(), 10),
			"period2":  strconv.FormatInt(TradingDate(end, time.UTC).AddDate(0, 0, 1).Unix(), 10),
			"interval": "1d",
			"events":   "history",
		}).
		SetResult(&chart).
		SetError(&chart).
		Get("/v8/finance/chart/{symbol}")
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode(), resp.String())
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 {
		return nil, errors.New("yahoo: no data returned")
	}

	result := chart.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, errors.New("yahoo: no quote indicators returned")
	}
	loc := time.UTC
	if tz := result.Meta.ExchangeTimezoneName; tz != "" {
		if l, err := time.LoadLocation(tz); err == nil {
			loc = l
		}
	}

	quote := result.Indicators.Quote[0]
	bars := make([]model.OHLCV, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		c, ok := at(quote.Close, i)
		if !ok {
			continue // skip null bars
		}
		o, _ := at(quote.Open, i)
		h, _ := at(quote.High, i)
		l, _ := at(quote.Low, i)
		v, _ := at(quote.Volume, i)
		bars = append(bars, model.OHLCV{
			Time:   TradingDate(time.Unix(ts, 0), loc),
			Open:   o,
			High:   h,
			Low:    l,
			Close:  c,
			Volume: v,
		})
	}
	return bars, nil
}

// FetchMetadata queries quoteSummary and flattens its modules into one bag.
func (f *YahooFetcher) FetchMetadata(ctx context.Context, symbol string) (model.Metadata, error) {
	crumb, err := f.crumb(ctx)
	if err != nil {
		return nil, err
	}

	var summary yahooQuoteSummary
	resp, err := f.Client.R().
		SetContext(ctx).
		SetPathParam("symbol", f.yahooSymbol(symbol)).
		SetQueryParams(map[string]string{
			"modules": strings.Join(quoteSummaryModules, ","),
			"crumb":   crumb,
		}).
		SetResult(&summary).
		SetError(&summary).
		Get("/v10/finance/quoteSummary/{symbol}")
	if err != nil {
		return nil, fmt.Errorf("yahoo quote summary: %w", err)
	}
	if summary.QuoteSummary.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", summary.QuoteSummary.Error.Description)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("yahoo quote summary: status %d", resp.StatusCode())
	}
	if len(summary.QuoteSummary.Result) == 0 {
		return nil, errors.New("yahoo: no quote summary returned")
	}
	return flattenModules(summary.QuoteSummary.Result[0]), nil
}

func (f *YahooFetcher) crumb(ctx context.Context) (string, error) {
	if f.CookieURL != "" {
		// The response is usually a 404; only the Set-Cookie header matters.
		_, _ = f.Client.R().SetContext(ctx).Get(f.CookieURL)
	}
	resp, err := f.Client.R().
		SetContext(ctx).
		SetHeader("Accept", "text/plain").
		Get("/v1/test/getcrumb")
	if err != nil {
		return "", fmt.Errorf("yahoo crumb: %w", err)
	}
	if !resp.IsSuccess() {
		return "", fmt.Errorf("yahoo crumb: status %d", resp.StatusCode())
	}
	crumb := strings.TrimSpace(resp.String())
	if crumb == "" {
		return "", errors.New("yahoo crumb: empty response")
	}
	return crumb, nil
}

// flattenModules merges quoteSummary modules into a single bag. Formatted
// values ({"raw": 1.5, "fmt": "1.50"}) collapse to raw; empty objects and
// arrays are skipped.
func flattenModules(modules map[string]map[string]json.RawMessage) model.Metadata {
	md := model.Metadata{}
	for _, name := range quoteSummaryModules {
		fields, ok := modules[name]
		if !ok {
			continue
		}
		for key, raw := range fields {
			if md.Has(key) {
				continue
			}
			if v, ok := decodeField(raw); ok {
				md[key] = v
			}
		}
	}
	return md
}

func decodeField(raw json.RawMessage) (any, bool) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil || v == nil {
		return nil, false
	}
	switch t := v.(type) {
	case map[string]any:
		r, ok := t["raw"]
		if !ok || r == nil {
			return nil, false
		}
		return r, true
	case []any:
		return nil, false
	default:
		return t, true
	}
}
