package collector

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockInsights/internal/model"
)

const chartAAPL = `{"chart":{"result":[{
  "meta":{"symbol":"AAPL","exchangeTimezoneName":"America/New_York"},
  "timestamp":[1704205800,1704292200,1704378600,1704465000],
  "indicators":{"quote":[{
    "open":[187.15,184.22,null,181.99],
    "high":[188.44,185.88,null,182.76],
    "low":[183.89,183.43,null,180.17],
    "close":[185.64,184.25,null,181.18],
    "volume":[82488700,58414500,null,62303300]
  }]}
}],"error":null}}`

const chartNotFound = `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`

const summaryAAPL = `{"quoteSummary":{"result":[{
  "assetProfile":{"sector":"Technology","industry":"Consumer Electronics","companyOfficers":[]},
  "summaryDetail":{
    "fiftyTwoWeekHigh":{"raw":199.62,"fmt":"199.62"},
    "fiftyTwoWeekLow":{"raw":164.08,"fmt":"164.08"},
    "volume":{"raw":62303300,"fmt":"62.3M"},
    "averageVolume":{"raw":53000000,"fmt":"53M"},
    "dividendYield":{"raw":0.0052,"fmt":"0.52%"},
    "trailingPE":{"raw":29.4,"fmt":"29.40"},
    "marketCap":{"raw":2817000000000,"fmt":"2.82T"},
    "exDividendDate":{}
  },
  "price":{"longName":"Apple Inc.","marketCap":{"raw":1,"fmt":"1"}},
  "financialData":{"currentPrice":{"raw":181.18,"fmt":"181.18"}}
}],"error":null}}`

func newYahooTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/v8/finance/chart/AAPL", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1d", r.URL.Query().Get("interval"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(chartAAPL))
	})
	mux.HandleFunc("/v8/finance/chart/BAD", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(chartNotFound))
	})
	mux.HandleFunc("/v1/test/getcrumb", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("crumb123"))
	})
	mux.HandleFunc("/v10/finance/quoteSummary/AAPL", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("crumb") != "crumb123" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(summaryAAPL))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestYahooFetcher(t *testing.T) *YahooFetcher {
	t.Helper()
	srv := newYahooTestServer(t)
	f := NewYahooFetcher(srv.URL, "", 5*time.Second)
	f.CookieURL = ""
	return f
}

func TestYahooFetcher_FetchHistory(t *testing.T) {
	f := newTestYahooFetcher(t)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)

	bars, err := f.FetchHistory(t.Context(), "AAPL", start, end)
	require.NoError(t, err)
	require.Len(t, bars, 3, "null bar must be skipped")

	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), bars[0].Time)
	assert.Equal(t, time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), bars[1].Time)
	assert.Equal(t, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), bars[2].Time)
	assert.Equal(t, 185.64, bars[0].Close)
	assert.Equal(t, 187.15, bars[0].Open)
	assert.Equal(t, 82488700.0, bars[0].Volume)
}

func TestYahooFetcher_FetchHistory_UnknownSymbol(t *testing.T) {
	f := newTestYahooFetcher(t)
	_, err := f.FetchHistory(t.Context(), "BAD", time.Now().AddDate(0, 0, -10), time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "delisted")
}

func TestYahooFetcher_FetchMetadata(t *testing.T) {
	f := newTestYahooFetcher(t)
	md, err := f.FetchMetadata(t.Context(), "AAPL")
	require.NoError(t, err)

	sector, ok := md.Text(model.KeySector)
	require.True(t, ok)
	assert.Equal(t, "Technology", sector)

	name, _ := md.Text(model.KeyLongName)
	assert.Equal(t, "Apple Inc.", name)

	dy, ok := md.Float(model.KeyDividendYield)
	require.True(t, ok)
	assert.InDelta(t, 0.0052, dy, 1e-12)

	// summaryDetail precedes price, so its market cap wins.
	mc, ok := md.Float(model.KeyMarketCap)
	require.True(t, ok)
	assert.Equal(t, 2817000000000.0, mc)

	price, ok := md.Float(model.KeyCurrentPrice)
	require.True(t, ok)
	assert.Equal(t, 181.18, price)

	assert.False(t, md.Has("exDividendDate"), "empty formatted values are skipped")
	assert.False(t, md.Has("companyOfficers"), "arrays are skipped")
}

func TestYahooFetcher_FetchMetadata_Unknown(t *testing.T) {
	f := newTestYahooFetcher(t)
	_, err := f.FetchMetadata(t.Context(), "NOPE")
	assert.Error(t, err)
}

func TestYahooFetcher_SymbolMap(t *testing.T) {
	f := NewYahooFetcher("", "", time.Second)
	assert.Equal(t, "^GSPC", f.yahooSymbol("SPX500"))
	assert.Equal(t, "AAPL", f.yahooSymbol("AAPL"))
	assert.Equal(t, "yahoo", f.Name())
}
