package collector

import (
	"context"
	"errors"
	"fmt"
	"time"

	finance "github.com/piquette/finance-go"
	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/piquette/finance-go/equity"
	"github.com/shopspring/decimal"

	"StockInsights/internal/model"
)

// FinanceGoFetcher implements Fetcher on top of piquette/finance-go. The
// library has no context support, so calls are not cancellable.
type FinanceGoFetcher struct{}

func NewFinanceGoFetcher() *FinanceGoFetcher { return &FinanceGoFetcher{} }

func (f *FinanceGoFetcher) Name() string { return "financego" }

func toFloat(d decimal.Decimal) float64 {
	v, _ := d.Float64()
	return v
}

func (f *FinanceGoFetcher) FetchHistory(_ context.Context, symbol string, start, end time.Time) ([]model.OHLCV, error) {
	from := TradingDate(start, time.UTC)
	to := TradingDate(end, time.UTC).AddDate(0, 0, 1)
	iter := chart.Get(&chart.Params{
		Symbol:   symbol,
		Start:    datetime.New(&from),
		End:      datetime.New(&to),
		Interval: datetime.OneDay,
	})

	var bars []model.OHLCV
	for iter.Next() {
		b := iter.Bar()
		if b.Close.IsZero() {
			continue
		}
		bars = append(bars, convertBar(b))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("finance-go chart: %w", err)
	}
	return bars, nil
}

func convertBar(b *finance.ChartBar) model.OHLCV {
	return model.OHLCV{
		Time:   TradingDate(time.Unix(int64(b.Timestamp), 0), time.UTC),
		Open:   toFloat(b.Open),
		High:   toFloat(b.High),
		Low:    toFloat(b.Low),
		Close:  toFloat(b.Close),
		Volume: float64(b.Volume),
	}
}

// FetchMetadata maps the equity quote into the metadata bag. finance-go
// reports missing numbers as zero, so zero values are left out.
// The quote endpoint carries no sector or industry.
func (f *FinanceGoFetcher) FetchMetadata(_ context.Context, symbol string) (model.Metadata, error) {
	q, err := equity.Get(symbol)
	if err != nil {
		return nil, fmt.Errorf("finance-go equity: %w", err)
	}
	if q == nil {
		return nil, errors.New("finance-go equity: no quote returned")
	}
	return equityMetadata(q), nil
}

func equityMetadata(q *finance.Equity) model.Metadata {
	md := model.Metadata{}
	name := q.LongName
	if name == "" {
		name = q.ShortName
	}
	if name != "" {
		md[model.KeyLongName] = name
	}
	putNonZero(md, model.KeyCurrentPrice, q.RegularMarketPrice)
	putNonZero(md, model.KeyMarketCap, float64(q.MarketCap))
	putNonZero(md, model.KeyTrailingPE, q.TrailingPE)
	putNonZero(md, model.KeyFiftyTwoWeekHigh, q.FiftyTwoWeekHigh)
	putNonZero(md, model.KeyFiftyTwoWeekLow, q.FiftyTwoWeekLow)
	putNonZero(md, model.KeyVolume, float64(q.RegularMarketVolume))
	putNonZero(md, model.KeyAverageVolume, float64(q.AverageDailyVolume3Month))
	putNonZero(md, model.KeyDividendYield, q.TrailingAnnualDividendYield)
	return md
}

func putNonZero(md model.Metadata, key string, v float64) {
	if v != 0 {
		md[key] = v
	}
}
