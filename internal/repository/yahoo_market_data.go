package repository

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"FinSignal/internal/domain/models"
	domrepo "FinSignal/internal/domain/repository"
	applogger "FinSignal/pkg/logger"
	pkghttp "FinSignal/pkg/http"
)

const DefaultYahooBaseURL = "https://query1.finance.yahoo.com"

// YahooMarketData implements MarketData over the Yahoo Finance chart API.
type YahooMarketData struct {
	client  *pkghttp.Client
	baseURL string
	l       *applogger.Logger
}

func NewYahooMarketData(client *pkghttp.Client, baseURL string) *YahooMarketData {
	if baseURL == "" {
		baseURL = DefaultYahooBaseURL
	}
	return &YahooMarketData{client: client, baseURL: strings.TrimRight(baseURL, "/")}
}

// SetLogger injects a structured logger.
func (y *YahooMarketData) SetLogger(l *applogger.Logger) { y.l = l }

type yahooChart struct {
	Chart struct {
		Result []yahooResult `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

type yahooResult struct {
	Meta       yahooMeta `json:"meta"`
	Timestamp  []int64   `json:"timestamp"`
	Indicators struct {
		Quote []yahooQuote `json:"quote"`
	} `json:"indicators"`
}

type yahooMeta struct {
	Symbol             string  `json:"symbol"`
	Currency           string  `json:"currency"`
	ExchangeName       string  `json:"exchangeName"`
	FullExchangeName   string  `json:"fullExchangeName"`
	LongName           string  `json:"longName"`
	ShortName          string  `json:"shortName"`
	RegularMarketPrice float64 `json:"regularMarketPrice"`
	ChartPreviousClose float64 `json:"chartPreviousClose"`
	PreviousClose      float64 `json:"previousClose"`
	RegularMarketVol   float64 `json:"regularMarketVolume"`
	FiftyTwoWeekHigh   float64 `json:"fiftyTwoWeekHigh"`
	FiftyTwoWeekLow    float64 `json:"fiftyTwoWeekLow"`
}

// Quote arrays carry JSON null for non-trading slots.
type yahooQuote struct {
	Open   []*float64 `json:"open"`
	High   []*float64 `json:"high"`
	Low    []*float64 `json:"low"`
	Close  []*float64 `json:"close"`
	Volume []*float64 `json:"volume"`
}

func (y *YahooMarketData) GetHistoricalBars(ctx context.Context, symbol string, period domrepo.Period, interval domrepo.Interval) ([]models.Bar, error) {
	start := time.Now()
	res, err := y.fetchChart(ctx, symbol, string(period), string(interval))
	if err != nil {
		if y.l != nil {
			y.l.Error("yahoo chart fetch error",
				applogger.String("symbol", symbol),
				applogger.String("period", string(period)),
				applogger.String("interval", string(interval)),
				applogger.Error(err),
			)
		}
		return nil, err
	}

	bars := res.bars()
	if len(bars) == 0 {
		return nil, fmt.Errorf("yahoo %s: no bars: %w", symbol, models.ErrDataUnavailable)
	}
	if y.l != nil {
		y.l.Debug("yahoo chart fetch ok",
			applogger.String("symbol", symbol),
			applogger.Int("bars", len(bars)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return bars, nil
}

func (y *YahooMarketData) GetSymbolInfo(ctx context.Context, symbol string) (models.SymbolInfo, error) {
	res, err := y.fetchChart(ctx, symbol, "5d", "1d")
	if err != nil {
		return models.SymbolInfo{}, err
	}
	return res.Meta.info(symbol), nil
}

func (y *YahooMarketData) fetchChart(ctx context.Context, symbol, rng, interval string) (*yahooResult, error) {
	var chart yahooChart
	err := y.client.SendAndParse(ctx, &pkghttp.RequestOptions{
		URL: fmt.Sprintf("%s/v8/finance/chart/%s", y.baseURL, url.PathEscape(symbol)),
		QueryParams: map[string][]string{
			"range":    {rng},
			"interval": {interval},
		},
	}, &chart)
	if err != nil {
		return nil, fmt.Errorf("yahoo %s: %v: %w", symbol, err, models.ErrDataUnavailable)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo %s: %s: %w", symbol, chart.Chart.Error.Description, models.ErrDataUnavailable)
	}
	if len(chart.Chart.Result) == 0 {
		return nil, fmt.Errorf("yahoo %s: empty result: %w", symbol, models.ErrDataUnavailable)
	}
	return &chart.Chart.Result[0], nil
}

// bars drops slots where any price is null and returns ascending bars.
func (r *yahooResult) bars() []models.Bar {
	if len(r.Indicators.Quote) == 0 {
		return nil
	}
	q := r.Indicators.Quote[0]
	out := make([]models.Bar, 0, len(r.Timestamp))
	var last time.Time
	for i, ts := range r.Timestamp {
		o, okO := at(q.Open, i)
		h, okH := at(q.High, i)
		l, okL := at(q.Low, i)
		c, okC := at(q.Close, i)
		if !okO || !okH || !okL || !okC {
			continue
		}
		v, _ := at(q.Volume, i)
		t := time.Unix(ts, 0).UTC()
		if !t.After(last) && len(out) > 0 {
			continue
		}
		last = t
		out = append(out, models.Bar{Time: t, Open: o, High: h, Low: l, Close: c, Volume: v})
	}
	return out
}

func at(xs []*float64, i int) (float64, bool) {
	if i >= len(xs) || xs[i] == nil {
		return 0, false
	}
	return *xs[i], true
}

func (m yahooMeta) info(symbol string) models.SymbolInfo {
	info := models.PlaceholderSymbolInfo(symbol)
	if m.Symbol != "" {
		info.Symbol = m.Symbol
	}
	switch {
	case m.LongName != "":
		info.Name = m.LongName
	case m.ShortName != "":
		info.Name = m.ShortName
	}
	if m.Currency != "" {
		info.Currency = m.Currency
	}
	switch {
	case m.FullExchangeName != "":
		info.Exchange = m.FullExchangeName
	case m.ExchangeName != "":
		info.Exchange = m.ExchangeName
	}
	info.CurrentPrice = m.RegularMarketPrice
	info.Volume = m.RegularMarketVol
	info.FiftyTwoWeekHigh = m.FiftyTwoWeekHigh
	info.FiftyTwoWeekLow = m.FiftyTwoWeekLow

	prev := m.PreviousClose
	if prev == 0 {
		prev = m.ChartPreviousClose
	}
	if prev > 0 && m.RegularMarketPrice > 0 {
		info.Change = m.RegularMarketPrice - prev
		info.ChangePercent = info.Change / prev * 100
	}
	return info
}

var _ domrepo.MarketData = (*YahooMarketData)(nil)
