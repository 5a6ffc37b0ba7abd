package repository

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"FinSignal/internal/domain/models"
	domrepo "FinSignal/internal/domain/repository"
	pkghttp "FinSignal/pkg/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chartBody = `{"chart":{"result":[{
  "meta":{"symbol":"AAPL","currency":"USD","exchangeName":"NMS","fullExchangeName":"NasdaqGS",
          "longName":"Apple Inc.","regularMarketPrice":110,"chartPreviousClose":100,
          "regularMarketVolume":5000,"fiftyTwoWeekHigh":120,"fiftyTwoWeekLow":80},
  "timestamp":[1704153600,1704240000,1704326400],
  "indicators":{"quote":[{
    "open":[100,null,102],"high":[101,103,104],"low":[99,100,101],
    "close":[100.5,102,103],"volume":[1000,null,1200]}]}}],"error":null}}`

func newYahoo(t *testing.T, status int, body string, seen *http.Request) *YahooMarketData {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if seen != nil {
			*seen = *r
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return NewYahooMarketData(pkghttp.NewClient(), srv.URL)
}

func TestYahoo_GetHistoricalBars_SkipsNullSlots(t *testing.T) {
	var req http.Request
	y := newYahoo(t, http.StatusOK, chartBody, &req)

	bars, err := y.GetHistoricalBars(context.Background(), "AAPL", domrepo.Period1Y, domrepo.Interval1d)
	require.NoError(t, err)
	require.Len(t, bars, 2)
	assert.Equal(t, "/v8/finance/chart/AAPL", req.URL.Path)
	assert.Equal(t, "1y", req.URL.Query().Get("range"))
	assert.Equal(t, "1d", req.URL.Query().Get("interval"))

	assert.Equal(t, 100.5, bars[0].Close)
	assert.Equal(t, 103.0, bars[1].Close)
	assert.Equal(t, 1200.0, bars[1].Volume)
	assert.True(t, bars[0].Time.Before(bars[1].Time))
}

func TestYahoo_GetHistoricalBars_Unavailable(t *testing.T) {
	cases := map[string]struct {
		status int
		body   string
	}{
		"http error":   {http.StatusNotFound, `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`},
		"api error":    {http.StatusOK, `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`},
		"empty quotes": {http.StatusOK, `{"chart":{"result":[{"meta":{},"timestamp":[],"indicators":{"quote":[{}]}}]}}`},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			y := newYahoo(t, tc.status, tc.body, nil)
			_, err := y.GetHistoricalBars(context.Background(), "NOPE", domrepo.Period1Y, domrepo.Interval1d)
			assert.ErrorIs(t, err, models.ErrDataUnavailable)
		})
	}
}

func TestYahoo_GetSymbolInfo_FromMeta(t *testing.T) {
	y := newYahoo(t, http.StatusOK, chartBody, nil)

	info, err := y.GetSymbolInfo(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "Apple Inc.", info.Name)
	assert.Equal(t, "NasdaqGS", info.Exchange)
	assert.Equal(t, 110.0, info.CurrentPrice)
	assert.InDelta(t, 10.0, info.Change, 1e-9)
	assert.InDelta(t, 10.0, info.ChangePercent, 1e-9)
	assert.Equal(t, 120.0, info.FiftyTwoWeekHigh)
}
