package api

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"FinSignal/internal/domain/models"
	domrepo "FinSignal/internal/domain/repository"
	"FinSignal/internal/services/indicators"
	"FinSignal/internal/services/rules"
	"FinSignal/internal/testutil"
	"FinSignal/internal/usecase"
	"FinSignal/pkg/http/middleware"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type stubMarket struct {
	bars map[string][]models.Bar
}

func (m *stubMarket) GetHistoricalBars(_ context.Context, symbol string, _ domrepo.Period, _ domrepo.Interval) ([]models.Bar, error) {
	b, ok := m.bars[symbol]
	if !ok {
		return nil, models.ErrDataUnavailable
	}
	return b, nil
}

func (m *stubMarket) GetSymbolInfo(_ context.Context, symbol string) (models.SymbolInfo, error) {
	if symbol == "AAPL" {
		return models.SymbolInfo{Symbol: "AAPL", Name: "Apple Inc.", Currency: "USD", Exchange: "NMS"}, nil
	}
	return models.SymbolInfo{}, errors.New("quote down")
}

type clock struct{ t time.Time }

func (c clock) Now() time.Time { return c.t }

type denyAll struct{}

func (denyAll) Allow(string) bool { return false }

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type HandlerSuite struct {
	suite.Suite
	e *echo.Echo
}

func (s *HandlerSuite) SetupTest() {
	s.e = newTestEcho(nil)
}

func newTestEcho(limiter middleware.Allower) *echo.Echo {
	malformed := testutil.Bars(60)
	malformed[30].Close = math.NaN()
	market := &stubMarket{bars: map[string][]models.Bar{
		"AAPL": testutil.Bars(250),
		"BAD":  malformed,
	}}

	now := clock{time.Date(2024, 5, 6, 12, 0, 0, 0, time.UTC)}
	engine := indicators.NewCachedEngine(indicators.NewEngine(), now, time.Minute)
	pipeline := usecase.NewSignalPipeline(market, engine, rules.Default())
	pipeline.SetClock(now)
	marketUC := usecase.NewMarketDataUseCase(market)

	h := NewSignalsEchoHandler(nil,
		pipeline,
		usecase.NewBatchSignalsUseCase(pipeline, 2),
		marketUC,
		usecase.NewAnalysisUseCase(pipeline, marketUC),
		limiter,
	)
	e := echo.New()
	h.RegisterRoutes(e)
	return e
}

func (s *HandlerSuite) do(method, target, body string) (*httptest.ResponseRecorder, envelope) {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	var env envelope
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec, env
}

func (s *HandlerSuite) errorCode(env envelope) string {
	var errs []struct {
		Code string `json:"code"`
	}
	s.Require().NoError(json.Unmarshal(env.Data, &errs))
	s.Require().NotEmpty(errs)
	return errs[0].Code
}

func (s *HandlerSuite) TestHealth() {
	rec, env := s.do(http.MethodGet, "/api/health", "")
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(string(env.Data), `"status":"ok"`)
}

func (s *HandlerSuite) TestSignal() {
	rec, env := s.do(http.MethodGet, "/api/signals/aapl?period=6mo", "")
	s.Require().Equal(http.StatusOK, rec.Code)

	var res models.SignalResult
	s.Require().NoError(json.Unmarshal(env.Data, &res))
	s.Equal("AAPL", res.Symbol)
	s.GreaterOrEqual(res.OverallScore, 0)
	s.LessOrEqual(res.OverallScore, 100)
	s.Equal("1d", res.Timeframe)
	s.True(res.Timestamp.Add(models.ResultTTL).Equal(res.Expiration))
}

func (s *HandlerSuite) TestSignal_Errors() {
	cases := []struct {
		target string
		status int
		code   string
	}{
		{"/api/signals/NOPE", http.StatusNotFound, "ERR_DATA_UNAVAILABLE"},
		{"/api/signals/BAD", http.StatusUnprocessableEntity, "ERR_COMPUTATION"},
		{"/api/signals/AAPL?period=7y", http.StatusBadRequest, "ERR_ONEOF"},
		{"/api/signals/" + strings.Repeat("X", 33), http.StatusBadRequest, "ERR_MAX"},
	}
	for _, tc := range cases {
		rec, env := s.do(http.MethodGet, tc.target, "")
		s.Equal(tc.status, rec.Code, tc.target)
		s.Equal(tc.code, s.errorCode(env), tc.target)
	}
}

func (s *HandlerSuite) TestBatch_OmitsFailures() {
	rec, env := s.do(http.MethodPost, "/api/signals/batch", `{"symbols":["AAPL","NOPE"],"period":"1y"}`)
	s.Require().Equal(http.StatusOK, rec.Code)

	var res models.BatchResult
	s.Require().NoError(json.Unmarshal(env.Data, &res))
	s.Equal(1, res.Count)
	s.Require().Len(res.Signals, 1)
	s.Equal("AAPL", res.Signals[0].Symbol)
}

func (s *HandlerSuite) TestBatch_Validation() {
	rec, env := s.do(http.MethodPost, "/api/signals/batch", `{"symbols":[]}`)
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("ERR_MIN", s.errorCode(env))
}

func (s *HandlerSuite) TestHistorical() {
	rec, env := s.do(http.MethodGet, "/api/historical/AAPL?interval=1wk", "")
	s.Require().Equal(http.StatusOK, rec.Code)

	var res usecase.HistoricalResult
	s.Require().NoError(json.Unmarshal(env.Data, &res))
	s.Equal("1wk", res.Interval)
	s.Equal("1y", res.Period)
	s.Equal(250, res.Count)
}

func (s *HandlerSuite) TestSymbolInfo_FallsBackToPlaceholder() {
	rec, env := s.do(http.MethodGet, "/api/symbol-info/zzz", "")
	s.Require().Equal(http.StatusOK, rec.Code)

	var info models.SymbolInfo
	s.Require().NoError(json.Unmarshal(env.Data, &info))
	s.Equal(models.PlaceholderSymbolInfo("ZZZ"), info)
}

func (s *HandlerSuite) TestIndicators() {
	rec, env := s.do(http.MethodGet, "/api/indicators/AAPL?series=true", "")
	s.Require().Equal(http.StatusOK, rec.Code)

	var rep map[string]json.RawMessage
	s.Require().NoError(json.Unmarshal(env.Data, &rep))
	s.Contains(rep, "latest")
	s.Contains(rep, "series")
}

func (s *HandlerSuite) TestFullAnalysis() {
	rec, env := s.do(http.MethodGet, "/api/full-analysis/AAPL", "")
	s.Require().Equal(http.StatusOK, rec.Code)

	var a map[string]json.RawMessage
	s.Require().NoError(json.Unmarshal(env.Data, &a))
	for _, k := range []string{"symbol", "symbolInfo", "historicalData", "indicators", "signals"} {
		s.Contains(a, k)
	}
}

func (s *HandlerSuite) TestSymbols() {
	rec, env := s.do(http.MethodGet, "/api/symbols", "")
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Contains(string(env.Data), `"AAPL"`)
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func TestBatch_RateLimited(t *testing.T) {
	e := newTestEcho(denyAll{})
	req := httptest.NewRequest(http.MethodPost, "/api/signals/batch", strings.NewReader(`{"symbols":["AAPL"]}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestToAppError(t *testing.T) {
	err := toAppError(&models.ComputationError{Index: 3, Reason: "high below low"})
	require.Equal(t, http.StatusUnprocessableEntity, err.Status)
	assert.Equal(t, 3, err.Params["index"])

	assert.Equal(t, http.StatusInternalServerError, toAppError(errors.New("x")).Status)
}
