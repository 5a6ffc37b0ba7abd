package api

import (
	"errors"
	"net/http"
	"time"

	"FinSignal/internal/domain/models"
	domrepo "FinSignal/internal/domain/repository"
	"FinSignal/internal/usecase"
	xhttp "FinSignal/pkg/http"
	"FinSignal/pkg/http/middleware"
	xlogger "FinSignal/pkg/logger"

	"github.com/labstack/echo/v4"
)

// SignalsEchoHandler serves market data, indicators and signals over HTTP.
type SignalsEchoHandler struct {
	logger   *xlogger.Logger
	pipeline *usecase.SignalPipeline
	batch    *usecase.BatchSignalsUseCase
	market   *usecase.MarketDataUseCase
	analysis *usecase.AnalysisUseCase
	limiter  middleware.Allower
	now      func() time.Time
}

func NewSignalsEchoHandler(
	logger *xlogger.Logger,
	pipeline *usecase.SignalPipeline,
	batch *usecase.BatchSignalsUseCase,
	market *usecase.MarketDataUseCase,
	analysis *usecase.AnalysisUseCase,
	limiter middleware.Allower,
) *SignalsEchoHandler {
	if logger == nil {
		logger = xlogger.Nop()
	}
	return &SignalsEchoHandler{
		logger:   logger,
		pipeline: pipeline,
		batch:    batch,
		market:   market,
		analysis: analysis,
		limiter:  limiter,
		now:      time.Now,
	}
}

func (h *SignalsEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/health", h.Health)
	g.GET("/symbols", h.Symbols)
	g.GET("/symbol-info/:symbol", h.SymbolInfo)
	g.GET("/historical/:symbol", h.Historical)
	g.GET("/indicators/:symbol", h.Indicators)
	g.GET("/signals/:symbol", h.Signal)
	g.GET("/full-analysis/:symbol", h.FullAnalysis)

	var batchMW []echo.MiddlewareFunc
	if h.limiter != nil {
		batchMW = append(batchMW, middleware.RateLimit(h.limiter))
	}
	g.POST("/signals/batch", h.Batch, batchMW...)
}

func (h *SignalsEchoHandler) Health(c echo.Context) error {
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"status":    "ok",
		"timestamp": h.now().UTC(),
	})
}

func (h *SignalsEchoHandler) Symbols(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.market.Symbols())
}

func (h *SignalsEchoHandler) SymbolInfo(c echo.Context) error {
	req := &models.SymbolInfoRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	info, err := h.market.SymbolInfo(c.Request().Context(), req.Symbol)
	if err != nil {
		return h.fail(c, "symbol_info", err)
	}
	return xhttp.SuccessResponse(c, info)
}

func (h *SignalsEchoHandler) Historical(c echo.Context) error {
	req := &models.HistoricalRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res, err := h.market.Historical(c.Request().Context(), usecase.HistoricalParams{
		Symbol:   req.Symbol,
		Period:   domrepo.Period(req.Period),
		Interval: domrepo.Interval(req.Interval),
	})
	if err != nil {
		return h.fail(c, "historical", err)
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=60")
	return xhttp.SuccessResponse(c, res)
}

func (h *SignalsEchoHandler) Indicators(c echo.Context) error {
	req := &models.IndicatorsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	rep, err := h.analysis.Indicators(c.Request().Context(), req.Symbol, domrepo.Period(req.Period), req.Series)
	if err != nil {
		return h.fail(c, "indicators", err)
	}
	return xhttp.SuccessResponse(c, rep)
}

func (h *SignalsEchoHandler) Signal(c echo.Context) error {
	req := &models.SignalRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res, err := h.pipeline.Generate(c.Request().Context(), req.Symbol, domrepo.Period(req.Period))
	if err != nil {
		return h.fail(c, "signals", err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *SignalsEchoHandler) Batch(c echo.Context) error {
	req := &models.BatchSignalRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res := h.batch.Run(c.Request().Context(), req.Symbols, domrepo.Period(req.Period))
	return xhttp.SuccessResponse(c, res)
}

func (h *SignalsEchoHandler) FullAnalysis(c echo.Context) error {
	req := &models.SignalRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res, err := h.analysis.FullAnalysis(c.Request().Context(), req.Symbol, domrepo.Period(req.Period))
	if err != nil {
		return h.fail(c, "full_analysis", err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *SignalsEchoHandler) fail(c echo.Context, op string, err error) error {
	appErr := toAppError(err)
	if appErr.Status >= http.StatusInternalServerError {
		h.logger.Error(op+" failed",
			xlogger.String("request_id", middleware.GetRequestID(c)),
			xlogger.String("symbol", c.Param("symbol")),
			xlogger.Error(err),
		)
	} else {
		h.logger.Warn(op+" rejected",
			xlogger.String("request_id", middleware.GetRequestID(c)),
			xlogger.String("symbol", c.Param("symbol")),
			xlogger.String("code", appErr.Code),
			xlogger.Error(err),
		)
	}
	return xhttp.AppErrorResponse(c, appErr)
}

// toAppError maps domain errors onto transport errors.
func toAppError(err error) *xhttp.AppError {
	var compErr *models.ComputationError
	switch {
	case errors.Is(err, models.ErrInvalidSymbol):
		return xhttp.BadRequestError("ERR_INVALID_SYMBOL", "invalid symbol").WithError(err)
	case errors.Is(err, models.ErrDataUnavailable):
		return xhttp.NotFoundError("ERR_DATA_UNAVAILABLE", "no market data for symbol").WithError(err)
	case errors.As(err, &compErr):
		return xhttp.UnprocessableError("ERR_COMPUTATION", "indicator computation failed").
			WithParam("index", compErr.Index).
			WithParam("reason", compErr.Reason).
			WithError(err)
	case errors.Is(err, models.ErrMalformedBar):
		return xhttp.UnprocessableError("ERR_COMPUTATION", "indicator computation failed").WithError(err)
	default:
		return xhttp.InternalError("Something went wrong").WithError(err)
	}
}
