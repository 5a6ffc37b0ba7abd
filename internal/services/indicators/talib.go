package indicators

import (
	"github.com/markcheno/go-talib"

	"FinSignal/internal/domain/models"
)

// Catalog parameters.
const (
	macdFast, macdSlow, macdSignal = 12, 26, 9
	adxPeriod                      = 14
	stochK, stochSlowK, stochSlowD = 14, 3, 3
	stochRSIPeriod, stochRSIK      = 14, 14
	stochRSID                      = 3
	cciPeriod                      = 20
	willRPeriod                    = 14
	momPeriod, rocPeriod           = 10, 10
	trixPeriod                     = 15
	uoShort, uoMid, uoLong         = 7, 14, 28
	bbPeriod                       = 20
	bbDev                          = 2.0
	atrPeriod                      = 14
	stdDevPeriod                   = 20
	mfiPeriod                      = 14
	adOscFast, adOscSlow           = 3, 10
	aroonPeriod                    = 25
	sarStep, sarMax                = 0.02, 0.2
)

func one(v []float64) [][]float64 { return [][]float64{v} }

func movingAverage(name models.IndicatorName, period int, fn func([]float64, int) []float64) calc {
	return calc{
		names:    []models.IndicatorName{name},
		lookback: period - 1,
		run:      func(in *ohlcv) [][]float64 { return one(fn(in.close, period)) },
	}
}

func trendCalcs() []calc {
	return []calc{
		movingAverage(models.SMA5, 5, talib.Sma),
		movingAverage(models.SMA10, 10, talib.Sma),
		movingAverage(models.SMA20, 20, talib.Sma),
		movingAverage(models.SMA50, 50, talib.Sma),
		movingAverage(models.SMA100, 100, talib.Sma),
		movingAverage(models.SMA200, 200, talib.Sma),
		movingAverage(models.EMA5, 5, talib.Ema),
		movingAverage(models.EMA10, 10, talib.Ema),
		movingAverage(models.EMA20, 20, talib.Ema),
		movingAverage(models.EMA50, 50, talib.Ema),
		movingAverage(models.EMA100, 100, talib.Ema),
		movingAverage(models.EMA200, 200, talib.Ema),
		movingAverage(models.WMA20, 20, talib.Wma),
		{
			names:    []models.IndicatorName{models.MACD, models.MACDSignal, models.MACDHistogram},
			lookback: macdSlow - 1 + macdSignal - 1,
			run: func(in *ohlcv) [][]float64 {
				m, s, h := talib.Macd(in.close, macdFast, macdSlow, macdSignal)
				return [][]float64{m, s, h}
			},
		},
		{
			names:    []models.IndicatorName{models.ADX},
			lookback: 2*adxPeriod - 1,
			run: func(in *ohlcv) [][]float64 {
				return one(talib.Adx(in.high, in.low, in.close, adxPeriod))
			},
		},
	}
}

func momentumCalcs() []calc {
	rsi := func(name models.IndicatorName, period int) calc {
		return calc{
			names:    []models.IndicatorName{name},
			lookback: period,
			run:      func(in *ohlcv) [][]float64 { return one(talib.Rsi(in.close, period)) },
		}
	}
	return []calc{
		rsi(models.RSI, 14),
		rsi(models.RSI21, 21),
		rsi(models.RSI50, 50),
		{
			names:    []models.IndicatorName{models.StochK, models.StochD},
			lookback: stochK - 1 + stochSlowK - 1 + stochSlowD - 1,
			run: func(in *ohlcv) [][]float64 {
				k, d := talib.Stoch(in.high, in.low, in.close, stochK, stochSlowK, talib.SMA, stochSlowD, talib.SMA)
				return [][]float64{k, d}
			},
		},
		{
			names:    []models.IndicatorName{models.StochRSIK, models.StochRSID},
			lookback: stochRSIPeriod + stochRSIK - 1 + stochRSID - 1,
			run: func(in *ohlcv) [][]float64 {
				k, d := talib.StochRsi(in.close, stochRSIPeriod, stochRSIK, stochRSID, talib.SMA)
				return [][]float64{k, d}
			},
		},
		{
			names:    []models.IndicatorName{models.CCI},
			lookback: cciPeriod - 1,
			run: func(in *ohlcv) [][]float64 {
				return one(talib.Cci(in.high, in.low, in.close, cciPeriod))
			},
		},
		{
			names:    []models.IndicatorName{models.WillR},
			lookback: willRPeriod - 1,
			run: func(in *ohlcv) [][]float64 {
				return one(talib.WillR(in.high, in.low, in.close, willRPeriod))
			},
		},
		{
			names:    []models.IndicatorName{models.Mom},
			lookback: momPeriod,
			run:      func(in *ohlcv) [][]float64 { return one(talib.Mom(in.close, momPeriod)) },
		},
		{
			names:    []models.IndicatorName{models.ROC},
			lookback: rocPeriod,
			run:      func(in *ohlcv) [][]float64 { return one(talib.Roc(in.close, rocPeriod)) },
		},
		{
			names:    []models.IndicatorName{models.TRIX},
			lookback: 3*(trixPeriod-1) + 1,
			run:      func(in *ohlcv) [][]float64 { return one(talib.Trix(in.close, trixPeriod)) },
		},
		{
			names:    []models.IndicatorName{models.UO},
			lookback: uoLong,
			run: func(in *ohlcv) [][]float64 {
				return one(talib.UltOsc(in.high, in.low, in.close, uoShort, uoMid, uoLong))
			},
		},
		awesomeOscillator(),
		knowSureThing(),
	}
}

func volatilityCalcs() []calc {
	return []calc{
		{
			names:    []models.IndicatorName{models.BBUpper, models.BBMiddle, models.BBLower, models.BBWidth},
			lookback: bbPeriod - 1,
			run: func(in *ohlcv) [][]float64 {
				up, mid, lo := talib.BBands(in.close, bbPeriod, bbDev, bbDev, talib.SMA)
				width := make([]float64, len(up))
				for i := range up {
					width[i] = up[i] - lo[i]
				}
				return [][]float64{up, mid, lo, width}
			},
		},
		{
			names:    []models.IndicatorName{models.ATR},
			lookback: atrPeriod,
			run: func(in *ohlcv) [][]float64 {
				return one(talib.Atr(in.high, in.low, in.close, atrPeriod))
			},
		},
		keltnerChannels(),
		{
			names:    []models.IndicatorName{models.StdDev},
			lookback: stdDevPeriod - 1,
			run:      func(in *ohlcv) [][]float64 { return one(talib.StdDev(in.close, stdDevPeriod, 1)) },
		},
	}
}

func volumeCalcs() []calc {
	return []calc{
		{
			names: []models.IndicatorName{models.OBV},
			run:   func(in *ohlcv) [][]float64 { return one(talib.Obv(in.close, in.volume)) },
		},
		chaikinMoneyFlow(),
		{
			names:    []models.IndicatorName{models.MFI},
			lookback: mfiPeriod,
			run: func(in *ohlcv) [][]float64 {
				return one(talib.Mfi(in.high, in.low, in.close, in.volume, mfiPeriod))
			},
		},
		volumeOscillator(),
		{
			names: []models.IndicatorName{models.ADLine},
			run: func(in *ohlcv) [][]float64 {
				return one(talib.Ad(in.high, in.low, in.close, in.volume))
			},
		},
		{
			names:    []models.IndicatorName{models.ADOsc},
			lookback: adOscSlow - 1,
			run: func(in *ohlcv) [][]float64 {
				return one(talib.AdOsc(in.high, in.low, in.close, in.volume, adOscFast, adOscSlow))
			},
		},
		forceIndex(),
		negativeVolumeIndex(),
	}
}

func overlayCalcs() []calc {
	calcs := []calc{
		{
			names:    []models.IndicatorName{models.AroonUp, models.AroonDown},
			lookback: aroonPeriod,
			run: func(in *ohlcv) [][]float64 {
				down, up := talib.Aroon(in.high, in.low, aroonPeriod)
				return [][]float64{up, down}
			},
		},
		{
			names:    []models.IndicatorName{models.AroonOsc},
			lookback: aroonPeriod,
			run:      func(in *ohlcv) [][]float64 { return one(talib.AroonOsc(in.high, in.low, aroonPeriod)) },
		},
		{
			names:    []models.IndicatorName{models.PSAR},
			lookback: 1,
			run:      func(in *ohlcv) [][]float64 { return one(talib.Sar(in.high, in.low, sarStep, sarMax)) },
		},
		superTrend(),
	}
	return append(calcs, ichimoku()...)
}
