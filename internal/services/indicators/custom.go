package indicators

import (
	"github.com/markcheno/go-talib"

	"FinSignal/internal/domain/models"
)

const (
	aoFast, aoSlow     = 5, 34
	keltnerPeriod      = 20
	keltnerATRPeriod   = 10
	keltnerMult        = 2.0
	cmfPeriod          = 20
	voFast, voSlow     = 12, 26
	fiPeriod           = 13
	nviBase            = 1000.0
	superTrendPeriod   = 10
	superTrendMult     = 3.0
	tenkanPeriod       = 9
	kijunPeriod        = 26
	ichimokuSpanPeriod = 52
)

// kstLegs are the ROC period, SMA smoothing and weight of each KST component.
var kstLegs = [4]struct{ roc, sma, weight int }{
	{10, 4, 1},
	{15, 4, 2},
	{20, 4, 3},
	{30, 6, 4},
}

// maFrom applies fn to v[start:] and realigns the result to len(v).
func maFrom(v []float64, start, period int, fn func([]float64, int) []float64) []float64 {
	out := make([]float64, len(v))
	if start < len(v) {
		copy(out[start:], fn(v[start:], period))
	}
	return out
}

func awesomeOscillator() calc {
	return calc{
		names:    []models.IndicatorName{models.AO},
		lookback: aoSlow - 1,
		run: func(in *ohlcv) [][]float64 {
			med := talib.MedPrice(in.high, in.low)
			fast := talib.Sma(med, aoFast)
			slow := talib.Sma(med, aoSlow)
			out := make([]float64, in.len())
			for i := aoSlow - 1; i < len(out); i++ {
				out[i] = fast[i] - slow[i]
			}
			return one(out)
		},
	}
}

func knowSureThing() calc {
	lookback := 0
	for _, leg := range kstLegs {
		if lb := leg.roc + leg.sma - 1; lb > lookback {
			lookback = lb
		}
	}
	return calc{
		names:    []models.IndicatorName{models.KST},
		lookback: lookback,
		run: func(in *ohlcv) [][]float64 {
			out := make([]float64, in.len())
			for _, leg := range kstLegs {
				rcma := maFrom(talib.Roc(in.close, leg.roc), leg.roc, leg.sma, talib.Sma)
				for i := lookback; i < len(out); i++ {
					out[i] += float64(leg.weight) * rcma[i]
				}
			}
			return one(out)
		},
	}
}

func keltnerChannels() calc {
	return calc{
		names:    []models.IndicatorName{models.KCUpper, models.KCLower},
		lookback: keltnerPeriod - 1,
		run: func(in *ohlcv) [][]float64 {
			mid := talib.Ema(in.close, keltnerPeriod)
			atr := talib.Atr(in.high, in.low, in.close, keltnerATRPeriod)
			up := make([]float64, in.len())
			lo := make([]float64, in.len())
			for i := keltnerPeriod - 1; i < len(up); i++ {
				up[i] = mid[i] + keltnerMult*atr[i]
				lo[i] = mid[i] - keltnerMult*atr[i]
			}
			return [][]float64{up, lo}
		},
	}
}

func chaikinMoneyFlow() calc {
	return calc{
		names:    []models.IndicatorName{models.CMF},
		lookback: cmfPeriod - 1,
		run: func(in *ohlcv) [][]float64 {
			mfv := make([]float64, in.len())
			for i := range mfv {
				hl := in.high[i] - in.low[i]
				if hl == 0 {
					continue
				}
				mfm := ((in.close[i] - in.low[i]) - (in.high[i] - in.close[i])) / hl
				mfv[i] = mfm * in.volume[i]
			}
			sumMFV := talib.Sum(mfv, cmfPeriod)
			sumVol := talib.Sum(in.volume, cmfPeriod)
			out := make([]float64, in.len())
			for i := cmfPeriod - 1; i < len(out); i++ {
				if sumVol[i] != 0 {
					out[i] = sumMFV[i] / sumVol[i]
				}
			}
			return one(out)
		},
	}
}

// volumeOscillator is the percentage spread between a fast and slow EMA of volume.
func volumeOscillator() calc {
	return calc{
		names:    []models.IndicatorName{models.VO},
		lookback: voSlow - 1,
		run: func(in *ohlcv) [][]float64 {
			fast := talib.Ema(in.volume, voFast)
			slow := talib.Ema(in.volume, voSlow)
			out := make([]float64, in.len())
			for i := voSlow - 1; i < len(out); i++ {
				if slow[i] != 0 {
					out[i] = (fast[i] - slow[i]) / slow[i] * 100
				}
			}
			return one(out)
		},
	}
}

func forceIndex() calc {
	return calc{
		names:    []models.IndicatorName{models.FI},
		lookback: fiPeriod,
		run: func(in *ohlcv) [][]float64 {
			raw := make([]float64, in.len())
			for i := 1; i < len(raw); i++ {
				raw[i] = (in.close[i] - in.close[i-1]) * in.volume[i]
			}
			return one(maFrom(raw, 1, fiPeriod, talib.Ema))
		},
	}
}

func negativeVolumeIndex() calc {
	return calc{
		names: []models.IndicatorName{models.NVI},
		run: func(in *ohlcv) [][]float64 {
			out := make([]float64, in.len())
			out[0] = nviBase
			for i := 1; i < len(out); i++ {
				out[i] = out[i-1]
				if in.volume[i] < in.volume[i-1] && in.close[i-1] != 0 {
					out[i] *= 1 + (in.close[i]-in.close[i-1])/in.close[i-1]
				}
			}
			return one(out)
		},
	}
}

// superTrend follows price with ATR bands: the lower band while the trend is up,
// the upper band while it is down.
func superTrend() calc {
	return calc{
		names:    []models.IndicatorName{models.SuperTrend},
		lookback: superTrendPeriod,
		run: func(in *ohlcv) [][]float64 {
			atr := talib.Atr(in.high, in.low, in.close, superTrendPeriod)
			out := make([]float64, in.len())
			var upper, lower float64
			up := true
			for i := superTrendPeriod; i < len(out); i++ {
				hl2 := (in.high[i] + in.low[i]) / 2
				basicUp := hl2 + superTrendMult*atr[i]
				basicLo := hl2 - superTrendMult*atr[i]
				if i == superTrendPeriod {
					upper, lower = basicUp, basicLo
					up = in.close[i] >= hl2
				} else {
					if basicUp < upper || in.close[i-1] > upper {
						upper = basicUp
					}
					if basicLo > lower || in.close[i-1] < lower {
						lower = basicLo
					}
				}
				switch {
				case up && in.close[i] < lower:
					up = false
				case !up && in.close[i] > upper:
					up = true
				}
				if up {
					out[i] = lower
				} else {
					out[i] = upper
				}
			}
			return one(out)
		},
	}
}

func midpoint(in *ohlcv, period int) []float64 {
	hi := talib.Max(in.high, period)
	lo := talib.Min(in.low, period)
	out := make([]float64, in.len())
	for i := period - 1; i < len(out); i++ {
		out[i] = (hi[i] + lo[i]) / 2
	}
	return out
}

// ichimoku needs a full span window before any line is reported. The lagging
// line is reported as leading span A, (tenkan+kijun)/2.
func ichimoku() []calc {
	return []calc{
		{
			names:    []models.IndicatorName{models.IchimokuTenkan},
			lookback: tenkanPeriod - 1,
			minBars:  ichimokuSpanPeriod,
			run:      func(in *ohlcv) [][]float64 { return one(midpoint(in, tenkanPeriod)) },
		},
		{
			names:    []models.IndicatorName{models.IchimokuKijun, models.IchimokuChikou},
			lookback: kijunPeriod - 1,
			minBars:  ichimokuSpanPeriod,
			run: func(in *ohlcv) [][]float64 {
				tenkan := midpoint(in, tenkanPeriod)
				kijun := midpoint(in, kijunPeriod)
				span := make([]float64, in.len())
				for i := kijunPeriod - 1; i < len(span); i++ {
					span[i] = (tenkan[i] + kijun[i]) / 2
				}
				return [][]float64{kijun, span}
			},
		},
	}
}
