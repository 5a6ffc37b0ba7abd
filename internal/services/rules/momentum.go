package rules

import (
	"fmt"

	"FinSignal/internal/domain/models"
	"FinSignal/internal/domain/service"
)

// Momentum covers RSI, stochastic, Williams %R and CCI extremes.
type Momentum struct{}

func (Momentum) Name() string { return "momentum" }

func (Momentum) Evaluate(s service.Snapshot) []models.Signal {
	e := &emitter{s: s}

	if rsi, ok := e.latest(models.RSI); ok {
		switch {
		case rsi < 30:
			e.add(models.SignalBuy, "RSI_OVERSOLD", fmt.Sprintf("RSI oversold (%.1f)", rsi), max(30, 100-rsi*2))
		case rsi > 70:
			e.add(models.SignalSell, "RSI_OVERBOUGHT", fmt.Sprintf("RSI overbought (%.1f)", rsi), min(70, rsi*1.5))
		}
	}

	if k, d, ok := e.pair(models.StochK, models.StochD); ok {
		switch {
		case k < 20 && d < 20 && k > d:
			e.add(models.SignalBuy, "STOCHASTIC_OVERSOLD",
				fmt.Sprintf("Stochastic oversold (%%K: %.1f, %%D: %.1f)", k, d), max(40, 100-k*3))
		case k > 80 && d > 80 && k < d:
			e.add(models.SignalSell, "STOCHASTIC_OVERBOUGHT",
				fmt.Sprintf("Stochastic overbought (%%K: %.1f, %%D: %.1f)", k, d), min(80, k*1.2))
		}
	}

	if wr, ok := e.latest(models.WillR); ok {
		switch {
		case wr < -80:
			e.add(models.SignalBuy, "WILLIAMS_OVERSOLD", fmt.Sprintf("Williams %%R oversold (%.1f)", wr), max(40, 100+wr))
		case wr > -20:
			e.add(models.SignalSell, "WILLIAMS_OVERBOUGHT", fmt.Sprintf("Williams %%R overbought (%.1f)", wr), min(80, -wr*4))
		}
	}

	if cci, ok := e.latest(models.CCI); ok {
		switch {
		case cci < -100:
			e.add(models.SignalBuy, "CCI_OVERSOLD", fmt.Sprintf("CCI oversold (%.1f)", cci), max(40, min(100, 100+cci/2)))
		case cci > 100:
			e.add(models.SignalSell, "CCI_OVERBOUGHT", fmt.Sprintf("CCI overbought (%.1f)", cci), min(80, max(20, cci/2)))
		}
	}

	return e.out
}
