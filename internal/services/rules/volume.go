package rules

import (
	"fmt"

	"FinSignal/internal/domain/models"
	"FinSignal/internal/domain/service"
)

// Volume covers money flow index, Chaikin money flow and the volume oscillator.
type Volume struct{}

func (Volume) Name() string { return "volume" }

func (Volume) Evaluate(s service.Snapshot) []models.Signal {
	e := &emitter{s: s}

	if mfi, ok := e.latest(models.MFI); ok {
		switch {
		case mfi < 20:
			e.add(models.SignalBuy, "MFI_OVERSOLD", fmt.Sprintf("Money flow index oversold (%.1f)", mfi), max(40, 100-mfi*3))
		case mfi > 80:
			e.add(models.SignalSell, "MFI_OVERBOUGHT", fmt.Sprintf("Money flow index overbought (%.1f)", mfi), min(80, mfi*1.2))
		}
	}

	if cmf, ok := e.latest(models.CMF); ok {
		switch {
		case cmf > 0.1:
			e.add(models.SignalBuy, "CMF_POSITIVE", fmt.Sprintf("Strong positive money flow (%.3f)", cmf), min(80, cmf*500))
		case cmf < -0.1:
			e.add(models.SignalSell, "CMF_NEGATIVE", fmt.Sprintf("Strong negative money flow (%.3f)", cmf), min(80, -cmf*500))
		}
	}

	if vo, ok := e.latest(models.VO); ok {
		switch {
		case vo > 5:
			e.add(models.SignalBuy, "VO_INCREASE", fmt.Sprintf("Volume rising sharply (%.1f%%)", vo), min(60, vo*8))
		case vo < -5:
			e.add(models.SignalSell, "VO_DECREASE", fmt.Sprintf("Volume falling sharply (%.1f%%)", vo), min(60, -vo*8))
		}
	}

	return e.out
}
