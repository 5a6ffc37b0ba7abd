package rules

import (
	"fmt"

	"FinSignal/internal/domain/models"
	"FinSignal/internal/domain/service"
)

// SupportResistance flags price sitting within 1% of a pivot or Fibonacci level.
// Resistance is checked before support, and 38.2% before 61.8%.
type SupportResistance struct{}

func (SupportResistance) Name() string { return "support_resistance" }

func (SupportResistance) Evaluate(s service.Snapshot) []models.Signal {
	e := &emitter{s: s}
	if !e.priced() {
		return nil
	}
	p := s.Price

	if r1, s1, ok := e.pair(models.PivotR1, models.PivotS1); ok {
		switch {
		case near(p, r1):
			e.add(models.SignalSell, "PIVOT_RESISTANCE", fmt.Sprintf("Price near R1 resistance (%.2f)", r1), 55)
		case near(p, s1):
			e.add(models.SignalBuy, "PIVOT_SUPPORT", fmt.Sprintf("Price near S1 support (%.2f)", s1), 55)
		}
	}

	if f38, f61, ok := e.pair(models.Fib38, models.Fib61); ok {
		switch {
		case near(p, f38):
			e.add(models.SignalNeutral, "FIB_38", fmt.Sprintf("Price at the 38.2%% Fibonacci retracement (%.2f)", f38), 45)
		case near(p, f61):
			e.add(models.SignalNeutral, "FIB_61", fmt.Sprintf("Price at the 61.8%% Fibonacci retracement (%.2f)", f61), 50)
		}
	}

	return e.out
}
