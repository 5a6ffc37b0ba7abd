// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"math"
	"time"

	"FinSignal/internal/domain/models"
)

// Start is the timestamp of the first synthetic bar.
var Start = time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)

// Bars returns n well-formed daily bars: a slow uptrend with a sine swing and
// oscillating volume.
func Bars(n int) []models.Bar {
	bars := make([]models.Bar, n)
	prev := 100.0
	for i := range bars {
		x := float64(i)
		c := 100 + 0.1*x + 8*math.Sin(x/9) + 1.5*math.Sin(x/2.3)
		hi := math.Max(prev, c) + 0.8 + 0.3*math.Abs(math.Sin(x/3))
		lo := math.Min(prev, c) - 0.8 - 0.3*math.Abs(math.Cos(x/4))
		bars[i] = models.Bar{
			Time:   Start.AddDate(0, 0, i),
			Open:   prev,
			High:   hi,
			Low:    lo,
			Close:  c,
			Volume: 1_000_000 + 250_000*math.Sin(x/5) + 100_000*math.Cos(x/1.7),
		}
		prev = c
	}
	return bars
}

// Flat returns n bars that all close at price.
func Flat(n int, price float64) []models.Bar {
	bars := make([]models.Bar, n)
	for i := range bars {
		bars[i] = models.Bar{
			Time:   Start.AddDate(0, 0, i),
			Open:   price,
			High:   price + 1,
			Low:    price - 1,
			Close:  price,
			Volume: 1000,
		}
	}
	return bars
}
