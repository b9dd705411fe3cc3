// Package balance computes the hourly surplus/deficit between PV
// output and the calibrated load, and its monthly import/export
// aggregates.
package balance

import (
	"fmt"
	"time"

	"github.com/angas/pvplan-go/series"
)

// MonthBalance carries one month's energy totals. Import and export
// are clipped per hour before summing, so both are non-negative and an
// hour never contributes to both.
type MonthBalance struct {
	Month       time.Month
	ImportKWh   float64
	ExportKWh   float64
	LoadKWh     float64
	ProducedKWh float64
}

type Result struct {
	// Per-hour pv - load; positive is surplus exported, negative is
	// import required.
	Deficit series.Hourly
	Months  []MonthBalance
}

// Compute derives the deficit series and its monthly aggregates.
//
// Net metering here is clip-then-sum: each hour's shortfall and
// surplus are clipped at zero individually, then summed per month.
// Summing the net deficit first and clipping afterwards would cancel
// the intra-month timing mismatch and understate both totals, which
// is a different (and wrong) billing model.
func Compute(load, pv series.Hourly) (*Result, error) {
	if len(load) != len(pv) {
		return nil, fmt.Errorf("load series has %d hours but pv series has %d", len(load), len(pv))
	}

	deficit := make(series.Hourly, len(load))
	byMonth := make(map[time.Month]*MonthBalance, 12)

	for i, lp := range load {
		pp := pv[i]
		if !lp.When.Equal(pp.When) {
			return nil, fmt.Errorf("series misaligned at index %d: load %s vs pv %s",
				i, lp.When.Format(time.RFC3339), pp.When.Format(time.RFC3339))
		}

		d := pp.Value - lp.Value
		deficit[i] = series.Point{When: lp.When, Value: d}

		m := lp.When.Month()
		mb, ok := byMonth[m]
		if !ok {
			mb = &MonthBalance{Month: m}
			byMonth[m] = mb
		}
		if d < 0 {
			mb.ImportKWh += -d
		} else {
			mb.ExportKWh += d
		}
		mb.LoadKWh += lp.Value
		mb.ProducedKWh += pp.Value
	}

	months := make([]MonthBalance, 0, len(byMonth))
	for m := time.January; m <= time.December; m++ {
		if mb, ok := byMonth[m]; ok {
			months = append(months, *mb)
		}
	}

	return &Result{Deficit: deficit, Months: months}, nil
}

// AnnualTotals sums the monthly aggregates.
func AnnualTotals(months []MonthBalance) (importKWh, exportKWh, producedKWh float64) {
	for _, m := range months {
		importKWh += m.ImportKWh
		exportKWh += m.ExportKWh
		producedKWh += m.ProducedKWh
	}
	return importKWh, exportKWh, producedKWh
}
