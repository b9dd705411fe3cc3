// Package calibrate reconciles the synthesized load curve against the
// metered monthly consumption. Only peak-bucket hours are scaled; the
// off-peak estimate is trusted as-is.
package calibrate

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/angas/pvplan-go/series"
)

// Denominators smaller than this count as "no active-hour estimate"
const epsilon = 1e-9

// CalibrationError means a month's scaling factor is undefined because
// the active-hour estimate sums to zero. A default factor is never
// substituted; the run must abort.
type CalibrationError struct {
	Month  time.Month
	Active float64
}

func (e *CalibrationError) Error() string {
	return fmt.Sprintf("calibration undefined for %s: active-hour estimate sums to %g", e.Month, e.Active)
}

// Factor is the closed-form monthly reconciliation k = (y - b) / a,
// where a is the active-hour estimate, b the off-peak estimate and
// y the metered consumption.
type Factor struct {
	Month  time.Month
	Active float64 // a, estimated active-hour kWh
	Fixed  float64 // b, off-peak kWh, passed through unscaled
	Actual float64 // y, metered kWh from the bill
	K      float64
}

// Negative reports a factor implying that off-peak consumption alone
// exceeds the bill. Permitted, but surfaced as an anomaly upstream.
func (f Factor) Negative() bool {
	return f.K < 0
}

type Result struct {
	// The full-year series with every active hour rescaled by its
	// month's factor, re-merged into timestamp order.
	Series  series.Hourly
	Factors []Factor
}

// Calibrate scales the synthesized series so each month's total matches
// the metered consumption. The actual table must carry all 12 months.
func Calibrate(estimated series.Hourly, actual map[time.Month]float64) (*Result, error) {
	active, inactive := series.Partition(estimated)
	activeTotals := active.MonthTotals()
	fixedTotals := inactive.MonthTotals()

	factors := make([]Factor, 0, 12)
	for m := time.January; m <= time.December; m++ {
		y, ok := actual[m]
		if !ok {
			return nil, fmt.Errorf("no metered consumption for %s", m)
		}

		a := activeTotals[m]
		b := fixedTotals[m]
		if math.Abs(a) < epsilon {
			return nil, &CalibrationError{Month: m, Active: a}
		}

		factors = append(factors, Factor{
			Month:  m,
			Active: a,
			Fixed:  b,
			Actual: y,
			K:      (y - b) / a,
		})
	}

	byMonth := make(map[time.Month]float64, 12)
	for _, f := range factors {
		byMonth[f.Month] = f.K
	}

	scaled := make(series.Hourly, len(active))
	for i, p := range active {
		scaled[i] = series.Point{When: p.When, Value: p.Value * byMonth[p.When.Month()]}
	}

	merged := series.Merge(scaled, inactive)
	sort.Slice(factors, func(i, j int) bool { return factors[i].Month < factors[j].Month })

	return &Result{Series: merged, Factors: factors}, nil
}
