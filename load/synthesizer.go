package load

import (
	"math"
	"time"

	"github.com/angas/pvplan-go/hours"
	"github.com/angas/pvplan-go/series"
)

// Synthesize builds the estimated load series for every hour of the
// reference year. The estimator may be stochastic but the synthesizer
// never drops or reorders hours; negative estimates are rejected by
// clamping to zero since demand can't be negative.
func Synthesize(year int, loc *time.Location, est Estimator) (series.Hourly, error) {
	ts := hours.Year(year, loc)
	s := make(series.Hourly, 0, len(ts))
	for _, t := range ts {
		s = append(s, series.Point{When: t, Value: math.Max(0, est.EstimateKVA(t))})
	}

	if err := s.Validate(year); err != nil {
		return nil, err
	}
	return s, nil
}
