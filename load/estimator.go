// Package load synthesizes the estimated hourly demand curve that the
// calibrator later reconciles against metered billing data.
package load

import (
	"math"
	"math/rand"
	"time"

	"github.com/angas/pvplan-go/series"
)

// Estimator yields an estimated demand in kVA for one hour. The
// pipeline assumes unity power factor, so a value is also the energy
// in kWh drawn during that hour. Implementations may be stochastic.
type Estimator interface {
	EstimateKVA(t time.Time) float64
}

// EstimatorFunc adapts a plain function to the Estimator interface,
// handy for table-driven estimators in tests.
type EstimatorFunc func(t time.Time) float64

func (f EstimatorFunc) EstimateKVA(t time.Time) float64 {
	return f(t)
}

// ProfileEstimator is a parametric facility profile: a constant floor
// with a half-sine bump across weekday business hours, plus optional
// random jitter.
type ProfileEstimator struct {
	BaseKVA float64
	PeakKVA float64
	Jitter  float64
	rng     *rand.Rand
}

func NewProfileEstimator(baseKVA, peakKVA, jitter float64, seed int64) *ProfileEstimator {
	return &ProfileEstimator{
		BaseKVA: baseKVA,
		PeakKVA: peakKVA,
		Jitter:  jitter,
		rng:     rand.New(rand.NewSource(seed)),
	}
}

func (e *ProfileEstimator) EstimateKVA(t time.Time) float64 {
	est := e.BaseKVA
	if series.IsActive(t) {
		// Half-sine over the active window, peaking at noon
		frac := float64(t.Hour()-6) / 12.0
		est += (e.PeakKVA - e.BaseKVA) * math.Sin(frac*math.Pi)
	}

	if e.Jitter > 0 {
		est *= 1 + e.Jitter*(2*e.rng.Float64()-1)
	}

	return math.Max(0, est)
}
