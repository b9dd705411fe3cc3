package load

import (
	"testing"
	"time"
)

func TestSynthesizeCompleteYear(t *testing.T) {
	est := EstimatorFunc(func(time.Time) float64 { return 5 })

	s, err := Synthesize(2023, time.UTC, est)
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if len(s) != 8760 {
		t.Fatalf("expected 8760 hours, got %d", len(s))
	}
	if err := s.Validate(2023); err != nil {
		t.Errorf("synthesized series should validate: %v", err)
	}
	for _, p := range s {
		if p.Value != 5 {
			t.Fatalf("constant estimator should give constant series, got %f at %v", p.Value, p.When)
		}
	}
}

func TestSynthesizeLeapYear(t *testing.T) {
	s, err := Synthesize(2024, time.UTC, EstimatorFunc(func(time.Time) float64 { return 1 }))
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if len(s) != 8784 {
		t.Errorf("expected 8784 hours for leap year, got %d", len(s))
	}
}

func TestSynthesizeClampsNegativeEstimates(t *testing.T) {
	s, err := Synthesize(2023, time.UTC, EstimatorFunc(func(time.Time) float64 { return -3 }))
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	for _, p := range s {
		if p.Value != 0 {
			t.Fatalf("negative estimates must clamp to zero, got %f", p.Value)
		}
	}
}

func TestProfileEstimatorShape(t *testing.T) {
	est := NewProfileEstimator(10, 40, 0, 1)

	monday := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
	night := est.EstimateKVA(monday)
	if night != 10 {
		t.Errorf("overnight estimate should equal base, got %f", night)
	}

	noon := est.EstimateKVA(monday.Add(12 * time.Hour))
	if noon <= night {
		t.Errorf("weekday noon (%f) should exceed overnight (%f)", noon, night)
	}

	saturday := time.Date(2023, 1, 7, 12, 0, 0, 0, time.UTC)
	if got := est.EstimateKVA(saturday); got != 10 {
		t.Errorf("weekend estimate should equal base, got %f", got)
	}
}

func TestProfileEstimatorJitterStaysNonNegative(t *testing.T) {
	est := NewProfileEstimator(1, 2, 1, 42)
	for _, when := range []time.Time{
		time.Date(2023, 1, 2, 3, 0, 0, 0, time.UTC),
		time.Date(2023, 1, 2, 12, 0, 0, 0, time.UTC),
		time.Date(2023, 1, 8, 20, 0, 0, 0, time.UTC),
	} {
		for i := 0; i < 100; i++ {
			if v := est.EstimateKVA(when); v < 0 {
				t.Fatalf("estimate went negative: %f", v)
			}
		}
	}
}

func TestProfileEstimatorActiveBoundaries(t *testing.T) {
	est := NewProfileEstimator(10, 40, 0, 1)
	monday := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)

	// 06:00 sits at the start of the half-sine, still base level
	if got := est.EstimateKVA(monday.Add(6 * time.Hour)); got != 10 {
		t.Errorf("06:00 estimate = %f, want base 10", got)
	}
	// 18:00 is outside the active window
	if got := est.EstimateKVA(monday.Add(18 * time.Hour)); got != 10 {
		t.Errorf("18:00 estimate = %f, want base 10", got)
	}
}
