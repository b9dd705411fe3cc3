package series

import (
	"errors"
	"testing"
	"time"

	"github.com/angas/pvplan-go/hours"
)

func fullYear(year int, value float64) Hourly {
	ts := hours.Year(year, time.UTC)
	s := make(Hourly, 0, len(ts))
	for _, t := range ts {
		s = append(s, Point{When: t, Value: value})
	}
	return s
}

func TestValidateCompleteYear(t *testing.T) {
	if err := fullYear(2023, 1).Validate(2023); err != nil {
		t.Errorf("complete 2023 series should validate, got %v", err)
	}
	if err := fullYear(2024, 1).Validate(2024); err != nil {
		t.Errorf("complete leap 2024 series should validate, got %v", err)
	}
}

func TestValidateIncomplete(t *testing.T) {
	s := fullYear(2023, 1)

	tests := []struct {
		name   string
		mangle func(Hourly) Hourly
	}{
		{"missing hour", func(s Hourly) Hourly { return append(s[:100:100], s[101:]...) }},
		{
			"duplicate hour",
			func(s Hourly) Hourly {
				out := append(Hourly{}, s[:101]...)
				out = append(out, s[100])
				return append(out, s[101:len(s)-1]...)
			},
		},
		{"empty", func(s Hourly) Hourly { return nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.mangle(s).Validate(2023)
			if err == nil {
				t.Fatal("expected an error")
			}
			var incomplete *IncompleteSeriesError
			if !errors.As(err, &incomplete) {
				t.Errorf("expected IncompleteSeriesError, got %T", err)
			}
		})
	}
}

func TestPartitionCoversInput(t *testing.T) {
	s := fullYear(2023, 1)
	active, inactive := Partition(s)

	if len(active)+len(inactive) != len(s) {
		t.Fatalf("partition dropped hours: %d + %d != %d", len(active), len(inactive), len(s))
	}

	seen := make(map[time.Time]bool, len(s))
	for _, p := range active {
		if !IsActive(p.When) {
			t.Errorf("%v in active bucket but not an active hour", p.When)
		}
		seen[p.When] = true
	}
	for _, p := range inactive {
		if IsActive(p.When) {
			t.Errorf("%v in inactive bucket but is an active hour", p.When)
		}
		if seen[p.When] {
			t.Errorf("%v present in both buckets", p.When)
		}
	}
}

func TestIsActive(t *testing.T) {
	tests := []struct {
		name string
		when time.Time
		want bool
	}{
		{"monday 06:00", time.Date(2023, 1, 2, 6, 0, 0, 0, time.UTC), true},
		{"monday 17:00", time.Date(2023, 1, 2, 17, 0, 0, 0, time.UTC), true},
		{"monday 18:00", time.Date(2023, 1, 2, 18, 0, 0, 0, time.UTC), false},
		{"monday 05:00", time.Date(2023, 1, 2, 5, 0, 0, 0, time.UTC), false},
		{"saturday noon", time.Date(2023, 1, 7, 12, 0, 0, 0, time.UTC), false},
		{"sunday noon", time.Date(2023, 1, 8, 12, 0, 0, 0, time.UTC), false},
		{"friday 12:00", time.Date(2023, 1, 6, 12, 0, 0, 0, time.UTC), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsActive(tt.when); got != tt.want {
				t.Errorf("IsActive(%v) = %v, want %v", tt.when, got, tt.want)
			}
		})
	}
}

func TestMergeRestoresOrder(t *testing.T) {
	s := fullYear(2023, 1)
	active, inactive := Partition(s)
	merged := Merge(active, inactive)

	if err := merged.Validate(2023); err != nil {
		t.Fatalf("merged partition should be a complete year again: %v", err)
	}
	for i, p := range merged {
		if !p.When.Equal(s[i].When) {
			t.Fatalf("merge broke ordering at index %d", i)
		}
	}
}

func TestMonthTotals(t *testing.T) {
	s := fullYear(2023, 2)
	totals := s.MonthTotals()
	if len(totals) != 12 {
		t.Fatalf("expected 12 months, got %d", len(totals))
	}
	// January 2023 has 31 days * 24 hours * 2.0
	if got, want := totals[time.January], 31*24*2.0; got != want {
		t.Errorf("january total = %f, want %f", got, want)
	}
	if got, want := totals[time.February], 28*24*2.0; got != want {
		t.Errorf("february total = %f, want %f", got, want)
	}
}
