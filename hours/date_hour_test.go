package hours

import (
	"testing"
	"time"
)

func TestDateHourString(t *testing.T) {
	dh := DateHour{Date: "2023-01-01", Hour: 5}
	expected := "2023-01-01 05"
	if s := dh.String(); s != expected {
		t.Errorf("String() expected %q, got %q", expected, s)
	}
}

func TestDateHourIsoString(t *testing.T) {
	dh := DateHour{Date: "2023-01-01", Hour: 15}
	expected := "2023-01-01T15:00:00Z"
	if s := dh.IsoString(); s != expected {
		t.Errorf("IsoString() expected %q, got %q", expected, s)
	}
}

func TestDateHourAdd(t *testing.T) {
	tests := []struct {
		name     string
		input    DateHour
		addHours int
		expected DateHour
	}{
		{
			name:     "add within same day",
			input:    DateHour{Date: "2023-01-01", Hour: 10},
			addHours: 2,
			expected: DateHour{Date: "2023-01-01", Hour: 12},
		},
		{
			name:     "add crossing midnight",
			input:    DateHour{Date: "2023-01-01", Hour: 23},
			addHours: 2,
			expected: DateHour{Date: "2023-01-02", Hour: 1},
		},
		{
			name:     "add negative hours (subtract)",
			input:    DateHour{Date: "2023-01-01", Hour: 1},
			addHours: -2,
			expected: DateHour{Date: "2022-12-31", Hour: 23},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.input.Add(tt.addHours)
			if result != tt.expected {
				t.Errorf("Add(%d) expected %+v, got %+v", tt.addHours, tt.expected, result)
			}
		})
	}
}

func TestFromTime(t *testing.T) {
	tm := time.Date(2023, time.January, 1, 15, 30, 0, 0, time.UTC)
	dh := FromTime(tm)
	expected := DateHour{Date: "2023-01-01", Hour: 15}
	if dh != expected {
		t.Errorf("FromTime() expected %+v, got %+v", expected, dh)
	}

	var zero time.Time
	if !FromTime(zero).IsZero() {
		t.Errorf("FromTime() with zero time expected a zero DateHour")
	}
}

func TestInYear(t *testing.T) {
	if got := InYear(2023); got != 8760 {
		t.Errorf("InYear(2023) expected 8760, got %d", got)
	}
	if got := InYear(2024); got != 8784 {
		t.Errorf("InYear(2024) expected 8784, got %d", got)
	}
}

func TestYear(t *testing.T) {
	ts := Year(2023, time.UTC)
	if len(ts) != 8760 {
		t.Fatalf("Year(2023) expected 8760 hours, got %d", len(ts))
	}
	if !ts[0].Equal(time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("first hour expected midnight Jan 1, got %v", ts[0])
	}
	last := time.Date(2023, time.December, 31, 23, 0, 0, 0, time.UTC)
	if !ts[len(ts)-1].Equal(last) {
		t.Errorf("last hour expected %v, got %v", last, ts[len(ts)-1])
	}
	for i := 1; i < len(ts); i++ {
		if ts[i].Sub(ts[i-1]) != time.Hour {
			t.Fatalf("gap between %v and %v", ts[i-1], ts[i])
		}
	}
}
