// Package series holds the hourly time series type shared by every
// pipeline stage. A series is an immutable artifact: stages derive new
// series rather than editing in place.
package series

import (
	"fmt"
	"time"

	"github.com/angas/pvplan-go/hours"
)

type Point struct {
	When  time.Time
	Value float64
}

// Hourly is an ordered sequence of hourly points, one per hour,
// strictly increasing, no gaps.
type Hourly []Point

// IncompleteSeriesError reports a series that does not cover every
// hour of its reference year exactly once.
type IncompleteSeriesError struct {
	Year   int
	Want   int
	Got    int
	Detail string
}

func (e *IncompleteSeriesError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("incomplete hourly series for %d: %s", e.Year, e.Detail)
	}
	return fmt.Sprintf("incomplete hourly series for %d: want %d hours, got %d", e.Year, e.Want, e.Got)
}

// Validate checks that the series covers every hour of the year
// exactly once, in order.
func (s Hourly) Validate(year int) error {
	want := hours.InYear(year)
	if len(s) != want {
		return &IncompleteSeriesError{Year: year, Want: want, Got: len(s)}
	}
	for i, p := range s {
		if p.When.Year() != year {
			return &IncompleteSeriesError{
				Year: year, Want: want, Got: len(s),
				Detail: fmt.Sprintf("hour %s outside reference year", p.When.Format(time.RFC3339)),
			}
		}
		if i > 0 && !s[i].When.Equal(s[i-1].When.Add(time.Hour)) {
			return &IncompleteSeriesError{
				Year: year, Want: want, Got: len(s),
				Detail: fmt.Sprintf("gap or duplicate at %s", p.When.Format(time.RFC3339)),
			}
		}
	}
	return nil
}

func (s Hourly) Total() float64 {
	sum := 0.0
	for _, p := range s {
		sum += p.Value
	}
	return sum
}

// MonthTotals sums the series per calendar month.
func (s Hourly) MonthTotals() map[time.Month]float64 {
	totals := make(map[time.Month]float64, 12)
	for _, p := range s {
		totals[p.When.Month()] += p.Value
	}
	return totals
}

// Scale returns a new series with every value multiplied by k.
func (s Hourly) Scale(k float64) Hourly {
	out := make(Hourly, len(s))
	for i, p := range s {
		out[i] = Point{When: p.When, Value: p.Value * k}
	}
	return out
}
