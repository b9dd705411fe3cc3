package hours

import "time"

// Year enumerates every whole hour of a calendar year in order,
// 8760 entries, or 8784 on leap years.
func Year(year int, loc *time.Location) []time.Time {
	if loc == nil {
		loc = time.UTC
	}
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
	end := start.AddDate(1, 0, 0)

	ts := make([]time.Time, 0, InYear(year))
	for t := start; t.Before(end); t = t.Add(time.Hour) {
		ts = append(ts, t)
	}
	return ts
}

// InYear returns the number of hours in a calendar year.
func InYear(year int) int {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return int(start.AddDate(1, 0, 0).Sub(start) / time.Hour)
}
