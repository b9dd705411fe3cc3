package series

import (
	"sort"
	"time"
)

// Active hours are weekday business hours, 06:00 inclusive to 18:00
// exclusive, Monday through Friday. This is fixed billing policy for
// the facilities being modeled, not configuration.
const (
	activeFromHour = 6
	activeToHour   = 18
)

// IsActive reports whether a timestamp falls in the peak bucket.
func IsActive(t time.Time) bool {
	wd := t.Weekday()
	if wd == time.Saturday || wd == time.Sunday {
		return false
	}
	h := t.Hour()
	return h >= activeFromHour && h < activeToHour
}

// Partition splits a series into the peak (active) and off-peak
// buckets. The two outputs are disjoint and together cover the input.
func Partition(s Hourly) (active, inactive Hourly) {
	for _, p := range s {
		if IsActive(p.When) {
			active = append(active, p)
		} else {
			inactive = append(inactive, p)
		}
	}
	return active, inactive
}

// Merge combines two disjoint series back into timestamp order.
func Merge(a, b Hourly) Hourly {
	out := make(Hourly, 0, len(a)+len(b))
	out = append(out, a...)
	out = append(out, b...)
	sort.Slice(out, func(i, j int) bool {
		return out[i].When.Before(out[j].When)
	})
	return out
}
