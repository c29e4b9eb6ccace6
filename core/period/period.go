// Package period decomposes half-open [start, end) date ranges into the
// sub-periods of a cost/usage query and computes instance-lifetime overlap.
// Periods for a given range are contiguous, non-overlapping, and cover the
// range clipped to whole days or months. Callers are responsible for
// start <= end; the decomposer does not defend against inverted ranges.
package period

import "time"

// Period is a half-open [Start, End) sub-range of a query
type Period struct {
	Start time.Time
	End   time.Time
}

// Days returns the number of whole days spanned by the period
func (p Period) Days() float64 {
	return p.End.Sub(p.Start).Hours() / 24
}

// Days emits each whole day [d, d+1) for d in [start, end), exclusive of
// end.
func Days(start, end time.Time) []Period {
	var periods []Period
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		periods = append(periods, Period{Start: d, End: d.AddDate(0, 0, 1)})
	}
	return periods
}

// Months emits each calendar-month sub-range clipped to [start, end). The
// first and last periods may be partial months.
func Months(start, end time.Time) []Period {
	var periods []Period
	cur := start
	for cur.Before(end) {
		monthEnd := time.Date(cur.Year(), cur.Month()+1, 1, 0, 0, 0, 0, cur.Location())
		if monthEnd.After(end) {
			monthEnd = end
		}
		periods = append(periods, Period{Start: cur, End: monthEnd})
		cur = monthEnd
	}
	return periods
}

// HoursOverlap computes the hours an instance launched at launch was alive
// within [periodStart, periodEnd), additionally clipped to the reference
// instant clip (zero time means no clipping). The instance does not exist
// before launch; an instance launched after periodEnd overlaps zero hours,
// never a negative amount.
func HoursOverlap(launch, periodStart, periodEnd, clip time.Time) float64 {
	end := periodEnd
	if !clip.IsZero() && clip.Before(end) {
		end = clip
	}
	start := periodStart
	if launch.After(start) {
		start = launch
	}
	if !end.After(start) {
		return 0
	}
	return end.Sub(start).Hours()
}
