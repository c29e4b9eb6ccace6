package period

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDaysCoverRangeExactly(t *testing.T) {
	start := date(2025, 9, 1)
	end := date(2025, 9, 4)

	days := Days(start, end)
	if len(days) != 3 {
		t.Fatalf("expected 3 days, got %d", len(days))
	}

	// Contiguous, non-overlapping, union equals [start, end)
	if !days[0].Start.Equal(start) {
		t.Errorf("first day starts at %v, want %v", days[0].Start, start)
	}
	if !days[len(days)-1].End.Equal(end) {
		t.Errorf("last day ends at %v, want %v", days[len(days)-1].End, end)
	}
	for i := 1; i < len(days); i++ {
		if !days[i].Start.Equal(days[i-1].End) {
			t.Errorf("gap between day %d and %d", i-1, i)
		}
	}
}

func TestDaysEmptyRange(t *testing.T) {
	if got := Days(date(2025, 9, 1), date(2025, 9, 1)); len(got) != 0 {
		t.Errorf("empty range produced %d days", len(got))
	}
}

func TestMonthsClippedToRange(t *testing.T) {
	start := date(2025, 9, 15)
	end := date(2025, 11, 10)

	months := Months(start, end)
	if len(months) != 3 {
		t.Fatalf("expected 3 month periods, got %d", len(months))
	}

	// Partial first and last months clip to the query range
	if !months[0].Start.Equal(start) || !months[0].End.Equal(date(2025, 10, 1)) {
		t.Errorf("first period %v..%v", months[0].Start, months[0].End)
	}
	if !months[2].Start.Equal(date(2025, 11, 1)) || !months[2].End.Equal(end) {
		t.Errorf("last period %v..%v", months[2].Start, months[2].End)
	}
}

func TestMonthsSingleWholeMonth(t *testing.T) {
	months := Months(date(2025, 9, 1), date(2025, 10, 1))
	if len(months) != 1 {
		t.Fatalf("expected 1 period, got %d", len(months))
	}
	if months[0].Days() != 30 {
		t.Errorf("September has %v days", months[0].Days())
	}
}

func TestHoursOverlapFullDay(t *testing.T) {
	launch := date(2025, 8, 1)
	got := HoursOverlap(launch, date(2025, 9, 1), date(2025, 9, 2), time.Time{})
	if got != 24 {
		t.Errorf("full-day overlap = %v, want 24", got)
	}
}

func TestHoursOverlapLaunchInsidePeriod(t *testing.T) {
	launch := time.Date(2025, 9, 1, 18, 0, 0, 0, time.UTC)
	got := HoursOverlap(launch, date(2025, 9, 1), date(2025, 9, 2), time.Time{})
	if got != 6 {
		t.Errorf("partial overlap = %v, want 6", got)
	}
}

func TestHoursOverlapLaunchAfterPeriodIsZero(t *testing.T) {
	// Launched after periodEnd: zero overlap, never negative
	launch := date(2025, 9, 10)
	got := HoursOverlap(launch, date(2025, 9, 1), date(2025, 9, 2), time.Time{})
	if got != 0 {
		t.Errorf("overlap = %v, want 0", got)
	}
}

func TestHoursOverlapClipped(t *testing.T) {
	launch := date(2025, 8, 1)
	clip := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
	got := HoursOverlap(launch, date(2025, 9, 1), date(2025, 9, 2), clip)
	if got != 12 {
		t.Errorf("clipped overlap = %v, want 12", got)
	}
}

func TestHoursOverlapClipBeforePeriodIsZero(t *testing.T) {
	launch := date(2025, 8, 1)
	clip := date(2025, 8, 15)
	got := HoursOverlap(launch, date(2025, 9, 1), date(2025, 9, 2), clip)
	if got != 0 {
		t.Errorf("overlap = %v, want 0", got)
	}
}
