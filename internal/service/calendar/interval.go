package calendar

import (
	"github.com/KasumiMercury/patient-window-scheduler/internal/domain"
)

// IntervalBounds are the two ends of a single resolved window.
type IntervalBounds struct {
	Start domain.CalendarDate
	End   domain.CalendarDate
}

// Components returns (start_year, start_month, end_year, end_month, start_day, end_day).
func (b IntervalBounds) Components() (int, int, int, int, int, int) {
	return b.Start.Year(), int(b.Start.Month()), b.End.Year(), int(b.End.Month()), b.Start.Day(), b.End.Day()
}

// Window returns the bounds as a UTC time window, earlier date first.
func (b IntervalBounds) Window() domain.TimeWindow {
	return domain.WindowForDates(b.Start, b.End)
}

// ResolveInterval computes anchor + duration. The duration may be zero or
// negative; End is then on or before Start.
func ResolveInterval(anchor domain.CalendarDate, d domain.RelativeDuration) (IntervalBounds, error) {
	end, err := anchor.AddDuration(d)
	if err != nil {
		return IntervalBounds{}, err
	}
	return IntervalBounds{Start: anchor, End: end}, nil
}

// ResolveWindow is ResolveInterval followed by Window.
func ResolveWindow(anchor domain.CalendarDate, d domain.RelativeDuration) (domain.TimeWindow, error) {
	b, err := ResolveInterval(anchor, d)
	if err != nil {
		return domain.TimeWindow{}, err
	}
	return b.Window(), nil
}
