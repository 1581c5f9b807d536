package domain

import (
	"fmt"
	"time"
)

// TimeWindow is a closed UTC interval [Start, End].
type TimeWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewTimeWindow normalises both ends to UTC and swaps them when reversed.
func NewTimeWindow(start, end time.Time) TimeWindow {
	start, end = start.UTC(), end.UTC()
	if end.Before(start) {
		start, end = end, start
	}
	return TimeWindow{Start: start, End: end}
}

// WindowForDates spans from midnight of the earlier date to the last
// microsecond of the later one.
func WindowForDates(a, b CalendarDate) TimeWindow {
	lo, hi := MinDate(a, b), MaxDate(a, b)
	return TimeWindow{Start: lo.Time(), End: hi.EndOfDay()}
}

// Contains reports whether t falls inside the window, bounds included.
func (w TimeWindow) Contains(t time.Time) bool {
	t = t.UTC()
	return !t.Before(w.Start) && !t.After(w.End)
}

func (w TimeWindow) StartDate() CalendarDate { return DateOf(w.Start) }

func (w TimeWindow) EndDate() CalendarDate { return DateOf(w.End) }

func (w TimeWindow) String() string {
	return fmt.Sprintf("[%s, %s]", w.Start.Format(time.RFC3339Nano), w.End.Format(time.RFC3339Nano))
}

// GlobalBounds are the configured earliest and latest dates any window may touch.
type GlobalBounds struct {
	Start CalendarDate `json:"start"`
	End   CalendarDate `json:"end"`
}

// Clamp restricts [start, end] to the bounds. The result may be reversed when
// the range lies outside the bounds; callers treat that as empty.
func (b GlobalBounds) Clamp(start, end CalendarDate) (CalendarDate, CalendarDate) {
	return MaxDate(start, b.Start), MinDate(end, b.End)
}

func (b GlobalBounds) String() string {
	return fmt.Sprintf("%s..%s", b.Start, b.End)
}

// WindowSequence holds the start date of each slice in ascending order.
type WindowSequence []CalendarDate

func (s WindowSequence) Tuples() [][3]int {
	out := make([][3]int, len(s))
	for i, d := range s {
		out[i] = d.Tuple()
	}
	return out
}

func (s WindowSequence) First() (CalendarDate, bool) {
	if len(s) == 0 {
		return CalendarDate{}, false
	}
	return s[0], true
}

func (s WindowSequence) Last() (CalendarDate, bool) {
	if len(s) == 0 {
		return CalendarDate{}, false
	}
	return s[len(s)-1], true
}
