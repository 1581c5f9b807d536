package domain

import "fmt"

// RelativeDuration is a calendar-aware signed offset.
type RelativeDuration struct {
	Years  int `json:"years"`
	Months int `json:"months"`
	Days   int `json:"days"`
}

// Days returns a duration of n days.
func Days(n int) RelativeDuration {
	return RelativeDuration{Days: n}
}

func (rd RelativeDuration) IsZero() bool {
	return rd.Years == 0 && rd.Months == 0 && rd.Days == 0
}

// IsPositive reports whether every field is non-negative and at least one is
// non-zero, i.e. adding the duration always moves a date forward.
func (rd RelativeDuration) IsPositive() bool {
	return rd.Years >= 0 && rd.Months >= 0 && rd.Days >= 0 && !rd.IsZero()
}

// DaysOnly reports whether the duration is a fixed number of days.
func (rd RelativeDuration) DaysOnly() bool {
	return rd.Years == 0 && rd.Months == 0
}

func (rd RelativeDuration) Negate() RelativeDuration {
	return RelativeDuration{Years: -rd.Years, Months: -rd.Months, Days: -rd.Days}
}

func (rd RelativeDuration) String() string {
	return fmt.Sprintf("%dy%dm%dd", rd.Years, rd.Months, rd.Days)
}

// Span is the total extent requested for a window sequence.
type Span struct {
	Years  int `json:"years"`
	Months int `json:"months"`
	Days   int `json:"days"`
}

// IsNegative reports whether any component is below zero.
func (s Span) IsNegative() bool {
	return s.Years < 0 || s.Months < 0 || s.Days < 0
}

func (s Span) Duration() RelativeDuration {
	return RelativeDuration{Years: s.Years, Months: s.Months, Days: s.Days}
}
