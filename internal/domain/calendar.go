package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	MinYear = 1
	MaxYear = 9999

	dateLayout    = "2006-01-02"
	secondsPerDay = 24 * 60 * 60
)

// CalendarDate is a valid proleptic Gregorian date. The zero value is not a
// valid date; use NewCalendarDate.
type CalendarDate struct {
	year  int
	month time.Month
	day   int
}

// NewCalendarDate validates the triple and returns the date.
func NewCalendarDate(year, month, day int) (CalendarDate, error) {
	if year < MinYear || year > MaxYear {
		return CalendarDate{}, fmt.Errorf("year %d out of range [%d, %d]: %w", year, MinYear, MaxYear, ErrInvalidDate)
	}
	if month < 1 || month > 12 {
		return CalendarDate{}, fmt.Errorf("month %d out of range: %w", month, ErrInvalidDate)
	}
	if day < 1 || day > DaysInMonth(year, time.Month(month)) {
		return CalendarDate{}, fmt.Errorf("day %d out of range for %04d-%02d: %w", day, year, month, ErrInvalidDate)
	}

	return CalendarDate{year: year, month: time.Month(month), day: day}, nil
}

// MustCalendarDate panics on an invalid triple. Intended for constants and tests.
func MustCalendarDate(year, month, day int) CalendarDate {
	d, err := NewCalendarDate(year, month, day)
	if err != nil {
		panic(err)
	}
	return d
}

// DateOf returns the UTC calendar date of t.
func DateOf(t time.Time) CalendarDate {
	y, m, d := t.UTC().Date()
	return CalendarDate{year: y, month: m, day: d}
}

func ParseCalendarDate(s string) (CalendarDate, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return CalendarDate{}, fmt.Errorf("parse date %q: %w", s, ErrInvalidDate)
	}
	return NewCalendarDate(t.Year(), int(t.Month()), t.Day())
}

// DaysInMonth returns the length of the month in the given year.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func (d CalendarDate) Year() int { return d.year }

func (d CalendarDate) Month() time.Month { return d.month }

func (d CalendarDate) Day() int { return d.day }

func (d CalendarDate) IsZero() bool { return d.year == 0 }

// Tuple returns (year, month, day).
func (d CalendarDate) Tuple() [3]int { return [3]int{d.year, int(d.month), d.day} }

func (d CalendarDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.year, int(d.month), d.day)
}

func (d CalendarDate) Equal(o CalendarDate) bool { return d == o }

// Time returns midnight UTC of the date.
func (d CalendarDate) Time() time.Time {
	return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, time.UTC)
}

// EndOfDay returns 23:59:59.999999 UTC of the date.
func (d CalendarDate) EndOfDay() time.Time {
	return time.Date(d.year, d.month, d.day, 23, 59, 59, 999999000, time.UTC)
}

// Compare returns -1, 0 or +1.
func (d CalendarDate) Compare(o CalendarDate) int {
	switch {
	case d.year != o.year:
		return cmpInt(d.year, o.year)
	case d.month != o.month:
		return cmpInt(int(d.month), int(o.month))
	default:
		return cmpInt(d.day, o.day)
	}
}

func (d CalendarDate) Before(o CalendarDate) bool { return d.Compare(o) < 0 }

func (d CalendarDate) After(o CalendarDate) bool { return d.Compare(o) > 0 }

// DaysUntil returns the number of days from d to o (negative when o is earlier).
func (d CalendarDate) DaysUntil(o CalendarDate) int {
	return int((o.Time().Unix() - d.Time().Unix()) / secondsPerDay)
}

// AddDuration applies a relative duration. Years and months move first and the
// day of month is clamped to the target month, then days are added.
func (d CalendarDate) AddDuration(rd RelativeDuration) (CalendarDate, error) {
	monthIndex := d.year*12 + int(d.month) - 1 + rd.Years*12 + rd.Months
	year := floorDiv(monthIndex, 12)
	month := time.Month(monthIndex - year*12 + 1)

	if year < MinYear || year > MaxYear {
		return CalendarDate{}, fmt.Errorf("%s + %s leaves supported range: %w", d, rd, ErrInvalidDate)
	}

	day := min(d.day, DaysInMonth(year, month))
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC).AddDate(0, 0, rd.Days)
	if t.Year() < MinYear || t.Year() > MaxYear {
		return CalendarDate{}, fmt.Errorf("%s + %s leaves supported range: %w", d, rd, ErrInvalidDate)
	}

	return DateOf(t), nil
}

// AddDays is AddDuration restricted to whole days.
func (d CalendarDate) AddDays(n int) (CalendarDate, error) {
	return d.AddDuration(RelativeDuration{Days: n})
}

func (d CalendarDate) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *CalendarDate) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("calendar date must be a string: %w", ErrInvalidDate)
	}
	parsed, err := ParseCalendarDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// FirstCalendarDate is 0001-01-01.
func FirstCalendarDate() CalendarDate {
	return CalendarDate{year: MinYear, month: time.January, day: 1}
}

// LastCalendarDate is 9999-12-31.
func LastCalendarDate() CalendarDate {
	return CalendarDate{year: MaxYear, month: time.December, day: 31}
}

// MinDate returns the earlier of a and b.
func MinDate(a, b CalendarDate) CalendarDate {
	if b.Before(a) {
		return b
	}
	return a
}

// MaxDate returns the later of a and b.
func MaxDate(a, b CalendarDate) CalendarDate {
	if b.After(a) {
		return b
	}
	return a
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
