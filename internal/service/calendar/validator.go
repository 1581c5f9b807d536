// Package calendar validates raw date components and resolves single windows
// from an anchor date and a relative duration.
package calendar

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/KasumiMercury/patient-window-scheduler/internal/domain"
)

const (
	WhichStart = "start"
	WhichEnd   = "end"
)

// ValidatedDates is the canonical form of a start/end component set.
type ValidatedDates struct {
	StartYear  string `json:"start_year"`
	StartMonth string `json:"start_month"`
	StartDay   string `json:"start_day"`
	EndYear    string `json:"end_year"`
	EndMonth   string `json:"end_month"`
	EndDay     string `json:"end_day"`

	Start domain.CalendarDate `json:"-"`
	End   domain.CalendarDate `json:"-"`
}

// Strings returns the six padded components in start-then-end order.
func (v ValidatedDates) Strings() [6]string {
	return [6]string{v.StartYear, v.StartMonth, v.StartDay, v.EndYear, v.EndMonth, v.EndDay}
}

// ValidateComponents coerces each component to an integer and checks that both
// triples are real calendar dates. Components may be Go integers or strings of
// decimal digits.
func ValidateComponents(startYear, startMonth, startDay, endYear, endMonth, endDay any) (ValidatedDates, error) {
	start, err := validateTriple(WhichStart, startYear, startMonth, startDay)
	if err != nil {
		return ValidatedDates{}, err
	}
	end, err := validateTriple(WhichEnd, endYear, endMonth, endDay)
	if err != nil {
		return ValidatedDates{}, err
	}

	sy, sm, sd := padded(start)
	ey, em, ed := padded(end)

	return ValidatedDates{
		StartYear:  sy,
		StartMonth: sm,
		StartDay:   sd,
		EndYear:    ey,
		EndMonth:   em,
		EndDay:     ed,
		Start:      start,
		End:        end,
	}, nil
}

// ValidateDate validates a single triple; failures are tagged "start".
func ValidateDate(year, month, day any) (domain.CalendarDate, error) {
	return validateTriple(WhichStart, year, month, day)
}

func validateTriple(which string, year, month, day any) (domain.CalendarDate, error) {
	parts := [3]int{}
	for i, raw := range []any{year, month, day} {
		v, err := toInt(raw)
		if err != nil {
			return domain.CalendarDate{}, &domain.DateError{Which: which, Value: fmt.Sprintf("%v", raw), Err: err}
		}
		parts[i] = v
	}

	d, err := domain.NewCalendarDate(parts[0], parts[1], parts[2])
	if err != nil {
		return domain.CalendarDate{}, &domain.DateError{
			Which: which,
			Value: fmt.Sprintf("%d-%d-%d", parts[0], parts[1], parts[2]),
			Err:   err,
		}
	}
	return d, nil
}

func toInt(v any) (int, error) {
	switch val := v.(type) {
	case int:
		return val, nil
	case int8:
		return int(val), nil
	case int16:
		return int(val), nil
	case int32:
		return int(val), nil
	case int64:
		return int(val), nil
	case uint8:
		return int(val), nil
	case uint16:
		return int(val), nil
	case uint32:
		return int(val), nil
	case uint64:
		return int(val), nil
	case uint:
		return int(val), nil
	case string:
		s := strings.TrimSpace(val)
		if s == "" || !isDigits(s) {
			return 0, fmt.Errorf("%q is not a decimal integer: %w", val, domain.ErrInvalidDate)
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return 0, fmt.Errorf("%q: %w", val, domain.ErrInvalidDate)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("unsupported component type %T: %w", v, domain.ErrInvalidDate)
	}
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func padded(d domain.CalendarDate) (string, string, string) {
	return fmt.Sprintf("%04d", d.Year()), fmt.Sprintf("%02d", int(d.Month())), fmt.Sprintf("%02d", d.Day())
}
