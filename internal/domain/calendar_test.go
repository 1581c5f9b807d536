package domain

import (
	"errors"
	"testing"
	"time"
)

func TestNewCalendarDate(t *testing.T) {
	tests := []struct {
		name    string
		y, m, d int
		wantErr bool
	}{
		{name: "ordinary date", y: 2021, m: 1, d: 5},
		{name: "leap day in leap year", y: 2020, m: 2, d: 29},
		{name: "leap day in century leap year", y: 2000, m: 2, d: 29},
		{name: "leap day in non-leap century", y: 1900, m: 2, d: 29, wantErr: true},
		{name: "leap day in non-leap year", y: 2021, m: 2, d: 29, wantErr: true},
		{name: "month 13", y: 2021, m: 13, d: 1, wantErr: true},
		{name: "month 0", y: 2021, m: 0, d: 1, wantErr: true},
		{name: "april 31", y: 2021, m: 4, d: 31, wantErr: true},
		{name: "day 0", y: 2021, m: 4, d: 0, wantErr: true},
		{name: "year 0", y: 0, m: 1, d: 1, wantErr: true},
		{name: "year 10000", y: 10000, m: 1, d: 1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewCalendarDate(tt.y, tt.m, tt.d)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidDate) {
					t.Fatalf("NewCalendarDate() error = %v, want ErrInvalidDate", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewCalendarDate() unexpected error: %v", err)
			}
			if got.Tuple() != [3]int{tt.y, tt.m, tt.d} {
				t.Errorf("Tuple() = %v, want %v", got.Tuple(), [3]int{tt.y, tt.m, tt.d})
			}
		})
	}
}

func TestCalendarDateAddDuration(t *testing.T) {
	tests := []struct {
		name   string
		anchor CalendarDate
		delta  RelativeDuration
		want   CalendarDate
	}{
		{
			name:   "month then days clamps to end of february",
			anchor: MustCalendarDate(2023, 1, 30),
			delta:  RelativeDuration{Months: 1, Days: 5},
			want:   MustCalendarDate(2023, 3, 5),
		},
		{
			name:   "jan 31 plus one month in leap year",
			anchor: MustCalendarDate(2020, 1, 31),
			delta:  RelativeDuration{Months: 1},
			want:   MustCalendarDate(2020, 2, 29),
		},
		{
			name:   "leap day plus one year",
			anchor: MustCalendarDate(2020, 2, 29),
			delta:  RelativeDuration{Years: 1},
			want:   MustCalendarDate(2021, 2, 28),
		},
		{
			name:   "leap day plus one day",
			anchor: MustCalendarDate(2020, 2, 29),
			delta:  Days(1),
			want:   MustCalendarDate(2020, 3, 1),
		},
		{
			name:   "negative months cross year boundary",
			anchor: MustCalendarDate(2021, 3, 31),
			delta:  RelativeDuration{Months: -4},
			want:   MustCalendarDate(2020, 11, 30),
		},
		{
			name:   "negative days",
			anchor: MustCalendarDate(2021, 1, 5),
			delta:  Days(-4),
			want:   MustCalendarDate(2021, 1, 1),
		},
		{
			name:   "zero duration",
			anchor: MustCalendarDate(2021, 6, 15),
			delta:  RelativeDuration{},
			want:   MustCalendarDate(2021, 6, 15),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.anchor.AddDuration(tt.delta)
			if err != nil {
				t.Fatalf("AddDuration() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("AddDuration() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestCalendarDateAddDurationOutOfRange(t *testing.T) {
	_, err := MustCalendarDate(9999, 12, 31).AddDuration(Days(1))
	if !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("AddDuration() error = %v, want ErrInvalidDate", err)
	}
}

func TestCalendarDateDaysUntil(t *testing.T) {
	a := MustCalendarDate(2020, 2, 27)
	b := MustCalendarDate(2020, 3, 1)

	if got := a.DaysUntil(b); got != 3 {
		t.Errorf("DaysUntil() = %d, want 3", got)
	}
	if got := b.DaysUntil(a); got != -3 {
		t.Errorf("DaysUntil() = %d, want -3", got)
	}
	if got := MustCalendarDate(1, 1, 1).DaysUntil(MustCalendarDate(9999, 12, 31)); got != 3652058 {
		t.Errorf("DaysUntil() across full range = %d, want 3652058", got)
	}
}

func TestCalendarDateBoundaries(t *testing.T) {
	d := MustCalendarDate(2021, 1, 5)

	if want := time.Date(2021, 1, 5, 0, 0, 0, 0, time.UTC); !d.Time().Equal(want) {
		t.Errorf("Time() = %v, want %v", d.Time(), want)
	}
	if want := time.Date(2021, 1, 5, 23, 59, 59, 999999000, time.UTC); !d.EndOfDay().Equal(want) {
		t.Errorf("EndOfDay() = %v, want %v", d.EndOfDay(), want)
	}
}

func TestDateOfNormalizesToUTC(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	ts := time.Date(2021, 1, 2, 3, 0, 0, 0, tokyo) // 2021-01-01T18:00Z

	if got := DateOf(ts); got != MustCalendarDate(2021, 1, 1) {
		t.Errorf("DateOf() = %s, want 2021-01-01", got)
	}
}

func TestCalendarDateJSON(t *testing.T) {
	d := MustCalendarDate(2021, 3, 9)

	data, err := d.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON() error: %v", err)
	}
	if string(data) != `"2021-03-09"` {
		t.Errorf("MarshalJSON() = %s, want \"2021-03-09\"", data)
	}

	var parsed CalendarDate
	if err := parsed.UnmarshalJSON([]byte(`"2021-02-30"`)); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("UnmarshalJSON(2021-02-30) error = %v, want ErrInvalidDate", err)
	}
}

func TestTimeWindowSwapsReversedBounds(t *testing.T) {
	early := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	late := time.Date(2021, 1, 2, 0, 0, 0, 0, time.UTC)

	w := NewTimeWindow(late, early)
	if !w.Start.Equal(early) || !w.End.Equal(late) {
		t.Fatalf("NewTimeWindow() = %v, want start %v end %v", w, early, late)
	}
	if !w.Contains(early) || !w.Contains(late) {
		t.Error("Contains() must include both bounds")
	}
}

func TestGlobalBoundsClamp(t *testing.T) {
	b := GlobalBounds{Start: MustCalendarDate(2021, 1, 3), End: MustCalendarDate(2021, 12, 31)}

	start, end := b.Clamp(MustCalendarDate(2021, 1, 1), MustCalendarDate(2021, 1, 5))
	if start != MustCalendarDate(2021, 1, 3) || end != MustCalendarDate(2021, 1, 5) {
		t.Errorf("Clamp() = %s..%s, want 2021-01-03..2021-01-05", start, end)
	}
}

func TestRelativeDurationIsPositive(t *testing.T) {
	tests := []struct {
		rd   RelativeDuration
		want bool
	}{
		{RelativeDuration{Days: 1}, true},
		{RelativeDuration{Months: 1}, true},
		{RelativeDuration{Years: 1, Days: 0}, true},
		{RelativeDuration{}, false},
		{RelativeDuration{Days: -1}, false},
		{RelativeDuration{Months: 1, Days: -1}, false},
	}

	for _, tt := range tests {
		if got := tt.rd.IsPositive(); got != tt.want {
			t.Errorf("%s.IsPositive() = %v, want %v", tt.rd, got, tt.want)
		}
	}
}
