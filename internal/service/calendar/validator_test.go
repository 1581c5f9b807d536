package calendar

import (
	"errors"
	"testing"

	"github.com/KasumiMercury/patient-window-scheduler/internal/domain"
)

func TestValidateComponents(t *testing.T) {
	tests := []struct {
		name      string
		in        [6]any
		want      [6]string
		wantErr   bool
		wantWhich string
	}{
		{
			name: "integers are padded",
			in:   [6]any{2021, 1, 5, 2021, 12, 31},
			want: [6]string{"2021", "01", "05", "2021", "12", "31"},
		},
		{
			name: "digit strings with whitespace",
			in:   [6]any{" 2020", "2 ", "29", "0999", "3", "1"},
			want: [6]string{"2020", "02", "29", "0999", "03", "01"},
		},
		{
			name: "mixed integer kinds",
			in:   [6]any{int64(2021), int32(1), uint8(1), int16(2021), uint(2), int8(28)},
			want: [6]string{"2021", "01", "01", "2021", "02", "28"},
		},
		{
			name:      "month 13 in start",
			in:        [6]any{2021, 13, 1, 2021, 1, 1},
			wantErr:   true,
			wantWhich: WhichStart,
		},
		{
			name:      "april 31 in end",
			in:        [6]any{2021, 1, 1, 2021, 4, 31},
			wantErr:   true,
			wantWhich: WhichEnd,
		},
		{
			name:      "feb 29 in non-leap year",
			in:        [6]any{2021, 2, 29, 2021, 3, 1},
			wantErr:   true,
			wantWhich: WhichStart,
		},
		{
			name:      "non-numeric string",
			in:        [6]any{2021, 1, 1, "twenty", 1, 1},
			wantErr:   true,
			wantWhich: WhichEnd,
		},
		{
			name:      "signed string",
			in:        [6]any{"-2021", 1, 1, 2021, 1, 1},
			wantErr:   true,
			wantWhich: WhichStart,
		},
		{
			name:      "float is rejected",
			in:        [6]any{2021, 1.5, 1, 2021, 1, 1},
			wantErr:   true,
			wantWhich: WhichStart,
		},
		{
			name:      "nil component",
			in:        [6]any{2021, 1, 1, 2021, 1, nil},
			wantErr:   true,
			wantWhich: WhichEnd,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateComponents(tt.in[0], tt.in[1], tt.in[2], tt.in[3], tt.in[4], tt.in[5])
			if tt.wantErr {
				if !errors.Is(err, domain.ErrInvalidDate) {
					t.Fatalf("ValidateComponents() error = %v, want ErrInvalidDate", err)
				}
				var dateErr *domain.DateError
				if !errors.As(err, &dateErr) {
					t.Fatalf("ValidateComponents() error type = %T, want *domain.DateError", err)
				}
				if dateErr.Which != tt.wantWhich {
					t.Errorf("DateError.Which = %q, want %q", dateErr.Which, tt.wantWhich)
				}
				return
			}
			if err != nil {
				t.Fatalf("ValidateComponents() unexpected error: %v", err)
			}
			if got.Strings() != tt.want {
				t.Errorf("ValidateComponents() = %v, want %v", got.Strings(), tt.want)
			}
		})
	}
}

func TestValidateComponentsRoundTrip(t *testing.T) {
	for _, date := range []domain.CalendarDate{
		domain.MustCalendarDate(1, 1, 1),
		domain.MustCalendarDate(2000, 2, 29),
		domain.MustCalendarDate(2023, 11, 30),
		domain.MustCalendarDate(9999, 12, 31),
	} {
		first, err := ValidateComponents(date.Year(), int(date.Month()), date.Day(), date.Year(), int(date.Month()), date.Day())
		if err != nil {
			t.Fatalf("ValidateComponents(%s) unexpected error: %v", date, err)
		}
		s := first.Strings()
		second, err := ValidateComponents(s[0], s[1], s[2], s[3], s[4], s[5])
		if err != nil {
			t.Fatalf("ValidateComponents(%v) unexpected error: %v", s, err)
		}
		if second.Strings() != s {
			t.Errorf("round trip of %s = %v, want %v", date, second.Strings(), s)
		}
		if second.Start != date || second.End != date {
			t.Errorf("round trip dates = %s..%s, want %s", second.Start, second.End, date)
		}
	}
}

func TestValidateDate(t *testing.T) {
	d, err := ValidateDate("2024", "02", "29")
	if err != nil {
		t.Fatalf("ValidateDate() unexpected error: %v", err)
	}
	if d != domain.MustCalendarDate(2024, 2, 29) {
		t.Errorf("ValidateDate() = %s, want 2024-02-29", d)
	}

	if _, err := ValidateDate(2023, 2, 29); !errors.Is(err, domain.ErrInvalidDate) {
		t.Errorf("ValidateDate(2023-02-29) error = %v, want ErrInvalidDate", err)
	}
}
