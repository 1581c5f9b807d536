// Package rangefilter cuts a record table down to the rows whose timestamp
// falls inside a window.
package rangefilter

import (
	"context"
	"log/slog"
	"maps"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/KasumiMercury/patient-window-scheduler/internal/domain"
	"github.com/KasumiMercury/patient-window-scheduler/internal/observability/tracing"
	"github.com/KasumiMercury/patient-window-scheduler/internal/service/calendar"
)

type Options struct {
	Column string
	// DropMissing reports rows without a usable timestamp. They are never
	// part of the result either way.
	DropMissing bool
}

// Filter returns the rows of table whose Column value lies in window, bounds
// included. The input table is not modified.
func Filter(ctx context.Context, table domain.Table, window domain.TimeWindow, opts Options) (domain.Table, error) {
	window = domain.NewTimeWindow(window.Start, window.End)

	ctx, span := tracing.StartFilterSpan(ctx, opts.Column, window, table.Len())
	defer span.End()

	if opts.Column == "" || !table.HasColumn(opts.Column) {
		err := &domain.SchemaError{Column: opts.Column}
		tracing.RecordFilterResult(span, 0, 0, err)
		return domain.Table{}, err
	}

	out := domain.Table{
		Columns: append([]string(nil), table.Columns...),
		Records: make([]domain.Record, 0),
	}

	missing := 0
	for _, rec := range table.Records {
		ts, ok := ParseTimestamp(rec[opts.Column])
		if !ok {
			missing++
			continue
		}
		if window.Contains(ts) {
			out.Records = append(out.Records, maps.Clone(rec))
		}
	}

	if opts.DropMissing && missing > 0 {
		slog.DebugContext(ctx, "dropped rows without a usable timestamp",
			slog.String("column", opts.Column),
			slog.Int("dropped", missing),
		)
	}

	tracing.RecordFilterResult(span, out.Len(), missing, nil)

	return out, nil
}

// FilterByComponents validates the six date components and filters over the
// window spanning both dates. Reversed dates are swapped.
func FilterByComponents(ctx context.Context, table domain.Table, startYear, startMonth, startDay, endYear, endMonth, endDay any, opts Options) (domain.Table, error) {
	dates, err := calendar.ValidateComponents(startYear, startMonth, startDay, endYear, endMonth, endDay)
	if err != nil {
		return domain.Table{}, err
	}
	return Filter(ctx, table, domain.WindowForDates(dates.Start, dates.End), opts)
}

// ParseTimestamp converts a cell to a UTC instant. Strings without a zone are
// read as UTC. ok is false for nil, empty and unparseable values.
func ParseTimestamp(v any) (time.Time, bool) {
	switch val := v.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		if val.IsZero() {
			return time.Time{}, false
		}
		return val.UTC(), true
	case *time.Time:
		if val == nil || val.IsZero() {
			return time.Time{}, false
		}
		return val.UTC(), true
	case string:
		return parseString(val)
	case int:
		return parseString(strconv.FormatInt(int64(val), 10))
	case int64:
		return parseString(strconv.FormatInt(val, 10))
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) || val != math.Trunc(val) {
			return time.Time{}, false
		}
		return parseString(strconv.FormatFloat(val, 'f', 0, 64))
	default:
		return time.Time{}, false
	}
}

func parseString(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	// Slash dates such as 03/04/2021 read both ways; they count as missing.
	if _, err := dateparse.ParseStrict(s); err != nil {
		return time.Time{}, false
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t.UTC(), true
}
