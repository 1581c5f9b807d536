package entity

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/KasumiMercury/patient-window-scheduler/internal/domain"
	"github.com/KasumiMercury/patient-window-scheduler/internal/service/sequence"
)

func date(y, m, d int) domain.CalendarDate {
	return domain.MustCalendarDate(y, m, d)
}

func testPolicy() Policy {
	return Policy{
		Span:     domain.Span{Days: 4},
		Step:     domain.Days(1),
		Bounds:   domain.GlobalBounds{Start: date(2021, 1, 1), End: date(2021, 1, 10)},
		Fallback: FallbackFull,
		Seed:     42,
	}
}

func assertSkip(t *testing.T, err error, wantReason string) {
	t.Helper()
	if !errors.Is(err, domain.ErrEntitySkipped) {
		t.Fatalf("Resolve() error = %v, want ErrEntitySkipped", err)
	}
	var skip *domain.SkipError
	if !errors.As(err, &skip) {
		t.Fatalf("Resolve() error type = %T, want *domain.SkipError", err)
	}
	if skip.Reason != wantReason {
		t.Errorf("SkipError.Reason = %q, want %q", skip.Reason, wantReason)
	}
}

func TestResolveUnscopedSharesGlobalSequence(t *testing.T) {
	r := NewResolver(testPolicy(), sequence.NewGenerator(0, nil), nil, nil)
	ctx := context.Background()

	a, err := r.Resolve(ctx, "patient-a", domain.CalendarDate{})
	if err != nil {
		t.Fatalf("Resolve() unexpected error: %v", err)
	}
	b, err := r.Resolve(ctx, "patient-b", domain.CalendarDate{})
	if err != nil {
		t.Fatalf("Resolve() unexpected error: %v", err)
	}

	if a.Source != domain.WindowSourceGlobal || b.Source != domain.WindowSourceGlobal {
		t.Errorf("sources = %s, %s; want global", a.Source, b.Source)
	}
	if len(a.Sequence) != 5 || !slices.Equal(a.Sequence, b.Sequence) {
		t.Errorf("expected equal 5-entry sequences, got %v and %v", a.Sequence.Tuples(), b.Sequence.Tuples())
	}
	if len(a.Windows) != len(a.Sequence) {
		t.Errorf("Windows has %d entries, want %d", len(a.Windows), len(a.Sequence))
	}
	if a.EntityID != "patient-a" || b.EntityID != "patient-b" {
		t.Errorf("entity IDs = %q, %q", a.EntityID, b.EntityID)
	}
}

func TestResolveUnscopedSequencesAreIndependent(t *testing.T) {
	r := NewResolver(testPolicy(), sequence.NewGenerator(0, nil), nil, nil)
	ctx := context.Background()

	a, err := r.Resolve(ctx, "patient-a", domain.CalendarDate{})
	if err != nil {
		t.Fatalf("Resolve() unexpected error: %v", err)
	}
	want := a.Sequence[0]
	a.Sequence[0] = domain.MustCalendarDate(1999, 1, 1)

	b, err := r.Resolve(ctx, "patient-b", domain.CalendarDate{})
	if err != nil {
		t.Fatalf("Resolve() unexpected error: %v", err)
	}
	if b.Sequence[0] != want {
		t.Errorf("second entity first slice = %s, want %s", b.Sequence[0], want)
	}
}

func TestResolveUnscopedLookbackAnchorsOnBoundsEnd(t *testing.T) {
	policy := testPolicy()
	policy.Lookback = true
	r := NewResolver(policy, sequence.NewGenerator(0, nil), nil, nil)

	res, err := r.Resolve(context.Background(), "patient-a", domain.CalendarDate{})
	if err != nil {
		t.Fatalf("Resolve() unexpected error: %v", err)
	}
	first, _ := res.Sequence.First()
	last, _ := res.Sequence.Last()
	if first != date(2021, 1, 6) || last != date(2021, 1, 10) {
		t.Errorf("sequence = %s..%s, want 2021-01-06..2021-01-10", first, last)
	}
}

func TestResolveUnscopedWithAnchor(t *testing.T) {
	r := NewResolver(testPolicy(), sequence.NewGenerator(0, nil), nil, nil)

	res, err := r.Resolve(context.Background(), "patient-a", date(2021, 1, 8))
	if err != nil {
		t.Fatalf("Resolve() unexpected error: %v", err)
	}
	if got := len(res.Sequence); got != 3 {
		t.Errorf("sequence length = %d, want 3 (clamped at 2021-01-10)", got)
	}
}

func TestResolveScopedOverride(t *testing.T) {
	tests := []struct {
		name     string
		lookback bool
		spec     domain.EntityWindowSpec
	}{
		{
			name: "forward",
			spec: domain.EntityWindowSpec{Start: date(2020, 3, 1), End: date(2020, 3, 4)},
		},
		{
			name:     "lookback",
			lookback: true,
			spec:     domain.EntityWindowSpec{Start: date(2020, 3, 1), End: date(2020, 3, 4)},
		},
		{
			name: "reversed dates are corrected",
			spec: domain.EntityWindowSpec{Start: date(2020, 3, 4), End: date(2020, 3, 1)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := domain.NewMockOverrideRepository(ctrl)
			spec := tt.spec
			repo.EXPECT().GetOverride(gomock.Any(), "patient-a").Return(&spec, nil)

			policy := testPolicy()
			policy.Scoped = true
			policy.Lookback = tt.lookback
			r := NewResolver(policy, sequence.NewGenerator(0, nil), repo, nil)

			res, err := r.Resolve(context.Background(), "patient-a", domain.CalendarDate{})
			if err != nil {
				t.Fatalf("Resolve() unexpected error: %v", err)
			}
			if res.Source != domain.WindowSourceOverride {
				t.Errorf("Source = %s, want override", res.Source)
			}
			want := [][3]int{{2020, 3, 1}, {2020, 3, 2}, {2020, 3, 3}, {2020, 3, 4}}
			got := res.Sequence.Tuples()
			if fmt.Sprint(got) != fmt.Sprint(want) {
				t.Errorf("sequence = %v, want %v", got, want)
			}
			if res.Bounds.Start != date(2020, 3, 1) || res.Bounds.End != date(2020, 3, 4) {
				t.Errorf("Bounds = %s, want 2020-03-01..2020-03-04", res.Bounds)
			}
		})
	}
}

func TestResolveScopedControlFull(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := domain.NewMockOverrideRepository(ctrl)
	repo.EXPECT().GetOverride(gomock.Any(), "control-1").Return(nil, domain.ErrOverrideNotFound)

	policy := testPolicy()
	policy.Scoped = true
	r := NewResolver(policy, sequence.NewGenerator(0, nil), repo, nil)

	res, err := r.Resolve(context.Background(), "control-1", domain.CalendarDate{})
	if err != nil {
		t.Fatalf("Resolve() unexpected error: %v", err)
	}
	if res.Source != domain.WindowSourceControlFull {
		t.Errorf("Source = %s, want control_full", res.Source)
	}
	if len(res.Sequence) != 10 {
		t.Errorf("sequence length = %d, want 10 (whole global bounds)", len(res.Sequence))
	}
}

func TestResolveScopedControlRandomIsDeterministic(t *testing.T) {
	pool := []domain.EntityWindowSpec{
		{EntityID: "p3", Start: date(2020, 5, 1), End: date(2020, 5, 3)},
		{EntityID: "p1", Start: date(2020, 1, 1), End: date(2020, 1, 2)},
		{EntityID: "p2", Start: date(2020, 3, 1), End: date(2020, 3, 5)},
	}

	resolveAll := func(order []string) map[string]domain.GlobalBounds {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := domain.NewMockOverrideRepository(ctrl)
		repo.EXPECT().GetOverride(gomock.Any(), gomock.Any()).Return(nil, domain.ErrOverrideNotFound).AnyTimes()
		repo.EXPECT().ListOverrides(gomock.Any()).DoAndReturn(func(context.Context) ([]domain.EntityWindowSpec, error) {
			return append([]domain.EntityWindowSpec(nil), pool...), nil
		}).Times(1)

		policy := testPolicy()
		policy.Scoped = true
		policy.Fallback = FallbackRandom
		r := NewResolver(policy, sequence.NewGenerator(0, nil), repo, nil)

		out := make(map[string]domain.GlobalBounds)
		for _, id := range order {
			res, err := r.Resolve(context.Background(), id, domain.CalendarDate{})
			if err != nil {
				t.Fatalf("Resolve(%s) unexpected error: %v", id, err)
			}
			if res.Source != domain.WindowSourceControlRandom {
				t.Errorf("Source = %s, want control_random", res.Source)
			}
			out[id] = res.Bounds
		}
		return out
	}

	first := resolveAll([]string{"c1", "c2", "c3", "c4"})
	second := resolveAll([]string{"c4", "c3", "c2", "c1"})

	for id, b := range first {
		if second[id] != b {
			t.Errorf("entity %s drew %s then %s", id, b, second[id])
		}
		found := false
		for _, p := range pool {
			if p.Bounds() == b {
				found = true
			}
		}
		if !found {
			t.Errorf("entity %s drew %s, not in pool", id, b)
		}
	}
}

func TestResolveSkips(t *testing.T) {
	tests := []struct {
		name       string
		policy     func(*Policy)
		setup      func(repo *domain.MockOverrideRepository)
		wantReason string
	}{
		{
			name: "corrupt override dates",
			setup: func(repo *domain.MockOverrideRepository) {
				repo.EXPECT().GetOverride(gomock.Any(), "p").Return(nil, fmt.Errorf("parse start: %w", domain.ErrInvalidDate))
			},
			wantReason: domain.SkipReasonInvalidOverride,
		},
		{
			name: "override with missing date",
			setup: func(repo *domain.MockOverrideRepository) {
				repo.EXPECT().GetOverride(gomock.Any(), "p").Return(&domain.EntityWindowSpec{Start: date(2020, 1, 1)}, nil)
			},
			wantReason: domain.SkipReasonInvalidOverride,
		},
		{
			name: "repository failure",
			setup: func(repo *domain.MockOverrideRepository) {
				repo.EXPECT().GetOverride(gomock.Any(), "p").Return(nil, errors.New("connection refused"))
			},
			wantReason: domain.SkipReasonRepository,
		},
		{
			name:   "unknown fallback policy",
			policy: func(p *Policy) { p.Fallback = "nearest" },
			setup: func(repo *domain.MockOverrideRepository) {
				repo.EXPECT().GetOverride(gomock.Any(), "p").Return(nil, domain.ErrOverrideNotFound)
			},
			wantReason: domain.SkipReasonUnknownPolicy,
		},
		{
			name:   "empty pool under random",
			policy: func(p *Policy) { p.Fallback = FallbackRandom },
			setup: func(repo *domain.MockOverrideRepository) {
				repo.EXPECT().GetOverride(gomock.Any(), "p").Return(nil, domain.ErrOverrideNotFound)
				repo.EXPECT().ListOverrides(gomock.Any()).Return(nil, nil)
			},
			wantReason: domain.SkipReasonEmptyPool,
		},
		{
			name:   "invalid step",
			policy: func(p *Policy) { p.Step = domain.RelativeDuration{} },
			setup: func(repo *domain.MockOverrideRepository) {
				repo.EXPECT().GetOverride(gomock.Any(), "p").Return(&domain.EntityWindowSpec{
					Start: date(2020, 1, 1),
					End:   date(2020, 1, 3),
				}, nil)
			},
			wantReason: domain.SkipReasonGeneration,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := domain.NewMockOverrideRepository(ctrl)
			tt.setup(repo)

			policy := testPolicy()
			policy.Scoped = true
			if tt.policy != nil {
				tt.policy(&policy)
			}
			r := NewResolver(policy, sequence.NewGenerator(0, nil), repo, nil)

			_, err := r.Resolve(context.Background(), "p", domain.CalendarDate{})
			assertSkip(t, err, tt.wantReason)
		})
	}
}

func TestResolveUnscopedInvalidStepSkipsEveryEntity(t *testing.T) {
	policy := testPolicy()
	policy.Step = domain.Days(-1)
	r := NewResolver(policy, sequence.NewGenerator(0, nil), nil, nil)

	for _, id := range []string{"a", "b"} {
		_, err := r.Resolve(context.Background(), id, domain.CalendarDate{})
		assertSkip(t, err, domain.SkipReasonGeneration)
		if !errors.Is(err, domain.ErrInvalidInterval) {
			t.Errorf("Resolve(%s) error = %v, want wrapped ErrInvalidInterval", id, err)
		}
	}
}
