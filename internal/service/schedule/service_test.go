package schedule

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/KasumiMercury/patient-window-scheduler/internal/domain"
	"github.com/KasumiMercury/patient-window-scheduler/internal/infra/taskqueue"
	"github.com/KasumiMercury/patient-window-scheduler/internal/service/entity"
	"github.com/KasumiMercury/patient-window-scheduler/internal/service/sequence"
)

func date(y, m, d int) domain.CalendarDate {
	return domain.MustCalendarDate(y, m, d)
}

func scopedPolicy() entity.Policy {
	return entity.Policy{
		Span:     domain.Span{Days: 2},
		Step:     domain.Days(1),
		Bounds:   domain.GlobalBounds{Start: date(2021, 1, 1), End: date(2021, 1, 3)},
		Scoped:   true,
		Fallback: entity.FallbackFull,
	}
}

func TestScheduleEntities_DispatchesEverySlice(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := domain.NewMockOverrideRepository(ctrl)
	tq := taskqueue.NewMockTaskQueue(ctrl)
	recorder := domain.NewMockWindowRecorder(ctrl)

	repo.EXPECT().GetOverride(gomock.Any(), "p1").Return(&domain.EntityWindowSpec{
		Start: date(2020, 6, 1),
		End:   date(2020, 6, 2),
	}, nil)
	repo.EXPECT().GetOverride(gomock.Any(), "c1").Return(nil, domain.ErrOverrideNotFound)

	var tasks []*taskqueue.SliceTask
	tq.EXPECT().
		EnqueueSlice(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, task *taskqueue.SliceTask) (*taskqueue.TaskResponse, error) {
			tasks = append(tasks, task)
			return &taskqueue.TaskResponse{Name: task.TaskID()}, nil
		}).
		Times(5)

	recorder.EXPECT().
		RecordResolutions(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, records []domain.ResolutionRecord) error {
			if len(records) != 2 {
				t.Errorf("recorded %d records, want 2", len(records))
			}
			for _, r := range records {
				if r.RunID != "run-1" {
					t.Errorf("record run ID = %q, want run-1", r.RunID)
				}
			}
			return nil
		})

	svc := NewService(scopedPolicy(), sequence.NewGenerator(0, nil), repo, tq, recorder, nil)
	resp, err := svc.ScheduleEntities(context.Background(), Request{
		RunID: "run-1",
		Entities: []EntityAnchor{
			{EntityID: "p1"},
			{EntityID: "c1"},
		},
	})
	if err != nil {
		t.Fatalf("ScheduleEntities() unexpected error: %v", err)
	}

	if resp.ResolvedCount != 2 || resp.SkippedCount != 0 {
		t.Errorf("resolved/skipped = %d/%d, want 2/0", resp.ResolvedCount, resp.SkippedCount)
	}
	if resp.DispatchedCount != 5 {
		t.Errorf("DispatchedCount = %d, want 5", resp.DispatchedCount)
	}
	if resp.Entities[0].Source != string(domain.WindowSourceOverride) || resp.Entities[1].Source != string(domain.WindowSourceControlFull) {
		t.Errorf("sources = %s, %s", resp.Entities[0].Source, resp.Entities[1].Source)
	}

	first := tasks[0]
	if first.EntityID != "p1" || first.SliceIndex != 0 || first.SliceStart != "2020-06-01" {
		t.Errorf("first task = %+v", first)
	}
	if got := domain.DateOf(first.WindowEnd); got != date(2020, 6, 2) {
		t.Errorf("first window end = %s, want 2020-06-02", got)
	}
}

func TestScheduleEntities_IsolatesFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := domain.NewMockOverrideRepository(ctrl)
	tq := taskqueue.NewMockTaskQueue(ctrl)

	repo.EXPECT().GetOverride(gomock.Any(), "bad").Return(nil, domain.ErrInvalidDate)
	repo.EXPECT().GetOverride(gomock.Any(), "flaky").Return(&domain.EntityWindowSpec{
		Start: date(2020, 6, 1),
		End:   date(2020, 6, 2),
	}, nil)
	repo.EXPECT().GetOverride(gomock.Any(), "ok").Return(&domain.EntityWindowSpec{
		Start: date(2020, 7, 1),
		End:   date(2020, 7, 1),
	}, nil)

	tq.EXPECT().
		EnqueueSlice(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, task *taskqueue.SliceTask) (*taskqueue.TaskResponse, error) {
			if task.EntityID == "flaky" && task.SliceIndex == 1 {
				return nil, errors.New("queue unavailable")
			}
			return &taskqueue.TaskResponse{}, nil
		}).
		Times(3)

	svc := NewService(scopedPolicy(), sequence.NewGenerator(0, nil), repo, tq, nil, nil)
	resp, err := svc.ScheduleEntities(context.Background(), Request{
		Entities: []EntityAnchor{{EntityID: "bad"}, {EntityID: "flaky"}, {EntityID: "ok"}},
	})
	if err != nil {
		t.Fatalf("ScheduleEntities() unexpected error: %v", err)
	}

	if resp.RunID == "" {
		t.Error("RunID was not generated")
	}
	if resp.SkippedCount != 1 || resp.ResolvedCount != 2 {
		t.Errorf("resolved/skipped = %d/%d, want 2/1", resp.ResolvedCount, resp.SkippedCount)
	}
	if resp.DispatchedCount != 2 || resp.FailedCount != 1 {
		t.Errorf("dispatched/failed = %d/%d, want 2/1", resp.DispatchedCount, resp.FailedCount)
	}
	if resp.Entities[0].SkipReason != domain.SkipReasonInvalidOverride {
		t.Errorf("SkipReason = %q, want %q", resp.Entities[0].SkipReason, domain.SkipReasonInvalidOverride)
	}
}

func TestScheduleEntities_ResolveOnlyWithoutQueue(t *testing.T) {
	policy := scopedPolicy()
	policy.Scoped = false

	svc := NewService(policy, sequence.NewGenerator(0, nil), nil, nil, nil, nil)
	resp, err := svc.ScheduleEntities(context.Background(), Request{
		Entities: []EntityAnchor{{EntityID: "a"}, {EntityID: "b", Anchor: date(2021, 1, 2)}},
	})
	if err != nil {
		t.Fatalf("ScheduleEntities() unexpected error: %v", err)
	}

	if got := len(resp.Entities[0].Slices); got != 3 {
		t.Errorf("entity a has %d slices, want 3", got)
	}
	if got := len(resp.Entities[1].Slices); got != 2 {
		t.Errorf("entity b has %d slices, want 2 (clamped at bounds end)", got)
	}
	if resp.DispatchedCount != 0 {
		t.Errorf("DispatchedCount = %d, want 0", resp.DispatchedCount)
	}
}

func TestScheduleEntities_StopsOnCancelledContext(t *testing.T) {
	svc := NewService(scopedPolicy(), sequence.NewGenerator(0, nil), nil, nil, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	resp, err := svc.ScheduleEntities(ctx, Request{Entities: []EntityAnchor{{EntityID: "a"}}})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("ScheduleEntities() error = %v, want context.Canceled", err)
	}
	if len(resp.Entities) != 0 {
		t.Errorf("processed %d entities after cancellation", len(resp.Entities))
	}
}

func TestCancelSlice(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tq := taskqueue.NewMockTaskQueue(ctrl)
	tq.EXPECT().DeleteTask(gomock.Any(), "run-1-p1-00000").Return(nil)

	svc := NewService(scopedPolicy(), sequence.NewGenerator(0, nil), nil, tq, nil, nil)
	if err := svc.CancelSlice(context.Background(), "run-1-p1-00000"); err != nil {
		t.Fatalf("CancelSlice() unexpected error: %v", err)
	}

	noQueue := NewService(scopedPolicy(), sequence.NewGenerator(0, nil), nil, nil, nil, nil)
	if err := noQueue.CancelSlice(context.Background(), "x"); !errors.Is(err, ErrDispatchDisabled) {
		t.Errorf("CancelSlice() error = %v, want ErrDispatchDisabled", err)
	}
}
