//go:build gcloud

package windowrecorder

import (
	"context"
	"log/slog"
	"time"

	"cloud.google.com/go/bigquery"

	"github.com/KasumiMercury/patient-window-scheduler/internal/domain"
)

type bigQueryRecord struct {
	RecordedAt      time.Time              `bigquery:"recorded_at"`
	RunID           string                 `bigquery:"run_id"`
	EntityID        string                 `bigquery:"entity_id"`
	Source          string                 `bigquery:"source"`
	FirstSlice      bigquery.NullTimestamp `bigquery:"first_slice"`
	LastSlice       bigquery.NullTimestamp `bigquery:"last_slice"`
	SliceCount      int64                  `bigquery:"slice_count"`
	DispatchedCount int64                  `bigquery:"dispatched_count"`
	FailedCount     int64                  `bigquery:"failed_count"`
	Skipped         bool                   `bigquery:"skipped"`
	SkipReason      string                 `bigquery:"skip_reason"`
}

type bigQueryRecorder struct {
	client   *bigquery.Client
	inserter *bigquery.Inserter
	dataset  string
	table    string
}

func NewRecorder(ctx context.Context, cfg *Config) (domain.WindowRecorder, error) {
	if cfg.Disabled {
		slog.InfoContext(ctx, "window resolution recording disabled")
		return NewNoopRecorder(), nil
	}

	if cfg.BigQueryProjectID == "" {
		slog.WarnContext(ctx, "BigQuery project ID not configured, window resolution recording disabled")
		return NewNoopRecorder(), nil
	}

	client, err := bigquery.NewClient(ctx, cfg.BigQueryProjectID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create BigQuery client, window resolution recording disabled",
			slog.String("error", err.Error()),
			slog.String("project_id", cfg.BigQueryProjectID),
		)
		return NewNoopRecorder(), nil
	}

	inserter := client.Dataset(cfg.BigQueryDataset).Table(cfg.BigQueryTable).Inserter()

	slog.InfoContext(ctx, "window resolution recorder initialized",
		slog.String("type", "bigquery"),
		slog.String("project_id", cfg.BigQueryProjectID),
		slog.String("dataset", cfg.BigQueryDataset),
		slog.String("table", cfg.BigQueryTable),
	)

	return &bigQueryRecorder{
		client:   client,
		inserter: inserter,
		dataset:  cfg.BigQueryDataset,
		table:    cfg.BigQueryTable,
	}, nil
}

func (r *bigQueryRecorder) RecordResolutions(ctx context.Context, records []domain.ResolutionRecord) error {
	if len(records) == 0 {
		return nil
	}

	now := time.Now()
	rows := make([]*bigQueryRecord, 0, len(records))
	for _, record := range records {
		rows = append(rows, &bigQueryRecord{
			RecordedAt:      now,
			RunID:           record.RunID,
			EntityID:        record.EntityID,
			Source:          record.Source,
			FirstSlice:      nullTimestamp(record.FirstSlice),
			LastSlice:       nullTimestamp(record.LastSlice),
			SliceCount:      int64(record.SliceCount),
			DispatchedCount: int64(record.DispatchedCount),
			FailedCount:     int64(record.FailedCount),
			Skipped:         record.Skipped,
			SkipReason:      record.SkipReason,
		})
	}

	if err := r.inserter.Put(ctx, rows); err != nil {
		slog.WarnContext(ctx, "failed to insert window resolutions to BigQuery",
			slog.String("error", err.Error()),
			slog.Int("record_count", len(records)),
		)
	}

	return nil
}

func nullTimestamp(t time.Time) bigquery.NullTimestamp {
	return bigquery.NullTimestamp{Timestamp: t, Valid: !t.IsZero()}
}

func (r *bigQueryRecorder) Flush(_ context.Context) error {
	return nil
}

func (r *bigQueryRecorder) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}
