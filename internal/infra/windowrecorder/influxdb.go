//go:build !gcloud

package windowrecorder

import (
	"context"
	"log/slog"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"

	"github.com/KasumiMercury/patient-window-scheduler/internal/domain"
)

type influxDBRecorder struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	bucket   string
	org      string
}

func NewRecorder(ctx context.Context, cfg *Config) (domain.WindowRecorder, error) {
	if cfg.Disabled {
		slog.InfoContext(ctx, "window resolution recording disabled")
		return NewNoopRecorder(), nil
	}

	if cfg.InfluxDBToken == "" || cfg.InfluxDBOrg == "" {
		slog.WarnContext(ctx, "InfluxDB token or org not configured, window resolution recording disabled",
			slog.String("url", cfg.InfluxDBURL),
		)
		return NewNoopRecorder(), nil
	}

	client := influxdb2.NewClient(cfg.InfluxDBURL, cfg.InfluxDBToken)
	writeAPI := client.WriteAPIBlocking(cfg.InfluxDBOrg, cfg.InfluxDBBucket)

	slog.InfoContext(ctx, "window resolution recorder initialized",
		slog.String("type", "influxdb"),
		slog.String("url", cfg.InfluxDBURL),
		slog.String("bucket", cfg.InfluxDBBucket),
	)

	return &influxDBRecorder{
		client:   client,
		writeAPI: writeAPI,
		bucket:   cfg.InfluxDBBucket,
		org:      cfg.InfluxDBOrg,
	}, nil
}

func (r *influxDBRecorder) RecordResolutions(ctx context.Context, records []domain.ResolutionRecord) error {
	if len(records) == 0 {
		return nil
	}

	for _, record := range records {
		runID := record.RunID
		if runID == "" {
			runID = "default"
		}

		fields := map[string]any{
			"slice_count":      record.SliceCount,
			"dispatched_count": record.DispatchedCount,
			"failed_count":     record.FailedCount,
			"skipped":          record.Skipped,
		}
		if !record.FirstSlice.IsZero() {
			fields["first_slice_unix"] = record.FirstSlice.Unix()
			fields["last_slice_unix"] = record.LastSlice.Unix()
		}

		tags := map[string]string{
			"run_id":    runID,
			"entity_id": record.EntityID,
			"source":    record.Source,
		}
		if record.SkipReason != "" {
			tags["skip_reason"] = record.SkipReason
		}

		point := influxdb2.NewPoint("entity_resolution", tags, fields, time.Now())

		if err := r.writeAPI.WritePoint(ctx, point); err != nil {
			slog.WarnContext(ctx, "failed to write window resolution to InfluxDB",
				slog.String("error", err.Error()),
				slog.String("run_id", runID),
				slog.String("entity_id", record.EntityID),
			)
		}
	}

	return nil
}

func (r *influxDBRecorder) Flush(_ context.Context) error {
	return nil
}

func (r *influxDBRecorder) Close() error {
	if r.client != nil {
		r.client.Close()
	}
	return nil
}
