//go:build !gcloud

package windowrecorder

import (
	"context"
	"testing"

	"github.com/KasumiMercury/patient-window-scheduler/internal/domain"
)

func TestNewRecorderFallsBackToNoop(t *testing.T) {
	tests := []struct {
		name string
		cfg  *Config
	}{
		{name: "disabled", cfg: &Config{Disabled: true, InfluxDBToken: "t", InfluxDBOrg: "o"}},
		{name: "missing token", cfg: &Config{InfluxDBOrg: "o"}},
		{name: "missing org", cfg: &Config{InfluxDBToken: "t"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := NewRecorder(context.Background(), tt.cfg)
			if err != nil {
				t.Fatalf("NewRecorder() unexpected error: %v", err)
			}
			if _, ok := rec.(*noopRecorder); !ok {
				t.Errorf("NewRecorder() = %T, want *noopRecorder", rec)
			}
			if err := rec.RecordResolutions(context.Background(), []domain.ResolutionRecord{{EntityID: "p"}}); err != nil {
				t.Errorf("RecordResolutions() error = %v", err)
			}
			if err := rec.Close(); err != nil {
				t.Errorf("Close() error = %v", err)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("WINDOW_RESULTS_DISABLED", "true")
	t.Setenv("INFLUXDB_BUCKET", "")
	t.Setenv("BIGQUERY_PROJECT_ID", "")
	t.Setenv("GOOGLE_CLOUD_PROJECT", "proj")

	cfg := LoadConfig()
	if !cfg.Disabled {
		t.Error("Disabled = false, want true")
	}
	if cfg.InfluxDBBucket != "window_resolutions" {
		t.Errorf("InfluxDBBucket = %q, want default", cfg.InfluxDBBucket)
	}
	if cfg.BigQueryProjectID != "proj" {
		t.Errorf("BigQueryProjectID = %q, want fallback to GOOGLE_CLOUD_PROJECT", cfg.BigQueryProjectID)
	}
}
