// Package logging builds the service's structured JSON slog handler.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"go.opentelemetry.io/otel/trace"
)

type Environment string

const (
	EnvDev     Environment = "dev"
	EnvStaging Environment = "staging"
	EnvProd    Environment = "prod"
)

type Module string

type ServiceInfo struct {
	Name     string
	Version  string
	Revision string
}

type Config struct {
	Service       ServiceInfo
	Environment   Environment
	DefaultModule Module
	GCPProjectID  string
	Level         slog.Level
	Writer        io.Writer
}

// NewHandler returns a JSON handler that stamps service metadata on every
// record and pulls request ID, module and trace IDs from the context.
func NewHandler(cfg Config) slog.Handler {
	w := cfg.Writer
	if w == nil {
		w = os.Stdout
	}

	base := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       cfg.Level,
		ReplaceAttr: replaceAttr,
	})

	attrs := []slog.Attr{
		slog.String("service", cfg.Service.Name),
		slog.String("version", cfg.Service.Version),
		slog.String("env", string(cfg.Environment)),
	}
	if cfg.Service.Revision != "" {
		attrs = append(attrs, slog.String("revision", cfg.Service.Revision))
	}

	return &contextHandler{
		next:          base.WithAttrs(attrs),
		defaultModule: cfg.DefaultModule,
		projectID:     cfg.GCPProjectID,
	}
}

func NewLogger(cfg Config) *slog.Logger {
	return slog.New(NewHandler(cfg))
}

// LevelFor picks the handler level. A verbosity of 2 or more forces debug
// output; otherwise logLevel is parsed.
func LevelFor(verbosity int, logLevel string) slog.Level {
	if verbosity >= 2 {
		return slog.LevelDebug
	}
	return ParseLevel(logLevel)
}

func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// replaceAttr renames the built-in keys to the names log collectors expect.
func replaceAttr(groups []string, a slog.Attr) slog.Attr {
	if len(groups) > 0 {
		return a
	}
	switch a.Key {
	case slog.LevelKey:
		return slog.String("severity", a.Value.String())
	case slog.MessageKey:
		a.Key = "message"
	case slog.TimeKey:
		a.Key = "timestamp"
	}
	return a
}

type contextHandler struct {
	next          slog.Handler
	defaultModule Module
	projectID     string
}

func (h *contextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *contextHandler) Handle(ctx context.Context, r slog.Record) error {
	if ctx != nil {
		module := ModuleFromContext(ctx)
		if module == "" {
			module = h.defaultModule
		}
		if module != "" {
			r.AddAttrs(slog.String("module", string(module)))
		}
		if requestID := RequestIDFromContext(ctx); requestID != "" {
			r.AddAttrs(slog.String("request_id", requestID))
		}
		if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
			r.AddAttrs(gcpTraceAttrs(ctx, h.projectID)...)
		}
	}
	return h.next.Handle(ctx, r)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{next: h.next.WithAttrs(attrs), defaultModule: h.defaultModule, projectID: h.projectID}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{next: h.next.WithGroup(name), defaultModule: h.defaultModule, projectID: h.projectID}
}
