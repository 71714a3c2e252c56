package observability

import (
	"context"
	"log/slog"
	"testing"

	"go.opentelemetry.io/otel/trace"
)

type recordingHandler struct {
	min     slog.Level
	records []slog.Record
}

func (h *recordingHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.min
}

func (h *recordingHandler) Handle(_ context.Context, r slog.Record) error {
	h.records = append(h.records, r.Clone())
	return nil
}

func (h *recordingHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *recordingHandler) WithGroup(string) slog.Handler      { return h }

func recordAttrs(r slog.Record) map[string]string {
	attrs := map[string]string{}
	r.Attrs(func(a slog.Attr) bool {
		attrs[a.Key] = a.Value.String()
		return true
	})
	return attrs
}

func TestMultiHandlerFansOutToEveryHandler(t *testing.T) {
	first := &recordingHandler{min: slog.LevelInfo}
	second := &recordingHandler{min: slog.LevelInfo}
	logger := slog.New(&multiHandler{handlers: []slog.Handler{first, second}})

	logger.Info("user registered", "user_id", 42)

	if len(first.records) != 1 || len(second.records) != 1 {
		t.Fatalf("expected one record per handler, got %d and %d", len(first.records), len(second.records))
	}
	if first.records[0].Message != "user registered" {
		t.Fatalf("unexpected message: %q", first.records[0].Message)
	}
}

func TestMultiHandlerEnabledIfAnyHandlerIs(t *testing.T) {
	quiet := &recordingHandler{min: slog.LevelError}
	chatty := &recordingHandler{min: slog.LevelDebug}

	h := &multiHandler{handlers: []slog.Handler{quiet, chatty}}
	if !h.Enabled(context.Background(), slog.LevelInfo) {
		t.Fatal("expected enabled when any handler accepts the level")
	}

	h = &multiHandler{handlers: []slog.Handler{quiet}}
	if h.Enabled(context.Background(), slog.LevelInfo) {
		t.Fatal("expected disabled when no handler accepts the level")
	}
}

func TestTraceContextHandlerEnrichesFromSpan(t *testing.T) {
	tid, err := trace.TraceIDFromHex("0123456789abcdef0123456789abcdef")
	if err != nil {
		t.Fatalf("trace id: %v", err)
	}
	sid, err := trace.SpanIDFromHex("0123456789abcdef")
	if err != nil {
		t.Fatalf("span id: %v", err)
	}
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    tid,
		SpanID:     sid,
		TraceFlags: trace.FlagsSampled,
	}))

	rec := &recordingHandler{min: slog.LevelInfo}
	logger := slog.New(&traceContextHandler{next: rec})
	logger.InfoContext(ctx, "handled request")

	if len(rec.records) != 1 {
		t.Fatalf("expected one record, got %d", len(rec.records))
	}
	attrs := recordAttrs(rec.records[0])
	if attrs["trace_id"] != tid.String() {
		t.Fatalf("trace_id = %q, want %q", attrs["trace_id"], tid.String())
	}
	if attrs["span_id"] != sid.String() {
		t.Fatalf("span_id = %q, want %q", attrs["span_id"], sid.String())
	}
}

func TestTraceContextHandlerEmptyOutsideSpan(t *testing.T) {
	rec := &recordingHandler{min: slog.LevelInfo}
	logger := slog.New(&traceContextHandler{next: rec})
	logger.Info("background work")

	attrs := recordAttrs(rec.records[0])
	if attrs["trace_id"] != "" || attrs["span_id"] != "" {
		t.Fatalf("expected empty trace fields outside a span, got %+v", attrs)
	}
}

func TestParseLogLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := parseLogLevel(in); got != want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
