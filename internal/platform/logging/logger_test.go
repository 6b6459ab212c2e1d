package logging

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"go.opentelemetry.io/otel/trace"
)

func decodeLine(t *testing.T, raw string) map[string]any {
	t.Helper()

	var out map[string]any
	if err := sonic.UnmarshalString(strings.TrimSpace(raw), &out); err != nil {
		t.Fatalf("decode log line %q: %v", raw, err)
	}
	return out
}

func TestNew_WritesServiceFieldsAndKeyValues(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New(Options{Level: LevelInfo, Output: &buf, Service: "match-forecast", Env: "dev"})

	logger.Named("history_sync").Info("sync finished", "teams", 3, "error", errors.New("boom"))
	logger.Debug("dropped")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one line above debug level, got=%d", len(lines))
	}
	entry := decodeLine(t, lines[0])
	if entry["service"] != "match-forecast" || entry["env"] != "dev" {
		t.Fatalf("missing service fields: %v", entry)
	}
	if entry["logger"] != "history_sync" {
		t.Fatalf("expected named logger, got=%v", entry["logger"])
	}
	if entry["teams"] != float64(3) || entry["error"] != "boom" {
		t.Fatalf("unexpected key values: %v", entry)
	}
}

func TestLogContext_AddsTraceFields(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New(Options{Level: LevelDebug, Output: &buf})

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	}))

	logger.InfoContext(ctx, "predict")
	entry := decodeLine(t, buf.String())
	if entry["trace_id"] != traceID.String() || entry["span_id"] != spanID.String() {
		t.Fatalf("expected trace fields, got=%v", entry)
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]Level{"": LevelInfo, "DEBUG": LevelDebug, "warning": LevelWarn, "error": LevelError}
	for raw, want := range cases {
		got, err := ParseLevel(raw)
		if err != nil || got != want {
			t.Fatalf("ParseLevel(%q): expected %s, got=%s err=%v", raw, want, got, err)
		}
	}
	if _, err := ParseLevel("verbose"); err == nil {
		t.Fatalf("expected invalid level error")
	}
}
