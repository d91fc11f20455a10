package log

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func newCaptureLogger(component string) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := New(Config{
		Component: component,
		Handler:   slog.NewTextHandler(&buf, nil),
	})
	return logger, &buf
}

func TestLoggerStampsComponent(t *testing.T) {
	logger, buf := newCaptureLogger(ComponentStorage)

	logger.Info("row saved", "id", 7)

	out := buf.String()
	if !strings.Contains(out, "component=storage") {
		t.Errorf("expected component attribute, got %q", out)
	}
	if !strings.Contains(out, "id=7") {
		t.Errorf("expected id attribute, got %q", out)
	}
}

func TestWithComponentReplacesStamp(t *testing.T) {
	logger, buf := newCaptureLogger(ComponentApp)

	logger.WithComponent(ComponentEvents).Warn("queue slow")

	out := buf.String()
	if !strings.Contains(out, "component=events") {
		t.Errorf("expected events component, got %q", out)
	}
	if strings.Count(out, "component=") != 1 {
		t.Errorf("component stamped more than once: %q", out)
	}
}

func TestWithKeepsComponent(t *testing.T) {
	logger, buf := newCaptureLogger(ComponentHTTP)

	logger.With(FieldRequestID, "abc123").Info("request started")

	out := buf.String()
	if !strings.Contains(out, "component=http") {
		t.Errorf("expected http component, got %q", out)
	}
	if !strings.Contains(out, "request_id=abc123") {
		t.Errorf("expected request_id attribute, got %q", out)
	}
}

func TestFromContextRoundTrip(t *testing.T) {
	logger, _ := newCaptureLogger(ComponentCarryOver)

	ctx := NewContext(context.Background(), logger)
	if got := FromContext(ctx); got != logger {
		t.Error("expected the logger stored in the context")
	}
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	logger := FromContext(context.Background())
	if logger == nil {
		t.Fatal("expected a usable fallback logger")
	}
	if logger.Component() != ComponentApp {
		t.Errorf("fallback component = %q, want %q", logger.Component(), ComponentApp)
	}
}
