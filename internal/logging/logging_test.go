package logging

import (
	"bytes"
	"strings"
	"testing"

	"golang.org/x/exp/slog"
)

func TestHandlerWritesLevelAndMessage(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, nil)
	logger.Info("dataset loaded", "stops", 42)

	out := buf.String()
	if !strings.Contains(out, "INFO") {
		t.Fatalf("output = %q, want it to contain level INFO", out)
	}
	if !strings.Contains(out, "dataset loaded") {
		t.Fatalf("output = %q, want it to contain the message", out)
	}
}

func TestHandlerRespectsLevelOption(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, &slog.HandlerOptions{Level: slog.LevelWarn})
	logger.Info("should be suppressed")
	logger.Warn("should appear")

	out := buf.String()
	if strings.Contains(out, "should be suppressed") {
		t.Fatalf("Info line leaked through a Warn-level handler: %q", out)
	}
	if !strings.Contains(out, "should appear") {
		t.Fatalf("Warn line missing from output: %q", out)
	}
}

func TestHandlerIsConcurrencySafe(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, nil)
	done := make(chan struct{})
	for i := 0; i < 10; i++ {
		go func(n int) {
			logger.Info("concurrent write")
			done <- struct{}{}
		}(i)
	}
	for i := 0; i < 10; i++ {
		<-done
	}
}
