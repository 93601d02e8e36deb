package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestNew_Format(t *testing.T) {
	tests := []struct {
		name     string
		format   Format
		wantJSON bool
	}{
		{"json", FormatJSON, true},
		{"text", FormatText, false},
		{"unknown falls back to text", Format("yaml"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := New(Config{Level: slog.LevelInfo, Format: tt.format, Output: &buf})
			logger.Info("platform added", "platform", "android")

			var parsed map[string]any
			isJSON := json.Unmarshal(buf.Bytes(), &parsed) == nil
			if isJSON != tt.wantJSON {
				t.Fatalf("JSON output = %v, want %v: %q", isJSON, tt.wantJSON, buf.String())
			}
			if tt.wantJSON {
				if parsed["platform"] != "android" {
					t.Errorf("platform attr = %v, want android", parsed["platform"])
				}
				return
			}
			if !strings.Contains(buf.String(), "platform=android") {
				t.Errorf("text output missing attr: %q", buf.String())
			}
		})
	}
}

// logAt emits one record at every level ionx uses and returns the messages
// that reached the output.
func logAt(logger *slog.Logger, buf *bytes.Buffer) []string {
	ctx := context.Background()
	logger.Log(ctx, LevelTrace, "trace")
	logger.Debug("debug")
	logger.Info("info")
	logger.Warn("warn")

	var got []string
	for _, msg := range []string{"trace", "debug", "info", "warn"} {
		if strings.Contains(buf.String(), " "+msg) {
			got = append(got, msg)
		}
	}
	return got
}

func TestLevelFromVerbosity_Filtering(t *testing.T) {
	tests := []struct {
		verbosity int
		want      []string
	}{
		{0, []string{"warn"}},
		{1, []string{"info", "warn"}},
		{2, []string{"debug", "info", "warn"}},
		{3, []string{"trace", "debug", "info", "warn"}},
	}

	for _, tt := range tests {
		t.Run(strings.Repeat("v", tt.verbosity), func(t *testing.T) {
			var buf bytes.Buffer
			logger := New(Config{Level: LevelFromVerbosity(tt.verbosity), Output: &buf})
			got := logAt(logger, &buf)
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("-%s logged %v, want %v", strings.Repeat("v", tt.verbosity), got, tt.want)
			}
		})
	}
}

func TestLevelFromVerbosity(t *testing.T) {
	tests := []struct {
		verbosity int
		want      slog.Level
	}{
		{-1, slog.LevelWarn},
		{0, slog.LevelWarn},
		{1, slog.LevelInfo},
		{2, slog.LevelDebug},
		{3, LevelTrace},
		{7, LevelTrace},
	}

	for _, tt := range tests {
		if got := LevelFromVerbosity(tt.verbosity); got != tt.want {
			t.Errorf("LevelFromVerbosity(%d) = %v, want %v", tt.verbosity, got, tt.want)
		}
	}
	if LevelTrace >= slog.LevelDebug {
		t.Error("LevelTrace must sort below Debug")
	}
}

func TestDefault_WarnLevel(t *testing.T) {
	h := Default().Handler()
	ctx := context.Background()
	if h.Enabled(ctx, slog.LevelInfo) {
		t.Error("default logger should drop info records")
	}
	if !h.Enabled(ctx, slog.LevelWarn) {
		t.Error("default logger should keep warnings")
	}
}

func TestForTest_EnablesTrace(t *testing.T) {
	if !ForTest(t).Handler().Enabled(context.Background(), LevelTrace) {
		t.Error("ForTest logger should capture trace records")
	}
}

func TestContextRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Output: &buf}).With("cmd", "emulate")

	ctx := NewContext(t.Context(), logger)
	if got := FromContext(ctx); got != logger {
		t.Fatal("FromContext should return the stored logger")
	}
	FromContext(ctx).Info("starting")
	if !strings.Contains(buf.String(), "cmd=emulate") {
		t.Errorf("stored logger lost its attrs: %q", buf.String())
	}

	tests := []struct {
		name string
		ctx  context.Context
	}{
		{"no logger", t.Context()},
		{"nil logger", NewContext(t.Context(), nil)},
		{"nil context", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FromContext(tt.ctx); got != slog.Default() {
				t.Error("FromContext should fall back to slog.Default()")
			}
		})
	}
}
