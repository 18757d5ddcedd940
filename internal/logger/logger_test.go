package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func resetLogger() {
	Init(Options{})
}

func TestOptions_Level(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want slog.Level
	}{
		{"default is warn", Options{}, slog.LevelWarn},
		{"verbose is info", Options{Verbose: true}, slog.LevelInfo},
		{"debug is debug", Options{Debug: true}, slog.LevelDebug},
		{"debug wins over verbose", Options{Debug: true, Verbose: true}, slog.LevelDebug},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.opts.Level(); got != tt.want {
				t.Errorf("Level() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInit_DefaultLevel_SuppressesInfo(t *testing.T) {
	buf := &bytes.Buffer{}
	Init(Options{Output: buf})
	defer resetLogger()

	Info("should not appear")
	Debug("nor this")
	if buf.Len() != 0 {
		t.Errorf("expected no output at default level, got %q", buf.String())
	}

	Warn("warned")
	if !strings.Contains(buf.String(), "warned") {
		t.Error("Warn should be logged at default level")
	}
}

func TestInit_Verbose(t *testing.T) {
	buf := &bytes.Buffer{}
	Init(Options{Verbose: true, Output: buf})
	defer resetLogger()

	Info("analysis starting")
	Debug("hidden")

	output := buf.String()
	if !strings.Contains(output, "analysis starting") {
		t.Error("Info should be logged when Verbose=true")
	}
	if strings.Contains(output, "hidden") {
		t.Error("Debug should not be logged when only Verbose=true")
	}
}

func TestInit_Debug(t *testing.T) {
	buf := &bytes.Buffer{}
	Init(Options{Debug: true, Output: buf})
	defer resetLogger()

	Debug("prompt built", "size", 512)

	output := buf.String()
	if !strings.Contains(output, "prompt built") || !strings.Contains(output, "512") {
		t.Errorf("expected debug message with attrs, got %q", output)
	}
}

func TestInit_JSONFormat(t *testing.T) {
	buf := &bytes.Buffer{}
	Init(Options{JSON: true, Output: buf})
	defer resetLogger()

	Warn("upstream failed")

	output := buf.String()
	if !strings.HasPrefix(strings.TrimSpace(output), "{") {
		t.Errorf("expected JSON output, got %q", output)
	}
	if !strings.Contains(output, `"level":"WARN"`) {
		t.Errorf("expected level field, got %q", output)
	}
}

func TestInit_CustomLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	custom := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	Init(Options{Logger: custom})
	defer resetLogger()

	Debug("via custom")
	if !strings.Contains(buf.String(), "via custom") {
		t.Error("custom logger should receive messages")
	}
}

func TestInfoContext(t *testing.T) {
	buf := &bytes.Buffer{}
	Init(Options{Verbose: true, Output: buf})
	defer resetLogger()

	InfoContext(context.Background(), "info ctx", "provider", "xai")

	output := buf.String()
	if !strings.Contains(output, "info ctx") || !strings.Contains(output, "provider=xai") {
		t.Errorf("expected message and attribute, got %q", output)
	}
}
