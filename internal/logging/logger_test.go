// AdSynth - Synthetic Advertising Data and Analytics Platform
// Copyright 2026 AdSynth contributors
// SPDX-License-Identifier: MIT
// https://github.com/adsynth/adsynth

package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"fatal", zerolog.FatalLevel},
		{"panic", zerolog.PanicLevel},
		{"disabled", zerolog.Disabled},
		{"INFO", zerolog.InfoLevel},
		{"garbage", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.input); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestInitJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "debug", Format: "json", Timestamp: false, Output: &buf})
	defer Init(DefaultConfig())

	Info().Str("component", "test").Msg("hello")

	out := buf.String()
	if !strings.Contains(out, `"level":"info"`) {
		t.Errorf("expected level field in output, got %q", out)
	}
	if !strings.Contains(out, `"message":"hello"`) {
		t.Errorf("expected message field in output, got %q", out)
	}
	if !strings.Contains(out, `"component":"test"`) {
		t.Errorf("expected component field in output, got %q", out)
	}
}

func TestInitLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "warn", Format: "json", Timestamp: false, Output: &buf})
	defer Init(DefaultConfig())

	Debug().Msg("should be suppressed")
	Warn().Msg("should appear")

	out := buf.String()
	if strings.Contains(out, "suppressed") {
		t.Errorf("debug message leaked through warn level: %q", out)
	}
	if !strings.Contains(out, "should appear") {
		t.Errorf("warn message missing: %q", out)
	}
}

func TestCtxAddsRequestID(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "debug", Format: "json", Timestamp: false, Output: &buf})
	defer Init(DefaultConfig())

	ctx := ContextWithRequestID(context.Background(), "req-123")
	Ctx(ctx).Info().Msg("with request id")

	if !strings.Contains(buf.String(), `"request_id":"req-123"`) {
		t.Errorf("expected request_id field, got %q", buf.String())
	}
}

func TestCtxWithoutRequestID(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "debug", Format: "json", Timestamp: false, Output: &buf})
	defer Init(DefaultConfig())

	Ctx(context.Background()).Info().Msg("plain")

	if strings.Contains(buf.String(), "request_id") {
		t.Errorf("request_id should be absent, got %q", buf.String())
	}
}

func TestRequestIDRoundTrip(t *testing.T) {
	ctx := ContextWithNewRequestID(context.Background())
	if RequestIDFromContext(ctx) == "" {
		t.Error("expected generated request ID in context")
	}
	if RequestIDFromContext(context.Background()) != "" {
		t.Error("expected empty request ID for bare context")
	}
}

func TestContextWithLoggerRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	custom := zerolog.New(&buf)

	ctx := ContextWithLogger(context.Background(), custom)
	got := LoggerFromContext(ctx)
	got.Info().Msg("routed")

	if !strings.Contains(buf.String(), "routed") {
		t.Errorf("expected message via context logger, got %q", buf.String())
	}
}
