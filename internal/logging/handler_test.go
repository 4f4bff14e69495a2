// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	chimw "github.com/go-chi/chi/v5/middleware"
)

func TestRequestHandler_AddsRequestAttributes(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewRequestHandler(slog.NewJSONHandler(&buf, nil)))

	ctx := context.WithValue(context.Background(), chimw.RequestIDKey, "req-42")
	ctx = WithPath(ctx, "/admin/press")
	logger.InfoContext(ctx, "record saved", "id", "abc")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("unmarshal log line: %v", err)
	}
	if entry["request_id"] != "req-42" {
		t.Errorf("request_id = %v; want req-42", entry["request_id"])
	}
	if entry["path"] != "/admin/press" {
		t.Errorf("path = %v; want /admin/press", entry["path"])
	}
	if entry["id"] != "abc" {
		t.Errorf("id = %v; want abc", entry["id"])
	}
}

func TestRequestHandler_NoRequestContext(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewRequestHandler(slog.NewTextHandler(&buf, nil)))

	logger.Info("startup")

	out := buf.String()
	if strings.Contains(out, "request_id") || strings.Contains(out, "path=") {
		t.Errorf("unexpected request attributes in %q", out)
	}
}

func TestRequestHandler_WithAttrsKeepsEnrichment(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewRequestHandler(slog.NewTextHandler(&buf, nil))).With("component", "visits")

	logger.InfoContext(WithPath(context.Background(), "/"), "visit recorded")

	out := buf.String()
	if !strings.Contains(out, "component=visits") {
		t.Errorf("missing component attr in %q", out)
	}
	if !strings.Contains(out, "path=/") {
		t.Errorf("missing path attr in %q", out)
	}
}

func TestNew_Format(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	var buf bytes.Buffer
	logger := New("debug", "json", &buf)
	logger.Debug("hello")

	if !strings.HasPrefix(strings.TrimSpace(buf.String()), "{") {
		t.Errorf("expected JSON output, got %q", buf.String())
	}
	if slog.Default() != logger {
		t.Error("New should install the logger as default")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v; want %v", tt.in, got, tt.want)
		}
	}
}
