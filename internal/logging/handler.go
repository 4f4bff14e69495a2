// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package logging provides the slog setup for the site and a handler that
// enriches records with request metadata carried in the context.
package logging

import (
	"context"
	"log/slog"

	chimw "github.com/go-chi/chi/v5/middleware"
)

type pathKey struct{}

// WithPath returns a copy of ctx carrying the request path for log records.
func WithPath(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, pathKey{}, path)
}

// PathFromContext returns the request path stored by WithPath.
func PathFromContext(ctx context.Context) string {
	if p, ok := ctx.Value(pathKey{}).(string); ok {
		return p
	}
	return ""
}

// RequestHandler is a slog.Handler that wraps another handler and appends
// request_id and path attributes when the record's context carries them.
type RequestHandler struct {
	inner slog.Handler
}

// NewRequestHandler creates a new RequestHandler wrapping inner.
func NewRequestHandler(inner slog.Handler) *RequestHandler {
	return &RequestHandler{inner: inner}
}

// Enabled implements slog.Handler.
func (h *RequestHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *RequestHandler) Handle(ctx context.Context, r slog.Record) error {
	if ctx != nil {
		if id := chimw.GetReqID(ctx); id != "" {
			r.AddAttrs(slog.String("request_id", id))
		}
		if p := PathFromContext(ctx); p != "" {
			r.AddAttrs(slog.String("path", p))
		}
	}
	return h.inner.Handle(ctx, r)
}

// WithAttrs implements slog.Handler.
func (h *RequestHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &RequestHandler{inner: h.inner.WithAttrs(attrs)}
}

// WithGroup implements slog.Handler.
func (h *RequestHandler) WithGroup(name string) slog.Handler {
	return &RequestHandler{inner: h.inner.WithGroup(name)}
}
