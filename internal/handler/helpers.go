// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/olegiv/artist-site/internal/render"
	"github.com/olegiv/artist-site/internal/service"
)

// flashAndRedirect sets a flash message and redirects to the given URL.
// Uses http.StatusSeeOther (303) for POST redirects.
func flashAndRedirect(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, url, message, messageType string) {
	renderer.SetFlash(r, message, messageType)
	http.Redirect(w, r, url, http.StatusSeeOther)
}

// flashError sets an error flash message and redirects to the given URL.
func flashError(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, url, message string) {
	flashAndRedirect(w, r, renderer, url, message, render.FlashError)
}

// flashSuccess sets a success flash message and redirects to the given URL.
func flashSuccess(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, url, message string) {
	flashAndRedirect(w, r, renderer, url, message, render.FlashSuccess)
}

// parseFormOrRedirect parses the request form and redirects with an error message on failure.
// Returns true if parsing succeeded, false if it failed (and redirect was performed).
func parseFormOrRedirect(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, redirectURL string) bool {
	if err := r.ParseForm(); err != nil {
		flashError(w, r, renderer, redirectURL, "Dados do formulário inválidos")
		return false
	}
	return true
}

// logAndInternalError logs an error and writes a 500 Internal Server Error response.
func logAndInternalError(w http.ResponseWriter, r *http.Request, logMsg string, args ...any) {
	slog.ErrorContext(r.Context(), logMsg, args...)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

// renderPage renders a page and logs a failure as an internal error.
func renderPage(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, status int, name string, data render.TemplateData) {
	if err := renderer.RenderStatus(w, r, status, name, data); err != nil {
		logAndInternalError(w, r, "render failed", "template", name, "error", err)
	}
}

// fieldErrors returns the per-field messages of a validation error.
func fieldErrors(err error) map[string]string {
	var ve *service.ValidationError
	if errors.As(err, &ve) {
		return ve.Fields
	}
	return nil
}

// formFields collects the submitted values of names.
func formFields(r *http.Request, names []string) map[string]string {
	fields := make(map[string]string, len(names))
	for _, name := range names {
		fields[name] = r.PostFormValue(name)
	}
	return fields
}
