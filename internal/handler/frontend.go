// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/artist-site/internal/model"
	"github.com/olegiv/artist-site/internal/render"
	"github.com/olegiv/artist-site/internal/service"
	"github.com/olegiv/artist-site/internal/site"
)

// SectionSource supplies the public lists.
type SectionSource interface {
	Press(ctx context.Context) []model.PressArticle
	Events(ctx context.Context) []model.Event
	Presaves(ctx context.Context) []model.Presave
	Releases(ctx context.Context) []model.Release
	MediaGroups(ctx context.Context) []model.MediaGroup
}

// VisitTracker logs page views and reads their total.
type VisitTracker interface {
	Record(path, userAgent string)
	Count(ctx context.Context) (int64, bool)
}

// MessageSink stores contact form submissions.
type MessageSink interface {
	Submit(ctx context.Context, in service.ContactInput) error
}

// FrontendHandler serves the public site.
type FrontendHandler struct {
	renderer *render.Renderer
	profile  *site.Profile
	sections SectionSource
	visits   VisitTracker
	contact  MessageSink
	logger   *slog.Logger
}

// NewFrontendHandler creates a new FrontendHandler.
func NewFrontendHandler(renderer *render.Renderer, profile *site.Profile, sections SectionSource, visits VisitTracker, contact MessageSink, logger *slog.Logger) *FrontendHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &FrontendHandler{
		renderer: renderer,
		profile:  profile,
		sections: sections,
		visits:   visits,
		contact:  contact,
		logger:   logger,
	}
}

// Home renders the landing page and records the visit. Data-backed sections
// are loaded by htmx from Section.
func (h *FrontendHandler) Home(w http.ResponseWriter, r *http.Request) {
	h.visits.Record(r.URL.Path, r.UserAgent())

	renderPage(w, r, h.renderer, http.StatusOK, pageHome, render.TemplateData{
		Title: h.profile.Hero.Name + " - " + h.profile.Hero.Tagline,
		Data: homeView{
			Profile:     h.profile,
			WhatsAppURL: h.profile.WhatsAppURL(),
		},
	})
}

// Section renders one htmx fragment. An empty list yields an empty body so
// the placeholder disappears.
func (h *FrontendHandler) Section(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	ctx := r.Context()

	var data any
	switch name {
	case model.CollectionPress:
		data = h.sections.Press(ctx)
	case model.CollectionEvents:
		data = h.sections.Events(ctx)
	case model.CollectionPresaves:
		data = h.sections.Presaves(ctx)
	case model.CollectionReleases:
		data = h.sections.Releases(ctx)
	case model.CollectionMedia:
		data = h.media(ctx)
	case "visits":
		n, ok := h.visits.Count(ctx)
		data = visitsView{Count: n, OK: ok}
	default:
		http.NotFound(w, r)
		return
	}

	if err := h.renderer.RenderFragment(w, name, data); err != nil {
		h.logger.WarnContext(ctx, "section render failed", "section", name, "error", err)
		w.WriteHeader(http.StatusOK)
	}
}

// media lists every category that has items or a download folder.
func (h *FrontendHandler) media(ctx context.Context) mediaView {
	items := make(map[model.MediaCategory][]model.MediaItem)
	for _, g := range h.sections.MediaGroups(ctx) {
		items[g.Category] = g.Items
	}

	var view mediaView
	for _, cat := range model.MediaCategories() {
		folder := h.profile.FolderFor(cat)
		if len(items[cat]) == 0 && folder == "" {
			continue
		}
		view.Categories = append(view.Categories, mediaCategoryView{
			Category: cat,
			Label:    cat.Label(),
			Items:    items[cat],
			Folder:   folder,
		})
	}
	return view
}

// Contact stores a contact form submission.
func (h *FrontendHandler) Contact(w http.ResponseWriter, r *http.Request) {
	const back = RouteRoot + "#contato"

	if !parseFormOrRedirect(w, r, h.renderer, back) {
		return
	}

	in := service.ContactInput{
		Name:    r.PostFormValue("name"),
		Email:   r.PostFormValue("email"),
		Phone:   r.PostFormValue("phone"),
		Message: r.PostFormValue("message"),
	}
	if err := h.contact.Submit(r.Context(), in); err != nil {
		if fieldErrors(err) != nil {
			flashError(w, r, h.renderer, back, "Preencha nome, e-mail e mensagem.")
			return
		}
		h.logger.ErrorContext(r.Context(), "contact message not stored", "error", err)
		flashError(w, r, h.renderer, back, "Não foi possível enviar sua mensagem. Tente novamente.")
		return
	}

	flashSuccess(w, r, h.renderer, back, "Mensagem enviada! Entraremos em contato em breve.")
}
