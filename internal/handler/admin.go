// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/artist-site/internal/middleware"
	"github.com/olegiv/artist-site/internal/model"
	"github.com/olegiv/artist-site/internal/render"
	"github.com/olegiv/artist-site/internal/service"
)

// ContentManager is the schema-driven entity manager behind the workbench.
type ContentManager interface {
	List(ctx context.Context, schema model.Schema, filter map[string]string) ([]model.Record, error)
	Get(ctx context.Context, schema model.Schema, id string) (model.Record, error)
	Create(ctx context.Context, actor service.Actor, schema model.Schema, fields map[string]string) (model.Record, error)
	Update(ctx context.Context, actor service.Actor, schema model.Schema, id string, fields map[string]string) (model.Record, error)
	ToggleActive(ctx context.Context, actor service.Actor, schema model.Schema, id string) (model.Record, error)
	Delete(ctx context.Context, actor service.Actor, schema model.Schema, id string) error
}

// Inbox lists and removes contact messages.
type Inbox interface {
	List(ctx context.Context, actor service.Actor) ([]model.ContactMessage, error)
	Delete(ctx context.Context, actor service.Actor, id string) error
}

// OverviewFunc computes the dashboard counters.
type OverviewFunc func(ctx context.Context) (service.Overview, error)

// AdminHandler serves the admin workbench.
type AdminHandler struct {
	content  ContentManager
	inbox    Inbox
	overview OverviewFunc
	renderer *render.Renderer
	logger   *slog.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(content ContentManager, inbox Inbox, overview OverviewFunc, renderer *render.Renderer, logger *slog.Logger) *AdminHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AdminHandler{
		content:  content,
		inbox:    inbox,
		overview: overview,
		renderer: renderer,
		logger:   logger,
	}
}

func (h *AdminHandler) templateData(r *http.Request, title string, data any) render.TemplateData {
	actor := middleware.GetActor(r)
	return render.TemplateData{
		Title:    title + " - Admin",
		Data:     data,
		Email:    actor.Email,
		IsAdmin:  actor.IsAdmin,
		SignedIn: actor.Authenticated(),
	}
}

// Dashboard renders the admin landing page.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ov, err := h.overview(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "overview failed", "error", err)
		data := h.templateData(r, "Painel", dashboardView{})
		data.Flash, data.FlashType = "Não foi possível carregar os contadores: "+err.Error(), render.FlashError
		renderPage(w, r, h.renderer, http.StatusOK, pageDashboard, data)
		return
	}
	renderPage(w, r, h.renderer, http.StatusOK, pageDashboard, h.templateData(r, "Painel", dashboardView{Overview: ov}))
}

// schemaOrNotFound resolves the {collection} URL parameter.
func schemaOrNotFound(w http.ResponseWriter, r *http.Request) (model.Schema, bool) {
	schema, ok := model.CollectionByName(chi.URLParam(r, "collection"))
	if !ok {
		http.NotFound(w, r)
	}
	return schema, ok
}

func collectionURL(schema model.Schema) string {
	return RouteAdmin + "/" + schema.Name
}

// List renders a collection with its edit form. ?edit={id} loads a record
// into the form in update mode.
func (h *AdminHandler) List(w http.ResponseWriter, r *http.Request) {
	schema, ok := schemaOrNotFound(w, r)
	if !ok {
		return
	}

	view := collectionView{Schema: schema, Mode: modeCreate, Buffer: map[string]string{}}

	if id := r.URL.Query().Get("edit"); id != "" {
		rec, err := h.content.Get(r.Context(), schema, id)
		if err != nil {
			flashError(w, r, h.renderer, collectionURL(schema), service.Message(err))
			return
		}
		view.Mode, view.EditID, view.Buffer = modeUpdate, rec.ID, rec
	}

	h.renderCollection(w, r, http.StatusOK, view, "")
}

// renderCollection fills in the records of view and renders it. flash, when
// set, is shown as an error.
func (h *AdminHandler) renderCollection(w http.ResponseWriter, r *http.Request, status int, view collectionView, flash string) {
	schema := view.Schema

	var filter map[string]string
	if schema.GroupColumn != "" {
		view.Categories = model.MediaCategories()
		if c := model.MediaCategory(r.URL.Query().Get("category")); c.IsValid() {
			view.Category = c
			filter = map[string]string{schema.GroupColumn: string(c)}
		}
	}

	records, err := h.content.List(r.Context(), schema, filter)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "listing collection failed", "collection", schema.Name, "error", err)
		if flash == "" {
			flash = service.Message(err)
		}
	}
	view.Records = records

	data := h.templateData(r, schema.Title, view)
	if flash != "" {
		data.Flash, data.FlashType = flash, render.FlashError
	}
	renderPage(w, r, h.renderer, status, pageCollection, data)
}

// mutationFailed turns a rejected mutation into a notice. Validation errors
// re-render the form with the submitted values; everything else redirects
// back to the list with a flash.
func (h *AdminHandler) mutationFailed(w http.ResponseWriter, r *http.Request, view collectionView, err error) {
	if errs := fieldErrors(err); errs != nil {
		view.Errors = errs
		h.renderCollection(w, r, http.StatusUnprocessableEntity, view, service.Message(err))
		return
	}
	if !errors.Is(err, service.ErrUnauthorized) && !errors.Is(err, service.ErrNotFound) {
		h.logger.ErrorContext(r.Context(), "mutation failed", "collection", view.Schema.Name, "error", err)
	}
	flashError(w, r, h.renderer, collectionURL(view.Schema), service.Message(err))
}

// Create inserts a record from the form.
func (h *AdminHandler) Create(w http.ResponseWriter, r *http.Request) {
	schema, ok := schemaOrNotFound(w, r)
	if !ok || !parseFormOrRedirect(w, r, h.renderer, collectionURL(schema)) {
		return
	}

	fields := formFields(r, schema.ColumnNames())
	if _, err := h.content.Create(r.Context(), middleware.GetActor(r), schema, fields); err != nil {
		h.mutationFailed(w, r, collectionView{Schema: schema, Mode: modeCreate, Buffer: fields}, err)
		return
	}
	flashSuccess(w, r, h.renderer, collectionURL(schema), addedNotice(schema))
}

// Update saves the edit buffer over an existing record.
func (h *AdminHandler) Update(w http.ResponseWriter, r *http.Request) {
	schema, ok := schemaOrNotFound(w, r)
	if !ok || !parseFormOrRedirect(w, r, h.renderer, collectionURL(schema)) {
		return
	}

	id := chi.URLParam(r, "id")
	fields := formFields(r, schema.ColumnNames())
	if _, err := h.content.Update(r.Context(), middleware.GetActor(r), schema, id, fields); err != nil {
		h.mutationFailed(w, r, collectionView{Schema: schema, Mode: modeUpdate, EditID: id, Buffer: fields}, err)
		return
	}
	flashSuccess(w, r, h.renderer, collectionURL(schema), "Alterações salvas!")
}

// Toggle flips the active flag of a record.
func (h *AdminHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	schema, ok := schemaOrNotFound(w, r)
	if !ok {
		return
	}

	rec, err := h.content.ToggleActive(r.Context(), middleware.GetActor(r), schema, chi.URLParam(r, "id"))
	if err != nil {
		h.mutationFailed(w, r, collectionView{Schema: schema}, err)
		return
	}

	notice := "Oculto do site."
	if rec.IsActive {
		notice = "Visível no site."
	}
	flashSuccess(w, r, h.renderer, collectionURL(schema), notice)
}

// ConfirmDelete renders the delete confirmation step.
func (h *AdminHandler) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	schema, ok := schemaOrNotFound(w, r)
	if !ok {
		return
	}

	rec, err := h.content.Get(r.Context(), schema, chi.URLParam(r, "id"))
	if err != nil {
		flashError(w, r, h.renderer, collectionURL(schema), service.Message(err))
		return
	}

	title := "Excluir " + schema.Singular
	renderPage(w, r, h.renderer, http.StatusOK, pageConfirmDelete, h.templateData(r, title, deleteView{Schema: schema, Record: rec}))
}

// Delete removes a record once the confirmation step was submitted.
func (h *AdminHandler) Delete(w http.ResponseWriter, r *http.Request) {
	schema, ok := schemaOrNotFound(w, r)
	if !ok || !parseFormOrRedirect(w, r, h.renderer, collectionURL(schema)) {
		return
	}

	id := chi.URLParam(r, "id")
	if r.PostFormValue("confirm") != "yes" {
		http.Redirect(w, r, collectionURL(schema)+"/"+id+RouteSuffixDelete, http.StatusSeeOther)
		return
	}

	if err := h.content.Delete(r.Context(), middleware.GetActor(r), schema, id); err != nil {
		h.mutationFailed(w, r, collectionView{Schema: schema}, err)
		return
	}
	flashSuccess(w, r, h.renderer, collectionURL(schema), "Excluído!")
}

// Messages renders the contact inbox. Non-admins see an empty inbox.
func (h *AdminHandler) Messages(w http.ResponseWriter, r *http.Request) {
	msgs, err := h.inbox.List(r.Context(), middleware.GetActor(r))
	data := h.templateData(r, "Mensagens", messagesView{Messages: msgs})
	if err != nil && !errors.Is(err, service.ErrUnauthorized) {
		h.logger.ErrorContext(r.Context(), "listing messages failed", "error", err)
		data.Flash, data.FlashType = service.Message(err), render.FlashError
	}
	renderPage(w, r, h.renderer, http.StatusOK, pageMessages, data)
}

// DeleteMessage removes a contact message.
func (h *AdminHandler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	back := RouteAdmin + RouteMessages
	if err := h.inbox.Delete(r.Context(), middleware.GetActor(r), chi.URLParam(r, "id")); err != nil {
		flashError(w, r, h.renderer, back, service.Message(err))
		return
	}
	flashSuccess(w, r, h.renderer, back, "Mensagem excluída!")
}

func addedNotice(schema model.Schema) string {
	if schema.Added != "" {
		return schema.Added
	}
	return "Adicionado!"
}
