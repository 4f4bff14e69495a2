// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/artist-site/internal/middleware"
	"github.com/olegiv/artist-site/internal/model"
	"github.com/olegiv/artist-site/internal/render"
	"github.com/olegiv/artist-site/internal/service"
)

// Accounts signs users up and in.
type Accounts interface {
	SignUp(ctx context.Context, c service.Credentials) (model.User, error)
	SignIn(ctx context.Context, c service.Credentials) (model.User, error)
}

// Elevator grants the admin role to an existing account.
type Elevator interface {
	Enabled() bool
	Elevate(ctx context.Context, email, token string) (service.ElevationResult, error)
}

// AuthHandler handles authentication routes.
type AuthHandler struct {
	accounts       Accounts
	elevation      Elevator
	renderer       *render.Renderer
	sessionManager *scs.SessionManager
	logger         *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(accounts Accounts, elevation Elevator, renderer *render.Renderer, sm *scs.SessionManager, logger *slog.Logger) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{
		accounts:       accounts,
		elevation:      elevation,
		renderer:       renderer,
		sessionManager: sm,
		logger:         logger,
	}
}

// Page renders the sign-in page. Signed-in users are sent to the admin.
func (h *AuthHandler) Page(w http.ResponseWriter, r *http.Request) {
	if h.sessionManager.GetString(r.Context(), middleware.SessionKeyUserID) != "" {
		http.Redirect(w, r, RouteAdmin, http.StatusSeeOther)
		return
	}
	h.render(w, r, http.StatusOK, authView{Tab: r.URL.Query().Get("tab")})
}

func (h *AuthHandler) render(w http.ResponseWriter, r *http.Request, status int, view authView) {
	view.SetupEnabled = h.elevation.Enabled()
	switch view.Tab {
	case tabSignup:
	case tabSetup:
		if !view.SetupEnabled {
			view.Tab = tabLogin
		}
	default:
		view.Tab = tabLogin
	}
	renderPage(w, r, h.renderer, status, pageAuth, render.TemplateData{
		Title: "Entrar",
		Data:  view,
	})
}

func credentials(r *http.Request) service.Credentials {
	return service.Credentials{
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
	}
}

// Login handles the sign-in form submission.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, RouteAuth) {
		return
	}

	c := credentials(r)
	user, err := h.accounts.SignIn(r.Context(), c)
	if err != nil {
		if errs := fieldErrors(err); errs != nil {
			h.render(w, r, http.StatusUnprocessableEntity, authView{Tab: tabLogin, Email: c.Email, Errors: errs})
			return
		}
		if errors.Is(err, service.ErrUnauthorized) {
			h.logger.DebugContext(r.Context(), "sign-in rejected", "email", c.Email)
			flashError(w, r, h.renderer, RouteAuth, "Email ou senha incorretos")
			return
		}
		h.logger.ErrorContext(r.Context(), "sign-in failed", "error", err)
		flashError(w, r, h.renderer, RouteAuth, service.Message(err))
		return
	}

	if !h.startSession(w, r, user) {
		return
	}
	flashSuccess(w, r, h.renderer, RouteAdmin, "Login realizado com sucesso!")
}

// Signup handles the sign-up form submission. New accounts are signed in
// right away but carry no role.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, RouteAuth+"?tab="+tabSignup) {
		return
	}

	c := credentials(r)
	user, err := h.accounts.SignUp(r.Context(), c)
	if err != nil {
		if errs := fieldErrors(err); errs != nil {
			h.render(w, r, http.StatusUnprocessableEntity, authView{Tab: tabSignup, Email: c.Email, Errors: errs})
			return
		}
		h.logger.ErrorContext(r.Context(), "sign-up failed", "error", err)
		flashError(w, r, h.renderer, RouteAuth+"?tab="+tabSignup, service.Message(err))
		return
	}

	if !h.startSession(w, r, user) {
		return
	}
	flashSuccess(w, r, h.renderer, RouteAdmin, "Conta criada!")
}

// startSession renews the session token and stores the user id in it.
func (h *AuthHandler) startSession(w http.ResponseWriter, r *http.Request, user model.User) bool {
	// Regenerate session ID to prevent session fixation
	if err := h.sessionManager.RenewToken(r.Context()); err != nil {
		logAndInternalError(w, r, "session renewal error", "error", err)
		return false
	}
	h.sessionManager.Put(r.Context(), middleware.SessionKeyUserID, user.ID)
	h.logger.InfoContext(r.Context(), "user signed in", "user_id", user.ID, "email", user.Email)
	return true
}

// Logout handles user logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID := h.sessionManager.GetString(r.Context(), middleware.SessionKeyUserID)

	if err := h.sessionManager.Destroy(r.Context()); err != nil {
		h.logger.ErrorContext(r.Context(), "session destroy error", "error", err)
	}
	h.logger.InfoContext(r.Context(), "user signed out", "user_id", userID)

	flashAndRedirect(w, r, h.renderer, RouteAuth, "Você saiu da sua conta.", render.FlashInfo)
}

// Setup handles the admin setup form on the sign-in page.
func (h *AuthHandler) Setup(w http.ResponseWriter, r *http.Request) {
	back := RouteAuth + "?tab=" + tabSetup
	if !parseFormOrRedirect(w, r, h.renderer, back) {
		return
	}

	email := r.PostFormValue("email")
	result, err := h.elevation.Elevate(r.Context(), email, r.PostFormValue("token"))
	if err != nil {
		if errs := fieldErrors(err); errs != nil {
			h.render(w, r, http.StatusUnprocessableEntity, authView{Tab: tabSetup, Email: email, Errors: errs})
			return
		}
		if elevationStatus(err) == http.StatusInternalServerError {
			h.logger.ErrorContext(r.Context(), "elevation failed", "error", err)
		}
		flashError(w, r, h.renderer, back, elevationMessage(err))
		return
	}

	next := RouteAuth
	if h.sessionManager.GetString(r.Context(), middleware.SessionKeyUserID) != "" {
		next = RouteAdmin
	}
	flashSuccess(w, r, h.renderer, next, result.Message())
}

type setupAdminRequest struct {
	Email string `json:"email"`
	Token string `json:"token"`
}

// SetupAdmin is the JSON elevation endpoint.
// POST /api/setup-admin {"email": "...", "token": "..."}
func (h *AuthHandler) SetupAdmin(w http.ResponseWriter, r *http.Request) {
	var req setupAdminRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Corpo JSON inválido")
		return
	}

	result, err := h.elevation.Elevate(r.Context(), req.Email, req.Token)
	if err != nil {
		status := elevationStatus(err)
		if status == http.StatusInternalServerError {
			h.logger.ErrorContext(r.Context(), "elevation failed", "error", err)
			writeJSONError(w, status, "Erro interno do servidor")
			return
		}
		writeJSONError(w, status, elevationMessage(err))
		return
	}

	writeSetupAdmin(w, result.UserID, result.Message())
}

func elevationStatus(err error) int {
	var ve *service.ValidationError
	switch {
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &ve):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func elevationMessage(err error) string {
	switch {
	case errors.Is(err, service.ErrUnauthorized):
		return "Token inválido"
	case errors.Is(err, service.ErrNotFound):
		return "Usuário não encontrado. Certifique-se de que já criou uma conta."
	default:
		return service.Message(err)
	}
}
