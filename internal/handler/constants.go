// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

// Route pattern constants for chi router registration.
const (
	// RouteRoot is the home page.
	RouteRoot = "/"
	// RouteSections serves htmx section fragments.
	RouteSections = "/sections/{name}"
	// RouteContact receives the contact form.
	RouteContact = "/contact"

	// RouteAuth is the sign-in page.
	RouteAuth = "/auth"
	// RouteAuthLogin receives the sign-in form.
	RouteAuthLogin = "/auth/login"
	// RouteAuthSignup receives the sign-up form.
	RouteAuthSignup = "/auth/signup"
	// RouteAuthSetup receives the admin setup form.
	RouteAuthSetup = "/auth/setup"
	// RouteAuthLogout signs the user out.
	RouteAuthLogout = "/auth/logout"

	// RouteSetupAdminAPI is the JSON elevation endpoint.
	RouteSetupAdminAPI = "/api/setup-admin"

	// RouteAdmin is the admin dashboard.
	RouteAdmin = "/admin"
	// RouteMessages is the contact inbox, relative to RouteAdmin.
	RouteMessages = "/messages"
	// RouteCollection is a content collection, relative to RouteAdmin.
	RouteCollection = "/{collection}"
	// RouteParamID is the ID parameter pattern.
	RouteParamID = "/{id}"
	// RouteSuffixToggle flips the active flag.
	RouteSuffixToggle = "/toggle"
	// RouteSuffixDelete confirms and performs deletion.
	RouteSuffixDelete = "/delete"

	// RouteHealth is the health check.
	RouteHealth = "/health"
)

// Page template names.
const (
	pageHome          = "pages/home"
	pageAuth          = "auth/auth"
	pageDashboard     = "admin/dashboard"
	pageCollection    = "admin/collection"
	pageConfirmDelete = "admin/confirm_delete"
	pageMessages      = "admin/messages"
)

// Edit buffer modes.
const (
	modeCreate = "create"
	modeUpdate = "update"
)

// Auth page tabs.
const (
	tabLogin  = "login"
	tabSignup = "signup"
	tabSetup  = "setup"
)
