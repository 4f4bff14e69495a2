// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

// Actor is the identity performing an operation. Handlers build it per
// request from the session and the role resolver and pass it explicitly.
type Actor struct {
	UserID  string
	Email   string
	IsAdmin bool
}

// Authenticated reports whether the actor is signed in.
func (a Actor) Authenticated() bool {
	return a.UserID != ""
}

func requireAdmin(a Actor) error {
	if !a.Authenticated() || !a.IsAdmin {
		return ErrUnauthorized
	}
	return nil
}
