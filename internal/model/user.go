// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Roles that can be assigned to an identity.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// DefaultRoleScope is the scope every role assignment of this site uses.
const DefaultRoleScope = "site"

// User is a registered identity.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RoleAssignment grants a role to a user within a scope.
type RoleAssignment struct {
	ID        string
	UserID    string
	Role      string
	Scope     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// VisitRecord is one logged page view.
type VisitRecord struct {
	ID        string
	Page      string
	Device    string
	VisitedAt time.Time
}

// ContactMessage is a message left through the contact form.
type ContactMessage struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	Message   string
	CreatedAt time.Time
}
