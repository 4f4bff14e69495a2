// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service holds the site's business rules: the role gate, identity,
// admin elevation, the schema-driven content manager, the public section
// feed, the visit counter and the contact inbox.
package service

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrUnauthorized means the caller lacks the admin role or presented a
	// bad elevation token or bad credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound means the identity or record does not exist.
	ErrNotFound = errors.New("not found")
)

// ValidationError lists the fields that failed validation, keyed by field
// name, with the message to show next to each.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 1 {
		for _, msg := range e.Fields {
			return msg
		}
	}
	msgs := make([]string, 0, len(e.Fields))
	for _, msg := range e.Fields {
		msgs = append(msgs, msg)
	}
	sort.Strings(msgs)
	return strings.Join(msgs, "; ")
}

// StoreError wraps an underlying persistence failure.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// storeErr converts a store failure: missing rows become ErrNotFound and
// everything else a *StoreError.
func storeErr(op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return &StoreError{Op: op, Err: err}
}

// Message returns the notice shown to a user for err. Store failures include
// the underlying message.
func Message(err error) string {
	var ve *ValidationError
	var se *StoreError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &ve):
		return ve.Error()
	case errors.Is(err, ErrUnauthorized):
		return "Sem permissão"
	case errors.Is(err, ErrNotFound):
		return "Item não encontrado"
	case errors.As(err, &se):
		return "Erro ao salvar: " + se.Err.Error()
	default:
		return err.Error()
	}
}
