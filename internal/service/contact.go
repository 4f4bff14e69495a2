// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"html"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"

	"github.com/olegiv/artist-site/internal/model"
	"github.com/olegiv/artist-site/internal/store"
)

// ContactInput is the public contact form.
type ContactInput struct {
	Name    string `form:"name" validate:"required,max=120"`
	Email   string `form:"email" validate:"required,email,max=254"`
	Phone   string `form:"phone" validate:"max=40"`
	Message string `form:"message" validate:"required,max=5000"`
}

// ContactService stores contact form messages for the admin inbox.
type ContactService struct {
	queries *store.Queries
	policy  *bluemonday.Policy
	logger  *slog.Logger
}

// NewContactService creates a ContactService.
func NewContactService(db store.DBTX, logger *slog.Logger) *ContactService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ContactService{
		queries: store.New(db),
		policy:  bluemonday.StrictPolicy(),
		logger:  logger,
	}
}

// plain strips markup and returns the text unescaped; templates escape on output.
func (s *ContactService) plain(v string) string {
	return strings.TrimSpace(html.UnescapeString(s.policy.Sanitize(v)))
}

// Submit sanitizes and stores a message.
func (s *ContactService) Submit(ctx context.Context, in ContactInput) error {
	in = ContactInput{
		Name:    s.plain(in.Name),
		Email:   strings.TrimSpace(in.Email),
		Phone:   s.plain(in.Phone),
		Message: s.plain(in.Message),
	}
	if err := validateStruct(in); err != nil {
		return err
	}

	id := uuid.NewString()
	if err := s.queries.CreateContactMessage(ctx, store.CreateContactMessageParams{
		ID:        id,
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		Message:   in.Message,
		CreatedAt: time.Now().UTC(),
	}); err != nil {
		return storeErr("contact.Submit", err)
	}

	s.logger.InfoContext(ctx, "contact message received", "id", id)
	return nil
}

// List returns the inbox, newest first. Admins only.
func (s *ContactService) List(ctx context.Context, actor Actor) ([]model.ContactMessage, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	msgs, err := s.queries.ListContactMessages(ctx)
	if err != nil {
		return nil, storeErr("contact.List", err)
	}
	return msgs, nil
}

// Delete removes a message. Admins only.
func (s *ContactService) Delete(ctx context.Context, actor Actor, id string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	n, err := s.queries.DeleteContactMessage(ctx, id)
	if err != nil {
		return storeErr("contact.Delete", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
