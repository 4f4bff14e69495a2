// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/olegiv/artist-site/internal/model"
	"github.com/olegiv/artist-site/internal/store"
)

// Mutation actions reported to a MutationObserver.
const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionToggle = "toggle"
	ActionDelete = "delete"
)

// MutationObserver is told about every attempted content mutation.
type MutationObserver interface {
	ObserveMutation(collection, action, outcome string)
}

// SectionInvalidator drops cached public data for a collection.
type SectionInvalidator interface {
	Invalidate(ctx context.Context, collection string)
}

// ContentService is the admin-side manager shared by every collection. The
// schema decides the fields, the required ones and the list order.
type ContentService struct {
	content  *store.Content
	sections SectionInvalidator
	observer MutationObserver
	logger   *slog.Logger
}

// ContentOption configures a ContentService.
type ContentOption func(*ContentService)

// WithSectionInvalidator makes mutations drop the public cache entry.
func WithSectionInvalidator(si SectionInvalidator) ContentOption {
	return func(s *ContentService) { s.sections = si }
}

// WithMutationObserver reports mutation outcomes, e.g. to metrics.
func WithMutationObserver(o MutationObserver) ContentOption {
	return func(s *ContentService) { s.observer = o }
}

// NewContentService creates a ContentService.
func NewContentService(db store.DBTX, logger *slog.Logger, opts ...ContentOption) *ContentService {
	if logger == nil {
		logger = slog.Default()
	}
	s := &ContentService{content: store.NewContent(db), logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns every row of the collection, active or not, in admin order.
// filter may narrow by the schema's group column.
func (s *ContentService) List(ctx context.Context, schema model.Schema, filter map[string]string) ([]model.Record, error) {
	where := map[string]string{}
	for k, v := range filter {
		if v == "" {
			continue
		}
		if _, ok := schema.Column(k); ok {
			where[k] = v
		}
	}

	records, err := s.content.List(ctx, schema, store.ListOptions{Order: schema.AdminOrder, Where: where})
	if err != nil {
		return nil, storeErr("content.List", err)
	}
	return records, nil
}

// Get returns one record.
func (s *ContentService) Get(ctx context.Context, schema model.Schema, id string) (model.Record, error) {
	rec, err := s.content.Get(ctx, schema, id)
	if err != nil {
		return model.Record{}, storeErr("content.Get", err)
	}
	return rec, nil
}

// Create validates and inserts a record. New records are active.
func (s *ContentService) Create(ctx context.Context, actor Actor, schema model.Schema, fields map[string]string) (model.Record, error) {
	if err := s.gate(actor, schema, ActionCreate); err != nil {
		return model.Record{}, err
	}

	clean, err := s.validate(schema, fields)
	if err != nil {
		s.observe(schema, ActionCreate, "invalid")
		return model.Record{}, err
	}

	rec, err := s.content.Insert(ctx, schema, clean)
	if err != nil {
		return model.Record{}, s.failed(ctx, schema, ActionCreate, err)
	}

	s.succeeded(ctx, actor, schema, ActionCreate, rec.ID)
	return rec, nil
}

// Update validates and overwrites a record's fields. is_active is untouched.
func (s *ContentService) Update(ctx context.Context, actor Actor, schema model.Schema, id string, fields map[string]string) (model.Record, error) {
	if err := s.gate(actor, schema, ActionUpdate); err != nil {
		return model.Record{}, err
	}

	clean, err := s.validate(schema, fields)
	if err != nil {
		s.observe(schema, ActionUpdate, "invalid")
		return model.Record{}, err
	}

	rec, err := s.content.Update(ctx, schema, id, clean)
	if err != nil {
		return model.Record{}, s.failed(ctx, schema, ActionUpdate, err)
	}

	s.succeeded(ctx, actor, schema, ActionUpdate, id)
	return rec, nil
}

// ToggleActive flips the visibility flag and returns the updated record.
func (s *ContentService) ToggleActive(ctx context.Context, actor Actor, schema model.Schema, id string) (model.Record, error) {
	if err := s.gate(actor, schema, ActionToggle); err != nil {
		return model.Record{}, err
	}

	rec, err := s.content.Get(ctx, schema, id)
	if err != nil {
		return model.Record{}, s.failed(ctx, schema, ActionToggle, err)
	}
	if err := s.content.SetActive(ctx, schema, id, !rec.IsActive); err != nil {
		return model.Record{}, s.failed(ctx, schema, ActionToggle, err)
	}
	rec.IsActive = !rec.IsActive

	s.succeeded(ctx, actor, schema, ActionToggle, id)
	return rec, nil
}

// Delete permanently removes a record. Callers confirm with the user first.
func (s *ContentService) Delete(ctx context.Context, actor Actor, schema model.Schema, id string) error {
	if err := s.gate(actor, schema, ActionDelete); err != nil {
		return err
	}

	if err := s.content.Delete(ctx, schema, id); err != nil {
		return s.failed(ctx, schema, ActionDelete, err)
	}

	s.succeeded(ctx, actor, schema, ActionDelete, id)
	return nil
}

// Count returns the total and active number of records.
func (s *ContentService) Count(ctx context.Context, schema model.Schema) (total, active int64, err error) {
	if total, err = s.content.Count(ctx, schema, false); err != nil {
		return 0, 0, storeErr("content.Count", err)
	}
	if active, err = s.content.Count(ctx, schema, true); err != nil {
		return 0, 0, storeErr("content.Count", err)
	}
	return total, active, nil
}

// gate rejects non-admin mutations before the store is touched.
func (s *ContentService) gate(actor Actor, schema model.Schema, action string) error {
	if err := requireAdmin(actor); err != nil {
		s.logger.Warn("mutation rejected: not an admin",
			"collection", schema.Name, "action", action, "user_id", actor.UserID)
		s.observe(schema, action, "forbidden")
		return err
	}
	return nil
}

// validate keeps only schema columns, trims them and checks required ones
// and the format each column kind stores.
func (s *ContentService) validate(schema model.Schema, fields map[string]string) (map[string]string, error) {
	clean := make(map[string]string, len(schema.Columns))
	data := make(map[string]interface{}, len(schema.Columns))
	rules := make(map[string]interface{})

	for _, col := range schema.Columns {
		v := strings.TrimSpace(fields[col.Name])
		clean[col.Name] = v
		data[col.Name] = v
		if rule := columnRule(col); rule != "" {
			rules[col.Name] = rule
		}
	}

	failed := validate.ValidateMap(data, rules)
	if len(failed) == 0 {
		return clean, nil
	}

	msgs := make(map[string]string, len(failed))
	for name, ferr := range failed {
		col, _ := schema.Column(name)
		tag := "required"
		var verrs validator.ValidationErrors
		if err, ok := ferr.(error); ok && errors.As(err, &verrs) && len(verrs) > 0 {
			tag = verrs[0].Tag()
		}
		msgs[name] = columnMessage(col, tag)
	}
	return nil, &ValidationError{Fields: msgs}
}

// columnRule builds the validator rule for a column from its kind.
func columnRule(col model.Column) string {
	var format string
	switch col.Kind {
	case model.KindDate:
		format = "datetime=" + model.DateLayout
	case model.KindTime:
		format = "datetime=" + model.TimeLayout
	case model.KindNumber:
		format = "numeric"
	case model.KindSelect:
		if len(col.Options) > 0 {
			format = "oneof=" + strings.Join(col.Options, " ")
		}
	}

	switch {
	case col.Required && format != "":
		return "required," + format
	case col.Required:
		return "required"
	case format != "":
		return "omitempty," + format
	default:
		return ""
	}
}

func columnMessage(col model.Column, tag string) string {
	label := col.Label
	if label == "" {
		label = col.Name
	}
	switch {
	case tag == "required":
		return label + " é obrigatório"
	case tag == "datetime" && col.Kind == model.KindTime:
		return label + " deve estar no formato HH:MM"
	case tag == "datetime":
		return label + " deve estar no formato AAAA-MM-DD"
	case tag == "numeric":
		return label + " deve ser um número"
	case tag == "oneof":
		return label + " deve ser uma das opções da lista"
	default:
		return label + " é inválido"
	}
}

func (s *ContentService) failed(ctx context.Context, schema model.Schema, action string, err error) error {
	converted := storeErr("content."+action, err)
	if converted == ErrNotFound {
		s.observe(schema, action, "not_found")
	} else {
		s.logger.ErrorContext(ctx, "content mutation failed",
			"collection", schema.Name, "action", action, "error", err)
		s.observe(schema, action, "error")
	}
	return converted
}

func (s *ContentService) succeeded(ctx context.Context, actor Actor, schema model.Schema, action, id string) {
	s.logger.InfoContext(ctx, "content changed",
		"collection", schema.Name, "action", action, "id", id, "user_id", actor.UserID)
	s.observe(schema, action, "ok")
	if s.sections != nil {
		s.sections.Invalidate(ctx, schema.Name)
	}
}

func (s *ContentService) observe(schema model.Schema, action, outcome string) {
	if s.observer != nil {
		s.observer.ObserveMutation(schema.Name, action, outcome)
	}
}
