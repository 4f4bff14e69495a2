// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/olegiv/artist-site/internal/model"
)

// Seed fills empty collections with sample content so a fresh development
// database renders every section of the home page. Collections that already
// hold rows are left alone.
func Seed(ctx context.Context, db DBTX, today time.Time) error {
	content := NewContent(db)

	samples := map[string][]map[string]string{
		model.CollectionPress: {
			{"title": "O novo som das pistas cariocas", "source": "Rio Show", "link": "https://example.com/press/rio-show", "published_at": today.AddDate(0, -1, 0).Format(model.DateLayout)},
			{"title": "Entrevista exclusiva", "source": "Revista Noize", "link": "https://example.com/press/noize", "published_at": today.AddDate(0, -3, 0).Format(model.DateLayout)},
		},
		model.CollectionEvents: {
			{"title": "Show Rio", "venue": "Club X", "city": "Rio de Janeiro", "event_date": today.AddDate(0, 0, 14).Format(model.DateLayout), "event_time": "23:00"},
			{"title": "Festival de Verão", "venue": "Arena", "city": "Salvador", "event_date": today.AddDate(0, 1, 0).Format(model.DateLayout), "event_time": "20:00"},
		},
		model.CollectionPresaves: {
			{"title": "Novo single", "description": "Disponível em todas as plataformas em breve.", "presave_link": "https://example.com/presave", "release_date": today.AddDate(0, 0, 21).Format(model.DateLayout)},
		},
		model.CollectionReleases: {
			{"title": "Noite Eterna", "spotify_link": "https://open.spotify.com/", "release_date": today.AddDate(0, -2, 0).Format(model.DateLayout)},
		},
		model.CollectionMedia: {
			{"title": "Fotos oficiais", "url": "https://example.com/media/photos", "category": string(model.MediaPhotos), "display_order": "1"},
			{"title": "Rider técnico", "url": "https://example.com/media/rider.pdf", "category": string(model.MediaRider), "display_order": "1"},
		},
	}

	for _, s := range model.Collections() {
		n, err := content.Count(ctx, s, false)
		if err != nil {
			return fmt.Errorf("counting %s: %w", s.Name, err)
		}
		if n > 0 {
			slog.Debug("collection already has content, skipping seed", "collection", s.Name)
			continue
		}
		for _, fields := range samples[s.Name] {
			rec, err := content.Insert(ctx, s, fields)
			if err != nil {
				return fmt.Errorf("seeding %s: %w", s.Name, err)
			}
			slog.Info("seeded record", "collection", s.Name, "id", rec.ID)
		}
	}

	return nil
}
