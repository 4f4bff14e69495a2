// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/olegiv/artist-site/internal/cache"
	"github.com/olegiv/artist-site/internal/model"
	"github.com/olegiv/artist-site/internal/store"
)

const sectionKeyPrefix = "section:"

// sectionEntry is a cached public list. Entries computed on another day are
// stale because the events filter depends on the date.
type sectionEntry struct {
	Day     string         `json:"day"`
	Records []model.Record `json:"records"`
}

// PublicService feeds the home page sections. It only ever returns active
// records, and it never returns an error: failures are logged and look like
// an empty section to visitors.
//
// Every invalidation bumps a generation counter. A fetch that started under
// an older generation never leaves its list in the cache.
type PublicService struct {
	content  *store.Content
	sections *cache.TypedCache[sectionEntry]
	cache    cache.Cache
	gens     map[string]*atomic.Uint64
	epoch    atomic.Uint64
	loc      *time.Location
	now      func() time.Time
	logger   *slog.Logger
}

// NewPublicService creates a PublicService. loc decides when "today" starts.
func NewPublicService(db store.DBTX, c cache.Cache, ttl time.Duration, loc *time.Location, logger *slog.Logger) *PublicService {
	if logger == nil {
		logger = slog.Default()
	}
	if loc == nil {
		loc = time.UTC
	}
	gens := make(map[string]*atomic.Uint64)
	for _, schema := range model.Collections() {
		gens[schema.Name] = new(atomic.Uint64)
	}
	return &PublicService{
		content:  store.NewContent(db),
		sections: cache.NewTypedCache[sectionEntry](c, ttl),
		cache:    c,
		gens:     gens,
		loc:      loc,
		now:      time.Now,
		logger:   logger,
	}
}

// generation identifies the cache state of a collection. It changes on
// every Invalidate of that collection and on every InvalidateAll.
type generation struct {
	collection uint64
	all        uint64
}

func (s *PublicService) generation(collection string) generation {
	g := generation{all: s.epoch.Load()}
	if c, ok := s.gens[collection]; ok {
		g.collection = c.Load()
	}
	return g
}

// Today returns the current date in the site's timezone as YYYY-MM-DD.
func (s *PublicService) Today() string {
	return s.now().In(s.loc).Format(model.DateLayout)
}

// Section returns the active records of a collection in public order, capped
// to the schema's limit. Events before today are left out.
func (s *PublicService) Section(ctx context.Context, schema model.Schema) []model.Record {
	today := s.Today()
	key := sectionKeyPrefix + schema.Name

	if entry, ok := s.sections.Get(ctx, key); ok && entry.Day == today {
		return entry.Records
	}

	gen := s.generation(schema.Name)
	records, err := s.content.List(ctx, schema, store.ListOptions{
		ActiveOnly: true,
		OnOrAfter:  today,
		Order:      schema.PublicOrder,
		Limit:      schema.PublicLimit,
	})
	if err != nil {
		s.logger.WarnContext(ctx, "public section fetch failed", "collection", schema.Name, "error", err)
		return nil
	}

	if s.generation(schema.Name) != gen {
		return records
	}
	if err := s.sections.Set(ctx, key, sectionEntry{Day: today, Records: records}); err != nil {
		s.logger.DebugContext(ctx, "caching section failed", "collection", schema.Name, "error", err)
	}
	// An invalidation that landed while the entry was written may have
	// deleted nothing; drop the entry ourselves.
	if s.generation(schema.Name) != gen {
		s.drop(ctx, schema.Name)
	}
	return records
}

func (s *PublicService) section(ctx context.Context, name string) []model.Record {
	schema, ok := model.CollectionByName(name)
	if !ok {
		return nil
	}
	return s.Section(ctx, schema)
}

// Press returns the public press mentions.
func (s *PublicService) Press(ctx context.Context) []model.PressArticle {
	recs := s.section(ctx, model.CollectionPress)
	out := make([]model.PressArticle, 0, len(recs))
	for _, r := range recs {
		out = append(out, model.PressArticleFromRecord(r))
	}
	return out
}

// Events returns the upcoming public events.
func (s *PublicService) Events(ctx context.Context) []model.Event {
	recs := s.section(ctx, model.CollectionEvents)
	out := make([]model.Event, 0, len(recs))
	for _, r := range recs {
		out = append(out, model.EventFromRecord(r))
	}
	return out
}

// Presaves returns the public pre-saves.
func (s *PublicService) Presaves(ctx context.Context) []model.Presave {
	recs := s.section(ctx, model.CollectionPresaves)
	out := make([]model.Presave, 0, len(recs))
	for _, r := range recs {
		out = append(out, model.PresaveFromRecord(r))
	}
	return out
}

// Releases returns the public releases.
func (s *PublicService) Releases(ctx context.Context) []model.Release {
	recs := s.section(ctx, model.CollectionReleases)
	out := make([]model.Release, 0, len(recs))
	for _, r := range recs {
		out = append(out, model.ReleaseFromRecord(r))
	}
	return out
}

// MediaGroups returns active media grouped by category in category order.
// Categories without items are left out.
func (s *PublicService) MediaGroups(ctx context.Context) []model.MediaGroup {
	byCat := make(map[model.MediaCategory][]model.MediaItem)
	for _, r := range s.section(ctx, model.CollectionMedia) {
		item := model.MediaItemFromRecord(r)
		byCat[item.Category] = append(byCat[item.Category], item)
	}

	var groups []model.MediaGroup
	for _, cat := range model.MediaCategories() {
		if items := byCat[cat]; len(items) > 0 {
			groups = append(groups, model.MediaGroup{Category: cat, Items: items})
		}
	}
	return groups
}

// Invalidate drops the cached list of one collection.
func (s *PublicService) Invalidate(ctx context.Context, collection string) {
	if c, ok := s.gens[collection]; ok {
		c.Add(1)
	} else {
		s.epoch.Add(1)
	}
	s.drop(ctx, collection)
}

func (s *PublicService) drop(ctx context.Context, collection string) {
	if err := s.cache.Delete(ctx, sectionKeyPrefix+collection); err != nil {
		s.logger.WarnContext(ctx, "section cache invalidation failed", "collection", collection, "error", err)
	}
}

// InvalidateAll drops every cached section list.
func (s *PublicService) InvalidateAll(ctx context.Context) error {
	s.epoch.Add(1)
	return s.cache.DeleteByPrefix(ctx, sectionKeyPrefix)
}
