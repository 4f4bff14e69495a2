// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/artist-site/internal/cache"
	"github.com/olegiv/artist-site/internal/model"
	"github.com/olegiv/artist-site/internal/testutil"
)

var (
	adminActor = Actor{UserID: "admin-1", Email: "admin@example.com", IsAdmin: true}
	fanActor   = Actor{UserID: "fan-1", Email: "fan@example.com"}
)

type recordingObserver struct {
	events []string
}

func (o *recordingObserver) ObserveMutation(collection, action, outcome string) {
	o.events = append(o.events, collection+"/"+action+"/"+outcome)
}

type fixture struct {
	db       *sql.DB
	content  *ContentService
	public   *PublicService
	observer *recordingObserver
}

// newFixture wires a content manager and public feed over one database with
// "today" pinned to 2026-10-18 in UTC.
func newFixture(t *testing.T) fixture {
	t.Helper()

	db := testutil.TestDB(t)
	mc := cache.NewMemoryCache(cache.MemoryCacheOptions{DefaultTTL: time.Hour})
	t.Cleanup(func() { _ = mc.Close() })

	public := NewPublicService(db, mc, time.Hour, time.UTC, testutil.TestLogger())
	public.now = func() time.Time { return time.Date(2026, 10, 18, 15, 0, 0, 0, time.UTC) }

	obs := &recordingObserver{}
	content := NewContentService(db, testutil.TestLogger(),
		WithSectionInvalidator(public),
		WithMutationObserver(obs),
	)
	return fixture{db: db, content: content, public: public, observer: obs}
}

func schemaFor(t *testing.T, name string) model.Schema {
	t.Helper()
	s, ok := model.CollectionByName(name)
	require.True(t, ok, "collection %s", name)
	return s
}

func eventFields(date string) map[string]string {
	return map[string]string{"title": "Show Rio", "venue": "Club X", "city": "Rio", "event_date": date}
}

func TestContentService_CreateDefaultsActive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	rec, err := f.content.Create(ctx, adminActor, schemaFor(t, model.CollectionPress), map[string]string{
		"title": " Matéria ", "source": "O Globo", "link": "https://example.com",
	})
	require.NoError(t, err)
	assert.True(t, rec.IsActive)
	assert.Equal(t, "Matéria", rec.Get("title"))
	assert.Equal(t, []string{"press/create/ok"}, f.observer.events)
}

func TestContentService_RequiredFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	events := schemaFor(t, model.CollectionEvents)

	_, err := f.content.Create(ctx, adminActor, events, map[string]string{"title": "Show", "venue": "  "})

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Len(t, ve.Fields, 3)
	assert.Equal(t, "Local é obrigatório", ve.Fields["venue"])
	assert.Contains(t, ve.Fields, "city")
	assert.Contains(t, ve.Fields, "event_date")
	assert.Equal(t, 0, testutil.CountRows(t, f.db, "events"))
}

func TestContentService_NonAdminRejectedBeforeStore(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	press := schemaFor(t, model.CollectionPress)

	rec, err := f.content.Create(ctx, adminActor, press, map[string]string{
		"title": "A", "source": "B", "link": "https://c",
	})
	require.NoError(t, err)

	for _, actor := range []Actor{fanActor, {}} {
		_, err = f.content.Create(ctx, actor, press, map[string]string{"title": "X", "source": "Y", "link": "https://z"})
		assert.ErrorIs(t, err, ErrUnauthorized)

		_, err = f.content.Update(ctx, actor, press, rec.ID, map[string]string{"title": "X", "source": "Y", "link": "https://z"})
		assert.ErrorIs(t, err, ErrUnauthorized)

		_, err = f.content.ToggleActive(ctx, actor, press, rec.ID)
		assert.ErrorIs(t, err, ErrUnauthorized)

		assert.ErrorIs(t, f.content.Delete(ctx, actor, press, rec.ID), ErrUnauthorized)
	}

	got, err := f.content.Get(ctx, press, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "A", got.Get("title"))
	assert.True(t, got.IsActive)
	assert.Equal(t, 1, testutil.CountRows(t, f.db, "press_articles"))
	assert.Contains(t, f.observer.events, "press/delete/forbidden")
}

func TestContentService_NonAdminCanList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	releases := schemaFor(t, model.CollectionReleases)

	_, err := f.content.Create(ctx, adminActor, releases, map[string]string{"title": "Noite"})
	require.NoError(t, err)

	recs, err := f.content.List(ctx, releases, nil)
	require.NoError(t, err)
	assert.Len(t, recs, 1)
}

func TestContentService_ListIncludesInactive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	presaves := schemaFor(t, model.CollectionPresaves)

	rec, err := f.content.Create(ctx, adminActor, presaves, map[string]string{"title": "Single", "presave_link": "https://p"})
	require.NoError(t, err)
	_, err = f.content.ToggleActive(ctx, adminActor, presaves, rec.ID)
	require.NoError(t, err)

	recs, err := f.content.List(ctx, presaves, nil)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.False(t, recs[0].IsActive)
}

func TestContentService_ListFilterIgnoresUnknownColumns(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	media := schemaFor(t, model.CollectionMedia)

	for _, cat := range []string{"photos", "rider"} {
		_, err := f.content.Create(ctx, adminActor, media, map[string]string{"title": cat, "url": "https://m", "category": cat})
		require.NoError(t, err)
	}

	recs, err := f.content.List(ctx, media, map[string]string{"category": "rider", "bogus": "x"})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "rider", recs[0].Get("category"))
}

func TestContentService_UpdateKeepsActiveFlag(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	press := schemaFor(t, model.CollectionPress)

	rec, err := f.content.Create(ctx, adminActor, press, map[string]string{"title": "A", "source": "B", "link": "https://c"})
	require.NoError(t, err)
	_, err = f.content.ToggleActive(ctx, adminActor, press, rec.ID)
	require.NoError(t, err)

	updated, err := f.content.Update(ctx, adminActor, press, rec.ID, map[string]string{"title": "A2", "source": "B", "link": "https://c"})
	require.NoError(t, err)
	assert.Equal(t, "A2", updated.Get("title"))
	assert.False(t, updated.IsActive)
}

func TestContentService_MissingRecord(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	press := schemaFor(t, model.CollectionPress)
	fields := map[string]string{"title": "A", "source": "B", "link": "https://c"}

	_, err := f.content.Update(ctx, adminActor, press, "missing", fields)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.content.ToggleActive(ctx, adminActor, press, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, f.content.Delete(ctx, adminActor, press, "missing"), ErrNotFound)
	_, err = f.content.Get(ctx, press, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestContentService_ColumnFormats(t *testing.T) {
	tests := []struct {
		name       string
		collection string
		fields     map[string]string
		field      string
		want       string
	}{
		{
			name:       "date not ISO",
			collection: model.CollectionEvents,
			fields:     eventFields("31/12/2020"),
			field:      "event_date",
			want:       "Data deve estar no formato AAAA-MM-DD",
		},
		{
			name:       "time not HH:MM",
			collection: model.CollectionEvents,
			fields: map[string]string{
				"title": "Show", "venue": "Club X", "city": "Rio", "event_date": "2026-10-19", "event_time": "9pm",
			},
			field: "event_time",
			want:  "Horário deve estar no formato HH:MM",
		},
		{
			name:       "optional date",
			collection: model.CollectionPress,
			fields: map[string]string{
				"title": "Matéria", "source": "O Globo", "link": "https://example.com", "published_at": "ontem",
			},
			field: "published_at",
			want:  "Data de publicação deve estar no formato AAAA-MM-DD",
		},
		{
			name:       "order not numeric",
			collection: model.CollectionMedia,
			fields:     map[string]string{"title": "Logo", "url": "https://m", "category": "logos", "display_order": "first"},
			field:      "display_order",
			want:       "Ordem de exibição deve ser um número",
		},
		{
			name:       "unknown category",
			collection: model.CollectionMedia,
			fields:     map[string]string{"title": "Logo", "url": "https://m", "category": "audio"},
			field:      "category",
			want:       "Categoria deve ser uma das opções da lista",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			schema := schemaFor(t, tt.collection)

			_, err := f.content.Create(context.Background(), adminActor, schema, tt.fields)

			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, map[string]string{tt.field: tt.want}, ve.Fields)
			assert.Equal(t, 0, testutil.CountRows(t, f.db, schema.Table))
		})
	}
}

func TestContentService_UpdateChecksFormats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	events := schemaFor(t, model.CollectionEvents)

	rec, err := f.content.Create(ctx, adminActor, events, eventFields("2026-10-19"))
	require.NoError(t, err)

	_, err = f.content.Update(ctx, adminActor, events, rec.ID, eventFields("31/12/2020"))
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "event_date")

	got, err := f.content.Get(ctx, events, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "2026-10-19", got.Get("event_date"))
	require.Len(t, f.public.Events(ctx), 1)
}

func TestContentService_ValidFormatsAccepted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.content.Create(ctx, adminActor, schemaFor(t, model.CollectionEvents), map[string]string{
		"title": "Show", "venue": "Club X", "city": "Rio", "event_date": "2026-10-19", "event_time": "23:00",
	})
	require.NoError(t, err)
	_, err = f.content.Create(ctx, adminActor, schemaFor(t, model.CollectionMedia), map[string]string{
		"title": "Rider", "url": "https://r", "category": "rider", "display_order": " 3 ",
	})
	require.NoError(t, err)
}

func TestContentService_StoreErrorCarriesMessage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	media := schemaFor(t, model.CollectionMedia)

	require.NoError(t, f.db.Close())
	_, err := f.content.Create(ctx, adminActor, media, map[string]string{
		"title": "Logo", "url": "https://m", "category": "logos",
	})

	var se *StoreError
	require.ErrorAs(t, err, &se)
	assert.Contains(t, Message(err), "Erro ao salvar")
	assert.Contains(t, f.observer.events, "media/create/error")
}

func TestPublic_EventScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	events := schemaFor(t, model.CollectionEvents)

	_, err := f.content.Create(ctx, adminActor, events, eventFields("2026-10-19"))
	require.NoError(t, err)
	_, err = f.content.Create(ctx, adminActor, events, eventFields("2026-10-17"))
	require.NoError(t, err)
	_, err = f.content.Create(ctx, adminActor, events, eventFields("2026-10-18"))
	require.NoError(t, err)

	public := f.public.Events(ctx)
	require.Len(t, public, 2)
	for _, e := range public {
		assert.False(t, e.Date.Before(time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)), "past event %v listed", e.Date)
	}
	assert.Equal(t, 18, public[0].Date.Day(), "events ascend by date")
}

func TestPublic_OnlyActiveAndCapped(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	presaves := schemaFor(t, model.CollectionPresaves)

	var first string
	for i := 0; i < 5; i++ {
		rec, err := f.content.Create(ctx, adminActor, presaves, map[string]string{"title": "P", "presave_link": "https://p"})
		require.NoError(t, err)
		if i == 0 {
			first = rec.ID
		}
	}
	hidden, err := f.content.Create(ctx, adminActor, presaves, map[string]string{"title": "Hidden", "presave_link": "https://h"})
	require.NoError(t, err)
	_, err = f.content.ToggleActive(ctx, adminActor, presaves, hidden.ID)
	require.NoError(t, err)

	list := f.public.Presaves(ctx)
	assert.Len(t, list, 3)
	for _, p := range list {
		assert.True(t, p.IsActive)
		assert.NotEqual(t, hidden.ID, p.ID)
		assert.NotEqual(t, first, p.ID, "oldest pre-save should fall outside the cap")
	}
}

func TestPublic_ToggleTwiceReflectedInNextFetch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	releases := schemaFor(t, model.CollectionReleases)

	rec, err := f.content.Create(ctx, adminActor, releases, map[string]string{"title": "Noite", "release_date": "2026-01-01"})
	require.NoError(t, err)
	require.Len(t, f.public.Releases(ctx), 1)

	_, err = f.content.ToggleActive(ctx, adminActor, releases, rec.ID)
	require.NoError(t, err)
	assert.Empty(t, f.public.Releases(ctx))

	again, err := f.content.ToggleActive(ctx, adminActor, releases, rec.ID)
	require.NoError(t, err)
	assert.True(t, again.IsActive)
	assert.Len(t, f.public.Releases(ctx), 1)
}

func TestPublic_DeleteRemovesFromBothLists(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	press := schemaFor(t, model.CollectionPress)

	rec, err := f.content.Create(ctx, adminActor, press, map[string]string{"title": "A", "source": "B", "link": "https://c"})
	require.NoError(t, err)
	require.Len(t, f.public.Press(ctx), 1)

	require.NoError(t, f.content.Delete(ctx, adminActor, press, rec.ID))

	admin, err := f.content.List(ctx, press, nil)
	require.NoError(t, err)
	assert.Empty(t, admin)
	assert.Empty(t, f.public.Press(ctx))
}

func TestPublic_CachedEntryFromYesterdayIsStale(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	events := schemaFor(t, model.CollectionEvents)

	_, err := f.content.Create(ctx, adminActor, events, eventFields("2026-10-18"))
	require.NoError(t, err)
	require.Len(t, f.public.Events(ctx), 1)

	f.public.now = func() time.Time { return time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC) }
	assert.Empty(t, f.public.Events(ctx), "yesterday's show must drop off after midnight")
}

func TestPublic_TimezoneDecidesToday(t *testing.T) {
	f := newFixture(t)
	loc, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)
	f.public.loc = loc
	// 01:00 UTC on the 19th is still the 18th in São Paulo.
	f.public.now = func() time.Time { return time.Date(2026, 10, 19, 1, 0, 0, 0, time.UTC) }

	assert.Equal(t, "2026-10-18", f.public.Today())
}

func TestPublic_FetchFailureIsEmpty(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.db.Close())

	assert.Empty(t, f.public.Press(context.Background()))
	assert.Empty(t, f.public.MediaGroups(context.Background()))
}

func TestPublic_MediaGroups(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	media := schemaFor(t, model.CollectionMedia)

	items := []map[string]string{
		{"title": "Rider", "url": "https://r", "category": "rider", "display_order": "1"},
		{"title": "Foto 2", "url": "https://p2", "category": "photos", "display_order": "2"},
		{"title": "Foto 1", "url": "https://p1", "category": "photos", "display_order": "1"},
	}
	for _, it := range items {
		_, err := f.content.Create(ctx, adminActor, media, it)
		require.NoError(t, err)
	}

	groups := f.public.MediaGroups(ctx)
	require.Len(t, groups, 2)
	assert.Equal(t, model.MediaPhotos, groups[0].Category)
	assert.Equal(t, "Foto 1", groups[0].Items[0].Title)
	assert.Equal(t, model.MediaRider, groups[1].Category)
}

func TestMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{ErrUnauthorized, "Sem permissão"},
		{ErrNotFound, "Item não encontrado"},
		{&ValidationError{Fields: map[string]string{"title": "Título é obrigatório"}}, "Título é obrigatório"},
		{&StoreError{Op: "x", Err: errors.New("disk full")}, "Erro ao salvar: disk full"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Message(tt.err))
	}
}
