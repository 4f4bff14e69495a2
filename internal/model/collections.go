// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Collection names.
const (
	CollectionPress    = "press"
	CollectionEvents   = "events"
	CollectionPresaves = "presaves"
	CollectionReleases = "releases"
	CollectionMedia    = "media"
)

var collections = []Schema{
	{
		Name:     CollectionPress,
		Title:    "Imprensa",
		Singular: "matéria",
		Added:    "Matéria adicionada!",
		Table:    "press_articles",
		Columns: []Column{
			{Name: "title", Label: "Título", Kind: KindText, Required: true},
			{Name: "source", Label: "Fonte", Kind: KindText, Required: true},
			{Name: "link", Label: "Link", Kind: KindURL, Required: true},
			{Name: "image_url", Label: "URL da Imagem", Kind: KindURL},
			{Name: "published_at", Label: "Data de publicação", Kind: KindDate},
		},
		AdminOrder:  Order{Column: "created_at", Desc: true},
		PublicOrder: Order{Column: "published_at", Desc: true},
		PublicLimit: 6,
	},
	{
		Name:     CollectionEvents,
		Title:    "Agenda",
		Singular: "evento",
		Added:    "Evento adicionado!",
		Table:    "events",
		Columns: []Column{
			{Name: "title", Label: "Título", Kind: KindText, Required: true},
			{Name: "venue", Label: "Local", Kind: KindText, Required: true},
			{Name: "city", Label: "Cidade", Kind: KindText, Required: true},
			{Name: "event_date", Label: "Data", Kind: KindDate, Required: true},
			{Name: "event_time", Label: "Horário", Kind: KindTime},
			{Name: "ticket_link", Label: "Link Ingresso", Kind: KindURL},
		},
		AdminOrder:     Order{Column: "event_date"},
		PublicOrder:    Order{Column: "event_date"},
		PublicLimit:    6,
		UpcomingColumn: "event_date",
	},
	{
		Name:     CollectionPresaves,
		Title:    "Pre-saves",
		Singular: "pre-save",
		Added:    "Pre-save adicionado!",
		Table:    "presaves",
		Columns: []Column{
			{Name: "title", Label: "Título", Kind: KindText, Required: true},
			{Name: "description", Label: "Descrição", Kind: KindTextarea},
			{Name: "cover_url", Label: "URL da Capa", Kind: KindURL},
			{Name: "presave_link", Label: "Link Pre-Save", Kind: KindURL, Required: true},
			{Name: "release_date", Label: "Data de Lançamento", Kind: KindDate},
		},
		AdminOrder:  Order{Column: "created_at", Desc: true},
		PublicOrder: Order{Column: "created_at", Desc: true},
		PublicLimit: 3,
	},
	{
		Name:     CollectionReleases,
		Title:    "Lançamentos",
		Singular: "lançamento",
		Added:    "Lançamento adicionado!",
		Table:    "releases",
		Columns: []Column{
			{Name: "title", Label: "Título", Kind: KindText, Required: true},
			{Name: "cover_url", Label: "URL da Capa", Kind: KindURL},
			{Name: "spotify_link", Label: "Link Spotify", Kind: KindURL},
			{Name: "youtube_link", Label: "Link YouTube", Kind: KindURL},
			{Name: "release_date", Label: "Data de Lançamento", Kind: KindDate},
		},
		AdminOrder:  Order{Column: "release_date", Desc: true},
		PublicOrder: Order{Column: "release_date", Desc: true},
		PublicLimit: 6,
	},
	{
		Name:     CollectionMedia,
		Title:    "Mídia",
		Singular: "item",
		Added:    "Item adicionado!",
		Table:    "media_items",
		Columns: []Column{
			{Name: "title", Label: "Título", Kind: KindText, Required: true},
			{Name: "url", Label: "URL", Kind: KindURL, Required: true},
			{Name: "thumbnail_url", Label: "URL Thumbnail", Kind: KindURL},
			{Name: "drive_link", Label: "Link Google Drive", Kind: KindURL},
			{Name: "category", Label: "Categoria", Kind: KindSelect, Required: true, Options: MediaCategoryNames()},
			{Name: "display_order", Label: "Ordem de exibição", Kind: KindNumber},
		},
		AdminOrder:  Order{Column: "display_order"},
		PublicOrder: Order{Column: "display_order"},
		GroupColumn: "category",
	},
}

// Collections returns the content collection schemas in admin menu order.
func Collections() []Schema {
	out := make([]Schema, len(collections))
	copy(out, collections)
	return out
}

// CollectionByName looks up a schema by its URL name.
func CollectionByName(name string) (Schema, bool) {
	for _, s := range collections {
		if s.Name == name {
			return s, true
		}
	}
	return Schema{}, false
}
