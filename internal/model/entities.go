// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// PressArticle is a press mention shown on the home page.
type PressArticle struct {
	ID          string
	Title       string
	Source      string
	Link        string
	ImageURL    string
	PublishedAt time.Time
	IsActive    bool
}

// PressArticleFromRecord converts a press_articles record.
func PressArticleFromRecord(r Record) PressArticle {
	return PressArticle{
		ID:          r.ID,
		Title:       r.Get("title"),
		Source:      r.Get("source"),
		Link:        r.Get("link"),
		ImageURL:    r.Get("image_url"),
		PublishedAt: r.Date("published_at"),
		IsActive:    r.IsActive,
	}
}

// Event is a show in the agenda.
type Event struct {
	ID         string
	Title      string
	Venue      string
	City       string
	Date       time.Time
	Time       string
	TicketLink string
	IsActive   bool
}

// EventFromRecord converts an events record.
func EventFromRecord(r Record) Event {
	return Event{
		ID:         r.ID,
		Title:      r.Get("title"),
		Venue:      r.Get("venue"),
		City:       r.Get("city"),
		Date:       r.Date("event_date"),
		Time:       r.Get("event_time"),
		TicketLink: r.Get("ticket_link"),
		IsActive:   r.IsActive,
	}
}

// Presave is an upcoming release fans can pre-save.
type Presave struct {
	ID          string
	Title       string
	Description string
	CoverURL    string
	PresaveLink string
	ReleaseDate time.Time
	IsActive    bool
}

// PresaveFromRecord converts a presaves record.
func PresaveFromRecord(r Record) Presave {
	return Presave{
		ID:          r.ID,
		Title:       r.Get("title"),
		Description: r.Get("description"),
		CoverURL:    r.Get("cover_url"),
		PresaveLink: r.Get("presave_link"),
		ReleaseDate: r.Date("release_date"),
		IsActive:    r.IsActive,
	}
}

// Release is a published track or album.
type Release struct {
	ID          string
	Title       string
	CoverURL    string
	SpotifyLink string
	YouTubeLink string
	ReleaseDate time.Time
	IsActive    bool
}

// ReleaseFromRecord converts a releases record.
func ReleaseFromRecord(r Record) Release {
	return Release{
		ID:          r.ID,
		Title:       r.Get("title"),
		CoverURL:    r.Get("cover_url"),
		SpotifyLink: r.Get("spotify_link"),
		YouTubeLink: r.Get("youtube_link"),
		ReleaseDate: r.Date("release_date"),
		IsActive:    r.IsActive,
	}
}

// MediaItem is a downloadable asset for press and promoters.
type MediaItem struct {
	ID           string
	Title        string
	URL          string
	ThumbnailURL string
	DriveLink    string
	Category     MediaCategory
	DisplayOrder int
	IsActive     bool
}

// MediaItemFromRecord converts a media_items record.
func MediaItemFromRecord(r Record) MediaItem {
	return MediaItem{
		ID:           r.ID,
		Title:        r.Get("title"),
		URL:          r.Get("url"),
		ThumbnailURL: r.Get("thumbnail_url"),
		DriveLink:    r.Get("drive_link"),
		Category:     MediaCategory(r.Get("category")),
		DisplayOrder: r.Int("display_order"),
		IsActive:     r.IsActive,
	}
}

// MediaGroup is the active media of one category.
type MediaGroup struct {
	Category MediaCategory
	Items    []MediaItem
}
