// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// MediaCategory groups downloadable media items.
type MediaCategory string

// Media categories in display order.
const (
	MediaPhotos MediaCategory = "photos"
	MediaVideos MediaCategory = "videos"
	MediaLogos  MediaCategory = "logos"
	MediaRider  MediaCategory = "rider"
)

// MediaCategories returns every category in display order.
func MediaCategories() []MediaCategory {
	return []MediaCategory{MediaPhotos, MediaVideos, MediaLogos, MediaRider}
}

// MediaCategoryNames returns the category values as strings.
func MediaCategoryNames() []string {
	cats := MediaCategories()
	names := make([]string, len(cats))
	for i, c := range cats {
		names[i] = string(c)
	}
	return names
}

// IsValid reports whether c is a known category.
func (c MediaCategory) IsValid() bool {
	for _, known := range MediaCategories() {
		if c == known {
			return true
		}
	}
	return false
}

// Label returns the heading shown on the public media section.
func (c MediaCategory) Label() string {
	switch c {
	case MediaPhotos:
		return "Fotos"
	case MediaVideos:
		return "Vídeos"
	case MediaLogos:
		return "Logos"
	case MediaRider:
		return "Rider técnico"
	default:
		return string(c)
	}
}
