// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package site holds the static landing page copy: hero, bio, stats,
// contact details and download folders.
package site

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"net/url"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/yuin/goldmark"

	"github.com/olegiv/artist-site/internal/model"
)

//go:embed profile.toml
var defaultProfile []byte

// Hero is the top banner.
type Hero struct {
	Name     string `toml:"name"`
	Tagline  string `toml:"tagline"`
	Badge    string `toml:"badge"`
	Image    string `toml:"image"`
	ImageAlt string `toml:"image_alt"`
}

// Music configures the streaming embed.
type Music struct {
	SpotifyEmbed string `toml:"spotify_embed"`
}

// Highlight is one card under the bio.
type Highlight struct {
	Title string `toml:"title"`
	Text  string `toml:"text"`
}

// About is the bio section. Bio is Markdown.
type About struct {
	Title      string      `toml:"title"`
	Bio        string      `toml:"bio"`
	Highlights []Highlight `toml:"highlights"`
}

// Stat is one audience figure, e.g. {"Ouvintes Mensais", "+3000000"}.
type Stat struct {
	Label string `toml:"label"`
	Value string `toml:"value"`
}

// Contact holds the booking channels.
type Contact struct {
	WhatsApp        string `toml:"whatsapp"`
	WhatsAppMessage string `toml:"whatsapp_message"`
	Phone           string `toml:"phone"`
	Email           string `toml:"email"`
}

// MediaFolders are the fallback download folders per media category, used
// when a category has no active media items.
type MediaFolders struct {
	Photos string `toml:"photos"`
	Videos string `toml:"videos"`
	Logos  string `toml:"logos"`
	Rider  string `toml:"rider"`
}

// Social is a footer link.
type Social struct {
	Name string `toml:"name"`
	URL  string `toml:"url"`
}

// Profile is the complete static copy of the landing page.
type Profile struct {
	Locale  string       `toml:"locale"`
	Hero    Hero         `toml:"hero"`
	Music   Music        `toml:"music"`
	About   About        `toml:"about"`
	Stats   []Stat       `toml:"stats"`
	Contact Contact      `toml:"contact"`
	Media   MediaFolders `toml:"media"`
	Socials []Social     `toml:"socials"`

	bio template.HTML
}

// Load reads the profile at path, or the embedded default when path is empty.
func Load(path string) (*Profile, error) {
	data := defaultProfile
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading profile: %w", err)
		}
		data = b
	}
	return Parse(data)
}

// Parse decodes a TOML profile and renders its bio.
func Parse(data []byte) (*Profile, error) {
	var p Profile
	if err := toml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing profile: %w", err)
	}
	if p.Hero.Name == "" {
		return nil, fmt.Errorf("parsing profile: hero.name is required")
	}
	if p.Locale == "" {
		p.Locale = "pt-BR"
	}

	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(p.About.Bio), &buf); err != nil {
		return nil, fmt.Errorf("rendering bio: %w", err)
	}
	// goldmark escapes raw HTML unless WithUnsafe is set.
	p.bio = template.HTML(buf.String()) // #nosec G203

	return &p, nil
}

// BioHTML returns the rendered bio.
func (p *Profile) BioHTML() template.HTML {
	return p.bio
}

// WhatsAppURL returns the wa.me link with the prefilled booking message.
func (p *Profile) WhatsAppURL() string {
	u := "https://wa.me/" + p.Contact.WhatsApp
	if p.Contact.WhatsAppMessage != "" {
		u += "?text=" + strings.ReplaceAll(url.QueryEscape(p.Contact.WhatsAppMessage), "+", "%20")
	}
	return u
}

// FolderFor returns the fallback download folder of a media category.
func (p *Profile) FolderFor(c model.MediaCategory) string {
	switch c {
	case model.MediaPhotos:
		return p.Media.Photos
	case model.MediaVideos:
		return p.Media.Videos
	case model.MediaLogos:
		return p.Media.Logos
	case model.MediaRider:
		return p.Media.Rider
	}
	return ""
}
