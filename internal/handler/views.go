// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"github.com/olegiv/artist-site/internal/model"
	"github.com/olegiv/artist-site/internal/service"
	"github.com/olegiv/artist-site/internal/site"
)

type homeView struct {
	Profile     *site.Profile
	WhatsAppURL string
}

type mediaCategoryView struct {
	Category model.MediaCategory
	Label    string
	Items    []model.MediaItem
	Folder   string
}

type mediaView struct {
	Categories []mediaCategoryView
}

type visitsView struct {
	Count int64
	OK    bool
}

type authView struct {
	Tab          string
	Email        string
	SetupEnabled bool
	Errors       map[string]string
}

type dashboardView struct {
	Overview service.Overview
}

type collectionView struct {
	Schema     model.Schema
	Records    []model.Record
	Buffer     any
	EditID     string
	Mode       string
	Errors     map[string]string
	Category   model.MediaCategory
	Categories []model.MediaCategory
}

type deleteView struct {
	Schema model.Schema
	Record model.Record
}

type messagesView struct {
	Messages []model.ContactMessage
}
