// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package render parses the embedded HTML templates and renders pages,
// htmx fragments and flash messages.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/artist-site/internal/site"
)

// Session keys for flash messages.
const (
	flashKey     = "flash"
	flashTypeKey = "flash_type"
)

// Flash types understood by the templates.
const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashInfo    = "info"
)

// Renderer handles template rendering with caching.
type Renderer struct {
	pages          map[string]*template.Template
	fragments      *template.Template
	sessionManager *scs.SessionManager
	printer        *site.Printer
	loc            *time.Location
	isDev          bool
}

// Config holds renderer configuration.
type Config struct {
	TemplatesFS    fs.FS
	SessionManager *scs.SessionManager
	Printer        *site.Printer
	Location       *time.Location
	IsDev          bool
}

// New creates a new Renderer with parsed templates.
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		pages:          make(map[string]*template.Template),
		sessionManager: cfg.SessionManager,
		printer:        cfg.Printer,
		loc:            cfg.Location,
		isDev:          cfg.IsDev,
	}
	if r.printer == nil {
		r.printer = site.NewPrinter("pt-BR")
	}
	if r.loc == nil {
		r.loc = time.UTC
	}

	if err := r.parseTemplates(cfg.TemplatesFS); err != nil {
		return nil, err
	}
	return r, nil
}

const (
	baseLayout  = "layouts/base.html"
	adminLayout = "layouts/admin.html"
)

// parseTemplates parses every page against its layouts and all section
// fragments into one set. Page names are "<dir>/<file>" without extension.
func (r *Renderer) parseTemplates(templatesFS fs.FS) error {
	partials, err := templateFiles(templatesFS, "partials")
	if err != nil {
		return err
	}

	layouts := map[string][]string{
		"pages": {baseLayout},
		"auth":  {baseLayout},
		"admin": {baseLayout, adminLayout},
	}
	for dir, stack := range layouts {
		pages, err := templateFiles(templatesFS, dir)
		if err != nil {
			return err
		}
		for _, page := range pages {
			name := dir + "/" + strings.TrimSuffix(path.Base(page), ".html")

			files := append(append(append([]string{}, stack...), partials...), page)
			tmpl, err := template.New("").Funcs(r.templateFuncs()).ParseFS(templatesFS, files...)
			if err != nil {
				return fmt.Errorf("parsing template %s: %w", name, err)
			}
			r.pages[name] = tmpl
		}
	}

	sections, err := templateFiles(templatesFS, "sections")
	if err != nil {
		return err
	}
	r.fragments = template.New("").Funcs(r.templateFuncs())
	if len(sections) > 0 {
		if _, err := r.fragments.ParseFS(templatesFS, append(partials, sections...)...); err != nil {
			return fmt.Errorf("parsing sections: %w", err)
		}
	}
	return nil
}

// templateFiles returns all .html files in a directory. A missing
// directory yields no files.
func templateFiles(templatesFS fs.FS, dir string) ([]string, error) {
	entries, err := fs.ReadDir(templatesFS, dir)
	if err != nil {
		return nil, nil
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".html") {
			files = append(files, path.Join(dir, entry.Name()))
		}
	}
	return files, nil
}

// TemplateData holds data passed to page templates.
type TemplateData struct {
	Title       string
	Data        any
	Flash       string
	FlashType   string
	CurrentYear int
	Email       string
	IsAdmin     bool
	SignedIn    bool
}

// Render renders a page template with the given data.
func (r *Renderer) Render(w http.ResponseWriter, req *http.Request, name string, data TemplateData) error {
	return r.RenderStatus(w, req, http.StatusOK, name, data)
}

// RenderStatus renders a page with an explicit status code.
func (r *Renderer) RenderStatus(w http.ResponseWriter, req *http.Request, status int, name string, data TemplateData) error {
	tmpl, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("template %s not found", name)
	}

	data.CurrentYear = time.Now().In(r.loc).Year()
	if data.Flash == "" {
		data.Flash, data.FlashType = r.popFlash(req)
	}

	buf := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(buf, "base", data); err != nil {
		return fmt.Errorf("executing template %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
	return nil
}

// RenderFragment renders a section fragment. Output that is only
// whitespace is sent as an empty body, which makes htmx drop the
// placeholder it swaps.
func (r *Renderer) RenderFragment(w http.ResponseWriter, name string, data any) error {
	if r.fragments == nil || r.fragments.Lookup(name) == nil {
		return fmt.Errorf("fragment %s not found", name)
	}

	buf := new(bytes.Buffer)
	if err := r.fragments.ExecuteTemplate(buf, name, data); err != nil {
		return fmt.Errorf("executing fragment %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if len(bytes.TrimSpace(buf.Bytes())) == 0 {
		w.WriteHeader(http.StatusOK)
		return nil
	}
	_, _ = buf.WriteTo(w)
	return nil
}

// HasPage reports whether a page template was parsed.
func (r *Renderer) HasPage(name string) bool {
	_, ok := r.pages[name]
	return ok
}

// SetFlash sets a flash message in the session.
func (r *Renderer) SetFlash(req *http.Request, message, flashType string) {
	if r.sessionManager != nil {
		r.sessionManager.Put(req.Context(), flashKey, message)
		r.sessionManager.Put(req.Context(), flashTypeKey, flashType)
	}
}

func (r *Renderer) popFlash(req *http.Request) (string, string) {
	if r.sessionManager == nil {
		return "", ""
	}
	flash := r.sessionManager.PopString(req.Context(), flashKey)
	if flash == "" {
		return "", ""
	}
	flashType := r.sessionManager.PopString(req.Context(), flashTypeKey)
	if flashType == "" {
		flashType = FlashInfo
	}
	return flash, flashType
}
