// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package render

import (
	"html/template"
	"time"

	"github.com/olegiv/artist-site/internal/model"
	"github.com/olegiv/artist-site/internal/site"
)

var monthAbbr = [...]string{"JAN", "FEV", "MAR", "ABR", "MAI", "JUN", "JUL", "AGO", "SET", "OUT", "NOV", "DEZ"}

// templateFuncs returns custom template functions.
func (r *Renderer) templateFuncs() template.FuncMap {
	return template.FuncMap{
		"formatDate": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("02/01/2006")
		},
		"formatDateTime": func(t time.Time) string {
			return t.In(r.loc).Format("02/01/2006 15:04")
		},
		"dayOf": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("02")
		},
		"monthAbbr": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return monthAbbr[t.Month()-1]
		},
		"timeShort":   timeShort,
		"fieldValue":  fieldValue,
		"inputType":   inputType,
		"formatCount": r.printer.Count,
		"statValue": func(s site.Stat) string {
			return r.printer.Display(s)
		},
		"mediaLabel": func(c model.MediaCategory) string {
			return c.Label()
		},
		"collections": model.Collections,
		"truncate": func(s string, length int) string {
			runes := []rune(s)
			if len(runes) <= length {
				return s
			}
			return string(runes[:length]) + "..."
		},
	}
}

// timeShort trims "21:00:00" to "21:00".
func timeShort(s string) string {
	if t, err := time.Parse("15:04:05", s); err == nil {
		return t.Format(model.TimeLayout)
	}
	return s
}

// fieldValue returns the value of a column in the edit buffer, which is
// either a stored record or the submitted form values.
func fieldValue(data any, name string) string {
	switch v := data.(type) {
	case model.Record:
		return v.Get(name)
	case *model.Record:
		if v == nil {
			return ""
		}
		return v.Get(name)
	case map[string]string:
		return v[name]
	}
	return ""
}

// inputType maps a column kind to an HTML input type.
func inputType(kind model.ColumnKind) string {
	switch kind {
	case model.KindURL:
		return "url"
	case model.KindDate:
		return "date"
	case model.KindTime:
		return "time"
	case model.KindNumber:
		return "number"
	}
	return "text"
}
