// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package site

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Printer formats numbers for one locale.
type Printer struct {
	p *message.Printer
}

// NewPrinter returns a Printer for a BCP 47 locale. Unknown locales fall
// back to pt-BR.
func NewPrinter(locale string) *Printer {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.BrazilianPortuguese
	}
	return &Printer{p: message.NewPrinter(tag)}
}

// Count groups digits, e.g. 12345 -> "12.345" in pt-BR.
func (pr *Printer) Count(n int64) string {
	return pr.p.Sprint(number.Decimal(n))
}

// Compact abbreviates large figures: 3000000 -> "3M", 1500000 -> "1,5M",
// 234000 -> "234K".
func (pr *Printer) Compact(n int64) string {
	switch {
	case n >= 1_000_000:
		return pr.p.Sprint(number.Decimal(float64(n)/1e6, number.MaxFractionDigits(1))) + "M"
	case n >= 1_000:
		return pr.p.Sprint(number.Decimal(float64(n)/1e3, number.MaxFractionDigits(0))) + "K"
	default:
		return strconv.FormatInt(n, 10)
	}
}

// StatValue splits a stat such as "+3000000" into its non-digit prefix,
// number and non-digit suffix. ok is false when the value has no digits.
func StatValue(value string) (prefix string, n int64, suffix string, ok bool) {
	start := strings.IndexFunc(value, unicode.IsDigit)
	if start < 0 {
		return value, 0, "", false
	}
	end := strings.LastIndexFunc(value, unicode.IsDigit) + 1

	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, value[start:end])

	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return value, 0, "", false
	}
	return value[:start], n, value[end:], true
}

// Display renders a stat the way the landing page shows it, e.g.
// "+3000000" -> "+3M". Values without digits are returned as-is.
func (pr *Printer) Display(s Stat) string {
	prefix, n, suffix, ok := StatValue(s.Value)
	if !ok {
		return s.Value
	}
	return prefix + pr.Compact(n) + suffix
}
