// Package i18n renders user-facing error messages per locale.
package i18n

import (
	"bytes"
	"strings"
	"sync"
	"text/template"

	"golang.org/x/text/language"
)

// BaseLocale is the locale every lookup falls back to.
const BaseLocale = "en-US"

// Code is a machine-readable error code (duplicated from errors package to avoid cycle).
type Code = string

// Catalog holds the message templates of one locale, parsed once.
type Catalog struct {
	locale    string
	raw       map[Code]string
	templates map[Code]*template.Template
}

var (
	catalogsMu sync.RWMutex
	catalogs   = map[string]*Catalog{
		BaseLocale: enUSCatalog,
	}
)

// NewCatalog parses messages for locale. Messages that are not valid
// templates are rendered verbatim.
func NewCatalog(locale string, messages map[Code]string) *Catalog {
	c := &Catalog{
		locale:    canonical(locale),
		raw:       make(map[Code]string, len(messages)),
		templates: make(map[Code]*template.Template, len(messages)),
	}
	for code, msg := range messages {
		c.raw[code] = msg
		if tmpl, err := template.New(code).Parse(msg); err == nil {
			c.templates[code] = tmpl
		}
	}
	return c
}

// RegisterCatalog makes cat available under its locale, replacing any
// catalog already registered there.
func RegisterCatalog(cat *Catalog) {
	catalogsMu.Lock()
	defer catalogsMu.Unlock()
	catalogs[cat.locale] = cat
}

// GetCatalog returns the catalog for locale. Lookups try the canonical BCP 47
// tag ("pt-BR" for "pt-br"), then its base language, then en-US.
func GetCatalog(locale string) *Catalog {
	base, _ := lookupCatalog(BaseLocale)
	tag, err := language.Parse(strings.TrimSpace(locale))
	if err != nil {
		return base
	}
	if c, ok := lookupCatalog(tag.String()); ok {
		return c
	}
	if lang, confidence := tag.Base(); confidence != language.No {
		if c, ok := lookupCatalog(lang.String()); ok {
			return c
		}
	}
	return base
}

// Locale returns the locale of this catalog.
func (c *Catalog) Locale() string {
	return c.locale
}

// Format renders the message for code with metadata. Unknown codes render as
// the code itself; templates that fail render their source text.
func (c *Catalog) Format(code Code, metadata map[string]string) string {
	raw, ok := c.raw[code]
	if !ok {
		return code
	}
	tmpl, ok := c.templates[code]
	if !ok {
		return raw
	}
	if metadata == nil {
		metadata = map[string]string{}
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, metadata); err != nil {
		return raw
	}
	return buf.String()
}

func canonical(locale string) string {
	locale = strings.TrimSpace(locale)
	tag, err := language.Parse(locale)
	if err != nil {
		return locale
	}
	return tag.String()
}

func lookupCatalog(locale string) (*Catalog, bool) {
	catalogsMu.RLock()
	defer catalogsMu.RUnlock()
	cat, ok := catalogs[locale]
	return cat, ok
}
