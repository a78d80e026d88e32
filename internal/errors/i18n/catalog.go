// Package i18n provides localized user-facing messages for domain error codes.
package i18n

import (
	"strings"
	"text/template"

	"golang.org/x/text/language"
)

// Code mirrors the string form of internal/errors.Code.
// It is duplicated here to avoid an import cycle.
type Code = string

// Catalog holds the localized messages for one locale.
type Catalog struct {
	locale   string
	messages map[Code]string
}

// Locale returns the BCP 47 tag this catalog serves.
func (c *Catalog) Locale() string {
	if c == nil {
		return ""
	}
	return c.locale
}

// Format renders the message for code, interpolating metadata values.
// Unknown codes fall back to a generic message so callers always get text.
func (c *Catalog) Format(code Code, metadata map[string]string) string {
	if c == nil {
		return genericMessage
	}
	msg, ok := c.messages[code]
	if !ok {
		return genericMessage
	}
	if len(metadata) == 0 || !strings.Contains(msg, "{{") {
		return msg
	}
	tmpl, err := template.New("message").Parse(msg)
	if err != nil {
		return msg
	}
	var sb strings.Builder
	if err := tmpl.Execute(&sb, metadata); err != nil {
		return msg
	}
	return sb.String()
}

const genericMessage = "An unexpected error occurred"

var supported = []language.Tag{
	language.AmericanEnglish,     // en-US, default
	language.BrazilianPortuguese, // pt-BR
}

var matcher = language.NewMatcher(supported)

var catalogs = map[string]*Catalog{
	"en-US": enUSCatalog,
	"pt-BR": ptBRCatalog,
}

// GetCatalog returns the best catalog for the requested locale.
// The locale may be a single tag or an Accept-Language header value.
// Unrecognized locales resolve to en-US.
func GetCatalog(locale string) *Catalog {
	tags, _, err := language.ParseAcceptLanguage(locale)
	if err != nil || len(tags) == 0 {
		return enUSCatalog
	}
	_, index, _ := matcher.Match(tags...)
	tag := supported[index]
	if catalog, ok := catalogs[tag.String()]; ok {
		return catalog
	}
	return enUSCatalog
}
