// Package i18n loads the embedded message catalogs and picks one per request
// from the Accept-Language header.
package i18n

import (
	"embed"
	"encoding/json"
	"log/slog"
	"strings"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/tartampluch/go-birthday-web/internal/config"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

// Catalog holds every loaded translation and the language matcher built from them.
type Catalog struct {
	bundle   *goi18n.Bundle
	matcher  language.Matcher
	fallback string
	langs    []string
}

// NewCatalog loads every embedded locales/active.<lang>.json file.
// fallback is used when nothing in Accept-Language matches.
func NewCatalog(fallback string) *Catalog {
	if fallback == "" {
		fallback = config.DefaultLanguage
	}
	fallbackTag := language.Make(fallback)

	bundle := goi18n.NewBundle(fallbackTag)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	c := &Catalog{bundle: bundle, fallback: fallback}

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		slog.Error(config.ErrLocalesAccess,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyError, err,
		)
		c.matcher = language.NewMatcher([]language.Tag{fallbackTag})
		return c
	}

	// The fallback goes first: the matcher returns the first tag on no match.
	tags := []language.Tag{fallbackTag}
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, "active.") || !strings.HasSuffix(name, ".json") {
			slog.Debug(config.MsgLocaleSkip,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		langCode := strings.TrimSuffix(strings.TrimPrefix(name, "active."), ".json")
		if langCode == "" {
			slog.Warn(config.MsgLocaleBadName,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		if _, err := bundle.LoadMessageFileFS(localeFS, "locales/"+name); err != nil {
			slog.Error(config.ErrLocaleLoad,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
				config.LogKeyError, err,
			)
			continue
		}

		slog.Debug(config.MsgLocaleLoaded,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyLang, langCode,
		)
		c.langs = append(c.langs, langCode)
		if langCode != fallback {
			tags = append(tags, language.Make(langCode))
		}
	}

	c.matcher = language.NewMatcher(tags)
	return c
}

// Languages returns the codes of the loaded catalogs.
func (c *Catalog) Languages() []string {
	return append([]string(nil), c.langs...)
}

// For returns a Translator for the best match of an Accept-Language header value.
func (c *Catalog) For(acceptLanguage string) *Translator {
	tag, _ := language.MatchStrings(c.matcher, acceptLanguage)
	base, _ := tag.Base()
	lang := base.String()

	return &Translator{
		Lang:      lang,
		localizer: goi18n.NewLocalizer(c.bundle, lang, c.fallback),
	}
}

// Translator renders messages in a single language.
type Translator struct {
	Lang      string
	localizer *goi18n.Localizer
}

// T translates key, filling the template with data. Unknown keys are returned as is.
func (t *Translator) T(key string, data map[string]any) string {
	return t.localize(&goi18n.LocalizeConfig{MessageID: key, TemplateData: data})
}

// Plural translates key choosing the plural form for count. Count is also
// exposed to the template as {{.Count}}.
func (t *Translator) Plural(key string, count int) string {
	return t.localize(&goi18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: map[string]any{"Count": count},
		PluralCount:  count,
	})
}

func (t *Translator) localize(lc *goi18n.LocalizeConfig) string {
	if t == nil || t.localizer == nil {
		return lc.MessageID
	}
	msg, err := t.localizer.Localize(lc)
	if err != nil {
		slog.Debug(config.MsgTransMissing,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyKey, lc.MessageID,
			config.LogKeyError, err,
		)
		return lc.MessageID
	}
	return msg
}

// EventSummary builds the localized calendar event title.
// age is ignored when known is false; age 0 is rendered as the birth itself.
func (t *Translator) EventSummary(name string, age int, known bool) string {
	switch {
	case !known:
		return t.T(config.TKeyEvtSummary, map[string]any{"Name": name})
	case age == 0:
		return t.T(config.TKeyEvtSummaryBirth, map[string]any{"Name": name})
	default:
		return t.T(config.TKeyEvtSummaryAge, map[string]any{"Name": name, "Age": age})
	}
}
