package locale

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var locales embed.FS

// Translator renders message IDs for the language negotiated from an
// Accept-Language value. English is the fallback.
type Translator struct {
	bundle *goi18n.Bundle
}

func NewTranslator() (*Translator, error) {
	bundle := goi18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := fs.ReadDir(locales, "locales")
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if _, err := bundle.LoadMessageFileFS(locales, "locales/"+e.Name()); err != nil {
			return nil, fmt.Errorf("load %s: %w", e.Name(), err)
		}
	}
	return &Translator{bundle: bundle}, nil
}

// MustTranslator panics when the embedded catalogs are malformed.
func MustTranslator() *Translator {
	t, err := NewTranslator()
	if err != nil {
		panic(err)
	}
	return t
}

// T localizes id. Unknown IDs come back unchanged so callers always have
// something to show.
func (t *Translator) T(acceptLanguage, id string, data map[string]any) string {
	loc := goi18n.NewLocalizer(t.bundle, acceptLanguage)
	msg, err := loc.Localize(&goi18n.LocalizeConfig{
		MessageID:    id,
		TemplateData: data,
	})
	if err != nil {
		return id
	}
	return msg
}

func (t *Translator) Languages() []string {
	tags := t.bundle.LanguageTags()
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		out = append(out, tag.String())
	}
	return out
}
