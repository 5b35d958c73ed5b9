// Package i18n provides message lookup for the CLI. Locales are embedded
// YAML files keyed by message id; a missing translation falls back to the
// English catalog, and an id missing everywhere is returned as-is so the
// UI always has something to print.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var localeFS embed.FS

// DefaultLanguage is the catalog every lookup falls back to.
const DefaultLanguage = "en"

// Translator resolves message ids against the embedded locale catalogs.
type Translator struct {
	mu       sync.RWMutex
	lang     string
	catalogs map[string]map[string]string
}

// New loads all embedded locales and selects lang. An unknown lang falls
// back to DefaultLanguage.
func New(lang string) (*Translator, error) {
	catalogs, err := loadCatalogs()
	if err != nil {
		return nil, err
	}
	t := &Translator{lang: DefaultLanguage, catalogs: catalogs}
	if _, ok := catalogs[lang]; ok {
		t.lang = lang
	}
	return t, nil
}

func loadCatalogs() (map[string]map[string]string, error) {
	catalogs := make(map[string]map[string]string)

	entries, err := fs.ReadDir(localeFS, "locales")
	if err != nil {
		return nil, fmt.Errorf("read locales: %w", err)
	}
	for _, e := range entries {
		name := e.Name()
		lang := strings.TrimSuffix(name, filepath.Ext(name))

		data, err := localeFS.ReadFile("locales/" + name)
		if err != nil {
			return nil, fmt.Errorf("read locale %s: %w", name, err)
		}

		var messages map[string]string
		if err := yaml.Unmarshal(data, &messages); err != nil {
			return nil, fmt.Errorf("parse locale %s: %w", name, err)
		}
		catalogs[lang] = messages
	}
	return catalogs, nil
}

// Languages lists the available locale codes, sorted.
func (t *Translator) Languages() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	langs := make([]string, 0, len(t.catalogs))
	for l := range t.catalogs {
		langs = append(langs, l)
	}
	sort.Strings(langs)
	return langs
}

// Language returns the active locale code.
func (t *Translator) Language() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.lang
}

// SetLanguage switches the active locale. Unknown codes are rejected.
func (t *Translator) SetLanguage(lang string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.catalogs[lang]; !ok {
		return fmt.Errorf("unknown language %q", lang)
	}
	t.lang = lang
	return nil
}

// T resolves a message id. Lookup order: active locale, then
// DefaultLanguage, then the id itself.
func (t *Translator) T(id string) string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if msg, ok := t.catalogs[t.lang][id]; ok {
		return msg
	}
	if msg, ok := t.catalogs[DefaultLanguage][id]; ok {
		return msg
	}
	return id
}

// Tf resolves a message id and applies fmt-style arguments.
func (t *Translator) Tf(id string, args ...any) string {
	return fmt.Sprintf(t.T(id), args...)
}
