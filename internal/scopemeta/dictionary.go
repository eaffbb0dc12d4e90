package scopemeta

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/go-authgate/oauthprovider/internal/core"

	"gopkg.in/yaml.v3"
)

// DefaultLocale is consulted when neither the requested locale nor its base
// language has an entry.
const DefaultLocale = "en"

//go:embed locales/*.yaml
var bundledLocales embed.FS

// ScopeKey is the dictionary key holding the localized description of scope.
func ScopeKey(scope string) string {
	return "consent.scopes." + scope
}

// Dictionary holds flattened, dot-keyed messages per locale.
type Dictionary struct {
	messages map[string]map[string]string
	fallback string
}

var _ core.Dictionary = (*Dictionary)(nil)

// LoadBundledDictionary loads the locales shipped with the binary.
func LoadBundledDictionary() (*Dictionary, error) {
	sub, err := fs.Sub(bundledLocales, "locales")
	if err != nil {
		return nil, err
	}
	return LoadDictionary(sub)
}

// LoadDictionary reads every <locale>.yaml at the root of fsys.
func LoadDictionary(fsys fs.FS) (*Dictionary, error) {
	files, err := fs.Glob(fsys, "*.yaml")
	if err != nil {
		return nil, err
	}

	d := &Dictionary{messages: make(map[string]map[string]string), fallback: DefaultLocale}
	for _, name := range files {
		raw, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, err
		}
		var tree map[string]any
		if err := yaml.Unmarshal(raw, &tree); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		flat := make(map[string]string)
		flatten("", tree, flat)
		d.messages[normalizeLocale(strings.TrimSuffix(path.Base(name), ".yaml"))] = flat
	}
	return d, nil
}

func flatten(prefix string, node map[string]any, out map[string]string) {
	for k, v := range node {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case map[string]any:
			flatten(key, val, out)
		case string:
			out[key] = val
		case nil:
		default:
			out[key] = fmt.Sprint(val)
		}
	}
}

func normalizeLocale(locale string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(locale), "_", "-"))
}

// Lookup tries locale, then its base language ("pt-br" → "pt"), then the
// default locale.
func (d *Dictionary) Lookup(locale, key string) (string, bool) {
	for _, candidate := range d.candidates(locale) {
		if msg, ok := d.messages[candidate][key]; ok && msg != "" {
			return msg, true
		}
	}
	return "", false
}

func (d *Dictionary) candidates(locale string) []string {
	locale = normalizeLocale(locale)
	out := make([]string, 0, 3)
	if locale != "" {
		out = append(out, locale)
		if base, _, ok := strings.Cut(locale, "-"); ok {
			out = append(out, base)
		}
	}
	if locale != d.fallback {
		out = append(out, d.fallback)
	}
	return out
}

// Locales lists the loaded locale codes.
func (d *Dictionary) Locales() []string {
	out := make([]string, 0, len(d.messages))
	for l := range d.messages {
		out = append(out, l)
	}
	return out
}
