// Package i18n holds the page translations for the supported languages.
package i18n

import (
	_ "embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// DefaultLanguage is used for unknown languages and missing keys
const DefaultLanguage = "en"

//go:embed translations.yaml
var embedded []byte

// Dictionary maps translation keys to text
type Dictionary map[string]string

// Language describes a selectable language
type Language struct {
	Code string
	Name string
}

// Catalog holds the dictionaries of every supported language
type Catalog struct {
	dictionaries map[string]Dictionary
	fallback     string
}

// Load parses the embedded translations
func Load(fallback string) (*Catalog, error) {
	return Parse(embedded, fallback)
}

// Parse decodes a YAML document of language code to dictionary
func Parse(data []byte, fallback string) (*Catalog, error) {
	var dictionaries map[string]Dictionary
	if err := yaml.Unmarshal(data, &dictionaries); err != nil {
		return nil, fmt.Errorf("failed to parse translations: %w", err)
	}

	if _, ok := dictionaries[fallback]; !ok {
		return nil, fmt.Errorf("fallback language %q has no translations", fallback)
	}

	return &Catalog{
		dictionaries: dictionaries,
		fallback:     fallback,
	}, nil
}

// Supported reports whether lang has a dictionary
func (c *Catalog) Supported(lang string) bool {
	_, ok := c.dictionaries[lang]
	return ok
}

// Resolve returns lang when supported and the fallback language otherwise
func (c *Catalog) Resolve(lang string) string {
	if c.Supported(lang) {
		return lang
	}
	return c.fallback
}

// Lookup returns the dictionary for lang, filling missing keys from the fallback language
func (c *Catalog) Lookup(lang string) Dictionary {
	base := c.dictionaries[c.fallback]
	dict := make(Dictionary, len(base))
	for k, v := range base {
		dict[k] = v
	}

	if lang == c.fallback {
		return dict
	}
	for k, v := range c.dictionaries[lang] {
		dict[k] = v
	}
	return dict
}

// Languages lists the supported languages, fallback first then by code
func (c *Catalog) Languages() []Language {
	langs := make([]Language, 0, len(c.dictionaries))
	for code, dict := range c.dictionaries {
		name := dict["name"]
		if name == "" {
			name = code
		}
		langs = append(langs, Language{Code: code, Name: name})
	}

	sort.Slice(langs, func(i, j int) bool {
		if langs[i].Code == c.fallback {
			return true
		}
		if langs[j].Code == c.fallback {
			return false
		}
		return langs[i].Code < langs[j].Code
	})
	return langs
}
