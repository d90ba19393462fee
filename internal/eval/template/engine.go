package template

import (
	"fmt"
	"io/fs"
	"path"
	"strings"
	"sync"

	"github.com/aymerick/raymond"
)

const pageExt = ".hbs"

// Engine renders Handlebars templates
type Engine struct {
	pages    map[string]string
	partials map[string]string
	helpers  map[string]interface{}
	cache    map[string]*raymond.Template
	mu       sync.RWMutex
}

// NewEngine creates a new template engine without named pages
func NewEngine() *Engine {
	return &Engine{
		pages:    make(map[string]string),
		partials: make(map[string]string),
		helpers:  helpers(),
		cache:    make(map[string]*raymond.Template),
	}
}

// NewEngineFS creates a template engine with the pages and partials found in fsys
func NewEngineFS(fsys fs.FS) (*Engine, error) {
	engine := NewEngine()

	matches, err := fs.Glob(fsys, "*"+pageExt)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}

	for _, name := range matches {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("failed to read template %s: %w", name, err)
		}

		base := strings.TrimSuffix(path.Base(name), pageExt)
		if strings.HasPrefix(base, "_") {
			engine.partials[strings.TrimPrefix(base, "_")] = string(data)
			continue
		}
		engine.pages[base] = string(data)
	}

	// Compile every page up front so broken templates fail at startup
	for name, source := range engine.pages {
		if _, err := engine.getTemplate(source); err != nil {
			return nil, fmt.Errorf("template %s: %w", name, err)
		}
	}

	return engine, nil
}

// Render renders a template with the given data
func (e *Engine) Render(templateStr string, data interface{}) (string, error) {
	tmpl, err := e.getTemplate(templateStr)
	if err != nil {
		return "", fmt.Errorf("failed to compile template: %w", err)
	}

	result, err := tmpl.Exec(data)
	if err != nil {
		return "", fmt.Errorf("template execution failed: %w", err)
	}

	return result, nil
}

// RenderPage renders a named page
func (e *Engine) RenderPage(name string, data interface{}) (string, error) {
	source, ok := e.pages[name]
	if !ok {
		return "", fmt.Errorf("unknown page %q", name)
	}
	return e.Render(source, data)
}

// HasPage reports whether a named page was loaded
func (e *Engine) HasPage(name string) bool {
	_, ok := e.pages[name]
	return ok
}

// getTemplate gets a compiled template from cache or compiles it
func (e *Engine) getTemplate(templateStr string) (*raymond.Template, error) {
	e.mu.RLock()
	if tmpl, ok := e.cache[templateStr]; ok {
		e.mu.RUnlock()
		return tmpl, nil
	}
	e.mu.RUnlock()

	e.mu.Lock()
	defer e.mu.Unlock()

	// Check again in case another goroutine compiled it
	if tmpl, ok := e.cache[templateStr]; ok {
		return tmpl, nil
	}

	tmpl, err := raymond.Parse(templateStr)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}

	// Helpers and partials are registered per template so engines stay independent
	tmpl.RegisterHelpers(e.helpers)
	for name, source := range e.partials {
		tmpl.RegisterPartial(name, source)
	}

	e.cache[templateStr] = tmpl

	return tmpl, nil
}

// ValidateTemplate validates a template without rendering it
func (e *Engine) ValidateTemplate(templateStr string) error {
	_, err := raymond.Parse(templateStr)
	return err
}

// ClearCache clears the compiled template cache
func (e *Engine) ClearCache() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cache = make(map[string]*raymond.Template)
}

// helpers returns the custom Handlebars helpers
func helpers() map[string]interface{} {
	return map[string]interface{}{
		"uppercase": func(str string) string {
			return strings.ToUpper(str)
		},
		"lowercase": func(str string) string {
			return strings.ToLower(str)
		},
		"trim": func(str string) string {
			return strings.TrimSpace(str)
		},
		// default returns the fallback when the value is empty
		"default": func(value interface{}, defaultValue interface{}) interface{} {
			if value == nil || value == "" {
				return defaultValue
			}
			return value
		},
		"eq": func(a, b interface{}) bool {
			return a == b
		},
		"ne": func(a, b interface{}) bool {
			return a != b
		},
		"join": func(value interface{}, sep string) string {
			switch v := value.(type) {
			case []string:
				return strings.Join(v, sep)
			case []interface{}:
				strs := make([]string, len(v))
				for i, item := range v {
					strs[i] = fmt.Sprint(item)
				}
				return strings.Join(strs, sep)
			default:
				return ""
			}
		},
		"len": func(value interface{}) int {
			switch v := value.(type) {
			case string:
				return len(v)
			case []string:
				return len(v)
			case []interface{}:
				return len(v)
			case []map[string]interface{}:
				return len(v)
			case map[string]interface{}:
				return len(v)
			default:
				return 0
			}
		},
	}
}
