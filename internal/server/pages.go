package server

import (
	"embed"
	"fmt"
	"io/fs"

	"github.com/aescanero/scheme-screener/internal/eval/template"
)

//go:embed templates/*.hbs
var templateFS embed.FS

// Pages compiles the embedded page templates
func Pages() (*template.Engine, error) {
	sub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		return nil, fmt.Errorf("failed to open templates: %w", err)
	}
	return template.NewEngineFS(sub)
}
