// Package formpipe validates contact forms, submits them to a JSON endpoint
// and reports the outcome through transient notifications. The root package
// re-exports the entry points most callers need.
package formpipe

import (
	"context"
	"io/fs"

	"github.com/goliatone/go-formpipe/pkg/config"
	"github.com/goliatone/go-formpipe/pkg/orchestrator"
	"github.com/goliatone/go-formpipe/pkg/render"
	"github.com/goliatone/go-formpipe/pkg/renderers/vanilla"
	"github.com/goliatone/go-formpipe/pkg/session"
)

// RenderOptions describes per-request overrides that renderers can use to
// prefill values or surface server-side validation errors.
type RenderOptions = render.RenderOptions

// Config aliases the site configuration.
type Config = config.Config

// LoadConfig reads a YAML, TOML or JSON configuration file.
func LoadConfig(path string) (*Config, error) {
	return config.Load(path)
}

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// GenerateHTML renders the configured form formID with the named renderer
// (vanilla when empty).
func GenerateHTML(ctx context.Context, cfg *Config, formID, rendererName string, options ...orchestrator.Option) ([]byte, error) {
	gen := orchestrator.New(append([]orchestrator.Option{orchestrator.WithConfig(cfg)}, options...)...)
	return gen.Generate(ctx, orchestrator.Request{
		FormID:   formID,
		Renderer: rendererName,
	})
}

// NewSession builds a session configured from cfg that submits to the
// configured endpoint.
func NewSession(cfg *Config, options ...session.Option) (*session.Session, error) {
	return orchestrator.New(orchestrator.WithConfig(cfg)).NewSession(options...)
}

// EmbeddedTemplates exposes the built-in vanilla renderer templates so callers
// can reuse or extend them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return vanilla.TemplatesFS()
}

// AssetsFS exposes the stylesheet shipped with the vanilla renderer.
//
// Typical mount:
//
//	mux.Handle("/assets/",
//	  http.StripPrefix("/assets/",
//	    http.FileServerFS(formpipe.AssetsFS()),
//	  ),
//	)
func AssetsFS() fs.FS {
	return vanilla.AssetsFS()
}
