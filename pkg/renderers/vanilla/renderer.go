package vanilla

import (
	"context"
	"fmt"
	"io/fs"
	"os"

	"github.com/goliatone/go-formpipe/pkg/model"
	"github.com/goliatone/go-formpipe/pkg/render"
	rendertemplate "github.com/goliatone/go-formpipe/pkg/render/template"
	"github.com/goliatone/go-formpipe/pkg/render/template/gotemplate"
)

const (
	formTemplate     = "templates/form.tmpl"
	pageTemplate     = "templates/page.tmpl"
	thankYouTemplate = "templates/thank_you.tmpl"
)

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	chrome           Chrome
	stylesheet       string
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithChrome overrides wrapper and control classes. Empty entries keep the
// defaults.
func WithChrome(chrome Chrome) Option {
	return func(cfg *config) {
		cfg.chrome = chrome.merge(DefaultChrome)
	}
}

// WithStylesheet links a stylesheet from rendered pages.
func WithStylesheet(href string) Option {
	return func(cfg *config) {
		cfg.stylesheet = href
	}
}

// Renderer renders forms into Bootstrap compatible markup the validation
// pipeline can bind to.
type Renderer struct {
	templates  rendertemplate.TemplateRenderer
	chrome     Chrome
	stylesheet string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS(), chrome: DefaultChrome}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{templates: renderer, chrome: cfg.chrome, stylesheet: cfg.stylesheet}, nil
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render renders a single form. The form is not modified.
func (r *Renderer) Render(_ context.Context, form *model.Form, options render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}

	result, err := r.templates.RenderTemplate(formTemplate, map[string]any{
		"form":   r.formView(form, options),
		"chrome": r.chrome,
	})
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return []byte(result), nil
}

// Page describes a full HTML document hosting one or more forms.
type Page struct {
	Title string
	Lang  string
	Forms []*model.Form
	// Options apply to every form on the page.
	Options render.RenderOptions
	// Notifications is pre-rendered notification container markup.
	Notifications string
}

// RenderPage renders a complete document.
func (r *Renderer) RenderPage(ctx context.Context, page Page) ([]byte, error) {
	body := make([]byte, 0, 1024)
	for _, form := range page.Forms {
		out, err := r.Render(ctx, form, page.Options)
		if err != nil {
			return nil, err
		}
		body = append(body, out...)
	}

	lang := page.Lang
	if lang == "" {
		lang = "en"
	}
	result, err := r.templates.RenderTemplate(pageTemplate, map[string]any{
		"page": map[string]any{
			"title":         page.Title,
			"lang":          lang,
			"stylesheet":    r.stylesheet,
			"body":          string(body),
			"notifications": page.Notifications,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render page: %w", err)
	}
	return []byte(result), nil
}

// RenderThankYou renders the page successful submissions navigate to.
func (r *Renderer) RenderThankYou(title, message string) ([]byte, error) {
	result, err := r.templates.RenderTemplate(thankYouTemplate, map[string]any{
		"page": map[string]any{
			"title":      title,
			"message":    message,
			"stylesheet": r.stylesheet,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render thank you page: %w", err)
	}
	return []byte(result), nil
}
