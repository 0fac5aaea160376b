package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/goliatone/go-formpipe/pkg/config"
	"github.com/goliatone/go-formpipe/pkg/model"
	"github.com/goliatone/go-formpipe/pkg/notify"
	"github.com/goliatone/go-formpipe/pkg/render"
	"github.com/goliatone/go-formpipe/pkg/renderers/vanilla"
	"github.com/goliatone/go-formpipe/pkg/session"
	"github.com/goliatone/go-formpipe/pkg/submission"
	"github.com/goliatone/go-formpipe/pkg/validation"
)

const defaultRendererName = "vanilla"

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithConfig sets the site configuration. Defaults apply otherwise.
func WithConfig(cfg *config.Config) Option {
	return func(o *Orchestrator) {
		o.config = cfg
	}
}

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithBaseURL overrides the page URL the endpoint path is resolved against.
func WithBaseURL(base string) Option {
	return func(o *Orchestrator) {
		o.baseURL = base
	}
}

// WithEndpointOptions forwards options to the HTTP endpoint of new sessions.
func WithEndpointOptions(options ...submission.EndpointOption) Option {
	return func(o *Orchestrator) {
		o.endpointOptions = append(o.endpointOptions, options...)
	}
}

// WithLogger attaches a logger handed to every component built here.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Orchestrator renders configured forms and builds sessions for them.
type Orchestrator struct {
	config          *config.Config
	registry        *render.Registry
	defaultRenderer string
	baseURL         string
	endpointOptions []submission.EndpointOption
	logger          *zap.Logger
	initialiseErr   error
}

// New constructs an Orchestrator applying any provided options. A registry
// holding the vanilla renderer and the default configuration are used when
// none are given.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultRenderer: defaultRendererName,
		logger:          zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request selects a form and the renderer to use.
type Request struct {
	// FormID names a form declared in the configuration. Ignored when Form is
	// set.
	FormID string

	// Form renders a form directly instead of a configured one.
	Form *model.Form

	// Renderer names the renderer to use. If empty, the orchestrator falls back
	// to the configured default renderer.
	Renderer string

	// RenderOptions carries prefilled values and server-side errors.
	RenderOptions render.RenderOptions
}

// Config returns the active configuration.
func (o *Orchestrator) Config() *config.Config {
	return o.config
}

// Registry returns the renderer registry.
func (o *Orchestrator) Registry() *render.Registry {
	return o.registry
}

// Generate resolves the requested form and renders it.
func (o *Orchestrator) Generate(ctx context.Context, req Request) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := o.initialiseErr; err != nil {
		return nil, err
	}

	form, err := o.resolveForm(req)
	if err != nil {
		return nil, err
	}

	renderer, err := o.rendererFor(req.Renderer)
	if err != nil {
		return nil, err
	}

	output, err := renderer.Render(ctx, form, req.RenderOptions)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render output: %w", err)
	}
	return output, nil
}

// Endpoint builds the HTTP endpoint described by the configuration.
func (o *Orchestrator) Endpoint() (*submission.HTTPEndpoint, error) {
	base := o.baseURL
	if base == "" {
		base = o.config.BaseURL
	}
	options := append([]submission.EndpointOption{submission.WithEndpointLogger(o.logger)}, o.endpointOptions...)
	endpoint, err := submission.NewHTTPEndpoint(base, o.config.Endpoint, options...)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: endpoint: %w", err)
	}
	return endpoint, nil
}

// NewSession builds a session submitting to the configured endpoint. Extra
// options are applied after the configured ones and win.
func (o *Orchestrator) NewSession(options ...session.Option) (*session.Session, error) {
	if err := o.initialiseErr; err != nil {
		return nil, err
	}
	endpoint, err := o.Endpoint()
	if err != nil {
		return nil, err
	}
	return o.NewSessionWithEndpoint(endpoint, options...)
}

// NewSessionWithEndpoint is NewSession for a caller supplied endpoint.
func (o *Orchestrator) NewSessionWithEndpoint(endpoint submission.Endpoint, options ...session.Option) (*session.Session, error) {
	cfg := o.config
	presenter := notify.NewPresenter(
		notify.WithLifetime(cfg.NotificationLifetime.Std()),
		notify.WithFade(cfg.NotificationFade.Std()),
		notify.WithLogger(o.logger),
	)
	base := []session.Option{
		session.WithValidator(validation.New(validation.WithMessages(cfg.Messages()))),
		session.WithPresenter(presenter),
		session.WithInputDebounce(cfg.InputDebounce.Std()),
		session.WithRedirect(cfg.Redirect, cfg.RedirectDelay.Std()),
		session.WithLogger(o.logger),
	}
	s, err := session.New(endpoint, append(base, options...)...)
	if err != nil {
		presenter.Close()
		return nil, fmt.Errorf("orchestrator: %w", err)
	}
	return s, nil
}

func (o *Orchestrator) resolveForm(req Request) (*model.Form, error) {
	if req.Form != nil {
		return req.Form, nil
	}
	if req.FormID == "" {
		return nil, errors.New("orchestrator: form id is required")
	}
	form := o.config.Form(req.FormID)
	if form == nil {
		return nil, fmt.Errorf("orchestrator: form %q not found", req.FormID)
	}
	return form, nil
}

func (o *Orchestrator) rendererFor(name string) (render.Renderer, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}

	target := name
	if target == "" {
		target = o.defaultRenderer
	}

	if target != "" {
		renderer, err := o.registry.Get(target)
		if err == nil {
			return renderer, nil
		}
		if name != "" {
			return nil, fmt.Errorf("orchestrator: renderer %q: %w", name, err)
		}
	}

	names := o.registry.List()
	if len(names) == 0 {
		return nil, errors.New("orchestrator: no renderers registered")
	}

	renderer, err := o.registry.Get(names[0])
	if err != nil {
		return nil, fmt.Errorf("orchestrator: renderer %q: %w", names[0], err)
	}
	return renderer, nil
}

func (o *Orchestrator) applyDefaults() {
	if o.config == nil {
		cfg := config.Default()
		o.config = &cfg
	}
	if o.registry == nil {
		o.registry = render.NewRegistry()
		renderer, err := vanilla.New()
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default renderer: %w", err)
		} else if err := o.registry.Register(renderer); err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default renderer: %w", err)
		}
	}
	if o.defaultRenderer == "" {
		o.defaultRenderer = defaultRendererName
	}
	o.logger = o.logger.Named("orchestrator")
}
