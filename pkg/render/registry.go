package render

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/goliatone/go-formpipe/pkg/model"
)

var (
	// ErrNilRenderer is returned when registering a nil renderer.
	ErrNilRenderer = errors.New("render: renderer is required")
	// ErrUnnamedRenderer is returned for a renderer whose Name is empty.
	ErrUnnamedRenderer = errors.New("render: renderer name is required")
	// ErrUnknownRenderer is wrapped by lookups of unregistered names.
	ErrUnknownRenderer = errors.New("render: renderer not found")
)

// Registry holds renderers by name. It is safe for concurrent use; the CLI
// and the orchestrator resolve renderer names through it.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]Renderer
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: map[string]Renderer{}}
}

// Register adds renderer under its Name. A name can be registered once.
func (r *Registry) Register(renderer Renderer) error {
	if renderer == nil {
		return ErrNilRenderer
	}
	name := renderer.Name()
	if name == "" {
		return ErrUnnamedRenderer
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.byName[name]; taken {
		return fmt.Errorf("render: renderer %q already registered", name)
	}
	r.byName[name] = renderer
	return nil
}

// Get returns the renderer registered under name.
func (r *Registry) Get(name string) (Renderer, error) {
	r.mu.RLock()
	renderer, ok := r.byName[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRenderer, name)
	}
	return renderer, nil
}

// Render renders form with the named renderer and reports its content type.
func (r *Registry) Render(ctx context.Context, name string, form *model.Form, options RenderOptions) ([]byte, string, error) {
	renderer, err := r.Get(name)
	if err != nil {
		return nil, "", err
	}
	out, err := renderer.Render(ctx, form, options)
	if err != nil {
		return nil, "", fmt.Errorf("render: %s: %w", name, err)
	}
	return out, renderer.ContentType(), nil
}

// List returns the registered names in order.
func (r *Registry) List() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	r.mu.RUnlock()
	sort.Strings(names)
	return names
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, err := r.Get(name)
	return err == nil
}
