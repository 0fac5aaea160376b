package gotemplate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-formpipe/pkg/render/template"
)

// DefaultExtension is appended to template names that carry none.
const DefaultExtension = ".tmpl"

var (
	// ErrNoSource is returned when neither a directory nor an fs.FS is given.
	ErrNoSource = errors.New("gotemplate: need to provide either base dir or fs.FS")
	// ErrNilEngine is returned by methods called on a nil Engine.
	ErrNilEngine = errors.New("gotemplate: engine is nil")
)

// Option configures the engine before construction.
type Option func(*Engine)

// WithBaseDir loads templates from a directory on disk. It takes precedence
// over WithFS for names present in both.
func WithBaseDir(dir string) Option {
	return func(e *Engine) {
		e.baseDir = strings.TrimSpace(dir)
	}
}

// WithFS loads templates from files.
func WithFS(files fs.FS) Option {
	return func(e *Engine) {
		e.files = files
	}
}

// WithExtension overrides DefaultExtension.
func WithExtension(ext string) Option {
	return func(e *Engine) {
		ext = strings.TrimSpace(ext)
		if ext == "" {
			return
		}
		if ext[0] != '.' {
			ext = "." + ext
		}
		e.ext = ext
	}
}

// WithGlobalData seeds values available to every template.
func WithGlobalData(data map[string]any) Option {
	return func(e *Engine) {
		for key, value := range data {
			if e.globals == nil {
				e.globals = map[string]any{}
			}
			e.globals[strings.TrimSpace(key)] = value
		}
	}
}

// Engine renders pongo2 templates. View data is seen through its JSON
// encoding, so templates use the json keys of the structs they receive.
type Engine struct {
	baseDir string
	files   fs.FS
	ext     string
	globals map[string]any

	set *pongo2.TemplateSet

	mu    sync.RWMutex
	cache map[string]*pongo2.Template
}

var _ template.TemplateRenderer = (*Engine)(nil)

var registerFilters sync.Once

// New builds an engine. Either WithBaseDir or WithFS is required.
func New(options ...Option) (*Engine, error) {
	e := &Engine{ext: DefaultExtension, cache: map[string]*pongo2.Template{}}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(e)
	}
	if e.baseDir == "" && e.files == nil {
		return nil, ErrNoSource
	}

	var loaders []pongo2.TemplateLoader
	if e.baseDir != "" {
		local, err := pongo2.NewLocalFileSystemLoader(e.baseDir)
		if err != nil {
			return nil, fmt.Errorf("gotemplate: create local loader: %w", err)
		}
		loaders = append(loaders, local)
	}
	if e.files != nil {
		loaders = append(loaders, pongo2.NewFSLoader(e.files))
	}
	e.set = pongo2.NewSet("formpipe", loaders...)

	registerFilters.Do(func() {
		registerBuiltin("trim", filterTrim)
		registerBuiltin("classlist", filterClassList)
	})

	if err := e.GlobalContext(e.globals); err != nil {
		return nil, fmt.Errorf("gotemplate: apply global data: %w", err)
	}
	return e, nil
}

// Render treats name as inline template source when it contains template
// tags and as a template name otherwise.
func (e *Engine) Render(name string, data any, out ...io.Writer) (string, error) {
	if strings.Contains(name, "{{") || strings.Contains(name, "{%") {
		return e.RenderString(name, data, out...)
	}
	return e.RenderTemplate(name, data, out...)
}

// RenderTemplate renders the named template.
func (e *Engine) RenderTemplate(name string, data any, out ...io.Writer) (string, error) {
	if e == nil || e.set == nil {
		return "", ErrNilEngine
	}
	if !strings.HasSuffix(name, e.ext) {
		name += e.ext
	}
	tmpl, err := e.load(name)
	if err != nil {
		return "", err
	}
	return e.execute(tmpl, data, out)
}

// RenderString parses and renders inline template source.
func (e *Engine) RenderString(source string, data any, out ...io.Writer) (string, error) {
	if e == nil || e.set == nil {
		return "", ErrNilEngine
	}
	tmpl, err := e.set.FromString(source)
	if err != nil {
		return "", fmt.Errorf("gotemplate: parse template string: %w", err)
	}
	return e.execute(tmpl, data, out)
}

// RegisterFilter adds a pongo2 filter. Filters are process wide, so a name
// that already exists is rejected.
func (e *Engine) RegisterFilter(name string, fn func(input any, param any) (any, error)) error {
	name = strings.TrimSpace(name)
	if name == "" || fn == nil {
		return errors.New("gotemplate: filter name and function required")
	}
	if pongo2.FilterExists(name) {
		return fmt.Errorf("gotemplate: filter %q already exists", name)
	}
	return pongo2.RegisterFilter(name, func(in, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
		var arg any
		if param != nil {
			arg = param.Interface()
		}
		result, err := fn(in.Interface(), arg)
		if err != nil {
			return nil, &pongo2.Error{Sender: "filter:" + name, OrigError: err}
		}
		return pongo2.AsValue(result), nil
	})
}

// GlobalContext merges data into the values every template sees.
func (e *Engine) GlobalContext(data any) error {
	if e == nil || e.set == nil {
		return ErrNilEngine
	}
	if data == nil {
		return nil
	}
	ctx, err := toContext(data)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.set.Globals == nil {
		e.set.Globals = pongo2.Context{}
	}
	e.set.Globals.Update(ctx)
	return nil
}

func (e *Engine) load(name string) (*pongo2.Template, error) {
	e.mu.RLock()
	tmpl, ok := e.cache[name]
	e.mu.RUnlock()
	if ok {
		return tmpl, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if tmpl, ok := e.cache[name]; ok {
		return tmpl, nil
	}
	tmpl, err := e.set.FromFile(name)
	if err != nil {
		return nil, fmt.Errorf("gotemplate: load template %q: %w", name, err)
	}
	e.cache[name] = tmpl
	return tmpl, nil
}

func (e *Engine) execute(tmpl *pongo2.Template, data any, out []io.Writer) (string, error) {
	ctx, err := toContext(data)
	if err != nil {
		return "", fmt.Errorf("gotemplate: convert data: %w", err)
	}

	var buf bytes.Buffer
	e.mu.RLock()
	err = tmpl.ExecuteWriter(ctx, &buf)
	e.mu.RUnlock()
	if err != nil {
		return "", fmt.Errorf("gotemplate: execute: %w", err)
	}

	rendered := buf.String()
	for _, w := range out {
		if _, err := io.WriteString(w, rendered); err != nil {
			return "", err
		}
	}
	return rendered, nil
}

// toContext keeps scalar top-level values as they are and passes everything
// else through JSON.
func toContext(data any) (pongo2.Context, error) {
	var top map[string]any
	switch v := data.(type) {
	case nil:
		return pongo2.Context{}, nil
	case pongo2.Context:
		top = v
	case map[string]any:
		top = v
	default:
		if err := viaJSON(v, &top); err != nil {
			return nil, err
		}
	}

	ctx := make(pongo2.Context, len(top))
	for key, value := range top {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		switch value.(type) {
		case nil, string, bool, int, int64, float64:
			ctx[key] = value
		default:
			var converted any
			if err := viaJSON(value, &converted); err != nil {
				return nil, fmt.Errorf("key %q: %w", key, err)
			}
			ctx[key] = converted
		}
	}
	return ctx, nil
}

func viaJSON(in, out any) error {
	raw, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

func registerBuiltin(name string, filter pongo2.FilterFunction) {
	if !pongo2.FilterExists(name) {
		_ = pongo2.RegisterFilter(name, filter)
	}
}

func filterTrim(in, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	return pongo2.AsValue(strings.TrimSpace(in.String())), nil
}

// filterClassList joins a list of CSS classes, dropping blanks.
func filterClassList(in, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	if in.IsNil() {
		return pongo2.AsValue(""), nil
	}
	var classes []string
	in.Iterate(func(_, _ int, item, _ *pongo2.Value) bool {
		if class := strings.TrimSpace(item.String()); class != "" {
			classes = append(classes, class)
		}
		return true
	}, func() {})
	return pongo2.AsValue(strings.Join(classes, " ")), nil
}
