package notify

import (
	"embed"
	"fmt"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	rendertemplate "github.com/goliatone/go-formpipe/pkg/render/template"
	"github.com/goliatone/go-formpipe/pkg/render/template/gotemplate"
)

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

const containerTemplate = "templates/container.tmpl"

var (
	messagePolicyOnce sync.Once
	messagePolicy     *bluemonday.Policy
)

// SanitizeMessage strips markup a notification must not carry. Server
// supplied messages are untrusted; only inline emphasis and links survive.
func SanitizeMessage(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(messageSanitizer().Sanitize(trimmed))
}

func messageSanitizer() *bluemonday.Policy {
	messagePolicyOnce.Do(func() {
		policy := bluemonday.StrictPolicy()
		policy.AllowElements("b", "strong", "i", "em", "br", "span")
		policy.AllowAttrs("href").OnElements("a")
		policy.AllowStandardURLs()
		policy.RequireNoFollowOnLinks(true)
		messagePolicy = policy
	})
	return messagePolicy
}

// HTML renders the container and its notifications. It returns an empty
// string before the first notification, matching the lazily created region.
func (p *Presenter) HTML() (string, error) {
	container := p.Container()
	if container == nil {
		return "", nil
	}

	engine, err := p.engine()
	if err != nil {
		return "", err
	}

	items := p.Snapshot()
	views := make([]map[string]any, 0, len(items))
	for _, item := range items {
		views = append(views, map[string]any{
			"id":       item.ID,
			"severity": string(item.Severity),
			"message":  SanitizeMessage(item.Message),
			"visible":  item.Visible,
		})
	}

	out, err := engine.RenderTemplate(containerTemplate, map[string]any{
		"container":     container,
		"notifications": views,
	})
	if err != nil {
		return "", fmt.Errorf("notify: render container: %w", err)
	}
	return out, nil
}

func (p *Presenter) engine() (rendertemplate.TemplateRenderer, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.templates != nil {
		return p.templates, nil
	}
	engine, err := gotemplate.New(
		gotemplate.WithFS(embeddedTemplates),
		gotemplate.WithExtension(".tmpl"),
	)
	if err != nil {
		return nil, fmt.Errorf("notify: configure template renderer: %w", err)
	}
	p.templates = engine
	return engine, nil
}
