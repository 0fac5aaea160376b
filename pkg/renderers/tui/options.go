package tui

import (
	"go.uber.org/zap"

	"github.com/goliatone/go-formpipe/pkg/session"
)

// OutputFormat controls how the result of a run is serialized.
type OutputFormat string

const (
	// OutputFormatJSON emits application/json payloads.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatPrettyText emits a human-friendly text summary.
	OutputFormatPrettyText OutputFormat = "pretty"
)

// DefaultMaxAttempts bounds how often an invalid answer is prompted again.
const DefaultMaxAttempts = 3

// Theme captures optional prefixes the driver prints before messages.
type Theme struct {
	InfoPrefix    string
	SuccessPrefix string
	ErrorPrefix   string
}

// DefaultTheme is applied when WithTheme is not used.
var DefaultTheme = Theme{
	InfoPrefix:    "i ",
	SuccessPrefix: "✓ ",
	ErrorPrefix:   "✗ ",
}

// Option configures the TUI renderer.
type Option func(*Renderer)

// WithPromptDriver overrides the prompt driver used by the renderer.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Renderer) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithOutputFormat selects the output serialization format.
func WithOutputFormat(format OutputFormat) Option {
	return func(r *Renderer) {
		if format != "" {
			r.outputFormat = format
		}
	}
}

// WithSession submits answered forms through s. Without a session the
// renderer only validates and reports the payload that would be sent.
func WithSession(s *session.Session) Option {
	return func(r *Renderer) {
		r.session = s
	}
}

// WithMaxAttempts overrides how often an invalid answer is re-prompted.
func WithMaxAttempts(n int) Option {
	return func(r *Renderer) {
		if n > 0 {
			r.maxAttempts = n
		}
	}
}

// WithTheme applies message prefixes.
func WithTheme(theme Theme) Option {
	return func(r *Renderer) {
		r.theme = theme
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}
