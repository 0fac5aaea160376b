// Package config loads the settings of a formpipe site: where submissions go,
// the timings of the pipeline, the message locale, the development stub and
// the forms declared for rendering.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/goliatone/go-formpipe/pkg/model"
	"github.com/goliatone/go-formpipe/pkg/notify"
	"github.com/goliatone/go-formpipe/pkg/session"
	"github.com/goliatone/go-formpipe/pkg/submission"
	"github.com/goliatone/go-formpipe/pkg/validation"
)

// Duration is a time.Duration written as "300ms" or "1s" in every format.
type Duration time.Duration

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func (d Duration) String() string {
	return time.Duration(d).String()
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return fmt.Errorf("duration %q: %w", text, err)
	}
	*d = Duration(parsed)
	return nil
}

// Stub configures the development endpoint served by `formpipe serve`.
type Stub struct {
	Addr string `json:"addr" yaml:"addr" toml:"addr"`
	// Reject makes the stub answer with a business failure.
	Reject  bool     `json:"reject" yaml:"reject" toml:"reject"`
	Message string   `json:"message" yaml:"message" toml:"message"`
	Latency Duration `json:"latency" yaml:"latency" toml:"latency"`
	// RateLimit is the accepted requests per second; Burst the bucket size.
	RateLimit float64 `json:"rate_limit" yaml:"rate_limit" toml:"rate_limit"`
	Burst     int     `json:"burst" yaml:"burst" toml:"burst"`
}

// Config is the full site configuration.
type Config struct {
	// Endpoint is the submission path, resolved against BaseURL.
	Endpoint             string        `json:"endpoint" yaml:"endpoint" toml:"endpoint"`
	BaseURL              string        `json:"base_url" yaml:"base_url" toml:"base_url"`
	Redirect             string        `json:"redirect" yaml:"redirect" toml:"redirect"`
	RedirectDelay        Duration      `json:"redirect_delay" yaml:"redirect_delay" toml:"redirect_delay"`
	NotificationLifetime Duration      `json:"notification_lifetime" yaml:"notification_lifetime" toml:"notification_lifetime"`
	NotificationFade     Duration      `json:"notification_fade" yaml:"notification_fade" toml:"notification_fade"`
	InputDebounce        Duration      `json:"input_debounce" yaml:"input_debounce" toml:"input_debounce"`
	Locale               string        `json:"locale" yaml:"locale" toml:"locale"`
	Stub                 Stub          `json:"stub" yaml:"stub" toml:"stub"`
	Forms                []*model.Form `json:"forms" yaml:"forms" toml:"forms"`
}

const (
	DefaultLocale    = "en"
	DefaultStubAddr  = "127.0.0.1:8080"
	DefaultRateLimit = 5
	DefaultBurst     = 10
)

var knownLocales = map[string]struct{}{
	"en": {}, "en-US": {}, "en_US": {},
	"sk": {}, "sk-SK": {}, "sk_SK": {},
}

var knownFieldTypes = map[model.FieldType]struct{}{
	model.FieldTypeText:     {},
	model.FieldTypeEmail:    {},
	model.FieldTypeTel:      {},
	model.FieldTypeCheckbox: {},
	model.FieldTypeTextarea: {},
	model.FieldTypeSelect:   {},
	model.FieldTypeHidden:   {},
}

// Default returns a configuration carrying every default.
func Default() Config {
	return Config{
		Endpoint:             submission.DefaultEndpointPath,
		Redirect:             submission.DefaultRedirect,
		RedirectDelay:        Duration(submission.DefaultRedirectDelay),
		NotificationLifetime: Duration(notify.DefaultLifetime),
		NotificationFade:     Duration(notify.DefaultFade),
		InputDebounce:        Duration(session.DefaultInputDebounce),
		Locale:               DefaultLocale,
		Stub: Stub{
			Addr:      DefaultStubAddr,
			RateLimit: DefaultRateLimit,
			Burst:     DefaultBurst,
		},
	}
}

// ApplyDefaults fills every empty setting.
func (c *Config) ApplyDefaults() {
	def := Default()
	if strings.TrimSpace(c.Endpoint) == "" {
		c.Endpoint = def.Endpoint
	}
	if strings.TrimSpace(c.Redirect) == "" {
		c.Redirect = def.Redirect
	}
	if c.RedirectDelay == 0 {
		c.RedirectDelay = def.RedirectDelay
	}
	if c.NotificationLifetime == 0 {
		c.NotificationLifetime = def.NotificationLifetime
	}
	if c.InputDebounce == 0 {
		c.InputDebounce = def.InputDebounce
	}
	if strings.TrimSpace(c.Locale) == "" {
		c.Locale = def.Locale
	}
	if strings.TrimSpace(c.Stub.Addr) == "" {
		c.Stub.Addr = def.Stub.Addr
	}
	if c.Stub.RateLimit == 0 {
		c.Stub.RateLimit = def.Stub.RateLimit
	}
	if c.Stub.Burst == 0 {
		c.Stub.Burst = def.Stub.Burst
	}
	for _, form := range c.Forms {
		if form == nil {
			continue
		}
		if form.Endpoint == "" {
			form.Endpoint = c.Endpoint
		}
		if form.Method == "" {
			form.Method = "POST"
		}
		if form.Submit == nil {
			form.Submit = &model.SubmitControl{Label: "Send"}
		}
		for _, field := range form.Fields {
			if field == nil {
				continue
			}
			if field.Type == "" {
				field.Type = model.FieldTypeText
			}
			if field.Label == "" && !field.IsHoneypot() && field.Type != model.FieldTypeHidden {
				field.Label = model.LabelFor(field.Name)
			}
		}
	}
}

// Validate reports the first invalid setting as an *Error wrapping
// ErrInvalid.
func (c *Config) Validate() error {
	if base := strings.TrimSpace(c.BaseURL); base != "" {
		u, err := url.Parse(base)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return invalid("base_url", "%q is not an absolute http(s) URL", base)
		}
	}
	if c.BaseURL != "" || isAbsolute(c.Endpoint) {
		if _, err := submission.ResolveEndpoint(c.BaseURL, c.Endpoint); err != nil {
			return invalid("endpoint", "%v", err)
		}
	}
	durations := []struct {
		name  string
		value Duration
	}{
		{"redirect_delay", c.RedirectDelay},
		{"notification_lifetime", c.NotificationLifetime},
		{"notification_fade", c.NotificationFade},
		{"input_debounce", c.InputDebounce},
		{"stub.latency", c.Stub.Latency},
	}
	for _, d := range durations {
		if d.value < 0 {
			return invalid(d.name, "must not be negative, got %s", d.value)
		}
	}
	if _, ok := knownLocales[c.Locale]; !ok {
		return invalid("locale", "unknown locale %q", c.Locale)
	}
	if c.Stub.RateLimit < 0 {
		return invalid("stub.rate_limit", "must not be negative")
	}
	if c.Stub.Burst < 0 {
		return invalid("stub.burst", "must not be negative")
	}

	ids := make(map[string]struct{}, len(c.Forms))
	for i, form := range c.Forms {
		if form == nil {
			return invalid(fmt.Sprintf("forms[%d]", i), "empty form")
		}
		if strings.TrimSpace(form.ID) == "" {
			return invalid(fmt.Sprintf("forms[%d].id", i), "is required")
		}
		if _, dup := ids[form.ID]; dup {
			return invalid(fmt.Sprintf("forms[%d].id", i), "duplicate id %q", form.ID)
		}
		ids[form.ID] = struct{}{}
		if len(form.Fields) == 0 {
			return invalid(fmt.Sprintf("forms[%d].fields", i), "at least one field is required")
		}
		for j, field := range form.Fields {
			path := fmt.Sprintf("forms[%d].fields[%d]", i, j)
			if field == nil || strings.TrimSpace(field.Name) == "" {
				return invalid(path+".name", "is required")
			}
			if field.IsHoneypot() {
				return invalid(path+".name", "%q is reserved", model.HoneypotName)
			}
			if _, ok := knownFieldTypes[field.Type]; !ok {
				return invalid(path+".type", "unknown type %q", field.Type)
			}
			if field.Type == model.FieldTypeSelect && len(field.Options) == 0 {
				return invalid(path+".options", "a select needs options")
			}
		}
	}
	return nil
}

// Form returns the declared form with id, or nil.
func (c *Config) Form(id string) *model.Form {
	for _, form := range c.Forms {
		if form != nil && form.ID == id {
			return form
		}
	}
	return nil
}

// Messages returns the message table for the configured locale.
func (c *Config) Messages() validation.Messages {
	return validation.MessagesFor(c.Locale)
}

// EndpointURL resolves the submission endpoint against BaseURL.
func (c *Config) EndpointURL() (string, error) {
	return submission.ResolveEndpoint(c.BaseURL, c.Endpoint)
}

func isAbsolute(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	return err == nil && u.IsAbs()
}
