package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formpipe/pkg/config"
	"github.com/goliatone/go-formpipe/pkg/model"
	"github.com/goliatone/go-formpipe/pkg/validation"
)

func expectedSite() *config.Config {
	cfg := config.Default()
	cfg.BaseURL = "https://example.sk/contact/index.html"
	cfg.RedirectDelay = config.Duration(2 * time.Second)
	cfg.InputDebounce = config.Duration(250 * time.Millisecond)
	cfg.Locale = "sk"
	cfg.Stub.Message = "Ďakujeme"
	cfg.Stub.RateLimit = 2
	cfg.Forms = []*model.Form{{
		ID:       "contact",
		Title:    "Kontakt",
		Endpoint: "process.php",
		Method:   "POST",
		Fields: []*model.Field{
			{Name: "firstName", Type: model.FieldTypeText, Label: "Meno", Required: true},
			{Name: "email", Type: model.FieldTypeEmail, Label: "Email", Required: true},
			{Name: "topic", Type: model.FieldTypeSelect, Label: "Topic", Options: []string{"offer", "support"}},
			{Name: "gdpr", Type: model.FieldTypeCheckbox, Label: "Súhlasím", Required: true},
		},
		Submit: &model.SubmitControl{Label: "Send"},
	}}
	return &cfg
}

func TestLoad_AllFormatsAgree(t *testing.T) {
	for _, name := range []string{"site.yaml", "site.toml", "site.json"} {
		t.Run(name, func(t *testing.T) {
			cfg, err := config.Load(filepath.Join("testdata", name))
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if diff := cmp.Diff(expectedSite(), cfg); diff != "" {
				t.Fatalf("config mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoad_DerivedSettings(t *testing.T) {
	cfg, err := config.Load(filepath.Join("testdata", "site.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	url, err := cfg.EndpointURL()
	if err != nil {
		t.Fatalf("endpoint url: %v", err)
	}
	if url != "https://example.sk/contact/process.php" {
		t.Fatalf("unexpected endpoint url %q", url)
	}
	if cfg.Messages().Sent != validation.SlovakMessages.Sent {
		t.Fatalf("expected Slovak messages")
	}
	if cfg.Form("contact") == nil || cfg.Form("missing") != nil {
		t.Fatalf("unexpected form lookup result")
	}
}

func TestParse_EmptyUsesDefaults(t *testing.T) {
	cfg, err := config.Parse(nil, config.FormatYAML)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := config.Default()
	if diff := cmp.Diff(&want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
	if cfg.RedirectDelay.Std() != time.Second {
		t.Fatalf("expected 1s redirect delay, got %s", cfg.RedirectDelay)
	}
	if cfg.InputDebounce.Std() != 300*time.Millisecond {
		t.Fatalf("expected 300ms input debounce, got %s", cfg.InputDebounce)
	}
}

func TestParse_Invalid(t *testing.T) {
	cases := []struct {
		name  string
		data  string
		field string
	}{
		{name: "relative base", data: "base_url: contact/index.html", field: "base_url"},
		{name: "negative delay", data: "redirect_delay: -1s", field: "redirect_delay"},
		{name: "unknown locale", data: "locale: de", field: "locale"},
		{name: "missing form id", data: "forms:\n  - fields:\n      - name: email", field: "forms[0].id"},
		{name: "duplicate form id", data: "forms:\n  - id: a\n    fields: [{name: x}]\n  - id: a\n    fields: [{name: y}]", field: "forms[1].id"},
		{name: "reserved honeypot", data: "forms:\n  - id: a\n    fields: [{name: website}]", field: "forms[0].fields[0].name"},
		{name: "unknown field type", data: "forms:\n  - id: a\n    fields: [{name: x, type: color}]", field: "forms[0].fields[0].type"},
		{name: "select without options", data: "forms:\n  - id: a\n    fields: [{name: x, type: select}]", field: "forms[0].fields[0].options"},
		{name: "no fields", data: "forms:\n  - id: a", field: "forms[0].fields"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := config.Parse([]byte(tc.data), config.FormatYAML)
			if !errors.Is(err, config.ErrInvalid) {
				t.Fatalf("expected ErrInvalid, got %v", err)
			}
			var cerr *config.Error
			if !errors.As(err, &cerr) {
				t.Fatalf("expected *config.Error, got %T", err)
			}
			if cerr.Field != tc.field {
				t.Fatalf("expected field %q, got %q", tc.field, cerr.Field)
			}
		})
	}
}

func TestParse_MalformedDuration(t *testing.T) {
	if _, err := config.Parse([]byte(`{"redirect_delay": "soon"}`), config.FormatJSON); err == nil {
		t.Fatalf("expected parse error")
	}
	if _, err := config.Parse([]byte(`{"unknown": true}`), config.FormatJSON); err == nil {
		t.Fatalf("expected unknown field error")
	}
}

func TestLoad_FileErrors(t *testing.T) {
	if _, err := config.Load("site.ini"); !errors.Is(err, config.ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}

	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected os.ErrNotExist, got %v", err)
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("locale: de\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err = config.Load(path)
	var cerr *config.Error
	if !errors.As(err, &cerr) || cerr.Path != path || cerr.Field != "locale" {
		t.Fatalf("expected located error, got %v", err)
	}
}
