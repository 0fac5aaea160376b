package formpipe

import (
	"context"
	"io/fs"
	"strings"
	"testing"

	"github.com/goliatone/go-formpipe/pkg/model"
	"github.com/goliatone/go-formpipe/pkg/testsupport"
)

func TestAssetsFSContainsStylesheet(t *testing.T) {
	data, err := fs.ReadFile(AssetsFS(), "formpipe.css")
	if err != nil {
		t.Fatalf("expected stylesheet to be readable: %v", err)
	}
	if !strings.Contains(string(data), "invalid-feedback") {
		t.Fatalf("expected stylesheet to style feedback elements")
	}
}

func TestEmbeddedTemplatesContainForm(t *testing.T) {
	if _, err := fs.ReadFile(EmbeddedTemplates(), "templates/form.tmpl"); err != nil {
		t.Fatalf("expected form template to be readable: %v", err)
	}
}

func TestGenerateHTML(t *testing.T) {
	cfg := &Config{}
	cfg.Forms = []*model.Form{testsupport.ContactForm()}
	cfg.ApplyDefaults()

	out, err := GenerateHTML(context.Background(), cfg, "contact", "")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	testsupport.AssertContains(t, string(out), `<form id="contact"`, `name="website"`, "novalidate")
}
