package vanilla_test

import (
	"bytes"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-formpipe/pkg/dom"
	"github.com/goliatone/go-formpipe/pkg/model"
	"github.com/goliatone/go-formpipe/pkg/render"
	"github.com/goliatone/go-formpipe/pkg/renderers/vanilla"
	"github.com/goliatone/go-formpipe/pkg/testsupport"
	"github.com/goliatone/go-formpipe/pkg/validation"
)

func newRenderer(t *testing.T, opts ...vanilla.Option) *vanilla.Renderer {
	t.Helper()
	renderer, err := vanilla.New(opts...)
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	return renderer
}

func TestRenderer_RenderContactForm(t *testing.T) {
	form := testsupport.MustLoadForm(t, filepath.Join("testdata", "contact_form.json"))
	renderer := newRenderer(t)

	output, err := renderer.Render(testsupport.Context(), form, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	testsupport.AssertContains(t, string(output),
		`<form id="contact" class="needs-validation" action="process.php" method="post" novalidate>`,
		`<h2 class="h4 mb-3">Contact us</h2>`,
		`<label class="form-label" for="contact-email">Email</label>`,
		`<input type="email" class="form-control" id="contact-email" name="email" placeholder="you@example.com" required>`,
		`<option value="Sales" selected>Sales</option>`,
		`<textarea class="form-control" id="contact-message" name="message" rows="5" required></textarea>`,
		`<input type="checkbox" class="form-check-input" id="contact-gdpr" name="gdpr" required>`,
		`<input type="text" name="website" style="`+dom.HoneypotStyle+`" tabindex="-1" autocomplete="off">`,
		`<button type="submit" class="btn btn-primary">Send</button>`,
	)

	if form.Honeypot() != nil {
		t.Fatalf("rendering must not modify the source form")
	}
}

func TestRenderer_AppliesOptions(t *testing.T) {
	form := testsupport.MustLoadForm(t, filepath.Join("testdata", "contact_form.json"))
	renderer := newRenderer(t)

	output, err := renderer.Render(testsupport.Context(), form, render.RenderOptions{
		Action: "/api/contact",
		Values: map[string]string{"email": `a"b@example.com`, "topic": "Support", "gdpr": "on", "website": "x"},
		Errors:     map[string][]string{"email": {"Already registered"}, "captcha": {"Captcha failed"}},
		FormErrors: []string{"Captcha failed", "Try again later."},
		Hidden:     map[string]string{"_csrf": "tok"},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	out := string(output)
	testsupport.AssertContains(t, out,
		`action="/api/contact"`,
		`<input type="hidden" name="_csrf" value="tok">`,
		`value="a&quot;b@example.com"`,
		`class="form-control is-invalid" id="contact-email"`,
		`<div class="invalid-feedback">Already registered</div>`,
		`<p class="mb-0">Captcha failed</p>`,
		`<p class="mb-0">Try again later.</p>`,
		`<option value="Support" selected>Support</option>`,
		`name="gdpr" checked required`,
	)
	if strings.Contains(out, `<option value="Sales" selected>`) {
		t.Fatalf("expected only the chosen option selected:\n%s", out)
	}
	if n := strings.Count(out, "Captcha failed"); n != 1 {
		t.Fatalf("expected form errors merged without duplicates, got %d:\n%s", n, out)
	}
	if strings.Contains(out, `value="x"`) {
		t.Fatalf("honeypot must never be pre-filled:\n%s", out)
	}
}

func TestRenderer_RendersValidationState(t *testing.T) {
	form := testsupport.MustLoadForm(t, filepath.Join("testdata", "contact_form.json"))
	validation.New().ValidateAll(form)
	form.Submit.Disabled = true

	output, err := newRenderer(t).Render(testsupport.Context(), form, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	testsupport.AssertContains(t, string(output),
		`<div class="invalid-feedback">`+validation.DefaultMessages.Required+`</div>`,
		`<div class="invalid-feedback">`+validation.DefaultMessages.MustAgree+`</div>`,
		`class="form-check-input is-invalid"`,
		`<button type="submit" class="btn btn-primary" disabled>Send</button>`,
	)
}

func TestRenderer_OutputBindsBack(t *testing.T) {
	form := testsupport.MustLoadForm(t, filepath.Join("testdata", "contact_form.json"))
	renderer := newRenderer(t)

	page, err := renderer.RenderPage(testsupport.Context(), vanilla.Page{
		Title:         "Contact",
		Forms:         []*model.Form{form},
		Notifications: `<div id="notification-container"></div>`,
	})
	if err != nil {
		t.Fatalf("render page: %v", err)
	}
	testsupport.AssertContains(t, string(page), `<html lang="en">`, `<title>Contact</title>`, `id="notification-container"`)

	doc, err := dom.Parse(bytes.NewReader(page))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if injected := doc.Prepare(); injected != 0 {
		t.Fatalf("rendered forms already carry a honeypot, got %d injected", injected)
	}
	forms := doc.Forms()
	if len(forms) != 1 {
		t.Fatalf("expected one bound form, got %d", len(forms))
	}
	var names []string
	for _, field := range forms[0].Fields {
		names = append(names, field.Name)
	}
	want := "firstName,email,topic,message,gdpr,website"
	if got := strings.Join(names, ","); got != want {
		t.Fatalf("expected fields %s, got %s", want, got)
	}
	if forms[0].Field("topic").Value != "Sales" {
		t.Fatalf("expected first option selected, got %q", forms[0].Field("topic").Value)
	}
}

func TestRenderer_ChromeAndStylesheet(t *testing.T) {
	renderer := newRenderer(t,
		vanilla.WithChrome(vanilla.Chrome{Button: "button is-primary"}),
		vanilla.WithStylesheet("/assets/formpipe.css"),
	)
	form := testsupport.ContactForm()

	out, err := renderer.Render(testsupport.Context(), form, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	testsupport.AssertContains(t, string(out), `class="button is-primary"`, `<div class="mb-3">`)

	page, err := renderer.RenderThankYou("Thank you", "We will be in touch.")
	if err != nil {
		t.Fatalf("render thank you: %v", err)
	}
	testsupport.AssertContains(t, string(page), `href="/assets/formpipe.css"`, `<p class="lead">We will be in touch.</p>`)
}

func TestAssetsFS(t *testing.T) {
	data, err := fs.ReadFile(vanilla.AssetsFS(), vanilla.StylesheetName)
	if err != nil {
		t.Fatalf("expected stylesheet to be readable: %v", err)
	}
	if !strings.Contains(string(data), ".invalid-feedback") {
		t.Fatalf("expected stylesheet to style feedback")
	}
}
