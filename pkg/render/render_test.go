package render_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formpipe/pkg/model"
	"github.com/goliatone/go-formpipe/pkg/render"
)

type stubRenderer struct{ name string }

func (s stubRenderer) Name() string { return s.name }
func (s stubRenderer) ContentType() string { return "text/plain" }
func (s stubRenderer) Render(_ context.Context, form *model.Form, _ render.RenderOptions) ([]byte, error) {
	return []byte(form.ID), nil
}

func TestRegistry(t *testing.T) {
	registry := render.NewRegistry()
	if err := registry.Register(stubRenderer{name: "b"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := registry.Register(stubRenderer{name: "a"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := registry.Register(stubRenderer{name: "a"}); err == nil {
		t.Fatalf("expected duplicate registration to fail")
	}
	if err := registry.Register(nil); err == nil {
		t.Fatalf("expected nil renderer to fail")
	}
	if diff := cmp.Diff([]string{"a", "b"}, registry.List()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}

	out, contentType, err := registry.Render(context.Background(), "a", &model.Form{ID: "contact"}, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if string(out) != "contact" || contentType != "text/plain" {
		t.Fatalf("unexpected output %q %q", out, contentType)
	}
	if _, _, err := registry.Render(context.Background(), "missing", &model.Form{}, render.RenderOptions{}); !errors.Is(err, render.ErrUnknownRenderer) {
		t.Fatalf("expected ErrUnknownRenderer, got %v", err)
	}
	if !registry.Has("b") || registry.Has("missing") {
		t.Fatalf("unexpected Has result")
	}
}

func TestMapAndApplyErrors(t *testing.T) {
	form := &model.Form{Fields: []*model.Field{
		{Name: "email"},
		{Name: model.HoneypotName},
	}}
	mapping := render.MapErrors(form, map[string][]string{
		"email":            {" Already subscribed ", "Already subscribed"},
		"captcha":          {"Captcha failed"},
		model.HoneypotName: {"nope"},
		"blank":            {"  "},
	})

	want := render.ErrorMapping{
		Fields: map[string][]string{"email": {"Already subscribed"}},
		Form:   []string{"Captcha failed", "nope"},
	}
	if diff := cmp.Diff(want, mapping); diff != "" {
		t.Fatalf("mapping mismatch (-want +got):\n%s", diff)
	}

	render.ApplyErrors(form, mapping)
	email := form.Field("email")
	if email.Validity != model.ValidityInvalid || !email.HasClass(model.ClassInvalid) {
		t.Fatalf("expected email invalid, got %+v", email)
	}
	if email.Feedback == nil || email.Feedback.Text != "Already subscribed" {
		t.Fatalf("unexpected feedback %+v", email.Feedback)
	}
}

func TestMergeFormErrors(t *testing.T) {
	got := render.MergeFormErrors([]string{"Captcha failed"}, " Try later ", "Captcha failed", "")
	want := []string{"Captcha failed", "Try later"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("merged errors mismatch (-want +got):\n%s", diff)
	}
	if got := render.MergeFormErrors(nil, " "); got != nil {
		t.Fatalf("expected nil for blank messages, got %+v", got)
	}
}

func TestHiddenFields(t *testing.T) {
	merged := render.MergeHiddenFields(
		map[string]string{"source": "landing", " ": "x"},
		render.CSRFToken("_csrf", "tok"),
		render.Hidden("source", "footer"),
	)
	got := render.SortedHiddenFields(merged)
	want := []render.HiddenField{{Name: "_csrf", Value: "tok"}, {Name: "source", Value: "footer"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("hidden mismatch (-want +got):\n%s", diff)
	}
	if got := render.SortedHiddenFields(map[string]string{model.HoneypotName: "x"}); got != nil {
		t.Fatalf("honeypot must not be rendered as a hidden field, got %+v", got)
	}
	if got := render.CSRFToken("", "tok"); got.Name != render.CSRFFieldName {
		t.Fatalf("expected default CSRF name, got %q", got.Name)
	}
	if render.MergeHiddenFields(nil) != nil {
		t.Fatalf("expected nil for empty input")
	}
}
