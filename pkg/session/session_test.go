package session_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formpipe/pkg/model"
	"github.com/goliatone/go-formpipe/pkg/notify"
	"github.com/goliatone/go-formpipe/pkg/session"
	"github.com/goliatone/go-formpipe/pkg/submission"
	"github.com/goliatone/go-formpipe/pkg/validation"
)

func newsletterForm() *model.Form {
	return &model.Form{
		Fields: []*model.Field{
			{Name: "email", Type: model.FieldTypeEmail, Required: true},
			{Name: "gdpr", Type: model.FieldTypeCheckbox, Required: true},
		},
		Submit: &model.SubmitControl{Label: "Subscribe"},
	}
}

func successEndpoint(calls *atomic.Int32) submission.Endpoint {
	return submission.EndpointFunc(func(context.Context, submission.Payload) submission.Outcome {
		calls.Add(1)
		return submission.Success()
	})
}

func newSession(t *testing.T, endpoint submission.Endpoint, opts ...session.Option) *session.Session {
	t.Helper()
	s, err := session.New(endpoint, opts...)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	t.Cleanup(s.Close)
	return s
}

func TestNew_RequiresEndpoint(t *testing.T) {
	if _, err := session.New(nil); !errors.Is(err, submission.ErrEndpointRequired) {
		t.Fatalf("expected ErrEndpointRequired, got %v", err)
	}
}

func TestBind_AssignsIDAndHoneypot(t *testing.T) {
	var calls atomic.Int32
	s := newSession(t, successEndpoint(&calls))

	form := newsletterForm()
	id, err := s.Bind(form)
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	if id == "" || form.ID != id {
		t.Fatalf("expected id assigned, got %q / %q", id, form.ID)
	}
	if form.Honeypot() == nil {
		t.Fatalf("expected honeypot injected")
	}
	if _, err := s.Bind(form); !errors.Is(err, session.ErrFormBound) {
		t.Fatalf("expected ErrFormBound, got %v", err)
	}
	if _, err := s.Bind(nil); !errors.Is(err, session.ErrNilForm) {
		t.Fatalf("expected ErrNilForm, got %v", err)
	}
	if diff := cmp.Diff([]string{id}, s.FormIDs()); diff != "" {
		t.Fatalf("form ids mismatch (-want +got):\n%s", diff)
	}
}

func TestEvents_UnknownTargets(t *testing.T) {
	var calls atomic.Int32
	s := newSession(t, successEndpoint(&calls))
	id, _ := s.Bind(newsletterForm())

	if _, _, err := s.Blur("missing", "email"); !errors.Is(err, session.ErrUnknownForm) {
		t.Fatalf("expected ErrUnknownForm, got %v", err)
	}
	if _, _, err := s.Blur(id, "nope"); !errors.Is(err, session.ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
	if err := s.Input(id, model.HoneypotName, "x"); !errors.Is(err, session.ErrUnknownField) {
		t.Fatalf("expected honeypot to be unreachable, got %v", err)
	}
	if _, err := s.Submit(context.Background(), "missing"); !errors.Is(err, session.ErrUnknownForm) {
		t.Fatalf("expected ErrUnknownForm, got %v", err)
	}
}

func TestBlur_Validates(t *testing.T) {
	var calls atomic.Int32
	s := newSession(t, successEndpoint(&calls))
	id, _ := s.Bind(newsletterForm())

	valid, message, err := s.Blur(id, "email")
	if err != nil {
		t.Fatalf("blur: %v", err)
	}
	if valid || message != validation.DefaultMessages.Required {
		t.Fatalf("expected required failure, got %v %q", valid, message)
	}
	_ = s.View(id, func(form *model.Form) {
		if !form.Field("email").HasClass(model.ClassInvalid) {
			t.Fatalf("expected is-invalid after blur")
		}
	})
}

func TestInput_RevalidatesOnlyInvalidFields(t *testing.T) {
	var calls atomic.Int32
	changed := make(chan string, 4)
	s := newSession(t, successEndpoint(&calls),
		session.WithInputDebounce(20*time.Millisecond),
		session.WithChangeHook(func(_ string, field string) { changed <- field }),
	)
	id, _ := s.Bind(newsletterForm())

	if err := s.Input(id, "email", "jane@"); err != nil {
		t.Fatalf("input: %v", err)
	}
	select {
	case field := <-changed:
		t.Fatalf("untouched field %s must not be re-validated", field)
	case <-time.After(60 * time.Millisecond):
	}

	if _, _, err := s.Blur(id, "email"); err != nil {
		t.Fatalf("blur: %v", err)
	}
	for _, v := range []string{"jane@e", "jane@ex", "jane@example.com"} {
		if err := s.Input(id, "email", v); err != nil {
			t.Fatalf("input: %v", err)
		}
	}

	select {
	case field := <-changed:
		if field != "email" {
			t.Fatalf("unexpected field %q", field)
		}
	case <-time.After(time.Second):
		t.Fatalf("expected debounced re-validation")
	}
	select {
	case <-changed:
		t.Fatalf("expected a single re-validation for a burst of input")
	case <-time.After(60 * time.Millisecond):
	}

	_ = s.View(id, func(form *model.Form) {
		email := form.Field("email")
		if email.HasClass(model.ClassInvalid) || email.Validity != model.ValidityValid {
			t.Fatalf("expected email valid after correction, got %+v", email)
		}
	})
}

func TestSubmit_EndToEnd(t *testing.T) {
	var calls atomic.Int32
	navigated := make(chan string, 1)
	presenter := notify.NewPresenter()
	s := newSession(t, successEndpoint(&calls),
		session.WithPresenter(presenter),
		session.WithRedirect("thank_you.html", 10*time.Millisecond),
		session.WithNavigator(submission.NavigatorFunc(func(dest string) { navigated <- dest })),
	)
	id, _ := s.Bind(newsletterForm())

	result, err := s.Submit(context.Background(), id)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.Disposition != submission.DispositionInvalid {
		t.Fatalf("expected invalid, got %s", result.Disposition)
	}

	if err := s.Input(id, "email", "jane@example.com"); err != nil {
		t.Fatalf("input: %v", err)
	}
	if err := s.Toggle(id, "gdpr", true); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	result, err = s.Submit(context.Background(), id)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !result.Succeeded() {
		t.Fatalf("expected success, got %+v", result)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected one remote call, got %d", calls.Load())
	}

	var got []string
	for _, n := range presenter.Snapshot() {
		got = append(got, n.Message)
	}
	want := []string{validation.DefaultMessages.FormErrors, validation.DefaultMessages.Sent}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("notifications mismatch (-want +got):\n%s", diff)
	}

	select {
	case dest := <-navigated:
		if dest != "thank_you.html" {
			t.Fatalf("unexpected destination %q", dest)
		}
	case <-time.After(time.Second):
		t.Fatalf("expected navigation")
	}
}

func TestSubmit_HoneypotFilledByBot(t *testing.T) {
	var calls atomic.Int32
	s := newSession(t, successEndpoint(&calls))
	id, _ := s.Bind(newsletterForm())

	_ = s.View(id, func(form *model.Form) {
		form.Honeypot().Value = "http://bot.example"
		form.Field("email").Value = "jane@example.com"
		form.Field("gdpr").Checked = true
	})

	result, err := s.Submit(context.Background(), id)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.Disposition != submission.DispositionSpam {
		t.Fatalf("expected spam, got %s", result.Disposition)
	}
	if calls.Load() != 0 || len(s.Presenter().Snapshot()) != 0 {
		t.Fatalf("spam must not post or notify")
	}
}

func TestSubmit_ConcurrentOnSameForm(t *testing.T) {
	var calls atomic.Int32
	entered := make(chan struct{})
	release := make(chan struct{})
	endpoint := submission.EndpointFunc(func(context.Context, submission.Payload) submission.Outcome {
		if calls.Add(1) == 1 {
			close(entered)
		}
		<-release
		return submission.Success()
	})
	s := newSession(t, endpoint, session.WithRedirect("", 0))
	id, _ := s.Bind(newsletterForm())
	_ = s.View(id, func(form *model.Form) {
		form.Field("email").Value = "jane@example.com"
		form.Field("gdpr").Checked = true
	})

	results := make([]submission.Result, 2)
	done := make(chan struct{})
	go func() {
		defer close(done)
		results[0], _ = s.Submit(context.Background(), id)
	}()
	<-entered

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		results[1], _ = s.Submit(context.Background(), id)
	}()
	var seen string
	_ = s.View(id, func(form *model.Form) {
		seen = form.ID
	})
	wg.Wait()
	close(release)
	<-done

	if seen != id {
		t.Fatalf("expected form id %q, got %q", id, seen)
	}

	if calls.Load() != 1 {
		t.Fatalf("expected one remote call, got %d", calls.Load())
	}
	if !results[0].Succeeded() {
		t.Fatalf("expected first submit to succeed, got %+v", results[0])
	}
	if results[1].Disposition != submission.DispositionDuplicate {
		t.Fatalf("expected second submit to be a duplicate, got %s", results[1].Disposition)
	}
	if s.Pipeline().Tracker().Active(id) {
		t.Fatalf("expected tracker released")
	}
}
