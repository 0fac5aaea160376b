package session

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-formpipe/pkg/debounce"
	"github.com/goliatone/go-formpipe/pkg/model"
	"github.com/goliatone/go-formpipe/pkg/notify"
	"github.com/goliatone/go-formpipe/pkg/submission"
	"github.com/goliatone/go-formpipe/pkg/validation"
)

// DefaultInputDebounce is the quiet period before an invalid field is
// re-validated while the user types.
const DefaultInputDebounce = 300 * time.Millisecond

// Option configures a Session.
type Option func(*Session)

// WithValidator overrides the field validator.
func WithValidator(validator *validation.Validator) Option {
	return func(s *Session) {
		if validator != nil {
			s.validator = validator
		}
	}
}

// WithPresenter overrides the notification presenter.
func WithPresenter(presenter *notify.Presenter) Option {
	return func(s *Session) {
		if presenter != nil {
			s.presenter = presenter
		}
	}
}

// WithTracker shares a submission tracker.
func WithTracker(tracker *submission.Tracker) Option {
	return func(s *Session) {
		if tracker != nil {
			s.tracker = tracker
		}
	}
}

// WithNavigator sets the navigator used after successful submissions.
func WithNavigator(navigator submission.Navigator) Option {
	return func(s *Session) {
		s.navigator = navigator
	}
}

// WithRedirect sets the post-success destination and delay.
func WithRedirect(destination string, delay time.Duration) Option {
	return func(s *Session) {
		s.redirect = &redirect{destination: destination, delay: delay}
	}
}

// WithInputDebounce overrides the input re-validation delay.
func WithInputDebounce(wait time.Duration) Option {
	return func(s *Session) {
		if wait >= 0 {
			s.inputWait = wait
		}
	}
}

// WithChangeHook is called after a field is re-validated outside of an
// explicit event, so front-ends can redraw.
func WithChangeHook(hook func(formID, field string)) Option {
	return func(s *Session) {
		s.onChange = hook
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithStateHook forwards pipeline state transitions.
func WithStateHook(hook submission.StateHook) Option {
	return func(s *Session) {
		s.stateHook = hook
	}
}

type redirect struct {
	destination string
	delay       time.Duration
}

type binding struct {
	mu         sync.Mutex
	form       *model.Form
	debouncers map[*model.Field]*debounce.Debouncer
}

// Session is the context object of one page session.
type Session struct {
	validator *validation.Validator
	presenter *notify.Presenter
	tracker   *submission.Tracker
	navigator submission.Navigator
	redirect  *redirect
	inputWait time.Duration
	onChange  func(formID, field string)
	stateHook submission.StateHook
	logger    *zap.Logger
	pipeline  *submission.Pipeline

	mu    sync.RWMutex
	forms map[string]*binding
}

// New builds a session submitting through endpoint.
func New(endpoint submission.Endpoint, options ...Option) (*Session, error) {
	s := &Session{
		validator: validation.New(),
		tracker:   submission.NewTracker(),
		inputWait: DefaultInputDebounce,
		logger:    zap.NewNop(),
		forms:     make(map[string]*binding),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	s.logger = s.logger.Named("session")
	if s.presenter == nil {
		s.presenter = notify.NewPresenter(notify.WithLogger(s.logger))
	}

	pipelineOptions := []submission.Option{
		submission.WithEndpoint(endpoint),
		submission.WithTracker(s.tracker),
		submission.WithValidator(s.validator),
		submission.WithNotifier(s.presenter),
		submission.WithNavigator(s.navigator),
		submission.WithLogger(s.logger),
		submission.WithStateHook(s.stateHook),
		submission.WithFormLock(s.formLock),
	}
	if s.redirect != nil {
		pipelineOptions = append(pipelineOptions, submission.WithRedirect(s.redirect.destination, s.redirect.delay))
	}
	pipeline, err := submission.New(pipelineOptions...)
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	s.pipeline = pipeline
	return s, nil
}

// Presenter returns the session's notification presenter.
func (s *Session) Presenter() *notify.Presenter {
	return s.presenter
}

// Validator returns the session's validator.
func (s *Session) Validator() *validation.Validator {
	return s.validator
}

// Pipeline returns the submission pipeline.
func (s *Session) Pipeline() *submission.Pipeline {
	return s.pipeline
}

// Bind registers form, assigning an id and injecting the honeypot when they
// are missing. It returns the form id.
func (s *Session) Bind(form *model.Form) (string, error) {
	if form == nil {
		return "", ErrNilForm
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := model.EnsureID(form)
	if _, exists := s.forms[id]; exists {
		return "", fmt.Errorf("%w: %s", ErrFormBound, id)
	}
	model.EnsureHoneypot(form)
	s.forms[id] = &binding{
		form:       form,
		debouncers: make(map[*model.Field]*debounce.Debouncer),
	}
	s.logger.Debug("form bound", zap.String("form", id), zap.Int("fields", len(form.Fields)))
	return id, nil
}

// FormIDs lists bound form ids in sorted order.
func (s *Session) FormIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.forms))
	for id := range s.forms {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// View runs fn with exclusive access to the bound form.
func (s *Session) View(formID string, fn func(form *model.Form)) error {
	b, err := s.binding(formID)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	fn(b.form)
	return nil
}

// Blur validates the named field and reports its verdict.
func (s *Session) Blur(formID, fieldName string) (bool, string, error) {
	b, err := s.binding(formID)
	if err != nil {
		return false, "", err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	field, err := eventField(b.form, fieldName)
	if err != nil {
		return false, "", err
	}
	valid, message := s.validator.Validate(field)
	return valid, message, nil
}

// Input stores value on the named field. If the field is still invalid once
// the input debounce elapses it is validated again.
func (s *Session) Input(formID, fieldName, value string) error {
	return s.change(formID, fieldName, func(field *model.Field) {
		field.Value = value
	})
}

// Toggle sets the checked state of the named checkbox, with the same
// re-validation rule as Input.
func (s *Session) Toggle(formID, fieldName string, checked bool) error {
	return s.change(formID, fieldName, func(field *model.Field) {
		field.Checked = checked
	})
}

func (s *Session) change(formID, fieldName string, apply func(*model.Field)) error {
	b, err := s.binding(formID)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	field, err := eventField(b.form, fieldName)
	if err != nil {
		return err
	}
	apply(field)

	d, ok := b.debouncers[field]
	if !ok {
		d = debounce.New(s.inputWait)
		b.debouncers[field] = d
	}
	d.Debounce(func() { s.revalidate(formID, b, field) })
	return nil
}

func (s *Session) revalidate(formID string, b *binding, field *model.Field) {
	b.mu.Lock()
	if !field.HasClass(model.ClassInvalid) {
		b.mu.Unlock()
		return
	}
	s.validator.Validate(field)
	b.mu.Unlock()

	if s.onChange != nil {
		s.onChange(formID, field.Name)
	}
}

// Submit runs the submission pipeline for the bound form.
func (s *Session) Submit(ctx context.Context, formID string) (submission.Result, error) {
	b, err := s.binding(formID)
	if err != nil {
		return submission.Result{}, err
	}
	return s.pipeline.SubmitID(ctx, formID, b.form), nil
}

// Close stops pending input debounces, notification timers and redirects.
func (s *Session) Close() {
	s.mu.RLock()
	bindings := make([]*binding, 0, len(s.forms))
	for _, b := range s.forms {
		bindings = append(bindings, b)
	}
	s.mu.RUnlock()

	for _, b := range bindings {
		b.mu.Lock()
		for _, d := range b.debouncers {
			d.Cancel()
		}
		b.mu.Unlock()
	}
	s.pipeline.Close()
	s.presenter.Close()
}

func (s *Session) binding(formID string) (*binding, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.forms[formID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownForm, formID)
	}
	return b, nil
}

func (s *Session) formLock(formID string) sync.Locker {
	b, err := s.binding(formID)
	if err != nil {
		return nil
	}
	return &b.mu
}

// eventField resolves the target of a UI event. The honeypot never receives
// events from the session.
func eventField(form *model.Form, name string) (*model.Field, error) {
	field := form.Field(name)
	if field == nil || field.IsHoneypot() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	return field, nil
}
