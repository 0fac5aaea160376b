package submission

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-formpipe/pkg/model"
	"github.com/goliatone/go-formpipe/pkg/validation"
	"go.uber.org/zap"
)

// DefaultRedirectDelay is how long a success notification stays on screen
// before navigation.
const DefaultRedirectDelay = time.Second

// State is the phase a form is in while a submit event is handled.
type State int

const (
	StateIdle State = iota
	StateValidating
	StateLocked
	StateSubmitting
	StateSettling
)

var stateNames = [...]string{
	StateIdle:       "idle",
	StateValidating: "validating",
	StateLocked:     "locked",
	StateSubmitting: "submitting",
	StateSettling:   "settling",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("state(%d)", int(s))
	}
	return stateNames[s]
}

// StateHook observes state transitions of a form.
type StateHook func(formID string, state State)

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithTracker shares a tracker between pipelines.
func WithTracker(tracker *Tracker) Option {
	return func(p *Pipeline) {
		if tracker != nil {
			p.tracker = tracker
		}
	}
}

// WithValidator overrides the field validator.
func WithValidator(validator *validation.Validator) Option {
	return func(p *Pipeline) {
		if validator != nil {
			p.validator = validator
		}
	}
}

// WithNotifier routes user feedback to notifier.
func WithNotifier(notifier Notifier) Option {
	return func(p *Pipeline) {
		if notifier != nil {
			p.notifier = notifier
		}
	}
}

// WithEndpoint sets the remote endpoint. It is required.
func WithEndpoint(endpoint Endpoint) Option {
	return func(p *Pipeline) {
		p.endpoint = endpoint
	}
}

// WithNavigator sets where successful submissions navigate.
func WithNavigator(navigator Navigator) Option {
	return func(p *Pipeline) {
		if navigator != nil {
			p.navigator = navigator
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithRedirect overrides the destination and delay used after success. An
// empty destination disables navigation.
func WithRedirect(destination string, delay time.Duration) Option {
	return func(p *Pipeline) {
		p.redirect = destination
		if delay >= 0 {
			p.redirectDelay = delay
		}
	}
}

// WithStateHook registers a transition observer.
func WithStateHook(hook StateHook) Option {
	return func(p *Pipeline) {
		p.hook = hook
	}
}

// WithFormLock supplies the lock guarding a form's fields. The pipeline holds
// it while it reads or mutates the form and releases it for the remote call.
func WithFormLock(lock func(formID string) sync.Locker) Option {
	return func(p *Pipeline) {
		p.formLock = lock
	}
}

// Pipeline runs submit events for bound forms.
type Pipeline struct {
	tracker       *Tracker
	validator     *validation.Validator
	notifier      Notifier
	endpoint      Endpoint
	navigator     Navigator
	logger        *zap.Logger
	redirect      string
	redirectDelay time.Duration
	hook          StateHook
	formLock      func(formID string) sync.Locker

	mu     sync.Mutex
	timers map[*time.Timer]struct{}
	closed bool
}

// New builds a pipeline. WithEndpoint is required.
func New(options ...Option) (*Pipeline, error) {
	p := &Pipeline{
		tracker:       NewTracker(),
		validator:     validation.New(),
		notifier:      nopNotifier{},
		logger:        zap.NewNop(),
		redirect:      DefaultRedirect,
		redirectDelay: DefaultRedirectDelay,
		timers:        make(map[*time.Timer]struct{}),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(p)
	}
	if p.endpoint == nil {
		return nil, ErrEndpointRequired
	}
	p.logger = p.logger.Named("pipeline")
	if p.navigator == nil {
		p.navigator = LogNavigator{Logger: p.logger}
	}
	return p, nil
}

// Tracker exposes the re-entrancy guard.
func (p *Pipeline) Tracker() *Tracker {
	return p.tracker
}

// Validator exposes the field validator.
func (p *Pipeline) Validator() *validation.Validator {
	return p.validator
}

// Submit handles one submit event for form, assigning an id first when the
// form has none. It never returns an error: the disposition and, for submitted
// forms, the outcome describe what happened.
func (p *Pipeline) Submit(ctx context.Context, form *model.Form) Result {
	if form == nil {
		return Result{Disposition: DispositionInvalid}
	}
	return p.SubmitID(ctx, model.EnsureID(form), form)
}

// SubmitID is Submit for a form whose id was assigned when it was bound. The
// form is only touched while the form lock is held, so concurrent calls for
// the same id are safe.
func (p *Pipeline) SubmitID(ctx context.Context, id string, form *model.Form) (result Result) {
	if ctx == nil {
		ctx = context.Background()
	}
	id = strings.TrimSpace(id)
	if form == nil || id == "" {
		return Result{FormID: id, Disposition: DispositionInvalid}
	}

	result.FormID = id
	defer func() { observeResult(result) }()

	if !p.tracker.TryBegin(id) {
		p.logger.Debug("submission already active", zap.String("form", id))
		result.Disposition = DispositionDuplicate
		return result
	}
	defer func() {
		p.tracker.End(id)
		p.transition(id, StateIdle)
	}()

	p.transition(id, StateValidating)
	unlock := p.lock(id)

	if honeypot := form.Honeypot(); honeypot != nil && honeypot.Value != "" {
		unlock()
		p.logger.Warn("spam detected", zap.String("form", id))
		result.Disposition = DispositionSpam
		return result
	}

	messages := p.validator.Messages()
	valid, invalid := p.validator.ValidateAll(form)
	if !valid {
		form.AddClass(model.ClassWasValidated)
		unlock()
		p.notifier.Show(messages.FormErrors, model.SeverityDanger)
		result.Disposition = DispositionInvalid
		result.InvalidFields = invalid
		return result
	}

	p.transition(id, StateLocked)
	restore := lockSubmit(form.Submit, messages.Sending)
	payload := BuildPayload(form)
	unlock()
	defer func() {
		unlock := p.lock(id)
		restore()
		unlock()
	}()

	p.transition(id, StateSubmitting)
	outcome := p.call(ctx, id, payload)

	p.transition(id, StateSettling)
	p.settle(id, outcome, messages)

	result.Disposition = DispositionSubmitted
	result.Outcome = outcome
	return result
}

func (p *Pipeline) call(ctx context.Context, id string, payload Payload) (outcome Outcome) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("endpoint panicked", zap.String("form", id), zap.Any("panic", r))
			outcome = NetworkFailure(fmt.Errorf("endpoint panic: %v", r))
		}
		endpointDuration.WithLabelValues(string(outcome.Kind)).Observe(time.Since(start).Seconds())
	}()

	outcome = p.endpoint.Submit(ctx, payload)
	switch outcome.Kind {
	case OutcomeSuccess, OutcomeBusinessFailure, OutcomeNetworkFailure:
	default:
		outcome = BusinessFailure(outcome.Message)
	}
	return outcome
}

func (p *Pipeline) settle(id string, outcome Outcome, messages validation.Messages) {
	switch outcome.Kind {
	case OutcomeSuccess:
		p.notifier.Show(messages.Sent, model.SeveritySuccess)
		p.scheduleRedirect(id)
	case OutcomeNetworkFailure:
		p.logger.Error("submission failed", zap.String("form", id), zap.Error(outcome.Err))
		p.notifier.Show(messages.ConnectionError, model.SeverityDanger)
	default:
		message := outcome.Message
		if message == "" {
			message = messages.SendFailed
		}
		p.logger.Info("submission rejected", zap.String("form", id), zap.String("message", outcome.Message))
		p.notifier.Show(message, model.SeverityDanger)
	}
}

func (p *Pipeline) scheduleRedirect(id string) {
	destination := p.redirect
	if destination == "" {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}

	var timer *time.Timer
	timer = time.AfterFunc(p.redirectDelay, func() {
		p.mu.Lock()
		_, pending := p.timers[timer]
		delete(p.timers, timer)
		p.mu.Unlock()
		if !pending {
			return
		}
		p.logger.Debug("redirecting", zap.String("form", id), zap.String("destination", destination))
		p.navigator.Navigate(destination)
	})
	p.timers[timer] = struct{}{}
}

// PendingRedirects reports how many navigations are scheduled.
func (p *Pipeline) PendingRedirects() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.timers)
}

// Close cancels scheduled navigations. Submissions after Close still run but
// never navigate.
func (p *Pipeline) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	for timer := range p.timers {
		timer.Stop()
		delete(p.timers, timer)
	}
}

func (p *Pipeline) transition(id string, state State) {
	if p.hook != nil {
		p.hook(id, state)
	}
}

func (p *Pipeline) lock(id string) func() {
	if p.formLock == nil {
		return func() {}
	}
	locker := p.formLock(id)
	if locker == nil {
		return func() {}
	}
	locker.Lock()
	var once sync.Once
	return func() { once.Do(locker.Unlock) }
}

// lockSubmit disables the control and swaps in the loading label. The
// returned func restores both.
func lockSubmit(control *model.SubmitControl, loading string) func() {
	if control == nil {
		return func() {}
	}
	label, disabled := control.Label, control.Disabled
	control.Disabled = true
	if loading != "" {
		control.Label = loading
	}
	return func() {
		control.Label = label
		control.Disabled = disabled
	}
}
