package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goliatone/go-formpipe/pkg/model"
	rendertemplate "github.com/goliatone/go-formpipe/pkg/render/template"
)

const (
	// DefaultLifetime is how long a notification stays visible.
	DefaultLifetime = 5000 * time.Millisecond
	// DefaultFade is the delay between hiding a notification and removing it.
	DefaultFade = 150 * time.Millisecond

	ContainerID    = "notification-container"
	containerClass = "position-fixed top-0 end-0 p-3"
	containerStyle = "z-index: 9999"
)

// Notification is a snapshot of one message in the container.
type Notification struct {
	ID        string         `json:"id"`
	Severity  model.Severity `json:"severity"`
	Message   string         `json:"message"`
	Visible   bool           `json:"visible"`
	CreatedAt time.Time      `json:"createdAt"`
}

// Container is the fixed region notifications are appended to.
type Container struct {
	ID    string `json:"id"`
	Class string `json:"class"`
	Style string `json:"style"`
}

// Option configures a Presenter.
type Option func(*Presenter)

// WithLifetime overrides the visible lifetime.
func WithLifetime(d time.Duration) Option {
	return func(p *Presenter) {
		if d > 0 {
			p.lifetime = d
		}
	}
}

// WithFade overrides the fade-out delay before removal.
func WithFade(d time.Duration) Option {
	return func(p *Presenter) {
		if d >= 0 {
			p.fade = d
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) Option {
	return func(p *Presenter) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithTemplateRenderer overrides the engine used by HTML.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(p *Presenter) {
		if renderer != nil {
			p.templates = renderer
		}
	}
}

type entry struct {
	Notification
	timer *time.Timer
}

// Presenter owns the notification container for one page session.
type Presenter struct {
	mu        sync.Mutex
	container *Container
	entries   []*entry
	listeners []func([]Notification)
	closed    bool

	lifetime  time.Duration
	fade      time.Duration
	logger    *zap.Logger
	templates rendertemplate.TemplateRenderer
	now       func() time.Time
}

// NewPresenter constructs a presenter with the default 5s lifetime and 150ms
// fade.
func NewPresenter(options ...Option) *Presenter {
	p := &Presenter{
		lifetime: DefaultLifetime,
		fade:     DefaultFade,
		logger:   zap.NewNop(),
		now:      time.Now,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(p)
	}
	p.logger = p.logger.Named("notify")
	return p
}

// Show appends a message and schedules its removal.
func (p *Presenter) Show(message string, severity model.Severity) {
	p.Push(message, severity)
}

// Push is Show returning the created notification.
func (p *Presenter) Push(message string, severity model.Severity) Notification {
	if severity == "" {
		severity = model.SeverityInfo
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return Notification{}
	}
	if p.container == nil {
		p.container = &Container{
			ID:    ContainerID,
			Class: containerClass,
			Style: containerStyle,
		}
	}
	e := &entry{Notification: Notification{
		ID:        uuid.NewString(),
		Severity:  severity,
		Message:   message,
		Visible:   true,
		CreatedAt: p.now(),
	}}
	p.entries = append(p.entries, e)
	e.timer = time.AfterFunc(p.lifetime, func() { p.hide(e) })
	created := e.Notification
	snapshot, listeners := p.snapshotLocked(), p.listeners
	p.mu.Unlock()

	p.logger.Debug("notification shown",
		zap.String("id", created.ID),
		zap.String("severity", string(severity)),
	)
	emit(listeners, snapshot)
	return created
}

func (p *Presenter) hide(e *entry) {
	p.mu.Lock()
	if p.closed || !p.containsLocked(e) {
		p.mu.Unlock()
		return
	}
	e.Visible = false
	e.timer = time.AfterFunc(p.fade, func() { p.remove(e) })
	snapshot, listeners := p.snapshotLocked(), p.listeners
	p.mu.Unlock()

	emit(listeners, snapshot)
}

func (p *Presenter) remove(e *entry) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	kept := p.entries[:0]
	removed := false
	for _, existing := range p.entries {
		if existing == e {
			removed = true
			continue
		}
		kept = append(kept, existing)
	}
	p.entries = kept
	snapshot, listeners := p.snapshotLocked(), p.listeners
	p.mu.Unlock()

	if removed {
		p.logger.Debug("notification removed", zap.String("id", e.ID))
		emit(listeners, snapshot)
	}
}

// Dismiss hides a notification ahead of its timer, as the close button does.
func (p *Presenter) Dismiss(id string) bool {
	p.mu.Lock()
	var target *entry
	for _, e := range p.entries {
		if e.ID == id {
			target = e
			break
		}
	}
	if target == nil || !target.Visible {
		p.mu.Unlock()
		return false
	}
	if target.timer != nil {
		target.timer.Stop()
	}
	p.mu.Unlock()

	p.hide(target)
	return true
}

// OnChange registers a listener that receives the container contents after
// every change. Listeners run outside the presenter's lock.
func (p *Presenter) OnChange(fn func([]Notification)) {
	if fn == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.listeners = append(p.listeners, fn)
}

// Snapshot returns the notifications currently attached, oldest first.
func (p *Presenter) Snapshot() []Notification {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshotLocked()
}

// Container returns the region, or nil before the first notification.
func (p *Presenter) Container() *Container {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.container == nil {
		return nil
	}
	clone := *p.container
	return &clone
}

// Close stops every pending timer. Notifications already attached stay in
// the snapshot; no further changes happen.
func (p *Presenter) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	for _, e := range p.entries {
		if e.timer != nil {
			e.timer.Stop()
		}
	}
}

func (p *Presenter) containsLocked(target *entry) bool {
	for _, e := range p.entries {
		if e == target {
			return true
		}
	}
	return false
}

func (p *Presenter) snapshotLocked() []Notification {
	if len(p.entries) == 0 {
		return nil
	}
	out := make([]Notification, 0, len(p.entries))
	for _, e := range p.entries {
		out = append(out, e.Notification)
	}
	return out
}

func emit(listeners []func([]Notification), snapshot []Notification) {
	for _, fn := range listeners {
		fn(snapshot)
	}
}
