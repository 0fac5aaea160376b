package tui

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-formpipe/pkg/model"
	"github.com/goliatone/go-formpipe/pkg/render"
	"github.com/goliatone/go-formpipe/pkg/session"
	"github.com/goliatone/go-formpipe/pkg/submission"
	"github.com/goliatone/go-formpipe/pkg/validation"
)

// Message is a notification printed during a run.
type Message struct {
	Severity model.Severity `json:"severity"`
	Text     string         `json:"text"`
}

// Report describes one terminal run of a form.
type Report struct {
	FormID        string             `json:"formId"`
	Valid         bool               `json:"valid"`
	InvalidFields []string           `json:"invalidFields,omitempty"`
	Payload       submission.Payload `json:"payload"`
	Result        *submission.Result `json:"result,omitempty"`
	Messages      []Message          `json:"messages,omitempty"`
}

// Renderer drives a form from a terminal. Every answer is an input event
// followed by a blur event; invalid answers are asked again.
type Renderer struct {
	driver       PromptDriver
	outputFormat OutputFormat
	session      *session.Session
	validator    *validation.Validator
	maxAttempts  int
	theme        Theme
	logger       *zap.Logger
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		outputFormat: OutputFormatJSON,
		maxAttempts:  DefaultMaxAttempts,
		theme:        DefaultTheme,
		logger:       zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.driver == nil {
		r.driver = NewSurveyDriver(nil)
	}
	if r.session != nil {
		r.validator = r.session.Validator()
	} else {
		r.validator = validation.New()
	}
	r.logger = r.logger.Named("tui")
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	if r.outputFormat == OutputFormatPrettyText {
		return "text/plain"
	}
	return "application/json"
}

// Render runs the form interactively and serializes the report.
func (r *Renderer) Render(ctx context.Context, form *model.Form, options render.RenderOptions) ([]byte, error) {
	report, err := r.Run(ctx, form, options)
	if err != nil {
		return nil, err
	}
	if r.outputFormat == OutputFormatPrettyText {
		return prettyReport(report), nil
	}
	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("tui: encode report: %w", err)
	}
	return out, nil
}

// Run prompts every field of form and, when a session is configured, submits
// it. options.Values seed the prompt defaults.
func (r *Renderer) Run(ctx context.Context, form *model.Form, options render.RenderOptions) (Report, error) {
	if ctx == nil {
		return Report{}, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return Report{}, err
	}
	if form == nil {
		return Report{}, ErrNilForm
	}

	id, err := r.bind(form)
	if err != nil {
		return Report{}, err
	}
	seedValues(form, options.Values)

	for _, field := range promptable(form) {
		if err := r.ask(ctx, id, field); err != nil {
			return Report{}, err
		}
	}

	report := Report{FormID: id}
	if r.session == nil {
		report.Valid, report.InvalidFields = r.validator.ValidateAll(form)
		if !report.Valid {
			r.say(ctx, &report, model.SeverityDanger, r.validator.Messages().FormErrors)
		}
		report.Payload = submission.BuildPayload(form)
		return report, nil
	}

	seen := make(map[string]struct{})
	for _, n := range r.session.Presenter().Snapshot() {
		seen[n.ID] = struct{}{}
	}
	result, err := r.session.Submit(ctx, id)
	if err != nil {
		return Report{}, err
	}
	report.Result = &result
	report.Valid = result.Disposition != submission.DispositionInvalid
	report.InvalidFields = result.InvalidFields
	for _, n := range r.session.Presenter().Snapshot() {
		if _, ok := seen[n.ID]; ok {
			continue
		}
		r.say(ctx, &report, n.Severity, n.Message)
	}
	_ = r.session.View(id, func(f *model.Form) {
		report.Payload = submission.BuildPayload(f)
	})
	r.logger.Debug("form run finished",
		zap.String("form", id),
		zap.String("disposition", string(result.Disposition)),
	)
	return report, nil
}

func (r *Renderer) bind(form *model.Form) (string, error) {
	if r.session == nil {
		model.EnsureHoneypot(form)
		return model.EnsureID(form), nil
	}
	id, err := r.session.Bind(form)
	if errors.Is(err, session.ErrFormBound) {
		return form.ID, nil
	}
	return id, err
}

func (r *Renderer) ask(ctx context.Context, id string, field *model.Field) error {
	for attempt := 1; ; attempt++ {
		value, checked, err := r.prompt(ctx, field)
		if err != nil {
			return err
		}
		valid, message, err := r.answer(id, field, value, checked)
		if err != nil {
			return err
		}
		if valid {
			return nil
		}
		if err := r.driver.Info(ctx, r.theme.ErrorPrefix+message); err != nil {
			return err
		}
		if attempt >= r.maxAttempts {
			r.logger.Debug("giving up on field", zap.String("field", field.Name), zap.Int("attempts", attempt))
			return nil
		}
	}
}

func (r *Renderer) prompt(ctx context.Context, field *model.Field) (string, bool, error) {
	message := promptLabel(field)
	check := r.checker(field)

	switch {
	case field.IsCheckbox():
		checked, err := r.driver.Confirm(ctx, ConfirmConfig{Message: message, Default: field.Checked})
		return "", checked, err
	case len(field.Options) > 0:
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      message,
			Options:      field.Options,
			DefaultIndex: indexOf(field.Options, field.Value),
		})
		if err != nil {
			return "", false, err
		}
		if idx < 0 || idx >= len(field.Options) {
			return "", false, nil
		}
		return field.Options[idx], false, nil
	case field.IsTextarea():
		value, err := r.driver.TextArea(ctx, TextAreaConfig{Message: message, Default: field.Value, Validator: check})
		return value, false, err
	default:
		value, err := r.driver.Input(ctx, InputConfig{
			Message:   message,
			Default:   field.Value,
			Help:      field.Placeholder,
			Validator: check,
		})
		return value, false, err
	}
}

// answer delivers the input and blur events for one prompt.
func (r *Renderer) answer(id string, field *model.Field, value string, checked bool) (bool, string, error) {
	if r.session == nil {
		if field.IsCheckbox() {
			field.Checked = checked
		} else {
			field.Value = value
		}
		valid, message := r.validator.Validate(field)
		return valid, message, nil
	}

	var err error
	if field.IsCheckbox() {
		err = r.session.Toggle(id, field.Name, checked)
	} else {
		err = r.session.Input(id, field.Name, value)
	}
	if err != nil {
		return false, "", err
	}
	return r.session.Blur(id, field.Name)
}

// checker adapts the validator verdict for a candidate answer into a prompt
// validator.
func (r *Renderer) checker(field *model.Field) func(string) error {
	return func(value string) error {
		candidate := model.Field{
			Name:     field.Name,
			Type:     field.Type,
			Tag:      field.Tag,
			Required: field.Required,
			Value:    value,
		}
		if ok, message := r.validator.Check(&candidate); !ok {
			return errors.New(message)
		}
		return nil
	}
}

func (r *Renderer) say(ctx context.Context, report *Report, severity model.Severity, text string) {
	report.Messages = append(report.Messages, Message{Severity: severity, Text: text})
	prefix := r.theme.InfoPrefix
	switch severity {
	case model.SeveritySuccess:
		prefix = r.theme.SuccessPrefix
	case model.SeverityDanger:
		prefix = r.theme.ErrorPrefix
	}
	if err := r.driver.Info(ctx, prefix+text); err != nil {
		r.logger.Warn("print notification", zap.Error(err))
	}
}

func promptable(form *model.Form) []*model.Field {
	var out []*model.Field
	for _, field := range model.SubmittableFields(form) {
		if field.Disabled || field.Type == model.FieldTypeHidden || field.Name == "" {
			continue
		}
		out = append(out, field)
	}
	return out
}

func seedValues(form *model.Form, values map[string]string) {
	for name, value := range values {
		field := form.Field(name)
		if field == nil || field.IsHoneypot() {
			continue
		}
		if field.IsCheckbox() {
			field.Checked = value != ""
			continue
		}
		field.Value = value
	}
}

func promptLabel(field *model.Field) string {
	label := strings.TrimSpace(field.Label)
	if label == "" {
		label = field.Name
	}
	if field.Required {
		label += " *"
	}
	return label
}

func prettyReport(report Report) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "Form %s\n", report.FormID)

	names := make([]string, 0, len(report.Payload))
	for name := range report.Payload {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&b, "  %s: %s\n", name, report.Payload[name])
	}

	if len(report.InvalidFields) > 0 {
		fmt.Fprintf(&b, "Invalid: %s\n", strings.Join(report.InvalidFields, ", "))
	}
	if report.Result != nil {
		status := string(report.Result.Disposition)
		if report.Result.Submitted() {
			status += " (" + string(report.Result.Outcome.Kind) + ")"
		}
		fmt.Fprintf(&b, "Result: %s\n", status)
	}
	for _, m := range report.Messages {
		fmt.Fprintf(&b, "[%s] %s\n", m.Severity, m.Text)
	}
	return b.Bytes()
}

func indexOf(options []string, value string) int {
	for i, option := range options {
		if option == value {
			return i
		}
	}
	return -1
}
