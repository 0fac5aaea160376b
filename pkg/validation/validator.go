package validation

import (
	"github.com/goliatone/go-formpipe/pkg/model"
)

// Option configures a Validator.
type Option func(*Validator)

// WithMessages replaces the message table. Empty entries fall back to
// DefaultMessages.
func WithMessages(messages Messages) Option {
	return func(v *Validator) {
		v.messages = messages.Merge(DefaultMessages)
	}
}

// WithRule registers or replaces the rule used for role.
func WithRule(role model.Role, rule Rule) Option {
	return func(v *Validator) {
		if rule.Match == nil {
			delete(v.rules, role)
			return
		}
		v.rules[role] = rule
	}
}

// Validator checks fields against the role rule table and reflects the
// verdict onto the field's UI state.
type Validator struct {
	rules    RuleSet
	messages Messages
}

// New returns a Validator using DefaultRules and DefaultMessages unless
// overridden.
func New(options ...Option) *Validator {
	v := &Validator{
		rules:    DefaultRules(),
		messages: DefaultMessages,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(v)
	}
	return v
}

// Messages exposes the active message table.
func (v *Validator) Messages() Messages {
	return v.messages
}

// Check computes the verdict for field without touching it. A required field
// with an empty value is invalid regardless of its role; a required checkbox
// must be checked.
func (v *Validator) Check(field *model.Field) (bool, string) {
	if field == nil {
		return true, ""
	}

	valid := true
	message := ""
	value := field.TrimmedValue()

	if field.Required && value == "" {
		valid = false
		message = v.messages.Required
	} else if value != "" {
		if rule, ok := v.rules[model.ClassifyRole(field)]; ok && rule.Match != nil && !rule.Match(value) {
			valid = false
			if rule.Message != nil {
				message = rule.Message(v.messages)
			}
		}
	}

	if field.IsCheckbox() && field.Required && !field.Checked {
		valid = false
		message = v.messages.MustAgree
	}

	return valid, message
}

// Validate runs Check and applies the verdict: the field's validity and
// `is-invalid` class are toggled and its feedback element, created on first
// use, carries the message or is cleared.
func (v *Validator) Validate(field *model.Field) (bool, string) {
	valid, message := v.Check(field)
	if field == nil {
		return valid, message
	}

	if field.Feedback == nil {
		field.Feedback = &model.Feedback{Class: model.ClassFeedback}
	}

	if valid {
		field.Validity = model.ValidityValid
		field.RemoveClass(model.ClassInvalid)
		field.Feedback.Text = ""
	} else {
		field.Validity = model.ValidityInvalid
		field.AddClass(model.ClassInvalid)
		field.Feedback.Text = message
	}
	return valid, message
}

// ValidateAll validates every submittable field of form, in order, and
// returns the names of the fields that failed.
func (v *Validator) ValidateAll(form *model.Form) (bool, []string) {
	var invalid []string
	for _, field := range model.SubmittableFields(form) {
		if ok, _ := v.Validate(field); !ok {
			invalid = append(invalid, field.Name)
		}
	}
	return len(invalid) == 0, invalid
}
