package model

import "strings"

// FieldType mirrors the HTML input type (or the tag for textarea/select).
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeEmail    FieldType = "email"
	FieldTypeTel      FieldType = "tel"
	FieldTypeCheckbox FieldType = "checkbox"
	FieldTypeTextarea FieldType = "textarea"
	FieldTypeSelect   FieldType = "select"
	FieldTypeHidden   FieldType = "hidden"
)

// Tag names the element kind a field was declared with.
type Tag string

const (
	TagInput    Tag = "input"
	TagTextarea Tag = "textarea"
	TagSelect   Tag = "select"
)

// Validity is the derived validation state of a field.
type Validity string

const (
	ValidityUnknown Validity = ""
	ValidityValid   Validity = "valid"
	ValidityInvalid Validity = "invalid"
)

// Severity selects the visual style of a notification.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityDanger  Severity = "danger"
)

const (
	// HoneypotName is the name of the hidden spam-trap input.
	HoneypotName = "website"
	// ClassInvalid marks a field that failed validation.
	ClassInvalid = "is-invalid"
	// ClassWasValidated marks a form whose submit was blocked by validation.
	ClassWasValidated = "was-validated"
	// ClassNeedsValidation selects forms the pipeline binds to.
	ClassNeedsValidation = "needs-validation"
	// ClassFeedback is the class of the element holding a field's message.
	ClassFeedback = "invalid-feedback"

	checkboxDefaultValue = "on"
)

// Feedback is the element rendered next to a field to carry its message. It is
// created on the first validation and reused afterwards.
type Feedback struct {
	Class string `json:"class"`
	Text  string `json:"text"`
}

// Field is a named form control and the UI state the validator owns.
type Field struct {
	Name        string    `json:"name" yaml:"name" toml:"name"`
	Type        FieldType `json:"type" yaml:"type" toml:"type"`
	Tag         Tag       `json:"tag,omitempty" yaml:"tag,omitempty" toml:"tag,omitempty"`
	Label       string    `json:"label,omitempty" yaml:"label,omitempty" toml:"label,omitempty"`
	Placeholder string    `json:"placeholder,omitempty" yaml:"placeholder,omitempty" toml:"placeholder,omitempty"`
	Value       string    `json:"value,omitempty" yaml:"value,omitempty" toml:"value,omitempty"`
	Checked     bool      `json:"checked,omitempty" yaml:"checked,omitempty" toml:"checked,omitempty"`
	Required    bool      `json:"required,omitempty" yaml:"required,omitempty" toml:"required,omitempty"`
	Disabled    bool      `json:"disabled,omitempty" yaml:"disabled,omitempty" toml:"disabled,omitempty"`
	Options     []string  `json:"options,omitempty" yaml:"options,omitempty" toml:"options,omitempty"`

	Validity Validity `json:"validity,omitempty" yaml:"-" toml:"-"`
	Feedback *Feedback `json:"feedback,omitempty" yaml:"-" toml:"-"`
	Classes  []string  `json:"classes,omitempty" yaml:"-" toml:"-"`
}

// IsHoneypot reports whether the field is the spam trap.
func (f *Field) IsHoneypot() bool {
	return f != nil && f.Name == HoneypotName
}

// IsCheckbox reports whether the field is a checkbox input.
func (f *Field) IsCheckbox() bool {
	return f != nil && strings.EqualFold(string(f.Type), string(FieldTypeCheckbox))
}

// IsTextarea reports whether the field was declared as a textarea.
func (f *Field) IsTextarea() bool {
	if f == nil {
		return false
	}
	return f.Tag == TagTextarea || f.Type == FieldTypeTextarea
}

// EffectiveValue returns the value the browser would report for the field.
// Checkboxes without an explicit value carry "on".
func (f *Field) EffectiveValue() string {
	if f == nil {
		return ""
	}
	if f.IsCheckbox() && f.Value == "" {
		return checkboxDefaultValue
	}
	return f.Value
}

// TrimmedValue is EffectiveValue with surrounding whitespace removed.
func (f *Field) TrimmedValue() string {
	return strings.TrimSpace(f.EffectiveValue())
}

// HasClass reports whether class is present on the field.
func (f *Field) HasClass(class string) bool {
	return f != nil && hasClass(f.Classes, class)
}

// AddClass adds class once.
func (f *Field) AddClass(class string) {
	if f == nil {
		return
	}
	f.Classes = addClass(f.Classes, class)
}

// RemoveClass drops every occurrence of class.
func (f *Field) RemoveClass(class string) {
	if f == nil {
		return
	}
	f.Classes = removeClass(f.Classes, class)
}

// SubmitControl is the form's submit button.
type SubmitControl struct {
	Label    string `json:"label" yaml:"label" toml:"label"`
	Disabled bool   `json:"disabled,omitempty" yaml:"-" toml:"-"`
}

// Form is a bound form: identifier, ordered fields and the submit control.
type Form struct {
	ID       string         `json:"id" yaml:"id" toml:"id"`
	Title    string         `json:"title,omitempty" yaml:"title,omitempty" toml:"title,omitempty"`
	Endpoint string         `json:"endpoint,omitempty" yaml:"endpoint,omitempty" toml:"endpoint,omitempty"`
	Method   string         `json:"method,omitempty" yaml:"method,omitempty" toml:"method,omitempty"`
	Fields   []*Field       `json:"fields" yaml:"fields" toml:"fields"`
	Submit   *SubmitControl `json:"submit,omitempty" yaml:"submit,omitempty" toml:"submit,omitempty"`
	Classes  []string       `json:"classes,omitempty" yaml:"-" toml:"-"`
}

// Field returns the last field carrying name, matching how form encoding
// resolves duplicate names.
func (f *Form) Field(name string) *Field {
	if f == nil {
		return nil
	}
	var found *Field
	for _, field := range f.Fields {
		if field != nil && field.Name == name {
			found = field
		}
	}
	return found
}

// Honeypot returns the spam-trap field or nil when the form has none.
func (f *Form) Honeypot() *Field {
	return f.Field(HoneypotName)
}

// HasClass reports whether class is present on the form.
func (f *Form) HasClass(class string) bool {
	return f != nil && hasClass(f.Classes, class)
}

// AddClass adds class once.
func (f *Form) AddClass(class string) {
	if f == nil {
		return
	}
	f.Classes = addClass(f.Classes, class)
}

// RemoveClass drops every occurrence of class.
func (f *Form) RemoveClass(class string) {
	if f == nil {
		return
	}
	f.Classes = removeClass(f.Classes, class)
}

func hasClass(classes []string, class string) bool {
	for _, existing := range classes {
		if existing == class {
			return true
		}
	}
	return false
}

func addClass(classes []string, class string) []string {
	class = strings.TrimSpace(class)
	if class == "" || hasClass(classes, class) {
		return classes
	}
	return append(classes, class)
}

func removeClass(classes []string, class string) []string {
	if len(classes) == 0 {
		return classes
	}
	out := classes[:0]
	for _, existing := range classes {
		if existing != class {
			out = append(out, existing)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
