package model

import (
	"strings"

	"github.com/google/uuid"
)

const formIDPrefix = "form-"

// NewFormID returns an identifier for a form declared without one.
func NewFormID() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return formIDPrefix + raw[:9]
}

// EnsureID assigns a generated identifier when the form has none and returns
// the identifier in use.
func EnsureID(form *Form) string {
	if form == nil {
		return ""
	}
	form.ID = strings.TrimSpace(form.ID)
	if form.ID == "" {
		form.ID = NewFormID()
	}
	return form.ID
}

// EnsureHoneypot appends the hidden spam-trap field when the form does not
// carry one yet. It reports whether a field was added.
func EnsureHoneypot(form *Form) bool {
	if form == nil || form.Honeypot() != nil {
		return false
	}
	form.Fields = append(form.Fields, &Field{
		Name: HoneypotName,
		Type: FieldTypeText,
		Tag:  TagInput,
	})
	return true
}

// SubmittableFields returns the fields that take part in validation, in
// declaration order. The honeypot is never included.
func SubmittableFields(form *Form) []*Field {
	if form == nil {
		return nil
	}
	out := make([]*Field, 0, len(form.Fields))
	for _, field := range form.Fields {
		if field == nil || field.IsHoneypot() {
			continue
		}
		out = append(out, field)
	}
	return out
}
