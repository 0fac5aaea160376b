package model

import internalmodel "github.com/goliatone/go-formpipe/internal/model"

// ClassifyRole reports the validation role of a field.
func ClassifyRole(field *Field) Role {
	return internalmodel.ClassifyRole(field)
}

// NewFormID generates an identifier of the form "form-xxxxxxxxx".
func NewFormID() string {
	return internalmodel.NewFormID()
}

// EnsureID assigns a generated identifier when the form has none.
func EnsureID(form *Form) string {
	return internalmodel.EnsureID(form)
}

// EnsureHoneypot appends the hidden spam-trap field when missing.
func EnsureHoneypot(form *Form) bool {
	return internalmodel.EnsureHoneypot(form)
}

// SubmittableFields returns every non-honeypot field in declaration order.
func SubmittableFields(form *Form) []*Field {
	return internalmodel.SubmittableFields(form)
}

// LabelFor derives a display label from a field name.
func LabelFor(name string) string {
	return internalmodel.LabelFor(name)
}
