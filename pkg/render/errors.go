package render

import (
	"sort"
	"strings"

	"github.com/goliatone/go-formpipe/pkg/model"
)

// ErrorMapping splits externally supplied feedback into field level and form
// level messages.
type ErrorMapping struct {
	Fields map[string][]string
	Form   []string
}

// MergeFormErrors concatenates form level messages, trimming whitespace and
// dropping duplicates while preserving order.
func MergeFormErrors(existing []string, extras ...string) []string {
	combined := make([]string, 0, len(existing)+len(extras))
	combined = append(combined, existing...)
	combined = append(combined, extras...)
	return normalizeMessages(combined)
}

// MapErrors assigns each entry of errs to a field of form by name. Names that
// match no submittable field become form level messages.
func MapErrors(form *model.Form, errs map[string][]string) ErrorMapping {
	mapping := ErrorMapping{}
	if len(errs) == 0 {
		return mapping
	}

	names := make([]string, 0, len(errs))
	for name := range errs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		messages := normalizeMessages(errs[name])
		if len(messages) == 0 {
			continue
		}
		field := form.Field(strings.TrimSpace(name))
		if field == nil || field.IsHoneypot() {
			mapping.Form = append(mapping.Form, messages...)
			continue
		}
		if mapping.Fields == nil {
			mapping.Fields = make(map[string][]string)
		}
		mapping.Fields[field.Name] = append(mapping.Fields[field.Name], messages...)
	}
	mapping.Form = MergeFormErrors(mapping.Form)
	return mapping
}

// ApplyErrors marks the fields named in mapping invalid with the first
// message as their feedback, the same state the validator leaves behind.
func ApplyErrors(form *model.Form, mapping ErrorMapping) {
	for name, messages := range mapping.Fields {
		field := form.Field(name)
		if field == nil || len(messages) == 0 {
			continue
		}
		field.Validity = model.ValidityInvalid
		field.AddClass(model.ClassInvalid)
		if field.Feedback == nil {
			field.Feedback = &model.Feedback{Class: model.ClassFeedback}
		}
		field.Feedback.Text = messages[0]
	}
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}

	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))

	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
