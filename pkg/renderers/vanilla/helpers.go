package vanilla

import (
	"strings"

	"github.com/goliatone/go-formpipe/pkg/model"
)

func controlID(formID, name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	if formID = strings.TrimSpace(formID); formID == "" {
		return name
	}
	return formID + "-" + name
}

// classList joins base with extra, dropping blanks and repeats.
func classList(base string, extra ...string) string {
	tokens := strings.Fields(base)
	for _, class := range extra {
		tokens = append(tokens, strings.Fields(class)...)
	}
	seen := make(map[string]struct{}, len(tokens))
	keep := tokens[:0]
	for _, token := range tokens {
		if _, ok := seen[token]; ok {
			continue
		}
		seen[token] = struct{}{}
		keep = append(keep, token)
	}
	return strings.Join(keep, " ")
}

// cloneForm copies form deeply enough that rendering options can be applied
// without touching the caller's fields.
func cloneForm(form *model.Form) *model.Form {
	if form == nil {
		return &model.Form{}
	}
	out := *form
	out.Classes = append([]string(nil), form.Classes...)
	out.Fields = make([]*model.Field, 0, len(form.Fields))
	for _, field := range form.Fields {
		if field == nil {
			continue
		}
		copied := *field
		copied.Classes = append([]string(nil), field.Classes...)
		copied.Options = append([]string(nil), field.Options...)
		if field.Feedback != nil {
			feedback := *field.Feedback
			copied.Feedback = &feedback
		}
		out.Fields = append(out.Fields, &copied)
	}
	if form.Submit != nil {
		submit := *form.Submit
		out.Submit = &submit
	}
	return &out
}
