package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/goliatone/go-formpipe/pkg/model"
)

// CSRFFieldName is the conventional name of the CSRF hidden input.
const CSRFFieldName = "_csrf"

// HiddenField is a hidden input emitted ahead of the visible fields. It is
// sent with the payload of a rendered page but never validated.
type HiddenField struct {
	Name  string
	Value string
}

// Hidden builds a HiddenField, formatting value with fmt.Sprint.
func Hidden(name string, value any) HiddenField {
	return HiddenField{Name: strings.TrimSpace(name), Value: fmt.Sprint(value)}
}

// CSRFToken builds the hidden field carrying token under name, or under
// CSRFFieldName when name is empty.
func CSRFToken(name, token string) HiddenField {
	if strings.TrimSpace(name) == "" {
		name = CSRFFieldName
	}
	return Hidden(name, token)
}

// MergeHiddenFields copies base and applies fields over it, later entries
// winning. Blank names are dropped. The result is nil when nothing remains.
func MergeHiddenFields(base map[string]string, fields ...HiddenField) map[string]string {
	merged := map[string]string{}
	for name, value := range base {
		setHidden(merged, name, value)
	}
	for _, field := range fields {
		setHidden(merged, field.Name, field.Value)
	}
	if len(merged) == 0 {
		return nil
	}
	return merged
}

// SortedHiddenFields lists fields by name. The honeypot name is never a
// hidden field and is skipped along with blank names.
func SortedHiddenFields(fields map[string]string) []HiddenField {
	var out []HiddenField
	for name, value := range MergeHiddenFields(fields) {
		if name == model.HoneypotName {
			continue
		}
		out = append(out, HiddenField{Name: name, Value: value})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func setHidden(into map[string]string, name, value string) {
	if name = strings.TrimSpace(name); name != "" {
		into[name] = value
	}
}
