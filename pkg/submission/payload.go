package submission

import (
	"github.com/goliatone/go-formpipe/pkg/model"
)

// Payload is the flat field name to value mapping sent to the endpoint.
type Payload map[string]string

// BuildPayload serialises form the way browser form encoding does: disabled
// and unnamed controls are skipped, unchecked checkboxes are omitted and a
// later field wins over an earlier one with the same name. The honeypot is
// never included.
func BuildPayload(form *model.Form) Payload {
	payload := Payload{}
	for _, field := range model.SubmittableFields(form) {
		if field.Name == "" || field.Disabled {
			continue
		}
		if field.IsCheckbox() && !field.Checked {
			continue
		}
		payload[field.Name] = field.EffectiveValue()
	}
	return payload
}
