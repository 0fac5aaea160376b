package render

// RenderOptions carry per-request data renderers apply on top of the form
// without mutating it.
type RenderOptions struct {
	// Action overrides the form's endpoint attribute.
	Action string
	// Values pre-populates controls by field name.
	Values map[string]string
	// Errors surfaces feedback computed elsewhere, keyed by field name. Unknown
	// names are shown as form level errors.
	Errors map[string][]string
	// FormErrors are form level messages shown above the fields, after any
	// unmatched entries of Errors.
	FormErrors []string
	// Hidden adds hidden inputs rendered before the visible fields.
	Hidden map[string]string
	// Notifications is pre-rendered notification container markup.
	Notifications string
}
