package vanilla

// Chrome is the set of CSS classes the templates put on wrapper elements and
// controls. The defaults follow Bootstrap 5.
type Chrome struct {
	Group    string `json:"group"`
	Label    string `json:"label"`
	Control  string `json:"control"`
	Select   string `json:"select"`
	Check    string `json:"check"`
	CheckBox string `json:"checkBox"`
	Header   string `json:"header"`
	Errors   string `json:"errors"`
	Actions  string `json:"actions"`
	Button   string `json:"button"`
}

// DefaultChrome is applied when WithChrome is not used.
var DefaultChrome = Chrome{
	Group:    "mb-3",
	Label:    "form-label",
	Control:  "form-control",
	Select:   "form-select",
	Check:    "form-check mb-3",
	CheckBox: "form-check-input",
	Header:   "h4 mb-3",
	Errors:   "alert alert-danger",
	Actions:  "d-grid",
	Button:   "btn btn-primary",
}

func (c Chrome) merge(fallback Chrome) Chrome {
	pick := func(v, def string) string {
		if v == "" {
			return def
		}
		return v
	}
	return Chrome{
		Group:    pick(c.Group, fallback.Group),
		Label:    pick(c.Label, fallback.Label),
		Control:  pick(c.Control, fallback.Control),
		Select:   pick(c.Select, fallback.Select),
		Check:    pick(c.Check, fallback.Check),
		CheckBox: pick(c.CheckBox, fallback.CheckBox),
		Header:   pick(c.Header, fallback.Header),
		Errors:   pick(c.Errors, fallback.Errors),
		Actions:  pick(c.Actions, fallback.Actions),
		Button:   pick(c.Button, fallback.Button),
	}
}
