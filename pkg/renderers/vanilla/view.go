package vanilla

import (
	"strings"

	"github.com/goliatone/go-formpipe/pkg/dom"
	"github.com/goliatone/go-formpipe/pkg/model"
	"github.com/goliatone/go-formpipe/pkg/render"
)

type optionView struct {
	Value    string `json:"value"`
	Selected bool   `json:"selected"`
}

type fieldView struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Type        string       `json:"type"`
	Tag         string       `json:"tag"`
	Label       string       `json:"label"`
	Placeholder string       `json:"placeholder"`
	Value       string       `json:"value"`
	Checked     bool         `json:"checked"`
	Required    bool         `json:"required"`
	Disabled    bool         `json:"disabled"`
	Options     []optionView `json:"options"`
	Classes     string       `json:"classes"`
	Feedback    string       `json:"feedback"`
	Honeypot    bool         `json:"honeypot"`
	Style       string       `json:"style"`
}

type formView struct {
	ID      string               `json:"id"`
	Title   string               `json:"title"`
	Action  string               `json:"action"`
	Method  string               `json:"method"`
	Classes string               `json:"classes"`
	Errors  []string             `json:"errors"`
	Hidden  []render.HiddenField `json:"hidden"`
	Fields  []fieldView          `json:"fields"`
	Submit  *model.SubmitControl `json:"submit"`
}

func (r *Renderer) formView(source *model.Form, options render.RenderOptions) formView {
	form := cloneForm(source)
	model.EnsureHoneypot(form)

	for name, value := range options.Values {
		if field := form.Field(name); field != nil && !field.IsHoneypot() {
			if field.IsCheckbox() {
				field.Checked = value != ""
				continue
			}
			field.Value = value
		}
	}
	mapping := render.MapErrors(form, options.Errors)
	render.ApplyErrors(form, mapping)

	action := options.Action
	if action == "" {
		action = form.Endpoint
	}
	method := strings.ToLower(form.Method)
	if method == "" {
		method = "post"
	}

	view := formView{
		ID:      form.ID,
		Title:   form.Title,
		Action:  action,
		Method:  method,
		Classes: classList(model.ClassNeedsValidation, form.Classes...),
		Errors:  render.MergeFormErrors(mapping.Form, options.FormErrors...),
		Hidden:  render.SortedHiddenFields(options.Hidden),
		Submit:  form.Submit,
	}
	for _, field := range form.Fields {
		view.Fields = append(view.Fields, r.fieldView(form.ID, field))
	}
	return view
}

func (r *Renderer) fieldView(formID string, field *model.Field) fieldView {
	view := fieldView{
		ID:          controlID(formID, field.Name),
		Name:        field.Name,
		Type:        string(field.Type),
		Tag:         string(field.Tag),
		Label:       field.Label,
		Placeholder: field.Placeholder,
		Value:       field.Value,
		Checked:     field.Checked,
		Required:    field.Required,
		Disabled:    field.Disabled,
	}
	if field.IsHoneypot() {
		view.Honeypot = true
		view.Style = dom.HoneypotStyle
		view.Value = ""
		return view
	}
	if field.Feedback != nil {
		view.Feedback = field.Feedback.Text
	}

	switch {
	case field.IsTextarea():
		view.Tag = string(model.TagTextarea)
		view.Classes = classList(r.chrome.Control, field.Classes...)
	case field.Tag == model.TagSelect || field.Type == model.FieldTypeSelect:
		view.Tag = string(model.TagSelect)
		view.Classes = classList(r.chrome.Select, field.Classes...)
		for i, option := range field.Options {
			selected := option == field.Value || (field.Value == "" && i == 0)
			view.Options = append(view.Options, optionView{Value: option, Selected: selected})
		}
	case field.IsCheckbox():
		view.Tag = string(model.TagInput)
		view.Type = string(model.FieldTypeCheckbox)
		view.Classes = classList(r.chrome.CheckBox, field.Classes...)
	default:
		view.Tag = string(model.TagInput)
		if view.Type == "" {
			view.Type = string(model.FieldTypeText)
		}
		view.Classes = classList(r.chrome.Control, field.Classes...)
	}
	return view
}
