package dom

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/goliatone/go-formpipe/pkg/model"
)

// HoneypotStyle keeps the honeypot input off screen without hiding it from
// naive bots.
const HoneypotStyle = "position:absolute;left:-9999px;width:1px;height:1px;"

var (
	// ErrNoBody is returned when the document has no body to host the
	// notification container.
	ErrNoBody = errors.New("dom: document has no body")
)

// Option configures Parse.
type Option func(*Document)

// WithFormClass selects forms by a class other than needs-validation.
func WithFormClass(class string) Option {
	return func(d *Document) {
		if class = strings.TrimSpace(class); class != "" {
			d.formClass = class
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) Option {
	return func(d *Document) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// Binding links a model.Form to the nodes it was read from.
type Binding struct {
	Form   *model.Form
	node   *html.Node
	fields map[*model.Field]*html.Node
	submit *html.Node
}

// Document is a parsed page.
type Document struct {
	root      *html.Node
	formClass string
	logger    *zap.Logger
	bindings  []*Binding
}

// Parse reads a page and maps its validated forms.
func Parse(r io.Reader, options ...Option) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("dom: parse: %w", err)
	}
	d := &Document{
		root:      root,
		formClass: model.ClassNeedsValidation,
		logger:    zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(d)
	}
	d.logger = d.logger.Named("dom")

	walk(root, func(n *html.Node) bool {
		if isElement(n, atom.Form) && hasClass(n, d.formClass) {
			d.bindings = append(d.bindings, bindForm(n))
			return false
		}
		return true
	})
	d.logger.Debug("document parsed", zap.Int("forms", len(d.bindings)))
	return d, nil
}

// Bindings returns the mapped forms in document order.
func (d *Document) Bindings() []*Binding {
	return d.bindings
}

// Forms returns the mapped forms in document order.
func (d *Document) Forms() []*model.Form {
	forms := make([]*model.Form, 0, len(d.bindings))
	for _, b := range d.bindings {
		forms = append(forms, b.Form)
	}
	return forms
}

// Prepare assigns missing form ids and injects the honeypot input into every
// form that lacks one. It returns the number of honeypots added; running it
// again adds none.
func (d *Document) Prepare() int {
	injected := 0
	for _, b := range d.bindings {
		if id := attrValue(b.node, "id"); id == "" {
			model.EnsureID(b.Form)
			setAttr(b.node, "id", b.Form.ID)
		}
		if b.Form.Honeypot() != nil {
			continue
		}
		node := element(atom.Input,
			html.Attribute{Key: "type", Val: "text"},
			html.Attribute{Key: "name", Val: model.HoneypotName},
			html.Attribute{Key: "style", Val: HoneypotStyle},
			html.Attribute{Key: "tabindex", Val: "-1"},
			html.Attribute{Key: "autocomplete", Val: "off"},
		)
		b.node.AppendChild(node)
		field := &model.Field{Name: model.HoneypotName, Type: model.FieldTypeText, Tag: model.TagInput}
		b.Form.Fields = append(b.Form.Fields, field)
		b.fields[field] = node
		injected++
		d.logger.Debug("honeypot injected", zap.String("form", b.Form.ID))
	}
	return injected
}

// Sync writes the state of every bound model.Form back into its nodes.
func (d *Document) Sync() {
	for _, b := range d.bindings {
		b.sync()
	}
}

// SetNotifications places markup as the page's notification container,
// replacing an existing container with the same id. Empty markup removes it.
func (d *Document) SetNotifications(containerID, markup string) error {
	body := find(d.root, func(n *html.Node) bool { return isElement(n, atom.Body) })
	if body == nil {
		return ErrNoBody
	}
	if existing := find(body, func(n *html.Node) bool {
		return n.Type == html.ElementNode && attrValue(n, "id") == containerID
	}); existing != nil && existing.Parent != nil {
		existing.Parent.RemoveChild(existing)
	}
	if strings.TrimSpace(markup) == "" {
		return nil
	}

	nodes, err := html.ParseFragment(strings.NewReader(markup), body)
	if err != nil {
		return fmt.Errorf("dom: parse notifications: %w", err)
	}
	for _, n := range nodes {
		body.AppendChild(n)
	}
	return nil
}

// Render syncs the bound forms and writes the document.
func (d *Document) Render(w io.Writer) error {
	d.Sync()
	if err := html.Render(w, d.root); err != nil {
		return fmt.Errorf("dom: render: %w", err)
	}
	return nil
}

func bindForm(n *html.Node) *Binding {
	form := &model.Form{
		ID:       attrValue(n, "id"),
		Endpoint: attrValue(n, "action"),
		Method:   strings.ToUpper(attrValue(n, "method")),
		Classes:  classes(n),
	}
	b := &Binding{
		Form:   form,
		node:   n,
		fields: make(map[*model.Field]*html.Node),
	}

	labels := map[string]string{}
	walk(n, func(node *html.Node) bool {
		if isElement(node, atom.Label) {
			if target := attrValue(node, "for"); target != "" {
				labels[target] = strings.TrimSpace(textContent(node))
			}
		}
		return true
	})

	walk(n, func(node *html.Node) bool {
		if node.Type != html.ElementNode {
			return true
		}
		switch node.DataAtom {
		case atom.Input, atom.Textarea, atom.Select:
			if field := readField(node); field != nil {
				field.Label = labels[attrValue(node, "id")]
				form.Fields = append(form.Fields, field)
				b.fields[field] = node
			}
			return false
		case atom.Button:
			if b.submit == nil && strings.EqualFold(attrValue(node, "type"), "submit") {
				b.submit = node
				form.Submit = &model.SubmitControl{
					Label:    strings.TrimSpace(textContent(node)),
					Disabled: hasAttr(node, "disabled"),
				}
			}
			return false
		}
		return true
	})
	return b
}

func readField(n *html.Node) *model.Field {
	field := &model.Field{
		Name:        attrValue(n, "name"),
		Placeholder: attrValue(n, "placeholder"),
		Required:    hasAttr(n, "required"),
		Disabled:    hasAttr(n, "disabled"),
		Classes:     classes(n),
	}

	switch n.DataAtom {
	case atom.Textarea:
		field.Tag = model.TagTextarea
		field.Type = model.FieldTypeTextarea
		field.Value = textContent(n)
	case atom.Select:
		field.Tag = model.TagSelect
		field.Type = model.FieldTypeSelect
		readOptions(n, field)
	default:
		typ := strings.ToLower(strings.TrimSpace(attrValue(n, "type")))
		switch typ {
		case "submit", "button", "reset", "image":
			return nil
		case "":
			typ = string(model.FieldTypeText)
		}
		field.Tag = model.TagInput
		field.Type = model.FieldType(typ)
		field.Value = attrValue(n, "value")
		field.Checked = hasAttr(n, "checked")
	}
	return field
}

func readOptions(n *html.Node, field *model.Field) {
	first, selected := "", ""
	hasSelected := false
	walk(n, func(node *html.Node) bool {
		if !isElement(node, atom.Option) {
			return true
		}
		value, ok := attr(node, "value")
		if !ok {
			value = strings.TrimSpace(textContent(node))
		}
		if len(field.Options) == 0 {
			first = value
		}
		field.Options = append(field.Options, value)
		if !hasSelected && hasAttr(node, "selected") {
			selected, hasSelected = value, true
		}
		return false
	})
	if hasSelected {
		field.Value = selected
	} else {
		field.Value = first
	}
}

func (b *Binding) sync() {
	form := b.Form
	if form.ID != "" {
		setAttr(b.node, "id", form.ID)
	}
	setClasses(b.node, form.Classes)

	for _, field := range form.Fields {
		if node, ok := b.fields[field]; ok {
			syncField(field, node)
		}
	}

	if b.submit != nil && form.Submit != nil {
		toggleAttr(b.submit, "disabled", form.Submit.Disabled)
		if strings.TrimSpace(textContent(b.submit)) != form.Submit.Label {
			setText(b.submit, form.Submit.Label)
		}
	}
}

func syncField(field *model.Field, node *html.Node) {
	setClasses(node, field.Classes)
	toggleAttr(node, "disabled", field.Disabled)

	switch node.DataAtom {
	case atom.Textarea:
		if textContent(node) != field.Value {
			setText(node, field.Value)
		}
	case atom.Select:
		walk(node, func(opt *html.Node) bool {
			if !isElement(opt, atom.Option) {
				return true
			}
			value, ok := attr(opt, "value")
			if !ok {
				value = strings.TrimSpace(textContent(opt))
			}
			toggleAttr(opt, "selected", value == field.Value)
			return false
		})
	default:
		if field.IsCheckbox() {
			toggleAttr(node, "checked", field.Checked)
		} else if field.Value != "" {
			setAttr(node, "value", field.Value)
		} else {
			removeAttr(node, "value")
		}
	}

	if field.Feedback != nil && node.Parent != nil {
		syncFeedback(node.Parent, field.Feedback)
	}
}

// syncFeedback reuses the feedback element among parent's children, creating
// it when missing.
func syncFeedback(parent *html.Node, feedback *model.Feedback) {
	class := feedback.Class
	if class == "" {
		class = model.ClassFeedback
	}
	var target *html.Node
	for c := parent.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && hasClass(c, class) {
			target = c
			break
		}
	}
	if target == nil {
		target = element(atom.Div, html.Attribute{Key: "class", Val: class})
		parent.AppendChild(target)
	}
	setText(target, feedback.Text)
}
