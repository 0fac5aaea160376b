package validation_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formpipe/pkg/model"
	"github.com/goliatone/go-formpipe/pkg/validation"
)

func TestCheck_RequiredTakesPrecedence(t *testing.T) {
	v := validation.New()
	types := []model.FieldType{
		model.FieldTypeText, model.FieldTypeEmail, model.FieldTypeTel, model.FieldTypeTextarea,
	}
	for _, typ := range types {
		for _, value := range []string{"", "   ", "\t\n"} {
			field := &model.Field{Name: "anything", Type: typ, Value: value, Required: true}
			ok, msg := v.Check(field)
			if ok {
				t.Fatalf("type %s value %q: expected invalid", typ, value)
			}
			if msg != validation.DefaultMessages.Required {
				t.Fatalf("type %s value %q: expected required message, got %q", typ, value, msg)
			}
		}
	}
}

func TestCheck_RoleRules(t *testing.T) {
	tooShort := strings.Replace(validation.DefaultMessages.MessageTooShort, "%d", "10", 1)

	cases := []struct {
		name    string
		field   model.Field
		valid   bool
		message string
	}{
		{"email ok", model.Field{Name: "email", Type: model.FieldTypeEmail, Value: "jane@example.com"}, true, ""},
		{"email plus and subdomain", model.Field{Name: "contact", Type: model.FieldTypeEmail, Value: "a.b+c@mail.example.co"}, true, ""},
		{"email by name only", model.Field{Name: "email", Type: model.FieldTypeText, Value: "not-an-email"}, false, validation.DefaultMessages.Email},
		{"email missing tld", model.Field{Name: "email", Value: "jane@example"}, false, validation.DefaultMessages.Email},
		{"email with space", model.Field{Name: "email", Value: "jane doe@example.com"}, false, validation.DefaultMessages.Email},
		{"email double at", model.Field{Name: "email", Value: "jane@@example.com"}, false, validation.DefaultMessages.Email},
		{"email trimmed", model.Field{Name: "email", Value: "  jane@example.com  "}, true, ""},

		{"first name ok", model.Field{Name: "firstName", Value: "Anne-Marie"}, true, ""},
		{"last name apostrophe", model.Field{Name: "lastName", Value: "O'Brien"}, true, ""},
		{"name with unicode letters", model.Field{Name: "lastName", Value: "Ľubomír Šťastný"}, true, ""},
		{"name too short", model.Field{Name: "firstName", Value: "J"}, false, validation.DefaultMessages.PersonalName},
		{"name with digits", model.Field{Name: "firstName", Value: "R2D2"}, false, validation.DefaultMessages.PersonalName},
		{"name too long", model.Field{Name: "firstName", Value: strings.Repeat("a", 51)}, false, validation.DefaultMessages.PersonalName},
		{"name fifty letters", model.Field{Name: "firstName", Value: strings.Repeat("á", 50)}, true, ""},

		{"phone ok", model.Field{Name: "phone", Type: model.FieldTypeTel, Value: "+421 900 123 456"}, true, ""},
		{"phone parens", model.Field{Name: "mobile", Type: model.FieldTypeTel, Value: "(02) 1234-5678"}, true, ""},
		{"phone too short", model.Field{Name: "phone", Value: "12345"}, false, validation.DefaultMessages.Phone},
		{"phone letters", model.Field{Name: "phone", Value: "0900abc1234"}, false, validation.DefaultMessages.Phone},
		{"phone too long", model.Field{Name: "phone", Value: strings.Repeat("1", 21)}, false, validation.DefaultMessages.Phone},
		{"phone optional empty", model.Field{Name: "phone", Type: model.FieldTypeTel}, true, ""},

		{"message ok", model.Field{Name: "message", Tag: model.TagTextarea, Value: "Hello there, world"}, true, ""},
		{"message too short", model.Field{Name: "message", Value: "hi"}, false, tooShort},
		{"textarea by tag", model.Field{Name: "comments", Tag: model.TagTextarea, Value: "short"}, false, tooShort},
		{"message exactly ten", model.Field{Name: "message", Value: "0123456789"}, true, ""},

		{"generic anything", model.Field{Name: "company", Value: "!!"}, true, ""},
		{"generic optional empty", model.Field{Name: "company"}, true, ""},
	}

	v := validation.New()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			field := tc.field
			ok, msg := v.Check(&field)
			if ok != tc.valid {
				t.Fatalf("expected valid=%v, got %v (%q)", tc.valid, ok, msg)
			}
			if msg != tc.message {
				t.Fatalf("expected message %q, got %q", tc.message, msg)
			}
		})
	}
}

func TestCheck_FirstRoleMatchWins(t *testing.T) {
	v := validation.New()
	field := &model.Field{Name: "email", Type: model.FieldTypeTel, Value: "0900 123 456"}
	ok, msg := v.Check(field)
	if ok || msg != validation.DefaultMessages.Email {
		t.Fatalf("expected email rule to win, got ok=%v msg=%q", ok, msg)
	}
}

func TestCheck_CheckboxOverride(t *testing.T) {
	v := validation.New()

	unchecked := &model.Field{Name: "gdpr", Type: model.FieldTypeCheckbox, Required: true}
	if ok, msg := v.Check(unchecked); ok || msg != validation.DefaultMessages.MustAgree {
		t.Fatalf("expected must-agree verdict, got ok=%v msg=%q", ok, msg)
	}

	checked := &model.Field{Name: "gdpr", Type: model.FieldTypeCheckbox, Required: true, Checked: true}
	if ok, msg := v.Check(checked); !ok || msg != "" {
		t.Fatalf("expected checked checkbox to be valid, got ok=%v msg=%q", ok, msg)
	}

	optional := &model.Field{Name: "newsletter", Type: model.FieldTypeCheckbox}
	if ok, _ := v.Check(optional); !ok {
		t.Fatalf("expected optional unchecked checkbox to be valid")
	}
}

func TestValidate_AppliesUIStateOnce(t *testing.T) {
	v := validation.New()
	field := &model.Field{Name: "email", Type: model.FieldTypeEmail, Value: "not-an-email", Required: true}

	ok1, msg1 := v.Validate(field)
	feedback := field.Feedback
	ok2, msg2 := v.Validate(field)

	if ok1 != ok2 || msg1 != msg2 {
		t.Fatalf("expected stable verdict, got (%v,%q) then (%v,%q)", ok1, msg1, ok2, msg2)
	}
	if feedback == nil || field.Feedback != feedback {
		t.Fatalf("expected feedback element to be created once and reused")
	}
	if diff := cmp.Diff([]string{model.ClassInvalid}, field.Classes); diff != "" {
		t.Fatalf("classes mismatch (-want +got):\n%s", diff)
	}
	if field.Validity != model.ValidityInvalid {
		t.Fatalf("expected invalid validity, got %q", field.Validity)
	}
	if field.Feedback.Text != validation.DefaultMessages.Email {
		t.Fatalf("expected feedback text to carry the email message, got %q", field.Feedback.Text)
	}

	field.Value = "jane@example.com"
	if ok, _ := v.Validate(field); !ok {
		t.Fatalf("expected corrected field to be valid")
	}
	if field.HasClass(model.ClassInvalid) || field.Feedback.Text != "" {
		t.Fatalf("expected invalid state to be cleared, got classes=%v text=%q", field.Classes, field.Feedback.Text)
	}
	if field.Feedback != feedback {
		t.Fatalf("expected feedback element to be reused after correction")
	}
}

func TestValidateAll_SkipsHoneypot(t *testing.T) {
	v := validation.New()
	form := &model.Form{
		ID: "contact",
		Fields: []*model.Field{
			{Name: "firstName", Value: "Jane", Required: true},
			{Name: "email", Type: model.FieldTypeEmail, Value: "bad", Required: true},
			{Name: "message", Tag: model.TagTextarea, Value: "hi"},
			{Name: model.HoneypotName, Value: ""},
		},
	}

	ok, invalid := v.ValidateAll(form)
	if ok {
		t.Fatalf("expected form to be invalid")
	}
	if diff := cmp.Diff([]string{"email", "message"}, invalid); diff != "" {
		t.Fatalf("invalid fields mismatch (-want +got):\n%s", diff)
	}
	if form.Honeypot().Feedback != nil {
		t.Fatalf("expected honeypot to stay untouched")
	}
}

func TestWithMessages_SlovakTable(t *testing.T) {
	v := validation.New(validation.WithMessages(validation.SlovakMessages))
	_, msg := v.Check(&model.Field{Name: "message", Value: "ahoj"})
	if msg != "Správa musí obsahovať aspoň 10 znakov." {
		t.Fatalf("unexpected slovak message %q", msg)
	}
}

func TestWithMessages_FallsBackForEmptyEntries(t *testing.T) {
	v := validation.New(validation.WithMessages(validation.Messages{Required: "Required!"}))
	if got := v.Messages().Email; got != validation.DefaultMessages.Email {
		t.Fatalf("expected email message fallback, got %q", got)
	}
	if _, msg := v.Check(&model.Field{Name: "x", Required: true}); msg != "Required!" {
		t.Fatalf("expected custom required message, got %q", msg)
	}
}

func TestWithRule_ExtendsRoleTable(t *testing.T) {
	v := validation.New(validation.WithRule(model.RoleGeneric, validation.Rule{
		Match:   func(value string) bool { return value != "forbidden" },
		Message: func(validation.Messages) string { return "nope" },
	}))
	if ok, msg := v.Check(&model.Field{Name: "company", Value: "forbidden"}); ok || msg != "nope" {
		t.Fatalf("expected custom generic rule to apply, got ok=%v msg=%q", ok, msg)
	}
}
