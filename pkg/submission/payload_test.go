package submission_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formpipe/pkg/model"
	"github.com/goliatone/go-formpipe/pkg/submission"
)

func TestBuildPayload(t *testing.T) {
	form := &model.Form{
		ID: "form-1",
		Fields: []*model.Field{
			{Name: "firstName", Value: "Jana"},
			{Name: "email", Type: model.FieldTypeEmail, Value: "jana@example.com"},
			{Name: "topic", Value: "first"},
			{Name: "topic", Value: "second"},
			{Name: "gdpr", Type: model.FieldTypeCheckbox, Checked: true},
			{Name: "newsletter", Type: model.FieldTypeCheckbox, Value: "yes"},
			{Name: "internal", Value: "x", Disabled: true},
			{Name: "", Value: "anonymous"},
			{Name: model.HoneypotName, Value: "bot"},
			nil,
		},
	}

	got := submission.BuildPayload(form)
	want := submission.Payload{
		"firstName": "Jana",
		"email":     "jana@example.com",
		"topic":     "second",
		"gdpr":      "on",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildPayload_NilForm(t *testing.T) {
	got := submission.BuildPayload(nil)
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty payload, got %#v", got)
	}
}
