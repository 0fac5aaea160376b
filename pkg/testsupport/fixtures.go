package testsupport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"

	pkgmodel "github.com/goliatone/go-formpipe/pkg/model"
)

// ContactForm returns the canonical contact form with valid values: first
// name, email, phone, message and a required consent checkbox.
func ContactForm() *pkgmodel.Form {
	return &pkgmodel.Form{
		ID:       "contact",
		Title:    "Contact us",
		Endpoint: "process.php",
		Method:   "POST",
		Fields: []*pkgmodel.Field{
			{Name: "firstName", Type: pkgmodel.FieldTypeText, Label: "First name", Value: "Jana", Required: true},
			{Name: "email", Type: pkgmodel.FieldTypeEmail, Label: "Email", Value: "jana@example.com", Required: true},
			{Name: "phone", Type: pkgmodel.FieldTypeTel, Label: "Phone", Value: "+421 900 123 456"},
			{Name: "message", Type: pkgmodel.FieldTypeTextarea, Tag: pkgmodel.TagTextarea, Label: "Message", Value: "I would like a quote, please.", Required: true},
			{Name: "gdpr", Type: pkgmodel.FieldTypeCheckbox, Label: "I agree", Checked: true, Required: true},
		},
		Submit: &pkgmodel.SubmitControl{Label: "Send"},
	}
}

// MustLoadForm reads a JSON fixture into a Form.
func MustLoadForm(t *testing.T, path string) *pkgmodel.Form {
	t.Helper()

	form, err := LoadForm(path)
	if err != nil {
		t.Fatalf("load form: %v", err)
	}
	return form
}

// LoadForm reads a JSON fixture into a Form, returning an error for callers
// managing setup outside of *testing.T.
func LoadForm(path string) (*pkgmodel.Form, error) {
	if path == "" {
		return nil, errors.New("testsupport: form path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("testsupport: read form: %w", err)
	}
	var out pkgmodel.Form
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("testsupport: unmarshal form: %w", err)
	}
	return &out, nil
}

// Endpoint is a stub submission endpoint recording every request body.
type Endpoint struct {
	*httptest.Server

	mu       sync.Mutex
	reply    string
	payloads []map[string]string
}

// NewEndpoint starts a stub replying with body to every request. The server
// is closed when the test ends.
func NewEndpoint(t *testing.T, body string) *Endpoint {
	t.Helper()

	e := &Endpoint{reply: body}
	e.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]string
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			payload = map[string]string{"_error": err.Error()}
		}
		e.mu.Lock()
		e.payloads = append(e.payloads, payload)
		reply := e.reply
		e.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, reply)
	}))
	t.Cleanup(e.Close)
	return e
}

// SetReply changes the body returned to later requests.
func (e *Endpoint) SetReply(body string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.reply = body
}

// Payloads returns the decoded request bodies received so far.
func (e *Endpoint) Payloads() []map[string]string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]map[string]string(nil), e.payloads...)
}

// PageURL is a page URL on the stub server, suitable as the base the
// endpoint path is resolved against.
func (e *Endpoint) PageURL() string {
	return e.URL + "/index.html"
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// AssertContains fails the test for every fragment missing from out.
func AssertContains(t *testing.T, out string, fragments ...string) {
	t.Helper()
	for _, fragment := range fragments {
		if !strings.Contains(out, fragment) {
			t.Fatalf("expected %q in output:\n%s", fragment, out)
		}
	}
}

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}
