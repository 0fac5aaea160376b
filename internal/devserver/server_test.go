package devserver_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-formpipe/internal/devserver"
	"github.com/goliatone/go-formpipe/pkg/config"
	"github.com/goliatone/go-formpipe/pkg/model"
	"github.com/goliatone/go-formpipe/pkg/session"
	"github.com/goliatone/go-formpipe/pkg/submission"
	"github.com/goliatone/go-formpipe/pkg/testsupport"
)

func testConfig(t *testing.T, mutate func(*config.Config)) *config.Config {
	t.Helper()
	cfg := config.Default()
	form := testsupport.ContactForm()
	cfg.Forms = []*model.Form{form}
	cfg.Stub.Message = "Thanks!"
	if mutate != nil {
		mutate(&cfg)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate config: %v", err)
	}
	return &cfg
}

func newServer(t *testing.T, cfg *config.Config) (*devserver.Server, *httptest.Server) {
	t.Helper()
	srv, err := devserver.New(cfg)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, ts
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("get %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, string(body)
}

func post(t *testing.T, url, body string) (*http.Response, devserver.Reply) {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("post %s: %v", url, err)
	}
	defer resp.Body.Close()
	var reply devserver.Reply
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		t.Fatalf("decode reply: %v", err)
	}
	return resp, reply
}

func TestPages(t *testing.T) {
	_, ts := newServer(t, testConfig(t, nil))

	resp, body := get(t, ts.URL+"/")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("index status %d", resp.StatusCode)
	}
	testsupport.AssertContains(t, body, `id="contact"`, "needs-validation", `action="process.php"`,
		`name="`+model.HoneypotName+`"`, "/assets/formpipe.css")
	if resp.Header.Get(devserver.RequestIDHeader) == "" {
		t.Fatalf("expected request id header")
	}

	resp, body = get(t, ts.URL+"/forms/contact")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("form status %d", resp.StatusCode)
	}
	testsupport.AssertContains(t, body, "<title>Contact us</title>")

	if resp, _ := get(t, ts.URL+"/forms/missing"); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown form, got %d", resp.StatusCode)
	}

	for _, path := range []string{"/thank_you.html", "/forms/thank_you.html"} {
		resp, body := get(t, ts.URL+path)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("%s status %d", path, resp.StatusCode)
		}
		testsupport.AssertContains(t, body, "Your message was sent successfully!")
	}

	if resp, _ := get(t, ts.URL+"/assets/formpipe.css"); resp.StatusCode != http.StatusOK {
		t.Fatalf("asset status %d", resp.StatusCode)
	}
	if resp, _ := get(t, ts.URL+"/elsewhere.html"); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestStub_RecordsAndReplies(t *testing.T) {
	srv, ts := newServer(t, testConfig(t, nil))

	resp, reply := post(t, ts.URL+"/process.php", `{"email":"jana@example.com"}`)
	if resp.StatusCode != http.StatusOK || !reply.Success || reply.Message != "Thanks!" {
		t.Fatalf("unexpected reply %d %+v", resp.StatusCode, reply)
	}

	subs := srv.Submissions()
	if len(subs) != 1 || subs[0].Payload["email"] != "jana@example.com" {
		t.Fatalf("unexpected submissions %+v", subs)
	}
	if subs[0].RequestID != resp.Header.Get(devserver.RequestIDHeader) {
		t.Fatalf("request id not recorded")
	}

	srv.SetConfig(testConfig(t, func(cfg *config.Config) {
		cfg.Stub.Reject = true
		cfg.Stub.Message = "Mailbox full."
	}))
	_, reply = post(t, ts.URL+"/forms/process.php", `{}`)
	if reply.Success || reply.Message != "Mailbox full." {
		t.Fatalf("expected rejection, got %+v", reply)
	}

	resp, reply = post(t, ts.URL+"/process.php", `not json`)
	if resp.StatusCode != http.StatusBadRequest || reply.Success {
		t.Fatalf("expected bad request, got %d %+v", resp.StatusCode, reply)
	}

	resp, err := http.Post(ts.URL+"/other.php", "application/json", strings.NewReader(`{}`))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown endpoint, got %d", resp.StatusCode)
	}
}

func TestStub_RateLimited(t *testing.T) {
	_, ts := newServer(t, testConfig(t, func(cfg *config.Config) {
		cfg.Stub.RateLimit = 0.001
		cfg.Stub.Burst = 1
	}))

	if _, reply := post(t, ts.URL+"/process.php", `{}`); !reply.Success {
		t.Fatalf("first request should pass")
	}
	resp, reply := post(t, ts.URL+"/process.php", `{}`)
	if resp.StatusCode != http.StatusTooManyRequests || reply.Success {
		t.Fatalf("expected 429, got %d %+v", resp.StatusCode, reply)
	}
}

func TestStub_EndToEndWithSession(t *testing.T) {
	_, ts := newServer(t, testConfig(t, nil))

	endpoint, err := submission.NewHTTPEndpoint(ts.URL+"/forms/contact", "process.php")
	if err != nil {
		t.Fatalf("new endpoint: %v", err)
	}

	s, err := session.New(endpoint, session.WithRedirect("", 0))
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	t.Cleanup(s.Close)

	id, err := s.Bind(testsupport.ContactForm())
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	result, err := s.Submit(context.Background(), id)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !result.Succeeded() {
		t.Fatalf("expected success, got %+v", result)
	}
}

func TestListenAndServe_StopsWithContext(t *testing.T) {
	cfg := testConfig(t, func(cfg *config.Config) { cfg.Stub.Addr = "127.0.0.1:0" })
	srv, err := devserver.New(cfg)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.ListenAndServe(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("listen and serve: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("server did not stop")
	}
}

func TestNew_RequiresConfig(t *testing.T) {
	if _, err := devserver.New(nil); !errors.Is(err, devserver.ErrNilConfig) {
		t.Fatalf("expected ErrNilConfig, got %v", err)
	}
}
