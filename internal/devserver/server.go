// Package devserver serves configured forms together with a stub submission
// endpoint, so pages can be exercised without the production backend.
package devserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/goliatone/go-formpipe/pkg/config"
	"github.com/goliatone/go-formpipe/pkg/model"
	"github.com/goliatone/go-formpipe/pkg/renderers/vanilla"
)

const (
	maxBodyBytes = 1 << 20
	maxRecorded  = 100

	shutdownTimeout = 5 * time.Second
)

var (
	// ErrNilConfig is returned by New without a configuration.
	ErrNilConfig = errors.New("devserver: config is required")
)

// Option configures a Server.
type Option func(*Server)

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRenderer overrides the page renderer.
func WithRenderer(renderer *vanilla.Renderer) Option {
	return func(s *Server) {
		if renderer != nil {
			s.renderer = renderer
		}
	}
}

// Submission is a request body the stub accepted.
type Submission struct {
	RequestID string         `json:"requestId"`
	Path      string         `json:"path"`
	Received  time.Time      `json:"received"`
	Payload   map[string]any `json:"payload"`
}

// Reply is the body the stub answers with.
type Reply struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// Server is the development server.
type Server struct {
	mu       sync.RWMutex
	cfg      *config.Config
	received []Submission

	limiter  *rate.Limiter
	renderer *vanilla.Renderer
	logger   *zap.Logger
	router   chi.Router
}

// New builds a server for cfg.
func New(cfg *config.Config, options ...Option) (*Server, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	s := &Server{
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Limit(cfg.Stub.RateLimit), cfg.Stub.Burst),
		logger:  zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	s.logger = s.logger.Named("devserver")

	if s.renderer == nil {
		renderer, err := vanilla.New(vanilla.WithStylesheet("/assets/" + vanilla.StylesheetName))
		if err != nil {
			return nil, fmt.Errorf("devserver: %w", err)
		}
		s.renderer = renderer
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.Recoverer)
	r.Use(accessLog(s.logger))

	r.Get("/", s.index)
	r.Get("/forms/{formID}", s.form)
	r.Get("/submissions", s.submissions)
	r.Handle("/metrics", promhttp.Handler())
	r.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(http.FS(vanilla.AssetsFS()))))
	r.Get("/*", s.thankYou)
	r.Post("/*", s.submit)
	return r
}

// Handler exposes the router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Config returns the active configuration.
func (s *Server) Config() *config.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// SetConfig swaps the active configuration, typically after a reload.
func (s *Server) SetConfig(cfg *config.Config) {
	if cfg == nil {
		return
	}
	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
	s.limiter.SetLimit(rate.Limit(cfg.Stub.RateLimit))
	s.limiter.SetBurst(cfg.Stub.Burst)
	s.logger.Info("config applied", zap.Int("forms", len(cfg.Forms)))
}

// Submissions returns the most recent accepted submissions, oldest first.
func (s *Server) Submissions() []Submission {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Submission(nil), s.received...)
}

// ListenAndServe serves on the configured stub address until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.Config().Stub.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("devserver: listen: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("devserver: shutdown: %w", err)
		}
		return nil
	}
}

func (s *Server) index(w http.ResponseWriter, r *http.Request) {
	cfg := s.Config()
	s.renderPage(w, r, cfg, "formpipe", cfg.Forms)
}

func (s *Server) form(w http.ResponseWriter, r *http.Request) {
	cfg := s.Config()
	form := cfg.Form(chi.URLParam(r, "formID"))
	if form == nil {
		// Pages navigate relative to /forms/, so the redirect lands here too.
		s.thankYou(w, r)
		return
	}
	title := form.Title
	if title == "" {
		title = form.ID
	}
	s.renderPage(w, r, cfg, title, []*model.Form{form})
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, cfg *config.Config, title string, forms []*model.Form) {
	out, err := s.renderer.RenderPage(r.Context(), vanilla.Page{
		Title: title,
		Lang:  language(cfg.Locale),
		Forms: forms,
	})
	if err != nil {
		s.logger.Error("render page", zap.Error(err), zap.String("request_id", RequestID(r.Context())))
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", s.renderer.ContentType())
	_, _ = w.Write(out)
}

func (s *Server) thankYou(w http.ResponseWriter, r *http.Request) {
	cfg := s.Config()
	if !hasPathSuffix(r.URL.Path, cfg.Redirect) {
		http.NotFound(w, r)
		return
	}
	out, err := s.renderer.RenderThankYou("Thank you", cfg.Messages().Sent)
	if err != nil {
		s.logger.Error("render thank you page", zap.Error(err))
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", s.renderer.ContentType())
	_, _ = w.Write(out)
}

func (s *Server) submit(w http.ResponseWriter, r *http.Request) {
	cfg := s.Config()
	if !hasPathSuffix(r.URL.Path, endpointPath(cfg.Endpoint)) {
		http.NotFound(w, r)
		return
	}
	if !s.limiter.Allow() {
		writeJSON(w, http.StatusTooManyRequests, Reply{Message: "Too many requests."})
		return
	}

	var payload map[string]any
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&payload); err != nil {
		s.logger.Warn("invalid submission body", zap.Error(err), zap.String("request_id", RequestID(r.Context())))
		writeJSON(w, http.StatusBadRequest, Reply{Message: "Invalid JSON body."})
		return
	}

	if latency := cfg.Stub.Latency.Std(); latency > 0 {
		timer := time.NewTimer(latency)
		select {
		case <-timer.C:
		case <-r.Context().Done():
			timer.Stop()
			return
		}
	}

	s.record(Submission{
		RequestID: RequestID(r.Context()),
		Path:      r.URL.Path,
		Received:  time.Now(),
		Payload:   payload,
	})
	s.logger.Info("submission received",
		zap.Int("fields", len(payload)),
		zap.Bool("rejected", cfg.Stub.Reject),
		zap.String("request_id", RequestID(r.Context())),
	)
	writeJSON(w, http.StatusOK, Reply{Success: !cfg.Stub.Reject, Message: cfg.Stub.Message})
}

func (s *Server) submissions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.Submissions())
}

func (s *Server) record(sub Submission) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.received = append(s.received, sub)
	if over := len(s.received) - maxRecorded; over > 0 {
		s.received = append([]Submission(nil), s.received[over:]...)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// endpointPath reduces a configured endpoint to its path.
func endpointPath(endpoint string) string {
	if u, err := url.Parse(strings.TrimSpace(endpoint)); err == nil && u.IsAbs() {
		return u.Path
	}
	return endpoint
}

// hasPathSuffix matches relative page paths from any directory the page was
// served from.
func hasPathSuffix(requestPath, target string) bool {
	target = strings.TrimPrefix(strings.TrimSpace(target), "/")
	if target == "" {
		return false
	}
	return strings.HasSuffix(requestPath, "/"+target)
}

func language(locale string) string {
	if i := strings.IndexAny(locale, "-_"); i > 0 {
		return locale[:i]
	}
	if locale == "" {
		return "en"
	}
	return locale
}
