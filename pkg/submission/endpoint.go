package submission

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultEndpointPath is the submission path used when none is configured.
	DefaultEndpointPath = "process.php"

	defaultEndpointTimeout = 30 * time.Second
	maxResponseBytes       = 1 << 20
)

// Endpoint performs the remote call. Implementations map every failure onto
// an Outcome instead of returning an error.
type Endpoint interface {
	Submit(ctx context.Context, payload Payload) Outcome
}

// EndpointFunc adapts a function into an Endpoint.
type EndpointFunc func(ctx context.Context, payload Payload) Outcome

// Submit calls the underlying function.
func (fn EndpointFunc) Submit(ctx context.Context, payload Payload) Outcome {
	return fn(ctx, payload)
}

// EndpointOption configures an HTTPEndpoint.
type EndpointOption func(*HTTPEndpoint)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(client *http.Client) EndpointOption {
	return func(e *HTTPEndpoint) {
		if client != nil {
			e.client = client
		}
	}
}

// WithHeader adds a request header sent with every submission.
func WithHeader(name, value string) EndpointOption {
	return func(e *HTTPEndpoint) {
		name = strings.TrimSpace(name)
		if name == "" {
			return
		}
		e.headers.Set(name, value)
	}
}

// WithEndpointLogger attaches a logger.
func WithEndpointLogger(logger *zap.Logger) EndpointOption {
	return func(e *HTTPEndpoint) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// HTTPEndpoint posts the payload as JSON and interprets the JSON reply.
type HTTPEndpoint struct {
	url     string
	client  *http.Client
	headers http.Header
	logger  *zap.Logger
}

// NewHTTPEndpoint resolves path against base (the page URL the form lives
// on) and returns a client for it. An empty path uses DefaultEndpointPath.
func NewHTTPEndpoint(base, path string, options ...EndpointOption) (*HTTPEndpoint, error) {
	target, err := ResolveEndpoint(base, path)
	if err != nil {
		return nil, err
	}

	e := &HTTPEndpoint{
		url:     target,
		client:  &http.Client{Timeout: defaultEndpointTimeout},
		headers: make(http.Header),
		logger:  zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(e)
	}
	e.logger = e.logger.Named("endpoint")
	return e, nil
}

// ResolveEndpoint joins a relative endpoint path onto the page URL.
func ResolveEndpoint(base, path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		path = DefaultEndpointPath
	}
	ref, err := url.Parse(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrEndpointURL, err)
	}
	if ref.IsAbs() {
		return ref.String(), nil
	}

	base = strings.TrimSpace(base)
	if base == "" {
		return "", fmt.Errorf("%w: relative path %q needs a base url", ErrEndpointURL, path)
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrEndpointURL, err)
	}
	if baseURL.Scheme != "http" && baseURL.Scheme != "https" {
		return "", fmt.Errorf("%w: base must use http or https, got %q", ErrEndpointURL, baseURL.Scheme)
	}
	return baseURL.ResolveReference(ref).String(), nil
}

// URL reports the resolved endpoint.
func (e *HTTPEndpoint) URL() string {
	return e.url
}

// Submit issues a single POST. A transport error, including a cancelled
// context, is a network failure; any reply body is read as JSON regardless
// of status code.
func (e *HTTPEndpoint) Submit(ctx context.Context, payload Payload) Outcome {
	if payload == nil {
		payload = Payload{}
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return NetworkFailure(fmt.Errorf("encode payload: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url, bytes.NewReader(body))
	if err != nil {
		return NetworkFailure(fmt.Errorf("request: %w", err))
	}
	for name, values := range e.headers {
		for _, value := range values {
			req.Header.Add(name, value)
		}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		e.logger.Warn("submission request failed", zap.String("url", e.url), zap.Error(err))
		return NetworkFailure(fmt.Errorf("do request: %w", err))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return NetworkFailure(fmt.Errorf("read response: %w", err))
	}

	outcome := DecodeResponse(raw)
	e.logger.Debug("submission settled",
		zap.String("url", e.url),
		zap.Int("status", resp.StatusCode),
		zap.String("outcome", string(outcome.Kind)),
	)
	return outcome
}

// DecodeResponse interprets a reply body. A JSON object with a truthy
// "success" is a success. A body that is not JSON, or is JSON null, is a
// network failure. Any other JSON value is a business failure carrying the
// "message" string when one is present.
func DecodeResponse(raw []byte) Outcome {
	var body any
	if err := json.Unmarshal(raw, &body); err != nil {
		return NetworkFailure(fmt.Errorf("decode response: %w", err))
	}
	if body == nil {
		return NetworkFailure(ErrNullResponse)
	}
	reply, ok := body.(map[string]any)
	if !ok {
		return BusinessFailure("")
	}
	if truthy(reply["success"]) {
		return Success()
	}
	message, _ := reply["message"].(string)
	return BusinessFailure(strings.TrimSpace(message))
}

// truthy follows the loose truthiness the endpoint contract was written
// against: false, 0, NaN, "" and null are falsy, everything else is truthy.
func truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case float64:
		return v != 0 && !math.IsNaN(v)
	case string:
		return v != ""
	default:
		return true
	}
}
