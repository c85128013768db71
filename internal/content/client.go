package content

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/mod/semver"
)

// REST paths of the content server.
const (
	PathHealth           = "/health"
	PathArithmetic       = "/api/exercises/arithmetic"
	PathReading          = "/api/exercises/reading"
	PathStroop           = "/api/exercises/stroop"
	PathMemory           = "/api/exercises/memory-words"
	PathResults          = "/api/results"
	PathSessions         = "/api/sessions"
	maxErrorBody         = 512
	defaultClientTimeout = 10 * time.Second
)

// Health is the body of GET /health.
type Health struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

// SessionResult is one result as reported by GET /api/sessions/{id}.
type SessionResult struct {
	ID             int64   `json:"id"`
	ExerciseType   string  `json:"exercise_type"`
	Score          int     `json:"score"`
	TimeSeconds    float64 `json:"time_seconds"`
	CorrectAnswers int     `json:"correct_answers"`
	TotalQuestions int     `json:"total_questions"`
}

// SessionReport is the body of the session endpoints.
type SessionReport struct {
	ID         string          `json:"id"`
	TotalScore int             `json:"total_score"`
	Results    []SessionResult `json:"results"`
}

// HTTPClient fetches content from a remote server.
type HTTPClient struct {
	base    *url.URL
	client  *http.Client
	version string
}

var _ Provider = (*HTTPClient)(nil)

// ClientOption configures an HTTPClient.
type ClientOption func(*HTTPClient)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(h *HTTPClient) { h.client = c }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(h *HTTPClient) {
		if d > 0 {
			h.client = &http.Client{Timeout: d, Transport: h.client.Transport}
		}
	}
}

// WithVersion sets the client version compared by CheckCompatibility.
func WithVersion(v string) ClientOption {
	return func(h *HTTPClient) { h.version = v }
}

// NewHTTPClient creates a client for the server at baseURL.
func NewHTTPClient(baseURL string, opts ...ClientOption) (*HTTPClient, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url %q: scheme must be http or https", baseURL)
	}
	h := &HTTPClient{base: u, client: &http.Client{Timeout: defaultClientTimeout}}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

func (h *HTTPClient) Arithmetic(ctx context.Context) (*ArithmeticSet, error) {
	var v ArithmeticSet
	if err := h.fetch(ctx, TypeArithmetic, PathArithmetic, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (h *HTTPClient) Reading(ctx context.Context) (*ReadingText, error) {
	var v ReadingText
	if err := h.fetch(ctx, TypeReading, PathReading, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (h *HTTPClient) Stroop(ctx context.Context) (*StroopSet, error) {
	var v StroopSet
	if err := h.fetch(ctx, TypeStroop, PathStroop, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (h *HTTPClient) Memory(ctx context.Context) (*MemoryWords, error) {
	var v MemoryWords
	if err := h.fetch(ctx, TypeMemory, PathMemory, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (h *HTTPClient) fetch(ctx context.Context, kind, path string, v any) error {
	status, err := h.do(ctx, http.MethodGet, path, nil, v)
	if err != nil {
		return &FetchError{Kind: kind, Status: status, Err: err}
	}
	return nil
}

func (h *HTTPClient) SubmitResult(ctx context.Context, sub ResultSubmission) (*SubmissionReceipt, error) {
	var rec SubmissionReceipt
	status, err := h.do(ctx, http.MethodPost, PathResults, sub, &rec)
	if err != nil {
		return nil, &SubmitError{ExerciseType: sub.ExerciseType, Status: status, Err: err}
	}
	return &rec, nil
}

// CreateSession asks the server to open a session.
func (h *HTTPClient) CreateSession(ctx context.Context) (*SessionReport, error) {
	var rep SessionReport
	if _, err := h.do(ctx, http.MethodPost, PathSessions, struct{}{}, &rep); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return &rep, nil
}

// Session fetches a session's results and total score.
func (h *HTTPClient) Session(ctx context.Context, id string) (*SessionReport, error) {
	var rep SessionReport
	if _, err := h.do(ctx, http.MethodGet, PathSessions+"/"+url.PathEscape(id), nil, &rep); err != nil {
		return nil, fmt.Errorf("get session %s: %w", id, err)
	}
	return &rep, nil
}

// Health queries the server's health endpoint.
func (h *HTTPClient) Health(ctx context.Context) (*Health, error) {
	var v Health
	if _, err := h.do(ctx, http.MethodGet, PathHealth, nil, &v); err != nil {
		return nil, fmt.Errorf("health: %w", err)
	}
	return &v, nil
}

// CheckCompatibility returns an *IncompatibleError when the server reports
// a semantic version whose major differs from the client's. Servers that
// report no version, and clients without a valid version, are accepted.
func (h *HTTPClient) CheckCompatibility(ctx context.Context) error {
	hl, err := h.Health(ctx)
	if err != nil {
		return err
	}
	return compatible(hl.Version, h.version)
}

func compatible(server, client string) error {
	sv, cv := canonical(server), canonical(client)
	if !semver.IsValid(sv) || !semver.IsValid(cv) {
		return nil
	}
	if semver.Major(sv) != semver.Major(cv) {
		return &IncompatibleError{Server: server, Client: client}
	}
	return nil
}

func canonical(v string) string {
	if v != "" && !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return v
}

// do performs one JSON round trip. The returned status is zero when no
// response was received.
func (h *HTTPClient) do(ctx context.Context, method, path string, body, out any) (int, error) {
	var rd io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("encode request: %w", err)
		}
		rd = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, h.base.JoinPath(path).String(), rd)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return resp.StatusCode, fmt.Errorf("HTTP %d from %s: %s", resp.StatusCode, path, bytes.TrimSpace(msg))
	}
	if out == nil {
		return resp.StatusCode, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return resp.StatusCode, errors.New("empty response body")
		}
		return resp.StatusCode, fmt.Errorf("decode response: %w", err)
	}
	return resp.StatusCode, nil
}
