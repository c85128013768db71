package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/braingym/internal/content"
	"github.com/abhisek/braingym/internal/store"
)

type fixture struct {
	srv    *httptest.Server
	client *content.HTTPClient
	repo   store.EventRepo
}

func newFixture(t *testing.T, mutate func(*Config)) *fixture {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	st, err := store.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	cat, err := content.DefaultCatalog()
	require.NoError(t, err)
	cfg := Config{
		Provider: content.NewLocal(cat, nil, 7),
		Repo:     st.EventRepo(),
		Version:  "v1.2.0",
	}
	if mutate != nil {
		mutate(&cfg)
	}
	s, err := New(cfg)
	require.NoError(t, err)

	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	client, err := content.NewHTTPClient(srv.URL, content.WithVersion("v1.0.0"))
	require.NoError(t, err)
	return &fixture{srv: srv, client: client, repo: cfg.Repo}
}

func (f *fixture) post(t *testing.T, path, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(f.srv.URL+path, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestNew_RequiresDependencies(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestHealthAndCompatibility(t *testing.T) {
	f := newFixture(t, nil)
	h, err := f.client.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", h.Status)
	assert.Equal(t, "v1.2.0", h.Version)
	assert.NoError(t, f.client.CheckCompatibility(context.Background()))
}

func TestExerciseEndpoints(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	arith, err := f.client.Arithmetic(ctx)
	require.NoError(t, err)
	assert.Len(t, arith.Problems, 50)
	assert.Equal(t, 120, arith.TimeLimitSeconds)

	stroop, err := f.client.Stroop(ctx)
	require.NoError(t, err)
	assert.Len(t, stroop.Items, 50)

	mem, err := f.client.Memory(ctx)
	require.NoError(t, err)
	assert.Len(t, mem.Words, 12)
	assert.Equal(t, 60, mem.MemorizeTimeSeconds)

	text, err := f.client.Reading(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, text.Content)
}

func TestExerciseEndpoint_EmptyCatalog(t *testing.T) {
	f := newFixture(t, func(c *Config) { c.Provider = content.NewLocal(&content.Catalog{}, nil, 1) })
	_, err := f.client.Reading(context.Background())
	var fe *content.FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, http.StatusNotFound, fe.Status)
}

func TestResultsFlow(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	rec, err := f.client.SubmitResult(ctx, content.ResultSubmission{
		ExerciseType:   content.TypeArithmetic,
		Score:          30,
		TimeSeconds:    120,
		CorrectAnswers: 30,
		TotalQuestions: 50,
	})
	require.NoError(t, err)
	require.NotEmpty(t, rec.SessionID, "a result without a session opens one")

	_, err = f.client.SubmitResult(ctx, content.ResultSubmission{
		SessionID:      rec.SessionID,
		ExerciseType:   content.TypeStroop,
		Score:          12,
		TimeSeconds:    120,
		CorrectAnswers: 12,
		TotalQuestions: 50,
	})
	require.NoError(t, err)

	rep, err := f.client.Session(ctx, rec.SessionID)
	require.NoError(t, err)
	assert.Equal(t, rec.SessionID, rep.ID)
	assert.Equal(t, 42, rep.TotalScore)
	require.Len(t, rep.Results, 2)
	assert.Equal(t, content.TypeArithmetic, rep.Results[0].ExerciseType)
	assert.Equal(t, content.TypeStroop, rep.Results[1].ExerciseType)
}

func TestCreateSession(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	rep, err := f.client.CreateSession(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, rep.ID)

	got, err := f.client.Session(ctx, rep.ID)
	require.NoError(t, err)
	assert.Zero(t, got.TotalScore)
	assert.Empty(t, got.Results)
}

func TestGetSession_NotFound(t *testing.T) {
	f := newFixture(t, nil)
	resp, err := http.Get(f.srv.URL + "/api/sessions/nope")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPostResult_Rejections(t *testing.T) {
	f := newFixture(t, nil)
	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"malformed", `{"exercise_type":`, http.StatusBadRequest},
		{"unknown exercise", `{"exercise_type":"chess","score":1}`, http.StatusUnprocessableEntity},
		{"negative score", `{"exercise_type":"stroop","score":-3}`, http.StatusUnprocessableEntity},
		{"unknown session", `{"session_id":"ghost","exercise_type":"reading","time_seconds":30}`, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := f.post(t, content.PathResults, tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
		})
	}
}

func TestPostResult_RateLimited(t *testing.T) {
	f := newFixture(t, func(c *Config) {
		c.RateLimit = 0.001
		c.Burst = 1
	})
	body := `{"exercise_type":"counting","time_seconds":55}`

	assert.Equal(t, http.StatusOK, f.post(t, content.PathResults, body).StatusCode)
	resp := f.post(t, content.PathResults, body)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "1", resp.Header.Get("Retry-After"))
}

func TestServe_GracefulShutdown(t *testing.T) {
	st, err := store.Open("file:serve_shutdown?mode=memory&cache=shared")
	require.NoError(t, err)
	defer st.Close()
	cat, err := content.DefaultCatalog()
	require.NoError(t, err)
	s, err := New(Config{Provider: content.NewLocal(cat, nil, 1), Repo: st.EventRepo()})
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln, time.Second) }()

	resp, err := http.Get("http://" + ln.Addr().String() + content.PathHealth)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
