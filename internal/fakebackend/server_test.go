package fakebackend

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tessro/prdchat/internal/logging"
)

func call(t *testing.T, srv *httptest.Server, method, path, body string) (int, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(method, srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestPlanningLifecycle(t *testing.T) {
	fb := New(Options{PlanningPolls: 2})
	srv := httptest.NewServer(fb.Handler())
	defer srv.Close()

	code, out := call(t, srv, http.MethodPost, "/start_planning", `{"feature_description":"add login","repo_url":"org/repo"}`)
	require.Equal(t, http.StatusOK, code)
	id, _ := out["session_id"].(string)
	require.NotEmpty(t, id)
	assert.Contains(t, out["response"], "add login")

	for i := 0; i < 2; i++ {
		code, out = call(t, srv, http.MethodGet, "/planning_status/"+id, "")
		require.Equal(t, http.StatusOK, code)
		assert.Equal(t, "in_progress", out["status"])
	}

	code, out = call(t, srv, http.MethodGet, "/planning_status/"+id, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ready", out["status"])
	assert.Contains(t, out["response"], "Plan ready")

	assert.EqualValues(t, 4, fb.Requests())
}

func TestPlanningFailure(t *testing.T) {
	srv := httptest.NewServer(New(Options{FailPlanning: true}).Handler())
	defer srv.Close()

	_, out := call(t, srv, http.MethodPost, "/start_planning", `{"feature_description":"x","repo_url":"org/repo"}`)
	id := out["session_id"].(string)

	_, out = call(t, srv, http.MethodGet, "/planning_status/"+id, "")
	assert.Equal(t, "error", out["status"])
	assert.NotEmpty(t, out["response"])
}

func TestStartPlanning_Validation(t *testing.T) {
	srv := httptest.NewServer(New(Options{}).Handler())
	defer srv.Close()

	code, out := call(t, srv, http.MethodPost, "/start_planning", `{"feature_description":"","repo_url":"org/repo"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.NotEmpty(t, out["detail"])

	code, _ = call(t, srv, http.MethodPost, "/start_planning", `not json`)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestPlanningStatus_UnknownSession(t *testing.T) {
	srv := httptest.NewServer(New(Options{}).Handler())
	defer srv.Close()

	code, _ := call(t, srv, http.MethodGet, "/planning_status/nope", "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestChat(t *testing.T) {
	srv := httptest.NewServer(New(Options{}).Handler())
	defer srv.Close()

	code, out := call(t, srv, http.MethodPost, "/chat", `{"text":"hello","session_id":null}`)
	require.Equal(t, http.StatusOK, code)
	id := out["session_id"].(string)
	assert.NotEmpty(t, id)
	assert.Equal(t, "You said: hello", out["response"])

	_, out = call(t, srv, http.MethodPost, "/chat", `{"text":"write the document","session_id":"`+id+`"}`)
	assert.Equal(t, id, out["session_id"])
	assert.Contains(t, out["response"], "## Requirements")

	_, out = call(t, srv, http.MethodPost, "/chat", `{"text":"now the tickets","session_id":"`+id+`"}`)
	assert.Contains(t, out["response"], "### Ticket 1")

	code, _ = call(t, srv, http.MethodPost, "/chat", `{"text":"hi","session_id":"missing"}`)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = call(t, srv, http.MethodPost, "/chat", `{"text":"  "}`)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
}

func TestCreateTickets(t *testing.T) {
	srv := httptest.NewServer(New(Options{TicketBaseURL: "https://example.test"}).Handler())
	defer srv.Close()

	code, out := call(t, srv, http.MethodPost, "/create_tickets", `{"prd":"# PRD\n## One\n## Two","repo":"https://github.com/org/repo.git"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []any{
		"https://example.test/org/repo/issues/1",
		"https://example.test/org/repo/issues/2",
		"https://example.test/org/repo/issues/3",
	}, out["ticket_urls"])

	code, _ = call(t, srv, http.MethodPost, "/create_tickets", `{"prd":"","repo":"org/repo"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestRequestLogging(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	var logs syncBuffer
	logging.SetupTest(&logs)

	fb := New(Options{})
	srv := httptest.NewServer(fb.Handler())

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/health", nil)
	require.NoError(t, err)
	req.Header.Set("X-Request-ID", "req-abc")
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	srv.Close()

	out := logs.String()
	assert.Contains(t, out, "path=/health")
	assert.Contains(t, out, "status=200")
	assert.Contains(t, out, "request_id=req-abc")
	assert.EqualValues(t, 1, fb.Requests())
}
