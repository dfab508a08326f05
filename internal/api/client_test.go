package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yash-srivastava19/studynotes/internal/config"
	"github.com/yash-srivastava19/studynotes/internal/notes"
)

type recorded struct {
	Method string
	Path   string
	Query  string
	Body   string
}

// fakeBackend serves canned responses keyed by "METHOD /path" and records every request.
type fakeBackend struct {
	mu       sync.Mutex
	requests []recorded
	routes   map[string]func(w http.ResponseWriter, r *http.Request)
}

func newFakeBackend(t *testing.T) (*fakeBackend, *Client) {
	t.Helper()
	fb := &fakeBackend{routes: map[string]func(http.ResponseWriter, *http.Request){}}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		fb.mu.Lock()
		fb.requests = append(fb.requests, recorded{r.Method, r.URL.Path, r.URL.RawQuery, string(body)})
		h, ok := fb.routes[r.Method+" "+r.URL.Path]
		fb.mu.Unlock()
		if !ok {
			http.NotFound(w, r)
			return
		}
		h(w, r)
	}))
	t.Cleanup(srv.Close)

	cfg := config.Default()
	cfg.APIBaseURL = srv.URL + "/api/notes"
	cfg.AIBaseURL = srv.URL + "/api/ai"
	return fb, New(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func (fb *fakeBackend) handle(route string, status int, body string) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.routes[route] = func(w http.ResponseWriter, r *http.Request) {
		if body != "" {
			w.Header().Set("Content-Type", "application/json")
		}
		w.WriteHeader(status)
		io.WriteString(w, body)
	}
}

func (fb *fakeBackend) last() recorded {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return fb.requests[len(fb.requests)-1]
}

func (fb *fakeBackend) count() int {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return len(fb.requests)
}

func TestListNotes_normalizesAndDefaults(t *testing.T) {
	fb, c := newFakeBackend(t)
	fb.handle("GET /api/notes", 200, `{"content":[{"id":1,"title":"a"},{"id":2,"title":"b","tags":["x"],"isFavorite":true}],"totalElements":2,"totalPages":1}`)

	page, err := c.ListNotes(context.Background(), ListParams{})
	require.NoError(t, err)

	require.Len(t, page.Content, 2)
	for _, n := range page.Content {
		assert.NotNil(t, n.Tags)
	}
	assert.False(t, page.Content[0].IsFavorite)
	assert.True(t, page.Content[1].IsFavorite)
	assert.Equal(t, 1, page.TotalPages)

	q := fb.last().Query
	assert.Contains(t, q, "page=0")
	assert.Contains(t, q, "size=12")
	assert.Contains(t, q, "sortBy=updatedAt")
	assert.Contains(t, q, "sortDir=desc")
}

func TestSearchNotes_omitsEmptyFilters(t *testing.T) {
	fb, c := newFakeBackend(t)
	fb.handle("GET /api/notes/search", 200, `{"content":[],"totalElements":0,"totalPages":0}`)

	f := notes.Filters{Keyword: "heap", Tag: "", IsFavorite: notes.Favorite(true)}
	page, err := c.SearchNotes(context.Background(), f, 2, 5)
	require.NoError(t, err)
	assert.NotNil(t, page.Content)

	q := fb.last().Query
	assert.Contains(t, q, "keyword=heap")
	assert.Contains(t, q, "isFavorite=true")
	assert.Contains(t, q, "page=2")
	assert.NotContains(t, q, "tag=")
	assert.NotContains(t, q, "subject=")
}

func TestCreateNote_sendsBody(t *testing.T) {
	fb, c := newFakeBackend(t)
	fb.handle("POST /api/notes", 201, `{"id":9,"subject":"Go","title":"t","content":"c"}`)

	n, err := c.CreateNote(context.Background(), notes.NoteInput{Subject: "Go", Title: "t", Content: "c", Tags: []string{"k"}})
	require.NoError(t, err)
	assert.Equal(t, int64(9), n.ID)
	assert.Equal(t, []string{}, n.Tags)

	var sent notes.NoteInput
	require.NoError(t, json.Unmarshal([]byte(fb.last().Body), &sent))
	assert.Equal(t, []string{"k"}, sent.Tags)
}

func TestDeleteNote_noContent(t *testing.T) {
	fb, c := newFakeBackend(t)
	fb.handle("DELETE /api/notes/3", 204, "")

	require.NoError(t, c.DeleteNote(context.Background(), 3))
	assert.Equal(t, "DELETE", fb.last().Method)
}

func TestToggleFavorite(t *testing.T) {
	fb, c := newFakeBackend(t)
	fb.handle("PUT /api/notes/4/favorite", 200, `{"id":4,"isFavorite":true}`)

	n, err := c.ToggleFavorite(context.Background(), 4)
	require.NoError(t, err)
	assert.True(t, n.IsFavorite)
}

func TestHTTPError_mapping(t *testing.T) {
	tests := []struct {
		status int
		want   string
	}{
		{400, config.MsgValidationError},
		{404, config.MsgNotFound},
		{500, config.MsgServerError},
		{418, config.MsgUnknownError},
	}
	for _, tt := range tests {
		fb, c := newFakeBackend(t)
		fb.handle("GET /api/notes/1", tt.status, `{"message":"boom"}`)

		_, err := c.GetNote(context.Background(), 1)
		require.Error(t, err)

		var opErr *OpError
		require.ErrorAs(t, err, &opErr)
		assert.Equal(t, config.MsgLoadNotesFailed, opErr.Op)
		assert.Equal(t, tt.status, Status(err))
		assert.Equal(t, config.MsgLoadNotesFailed+": "+tt.want, Message(err))

		var httpErr *HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, "boom", httpErr.Message)
	}
}

func TestNetworkError(t *testing.T) {
	cfg := config.Default()
	cfg.APIBaseURL = "http://127.0.0.1:1/api/notes"
	c := New(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := c.ListNotes(context.Background(), ListParams{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNetwork))
	assert.Equal(t, 0, Status(err))
	assert.Contains(t, Message(err), config.MsgNetworkError)
}

func TestCanceledContextPassesThrough(t *testing.T) {
	fb, c := newFakeBackend(t)
	fb.handle("GET /api/notes", 200, `{"content":[]}`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.ListNotes(ctx, ListParams{})
	assert.ErrorIs(t, err, context.Canceled)
	var opErr *OpError
	assert.False(t, errors.As(err, &opErr))
}

func TestListSubjects_propagates(t *testing.T) {
	fb, c := newFakeBackend(t)
	fb.handle("GET /api/notes/subjects", 500, "")

	_, err := c.ListSubjects(context.Background())
	assert.Error(t, err)

	fb.handle("GET /api/notes/subjects", 200, `["Go","Python"]`)
	subjects, err := c.ListSubjects(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "Python"}, subjects)
}

func TestListTags_swallowsErrors(t *testing.T) {
	fb, c := newFakeBackend(t)
	fb.handle("GET /api/notes/tags", 500, "")

	tags := c.ListTags(context.Background())
	assert.NotNil(t, tags)
	assert.Empty(t, tags)
}

func TestGet_skipsEmptyParams(t *testing.T) {
	fb, c := newFakeBackend(t)
	fb.handle("GET /api/notes/search", 200, `{"content":[]}`)

	err := c.Get(context.Background(), c.notesURL+"/search", map[string][]string{"a": {""}, "b": {"1"}}, nil)
	require.NoError(t, err)
	assert.Equal(t, "b=1", fb.last().Query)
}

func TestChat(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		want    string
		wantErr string
		is      error
	}{
		{"success", 200, `{"success":true,"response":"**hi**"}`, "**hi**", "", nil},
		{"error payload", 200, `{"error":"x"}`, "", "x", nil},
		{"error payload on 500", 500, `{"error":"model overloaded","success":false}`, "", "model overloaded", nil},
		{"legacy string", 200, `"plain answer"`, "plain answer", "", nil},
		{"bad shape", 200, `{"success":true}`, "", "", ErrAIResponseFormat},
		{"array", 200, `[1,2]`, "", "", ErrAIResponseFormat},
		{"unavailable", 503, `{"error":"down"}`, "", "", ErrAIUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb, c := newFakeBackend(t)
			fb.handle("POST /api/ai/chat", tt.status, tt.body)

			got, err := c.Chat(context.Background(), "  why?  ", " content \n")
			switch {
			case tt.is != nil:
				assert.ErrorIs(t, err, tt.is)
			case tt.wantErr != "":
				require.Error(t, err)
				assert.Equal(t, tt.wantErr, err.Error())
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}

			var sent chatRequest
			require.NoError(t, json.Unmarshal([]byte(fb.last().Body), &sent))
			assert.Equal(t, "why?", sent.Question)
			assert.Equal(t, "content", sent.NoteContent)
		})
	}
}

func TestChat_otherFailureIsWrapped(t *testing.T) {
	fb, c := newFakeBackend(t)
	fb.handle("POST /api/ai/chat", 500, "")

	_, err := c.Chat(context.Background(), "q", "c")
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), config.MsgAIRequestFailed+": "))
}

func TestHealth(t *testing.T) {
	fb, c := newFakeBackend(t)
	fb.handle("GET /api/ai/test", 200, "AI service is running")
	assert.True(t, c.Health(context.Background()))

	fb.handle("GET /api/ai/test", 503, "")
	assert.False(t, c.Health(context.Background()))
	assert.Equal(t, 2, fb.count())

	cfg := config.Default()
	cfg.AIBaseURL = "http://127.0.0.1:1/api/ai"
	down := New(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.False(t, down.Health(context.Background()))
}
