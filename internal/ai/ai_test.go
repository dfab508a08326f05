package ai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yash-srivastava19/studynotes/internal/config"
	"github.com/yash-srivastava19/studynotes/internal/event"
	"github.com/yash-srivastava19/studynotes/internal/storage"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

type fakeChat struct {
	healthy   bool
	probes    int
	answer    string
	err       error
	questions []string
	contents  []string
}

func (f *fakeChat) Chat(_ context.Context, q, content string) (string, error) {
	f.questions = append(f.questions, q)
	f.contents = append(f.contents, content)
	return f.answer, f.err
}

func (f *fakeChat) Health(context.Context) bool {
	f.probes++
	return f.healthy
}

func newAssistant(t *testing.T, chat *fakeChat) (*Assistant, *History) {
	t.Helper()
	h := NewHistory(storage.NewMemory(), quiet)
	a := NewAssistant(chat, h, quiet)
	a.Init(context.Background())
	return a, h
}

func TestFormat_HTML(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"**hi**", "<strong>hi</strong>"},
		{"a *b* c", "a <em>b</em> c"},
		{"use `go vet`", "use <code>go vet</code>"},
		{"line1\nline2", "line1<br>line2"},
		{"<script>x</script> **b**", "&lt;script&gt;x&lt;/script&gt; <strong>b</strong>"},
		{"**unclosed", "<em></em>unclosed"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Format(tt.in, HTMLStyler{}), tt.in)
	}
}

func TestFormat_PlainStripsEscapes(t *testing.T) {
	got := Format("\x1b[31mred\x1b[0m **bold**\a", PlainStyler{})
	assert.Equal(t, "red bold", got)
}

type tagStyler struct{ PlainStyler }

func (tagStyler) Bold(s string) string { return "[b]" + s + "[/b]" }

func TestFormat_customStyler(t *testing.T) {
	assert.Equal(t, "[b]hi[/b]", Format("**hi**", tagStyler{}))
}

func TestHistory_capsAt50(t *testing.T) {
	h := NewHistory(storage.NewMemory(), quiet)
	for i := 0; i < 55; i++ {
		h.Append(1, fmt.Sprintf("q%d", i), fmt.Sprintf("a%d", i))
	}

	list := h.Load(1)
	require.Len(t, list, config.HistoryLimit)
	assert.Equal(t, "q5", list[0].Question)
	assert.Equal(t, "q54", list[49].Question)
	assert.NotEmpty(t, list[0].Timestamp)

	recent := h.Recent(1, 5)
	require.Len(t, recent, 5)
	assert.Equal(t, "q50", recent[0].Question)

	assert.Empty(t, h.Load(2), "other notes untouched")

	h.Clear(1)
	assert.Empty(t, h.Load(1))
}

type failingStore struct{ *storage.Memory }

func (failingStore) Set(string, string) error { return errors.New("disk full") }

func TestHistory_storageErrorsAreSwallowed(t *testing.T) {
	h := NewHistory(failingStore{storage.NewMemory()}, quiet)
	h.Append(1, "q", "a")
	assert.Empty(t, h.Load(1))
}

func TestHistory_corruptValue(t *testing.T) {
	store := storage.NewMemory()
	require.NoError(t, store.Set(config.ConversationKey(3), "not json"))
	h := NewHistory(store, quiet)
	assert.Empty(t, h.Load(3))

	h.Append(3, "q", "a")
	assert.Len(t, h.Load(3), 1)
}

func TestHistory_ClearOnDelete(t *testing.T) {
	h := NewHistory(storage.NewMemory(), quiet)
	bus := event.NewBus()
	unsub := h.ClearOnDelete(bus)

	h.Append(1, "q", "a")
	h.Append(2, "q", "a")
	bus.Publish(event.New(event.Modify, 1))
	assert.Len(t, h.Load(1), 1)

	bus.Publish(event.New(event.Delete, 1))
	assert.Empty(t, h.Load(1))
	assert.Len(t, h.Load(2), 1)

	unsub()
	bus.Publish(event.New(event.Delete, 2))
	assert.Len(t, h.Load(2), 1)
}

func TestAssistant_InitProbesOnce(t *testing.T) {
	chat := &fakeChat{healthy: true}
	a, _ := newAssistant(t, chat)
	a.Init(context.Background())
	a.Init(context.Background())

	assert.Equal(t, 1, chat.probes)
	assert.True(t, a.Available())
}

func TestSession_AskSuccess(t *testing.T) {
	chat := &fakeChat{healthy: true, answer: "**hi**"}
	a, h := newAssistant(t, chat)
	s := a.Open(9, "note body")

	got, err := s.Ask(context.Background(), "  what?  ")
	require.NoError(t, err)
	assert.Equal(t, "**hi**", got)
	assert.Equal(t, []string{"what?"}, chat.questions)
	assert.Equal(t, []string{"note body"}, chat.contents)

	msgs := s.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, RoleUser, msgs[0].Role)
	assert.Equal(t, "**hi**", msgs[1].Text)
	assert.Contains(t, Format(msgs[1].Text, HTMLStyler{}), "<strong>hi</strong>")

	require.Len(t, h.Load(9), 1)
	assert.False(t, s.Busy())
}

func TestSession_AskFailureKeepsLength(t *testing.T) {
	chat := &fakeChat{healthy: true, err: errors.New("x")}
	a, h := newAssistant(t, chat)
	s := a.Open(9, "body")

	for i := 0; i < 3; i++ {
		_, err := s.Ask(context.Background(), "q")
		assert.EqualError(t, err, "x")
	}

	msgs := s.Messages()
	assert.Len(t, msgs, 6)
	last := msgs[len(msgs)-1]
	assert.True(t, last.IsError)
	assert.Equal(t, config.MsgAIApology, last.Text)
	for _, m := range msgs {
		assert.False(t, m.Pending)
	}
	assert.Empty(t, h.Load(9), "failures are not persisted")
}

func TestSession_BeginGuards(t *testing.T) {
	a, _ := newAssistant(t, &fakeChat{healthy: true})
	s := a.Open(1, "body")

	_, err := s.Begin("   ")
	assert.ErrorIs(t, err, ErrEmptyQuestion)

	p, err := s.Begin("first")
	require.NoError(t, err)
	msgs := s.Messages()
	require.Len(t, msgs, 2)
	assert.True(t, msgs[1].Pending)
	assert.Equal(t, config.MsgAIThinking, msgs[1].Text)

	_, err = s.Begin("second")
	assert.ErrorIs(t, err, ErrBusy)

	require.NoError(t, s.Complete(p, "done", nil))
	assert.Len(t, s.Messages(), 2)

	down, _ := newAssistant(t, &fakeChat{healthy: false})
	_, err = down.Open(1, "body").Begin("q")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestAssistant_OpenReplaysRecent(t *testing.T) {
	a, h := newAssistant(t, &fakeChat{healthy: true})
	for i := 0; i < 8; i++ {
		h.Append(4, fmt.Sprintf("q%d", i), fmt.Sprintf("a%d", i))
	}

	msgs := a.Open(4, "body").Messages()
	require.Len(t, msgs, 2*config.HistoryReplay)
	assert.Equal(t, "q3", msgs[0].Text)
	assert.Equal(t, "a7", msgs[len(msgs)-1].Text)
}

func TestSession_Clear(t *testing.T) {
	a, h := newAssistant(t, &fakeChat{healthy: true, answer: "ok"})
	s := a.Open(2, "body")
	_, err := s.Ask(context.Background(), "q")
	require.NoError(t, err)

	s.Clear()
	assert.Empty(t, s.Messages())
	assert.Empty(t, h.Load(2))
	assert.Empty(t, a.Open(2, "body").Messages())
}

func TestTermStyler_Escape(t *testing.T) {
	s := NewTermStyler(lipgloss.Color("6"))
	got := s.Escape("a\x1b]0;title\x07b\tc\nd\x00")
	assert.False(t, strings.ContainsAny(got, "\x1b\x07\x00"))
	assert.Contains(t, got, "\t")
	assert.Contains(t, got, "\n")
}
