// Package ai holds the per-note assistant: the chat transcript, its
// persisted history and the formatting of replies.
package ai

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/yash-srivastava19/studynotes/internal/config"
)

var (
	ErrEmptyQuestion = errors.New(config.MsgAIEmptyQuestion)
	ErrUnavailable   = errors.New(config.MsgAIUnavailable)
	ErrBusy          = errors.New("a question is already being answered")
)

// Chatter is the backend side of the assistant.
type Chatter interface {
	Chat(ctx context.Context, question, noteContent string) (string, error)
	Health(ctx context.Context) bool
}

type Role string

const (
	RoleUser Role = "user"
	RoleAI   Role = "ai"
)

type Message struct {
	Role    Role
	Text    string
	IsError bool
	Pending bool // the thinking placeholder
}

// Assistant owns the availability flag and opens one Session per note.
type Assistant struct {
	chat      Chatter
	history   *History
	log       *slog.Logger
	mu        sync.Mutex
	probed    bool
	available bool
}

func NewAssistant(chat Chatter, history *History, logger *slog.Logger) *Assistant {
	if logger == nil {
		logger = slog.Default()
	}
	return &Assistant{chat: chat, history: history, log: logger}
}

// Init probes the service once. Later calls return the cached result.
func (a *Assistant) Init(ctx context.Context) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.probed {
		return a.available
	}
	a.available = a.chat.Health(ctx)
	a.probed = true
	a.log.Info("ai service probed", "available", a.available)
	return a.available
}

func (a *Assistant) Available() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.available
}

func (a *Assistant) History() *History { return a.history }

// Open starts a session for a note and replays its most recent exchanges.
func (a *Assistant) Open(noteID int64, noteContent string) *Session {
	s := &Session{a: a, NoteID: noteID, content: noteContent}
	for _, ex := range a.history.Recent(noteID, config.HistoryReplay) {
		s.msgs = append(s.msgs,
			Message{Role: RoleUser, Text: ex.Question},
			Message{Role: RoleAI, Text: ex.Answer},
		)
	}
	return s
}

// Pending is a question that has been shown but not yet answered.
type Pending struct {
	Question    string
	NoteContent string
}

// Chat sends a pending question. It does not touch the session, so it can
// run off the UI goroutine.
func (a *Assistant) Chat(ctx context.Context, p *Pending) (string, error) {
	return a.chat.Chat(ctx, p.Question, p.NoteContent)
}

// Session is the transcript attached to one note's detail view.
type Session struct {
	a       *Assistant
	NoteID  int64
	content string
	msgs    []Message
	busy    bool
}

func (s *Session) Messages() []Message {
	out := make([]Message, len(s.msgs))
	copy(out, s.msgs)
	return out
}

func (s *Session) Busy() bool { return s.busy }

// Begin shows the question and a thinking placeholder.
func (s *Session) Begin(question string) (*Pending, error) {
	question = strings.TrimSpace(question)
	switch {
	case question == "":
		return nil, ErrEmptyQuestion
	case !s.a.Available():
		return nil, ErrUnavailable
	case s.busy:
		return nil, ErrBusy
	}
	s.busy = true
	s.msgs = append(s.msgs,
		Message{Role: RoleUser, Text: question},
		Message{Role: RoleAI, Text: config.MsgAIThinking, Pending: true},
	)
	return &Pending{Question: question, NoteContent: s.content}, nil
}

// Complete replaces the placeholder with the answer, or with the apology
// when err is set. The error is returned for the caller to report.
func (s *Session) Complete(p *Pending, answer string, err error) error {
	s.busy = false
	for i := len(s.msgs) - 1; i >= 0; i-- {
		if s.msgs[i].Pending {
			s.msgs = append(s.msgs[:i], s.msgs[i+1:]...)
			break
		}
	}
	if err != nil {
		s.a.log.Warn("ai answer failed", "note", s.NoteID, "err", err)
		s.msgs = append(s.msgs, Message{Role: RoleAI, Text: config.MsgAIApology, IsError: true})
		return err
	}
	s.msgs = append(s.msgs, Message{Role: RoleAI, Text: answer})
	s.a.history.Append(s.NoteID, p.Question, answer)
	return nil
}

// Ask runs one full exchange synchronously.
func (s *Session) Ask(ctx context.Context, question string) (string, error) {
	p, err := s.Begin(question)
	if err != nil {
		return "", err
	}
	answer, err := s.a.Chat(ctx, p)
	if err := s.Complete(p, answer, err); err != nil {
		return "", err
	}
	return answer, nil
}

// Clear empties the transcript and the stored history.
func (s *Session) Clear() {
	s.msgs = nil
	s.a.history.Clear(s.NoteID)
}
