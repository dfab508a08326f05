package ai

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/yash-srivastava19/studynotes/internal/config"
	"github.com/yash-srivastava19/studynotes/internal/event"
	"github.com/yash-srivastava19/studynotes/internal/storage"
)

// Exchange is one answered question.
type Exchange struct {
	Question  string `json:"question"`
	Answer    string `json:"answer"`
	Timestamp string `json:"timestamp"`
}

// History persists exchanges per note, keeping the newest Limit entries.
// Storage failures are logged and otherwise ignored.
type History struct {
	store storage.Store
	limit int
	log   *slog.Logger
	now   func() time.Time
}

func NewHistory(store storage.Store, logger *slog.Logger) *History {
	if logger == nil {
		logger = slog.Default()
	}
	return &History{
		store: store,
		limit: config.HistoryLimit,
		log:   logger,
		now:   time.Now,
	}
}

func (h *History) Load(noteID int64) []Exchange {
	raw, ok, err := h.store.Get(config.ConversationKey(noteID))
	if err != nil {
		h.log.Warn("load conversation history", "note", noteID, "err", err)
		return nil
	}
	if !ok || raw == "" {
		return nil
	}
	var list []Exchange
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		h.log.Warn("decode conversation history", "note", noteID, "err", err)
		return nil
	}
	return list
}

// Recent returns up to n of the newest exchanges, oldest first.
func (h *History) Recent(noteID int64, n int) []Exchange {
	list := h.Load(noteID)
	if len(list) > n {
		list = list[len(list)-n:]
	}
	return list
}

func (h *History) Append(noteID int64, question, answer string) {
	list := h.Load(noteID)
	list = append(list, Exchange{
		Question:  question,
		Answer:    answer,
		Timestamp: h.now().UTC().Format("2006-01-02T15:04:05.000Z07:00"),
	})
	if len(list) > h.limit {
		list = list[len(list)-h.limit:]
	}

	data, err := json.Marshal(list)
	if err != nil {
		h.log.Warn("encode conversation history", "note", noteID, "err", err)
		return
	}
	if err := h.store.Set(config.ConversationKey(noteID), string(data)); err != nil {
		h.log.Warn("save conversation history", "note", noteID, "err", err)
	}
}

func (h *History) Clear(noteID int64) {
	if err := h.store.Delete(config.ConversationKey(noteID)); err != nil {
		h.log.Warn("clear conversation history", "note", noteID, "err", err)
	}
}

// ClearOnDelete drops a note's history when the note is deleted.
func (h *History) ClearOnDelete(bus *event.Bus) func() {
	return bus.Subscribe("ai-history", func(e event.Event) {
		if e.Type == event.Delete {
			h.Clear(e.NoteID)
		}
	})
}
