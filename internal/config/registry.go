package config

import (
	"net/http"
	"strconv"
)

// Paging and validation limits.
const (
	PageSize    = 12
	MaxPageSize = 100

	MaxSubjectLength = 100
	MaxTitleLength   = 200
	MaxContentLength = 10000
	MaxTagsCount     = 20
	MaxTagLength     = 50

	CardContentLength = 150
	CardTagCount      = 3
	PageWindow        = 2

	HistoryLimit  = 50
	HistoryReplay = 5
)

// Storage keys.
const (
	ThemeKey              = "theme"
	ConversationKeyPrefix = "ai_conversation_"
)

// ConversationKey is the storage key holding the AI history of one note.
func ConversationKey(noteID int64) string {
	return ConversationKeyPrefix + strconv.FormatInt(noteID, 10)
}

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Toggle returns the opposite theme. Unknown values become dark, as light is the default.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// Icon is the status-bar glyph for the theme: the one you would switch to.
func (t Theme) Icon() string {
	if t == ThemeDark {
		return "☀"
	}
	return "☾"
}

// ParseTheme maps a stored value to a theme, defaulting to light.
func ParseTheme(s string) Theme {
	if Theme(s) == ThemeDark {
		return ThemeDark
	}
	return ThemeLight
}

// User-facing messages.
const (
	MsgNetworkError    = "network unavailable, check your connection"
	MsgServerError     = "server error, try again later"
	MsgNotFound        = "the requested resource does not exist"
	MsgValidationError = "data validation failed"
	MsgUnknownError    = "an unknown error occurred"

	MsgLoadNotesFailed      = "failed to load notes"
	MsgSaveNoteFailed       = "failed to save note"
	MsgUpdateNoteFailed     = "failed to update note"
	MsgDeleteNoteFailed     = "failed to delete note"
	MsgToggleFavoriteFailed = "failed to toggle favorite"
	MsgLoadStatsFailed      = "failed to load stats"

	MsgAIUnavailable    = "AI service is temporarily unavailable, try again later"
	MsgAIRequestFailed  = "AI request failed"
	MsgAIResponseFormat = "AI response has an unexpected format"
	MsgAIApology        = "Sorry, I can't answer your question right now. Please try again later."
	MsgAIThinking       = "thinking..."
	MsgAIEmptyQuestion  = "please enter a question"
	MsgAICleared        = "conversation cleared"

	MsgNoteCreated     = "note created"
	MsgNoteUpdated     = "note updated"
	MsgNoteDeleted     = "note deleted"
	MsgFavoriteAdded   = "added to favorites"
	MsgFavoriteRemoved = "removed from favorites"

	MsgTagExists    = "tag already exists"
	MsgBusy         = "an operation on this note is still running"
	MsgInitFailed   = "startup failed, restart the app"
	MsgCopied       = "note content copied"
	MsgShowAll      = "showing all notes"
	MsgShowFavorite = "showing favorite notes"
)

// StatusMessage maps an HTTP status to its user-facing message.
func StatusMessage(status int) string {
	switch status {
	case 0:
		return MsgNetworkError
	case http.StatusBadRequest:
		return MsgValidationError
	case http.StatusNotFound:
		return MsgNotFound
	case http.StatusInternalServerError:
		return MsgServerError
	case http.StatusServiceUnavailable:
		return MsgAIUnavailable
	default:
		return MsgUnknownError
	}
}

// Subjects offered by the note editor.
var Subjects = []string{
	"Java",
	"Python",
	"JavaScript",
	"React",
	"Spring Boot",
	"Databases",
	"Algorithms",
	"System Design",
	"HTML/CSS",
	"Other",
}

var subjectIcons = map[string]string{
	"Java":          "☕",
	"Python":        "🐍",
	"JavaScript":    "📜",
	"React":         "⚛",
	"Spring Boot":   "🍃",
	"Databases":     "🗄",
	"Algorithms":    "🧮",
	"System Design": "🏗",
	"HTML/CSS":      "🎨",
	"Other":         "📁",
}

// SubjectIcon returns the icon for subject, falling back to the "Other" icon.
func SubjectIcon(subject string) string {
	if icon, ok := subjectIcons[subject]; ok {
		return icon
	}
	return subjectIcons["Other"]
}
