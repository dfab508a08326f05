package notes

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/yash-srivastava19/studynotes/internal/config"
)

// NoteInput is the body sent on create and update.
type NoteInput struct {
	Subject string   `json:"subject"`
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

// FieldError is a validation failure on one form field.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// FieldErrors keeps form order: subject, title, content, tags.
type FieldErrors []FieldError

func (fe FieldErrors) Error() string {
	if len(fe) == 0 {
		return ""
	}
	return fe[0].Message
}

// First is the error surfaced to the user. Callers check len first.
func (fe FieldErrors) First() FieldError {
	return fe[0]
}

func (fe FieldErrors) Has(field string) bool {
	for _, e := range fe {
		if e.Field == field {
			return true
		}
	}
	return false
}

// Validate checks required fields, length ceilings and the tag count.
// It returns nil when the input can be submitted.
func (in NoteInput) Validate() FieldErrors {
	var errs FieldErrors

	check := func(field, value, missing string, limit int) {
		switch {
		case strings.TrimSpace(value) == "":
			errs = append(errs, FieldError{field, missing})
		case utf8.RuneCountInString(value) > limit:
			errs = append(errs, FieldError{field, fmt.Sprintf("%s cannot exceed %d characters", field, limit)})
		}
	}
	check("subject", in.Subject, "please choose a subject", config.MaxSubjectLength)
	check("title", in.Title, "please enter a title", config.MaxTitleLength)
	check("content", in.Content, "please enter some content", config.MaxContentLength)

	if len(in.Tags) > config.MaxTagsCount {
		errs = append(errs, FieldError{"tags", fmt.Sprintf("at most %d tags are allowed", config.MaxTagsCount)})
	}
	return errs
}
