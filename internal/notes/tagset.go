package notes

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/yash-srivastava19/studynotes/internal/config"
)

var (
	ErrDuplicateTag = errors.New("tag already exists")
	ErrTooManyTags  = fmt.Errorf("at most %d tags are allowed", config.MaxTagsCount)
	ErrTagTooLong   = fmt.Errorf("a tag cannot exceed %d characters", config.MaxTagLength)
	ErrEmptyTag     = errors.New("tag is empty")
)

// TagSet is the ordered tag list edited in the note form. Rendered chips are
// a projection of it.
type TagSet struct {
	tags []string
}

func NewTagSet(tags ...string) *TagSet {
	ts := &TagSet{}
	ts.Set(tags)
	return ts
}

// Add appends tag after trimming. The set is unchanged when an error is returned.
func (ts *TagSet) Add(tag string) error {
	tag = strings.TrimSpace(tag)
	switch {
	case tag == "":
		return ErrEmptyTag
	case ts.Contains(tag):
		return ErrDuplicateTag
	case len(ts.tags) >= config.MaxTagsCount:
		return ErrTooManyTags
	case utf8.RuneCountInString(tag) > config.MaxTagLength:
		return ErrTagTooLong
	}
	ts.tags = append(ts.tags, tag)
	return nil
}

// Remove deletes tag, reporting whether it was present.
func (ts *TagSet) Remove(tag string) bool {
	for i, t := range ts.tags {
		if t == tag {
			ts.tags = append(ts.tags[:i], ts.tags[i+1:]...)
			return true
		}
	}
	return false
}

// Pop removes the last tag, as backspace on an empty input does.
func (ts *TagSet) Pop() (string, bool) {
	if len(ts.tags) == 0 {
		return "", false
	}
	last := ts.tags[len(ts.tags)-1]
	ts.tags = ts.tags[:len(ts.tags)-1]
	return last, true
}

func (ts *TagSet) Contains(tag string) bool {
	for _, t := range ts.tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Tags returns a copy in insertion order.
func (ts *TagSet) Tags() []string {
	out := make([]string, len(ts.tags))
	copy(out, ts.tags)
	return out
}

func (ts *TagSet) Len() int { return len(ts.tags) }

func (ts *TagSet) Reset() { ts.tags = nil }

// Set replaces the contents, silently skipping tags Add would reject.
func (ts *TagSet) Set(tags []string) {
	ts.tags = nil
	for _, t := range tags {
		_ = ts.Add(t)
	}
}
