package api

import (
	"context"
	"net/url"
	"strconv"

	"github.com/yash-srivastava19/studynotes/internal/config"
	"github.com/yash-srivastava19/studynotes/internal/notes"
)

// ListParams selects one page of the unfiltered list. Zero values take the client defaults.
type ListParams struct {
	Page    int
	Size    int
	SortBy  string
	SortDir string
}

func (c *Client) pageQuery(page, size int) url.Values {
	if size <= 0 {
		size = c.pageSize
	}
	if page < 0 {
		page = 0
	}
	return url.Values{
		"page": {strconv.Itoa(page)},
		"size": {strconv.Itoa(size)},
	}
}

func (c *Client) noteURL(id int64, suffix ...string) string {
	u := c.notesURL + "/" + strconv.FormatInt(id, 10)
	for _, s := range suffix {
		u += "/" + s
	}
	return u
}

func (c *Client) ListNotes(ctx context.Context, p ListParams) (*notes.Page, error) {
	q := c.pageQuery(p.Page, p.Size)
	q.Set("sortBy", p.SortBy)
	if p.SortBy == "" {
		q.Set("sortBy", c.sortBy)
	}
	q.Set("sortDir", p.SortDir)
	if p.SortDir == "" {
		q.Set("sortDir", c.sortDir)
	}

	var page notes.Page
	if err := c.Get(ctx, c.notesURL, q, &page); err != nil {
		return nil, wrap(config.MsgLoadNotesFailed, err)
	}
	page.Normalize()
	return &page, nil
}

func (c *Client) SearchNotes(ctx context.Context, f notes.Filters, page, size int) (*notes.Page, error) {
	q := c.pageQuery(page, size)
	for k, vs := range f.Query() {
		q[k] = vs
	}

	var result notes.Page
	if err := c.Get(ctx, c.notesURL+"/search", q, &result); err != nil {
		return nil, wrap(config.MsgLoadNotesFailed, err)
	}
	result.Normalize()
	return &result, nil
}

func (c *Client) ListFavorites(ctx context.Context, page, size int) (*notes.Page, error) {
	var result notes.Page
	if err := c.Get(ctx, c.notesURL+"/favorites", c.pageQuery(page, size), &result); err != nil {
		return nil, wrap(config.MsgLoadNotesFailed, err)
	}
	result.Normalize()
	return &result, nil
}

func (c *Client) GetNote(ctx context.Context, id int64) (*notes.Note, error) {
	var n notes.Note
	if err := c.Get(ctx, c.noteURL(id), nil, &n); err != nil {
		return nil, wrap(config.MsgLoadNotesFailed, err)
	}
	n.Normalize()
	return &n, nil
}

func (c *Client) CreateNote(ctx context.Context, in notes.NoteInput) (*notes.Note, error) {
	var n notes.Note
	if err := c.Post(ctx, c.notesURL, in, &n); err != nil {
		return nil, wrap(config.MsgSaveNoteFailed, err)
	}
	n.Normalize()
	return &n, nil
}

func (c *Client) UpdateNote(ctx context.Context, id int64, in notes.NoteInput) (*notes.Note, error) {
	var n notes.Note
	if err := c.Put(ctx, c.noteURL(id), in, &n); err != nil {
		return nil, wrap(config.MsgUpdateNoteFailed, err)
	}
	n.Normalize()
	return &n, nil
}

func (c *Client) DeleteNote(ctx context.Context, id int64) error {
	return wrap(config.MsgDeleteNoteFailed, c.Delete(ctx, c.noteURL(id)))
}

func (c *Client) ToggleFavorite(ctx context.Context, id int64) (*notes.Note, error) {
	var n notes.Note
	if err := c.Put(ctx, c.noteURL(id, "favorite"), nil, &n); err != nil {
		return nil, wrap(config.MsgToggleFavoriteFailed, err)
	}
	n.Normalize()
	return &n, nil
}

func (c *Client) ListSubjects(ctx context.Context) ([]string, error) {
	var subjects []string
	if err := c.Get(ctx, c.notesURL+"/subjects", nil, &subjects); err != nil {
		return nil, wrap(config.MsgLoadStatsFailed, err)
	}
	if subjects == nil {
		subjects = []string{}
	}
	return subjects, nil
}

// ListTags never fails: tags are an enhancement, so errors degrade to an empty list.
func (c *Client) ListTags(ctx context.Context) []string {
	var tags []string
	if err := c.Get(ctx, c.notesURL+"/tags", nil, &tags); err != nil {
		c.log.Warn("list tags failed", "err", err)
		return []string{}
	}
	if tags == nil {
		tags = []string{}
	}
	return tags
}
