package notes

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/yash-srivastava19/studynotes/internal/config"
)

// Filters narrows the note list. Empty strings and a nil IsFavorite mean "no filter".
type Filters struct {
	Keyword    string
	Subject    string
	Tag        string
	IsFavorite *bool
}

// Active reports whether any filter is set, which switches loading from list to search.
func (f Filters) Active() bool {
	return strings.TrimSpace(f.Keyword) != "" || f.Subject != "" || f.Tag != "" || f.IsFavorite != nil
}

// Reset clears subject, tag and favorite. The keyword survives.
func (f *Filters) Reset() {
	f.Subject = ""
	f.Tag = ""
	f.IsFavorite = nil
}

// Query encodes the set filters, omitting empty ones.
func (f Filters) Query() url.Values {
	q := url.Values{}
	if kw := strings.TrimSpace(f.Keyword); kw != "" {
		q.Set("keyword", kw)
	}
	if f.Subject != "" {
		q.Set("subject", f.Subject)
	}
	if f.Tag != "" {
		q.Set("tag", f.Tag)
	}
	if f.IsFavorite != nil {
		q.Set("isFavorite", strconv.FormatBool(*f.IsFavorite))
	}
	return q
}

// Favorite returns a pointer suitable for Filters.IsFavorite.
func Favorite(v bool) *bool {
	return &v
}

// Pager tracks the current page within the last known page count.
type Pager struct {
	Current int
	Total   int
}

// Go moves to page p if it is within [0, Total-1]. Out-of-range requests change nothing.
func (p *Pager) Go(page int) bool {
	if page < 0 || page >= p.Total {
		return false
	}
	p.Current = page
	return true
}

// SetTotal records a new page count, pulling Current back into range.
func (p *Pager) SetTotal(total int) {
	if total < 0 {
		total = 0
	}
	p.Total = total
	if p.Current >= total {
		p.Current = max(0, total-1)
	}
}

func (p Pager) HasPrev() bool { return p.Current > 0 }
func (p Pager) HasNext() bool { return p.Current < p.Total-1 }

// Visible reports whether pagination controls are shown at all.
func (p Pager) Visible() bool { return p.Total > 1 }

// Window returns the page numbers shown as buttons: up to two either side
// of the current page, clipped to bounds.
func (p Pager) Window() []int {
	if p.Total <= 0 {
		return nil
	}
	start := max(0, p.Current-config.PageWindow)
	end := min(p.Total-1, p.Current+config.PageWindow)
	pages := make([]int, 0, end-start+1)
	for i := start; i <= end; i++ {
		pages = append(pages, i)
	}
	return pages
}
