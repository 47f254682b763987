// Package catalog filters the public event listing.
package catalog

import (
	"strings"

	"github.com/juntape/junta/internal/domain"
	"github.com/juntape/junta/internal/slug"
)

// AllCategories disables the category filter
const AllCategories = "all"

// Criteria for browse and search
type Criteria struct {
	Category string `form:"category" json:"category"`
	Query    string `form:"q" json:"q"`
}

// IsEmpty reports whether the criteria keep every published event
func (c Criteria) IsEmpty() bool {
	return categoryIsAll(c.Category) && strings.TrimSpace(c.Query) == ""
}

func categoryIsAll(category string) bool {
	c := strings.TrimSpace(category)
	return c == "" || strings.EqualFold(c, AllCategories)
}

// Matches reports whether a single event passes the criteria.
// Non-published events never match.
func Matches(e *domain.Event, c Criteria) bool {
	if e == nil || !e.IsPublic() {
		return false
	}
	if !categoryIsAll(c.Category) && !strings.EqualFold(string(e.Category), strings.TrimSpace(c.Category)) {
		return false
	}
	q := slug.Fold(strings.TrimSpace(c.Query))
	if q == "" {
		return true
	}
	return strings.Contains(slug.Fold(e.Title), q) ||
		strings.Contains(slug.Fold(e.Location), q) ||
		strings.Contains(slug.Fold(e.Subtitle), q)
}

// Filter keeps the events matching c, preserving order
func Filter(events []*domain.Event, c Criteria) []*domain.Event {
	out := make([]*domain.Event, 0, len(events))
	for _, e := range events {
		if Matches(e, c) {
			out = append(out, e)
		}
	}
	return out
}

// Featured returns up to n published events flagged as featured, in order
func Featured(events []*domain.Event, n int) []*domain.Event {
	if n < 0 {
		n = 0
	}
	out := make([]*domain.Event, 0, n)
	for _, e := range events {
		if len(out) == n {
			break
		}
		if e.IsPublic() && e.IsFeatured {
			out = append(out, e)
		}
	}
	return out
}

// Published drops every non-published event
func Published(events []*domain.Event) []*domain.Event {
	return Filter(events, Criteria{})
}
