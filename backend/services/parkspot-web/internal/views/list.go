package views

import (
	"context"

	"parkspot/backend/services/parkspot-web/internal/models"
)

// Fetcher loads one page from the backend. query is the server-side search term, empty if none.
type Fetcher[T any] func(ctx context.Context, page, size int, query string) (models.Page[T], error)

// Matcher reports whether item passes the local filter value.
type Matcher[T any] func(item T, value string) bool

// State is everything a list view remembers between requests.
type State[T any] struct {
	Items      []T        `json:"items"`
	Pagination Pagination `json:"pagination"`
	Filter     string     `json:"filter"`
	Query      string     `json:"query"`
	Loaded     bool       `json:"loaded"`
}

// NewState returns the initial state of a view: page 1, one known page, no filter.
func NewState[T any](pageSize int, filter string) State[T] {
	return State[T]{
		Pagination: Pagination{CurrentPage: 1, TotalPages: 1, PageSize: pageSize},
		Filter:     filter,
	}
}

// List drives one paged list view.
type List[T any] struct {
	State State[T]
	fetch Fetcher[T]
	match Matcher[T]
}

// NewList returns controller for state. match may be nil when the view has no local filter.
func NewList[T any](state State[T], fetch Fetcher[T], match Matcher[T]) *List[T] {
	return &List[T]{State: state, fetch: fetch, match: match}
}

// Load fetches the current page.
func (l *List[T]) Load(ctx context.Context) error {
	p := l.State.Pagination
	page, err := l.fetch(ctx, p.CurrentPage, p.PageSize, l.State.Query)
	if err != nil {
		return err
	}

	l.State.Items = page.Items
	l.State.Loaded = true
	l.State.Pagination.TotalPages = page.TotalPages
	l.State.Pagination.TotalElements = page.TotalElements
	if page.CurrentPage > 0 {
		l.State.Pagination.CurrentPage = page.CurrentPage
	}
	return nil
}

// GoTo moves to page. A page outside 1..TotalPages is ignored without contacting the backend and
// GoTo reports false.
func (l *List[T]) GoTo(ctx context.Context, page int) (bool, error) {
	if !l.State.Pagination.InRange(page) {
		return false, nil
	}
	prev := l.State.Pagination.CurrentPage
	l.State.Pagination.CurrentPage = page
	if err := l.Load(ctx); err != nil {
		l.State.Pagination.CurrentPage = prev
		return true, err
	}
	return true, nil
}

// SetFilter changes the local filter. Only the loaded page is narrowed.
func (l *List[T]) SetFilter(value string) {
	l.State.Filter = value
}

// Visible returns the loaded items that pass the filter.
func (l *List[T]) Visible() []T {
	if l.match == nil {
		return l.State.Items
	}
	out := make([]T, 0, len(l.State.Items))
	for _, item := range l.State.Items {
		if l.match(item, l.State.Filter) {
			out = append(out, item)
		}
	}
	return out
}

// Search sets the server-side query and reloads from page 1.
func (l *List[T]) Search(ctx context.Context, query string) error {
	l.State.Query = query
	l.State.Pagination.CurrentPage = 1
	return l.Load(ctx)
}

// Reset returns to page 1 and reloads.
func (l *List[T]) Reset(ctx context.Context) error {
	l.State.Pagination.CurrentPage = 1
	return l.Load(ctx)
}
