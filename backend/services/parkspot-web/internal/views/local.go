package views

import "context"

// LoadAll fetches a whole collection that is paged in memory.
type LoadAll[T any] func(ctx context.Context) ([]T, error)

// LocalState is what a locally paged view remembers between requests. Items holds the whole
// collection; the pagination counts only the items that pass the current filter.
type LocalState[T any] struct {
	Items      []T        `json:"items"`
	Pagination Pagination `json:"pagination"`
	Loaded     bool       `json:"loaded"`
}

// NewLocalState returns the initial state: page 1 of 1.
func NewLocalState[T any](pageSize int) LocalState[T] {
	return LocalState[T]{Pagination: Pagination{CurrentPage: 1, TotalPages: 1, PageSize: pageSize}}
}

// Local drives a view whose collection is fetched once and sliced locally.
type Local[T any] struct {
	State LocalState[T]
	load  LoadAll[T]
	keep  func(T) bool
}

// NewLocal returns controller for state. keep may be nil when every item is shown.
func NewLocal[T any](state LocalState[T], load LoadAll[T], keep func(T) bool) *Local[T] {
	return &Local[T]{State: state, load: load, keep: keep}
}

// Load fetches the collection and stays on the current page, or the last one if it shrank.
func (l *Local[T]) Load(ctx context.Context) error {
	items, err := l.load(ctx)
	if err != nil {
		return err
	}
	l.State.Items = items
	l.State.Loaded = true
	l.repage(l.State.Pagination.CurrentPage)
	return nil
}

// GoTo moves to page without contacting the backend. A page outside 1..TotalPages is ignored and
// GoTo reports false.
func (l *Local[T]) GoTo(page int) bool {
	if !l.State.Pagination.InRange(page) {
		return false
	}
	l.State.Pagination.CurrentPage = page
	return true
}

// Refilter replaces the filter and returns to page 1.
func (l *Local[T]) Refilter(keep func(T) bool) {
	l.keep = keep
	l.repage(1)
}

// Visible returns the current page of the filtered collection.
func (l *Local[T]) Visible() []T {
	p := l.State.Pagination
	return Paginate(l.matching(), p.CurrentPage, p.PageSize).Items
}

func (l *Local[T]) repage(page int) {
	l.State.Pagination = Paginate(l.matching(), page, l.State.Pagination.PageSize).Pagination
}

func (l *Local[T]) matching() []T {
	if l.keep == nil {
		return l.State.Items
	}
	out := make([]T, 0, len(l.State.Items))
	for _, item := range l.State.Items {
		if l.keep(item) {
			out = append(out, item)
		}
	}
	return out
}
