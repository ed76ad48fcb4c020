package models

// Page is one server-side page of a collection plus its pagination metadata.
// CurrentPage is 1-based.
type Page[T any] struct {
	Items         []T
	CurrentPage   int
	TotalPages    int
	TotalElements int64
}
