package entity

// Page is one window of a listing plus the total row count.
type Page[T any] struct {
	Items  []T
	Total  int64
	Limit  int
	Offset int
}
