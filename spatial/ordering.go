package spatial

import "cmp"

// Comparator defines a total order over T. Compare returns a negative number
// when a < b, zero when a == b and a positive number when a > b.
type Comparator[T any] interface {
	Compare(a, b T) int
}

// CompareFunc adapts a function to the Comparator interface.
type CompareFunc[T any] func(a, b T) int

func (f CompareFunc[T]) Compare(a, b T) int {
	return f(a, b)
}

type natural[T cmp.Ordered] struct{}

func (natural[T]) Compare(a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	case a == b:
		return 0
	default:
		// Unordered values (NaN) never compare equal, not even to themselves,
		// which makes them invalid key components.
		return 1
	}
}

// Natural returns the natural ordering of T.
func Natural[T cmp.Ordered]() Comparator[T] {
	return natural[T]{}
}

// Reverse returns the reverse ordering of c.
func Reverse[T any](c Comparator[T]) Comparator[T] {
	return CompareFunc[T](func(a, b T) int {
		return c.Compare(b, a)
	})
}
