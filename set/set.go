// Package set provides ordered sets of distinct values backed by sorted slices.
package set

import (
	"sort"

	"golang.org/x/exp/constraints"
)

// Slice must be sorted in ascending order.
type Slice[T constraints.Ordered] []T

// Of returns a set of the distinct values in xs.
func Of[T constraints.Ordered](xs ...T) Slice[T] {
	var a Slice[T]
	for _, x := range xs {
		a.Insert(x)
	}
	return a
}

func (a Slice[T]) search(x T) int {
	return sort.Search(len(a), func(i int) bool { return a[i] >= x })
}

// Insert x in place if not exists; returns x index and true if inserted.
func (a *Slice[T]) Insert(x T) (i int, ok bool) {
	i = a.search(x)
	if ok = i == len(*a) || (*a)[i] != x; ok {
		*a = append(*a, *new(T))
		copy((*a)[i+1:], (*a)[i:])
		(*a)[i] = x
	}
	return
}

// Remove x if exists; returns true if removed.
func (a *Slice[T]) Remove(x T) bool {
	i := a.search(x)
	if i == len(*a) || (*a)[i] != x {
		return false
	}
	*a = append((*a)[:i], (*a)[i+1:]...)
	return true
}

// Has reports whether x is in a.
func (a Slice[T]) Has(x T) bool {
	i := a.search(x)
	return !(i == len(a) || a[i] != x)
}

// Equal reports whether a and b hold the same values.
func (a Slice[T]) Equal(b Slice[T]) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of a that shares no memory.
func (a Slice[T]) Clone() Slice[T] {
	if a == nil {
		return nil
	}
	return append(Slice[T](nil), a...)
}

// Filter without allocating.
func Filter[T constraints.Ordered](a *[]T) {
	b := Slice[T]((*a)[:0])
	for _, x := range *a {
		b.Insert(x)
	}
	*a = b
}
