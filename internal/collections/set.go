// Package collections holds small generic containers
package collections

import "fmt"

// Set is a set that remembers insertion order. The zero value is empty and
// ready to use.
type Set[T comparable] struct {
	index map[T]struct{}
	items []T
}

// NewSet creates a set holding vs, in order, without repeats
func NewSet[T comparable](vs ...T) *Set[T] {
	s := &Set[T]{}
	s.Add(vs...)
	return s
}

// Add appends the values not already present
func (s *Set[T]) Add(vs ...T) {
	if s.index == nil {
		s.index = make(map[T]struct{}, len(vs))
	}
	for _, v := range vs {
		if _, ok := s.index[v]; ok {
			continue
		}
		s.index[v] = struct{}{}
		s.items = append(s.items, v)
	}
}

// Has reports whether v is in the set
func (s *Set[T]) Has(v T) bool {
	_, ok := s.index[v]
	return ok
}

// Len returns the number of members
func (s *Set[T]) Len() int {
	return len(s.items)
}

// Members returns the members in the order they were first added
func (s *Set[T]) Members() []T {
	return append(make([]T, 0, len(s.items)), s.items...)
}

// String formats the members like a slice
func (s *Set[T]) String() string {
	return fmt.Sprintf("%v", s.items)
}
