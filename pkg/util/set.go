package util

// Set is a generic unordered collection of unique elements
type Set[T comparable] map[T]struct{}

// SetOf creates a Set from the provided elements, removing duplicates
func SetOf[T comparable](elems ...T) Set[T] {
	res := make(Set[T], len(elems))
	for _, e := range elems {
		res.Add(e)
	}
	return res
}

// Add inserts an element into the set
func (s Set[T]) Add(e T) {
	s[e] = struct{}{}
}

// Remove deletes an element from the set
func (s Set[T]) Remove(e T) {
	delete(s, e)
}

// Contains reports whether the element is in the set
func (s Set[T]) Contains(e T) bool {
	_, ok := s[e]
	return ok
}

// Len returns the number of elements in the set
func (s Set[T]) Len() int {
	return len(s)
}

// IsEmpty reports whether the set has no elements
func (s Set[T]) IsEmpty() bool {
	return len(s) == 0
}
