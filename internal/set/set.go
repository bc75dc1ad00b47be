// Package set provides an immutable hash set. A Set never changes after it is
// built, so it can be shared between goroutines and handed to callers without
// copying.
package set

import "iter"

// Set is an immutable set of comparable values. The zero value is empty.
type Set[T comparable] struct {
	m map[T]struct{}
}

// Of returns a set containing the given items
func Of[T comparable](items ...T) Set[T] {
	if len(items) == 0 {
		return Set[T]{}
	}
	m := make(map[T]struct{}, len(items))
	for _, it := range items {
		m[it] = struct{}{}
	}
	return Set[T]{m: m}
}

// Len returns the number of members
func (s Set[T]) Len() int { return len(s.m) }

// Empty reports whether the set has no members
func (s Set[T]) Empty() bool { return len(s.m) == 0 }

// Contains reports whether v is a member
func (s Set[T]) Contains(v T) bool {
	_, ok := s.m[v]
	return ok
}

// All iterates over members in unspecified order
func (s Set[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for v := range s.m {
			if !yield(v) {
				return
			}
		}
	}
}

// Slice returns the members as a new slice in unspecified order
func (s Set[T]) Slice() []T {
	out := make([]T, 0, len(s.m))
	for v := range s.m {
		out = append(out, v)
	}
	return out
}

// Union returns a new set with the members of every given set
func Union[T comparable](sets ...Set[T]) Set[T] {
	var b Builder[T]
	for _, s := range sets {
		for v := range s.m {
			b.Add(v)
		}
	}
	return b.Build()
}

// Intersection returns the members common to every given set. With no
// arguments the result is empty; callers decide what "no criteria" means.
func Intersection[T comparable](sets ...Set[T]) Set[T] {
	if len(sets) == 0 {
		return Set[T]{}
	}

	// Walk the smallest set and probe the rest
	smallest := 0
	for i, s := range sets {
		if s.Len() < sets[smallest].Len() {
			smallest = i
		}
	}

	var b Builder[T]
outer:
	for v := range sets[smallest].m {
		for i, s := range sets {
			if i != smallest && !s.Contains(v) {
				continue outer
			}
		}
		b.Add(v)
	}
	return b.Build()
}

// Builder accumulates members and produces an immutable Set.
// A Builder must not be used after Build.
type Builder[T comparable] struct {
	m map[T]struct{}
}

// Add inserts v into the set under construction
func (b *Builder[T]) Add(v T) {
	if b.m == nil {
		b.m = make(map[T]struct{})
	}
	b.m[v] = struct{}{}
}

// Len returns the number of members added so far
func (b *Builder[T]) Len() int { return len(b.m) }

// Build returns the finished set and releases the builder's reference to it
func (b *Builder[T]) Build() Set[T] {
	s := Set[T]{m: b.m}
	b.m = nil
	return s
}

// Freeze wraps m as a Set without copying. The caller must not modify m
// afterward.
func Freeze[T comparable](m map[T]struct{}) Set[T] {
	return Set[T]{m: m}
}
