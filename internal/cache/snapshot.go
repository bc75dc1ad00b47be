// Package cache holds the immutable per-generation views of the collection:
// entity snapshots, track groupings, and the name to ID resolution table.
// Everything here is built once from a complete record set and never
// modified, so a generation can be read from any goroutine while the next
// one is being built.
package cache

import (
	"github.com/google/uuid"
	"github.com/mmcdole/avalon/internal/domain"
	"github.com/mmcdole/avalon/internal/set"
)

// Snapshot is one generation of a single entity type
type Snapshot[T domain.Element] struct {
	all  set.Set[T]
	byID map[uuid.UUID]T
}

// NewSnapshot builds a snapshot from a complete record set. Later records
// with a repeated ID replace earlier ones.
func NewSnapshot[T domain.Element](items []T) *Snapshot[T] {
	byID := make(map[uuid.UUID]T, len(items))
	for _, it := range items {
		byID[it.GetID()] = it
	}

	var b set.Builder[T]
	for _, it := range byID {
		b.Add(it)
	}

	return &Snapshot[T]{all: b.Build(), byID: byID}
}

// All returns every entity in the snapshot
func (s *Snapshot[T]) All() set.Set[T] {
	return s.all
}

// Get returns the entity with the given ID
func (s *Snapshot[T]) Get(id uuid.UUID) (T, bool) {
	v, ok := s.byID[id]
	return v, ok
}

// Len returns the number of entities
func (s *Snapshot[T]) Len() int {
	return s.all.Len()
}
