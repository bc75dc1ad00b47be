package domain

import "github.com/google/uuid"

// Element is the polymorphic interface for everything that can be indexed,
// filtered, and returned by the query engine.
// Album, Artist, Genre, and Track implement this interface directly.
type Element interface {
	comparable

	// GetID returns the stable identifier of the element
	GetID() uuid.UUID

	// GetName returns the display name used for indexing and sorting
	GetName() string

	// GetKind returns which entity type this element is
	GetKind() Kind
}

// Named is the non-generic view of an Element, usable as an ordinary
// interface value (for sorting and rendering).
type Named interface {
	GetID() uuid.UUID
	GetName() string
	GetKind() Kind
}
