package domain

import "context"

// RecordSource is read access to the authoritative collection store.
// Called only from reload paths. GetAll reads all four record sets in one
// read transaction, so a concurrent ReplaceAll is seen entirely or not at all.
type RecordSource interface {
	GetAll(ctx context.Context) (Records, error)
}

// RecordWriter replaces the whole collection in one transaction.
type RecordWriter interface {
	ReplaceAll(ctx context.Context, records Records) error
}

// Store is a backing record store (BoltDB or SQLite).
type Store interface {
	RecordSource
	RecordWriter

	// Count returns the number of tracks currently stored
	Count(ctx context.Context) (int, error)

	// === Lifecycle ===
	Close() error
}

// Records is one complete collection generation as written at ingest time.
type Records struct {
	Albums  []Album
	Artists []Artist
	Genres  []Genre
	Tracks  []Track
}

// Scanner reads tag metadata for every audio file under a collection root.
type Scanner interface {
	Crawl(ctx context.Context, root string) ([]Metadata, error)
}
