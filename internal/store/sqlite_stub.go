//go:build !cgo

package store

import (
	"context"
	"fmt"

	"github.com/mmcdole/avalon/internal/domain"
)

// SQLiteStore is unavailable without cgo; NewSQLiteStore always fails.
type SQLiteStore struct {
	MemoryStore
}

func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	return nil, fmt.Errorf("%w: sqlite requires a cgo build, use the bolt backend or rebuild with CGO_ENABLED=1", domain.ErrUnsupportedBackend)
}
