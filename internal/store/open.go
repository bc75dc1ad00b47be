package store

import (
	"context"
	"fmt"

	"github.com/mmcdole/avalon/internal/domain"
)

// Backend names accepted by Open
const (
	BackendBolt   = "bolt"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Open returns the record store for the configured backend
func Open(ctx context.Context, backend, path string) (domain.Store, error) {
	switch backend {
	case BackendBolt, "":
		s, err := NewBoltStore(path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendSQLite:
		s, err := NewSQLiteStore(ctx, path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedBackend, backend)
	}
}
