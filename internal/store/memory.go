package store

import (
	"context"
	"slices"
	"sync"

	"github.com/mmcdole/avalon/internal/domain"
)

// MemoryStore implements domain.Store without persistence.
// Useful for one-shot scans and tests.
type MemoryStore struct {
	mu   sync.RWMutex
	recs domain.Records
}

// NewMemoryStore returns an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// GetAll copies the whole collection under one read lock
func (s *MemoryStore) GetAll(ctx context.Context) (domain.Records, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.Records{
		Albums:  slices.Clone(s.recs.Albums),
		Artists: slices.Clone(s.recs.Artists),
		Genres:  slices.Clone(s.recs.Genres),
		Tracks:  slices.Clone(s.recs.Tracks),
	}, nil
}

func (s *MemoryStore) GetAllAlbums(ctx context.Context) ([]domain.Album, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.recs.Albums), nil
}

func (s *MemoryStore) GetAllArtists(ctx context.Context) ([]domain.Artist, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.recs.Artists), nil
}

func (s *MemoryStore) GetAllGenres(ctx context.Context) ([]domain.Genre, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.recs.Genres), nil
}

func (s *MemoryStore) GetAllTracks(ctx context.Context) ([]domain.Track, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.recs.Tracks), nil
}

func (s *MemoryStore) ReplaceAll(ctx context.Context, recs domain.Records) error {
	next := domain.Records{
		Albums:  slices.Clone(recs.Albums),
		Artists: slices.Clone(recs.Artists),
		Genres:  slices.Clone(recs.Genres),
		Tracks:  slices.Clone(recs.Tracks),
	}
	s.mu.Lock()
	s.recs = next
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.recs.Tracks), nil
}

func (s *MemoryStore) Close() error { return nil }
