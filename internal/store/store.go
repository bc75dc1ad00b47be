package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mmcdole/avalon/internal/domain"
	bolt "go.etcd.io/bbolt"
)

// Bucket names
var (
	bucketAlbums  = []byte("albums")
	bucketArtists = []byte("artists")
	bucketGenres  = []byte("genres")
	bucketTracks  = []byte("tracks")

	allBuckets = [][]byte{bucketAlbums, bucketArtists, bucketGenres, bucketTracks}
)

// BoltStore implements domain.Store using BoltDB. Each entity is stored as
// JSON keyed by its 16-byte ID.
type BoltStore struct {
	db *bolt.DB
}

// NewBoltStore opens (or creates) the database file at path
func NewBoltStore(path string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	// Create buckets
	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range allBuckets {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db}, nil
}

func (s *BoltStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// === Record source ===

// GetAll reads all four buckets in one read transaction
func (s *BoltStore) GetAll(ctx context.Context) (domain.Records, error) {
	if err := ctx.Err(); err != nil {
		return domain.Records{}, err
	}

	var recs domain.Records
	err := s.db.View(func(tx *bolt.Tx) error {
		var err error
		if recs.Albums, err = decodeBucket[domain.Album](tx, bucketAlbums); err != nil {
			return err
		}
		if recs.Artists, err = decodeBucket[domain.Artist](tx, bucketArtists); err != nil {
			return err
		}
		if recs.Genres, err = decodeBucket[domain.Genre](tx, bucketGenres); err != nil {
			return err
		}
		recs.Tracks, err = decodeBucket[domain.Track](tx, bucketTracks)
		return err
	})
	if err != nil {
		return domain.Records{}, err
	}
	return recs, nil
}

func (s *BoltStore) GetAllAlbums(ctx context.Context) ([]domain.Album, error) {
	return readAll[domain.Album](ctx, s.db, bucketAlbums)
}

func (s *BoltStore) GetAllArtists(ctx context.Context) ([]domain.Artist, error) {
	return readAll[domain.Artist](ctx, s.db, bucketArtists)
}

func (s *BoltStore) GetAllGenres(ctx context.Context) ([]domain.Genre, error) {
	return readAll[domain.Genre](ctx, s.db, bucketGenres)
}

func (s *BoltStore) GetAllTracks(ctx context.Context) ([]domain.Track, error) {
	return readAll[domain.Track](ctx, s.db, bucketTracks)
}

func (s *BoltStore) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	var n int
	err := s.db.View(func(tx *bolt.Tx) error {
		n = tx.Bucket(bucketTracks).Stats().KeyN
		return nil
	})
	return n, err
}

// === Record writer ===

// ReplaceAll swaps the stored collection for recs in a single transaction.
// Readers see either the old collection or the new one.
func (s *BoltStore) ReplaceAll(ctx context.Context, recs domain.Records) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range allBuckets {
			if err := tx.DeleteBucket(bucket); err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
				return err
			}
			if _, err := tx.CreateBucket(bucket); err != nil {
				return err
			}
		}

		if err := writeAll(tx.Bucket(bucketAlbums), recs.Albums); err != nil {
			return err
		}
		if err := writeAll(tx.Bucket(bucketArtists), recs.Artists); err != nil {
			return err
		}
		if err := writeAll(tx.Bucket(bucketGenres), recs.Genres); err != nil {
			return err
		}
		return writeAll(tx.Bucket(bucketTracks), recs.Tracks)
	})
	if err != nil {
		return fmt.Errorf("failed to replace collection: %w", err)
	}
	return nil
}

// === Generic helpers ===

func readAll[T any](ctx context.Context, db *bolt.DB, bucket []byte) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []T
	err := db.View(func(tx *bolt.Tx) error {
		var err error
		out, err = decodeBucket[T](tx, bucket)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func decodeBucket[T any](tx *bolt.Tx, bucket []byte) ([]T, error) {
	b := tx.Bucket(bucket)
	if b == nil {
		return nil, nil
	}
	out := make([]T, 0, b.Stats().KeyN)
	err := b.ForEach(func(k, v []byte) error {
		var item T
		if err := json.Unmarshal(v, &item); err != nil {
			return fmt.Errorf("corrupt %s record %x: %w", bucket, k, err)
		}
		out = append(out, item)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func writeAll[T domain.Element](b *bolt.Bucket, items []T) error {
	for _, item := range items {
		data, err := json.Marshal(item)
		if err != nil {
			return err
		}
		id := item.GetID()
		if err := b.Put(id[:], data); err != nil {
			return err
		}
	}
	return nil
}
