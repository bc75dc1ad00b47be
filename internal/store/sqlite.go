//go:build cgo

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
	"github.com/mmcdole/avalon/internal/domain"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS albums (
	id   TEXT PRIMARY KEY,
	name TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS artists (
	id   TEXT PRIMARY KEY,
	name TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS genres (
	id   TEXT PRIMARY KEY,
	name TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS tracks (
	id           TEXT PRIMARY KEY,
	name         TEXT NOT NULL,
	length       INTEGER NOT NULL,
	track_number INTEGER NOT NULL,
	year         INTEGER NOT NULL,
	album_id     TEXT NOT NULL REFERENCES albums(id),
	artist_id    TEXT NOT NULL REFERENCES artists(id),
	genre_id     TEXT NOT NULL REFERENCES genres(id)
);`

// SQLiteStore implements domain.Store on a relational schema. Tracks
// reference their album, artist, and genre rows and are joined back into
// denormalized records on read.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens the database at path and applies the schema
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, errors.New("open sqlite: path is empty")
	}

	// Readers wait for a concurrent ReplaceAll instead of failing with SQLITE_BUSY
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply sqlite schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// querier is satisfied by both *sql.DB and *sql.Tx
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// GetAll reads all four tables inside one read-only transaction
func (s *SQLiteStore) GetAll(ctx context.Context) (domain.Records, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return domain.Records{}, fmt.Errorf("begin read txn: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var recs domain.Records
	if recs.Albums, err = queryEntities(ctx, tx, "albums", newAlbum); err != nil {
		return domain.Records{}, err
	}
	if recs.Artists, err = queryEntities(ctx, tx, "artists", newArtist); err != nil {
		return domain.Records{}, err
	}
	if recs.Genres, err = queryEntities(ctx, tx, "genres", newGenre); err != nil {
		return domain.Records{}, err
	}
	if recs.Tracks, err = queryTracks(ctx, tx); err != nil {
		return domain.Records{}, err
	}
	return recs, nil
}

func (s *SQLiteStore) GetAllAlbums(ctx context.Context) ([]domain.Album, error) {
	return queryEntities(ctx, s.db, "albums", newAlbum)
}

func (s *SQLiteStore) GetAllArtists(ctx context.Context) ([]domain.Artist, error) {
	return queryEntities(ctx, s.db, "artists", newArtist)
}

func (s *SQLiteStore) GetAllGenres(ctx context.Context) ([]domain.Genre, error) {
	return queryEntities(ctx, s.db, "genres", newGenre)
}

func (s *SQLiteStore) GetAllTracks(ctx context.Context) ([]domain.Track, error) {
	return queryTracks(ctx, s.db)
}

func newAlbum(id uuid.UUID, name string) domain.Album   { return domain.Album{ID: id, Name: name} }
func newArtist(id uuid.UUID, name string) domain.Artist { return domain.Artist{ID: id, Name: name} }
func newGenre(id uuid.UUID, name string) domain.Genre   { return domain.Genre{ID: id, Name: name} }

func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM tracks").Scan(&count)
	return count, err
}

// ReplaceAll deletes every row and inserts recs in one transaction
func (s *SQLiteStore) ReplaceAll(ctx context.Context, recs domain.Records) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace txn: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"tracks", "albums", "artists", "genres"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	if err := insertEntities(ctx, tx, "albums", recs.Albums); err != nil {
		return err
	}
	if err := insertEntities(ctx, tx, "artists", recs.Artists); err != nil {
		return err
	}
	if err := insertEntities(ctx, tx, "genres", recs.Genres); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO tracks
		(id, name, length, track_number, year, album_id, artist_id, genre_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare tracks insert: %w", err)
	}
	defer stmt.Close()

	for _, t := range recs.Tracks {
		_, err := stmt.ExecContext(ctx,
			t.ID.String(), t.Name, t.Length, t.TrackNumber, t.Year,
			t.AlbumID.String(), t.ArtistID.String(), t.GenreID.String(),
		)
		if err != nil {
			return fmt.Errorf("insert track %s: %w", t.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace txn: %w", err)
	}
	return nil
}

func queryTracks(ctx context.Context, q querier) ([]domain.Track, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT t.id, t.name, t.length, t.track_number, t.year,
		       al.id, al.name, ar.id, ar.name, g.id, g.name
		FROM tracks t
		JOIN albums al ON al.id = t.album_id
		JOIN artists ar ON ar.id = t.artist_id
		JOIN genres g ON g.id = t.genre_id`)
	if err != nil {
		return nil, fmt.Errorf("query tracks: %w", err)
	}
	defer rows.Close()

	var tracks []domain.Track
	for rows.Next() {
		var t domain.Track
		err := rows.Scan(
			&t.ID, &t.Name, &t.Length, &t.TrackNumber, &t.Year,
			&t.AlbumID, &t.AlbumName, &t.ArtistID, &t.ArtistName, &t.GenreID, &t.GenreName,
		)
		if err != nil {
			return nil, fmt.Errorf("scan track: %w", err)
		}
		tracks = append(tracks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tracks: %w", err)
	}
	return tracks, nil
}

func queryEntities[T any](
	ctx context.Context,
	q querier,
	table string,
	build func(id uuid.UUID, name string) T,
) ([]T, error) {
	rows, err := q.QueryContext(ctx, "SELECT id, name FROM "+table)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		var (
			id   uuid.UUID
			name string
		)
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		out = append(out, build(id, name))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", table, err)
	}
	return out, nil
}

func insertEntities[T domain.Element](ctx context.Context, tx *sql.Tx, table string, items []T) error {
	stmt, err := tx.PrepareContext(ctx, "INSERT OR REPLACE INTO "+table+" (id, name) VALUES (?, ?)")
	if err != nil {
		return fmt.Errorf("prepare %s insert: %w", table, err)
	}
	defer stmt.Close()

	for _, item := range items {
		if _, err := stmt.ExecContext(ctx, item.GetID().String(), item.GetName()); err != nil {
			return fmt.Errorf("insert %s %s: %w", table, item.GetID(), err)
		}
	}
	return nil
}
