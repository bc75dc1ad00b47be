package domain

import (
	"github.com/google/uuid"
	"github.com/mmcdole/avalon/internal/ids"
)

// Metadata is the tag information read from one audio file during a scan
type Metadata struct {
	Path        string // Absolute path, source of the track ID
	Title       string
	Album       string
	Artist      string
	Genre       string
	TrackNumber int
	Year        int
	Length      int // Seconds
}

// BuildRecords derives stable IDs for every scanned file and produces the
// album, artist, genre, and denormalized track rows for one collection
// generation. Albums, artists, and genres are deduplicated by ID; the first
// spelling seen for an ID is the one stored.
func BuildRecords(scanned []Metadata) Records {
	albums := newDedup[Album]()
	artists := newDedup[Artist]()
	genres := newDedup[Genre]()

	tracks := make([]Track, 0, len(scanned))
	seenTracks := make(map[uuid.UUID]bool, len(scanned))

	for _, m := range scanned {
		album := albums.add(ids.AlbumID(m.Album), func(id uuid.UUID) Album {
			return Album{ID: id, Name: m.Album}
		})
		artist := artists.add(ids.ArtistID(m.Artist), func(id uuid.UUID) Artist {
			return Artist{ID: id, Name: m.Artist}
		})
		genre := genres.add(ids.GenreID(m.Genre), func(id uuid.UUID) Genre {
			return Genre{ID: id, Name: m.Genre}
		})

		id := ids.TrackID(m.Path)
		if seenTracks[id] {
			continue
		}
		seenTracks[id] = true

		tracks = append(tracks, Track{
			ID:          id,
			Name:        m.Title,
			Length:      m.Length,
			TrackNumber: m.TrackNumber,
			Year:        m.Year,
			AlbumID:     album.ID,
			AlbumName:   album.Name,
			ArtistID:    artist.ID,
			ArtistName:  artist.Name,
			GenreID:     genre.ID,
			GenreName:   genre.Name,
		})
	}

	return Records{
		Albums:  albums.items,
		Artists: artists.items,
		Genres:  genres.items,
		Tracks:  tracks,
	}
}

// dedup keeps the first value seen for each ID in insertion order
type dedup[T any] struct {
	byID  map[uuid.UUID]T
	items []T
}

func newDedup[T any]() *dedup[T] {
	return &dedup[T]{byID: make(map[uuid.UUID]T)}
}

func (d *dedup[T]) add(id uuid.UUID, build func(uuid.UUID) T) T {
	if v, ok := d.byID[id]; ok {
		return v
	}
	v := build(id)
	d.byID[id] = v
	d.items = append(d.items, v)
	return v
}
