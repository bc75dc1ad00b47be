package cache

import (
	"github.com/google/uuid"
	"github.com/mmcdole/avalon/internal/domain"
	"github.com/mmcdole/avalon/internal/set"
)

// TrackSnapshot is a track Snapshot plus frozen groupings by album, artist,
// and genre ID.
type TrackSnapshot struct {
	*Snapshot[domain.Track]

	byAlbum  map[uuid.UUID]set.Set[domain.Track]
	byArtist map[uuid.UUID]set.Set[domain.Track]
	byGenre  map[uuid.UUID]set.Set[domain.Track]
}

// NewTrackSnapshot builds the track snapshot and its groupings
func NewTrackSnapshot(tracks []domain.Track) *TrackSnapshot {
	snap := NewSnapshot(tracks)

	albums := make(map[uuid.UUID]*set.Builder[domain.Track])
	artists := make(map[uuid.UUID]*set.Builder[domain.Track])
	genres := make(map[uuid.UUID]*set.Builder[domain.Track])

	for t := range snap.All().All() {
		group(albums, t.AlbumID, t)
		group(artists, t.ArtistID, t)
		group(genres, t.GenreID, t)
	}

	return &TrackSnapshot{
		Snapshot: snap,
		byAlbum:  freeze(albums),
		byArtist: freeze(artists),
		byGenre:  freeze(genres),
	}
}

// ByAlbum returns the tracks on the album, or an empty set
func (s *TrackSnapshot) ByAlbum(id uuid.UUID) set.Set[domain.Track] {
	return s.byAlbum[id]
}

// ByArtist returns the tracks by the artist, or an empty set
func (s *TrackSnapshot) ByArtist(id uuid.UUID) set.Set[domain.Track] {
	return s.byArtist[id]
}

// ByGenre returns the tracks tagged with the genre, or an empty set
func (s *TrackSnapshot) ByGenre(id uuid.UUID) set.Set[domain.Track] {
	return s.byGenre[id]
}

func group(groups map[uuid.UUID]*set.Builder[domain.Track], key uuid.UUID, t domain.Track) {
	b, ok := groups[key]
	if !ok {
		b = &set.Builder[domain.Track]{}
		groups[key] = b
	}
	b.Add(t)
}

func freeze(groups map[uuid.UUID]*set.Builder[domain.Track]) map[uuid.UUID]set.Set[domain.Track] {
	out := make(map[uuid.UUID]set.Set[domain.Track], len(groups))
	for k, b := range groups {
		out[k] = b.Build()
	}
	return out
}
