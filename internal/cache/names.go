package cache

import (
	"strings"

	"github.com/google/uuid"
	"github.com/mmcdole/avalon/internal/domain"
)

// Names resolves album, artist, and genre names to their IDs. Lookups are
// case-insensitive; a miss is reported through the ok result, never an error.
type Names struct {
	albums  map[string]uuid.UUID
	artists map[string]uuid.UUID
	genres  map[string]uuid.UUID
}

// NewNames builds the resolution table from one generation's entities
func NewNames(albums []domain.Album, artists []domain.Artist, genres []domain.Genre) *Names {
	return &Names{
		albums:  nameIndex(albums),
		artists: nameIndex(artists),
		genres:  nameIndex(genres),
	}
}

// AlbumID returns the ID of the album with the given name
func (n *Names) AlbumID(name string) (uuid.UUID, bool) {
	id, ok := n.albums[nameKey(name)]
	return id, ok
}

// ArtistID returns the ID of the artist with the given name
func (n *Names) ArtistID(name string) (uuid.UUID, bool) {
	id, ok := n.artists[nameKey(name)]
	return id, ok
}

// GenreID returns the ID of the genre with the given name
func (n *Names) GenreID(name string) (uuid.UUID, bool) {
	id, ok := n.genres[nameKey(name)]
	return id, ok
}

// nameKey matches the case folding used to derive entity IDs, so two names
// resolve to the same key exactly when they share an ID.
func nameKey(name string) string {
	return strings.ToLower(name)
}

func nameIndex[T domain.Element](items []T) map[string]uuid.UUID {
	m := make(map[string]uuid.UUID, len(items))
	for _, it := range items {
		m[nameKey(it.GetName())] = it.GetID()
	}
	return m
}
