// Package ids derives stable identifiers for albums, artists, genres, and
// tracks. Identifiers are name-based UUIDs (version 5) so the same name always
// yields the same ID across rescans and process restarts, which lets caches
// translate names to IDs without a live foreign-key join.
package ids

import (
	"strings"

	"github.com/google/uuid"
)

// Per-entity namespaces. Changing any of these changes every stored ID.
var (
	NamespaceAlbums  = uuid.MustParse("7655e605-6eaa-40d8-a25f-5c6c92a4d31a")
	NamespaceArtists = uuid.MustParse("fe4df0f6-2c55-4ba6-acf3-134eae3e710e")
	NamespaceGenres  = uuid.MustParse("dd8dbd9c-8ed7-4719-80c5-71d978665dd0")
	NamespaceTracks  = uuid.MustParse("4151ace3-6a98-41cd-a3de-8c242654cb67")
)

// Derive returns the name-based identifier of value within namespace.
func Derive(namespace uuid.UUID, value string) uuid.UUID {
	return uuid.NewSHA1(namespace, []byte(value))
}

// AlbumID generates an ID from the album name (case insensitive)
func AlbumID(name string) uuid.UUID {
	return Derive(NamespaceAlbums, strings.ToLower(name))
}

// ArtistID generates an ID from the artist name (case insensitive)
func ArtistID(name string) uuid.UUID {
	return Derive(NamespaceArtists, strings.ToLower(name))
}

// GenreID generates an ID from the genre name (case insensitive)
func GenreID(name string) uuid.UUID {
	return Derive(NamespaceGenres, strings.ToLower(name))
}

// TrackID generates an ID from the path of the audio file (case sensitive)
func TrackID(path string) uuid.UUID {
	return Derive(NamespaceTracks, path)
}
