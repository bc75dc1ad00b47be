package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// Kind distinguishes the entity types stored in the collection
type Kind int

const (
	KindAlbum Kind = iota
	KindArtist
	KindGenre
	KindTrack
)

// String returns the lowercase name of the kind
func (k Kind) String() string {
	switch k {
	case KindAlbum:
		return "album"
	case KindArtist:
		return "artist"
	case KindGenre:
		return "genre"
	case KindTrack:
		return "track"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Album is an album name and its stable identifier
type Album struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// Artist is an artist name and its stable identifier
type Artist struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// Genre is a genre name and its stable identifier
type Genre struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// Track is a denormalized view of a single audio file joined to its album,
// artist, and genre when the snapshot is built. All fields are comparable so
// a Track can be used directly as a set member or map key.
type Track struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Length      int       `json:"length"` // Seconds
	TrackNumber int       `json:"track"`
	Year        int       `json:"year"`
	AlbumID     uuid.UUID `json:"album_id"`
	AlbumName   string    `json:"album"`
	ArtistID    uuid.UUID `json:"artist_id"`
	ArtistName  string    `json:"artist"`
	GenreID     uuid.UUID `json:"genre_id"`
	GenreName   string    `json:"genre"`
}

// Element implementation for Album, Artist, Genre, and Track

func (a Album) GetID() uuid.UUID { return a.ID }
func (a Album) GetName() string  { return a.Name }
func (a Album) GetKind() Kind    { return KindAlbum }

func (a Artist) GetID() uuid.UUID { return a.ID }
func (a Artist) GetName() string  { return a.Name }
func (a Artist) GetKind() Kind    { return KindArtist }

func (g Genre) GetID() uuid.UUID { return g.ID }
func (g Genre) GetName() string  { return g.Name }
func (g Genre) GetKind() Kind    { return KindGenre }

func (t Track) GetID() uuid.UUID { return t.ID }
func (t Track) GetName() string  { return t.Name }
func (t Track) GetKind() Kind    { return KindTrack }

// FormattedLength returns the track length as m:ss
func (t Track) FormattedLength() string {
	return fmt.Sprintf("%d:%02d", t.Length/60, t.Length%60)
}
