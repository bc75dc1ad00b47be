package search

import (
	"github.com/google/uuid"
	"github.com/mmcdole/avalon/internal/domain"
	"github.com/mmcdole/avalon/internal/set"
)

// TrackLookup is the track grouping the index joins against when a term
// matches an album, artist, or genre name.
type TrackLookup interface {
	All() set.Set[domain.Track]
	ByAlbum(id uuid.UUID) set.Set[domain.Track]
	ByArtist(id uuid.UUID) set.Set[domain.Track]
	ByGenre(id uuid.UUID) set.Set[domain.Track]
}

// Index is one immutable generation of the four name tries. It is built off
// to the side by Build and never modified afterward, so any number of
// goroutines may search it while a newer generation is being built.
type Index struct {
	albums  catalog[domain.Album]
	artists catalog[domain.Artist]
	genres  catalog[domain.Genre]
	tracks  catalog[domain.Track]
	lookup  TrackLookup
}

// Build tokenizes the name of every element and indexes it in the trie for
// its type. Tracks are indexed by their own name only; album, artist, and
// genre matches are joined in at search time through lookup.
func Build(albums set.Set[domain.Album], artists set.Set[domain.Artist], genres set.Set[domain.Genre], lookup TrackLookup) *Index {
	return &Index{
		albums:  newCatalog(albums),
		artists: newCatalog(artists),
		genres:  newCatalog(genres),
		tracks:  newCatalog(lookup.All()),
		lookup:  lookup,
	}
}

// SearchAlbums returns albums with a name token starting with term
func (ix *Index) SearchAlbums(term string) set.Set[domain.Album] {
	return ix.albums.search(term)
}

// SearchArtists returns artists with a name token starting with term
func (ix *Index) SearchArtists(term string) set.Set[domain.Artist] {
	return ix.artists.search(term)
}

// SearchGenres returns genres with a name token starting with term
func (ix *Index) SearchGenres(term string) set.Set[domain.Genre] {
	return ix.genres.search(term)
}

// SearchTracks returns the union of tracks whose own name matches term and
// tracks belonging to a matching album, artist, or genre.
func (ix *Index) SearchTracks(term string) set.Set[domain.Track] {
	matches := []set.Set[domain.Track]{ix.tracks.search(term)}

	for album := range ix.SearchAlbums(term).All() {
		matches = append(matches, ix.lookup.ByAlbum(album.ID))
	}
	for artist := range ix.SearchArtists(term).All() {
		matches = append(matches, ix.lookup.ByArtist(artist.ID))
	}
	for genre := range ix.SearchGenres(term).All() {
		matches = append(matches, ix.lookup.ByGenre(genre.ID))
	}

	return set.Union(matches...)
}

// Nodes returns the total node count across the four tries
func (ix *Index) Nodes() int {
	return ix.albums.trie.Nodes() + ix.artists.trie.Nodes() +
		ix.genres.trie.Nodes() + ix.tracks.trie.Nodes()
}

// catalog pairs a trie of positions with the elements they refer to.
// Trie members are indexes into items.
type catalog[T domain.Element] struct {
	items []T
	trie  *Trie[uint32]
}

func newCatalog[T domain.Element](elems set.Set[T]) catalog[T] {
	c := catalog[T]{
		items: elems.Slice(),
		trie:  NewTrie[uint32](),
	}
	for i, item := range c.items {
		for token := range Tokenize(item.GetName()).All() {
			c.trie.Insert(token, uint32(i))
		}
	}
	return c
}

func (c catalog[T]) search(term string) set.Set[T] {
	refs := c.trie.Search(searchable(term))
	if refs.Empty() {
		return set.Set[T]{}
	}
	var b set.Builder[T]
	for ref := range refs.All() {
		b.Add(c.items[ref])
	}
	return b.Build()
}
