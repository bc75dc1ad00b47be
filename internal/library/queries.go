package library

import (
	"github.com/google/uuid"
	"github.com/mmcdole/avalon/internal/domain"
	"github.com/mmcdole/avalon/internal/set"
)

// Filter is the retrieval criteria for a query. Each criterion that is Set
// contributes one candidate set; the result is their intersection.
type Filter struct {
	Query    Optional[string]
	Album    Optional[string]
	Artist   Optional[string]
	Genre    Optional[string]
	AlbumID  Optional[uuid.UUID]
	ArtistID Optional[uuid.UUID]
	GenreID  Optional[uuid.UUID]
}

// Queries provides lock-free reads of the live generation.
type Queries struct {
	live *collection
}

// Ready reports whether a generation has been published
func (q *Queries) Ready() bool {
	_, err := q.live.load()
	return err == nil
}

// Stats describes the live generation
func (q *Queries) Stats() (Stats, error) {
	g, err := q.live.load()
	if err != nil {
		return Stats{}, err
	}
	return g.stats, nil
}

// === Retrieval (unordered sets) ===

// Albums returns all albums, or those matching f.Query when it is set
func (q *Queries) Albums(f Filter) (set.Set[domain.Album], error) {
	g, err := q.live.load()
	if err != nil {
		return set.Set[domain.Album]{}, err
	}
	if !f.Query.Set {
		return g.albums.All(), nil
	}
	return g.index.SearchAlbums(f.Query.Value), nil
}

// Artists returns all artists, or those matching f.Query when it is set
func (q *Queries) Artists(f Filter) (set.Set[domain.Artist], error) {
	g, err := q.live.load()
	if err != nil {
		return set.Set[domain.Artist]{}, err
	}
	if !f.Query.Set {
		return g.artists.All(), nil
	}
	return g.index.SearchArtists(f.Query.Value), nil
}

// Genres returns all genres, or those matching f.Query when it is set
func (q *Queries) Genres(f Filter) (set.Set[domain.Genre], error) {
	g, err := q.live.load()
	if err != nil {
		return set.Set[domain.Genre]{}, err
	}
	if !f.Query.Set {
		return g.genres.All(), nil
	}
	return g.index.SearchGenres(f.Query.Value), nil
}

// Songs returns the tracks matching every criterion set in f, or all tracks
// when none is. A name that resolves to nothing matches no tracks.
func (q *Queries) Songs(f Filter) (set.Set[domain.Track], error) {
	g, err := q.live.load()
	if err != nil {
		return set.Set[domain.Track]{}, err
	}
	return g.songs(f), nil
}

func (g *generation) songs(f Filter) set.Set[domain.Track] {
	var candidates []set.Set[domain.Track]
	add := func(s set.Set[domain.Track]) {
		candidates = append(candidates, s)
	}

	if f.Query.Set {
		add(g.index.SearchTracks(f.Query.Value))
	}
	if f.Album.Set {
		add(byName(g.names.AlbumID, g.tracks.ByAlbum, f.Album.Value))
	}
	if f.Artist.Set {
		add(byName(g.names.ArtistID, g.tracks.ByArtist, f.Artist.Value))
	}
	if f.Genre.Set {
		add(byName(g.names.GenreID, g.tracks.ByGenre, f.Genre.Value))
	}
	if f.AlbumID.Set {
		add(g.tracks.ByAlbum(f.AlbumID.Value))
	}
	if f.ArtistID.Set {
		add(g.tracks.ByArtist(f.ArtistID.Value))
	}
	if f.GenreID.Set {
		add(g.tracks.ByGenre(f.GenreID.Value))
	}

	if len(candidates) == 0 {
		return g.tracks.All()
	}
	return set.Intersection(candidates...)
}

func byName(
	resolve func(name string) (uuid.UUID, bool),
	group func(id uuid.UUID) set.Set[domain.Track],
	name string,
) set.Set[domain.Track] {
	id, ok := resolve(name)
	if !ok {
		return set.Set[domain.Track]{}
	}
	return group(id)
}

// === Request pipeline (filter, then sort and limit) ===

// GetAlbums returns the albums for a request, sorted and windowed
func (q *Queries) GetAlbums(p Params) ([]domain.Album, error) {
	return run(p, q.Albums, entityOrdering[domain.Album])
}

// GetArtists returns the artists for a request, sorted and windowed
func (q *Queries) GetArtists(p Params) ([]domain.Artist, error) {
	return run(p, q.Artists, entityOrdering[domain.Artist])
}

// GetGenres returns the genres for a request, sorted and windowed
func (q *Queries) GetGenres(p Params) ([]domain.Genre, error) {
	return run(p, q.Genres, entityOrdering[domain.Genre])
}

// GetSongs returns the tracks for a request, sorted and windowed
func (q *Queries) GetSongs(p Params) ([]domain.Track, error) {
	return run(p, q.Songs, trackOrdering)
}

func run[T domain.Element](
	p Params,
	retrieve func(Filter) (set.Set[T], error),
	ordering func(field string) (compareFunc[T], bool),
) ([]T, error) {
	filter, err := p.Filter()
	if err != nil {
		return nil, err
	}
	page, err := p.Page()
	if err != nil {
		return nil, err
	}
	results, err := retrieve(filter)
	if err != nil {
		return nil, err
	}
	return present(results, page, ordering)
}
