package search

import (
	"slices"
	"testing"

	"github.com/google/uuid"
	"github.com/mmcdole/avalon/internal/domain"
	"github.com/mmcdole/avalon/internal/set"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTracks groups tracks by related ID on the fly
type fakeTracks []domain.Track

func (f fakeTracks) All() set.Set[domain.Track] { return set.Of(f...) }

func (f fakeTracks) filter(keep func(domain.Track) bool) set.Set[domain.Track] {
	var b set.Builder[domain.Track]
	for _, t := range f {
		if keep(t) {
			b.Add(t)
		}
	}
	return b.Build()
}

func (f fakeTracks) ByAlbum(id uuid.UUID) set.Set[domain.Track] {
	return f.filter(func(t domain.Track) bool { return t.AlbumID == id })
}

func (f fakeTracks) ByArtist(id uuid.UUID) set.Set[domain.Track] {
	return f.filter(func(t domain.Track) bool { return t.ArtistID == id })
}

func (f fakeTracks) ByGenre(id uuid.UUID) set.Set[domain.Track] {
	return f.filter(func(t domain.Track) bool { return t.GenreID == id })
}

func greenDayIndex(t *testing.T) *Index {
	t.Helper()
	recs := domain.BuildRecords([]domain.Metadata{
		{Path: "/music/1.mp3", Title: "Basket Case", Album: "Dookie", Artist: "Green Day", Genre: "Punk"},
		{Path: "/music/2.mp3", Title: "Longview", Album: "Dookie", Artist: "Green Day", Genre: "Punk"},
		{Path: "/music/3.mp3", Title: "Hurry Up and Wait", Album: "Sawdust", Artist: "Green Day", Genre: "Punk Rock"},
	})
	require.Len(t, recs.Tracks, 3)

	return Build(set.Of(recs.Albums...), set.Of(recs.Artists...), set.Of(recs.Genres...), fakeTracks(recs.Tracks))
}

func trackNames(s set.Set[domain.Track]) []string {
	var out []string
	for tr := range s.All() {
		out = append(out, tr.Name)
	}
	slices.Sort(out)
	return out
}

func names[T domain.Element](s set.Set[T]) []string {
	var out []string
	for v := range s.All() {
		out = append(out, v.GetName())
	}
	slices.Sort(out)
	return out
}

func TestSearchTracksViaAlbum(t *testing.T) {
	ix := greenDayIndex(t)
	assert.Equal(t, []string{"Basket Case", "Longview"}, trackNames(ix.SearchTracks("dookie")))
	assert.Equal(t, []string{"Basket Case", "Longview"}, trackNames(ix.SearchTracks("DOOK")))
}

func TestSearchTracksViaArtistAndName(t *testing.T) {
	ix := greenDayIndex(t)
	assert.Equal(t, []string{"Basket Case", "Hurry Up and Wait", "Longview"}, trackNames(ix.SearchTracks("green day")))
	assert.Equal(t, []string{"Hurry Up and Wait"}, trackNames(ix.SearchTracks("wait")))
	assert.Equal(t, []string{"Basket Case"}, trackNames(ix.SearchTracks("case")))
	assert.Empty(t, trackNames(ix.SearchTracks("basket longview")))
}

func TestSearchGenresTrailingSuffix(t *testing.T) {
	ix := greenDayIndex(t)
	assert.Equal(t, []string{"Punk Rock"}, names(ix.SearchGenres("Rock")))
	assert.Equal(t, []string{"Punk", "Punk Rock"}, names(ix.SearchGenres("punk")))
	assert.Equal(t, []string{"Hurry Up and Wait"}, trackNames(ix.SearchTracks("rock")))
}

func TestSearchEntities(t *testing.T) {
	ix := greenDayIndex(t)
	assert.Equal(t, []string{"Sawdust"}, names(ix.SearchAlbums("saw")))
	assert.Equal(t, []string{"Green Day"}, names(ix.SearchArtists("day")))
	assert.Empty(t, names(ix.SearchArtists("")))
	assert.Empty(t, names(ix.SearchAlbums("nimrod")))
	assert.Greater(t, ix.Nodes(), 4)
}

func TestBuildEmpty(t *testing.T) {
	ix := Build(set.Set[domain.Album]{}, set.Set[domain.Artist]{}, set.Set[domain.Genre]{}, fakeTracks(nil))
	assert.True(t, ix.SearchTracks("a").Empty())
	assert.Equal(t, 4, ix.Nodes())
}
