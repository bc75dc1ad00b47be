package library

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mmcdole/avalon/internal/adapter"
	"github.com/mmcdole/avalon/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, src domain.RecordSource) *Service {
	t.Helper()
	return NewService(src, adapter.NullLogger())
}

func TestNotReadyBeforeReload(t *testing.T) {
	svc := newTestService(t, newMemSource(greenDay...))

	assert.False(t, svc.Ready())
	_, err := svc.Songs(Filter{})
	assert.ErrorIs(t, err, domain.ErrNotReady)
	_, err = svc.Stats()
	assert.ErrorIs(t, err, domain.ErrNotReady)
}

func TestReload(t *testing.T) {
	svc := newTestService(t, newMemSource(mixed...))

	stats, err := svc.Reload(context.Background())
	require.NoError(t, err)
	assert.True(t, svc.Ready())

	assert.Equal(t, 5, stats.Tracks)
	assert.Equal(t, 3, stats.Albums)
	assert.Equal(t, 2, stats.Artists)
	assert.Equal(t, 3, stats.Genres)
	assert.Greater(t, stats.TrieNodes, 0)
	assert.False(t, stats.LoadedAt.IsZero())

	live, err := svc.Stats()
	require.NoError(t, err)
	assert.Equal(t, stats, live)
}

func TestReloadFailureKeepsPreviousGeneration(t *testing.T) {
	src := newMemSource(greenDay...)
	svc := newTestService(t, src)
	_, err := svc.Reload(context.Background())
	require.NoError(t, err)

	// The new data never becomes visible because the read fails
	require.NoError(t, src.ReplaceAll(context.Background(), domain.BuildRecords(mixed)))
	src.setFail("read")

	_, err = svc.Reload(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrReloadFailed)
	assert.ErrorIs(t, err, errSourceDown)
	assert.Contains(t, err.Error(), "failed to fetch collection")

	songs, err := svc.Songs(Filter{})
	require.NoError(t, err)
	assert.Equal(t, 3, songs.Len())

	src.setFail("")
	_, err = svc.Reload(context.Background())
	require.NoError(t, err)
	songs, err = svc.Songs(Filter{})
	require.NoError(t, err)
	assert.Equal(t, 5, songs.Len())
}

func TestReloadFailureBeforeFirstLoad(t *testing.T) {
	src := newMemSource(greenDay...)
	src.setFail("read")
	svc := newTestService(t, src)

	_, err := svc.Reload(context.Background())
	assert.ErrorIs(t, err, domain.ErrReloadFailed)
	assert.False(t, svc.Ready())
}

func TestHeldResultsSurviveReload(t *testing.T) {
	src := newMemSource(mixed...)
	svc := newTestService(t, src)
	_, err := svc.Reload(context.Background())
	require.NoError(t, err)

	held, err := svc.Songs(Filter{Artist: Some("Operation Ivy")})
	require.NoError(t, err)
	require.Equal(t, 2, held.Len())

	require.NoError(t, src.ReplaceAll(context.Background(), domain.BuildRecords(greenDay)))
	_, err = svc.Reload(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, held.Len())
	now, err := svc.Songs(Filter{Artist: Some("Operation Ivy")})
	require.NoError(t, err)
	assert.True(t, now.Empty())
}

func TestConcurrentReloadsShareOneFlight(t *testing.T) {
	src := newMemSource(greenDay...)
	src.gate = make(chan struct{})
	svc := newTestService(t, src)

	const callers = 5
	var wg sync.WaitGroup
	var started sync.WaitGroup
	started.Add(callers)
	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			started.Done()
			stats, err := svc.Reload(context.Background())
			assert.NoError(t, err)
			assert.Equal(t, 3, stats.Tracks)
		}()
	}
	started.Wait()

	// Let the first fetch finish once at least one flight is underway
	require.Eventually(t, func() bool { return src.fetches.Load() >= 1 }, timeout, tick)
	close(src.gate)
	wg.Wait()

	assert.LessOrEqual(t, int(src.fetches.Load()), callers)
	assert.True(t, svc.Ready())
}

func TestWriteDuringReloadPublishesOneRecordSet(t *testing.T) {
	src := newMemSource(greenDay...)
	src.gate = make(chan struct{})
	svc := newTestService(t, src)

	type result struct {
		stats Stats
		err   error
	}
	done := make(chan result, 1)
	go func() {
		stats, err := svc.Reload(context.Background())
		done <- result{stats, err}
	}()

	// The reload has read its records and is waiting to publish
	require.Eventually(t, func() bool { return src.fetches.Load() >= 1 }, timeout, tick)
	require.NoError(t, src.ReplaceAll(context.Background(), domain.BuildRecords(mixed)))
	close(src.gate)

	res := <-done
	require.NoError(t, res.err)
	assert.Equal(t, 3, res.stats.Tracks)
	assert.Equal(t, 2, res.stats.Albums)
	assert.Equal(t, 1, res.stats.Artists)

	albums, err := svc.Albums(Filter{})
	require.NoError(t, err)
	albumIDs := make(map[uuid.UUID]bool)
	for a := range albums.All() {
		albumIDs[a.ID] = true
	}

	songs, err := svc.Songs(Filter{})
	require.NoError(t, err)
	require.Equal(t, 3, songs.Len())
	for track := range songs.All() {
		assert.True(t, albumIDs[track.AlbumID], track.Name)

		byAlbum, err := svc.Songs(Filter{AlbumID: Some(track.AlbumID)})
		require.NoError(t, err)
		assert.True(t, byAlbum.Contains(track), track.Name)

		byArtist, err := svc.Songs(Filter{ArtistID: Some(track.ArtistID)})
		require.NoError(t, err)
		assert.True(t, byArtist.Contains(track), track.Name)
	}
	ivy, err := svc.Songs(Filter{Artist: Some("Operation Ivy")})
	require.NoError(t, err)
	assert.True(t, ivy.Empty())

	stats, err := svc.Reload(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, stats.Tracks)
	ivy, err = svc.Songs(Filter{Artist: Some("Operation Ivy")})
	require.NoError(t, err)
	assert.Equal(t, 2, ivy.Len())
	energy, err := svc.Songs(Filter{Album: Some("Energy")})
	require.NoError(t, err)
	assert.Equal(t, 2, energy.Len())
}

func TestRescanDuringReloadPublishesItsWrite(t *testing.T) {
	src := newMemSource(greenDay...)
	src.gate = make(chan struct{})
	src.gateFirst = true
	svc := newTestService(t, src)

	type result struct {
		stats Stats
		err   error
	}
	stale := make(chan result, 1)
	go func() {
		stats, err := svc.Reload(context.Background())
		stale <- result{stats, err}
	}()
	require.Eventually(t, func() bool { return src.fetches.Load() >= 1 }, timeout, tick)

	rescanned := make(chan result, 1)
	go func() {
		stats, err := svc.Rescan(context.Background(), &fakeScanner{scanned: mixed}, "/music", src)
		rescanned <- result{stats, err}
	}()

	var res result
	select {
	case res = <-rescanned:
	case <-time.After(timeout):
		close(src.gate)
		t.Fatal("rescan waited on a reload that started before its write")
	}
	require.NoError(t, res.err)
	assert.Equal(t, 5, res.stats.Tracks)

	// The older reload finishes last and must not replace the rescan's records
	close(src.gate)
	res = <-stale
	require.NoError(t, res.err)
	assert.Equal(t, 5, res.stats.Tracks)

	live, err := svc.Stats()
	require.NoError(t, err)
	assert.Equal(t, 5, live.Tracks)
	ivy, err := svc.Songs(Filter{Artist: Some("Operation Ivy")})
	require.NoError(t, err)
	assert.Equal(t, 2, ivy.Len())
}

func TestReloadIgnoresCallerCancellation(t *testing.T) {
	svc := newTestService(t, newMemSource(greenDay...))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Reload(ctx)
	require.NoError(t, err)
	assert.True(t, svc.Ready())
}

func TestRescan(t *testing.T) {
	src := newMemSource()
	svc := newTestService(t, src)
	scanner := &fakeScanner{scanned: mixed}

	stats, err := svc.Rescan(context.Background(), scanner, "/music", src)
	require.NoError(t, err)
	assert.Equal(t, "/music", scanner.root)
	assert.Equal(t, 5, stats.Tracks)

	songs, err := svc.Songs(Filter{Genre: Some("punk")})
	require.NoError(t, err)
	assert.Equal(t, 3, songs.Len())
}

func TestRescanFailures(t *testing.T) {
	src := newMemSource(greenDay...)
	svc := newTestService(t, src)
	_, err := svc.Reload(context.Background())
	require.NoError(t, err)

	_, err = svc.Rescan(context.Background(), &fakeScanner{err: errSourceDown}, "/music", src)
	assert.ErrorIs(t, err, errSourceDown)
	assert.Contains(t, err.Error(), "failed to scan collection")

	src.setFail("write")
	_, err = svc.Rescan(context.Background(), &fakeScanner{scanned: mixed}, "/music", src)
	assert.ErrorIs(t, err, errSourceDown)
	assert.Contains(t, err.Error(), "failed to store collection")

	stats, err := svc.Stats()
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Tracks)
}
