package library

import (
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/mmcdole/avalon/internal/cache"
	"github.com/mmcdole/avalon/internal/domain"
	"github.com/mmcdole/avalon/internal/search"
)

// Service is the in-memory music collection: Commands rebuild it from the
// record store and Queries answer reads against whichever generation is
// live when the read starts.
type Service struct {
	*Commands
	*Queries
}

// NewService creates a service with no live generation. Queries fail with
// domain.ErrNotReady until the first successful Reload.
func NewService(source domain.RecordSource, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	live := &collection{}
	return &Service{
		Commands: &Commands{source: source, live: live, logger: logger},
		Queries:  &Queries{live: live},
	}
}

// Stats describes one loaded generation
type Stats struct {
	Tracks    int
	Albums    int
	Artists   int
	Genres    int
	TrieNodes int
	LoadedAt  time.Time
	Duration  time.Duration
}

// collection holds the live generation pointer shared by Commands and Queries
type collection struct {
	current atomic.Pointer[generation]
}

func (c *collection) load() (*generation, error) {
	g := c.current.Load()
	if g == nil {
		return nil, domain.ErrNotReady
	}
	return g, nil
}

// publish makes g live unless a generation read after a later write is
// already live, and returns whichever generation is live afterward.
func (c *collection) publish(g *generation) *generation {
	for {
		cur := c.current.Load()
		if cur != nil && cur.version > g.version {
			return cur
		}
		if c.current.CompareAndSwap(cur, g) {
			return g
		}
	}
}

// generation is every derived view of one record set. It is fully built
// before being published and never modified afterward.
type generation struct {
	albums  *cache.Snapshot[domain.Album]
	artists *cache.Snapshot[domain.Artist]
	genres  *cache.Snapshot[domain.Genre]
	tracks  *cache.TrackSnapshot
	names   *cache.Names
	index   *search.Index
	stats   Stats
	version uint64 // Ingest count when the read began
}

func newGeneration(recs domain.Records) *generation {
	g := &generation{
		albums:  cache.NewSnapshot(recs.Albums),
		artists: cache.NewSnapshot(recs.Artists),
		genres:  cache.NewSnapshot(recs.Genres),
		tracks:  cache.NewTrackSnapshot(recs.Tracks),
		names:   cache.NewNames(recs.Albums, recs.Artists, recs.Genres),
	}
	g.index = search.Build(g.albums.All(), g.artists.All(), g.genres.All(), g.tracks)
	g.stats = Stats{
		Tracks:    g.tracks.Len(),
		Albums:    g.albums.Len(),
		Artists:   g.artists.Len(),
		Genres:    g.genres.Len(),
		TrieNodes: g.index.Nodes(),
	}
	return g
}
